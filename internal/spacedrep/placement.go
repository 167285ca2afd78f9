package spacedrep

import (
	"fmt"
	"math/rand/v2"
)

// Placement selects how reinforcement reviews for already-learned lessons
// are spread over the consolidation phase.
type Placement string

const (
	// PlacementEven walks the phase day by day, wrapping around, so
	// reviews are spread round-robin. Fully deterministic.
	PlacementEven Placement = "even"

	// PlacementRandom picks a uniformly random day from a seeded source.
	// Reproducible for a fixed seed.
	PlacementRandom Placement = "random"
)

// ParsePlacement validates a placement name. The empty string selects
// PlacementEven.
func ParsePlacement(s string) (Placement, error) {
	switch Placement(s) {
	case "", PlacementEven:
		return PlacementEven, nil
	case PlacementRandom:
		return PlacementRandom, nil
	default:
		return "", fmt.Errorf("unknown review placement %q (want even or random)", s)
	}
}

// Placer picks a day offset within a span of days.
type Placer interface {
	// Next returns an offset in [0, span). span must be positive.
	Next(span int) int
}

// NewPlacer returns the placer for p. seed is only used by PlacementRandom.
func NewPlacer(p Placement, seed uint64) Placer {
	if p == PlacementRandom {
		return &randomPlacer{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
	}
	return &evenPlacer{}
}

type evenPlacer struct {
	n int
}

func (e *evenPlacer) Next(span int) int {
	off := e.n % span
	e.n++
	return off
}

type randomPlacer struct {
	r *rand.Rand
}

func (p *randomPlacer) Next(span int) int {
	return p.r.IntN(span)
}
