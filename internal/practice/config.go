package practice

import (
	"errors"
	"fmt"
)

// Config shapes a practice session.
type Config struct {
	// CardCount is the requested session length.
	CardCount int
	// MaxConsecutiveSameTopic caps runs of one topic. Zero disables the cap.
	MaxConsecutiveSameTopic int
	// PrioritizeLowMastery ranks the pool by priority score before
	// selection. When false the pool's due order is kept.
	PrioritizeLowMastery bool
	// MaxNewCards caps cards in state new. Negative disables the cap.
	MaxNewCards int
	// Priority scores cards. Nil selects DefaultPriority.
	Priority PriorityFunc
}

// DefaultConfig returns the standard mixed-practice session.
func DefaultConfig() Config {
	return Config{
		CardCount:               20,
		MaxConsecutiveSameTopic: 2,
		PrioritizeLowMastery:    true,
		MaxNewCards:             5,
	}
}

// Validate checks the numeric bounds of a config.
func (c Config) Validate() error {
	var errs []error
	if c.CardCount < 1 {
		errs = append(errs, fmt.Errorf("card count must be positive, got %d", c.CardCount))
	}
	if c.MaxConsecutiveSameTopic < 0 {
		errs = append(errs, fmt.Errorf("max consecutive same topic must not be negative, got %d", c.MaxConsecutiveSameTopic))
	}
	return errors.Join(errs...)
}

func (c Config) priority() PriorityFunc {
	if c.Priority != nil {
		return c.Priority
	}
	return DefaultPriority
}

func (c Config) newCardsAllowed(n int) bool {
	return c.MaxNewCards < 0 || n < c.MaxNewCards
}
