package planner

// Phase boundaries as fractions of the eligible-day horizon.
const (
	acquisitionShare   = 0.40
	consolidationShare = 0.80
	intensiveShare     = 0.95
)

// Phase numbers.
const (
	PhaseAcquisition   = 1 // new material
	PhaseConsolidation = 2 // overflow lessons, reinforcement, practice tests
	PhaseIntensive     = 3 // mock exams and weak-area drills
	PhaseTaper         = 4 // light review before the exam
)

// Phases splits a horizon of Total eligible days into four consecutive
// half-open ranges of day indexes:
//
//	phase 1: [0, Phase1End)
//	phase 2: [Phase1End, Phase2End)
//	phase 3: [Phase2End, Phase3End)
//	phase 4: [Phase3End, Total)
//
// Boundaries are derived from the current horizon on every call and are
// never persisted.
type Phases struct {
	Total     int
	Phase1End int
	Phase2End int
	Phase3End int
}

// ComputePhases returns the phase boundaries for a horizon of total days.
func ComputePhases(total int) Phases {
	if total < 0 {
		total = 0
	}
	return Phases{
		Total:     total,
		Phase1End: int(float64(total) * acquisitionShare),
		Phase2End: int(float64(total) * consolidationShare),
		Phase3End: int(float64(total) * intensiveShare),
	}
}

// PhaseOf returns the phase number of a day index, or 0 if the index is
// outside the horizon.
func (p Phases) PhaseOf(day int) int {
	switch {
	case day < 0 || day >= p.Total:
		return 0
	case day < p.Phase1End:
		return PhaseAcquisition
	case day < p.Phase2End:
		return PhaseConsolidation
	case day < p.Phase3End:
		return PhaseIntensive
	default:
		return PhaseTaper
	}
}

// Span returns the [start, end) day range of the given phase.
func (p Phases) Span(phase int) (start, end int) {
	switch phase {
	case PhaseAcquisition:
		return 0, p.Phase1End
	case PhaseConsolidation:
		return p.Phase1End, p.Phase2End
	case PhaseIntensive:
		return p.Phase2End, p.Phase3End
	case PhaseTaper:
		return p.Phase3End, p.Total
	default:
		return 0, 0
	}
}
