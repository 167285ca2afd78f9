package mastery

// LessonState is the planning classification of a lesson.
type LessonState string

const (
	StateNew     LessonState = "new"
	StateLearned LessonState = "learned"
	StateWeak    LessonState = "weak" // learned, but below WeakThreshold
)

const (
	// NewThreshold is the score below which a lesson counts as not yet learned.
	NewThreshold = 0.1

	// WeakThreshold is the score below which a learned lesson needs
	// reinforcement. Exclusive upper bound.
	WeakThreshold = 0.6

	// RecalcFloor is the minimum score credited to a lesson whose learn
	// task was completed, when a plan is recalculated.
	RecalcFloor = 0.3

	// NeutralScore is the score assumed for cards with no mastery signal.
	NeutralScore = 0.5
)

// StateFor classifies a score. present is false when the learner has no
// mastery record for the lesson.
func StateFor(score float64, present bool) LessonState {
	if !present || score < NewThreshold {
		return StateNew
	}
	if score > 0 && score < WeakThreshold {
		return StateWeak
	}
	return StateLearned
}
