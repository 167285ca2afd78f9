package spacedrep

// ReviewOffsets are the day offsets, counted from the day a lesson is
// first taught, at which a spaced review is scheduled.
var ReviewOffsets = []int{1, 3, 7, 14}

// Estimated minutes per review kind.
const (
	ReviewMinutes     = 10
	WeakReviewMinutes = 15
	ReinforceMinutes  = 20
)

// WeakReinforcements is how many reinforcement reviews a lesson that was
// already learned but weak receives during consolidation.
const WeakReinforcements = 3
