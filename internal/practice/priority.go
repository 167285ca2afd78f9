package practice

import "time"

// PriorityFunc scores a card for selection. Higher scores are picked
// first.
type PriorityFunc func(c Card, lessonMastery float64, now time.Time) float64

// Weights of DefaultPriority.
const (
	MasteryWeight = 0.6
	OverdueWeight = 0.4

	// overdueSaturation is the overdue span, in days, at which the overdue
	// term stops growing.
	overdueSaturation = 7.0
)

// DefaultPriority favors low mastery and overdue cards:
//
//	(1 - mastery) * 0.6 + min(overdueDays / 7, 1) * 0.4
func DefaultPriority(c Card, lessonMastery float64, now time.Time) float64 {
	overdue := min(c.OverdueDays(now)/overdueSaturation, 1)
	return (1-lessonMastery)*MasteryWeight + overdue*OverdueWeight
}

// OverdueOnly ignores mastery and ranks by how late a card is.
func OverdueOnly(c Card, _ float64, now time.Time) float64 {
	return min(c.OverdueDays(now)/overdueSaturation, 1)
}
