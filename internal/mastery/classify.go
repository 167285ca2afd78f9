package mastery

import "github.com/abhisek/examprep/internal/plan"

// Classification partitions a lesson set. WeakLessons is a subset of
// LearnedLessons. Input order is preserved in every list.
type Classification struct {
	NewLessons     []plan.Lesson
	LearnedLessons []plan.Lesson
	WeakLessons    []plan.Lesson
}

// WeakSet returns the keys of the weak lessons.
func (c Classification) WeakSet() plan.KeySet {
	s := make(plan.KeySet, len(c.WeakLessons))
	for _, l := range c.WeakLessons {
		s[l.Key()] = struct{}{}
	}
	return s
}

// Classify drops skipped lessons and sorts the rest into new, learned and
// weak according to their scores.
func Classify(lessons []plan.Lesson, scores Scores, skipped plan.KeySet) Classification {
	var c Classification
	for _, l := range lessons {
		k := l.Key()
		if skipped.Has(k) {
			continue
		}
		score, ok := scores.Lookup(k)
		switch StateFor(score, ok) {
		case StateNew:
			c.NewLessons = append(c.NewLessons, l)
		case StateWeak:
			c.LearnedLessons = append(c.LearnedLessons, l)
			c.WeakLessons = append(c.WeakLessons, l)
		default:
			c.LearnedLessons = append(c.LearnedLessons, l)
		}
	}
	return c
}
