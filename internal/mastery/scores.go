package mastery

import (
	"sort"

	"github.com/abhisek/examprep/internal/plan"
)

// Scores maps lessons to mastery in [0,1]. A missing entry means the
// lesson has not been attempted.
type Scores map[plan.LessonKey]float64

// Record is one persisted or imported mastery observation.
type Record struct {
	CourseID    string  `json:"course_id"`
	LessonIndex int     `json:"lesson_index"`
	Score       float64 `json:"score"`
}

// Key returns the lesson the record belongs to.
func (r Record) Key() plan.LessonKey {
	return plan.LessonKey{CourseID: r.CourseID, LessonIndex: r.LessonIndex}
}

// FromRecords builds a score map. Later records win on duplicate keys.
func FromRecords(records []Record) Scores {
	s := make(Scores, len(records))
	for _, r := range records {
		s[r.Key()] = r.Score
	}
	return s
}

// Lookup returns the score for k and whether an entry exists.
func (s Scores) Lookup(k plan.LessonKey) (float64, bool) {
	v, ok := s[k]
	return v, ok
}

// Get returns the score for k, or 0 when absent.
func (s Scores) Get(k plan.LessonKey) float64 {
	return s[k]
}

// Clone returns a copy that can be modified without touching s.
func (s Scores) Clone() Scores {
	out := make(Scores, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// WithFloor returns a copy of s in which every key in keys has at least
// floor, creating entries where none exist.
func (s Scores) WithFloor(keys []plan.LessonKey, floor float64) Scores {
	out := s.Clone()
	for _, k := range keys {
		if v, ok := out[k]; !ok || v < floor {
			out[k] = floor
		}
	}
	return out
}

// Records returns the scores as records sorted by course then lesson.
func (s Scores) Records() []Record {
	out := make([]Record, 0, len(s))
	for k, v := range s {
		out = append(out, Record{CourseID: k.CourseID, LessonIndex: k.LessonIndex, Score: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CourseID != out[j].CourseID {
			return out[i].CourseID < out[j].CourseID
		}
		return out[i].LessonIndex < out[j].LessonIndex
	})
	return out
}

// Clamp limits v to [0,1].
func Clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
