package mastery

import "github.com/abhisek/examprep/internal/plan"

// CourseScore is the aggregate mastery of a whole course.
type CourseScore struct {
	CourseID string  `json:"course_id"`
	Score    float64 `json:"score"`
}

// LessonEstimator answers "how well does the learner know this lesson?"
// for consumers that only need a point estimate. ok is false when the
// estimator has no signal for the lesson.
type LessonEstimator interface {
	LessonScore(k plan.LessonKey) (score float64, ok bool)
}

// CourseMasteryFallback approximates lesson mastery with the mastery of
// the lesson's course: every lesson in a course inherits the course score.
type CourseMasteryFallback struct {
	courses map[string]float64
}

// NewCourseMasteryFallback builds the estimator from course aggregates.
// Scores are clamped to [0,1].
func NewCourseMasteryFallback(courses []CourseScore) *CourseMasteryFallback {
	m := make(map[string]float64, len(courses))
	for _, c := range courses {
		m[c.CourseID] = Clamp(c.Score)
	}
	return &CourseMasteryFallback{courses: m}
}

func (f *CourseMasteryFallback) LessonScore(k plan.LessonKey) (float64, bool) {
	v, ok := f.courses[k.CourseID]
	return v, ok
}

// Expand materializes the per-lesson approximation for the given keys.
func (f *CourseMasteryFallback) Expand(keys []plan.LessonKey) Scores {
	out := make(Scores, len(keys))
	for _, k := range keys {
		if v, ok := f.courses[k.CourseID]; ok {
			out[k] = v
		}
	}
	return out
}

// LessonScores adapts a Scores map to LessonEstimator, for callers that
// have true per-lesson mastery.
type LessonScores Scores

func (s LessonScores) LessonScore(k plan.LessonKey) (float64, bool) {
	v, ok := s[k]
	return Clamp(v), ok
}

// Chain asks each estimator in turn and returns the first signal.
type Chain []LessonEstimator

func (c Chain) LessonScore(k plan.LessonKey) (float64, bool) {
	for _, e := range c {
		if e == nil {
			continue
		}
		if v, ok := e.LessonScore(k); ok {
			return v, true
		}
	}
	return 0, false
}

// CourseAverages reduces lesson scores to one mean score per course.
func CourseAverages(s Scores) []CourseScore {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	var order []string
	for _, r := range s.Records() {
		if _, seen := counts[r.CourseID]; !seen {
			order = append(order, r.CourseID)
		}
		sums[r.CourseID] += r.Score
		counts[r.CourseID]++
	}
	out := make([]CourseScore, 0, len(order))
	for _, id := range order {
		out = append(out, CourseScore{CourseID: id, Score: sums[id] / float64(counts[id])})
	}
	return out
}

// Bucket is a coarse mastery band used in summaries.
type Bucket string

const (
	BucketLow    Bucket = "low"
	BucketMedium Bucket = "medium"
	BucketHigh   Bucket = "high"
)

// BucketFor places a score into a band: low < 0.4 <= medium < 0.8 <= high.
func BucketFor(score float64) Bucket {
	switch {
	case score < 0.4:
		return BucketLow
	case score < 0.8:
		return BucketMedium
	default:
		return BucketHigh
	}
}
