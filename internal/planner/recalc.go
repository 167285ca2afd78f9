package planner

import (
	"github.com/abhisek/examprep/internal/mastery"
	"github.com/abhisek/examprep/internal/plan"
)

// CreditedLessons returns, in first-seen order, the lessons whose learn
// task has been completed.
func CreditedLessons(completed []plan.Task) []plan.LessonKey {
	seen := make(plan.KeySet)
	var keys []plan.LessonKey
	for _, t := range completed {
		if t.Type != plan.TaskLearnLesson || t.Status != plan.StatusCompleted || !t.HasLesson() {
			continue
		}
		k := t.LessonKey()
		if seen.Has(k) {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

// Recalculate rebuilds a plan from in.Today forward. Lessons with a
// completed learn task are credited with at least mastery.RecalcFloor so
// they are not taught again. Historical tasks are neither re-emitted nor
// modified; merging history with the new forward plan is the caller's job.
func Recalculate(completed []plan.Task, in GenerateInput, opts Options) Result {
	in.Mastery = in.Mastery.WithFloor(CreditedLessons(completed), mastery.RecalcFloor)
	return Generate(in, opts)
}

// RecalculatePlan returns only the forward task list.
func RecalculatePlan(completed []plan.Task, in GenerateInput, opts Options) []plan.Task {
	return Recalculate(completed, in, opts).Tasks
}
