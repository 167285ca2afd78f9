package planner

import (
	"sort"

	"github.com/abhisek/examprep/internal/plan"
)

// Sequence stable-sorts tasks by scheduled day, then by sort order. Tasks
// that tie keep their generation order.
func Sequence(tasks []plan.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		di, dj := tasks[i].ScheduledDate, tasks[j].ScheduledDate
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return tasks[i].SortOrder() < tasks[j].SortOrder()
	})
}
