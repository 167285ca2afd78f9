package planner

import (
	"fmt"
	"time"

	"github.com/abhisek/examprep/internal/plan"
)

// Estimated minutes of injected tasks. Injected tasks are not checked
// against the daily budget.
const (
	PracticeTestMinutes = 30
	MockExamMinutes     = 60
	DrillMinutes        = 20
	LightReviewMinutes  = 15
)

// drillsPerDay is how many weak lessons a phase-3 drill day covers.
const drillsPerDay = 2

// mockExamEvery spaces mock exams through the intensive phase.
const mockExamEvery = 3

// PracticeTests spreads max(1, span/4) practice tests evenly over the
// consolidation phase.
func PracticeTests(days []time.Time, ph Phases) []plan.Task {
	start, end := ph.Span(PhaseConsolidation)
	span := end - start
	if span <= 0 {
		return nil
	}
	count := max(1, span/4)
	step := span / count

	tasks := make([]plan.Task, 0, count)
	for i := range count {
		day := start + i*step + step/2
		tasks = append(tasks, plan.Task{
			ScheduledDate:    days[day],
			Type:             plan.TaskPracticeTest,
			Description:      fmt.Sprintf("Practice test %d of %d", i+1, count),
			EstimatedMinutes: PracticeTestMinutes,
			Status:           plan.StatusPending,
			Priority:         plan.PriorityPracticeTest,
			Metadata: map[string]any{
				plan.MetaSource: "phase_injector",
				plan.MetaPhase:  PhaseConsolidation,
			},
		})
	}
	return tasks
}

// MockExamsAndDrills fills the intensive phase. Every third day, counted
// from the start of the phase, holds a mock exam; the other days drill the
// first two weak lessons. The same lessons repeat on every drill day.
func MockExamsAndDrills(days []time.Time, ph Phases, weak []plan.Lesson) []plan.Task {
	start, end := ph.Span(PhaseIntensive)
	drills := weak[:min(drillsPerDay, len(weak))]

	var tasks []plan.Task
	for day := start; day < end; day++ {
		if (day-start)%mockExamEvery == 0 {
			tasks = append(tasks, plan.Task{
				ScheduledDate:    days[day],
				Type:             plan.TaskMockExam,
				Description:      "Full mock exam under timed conditions",
				EstimatedMinutes: MockExamMinutes,
				Status:           plan.StatusPending,
				Priority:         plan.PriorityMockExam,
				Metadata: map[string]any{
					plan.MetaSource: "phase_injector",
					plan.MetaPhase:  PhaseIntensive,
				},
			})
			continue
		}
		for slot, l := range drills {
			tasks = append(tasks, plan.Task{
				ScheduledDate:    days[day],
				Type:             plan.TaskReviewWeak,
				CourseID:         l.CourseID,
				LessonIndex:      l.LessonIndex,
				LessonTitle:      l.LessonTitle,
				Description:      fmt.Sprintf("Drill %s (%s)", l.LessonTitle, courseName(l)),
				EstimatedMinutes: DrillMinutes,
				Status:           plan.StatusPending,
				Priority:         plan.PriorityWeak,
				Slot:             slot,
				Metadata: map[string]any{
					plan.MetaSource: "phase_injector",
					plan.MetaPhase:  PhaseIntensive,
					plan.MetaWeak:   true,
					plan.MetaDrill:  true,
				},
			})
		}
	}
	return tasks
}

// LightReviews gives every taper day exactly one light review.
func LightReviews(days []time.Time, ph Phases) []plan.Task {
	start, end := ph.Span(PhaseTaper)
	var tasks []plan.Task
	for day := start; day < end; day++ {
		tasks = append(tasks, plan.Task{
			ScheduledDate:    days[day],
			Type:             plan.TaskLightReview,
			Description:      "Light review of summary notes",
			EstimatedMinutes: LightReviewMinutes,
			Status:           plan.StatusPending,
			Priority:         plan.PriorityLightReview,
			Metadata: map[string]any{
				plan.MetaSource: "phase_injector",
				plan.MetaPhase:  PhaseTaper,
			},
		})
	}
	return tasks
}
