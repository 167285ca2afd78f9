package spacedrep

import (
	"fmt"
	"time"

	"github.com/abhisek/examprep/internal/plan"
)

// Taught records the horizon day index on which a lesson is first taught.
type Taught struct {
	Lesson plan.Lesson
	Day    int
}

// ScheduleReviews creates a review at Day+offset for every taught lesson
// and every offset in ReviewOffsets that still falls inside days. Reviews
// past the horizon are dropped.
func ScheduleReviews(days []time.Time, taught []Taught, weak plan.KeySet) []plan.Task {
	var tasks []plan.Task
	for _, tl := range taught {
		isWeak := weak.Has(tl.Lesson.Key())
		minutes := ReviewMinutes
		if isWeak {
			minutes = WeakReviewMinutes
		}
		for _, off := range ReviewOffsets {
			day := tl.Day + off
			if day >= len(days) {
				continue
			}
			tasks = append(tasks, plan.Task{
				ScheduledDate:    days[day],
				Type:             plan.TaskReviewLesson,
				CourseID:         tl.Lesson.CourseID,
				LessonIndex:      tl.Lesson.LessonIndex,
				LessonTitle:      tl.Lesson.LessonTitle,
				Description:      fmt.Sprintf("Review %s (%s), day +%d", tl.Lesson.LessonTitle, courseLabel(tl.Lesson), off),
				EstimatedMinutes: minutes,
				Status:           plan.StatusPending,
				Priority:         plan.PriorityReview,
				Metadata: map[string]any{
					plan.MetaSource: "spaced_review",
					plan.MetaOffset: off,
					plan.MetaWeak:   isWeak,
				},
			})
		}
	}
	return tasks
}

// ReinforceLearned schedules reviews for lessons that were already learned
// when the plan was built. Each lesson gets one review, or
// WeakReinforcements weak-area reviews if it is weak, on days in
// [start, end) chosen by placer. Nothing is scheduled for an empty window.
func ReinforceLearned(days []time.Time, start, end int, learned []plan.Lesson, weak plan.KeySet, placer Placer) []plan.Task {
	if end > len(days) {
		end = len(days)
	}
	span := end - start
	if span <= 0 || start < 0 {
		return nil
	}

	var tasks []plan.Task
	for _, l := range learned {
		if !weak.Has(l.Key()) {
			tasks = append(tasks, plan.Task{
				ScheduledDate:    days[start+placer.Next(span)],
				Type:             plan.TaskReviewLesson,
				CourseID:         l.CourseID,
				LessonIndex:      l.LessonIndex,
				LessonTitle:      l.LessonTitle,
				Description:      fmt.Sprintf("Review %s (%s)", l.LessonTitle, courseLabel(l)),
				EstimatedMinutes: ReviewMinutes,
				Status:           plan.StatusPending,
				Priority:         plan.PriorityReview,
				Metadata: map[string]any{
					plan.MetaSource: "reinforce",
					plan.MetaWeak:   false,
				},
			})
			continue
		}
		for i := range WeakReinforcements {
			tasks = append(tasks, plan.Task{
				ScheduledDate:    days[start+placer.Next(span)],
				Type:             plan.TaskReviewWeak,
				CourseID:         l.CourseID,
				LessonIndex:      l.LessonIndex,
				LessonTitle:      l.LessonTitle,
				Description:      fmt.Sprintf("Strengthen %s (%s), pass %d of %d", l.LessonTitle, courseLabel(l), i+1, WeakReinforcements),
				EstimatedMinutes: ReinforceMinutes,
				Status:           plan.StatusPending,
				Priority:         plan.PriorityWeak,
				Metadata: map[string]any{
					plan.MetaSource: "reinforce",
					plan.MetaWeak:   true,
				},
			})
		}
	}
	return tasks
}

func courseLabel(l plan.Lesson) string {
	if l.CourseTitle != "" {
		return l.CourseTitle
	}
	return l.CourseID
}
