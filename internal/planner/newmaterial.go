package planner

import (
	"fmt"
	"time"

	"github.com/abhisek/examprep/internal/plan"
	"github.com/abhisek/examprep/internal/spacedrep"
)

// LessonMinutes is the fixed effort unit of a learn task.
const LessonMinutes = 15

// NewMaterial is the outcome of placing new lessons on the calendar.
type NewMaterial struct {
	Tasks       []plan.Task
	Taught      []spacedrep.Taught // placement day of every scheduled lesson
	Unscheduled []plan.Lesson      // lessons that fit in neither phase 1 nor phase 2
}

// Interleave orders lessons round-robin across courses so consecutive
// lessons alternate course where possible. Courses take turns in order of
// first appearance; each course keeps its own lesson order.
func Interleave(lessons []plan.Lesson) []plan.Lesson {
	var courses []string
	byCourse := make(map[string][]plan.Lesson)
	for _, l := range lessons {
		if _, ok := byCourse[l.CourseID]; !ok {
			courses = append(courses, l.CourseID)
		}
		byCourse[l.CourseID] = append(byCourse[l.CourseID], l)
	}

	out := make([]plan.Lesson, 0, len(lessons))
	for round := 0; len(out) < len(lessons); round++ {
		for _, c := range courses {
			if round < len(byCourse[c]) {
				out = append(out, byCourse[c][round])
			}
		}
	}
	return out
}

// DailyLessonCap is the most learn tasks a single acquisition day holds.
func DailyLessonCap(dailyMinutes int) int {
	return max(1, dailyMinutes/LessonMinutes)
}

// PlaceNewMaterial lays new lessons onto the acquisition phase, filling
// each day until its time budget or lesson cap is reached. Lessons left
// over spill one per day into the consolidation phase without a budget
// check.
func PlaceNewMaterial(days []time.Time, ph Phases, lessons []plan.Lesson, dailyMinutes int) NewMaterial {
	var out NewMaterial
	queue := Interleave(lessons)
	perDay := DailyLessonCap(dailyMinutes)

	next := 0
	place := func(day, slot, phase int) {
		l := queue[next]
		out.Tasks = append(out.Tasks, learnTask(days[day], l, slot, phase))
		out.Taught = append(out.Taught, spacedrep.Taught{Lesson: l, Day: day})
		next++
	}

	for day := 0; day < ph.Phase1End && next < len(queue); day++ {
		used, placed := 0, 0
		for next < len(queue) && placed < perDay && used+LessonMinutes <= dailyMinutes {
			place(day, placed, PhaseAcquisition)
			used += LessonMinutes
			placed++
		}
	}

	for day := ph.Phase1End; day < ph.Phase2End && next < len(queue); day++ {
		place(day, 0, PhaseConsolidation)
	}

	out.Unscheduled = append(out.Unscheduled, queue[next:]...)
	return out
}

func learnTask(day time.Time, l plan.Lesson, slot, phase int) plan.Task {
	return plan.Task{
		ScheduledDate:    day,
		Type:             plan.TaskLearnLesson,
		CourseID:         l.CourseID,
		LessonIndex:      l.LessonIndex,
		LessonTitle:      l.LessonTitle,
		Description:      fmt.Sprintf("Learn %s (%s)", l.LessonTitle, courseName(l)),
		EstimatedMinutes: LessonMinutes,
		Status:           plan.StatusPending,
		Priority:         plan.PriorityLearn,
		Slot:             slot,
		Metadata: map[string]any{
			plan.MetaSource: "new_material",
			plan.MetaPhase:  phase,
		},
	}
}

func courseName(l plan.Lesson) string {
	if l.CourseTitle != "" {
		return l.CourseTitle
	}
	return l.CourseID
}
