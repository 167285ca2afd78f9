package plan

import (
	"fmt"
	"time"
)

// TaskType is the kind of work a scheduled task represents.
type TaskType string

const (
	TaskLearnLesson  TaskType = "learn_lesson"
	TaskReviewLesson TaskType = "review_lesson"
	TaskPracticeTest TaskType = "practice_test"
	TaskReviewWeak   TaskType = "review_weak"
	TaskLightReview  TaskType = "light_review"
	TaskMockExam     TaskType = "mock_exam"
)

// Valid reports whether t is a known task type.
func (t TaskType) Valid() bool {
	switch t {
	case TaskLearnLesson, TaskReviewLesson, TaskPracticeTest,
		TaskReviewWeak, TaskLightReview, TaskMockExam:
		return true
	}
	return false
}

// TaskStatus tracks completion of a task. Pending is the initial state;
// completed and skipped are terminal for planning purposes.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
	StatusSkipped   TaskStatus = "skipped"
)

// Terminal reports whether the status ends the task's lifecycle.
func (s TaskStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusSkipped
}

// Priority is the intra-day urgency class of a task. Lower values sort
// first within a day. Ties inside a class are broken by Task.Slot, then by
// generation order (the sequencer is stable).
//
// Mock exams and learn tasks share the top of the day in the persisted
// sort order of older plans; they never land on the same day because learn
// tasks live in the acquisition and consolidation phases and mock exams in
// the intensive-review phase.
type Priority int

const (
	PriorityMockExam Priority = iota
	PriorityLearn
	PriorityWeak
	PriorityReview
	PriorityPracticeTest
	PriorityLightReview
)

// sortStride leaves room for per-class slots in the flattened sort order.
const sortStride = 100

// String returns a human-readable label for the priority class.
func (p Priority) String() string {
	switch p {
	case PriorityMockExam:
		return "mock-exam"
	case PriorityLearn:
		return "learn"
	case PriorityWeak:
		return "weak"
	case PriorityReview:
		return "review"
	case PriorityPracticeTest:
		return "practice-test"
	case PriorityLightReview:
		return "light-review"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// Task is one unit of planned work on a single calendar day.
type Task struct {
	ID               string
	PlanID           string
	ScheduledDate    time.Time
	Type             TaskType
	CourseID         string // empty for tasks not tied to a lesson
	LessonIndex      int
	LessonTitle      string
	Description      string
	EstimatedMinutes int
	Status           TaskStatus
	Priority         Priority
	Slot             int
	Metadata         map[string]any
}

// HasLesson reports whether the task targets a specific lesson.
func (t Task) HasLesson() bool {
	return t.CourseID != ""
}

// LessonKey returns the targeted lesson. Only meaningful when HasLesson.
func (t Task) LessonKey() LessonKey {
	return LessonKey{CourseID: t.CourseID, LessonIndex: t.LessonIndex}
}

// SortOrder flattens Priority and Slot into the single integer persisted
// alongside the task. Lower sorts first.
func (t Task) SortOrder() int {
	return int(t.Priority)*sortStride + t.Slot
}

// PriorityFromSortOrder splits a persisted sort order back into its class
// and slot.
func PriorityFromSortOrder(order int) (Priority, int) {
	return Priority(order / sortStride), order % sortStride
}

// Metadata keys recorded on generated tasks.
const (
	MetaSource = "source" // which scheduler produced the task
	MetaOffset = "offset" // spaced-review day offset
	MetaWeak   = "weak"   // the task targets a weak lesson
	MetaDrill  = "drill"  // phase-3 weak-area drill
	MetaPhase  = "phase"  // 1-based phase number
)
