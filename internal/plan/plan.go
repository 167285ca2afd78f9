package plan

import (
	"fmt"
	"time"
)

// PlanStatus is the lifecycle state of a study plan.
type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanCompleted PlanStatus = "completed"
	PlanAbandoned PlanStatus = "abandoned"
)

// PlanConfig holds the learner-chosen constraints a plan was built with.
type PlanConfig struct {
	DailyTimeMinutes int         `json:"daily_time_minutes"`
	SkipDays         []time.Time `json:"skip_days"`
	SkippedLessons   []LessonKey `json:"skipped_lessons"`
	ReviewPlacement  string      `json:"review_placement,omitempty"`
	ReviewSeed       uint64      `json:"review_seed,omitempty"`
}

// Plan is the aggregate root owning its tasks. Tasks have no lifecycle
// outside the plan that owns them.
type Plan struct {
	ID        string
	UserID    string
	ExamDate  time.Time
	Config    PlanConfig
	Lessons   []Lesson
	Status    PlanStatus
	CreatedAt time.Time
	UpdatedAt time.Time
	Tasks     []Task
}

// RefreshStatus marks an active plan completed once every task is
// terminal. Returns true if the status changed.
func (p *Plan) RefreshStatus() bool {
	if p.Status != PlanActive || len(p.Tasks) == 0 {
		return false
	}
	for _, t := range p.Tasks {
		if !t.Status.Terminal() {
			return false
		}
	}
	p.Status = PlanCompleted
	return true
}

// Abandon stops an active plan.
func (p *Plan) Abandon() error {
	if p.Status != PlanActive {
		return fmt.Errorf("plan %s is %s, not active", p.ID, p.Status)
	}
	p.Status = PlanAbandoned
	return nil
}

// CompletedTasks returns the tasks with completed status.
func (p *Plan) CompletedTasks() []Task {
	var out []Task
	for _, t := range p.Tasks {
		if t.Status == StatusCompleted {
			out = append(out, t)
		}
	}
	return out
}

// Transition validates a task status change. Only pending tasks move, and
// only to a terminal status.
func Transition(from, to TaskStatus) error {
	if from != StatusPending {
		return fmt.Errorf("task already %s", from)
	}
	if !to.Terminal() {
		return fmt.Errorf("cannot move task to %s", to)
	}
	return nil
}
