package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/examprep/internal/mastery"
	"github.com/abhisek/examprep/internal/plan"
	"github.com/abhisek/examprep/internal/practice"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// PlanSummary is a plan row without its tasks.
type PlanSummary struct {
	ID        string
	UserID    string
	ExamDate  time.Time
	Status    plan.PlanStatus
	Tasks     int
	Done      int
	CreatedAt time.Time
}

// PlanRepo persists study plans and their tasks. Writers to the same plan
// are serialized.
type PlanRepo interface {
	// Create stores a plan and its tasks, assigning IDs where missing.
	Create(ctx context.Context, p *plan.Plan) error

	// Get loads a plan with its tasks in sequence order.
	Get(ctx context.Context, id string) (*plan.Plan, error)

	// Active returns the newest active plan of a user, or ErrNotFound.
	Active(ctx context.Context, userID string) (*plan.Plan, error)

	// List returns a user's plans, newest first.
	List(ctx context.Context, userID string) ([]PlanSummary, error)

	// UpdateStatus changes a plan's lifecycle status.
	UpdateStatus(ctx context.Context, id string, status plan.PlanStatus) error

	// SetTaskStatus moves a pending task to a terminal status.
	SetTaskStatus(ctx context.Context, planID, taskID string, status plan.TaskStatus, at time.Time) error

	// ReplaceForward deletes the plan's pending tasks dated on or after
	// from and inserts tasks in their place, in one transaction.
	// Completed and skipped tasks are kept. Returns the number removed.
	ReplaceForward(ctx context.Context, planID string, from time.Time, tasks []plan.Task) (int, error)
}

// MasteryRepo persists per-lesson mastery scores.
type MasteryRepo interface {
	// Upsert stores scores, replacing existing ones for the same lesson.
	Upsert(ctx context.Context, userID string, records []mastery.Record) error

	// Scores returns every lesson score of a user.
	Scores(ctx context.Context, userID string) (mastery.Scores, error)

	// CourseAverages returns the mean lesson score of each course.
	CourseAverages(ctx context.Context, userID string) ([]mastery.CourseScore, error)
}

// CardRepo persists review cards.
type CardRepo interface {
	// Upsert stores cards, replacing existing ones with the same ID.
	Upsert(ctx context.Context, cards []practice.Card) error

	// Due returns a user's new cards and cards due by until, in due order.
	Due(ctx context.Context, userID string, until time.Time) ([]practice.Card, error)

	// Count returns how many cards a user has.
	Count(ctx context.Context, userID string) (int, error)
}

// EventKind names a plan lifecycle event.
type EventKind string

const (
	EventGenerated        EventKind = "generated"
	EventRecalculated     EventKind = "recalculated"
	EventTaskCompleted    EventKind = "task_completed"
	EventTaskSkipped      EventKind = "task_skipped"
	EventAbandoned        EventKind = "abandoned"
	EventPracticeComposed EventKind = "practice_composed"
)

// PlanEvent is one entry of the plan event log.
type PlanEvent struct {
	Sequence  int64
	PlanID    string
	UserID    string
	Kind      EventKind
	Detail    map[string]any
	CreatedAt time.Time
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMUsage aggregates LLM requests per provider and model.
type LLMUsage struct {
	Provider     string `sql:"provider"`
	Model        string `sql:"model"`
	Requests     int    `sql:"requests"`
	Failures     int    `sql:"failures"`
	InputTokens  int    `sql:"input_tokens"`
	OutputTokens int    `sql:"output_tokens"`
}

// EventRepo provides append access to domain events.
type EventRepo interface {
	// AppendPlanEvent records a plan lifecycle event.
	AppendPlanEvent(ctx context.Context, e PlanEvent) error

	// PlanEvents returns a plan's events in sequence order.
	PlanEvents(ctx context.Context, planID string, opts QueryOpts) ([]PlanEvent, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// LLMUsage summarizes recorded LLM requests.
	LLMUsage(ctx context.Context) ([]LLMUsage, error)
}
