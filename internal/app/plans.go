package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/abhisek/examprep/internal/calendar"
	"github.com/abhisek/examprep/internal/input"
	"github.com/abhisek/examprep/internal/mastery"
	"github.com/abhisek/examprep/internal/plan"
	"github.com/abhisek/examprep/internal/planner"
	"github.com/abhisek/examprep/internal/spacedrep"
	"github.com/abhisek/examprep/internal/store"
)

// CreatePlan generates and stores a new plan from a validated plan file.
// Mastery listed in the file is saved first and overrides stored scores.
// Any other active plan of the user is abandoned.
func (s *Service) CreatePlan(ctx context.Context, userID string, spec *input.PlanSpec) (*plan.Plan, planner.Result, error) {
	in := spec.Input
	opts := spec.Options
	if !spec.TodaySet {
		in.Today = s.Today()
	}
	if opts.Placement == spacedrep.PlacementRandom && !spec.SeedSet {
		opts.Seed = rand.Uint64()
	}

	if len(in.Mastery) > 0 {
		if err := s.mastery.Upsert(ctx, userID, in.Mastery.Records()); err != nil {
			return nil, planner.Result{}, fmt.Errorf("save plan mastery: %w", err)
		}
	}
	scores, err := s.mastery.Scores(ctx, userID)
	if err != nil {
		return nil, planner.Result{}, fmt.Errorf("load mastery: %w", err)
	}
	in.Mastery = scores

	res := planner.Generate(in, opts)

	p := &plan.Plan{
		UserID:   userID,
		ExamDate: in.ExamDate,
		Config: plan.PlanConfig{
			DailyTimeMinutes: in.DailyTimeMinutes,
			SkipDays:         calendar.SortDays(in.SkipDays),
			SkippedLessons:   in.SkippedLessons,
			ReviewPlacement:  string(opts.Placement),
			ReviewSeed:       opts.Seed,
		},
		Lessons: in.Lessons,
		Status:  plan.PlanActive,
		Tasks:   res.Tasks,
	}

	if prev, err := s.plans.Active(ctx, userID); err == nil {
		if err := s.abandon(ctx, prev, "replaced"); err != nil {
			return nil, planner.Result{}, err
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, planner.Result{}, fmt.Errorf("load active plan: %w", err)
	}

	if err := s.plans.Create(ctx, p); err != nil {
		return nil, planner.Result{}, fmt.Errorf("save plan: %w", err)
	}
	s.event(ctx, p, store.EventGenerated, map[string]any{
		"tasks":       len(res.Tasks),
		"days":        len(res.Days),
		"unscheduled": len(res.Unscheduled),
		"today":       calendar.Key(in.Today),
	})
	s.log.Info("plan created",
		"plan_id", p.ID,
		"user", userID,
		"exam_date", calendar.Key(p.ExamDate),
		"tasks", len(p.Tasks),
		"unscheduled", len(res.Unscheduled),
	)
	return p, res, nil
}

// Plan resolves a plan by ID or unique ID prefix. An empty ref selects the
// user's active plan.
func (s *Service) Plan(ctx context.Context, userID, ref string) (*plan.Plan, error) {
	if ref == "" {
		p, err := s.plans.Active(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoActivePlan
		}
		return p, err
	}

	p, err := s.plans.Get(ctx, ref)
	if err == nil {
		if p.UserID != userID {
			return nil, fmt.Errorf("plan %q: %w", ref, store.ErrNotFound)
		}
		return p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	list, err := s.plans.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	var match string
	for _, sum := range list {
		if strings.HasPrefix(sum.ID, ref) {
			if match != "" {
				return nil, fmt.Errorf("%w: plan %q", ErrAmbiguousID, ref)
			}
			match = sum.ID
		}
	}
	if match == "" {
		return nil, fmt.Errorf("plan %q: %w", ref, store.ErrNotFound)
	}
	return s.plans.Get(ctx, match)
}

// Plans lists a user's plans, newest first.
func (s *Service) Plans(ctx context.Context, userID string) ([]store.PlanSummary, error) {
	return s.plans.List(ctx, userID)
}

// Recalculate regenerates the plan from today. Pending tasks dated today or
// later are replaced; completed and skipped tasks stay as history and
// completed learn tasks credit their lessons. Generation starts the day
// after its Today, so it is run as of yesterday to keep today schedulable.
func (s *Service) Recalculate(ctx context.Context, userID, ref string) (*plan.Plan, planner.Result, error) {
	p, err := s.Plan(ctx, userID, ref)
	if err != nil {
		return nil, planner.Result{}, err
	}
	if p.Status != plan.PlanActive {
		return nil, planner.Result{}, fmt.Errorf("recalculate %s: %w", p.ID, ErrPlanNotActive)
	}

	scores, err := s.mastery.Scores(ctx, p.UserID)
	if err != nil {
		return nil, planner.Result{}, fmt.Errorf("load mastery: %w", err)
	}
	today := s.Today()
	in := GenerateInput(p, calendar.AddDays(today, -1), scores)
	res := planner.Recalculate(p.CompletedTasks(), in, PlanOptions(p.Config))

	removed, err := s.plans.ReplaceForward(ctx, p.ID, today, res.Tasks)
	if err != nil {
		return nil, planner.Result{}, fmt.Errorf("replace forward tasks: %w", err)
	}
	s.event(ctx, p, store.EventRecalculated, map[string]any{
		"removed":     removed,
		"added":       len(res.Tasks),
		"credited":    len(planner.CreditedLessons(p.CompletedTasks())),
		"unscheduled": len(res.Unscheduled),
		"from":        calendar.Key(today),
	})
	s.log.Info("plan recalculated", "plan_id", p.ID, "removed", removed, "added", len(res.Tasks))

	updated, err := s.plans.Get(ctx, p.ID)
	if err != nil {
		return nil, planner.Result{}, err
	}
	return updated, res, nil
}

// GenerateInput rebuilds the generator input of a stored plan.
func GenerateInput(p *plan.Plan, today time.Time, scores mastery.Scores) planner.GenerateInput {
	return planner.GenerateInput{
		Today:            today,
		ExamDate:         p.ExamDate,
		DailyTimeMinutes: p.Config.DailyTimeMinutes,
		SkipDays:         p.Config.SkipDays,
		SkippedLessons:   p.Config.SkippedLessons,
		Lessons:          p.Lessons,
		Mastery:          scores,
	}
}

// PlanOptions restores the review placement a plan was created with.
// Unknown stored values fall back to even placement.
func PlanOptions(cfg plan.PlanConfig) planner.Options {
	placement, err := spacedrep.ParsePlacement(cfg.ReviewPlacement)
	if err != nil {
		placement = spacedrep.PlacementEven
	}
	return planner.Options{Placement: placement, Seed: cfg.ReviewSeed}
}

// CompleteTask marks a task completed. A non-nil score is recorded as the
// mastery of the task's lesson.
func (s *Service) CompleteTask(ctx context.Context, userID, planRef, taskRef string, score *float64) (*plan.Plan, plan.Task, error) {
	if score != nil && (*score < 0 || *score > 1) {
		return nil, plan.Task{}, fmt.Errorf("score %v out of range [0,1]", *score)
	}
	p, t, err := s.finishTask(ctx, userID, planRef, taskRef, plan.StatusCompleted)
	if err != nil {
		return nil, plan.Task{}, err
	}
	if score != nil && t.HasLesson() {
		rec := mastery.Record{CourseID: t.CourseID, LessonIndex: t.LessonIndex, Score: *score}
		if err := s.mastery.Upsert(ctx, p.UserID, []mastery.Record{rec}); err != nil {
			return nil, plan.Task{}, fmt.Errorf("save mastery: %w", err)
		}
	}
	return p, t, nil
}

// SkipTask marks a task skipped.
func (s *Service) SkipTask(ctx context.Context, userID, planRef, taskRef string) (*plan.Plan, plan.Task, error) {
	return s.finishTask(ctx, userID, planRef, taskRef, plan.StatusSkipped)
}

func (s *Service) finishTask(ctx context.Context, userID, planRef, taskRef string, status plan.TaskStatus) (*plan.Plan, plan.Task, error) {
	p, err := s.Plan(ctx, userID, planRef)
	if err != nil {
		return nil, plan.Task{}, err
	}
	if p.Status != plan.PlanActive {
		return nil, plan.Task{}, fmt.Errorf("update task of %s: %w", p.ID, ErrPlanNotActive)
	}
	t, err := FindTask(p, taskRef)
	if err != nil {
		return nil, plan.Task{}, err
	}

	if err := s.plans.SetTaskStatus(ctx, p.ID, t.ID, status, s.now()); err != nil {
		return nil, plan.Task{}, fmt.Errorf("set task status: %w", err)
	}
	t.Status = status

	kind := store.EventTaskCompleted
	if status == plan.StatusSkipped {
		kind = store.EventTaskSkipped
	}
	s.event(ctx, p, kind, map[string]any{
		"task_id": t.ID,
		"type":    string(t.Type),
		"date":    calendar.Key(t.ScheduledDate),
	})

	updated, err := s.plans.Get(ctx, p.ID)
	if err != nil {
		return nil, plan.Task{}, err
	}
	if updated.RefreshStatus() {
		if err := s.plans.UpdateStatus(ctx, updated.ID, updated.Status); err != nil {
			return nil, plan.Task{}, fmt.Errorf("complete plan: %w", err)
		}
		s.log.Info("plan completed", "plan_id", updated.ID)
	}
	return updated, t, nil
}

// FindTask resolves a task by ID or unique ID prefix.
func FindTask(p *plan.Plan, ref string) (plan.Task, error) {
	if ref == "" {
		return plan.Task{}, fmt.Errorf("%w: empty id", ErrTaskNotFound)
	}
	var found []plan.Task
	for _, t := range p.Tasks {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			found = append(found, t)
		}
	}
	switch len(found) {
	case 0:
		return plan.Task{}, fmt.Errorf("%w: %q", ErrTaskNotFound, ref)
	case 1:
		return found[0], nil
	default:
		return plan.Task{}, fmt.Errorf("%w: task %q matches %d tasks", ErrAmbiguousID, ref, len(found))
	}
}

// Abandon stops an active plan.
func (s *Service) Abandon(ctx context.Context, userID, ref string) (*plan.Plan, error) {
	p, err := s.Plan(ctx, userID, ref)
	if err != nil {
		return nil, err
	}
	if err := s.abandon(ctx, p, "user"); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) abandon(ctx context.Context, p *plan.Plan, reason string) error {
	if err := p.Abandon(); err != nil {
		return fmt.Errorf("%w: %v", ErrPlanNotActive, err)
	}
	if err := s.plans.UpdateStatus(ctx, p.ID, p.Status); err != nil {
		return fmt.Errorf("abandon plan: %w", err)
	}
	s.event(ctx, p, store.EventAbandoned, map[string]any{"reason": reason})
	s.log.Info("plan abandoned", "plan_id", p.ID, "reason", reason)
	return nil
}

// event appends to the plan event log. Failures are logged, not returned:
// the state change they describe has already been committed.
func (s *Service) event(ctx context.Context, p *plan.Plan, kind store.EventKind, detail map[string]any) {
	planID, userID := "", ""
	if p != nil {
		planID, userID = p.ID, p.UserID
	}
	s.appendEvent(ctx, store.PlanEvent{PlanID: planID, UserID: userID, Kind: kind, Detail: detail, CreatedAt: s.now()})
}

func (s *Service) appendEvent(ctx context.Context, e store.PlanEvent) {
	if err := s.events.AppendPlanEvent(ctx, e); err != nil {
		s.log.Warn("failed to record plan event", "kind", string(e.Kind), "plan_id", e.PlanID, "error", err)
	}
}

// Events returns a plan's event log.
func (s *Service) Events(ctx context.Context, planID string, limit int) ([]store.PlanEvent, error) {
	return s.events.PlanEvents(ctx, planID, store.QueryOpts{Limit: limit})
}
