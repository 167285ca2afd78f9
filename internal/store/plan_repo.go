package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/examprep/internal/plan"
)

type planRepo struct {
	s *Store
}

var planColumns = []string{
	"id", "user_id", "exam_date", "daily_minutes", "skip_days", "skipped_lessons",
	"lessons", "placement", "seed", "status", "created_at", "updated_at",
}

type planRow struct {
	ID             string `sql:"id"`
	UserID         string `sql:"user_id"`
	ExamDate       string `sql:"exam_date"`
	DailyMinutes   int    `sql:"daily_minutes"`
	SkipDays       string `sql:"skip_days"`
	SkippedLessons string `sql:"skipped_lessons"`
	Lessons        string `sql:"lessons"`
	Placement      string `sql:"placement"`
	Seed           int64  `sql:"seed"`
	Status         string `sql:"status"`
	CreatedAt      string `sql:"created_at"`
	UpdatedAt      string `sql:"updated_at"`
}

var taskColumns = []string{
	"id", "plan_id", "scheduled_date", "task_type", "course_id", "lesson_index", "lesson_title",
	"description", "estimated_minutes", "status", "sort_order", "position", "metadata", "finished_at",
}

type taskRow struct {
	ID               string `sql:"id"`
	PlanID           string `sql:"plan_id"`
	ScheduledDate    string `sql:"scheduled_date"`
	TaskType         string `sql:"task_type"`
	CourseID         string `sql:"course_id"`
	LessonIndex      int    `sql:"lesson_index"`
	LessonTitle      string `sql:"lesson_title"`
	Description      string `sql:"description"`
	EstimatedMinutes int    `sql:"estimated_minutes"`
	Status           string `sql:"status"`
	SortOrder        int    `sql:"sort_order"`
	Position         int    `sql:"position"`
	Metadata         string `sql:"metadata"`
	FinishedAt       string `sql:"finished_at"`
}

func (r *planRepo) Create(ctx context.Context, p *plan.Plan) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = plan.PlanActive
	}

	skipDays := make([]string, 0, len(p.Config.SkipDays))
	for _, d := range p.Config.SkipDays {
		skipDays = append(skipDays, formatDate(d))
	}
	skipJSON, err := marshalJSON(skipDays, "[]")
	if err != nil {
		return fmt.Errorf("marshal skip days: %w", err)
	}
	skippedJSON, err := marshalJSON(p.Config.SkippedLessons, "[]")
	if err != nil {
		return fmt.Errorf("marshal skipped lessons: %w", err)
	}
	lessonsJSON, err := marshalJSON(p.Lessons, "[]")
	if err != nil {
		return fmt.Errorf("marshal lessons: %w", err)
	}
	placement := p.Config.ReviewPlacement
	if placement == "" {
		placement = "even"
	}

	release := r.s.lockPlan(p.ID)
	defer release()

	return r.inTx(ctx, func(tx dialect.Tx) error {
		q, args := sqlb.Insert(tablePlans).
			Columns(planColumns...).
			Values(p.ID, p.UserID, formatDate(p.ExamDate), p.Config.DailyTimeMinutes, skipJSON,
				skippedJSON, lessonsJSON, placement, int64(p.Config.ReviewSeed), string(p.Status),
				formatInstant(p.CreatedAt), formatInstant(p.UpdatedAt)).
			Query()
		if err := tx.Exec(ctx, q, args, nil); err != nil {
			return fmt.Errorf("insert plan: %w", err)
		}
		return insertTasks(ctx, tx, p.ID, p.Tasks, 0)
	})
}

// insertTasks stores tasks in order, numbering positions from base. Task
// IDs are assigned in place where missing.
func insertTasks(ctx context.Context, tx dialect.Tx, planID string, tasks []plan.Task, base int) error {
	if len(tasks) == 0 {
		return nil
	}
	ins := sqlb.Insert(tableTasks).Columns(taskColumns...)
	for i := range tasks {
		t := &tasks[i]
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		t.PlanID = planID
		if t.Status == "" {
			t.Status = plan.StatusPending
		}
		meta, err := marshalJSON(t.Metadata, "{}")
		if err != nil {
			return fmt.Errorf("marshal task metadata: %w", err)
		}
		ins.Values(t.ID, planID, formatDate(t.ScheduledDate), string(t.Type), t.CourseID,
			t.LessonIndex, t.LessonTitle, t.Description, t.EstimatedMinutes, string(t.Status),
			t.SortOrder(), base+i, meta, "")
	}
	q, args := ins.Query()
	if err := tx.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("insert tasks: %w", err)
	}
	return nil
}

func (r *planRepo) Get(ctx context.Context, id string) (*plan.Plan, error) {
	return r.getWhere(ctx, entsql.EQ("id", id))
}

func (r *planRepo) Active(ctx context.Context, userID string) (*plan.Plan, error) {
	return r.getWhere(ctx, entsql.And(
		entsql.EQ("user_id", userID),
		entsql.EQ("status", string(plan.PlanActive)),
	))
}

func (r *planRepo) getWhere(ctx context.Context, pred *entsql.Predicate) (*plan.Plan, error) {
	sel := sqlb.Select(planColumns...).
		From(sqlb.Table(tablePlans)).
		Where(pred).
		OrderBy(entsql.Desc("created_at")).
		Limit(1)

	var rows []planRow
	if err := queryInto(ctx, r.s.drv, sel, &rows); err != nil {
		return nil, fmt.Errorf("query plan: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	p, err := rows[0].toPlan()
	if err != nil {
		return nil, err
	}
	if p.Tasks, err = r.tasks(ctx, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

func (row planRow) toPlan() (*plan.Plan, error) {
	p := &plan.Plan{
		ID:        row.ID,
		UserID:    row.UserID,
		ExamDate:  parseDate(row.ExamDate),
		Status:    plan.PlanStatus(row.Status),
		CreatedAt: parseInstant(row.CreatedAt),
		UpdatedAt: parseInstant(row.UpdatedAt),
		Config: plan.PlanConfig{
			DailyTimeMinutes: row.DailyMinutes,
			ReviewPlacement:  row.Placement,
			ReviewSeed:       uint64(row.Seed),
		},
	}

	var skipDays []string
	if err := json.Unmarshal([]byte(row.SkipDays), &skipDays); err != nil {
		return nil, fmt.Errorf("decode skip days of plan %s: %w", row.ID, err)
	}
	for _, s := range skipDays {
		p.Config.SkipDays = append(p.Config.SkipDays, parseDate(s))
	}
	if err := json.Unmarshal([]byte(row.SkippedLessons), &p.Config.SkippedLessons); err != nil {
		return nil, fmt.Errorf("decode skipped lessons of plan %s: %w", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.Lessons), &p.Lessons); err != nil {
		return nil, fmt.Errorf("decode lessons of plan %s: %w", row.ID, err)
	}
	return p, nil
}

func (r *planRepo) tasks(ctx context.Context, planID string) ([]plan.Task, error) {
	sel := sqlb.Select(taskColumns...).
		From(sqlb.Table(tableTasks)).
		Where(entsql.EQ("plan_id", planID)).
		OrderBy("scheduled_date", "sort_order", "position")

	var rows []taskRow
	if err := queryInto(ctx, r.s.drv, sel, &rows); err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	tasks := make([]plan.Task, 0, len(rows))
	for _, row := range rows {
		prio, slot := plan.PriorityFromSortOrder(row.SortOrder)
		t := plan.Task{
			ID:               row.ID,
			PlanID:           row.PlanID,
			ScheduledDate:    parseDate(row.ScheduledDate),
			Type:             plan.TaskType(row.TaskType),
			CourseID:         row.CourseID,
			LessonIndex:      row.LessonIndex,
			LessonTitle:      row.LessonTitle,
			Description:      row.Description,
			EstimatedMinutes: row.EstimatedMinutes,
			Status:           plan.TaskStatus(row.Status),
			Priority:         prio,
			Slot:             slot,
		}
		if err := json.Unmarshal([]byte(row.Metadata), &t.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata of task %s: %w", row.ID, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

type planSummaryRow struct {
	ID        string `sql:"id"`
	UserID    string `sql:"user_id"`
	ExamDate  string `sql:"exam_date"`
	Status    string `sql:"status"`
	CreatedAt string `sql:"created_at"`
	Tasks     int    `sql:"tasks"`
	Done      int    `sql:"done"`
}

func (r *planRepo) List(ctx context.Context, userID string) ([]PlanSummary, error) {
	q := `SELECT p.id, p.user_id, p.exam_date, p.status, p.created_at,
		COUNT(t.id) AS tasks,
		COALESCE(SUM(CASE WHEN t.status = 'completed' THEN 1 ELSE 0 END), 0) AS done
	FROM plans p LEFT JOIN tasks t ON t.plan_id = p.id
	WHERE p.user_id = ?
	GROUP BY p.id
	ORDER BY p.created_at DESC`

	var rows entsql.Rows
	if err := r.s.drv.Query(ctx, q, []any{userID}, &rows); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var srows []planSummaryRow
	if err := entsql.ScanSlice(rows, &srows); err != nil {
		return nil, fmt.Errorf("scan plans: %w", err)
	}

	out := make([]PlanSummary, 0, len(srows))
	for _, s := range srows {
		out = append(out, PlanSummary{
			ID:        s.ID,
			UserID:    s.UserID,
			ExamDate:  parseDate(s.ExamDate),
			Status:    plan.PlanStatus(s.Status),
			Tasks:     s.Tasks,
			Done:      s.Done,
			CreatedAt: parseInstant(s.CreatedAt),
		})
	}
	return out, nil
}

func (r *planRepo) UpdateStatus(ctx context.Context, id string, status plan.PlanStatus) error {
	release := r.s.lockPlan(id)
	defer release()

	q, args := sqlb.Update(tablePlans).
		Set("status", string(status)).
		Set("updated_at", formatInstant(time.Now())).
		Where(entsql.EQ("id", id)).
		Query()
	return r.execOne(ctx, r.s.drv, q, args, "update plan status")
}

func (r *planRepo) SetTaskStatus(ctx context.Context, planID, taskID string, status plan.TaskStatus, at time.Time) error {
	release := r.s.lockPlan(planID)
	defer release()

	sel := sqlb.Select("status").
		From(sqlb.Table(tableTasks)).
		Where(entsql.And(entsql.EQ("id", taskID), entsql.EQ("plan_id", planID)))
	var current []string
	if err := queryInto(ctx, r.s.drv, sel, &current); err != nil {
		return fmt.Errorf("query task: %w", err)
	}
	if len(current) == 0 {
		return ErrNotFound
	}
	if err := plan.Transition(plan.TaskStatus(current[0]), status); err != nil {
		return err
	}

	return r.inTx(ctx, func(tx dialect.Tx) error {
		q, args := sqlb.Update(tableTasks).
			Set("status", string(status)).
			Set("finished_at", formatInstant(at)).
			Where(entsql.EQ("id", taskID)).
			Query()
		if err := r.execOne(ctx, tx, q, args, "update task status"); err != nil {
			return err
		}
		q, args = sqlb.Update(tablePlans).
			Set("updated_at", formatInstant(at)).
			Where(entsql.EQ("id", planID)).
			Query()
		return tx.Exec(ctx, q, args, nil)
	})
}

func (r *planRepo) ReplaceForward(ctx context.Context, planID string, from time.Time, tasks []plan.Task) (int, error) {
	release := r.s.lockPlan(planID)
	defer release()

	var removed int
	err := r.inTx(ctx, func(tx dialect.Tx) error {
		q, args := sqlb.Delete(tableTasks).
			Where(entsql.And(
				entsql.EQ("plan_id", planID),
				entsql.EQ("status", string(plan.StatusPending)),
				entsql.GTE("scheduled_date", formatDate(from)),
			)).
			Query()
		var res sql.Result
		if err := tx.Exec(ctx, q, args, &res); err != nil {
			return fmt.Errorf("delete forward tasks: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		removed = int(n)

		var maxPos []int
		sel := sqlb.Select(entsql.As("COALESCE(MAX(position), -1)", "max_position")).
			From(sqlb.Table(tableTasks)).
			Where(entsql.EQ("plan_id", planID))
		if err := queryInto(ctx, tx, sel, &maxPos); err != nil {
			return fmt.Errorf("query task positions: %w", err)
		}
		base := 0
		if len(maxPos) > 0 {
			base = maxPos[0] + 1
		}

		if err := insertTasks(ctx, tx, planID, tasks, base); err != nil {
			return err
		}

		q, args = sqlb.Update(tablePlans).
			Set("updated_at", formatInstant(time.Now())).
			Where(entsql.EQ("id", planID)).
			Query()
		return r.execOne(ctx, tx, q, args, "touch plan")
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

type execer interface {
	Exec(ctx context.Context, query string, args, v any) error
}

// execOne runs a statement that must affect exactly one row.
func (r *planRepo) execOne(ctx context.Context, ex execer, q string, args []any, what string) error {
	var res sql.Result
	if err := ex.Exec(ctx, q, args, &res); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// inTx runs fn in a transaction, rolling back on error.
func (r *planRepo) inTx(ctx context.Context, fn func(tx dialect.Tx) error) error {
	tx, err := r.s.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rerr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
