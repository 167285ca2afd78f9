package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/examprep/internal/practice"
)

type cardRepo struct {
	drv *entsql.Driver
}

var cardColumns = []string{
	"id", "user_id", "course_id", "lesson_index", "state", "due", "reps", "lapses", "front", "back",
}

type cardRow struct {
	ID          string `sql:"id"`
	UserID      string `sql:"user_id"`
	CourseID    string `sql:"course_id"`
	LessonIndex int    `sql:"lesson_index"`
	State       string `sql:"state"`
	Due         string `sql:"due"`
	Reps        int    `sql:"reps"`
	Lapses      int    `sql:"lapses"`
	Front       string `sql:"front"`
	Back        string `sql:"back"`
}

func formatDue(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func (r *cardRepo) Upsert(ctx context.Context, cards []practice.Card) error {
	if len(cards) == 0 {
		return nil
	}
	ins := sqlb.Insert(tableCards).Columns(cardColumns...)
	for _, c := range cards {
		ins.Values(c.ID, c.UserID, c.CourseID, c.LessonIndex, string(c.State),
			formatDue(c.Due), c.Reps, c.Lapses, c.Front, c.Back)
	}
	ins.OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())

	q, args := ins.Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("upsert cards: %w", err)
	}
	return nil
}

func (r *cardRepo) Due(ctx context.Context, userID string, until time.Time) ([]practice.Card, error) {
	sel := sqlb.Select(cardColumns...).
		From(sqlb.Table(tableCards)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.Or(
				entsql.EQ("state", string(practice.CardNew)),
				entsql.LTE("due", formatDue(until)),
			),
		)).
		OrderBy("due", "id")

	var rows []cardRow
	if err := queryInto(ctx, r.drv, sel, &rows); err != nil {
		return nil, fmt.Errorf("query due cards: %w", err)
	}

	cards := make([]practice.Card, 0, len(rows))
	for _, row := range rows {
		c := practice.Card{
			ID:          row.ID,
			UserID:      row.UserID,
			CourseID:    row.CourseID,
			LessonIndex: row.LessonIndex,
			State:       practice.CardState(row.State),
			Reps:        row.Reps,
			Lapses:      row.Lapses,
			Front:       row.Front,
			Back:        row.Back,
		}
		if row.Due != "" {
			c.Due = parseInstant(row.Due)
		}
		cards = append(cards, c)
	}
	return cards, nil
}

func (r *cardRepo) Count(ctx context.Context, userID string) (int, error) {
	q, args := sqlb.Select(entsql.Count("*")).
		From(sqlb.Table(tableCards)).
		Where(entsql.EQ("user_id", userID)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	defer rows.Close()
	return entsql.ScanInt(rows)
}
