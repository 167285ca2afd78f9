package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/examprep/internal/mastery"
)

type masteryRepo struct {
	drv *entsql.Driver
}

func (r *masteryRepo) Upsert(ctx context.Context, userID string, records []mastery.Record) error {
	if len(records) == 0 {
		return nil
	}
	now := formatInstant(time.Now())
	ins := sqlb.Insert(tableMastery).
		Columns("user_id", "course_id", "lesson_index", "score", "updated_at")
	for _, rec := range records {
		ins.Values(userID, rec.CourseID, rec.LessonIndex, mastery.Clamp(rec.Score), now)
	}
	ins.OnConflict(
		entsql.ConflictColumns("user_id", "course_id", "lesson_index"),
		entsql.ResolveWithNewValues(),
	)

	q, args := ins.Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("upsert mastery: %w", err)
	}
	return nil
}

func (r *masteryRepo) Scores(ctx context.Context, userID string) (mastery.Scores, error) {
	sel := sqlb.Select("course_id", "lesson_index", "score").
		From(sqlb.Table(tableMastery)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("course_id", "lesson_index")

	var records []mastery.Record
	if err := queryInto(ctx, r.drv, sel, &records); err != nil {
		return nil, fmt.Errorf("query mastery: %w", err)
	}
	return mastery.FromRecords(records), nil
}

func (r *masteryRepo) CourseAverages(ctx context.Context, userID string) ([]mastery.CourseScore, error) {
	sel := sqlb.Select("course_id", entsql.As(entsql.Avg("score"), "score")).
		From(sqlb.Table(tableMastery)).
		Where(entsql.EQ("user_id", userID)).
		GroupBy("course_id").
		OrderBy("course_id")

	var out []mastery.CourseScore
	if err := queryInto(ctx, r.drv, sel, &out); err != nil {
		return nil, fmt.Errorf("query course mastery: %w", err)
	}
	return out, nil
}
