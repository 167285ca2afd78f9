package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// Count is one grouped row count.
type Count struct {
	Key string `sql:"key"`
	N   int    `sql:"n"`
}

// Stats summarizes the stored data of one user.
type Stats struct {
	PlansByStatus []Count
	TasksByStatus []Count
	TasksByType   []Count
	Cards         int
	LLM           []LLMUsage
}

// Stats collects per-user counts and LLM usage.
func (s *Store) Stats(ctx context.Context, userID string) (*Stats, error) {
	var st Stats

	plans := sqlb.Select(entsql.As("status", "key"), entsql.As(entsql.Count("*"), "n")).
		From(sqlb.Table(tablePlans)).
		Where(entsql.EQ("user_id", userID)).
		GroupBy("status").
		OrderBy("status")
	if err := queryInto(ctx, s.drv, plans, &st.PlansByStatus); err != nil {
		return nil, fmt.Errorf("count plans: %w", err)
	}

	for _, g := range []struct {
		col string
		dst *[]Count
	}{
		{"status", &st.TasksByStatus},
		{"task_type", &st.TasksByType},
	} {
		q := fmt.Sprintf(`SELECT t.%[1]s AS key, COUNT(*) AS n
			FROM tasks t JOIN plans p ON p.id = t.plan_id
			WHERE p.user_id = ?
			GROUP BY t.%[1]s ORDER BY t.%[1]s`, g.col)
		var rows entsql.Rows
		if err := s.drv.Query(ctx, q, []any{userID}, &rows); err != nil {
			return nil, fmt.Errorf("count tasks by %s: %w", g.col, err)
		}
		err := entsql.ScanSlice(rows, g.dst)
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("scan task counts: %w", err)
		}
	}

	var err error
	if st.Cards, err = s.CardRepo().Count(ctx, userID); err != nil {
		return nil, err
	}
	if st.LLM, err = s.EventRepo().LLMUsage(ctx); err != nil {
		return nil, err
	}
	return &st, nil
}
