package store

import (
	"context"
	"encoding/json"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/examprep/internal/calendar"
)

// querier is satisfied by both the driver and a transaction.
type querier interface {
	Query(ctx context.Context, query string, args, v any) error
}

var _ querier = (dialect.Tx)(nil)

// queryInto runs sel and scans every row into dst, a pointer to a slice.
func queryInto(ctx context.Context, q querier, sel *entsql.Selector, dst any) error {
	query, args := sel.Query()
	var rows entsql.Rows
	if err := q.Query(ctx, query, args, &rows); err != nil {
		return err
	}
	defer rows.Close()
	return entsql.ScanSlice(rows, dst)
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseInstant(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatDate(t time.Time) string {
	return calendar.Key(t)
}

func parseDate(s string) time.Time {
	t, err := calendar.Parse(s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// marshalJSON encodes v, writing empty instead of null.
func marshalJSON(v any, empty string) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return empty, nil
	}
	return string(b), nil
}
