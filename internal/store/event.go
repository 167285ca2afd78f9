package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter manages the global monotonic sequence number shared across
// all event tables. Per-table auto-increment IDs can't establish cross-table
// ordering, so every event takes its sequence from here instead.
//
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// eventRepo implements EventRepo on the shared driver and sequence counter.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *eventRepo) AppendPlanEvent(ctx context.Context, e PlanEvent) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	detail, err := marshalJSON(e.Detail, "{}")
	if err != nil {
		return fmt.Errorf("marshal event detail: %w", err)
	}
	at := e.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}

	q, args := sqlb.Insert(tablePlanEvents).
		Columns("sequence", "plan_id", "user_id", "kind", "detail", "created_at").
		Values(seqNum, e.PlanID, e.UserID, string(e.Kind), detail, formatInstant(at)).
		Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("save plan event: %w", err)
	}
	return nil
}

type planEventRow struct {
	Sequence  int64  `sql:"sequence"`
	PlanID    string `sql:"plan_id"`
	UserID    string `sql:"user_id"`
	Kind      string `sql:"kind"`
	Detail    string `sql:"detail"`
	CreatedAt string `sql:"created_at"`
}

func (r *eventRepo) PlanEvents(ctx context.Context, planID string, opts QueryOpts) ([]PlanEvent, error) {
	preds := []*entsql.Predicate{entsql.EQ("plan_id", planID)}
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("created_at", formatInstant(opts.From)))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("created_at", formatInstant(opts.To)))
	}

	sel := sqlb.Select("sequence", "plan_id", "user_id", "kind", "detail", "created_at").
		From(sqlb.Table(tablePlanEvents)).
		Where(entsql.And(preds...)).
		OrderBy("sequence")
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	var rows []planEventRow
	if err := queryInto(ctx, r.drv, sel, &rows); err != nil {
		return nil, fmt.Errorf("query plan events: %w", err)
	}

	events := make([]PlanEvent, 0, len(rows))
	for _, row := range rows {
		e := PlanEvent{
			Sequence:  row.Sequence,
			PlanID:    row.PlanID,
			UserID:    row.UserID,
			Kind:      EventKind(row.Kind),
			CreatedAt: parseInstant(row.CreatedAt),
		}
		if err := json.Unmarshal([]byte(row.Detail), &e.Detail); err != nil {
			return nil, fmt.Errorf("decode event %d detail: %w", row.Sequence, err)
		}
		events = append(events, e)
	}
	return events, nil
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	q, args := sqlb.Insert(tableLLMRequests).
		Columns("sequence", "provider", "model", "purpose", "input_tokens", "output_tokens",
			"latency_ms", "success", "error_message", "created_at").
		Values(seqNum, data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens,
			data.LatencyMs, data.Success, data.ErrorMessage, formatInstant(time.Now())).
		Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) LLMUsage(ctx context.Context) ([]LLMUsage, error) {
	sel := sqlb.Select(
		"provider",
		"model",
		entsql.As(entsql.Count("*"), "requests"),
		entsql.As("SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END)", "failures"),
		entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
		entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
	).
		From(sqlb.Table(tableLLMRequests)).
		GroupBy("provider", "model").
		OrderBy("provider", "model")

	var usage []LLMUsage
	if err := queryInto(ctx, r.drv, sel, &usage); err != nil {
		return nil, fmt.Errorf("query LLM usage: %w", err)
	}
	return usage, nil
}
