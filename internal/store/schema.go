package store

import (
	"database/sql"
	"fmt"
)

// Table names.
const (
	tablePlans       = "plans"
	tableTasks       = "tasks"
	tableMastery     = "lesson_mastery"
	tableCards       = "review_cards"
	tablePlanEvents  = "plan_events"
	tableLLMRequests = "llm_requests"
)

// Dates are stored as YYYY-MM-DD text and instants as RFC 3339 text in
// UTC, so lexical order is chronological order.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS plans (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		exam_date       TEXT NOT NULL,
		daily_minutes   INTEGER NOT NULL,
		skip_days       TEXT NOT NULL DEFAULT '[]',
		skipped_lessons TEXT NOT NULL DEFAULT '[]',
		lessons         TEXT NOT NULL DEFAULT '[]',
		placement       TEXT NOT NULL DEFAULT 'even',
		seed            INTEGER NOT NULL DEFAULT 0,
		status          TEXT NOT NULL,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS plans_user_status ON plans (user_id, status)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id                TEXT PRIMARY KEY,
		plan_id           TEXT NOT NULL REFERENCES plans (id) ON DELETE CASCADE,
		scheduled_date    TEXT NOT NULL,
		task_type         TEXT NOT NULL,
		course_id         TEXT NOT NULL DEFAULT '',
		lesson_index      INTEGER NOT NULL DEFAULT 0,
		lesson_title      TEXT NOT NULL DEFAULT '',
		description       TEXT NOT NULL DEFAULT '',
		estimated_minutes INTEGER NOT NULL,
		status            TEXT NOT NULL,
		sort_order        INTEGER NOT NULL,
		position          INTEGER NOT NULL,
		metadata          TEXT NOT NULL DEFAULT '{}',
		finished_at       TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS tasks_plan_day ON tasks (plan_id, scheduled_date, sort_order, position)`,
	`CREATE TABLE IF NOT EXISTS lesson_mastery (
		user_id      TEXT NOT NULL,
		course_id    TEXT NOT NULL,
		lesson_index INTEGER NOT NULL,
		score        REAL NOT NULL CHECK (score >= 0 AND score <= 1),
		updated_at   TEXT NOT NULL,
		PRIMARY KEY (user_id, course_id, lesson_index)
	)`,
	`CREATE TABLE IF NOT EXISTS review_cards (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		course_id    TEXT NOT NULL,
		lesson_index INTEGER NOT NULL,
		state        TEXT NOT NULL,
		due          TEXT NOT NULL DEFAULT '',
		reps         INTEGER NOT NULL DEFAULT 0,
		lapses       INTEGER NOT NULL DEFAULT 0,
		front        TEXT NOT NULL DEFAULT '',
		back         TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS review_cards_user_due ON review_cards (user_id, due)`,
	`CREATE TABLE IF NOT EXISTS plan_events (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence   INTEGER NOT NULL UNIQUE,
		plan_id    TEXT NOT NULL,
		user_id    TEXT NOT NULL,
		kind       TEXT NOT NULL,
		detail     TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS llm_requests (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL UNIQUE,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL DEFAULT '',
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL
	)`,
}

// migrate creates any missing tables and indexes.
func migrate(db *sql.DB) error {
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
