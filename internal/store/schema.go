package store

import (
	"context"
	"database/sql"
	"fmt"
)

// schema lists the tables owned by the store. Statements are idempotent so
// they run on every Open.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp_ms INTEGER NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		success BOOLEAN NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_request_events_purpose ON llm_request_events (purpose)`,
	`CREATE TABLE IF NOT EXISTS step_states (
		instance TEXT NOT NULL,
		step TEXT NOT NULL,
		data TEXT NOT NULL,
		updated_ms INTEGER NOT NULL,
		PRIMARY KEY (instance, step)
	)`,
	`CREATE TABLE IF NOT EXISTS workflow_transitions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp_ms INTEGER NOT NULL,
		instance TEXT NOT NULL,
		from_step TEXT NOT NULL,
		event TEXT NOT NULL,
		to_step TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_workflow_transitions_instance ON workflow_transitions (instance)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
