package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const transitionsTable = "workflow_transitions"

// Transition is one dispatch of the workflow engine.
type Transition struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Instance  string
	FromStep  string
	Event     string
	ToStep    string
}

// TransitionRepo is the append-only workflow transition log.
type TransitionRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

// RecordTransition appends a transition. toStep is empty for terminal events.
func (r *TransitionRepo) RecordTransition(ctx context.Context, instance, fromStep, event, toStep string) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(transitionsTable).
		Columns("sequence", "timestamp_ms", "instance", "from_step", "event", "to_step").
		Values(seqNum, time.Now().UnixMilli(), instance, fromStep, event, toStep).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save transition: %w", err)
	}
	return nil
}

// List returns transitions oldest first. An empty instance matches all
// instances; limit <= 0 means unlimited and otherwise keeps the newest.
func (r *TransitionRepo) List(ctx context.Context, instance string, limit int) ([]Transition, error) {
	sel := builder().Select("id", "sequence", "timestamp_ms", "instance", "from_step", "event", "to_step").
		From(entsql.Table(transitionsTable)).
		OrderBy(entsql.Desc("sequence"))
	if instance != "" {
		sel.Where(entsql.EQ("instance", instance))
	}
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transitions: %w", err)
	}
	defer rows.Close()

	var out []Transition
	for rows.Next() {
		var t Transition
		var tsMs int64
		if err := rows.Scan(&t.ID, &t.Sequence, &tsMs, &t.Instance, &t.FromStep, &t.Event, &t.ToStep); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		t.Timestamp = time.UnixMilli(tsMs).UTC()
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.Reverse(out)
	return out, nil
}
