package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const stepStatesTable = "step_states"

// StepStateRepo persists per-step conversation snapshots for one workflow
// instance. Snapshots are opaque JSON documents keyed by step name.
type StepStateRepo struct {
	db       *sql.DB
	instance string
}

// Instance returns the workflow instance this repo is bound to.
func (r *StepStateRepo) Instance() string {
	return r.instance
}

// SaveState stores the snapshot for step, replacing any previous one.
func (r *StepStateRepo) SaveState(ctx context.Context, step string, data []byte) error {
	query, args := builder().Insert(stepStatesTable).
		Columns("instance", "step", "data", "updated_ms").
		Values(r.instance, step, string(data), time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("instance", "step"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save step state %q: %w", step, err)
	}
	return nil
}

// LoadState returns the snapshot for step, or nil if none was saved.
func (r *StepStateRepo) LoadState(ctx context.Context, step string) ([]byte, error) {
	query, args := builder().Select("data").
		From(entsql.Table(stepStatesTable)).
		Where(entsql.And(
			entsql.EQ("instance", r.instance),
			entsql.EQ("step", step),
		)).
		Query()

	var data string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load step state %q: %w", step, err)
	}
	return []byte(data), nil
}

// ClearStates removes every snapshot of the instance.
func (r *StepStateRepo) ClearStates(ctx context.Context) error {
	query, args := builder().Delete(stepStatesTable).
		Where(entsql.EQ("instance", r.instance)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear step states: %w", err)
	}
	return nil
}

// Steps lists the steps that currently hold a snapshot.
func (r *StepStateRepo) Steps(ctx context.Context) ([]string, error) {
	query, args := builder().Select("step").
		From(entsql.Table(stepStatesTable)).
		Where(entsql.EQ("instance", r.instance)).
		OrderBy("step").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list step states: %w", err)
	}
	defer rows.Close()

	var steps []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		steps = append(steps, s)
	}
	return steps, rows.Err()
}
