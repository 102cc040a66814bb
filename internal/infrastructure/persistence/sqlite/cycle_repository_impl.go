package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stintd/stint/internal/domain/model/cycle"
	"github.com/stintd/stint/internal/domain/repository"
)

// CycleRepositoryImpl implements repository.CycleRepository with SQLite
type CycleRepositoryImpl struct {
	db *sql.DB
}

// NewCycleRepository creates a new SQLite-based cycle repository
func NewCycleRepository(db *sql.DB) repository.CycleRepository {
	return &CycleRepositoryImpl{db: db}
}

// Save inserts or updates a cycle record
func (r *CycleRepositoryImpl) Save(ctx context.Context, c *cycle.Cycle) error {
	query := `
		INSERT INTO cycles (id, label, focus_seconds, break_seconds,
		                    started_at, focus_done_at, ended_at, outcome, cancelled_phase)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			label = excluded.label,
			focus_done_at = excluded.focus_done_at,
			ended_at = excluded.ended_at,
			outcome = excluded.outcome,
			cancelled_phase = excluded.cancelled_phase
	`

	_, err := r.db.ExecContext(ctx, query,
		c.ID(), c.Label(), c.FocusSeconds(), c.BreakSeconds(),
		c.StartedAt().UTC().Format(timeLayout),
		nullableTime(c.FocusDoneAt()),
		nullableTime(c.EndedAt()),
		c.Outcome().String(), c.CancelledPhase(),
	)
	if err != nil {
		return fmt.Errorf("save cycle failed: %w", err)
	}
	return nil
}

// Find retrieves a cycle by ID
func (r *CycleRepositoryImpl) Find(ctx context.Context, id string) (*cycle.Cycle, error) {
	query := `
		SELECT id, label, focus_seconds, break_seconds,
		       started_at, focus_done_at, ended_at, outcome, cancelled_phase
		FROM cycles
		WHERE id = ?
	`

	row := r.db.QueryRowContext(ctx, query, id)
	rec, err := scanCycle(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cycle failed: %w", err)
	}
	return rec, nil
}

// ListRecent returns up to limit cycles, newest first.
// A non-positive limit returns none; SQLite would read a negative
// LIMIT as "unbounded".
func (r *CycleRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]*cycle.Cycle, error) {
	if limit <= 0 {
		return nil, nil
	}
	query := `
		SELECT id, label, focus_seconds, break_seconds,
		       started_at, focus_done_at, ended_at, outcome, cancelled_phase
		FROM cycles
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list cycles failed: %w", err)
	}
	defer rows.Close()

	return collectCycles(rows)
}

// ListSince returns cycles started at or after the given time, newest first
func (r *CycleRepositoryImpl) ListSince(ctx context.Context, since time.Time) ([]*cycle.Cycle, error) {
	query := `
		SELECT id, label, focus_seconds, break_seconds,
		       started_at, focus_done_at, ended_at, outcome, cancelled_phase
		FROM cycles
		WHERE started_at >= ?
		ORDER BY started_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, since.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("list cycles failed: %w", err)
	}
	defer rows.Close()

	return collectCycles(rows)
}

// rowScanner covers both sql.Row and sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanCycle reconstructs a cycle from one result row
func scanCycle(row rowScanner) (*cycle.Cycle, error) {
	var (
		id, label, outcome, cancelledPhase string
		focusSeconds, breakSeconds         int64
		startedAt                          string
		focusDoneAt, endedAt               sql.NullString
	)
	err := row.Scan(&id, &label, &focusSeconds, &breakSeconds,
		&startedAt, &focusDoneAt, &endedAt, &outcome, &cancelledPhase)
	if err != nil {
		return nil, err
	}

	started, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parse started_at failed: %w", err)
	}
	focusDone, err := parseNullableTime(focusDoneAt)
	if err != nil {
		return nil, fmt.Errorf("parse focus_done_at failed: %w", err)
	}
	ended, err := parseNullableTime(endedAt)
	if err != nil {
		return nil, fmt.Errorf("parse ended_at failed: %w", err)
	}

	return cycle.ReconstructCycle(id, label, focusSeconds, breakSeconds,
		started, focusDone, ended, cycle.Outcome(outcome), cancelledPhase), nil
}

// collectCycles drains a result set into cycle records
func collectCycles(rows *sql.Rows) ([]*cycle.Cycle, error) {
	var cycles []*cycle.Cycle
	for rows.Next() {
		rec, err := scanCycle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cycle failed: %w", err)
		}
		cycles = append(cycles, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cycles failed: %w", err)
	}
	return cycles, nil
}

// nullableTime maps the zero time to NULL
func nullableTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(timeLayout), Valid: true}
}

// parseNullableTime maps NULL to the zero time
func parseNullableTime(s sql.NullString) (time.Time, error) {
	if !s.Valid {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s.String)
}
