package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stintd/stint/internal/domain/model/timer"
	"github.com/stintd/stint/internal/domain/repository"
)

// timeLayout is RFC3339 with fixed-width nanoseconds. It keeps sub-second
// precision across save/load round trips, and because every stored string
// has the same length, lexicographic order matches chronological order,
// which the cycle queries rely on.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// StateRepositoryImpl implements repository.StateRepository with SQLite
type StateRepositoryImpl struct {
	db *sql.DB
}

// NewStateRepository creates a new SQLite-based state repository
func NewStateRepository(db *sql.DB) repository.StateRepository {
	return &StateRepositoryImpl{db: db}
}

// LoadState retrieves the persisted timer state
func (r *StateRepositoryImpl) LoadState(ctx context.Context) (timer.TimerState, error) {
	query := `SELECT phase, end_at, remaining_seconds, label, cycle_id FROM timer_state WHERE id = 1`

	var (
		phase     string
		endAt     sql.NullString
		remaining sql.NullInt64
		label     string
		cycleID   string
	)
	err := r.db.QueryRowContext(ctx, query).Scan(&phase, &endAt, &remaining, &label, &cycleID)
	if err == sql.ErrNoRows {
		return timer.TimerState{}, repository.ErrNotFound
	}
	if err != nil {
		return timer.TimerState{}, fmt.Errorf("query timer state failed: %w", err)
	}

	var end time.Time
	if endAt.Valid {
		end, err = time.Parse(time.RFC3339Nano, endAt.String)
		if err != nil {
			return timer.TimerState{}, fmt.Errorf("parse end_at failed: %w", err)
		}
	}

	state := timer.ReconstructState(timer.Phase(phase), end, remaining.Int64, label, cycleID)
	if err := state.Validate(); err != nil {
		return timer.TimerState{}, fmt.Errorf("stored timer state invalid: %w", err)
	}
	return state, nil
}

// SaveState persists the timer state as the single state row
func (r *StateRepositoryImpl) SaveState(ctx context.Context, state timer.TimerState) error {
	query := `
		INSERT INTO timer_state (id, phase, end_at, remaining_seconds, label, cycle_id, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			phase = excluded.phase,
			end_at = excluded.end_at,
			remaining_seconds = excluded.remaining_seconds,
			label = excluded.label,
			cycle_id = excluded.cycle_id,
			updated_at = excluded.updated_at
	`

	var endAt sql.NullString
	if end, ok := state.EndAt(); ok {
		endAt = sql.NullString{String: end.UTC().Format(timeLayout), Valid: true}
	}
	var remaining sql.NullInt64
	if secs, ok := state.RemainingSeconds(); ok {
		remaining = sql.NullInt64{Int64: secs, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		state.Phase().String(), endAt, remaining,
		state.Label(), state.CycleID(),
		time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("save timer state failed: %w", err)
	}
	return nil
}

// LoadConfig retrieves the persisted interval config
func (r *StateRepositoryImpl) LoadConfig(ctx context.Context) (timer.Config, error) {
	query := `SELECT focus_seconds, break_seconds FROM timer_config WHERE id = 1`

	var focusSeconds, breakSeconds int64
	err := r.db.QueryRowContext(ctx, query).Scan(&focusSeconds, &breakSeconds)
	if err == sql.ErrNoRows {
		return timer.Config{}, repository.ErrNotFound
	}
	if err != nil {
		return timer.Config{}, fmt.Errorf("query timer config failed: %w", err)
	}

	return timer.ReconstructConfig(focusSeconds, breakSeconds), nil
}

// SaveConfig persists the interval config as the single config row
func (r *StateRepositoryImpl) SaveConfig(ctx context.Context, cfg timer.Config) error {
	query := `
		INSERT INTO timer_config (id, focus_seconds, break_seconds, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			focus_seconds = excluded.focus_seconds,
			break_seconds = excluded.break_seconds,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		cfg.FocusSeconds(), cfg.BreakSeconds(),
		time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("save timer config failed: %w", err)
	}
	return nil
}
