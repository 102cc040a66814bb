package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/afero"

	"github.com/stintd/stint/internal/domain/model/timer"
	"github.com/stintd/stint/internal/domain/repository"
)

const (
	stateFile  = "state.json"
	configFile = "config.json"
)

// stateRecord is the JSON document persisted for the timer state
type stateRecord struct {
	Phase            string     `json:"phase"`
	EndAt            *time.Time `json:"end_at,omitempty"`
	RemainingSeconds int64      `json:"remaining_seconds,omitempty"`
	Label            string     `json:"label,omitempty"`
	CycleID          string     `json:"cycle_id,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// configRecord is the JSON document persisted for the interval config
type configRecord struct {
	FocusSeconds int64     `json:"focus_seconds"`
	BreakSeconds int64     `json:"break_seconds"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StateRepositoryImpl implements repository.StateRepository with JSON files
type StateRepositoryImpl struct {
	fs  afero.Fs
	dir string
}

// NewStateRepository creates a file-based state repository rooted at dir
func NewStateRepository(fs afero.Fs, dir string) repository.StateRepository {
	return &StateRepositoryImpl{fs: fs, dir: dir}
}

// LoadState retrieves the persisted timer state
func (r *StateRepositoryImpl) LoadState(ctx context.Context) (timer.TimerState, error) {
	data, err := afero.ReadFile(r.fs, filepath.Join(r.dir, stateFile))
	if os.IsNotExist(err) {
		return timer.TimerState{}, repository.ErrNotFound
	}
	if err != nil {
		return timer.TimerState{}, fmt.Errorf("read state file failed: %w", err)
	}

	var rec stateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return timer.TimerState{}, fmt.Errorf("decode state file failed: %w", err)
	}

	var endAt time.Time
	if rec.EndAt != nil {
		endAt = *rec.EndAt
	}
	state := timer.ReconstructState(timer.Phase(rec.Phase), endAt, rec.RemainingSeconds, rec.Label, rec.CycleID)
	if err := state.Validate(); err != nil {
		return timer.TimerState{}, fmt.Errorf("stored timer state invalid: %w", err)
	}
	return state, nil
}

// SaveState persists the timer state atomically
func (r *StateRepositoryImpl) SaveState(ctx context.Context, state timer.TimerState) error {
	rec := stateRecord{
		Phase:     state.Phase().String(),
		Label:     state.Label(),
		CycleID:   state.CycleID(),
		UpdatedAt: time.Now().UTC(),
	}
	if endAt, ok := state.EndAt(); ok {
		utc := endAt.UTC()
		rec.EndAt = &utc
	}
	if secs, ok := state.RemainingSeconds(); ok {
		rec.RemainingSeconds = secs
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state failed: %w", err)
	}
	if err := WriteFileAtomic(r.fs, filepath.Join(r.dir, stateFile), append(data, '\n')); err != nil {
		return fmt.Errorf("save state file failed: %w", err)
	}
	return nil
}

// LoadConfig retrieves the persisted interval config
func (r *StateRepositoryImpl) LoadConfig(ctx context.Context) (timer.Config, error) {
	data, err := afero.ReadFile(r.fs, filepath.Join(r.dir, configFile))
	if os.IsNotExist(err) {
		return timer.Config{}, repository.ErrNotFound
	}
	if err != nil {
		return timer.Config{}, fmt.Errorf("read config file failed: %w", err)
	}

	var rec configRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return timer.Config{}, fmt.Errorf("decode config file failed: %w", err)
	}
	return timer.ReconstructConfig(rec.FocusSeconds, rec.BreakSeconds), nil
}

// SaveConfig persists the interval config atomically
func (r *StateRepositoryImpl) SaveConfig(ctx context.Context, cfg timer.Config) error {
	rec := configRecord{
		FocusSeconds: cfg.FocusSeconds(),
		BreakSeconds: cfg.BreakSeconds(),
		UpdatedAt:    time.Now().UTC(),
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config failed: %w", err)
	}
	if err := WriteFileAtomic(r.fs, filepath.Join(r.dir, configFile), append(data, '\n')); err != nil {
		return fmt.Errorf("save config file failed: %w", err)
	}
	return nil
}
