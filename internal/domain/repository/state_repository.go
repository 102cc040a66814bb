package repository

import (
	"context"
	"errors"

	"github.com/stintd/stint/internal/domain/model/timer"
)

// ErrNotFound is returned when a requested record does not exist yet
var ErrNotFound = errors.New("record not found")

// StateRepository manages the durable timer records.
//
// The store holds two named flat records: the interval config and the timer
// state. Implementations must provide read-your-writes visibility: a Save
// followed by a Load from the same process returns the saved value.
type StateRepository interface {
	// LoadState retrieves the persisted timer state
	// Returns ErrNotFound when no state has been saved yet
	LoadState(ctx context.Context) (timer.TimerState, error)

	// SaveState persists the timer state
	SaveState(ctx context.Context, state timer.TimerState) error

	// LoadConfig retrieves the persisted interval config
	// Returns ErrNotFound when no config has been saved yet
	LoadConfig(ctx context.Context) (timer.Config, error)

	// SaveConfig persists the interval config
	SaveConfig(ctx context.Context, cfg timer.Config) error
}
