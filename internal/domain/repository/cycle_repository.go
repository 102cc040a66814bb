package repository

import (
	"context"
	"time"

	"github.com/stintd/stint/internal/domain/model/cycle"
)

// CycleRepository manages cycle history persistence
type CycleRepository interface {
	// Save inserts or updates a cycle record
	Save(ctx context.Context, c *cycle.Cycle) error

	// Find retrieves a cycle by ID
	// Returns ErrNotFound when the cycle does not exist
	Find(ctx context.Context, id string) (*cycle.Cycle, error)

	// ListRecent returns up to limit cycles, newest first.
	// A non-positive limit returns none.
	ListRecent(ctx context.Context, limit int) ([]*cycle.Cycle, error)

	// ListSince returns cycles started at or after the given time, newest first
	ListSince(ctx context.Context, since time.Time) ([]*cycle.Cycle, error)
}
