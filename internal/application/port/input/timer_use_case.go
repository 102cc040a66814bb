package input

import (
	"context"

	"github.com/stintd/stint/internal/application/dto"
)

// TimerUseCase defines the interface for driving the interval timer.
//
// Every operation settles an overdue phase before it runs, so any call,
// including a plain Poll, brings the stored state up to date after the
// process was suspended past an end timestamp.
type TimerUseCase interface {
	// Start begins a focus interval from idle
	Start(ctx context.Context, req dto.StartTimerRequest) (*dto.OperationResult, error)

	// Acknowledge confirms a completed focus interval and begins the break.
	// Outside WaitingConfirm it is a harmless no-op.
	Acknowledge(ctx context.Context) (*dto.OperationResult, error)

	// Pause freezes the running interval
	Pause(ctx context.Context) (*dto.OperationResult, error)

	// Resume restarts a paused interval
	Resume(ctx context.Context) (*dto.OperationResult, error)

	// Cancel aborts the current cycle and returns the timer to idle
	Cancel(ctx context.Context) (*dto.OperationResult, error)

	// Poll settles any overdue completion and reports the current status
	Poll(ctx context.Context) (*dto.OperationResult, error)
}

// HistoryUseCase defines the interface for reading cycle history
type HistoryUseCase interface {
	// ListRecent returns up to limit cycles, newest first
	ListRecent(ctx context.Context, limit int) ([]dto.CycleDTO, error)

	// Stats aggregates the cycles of the past windowDays days
	Stats(ctx context.Context, windowDays int) (*dto.StatsDTO, error)

	// Export writes the cycles of the past windowDays days to the archive.
	// A windowDays of zero exports everything.
	Export(ctx context.Context, windowDays int) (*dto.ExportResult, error)
}
