package cycle

import (
	"crypto/rand"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
)

// Outcome describes how a cycle ended
type Outcome string

const (
	OutcomeOpen      Outcome = "OPEN"      // cycle still in progress
	OutcomeCompleted Outcome = "COMPLETED" // break finished normally
	OutcomeCancelled Outcome = "CANCELLED" // user cancelled mid-cycle
)

// String returns the string representation
func (o Outcome) String() string {
	return string(o)
}

// IsValid validates the outcome
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeOpen, OutcomeCompleted, OutcomeCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the cycle is finished
func (o Outcome) IsTerminal() bool {
	return o == OutcomeCompleted || o == OutcomeCancelled
}

// GenerateID generates a new cycle ID using ULID
// Format: ULID (e.g., 01JB6X8Y2K9FQR4T3VWHGP5M2C)
func GenerateID(now time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}

// Cycle is one focus/break round of the timer, kept as history.
// A cycle opens when a focus interval starts and closes when the break
// completes or the user cancels.
type Cycle struct {
	id             string
	label          string
	focusSeconds   int64
	breakSeconds   int64
	startedAt      time.Time
	focusDoneAt    time.Time // zero until the focus interval completed
	endedAt        time.Time // zero until the cycle closed
	outcome        Outcome
	cancelledPhase string // phase at cancel time, empty otherwise
}

// NewCycle opens a cycle record for a starting focus interval
func NewCycle(id, label string, focusSeconds, breakSeconds int64, startedAt time.Time) (*Cycle, error) {
	if id == "" {
		return nil, errors.New("cycle ID cannot be empty")
	}
	return &Cycle{
		id:           id,
		label:        label,
		focusSeconds: focusSeconds,
		breakSeconds: breakSeconds,
		startedAt:    startedAt,
		outcome:      OutcomeOpen,
	}, nil
}

// ReconstructCycle reconstructs a Cycle from persisted data
// Used by repository when loading from storage
func ReconstructCycle(
	id, label string,
	focusSeconds, breakSeconds int64,
	startedAt, focusDoneAt, endedAt time.Time,
	outcome Outcome,
	cancelledPhase string,
) *Cycle {
	return &Cycle{
		id:             id,
		label:          label,
		focusSeconds:   focusSeconds,
		breakSeconds:   breakSeconds,
		startedAt:      startedAt,
		focusDoneAt:    focusDoneAt,
		endedAt:        endedAt,
		outcome:        outcome,
		cancelledPhase: cancelledPhase,
	}
}

// MarkFocusDone records the completion time of the focus interval
func (c *Cycle) MarkFocusDone(at time.Time) error {
	if c.outcome != OutcomeOpen {
		return errors.New("cycle already closed")
	}
	c.focusDoneAt = at
	return nil
}

// Close finishes the cycle with the given outcome
func (c *Cycle) Close(outcome Outcome, cancelledPhase string, at time.Time) error {
	if !outcome.IsTerminal() {
		return errors.New("close requires a terminal outcome")
	}
	if c.outcome.IsTerminal() {
		return errors.New("cycle already closed")
	}
	c.outcome = outcome
	c.cancelledPhase = cancelledPhase
	c.endedAt = at
	return nil
}

// FocusWallTime returns how long the focus interval took on the wall clock,
// including paused stretches. Zero until the focus interval completed.
func (c *Cycle) FocusWallTime() time.Duration {
	if c.focusDoneAt.IsZero() {
		return 0
	}
	return c.focusDoneAt.Sub(c.startedAt)
}

// Getters
func (c *Cycle) ID() string             { return c.id }
func (c *Cycle) Label() string          { return c.label }
func (c *Cycle) FocusSeconds() int64    { return c.focusSeconds }
func (c *Cycle) BreakSeconds() int64    { return c.breakSeconds }
func (c *Cycle) StartedAt() time.Time   { return c.startedAt }
func (c *Cycle) FocusDoneAt() time.Time { return c.focusDoneAt }
func (c *Cycle) EndedAt() time.Time     { return c.endedAt }
func (c *Cycle) Outcome() Outcome       { return c.outcome }
func (c *Cycle) CancelledPhase() string { return c.cancelledPhase }
