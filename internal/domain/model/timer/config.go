package timer

import (
	"errors"
	"time"
)

// Config holds the interval lengths a cycle runs with.
// Durations are whole seconds and must be strictly positive.
// A running cycle keeps the config it started with; replacing the
// stored config is only allowed while the timer is idle.
type Config struct {
	focusSeconds int64
	breakSeconds int64
}

// DefaultFocusSeconds and DefaultBreakSeconds are the classic 25/5 split.
const (
	DefaultFocusSeconds int64 = 25 * 60
	DefaultBreakSeconds int64 = 5 * 60
)

// ErrInvalidDurations is returned when either interval is zero or negative
var ErrInvalidDurations = errors.New("focus and break durations must be positive")

// NewConfig creates a validated Config
func NewConfig(focusSeconds, breakSeconds int64) (Config, error) {
	if focusSeconds <= 0 || breakSeconds <= 0 {
		return Config{}, ErrInvalidDurations
	}
	return Config{
		focusSeconds: focusSeconds,
		breakSeconds: breakSeconds,
	}, nil
}

// DefaultConfig returns the default interval lengths
func DefaultConfig() Config {
	return Config{
		focusSeconds: DefaultFocusSeconds,
		breakSeconds: DefaultBreakSeconds,
	}
}

// ReconstructConfig reconstructs a Config from persisted data
// Used by repository when loading from storage
func ReconstructConfig(focusSeconds, breakSeconds int64) Config {
	return Config{
		focusSeconds: focusSeconds,
		breakSeconds: breakSeconds,
	}
}

// IsZero reports whether the config carries no durations at all
func (c Config) IsZero() bool {
	return c.focusSeconds == 0 && c.breakSeconds == 0
}

// Getters
func (c Config) FocusSeconds() int64          { return c.focusSeconds }
func (c Config) BreakSeconds() int64          { return c.breakSeconds }
func (c Config) FocusDuration() time.Duration { return time.Duration(c.focusSeconds) * time.Second }
func (c Config) BreakDuration() time.Duration { return time.Duration(c.breakSeconds) * time.Second }
