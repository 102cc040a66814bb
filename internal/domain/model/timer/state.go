package timer

import (
	"fmt"
	"time"
)

// TimerState is the durable snapshot of the interval timer.
//
// While a phase is running only the absolute end timestamp is meaningful;
// while paused only the frozen remaining duration is. Idle and WaitingConfirm
// carry neither. Completion is always decided by comparing the stored end
// timestamp against the clock, never by an in-process timer, so the state
// stays correct across arbitrary process suspension.
type TimerState struct {
	phase            Phase
	endAt            time.Time // zero unless phase is running
	remainingSeconds int64     // zero unless phase is paused; always >= 1 when set
	label            string
	cycleID          string // history record the current cycle writes to
}

// NewIdleState creates the initial idle state
func NewIdleState() TimerState {
	return TimerState{phase: PhaseIdle}
}

// ReconstructState reconstructs a TimerState from persisted data
// Used by repository when loading from storage
func ReconstructState(phase Phase, endAt time.Time, remainingSeconds int64, label, cycleID string) TimerState {
	return TimerState{
		phase:            phase,
		endAt:            endAt,
		remainingSeconds: remainingSeconds,
		label:            label,
		cycleID:          cycleID,
	}
}

// Validate checks the phase/field invariants of the state
func (s TimerState) Validate() error {
	if !s.phase.IsValid() {
		return fmt.Errorf("unknown phase %q", s.phase)
	}
	switch {
	case s.phase.IsRunning():
		if s.endAt.IsZero() {
			return fmt.Errorf("phase %s requires an end timestamp", s.phase)
		}
		if s.remainingSeconds != 0 {
			return fmt.Errorf("phase %s must not carry a remaining duration", s.phase)
		}
	case s.phase.IsPaused():
		if s.remainingSeconds < 1 {
			return fmt.Errorf("phase %s requires a remaining duration of at least 1s", s.phase)
		}
		if !s.endAt.IsZero() {
			return fmt.Errorf("phase %s must not carry an end timestamp", s.phase)
		}
	default:
		if !s.endAt.IsZero() || s.remainingSeconds != 0 {
			return fmt.Errorf("phase %s must not carry timing fields", s.phase)
		}
	}
	return nil
}

// IsDue reports whether a running phase has reached its end timestamp.
// Paused phases are never due, regardless of any stale timestamp.
func (s TimerState) IsDue(now time.Time) bool {
	if !s.phase.IsRunning() {
		return false
	}
	return !now.Before(s.endAt)
}

// StartFocus begins a focus interval from idle
func (s TimerState) StartFocus(cfg Config, label, cycleID string, now time.Time) (TimerState, error) {
	if !s.phase.CanTransitionTo(PhaseRunningFocus) {
		return TimerState{}, fmt.Errorf("invalid phase transition from %s to %s", s.phase, PhaseRunningFocus)
	}
	return TimerState{
		phase:   PhaseRunningFocus,
		endAt:   now.Add(cfg.FocusDuration()),
		label:   label,
		cycleID: cycleID,
	}, nil
}

// Complete applies the completion transition for a due running phase.
// A finished focus interval waits for confirmation; a finished break
// interval resets the timer to idle.
func (s TimerState) Complete() (TimerState, error) {
	switch s.phase {
	case PhaseRunningFocus:
		return TimerState{
			phase:   PhaseWaitingConfirm,
			label:   s.label,
			cycleID: s.cycleID,
		}, nil
	case PhaseRunningBreak:
		return NewIdleState(), nil
	default:
		return TimerState{}, fmt.Errorf("phase %s cannot complete", s.phase)
	}
}

// AcknowledgeBreak begins the break interval after the user confirmed
// the completed focus interval
func (s TimerState) AcknowledgeBreak(cfg Config, now time.Time) (TimerState, error) {
	if !s.phase.CanTransitionTo(PhaseRunningBreak) {
		return TimerState{}, fmt.Errorf("invalid phase transition from %s to %s", s.phase, PhaseRunningBreak)
	}
	return TimerState{
		phase:   PhaseRunningBreak,
		endAt:   now.Add(cfg.BreakDuration()),
		label:   s.label,
		cycleID: s.cycleID,
	}, nil
}

// Pause freezes a running phase. The remaining duration is captured as
// whole seconds, rounded up, and never below one second.
func (s TimerState) Pause(now time.Time) (TimerState, error) {
	paused, ok := s.phase.Paused()
	if !ok {
		return TimerState{}, fmt.Errorf("phase %s cannot pause", s.phase)
	}
	return TimerState{
		phase:            paused,
		remainingSeconds: ceilSeconds(s.endAt.Sub(now)),
		label:            s.label,
		cycleID:          s.cycleID,
	}, nil
}

// Resume restarts a paused phase against a fresh end timestamp
func (s TimerState) Resume(now time.Time) (TimerState, error) {
	resumed, ok := s.phase.Resumed()
	if !ok {
		return TimerState{}, fmt.Errorf("phase %s cannot resume", s.phase)
	}
	return TimerState{
		phase:   resumed,
		endAt:   now.Add(time.Duration(s.remainingSeconds) * time.Second),
		label:   s.label,
		cycleID: s.cycleID,
	}, nil
}

// Cancel aborts the current cycle and resets the timer to idle
func (s TimerState) Cancel() TimerState {
	return NewIdleState()
}

// RemainingAt returns the time left on the interval as seen at now.
// Running phases derive it from the end timestamp, paused phases return
// the frozen value, idle and waiting phases have nothing left.
func (s TimerState) RemainingAt(now time.Time) time.Duration {
	switch {
	case s.phase.IsRunning():
		if remaining := s.endAt.Sub(now); remaining > 0 {
			return remaining
		}
		return 0
	case s.phase.IsPaused():
		return time.Duration(s.remainingSeconds) * time.Second
	default:
		return 0
	}
}

// ceilSeconds rounds a duration up to whole seconds with a floor of one
func ceilSeconds(d time.Duration) int64 {
	secs := int64(d / time.Second)
	if d%time.Second > 0 {
		secs++
	}
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Getters
func (s TimerState) Phase() Phase    { return s.phase }
func (s TimerState) Label() string   { return s.label }
func (s TimerState) CycleID() string { return s.cycleID }

// EndAt returns the absolute end timestamp of a running phase
func (s TimerState) EndAt() (time.Time, bool) {
	if s.endAt.IsZero() {
		return time.Time{}, false
	}
	return s.endAt, true
}

// RemainingSeconds returns the frozen remaining duration of a paused phase
func (s TimerState) RemainingSeconds() (int64, bool) {
	if s.remainingSeconds == 0 {
		return 0, false
	}
	return s.remainingSeconds, true
}
