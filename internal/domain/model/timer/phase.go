package timer

// Phase represents the lifecycle position of the interval timer
type Phase string

const (
	PhaseIdle           Phase = "IDLE"
	PhaseRunningFocus   Phase = "RUNNING_FOCUS"
	PhaseWaitingConfirm Phase = "WAITING_CONFIRM"
	PhaseRunningBreak   Phase = "RUNNING_BREAK"
	PhasePausedFocus    Phase = "PAUSED_FOCUS"
	PhasePausedBreak    Phase = "PAUSED_BREAK"
)

// String returns the string representation
func (p Phase) String() string {
	return string(p)
}

// IsValid validates the phase
func (p Phase) IsValid() bool {
	switch p {
	case PhaseIdle, PhaseRunningFocus, PhaseWaitingConfirm,
		PhaseRunningBreak, PhasePausedFocus, PhasePausedBreak:
		return true
	default:
		return false
	}
}

// IsRunning reports whether the phase counts down against an absolute end timestamp
func (p Phase) IsRunning() bool {
	return p == PhaseRunningFocus || p == PhaseRunningBreak
}

// IsPaused reports whether the phase holds a frozen remaining duration
func (p Phase) IsPaused() bool {
	return p == PhasePausedFocus || p == PhasePausedBreak
}

// Paused returns the paused counterpart of a running phase
func (p Phase) Paused() (Phase, bool) {
	switch p {
	case PhaseRunningFocus:
		return PhasePausedFocus, true
	case PhaseRunningBreak:
		return PhasePausedBreak, true
	default:
		return p, false
	}
}

// Resumed returns the running counterpart of a paused phase
func (p Phase) Resumed() (Phase, bool) {
	switch p {
	case PhasePausedFocus:
		return PhaseRunningFocus, true
	case PhasePausedBreak:
		return PhaseRunningBreak, true
	default:
		return p, false
	}
}

// CanTransitionTo checks if a phase transition is valid
func (p Phase) CanTransitionTo(next Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseIdle:           {PhaseRunningFocus},
		PhaseRunningFocus:   {PhaseWaitingConfirm, PhasePausedFocus, PhaseIdle},
		PhaseWaitingConfirm: {PhaseRunningBreak, PhaseIdle},
		PhaseRunningBreak:   {PhaseIdle, PhasePausedBreak},
		PhasePausedFocus:    {PhaseRunningFocus, PhaseIdle},
		PhasePausedBreak:    {PhaseRunningBreak, PhaseIdle},
	}

	allowed, exists := validTransitions[p]
	if !exists {
		return false
	}

	for _, allowedPhase := range allowed {
		if allowedPhase == next {
			return true
		}
	}
	return false
}
