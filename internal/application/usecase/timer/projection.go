package timer

import (
	"time"

	"github.com/stintd/stint/internal/application/dto"
	domaintimer "github.com/stintd/stint/internal/domain/model/timer"
)

// ProjectStatus derives the presentable status from the domain state as
// seen at now. It is a pure function; hosts render it without touching
// controller internals.
func ProjectStatus(state domaintimer.TimerState, cfg domaintimer.Config, now time.Time) dto.StatusDTO {
	status := dto.StatusDTO{
		Phase:            state.Phase().String(),
		Label:            state.Label(),
		Running:          state.Phase().IsRunning(),
		Paused:           state.Phase().IsPaused(),
		RemainingSeconds: remainingSeconds(state, now),
		FocusSeconds:     cfg.FocusSeconds(),
		BreakSeconds:     cfg.BreakSeconds(),
		CycleID:          state.CycleID(),
	}
	if endAt, ok := state.EndAt(); ok {
		status.EndAt = endAt.UTC().Format(time.RFC3339)
	}
	return status
}

// remainingSeconds rounds the remaining time up to whole seconds for display
func remainingSeconds(state domaintimer.TimerState, now time.Time) int64 {
	remaining := state.RemainingAt(now)
	if remaining <= 0 {
		return 0
	}
	return int64((remaining + time.Second - 1) / time.Second)
}
