package timer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/stintd/stint/internal/application/dto"
	domaintimer "github.com/stintd/stint/internal/domain/model/timer"
)

// Pausing and resuming any number of times only ever shifts the end
// timestamp forward by the time spent paused; the focus interval itself
// never shrinks or grows, and the stored state always carries exactly one
// of end timestamp and remaining duration.
func TestPauseResume_PreservesFocusBudget(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		fx := newFixture()
		ctx := context.Background()

		focus := rapid.Int64Range(2, 3600).Draw(rt, "focus")
		brk := rapid.Int64Range(1, 3600).Draw(rt, "break")
		res, err := fx.controller.Start(ctx, dto.StartTimerRequest{
			FocusSeconds: focus,
			BreakSeconds: brk,
		})
		require.NoError(rt, err)
		require.True(rt, res.Ok)

		ran := rapid.Int64Range(0, focus-1).Draw(rt, "ran")
		fx.clock.Advance(time.Duration(ran) * time.Second)
		budget := focus - ran

		pauses := rapid.IntRange(1, 4).Draw(rt, "pauses")
		for i := 0; i < pauses; i++ {
			res, err = fx.controller.Pause(ctx)
			require.NoError(rt, err)
			require.True(rt, res.Ok)

			state := fx.states.State()
			require.NoError(rt, state.Validate())
			remaining, hasRemaining := state.RemainingSeconds()
			require.True(rt, hasRemaining)
			require.Equal(rt, budget, remaining)
			require.GreaterOrEqual(rt, remaining, int64(1))

			gap := rapid.Int64Range(0, 7200).Draw(rt, "gap")
			fx.clock.Advance(time.Duration(gap) * time.Second)

			res, err = fx.controller.Resume(ctx)
			require.NoError(rt, err)
			require.True(rt, res.Ok)

			state = fx.states.State()
			require.NoError(rt, state.Validate())
			endAt, hasEnd := state.EndAt()
			require.True(rt, hasEnd)
			require.True(rt, endAt.Equal(fx.clock.Now().Add(time.Duration(budget)*time.Second)))

			if i < pauses-1 && budget > 1 {
				chunk := rapid.Int64Range(0, budget-1).Draw(rt, "chunk")
				fx.clock.Advance(time.Duration(chunk) * time.Second)
				budget -= chunk
			}
		}

		// Let the remaining budget run out; any entry settles the phase
		fx.clock.Advance(time.Duration(budget+1) * time.Second)
		res, err = fx.controller.Poll(ctx)
		require.NoError(rt, err)
		require.Equal(rt, domaintimer.PhaseWaitingConfirm.String(), res.Status.Phase)
		require.Len(rt, fx.notifier.Notifications(), 1)
	})
}
