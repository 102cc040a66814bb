package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stintd/stint/internal/application/port/output"
	"github.com/stintd/stint/internal/infrastructure/di"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the timer daemon in the foreground",
		Long: "Keep the timer wakes armed so phase completions happen on time, " +
			"send notifications, and log transitions. Ctrl+Z suspends the process; " +
			"after it resumes, anything that came due while suspended is settled " +
			"on the next wake.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			if err := c.Start(ctx); err != nil {
				return err
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, getSignalsToHandle()...)
			defer signal.Stop(sigCh)

			Info("stint daemon running, store at %s", c.GetStorePath())

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return logTimerEvents(gctx, c.GetEventBus())
			})
			g.Go(func() error {
				return waitForShutdown(gctx, c, sigCh, cancel)
			})
			return g.Wait()
		},
	}

	return cmd
}

// logTimerEvents mirrors bus traffic into the daemon log until ctx ends
func logTimerEvents(ctx context.Context, bus output.EventBus) error {
	events, token := bus.Subscribe(16)
	defer bus.Unsubscribe(token)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Type == output.EventTick {
				Debug("tick phase=%s remaining=%s", ev.Phase, formatSeconds(ev.RemainingSeconds))
				continue
			}
			Info("%s phase=%s remaining=%s", ev.Type, ev.Phase, formatSeconds(ev.RemainingSeconds))
		}
	}
}

// waitForShutdown blocks until a termination signal or context end.
// SIGTSTP stops the process in place; after SIGCONT an immediate poll
// settles anything that came due while the process was suspended.
func waitForShutdown(ctx context.Context, c *di.Container, sigCh <-chan os.Signal, cancel context.CancelFunc) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-sigCh:
			if isSIGTSTP(sig) {
				Info("suspending")
				if err := suspendSelf(); err != nil {
					Warn("suspend failed: %v", err)
					continue
				}
				Info("resumed")
				if _, err := c.GetTimerUseCase().Poll(ctx); err != nil {
					Warn("settle after resume failed: %v", err)
				}
				continue
			}
			Info("received %s, shutting down", sig)
			cancel()
			return nil
		}
	}
}
