package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stintd/stint/internal/infrastructure/watcher"
	"github.com/stintd/stint/internal/interface/tui"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the timer in a live terminal view",
		Long: "Open a full-screen countdown with keyboard control. The view also " +
			"keeps the timer wakes armed, so it doubles as the foreground daemon, " +
			"and it follows store changes made by other stint processes.",
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

			w, err := watcher.NewStoreWatcher(c.GetStorePath())
			if err != nil {
				return err
			}
			if err := w.Start(ctx); err != nil {
				return err
			}
			defer w.Stop()

			model := tui.NewModel(c.GetTimerUseCase(), c.GetEventBus(), w)
			p := tea.NewProgram(model, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	return cmd
}
