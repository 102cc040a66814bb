package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/stintd/stint/internal/application/dto"
)

func newStartCmd() *cobra.Command {
	var (
		focus      time.Duration
		breakDur   time.Duration
		label      string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a focus interval",
		Long:  "Begin a new cycle from idle. Durations omitted on the command line fall back to the stored interval configuration.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := cmd.Context()
			focusSec := int64(focus.Seconds())
			breakSec := int64(breakDur.Seconds())

			// Flags left at their defaults resolve against the stored
			// configuration, so the last explicitly chosen durations win.
			if !cmd.Flags().Changed("focus") || !cmd.Flags().Changed("break") {
				poll, err := c.GetTimerUseCase().Poll(ctx)
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("focus") {
					focusSec = poll.Status.FocusSeconds
				}
				if !cmd.Flags().Changed("break") {
					breakSec = poll.Status.BreakSeconds
				}
			}

			res, err := c.GetTimerUseCase().Start(ctx, dto.StartTimerRequest{
				FocusSeconds: focusSec,
				BreakSeconds: breakSec,
				Label:        label,
			})
			if err != nil {
				return err
			}
			return renderResult(cmd.OutOrStdout(), res, jsonOutput)
		},
	}

	cmd.Flags().DurationVar(&focus, "focus", 25*time.Minute, "Focus interval length")
	cmd.Flags().DurationVar(&breakDur, "break", 5*time.Minute, "Break interval length")
	cmd.Flags().StringVar(&label, "label", "", "Label for the cycle")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the result in JSON format")

	return cmd
}
