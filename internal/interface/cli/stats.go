package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/stintd/stint/internal/application/dto"
)

func newStatsCmd() *cobra.Command {
	var (
		days       int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize cycles over a recent window",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer()
			if err != nil {
				return err
			}
			defer c.Close()

			stats, err := c.GetHistoryUseCase().Stats(cmd.Context(), days)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), stats)
			}
			renderStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Window size in days")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output stats in JSON format")

	return cmd
}

func renderStats(w io.Writer, stats *dto.StatsDTO) {
	fmt.Fprintf(w, "Window      : last %d days\n", stats.WindowDays)
	fmt.Fprintf(w, "Cycles      : %d (%d completed, %d cancelled)\n",
		stats.TotalCycles, stats.CompletedCycles, stats.CancelledCycles)
	fmt.Fprintf(w, "Completion  : %.0f%%\n", stats.CompletionRate*100)
	fmt.Fprintf(w, "Focus total : %s\n", formatSeconds(stats.FocusSecondsTotal))
	if stats.CompletedCycles > 0 {
		fmt.Fprintf(w, "Focus mean  : %.0fs (stddev %.0fs)\n",
			stats.FocusWallMeanSec, stats.FocusWallStdDevSec)
	}
}
