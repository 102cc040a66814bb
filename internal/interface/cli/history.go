package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/stintd/stint/internal/application/dto"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent cycles",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer()
			if err != nil {
				return err
			}
			defer c.Close()

			cycles, err := c.GetHistoryUseCase().ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), cycles)
			}
			renderCycles(cmd.OutOrStdout(), cycles)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of cycles to list")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output cycles in JSON format")

	return cmd
}

// renderCycles writes one line per cycle, newest first
func renderCycles(w io.Writer, cycles []dto.CycleDTO) {
	if len(cycles) == 0 {
		fmt.Fprintln(w, "No cycles recorded yet.")
		return
	}
	for _, cy := range cycles {
		outcome := cy.Outcome
		if cy.CancelledPhase != "" {
			outcome = fmt.Sprintf("%s (%s)", cy.Outcome, cy.CancelledPhase)
		}
		line := fmt.Sprintf("%s  %-7s  %-22s", cy.StartedAt, formatSeconds(cy.FocusSeconds), outcome)
		if cy.Label != "" {
			line += "  " + cy.Label
		}
		fmt.Fprintln(w, line)
	}
}
