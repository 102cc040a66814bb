package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var (
		days       int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export cycle history to the configured archive",
		Long:  "Write recent cycles as an NDJSON document to the archive target from settings.yaml. A window of 0 days exports the full history.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer()
			if err != nil {
				return err
			}
			defer c.Close()

			result, err := c.GetHistoryUseCase().Export(cmd.Context(), days)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d cycles (%d bytes) to %s\n",
				result.Cycles, result.SizeBytes, result.Location)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Window size in days, 0 for everything")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the export result in JSON format")

	return cmd
}
