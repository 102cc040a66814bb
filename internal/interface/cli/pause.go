package cli

import (
	"github.com/spf13/cobra"
)

func newPauseCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "pause",
		Short: "Pause the running interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer()
			if err != nil {
				return err
			}
			defer c.Close()

			res, err := c.GetTimerUseCase().Pause(cmd.Context())
			if err != nil {
				return err
			}
			return renderResult(cmd.OutOrStdout(), res, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the result in JSON format")

	return cmd
}
