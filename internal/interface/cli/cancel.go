package cli

import (
	"github.com/spf13/cobra"
)

func newCancelCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel the current cycle",
		Long:  "Abort the cycle in progress and return the timer to idle. The cycle is recorded in history as cancelled.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer()
			if err != nil {
				return err
			}
			defer c.Close()

			res, err := c.GetTimerUseCase().Cancel(cmd.Context())
			if err != nil {
				return err
			}
			return renderResult(cmd.OutOrStdout(), res, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the result in JSON format")

	return cmd
}
