package cli

import (
	"github.com/spf13/cobra"
)

func newNextCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Confirm a finished focus interval and start the break",
		Long:  "Acknowledge the completed focus interval. Outside the confirmation window this does nothing and reports the current state.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer()
			if err != nil {
				return err
			}
			defer c.Close()

			res, err := c.GetTimerUseCase().Acknowledge(cmd.Context())
			if err != nil {
				return err
			}
			return renderResult(cmd.OutOrStdout(), res, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the result in JSON format")

	return cmd
}
