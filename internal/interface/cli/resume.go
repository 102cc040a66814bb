package cli

import (
	"github.com/spf13/cobra"
)

func newResumeCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Resume a paused interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer()
			if err != nil {
				return err
			}
			defer c.Close()

			res, err := c.GetTimerUseCase().Resume(cmd.Context())
			if err != nil {
				return err
			}
			return renderResult(cmd.OutOrStdout(), res, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the result in JSON format")

	return cmd
}
