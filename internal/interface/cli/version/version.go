// Package version implements the version subcommand.
package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/stintd/stint/internal/buildinfo"
)

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the stint version together with build and runtime details",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "stint version %s\n", buildinfo.GetVersion())
			fmt.Fprintf(out, "  Commit:     %s\n", buildinfo.GetCommit())
			fmt.Fprintf(out, "  Built:      %s\n", buildinfo.GetDate())
			fmt.Fprintf(out, "  Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
