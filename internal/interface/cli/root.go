package cli

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	appconfig "github.com/stintd/stint/internal/infrastructure/config"
	"github.com/stintd/stint/internal/infrastructure/di"
	"github.com/stintd/stint/internal/interface/cli/version"
)

// rootFs is the filesystem commands operate on. Tests swap in a MemMapFs.
var rootFs afero.Fs = afero.NewOsFs()

// globalSettings holds the loaded configuration for all commands
var globalSettings *appconfig.Settings

func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stint",
		Short: "Stint interval timer CLI",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration before any command runs
			// Priority: settings.yaml > defaults
			home, err := appconfig.ResolveHome()
			if err != nil {
				return err
			}
			settings, err := appconfig.LoadSettings(rootFs, home)
			if err != nil {
				return err
			}
			globalSettings = settings
			InitGlobalLogger(settings.LogLevel)
			return nil
		},
		RunE: func(c *cobra.Command, _ []string) error { return c.Help() },
	}
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newStartCmd())
	cmd.AddCommand(newPauseCmd())
	cmd.AddCommand(newResumeCmd())
	cmd.AddCommand(newCancelCmd())
	cmd.AddCommand(newNextCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(version.NewCommand())
	return cmd
}

// newContainer wires the application for a single command invocation.
// The caller owns the container and must Close it.
func newContainer() (*di.Container, error) {
	return di.NewContainer(di.Config{
		Settings: globalSettings,
		Fs:       rootFs,
		Logger:   GetLogger(),
	})
}
