package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	appconfig "github.com/stintd/stint/internal/infrastructure/config"
)

func newInitCmd() *cobra.Command {
	var (
		interactive bool
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the stint home directory and settings file",
		Long:  "Write settings.yaml under the stint home directory. With --interactive the settings are collected through a short wizard, otherwise the defaults are written.",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := appconfig.ResolveHome()
			if err != nil {
				return err
			}
			settings, err := appconfig.LoadSettings(rootFs, home)
			if err != nil {
				return err
			}
			if settings.Source == "yaml" && !force && !interactive {
				fmt.Fprintf(cmd.OutOrStdout(), "Already initialized: %s\n", settings.SettingsPath)
				return nil
			}
			if force {
				settings = appconfig.DefaultSettings(home)
			}
			if interactive {
				if err := runSetupWizard(settings); err != nil {
					return err
				}
			}
			if err := appconfig.SaveSettings(rootFs, settings); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", settings.SettingsPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&interactive, "interactive", false, "Collect settings through an interactive wizard")
	cmd.Flags().BoolVar(&force, "force", false, "Reset an existing settings file to the defaults")

	return cmd
}

// newForm wraps form creation with consistent theming and accessibility
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		form = form.WithAccessible(true)
	}
	return form
}

// runSetupWizard collects the core settings and mutates settings in place
func runSetupWizard(settings *appconfig.Settings) error {
	focusMin := strconv.Itoa(int(settings.FocusDuration.Minutes()))
	breakMin := strconv.Itoa(int(settings.BreakDuration.Minutes()))
	backend := settings.Backend
	notify := settings.NotifyCommand
	target := settings.Archive.Target

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Focus length (minutes)").
				Value(&focusMin).
				Placeholder("25"),
			huh.NewInput().
				Title("Break length (minutes)").
				Value(&breakMin).
				Placeholder("5"),
			huh.NewSelect[string]().
				Title("Storage backend").
				Options(
					huh.NewOption("SQLite database", appconfig.BackendSQLite),
					huh.NewOption("JSON file", appconfig.BackendFile),
				).
				Value(&backend),
			huh.NewInput().
				Title("Notify command").
				Description("External command run when a phase completes, empty for the platform default, 'none' to log only").
				Value(&notify),
			huh.NewSelect[string]().
				Title("Export archive target").
				Options(
					huh.NewOption("Local directory", appconfig.ArchiveTargetLocal),
					huh.NewOption("S3 bucket", appconfig.ArchiveTargetS3),
				).
				Value(&target),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	focus, err := strconv.Atoi(strings.TrimSpace(focusMin))
	if err != nil || focus <= 0 {
		return fmt.Errorf("focus minutes must be a positive number, got %q", focusMin)
	}
	brk, err := strconv.Atoi(strings.TrimSpace(breakMin))
	if err != nil || brk <= 0 {
		return fmt.Errorf("break minutes must be a positive number, got %q", breakMin)
	}

	settings.FocusDuration = time.Duration(focus) * time.Minute
	settings.BreakDuration = time.Duration(brk) * time.Minute
	settings.Backend = backend
	settings.NotifyCommand = notify
	settings.Archive.Target = target

	if target == appconfig.ArchiveTargetS3 {
		return collectS3Settings(settings)
	}
	return nil
}

// collectS3Settings asks for the S3 archive details in a follow-up step
func collectS3Settings(settings *appconfig.Settings) error {
	bucket := settings.Archive.Bucket
	prefix := settings.Archive.Prefix
	region := settings.Archive.Region

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("S3 bucket").
				Value(&bucket),
			huh.NewInput().
				Title("Key prefix").
				Value(&prefix).
				Placeholder("stint"),
			huh.NewInput().
				Title("AWS region").
				Value(&region).
				Placeholder("us-east-1"),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	if strings.TrimSpace(bucket) == "" {
		return fmt.Errorf("the S3 archive target needs a bucket")
	}
	settings.Archive.Bucket = strings.TrimSpace(bucket)
	settings.Archive.Prefix = strings.TrimSpace(prefix)
	settings.Archive.Region = strings.TrimSpace(region)
	return nil
}
