package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/stintd/stint/internal/infrastructure/persistence/file"
)

// SettingsFileName is the settings file inside the stint home directory.
const SettingsFileName = "settings.yaml"

// homeEnvVar overrides the default ~/.stint home directory.
const homeEnvVar = "STINT_HOME"

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Archive targets.
const (
	ArchiveTargetLocal = "local"
	ArchiveTargetS3    = "s3"
)

// RawSettings is the structure of settings.yaml. Pointer fields distinguish
// "absent" from zero values so defaults only fill what the file omits.
type RawSettings struct {
	Backend          *string `yaml:"backend"`
	FocusSeconds     *int    `yaml:"focus_seconds"`
	BreakSeconds     *int    `yaml:"break_seconds"`
	HeartbeatSeconds *int    `yaml:"heartbeat_seconds"`
	NotifyCommand    *string `yaml:"notify_command"`
	LogLevel         *string `yaml:"log_level"`

	Archive *RawArchiveSettings `yaml:"archive"`
}

// RawArchiveSettings is the archive block of settings.yaml.
type RawArchiveSettings struct {
	Target *string `yaml:"target"`
	Dir    *string `yaml:"dir"`
	Bucket *string `yaml:"bucket"`
	Prefix *string `yaml:"prefix"`
	Region *string `yaml:"region"`
}

// ArchiveSettings holds resolved export-target configuration.
type ArchiveSettings struct {
	Target string
	Dir    string
	Bucket string
	Prefix string
	Region string
}

// Settings holds resolved host configuration.
type Settings struct {
	Home          string
	Backend       string
	FocusDuration time.Duration
	BreakDuration time.Duration
	Heartbeat     time.Duration
	NotifyCommand string
	LogLevel      string
	Archive       ArchiveSettings

	// Source is "default" when no settings file existed, "yaml" otherwise.
	Source       string
	SettingsPath string
}

// ResolveHome returns the stint home directory. STINT_HOME wins, otherwise
// ~/.stint.
func ResolveHome() (string, error) {
	if home := os.Getenv(homeEnvVar); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home dir: %w", err)
	}
	return filepath.Join(userHome, ".stint"), nil
}

// LoadSettings loads settings.yaml from the home directory.
// Priority: settings.yaml > defaults. A missing file is not an error.
func LoadSettings(fs afero.Fs, home string) (*Settings, error) {
	raw := &RawSettings{}
	source := "default"

	settingsPath := filepath.Join(home, SettingsFileName)
	if data, err := afero.ReadFile(fs, settingsPath); err == nil {
		if err := yaml.Unmarshal(data, raw); err != nil {
			return nil, fmt.Errorf("parse %s failed: %w", settingsPath, err)
		}
		source = "yaml"
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s failed: %w", settingsPath, err)
	}

	applyDefaults(raw)

	settings := buildSettings(raw, home, source, settingsPath)
	if err := validate(settings); err != nil {
		return nil, fmt.Errorf("settings in %s invalid: %w", settingsPath, err)
	}
	return settings, nil
}

// SaveSettings writes settings.yaml atomically.
func SaveSettings(fs afero.Fs, settings *Settings) error {
	data, err := yaml.Marshal(toRaw(settings))
	if err != nil {
		return fmt.Errorf("marshal settings failed: %w", err)
	}

	settingsPath := filepath.Join(settings.Home, SettingsFileName)
	if err := file.WriteFileAtomic(fs, settingsPath, data); err != nil {
		return fmt.Errorf("write %s failed: %w", settingsPath, err)
	}
	return nil
}

// EnsureSettings loads settings and writes the defaults file on first run.
func EnsureSettings(fs afero.Fs, home string) (*Settings, error) {
	settings, err := LoadSettings(fs, home)
	if err != nil {
		return nil, err
	}
	if settings.Source == "default" {
		if err := SaveSettings(fs, settings); err != nil {
			return nil, err
		}
		settings.Source = "yaml"
	}
	return settings, nil
}

// DefaultSettings returns the defaults for the given home directory.
func DefaultSettings(home string) *Settings {
	raw := &RawSettings{}
	applyDefaults(raw)
	return buildSettings(raw, home, "default", filepath.Join(home, SettingsFileName))
}

// applyDefaults fills in default values for any nil fields
func applyDefaults(raw *RawSettings) {
	if raw.Backend == nil {
		v := BackendSQLite
		raw.Backend = &v
	}
	if raw.FocusSeconds == nil {
		v := int((25 * time.Minute).Seconds())
		raw.FocusSeconds = &v
	}
	if raw.BreakSeconds == nil {
		v := int((5 * time.Minute).Seconds())
		raw.BreakSeconds = &v
	}
	if raw.HeartbeatSeconds == nil {
		v := 30
		raw.HeartbeatSeconds = &v
	}
	if raw.NotifyCommand == nil {
		v := ""
		raw.NotifyCommand = &v
	}
	if raw.LogLevel == nil {
		v := "info"
		raw.LogLevel = &v
	}

	if raw.Archive == nil {
		raw.Archive = &RawArchiveSettings{}
	}
	if raw.Archive.Target == nil {
		v := ArchiveTargetLocal
		raw.Archive.Target = &v
	}
	if raw.Archive.Dir == nil {
		v := ""
		raw.Archive.Dir = &v
	}
	if raw.Archive.Bucket == nil {
		v := ""
		raw.Archive.Bucket = &v
	}
	if raw.Archive.Prefix == nil {
		v := ""
		raw.Archive.Prefix = &v
	}
	if raw.Archive.Region == nil {
		v := ""
		raw.Archive.Region = &v
	}
}

// buildSettings converts RawSettings to Settings
func buildSettings(raw *RawSettings, home, source, settingsPath string) *Settings {
	archiveDir := *raw.Archive.Dir
	if archiveDir == "" {
		archiveDir = filepath.Join(home, "archive")
	}

	return &Settings{
		Home:          home,
		Backend:       *raw.Backend,
		FocusDuration: time.Duration(*raw.FocusSeconds) * time.Second,
		BreakDuration: time.Duration(*raw.BreakSeconds) * time.Second,
		Heartbeat:     time.Duration(*raw.HeartbeatSeconds) * time.Second,
		NotifyCommand: *raw.NotifyCommand,
		LogLevel:      *raw.LogLevel,
		Archive: ArchiveSettings{
			Target: *raw.Archive.Target,
			Dir:    archiveDir,
			Bucket: *raw.Archive.Bucket,
			Prefix: *raw.Archive.Prefix,
			Region: *raw.Archive.Region,
		},
		Source:       source,
		SettingsPath: settingsPath,
	}
}

// toRaw converts Settings back to the file structure
func toRaw(settings *Settings) *RawSettings {
	backend := settings.Backend
	focus := int(settings.FocusDuration.Seconds())
	brk := int(settings.BreakDuration.Seconds())
	heartbeat := int(settings.Heartbeat.Seconds())
	notify := settings.NotifyCommand
	level := settings.LogLevel
	target := settings.Archive.Target
	dir := settings.Archive.Dir
	bucket := settings.Archive.Bucket
	prefix := settings.Archive.Prefix
	region := settings.Archive.Region

	return &RawSettings{
		Backend:          &backend,
		FocusSeconds:     &focus,
		BreakSeconds:     &brk,
		HeartbeatSeconds: &heartbeat,
		NotifyCommand:    &notify,
		LogLevel:         &level,
		Archive: &RawArchiveSettings{
			Target: &target,
			Dir:    &dir,
			Bucket: &bucket,
			Prefix: &prefix,
			Region: &region,
		},
	}
}

func validate(settings *Settings) error {
	switch settings.Backend {
	case BackendSQLite, BackendFile:
	default:
		return fmt.Errorf("unknown backend %q, want %q or %q", settings.Backend, BackendSQLite, BackendFile)
	}

	if settings.FocusDuration <= 0 {
		return fmt.Errorf("focus_seconds must be positive, got %d", int(settings.FocusDuration.Seconds()))
	}
	if settings.BreakDuration <= 0 {
		return fmt.Errorf("break_seconds must be positive, got %d", int(settings.BreakDuration.Seconds()))
	}
	if settings.Heartbeat <= 0 {
		return fmt.Errorf("heartbeat_seconds must be positive, got %d", int(settings.Heartbeat.Seconds()))
	}
	// The heartbeat bounds how late an overdue completion can be detected,
	// so it stays short relative to any plausible interval length.
	if settings.Heartbeat > time.Minute {
		return fmt.Errorf("heartbeat_seconds must be at most 60, got %d", int(settings.Heartbeat.Seconds()))
	}

	switch settings.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", settings.LogLevel)
	}

	switch settings.Archive.Target {
	case ArchiveTargetLocal:
	case ArchiveTargetS3:
		if settings.Archive.Bucket == "" {
			return fmt.Errorf("archive target %q needs a bucket", ArchiveTargetS3)
		}
	default:
		return fmt.Errorf("unknown archive target %q, want %q or %q", settings.Archive.Target, ArchiveTargetLocal, ArchiveTargetS3)
	}

	return nil
}
