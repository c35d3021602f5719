// Package config holds the archup runtime configuration. Values load from a
// YAML file under the XDG config directory, then environment variables with
// the ARCHUP_ prefix, then command-line flags, each overriding the last.
package config

import (
	"path/filepath"
	"time"

	"github.com/archup/archup/internal/constants"
)

// Config is the full archup configuration.
type Config struct {
	// Mode is the install profile: standard, minimal, server, or custom.
	Mode string `yaml:"mode"`

	// General settings
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
	DryRun   bool   `yaml:"dry_run"`
	Verbose  bool   `yaml:"verbose"`
	Quiet    bool   `yaml:"quiet"`
	NoColor  bool   `yaml:"no_color"`

	// AssumeYes answers every prompt with its default, as if no terminal
	// were attached.
	AssumeYes bool `yaml:"assume_yes"`

	// Directories and files
	ConfigDir string `yaml:"config_dir"`
	StateDir  string `yaml:"state_dir"`
	StateFile string `yaml:"state_file"`

	// Timeouts
	CommandTimeout time.Duration `yaml:"command_timeout"`
	NetworkTimeout time.Duration `yaml:"network_timeout"`

	// Package selection
	AURHelper     string   `yaml:"aur_helper"`     // "" autodetects yay/paru
	ExtraPackages []string `yaml:"extra_packages"` // installed after the mode's package set
	AURPackages   []string `yaml:"aur_packages"`   // installed through the AUR helper
	FlatpakApps   []string `yaml:"flatpak_apps"`   // extra Flathub application IDs

	// Services to enable beyond the mode defaults.
	ExtraServices []string `yaml:"extra_services"`
}

// InstallMode returns the parsed install mode, defaulting to standard.
func (c *Config) InstallMode() constants.Mode {
	m, _ := constants.ParseMode(c.Mode)
	return m
}

// ConfigPath returns the path of the YAML config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.ConfigDir, constants.ConfigFileName)
}

// StatePath returns the run-state journal path. An explicit StateFile wins
// over the state directory default.
func (c *Config) StatePath() string {
	if c.StateFile != "" {
		return c.StateFile
	}
	return filepath.Join(c.StateDir, constants.StateFileName)
}

// LogPath returns the log file path, defaulting into the state directory.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.StateDir, constants.DefaultLogFile)
}

// IsVerbose reports whether verbose output is on and quiet is not.
func (c *Config) IsVerbose() bool {
	return c.Verbose && !c.Quiet
}

// IsSilent reports whether quiet mode is on.
func (c *Config) IsSilent() bool {
	return c.Quiet
}

// Clone returns a copy of the configuration. Slice fields are copied so the
// clone is independent.
func (c *Config) Clone() *Config {
	clone := *c
	clone.ExtraPackages = append([]string(nil), c.ExtraPackages...)
	clone.AURPackages = append([]string(nil), c.AURPackages...)
	clone.FlatpakApps = append([]string(nil), c.FlatpakApps...)
	clone.ExtraServices = append([]string(nil), c.ExtraServices...)
	return &clone
}
