package config

import (
	"os"
	"path/filepath"

	"github.com/archup/archup/internal/constants"
)

// DefaultLogLevel is the default logging level.
const DefaultLogLevel = "info"

// DefaultConfig returns a Config with the archup defaults.
func DefaultConfig() *Config {
	return &Config{
		Mode:           constants.ModeStandard.String(),
		LogLevel:       DefaultLogLevel,
		ConfigDir:      defaultConfigDir(),
		StateDir:       defaultStateDir(),
		CommandTimeout: constants.CommandTimeout,
		NetworkTimeout: constants.NetworkTimeout,
	}
}

// defaultConfigDir returns the XDG config directory for archup, falling
// back to ~/.config/archup.
func defaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, constants.AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", constants.DefaultConfigDir)
	}
	return filepath.Join(home, constants.DefaultConfigDir)
}

// defaultStateDir returns the XDG state directory for archup, falling back
// to ~/.local/state/archup. The run-state journal and the log live here.
func defaultStateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, constants.AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", constants.DefaultStateDir)
	}
	return filepath.Join(home, constants.DefaultStateDir)
}
