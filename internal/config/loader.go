package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/archup/archup/internal/errors"
)

// EnvPrefix is the prefix for archup environment variables.
const EnvPrefix = "ARCHUP_"

// Loader loads configuration from defaults, then a YAML file, then
// environment variables, with later sources overriding earlier ones.
type Loader struct {
	configPath string
	envPrefix  string
}

// NewLoader creates a loader. An empty configPath means file loading is
// skipped.
func NewLoader(configPath string) *Loader {
	return &Loader{configPath: configPath, envPrefix: EnvPrefix}
}

// Load builds the configuration. A missing file is fine; an unparseable one
// is an error.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, err
		}
	}

	l.loadFromEnv(cfg)
	return cfg, nil
}

// LoadAndValidate loads and validates the configuration.
func (l *Loader) LoadAndValidate() (*Config, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}
	if err := NewValidator().ValidateOrError(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.Configuration, "cannot read config file", err).
			WithOp("config.loadFromFile")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(errors.Configuration, "cannot parse config file", err).
			WithOp("config.loadFromFile")
	}
	return nil
}

func (l *Loader) loadFromEnv(cfg *Config) {
	if v := os.Getenv(l.envPrefix + "MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv(l.envPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(l.envPrefix + "LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv(l.envPrefix + "DRY_RUN"); v != "" {
		cfg.DryRun = parseBool(v)
	}
	if v := os.Getenv(l.envPrefix + "VERBOSE"); v != "" {
		cfg.Verbose = parseBool(v)
	}
	if v := os.Getenv(l.envPrefix + "QUIET"); v != "" {
		cfg.Quiet = parseBool(v)
	}
	if v := os.Getenv(l.envPrefix + "NO_COLOR"); v != "" {
		cfg.NoColor = parseBool(v)
	}
	if v := os.Getenv(l.envPrefix + "ASSUME_YES"); v != "" {
		cfg.AssumeYes = parseBool(v)
	}
	if v := os.Getenv(l.envPrefix + "STATE_DIR"); v != "" {
		cfg.StateDir = v
	}
	if v := os.Getenv(l.envPrefix + "STATE_FILE"); v != "" {
		cfg.StateFile = v
	}
	if v := os.Getenv(l.envPrefix + "AUR_HELPER"); v != "" {
		cfg.AURHelper = v
	}
	if v := os.Getenv(l.envPrefix + "COMMAND_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CommandTimeout = d
		}
	}
	if v := os.Getenv(l.envPrefix + "NETWORK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.NetworkTimeout = d
		}
	}
}

// parseBool accepts true, 1, yes, on (case-insensitive) as true.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// Save writes the configuration as YAML, creating the directory if needed.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = cfg.ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.Configuration, "cannot create config directory", err).
			WithOp("config.Save")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(errors.Configuration, "cannot marshal config", err).
			WithOp("config.Save")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.Configuration, "cannot write config file", err).
			WithOp("config.Save")
	}
	return nil
}
