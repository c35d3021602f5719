package config

import (
	"fmt"
	"strings"

	"github.com/archup/archup/internal/constants"
	"github.com/archup/archup/internal/errors"
)

// ValidationError is one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s", e.Field, e.Message)
}

// Validator checks a Config for invalid values.
type Validator struct {
	validLogLevels map[string]bool
}

// NewValidator creates a validator.
func NewValidator() *Validator {
	return &Validator{
		validLogLevels: map[string]bool{
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		},
	}
}

// Validate returns every problem found, so callers can report them all at
// once.
func (v *Validator) Validate(cfg *Config) []error {
	var errs []error

	if _, ok := constants.ParseMode(cfg.Mode); !ok {
		errs = append(errs, &ValidationError{
			Field:   "mode",
			Message: fmt.Sprintf("invalid mode %q: must be one of: standard, minimal, server, custom", cfg.Mode),
		})
	}

	if !v.validLogLevels[strings.ToLower(cfg.LogLevel)] {
		errs = append(errs, &ValidationError{
			Field:   "log_level",
			Message: fmt.Sprintf("invalid log level %q: must be one of: debug, info, warn, error", cfg.LogLevel),
		})
	}

	if cfg.CommandTimeout <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "command_timeout",
			Message: "must be positive",
		})
	}
	if cfg.NetworkTimeout <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "network_timeout",
			Message: "must be positive",
		})
	}

	if cfg.AURHelper != "" && cfg.AURHelper != "yay" && cfg.AURHelper != "paru" {
		errs = append(errs, &ValidationError{
			Field:   "aur_helper",
			Message: fmt.Sprintf("unsupported helper %q: must be yay or paru", cfg.AURHelper),
		})
	}

	if cfg.Verbose && cfg.Quiet {
		errs = append(errs, &ValidationError{
			Field:   "verbose",
			Message: "verbose and quiet are mutually exclusive",
		})
	}

	return errs
}

// ValidateOrError returns a single Configuration error summarizing every
// problem, or nil when the config is valid.
func (v *Validator) ValidateOrError(cfg *Config) error {
	errs := v.Validate(cfg)
	if len(errs) == 0 {
		return nil
	}

	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	return errors.New(errors.Configuration, strings.Join(messages, "; ")).
		WithOp("config.Validate")
}
