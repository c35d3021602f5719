// Package cli provides command-line argument parsing for archup. It
// supports subcommands, global flags, and command-specific flags with both
// short and long variants. Parsed flags overlay the loaded configuration.
package cli

// GlobalFlags holds flags common to all commands.
// These flags can be specified before the command name and affect
// the overall behavior of the application.
type GlobalFlags struct {
	// Verbose enables detailed output for debugging and troubleshooting.
	Verbose bool

	// Quiet suppresses non-essential output, only showing errors.
	Quiet bool

	// DryRun shows what would be done without making actual changes.
	DryRun bool

	// AssumeYes answers every prompt with its default.
	AssumeYes bool

	// ConfigFile specifies a custom configuration file path.
	ConfigFile string

	// StateFile specifies a custom run-state journal path.
	StateFile string

	// LogFile specifies the path to write log output.
	LogFile string

	// LogLevel sets the logging verbosity (debug, info, warn, error).
	LogLevel string

	// NoColor disables colored terminal output.
	NoColor bool
}

// InstallFlags holds install command specific flags.
type InstallFlags struct {
	// Mode overrides the configured install profile.
	Mode string
}

// Validate checks GlobalFlags for conflicting options.
// It returns an error if incompatible flags are set together.
func (f *GlobalFlags) Validate() error {
	if f.Verbose && f.Quiet {
		return &FlagError{
			Flag:    "verbose/quiet",
			Message: "cannot use --verbose and --quiet together",
		}
	}
	return nil
}

// FlagError represents an error with a command-line flag.
type FlagError struct {
	Flag    string
	Message string
}

// Error implements the error interface.
func (e *FlagError) Error() string {
	return "flag error: " + e.Flag + ": " + e.Message
}
