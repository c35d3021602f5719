package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/archup/archup/internal/config"
	"github.com/archup/archup/internal/constants"
)

// ParseResult holds the result of parsing command line arguments.
type ParseResult struct {
	// Command is the parsed command.
	Command Command

	// GlobalFlags contains the global flag values.
	GlobalFlags GlobalFlags

	// InstallFlags contains install command flag values.
	InstallFlags InstallFlags

	// Args contains any remaining positional arguments.
	Args []string

	// ShowHelp indicates that help should be displayed.
	ShowHelp bool

	// HelpCommand is the command to show help for (when using "help <command>").
	HelpCommand string
}

// ApplyTo overlays the parsed flags onto a loaded configuration. Only flags
// the user actually set override config values; booleans count as set when
// true.
func (r *ParseResult) ApplyTo(cfg *config.Config) {
	g := r.GlobalFlags
	if g.Verbose {
		cfg.Verbose = true
	}
	if g.Quiet {
		cfg.Quiet = true
	}
	if g.DryRun {
		cfg.DryRun = true
	}
	if g.AssumeYes {
		cfg.AssumeYes = true
	}
	if g.NoColor {
		cfg.NoColor = true
	}
	if g.StateFile != "" {
		cfg.StateFile = g.StateFile
	}
	if g.LogFile != "" {
		cfg.LogFile = g.LogFile
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if r.InstallFlags.Mode != "" {
		cfg.Mode = r.InstallFlags.Mode
	}
}

// Parser handles command line argument parsing.
type Parser struct {
	programName string
	version     string
	buildTime   string
	gitCommit   string
}

// NewParser creates a new CLI parser with build information.
func NewParser(programName, version, buildTime, gitCommit string) *Parser {
	return &Parser{
		programName: programName,
		version:     version,
		buildTime:   buildTime,
		gitCommit:   gitCommit,
	}
}

// Parse parses command line arguments and returns a ParseResult.
// The args parameter should not include the program name (typically os.Args[1:]).
func (p *Parser) Parse(args []string) (*ParseResult, error) {
	result := &ParseResult{}

	if len(args) == 0 {
		result.ShowHelp = true
		return result, nil
	}

	// Check for help flags first before parsing
	for _, arg := range args {
		if arg == "-h" || arg == "--help" || arg == "-help" {
			result.ShowHelp = true
			return result, nil
		}
	}

	// Parse global flags - the flag package stops at the first non-flag
	// argument, which is the command.
	globalFs := p.createGlobalFlagSet(&result.GlobalFlags)
	globalFs.SetOutput(io.Discard)

	if err := globalFs.Parse(args); err != nil {
		return nil, fmt.Errorf("invalid global flags: %w", err)
	}

	remaining := globalFs.Args()

	if len(remaining) == 0 {
		result.ShowHelp = true
		return result, nil
	}

	if err := result.GlobalFlags.Validate(); err != nil {
		return nil, err
	}

	cmdStr := remaining[0]
	result.Command = ParseCommand(cmdStr)

	if result.Command == CommandNone {
		return nil, fmt.Errorf("unknown command: %s", cmdStr)
	}

	cmdArgs := remaining[1:]
	if err := p.parseCommandFlags(result, cmdArgs); err != nil {
		return nil, err
	}

	return result, nil
}

// createGlobalFlagSet creates a FlagSet with global flag definitions.
func (p *Parser) createGlobalFlagSet(flags *GlobalFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("global", flag.ContinueOnError)

	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose output")
	fs.BoolVar(&flags.Verbose, "v", false, "Enable verbose output (shorthand)")

	fs.BoolVar(&flags.Quiet, "quiet", false, "Suppress non-essential output")
	fs.BoolVar(&flags.Quiet, "q", false, "Suppress non-essential output (shorthand)")

	fs.BoolVar(&flags.DryRun, "dry-run", false, "Show what would be done without making changes")
	fs.BoolVar(&flags.DryRun, "n", false, "Show what would be done (shorthand)")

	fs.BoolVar(&flags.AssumeYes, "yes", false, "Answer every prompt with its default")
	fs.BoolVar(&flags.AssumeYes, "y", false, "Answer every prompt with its default (shorthand)")

	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file")
	fs.StringVar(&flags.ConfigFile, "c", "", "Path to config file (shorthand)")

	fs.StringVar(&flags.StateFile, "state-file", "", "Path to the run-state journal")

	fs.StringVar(&flags.LogFile, "log-file", "", "Path to log file")
	fs.StringVar(&flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	fs.BoolVar(&flags.NoColor, "no-color", false, "Disable colored output")

	return fs
}

// parseCommandFlags parses flags specific to each command.
func (p *Parser) parseCommandFlags(result *ParseResult, args []string) error {
	switch result.Command {
	case CommandInstall:
		return p.parseInstallFlags(result, args)
	case CommandHelp:
		return p.parseHelpFlags(result, args)
	case CommandStatus, CommandReset, CommandVersion:
		result.Args = args
		return nil
	}
	return nil
}

func (p *Parser) parseInstallFlags(result *ParseResult, args []string) error {
	fs := flag.NewFlagSet("install", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&result.InstallFlags.Mode, "mode", "", "Install profile (standard, minimal, server, custom)")
	fs.StringVar(&result.InstallFlags.Mode, "m", "", "Install profile (shorthand)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("invalid install flags: %w", err)
	}

	if result.InstallFlags.Mode != "" {
		if _, ok := constants.ParseMode(result.InstallFlags.Mode); !ok {
			return &FlagError{
				Flag:    "mode",
				Message: fmt.Sprintf("invalid mode %q: must be one of: standard, minimal, server, custom", result.InstallFlags.Mode),
			}
		}
	}

	result.Args = fs.Args()
	return nil
}

func (p *Parser) parseHelpFlags(result *ParseResult, args []string) error {
	result.ShowHelp = true
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		result.HelpCommand = args[0]
	}
	return nil
}

// Usage returns the main usage string.
func (p *Parser) Usage() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s - %s\n\n", p.programName, constants.AppDescription))
	b.WriteString("Usage:\n")
	b.WriteString(fmt.Sprintf("  %s [global flags] <command> [command flags]\n\n", p.programName))

	b.WriteString("Commands:\n")
	for _, cmd := range Commands() {
		b.WriteString(fmt.Sprintf("  %-12s %s\n", cmd.Name, cmd.Description))
	}

	b.WriteString("\nGlobal Flags:\n")
	b.WriteString("  -v, --verbose     Enable verbose output\n")
	b.WriteString("  -q, --quiet       Suppress non-essential output\n")
	b.WriteString("  -n, --dry-run     Show what would be done without making changes\n")
	b.WriteString("  -y, --yes         Answer every prompt with its default\n")
	b.WriteString("  -c, --config      Path to config file\n")
	b.WriteString("      --state-file  Path to the run-state journal\n")
	b.WriteString("      --log-file    Path to log file\n")
	b.WriteString("      --log-level   Log level (debug, info, warn, error)\n")
	b.WriteString("      --no-color    Disable colored output\n")

	b.WriteString(fmt.Sprintf("\nUse \"%s help <command>\" for more information about a command.\n", p.programName))

	return b.String()
}

// CommandUsage returns the usage string for a specific command.
func (p *Parser) CommandUsage(cmd string) string {
	parsedCmd := ParseCommand(cmd)
	if parsedCmd == CommandNone {
		return fmt.Sprintf("Unknown command: %s\n\nRun '%s help' for usage.\n", cmd, p.programName)
	}

	info := GetCommandInfo(parsedCmd)
	if info == nil {
		return fmt.Sprintf("No help available for: %s\n", cmd)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s\n\n", info.Description))
	b.WriteString(fmt.Sprintf("Usage:\n  %s\n\n", info.Usage))

	if info.LongDescription != "" {
		b.WriteString(info.LongDescription)
		b.WriteString("\n")
	}

	return b.String()
}

// VersionString returns formatted version information.
func (p *Parser) VersionString() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s version %s\n", p.programName, p.version))

	if p.buildTime != "" && p.buildTime != "unknown" {
		b.WriteString(fmt.Sprintf("Build time: %s\n", p.buildTime))
	}

	if p.gitCommit != "" && p.gitCommit != "unknown" {
		commit := p.gitCommit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		b.WriteString(fmt.Sprintf("Git commit: %s\n", commit))
	}

	return b.String()
}
