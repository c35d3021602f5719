package cli

// Command represents a CLI command type.
type Command int

const (
	// CommandNone represents no command or an unrecognized command.
	CommandNone Command = iota

	// CommandInstall runs the post-install pipeline.
	CommandInstall

	// CommandStatus shows the run-state journal.
	CommandStatus

	// CommandReset clears the run-state journal.
	CommandReset

	// CommandVersion displays build information.
	CommandVersion

	// CommandHelp shows usage information.
	CommandHelp
)

// String returns the command name as a string.
func (c Command) String() string {
	switch c {
	case CommandInstall:
		return "install"
	case CommandStatus:
		return "status"
	case CommandReset:
		return "reset"
	case CommandVersion:
		return "version"
	case CommandHelp:
		return "help"
	default:
		return ""
	}
}

// IsValid returns true if the command is a recognized command.
func (c Command) IsValid() bool {
	return c > CommandNone && c <= CommandHelp
}

// CommandInfo holds metadata about a command.
type CommandInfo struct {
	// Name is the primary command name.
	Name string

	// Aliases are alternative names for the command.
	Aliases []string

	// Description is a brief description of what the command does.
	Description string

	// Usage shows how to invoke the command.
	Usage string

	// LongDescription provides detailed help text for the command.
	LongDescription string
}

// Commands returns all available commands with their metadata.
func Commands() []CommandInfo {
	return []CommandInfo{
		{
			Name:        "install",
			Aliases:     []string{"i", "run"},
			Description: "Run the post-install pipeline",
			Usage:       "archup install [flags]",
			LongDescription: `Run the Arch Linux post-install pipeline.

Steps run in a fixed order and every completed step is journaled, so an
interrupted run can be resumed. When a previous run is found you are asked
whether to resume, retry failed steps, or start over.

Flags:
  --mode MODE    Install profile: standard, minimal, server, custom

Examples:
  archup install                Run with the configured profile
  archup install --mode server  Headless setup
  archup -n install             Show what would be done`,
		},
		{
			Name:        "status",
			Aliases:     []string{"st"},
			Description: "Show completed and failed steps from the journal",
			Usage:       "archup status",
			LongDescription: `Show the run-state journal.

Lists every step recorded in the journal with its latest outcome, so you
can see where an interrupted run stopped.`,
		},
		{
			Name:        "reset",
			Aliases:     []string{"clear"},
			Description: "Clear the run-state journal",
			Usage:       "archup reset",
			LongDescription: `Clear the run-state journal.

The next install starts from the beginning. Asks for confirmation unless
--yes is given.`,
		},
		{
			Name:        "version",
			Aliases:     []string{"v"},
			Description: "Show version information",
			Usage:       "archup version",
			LongDescription: `Display version information about archup.

Shows the version number, build time, and git commit hash.`,
		},
		{
			Name:        "help",
			Aliases:     []string{"h"},
			Description: "Show help for a command",
			Usage:       "archup help [command]",
			LongDescription: `Display help information.

When called without arguments, shows general help and available commands.
When called with a command name, shows detailed help for that command.

Examples:
  archup help          Show general help
  archup help install  Show help for install command`,
		},
	}
}

// GetCommandInfo returns the CommandInfo for a given command.
// Returns nil if the command is not found.
func GetCommandInfo(cmd Command) *CommandInfo {
	if !cmd.IsValid() {
		return nil
	}

	cmds := Commands()
	for i := range cmds {
		if cmds[i].Name == cmd.String() {
			return &cmds[i]
		}
	}
	return nil
}

// ParseCommand parses a string into a Command.
// It recognizes both primary command names and aliases.
func ParseCommand(s string) Command {
	for _, info := range Commands() {
		if s == info.Name {
			return commandFromName(info.Name)
		}
		for _, alias := range info.Aliases {
			if s == alias {
				return commandFromName(info.Name)
			}
		}
	}
	return CommandNone
}

// commandFromName converts a command name string to a Command type.
func commandFromName(name string) Command {
	switch name {
	case "install":
		return CommandInstall
	case "status":
		return CommandStatus
	case "reset":
		return CommandReset
	case "version":
		return CommandVersion
	case "help":
		return CommandHelp
	default:
		return CommandNone
	}
}
