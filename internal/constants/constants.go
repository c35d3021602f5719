// Package constants defines application-wide constants for the archup
// application. All constants are typed to ensure type safety and prevent
// accidental misuse.
package constants

import "time"

// Application metadata
const (
	// AppName is the application name used in logs, configs, and user messages.
	AppName string = "archup"
	// AppDescription is a short description of the application.
	AppDescription string = "Arch Linux post-install automation"
)

// ExitCode represents process exit codes.
//
// archup deliberately uses only two codes: 0 for normal completion (including
// completion with recoverable step failures and user cancellation) and 1 for
// a fatal-step abort or invalid command-line input.
type ExitCode int

const (
	// ExitSuccess indicates normal completion or user cancellation.
	ExitSuccess ExitCode = 0
	// ExitFailure indicates a fatal-step abort or invalid input.
	ExitFailure ExitCode = 1
)

// Int returns the exit code as an int for use with os.Exit().
func (e ExitCode) Int() int {
	return int(e)
}

// Mode represents an install profile. It controls which package sets are
// installed and which steps are skipped entirely.
type Mode string

const (
	// ModeStandard is the full desktop setup.
	ModeStandard Mode = "standard"
	// ModeMinimal installs the base tooling only.
	ModeMinimal Mode = "minimal"
	// ModeServer is a headless setup; desktop-only steps are omitted.
	ModeServer Mode = "server"
	// ModeCustom installs the base set plus the packages listed in the
	// configuration file.
	ModeCustom Mode = "custom"
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	return string(m)
}

// IsValid reports whether m is one of the known install modes.
func (m Mode) IsValid() bool {
	switch m {
	case ModeStandard, ModeMinimal, ModeServer, ModeCustom:
		return true
	default:
		return false
	}
}

// ParseMode converts a string to a Mode. Unrecognized strings return
// ModeStandard and false.
func ParseMode(s string) (Mode, bool) {
	m := Mode(s)
	if m.IsValid() {
		return m, true
	}
	return ModeStandard, false
}

// Timeouts for various operations. These are tuned for typical system
// responsiveness while allowing for slower hardware or network conditions.
const (
	// DefaultTimeout is the standard timeout for most operations.
	DefaultTimeout time.Duration = 5 * time.Minute
	// ShortTimeout is for quick operations that should complete rapidly.
	ShortTimeout time.Duration = 30 * time.Second
	// LongTimeout is for operations that may take extended time (e.g., full upgrades).
	LongTimeout time.Duration = 20 * time.Minute
	// NetworkTimeout is for network operations like mirror refreshes.
	NetworkTimeout time.Duration = 60 * time.Second
	// CommandTimeout is for shell command execution.
	CommandTimeout time.Duration = 10 * time.Minute
)

// File paths relative to the user's home directory
const (
	// DefaultConfigDir is the default configuration directory relative to $HOME.
	DefaultConfigDir string = ".config/archup"
	// DefaultStateDir is the default state directory relative to $HOME.
	// The run-state journal lives here so interrupted runs can resume.
	DefaultStateDir string = ".local/state/archup"
	// StateFileName is the run-state journal file name.
	StateFileName string = "install.state"
	// DefaultLogFile is the default log file name.
	DefaultLogFile string = "archup.log"
	// ConfigFileName is the configuration file name.
	ConfigFileName string = "config.yaml"
)

// System paths and command names used by step actions
const (
	// PacmanConfPath is the pacman configuration file.
	PacmanConfPath string = "/etc/pacman.conf"
	// MirrorlistPath is the pacman mirrorlist.
	MirrorlistPath string = "/etc/pacman.d/mirrorlist"
	// OSReleasePath is the path to the os-release file.
	OSReleasePath string = "/etc/os-release"
	// Pacman is the Arch Linux package manager command.
	Pacman string = "pacman"
	// Systemctl is the systemd control command.
	Systemctl string = "systemctl"
	// Flatpak is the flatpak command.
	Flatpak string = "flatpak"
	// Reflector is the mirrorlist generator command.
	Reflector string = "reflector"
	// Ufw is the uncomplicated firewall command.
	Ufw string = "ufw"
	// Snapper is the Btrfs snapshot tool command.
	Snapper string = "snapper"
)
