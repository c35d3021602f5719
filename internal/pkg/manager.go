package pkg

import "context"

// Manager is the unified interface over archup's package sources.
//
// All methods take a context for cancellation and timeout handling.
// Implementations must be safe for concurrent use.
type Manager interface {
	// Install installs one or more packages. Installing zero packages is
	// a no-op.
	Install(ctx context.Context, opts InstallOptions, packages ...string) error

	// Remove removes one or more packages from the system.
	Remove(ctx context.Context, opts RemoveOptions, packages ...string) error

	// Sync refreshes the backend's package database.
	Sync(ctx context.Context) error

	// Upgrade upgrades all installed packages, or only the named ones.
	Upgrade(ctx context.Context, packages ...string) error

	// IsInstalled reports whether a package is on the system.
	IsInstalled(ctx context.Context, name string) (bool, error)

	// ListInstalled returns every installed package the backend knows.
	ListInstalled(ctx context.Context) ([]Package, error)

	// Clean removes cached package files.
	Clean(ctx context.Context) error

	// Name returns the backend name ("pacman", "yay", "flatpak").
	Name() string

	// IsAvailable reports whether the backend binary exists on the system.
	IsAvailable() bool
}
