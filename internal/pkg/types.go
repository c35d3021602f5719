// Package pkg abstracts the package sources archup installs from: the
// official repositories through pacman, the AUR through a helper, and
// Flatpak remotes. Steps talk to a Manager and never shell out directly.
package pkg

import "fmt"

// Package is one installable unit with the metadata archup cares about.
type Package struct {
	// Name is the package name as the backend knows it.
	Name string

	// Version is the version string reported by the backend.
	Version string

	// Installed reports whether the package is currently on the system.
	Installed bool

	// Repository is the origin repository or remote, when known.
	Repository string
}

// String returns a human-readable representation of the package.
func (p Package) String() string {
	if p.Version != "" {
		return fmt.Sprintf("%s %s", p.Name, p.Version)
	}
	return p.Name
}

// InstallOptions configures install behavior across backends.
type InstallOptions struct {
	// Needed skips packages that are already up to date.
	Needed bool

	// AsDeps marks installed packages as dependencies.
	AsDeps bool
}

// RemoveOptions configures removal behavior across backends.
type RemoveOptions struct {
	// Recursive also removes dependencies no other package needs.
	Recursive bool

	// Purge also removes backend configuration files.
	Purge bool
}
