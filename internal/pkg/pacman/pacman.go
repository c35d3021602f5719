// Package pacman implements pkg.Manager for the official Arch repositories.
package pacman

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/archup/archup/internal/constants"
	archexec "github.com/archup/archup/internal/exec"
	"github.com/archup/archup/internal/pkg"
)

// Manager drives pacman through an executor. Every mutating operation runs
// elevated; queries run as the invoking user.
type Manager struct {
	executor archexec.Executor
}

// NewManager creates a pacman backend.
func NewManager(executor archexec.Executor) *Manager {
	return &Manager{executor: executor}
}

// Name implements pkg.Manager.
func (m *Manager) Name() string {
	return constants.Pacman
}

// IsAvailable implements pkg.Manager.
func (m *Manager) IsAvailable() bool {
	_, err := exec.LookPath(constants.Pacman)
	return err == nil
}

// Install implements pkg.Manager using pacman -S --noconfirm.
func (m *Manager) Install(ctx context.Context, opts pkg.InstallOptions, packages ...string) error {
	if len(packages) == 0 {
		return nil
	}

	args := []string{"-S", "--noconfirm"}
	if opts.Needed {
		args = append(args, "--needed")
	}
	if opts.AsDeps {
		args = append(args, "--asdeps")
	}
	args = append(args, packages...)

	result := m.executor.ExecuteElevated(ctx, constants.Pacman, args...)
	if result.Failed() {
		return classify(result, packages, pkg.ErrInstallFailed, "install")
	}
	return nil
}

// Remove implements pkg.Manager. Recursive maps to -Rs, Purge adds -n.
func (m *Manager) Remove(ctx context.Context, opts pkg.RemoveOptions, packages ...string) error {
	if len(packages) == 0 {
		return nil
	}

	flag := "-R"
	if opts.Recursive {
		flag += "s"
	}
	if opts.Purge {
		flag += "n"
	}
	args := append([]string{flag, "--noconfirm"}, packages...)

	result := m.executor.ExecuteElevated(ctx, constants.Pacman, args...)
	if result.Failed() {
		return classify(result, packages, pkg.ErrRemoveFailed, "remove")
	}
	return nil
}

// Sync implements pkg.Manager using pacman -Sy.
func (m *Manager) Sync(ctx context.Context) error {
	result := m.executor.ExecuteElevated(ctx, constants.Pacman, "-Sy")
	if result.Failed() {
		return classify(result, nil, pkg.ErrSyncFailed, "sync")
	}
	return nil
}

// Upgrade implements pkg.Manager. With no packages it runs a full -Su.
func (m *Manager) Upgrade(ctx context.Context, packages ...string) error {
	args := []string{"-Su", "--noconfirm"}
	if len(packages) > 0 {
		args = append([]string{"-S", "--noconfirm", "--needed"}, packages...)
	}

	result := m.executor.ExecuteElevated(ctx, constants.Pacman, args...)
	if result.Failed() {
		return classify(result, packages, pkg.ErrInstallFailed, "upgrade")
	}
	return nil
}

// IsInstalled implements pkg.Manager using pacman -Qi.
func (m *Manager) IsInstalled(ctx context.Context, name string) (bool, error) {
	result := m.executor.Execute(ctx, constants.Pacman, "-Qi", name)
	if result.Error != nil {
		return false, pkg.WrapWithPackage(pkg.ErrBackendUnavailable, name, result.Error)
	}
	// -Qi exits non-zero when the package is not installed.
	return result.ExitCode == 0, nil
}

// ListInstalled implements pkg.Manager using pacman -Q.
func (m *Manager) ListInstalled(ctx context.Context) ([]Package, error) {
	result := m.executor.Execute(ctx, constants.Pacman, "-Q")
	if result.Failed() {
		return nil, classify(result, nil, pkg.ErrSyncFailed, "list")
	}

	lines := result.StdoutLines()
	packages := make([]Package, 0, len(lines))
	for _, line := range lines {
		name, version, _ := strings.Cut(line, " ")
		if name == "" {
			continue
		}
		packages = append(packages, Package{Name: name, Version: version, Installed: true})
	}
	return packages, nil
}

// Clean implements pkg.Manager using paccache when present, falling back to
// pacman -Sc.
func (m *Manager) Clean(ctx context.Context) error {
	if _, err := exec.LookPath("paccache"); err == nil {
		result := m.executor.ExecuteElevated(ctx, "paccache", "-r")
		if result.Failed() {
			return classify(result, nil, pkg.ErrRemoveFailed, "clean")
		}
		return nil
	}

	result := m.executor.ExecuteElevated(ctx, constants.Pacman, "-Sc", "--noconfirm")
	if result.Failed() {
		return classify(result, nil, pkg.ErrRemoveFailed, "clean")
	}
	return nil
}

// Package aliases pkg.Package for callers importing only this backend.
type Package = pkg.Package

// classify maps pacman's stderr patterns onto the pkg sentinels.
func classify(result *archexec.Result, packages []string, fallback *pkg.PackageError, op string) error {
	combined := result.CombinedString()
	cause := fmt.Errorf("pacman %s failed (exit %d): %s", op, result.ExitCode, strings.TrimSpace(combined))
	if result.Error != nil {
		cause = result.Error
	}

	switch {
	case strings.Contains(combined, "target not found"),
		strings.Contains(combined, "could not find"):
		for _, p := range packages {
			if strings.Contains(combined, p) {
				return pkg.WrapWithPackage(pkg.ErrPackageNotFound, p, cause)
			}
		}
		return pkg.Wrap(pkg.ErrPackageNotFound, cause)

	case strings.Contains(combined, "unable to lock database"),
		strings.Contains(combined, "database is locked"):
		return pkg.Wrap(pkg.ErrDatabaseLocked, cause)

	case strings.Contains(combined, "failed to retrieve"),
		strings.Contains(combined, "failed to download"),
		strings.Contains(combined, "failed to synchronize"):
		return pkg.Wrap(pkg.ErrNetworkUnavailable, cause)
	}

	return pkg.Wrap(fallback, cause)
}

// Ensure Manager implements pkg.Manager.
var _ pkg.Manager = (*Manager)(nil)
