// Package flatpak implements pkg.Manager for Flatpak applications.
package flatpak

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/archup/archup/internal/constants"
	archexec "github.com/archup/archup/internal/exec"
	"github.com/archup/archup/internal/pkg"
)

// FlathubRemote is the remote archup installs applications from.
const FlathubRemote = "flathub"

// Manager drives flatpak through an executor. Installs are system-wide and
// therefore elevated.
type Manager struct {
	executor archexec.Executor
}

// NewManager creates a flatpak backend.
func NewManager(executor archexec.Executor) *Manager {
	return &Manager{executor: executor}
}

// Name implements pkg.Manager.
func (m *Manager) Name() string {
	return constants.Flatpak
}

// IsAvailable implements pkg.Manager.
func (m *Manager) IsAvailable() bool {
	_, err := exec.LookPath(constants.Flatpak)
	return err == nil
}

// EnsureFlathub adds the Flathub remote if it is missing.
func (m *Manager) EnsureFlathub(ctx context.Context) error {
	result := m.executor.ExecuteElevated(ctx, constants.Flatpak,
		"remote-add", "--if-not-exists", FlathubRemote,
		"https://dl.flathub.org/repo/flathub.flatpakrepo")
	if result.Failed() {
		return pkg.Wrap(pkg.ErrSyncFailed,
			fmt.Errorf("flatpak remote-add failed (exit %d): %s", result.ExitCode, result.StderrString()))
	}
	return nil
}

// Install implements pkg.Manager using application IDs.
func (m *Manager) Install(ctx context.Context, _ pkg.InstallOptions, packages ...string) error {
	if len(packages) == 0 {
		return nil
	}

	args := append([]string{"install", "-y", "--noninteractive", FlathubRemote}, packages...)
	result := m.executor.ExecuteElevated(ctx, constants.Flatpak, args...)
	if result.Failed() {
		combined := result.CombinedString()
		cause := fmt.Errorf("flatpak install failed (exit %d): %s", result.ExitCode, strings.TrimSpace(combined))
		if strings.Contains(combined, "No remote refs found") ||
			strings.Contains(combined, "Nothing matches") {
			return pkg.Wrap(pkg.ErrPackageNotFound, cause)
		}
		return pkg.Wrap(pkg.ErrInstallFailed, cause)
	}
	return nil
}

// Remove implements pkg.Manager.
func (m *Manager) Remove(ctx context.Context, opts pkg.RemoveOptions, packages ...string) error {
	if len(packages) == 0 {
		return nil
	}

	args := []string{"uninstall", "-y", "--noninteractive"}
	if opts.Purge {
		args = append(args, "--delete-data")
	}
	args = append(args, packages...)

	result := m.executor.ExecuteElevated(ctx, constants.Flatpak, args...)
	if result.Failed() {
		return pkg.Wrap(pkg.ErrRemoveFailed,
			fmt.Errorf("flatpak uninstall failed (exit %d): %s", result.ExitCode, result.StderrString()))
	}
	return nil
}

// Sync implements pkg.Manager by refreshing appstream metadata.
func (m *Manager) Sync(ctx context.Context) error {
	result := m.executor.ExecuteElevated(ctx, constants.Flatpak, "update", "--appstream")
	if result.Failed() {
		return pkg.Wrap(pkg.ErrSyncFailed,
			fmt.Errorf("flatpak appstream update failed (exit %d)", result.ExitCode))
	}
	return nil
}

// Upgrade implements pkg.Manager.
func (m *Manager) Upgrade(ctx context.Context, packages ...string) error {
	args := []string{"update", "-y", "--noninteractive"}
	args = append(args, packages...)

	result := m.executor.ExecuteElevated(ctx, constants.Flatpak, args...)
	if result.Failed() {
		return pkg.Wrap(pkg.ErrInstallFailed,
			fmt.Errorf("flatpak update failed (exit %d)", result.ExitCode))
	}
	return nil
}

// IsInstalled implements pkg.Manager using flatpak info.
func (m *Manager) IsInstalled(ctx context.Context, name string) (bool, error) {
	result := m.executor.Execute(ctx, constants.Flatpak, "info", name)
	if result.Error != nil {
		return false, pkg.WrapWithPackage(pkg.ErrBackendUnavailable, name, result.Error)
	}
	return result.ExitCode == 0, nil
}

// ListInstalled implements pkg.Manager.
func (m *Manager) ListInstalled(ctx context.Context) ([]pkg.Package, error) {
	result := m.executor.Execute(ctx, constants.Flatpak, "list", "--app", "--columns=application,version")
	if result.Failed() {
		return nil, pkg.Wrap(pkg.ErrSyncFailed,
			fmt.Errorf("flatpak list failed (exit %d)", result.ExitCode))
	}

	lines := result.StdoutLines()
	packages := make([]pkg.Package, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		p := pkg.Package{Name: fields[0], Installed: true, Repository: FlathubRemote}
		if len(fields) > 1 {
			p.Version = fields[1]
		}
		packages = append(packages, p)
	}
	return packages, nil
}

// Clean implements pkg.Manager by removing unused runtimes.
func (m *Manager) Clean(ctx context.Context) error {
	result := m.executor.ExecuteElevated(ctx, constants.Flatpak, "uninstall", "--unused", "-y")
	if result.Failed() {
		return pkg.Wrap(pkg.ErrRemoveFailed,
			fmt.Errorf("flatpak cleanup failed (exit %d)", result.ExitCode))
	}
	return nil
}

// Ensure Manager implements pkg.Manager.
var _ pkg.Manager = (*Manager)(nil)
