// Package aur implements pkg.Manager on top of an AUR helper. It detects
// yay or paru and never elevates: the helpers refuse to run as root and
// invoke sudo themselves for the pacman half of a build.
package aur

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	archexec "github.com/archup/archup/internal/exec"
	"github.com/archup/archup/internal/pkg"
)

// helpers lists the supported AUR helpers in detection order.
var helpers = []string{"yay", "paru"}

// Manager drives an AUR helper through an executor.
type Manager struct {
	executor archexec.Executor
	helper   string
}

// NewManager creates an AUR backend, detecting the first available helper.
// The backend is created even when no helper is present; IsAvailable
// reports the outcome.
func NewManager(executor archexec.Executor) *Manager {
	m := &Manager{executor: executor}
	for _, h := range helpers {
		if _, err := exec.LookPath(h); err == nil {
			m.helper = h
			break
		}
	}
	return m
}

// NewManagerWithHelper creates an AUR backend bound to a specific helper.
// Used by tests and by configs that pin the helper.
func NewManagerWithHelper(executor archexec.Executor, helper string) *Manager {
	return &Manager{executor: executor, helper: helper}
}

// Name implements pkg.Manager.
func (m *Manager) Name() string {
	if m.helper == "" {
		return "aur"
	}
	return m.helper
}

// IsAvailable implements pkg.Manager.
func (m *Manager) IsAvailable() bool {
	return m.helper != ""
}

// Install implements pkg.Manager. The helper runs unelevated.
func (m *Manager) Install(ctx context.Context, opts pkg.InstallOptions, packages ...string) error {
	if len(packages) == 0 {
		return nil
	}
	if m.helper == "" {
		return pkg.Wrap(pkg.ErrBackendUnavailable, fmt.Errorf("no AUR helper found (tried %s)", strings.Join(helpers, ", ")))
	}

	args := []string{"-S", "--noconfirm"}
	if opts.Needed {
		args = append(args, "--needed")
	}
	args = append(args, packages...)

	result := m.executor.Execute(ctx, m.helper, args...)
	if result.Failed() {
		combined := result.CombinedString()
		cause := fmt.Errorf("%s install failed (exit %d): %s", m.helper, result.ExitCode, strings.TrimSpace(combined))
		if strings.Contains(combined, "target not found") ||
			strings.Contains(combined, "could not find all required packages") {
			return pkg.Wrap(pkg.ErrPackageNotFound, cause)
		}
		return pkg.Wrap(pkg.ErrInstallFailed, cause)
	}
	return nil
}

// Remove implements pkg.Manager. Removal goes through the helper as well so
// it can clean up AUR build metadata.
func (m *Manager) Remove(ctx context.Context, opts pkg.RemoveOptions, packages ...string) error {
	if len(packages) == 0 {
		return nil
	}
	if m.helper == "" {
		return pkg.Wrap(pkg.ErrBackendUnavailable, fmt.Errorf("no AUR helper found"))
	}

	flag := "-R"
	if opts.Recursive {
		flag += "s"
	}
	args := append([]string{flag, "--noconfirm"}, packages...)

	result := m.executor.Execute(ctx, m.helper, args...)
	if result.Failed() {
		return pkg.Wrap(pkg.ErrRemoveFailed,
			fmt.Errorf("%s remove failed (exit %d): %s", m.helper, result.ExitCode, result.StderrString()))
	}
	return nil
}

// Sync implements pkg.Manager.
func (m *Manager) Sync(ctx context.Context) error {
	if m.helper == "" {
		return pkg.Wrap(pkg.ErrBackendUnavailable, fmt.Errorf("no AUR helper found"))
	}
	result := m.executor.Execute(ctx, m.helper, "-Sy")
	if result.Failed() {
		return pkg.Wrap(pkg.ErrSyncFailed,
			fmt.Errorf("%s sync failed (exit %d)", m.helper, result.ExitCode))
	}
	return nil
}

// Upgrade implements pkg.Manager. A full upgrade includes AUR rebuilds.
func (m *Manager) Upgrade(ctx context.Context, packages ...string) error {
	if m.helper == "" {
		return pkg.Wrap(pkg.ErrBackendUnavailable, fmt.Errorf("no AUR helper found"))
	}
	args := []string{"-Su", "--noconfirm"}
	if len(packages) > 0 {
		args = append([]string{"-S", "--noconfirm", "--needed"}, packages...)
	}
	result := m.executor.Execute(ctx, m.helper, args...)
	if result.Failed() {
		return pkg.Wrap(pkg.ErrInstallFailed,
			fmt.Errorf("%s upgrade failed (exit %d)", m.helper, result.ExitCode))
	}
	return nil
}

// IsInstalled implements pkg.Manager. AUR packages live in the local pacman
// database, so -Qi through the helper answers for both sources.
func (m *Manager) IsInstalled(ctx context.Context, name string) (bool, error) {
	if m.helper == "" {
		return false, pkg.Wrap(pkg.ErrBackendUnavailable, fmt.Errorf("no AUR helper found"))
	}
	result := m.executor.Execute(ctx, m.helper, "-Qi", name)
	if result.Error != nil {
		return false, pkg.WrapWithPackage(pkg.ErrBackendUnavailable, name, result.Error)
	}
	return result.ExitCode == 0, nil
}

// ListInstalled implements pkg.Manager, listing foreign (AUR) packages only.
func (m *Manager) ListInstalled(ctx context.Context) ([]pkg.Package, error) {
	if m.helper == "" {
		return nil, pkg.Wrap(pkg.ErrBackendUnavailable, fmt.Errorf("no AUR helper found"))
	}
	result := m.executor.Execute(ctx, m.helper, "-Qm")
	if result.Failed() {
		return nil, pkg.Wrap(pkg.ErrSyncFailed,
			fmt.Errorf("%s -Qm failed (exit %d)", m.helper, result.ExitCode))
	}

	lines := result.StdoutLines()
	packages := make([]pkg.Package, 0, len(lines))
	for _, line := range lines {
		name, version, _ := strings.Cut(line, " ")
		if name == "" {
			continue
		}
		packages = append(packages, pkg.Package{Name: name, Version: version, Installed: true, Repository: "aur"})
	}
	return packages, nil
}

// Clean implements pkg.Manager, clearing the helper's build cache.
func (m *Manager) Clean(ctx context.Context) error {
	if m.helper == "" {
		return nil
	}
	result := m.executor.Execute(ctx, m.helper, "-Sc", "--noconfirm")
	if result.Failed() {
		return pkg.Wrap(pkg.ErrRemoveFailed,
			fmt.Errorf("%s clean failed (exit %d)", m.helper, result.ExitCode))
	}
	return nil
}

// Ensure Manager implements pkg.Manager.
var _ pkg.Manager = (*Manager)(nil)
