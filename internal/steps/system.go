package steps

import (
	"strings"

	"github.com/archup/archup/internal/constants"
	"github.com/archup/archup/internal/install"
)

// PacmanConfStep enables Color and ParallelDownloads in pacman.conf. It runs
// first so every later package operation benefits.
type PacmanConfStep struct {
	install.BaseStep
}

// NewPacmanConfStep creates the pacman.conf tuning step.
func NewPacmanConfStep() *PacmanConfStep {
	return &PacmanConfStep{
		BaseStep: install.NewBaseStep(
			"prepare",
			"Tune pacman.conf (Color, ParallelDownloads)",
			install.Fatal,
		),
	}
}

// Execute implements install.Step.
func (s *PacmanConfStep) Execute(ctx *install.Context) install.StepResult {
	if ctx.DryRun {
		return install.CompleteStep("would enable Color and ParallelDownloads in " + constants.PacmanConfPath)
	}

	res := ctx.Executor.ExecuteElevated(ctx.Context(), "sed", "-i",
		"-e", "s/^#Color$/Color/",
		"-e", "s/^#ParallelDownloads.*/ParallelDownloads = 5/",
		constants.PacmanConfPath)
	if res.Failed() {
		return install.FailStep("cannot update "+constants.PacmanConfPath, commandError(res))
	}

	ctx.Logger.Debug("pacman.conf tuned", "path", constants.PacmanConfPath)
	return install.CompleteStep("pacman.conf tuned")
}

// MirrorStep regenerates the pacman mirrorlist with reflector. A missing
// reflector binary skips the step rather than failing it.
type MirrorStep struct {
	install.BaseStep
}

// NewMirrorStep creates the mirror refresh step.
func NewMirrorStep() *MirrorStep {
	return &MirrorStep{
		BaseStep: install.NewBaseStep(
			"mirrors",
			"Refresh the pacman mirrorlist with reflector",
			install.Recoverable,
		),
	}
}

// Execute implements install.Step.
func (s *MirrorStep) Execute(ctx *install.Context) install.StepResult {
	probe := ctx.Executor.Execute(ctx.Context(), constants.Reflector, "--version")
	if probe.Failed() {
		return install.SkipStep("reflector not installed")
	}

	if ctx.DryRun {
		return install.CompleteStep("would regenerate " + constants.MirrorlistPath)
	}

	res := ctx.Executor.ExecuteElevated(ctx.Context(), constants.Reflector,
		"--save", constants.MirrorlistPath,
		"--protocol", "https",
		"--latest", "20",
		"--sort", "rate")
	if res.Failed() {
		return install.FailStep("cannot refresh mirrorlist", commandError(res))
	}

	return install.CompleteStep("mirrorlist refreshed")
}

// UpgradeStep refreshes the package databases and brings the system fully up
// to date. Everything after it installs against a current system.
type UpgradeStep struct {
	install.BaseStep
}

// NewUpgradeStep creates the full system upgrade step.
func NewUpgradeStep() *UpgradeStep {
	return &UpgradeStep{
		BaseStep: install.NewBaseStep(
			"system-upgrade",
			"Sync package databases and upgrade all packages",
			install.Fatal,
		),
	}
}

// Execute implements install.Step.
func (s *UpgradeStep) Execute(ctx *install.Context) install.StepResult {
	if ctx.DryRun {
		return install.CompleteStep("would sync databases and upgrade the system")
	}

	if err := ctx.Pacman.Sync(ctx.Context()); err != nil {
		return install.FailStep("cannot sync package databases", err)
	}
	if err := ctx.Pacman.Upgrade(ctx.Context()); err != nil {
		return install.FailStep("system upgrade failed", err)
	}

	return install.CompleteStep("system upgraded")
}

// BootloaderStep regenerates the bootloader configuration so the freshly
// upgraded kernel is bootable. systemd-boot needs no regeneration; GRUB gets
// a grub-mkconfig run; anything else is skipped.
type BootloaderStep struct {
	install.BaseStep
}

// NewBootloaderStep creates the bootloader step.
func NewBootloaderStep() *BootloaderStep {
	return &BootloaderStep{
		BaseStep: install.NewBaseStep(
			"bootloader",
			"Regenerate the bootloader configuration",
			install.Fatal,
		),
	}
}

// Execute implements install.Step.
func (s *BootloaderStep) Execute(ctx *install.Context) install.StepResult {
	probe := ctx.Executor.Execute(ctx.Context(), "bootctl", "is-installed")
	if probe.Success() && strings.TrimSpace(probe.StdoutString()) == "yes" {
		return install.CompleteStep("systemd-boot detected, entries are managed automatically")
	}

	grub := ctx.Executor.Execute(ctx.Context(), "test", "-f", "/etc/default/grub")
	if grub.Failed() {
		return install.SkipStep("no supported bootloader detected")
	}

	if ctx.DryRun {
		return install.CompleteStep("would run grub-mkconfig")
	}

	res := ctx.Executor.ExecuteElevated(ctx.Context(), "grub-mkconfig", "-o", "/boot/grub/grub.cfg")
	if res.Failed() {
		return install.FailStep("grub-mkconfig failed", commandError(res))
	}

	return install.CompleteStep("GRUB configuration regenerated")
}
