package steps

import (
	"strings"

	"github.com/archup/archup/internal/constants"
	"github.com/archup/archup/internal/install"
	"github.com/archup/archup/internal/pkg"
)

// SnapshotStep sets up snapper timeline snapshots for the root filesystem.
// Non-Btrfs roots skip the step.
type SnapshotStep struct {
	install.BaseStep
}

// NewSnapshotStep creates the snapshot setup step.
func NewSnapshotStep() *SnapshotStep {
	return &SnapshotStep{
		BaseStep: install.NewBaseStep(
			"snapshots",
			"Configure snapper snapshots for the root filesystem",
			install.Recoverable,
			constants.ModeMinimal,
		),
	}
}

// Execute implements install.Step.
func (s *SnapshotStep) Execute(ctx *install.Context) install.StepResult {
	fstype := ctx.Executor.Execute(ctx.Context(), "findmnt", "-n", "-o", "FSTYPE", "/")
	if fstype.Failed() || strings.TrimSpace(fstype.StdoutString()) != "btrfs" {
		return install.SkipStep("root filesystem is not Btrfs")
	}

	if ctx.DryRun {
		return install.CompleteStep("would configure snapper for /")
	}

	installed, err := ctx.Pacman.IsInstalled(ctx.Context(), "snapper")
	if err != nil {
		return install.FailStep("cannot check for snapper", err)
	}
	if !installed {
		if err := ctx.Pacman.Install(ctx.Context(), pkg.InstallOptions{Needed: true}, "snapper"); err != nil {
			return install.FailStep("cannot install snapper", err)
		}
	}

	res := ctx.Executor.ExecuteElevated(ctx.Context(), constants.Snapper, "-c", "root", "create-config", "/")
	if res.Failed() && !strings.Contains(res.StderrString(), "exists") {
		return install.FailStep("cannot create the snapper config", commandError(res))
	}

	for _, timer := range []string{"snapper-timeline.timer", "snapper-cleanup.timer"} {
		res := ctx.Executor.ExecuteElevated(ctx.Context(), constants.Systemctl, "enable", "--now", timer)
		if res.Failed() {
			return install.FailStep("cannot enable "+timer, commandError(res))
		}
	}

	return install.CompleteStep("snapper snapshots configured")
}
