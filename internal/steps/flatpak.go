package steps

import (
	"fmt"

	"github.com/archup/archup/internal/constants"
	"github.com/archup/archup/internal/install"
	"github.com/archup/archup/internal/pkg"
	"github.com/archup/archup/internal/pkg/flatpak"
)

// FlatpakStep sets up Flathub and installs the configured Flatpak
// applications. Desktop profiles only.
type FlatpakStep struct {
	install.BaseStep
	apps []string
}

// NewFlatpakStep creates the Flatpak application step.
func NewFlatpakStep(apps []string) *FlatpakStep {
	return &FlatpakStep{
		BaseStep: install.NewBaseStep(
			"flatpak-apps",
			"Set up Flathub and install Flatpak applications",
			install.Recoverable,
			constants.ModeServer, constants.ModeMinimal,
		),
		apps: apps,
	}
}

// Execute implements install.Step.
func (s *FlatpakStep) Execute(ctx *install.Context) install.StepResult {
	if ctx.Flatpak == nil {
		return install.SkipStep("flatpak backend not configured")
	}
	if ctx.DryRun {
		return install.CompleteStep(fmt.Sprintf("would set up Flathub and install %d applications", len(s.apps)))
	}

	if !ctx.Flatpak.IsAvailable() {
		if err := ctx.Pacman.Install(ctx.Context(), pkg.InstallOptions{Needed: true}, "flatpak"); err != nil {
			return install.FailStep("cannot install flatpak", err)
		}
	}

	if fp, ok := ctx.Flatpak.(*flatpak.Manager); ok {
		if err := fp.EnsureFlathub(ctx.Context()); err != nil {
			return install.FailStep("cannot add the Flathub remote", err)
		}
	}

	if len(s.apps) == 0 {
		return install.CompleteStep("Flathub configured, no applications requested")
	}

	if err := ctx.Flatpak.Install(ctx.Context(), pkg.InstallOptions{}, s.apps...); err != nil {
		return install.FailStep("Flatpak installation failed", err)
	}

	return install.CompleteStep(fmt.Sprintf("%d Flatpak applications installed", len(s.apps)))
}
