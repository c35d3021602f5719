package steps

import (
	"fmt"
	"os/user"

	"github.com/archup/archup/internal/constants"
	"github.com/archup/archup/internal/install"
	"github.com/archup/archup/internal/pkg"
)

// Package sets per install profile. Extras from the configuration are
// appended after these.
var (
	basePackages = []string{
		"base-devel", "git", "curl", "wget", "openssh",
		"man-db", "man-pages", "pacman-contrib",
	}

	standardPackages = []string{
		"firefox", "noto-fonts", "noto-fonts-emoji", "ttf-dejavu",
		"pipewire", "pipewire-pulse", "wireplumber",
		"networkmanager", "bluez", "bluez-utils",
	}

	serverPackages = []string{
		"networkmanager", "ufw", "fail2ban", "htop", "tmux",
	}
)

// PackagesForMode returns the package list for a profile, with extras
// appended. Custom mode installs only the base set plus extras.
func PackagesForMode(mode constants.Mode, extras []string) []string {
	packages := append([]string{}, basePackages...)
	switch mode {
	case constants.ModeStandard:
		packages = append(packages, standardPackages...)
	case constants.ModeServer:
		packages = append(packages, serverPackages...)
	}
	return append(packages, extras...)
}

// PackagesStep installs the profile's package set through pacman.
type PackagesStep struct {
	install.BaseStep
	packages []string
}

// NewPackagesStep creates the package installation step.
func NewPackagesStep(packages []string) *PackagesStep {
	return &PackagesStep{
		BaseStep: install.NewBaseStep(
			"packages",
			"Install the profile's package set",
			install.Fatal,
		),
		packages: packages,
	}
}

// Execute implements install.Step.
func (s *PackagesStep) Execute(ctx *install.Context) install.StepResult {
	if len(s.packages) == 0 {
		return install.SkipStep("no packages selected")
	}
	if ctx.DryRun {
		return install.CompleteStep(fmt.Sprintf("would install %d packages", len(s.packages)))
	}

	opts := pkg.InstallOptions{Needed: true}
	if err := ctx.Pacman.Install(ctx.Context(), opts, s.packages...); err != nil {
		return install.FailStep("package installation failed", err)
	}

	return install.CompleteStep(fmt.Sprintf("%d packages installed", len(s.packages)))
}

// AURStep installs user-requested AUR packages through the configured
// helper. It never runs the helper as root.
type AURStep struct {
	install.BaseStep
	packages []string
}

// NewAURStep creates the AUR package step.
func NewAURStep(packages []string) *AURStep {
	return &AURStep{
		BaseStep: install.NewBaseStep(
			"aur-packages",
			"Install AUR packages through the helper",
			install.Recoverable,
		),
		packages: packages,
	}
}

// Execute implements install.Step.
func (s *AURStep) Execute(ctx *install.Context) install.StepResult {
	if len(s.packages) == 0 {
		return install.SkipStep("no AUR packages requested")
	}
	if ctx.AUR == nil || !ctx.AUR.IsAvailable() {
		return install.SkipStep("no AUR helper available")
	}
	if ctx.DryRun {
		return install.CompleteStep(fmt.Sprintf("would install %d AUR packages with %s", len(s.packages), ctx.AUR.Name()))
	}

	opts := pkg.InstallOptions{Needed: true}
	if err := ctx.AUR.Install(ctx.Context(), opts, s.packages...); err != nil {
		return install.FailStep("AUR installation failed", err)
	}

	return install.CompleteStep(fmt.Sprintf("%d AUR packages installed", len(s.packages)))
}

// shellPackages are installed by the shell setup step.
var shellPackages = []string{
	"zsh", "zsh-completions", "zsh-autosuggestions", "zsh-syntax-highlighting",
}

// ShellStep installs zsh with its plugins and makes it the login shell of
// the invoking user. Desktop profiles only.
type ShellStep struct {
	install.BaseStep

	// currentUser is swappable for tests.
	currentUser func() (*user.User, error)
}

// NewShellStep creates the shell setup step.
func NewShellStep() *ShellStep {
	return &ShellStep{
		BaseStep: install.NewBaseStep(
			"shell",
			"Install zsh and set it as the login shell",
			install.Recoverable,
			constants.ModeServer, constants.ModeMinimal,
		),
		currentUser: user.Current,
	}
}

// Execute implements install.Step.
func (s *ShellStep) Execute(ctx *install.Context) install.StepResult {
	if ctx.DryRun {
		return install.CompleteStep("would install zsh and change the login shell")
	}

	opts := pkg.InstallOptions{Needed: true}
	if err := ctx.Pacman.Install(ctx.Context(), opts, shellPackages...); err != nil {
		return install.FailStep("cannot install zsh", err)
	}

	u, err := s.currentUser()
	if err != nil {
		return install.FailStep("cannot determine the current user", err)
	}
	// Under sudo the invoking user, not root, gets the new shell.
	username := u.Username
	if sudoUser := ctx.GetStateString("sudo_user"); sudoUser != "" {
		username = sudoUser
	}

	res := ctx.Executor.ExecuteElevated(ctx.Context(), "chsh", "-s", "/usr/bin/zsh", username)
	if res.Failed() {
		return install.FailStep("cannot change the login shell for "+username, commandError(res))
	}

	return install.CompleteStep("zsh is now the login shell for " + username)
}
