package steps

import (
	"fmt"
	"strings"

	"github.com/archup/archup/internal/constants"
	"github.com/archup/archup/internal/install"
	"github.com/archup/archup/internal/pkg"
)

// Default services per install profile.
var (
	standardServices = []string{"NetworkManager", "systemd-timesyncd", "bluetooth"}
	serverServices   = []string{"NetworkManager", "systemd-timesyncd", "sshd"}
	minimalServices  = []string{"systemd-timesyncd"}
)

// ServicesForMode returns the service list for a profile, with extras
// appended.
func ServicesForMode(mode constants.Mode, extras []string) []string {
	var services []string
	switch mode {
	case constants.ModeServer:
		services = append(services, serverServices...)
	case constants.ModeMinimal:
		services = append(services, minimalServices...)
	default:
		services = append(services, standardServices...)
	}
	return append(services, extras...)
}

// ServicesStep enables and starts the profile's systemd units. A unit that
// fails to enable does not stop the others.
type ServicesStep struct {
	install.BaseStep
	services []string
}

// NewServicesStep creates the service enablement step.
func NewServicesStep(services []string) *ServicesStep {
	return &ServicesStep{
		BaseStep: install.NewBaseStep(
			"services",
			"Enable and start system services",
			install.Recoverable,
		),
		services: services,
	}
}

// Execute implements install.Step.
func (s *ServicesStep) Execute(ctx *install.Context) install.StepResult {
	if len(s.services) == 0 {
		return install.SkipStep("no services selected")
	}
	if ctx.DryRun {
		return install.CompleteStep(fmt.Sprintf("would enable %d services", len(s.services)))
	}

	var failed []string
	for _, svc := range s.services {
		res := ctx.Executor.ExecuteElevated(ctx.Context(), constants.Systemctl, "enable", "--now", svc)
		if res.Failed() {
			ctx.Logger.Warn("cannot enable service", "service", svc, "error", commandError(res))
			failed = append(failed, svc)
		}
	}

	if len(failed) > 0 {
		return install.FailStep("cannot enable: "+strings.Join(failed, ", "), nil)
	}
	return install.CompleteStep(fmt.Sprintf("%d services enabled", len(s.services)))
}

// FirewallStep installs ufw when missing and applies a deny-incoming
// baseline. Server profiles keep SSH reachable.
type FirewallStep struct {
	install.BaseStep
}

// NewFirewallStep creates the firewall step.
func NewFirewallStep() *FirewallStep {
	return &FirewallStep{
		BaseStep: install.NewBaseStep(
			"firewall",
			"Install and enable ufw with a deny-incoming baseline",
			install.Recoverable,
			constants.ModeMinimal,
		),
	}
}

// Execute implements install.Step.
func (s *FirewallStep) Execute(ctx *install.Context) install.StepResult {
	if ctx.DryRun {
		return install.CompleteStep("would install and enable ufw")
	}

	installed, err := ctx.Pacman.IsInstalled(ctx.Context(), "ufw")
	if err != nil {
		return install.FailStep("cannot check for ufw", err)
	}
	if !installed {
		if err := ctx.Pacman.Install(ctx.Context(), pkg.InstallOptions{Needed: true}, "ufw"); err != nil {
			return install.FailStep("cannot install ufw", err)
		}
	}

	rules := [][]string{
		{"default", "deny", "incoming"},
		{"default", "allow", "outgoing"},
	}
	if ctx.Mode == constants.ModeServer {
		rules = append(rules, []string{"allow", "ssh"})
	}
	rules = append(rules, []string{"--force", "enable"})

	for _, rule := range rules {
		res := ctx.Executor.ExecuteElevated(ctx.Context(), constants.Ufw, rule...)
		if res.Failed() {
			return install.FailStep("ufw "+strings.Join(rule, " ")+" failed", commandError(res))
		}
	}

	res := ctx.Executor.ExecuteElevated(ctx.Context(), constants.Systemctl, "enable", "ufw")
	if res.Failed() {
		return install.FailStep("cannot enable the ufw service", commandError(res))
	}

	return install.CompleteStep("firewall enabled")
}

// MaintenanceStep enables the periodic cache cleanup and SSD trim timers.
type MaintenanceStep struct {
	install.BaseStep
}

// NewMaintenanceStep creates the maintenance timers step.
func NewMaintenanceStep() *MaintenanceStep {
	return &MaintenanceStep{
		BaseStep: install.NewBaseStep(
			"maintenance",
			"Enable paccache and fstrim timers",
			install.Recoverable,
		),
	}
}

// Execute implements install.Step.
func (s *MaintenanceStep) Execute(ctx *install.Context) install.StepResult {
	if ctx.DryRun {
		return install.CompleteStep("would enable paccache.timer and fstrim.timer")
	}

	// paccache ships with pacman-contrib, which the packages step installs.
	var failed []string
	for _, timer := range []string{"paccache.timer", "fstrim.timer"} {
		res := ctx.Executor.ExecuteElevated(ctx.Context(), constants.Systemctl, "enable", "--now", timer)
		if res.Failed() {
			ctx.Logger.Warn("cannot enable timer", "timer", timer, "error", commandError(res))
			failed = append(failed, timer)
		}
	}

	if len(failed) > 0 {
		return install.FailStep("cannot enable: "+strings.Join(failed, ", "), nil)
	}
	return install.CompleteStep("maintenance timers enabled")
}
