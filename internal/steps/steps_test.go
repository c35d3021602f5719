package steps

import (
	"os/user"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archup/archup/internal/constants"
	"github.com/archup/archup/internal/exec"
	"github.com/archup/archup/internal/install"
	"github.com/archup/archup/internal/pkg"
	"github.com/archup/archup/internal/pkg/flatpak"
)

type fixture struct {
	executor *exec.MockExecutor
	pacman   *pkg.MockManager
	aur      *pkg.MockManager
	ctx      *install.Context
}

func newFixture(opts ...install.ContextOption) *fixture {
	f := &fixture{
		executor: exec.NewMockExecutor(),
		pacman:   pkg.NewMockManager("pacman"),
		aur:      pkg.NewMockManager("yay"),
	}
	base := []install.ContextOption{
		install.WithExecutor(f.executor),
		install.WithPacman(f.pacman),
		install.WithAUR(f.aur),
	}
	f.ctx = install.NewContext(append(base, opts...)...)
	return f
}

func TestPacmanConfStep(t *testing.T) {
	t.Run("tunes the config", func(t *testing.T) {
		f := newFixture()
		result := NewPacmanConfStep().Execute(f.ctx)

		assert.Equal(t, install.StepCompleted, result.Status)
		require.Len(t, f.executor.Calls(), 1)
		call := f.executor.Calls()[0]
		assert.Equal(t, "sed", call.Command)
		assert.True(t, call.Elevated)
		assert.Contains(t, call.Args, constants.PacmanConfPath)
	})

	t.Run("dry run touches nothing", func(t *testing.T) {
		f := newFixture(install.WithDryRun(true))
		result := NewPacmanConfStep().Execute(f.ctx)

		assert.Equal(t, install.StepCompleted, result.Status)
		assert.Zero(t, f.executor.CallCount())
	})

	t.Run("sed failure fails the step", func(t *testing.T) {
		f := newFixture()
		f.executor.SetResponse("sed", exec.FailureResult(1, "sed: permission denied"))

		result := NewPacmanConfStep().Execute(f.ctx)
		assert.Equal(t, install.StepFailed, result.Status)
		assert.ErrorContains(t, result.Error, "permission denied")
	})
}

func TestMirrorStep(t *testing.T) {
	t.Run("skips without reflector", func(t *testing.T) {
		f := newFixture()
		f.executor.SetResponse("reflector --version", exec.ErrorResult(assert.AnError))

		result := NewMirrorStep().Execute(f.ctx)
		assert.Equal(t, install.StepSkipped, result.Status)
	})

	t.Run("refreshes the mirrorlist", func(t *testing.T) {
		f := newFixture()
		result := NewMirrorStep().Execute(f.ctx)

		assert.Equal(t, install.StepCompleted, result.Status)
		calls := f.executor.Calls()
		require.Len(t, calls, 2)
		assert.Equal(t, constants.Reflector, calls[1].Command)
		assert.True(t, calls[1].Elevated)
		assert.Contains(t, calls[1].Args, constants.MirrorlistPath)
	})

	t.Run("reflector failure fails the step", func(t *testing.T) {
		f := newFixture()
		f.executor.SetResponse("reflector --version", exec.SuccessResult("reflector 2023"))
		f.executor.SetDefaultResponse(exec.FailureResult(1, "no mirrors found"))

		result := NewMirrorStep().Execute(f.ctx)
		assert.Equal(t, install.StepFailed, result.Status)
	})

	t.Run("dry run only probes", func(t *testing.T) {
		f := newFixture(install.WithDryRun(true))
		result := NewMirrorStep().Execute(f.ctx)

		assert.Equal(t, install.StepCompleted, result.Status)
		assert.Equal(t, 1, f.executor.CallCount())
	})
}

func TestUpgradeStep(t *testing.T) {
	t.Run("syncs then upgrades", func(t *testing.T) {
		f := newFixture()
		result := NewUpgradeStep().Execute(f.ctx)
		assert.Equal(t, install.StepCompleted, result.Status)
	})

	t.Run("sync failure is fatal to the step", func(t *testing.T) {
		f := newFixture()
		f.pacman.FailSync(assert.AnError)

		result := NewUpgradeStep().Execute(f.ctx)
		assert.Equal(t, install.StepFailed, result.Status)
		assert.ErrorIs(t, result.Error, assert.AnError)
	})

	t.Run("is fatal in the pipeline", func(t *testing.T) {
		assert.Equal(t, install.Fatal, NewUpgradeStep().Criticality())
	})
}

func TestBootloaderStep(t *testing.T) {
	t.Run("systemd-boot needs no regeneration", func(t *testing.T) {
		f := newFixture()
		f.executor.SetResponse("bootctl is-installed", exec.SuccessResult("yes\n"))

		result := NewBootloaderStep().Execute(f.ctx)
		assert.Equal(t, install.StepCompleted, result.Status)
		assert.False(t, f.executor.WasCalled("grub-mkconfig"))
	})

	t.Run("grub regenerates the config", func(t *testing.T) {
		f := newFixture()
		f.executor.SetResponse("bootctl is-installed", exec.FailureResult(1, ""))

		result := NewBootloaderStep().Execute(f.ctx)
		assert.Equal(t, install.StepCompleted, result.Status)
		assert.True(t, f.executor.WasCalledWith("grub-mkconfig", "-o", "/boot/grub/grub.cfg"))
	})

	t.Run("no bootloader skips", func(t *testing.T) {
		f := newFixture()
		f.executor.SetResponse("bootctl is-installed", exec.FailureResult(1, ""))
		f.executor.SetResponse("test", exec.FailureResult(1, ""))

		result := NewBootloaderStep().Execute(f.ctx)
		assert.Equal(t, install.StepSkipped, result.Status)
	})

	t.Run("grub-mkconfig failure fails the step", func(t *testing.T) {
		f := newFixture()
		f.executor.SetResponse("bootctl is-installed", exec.FailureResult(1, ""))
		f.executor.SetResponse("grub-mkconfig", exec.FailureResult(1, "cannot write grub.cfg"))

		result := NewBootloaderStep().Execute(f.ctx)
		assert.Equal(t, install.StepFailed, result.Status)
	})
}

func TestPackagesStep(t *testing.T) {
	t.Run("installs the set", func(t *testing.T) {
		f := newFixture()
		result := NewPackagesStep([]string{"git", "htop"}).Execute(f.ctx)

		assert.Equal(t, install.StepCompleted, result.Status)
		require.Len(t, f.pacman.Installs(), 1)
		assert.Equal(t, []string{"git", "htop"}, f.pacman.Installs()[0])
	})

	t.Run("empty set skips", func(t *testing.T) {
		f := newFixture()
		result := NewPackagesStep(nil).Execute(f.ctx)
		assert.Equal(t, install.StepSkipped, result.Status)
	})

	t.Run("install failure fails the step", func(t *testing.T) {
		f := newFixture()
		f.pacman.FailOn("htop", assert.AnError)

		result := NewPackagesStep([]string{"git", "htop"}).Execute(f.ctx)
		assert.Equal(t, install.StepFailed, result.Status)
	})
}

func TestPackagesForMode(t *testing.T) {
	standard := PackagesForMode(constants.ModeStandard, []string{"neovim"})
	assert.Contains(t, standard, "base-devel")
	assert.Contains(t, standard, "firefox")
	assert.Contains(t, standard, "neovim")

	server := PackagesForMode(constants.ModeServer, nil)
	assert.Contains(t, server, "fail2ban")
	assert.NotContains(t, server, "firefox")

	minimal := PackagesForMode(constants.ModeMinimal, nil)
	assert.Contains(t, minimal, "base-devel")
	assert.NotContains(t, minimal, "firefox")
}

func TestAURStep(t *testing.T) {
	t.Run("installs through the helper", func(t *testing.T) {
		f := newFixture()
		result := NewAURStep([]string{"yay-bin"}).Execute(f.ctx)

		assert.Equal(t, install.StepCompleted, result.Status)
		require.Len(t, f.aur.Installs(), 1)
	})

	t.Run("no packages skips", func(t *testing.T) {
		f := newFixture()
		result := NewAURStep(nil).Execute(f.ctx)
		assert.Equal(t, install.StepSkipped, result.Status)
	})

	t.Run("missing helper skips", func(t *testing.T) {
		f := newFixture(install.WithAUR(nil))
		result := NewAURStep([]string{"yay-bin"}).Execute(f.ctx)
		assert.Equal(t, install.StepSkipped, result.Status)
	})

	t.Run("unavailable helper skips", func(t *testing.T) {
		f := newFixture()
		f.aur.SetAvailable(false)

		result := NewAURStep([]string{"yay-bin"}).Execute(f.ctx)
		assert.Equal(t, install.StepSkipped, result.Status)
	})
}

func TestShellStep(t *testing.T) {
	fakeUser := func() (*user.User, error) {
		return &user.User{Username: "alice"}, nil
	}

	t.Run("installs zsh and changes the shell", func(t *testing.T) {
		f := newFixture()
		step := NewShellStep()
		step.currentUser = fakeUser

		result := step.Execute(f.ctx)
		assert.Equal(t, install.StepCompleted, result.Status)
		assert.Equal(t, shellPackages, f.pacman.Installs()[0])
		assert.True(t, f.executor.WasCalledWith("chsh", "-s", "/usr/bin/zsh", "alice"))
	})

	t.Run("sudo user wins over the process user", func(t *testing.T) {
		f := newFixture()
		f.ctx.SetState("sudo_user", "bob")
		step := NewShellStep()
		step.currentUser = fakeUser

		result := step.Execute(f.ctx)
		assert.Equal(t, install.StepCompleted, result.Status)
		assert.True(t, f.executor.WasCalledWith("chsh", "-s", "/usr/bin/zsh", "bob"))
	})

	t.Run("chsh failure fails the step", func(t *testing.T) {
		f := newFixture()
		f.executor.SetResponse("chsh", exec.FailureResult(1, "PAM: authentication failed"))
		step := NewShellStep()
		step.currentUser = fakeUser

		result := step.Execute(f.ctx)
		assert.Equal(t, install.StepFailed, result.Status)
	})

	t.Run("skipped on headless profiles", func(t *testing.T) {
		step := NewShellStep()
		assert.Contains(t, step.SkipInModes(), constants.ModeServer)
		assert.Contains(t, step.SkipInModes(), constants.ModeMinimal)
	})
}

func TestServicesStep(t *testing.T) {
	t.Run("enables every service", func(t *testing.T) {
		f := newFixture()
		result := NewServicesStep([]string{"sshd", "NetworkManager"}).Execute(f.ctx)

		assert.Equal(t, install.StepCompleted, result.Status)
		assert.True(t, f.executor.WasCalledWith(constants.Systemctl, "enable", "--now", "sshd"))
		assert.True(t, f.executor.WasCalledWith(constants.Systemctl, "enable", "--now", "NetworkManager"))
	})

	t.Run("one failure does not stop the rest", func(t *testing.T) {
		f := newFixture()
		f.executor.SetResponse("systemctl enable --now bluetooth", exec.FailureResult(1, "unit not found"))

		result := NewServicesStep([]string{"bluetooth", "sshd"}).Execute(f.ctx)
		assert.Equal(t, install.StepFailed, result.Status)
		assert.Contains(t, result.Message, "bluetooth")
		assert.True(t, f.executor.WasCalledWith(constants.Systemctl, "enable", "--now", "sshd"))
	})

	t.Run("no services skips", func(t *testing.T) {
		f := newFixture()
		result := NewServicesStep(nil).Execute(f.ctx)
		assert.Equal(t, install.StepSkipped, result.Status)
	})
}

func TestServicesForMode(t *testing.T) {
	assert.Contains(t, ServicesForMode(constants.ModeServer, nil), "sshd")
	assert.Contains(t, ServicesForMode(constants.ModeStandard, nil), "bluetooth")
	assert.NotContains(t, ServicesForMode(constants.ModeMinimal, nil), "sshd")
	assert.Contains(t, ServicesForMode(constants.ModeStandard, []string{"docker"}), "docker")
}

func TestFirewallStep(t *testing.T) {
	t.Run("installs ufw when missing and applies the baseline", func(t *testing.T) {
		f := newFixture()
		result := NewFirewallStep().Execute(f.ctx)

		assert.Equal(t, install.StepCompleted, result.Status)
		require.Len(t, f.pacman.Installs(), 1)
		assert.Equal(t, []string{"ufw"}, f.pacman.Installs()[0])
		assert.True(t, f.executor.WasCalledWith(constants.Ufw, "default", "deny", "incoming"))
		assert.True(t, f.executor.WasCalledWith(constants.Ufw, "--force", "enable"))
	})

	t.Run("skips the install when ufw is present", func(t *testing.T) {
		f := newFixture()
		f.pacman.MarkInstalled("ufw")

		result := NewFirewallStep().Execute(f.ctx)
		assert.Equal(t, install.StepCompleted, result.Status)
		assert.Empty(t, f.pacman.Installs())
	})

	t.Run("server profile allows ssh", func(t *testing.T) {
		f := newFixture(install.WithMode(constants.ModeServer))
		result := NewFirewallStep().Execute(f.ctx)

		assert.Equal(t, install.StepCompleted, result.Status)
		assert.True(t, f.executor.WasCalledWith(constants.Ufw, "allow", "ssh"))
	})

	t.Run("standard profile does not open ssh", func(t *testing.T) {
		f := newFixture()
		NewFirewallStep().Execute(f.ctx)
		assert.False(t, f.executor.WasCalledWith(constants.Ufw, "allow", "ssh"))
	})

	t.Run("rule failure fails the step", func(t *testing.T) {
		f := newFixture()
		f.executor.SetResponse("ufw --force enable", exec.FailureResult(1, "ERROR: problem running"))

		result := NewFirewallStep().Execute(f.ctx)
		assert.Equal(t, install.StepFailed, result.Status)
	})
}

func TestSnapshotStep(t *testing.T) {
	onBtrfs := func(f *fixture) {
		f.executor.SetResponse("findmnt -n -o FSTYPE /", exec.SuccessResult("btrfs\n"))
	}

	t.Run("skips off btrfs", func(t *testing.T) {
		f := newFixture()
		f.executor.SetResponse("findmnt -n -o FSTYPE /", exec.SuccessResult("ext4\n"))

		result := NewSnapshotStep().Execute(f.ctx)
		assert.Equal(t, install.StepSkipped, result.Status)
	})

	t.Run("configures snapper on btrfs", func(t *testing.T) {
		f := newFixture()
		onBtrfs(f)
		f.pacman.MarkInstalled("snapper")

		result := NewSnapshotStep().Execute(f.ctx)
		assert.Equal(t, install.StepCompleted, result.Status)
		assert.True(t, f.executor.WasCalledWith(constants.Snapper, "-c", "root", "create-config", "/"))
		assert.True(t, f.executor.WasCalledWith(constants.Systemctl, "enable", "--now", "snapper-timeline.timer"))
	})

	t.Run("existing config is tolerated", func(t *testing.T) {
		f := newFixture()
		onBtrfs(f)
		f.pacman.MarkInstalled("snapper")
		f.executor.SetResponse("snapper -c root create-config /",
			exec.FailureResult(1, "Config 'root' already exists"))

		result := NewSnapshotStep().Execute(f.ctx)
		assert.Equal(t, install.StepCompleted, result.Status)
	})

	t.Run("installs snapper when missing", func(t *testing.T) {
		f := newFixture()
		onBtrfs(f)

		result := NewSnapshotStep().Execute(f.ctx)
		assert.Equal(t, install.StepCompleted, result.Status)
		require.Len(t, f.pacman.Installs(), 1)
		assert.Equal(t, []string{"snapper"}, f.pacman.Installs()[0])
	})
}

func TestFlatpakStep(t *testing.T) {
	t.Run("no backend skips", func(t *testing.T) {
		f := newFixture()
		result := NewFlatpakStep([]string{"org.gimp.GIMP"}).Execute(f.ctx)
		assert.Equal(t, install.StepSkipped, result.Status)
	})

	t.Run("installs the applications", func(t *testing.T) {
		fp := pkg.NewMockManager("flatpak")
		f := newFixture(install.WithFlatpak(fp))

		result := NewFlatpakStep([]string{"org.gimp.GIMP"}).Execute(f.ctx)
		assert.Equal(t, install.StepCompleted, result.Status)
		require.Len(t, fp.Installs(), 1)
		assert.Equal(t, []string{"org.gimp.GIMP"}, fp.Installs()[0])
	})

	t.Run("real backend adds the flathub remote", func(t *testing.T) {
		f := newFixture()
		fp := flatpak.NewManager(f.executor)
		f.ctx = install.NewContext(
			install.WithExecutor(f.executor),
			install.WithPacman(f.pacman),
			install.WithFlatpak(fp),
		)

		result := NewFlatpakStep(nil).Execute(f.ctx)
		assert.Equal(t, install.StepCompleted, result.Status)
		assert.True(t, f.executor.WasCalledWith(constants.Flatpak,
			"remote-add", "--if-not-exists", flatpak.FlathubRemote,
			"https://dl.flathub.org/repo/flathub.flatpakrepo"))
	})

	t.Run("skipped on headless profiles", func(t *testing.T) {
		step := NewFlatpakStep(nil)
		assert.Contains(t, step.SkipInModes(), constants.ModeServer)
		assert.Contains(t, step.SkipInModes(), constants.ModeMinimal)
	})
}

func TestMaintenanceStep(t *testing.T) {
	t.Run("enables both timers", func(t *testing.T) {
		f := newFixture()
		result := NewMaintenanceStep().Execute(f.ctx)

		assert.Equal(t, install.StepCompleted, result.Status)
		assert.True(t, f.executor.WasCalledWith(constants.Systemctl, "enable", "--now", "paccache.timer"))
		assert.True(t, f.executor.WasCalledWith(constants.Systemctl, "enable", "--now", "fstrim.timer"))
	})

	t.Run("timer failure fails the step", func(t *testing.T) {
		f := newFixture()
		f.executor.SetResponse("systemctl enable --now fstrim.timer", exec.FailureResult(1, "unit not found"))

		result := NewMaintenanceStep().Execute(f.ctx)
		assert.Equal(t, install.StepFailed, result.Status)
		assert.Contains(t, result.Message, "fstrim.timer")
	})
}

func TestDryRunTouchesNothing(t *testing.T) {
	f := newFixture(install.WithDryRun(true))

	steps := []install.Step{
		NewPacmanConfStep(),
		NewUpgradeStep(),
		NewPackagesStep([]string{"git"}),
		NewAURStep([]string{"yay-bin"}),
		NewShellStep(),
		NewServicesStep([]string{"sshd"}),
		NewFirewallStep(),
		NewMaintenanceStep(),
	}

	for _, step := range steps {
		result := step.Execute(f.ctx)
		assert.Equal(t, install.StepCompleted, result.Status, step.Name())
	}

	assert.Zero(t, f.executor.CallCount())
	assert.Empty(t, f.pacman.Installs())
}
