package steps

import (
	"github.com/archup/archup/internal/config"
	"github.com/archup/archup/internal/install"
)

// Builder assembles the post-install pipeline from the configuration. The
// step order is fixed; the profile and the config only select content and
// which optional steps appear.
type Builder struct {
	cfg *config.Config
}

// NewBuilder creates a pipeline builder.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{cfg: cfg}
}

// Build returns the ordered pipeline. Step names are resume keys, so the
// list must stay append-only across releases.
func (b *Builder) Build() []install.Step {
	mode := b.cfg.InstallMode()

	steps := []install.Step{
		NewPacmanConfStep(),
		NewMirrorStep(),
		NewUpgradeStep(),
		NewPackagesStep(PackagesForMode(mode, b.cfg.ExtraPackages)),
		NewAURStep(b.cfg.AURPackages),
		NewShellStep(),
		NewBootloaderStep(),
		NewServicesStep(ServicesForMode(mode, b.cfg.ExtraServices)),
		NewFirewallStep(),
		NewSnapshotStep(),
		NewFlatpakStep(b.cfg.FlatpakApps),
		NewMaintenanceStep(),
	}

	return steps
}
