package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/archup/archup/internal/cli"
	"github.com/archup/archup/internal/config"
	"github.com/archup/archup/internal/constants"
	"github.com/archup/archup/internal/distro"
	"github.com/archup/archup/internal/exec"
	"github.com/archup/archup/internal/install"
	"github.com/archup/archup/internal/logging"
	"github.com/archup/archup/internal/pkg"
	"github.com/archup/archup/internal/pkg/aur"
	"github.com/archup/archup/internal/pkg/flatpak"
	"github.com/archup/archup/internal/pkg/pacman"
	"github.com/archup/archup/internal/privilege"
	"github.com/archup/archup/internal/report"
	"github.com/archup/archup/internal/resume"
	"github.com/archup/archup/internal/state"
	"github.com/archup/archup/internal/steps"
	"github.com/archup/archup/internal/term"
	"github.com/archup/archup/internal/ui"
)

// CLI encapsulates the command-line interface for archup.
type CLI struct {
	parser  *cli.Parser
	config  *config.Config
	console *term.Console
}

// NewCLI creates a new CLI instance.
func NewCLI() *CLI {
	return &CLI{
		parser:  cli.NewParser(constants.AppName, Version, BuildTime, GitCommit),
		console: term.NewConsole(),
	}
}

// Run parses arguments and executes the appropriate command.
// It returns an exit code suitable for os.Exit().
func (c *CLI) Run(args []string) int {
	result, err := c.parser.Parse(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Run '%s help' for usage.\n", constants.AppName)
		return constants.ExitFailure.Int()
	}

	if err := c.loadConfig(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return constants.ExitFailure.Int()
	}

	if result.ShowHelp {
		return c.showHelp(result)
	}

	switch result.Command {
	case cli.CommandVersion:
		fmt.Print(c.parser.VersionString())
		return constants.ExitSuccess.Int()
	case cli.CommandStatus:
		return c.cmdStatus()
	case cli.CommandReset:
		return c.cmdReset()
	case cli.CommandInstall:
		return c.cmdInstall()
	default:
		fmt.Print(c.parser.Usage())
		return constants.ExitSuccess.Int()
	}
}

// loadConfig loads the configuration, overlays the parsed flags, and
// validates the result.
func (c *CLI) loadConfig(result *cli.ParseResult) error {
	configPath := result.GlobalFlags.ConfigFile
	if configPath == "" {
		configPath = config.DefaultConfig().ConfigPath()
	}

	cfg, err := config.NewLoader(configPath).Load()
	if err != nil {
		return err
	}

	result.ApplyTo(cfg)

	if err := config.NewValidator().ValidateOrError(cfg); err != nil {
		return err
	}

	c.config = cfg
	return nil
}

// showHelp displays help information and returns an exit code.
func (c *CLI) showHelp(result *cli.ParseResult) int {
	if result.HelpCommand != "" {
		fmt.Print(c.parser.CommandUsage(result.HelpCommand))
	} else {
		fmt.Print(c.parser.Usage())
	}
	return constants.ExitSuccess.Int()
}

// cmdStatus prints the journal-derived view of the previous run.
func (c *CLI) cmdStatus() int {
	journal := state.NewJournal(c.config.StatePath())
	rs := journal.Load()

	if rs.IsEmpty() {
		c.console.Info("no previous run recorded")
		return constants.ExitSuccess.Int()
	}

	// Latest outcome per step, in first-recorded order.
	var order []string
	seen := make(map[string]bool)
	for _, e := range rs.Entries {
		if !seen[e.Step] {
			seen[e.Step] = true
			order = append(order, e.Step)
		}
	}

	completed := rs.CompletedSet()
	c.console.Print("Previous run (" + journal.Path() + "):")
	for _, name := range order {
		if completed[name] {
			c.console.Success(name)
		} else {
			c.console.Error(name)
		}
	}
	return constants.ExitSuccess.Int()
}

// cmdReset clears the run-state journal after confirmation.
func (c *CLI) cmdReset() int {
	journal := state.NewJournal(c.config.StatePath())

	if journal.Load().IsEmpty() {
		c.console.Info("journal is already empty")
		return constants.ExitSuccess.Int()
	}

	if !c.config.AssumeYes {
		if !c.console.Confirm("Clear the run-state journal? The next install starts over", false) {
			c.console.Info("reset cancelled")
			return constants.ExitSuccess.Int()
		}
	}

	if err := journal.Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return constants.ExitFailure.Int()
	}

	c.console.Success("journal cleared")
	return constants.ExitSuccess.Int()
}

// cmdInstall runs the post-install pipeline.
func (c *CLI) cmdInstall() int {
	cfg := c.config

	logger, err := c.buildLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return constants.ExitFailure.Int()
	}

	if _, err := distro.NewDetector(nil).RequireArch(); err != nil {
		if cfg.DryRun {
			c.console.Warning("not an Arch system, continuing because of --dry-run")
		} else {
			c.console.Error("archup only supports Arch Linux and derivatives")
			return constants.ExitFailure.Int()
		}
	}

	priv := privilege.NewManager()
	if !cfg.DryRun {
		if err := priv.RequireElevation(); err != nil {
			c.console.Error("root privileges required: install sudo or doas, or run as root")
			return constants.ExitFailure.Int()
		}
	}

	executor := exec.NewExecutor(exec.Options{
		Timeout:     cfg.CommandTimeout,
		SanitizeEnv: true,
	}, priv)

	journal := state.NewJournal(cfg.StatePath())
	prompter := c.buildPrompter()

	directive := resume.NewEngine(prompter, logger).Decide(journal.Load())
	if directive == resume.Cancelled {
		c.console.Warning("cancelled, nothing was changed")
		return constants.ExitSuccess.Int()
	}

	reporter := report.NewAggregator()
	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ictx := install.NewContext(
		install.WithMode(cfg.InstallMode()),
		install.WithDryRun(cfg.DryRun),
		install.WithExecutor(executor),
		install.WithPacman(pacman.NewManager(executor)),
		install.WithAUR(c.buildAUR(executor)),
		install.WithFlatpak(flatpak.NewManager(executor)),
		install.WithPrivilege(priv),
		install.WithLogger(logger),
		install.WithReporter(reporter),
		install.WithParentContext(signalCtx),
	)
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
		ictx.SetState("sudo_user", sudoUser)
	}

	pipeline := steps.NewBuilder(cfg).Build()

	c.console.Header(constants.AppName + " " + Version)
	c.console.Info(fmt.Sprintf("profile %q, %d steps, journal %s",
		cfg.Mode, len(pipeline), journal.Path()))
	if cfg.DryRun {
		c.console.Warning("dry run, no changes will be made")
	}

	orch := install.NewOrchestrator(pipeline, journal,
		install.WithPrompter(prompter),
		install.WithEstimator(install.NewEstimator()),
		install.WithOrchestratorLogger(logger),
		install.WithProgress(func(p install.Progress) {
			if !cfg.IsSilent() {
				c.console.StepLine(p)
			}
		}),
	)

	result := orch.Run(ictx, directive)
	c.console.Summary(result, reporter.All())
	logRunSummary(logger, result, journal.Load(), reporter.All())

	if result.Status == install.RunAborted {
		return constants.ExitFailure.Int()
	}
	return constants.ExitSuccess.Int()
}

// logRunSummary records the final outcome in the run log: the overall
// status, the full journal contents, and every aggregated problem. The
// console summary goes only to stdout, so this is what makes the log file
// a complete record of the run.
func logRunSummary(logger logging.Logger, result install.RunResult, rs *state.RunState, problems []string) {
	logger.Info("run finished",
		"status", result.Status.String(),
		"executed", len(result.Executed),
		"completed", len(result.Completed),
		"failed", len(result.Failed),
		"skipped", len(result.Skipped),
		"duration", result.Duration.String())
	if result.AbortedAt != "" {
		logger.Info("aborted at step", "step", result.AbortedAt)
	}
	for _, entry := range rs.Entries {
		logger.Info("journal entry", "step", entry.Step, "status", entry.Status.String())
	}
	for _, msg := range problems {
		logger.Warn("problem", "message", msg)
	}
}

// buildLogger combines a console logger with the file log. Quiet mode keeps
// only the file.
func (c *CLI) buildLogger() (logging.Logger, error) {
	cfg := c.config
	level := logging.ParseLevel(cfg.LogLevel)
	if cfg.IsVerbose() {
		level = logging.LevelDebug
	}

	fileLogger, err := logging.NewFileLogger(cfg.LogPath(), level)
	if err != nil {
		return nil, err
	}
	if cfg.IsSilent() {
		return fileLogger, nil
	}

	opts := logging.DefaultOptions()
	opts.Level = level
	opts.NoColor = cfg.NoColor
	return logging.NewMultiLogger(logging.New(opts), fileLogger), nil
}

// buildPrompter picks the interaction surface: the Bubble Tea menus on an
// interactive terminal, default answers otherwise.
func (c *CLI) buildPrompter() resume.Prompter {
	if c.config.AssumeYes || !term.IsInteractive() {
		return resume.DefaultAnswers{}
	}
	return ui.NewMenuPrompter(ui.WithStyles(ui.DefaultStyles(c.config.NoColor)))
}

// buildAUR returns the AUR backend, honoring an explicitly configured
// helper. It returns nil only for an unknown helper name, which validation
// already rejects.
func (c *CLI) buildAUR(executor exec.Executor) pkg.Manager {
	if c.config.AURHelper != "" {
		return aur.NewManagerWithHelper(executor, c.config.AURHelper)
	}
	return aur.NewManager(executor)
}
