package install

import (
	"context"
	"sync"

	"github.com/archup/archup/internal/constants"
	"github.com/archup/archup/internal/exec"
	"github.com/archup/archup/internal/logging"
	"github.com/archup/archup/internal/pkg"
	"github.com/archup/archup/internal/privilege"
	"github.com/archup/archup/internal/report"
)

// Context carries everything a step needs: the install mode, the package
// backends, the executor, logging, and the error aggregator. One Context is
// built per run; there is no process-wide shared state.
type Context struct {
	// Mode is the install profile for this run.
	Mode constants.Mode

	// DryRun makes steps describe what they would do without mutating
	// the system.
	DryRun bool

	// Executor runs external commands.
	Executor exec.Executor

	// Pacman is the official-repository backend.
	Pacman pkg.Manager

	// AUR is the AUR helper backend, nil when none is configured.
	AUR pkg.Manager

	// Flatpak is the Flatpak backend, nil when none is configured.
	Flatpak pkg.Manager

	// Privilege handles elevation for commands that need root.
	Privilege *privilege.Manager

	// Logger receives step-level logging.
	Logger logging.Logger

	// Reporter aggregates error messages for the final summary.
	Reporter *report.Aggregator

	ctx    context.Context
	cancel context.CancelFunc

	// Shared state for steps to pass data forward.
	state   map[string]interface{}
	stateMu sync.RWMutex
}

// ContextOption is a functional option for Context.
type ContextOption func(*Context)

// WithMode sets the install mode.
func WithMode(mode constants.Mode) ContextOption {
	return func(c *Context) { c.Mode = mode }
}

// WithDryRun sets dry-run mode.
func WithDryRun(dryRun bool) ContextOption {
	return func(c *Context) { c.DryRun = dryRun }
}

// WithExecutor sets the command executor.
func WithExecutor(executor exec.Executor) ContextOption {
	return func(c *Context) { c.Executor = executor }
}

// WithPacman sets the official-repository backend.
func WithPacman(m pkg.Manager) ContextOption {
	return func(c *Context) { c.Pacman = m }
}

// WithAUR sets the AUR backend.
func WithAUR(m pkg.Manager) ContextOption {
	return func(c *Context) { c.AUR = m }
}

// WithFlatpak sets the Flatpak backend.
func WithFlatpak(m pkg.Manager) ContextOption {
	return func(c *Context) { c.Flatpak = m }
}

// WithPrivilege sets the privilege manager.
func WithPrivilege(priv *privilege.Manager) ContextOption {
	return func(c *Context) { c.Privilege = priv }
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) ContextOption {
	return func(c *Context) { c.Logger = logger }
}

// WithReporter sets the error aggregator.
func WithReporter(r *report.Aggregator) ContextOption {
	return func(c *Context) { c.Reporter = r }
}

// WithParentContext derives cancellation from a parent context.
func WithParentContext(parent context.Context) ContextOption {
	return func(c *Context) {
		if c.cancel != nil {
			c.cancel()
		}
		c.ctx, c.cancel = context.WithCancel(parent)
	}
}

// NewContext creates a run context. Logger and Reporter default to a no-op
// logger and a fresh aggregator so steps never need nil checks.
func NewContext(opts ...ContextOption) *Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Context{
		Mode:   constants.ModeStandard,
		ctx:    ctx,
		cancel: cancel,
		state:  make(map[string]interface{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Logger == nil {
		c.Logger = logging.NewNop()
	}
	if c.Reporter == nil {
		c.Reporter = report.NewAggregator()
	}
	return c
}

// Context returns the underlying context.Context for cancellation.
func (c *Context) Context() context.Context {
	return c.ctx
}

// Cancel signals all operations to stop.
func (c *Context) Cancel() {
	if c.cancel != nil {
		c.cancel()
	}
}

// IsCancelled reports whether the run has been cancelled.
func (c *Context) IsCancelled() bool {
	select {
	case <-c.ctx.Done():
		return true
	default:
		return false
	}
}

// Report pushes an error message into the aggregator.
func (c *Context) Report(message string) {
	c.Reporter.Report(message)
}

// Reportf pushes a formatted error message into the aggregator.
func (c *Context) Reportf(format string, args ...interface{}) {
	c.Reporter.Reportf(format, args...)
}

// SetState stores a value for later steps.
func (c *Context) SetState(key string, value interface{}) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	c.state[key] = value
}

// GetState retrieves a stored value.
func (c *Context) GetState(key string) (interface{}, bool) {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	value, ok := c.state[key]
	return value, ok
}

// GetStateString retrieves a string value, or "" when absent.
func (c *Context) GetStateString(key string) string {
	value, ok := c.GetState(key)
	if !ok {
		return ""
	}
	s, _ := value.(string)
	return s
}

// GetStateBool retrieves a bool value, or false when absent.
func (c *Context) GetStateBool(key string) bool {
	value, ok := c.GetState(key)
	if !ok {
		return false
	}
	b, _ := value.(bool)
	return b
}

// GetStateSlice retrieves a string slice value, or nil when absent.
func (c *Context) GetStateSlice(key string) []string {
	value, ok := c.GetState(key)
	if !ok {
		return nil
	}
	s, _ := value.([]string)
	return s
}
