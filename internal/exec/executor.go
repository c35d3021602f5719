package exec

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"time"

	"github.com/archup/archup/internal/constants"
	"github.com/archup/archup/internal/errors"
	"github.com/archup/archup/internal/privilege"
)

// Executor is the command execution interface. Implementations must be safe
// for concurrent use.
type Executor interface {
	// Execute runs a command and captures its output.
	Execute(ctx context.Context, cmd string, args ...string) *Result

	// ExecuteElevated runs a command as root.
	ExecuteElevated(ctx context.Context, cmd string, args ...string) *Result

	// Stream runs a command, mirroring output to the given writers while
	// still capturing it in the Result. Nil writers are allowed.
	Stream(ctx context.Context, stdout, stderr io.Writer, cmd string, args ...string) *Result

	// StreamElevated is Stream with root privileges.
	StreamElevated(ctx context.Context, stdout, stderr io.Writer, cmd string, args ...string) *Result
}

// Options configures a RealExecutor.
type Options struct {
	Timeout     time.Duration // per-command timeout, 0 disables it
	WorkDir     string
	Env         []string
	SanitizeEnv bool // strip dangerous variables before running
}

// DefaultOptions returns the executor defaults used by the installer.
func DefaultOptions() Options {
	return Options{
		Timeout:     constants.CommandTimeout,
		SanitizeEnv: true,
	}
}

// RealExecutor runs actual system commands, elevating through the privilege
// manager when asked.
type RealExecutor struct {
	opts Options
	priv *privilege.Manager
}

// NewExecutor creates an executor. A nil privilege manager means elevated
// calls run the command as-is.
func NewExecutor(opts Options, priv *privilege.Manager) *RealExecutor {
	return &RealExecutor{opts: opts, priv: priv}
}

// Execute implements Executor.
func (e *RealExecutor) Execute(ctx context.Context, cmd string, args ...string) *Result {
	return e.run(ctx, nil, nil, cmd, args, false)
}

// ExecuteElevated implements Executor.
func (e *RealExecutor) ExecuteElevated(ctx context.Context, cmd string, args ...string) *Result {
	return e.run(ctx, nil, nil, cmd, args, true)
}

// Stream implements Executor.
func (e *RealExecutor) Stream(ctx context.Context, stdout, stderr io.Writer, cmd string, args ...string) *Result {
	return e.run(ctx, stdout, stderr, cmd, args, false)
}

// StreamElevated implements Executor.
func (e *RealExecutor) StreamElevated(ctx context.Context, stdout, stderr io.Writer, cmd string, args ...string) *Result {
	return e.run(ctx, stdout, stderr, cmd, args, true)
}

func (e *RealExecutor) run(ctx context.Context, stdout, stderr io.Writer, cmd string, args []string, elevated bool) *Result {
	result := &Result{Command: cmd, Args: args}
	start := time.Now()

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	execCmd, execArgs := cmd, args
	if elevated && e.priv != nil {
		execCmd, execArgs = e.priv.ElevatedCommand(cmd, args...)
	}

	c := exec.CommandContext(ctx, execCmd, execArgs...)
	if e.opts.WorkDir != "" {
		c.Dir = e.opts.WorkDir
	}
	if e.opts.SanitizeEnv && e.priv != nil {
		c.Env = e.priv.SanitizedEnv()
	} else if len(e.opts.Env) > 0 {
		c.Env = e.opts.Env
	}

	var outBuf, errBuf bytes.Buffer
	c.Stdout = &outBuf
	c.Stderr = &errBuf
	if stdout != nil {
		c.Stdout = io.MultiWriter(stdout, &outBuf)
	}
	if stderr != nil {
		c.Stderr = io.MultiWriter(stderr, &errBuf)
	}

	err := c.Run()

	result.Duration = time.Since(start)
	result.Stdout = outBuf.Bytes()
	result.Stderr = errBuf.Bytes()

	if err != nil {
		// Context errors win over exit errors: the process may have been
		// killed because of the deadline, not on its own account.
		switch {
		case ctx.Err() == context.DeadlineExceeded:
			result.Error = errors.Wrap(errors.Timeout, cmd+" timed out", err)
			result.ExitCode = -1
		case ctx.Err() == context.Canceled:
			result.Error = errors.Wrap(errors.Execution, cmd+" cancelled", err)
			result.ExitCode = -1
		default:
			if exitErr, ok := err.(*exec.ExitError); ok {
				result.ExitCode = exitErr.ExitCode()
			} else {
				result.Error = errors.Wrap(errors.Execution, "cannot run "+cmd, err)
				result.ExitCode = -1
			}
		}
	}

	return result
}

// Ensure RealExecutor implements Executor.
var _ Executor = (*RealExecutor)(nil)
