package exec

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"
)

// MockExecutor records calls and plays back scripted results. Responses are
// keyed by command name, or by "command arg1 arg2..." for per-invocation
// scripting. Safe for concurrent use.
type MockExecutor struct {
	mu            sync.Mutex
	responses     map[string]*Result
	calls         []MockCall
	defaultResult *Result
}

// MockCall is one recorded invocation.
type MockCall struct {
	Command  string
	Args     []string
	Elevated bool
}

// NewMockExecutor creates an empty mock.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{responses: make(map[string]*Result)}
}

// SetResponse scripts the result for a command. The key is either the bare
// command name or the full "command arg..." line; the full form wins.
func (m *MockExecutor) SetResponse(key string, result *Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[key] = result
}

// SetDefaultResponse scripts the result for unmatched commands.
func (m *MockExecutor) SetDefaultResponse(result *Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultResult = result
}

// Calls returns a copy of the recorded calls.
func (m *MockExecutor) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall{}, m.calls...)
}

// CallCount returns the number of recorded calls.
func (m *MockExecutor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// WasCalled reports whether cmd was invoked at least once.
func (m *MockExecutor) WasCalled(cmd string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, call := range m.calls {
		if call.Command == cmd {
			return true
		}
	}
	return false
}

// WasCalledWith reports whether cmd was invoked with exactly these args.
func (m *MockExecutor) WasCalledWith(cmd string, args ...string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, call := range m.calls {
		if call.Command == cmd && equalArgs(call.Args, args) {
			return true
		}
	}
	return false
}

// Reset clears recorded calls but keeps scripted responses.
func (m *MockExecutor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

func equalArgs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Execute implements Executor.
func (m *MockExecutor) Execute(_ context.Context, cmd string, args ...string) *Result {
	return m.record(cmd, args, false)
}

// ExecuteElevated implements Executor.
func (m *MockExecutor) ExecuteElevated(_ context.Context, cmd string, args ...string) *Result {
	return m.record(cmd, args, true)
}

// Stream implements Executor.
func (m *MockExecutor) Stream(_ context.Context, stdout, stderr io.Writer, cmd string, args ...string) *Result {
	result := m.record(cmd, args, false)
	mirror(result, stdout, stderr)
	return result
}

// StreamElevated implements Executor.
func (m *MockExecutor) StreamElevated(_ context.Context, stdout, stderr io.Writer, cmd string, args ...string) *Result {
	result := m.record(cmd, args, true)
	mirror(result, stdout, stderr)
	return result
}

func mirror(result *Result, stdout, stderr io.Writer) {
	if stdout != nil && len(result.Stdout) > 0 {
		stdout.Write(result.Stdout)
	}
	if stderr != nil && len(result.Stderr) > 0 {
		stderr.Write(result.Stderr)
	}
}

func (m *MockExecutor) record(cmd string, args []string, elevated bool) *Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{Command: cmd, Args: args, Elevated: elevated})

	scripted := m.responses[strings.TrimSpace(cmd+" "+strings.Join(args, " "))]
	if scripted == nil {
		scripted = m.responses[cmd]
	}
	if scripted == nil {
		scripted = m.defaultResult
	}
	if scripted == nil {
		return &Result{Command: cmd, Args: args, ExitCode: 0}
	}

	return &Result{
		Command:  cmd,
		Args:     args,
		Stdout:   scripted.Stdout,
		Stderr:   scripted.Stderr,
		ExitCode: scripted.ExitCode,
		Duration: scripted.Duration,
		Error:    scripted.Error,
	}
}

// SuccessResult builds a zero-exit result with the given stdout.
func SuccessResult(stdout string) *Result {
	return &Result{ExitCode: 0, Stdout: []byte(stdout)}
}

// FailureResult builds a non-zero result with the given stderr.
func FailureResult(exitCode int, stderr string) *Result {
	return &Result{ExitCode: exitCode, Stderr: []byte(stderr)}
}

// ErrorResult builds a result for a command that could not run at all.
func ErrorResult(err error) *Result {
	return &Result{ExitCode: -1, Error: err}
}

// SlowResult builds a successful result carrying a fake duration, for
// timing-related tests.
func SlowResult(stdout string, d time.Duration) *Result {
	return &Result{ExitCode: 0, Stdout: []byte(stdout), Duration: d}
}

// Ensure MockExecutor implements Executor.
var _ Executor = (*MockExecutor)(nil)
