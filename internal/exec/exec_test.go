package exec

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archup/archup/internal/errors"
)

func TestResult(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := &Result{ExitCode: 0}
		assert.True(t, r.Success())
		assert.False(t, r.Failed())
	})

	t.Run("non-zero exit", func(t *testing.T) {
		r := &Result{ExitCode: 1}
		assert.False(t, r.Success())
		assert.True(t, r.Failed())
	})

	t.Run("error with zero exit", func(t *testing.T) {
		r := &Result{ExitCode: 0, Error: assert.AnError}
		assert.False(t, r.Success())
	})

	t.Run("stdout lines", func(t *testing.T) {
		r := &Result{Stdout: []byte("git\nvim\n")}
		assert.Equal(t, []string{"git", "vim"}, r.StdoutLines())

		empty := &Result{}
		assert.Empty(t, empty.StdoutLines())
	})

	t.Run("combined output", func(t *testing.T) {
		r := &Result{Stdout: []byte("out"), Stderr: []byte("err")}
		assert.Equal(t, "outerr", r.CombinedString())
	})
}

func TestRealExecutor_Execute(t *testing.T) {
	t.Run("captures stdout", func(t *testing.T) {
		e := NewExecutor(Options{}, nil)
		r := e.Execute(context.Background(), "echo", "hello")

		require.True(t, r.Success(), "stderr: %s, err: %v", r.StderrString(), r.Error)
		assert.Equal(t, "hello\n", r.StdoutString())
	})

	t.Run("non-zero exit is not an error", func(t *testing.T) {
		e := NewExecutor(Options{}, nil)
		r := e.Execute(context.Background(), "false")

		assert.NoError(t, r.Error)
		assert.NotEqual(t, 0, r.ExitCode)
	})

	t.Run("missing command yields execution error", func(t *testing.T) {
		e := NewExecutor(Options{}, nil)
		r := e.Execute(context.Background(), "archup-no-such-command-xyz")

		require.Error(t, r.Error)
		assert.Equal(t, -1, r.ExitCode)
		assert.True(t, errors.IsCode(r.Error, errors.Execution))
	})

	t.Run("timeout maps to timeout error", func(t *testing.T) {
		e := NewExecutor(Options{Timeout: 50 * time.Millisecond}, nil)
		r := e.Execute(context.Background(), "sleep", "5")

		require.Error(t, r.Error)
		assert.True(t, errors.IsCode(r.Error, errors.Timeout))
		assert.Contains(t, r.Error.Error(), "timed out")
	})
}

func TestRealExecutor_Stream(t *testing.T) {
	var out bytes.Buffer
	e := NewExecutor(Options{}, nil)

	r := e.Stream(context.Background(), &out, nil, "echo", "streamed")

	require.True(t, r.Success())
	assert.Equal(t, "streamed\n", out.String())
	assert.Equal(t, "streamed\n", r.StdoutString(), "output must also be captured")
}

func TestMockExecutor(t *testing.T) {
	t.Run("unscripted commands succeed", func(t *testing.T) {
		m := NewMockExecutor()
		r := m.Execute(context.Background(), "pacman", "-Syu")

		assert.True(t, r.Success())
		assert.Equal(t, 1, m.CallCount())
		assert.True(t, m.WasCalledWith("pacman", "-Syu"))
	})

	t.Run("scripted by command name", func(t *testing.T) {
		m := NewMockExecutor()
		m.SetResponse("pacman", FailureResult(1, "target not found"))

		r := m.Execute(context.Background(), "pacman", "-S", "nope")
		assert.True(t, r.Failed())
		assert.Equal(t, "target not found", r.StderrString())
	})

	t.Run("full invocation key wins over bare name", func(t *testing.T) {
		m := NewMockExecutor()
		m.SetResponse("pacman", SuccessResult("ok"))
		m.SetResponse("pacman -Qi git", FailureResult(1, ""))

		assert.True(t, m.Execute(context.Background(), "pacman", "-Qi", "git").Failed())
		assert.True(t, m.Execute(context.Background(), "pacman", "-Qi", "vim").Success())
	})

	t.Run("default response", func(t *testing.T) {
		m := NewMockExecutor()
		m.SetDefaultResponse(FailureResult(2, "boom"))

		assert.Equal(t, 2, m.Execute(context.Background(), "anything").ExitCode)
	})

	t.Run("records elevation", func(t *testing.T) {
		m := NewMockExecutor()
		m.ExecuteElevated(context.Background(), "pacman", "-Syu")

		calls := m.Calls()
		require.Len(t, calls, 1)
		assert.True(t, calls[0].Elevated)
	})

	t.Run("stream mirrors scripted output", func(t *testing.T) {
		m := NewMockExecutor()
		m.SetResponse("reflector", SuccessResult("mirror list"))

		var out bytes.Buffer
		r := m.Stream(context.Background(), &out, nil, "reflector")

		assert.True(t, r.Success())
		assert.Equal(t, "mirror list", out.String())
	})

	t.Run("reset keeps responses", func(t *testing.T) {
		m := NewMockExecutor()
		m.SetResponse("pacman", FailureResult(1, ""))
		m.Execute(context.Background(), "pacman")
		m.Reset()

		assert.Equal(t, 0, m.CallCount())
		assert.True(t, m.Execute(context.Background(), "pacman").Failed())
	})
}
