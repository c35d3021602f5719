package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"nonsense", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "warn", LevelWarn.String())
	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "unknown", Level(42).String())
}

func TestLogger_Output(t *testing.T) {
	t.Run("writes messages at or above level", func(t *testing.T) {
		var buf bytes.Buffer
		opts := DefaultOptions()
		opts.Output = &buf
		opts.Level = LevelInfo
		opts.NoColor = true
		opts.ReportTimestamp = false

		l := New(opts)
		l.Debug("hidden")
		l.Info("step started", "step", "mirrors")
		l.Warn("step failed but recoverable")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "step started")
		assert.Contains(t, out, "mirrors")
		assert.Contains(t, out, "recoverable")
	})

	t.Run("SetLevel raises the threshold", func(t *testing.T) {
		var buf bytes.Buffer
		opts := DefaultOptions()
		opts.Output = &buf
		opts.NoColor = true
		opts.ReportTimestamp = false

		l := New(opts)
		l.SetLevel(LevelError)
		l.Info("quiet now")
		l.Error("boom")

		assert.NotContains(t, buf.String(), "quiet now")
		assert.Contains(t, buf.String(), "boom")
		assert.Equal(t, LevelError, l.GetLevel())
	})

	t.Run("WithPrefix tags messages", func(t *testing.T) {
		var buf bytes.Buffer
		opts := DefaultOptions()
		opts.Output = &buf
		opts.NoColor = true
		opts.ReportTimestamp = false

		l := New(opts).WithPrefix("orchestrator")
		l.Info("running")

		assert.Contains(t, buf.String(), "orchestrator")
	})
}

func TestNewFileLogger(t *testing.T) {
	t.Run("creates and appends", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "archup.log")

		l, err := NewFileLogger(path, LevelDebug)
		require.NoError(t, err)
		l.Info("first run")

		l2, err := NewFileLogger(path, LevelDebug)
		require.NoError(t, err)
		l2.Info("second run")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "first run")
		assert.Contains(t, string(data), "second run")
	})

	t.Run("fails on unwritable path", func(t *testing.T) {
		_, err := NewFileLogger(filepath.Join(t.TempDir(), "missing", "archup.log"), LevelInfo)
		assert.Error(t, err)
	})
}

func TestNewMultiLogger(t *testing.T) {
	var a, b bytes.Buffer

	optsA := DefaultOptions()
	optsA.Output = &a
	optsA.NoColor = true
	optsA.ReportTimestamp = false

	optsB := DefaultOptions()
	optsB.Output = &b
	optsB.NoColor = true
	optsB.ReportTimestamp = false

	l := NewMultiLogger(New(optsA), New(optsB))
	l.Warn("both sides")

	assert.Contains(t, a.String(), "both sides")
	assert.Contains(t, b.String(), "both sides")
}

func TestNopLogger(t *testing.T) {
	l := NewNop()

	// Must not panic and must absorb everything.
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
	l.SetLevel(LevelError)

	assert.Equal(t, LevelInfo, l.GetLevel())
	assert.Equal(t, l, l.WithPrefix("p"))
}
