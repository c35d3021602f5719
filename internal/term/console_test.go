package term

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/archup/archup/internal/install"
)

func newTestConsole(input string) (*Console, *bytes.Buffer) {
	out := &bytes.Buffer{}
	c := NewConsole(
		WithReader(strings.NewReader(input)),
		WithWriter(out),
		WithWidth(40),
	)
	return c, out
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       bool
	}{
		{"yes", "y\n", false, true},
		{"yes word", "yes\n", false, true},
		{"no", "n\n", true, false},
		{"empty takes default yes", "\n", true, true},
		{"empty takes default no", "\n", false, false},
		{"garbage then yes", "maybe\ny\n", false, true},
		{"eof takes default", "", true, true},
		{"mixed case", "YES\n", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestConsole(tt.input)
			assert.Equal(t, tt.want, c.Confirm("Continue?", tt.defaultYes))
		})
	}

	t.Run("reprompts on garbage", func(t *testing.T) {
		c, out := newTestConsole("what\nn\n")
		assert.False(t, c.Confirm("Continue?", true))
		assert.Contains(t, out.String(), "Please enter 'y' or 'n'")
	})
}

func TestChoose(t *testing.T) {
	options := []string{"Resume", "Start over", "Cancel"}

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"first option", "1\n", 0},
		{"last option", "3\n", 2},
		{"empty takes default", "\n", 0},
		{"eof takes default", "", 0},
		{"out of range reprompts", "9\n2\n", 1},
		{"non-numeric reprompts", "two\n2\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestConsole(tt.input)
			assert.Equal(t, tt.want, c.Choose("Pick one:", options, 0))
		})
	}

	t.Run("default marker shown", func(t *testing.T) {
		c, out := newTestConsole("\n")
		assert.Equal(t, 1, c.Choose("Pick one:", options, 1))
		assert.Contains(t, out.String(), " * 2) Start over")
	})

	t.Run("empty options", func(t *testing.T) {
		c, _ := newTestConsole("")
		assert.Equal(t, -1, c.Choose("Pick one:", nil, 0))
	})

	t.Run("out of range default clamps to zero", func(t *testing.T) {
		c, _ := newTestConsole("\n")
		assert.Equal(t, 0, c.Choose("Pick one:", options, 7))
	})
}

func TestStepLine(t *testing.T) {
	t.Run("completed with estimate", func(t *testing.T) {
		c, out := newTestConsole("")
		c.StepLine(install.Progress{
			StepName:   "packages",
			StepIndex:  2,
			TotalSteps: 5,
			Status:     install.StepCompleted,
			Remaining:  90 * time.Second,
		})
		assert.Contains(t, out.String(), "[2/5] [OK] packages (~1m30s left)")
	})

	t.Run("failed with message", func(t *testing.T) {
		c, out := newTestConsole("")
		c.StepLine(install.Progress{
			StepName:   "mirrors",
			StepIndex:  1,
			TotalSteps: 5,
			Status:     install.StepFailed,
			Message:    "reflector not found",
		})
		assert.Contains(t, out.String(), "[1/5] [FAIL] mirrors: reflector not found")
	})

	t.Run("skipped", func(t *testing.T) {
		c, out := newTestConsole("")
		c.StepLine(install.Progress{
			StepName:   "flatpak-apps",
			StepIndex:  4,
			TotalSteps: 5,
			Status:     install.StepSkipped,
		})
		assert.Contains(t, out.String(), "[SKIP] flatpak-apps")
	})
}

func TestSummary(t *testing.T) {
	t.Run("clean success", func(t *testing.T) {
		c, out := newTestConsole("")
		c.Summary(install.RunResult{
			Status:   install.RunCompleted,
			Executed: []string{"a", "b"},
			Duration: 75 * time.Second,
		}, nil)

		s := out.String()
		assert.Contains(t, s, "[OK] Installation completed successfully")
		assert.Contains(t, s, "steps run: 2, failed: 0, skipped: 0, elapsed: 1m15s")
	})

	t.Run("completed with warnings", func(t *testing.T) {
		c, out := newTestConsole("")
		c.Summary(install.RunResult{
			Status:   install.RunCompletedWithErrors,
			Executed: []string{"a", "b"},
			Failed:   []string{"b"},
		}, []string{"step \"b\" failed: no network"})

		s := out.String()
		assert.Contains(t, s, "[!] Installation finished with warnings")
		assert.Contains(t, s, "Problems encountered:")
		assert.Contains(t, s, "* step \"b\" failed: no network")
	})

	t.Run("aborted names the step", func(t *testing.T) {
		c, out := newTestConsole("")
		c.Summary(install.RunResult{
			Status:    install.RunAborted,
			AbortedAt: "bootloader",
		}, []string{"step \"bootloader\" failed"})

		assert.Contains(t, out.String(), `aborted at step "bootloader"`)
	})

	t.Run("cancelled", func(t *testing.T) {
		c, out := newTestConsole("")
		c.Summary(install.RunResult{Status: install.RunCancelled}, nil)
		assert.Contains(t, out.String(), "[!] Installation cancelled")
	})
}

func TestHeaderAndSymbols(t *testing.T) {
	c, out := newTestConsole("")
	c.Header("archup")

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, strings.Repeat("-", 40), lines[0])
	assert.Contains(t, lines[1], "archup")
	assert.Equal(t, strings.Repeat("-", 40), lines[2])

	out.Reset()
	c.Info("checking")
	c.Warning("careful")
	c.Error("broken")
	c.Success("done")

	s := out.String()
	assert.Contains(t, s, "[i] checking")
	assert.Contains(t, s, "[!] careful")
	assert.Contains(t, s, "[FAIL] broken")
	assert.Contains(t, s, "[OK] done")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45s", formatDuration(45*time.Second))
	assert.Equal(t, "2m", formatDuration(2*time.Minute))
	assert.Equal(t, "1m30s", formatDuration(90*time.Second))
	assert.Equal(t, "0s", formatDuration(300*time.Millisecond))
}
