package install

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/archup/archup/internal/constants"
	"github.com/archup/archup/internal/exec"
	"github.com/archup/archup/internal/pkg"
	"github.com/archup/archup/internal/report"
)

func TestNewContext_Defaults(t *testing.T) {
	c := NewContext()

	assert.Equal(t, constants.ModeStandard, c.Mode)
	assert.False(t, c.DryRun)
	assert.NotNil(t, c.Logger, "logger must default to no-op")
	assert.NotNil(t, c.Reporter, "reporter must default to a fresh aggregator")
	assert.False(t, c.IsCancelled())
}

func TestNewContext_Options(t *testing.T) {
	mock := exec.NewMockExecutor()
	pm := pkg.NewMockManager("pacman")
	r := report.NewAggregator()

	c := NewContext(
		WithMode(constants.ModeServer),
		WithDryRun(true),
		WithExecutor(mock),
		WithPacman(pm),
		WithReporter(r),
	)

	assert.Equal(t, constants.ModeServer, c.Mode)
	assert.True(t, c.DryRun)
	assert.Equal(t, mock, c.Executor)
	assert.Equal(t, pm, c.Pacman)

	c.Report("first problem")
	assert.Equal(t, []string{"first problem"}, r.All())
}

func TestContext_Cancellation(t *testing.T) {
	t.Run("explicit cancel", func(t *testing.T) {
		c := NewContext()
		c.Cancel()
		assert.True(t, c.IsCancelled())
	})

	t.Run("parent cancellation propagates", func(t *testing.T) {
		parent, cancel := context.WithCancel(context.Background())
		c := NewContext(WithParentContext(parent))

		assert.False(t, c.IsCancelled())
		cancel()
		assert.True(t, c.IsCancelled())
	})
}

func TestContext_State(t *testing.T) {
	c := NewContext()

	c.SetState("shell", "fish")
	c.SetState("btrfs", true)
	c.SetState("mirrors", []string{"a", "b"})

	assert.Equal(t, "fish", c.GetStateString("shell"))
	assert.True(t, c.GetStateBool("btrfs"))
	assert.Equal(t, []string{"a", "b"}, c.GetStateSlice("mirrors"))

	assert.Equal(t, "", c.GetStateString("missing"))
	assert.False(t, c.GetStateBool("missing"))
	assert.Nil(t, c.GetStateSlice("missing"))

	_, ok := c.GetState("missing")
	assert.False(t, ok)
}
