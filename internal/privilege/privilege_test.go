package privilege

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMethod_String(t *testing.T) {
	assert.Equal(t, "sudo", MethodSudo.String())
	assert.Equal(t, "doas", MethodDoas.String())
	assert.Equal(t, "none", MethodNone.String())
}

func TestElevatedCommand(t *testing.T) {
	t.Run("root runs commands unchanged", func(t *testing.T) {
		m := &Manager{}
		m.SetRoot(true)
		m.SetTool(MethodSudo, "/usr/bin/sudo")

		cmd, args := m.ElevatedCommand("pacman", "-Syu")
		assert.Equal(t, "pacman", cmd)
		assert.Equal(t, []string{"-Syu"}, args)
	})

	t.Run("sudo prepends the tool", func(t *testing.T) {
		m := &Manager{}
		m.SetTool(MethodSudo, "/usr/bin/sudo")

		cmd, args := m.ElevatedCommand("pacman", "-S", "git")
		assert.Equal(t, "/usr/bin/sudo", cmd)
		assert.Equal(t, []string{"pacman", "-S", "git"}, args)
	})

	t.Run("doas prepends the tool", func(t *testing.T) {
		m := &Manager{}
		m.SetTool(MethodDoas, "/usr/bin/doas")

		cmd, args := m.ElevatedCommand("systemctl", "enable", "ufw")
		assert.Equal(t, "/usr/bin/doas", cmd)
		assert.Equal(t, []string{"systemctl", "enable", "ufw"}, args)
	})

	t.Run("no tool leaves command alone", func(t *testing.T) {
		m := &Manager{}

		cmd, args := m.ElevatedCommand("pacman", "-S", "git")
		assert.Equal(t, "pacman", cmd)
		assert.Equal(t, []string{"-S", "git"}, args)
	})
}

func TestCanElevate(t *testing.T) {
	m := &Manager{}
	assert.False(t, m.CanElevate())
	assert.Error(t, m.RequireElevation())

	m.SetTool(MethodSudo, "/usr/bin/sudo")
	assert.True(t, m.CanElevate())
	assert.NoError(t, m.RequireElevation())

	m2 := &Manager{}
	m2.SetRoot(true)
	assert.True(t, m2.CanElevate())
	assert.NoError(t, m2.RequireElevation())
}

func TestSanitizedEnv(t *testing.T) {
	t.Setenv("LD_PRELOAD", "/tmp/evil.so")
	t.Setenv("HOME", "/root")

	m := &Manager{}
	env := m.SanitizedEnv()

	var sawPath, sawHome bool
	for _, e := range env {
		assert.False(t, strings.HasPrefix(e, "LD_PRELOAD="), "LD_PRELOAD must be stripped")
		if strings.HasPrefix(e, "PATH=") {
			sawPath = true
			assert.Equal(t, "PATH="+safePath, e)
		}
		if e == "HOME=/root" {
			sawHome = true
		}
	}
	assert.True(t, sawPath)
	assert.True(t, sawHome)
}
