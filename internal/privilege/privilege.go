// Package privilege handles privilege elevation for commands that must run
// as root. Arch systems ship either sudo or doas; the manager detects which
// one is present and sanitizes the environment passed to elevated commands.
package privilege

import (
	"os"
	"os/exec"
	"os/user"
	"strings"

	"github.com/archup/archup/internal/errors"
)

// Method represents how privileges are elevated.
type Method int

const (
	// MethodNone indicates no elevation tool is available.
	MethodNone Method = iota
	// MethodSudo elevates through sudo.
	MethodSudo
	// MethodDoas elevates through doas.
	MethodDoas
)

// String returns the string representation of the method.
func (m Method) String() string {
	switch m {
	case MethodSudo:
		return "sudo"
	case MethodDoas:
		return "doas"
	default:
		return "none"
	}
}

// Manager detects and applies privilege elevation.
type Manager struct {
	method      Method
	toolPath    string
	isRoot      bool
	currentUser *user.User
}

// NewManager creates a manager that detects the current user's privileges
// and the available elevation tool.
func NewManager() *Manager {
	m := &Manager{}
	m.isRoot = os.Geteuid() == 0
	m.currentUser, _ = user.Current()
	m.detectTool()
	return m
}

// IsRoot reports whether the process runs as root.
func (m *Manager) IsRoot() bool {
	return m.isRoot
}

// CurrentUser returns the current user, or nil if lookup failed.
func (m *Manager) CurrentUser() *user.User {
	return m.currentUser
}

// Method returns the detected elevation method.
func (m *Manager) Method() Method {
	return m.method
}

// CanElevate reports whether elevated commands can run at all.
func (m *Manager) CanElevate() bool {
	return m.isRoot || m.method != MethodNone
}

// RequireElevation returns an error when elevated commands cannot run.
func (m *Manager) RequireElevation() error {
	if m.CanElevate() {
		return nil
	}
	return errors.New(errors.Permission,
		"root privileges required but neither sudo nor doas is available")
}

// ElevatedCommand rewrites a command so it runs as root. Running as root
// already, the command is returned unchanged.
func (m *Manager) ElevatedCommand(cmd string, args ...string) (string, []string) {
	if m.isRoot {
		return cmd, args
	}

	switch m.method {
	case MethodSudo:
		return m.toolPath, append([]string{cmd}, args...)
	case MethodDoas:
		return m.toolPath, append([]string{cmd}, args...)
	default:
		return cmd, args
	}
}

// dangerousEnvVars must never reach an elevated child process.
var dangerousEnvVars = map[string]bool{
	"LD_PRELOAD":       true,
	"LD_LIBRARY_PATH":  true,
	"LD_AUDIT":         true,
	"LD_PROFILE":       true,
	"LD_DEBUG":         true,
	"GCONV_PATH":       true,
	"HOSTALIASES":      true,
	"LOCPATH":          true,
	"NLSPATH":          true,
	"RESOLV_HOST_CONF": true,
	"RES_OPTIONS":      true,
	"TMPDIR":           true,
}

const safePath = "/usr/local/sbin:/usr/local/bin:/usr/bin:/usr/sbin:/sbin:/bin"

// SanitizedEnv returns the current environment with dangerous variables
// stripped and PATH replaced by a fixed safe value.
func (m *Manager) SanitizedEnv() []string {
	var env []string
	for _, e := range os.Environ() {
		name, _, ok := strings.Cut(e, "=")
		if !ok || dangerousEnvVars[name] || name == "PATH" {
			continue
		}
		env = append(env, e)
	}
	return append(env, "PATH="+safePath)
}

func (m *Manager) detectTool() {
	if path, err := exec.LookPath("sudo"); err == nil {
		m.toolPath = path
		m.method = MethodSudo
		return
	}
	if path, err := exec.LookPath("doas"); err == nil {
		m.toolPath = path
		m.method = MethodDoas
		return
	}
	m.method = MethodNone
}

// SetRoot overrides the detected root status. Test helper.
func (m *Manager) SetRoot(isRoot bool) {
	m.isRoot = isRoot
}

// SetTool overrides the detected elevation tool. Test helper.
func (m *Manager) SetTool(method Method, path string) {
	m.method = method
	m.toolPath = path
}
