// Package exec runs external commands behind a mockable interface. Every
// step that touches the system goes through an Executor so tests can script
// command outcomes without a real Arch system.
package exec

import (
	"strings"
	"time"
)

// Result holds everything observed about one command invocation.
type Result struct {
	Command  string
	Args     []string
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
	Error    error // set when the command could not run or timed out
}

// Success reports whether the command ran and exited zero.
func (r *Result) Success() bool {
	return r.ExitCode == 0 && r.Error == nil
}

// Failed reports whether the command failed in any way.
func (r *Result) Failed() bool {
	return !r.Success()
}

// StdoutString returns stdout as a string.
func (r *Result) StdoutString() string {
	return string(r.Stdout)
}

// StderrString returns stderr as a string.
func (r *Result) StderrString() string {
	return string(r.Stderr)
}

// StdoutLines returns non-empty stdout split into trimmed lines.
func (r *Result) StdoutLines() []string {
	trimmed := strings.TrimSpace(string(r.Stdout))
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "\n")
}

// CombinedString returns stdout followed by stderr.
func (r *Result) CombinedString() string {
	return string(r.Stdout) + string(r.Stderr)
}
