// Package steps contains the concrete post-install work units. Each step
// implements install.Step; the Builder assembles them into the fixed
// pipeline for a given install profile.
package steps

import (
	"fmt"
	"strings"

	"github.com/archup/archup/internal/errors"
	"github.com/archup/archup/internal/exec"
)

// commandError turns a failed command result into an error, preferring the
// execution error, then stderr, then the exit code.
func commandError(res *exec.Result) error {
	if res.Error != nil {
		return res.Error
	}
	msg := strings.TrimSpace(res.StderrString())
	if msg == "" {
		msg = fmt.Sprintf("%s exited with code %d", res.Command, res.ExitCode)
	}
	return errors.New(errors.Execution, msg)
}
