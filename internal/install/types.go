// Package install is the heart of archup: a resumable pipeline of
// installation steps. The orchestrator walks a fixed, ordered step list
// under a resume directive, journals each outcome, and classifies failures
// as fatal (confirm or abort) or recoverable (warn and continue).
package install

import (
	"fmt"
	"time"
)

// StepStatus represents the status of a pipeline step.
type StepStatus int

const (
	// StepPending indicates the step has not run yet.
	StepPending StepStatus = iota
	// StepRunning indicates the step is executing.
	StepRunning
	// StepCompleted indicates the step finished successfully.
	StepCompleted
	// StepFailed indicates the step ran and failed.
	StepFailed
	// StepSkipped indicates the step was not executed this run.
	StepSkipped
)

// String returns the string representation of the step status.
func (s StepStatus) String() string {
	switch s {
	case StepPending:
		return "pending"
	case StepRunning:
		return "running"
	case StepCompleted:
		return "completed"
	case StepFailed:
		return "failed"
	case StepSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// IsSuccess reports whether the status counts as a successful outcome.
func (s StepStatus) IsSuccess() bool {
	return s == StepCompleted || s == StepSkipped
}

// Criticality decides what a step failure does to the pipeline.
type Criticality int

const (
	// Recoverable failures log a warning and the pipeline continues.
	Recoverable Criticality = iota
	// Fatal failures ask the user whether to continue; declining aborts
	// the whole run.
	Fatal
)

// String returns the string representation of the criticality.
func (c Criticality) String() string {
	if c == Fatal {
		return "fatal"
	}
	return "recoverable"
}

// StepResult is what a step execution produced.
type StepResult struct {
	// Status is the final status of the step.
	Status StepStatus

	// Message is a human-readable description of the result.
	Message string

	// Error is the failure cause, if any.
	Error error

	// Duration is how long the step ran.
	Duration time.Duration
}

// NewStepResult creates a result with the given status and message.
func NewStepResult(status StepStatus, message string) StepResult {
	return StepResult{Status: status, Message: message}
}

// WithError attaches an error to the result.
func (r StepResult) WithError(err error) StepResult {
	r.Error = err
	return r
}

// IsSuccess reports whether the step succeeded or was skipped.
func (r StepResult) IsSuccess() bool {
	return r.Status.IsSuccess()
}

// IsFailure reports whether the step failed.
func (r StepResult) IsFailure() bool {
	return r.Status == StepFailed
}

// String returns a human-readable representation of the result.
func (r StepResult) String() string {
	if r.Error != nil {
		return fmt.Sprintf("%s: %s (error: %v)", r.Status, r.Message, r.Error)
	}
	return fmt.Sprintf("%s: %s", r.Status, r.Message)
}

// Progress is pushed to the progress callback after each step.
type Progress struct {
	// StepName is the step that just finished or was skipped.
	StepName string

	// Description is the step's human-readable description.
	Description string

	// StepIndex is the 1-based ordinal of the step in the pipeline.
	StepIndex int

	// TotalSteps is the fixed pipeline length.
	TotalSteps int

	// Status is the step's outcome.
	Status StepStatus

	// Percent is overall pipeline progress, 0 to 100.
	Percent float64

	// Remaining is the projected remaining time, zero when no estimate
	// is available yet.
	Remaining time.Duration

	// Message is the step result message.
	Message string
}

// String returns a human-readable representation of the progress.
func (p Progress) String() string {
	s := fmt.Sprintf("[%d/%d] %s: %s (%.0f%%)",
		p.StepIndex, p.TotalSteps, p.StepName, p.Status, p.Percent)
	if p.Remaining > 0 {
		s += fmt.Sprintf(", ~%s left", p.Remaining.Round(time.Second))
	}
	return s
}

// RunStatus is the overall outcome of one pipeline run.
type RunStatus int

const (
	// RunCompleted means every executed step succeeded.
	RunCompleted RunStatus = iota
	// RunCompletedWithErrors means the pipeline reached the end but some
	// steps failed recoverably or were continued past.
	RunCompletedWithErrors
	// RunAborted means a fatal step failed and the user declined to
	// continue.
	RunAborted
	// RunCancelled means the run was cancelled before finishing.
	RunCancelled
)

// String returns the string representation of the run status.
func (s RunStatus) String() string {
	switch s {
	case RunCompleted:
		return "completed"
	case RunCompletedWithErrors:
		return "completed with errors"
	case RunAborted:
		return "aborted"
	case RunCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Success reports whether the run reached the end without a fatal abort.
// Failed steps alone do not make a run unsuccessful.
func (s RunStatus) Success() bool {
	return s == RunCompleted || s == RunCompletedWithErrors
}

// RunResult summarizes one orchestrator run.
type RunResult struct {
	// Status is the overall outcome.
	Status RunStatus

	// Executed lists steps whose action actually ran, in order.
	Executed []string

	// Completed lists executed steps that succeeded.
	Completed []string

	// Failed lists executed steps that failed.
	Failed []string

	// Skipped lists steps skipped for any reason.
	Skipped []string

	// AbortedAt is the fatal step that ended the run, when Status is
	// RunAborted.
	AbortedAt string

	// Duration is the total wall-clock time of the run.
	Duration time.Duration
}

// String returns a human-readable representation of the run result.
func (r RunResult) String() string {
	if r.Status == RunAborted {
		return fmt.Sprintf("%s at step %q after %v", r.Status, r.AbortedAt, r.Duration.Round(time.Second))
	}
	return fmt.Sprintf("%s: %d run, %d failed, %d skipped in %v",
		r.Status, len(r.Executed), len(r.Failed), len(r.Skipped), r.Duration.Round(time.Second))
}
