// Package resume decides how a new invocation relates to a previous one.
// It inspects the persisted run state and asks the user (through a Prompter)
// whether to continue, retry what failed, or start over.
package resume

import (
	"github.com/archup/archup/internal/logging"
	"github.com/archup/archup/internal/state"
)

// Directive tells the orchestrator how to treat previously recorded outcomes.
type Directive int

const (
	// FreshStart discards the prior run state and runs every step.
	FreshStart Directive = iota
	// ResumeFromLastCompleted skips completed steps and runs the rest,
	// including steps that previously failed.
	ResumeFromLastCompleted
	// RetryFailedFirst skips completed steps and re-runs failed ones as the
	// pipeline reaches them. Ordinal order is preserved.
	RetryFailedFirst
	// Cancelled aborts the whole program without touching anything.
	Cancelled
)

// String returns the string representation of the directive.
func (d Directive) String() string {
	switch d {
	case FreshStart:
		return "fresh-start"
	case ResumeFromLastCompleted:
		return "resume"
	case RetryFailedFirst:
		return "retry-failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Prompter is the interaction surface the engine asks through. Terminal and
// TUI frontends implement it; DefaultAnswers stands in when no interactive
// surface exists.
type Prompter interface {
	// Confirm asks a yes/no question and returns the answer.
	Confirm(prompt string, defaultYes bool) bool
	// Choose presents options and returns the index of the selection.
	// A negative return means the user declined to choose.
	Choose(title string, options []string, defaultIndex int) int
}

// DefaultAnswers is a Prompter for non-interactive runs. It always takes the
// default, preferring to continue over discarding progress.
type DefaultAnswers struct{}

// Confirm returns the default answer.
func (DefaultAnswers) Confirm(_ string, defaultYes bool) bool { return defaultYes }

// Choose returns the default option.
func (DefaultAnswers) Choose(_ string, _ []string, defaultIndex int) int { return defaultIndex }

// Engine turns a loaded run state into a Directive.
type Engine struct {
	prompter Prompter
	logger   logging.Logger
}

// NewEngine creates a decision engine asking through the given prompter.
func NewEngine(prompter Prompter, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{prompter: prompter, logger: logger}
}

// Option indices within the choice menus. The cancel entry is always last.
const (
	choiceRetryFailed = iota
	choiceResumeAfterFailure
	choiceFreshAfterFailure
	choiceCancelAfterFailure
)

const (
	choiceResume = iota
	choiceFresh
	choiceCancel
)

// Decide classifies the run state and returns the directive for this run.
// An empty state needs no interaction and always yields FreshStart.
func (e *Engine) Decide(rs *state.RunState) Directive {
	if rs.IsEmpty() {
		e.logger.Debug("no prior run state, starting fresh")
		return FreshStart
	}

	completed := len(rs.CompletedSet())
	failed := len(rs.FailedSet())
	e.logger.Info("found previous run",
		"completed", completed,
		"failed", failed)

	if rs.HasFailures() {
		return e.decideWithFailures()
	}
	return e.decideWithoutFailures()
}

func (e *Engine) decideWithFailures() Directive {
	options := []string{
		"Retry failed steps, then continue",
		"Resume from last completed step (skip failures for now)",
		"Start over from the beginning",
		"Cancel",
	}

	switch e.prompter.Choose("A previous run left failed steps behind", options, choiceRetryFailed) {
	case choiceRetryFailed:
		return RetryFailedFirst
	case choiceResumeAfterFailure:
		return ResumeFromLastCompleted
	case choiceFreshAfterFailure:
		return FreshStart
	default:
		return Cancelled
	}
}

func (e *Engine) decideWithoutFailures() Directive {
	options := []string{
		"Resume from last completed step",
		"Start over from the beginning",
		"Cancel",
	}

	switch e.prompter.Choose("A previous run was interrupted", options, choiceResume) {
	case choiceResume:
		return ResumeFromLastCompleted
	case choiceFresh:
		return FreshStart
	default:
		return Cancelled
	}
}
