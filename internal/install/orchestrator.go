package install

import (
	"time"

	"github.com/archup/archup/internal/constants"
	"github.com/archup/archup/internal/logging"
	"github.com/archup/archup/internal/resume"
	"github.com/archup/archup/internal/state"
)

// Orchestrator executes a fixed, ordered pipeline of steps under a resume
// directive. Each executed step's outcome is journaled immediately so an
// interrupted run can pick up where it stopped.
type Orchestrator struct {
	steps     []Step
	journal   *state.Journal
	prompter  resume.Prompter
	estimator *Estimator
	logger    logging.Logger
	progress  func(Progress)
}

// OrchestratorOption is a functional option for Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithPrompter sets the decision port used for the fatal-failure
// "continue anyway?" question. Defaults to non-interactive answers, which
// abort on a fatal failure.
func WithPrompter(p resume.Prompter) OrchestratorOption {
	return func(o *Orchestrator) { o.prompter = p }
}

// WithProgress sets the progress callback invoked after every step.
func WithProgress(callback func(Progress)) OrchestratorOption {
	return func(o *Orchestrator) { o.progress = callback }
}

// WithEstimator replaces the timing estimator, for tests with a fake clock.
func WithEstimator(e *Estimator) OrchestratorOption {
	return func(o *Orchestrator) { o.estimator = e }
}

// WithOrchestratorLogger sets the orchestrator's logger.
func WithOrchestratorLogger(logger logging.Logger) OrchestratorOption {
	return func(o *Orchestrator) { o.logger = logger }
}

// NewOrchestrator creates an orchestrator over the given pipeline and
// journal.
func NewOrchestrator(steps []Step, journal *state.Journal, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		steps:     steps,
		journal:   journal,
		prompter:  resume.DefaultAnswers{},
		estimator: NewEstimator(),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Steps returns the pipeline.
func (o *Orchestrator) Steps() []Step {
	return o.steps
}

// Run walks the pipeline under the given directive. Ordinal order is fixed:
// RetryFailedFirst does not reorder steps, it only stops failed ones from
// being skipped.
func (o *Orchestrator) Run(ctx *Context, directive resume.Directive) RunResult {
	start := time.Now()
	result := RunResult{Status: RunCompleted}

	if directive == resume.Cancelled {
		result.Status = RunCancelled
		result.Duration = time.Since(start)
		return result
	}

	if directive == resume.FreshStart {
		if err := o.journal.Clear(); err != nil {
			// A stale journal only mis-skips future runs; this one is
			// unaffected because fresh starts ignore prior outcomes.
			o.logger.Warn("could not clear previous run state", "error", err)
			ctx.Reportf("could not clear previous run state: %v", err)
		}
	}

	completed := map[string]bool{}
	if directive == resume.ResumeFromLastCompleted || directive == resume.RetryFailedFirst {
		completed = o.journal.Load().CompletedSet()
	}

	total := len(o.steps)
	for i, step := range o.steps {
		if ctx.IsCancelled() {
			o.logger.Warn("run cancelled", "at", step.Name())
			result.Status = RunCancelled
			result.Duration = time.Since(start)
			return result
		}

		// Mode skip wins over everything, including the resume check.
		if skippedInMode(step, ctx.Mode) {
			o.logger.Debug("step omitted in this mode", "step", step.Name(), "mode", ctx.Mode)
			result.Skipped = append(result.Skipped, step.Name())
			o.emit(step, i, total, SkipStep("not used in "+ctx.Mode.String()+" mode"))
			continue
		}

		if completed[step.Name()] {
			o.logger.Debug("step already completed, skipping", "step", step.Name())
			result.Skipped = append(result.Skipped, step.Name())
			o.emit(step, i, total, SkipStep("already completed"))
			continue
		}

		o.logger.Info("running step", "step", step.Name(), "description", step.Description())
		o.estimator.Start()
		stepResult := step.Execute(ctx)
		stepResult.Duration = o.estimator.Finish()
		result.Executed = append(result.Executed, step.Name())

		if stepResult.IsFailure() {
			result.Failed = append(result.Failed, step.Name())
			o.logger.Error("step failed", "step", step.Name(), "error", stepResult.Error)
			ctx.Reportf("%s: %s", step.Name(), failureText(stepResult))

			if err := o.journal.Record(step.Name(), state.StatusFailed); err != nil {
				return o.abortOnJournal(ctx, &result, step, err, start)
			}

			if step.Criticality() == Fatal {
				if !o.prompter.Confirm(step.Name()+" failed. Continue anyway?", false) {
					o.logger.Error("aborting after fatal step failure", "step", step.Name())
					result.Status = RunAborted
					result.AbortedAt = step.Name()
					result.Duration = time.Since(start)
					o.emit(step, i, total, stepResult)
					return result
				}
				o.logger.Warn("continuing past fatal step failure", "step", step.Name())
			} else {
				o.logger.Warn("continuing after recoverable failure", "step", step.Name())
			}
		} else {
			result.Completed = append(result.Completed, step.Name())
			o.logger.Info("step completed", "step", step.Name(), "duration", stepResult.Duration)

			if err := o.journal.Record(step.Name(), state.StatusCompleted); err != nil {
				return o.abortOnJournal(ctx, &result, step, err, start)
			}
		}

		o.emit(step, i, total, stepResult)
	}

	if len(result.Failed) > 0 {
		result.Status = RunCompletedWithErrors
	}
	result.Duration = time.Since(start)
	return result
}

// abortOnJournal ends the run when an outcome cannot be persisted. The
// resume guarantee depends on the journal, so continuing without it would
// silently re-run completed steps next time.
func (o *Orchestrator) abortOnJournal(ctx *Context, result *RunResult, step Step, err error, start time.Time) RunResult {
	o.logger.Error("cannot persist step outcome, aborting", "step", step.Name(), "error", err)
	ctx.Reportf("cannot persist outcome of %s: %v", step.Name(), err)
	result.Status = RunAborted
	result.AbortedAt = step.Name()
	result.Duration = time.Since(start)
	return *result
}

func (o *Orchestrator) emit(step Step, index, total int, stepResult StepResult) {
	if o.progress == nil {
		return
	}

	percent := 0.0
	if total > 0 {
		percent = float64(index+1) / float64(total) * 100
	}

	o.progress(Progress{
		StepName:    step.Name(),
		Description: step.Description(),
		StepIndex:   index + 1,
		TotalSteps:  total,
		Status:      stepResult.Status,
		Percent:     percent,
		Remaining:   o.estimator.EstimateRemaining(total, index+1),
		Message:     stepResult.Message,
	})
}

func skippedInMode(step Step, mode constants.Mode) bool {
	for _, m := range step.SkipInModes() {
		if m == mode {
			return true
		}
	}
	return false
}

func failureText(r StepResult) string {
	if r.Error != nil {
		if r.Message != "" {
			return r.Message + ": " + r.Error.Error()
		}
		return r.Error.Error()
	}
	if r.Message != "" {
		return r.Message
	}
	return "step failed"
}
