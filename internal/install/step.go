package install

import (
	"time"

	"github.com/archup/archup/internal/constants"
)

// Step is one named, ordered unit of installation work. The name is the
// resume key and must be stable across releases.
type Step interface {
	// Name returns the unique, stable step name.
	Name() string

	// Description returns a human-readable description of the step.
	Description() string

	// Criticality returns how a failure of this step is handled.
	Criticality() Criticality

	// SkipInModes returns the install modes in which this step is
	// omitted entirely.
	SkipInModes() []constants.Mode

	// Execute runs the step.
	Execute(ctx *Context) StepResult
}

// BaseStep provides the descriptive half of Step for embedding in concrete
// step implementations.
type BaseStep struct {
	name        string
	description string
	criticality Criticality
	skipModes   []constants.Mode
}

// NewBaseStep creates a base step. Any skip modes given are modes in which
// the step is omitted.
func NewBaseStep(name, description string, criticality Criticality, skipModes ...constants.Mode) BaseStep {
	return BaseStep{
		name:        name,
		description: description,
		criticality: criticality,
		skipModes:   skipModes,
	}
}

// Name returns the step name.
func (s BaseStep) Name() string {
	return s.name
}

// Description returns the step description.
func (s BaseStep) Description() string {
	return s.description
}

// Criticality returns the step criticality.
func (s BaseStep) Criticality() Criticality {
	return s.criticality
}

// SkipInModes returns the modes in which the step is omitted.
func (s BaseStep) SkipInModes() []constants.Mode {
	return s.skipModes
}

// SkippedInMode reports whether the step is omitted in the given mode.
func (s BaseStep) SkippedInMode(mode constants.Mode) bool {
	for _, m := range s.skipModes {
		if m == mode {
			return true
		}
	}
	return false
}

// FuncStep is a Step backed by a function, for steps that don't warrant a
// dedicated type.
type FuncStep struct {
	BaseStep
	executeFunc func(ctx *Context) StepResult
	timeout     time.Duration
}

// FuncStepOption is a functional option for FuncStep.
type FuncStepOption func(*FuncStep)

// WithSkipInModes sets the modes in which the step is omitted.
func WithSkipInModes(modes ...constants.Mode) FuncStepOption {
	return func(s *FuncStep) {
		s.skipModes = modes
	}
}

// WithStepTimeout bounds the step's execution. A step that overruns fails
// with a timed-out result; its action keeps running in the background until
// it returns on its own.
func WithStepTimeout(d time.Duration) FuncStepOption {
	return func(s *FuncStep) {
		s.timeout = d
	}
}

// NewFuncStep creates a function-backed step.
func NewFuncStep(name, description string, criticality Criticality, executeFunc func(ctx *Context) StepResult, opts ...FuncStepOption) *FuncStep {
	s := &FuncStep{
		BaseStep:    NewBaseStep(name, description, criticality),
		executeFunc: executeFunc,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs the step's function, enforcing the timeout when one is set.
func (s *FuncStep) Execute(ctx *Context) StepResult {
	if s.executeFunc == nil {
		return FailStep("no execute function defined", nil)
	}

	start := time.Now()
	var result StepResult
	if s.timeout > 0 {
		result = runWithTimeout(ctx, s.timeout, s.executeFunc)
	} else {
		result = s.executeFunc(ctx)
	}
	result.Duration = time.Since(start)
	return result
}

// runWithTimeout executes fn, abandoning it when the deadline passes. The
// goroutine running fn is left to finish; only its result is discarded.
func runWithTimeout(ctx *Context, d time.Duration, fn func(ctx *Context) StepResult) StepResult {
	done := make(chan StepResult, 1)
	go func() {
		done <- fn(ctx)
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case result := <-done:
		return result
	case <-timer.C:
		return FailStep("timed out after "+d.String(), nil)
	}
}

// SkipStep builds a skipped result.
func SkipStep(reason string) StepResult {
	return NewStepResult(StepSkipped, reason)
}

// CompleteStep builds a successful result.
func CompleteStep(message string) StepResult {
	return NewStepResult(StepCompleted, message)
}

// FailStep builds a failed result.
func FailStep(message string, err error) StepResult {
	return NewStepResult(StepFailed, message).WithError(err)
}

// Ensure FuncStep implements Step.
var _ Step = (*FuncStep)(nil)
