package install

import (
	"sync"
	"time"
)

// Estimator projects remaining pipeline time from the durations of steps
// already run this session. It is purely advisory: it never influences
// control flow and degrades to "no estimate" until the first sample.
type Estimator struct {
	mu        sync.Mutex
	now       func() time.Time
	durations []time.Duration
	startedAt time.Time
	running   bool
}

// NewEstimator creates an estimator using the wall clock.
func NewEstimator() *Estimator {
	return &Estimator{now: time.Now}
}

// NewEstimatorWithClock creates an estimator with an injectable clock, for
// tests.
func NewEstimatorWithClock(now func() time.Time) *Estimator {
	return &Estimator{now: now}
}

// Start marks the beginning of a step execution.
func (e *Estimator) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startedAt = e.now()
	e.running = true
}

// Finish records the elapsed time since Start as one sample and returns it.
// Without a matching Start it records nothing and returns zero.
func (e *Estimator) Finish() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return 0
	}
	e.running = false
	d := e.now().Sub(e.startedAt)
	e.durations = append(e.durations, d)
	return d
}

// Count returns the number of recorded samples.
func (e *Estimator) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.durations)
}

// Average returns the mean sample duration, zero with no samples.
func (e *Estimator) Average() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.average()
}

func (e *Estimator) average() time.Duration {
	if len(e.durations) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range e.durations {
		total += d
	}
	return total / time.Duration(len(e.durations))
}

// EstimateRemaining projects the time left as average sample duration times
// the number of steps not yet attempted. Zero without samples, so no
// estimate is shown until at least one step has run.
func (e *Estimator) EstimateRemaining(totalSteps, attempted int) time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	remaining := totalSteps - attempted
	if remaining <= 0 {
		return 0
	}
	return e.average() * time.Duration(remaining)
}
