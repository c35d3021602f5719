// Package report collects human-readable error descriptions raised during an
// installation run. Steps and their collaborators push messages here as they
// fail; the final summary and the persistent log consume the collection at
// the end of the run.
package report

import (
	"fmt"
	"sync"
)

// Aggregator is an ordered collection of error messages for one run.
// Messages are kept in arrival order and never deduplicated.
type Aggregator struct {
	mu       sync.Mutex
	messages []string
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Report appends a message to the collection.
func (a *Aggregator) Report(message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, message)
}

// Reportf appends a formatted message to the collection.
func (a *Aggregator) Reportf(format string, args ...interface{}) {
	a.Report(fmt.Sprintf(format, args...))
}

// HasErrors reports whether any message has been collected.
func (a *Aggregator) HasErrors() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.messages) > 0
}

// Count returns the number of collected messages.
func (a *Aggregator) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.messages)
}

// All returns a copy of the collected messages in arrival order.
func (a *Aggregator) All() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string{}, a.messages...)
}
