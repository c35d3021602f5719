// Package state persists step outcomes across runs so an interrupted
// installation can resume where it left off. The journal is the only
// cross-run persistent state in archup.
//
// The backing file is append-only, line-oriented text with two recognized
// line shapes:
//
//	COMPLETED: <step name>
//	FAILED: <step name>
//
// A bare step name with no prefix is accepted for backward compatibility
// with journals written by early releases and is treated as COMPLETED.
package state

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/archup/archup/internal/errors"
)

// Status is the outcome of a single step attempt.
type Status int

const (
	// StatusCompleted indicates the step finished successfully.
	StatusCompleted Status = iota
	// StatusFailed indicates the step ran and failed.
	StatusFailed
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// journal line prefixes
const (
	completedPrefix = "COMPLETED: "
	failedPrefix    = "FAILED: "
)

// maxStepNameLen bounds legacy bare-name lines so binary garbage is never
// mistaken for a step name.
const maxStepNameLen = 128

// Outcome is one journal entry: a step name and the recorded status.
type Outcome struct {
	Step   string
	Status Status
}

// RunState is the ordered sequence of outcomes loaded from the journal.
// When a step appears more than once (re-attempted across runs), the most
// recent entry is authoritative.
type RunState struct {
	Entries []Outcome
}

// IsEmpty reports whether no outcomes were recorded.
func (rs *RunState) IsEmpty() bool {
	return rs == nil || len(rs.Entries) == 0
}

// CompletedSet returns the distinct step names whose most recent outcome is
// StatusCompleted.
func (rs *RunState) CompletedSet() map[string]bool {
	completed := make(map[string]bool)
	for name, st := range rs.latest() {
		if st == StatusCompleted {
			completed[name] = true
		}
	}
	return completed
}

// FailedSet returns the distinct step names whose most recent outcome is
// StatusFailed. By construction it is disjoint from CompletedSet.
func (rs *RunState) FailedSet() map[string]bool {
	failed := make(map[string]bool)
	for name, st := range rs.latest() {
		if st == StatusFailed {
			failed[name] = true
		}
	}
	return failed
}

// HasFailures reports whether any step's most recent outcome is a failure.
func (rs *RunState) HasFailures() bool {
	return len(rs.FailedSet()) > 0
}

// latest maps each step name to its most recent recorded status.
func (rs *RunState) latest() map[string]Status {
	m := make(map[string]Status, len(rs.Entries))
	for _, e := range rs.Entries {
		m[e.Step] = e.Status
	}
	return m
}

// Journal is the durable store backing RunState. It is safe for use from a
// single process; concurrent invocations of archup are not supported.
type Journal struct {
	mu   sync.Mutex
	path string
}

// NewJournal creates a journal backed by the file at path.
// The file is not created until the first Record call.
func NewJournal(path string) *Journal {
	return &Journal{path: path}
}

// Path returns the journal file path.
func (j *Journal) Path() string {
	return j.path
}

// Record appends one outcome line to the journal, creating the file and its
// parent directory if absent. A write failure is returned to the caller:
// the resume guarantee depends on durability, so the orchestrator treats it
// as fatal to the run.
func (j *Journal) Record(step string, status Status) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(j.path), 0755); err != nil {
		return errors.Wrap(errors.StateStore, "cannot create state directory", err).
			WithOp("state.Record")
	}

	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(errors.StateStore, "cannot open journal", err).
			WithOp("state.Record")
	}
	defer f.Close()

	prefix := completedPrefix
	if status == StatusFailed {
		prefix = failedPrefix
	}

	if _, err := f.WriteString(prefix + step + "\n"); err != nil {
		return errors.Wrap(errors.StateStore, "cannot append to journal", err).
			WithOp("state.Record")
	}
	if err := f.Sync(); err != nil {
		return errors.Wrap(errors.StateStore, "cannot flush journal", err).
			WithOp("state.Record")
	}

	return nil
}

// Load reads the journal and reconstructs the RunState. A missing, empty, or
// corrupt file yields an empty RunState, never an error: corruption must not
// block installation.
func (j *Journal) Load() *RunState {
	j.mu.Lock()
	defer j.mu.Unlock()

	rs := &RunState{}

	f, err := os.Open(j.path)
	if err != nil {
		return rs
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if outcome, ok := parseLine(scanner.Text()); ok {
			rs.Entries = append(rs.Entries, outcome)
		}
	}
	// Scanner errors (e.g. pathological line lengths) degrade to whatever was
	// parsed so far, same as any other corruption.

	return rs
}

// Clear deletes the journal file. It is idempotent: clearing an absent
// journal is not an error.
func (j *Journal) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.Remove(j.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.StateStore, "cannot delete journal", err).
			WithOp("state.Clear")
	}
	return nil
}

// parseLine parses one journal line into an Outcome. Lines that are empty or
// do not look like a step record are dropped.
func parseLine(line string) (Outcome, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Outcome{}, false
	}

	if name, ok := strings.CutPrefix(line, completedPrefix); ok {
		name = strings.TrimSpace(name)
		if name == "" {
			return Outcome{}, false
		}
		return Outcome{Step: name, Status: StatusCompleted}, true
	}
	if name, ok := strings.CutPrefix(line, failedPrefix); ok {
		name = strings.TrimSpace(name)
		if name == "" {
			return Outcome{}, false
		}
		return Outcome{Step: name, Status: StatusFailed}, true
	}

	// Legacy format: a bare step name means the step completed. Guard against
	// mistaking file corruption for a step name.
	if !plausibleStepName(line) {
		return Outcome{}, false
	}
	return Outcome{Step: line, Status: StatusCompleted}, true
}

// plausibleStepName reports whether a bare line could be a legacy step name:
// valid UTF-8, printable, and short.
func plausibleStepName(s string) bool {
	if len(s) > maxStepNameLen || !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
