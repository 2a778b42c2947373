package entities

import (
	"errors"
	"fmt"
	"time"
)

// RunState represents the progress of a single translation run
type RunState string

const (
	RunStateIdle        RunState = "idle"
	RunStateListening   RunState = "listening"
	RunStateTranslating RunState = "translating"
	RunStateSpeaking    RunState = "speaking"
	RunStateDone        RunState = "done"
	RunStateFailed      RunState = "failed"
)

// ErrInvalidTransition is returned when a run would move backwards
var ErrInvalidTransition = errors.New("invalid run state transition")

var runStateOrder = map[RunState]int{
	RunStateIdle:        0,
	RunStateListening:   1,
	RunStateTranslating: 2,
	RunStateSpeaking:    3,
	RunStateDone:        4,
	RunStateFailed:      4,
}

// StatusText is the status line shown for a state
func (s RunState) StatusText() string {
	switch s {
	case RunStateListening:
		return "Listening..."
	case RunStateTranslating:
		return "Translating..."
	case RunStateSpeaking:
		return "Speaking..."
	case RunStateDone:
		return "Translation Complete."
	case RunStateFailed:
		return "Translation failed."
	default:
		return ""
	}
}

// IsTerminal reports whether no further transition is allowed
func (s RunState) IsTerminal() bool {
	return s == RunStateDone || s == RunStateFailed
}

// CanAdvanceTo reports whether moving from s to next keeps the run monotonic.
// Failed is reachable from every non-terminal state.
func (s RunState) CanAdvanceTo(next RunState) bool {
	if s.IsTerminal() {
		return false
	}
	if next == RunStateFailed {
		return true
	}
	from, ok := runStateOrder[s]
	if !ok {
		return false
	}
	to, ok := runStateOrder[next]
	if !ok {
		return false
	}
	return to > from
}

// Run is the report of one translation invocation
type Run struct {
	ID          string              `json:"id"`
	Target      Language            `json:"target"`
	State       RunState            `json:"state"`
	Recognized  RecognizedUtterance `json:"recognized"`
	Translated  TranslatedText      `json:"translated"`
	Err         error               `json:"-"`
	CleanupErr  error               `json:"-"`
	StartedAt   time.Time           `json:"started_at"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
}

// NewRun creates an idle run for the request
func NewRun(req TranslationRequest) *Run {
	return &Run{
		ID:        req.RunID,
		Target:    req.Target,
		State:     RunStateIdle,
		StartedAt: req.RequestedAt,
	}
}

// Advance moves the run to next, rejecting regressions
func (r *Run) Advance(next RunState) error {
	if !r.State.CanAdvanceTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.State, next)
	}
	r.State = next
	if next.IsTerminal() {
		now := time.Now()
		r.CompletedAt = &now
	}
	return nil
}

// Fail marks the run as failed with the given cause
func (r *Run) Fail(err error) error {
	r.Err = err
	return r.Advance(RunStateFailed)
}

// Elapsed returns the run duration so far, or in total once finished
func (r *Run) Elapsed() time.Duration {
	if r.CompletedAt != nil {
		return r.CompletedAt.Sub(r.StartedAt)
	}
	return time.Since(r.StartedAt)
}
