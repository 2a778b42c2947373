package entities

import (
	"errors"
	"testing"
	"time"
)

func TestRunCreation(t *testing.T) {
	req := TranslationRequest{
		RunID:       "run-123",
		Target:      Language{Name: "French", Code: "fr"},
		RequestedAt: time.Now(),
	}
	run := NewRun(req)

	if run.ID != req.RunID {
		t.Errorf("Expected run ID %s, got %s", req.RunID, run.ID)
	}

	if run.State != RunStateIdle {
		t.Errorf("Expected state %s, got %s", RunStateIdle, run.State)
	}

	if run.CompletedAt != nil {
		t.Error("Expected CompletedAt to be nil for a new run")
	}
}

func TestRunAdvanceIsMonotonic(t *testing.T) {
	run := NewRun(TranslationRequest{RunID: "run", RequestedAt: time.Now()})

	for _, state := range []RunState{RunStateListening, RunStateTranslating, RunStateSpeaking} {
		if err := run.Advance(state); err != nil {
			t.Fatalf("Advance(%s) failed: %v", state, err)
		}
	}

	err := run.Advance(RunStateListening)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition when regressing, got %v", err)
	}

	if run.State != RunStateSpeaking {
		t.Errorf("Expected state to stay %s, got %s", RunStateSpeaking, run.State)
	}

	if err := run.Advance(RunStateDone); err != nil {
		t.Fatalf("Advance to done failed: %v", err)
	}

	if run.CompletedAt == nil {
		t.Error("Expected CompletedAt to be set")
	}

	if err := run.Fail(errors.New("late")); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected terminal run to reject Fail, got %v", err)
	}
}

func TestRunFailFromAnyActiveState(t *testing.T) {
	for _, state := range []RunState{RunStateIdle, RunStateListening, RunStateTranslating, RunStateSpeaking} {
		run := &Run{State: state, StartedAt: time.Now()}
		cause := errors.New("boom")

		if err := run.Fail(cause); err != nil {
			t.Errorf("Fail from %s returned %v", state, err)
		}

		if run.State != RunStateFailed {
			t.Errorf("Expected failed state from %s, got %s", state, run.State)
		}

		if !errors.Is(run.Err, cause) {
			t.Errorf("Expected run error to be recorded")
		}
	}
}

func TestRunStateSkipsForward(t *testing.T) {
	if !RunStateListening.CanAdvanceTo(RunStateSpeaking) {
		t.Error("Skipping forward should be allowed")
	}

	if RunStateTranslating.CanAdvanceTo(RunStateTranslating) {
		t.Error("Staying in the same state should not count as advancing")
	}

	if RunState("bogus").CanAdvanceTo(RunStateDone) {
		t.Error("Unknown states should not advance")
	}
}

func TestRunStateStatusText(t *testing.T) {
	tests := map[RunState]string{
		RunStateIdle:        "",
		RunStateListening:   "Listening...",
		RunStateTranslating: "Translating...",
		RunStateSpeaking:    "Speaking...",
		RunStateDone:        "Translation Complete.",
	}

	for state, want := range tests {
		if got := state.StatusText(); got != want {
			t.Errorf("%s.StatusText() = %q, want %q", state, got, want)
		}
	}
}
