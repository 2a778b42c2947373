package translation

import (
	"github.com/satriahrh/jurubahasa/domain"
	"github.com/satriahrh/jurubahasa/domain/entities"
)

// State is shared by the steps of one translation run. It is only touched
// by the worker goroutine executing the saga.
type State struct {
	Run      *entities.Run
	Notifier domain.Notifier

	Sample entities.AudioSample
	Audio  entities.SynthesizedAudio

	// CleanupErr records a failed temp file removal; it never fails the run
	CleanupErr    error
	audioReleased bool
}

// NewState creates the state for a run reporting to notifier
func NewState(run *entities.Run, notifier domain.Notifier) *State {
	return &State{Run: run, Notifier: notifier}
}

// Advance moves the run forward and announces the new status
func (s *State) Advance(next entities.RunState) error {
	if err := s.Run.Advance(next); err != nil {
		return err
	}
	s.Notifier.Notify(domain.StatusChanged{
		RunID: s.Run.ID,
		State: next,
		Text:  next.StatusText(),
	})
	return nil
}

func (s *State) notify(update domain.DisplayUpdate) {
	s.Notifier.Notify(update)
}
