package translation

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/jurubahasa/domain/repositories"
	"github.com/satriahrh/jurubahasa/internal/saga"
	"github.com/satriahrh/jurubahasa/internal/tempaudio"
)

// Dependencies are the backends a translation run talks to
type Dependencies struct {
	Capture     repositories.AudioCapture
	Recognizer  repositories.SpeechToText
	Translator  repositories.Translator
	Synthesizer repositories.TextToSpeech
	Player      repositories.AudioPlayer
	Store       *tempaudio.Store
}

// TranslationSagaDefinition defines the capture to playback saga
type TranslationSagaDefinition struct {
	steps []saga.Step[*State]
}

// NewTranslationSagaDefinition wires the steps. device serializes access to the player.
func NewTranslationSagaDefinition(deps Dependencies, device sync.Locker, pollInterval, releaseGrace time.Duration, logger *zap.Logger) *TranslationSagaDefinition {
	return &TranslationSagaDefinition{
		steps: []saga.Step[*State]{
			NewCaptureStep(deps.Capture, logger),
			NewRecognitionStep(deps.Recognizer, logger),
			NewTranslationStep(deps.Translator, logger),
			NewSynthesisStep(deps.Synthesizer, deps.Store, logger),
			NewPlaybackStep(deps.Player, device, deps.Store, pollInterval, releaseGrace, logger),
		},
	}
}

func (d *TranslationSagaDefinition) ID() string {
	return "speech_translation"
}

// Timeout is zero: a run is only interrupted by quitting the application
func (d *TranslationSagaDefinition) Timeout() time.Duration {
	return 0
}

func (d *TranslationSagaDefinition) Steps() []saga.Step[*State] {
	return d.steps
}
