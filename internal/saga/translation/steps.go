package translation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/jurubahasa/domain"
	"github.com/satriahrh/jurubahasa/domain/entities"
	"github.com/satriahrh/jurubahasa/domain/repositories"
	"github.com/satriahrh/jurubahasa/internal/saga"
	"github.com/satriahrh/jurubahasa/internal/tempaudio"
)

// Step IDs in execution order
const (
	StepCapture    saga.StepID = "capture"
	StepRecognize  saga.StepID = "recognize"
	StepTranslate  saga.StepID = "translate"
	StepSynthesize saga.StepID = "synthesize"
	StepPlay       saga.StepID = "play"
)

// KindForStep is the error kind reported when a step fails with an unclassified error
func KindForStep(id saga.StepID) domain.Kind {
	switch id {
	case StepCapture:
		return domain.KindCapture
	case StepRecognize:
		return domain.KindRecognitionService
	case StepTranslate:
		return domain.KindTranslation
	case StepSynthesize:
		return domain.KindSynthesis
	default:
		return domain.KindPlayback
	}
}

// CaptureStep records one utterance
type CaptureStep struct {
	capture repositories.AudioCapture
	logger  *zap.Logger
}

func NewCaptureStep(capture repositories.AudioCapture, logger *zap.Logger) *CaptureStep {
	return &CaptureStep{capture: capture, logger: logger}
}

func (s *CaptureStep) ID() saga.StepID {
	return StepCapture
}

func (s *CaptureStep) Execute(ctx context.Context, state *State) saga.StepResult {
	if err := state.Advance(entities.RunStateListening); err != nil {
		return saga.Failed(domain.NewError(domain.KindCapture, "capture", err))
	}

	sample, err := s.capture.Capture(ctx)
	if err != nil {
		return saga.Failed(domain.NewError(domain.KindCapture, "capture", err))
	}
	state.Sample = sample

	s.logger.Debug("Capture completed", zap.Duration("duration", sample.Duration()))
	return saga.Succeeded(sample.Duration().String())
}

func (s *CaptureStep) Compensate(ctx context.Context, state *State) error {
	// Nothing to release for a captured sample
	return nil
}

// RecognitionStep converts the captured sample to text
type RecognitionStep struct {
	recognizer repositories.SpeechToText
	logger     *zap.Logger
}

func NewRecognitionStep(recognizer repositories.SpeechToText, logger *zap.Logger) *RecognitionStep {
	return &RecognitionStep{recognizer: recognizer, logger: logger}
}

func (s *RecognitionStep) ID() saga.StepID {
	return StepRecognize
}

func (s *RecognitionStep) Execute(ctx context.Context, state *State) saga.StepResult {
	utterance, err := s.recognizer.Transcribe(ctx, state.Sample)
	if err != nil {
		kind := domain.KindRecognitionService
		if errors.Is(err, repositories.ErrUnrecognizedSpeech) {
			kind = domain.KindUnrecognizedSpeech
		}
		return saga.Failed(domain.NewError(kind, "recognize", err))
	}

	state.Run.Recognized = utterance
	state.notify(domain.RecognizedTextReady{RunID: state.Run.ID, Text: utterance.Text})

	if err := state.Advance(entities.RunStateTranslating); err != nil {
		return saga.Failed(domain.NewError(domain.KindRecognitionService, "recognize", err))
	}

	s.logger.Info("Speech recognized", zap.String("runID", state.Run.ID), zap.String("text", utterance.Text))
	return saga.Succeeded(utterance.Text)
}

func (s *RecognitionStep) Compensate(ctx context.Context, state *State) error {
	return nil
}

// TranslationStep translates the recognized text. A translation failure
// does not stop the run: the error message is shown and spoken instead.
type TranslationStep struct {
	translator repositories.Translator
	logger     *zap.Logger
}

func NewTranslationStep(translator repositories.Translator, logger *zap.Logger) *TranslationStep {
	return &TranslationStep{translator: translator, logger: logger}
}

func (s *TranslationStep) ID() saga.StepID {
	return StepTranslate
}

func (s *TranslationStep) Execute(ctx context.Context, state *State) saga.StepResult {
	target := state.Run.Target

	translated, err := s.translator.Translate(ctx, state.Run.Recognized.Text, target)
	if err != nil {
		s.logger.Warn("Translation failed, speaking the error instead",
			zap.String("runID", state.Run.ID),
			zap.String("target", target.Code),
			zap.Error(err))
		translated = entities.TranslatedText{
			Text:       domain.TranslationErrorText(err),
			TargetCode: target.Code,
			Failed:     true,
		}
	}
	if translated.TargetCode == "" {
		translated.TargetCode = target.Code
	}

	state.Run.Translated = translated
	state.notify(domain.TranslatedTextReady{
		RunID:  state.Run.ID,
		Text:   translated.Text,
		Failed: translated.Failed,
	})

	return saga.Succeeded(translated.Text)
}

func (s *TranslationStep) Compensate(ctx context.Context, state *State) error {
	return nil
}

// SynthesisStep writes speech for the translated text to a fresh temp file
type SynthesisStep struct {
	synthesizer repositories.TextToSpeech
	store       *tempaudio.Store
	logger      *zap.Logger
}

func NewSynthesisStep(synthesizer repositories.TextToSpeech, store *tempaudio.Store, logger *zap.Logger) *SynthesisStep {
	return &SynthesisStep{synthesizer: synthesizer, store: store, logger: logger}
}

func (s *SynthesisStep) ID() saga.StepID {
	return StepSynthesize
}

func (s *SynthesisStep) Execute(ctx context.Context, state *State) saga.StepResult {
	state.Audio = s.store.Allocate()

	err := s.synthesizer.Synthesize(ctx, state.Run.Translated.Text, state.Run.Target, state.Audio.Path)
	if err != nil {
		releaseAudio(state, s.store, s.logger)
		return saga.Failed(domain.NewError(domain.KindSynthesis, "synthesize", err))
	}

	return saga.Succeeded(state.Audio.Path)
}

// Compensate removes the file when a later step failed before releasing it
func (s *SynthesisStep) Compensate(ctx context.Context, state *State) error {
	releaseAudio(state, s.store, s.logger)
	return nil
}

// PlaybackStep plays the synthesized file and always releases it afterwards
type PlaybackStep struct {
	player       repositories.AudioPlayer
	device       sync.Locker
	store        *tempaudio.Store
	pollInterval time.Duration
	releaseGrace time.Duration
	logger       *zap.Logger
}

func NewPlaybackStep(player repositories.AudioPlayer, device sync.Locker, store *tempaudio.Store, pollInterval, releaseGrace time.Duration, logger *zap.Logger) *PlaybackStep {
	return &PlaybackStep{
		player:       player,
		device:       device,
		store:        store,
		pollInterval: pollInterval,
		releaseGrace: releaseGrace,
		logger:       logger,
	}
}

func (s *PlaybackStep) ID() saga.StepID {
	return StepPlay
}

func (s *PlaybackStep) Execute(ctx context.Context, state *State) saga.StepResult {
	if err := state.Advance(entities.RunStateSpeaking); err != nil {
		releaseAudio(state, s.store, s.logger)
		return saga.Failed(domain.NewError(domain.KindPlayback, "play", err))
	}

	s.device.Lock()
	err := s.play(ctx, state.Audio.Path)
	s.device.Unlock()

	// let the player process let go of the file before removing it
	if s.releaseGrace > 0 {
		select {
		case <-time.After(s.releaseGrace):
		case <-ctx.Done():
		}
	}
	releaseAudio(state, s.store, s.logger)

	if err != nil {
		return saga.Failed(domain.NewError(domain.KindPlayback, "play", err))
	}
	return saga.Succeeded(nil)
}

func (s *PlaybackStep) play(ctx context.Context, path string) error {
	if err := s.player.Init(); err != nil {
		return fmt.Errorf("failed to initialize audio device: %w", err)
	}

	var errs []error
	if err := s.player.Load(path); err != nil {
		errs = append(errs, fmt.Errorf("failed to load audio: %w", err))
	} else if err := s.player.Play(); err != nil {
		errs = append(errs, fmt.Errorf("failed to play audio: %w", err))
	} else {
		s.waitUntilIdle(ctx)
	}

	if err := s.player.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop playback: %w", err))
	}
	if err := s.player.Quit(); err != nil {
		errs = append(errs, fmt.Errorf("failed to release audio device: %w", err))
	}
	return errors.Join(errs...)
}

func (s *PlaybackStep) waitUntilIdle(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for s.player.Busy() {
		select {
		case <-ctx.Done():
			s.logger.Warn("Playback interrupted", zap.Error(ctx.Err()))
			return
		case <-ticker.C:
		}
	}
}

func (s *PlaybackStep) Compensate(ctx context.Context, state *State) error {
	return nil
}

// releaseAudio removes the run's temp file at most once
func releaseAudio(state *State, store *tempaudio.Store, logger *zap.Logger) {
	if state.audioReleased || state.Audio.Path == "" {
		return
	}
	state.audioReleased = true

	if err := store.Release(state.Audio); err != nil {
		state.CleanupErr = domain.NewError(domain.KindCleanup, "release", err)
		logger.Warn("Temporary audio left behind",
			zap.String("runID", state.Run.ID),
			zap.String("path", state.Audio.Path),
			zap.Error(err))
	}
}
