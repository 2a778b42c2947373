package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/jurubahasa/adapters/capture"
	"github.com/satriahrh/jurubahasa/adapters/mock"
	"github.com/satriahrh/jurubahasa/adapters/playback"
	"github.com/satriahrh/jurubahasa/adapters/stt"
	"github.com/satriahrh/jurubahasa/adapters/translate"
	"github.com/satriahrh/jurubahasa/adapters/tts"
	"github.com/satriahrh/jurubahasa/domain"
	"github.com/satriahrh/jurubahasa/domain/entities"
	"github.com/satriahrh/jurubahasa/internal/config"
	"github.com/satriahrh/jurubahasa/internal/saga/translation"
	"github.com/satriahrh/jurubahasa/internal/tempaudio"
	"github.com/satriahrh/jurubahasa/usecase"
)

// demoCaptureDelay stands in for the time spent speaking
const demoCaptureDelay = 500 * time.Millisecond

// app owns the wired pipeline and everything that must be shut down with it
type app struct {
	service *usecase.TranslationService
	store   *tempaudio.Store
	sweeper *tempaudio.Sweeper
	closers []func() error
	logger  *zap.Logger
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return nil, err
	}
	if opts.demo {
		cfg.Demo = true
	}
	if opts.lang != "" {
		cfg.Panel.Language = opts.lang
	}
	return cfg, nil
}

func newApp(ctx context.Context, cfg *config.Config, notifier domain.Notifier, logger *zap.Logger) (*app, error) {
	store, err := tempaudio.NewStore(cfg.TempAudio, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare temp audio dir: %w", err)
	}

	a := &app{
		store:   store,
		sweeper: tempaudio.NewSweeper(store, cfg.TempAudio.MaxAge, cfg.TempAudio.SweepInterval, logger),
		logger:  logger,
	}

	var deps translation.Dependencies
	if cfg.Demo {
		logger.Info("Using demo backends")
		deps = demoBackends(logger)
	} else if deps, err = a.backends(ctx, cfg, logger); err != nil {
		a.Close()
		return nil, err
	}
	deps.Store = store

	a.service = usecase.NewTranslationService(entities.DefaultLanguages(), deps, notifier, cfg.Pipeline, logger)
	a.sweeper.Start()
	return a, nil
}

func (a *app) backends(ctx context.Context, cfg *config.Config, logger *zap.Logger) (translation.Dependencies, error) {
	source := capture.NewCommandSource(cfg.Capture.Command, cfg.Capture.Args, logger)
	microphone, err := capture.NewMicrophone(source, cfg.Capture, logger)
	if err != nil {
		return translation.Dependencies{}, fmt.Errorf("failed to set up microphone: %w", err)
	}

	recognizer, err := stt.NewGoogleSpeechToText(ctx, cfg.GoogleSpeech, logger)
	if err != nil {
		return translation.Dependencies{}, fmt.Errorf("failed to set up speech recognition: %w", err)
	}
	a.closers = append(a.closers, recognizer.Close)

	translator, err := translate.NewGeminiTranslator(ctx, cfg.Gemini, logger)
	if err != nil {
		return translation.Dependencies{}, fmt.Errorf("failed to set up translation: %w", err)
	}

	synthesizer, err := tts.NewElevenLabsTTS(cfg.ElevenLabs, logger)
	if err != nil {
		return translation.Dependencies{}, fmt.Errorf("failed to set up text-to-speech: %w", err)
	}

	return translation.Dependencies{
		Capture:     microphone,
		Recognizer:  recognizer,
		Translator:  translator,
		Synthesizer: synthesizer,
		Player:      playback.NewProcessPlayer(cfg.Playback, logger),
	}, nil
}

func demoBackends(logger *zap.Logger) translation.Dependencies {
	microphone := mock.NewCapture(logger)
	microphone.Delay = demoCaptureDelay

	return translation.Dependencies{
		Capture:     microphone,
		Recognizer:  mock.NewSpeechToText(logger),
		Translator:  mock.NewTranslator(logger),
		Synthesizer: mock.NewTextToSpeech(logger),
		Player:      mock.NewPlayer(logger),
	}
}

// shutdown waits up to grace for an outstanding run, then closes the backends.
// The caller cancels the run context first.
func (a *app) shutdown(grace time.Duration) {
	done := make(chan struct{})
	go func() {
		a.service.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(grace):
		a.logger.Warn("Translation still running at exit, leaving cleanup to the next sweep",
			zap.Duration("grace", grace))
	}
	a.Close()
}

func (a *app) Close() {
	a.sweeper.Stop()
	for _, closer := range a.closers {
		if err := closer(); err != nil {
			a.logger.Warn("Failed to close backend", zap.Error(err))
		}
	}
	a.closers = nil
}
