package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/satriahrh/jurubahasa/domain"
	"github.com/satriahrh/jurubahasa/domain/entities"
	"github.com/satriahrh/jurubahasa/internal/saga"
	"github.com/satriahrh/jurubahasa/internal/saga/translation"
)

// ErrRunInProgress is returned by Start while a previous run is outstanding
var ErrRunInProgress = errors.New("a translation is already in progress")

// Config holds pipeline timing settings
type Config struct {
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"100ms"`
	ReleaseGrace time.Duration `env:"RELEASE_GRACE" envDefault:"200ms"`
}

// DefaultConfig returns the default pipeline timings
func DefaultConfig() Config {
	return Config{
		PollInterval: 100 * time.Millisecond,
		ReleaseGrace: 200 * time.Millisecond,
	}
}

// TranslationService runs capture, recognition, translation, synthesis and
// playback for one request at a time on a background worker. Progress is
// reported to the notifier in order; the worker never touches display state.
type TranslationService struct {
	languages   entities.LanguageTable
	notifier    domain.Notifier
	sagaManager *saga.Manager[*translation.State]
	definition  saga.SagaDefinition[*translation.State]
	deps        translation.Dependencies
	device      sync.Mutex
	running     atomic.Bool
	wg          sync.WaitGroup
	logger      *zap.Logger
}

// NewTranslationService creates a new translation service
func NewTranslationService(
	languages entities.LanguageTable,
	deps translation.Dependencies,
	notifier domain.Notifier,
	config Config,
	logger *zap.Logger,
) *TranslationService {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultConfig().PollInterval
	}
	if config.ReleaseGrace < 0 {
		config.ReleaseGrace = 0
	}

	s := &TranslationService{
		languages:   languages,
		notifier:    notifier,
		sagaManager: saga.NewManager[*translation.State](logger, translation.EventLogger(logger)),
		deps:        deps,
		logger:      logger,
	}
	s.definition = translation.NewTranslationSagaDefinition(deps, &s.device, config.PollInterval, config.ReleaseGrace, logger)
	return s
}

// Languages returns the supported target languages
func (s *TranslationService) Languages() entities.LanguageTable {
	return s.languages
}

// Start validates the target and launches a run in the background.
// It must be called from the interactive thread and never blocks on the pipeline.
// An empty or unknown code yields a validation *domain.Error and starts nothing.
func (s *TranslationService) Start(ctx context.Context, targetLanguageCode string) (string, error) {
	target, err := s.languages.Lookup(targetLanguageCode)
	if err != nil {
		return "", domain.NewError(domain.KindValidation, "start", err)
	}

	if !s.running.CompareAndSwap(false, true) {
		return "", ErrRunInProgress
	}

	req := entities.TranslationRequest{
		RunID:       uuid.NewString(),
		Target:      target,
		RequestedAt: time.Now(),
	}

	s.logger.Info("Starting translation",
		zap.String("runID", req.RunID),
		zap.String("target", target.Code))

	s.wg.Add(1)
	go s.execute(ctx, req)

	return req.RunID, nil
}

// Running reports whether a run is outstanding
func (s *TranslationService) Running() bool {
	return s.running.Load()
}

// Wait blocks until the outstanding run, if any, has finished
func (s *TranslationService) Wait() {
	s.wg.Wait()
}

// ProbeDevice initializes and releases the audio device once, as a startup check
func (s *TranslationService) ProbeDevice() error {
	s.device.Lock()
	defer s.device.Unlock()

	if err := s.deps.Player.Init(); err != nil {
		return fmt.Errorf("failed to initialize audio device: %w", err)
	}
	return s.deps.Player.Quit()
}

func (s *TranslationService) execute(ctx context.Context, req entities.TranslationRequest) {
	defer s.wg.Done()
	defer s.running.Store(false)

	run := entities.NewRun(req)
	state := translation.NewState(run, s.notifier)

	instance := s.sagaManager.Execute(ctx, s.definition, saga.SagaID(req.RunID), state)

	if instance.Err == nil {
		if err := state.Advance(entities.RunStateDone); err != nil {
			s.logger.Error("Failed to complete run", zap.String("runID", run.ID), zap.Error(err))
		}
	} else {
		s.fail(run, instance)
	}
	run.CleanupErr = state.CleanupErr

	s.logger.Info("Translation finished",
		zap.String("runID", run.ID),
		zap.String("state", string(run.State)),
		zap.Duration("elapsed", run.Elapsed()),
		zap.Bool("cleanupFailed", run.CleanupErr != nil))

	s.running.Store(false)
	s.notifier.Notify(domain.RunFinished{Run: *run})
}

// fail reports a failed run as an error notification followed by a status line
func (s *TranslationService) fail(run *entities.Run, instance saga.SagaInstance) {
	var derr *domain.Error
	if !errors.As(instance.Err, &derr) {
		derr = domain.NewError(translation.KindForStep(instance.FailedStep), string(instance.FailedStep), instance.Err)
	}

	if err := run.Fail(derr); err != nil {
		s.logger.Error("Failed to mark run as failed", zap.String("runID", run.ID), zap.Error(err))
	}

	s.logger.Warn("Translation failed",
		zap.String("runID", run.ID),
		zap.String("kind", string(derr.Kind)),
		zap.String("step", string(instance.FailedStep)),
		zap.Error(derr.Err))

	s.notifier.Notify(domain.ErrorRaised{
		RunID:   run.ID,
		Kind:    derr.Kind,
		Title:   derr.Title(),
		Message: derr.UserMessage(),
	})
	s.notifier.Notify(domain.StatusChanged{
		RunID: run.ID,
		State: entities.RunStateFailed,
		Text:  derr.Status(),
	})
}
