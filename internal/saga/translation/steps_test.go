package translation

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/jurubahasa/adapters/mock"
	"github.com/satriahrh/jurubahasa/domain"
	"github.com/satriahrh/jurubahasa/domain/entities"
	"github.com/satriahrh/jurubahasa/internal/tempaudio"
)

type recorder struct {
	mu      sync.Mutex
	updates []domain.DisplayUpdate
}

func (r *recorder) Notify(update domain.DisplayUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, update)
}

func newTestState(notifier domain.Notifier) *State {
	run := entities.NewRun(entities.TranslationRequest{
		RunID:  "run-1",
		Target: entities.Language{Name: "French", Code: "fr"},
	})
	return NewState(run, notifier)
}

func TestKindForStep(t *testing.T) {
	assert.Equal(t, domain.KindCapture, KindForStep(StepCapture))
	assert.Equal(t, domain.KindRecognitionService, KindForStep(StepRecognize))
	assert.Equal(t, domain.KindTranslation, KindForStep(StepTranslate))
	assert.Equal(t, domain.KindSynthesis, KindForStep(StepSynthesize))
	assert.Equal(t, domain.KindPlayback, KindForStep(StepPlay))
}

func TestStateAdvanceNotifies(t *testing.T) {
	rec := &recorder{}
	state := newTestState(rec)

	require.NoError(t, state.Advance(entities.RunStateListening))
	assert.Error(t, state.Advance(entities.RunStateListening))

	require.Len(t, rec.updates, 1)
	assert.Equal(t, domain.StatusChanged{RunID: "run-1", State: entities.RunStateListening, Text: "Listening..."}, rec.updates[0])
}

func TestSynthesisCompensationReleasesOnce(t *testing.T) {
	logger := zaptest.NewLogger(t)
	removals := 0
	store, err := tempaudio.NewStore(tempaudio.Config{Dir: t.TempDir()}, logger,
		tempaudio.WithRemoveFunc(func(path string) error {
			removals++
			return os.Remove(path)
		}))
	require.NoError(t, err)

	state := newTestState(&recorder{})
	state.Run.Translated = entities.TranslatedText{Text: "Bonjour", TargetCode: "fr"}

	step := NewSynthesisStep(mock.NewTextToSpeech(logger), store, logger)
	result := step.Execute(context.Background(), state)
	require.True(t, result.Success)

	_, err = os.Stat(state.Audio.Path)
	require.NoError(t, err)

	require.NoError(t, step.Compensate(context.Background(), state))
	require.NoError(t, step.Compensate(context.Background(), state))
	assert.Equal(t, 1, removals)

	_, err = os.Stat(state.Audio.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.NoError(t, state.CleanupErr)
}

func TestTranslationStepFailSoft(t *testing.T) {
	logger := zaptest.NewLogger(t)
	translator := mock.NewTranslator(logger)
	translator.Err = errors.New("quota exceeded")

	rec := &recorder{}
	state := newTestState(rec)
	state.Run.Recognized = entities.RecognizedUtterance{Text: "Hello"}

	result := NewTranslationStep(translator, logger).Execute(context.Background(), state)
	require.True(t, result.Success)

	assert.Equal(t, entities.TranslatedText{Text: "Translation Error: quota exceeded", TargetCode: "fr", Failed: true}, state.Run.Translated)
	require.Len(t, rec.updates, 1)
	assert.Equal(t, domain.TranslatedTextReady{RunID: "run-1", Text: "Translation Error: quota exceeded", Failed: true}, rec.updates[0])
}
