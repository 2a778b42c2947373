package mock

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/jurubahasa/domain/entities"
	"github.com/satriahrh/jurubahasa/domain/repositories"
)

func TestSpeechToTextBySize(t *testing.T) {
	stt := NewSpeechToText(zaptest.NewLogger(t))
	ctx := context.Background()

	got, err := stt.Transcribe(ctx, entities.AudioSample{Data: make([]byte, 32000)})
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Text)

	_, err = stt.Transcribe(ctx, entities.AudioSample{})
	assert.ErrorIs(t, err, repositories.ErrUnrecognizedSpeech)
	assert.Equal(t, 2, stt.Calls())
}

func TestTranslatorPhraseBook(t *testing.T) {
	tr := NewTranslator(zaptest.NewLogger(t))
	ctx := context.Background()

	got, err := tr.Translate(ctx, "Hello", entities.Language{Name: "French", Code: "fr"})
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", got.Text)

	got, err = tr.Translate(ctx, "Thanks", entities.Language{Name: "Tamil", Code: "ta"})
	require.NoError(t, err)
	assert.Equal(t, "[ta] Thanks", got.Text)

	assert.Equal(t, []string{"fr", "ta"}, tr.Calls())
}

func TestTextToSpeechPartialWrite(t *testing.T) {
	tts := NewTextToSpeech(zaptest.NewLogger(t))
	tts.Err = errors.New("connection reset")
	tts.PartialWrite = true

	dst := filepath.Join(t.TempDir(), "out.mp3")
	err := tts.Synthesize(context.Background(), "Bonjour", entities.Language{Code: "fr"}, dst)
	assert.Error(t, err)

	_, statErr := os.Stat(dst)
	assert.NoError(t, statErr)
}

func TestPlayerBusyPolls(t *testing.T) {
	player := NewPlayer(zaptest.NewLogger(t))
	dst := filepath.Join(t.TempDir(), "out.mp3")
	require.NoError(t, os.WriteFile(dst, []byte("ID3"), 0o600))

	require.NoError(t, player.Init())
	require.NoError(t, player.Load(dst))
	require.NoError(t, player.Play())

	polls := 0
	for player.Busy() {
		polls++
	}
	assert.Equal(t, 3, polls)

	require.NoError(t, player.Stop())
	require.NoError(t, player.Quit())
	assert.Equal(t, []string{"init", "load", "play", "stop", "quit"}, player.Ops())
	assert.Equal(t, 1, player.MaxActive())
}
