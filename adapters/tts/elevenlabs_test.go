package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/jurubahasa/domain/entities"
)

var chinese = entities.Language{Name: "Chinese", Code: "zh-cn"}

func TestNewElevenLabsTTS(t *testing.T) {
	logger := zaptest.NewLogger(t)

	_, err := NewElevenLabsTTS(ElevenLabsConfig{}, logger)
	if err == nil {
		t.Error("Expected error when API key is not set")
	}

	tts, err := NewElevenLabsTTS(ElevenLabsConfig{APIKey: "test-api-key"}, logger)
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	if tts.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", tts.apiKey)
	}

	if tts.voiceID != defaultVoiceID {
		t.Errorf("Expected default voice ID '%s', got '%s'", defaultVoiceID, tts.voiceID)
	}

	if tts.outputFormat != defaultOutputFormat {
		t.Errorf("Expected default output format '%s', got '%s'", defaultOutputFormat, tts.outputFormat)
	}
}

func TestValidateElevenLabsConfig(t *testing.T) {
	assert.Error(t, ValidateElevenLabsConfig(ElevenLabsConfig{APIKey: "k", Stability: 2}))
	assert.Error(t, ValidateElevenLabsConfig(ElevenLabsConfig{APIKey: "k", Clarity: -1}))
	assert.Error(t, ValidateElevenLabsConfig(ElevenLabsConfig{APIKey: "k", OutputFormat: "pcm_24000"}))
	assert.NoError(t, ValidateElevenLabsConfig(ElevenLabsConfig{APIKey: "k", OutputFormat: "mp3_22050_32"}))
}

func TestElevenLabsTTS_ConfiguredVoice(t *testing.T) {
	tts, err := NewElevenLabsTTS(ElevenLabsConfig{
		APIKey:    "test-api-key",
		VoiceID:   "new-voice-id",
		Stability: 0.8,
		Clarity:   0.9,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, 0.8, tts.stability)
	assert.Equal(t, 0.9, tts.clarity)
	assert.Equal(t, "new-voice-id", tts.voiceID)
}

func TestElevenLabsTTS_Synthesize(t *testing.T) {
	var got ElevenLabsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/text-to-speech/voice-1", r.URL.Path)
		assert.Equal(t, defaultOutputFormat, r.URL.Query().Get("output_format"))
		assert.Equal(t, "test-api-key", r.Header.Get("xi-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3fake-mp3"))
	}))
	defer server.Close()

	tts, err := NewElevenLabsTTS(ElevenLabsConfig{
		APIKey:     "test-api-key",
		APIBaseURL: server.URL + "/",
		VoiceID:    "voice-1",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	dst := filepath.Join(t.TempDir(), "out.mp3")
	require.NoError(t, tts.Synthesize(context.Background(), "你好", chinese, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "ID3fake-mp3", string(data))

	assert.Equal(t, "你好", got.Text)
	assert.Equal(t, "zh", got.LanguageCode)
	assert.Equal(t, defaultModelID, got.ModelID)
}

func TestElevenLabsTTS_SynthesizeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"quota_exceeded"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	tts, err := NewElevenLabsTTS(ElevenLabsConfig{APIKey: "k", APIBaseURL: server.URL}, zaptest.NewLogger(t))
	require.NoError(t, err)

	dst := filepath.Join(t.TempDir(), "out.mp3")
	err = tts.Synthesize(context.Background(), "hello", chinese, dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr), "no file should be created on API error")
}

func TestElevenLabsTTS_SynthesizeEmptyText(t *testing.T) {
	tts, err := NewElevenLabsTTS(ElevenLabsConfig{APIKey: "k"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx := context.Background()
	assert.Error(t, tts.Synthesize(ctx, "", chinese, "unused"))
	assert.Error(t, tts.Synthesize(ctx, "   ", chinese, "unused"))
}

// Integration test - only runs if ELEVEN_LABS_API_KEY is set with real API key
func TestElevenLabsTTS_Synthesize_Integration(t *testing.T) {
	apiKey := os.Getenv("ELEVEN_LABS_API_KEY")
	if apiKey == "" || apiKey == "test-api-key" {
		t.Skip("Skipping integration test - set ELEVEN_LABS_API_KEY environment variable with real API key")
	}

	tts, err := NewElevenLabsTTS(ElevenLabsConfig{APIKey: apiKey}, zaptest.NewLogger(t))
	require.NoError(t, err)

	dst := filepath.Join(t.TempDir(), "integration.mp3")
	err = tts.Synthesize(context.Background(), "Bonjour tout le monde", entities.Language{Name: "French", Code: "fr"}, dst)
	require.NoError(t, err)

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}
