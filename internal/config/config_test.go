package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "jurubahasa.log", cfg.Log.File)
	assert.Equal(t, 16000, cfg.Capture.SampleRate)
	assert.Equal(t, 800*time.Millisecond, cfg.Capture.PauseThreshold)
	assert.Equal(t, 0.15, cfg.Capture.DynamicDamping)
	assert.Equal(t, "en-US", cfg.GoogleSpeech.LanguageCode)
	assert.True(t, cfg.GoogleSpeech.EnablePunctuation)
	assert.Equal(t, 30*time.Second, cfg.GoogleSpeech.Timeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Pipeline.PollInterval)
	assert.Equal(t, 200*time.Millisecond, cfg.Pipeline.ReleaseGrace)
	assert.Equal(t, 300*time.Millisecond, cfg.Panel.FrameInterval)
	assert.Equal(t, "jurubahasa-tts-", cfg.TempAudio.Prefix)
	assert.Equal(t, time.Hour, cfg.TempAudio.MaxAge)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CAPTURE_ARGS", "-q -t raw")
	t.Setenv("GOOGLE_SPEECH_ALTERNATIVE_LANGUAGE_CODES", "id-ID,hi-IN")
	t.Setenv("PLAYBACK_POLL_INTERVAL", "50ms")
	t.Setenv("PLAYBACK_COMMAND", "mpg123")
	t.Setenv("PANEL_LANGUAGE", "fr")
	t.Setenv("ELEVEN_LABS_VOICE_ID", "voice-1")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"-q", "-t", "raw"}, cfg.Capture.Args)
	assert.Equal(t, []string{"id-ID", "hi-IN"}, cfg.GoogleSpeech.AlternativeLanguageCodes)
	assert.Equal(t, 50*time.Millisecond, cfg.Pipeline.PollInterval)
	assert.Equal(t, "mpg123", cfg.Playback.Command)
	assert.Equal(t, "fr", cfg.Panel.Language)
	assert.Equal(t, "voice-1", cfg.ElevenLabs.VoiceID)
}

func TestLoadEnvFile(t *testing.T) {
	const key = "GEMINI_MODEL"
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=gemini-test\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-test", cfg.Gemini.Model)
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"LOG_LEVEL":                 "loud",
		"PANEL_FRAME_INTERVAL":      "0s",
		"PLAYBACK_RELEASE_GRACE":    "-1s",
		"CAPTURE_DYNAMIC_DAMPING":   "2",
		"CAPTURE_SAMPLE_RATE":       "fast",
		"TEMP_AUDIO_SWEEP_INTERVAL": "often",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}

func TestNewLoggerToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.log")

	logger, err := NewLogger(LogConfig{Level: "info", File: path}, true)
	require.NoError(t, err)
	logger.Info("panel started")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "panel started")
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	_, err := NewLogger(LogConfig{Level: "loud"}, false)
	assert.Error(t, err)
}
