package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/satriahrh/jurubahasa/adapters/capture"
	"github.com/satriahrh/jurubahasa/adapters/playback"
	"github.com/satriahrh/jurubahasa/adapters/stt"
	"github.com/satriahrh/jurubahasa/adapters/translate"
	"github.com/satriahrh/jurubahasa/adapters/tts"
	"github.com/satriahrh/jurubahasa/internal/tempaudio"
	"github.com/satriahrh/jurubahasa/usecase"
)

// DefaultEnvFile is read when no env file is given
const DefaultEnvFile = ".env"

// Config is the complete application configuration, read from the environment
type Config struct {
	Demo         bool                   `env:"JURUBAHASA_DEMO"`
	Log          LogConfig              `envPrefix:"LOG_"`
	Capture      capture.Config         `envPrefix:"CAPTURE_"`
	GoogleSpeech stt.GoogleConfig       `envPrefix:"GOOGLE_SPEECH_"`
	Gemini       translate.GeminiConfig `envPrefix:"GEMINI_"`
	ElevenLabs   tts.ElevenLabsConfig   `envPrefix:"ELEVEN_LABS_"`
	Playback     playback.Config        `envPrefix:"PLAYBACK_"`
	Pipeline     usecase.Config         `envPrefix:"PLAYBACK_"`
	Panel        PanelConfig            `envPrefix:"PANEL_"`
	TempAudio    tempaudio.Config       `envPrefix:"TEMP_AUDIO_"`
}

// LogConfig selects the log level and, for the panel, the log file
type LogConfig struct {
	Level       string `env:"LEVEL" envDefault:"info"`
	File        string `env:"FILE" envDefault:"jurubahasa.log"`
	Development bool   `env:"DEVELOPMENT"`
}

// PanelConfig holds control panel settings
type PanelConfig struct {
	Language      string        `env:"LANGUAGE"`
	FrameInterval time.Duration `env:"FRAME_INTERVAL" envDefault:"300ms"`
	QuitGrace     time.Duration `env:"QUIT_GRACE" envDefault:"3s"`
}

// Load reads envFile into the process environment, then parses the configuration.
// A missing env file is not an error. Variables already set take precedence.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that no adapter constructor validates
func (c *Config) Validate() error {
	if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	if c.Panel.FrameInterval <= 0 {
		return fmt.Errorf("panel frame interval must be positive, got %s", c.Panel.FrameInterval)
	}
	if c.Pipeline.PollInterval <= 0 {
		return fmt.Errorf("playback poll interval must be positive, got %s", c.Pipeline.PollInterval)
	}
	if c.Pipeline.ReleaseGrace < 0 {
		return fmt.Errorf("playback release grace must not be negative, got %s", c.Pipeline.ReleaseGrace)
	}
	if err := capture.ValidateConfig(c.Capture); err != nil {
		return fmt.Errorf("invalid capture configuration: %w", err)
	}
	return nil
}
