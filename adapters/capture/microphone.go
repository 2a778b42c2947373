package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/jurubahasa/domain/entities"
	"github.com/satriahrh/jurubahasa/domain/repositories"
)

// Config holds microphone and speech detection settings
type Config struct {
	Command             string        `env:"COMMAND"`
	Args                []string      `env:"ARGS" envSeparator:" "`
	SampleRate          int           `env:"SAMPLE_RATE" envDefault:"16000"`
	FrameSize           int           `env:"FRAME_SIZE" envDefault:"1024"`
	EnergyThreshold     float64       `env:"ENERGY_THRESHOLD" envDefault:"300"`
	MinEnergyThreshold  float64       `env:"MIN_ENERGY_THRESHOLD" envDefault:"1"`
	DynamicEnergy       bool          `env:"DYNAMIC_ENERGY" envDefault:"true"`
	DynamicDamping      float64       `env:"DYNAMIC_DAMPING" envDefault:"0.15"`
	DynamicRatio        float64       `env:"DYNAMIC_RATIO" envDefault:"1.5"`
	CalibrationDuration time.Duration `env:"CALIBRATION_DURATION" envDefault:"1s"`
	PauseThreshold      time.Duration `env:"PAUSE_THRESHOLD" envDefault:"800ms"`
	MinPhrase           time.Duration `env:"MIN_PHRASE" envDefault:"300ms"`
	PreRoll             time.Duration `env:"PRE_ROLL" envDefault:"500ms"`
	ListenTimeout       time.Duration `env:"LISTEN_TIMEOUT"`
	PhraseTimeLimit     time.Duration `env:"PHRASE_TIME_LIMIT"`
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() Config {
	return Config{
		SampleRate:          16000,
		FrameSize:           1024,
		EnergyThreshold:     300,
		MinEnergyThreshold:  1,
		DynamicEnergy:       true,
		DynamicDamping:      0.15,
		DynamicRatio:        1.5,
		CalibrationDuration: time.Second,
		PauseThreshold:      800 * time.Millisecond,
		MinPhrase:           300 * time.Millisecond,
		PreRoll:             500 * time.Millisecond,
	}
}

// ValidateConfig validates the capture Config
func ValidateConfig(config Config) error {
	if config.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", config.SampleRate)
	}
	if config.FrameSize <= 0 {
		return fmt.Errorf("frame size must be positive, got %d", config.FrameSize)
	}
	if config.DynamicDamping <= 0 || config.DynamicDamping >= 1 {
		return fmt.Errorf("dynamic damping must be between 0 and 1, got %f", config.DynamicDamping)
	}
	if config.DynamicRatio < 1 {
		return fmt.Errorf("dynamic ratio must be at least 1, got %f", config.DynamicRatio)
	}
	if config.PauseThreshold <= 0 {
		return errors.New("pause threshold must be positive")
	}
	if config.PreRoll > config.PauseThreshold {
		return fmt.Errorf("pre-roll %s must not exceed pause threshold %s", config.PreRoll, config.PauseThreshold)
	}
	return nil
}

// Microphone implements AudioCapture over a PCM Source
type Microphone struct {
	source Source
	config Config
	logger *zap.Logger
}

var _ repositories.AudioCapture = (*Microphone)(nil)

// NewMicrophone creates a microphone capturing from source
func NewMicrophone(source Source, config Config, logger *zap.Logger) (*Microphone, error) {
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}
	return &Microphone{source: source, config: config, logger: logger}, nil
}

// Capture calibrates to ambient noise, then records a single phrase
func (m *Microphone) Capture(ctx context.Context) (entities.AudioSample, error) {
	stream, err := m.source.Open(ctx, m.config.SampleRate)
	if err != nil {
		return entities.AudioSample{}, fmt.Errorf("failed to open audio source: %w", err)
	}
	defer stream.Close()

	// The detector blocks on Read; closing the stream unblocks it on cancel
	stop := context.AfterFunc(ctx, func() { stream.Close() })
	defer stop()

	d := newDetector(m.config)
	if err := d.calibrate(stream); err != nil && !errors.Is(err, io.EOF) {
		return entities.AudioSample{}, m.captureErr(ctx, "calibrate", err)
	}
	m.logger.Debug("Calibrated for ambient noise", zap.Float64("energyThreshold", d.threshold))

	data, err := d.listen(stream)
	if err != nil {
		return entities.AudioSample{}, m.captureErr(ctx, "listen", err)
	}

	sample := entities.AudioSample{
		Data:       data,
		SampleRate: m.config.SampleRate,
		Encoding:   "LINEAR16",
	}
	m.logger.Info("Utterance captured",
		zap.Duration("duration", sample.Duration()),
		zap.Float64("energyThreshold", d.threshold))

	return sample, nil
}

func (m *Microphone) captureErr(ctx context.Context, stage string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", stage, ctxErr)
	}
	return fmt.Errorf("%s: %w", stage, err)
}
