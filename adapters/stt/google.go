package stt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/googleapis/gax-go/v2"
	"go.uber.org/zap"

	"github.com/satriahrh/jurubahasa/domain/entities"
	"github.com/satriahrh/jurubahasa/domain/repositories"
)

const (
	defaultLanguageCode = "en-US"
	defaultModel        = "default"
)

// GoogleConfig holds configuration for the Google Cloud recognizer.
// LanguageCode is the expected source language; AlternativeLanguageCodes
// lets the service pick a better match among up to three more.
// Timeout bounds each recognize call; zero leaves the client default.
type GoogleConfig struct {
	LanguageCode             string        `env:"LANGUAGE_CODE" envDefault:"en-US"`
	AlternativeLanguageCodes []string      `env:"ALTERNATIVE_LANGUAGE_CODES" envSeparator:","`
	Model                    string        `env:"MODEL"`
	EnablePunctuation        bool          `env:"ENABLE_PUNCTUATION" envDefault:"true"`
	Timeout                  time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// ValidateGoogleConfig validates the GoogleConfig
func ValidateGoogleConfig(config GoogleConfig) error {
	if config.Timeout < 0 {
		return errors.New("timeout cannot be negative")
	}
	if len(config.AlternativeLanguageCodes) > 3 {
		return fmt.Errorf("at most 3 alternative language codes are allowed, got %d", len(config.AlternativeLanguageCodes))
	}
	for _, code := range config.AlternativeLanguageCodes {
		if strings.TrimSpace(code) == "" {
			return errors.New("alternative language codes cannot be empty")
		}
	}
	return nil
}

// recognizeClient is the part of speech.Client used by the recognizer
type recognizeClient interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest, opts ...gax.CallOption) (*speechpb.RecognizeResponse, error)
	Close() error
}

// GoogleSpeechToText implements SpeechToText for Google Cloud
type GoogleSpeechToText struct {
	client       recognizeClient
	languageCode string
	alternatives []string
	model        string
	punctuation  bool
	callOpts     []gax.CallOption
	logger       *zap.Logger
}

var _ repositories.SpeechToText = (*GoogleSpeechToText)(nil)

// NewGoogleSpeechToText dials Google Cloud Speech using application default credentials
func NewGoogleSpeechToText(ctx context.Context, config GoogleConfig, logger *zap.Logger) (*GoogleSpeechToText, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	g, err := newGoogleSpeechToText(client, config, logger)
	if err != nil {
		client.Close()
		return nil, err
	}
	return g, nil
}

func newGoogleSpeechToText(client recognizeClient, config GoogleConfig, logger *zap.Logger) (*GoogleSpeechToText, error) {
	if err := ValidateGoogleConfig(config); err != nil {
		return nil, err
	}

	languageCode := config.LanguageCode
	if languageCode == "" {
		languageCode = defaultLanguageCode
		logger.Info("Using default language code", zap.String("languageCode", languageCode))
	}

	model := config.Model
	if model == "" {
		model = defaultModel
		logger.Info("Using default recognition model", zap.String("model", model))
	}

	var callOpts []gax.CallOption
	if config.Timeout > 0 {
		callOpts = append(callOpts, gax.WithTimeout(config.Timeout))
	}

	return &GoogleSpeechToText{
		client:       client,
		languageCode: languageCode,
		alternatives: config.AlternativeLanguageCodes,
		model:        model,
		punctuation:  config.EnablePunctuation,
		callOpts:     callOpts,
		logger:       logger,
	}, nil
}

// Transcribe converts one utterance to text using synchronous recognition
func (g *GoogleSpeechToText) Transcribe(ctx context.Context, sample entities.AudioSample) (entities.RecognizedUtterance, error) {
	if len(sample.Data) == 0 {
		return entities.RecognizedUtterance{}, repositories.ErrUnrecognizedSpeech
	}

	encoding, err := getAudioEncoding(sample.Encoding)
	if err != nil {
		return entities.RecognizedUtterance{}, fmt.Errorf("unsupported audio encoding: %w", err)
	}

	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   encoding,
			SampleRateHertz:            int32(sample.SampleRate),
			LanguageCode:               g.languageCode,
			AlternativeLanguageCodes:   g.alternatives,
			Model:                      g.model,
			EnableAutomaticPunctuation: g.punctuation,
			MaxAlternatives:            1,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: sample.Data},
		},
	}

	g.logger.Debug("Sending recognize request",
		zap.Int("audioSize", len(sample.Data)),
		zap.Int("sampleRate", sample.SampleRate),
		zap.String("languageCode", g.languageCode))

	resp, err := g.client.Recognize(ctx, req, g.callOpts...)
	if err != nil {
		return entities.RecognizedUtterance{}, fmt.Errorf("failed to recognize speech: %w", err)
	}

	utterance, ok := bestTranscript(resp)
	if !ok {
		return entities.RecognizedUtterance{}, repositories.ErrUnrecognizedSpeech
	}
	if utterance.LanguageCode == "" {
		utterance.LanguageCode = g.languageCode
	}

	g.logger.Info("Speech recognized",
		zap.String("text", utterance.Text),
		zap.String("languageCode", utterance.LanguageCode),
		zap.Float32("confidence", utterance.Confidence))

	return utterance, nil
}

// Close releases the underlying client
func (g *GoogleSpeechToText) Close() error {
	return g.client.Close()
}

// bestTranscript joins the top alternative of every result
func bestTranscript(resp *speechpb.RecognizeResponse) (entities.RecognizedUtterance, bool) {
	if resp == nil {
		return entities.RecognizedUtterance{}, false
	}

	var (
		parts      []string
		confidence float32
		language   string
		counted    int
	)
	for _, result := range resp.GetResults() {
		alternatives := result.GetAlternatives()
		if len(alternatives) == 0 {
			continue
		}
		transcript := strings.TrimSpace(alternatives[0].GetTranscript())
		if transcript == "" {
			continue
		}
		parts = append(parts, transcript)
		confidence += alternatives[0].GetConfidence()
		counted++
		if language == "" {
			language = result.GetLanguageCode()
		}
	}

	if counted == 0 {
		return entities.RecognizedUtterance{}, false
	}

	return entities.RecognizedUtterance{
		Text:         strings.Join(parts, " "),
		LanguageCode: language,
		Confidence:   confidence / float32(counted),
	}, true
}

// getAudioEncoding converts string encoding to Google Speech API enum
func getAudioEncoding(encoding string) (speechpb.RecognitionConfig_AudioEncoding, error) {
	switch encoding {
	case "WAV", "LINEAR16", "":
		return speechpb.RecognitionConfig_LINEAR16, nil
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC, nil
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW, nil
	case "AMR":
		return speechpb.RecognitionConfig_AMR, nil
	case "AMR_WB":
		return speechpb.RecognitionConfig_AMR_WB, nil
	case "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS, nil
	case "SPEEX_WITH_HEADER_BYTE":
		return speechpb.RecognitionConfig_SPEEX_WITH_HEADER_BYTE, nil
	case "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS, nil
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, fmt.Errorf("unsupported encoding: %s", encoding)
	}
}
