package mock

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/satriahrh/jurubahasa/domain/entities"
	"github.com/satriahrh/jurubahasa/domain/repositories"
)

// SpeechToText is a placeholder implementation for speech recognition.
// When Text is empty the transcription depends on the audio size.
type SpeechToText struct {
	Text string
	Err  error

	logger *zap.Logger
	mu     sync.Mutex
	calls  int
}

var _ repositories.SpeechToText = (*SpeechToText)(nil)

// NewSpeechToText creates a new mock speech-to-text service
func NewSpeechToText(logger *zap.Logger) *SpeechToText {
	return &SpeechToText{logger: logger}
}

// Transcribe implements repositories.SpeechToText
func (s *SpeechToText) Transcribe(ctx context.Context, sample entities.AudioSample) (entities.RecognizedUtterance, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	s.logger.Info("Processing speech-to-text",
		zap.Int("audioSize", len(sample.Data)),
		zap.Int("sampleRate", sample.SampleRate),
		zap.String("encoding", sample.Encoding))

	if s.Err != nil {
		return entities.RecognizedUtterance{}, s.Err
	}

	text := s.Text
	if text == "" {
		// Mock transcription based on audio size
		switch {
		case len(sample.Data) > 64000:
			text = "Good morning, how are you today?"
		case len(sample.Data) > 16000:
			text = "Hello"
		case len(sample.Data) > 0:
			text = "Hi"
		default:
			return entities.RecognizedUtterance{}, repositories.ErrUnrecognizedSpeech
		}
	}

	return entities.RecognizedUtterance{Text: text, LanguageCode: "en-US", Confidence: 1}, nil
}

// Calls returns how many times Transcribe was invoked
func (s *SpeechToText) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
