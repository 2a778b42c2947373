package mock

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/satriahrh/jurubahasa/domain/entities"
	"github.com/satriahrh/jurubahasa/domain/repositories"
)

// SynthesisCall records one Synthesize invocation
type SynthesisCall struct {
	Text     string
	Language string
	Path     string
}

// TextToSpeech writes a small fake mp3 to the destination path.
// With PartialWrite set, Err is returned after the file was written.
type TextToSpeech struct {
	Err          error
	PartialWrite bool

	logger *zap.Logger
	mu     sync.Mutex
	calls  []SynthesisCall
}

var _ repositories.TextToSpeech = (*TextToSpeech)(nil)

// NewTextToSpeech creates a new mock text-to-speech service
func NewTextToSpeech(logger *zap.Logger) *TextToSpeech {
	return &TextToSpeech{logger: logger}
}

// Synthesize implements repositories.TextToSpeech
func (s *TextToSpeech) Synthesize(ctx context.Context, text string, lang entities.Language, dst string) error {
	s.mu.Lock()
	s.calls = append(s.calls, SynthesisCall{Text: text, Language: lang.Code, Path: dst})
	s.mu.Unlock()

	if s.Err != nil && !s.PartialWrite {
		return s.Err
	}

	if err := os.WriteFile(dst, []byte("ID3mock:"+text), 0o600); err != nil {
		return fmt.Errorf("failed to write audio: %w", err)
	}
	s.logger.Info("Mock speech synthesized", zap.String("path", dst), zap.String("language", lang.Code))

	return s.Err
}

// Calls returns every Synthesize invocation
func (s *TextToSpeech) Calls() []SynthesisCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SynthesisCall(nil), s.calls...)
}
