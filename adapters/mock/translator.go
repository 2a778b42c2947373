package mock

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/satriahrh/jurubahasa/domain/entities"
	"github.com/satriahrh/jurubahasa/domain/repositories"
)

// Translator translates from a small phrase book keyed by target code.
// Unknown phrases come back tagged with the target code.
type Translator struct {
	Phrases map[string]map[string]string
	Err     error

	logger *zap.Logger
	mu     sync.Mutex
	calls  []string
}

var _ repositories.Translator = (*Translator)(nil)

// NewTranslator creates a translator with a few demo phrases
func NewTranslator(logger *zap.Logger) *Translator {
	return &Translator{
		Phrases: map[string]map[string]string{
			"fr":    {"Hello": "Bonjour", "Hi": "Salut"},
			"es":    {"Hello": "Hola", "Hi": "Hola"},
			"de":    {"Hello": "Hallo", "Hi": "Hallo"},
			"it":    {"Hello": "Ciao", "Hi": "Ciao"},
			"hi":    {"Hello": "नमस्ते"},
			"ja":    {"Hello": "こんにちは"},
			"zh-cn": {"Hello": "你好"},
			"ko":    {"Hello": "안녕하세요"},
			"ru":    {"Hello": "Привет"},
			"ar":    {"Hello": "مرحبا"},
		},
		logger: logger,
	}
}

// Translate implements repositories.Translator
func (t *Translator) Translate(ctx context.Context, text string, target entities.Language) (entities.TranslatedText, error) {
	t.mu.Lock()
	t.calls = append(t.calls, target.Code)
	t.mu.Unlock()

	if t.Err != nil {
		return entities.TranslatedText{}, t.Err
	}

	translated, ok := t.Phrases[target.Code][text]
	if !ok {
		translated = fmt.Sprintf("[%s] %s", target.Code, text)
	}

	t.logger.Info("Mock translation", zap.String("target", target.Code), zap.String("text", translated))
	return entities.TranslatedText{Text: translated, TargetCode: target.Code}, nil
}

// Calls returns the target codes of every Translate call
func (t *Translator) Calls() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.calls...)
}
