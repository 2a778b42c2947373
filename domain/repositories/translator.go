package repositories

import (
	"context"

	"github.com/satriahrh/jurubahasa/domain/entities"
)

// Translator abstracts any machine translation provider
type Translator interface {
	// Translate returns text rendered in the target language
	Translate(ctx context.Context, text string, target entities.Language) (entities.TranslatedText, error)
}
