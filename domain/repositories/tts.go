package repositories

import (
	"context"

	"github.com/satriahrh/jurubahasa/domain/entities"
)

// TextToSpeech writes spoken audio for text into dst
type TextToSpeech interface {
	Synthesize(ctx context.Context, text string, lang entities.Language, dst string) error
}
