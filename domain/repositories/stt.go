package repositories

import (
	"context"
	"errors"

	"github.com/satriahrh/jurubahasa/domain/entities"
)

// ErrUnrecognizedSpeech is returned when the audio contained no intelligible speech
var ErrUnrecognizedSpeech = errors.New("speech not recognized")

// SpeechToText abstracts speech recognition services
type SpeechToText interface {
	// Transcribe converts one captured utterance to text
	Transcribe(ctx context.Context, sample entities.AudioSample) (entities.RecognizedUtterance, error)
}
