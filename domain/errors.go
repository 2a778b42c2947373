package domain

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline failures for display and handling
type Kind string

const (
	KindValidation         Kind = "validation"
	KindCapture            Kind = "capture"
	KindUnrecognizedSpeech Kind = "unrecognized_speech"
	KindRecognitionService Kind = "recognition_service"
	KindTranslation        Kind = "translation"
	KindSynthesis          Kind = "synthesis"
	KindPlayback           Kind = "playback"
	KindCleanup            Kind = "cleanup"
)

// Error is a classified pipeline error
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// NewError wraps err with a kind and the operation that produced it
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Title is the heading of the error notification
func (e *Error) Title() string {
	switch e.Kind {
	case KindValidation:
		return "Invalid Selection"
	case KindCapture:
		return "Microphone Error"
	case KindUnrecognizedSpeech:
		return "Speech Error"
	case KindRecognitionService:
		return "Network Error"
	case KindTranslation:
		return "Translation Error"
	case KindSynthesis:
		return "TTS Error"
	case KindPlayback:
		return "Playback Error"
	default:
		return "Error"
	}
}

// UserMessage is the body of the error notification
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindValidation:
		return "Please select a target language."
	case KindCapture:
		return fmt.Sprintf("Could not capture audio: %v", e.Err)
	case KindUnrecognizedSpeech:
		return "Could not understand audio."
	case KindRecognitionService:
		return "Check your network connection."
	case KindTranslation:
		return TranslationErrorText(e.Err)
	case KindSynthesis:
		return fmt.Sprintf("An error occurred during TTS: %v", e.Err)
	case KindPlayback:
		return fmt.Sprintf("An error occurred during playback: %v", e.Err)
	default:
		return e.Error()
	}
}

// Status is the status line shown after the run terminated with this error
func (e *Error) Status() string {
	switch e.Kind {
	case KindValidation:
		return "Please select a target language."
	case KindCapture:
		return "Audio capture failed."
	case KindUnrecognizedSpeech, KindRecognitionService:
		return "Speech recognition failed."
	case KindSynthesis:
		return "Text-to-speech failed."
	case KindPlayback:
		return "Playback failed."
	default:
		return "Translation failed."
	}
}

// TranslationErrorText is the text displayed and spoken in place of a failed translation
func TranslationErrorText(err error) string {
	return fmt.Sprintf("Translation Error: %v", err)
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}
