package domain

import "github.com/satriahrh/jurubahasa/domain/entities"

// DisplayUpdate is a message from the worker to the interactive thread
type DisplayUpdate interface {
	displayUpdate()
}

// Notifier delivers display updates to the interactive thread in send order
type Notifier interface {
	Notify(update DisplayUpdate)
}

// StatusChanged updates the status line
type StatusChanged struct {
	RunID string
	State entities.RunState
	Text  string
}

// RecognizedTextReady fills the recognized text area
type RecognizedTextReady struct {
	RunID string
	Text  string
}

// TranslatedTextReady fills the translated text area
type TranslatedTextReady struct {
	RunID  string
	Text   string
	Failed bool
}

// ErrorRaised shows a modal error notification
type ErrorRaised struct {
	RunID   string
	Kind    Kind
	Title   string
	Message string
}

// RunFinished is the last update of every run
type RunFinished struct {
	Run entities.Run
}

func (StatusChanged) displayUpdate()       {}
func (RecognizedTextReady) displayUpdate() {}
func (TranslatedTextReady) displayUpdate() {}
func (ErrorRaised) displayUpdate()         {}
func (RunFinished) displayUpdate()         {}
