package repositories

import (
	"context"

	"github.com/satriahrh/jurubahasa/domain/entities"
)

// AudioCapture records a single utterance from an input device
type AudioCapture interface {
	Capture(ctx context.Context) (entities.AudioSample, error)
}

// AudioPlayer controls an output device for one file at a time.
// Init must be called before Load, and Quit releases the device.
type AudioPlayer interface {
	Init() error
	Load(path string) error
	Play() error
	Busy() bool
	Stop() error
	Quit() error
}
