package mock

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/jurubahasa/domain/entities"
	"github.com/satriahrh/jurubahasa/domain/repositories"
)

// Capture returns a canned utterance instead of recording
type Capture struct {
	Sample entities.AudioSample
	Err    error
	Delay  time.Duration

	logger *zap.Logger
	mu     sync.Mutex
	calls  int
}

var _ repositories.AudioCapture = (*Capture)(nil)

// NewCapture creates a capture returning one second of silence-sized PCM
func NewCapture(logger *zap.Logger) *Capture {
	return &Capture{
		Sample: entities.AudioSample{Data: make([]byte, 32000), SampleRate: 16000, Encoding: "LINEAR16"},
		logger: logger,
	}
}

// Capture implements repositories.AudioCapture
func (c *Capture) Capture(ctx context.Context) (entities.AudioSample, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	if c.Delay > 0 {
		select {
		case <-time.After(c.Delay):
		case <-ctx.Done():
			return entities.AudioSample{}, ctx.Err()
		}
	}

	if c.Err != nil {
		return entities.AudioSample{}, c.Err
	}

	c.logger.Info("Mock utterance captured", zap.Int("audioSize", len(c.Sample.Data)))
	return c.Sample, nil
}

// Calls returns how many times Capture was invoked
func (c *Capture) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}
