package dispatch

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/satriahrh/jurubahasa/domain"
)

// Loop is a FIFO queue of display updates drained by a single goroutine.
// Notify never blocks, so a worker can report while the loop is busy.
type Loop struct {
	mu     sync.Mutex
	queue  []domain.DisplayUpdate
	ready  chan struct{}
	closed bool
	logger *zap.Logger
}

var _ domain.Notifier = (*Loop)(nil)

// NewLoop creates an empty loop
func NewLoop(logger *zap.Logger) *Loop {
	return &Loop{
		ready:  make(chan struct{}, 1),
		logger: logger,
	}
}

// Notify enqueues an update. Updates sent after Close are dropped.
func (l *Loop) Notify(update domain.DisplayUpdate) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.logger.Debug("Dropping display update after close")
		return
	}
	l.queue = append(l.queue, update)
	l.mu.Unlock()

	select {
	case l.ready <- struct{}{}:
	default:
	}
}

// Close stops accepting updates; Run drains what is queued and returns
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	select {
	case l.ready <- struct{}{}:
	default:
	}
}

// Run applies queued updates in order on the calling goroutine until apply
// returns false, the loop is closed and drained, or ctx is done.
func (l *Loop) Run(ctx context.Context, apply func(domain.DisplayUpdate) bool) error {
	for {
		l.mu.Lock()
		pending := l.queue
		l.queue = nil
		closed := l.closed
		l.mu.Unlock()

		for i, update := range pending {
			if !apply(update) {
				l.requeue(pending[i+1:])
				return nil
			}
		}
		if closed && len(pending) == 0 {
			return nil
		}
		if len(pending) > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.ready:
		}
	}
}

// requeue puts unapplied updates back in front of anything queued since
func (l *Loop) requeue(rest []domain.DisplayUpdate) {
	if len(rest) == 0 {
		return
	}
	l.mu.Lock()
	l.queue = append(append([]domain.DisplayUpdate(nil), rest...), l.queue...)
	l.mu.Unlock()

	select {
	case l.ready <- struct{}{}:
	default:
	}
}
