package tempaudio

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper removes stale audio left behind by runs that never reached cleanup
type Sweeper struct {
	store    *Store
	maxAge   time.Duration
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// NewSweeper creates a new sweeper
func NewSweeper(store *Store, maxAge, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		store:    store,
		maxAge:   maxAge,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start runs one sweep immediately, then keeps sweeping in the background
func (s *Sweeper) Start() {
	s.runSweep()

	if s.interval <= 0 {
		return
	}
	s.wg.Add(1)
	go s.sweepLoop()
	s.logger.Debug("Temp audio sweeper started", zap.Duration("interval", s.interval))
}

// Stop stops the background loop and waits for it to exit
func (s *Sweeper) Stop() {
	s.once.Do(func() { close(s.stopChan) })
	s.wg.Wait()
}

func (s *Sweeper) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runSweep()
		}
	}
}

func (s *Sweeper) runSweep() {
	removed, err := s.store.Sweep(s.maxAge)
	if err != nil {
		s.logger.Error("Failed to sweep temporary audio", zap.Error(err))
	}
	if removed > 0 {
		s.logger.Info("Removed stale temporary audio", zap.Int("count", removed))
	}
}
