package mock

import (
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/satriahrh/jurubahasa/domain/repositories"
)

// Player simulates an audio device. Busy reports true for BusyPolls calls
// after Play. Each *Err field makes the matching operation fail.
type Player struct {
	BusyPolls int
	InitErr   error
	LoadErr   error
	PlayErr   error
	StopErr   error
	QuitErr   error

	logger    *zap.Logger
	mu        sync.Mutex
	ops       []string
	remaining int
	loaded    string
	active    int
	maxActive int
}

var _ repositories.AudioPlayer = (*Player)(nil)

// NewPlayer creates a player that reports busy for a few polls
func NewPlayer(logger *zap.Logger) *Player {
	return &Player{BusyPolls: 3, logger: logger}
}

func (p *Player) record(op string) {
	p.ops = append(p.ops, op)
}

// Init implements repositories.AudioPlayer
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("init")
	if p.InitErr != nil {
		return p.InitErr
	}
	p.active++
	if p.active > p.maxActive {
		p.maxActive = p.active
	}
	return nil
}

// Load implements repositories.AudioPlayer; the file must exist
func (p *Player) Load(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("load")
	if p.LoadErr != nil {
		return p.LoadErr
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}
	p.loaded = path
	return nil
}

// Play implements repositories.AudioPlayer
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("play")
	if p.PlayErr != nil {
		return p.PlayErr
	}
	p.remaining = p.BusyPolls
	p.logger.Info("Mock playback started", zap.String("path", p.loaded))
	return nil
}

// Busy implements repositories.AudioPlayer
func (p *Player) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.remaining > 0 {
		p.remaining--
		return true
	}
	return false
}

// Stop implements repositories.AudioPlayer
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("stop")
	p.remaining = 0
	return p.StopErr
}

// Quit implements repositories.AudioPlayer
func (p *Player) Quit() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("quit")
	if p.active > 0 {
		p.active--
	}
	p.loaded = ""
	return p.QuitErr
}

// Ops returns the device operations in call order
func (p *Player) Ops() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.ops...)
}

// MaxActive returns the highest number of simultaneously initialized devices
func (p *Player) MaxActive() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maxActive
}

// Loaded returns the currently loaded path
func (p *Player) Loaded() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}
