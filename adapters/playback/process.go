package playback

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"go.uber.org/zap"

	"github.com/satriahrh/jurubahasa/domain/repositories"
)

var (
	// ErrNoPlayer is returned by Init when no player command could be found
	ErrNoPlayer = errors.New("no audio player found (install ffmpeg, mpg123 or sox)")
	// ErrNotInitialized is returned when the device is used before Init or after Quit
	ErrNotInitialized = errors.New("audio device not initialized")
	// ErrNothingLoaded is returned by Play before a file was loaded
	ErrNothingLoaded = errors.New("no audio loaded")
)

// Config selects the player command. When Command is empty the first
// available player is used.
type Config struct {
	Command string   `env:"COMMAND"`
	Args    []string `env:"ARGS" envSeparator:" "`
}

// audioPlayer represents an audio player command and its arguments
type audioPlayer struct {
	command string
	args    []string
}

// getAudioPlayers returns a list of mp3-capable players to try
func getAudioPlayers() []audioPlayer {
	return []audioPlayer{
		// FFplay (part of FFmpeg)
		{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
		{"mpg123", []string{"-q"}},
		// macOS
		{"afplay", []string{}},
		// SoX play command
		{"play", []string{"-q"}},
	}
}

// isCommandAvailable checks if a command is available in the system PATH
func isCommandAvailable(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}

// ProcessPlayer implements AudioPlayer by running one player process per file
type ProcessPlayer struct {
	config Config
	logger *zap.Logger

	mu     sync.Mutex
	player *audioPlayer
	path   string
	run    *playerRun
}

// playerRun is one started player process. err is set before done closes.
type playerRun struct {
	cmd  *exec.Cmd
	done chan struct{}
	err  error
}

var _ repositories.AudioPlayer = (*ProcessPlayer)(nil)

// NewProcessPlayer creates a player; no process is started until Play
func NewProcessPlayer(config Config, logger *zap.Logger) *ProcessPlayer {
	return &ProcessPlayer{config: config, logger: logger}
}

// Init selects the player command
func (p *ProcessPlayer) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.config.Command != "" {
		if !isCommandAvailable(p.config.Command) {
			return fmt.Errorf("audio player %s: %w", p.config.Command, exec.ErrNotFound)
		}
		p.player = &audioPlayer{command: p.config.Command, args: p.config.Args}
		return nil
	}

	for _, player := range getAudioPlayers() {
		if isCommandAvailable(player.command) {
			player := player
			p.player = &player
			p.logger.Debug("Audio player selected", zap.String("player", player.command))
			return nil
		}
	}
	return ErrNoPlayer
}

// Load sets the file for the next Play
func (p *ProcessPlayer) Load(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.player == nil {
		return ErrNotInitialized
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("failed to load audio: %w", err)
	}
	p.path = path
	return nil
}

// Play starts the player process and returns immediately
func (p *ProcessPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.player == nil {
		return ErrNotInitialized
	}
	if p.path == "" {
		return ErrNothingLoaded
	}
	if p.run != nil {
		return errors.New("audio is already playing")
	}

	args := append(append([]string{}, p.player.args...), p.path)
	cmd := exec.Command(p.player.command, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", p.player.command, err)
	}

	p.logger.Info("Playing audio",
		zap.String("player", p.player.command),
		zap.String("path", p.path))

	run := &playerRun{cmd: cmd, done: make(chan struct{})}
	p.run = run
	go func() {
		run.err = cmd.Wait()
		close(run.done)
	}()
	return nil
}

// Busy reports whether the player process is still running
func (p *ProcessPlayer) Busy() bool {
	p.mu.Lock()
	run := p.run
	p.mu.Unlock()

	if run == nil {
		return false
	}
	select {
	case <-run.done:
		return false
	default:
		return true
	}
}

// Stop kills the player process if it is still running and waits for it.
// A process that already exited on its own reports its exit error here;
// the exit caused by the kill is not an error.
func (p *ProcessPlayer) Stop() error {
	p.mu.Lock()
	run := p.run
	p.run = nil
	p.mu.Unlock()

	if run == nil {
		return nil
	}

	select {
	case <-run.done:
		if run.err != nil {
			return fmt.Errorf("audio player %s failed: %w", run.cmd.Path, run.err)
		}
		return nil
	default:
	}

	if err := run.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to stop player: %w", err)
	}
	<-run.done
	return nil
}

// Quit stops playback and releases the device
func (p *ProcessPlayer) Quit() error {
	err := p.Stop()

	p.mu.Lock()
	p.player = nil
	p.path = ""
	p.mu.Unlock()

	return err
}
