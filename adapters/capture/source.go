package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// Source opens a raw s16le mono PCM stream at the given sample rate
type Source interface {
	Open(ctx context.Context, sampleRate int) (io.ReadCloser, error)
}

// ErrNoRecorder is returned when no recorder command could be found
var ErrNoRecorder = errors.New("no audio recorder found (install alsa-utils, sox or ffmpeg)")

// recorder represents a recorder command and its arguments
type recorder struct {
	command string
	args    func(rate string) []string
}

// getRecorders returns the recorders to try, in order
func getRecorders() []recorder {
	ffmpegInput := []string{"-f", "alsa", "-i", "default"}
	if runtime.GOOS == "darwin" {
		ffmpegInput = []string{"-f", "avfoundation", "-i", ":0"}
	}
	return []recorder{
		// ALSA arecord (Linux)
		{"arecord", func(rate string) []string {
			return []string{"-q", "-t", "raw", "-f", "S16_LE", "-c", "1", "-r", rate}
		}},
		// SoX rec
		{"rec", func(rate string) []string {
			return []string{"-q", "-t", "raw", "-b", "16", "-e", "signed-integer", "-c", "1", "-r", rate, "-"}
		}},
		// FFmpeg
		{"ffmpeg", func(rate string) []string {
			args := append([]string{"-loglevel", "quiet"}, ffmpegInput...)
			return append(args, "-ac", "1", "-ar", rate, "-f", "s16le", "-")
		}},
	}
}

// isCommandAvailable checks if a command is available in the system PATH
func isCommandAvailable(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}

// CommandSource records from an external recorder process writing PCM to stdout.
// When Command is empty the first available recorder is used.
type CommandSource struct {
	Command string
	Args    []string
	logger  *zap.Logger
}

// NewCommandSource creates a recorder-backed source
func NewCommandSource(command string, args []string, logger *zap.Logger) *CommandSource {
	return &CommandSource{Command: command, Args: args, logger: logger}
}

func (s *CommandSource) resolve(sampleRate int) (string, []string, error) {
	if s.Command != "" {
		return s.Command, s.Args, nil
	}
	rate := strconv.Itoa(sampleRate)
	for _, r := range getRecorders() {
		if isCommandAvailable(r.command) {
			return r.command, r.args(rate), nil
		}
	}
	return "", nil, ErrNoRecorder
}

// Open starts the recorder. Closing the stream stops the process.
func (s *CommandSource) Open(ctx context.Context, sampleRate int) (io.ReadCloser, error) {
	command, args, err := s.resolve(sampleRate)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, command, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open recorder output: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start recorder %s: %w", command, err)
	}

	s.logger.Debug("Recorder started",
		zap.String("command", command),
		zap.Strings("args", args),
		zap.Int("pid", cmd.Process.Pid))

	return &processStream{ReadCloser: stdout, cmd: cmd, logger: s.logger}, nil
}

type processStream struct {
	io.ReadCloser
	cmd    *exec.Cmd
	logger *zap.Logger
	once   sync.Once
}

func (p *processStream) Close() error {
	p.once.Do(func() {
		if p.cmd.ProcessState == nil {
			_ = p.cmd.Process.Kill()
		}
		// Wait closes the pipe and reaps the process
		if err := p.cmd.Wait(); err != nil {
			p.logger.Debug("Recorder exited", zap.Error(err))
		}
	})
	return nil
}
