package tempaudio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/satriahrh/jurubahasa/domain/entities"
)

const (
	defaultPrefix    = "jurubahasa-tts-"
	defaultExtension = ".mp3"
)

// Config holds settings for temporary synthesized audio files
type Config struct {
	Dir           string        `env:"DIR"`
	Prefix        string        `env:"PREFIX" envDefault:"jurubahasa-tts-"`
	MaxAge        time.Duration `env:"MAX_AGE" envDefault:"1h"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"10m"`
}

// Store allocates unique paths for synthesized audio and removes them again
type Store struct {
	dir    string
	prefix string
	remove func(string) error
	logger *zap.Logger
}

// Option customizes a Store
type Option func(*Store)

// WithRemoveFunc replaces os.Remove, used to simulate locked files
func WithRemoveFunc(remove func(string) error) Option {
	return func(s *Store) {
		s.remove = remove
	}
}

// NewStore creates the store directory if needed. An empty Dir uses the system temp dir.
func NewStore(config Config, logger *zap.Logger, opts ...Option) (*Store, error) {
	dir := config.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create temp audio dir: %w", err)
	}

	prefix := config.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}

	s := &Store{
		dir:    dir,
		prefix: prefix,
		remove: os.Remove,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the directory files are allocated in
func (s *Store) Dir() string {
	return s.dir
}

// Allocate returns a fresh path that no other run uses. The file is not created.
func (s *Store) Allocate() entities.SynthesizedAudio {
	return entities.SynthesizedAudio{
		Path: filepath.Join(s.dir, s.prefix+uuid.NewString()+defaultExtension),
	}
}

// Owns reports whether path looks like a file allocated by this store
func (s *Store) Owns(path string) bool {
	return filepath.Dir(path) == filepath.Clean(s.dir) &&
		strings.HasPrefix(filepath.Base(path), s.prefix) &&
		strings.HasSuffix(path, defaultExtension)
}

// Release removes the file. A file that does not exist counts as released.
func (s *Store) Release(audio entities.SynthesizedAudio) error {
	if audio.Path == "" {
		return nil
	}
	err := s.remove(audio.Path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	s.logger.Warn("Failed to remove temporary audio",
		zap.String("path", audio.Path),
		zap.Error(err))
	return fmt.Errorf("failed to remove %s: %w", audio.Path, err)
}

// Sweep removes files allocated by this store that are older than maxAge.
// It returns the number of files removed.
func (s *Store) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read temp audio dir: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if !s.Owns(path) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := s.Release(entities.SynthesizedAudio{Path: path}); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}

	return removed, errors.Join(errs...)
}
