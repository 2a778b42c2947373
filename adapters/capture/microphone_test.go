package capture

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// testConfig uses 100-sample frames at 1kHz so one frame is 100ms
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.SampleRate = 1000
	cfg.FrameSize = 100
	cfg.CalibrationDuration = 300 * time.Millisecond
	cfg.PauseThreshold = 300 * time.Millisecond
	cfg.MinPhrase = 200 * time.Millisecond
	cfg.PreRoll = 200 * time.Millisecond
	return cfg
}

func frames(n int, amplitude int16) []byte {
	buf := make([]byte, n*100*2)
	for i := 0; i < n*100; i++ {
		v := amplitude
		if i%2 == 1 {
			v = -amplitude
		}
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(v))
	}
	return buf
}

func stream(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

type readerSource struct {
	data    []byte
	openErr error
	opened  int
}

func (s *readerSource) Open(context.Context, int) (io.ReadCloser, error) {
	s.opened++
	if s.openErr != nil {
		return nil, s.openErr
	}
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func TestRMS(t *testing.T) {
	assert.Equal(t, 0.0, rms(nil))
	assert.InDelta(t, 5000, rms(frames(1, 5000)), 0.001)
	assert.InDelta(t, 0, rms(frames(1, 0)), 0.001)
}

func TestCalibrateLowersThreshold(t *testing.T) {
	d := newDetector(testConfig())
	require.NoError(t, d.calibrate(bytes.NewReader(frames(3, 10))))

	assert.Less(t, d.threshold, 300.0)
	assert.Greater(t, d.threshold, 15.0)
}

func TestCalibrateRespectsFloor(t *testing.T) {
	cfg := testConfig()
	cfg.EnergyThreshold = 2
	cfg.MinEnergyThreshold = 1
	cfg.CalibrationDuration = time.Second
	d := newDetector(cfg)
	require.NoError(t, d.calibrate(bytes.NewReader(frames(10, 0))))

	assert.Equal(t, 1.0, d.threshold)
}

func TestCaptureOneUtterance(t *testing.T) {
	source := &readerSource{data: stream(
		frames(3, 10),    // calibration
		frames(5, 10),    // waiting
		frames(10, 5000), // speech
		frames(10, 10),   // trailing silence
	)}
	mic, err := NewMicrophone(source, testConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)

	sample, err := mic.Capture(context.Background())
	require.NoError(t, err)

	// 2 pre-roll frames, 10 speech frames, 4 silent frames past the pause threshold
	assert.Len(t, sample.Data, 16*200)
	assert.Equal(t, 1000, sample.SampleRate)
	assert.Equal(t, "LINEAR16", sample.Encoding)
	assert.Equal(t, 1600*time.Millisecond, sample.Duration())
}

func TestCaptureIgnoresShortNoise(t *testing.T) {
	cfg := testConfig()
	cfg.MinPhrase = 300 * time.Millisecond
	source := &readerSource{data: stream(
		frames(3, 10),
		frames(1, 5000), // click
		frames(6, 10),
		frames(10, 5000),
		frames(10, 10),
	)}
	mic, err := NewMicrophone(source, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	sample, err := mic.Capture(context.Background())
	require.NoError(t, err)
	assert.Len(t, sample.Data, 16*200)
}

func TestCapturePhraseEndsWithInput(t *testing.T) {
	source := &readerSource{data: stream(frames(3, 10), frames(4, 5000))}
	mic, err := NewMicrophone(source, testConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)

	sample, err := mic.Capture(context.Background())
	require.NoError(t, err)
	assert.Len(t, sample.Data, 4*200)
}

func TestCaptureListenTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.ListenTimeout = 300 * time.Millisecond
	source := &readerSource{data: stream(frames(3, 10), frames(20, 10))}
	mic, err := NewMicrophone(source, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = mic.Capture(context.Background())
	assert.ErrorIs(t, err, ErrListenTimeout)
}

func TestCaptureNoSpeech(t *testing.T) {
	source := &readerSource{data: stream(frames(3, 10), frames(5, 10))}
	mic, err := NewMicrophone(source, testConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = mic.Capture(context.Background())
	assert.ErrorIs(t, err, ErrNoSpeech)
}

func TestCaptureOpenError(t *testing.T) {
	source := &readerSource{openErr: ErrNoRecorder}
	mic, err := NewMicrophone(source, testConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = mic.Capture(context.Background())
	assert.ErrorIs(t, err, ErrNoRecorder)
}

type pipeSource struct {
	r *io.PipeReader
}

func (s *pipeSource) Open(context.Context, int) (io.ReadCloser, error) {
	return s.r, nil
}

func TestCaptureCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	mic, err := NewMicrophone(&pipeSource{r: r}, testConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	_, err = mic.Capture(ctx)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, ValidateConfig(DefaultConfig()))

	cfg := DefaultConfig()
	cfg.SampleRate = 0
	assert.Error(t, ValidateConfig(cfg))

	cfg = DefaultConfig()
	cfg.DynamicDamping = 1
	assert.Error(t, ValidateConfig(cfg))

	cfg = DefaultConfig()
	cfg.PreRoll = time.Second
	assert.Error(t, ValidateConfig(cfg))
}

func TestCommandSourceWithCustomCommand(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}

	path := filepath.Join(t.TempDir(), "speech.raw")
	require.NoError(t, os.WriteFile(path, stream(frames(3, 10), frames(10, 5000), frames(10, 10)), 0o600))

	source := NewCommandSource("cat", []string{path}, zaptest.NewLogger(t))
	mic, err := NewMicrophone(source, testConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)

	sample, err := mic.Capture(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, sample.Data)
}
