package playback

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func audioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "speech.mp3")
	require.NoError(t, os.WriteFile(path, []byte("ID3"), 0o600))
	return path
}

func TestProcessPlayerLifecycle(t *testing.T) {
	requireShell(t)

	// the file path becomes $0 of the script
	player := NewProcessPlayer(Config{Command: "sh", Args: []string{"-c", "sleep 0.2"}}, zaptest.NewLogger(t))
	require.NoError(t, player.Init())
	require.NoError(t, player.Load(audioFile(t)))
	require.NoError(t, player.Play())

	assert.True(t, player.Busy())
	assert.Eventually(t, func() bool { return !player.Busy() }, 5*time.Second, 10*time.Millisecond)

	assert.NoError(t, player.Stop())
	assert.NoError(t, player.Quit())
}

func TestProcessPlayerStopKillsPlayback(t *testing.T) {
	requireShell(t)

	player := NewProcessPlayer(Config{Command: "sh", Args: []string{"-c", "sleep 30"}}, zaptest.NewLogger(t))
	require.NoError(t, player.Init())
	require.NoError(t, player.Load(audioFile(t)))
	require.NoError(t, player.Play())
	require.True(t, player.Busy())

	start := time.Now()
	require.NoError(t, player.Stop())
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.False(t, player.Busy())
	assert.NoError(t, player.Quit())
}

func TestProcessPlayerReportsExitFailure(t *testing.T) {
	requireShell(t)

	player := NewProcessPlayer(Config{Command: "sh", Args: []string{"-c", "exit 3"}}, zaptest.NewLogger(t))
	require.NoError(t, player.Init())
	require.NoError(t, player.Load(audioFile(t)))
	require.NoError(t, player.Play())
	assert.Eventually(t, func() bool { return !player.Busy() }, 5*time.Second, 10*time.Millisecond)

	err := player.Stop()
	require.Error(t, err)
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.ExitCode())

	// reported once
	assert.NoError(t, player.Stop())
	assert.NoError(t, player.Quit())
}

func TestProcessPlayerQuitReportsExitFailure(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}

	player := NewProcessPlayer(Config{Command: "false"}, zaptest.NewLogger(t))
	require.NoError(t, player.Init())
	require.NoError(t, player.Load(audioFile(t)))
	require.NoError(t, player.Play())
	assert.Eventually(t, func() bool { return !player.Busy() }, 5*time.Second, 10*time.Millisecond)

	assert.Error(t, player.Quit())
	assert.ErrorIs(t, player.Load(audioFile(t)), ErrNotInitialized)
}

func TestProcessPlayerRequiresInit(t *testing.T) {
	player := NewProcessPlayer(Config{}, zaptest.NewLogger(t))

	assert.ErrorIs(t, player.Load("missing.mp3"), ErrNotInitialized)
	assert.ErrorIs(t, player.Play(), ErrNotInitialized)
	assert.False(t, player.Busy())
	assert.NoError(t, player.Stop())
}

func TestProcessPlayerLoadMissingFile(t *testing.T) {
	requireShell(t)

	player := NewProcessPlayer(Config{Command: "sh"}, zaptest.NewLogger(t))
	require.NoError(t, player.Init())

	assert.Error(t, player.Load(filepath.Join(t.TempDir(), "missing.mp3")))
	assert.ErrorIs(t, player.Play(), ErrNothingLoaded)
}

func TestProcessPlayerUnknownCommand(t *testing.T) {
	player := NewProcessPlayer(Config{Command: "definitely-not-a-player-xyz"}, zaptest.NewLogger(t))
	assert.ErrorIs(t, player.Init(), exec.ErrNotFound)
}

func TestProcessPlayerQuitReleasesDevice(t *testing.T) {
	requireShell(t)

	player := NewProcessPlayer(Config{Command: "sh", Args: []string{"-c", "true"}}, zaptest.NewLogger(t))
	require.NoError(t, player.Init())
	require.NoError(t, player.Quit())

	assert.ErrorIs(t, player.Load(audioFile(t)), ErrNotInitialized)
}
