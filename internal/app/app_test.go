package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePlaylist(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "playlist.json")
	data := `[
		{"id": "a", "title": "First", "artist": "Someone", "url": "/media/first.mp3"},
		{"id": "b", "title": "Second", "artist": "Someone", "url": "/media/second.mp3"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func newTestApplication(t *testing.T) *Application {
	t.Helper()

	a, err := NewApplication(Options{
		PlaylistPath: writePlaylist(t),
		MockAudio:    true,
		LogLevel:     slog.LevelWarn,
		FyneApp:      test.NewApp(),
	})
	require.NoError(t, err)
	return a
}

func TestNewApplication(t *testing.T) {
	a := newTestApplication(t)
	defer a.Shutdown()

	require.NotNil(t, a.player)
	require.NotNil(t, a.viz)
	require.NotNil(t, a.toast)
	require.NotNil(t, a.presenter)

	snap := a.player.Snapshot()
	assert.Equal(t, 0, snap.CurrentIndex)
	assert.False(t, snap.Playing)
	assert.InDelta(t, 0.8, snap.Volume, 0.001)
}

func TestNewApplication_MissingPlaylist(t *testing.T) {
	_, err := NewApplication(Options{
		PlaylistPath: filepath.Join(t.TempDir(), "nope.json"),
		MockAudio:    true,
		FyneApp:      test.NewApp(),
	})
	assert.Error(t, err)
}

func TestApplication_ShutdownTwice(t *testing.T) {
	a := newTestApplication(t)

	a.Shutdown()
	a.Shutdown()
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		cfg, err := loadConfig("")
		require.NoError(t, err)
		assert.Equal(t, 420, cfg.Application.WindowWidth)
	})

	t.Run("missing file uses defaults", func(t *testing.T) {
		cfg, err := loadConfig(filepath.Join(t.TempDir(), "none.toml"))
		require.NoError(t, err)
		assert.InDelta(t, 0.8, cfg.Playback.InitialVolume, 0.001)
	})

	t.Run("file overlays defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.toml")
		require.NoError(t, os.WriteFile(path, []byte("[Playback]\nInitialVolume = 0.5\n"), 0644))

		cfg, err := loadConfig(path)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, cfg.Playback.InitialVolume, 0.001)
		assert.Equal(t, 420, cfg.Application.WindowWidth)
	})
}
