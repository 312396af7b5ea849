package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfigFile_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[Application]
PageOrigin = "https://music.example.com"

[Playback]
InitialVolume = 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c, err := ReadConfigFile(path)
	require.NoError(t, err)

	// Values from the file
	assert.Equal(t, "https://music.example.com", c.Application.PageOrigin)
	assert.InDelta(t, 0.5, c.Playback.InitialVolume, 1e-9)

	// Untouched sections keep the defaults
	assert.Equal(t, 2000, c.Toast.VisibleMillis)
	assert.True(t, c.Tracklist.ShowTracklist)
	assert.Equal(t, 320, c.Visualizer.Width)
}

func TestReadConfigFile_Missing(t *testing.T) {
	_, err := ReadConfigFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestWriteConfigFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	c := DefaultConfig()
	c.Application.PageOrigin = "https://site.test"
	c.Playback.MockAudio = true
	require.NoError(t, c.WriteConfigFile(path))

	read, err := ReadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, c, read)
}

func TestLoadPlaylist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlist.json")
	payload := `[
		{"id":"keep","title":"Has ID","url":"https://cdn.example.com/a.mp3"},
		{"title":"Needs ID","artist":"Bea","url":"https://cdn.example.com/b.mp3"},
		{"title":"No media at all"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))

	tracks, err := LoadPlaylist(path)
	require.NoError(t, err)

	// The unplayable entry was dropped, IDs backfilled
	require.Len(t, tracks, 2)
	assert.Equal(t, "keep", tracks[0].ID)
	assert.NotEmpty(t, tracks[1].ID)
	assert.Equal(t, "Bea", tracks[1].Artist)
}

func TestLoadPlaylist_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlist.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"broken"`), 0644))

	_, err := LoadPlaylist(path)
	assert.Error(t, err)
}

func TestLoadPlaylist_MissingFile(t *testing.T) {
	_, err := LoadPlaylist(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
