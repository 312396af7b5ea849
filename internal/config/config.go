// Package config holds the persisted application settings and playlist
// loading.
package config

import (
	"os"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig covers the window and page-level settings.
type AppConfig struct {
	WindowWidth  int
	WindowHeight int

	// PageOrigin is the origin the playlist page is served from. Audio
	// from any other origin keeps playing but cannot feed the visualizer.
	PageOrigin string

	// AccentColor is an optional "#rrggbb" primary color override.
	AccentColor string
}

// PlaybackConfig covers playback defaults.
type PlaybackConfig struct {
	// InitialVolume in [0,1].
	InitialVolume float64

	// MockAudio swaps the real audio engine for the silent simulated one.
	MockAudio bool
}

// TracklistConfig covers the tracklist panel.
type TracklistConfig struct {
	ShowTracklist bool
	ShowFilter    bool
	ShowArtwork   bool
}

// ToastConfig covers notification timing, in milliseconds.
type ToastConfig struct {
	VisibleMillis int
	FadeMillis    int
}

// VisualizerConfig covers the visualizer canvas.
type VisualizerConfig struct {
	Width  int
	Height int
}

// Config is the whole settings file.
type Config struct {
	Application AppConfig
	Playback    PlaybackConfig
	Tracklist   TracklistConfig
	Toast       ToastConfig
	Visualizer  VisualizerConfig
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Application: AppConfig{
			WindowWidth:  420,
			WindowHeight: 720,
		},
		Playback: PlaybackConfig{
			InitialVolume: 0.8,
		},
		Tracklist: TracklistConfig{
			ShowTracklist: true,
			ShowFilter:    true,
			ShowArtwork:   true,
		},
		Toast: ToastConfig{
			VisibleMillis: 2000,
			FadeMillis:    300,
		},
		Visualizer: VisualizerConfig{
			Width:  320,
			Height: 320,
		},
	}
}

// ReadConfigFile loads settings from a TOML file, overlaying the defaults.
func ReadConfigFile(filepath string) (*Config, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c := DefaultConfig()
	if err := toml.NewDecoder(f).Decode(c); err != nil {
		return nil, err
	}
	return c, nil
}

var writeLock sync.Mutex

// WriteConfigFile persists the settings as TOML.
func (c *Config) WriteConfigFile(filepath string) error {
	if !writeLock.TryLock() {
		return nil // another write in progress
	}
	defer writeLock.Unlock()

	b, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, b, 0644)
}
