// Package app wires the services, adapters, and UI together and manages
// the application lifecycle.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	beepout "github.com/pinkcrab/jukebox/internal/adapter/audio/beep"
	"github.com/pinkcrab/jukebox/internal/adapter/audio/mock"
	"github.com/pinkcrab/jukebox/internal/adapter/eventbus"
	fyneui "github.com/pinkcrab/jukebox/internal/adapter/ui/fyne"
	"github.com/pinkcrab/jukebox/internal/config"
	"github.com/pinkcrab/jukebox/internal/logger"
	"github.com/pinkcrab/jukebox/internal/ports"
	"github.com/pinkcrab/jukebox/internal/service"
)

const appID = "com.pinkcrab.jukebox"

// Options are the command-line level settings; everything else lives in the
// config file.
type Options struct {
	// ConfigPath is the TOML settings file. Missing file means defaults.
	ConfigPath string

	// PlaylistPath is the playlist JSON file. Required.
	PlaylistPath string

	// MockAudio forces the silent simulated output regardless of config.
	MockAudio bool

	// LogLevel controls logging verbosity.
	LogLevel slog.Level

	// FyneApp injects a prebuilt Fyne app, used by tests; nil means
	// create the real one.
	FyneApp fyne.App
}

// Application holds every wired dependency. Construction order matters:
// the visualizer and presenter subscribe to the bus, so they come after
// the player that publishes on it.
type Application struct {
	logger *slog.Logger
	cfg    *config.Config

	bus *eventbus.SyncEventBus
	out ports.AudioOutput

	player *service.PlayerService
	viz    *service.VisualizerService
	toast  *service.ToastController

	window    *fyneui.MainWindow
	presenter *fyneui.Presenter
}

// NewApplication loads config and playlist and wires all components.
func NewApplication(opts Options) (*Application, error) {
	a := &Application{}

	a.logger = logger.New(logger.Config{Level: opts.LogLevel, Format: "text"})

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	a.cfg = cfg

	tracks, err := config.LoadPlaylist(opts.PlaylistPath)
	if err != nil {
		return nil, fmt.Errorf("load playlist: %w", err)
	}
	a.logger.Info("playlist loaded",
		slog.String("path", opts.PlaylistPath),
		slog.Int("tracks", len(tracks)))

	a.bus = eventbus.NewSyncEventBus()
	a.bus.SetLogger(a.logger.With(slog.String("component", "eventbus")))

	if opts.MockAudio || cfg.Playback.MockAudio {
		a.out = mock.NewOutput()
		a.logger.Info("using simulated audio output")
	} else {
		out, err := beepout.NewOutput(a.logger.With(slog.String("component", "audio")))
		if err != nil {
			return nil, fmt.Errorf("init audio: %w", err)
		}
		a.out = out
	}

	a.player, err = service.NewPlayerService(
		a.logger.With(slog.String("service", "player")),
		a.out,
		a.bus,
		tracks,
		cfg.Playback.InitialVolume,
	)
	if err != nil {
		return nil, fmt.Errorf("init player: %w", err)
	}

	a.viz = service.NewVisualizerService(
		a.logger.With(slog.String("service", "visualizer")),
		a.out,
		a.bus,
		cfg.Application.PageOrigin,
		cfg.Visualizer.Width,
		cfg.Visualizer.Height,
	)
	// The first track loaded before the visualizer subscribed; seed its
	// origin gate with the current source.
	snap := a.player.Snapshot()
	if snap.CurrentIndex >= 0 && snap.CurrentIndex < len(tracks) {
		a.viz.TrackChanged(tracks[snap.CurrentIndex].MediaURL)
	}

	fa := opts.FyneApp
	if fa == nil {
		fa = fyneapp.NewWithID(appID)
	}
	if cfg.Application.AccentColor != "" {
		if th, err := fyneui.NewAccentTheme(cfg.Application.AccentColor); err != nil {
			a.logger.Warn("ignoring accent color", slog.Any("error", err))
		} else {
			fa.Settings().SetTheme(th)
		}
	}
	a.window = fyneui.NewMainWindow(fa, tracks, cfg)

	a.presenter = fyneui.NewPresenter(
		a.logger.With(slog.String("component", "presenter")),
		a.player,
		a.viz,
		a.bus,
		a.window,
	)
	a.window.SetPresenter(a.presenter)

	a.toast = service.NewToastController(
		a.window,
		time.Duration(cfg.Toast.VisibleMillis)*time.Millisecond,
		time.Duration(cfg.Toast.FadeMillis)*time.Millisecond,
	)
	a.toast.Attach(a.bus)

	return a, nil
}

// loadConfig reads the settings file, falling back to defaults when no
// path is given or the file does not exist yet.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.ReadConfigFile(path)
	if os.IsNotExist(err) {
		return config.DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return cfg, nil
}

// Run shows the window and blocks until it closes.
func (a *Application) Run() error {
	a.logger.Info("jukebox started")
	return a.window.Run()
}

// Shutdown tears everything down in reverse construction order.
func (a *Application) Shutdown() {
	a.logger.Info("shutting down")

	if a.toast != nil {
		a.toast.Close()
	}
	if a.viz != nil {
		a.viz.Destroy()
	}
	if a.player != nil {
		a.player.Close()
	}
	if a.out != nil {
		if err := a.out.Close(); err != nil {
			a.logger.Warn("audio output close failed", slog.Any("error", err))
		}
	}
	if err := a.bus.Close(); err != nil {
		a.logger.Warn("event bus close failed", slog.Any("error", err))
	}

	a.logger.Info("shutdown complete")
}
