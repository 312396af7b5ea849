package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pinkcrab/jukebox/internal/app"
	"github.com/pinkcrab/jukebox/internal/logger"
)

var version = "dev"

func main() {
	var (
		configPath   string
		playlistPath string
		mockAudio    bool
		logLevel     string
	)

	root := &cobra.Command{
		Use:     "jukebox",
		Short:   "A desktop jukebox for a fixed playlist",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLogLevel(logLevel)
			if err != nil {
				return err
			}

			application, err := app.NewApplication(app.Options{
				ConfigPath:   configPath,
				PlaylistPath: playlistPath,
				MockAudio:    mockAudio,
				LogLevel:     level,
			})
			if err != nil {
				return err
			}
			defer application.Shutdown()

			return application.Run()
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "path to the TOML settings file")
	root.Flags().StringVar(&playlistPath, "playlist", "playlist.json", "path to the playlist JSON file")
	root.Flags().BoolVar(&mockAudio, "mock-audio", false, "use the silent simulated audio output")
	root.Flags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.SilenceUsage = true

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// parseLogLevel maps the flag value onto a slog level, with the
// environment-driven default when the flag is unset.
func parseLogLevel(value string) (slog.Level, error) {
	if value == "" {
		return logger.DefaultConfig().Level, nil
	}

	switch strings.ToLower(value) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", value)
	}
}
