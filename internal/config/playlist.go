package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/pinkcrab/jukebox/internal/domain"
)

// LoadPlaylist reads and parses a playlist file. Tracks without an ID get
// one assigned; tracks whose media lives on the local filesystem have
// missing title, artist, and album backfilled from the file's tags.
//
// A track without a media URL is dropped rather than rendered as an
// unplayable row.
func LoadPlaylist(filepath string) ([]domain.Track, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("read playlist: %w", err)
	}

	tracks, err := domain.ParsePlaylist(data)
	if err != nil {
		return nil, fmt.Errorf("parse playlist: %w", err)
	}

	tracks = lo.Filter(tracks, func(t domain.Track, _ int) bool {
		return t.MediaURL != ""
	})

	for i := range tracks {
		if tracks[i].ID == "" {
			tracks[i].ID = uuid.NewString()
		}
		enrichFromFile(&tracks[i])
	}

	return tracks, nil
}

// enrichFromFile backfills missing metadata from a local media file's tags.
// Remote sources and unreadable files are left as they are.
func enrichFromFile(track *domain.Track) {
	if track.Title != "" && track.Artist != "" && track.Album != "" {
		return
	}

	path := localPath(track.MediaURL)
	if path == "" {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil || meta == nil {
		return
	}

	if track.Title == "" {
		if title := strings.TrimSpace(meta.Title()); title != "" {
			track.Title = title
		} else {
			track.Title = filepath.Base(path)
		}
	}
	if track.Artist == "" {
		track.Artist = strings.TrimSpace(meta.Artist())
	}
	if track.Album == "" {
		track.Album = strings.TrimSpace(meta.Album())
	}
}

// localPath maps a media URL to a filesystem path, or empty for remote
// sources.
func localPath(mediaURL string) string {
	parsed, err := url.Parse(mediaURL)
	if err != nil {
		return ""
	}
	switch parsed.Scheme {
	case "":
		return parsed.Path
	case "file":
		return parsed.Path
	default:
		return ""
	}
}
