// Package domain contains the core playback models and logic with no external
// dependencies. It defines the fundamental entities of the jukebox player.
package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Track is a single playable media entry with display metadata.
// Tracks are immutable once the playlist has been parsed; the player only
// ever addresses them by index.
type Track struct {
	// ID uniquely identifies the track within the playlist.
	ID string `json:"id"`

	// Title is the song title shown in the player and the tracklist.
	Title string `json:"title"`

	// Artist is the performing artist (may be empty).
	Artist string `json:"artist"`

	// Album is the album name (may be empty).
	Album string `json:"album"`

	// CoverURL points at the artwork image, empty when there is none.
	CoverURL string `json:"cover"`

	// MediaURL is the playable audio source.
	MediaURL string `json:"url"`

	// PageLink is an optional link to the track's own page.
	PageLink string `json:"pageLink"`
}

// DisplayTitle returns the title, falling back to a placeholder for tracks
// whose metadata is missing.
func (t Track) DisplayTitle() string {
	if t.Title == "" {
		return "Unknown Track"
	}
	return t.Title
}

// ParsePlaylist decodes a serialized track list. The payload is the same
// JSON the authoring side embeds in the rendered markup, so a decode error
// means the whole widget stays inert.
func ParsePlaylist(data []byte) ([]Track, error) {
	var tracks []Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

// RepeatMode controls what happens when playback reaches the end of a track
// or the end of the track list.
type RepeatMode int

const (
	// RepeatOff plays through the list once.
	RepeatOff RepeatMode = iota

	// RepeatAll loops the whole list.
	RepeatAll

	// RepeatOne loops the current track.
	RepeatOne
)

// Next returns the mode that follows in the cycle off -> all -> one -> off.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatOff
	}
}

// String returns the wire/display token for the mode.
func (m RepeatMode) String() string {
	switch m {
	case RepeatAll:
		return "all"
	case RepeatOne:
		return "one"
	default:
		return "off"
	}
}

// Announcement returns the screen-reader phrase naming the mode.
func (m RepeatMode) Announcement() string {
	switch m {
	case RepeatAll:
		return "Repeat all tracks"
	case RepeatOne:
		return "Repeat current track"
	default:
		return "Repeat off"
	}
}

// VizMode is the currently selected visualizer rendering style.
type VizMode string

// Available visualizer modes, in cycle order.
const (
	VizOff          VizMode = "off"
	VizBars         VizMode = "bars"
	VizOscilloscope VizMode = "oscilloscope"
	VizMirror       VizMode = "mirror"
	VizFire         VizMode = "fire"
)

// VizModes lists all modes in the order the toggle button cycles them.
var VizModes = []VizMode{VizOff, VizBars, VizOscilloscope, VizMirror, VizFire}

// Next returns the mode that follows in the cycle, wrapping back to off.
func (m VizMode) Next() VizMode {
	for i, mode := range VizModes {
		if mode == m {
			return VizModes[(i+1)%len(VizModes)]
		}
	}
	return VizOff
}

// DisplayName returns the human-readable name used in the toggle tooltip.
func (m VizMode) DisplayName() string {
	switch m {
	case VizBars:
		return "Classic Bars"
	case VizOscilloscope:
		return "Oscilloscope"
	case VizMirror:
		return "Spectrum Mirror"
	case VizFire:
		return "Fire Bars"
	default:
		return "Off"
	}
}

// TimeDomain reports whether the mode renders waveform samples rather than
// frequency magnitudes.
func (m VizMode) TimeDomain() bool {
	return m == VizOscilloscope
}

// FilterField selects which track field an active filter matches against.
type FilterField string

// Fields an active filter can target.
const (
	FilterByArtist FilterField = "artist"
	FilterByAlbum  FilterField = "album"
)

// Label returns the capitalized field name for the active-filter bar.
func (f FilterField) Label() string {
	if f == FilterByAlbum {
		return "Album"
	}
	return "Artist"
}

// ActiveFilter is an exact-match artist/album filter. It is mutually
// exclusive with the free-text filter: setting one clears the other.
type ActiveFilter struct {
	Field FilterField
	Value string
}

// QueueEntry pairs a queued track with its position in the catalog, for
// rendering the queue panel.
type QueueEntry struct {
	TrackIndex int
	Track      Track
}

// PlayerSnapshot is a read-only copy of the player's state, used by tests
// and by the presenter when it needs more than a single event carries.
type PlayerSnapshot struct {
	CurrentIndex   int
	Playing        bool
	ShuffleEnabled bool
	ShuffleOrder   []int
	ShuffleCursor  int
	RepeatMode     RepeatMode
	Queue          []int
	Volume         float64
	Muted          bool
	ActiveFilter   *ActiveFilter
	FilterQuery    string
	Position       time.Duration
	Duration       time.Duration
}

// DisplayedVolume is the volume the UI should show: zero while muted or when
// the stored volume is zero, otherwise the stored volume.
func (s PlayerSnapshot) DisplayedVolume() float64 {
	if s.Muted || s.Volume == 0 {
		return 0
	}
	return s.Volume
}

// FormatTime renders a duration as M:SS with unpadded minutes and
// zero-padded seconds. Unknown or negative durations render as 0:00.
func FormatTime(d time.Duration) string {
	if d <= 0 {
		return "0:00"
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
