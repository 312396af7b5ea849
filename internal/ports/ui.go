// Package ports defines the UI interface for view abstraction. The
// presenter receives events from the bus and calls these methods; the
// services never touch a widget.
package ports

import (
	"image"
	"time"

	"github.com/pinkcrab/jukebox/internal/domain"
)

// UI is the set of display surfaces the presenter keeps synchronized with
// player state. All methods are called from the presenter; the toolkit
// adapter is responsible for marshalling onto its own main thread.
type UI interface {
	// Now-playing surfaces

	// SetNowPlaying updates title, artist, album, artwork-or-placeholder,
	// and page-link visibility for the loaded track, and moves the active
	// highlight to the given row.
	SetNowPlaying(track domain.Track, index int)

	// SetPlayState updates the play/pause control and container state.
	SetPlayState(playing bool)

	// SetProgress updates the fill bar, the seek input position, and the
	// current-time label.
	SetProgress(percent float64, position time.Duration)

	// SetDuration updates the duration label once metadata is known.
	SetDuration(duration time.Duration)

	// ResetProgress zeroes the fill bar and both time labels.
	ResetProgress()

	// Mode surfaces

	// SetShuffleState updates the shuffle control's pressed state.
	SetShuffleState(enabled bool)

	// SetRepeatState updates the repeat control for the given mode.
	SetRepeatState(mode domain.RepeatMode)

	// SetVolume updates the volume fill, the range input, and the mute
	// control. displayed is already zeroed while muted.
	SetVolume(displayed float64, muted bool)

	// Tracklist surfaces

	// ApplyTracklistFilter sets per-row visibility and the visible-count
	// display, and shows or hides the active-filter indicator bar.
	ApplyTracklistFilter(visible []bool, count int, active *domain.ActiveFilter)

	// ClearFilterInput empties the free-text filter box (used when an
	// artist/album filter link is activated).
	ClearFilterInput()

	// Queue surfaces

	// SetQueue rebuilds the queue panel list, the count badge, and the
	// per-row Queue/Queued button labels.
	SetQueue(entries []domain.QueueEntry)

	// SetQueuePanelOpen shows or hides the queue panel.
	SetQueuePanelOpen(open bool)

	// Feedback surfaces

	// ShowToast displays a transient notification, replacing any toast
	// currently visible.
	ShowToast(message string)

	// Announce pushes a phrase to the screen-reader live region.
	Announce(message string)

	// Visualizer surfaces

	// SetVisualizerState updates the toggle control (mode name, active
	// and disabled states).
	SetVisualizerState(mode domain.VizMode, blocked bool)

	// UpdateVisualizerFrame presents one rendered frame.
	UpdateVisualizerFrame(frame *image.RGBA)

	// ClearVisualizer blanks the visualizer canvases.
	ClearVisualizer()

	// Lifecycle

	// Run starts the UI event loop and blocks until the widget is closed.
	Run() error

	// Quit closes the UI.
	Quit()
}
