// Package domain defines domain-specific errors.
package domain

import (
	"errors"
	"fmt"
)

// Common errors the services can return.
var (
	// ErrEmptyTracklist is returned when the parsed playlist has no tracks.
	// The widget stays inert in that case; no partial UI is shown.
	ErrEmptyTracklist = errors.New("track list is empty")

	// ErrInvalidIndex is returned when a track index is out of bounds.
	ErrInvalidIndex = errors.New("invalid track index")

	// ErrTrackAlreadyPlaying is returned when the current track is queued.
	// The current track is definitionally "now", not "next".
	ErrTrackAlreadyPlaying = errors.New("track is already playing")

	// ErrNoDuration is returned when seeking before metadata has loaded.
	ErrNoDuration = errors.New("track duration not yet known")

	// ErrNoSource is returned when a playback command arrives before any
	// source has been set on the output.
	ErrNoSource = errors.New("no media source set")

	// ErrPlaybackRejected is returned when the output refuses to start
	// playback, the way a browser rejects autoplay without a user
	// gesture. Expected, recovered locally, never shown to the user.
	ErrPlaybackRejected = errors.New("playback rejected")

	// ErrAnalysisBlocked is returned when analyser wiring is refused for a
	// cross-origin source. Wiring anyway could mute playback outright.
	ErrAnalysisBlocked = errors.New("audio analysis blocked for cross-origin source")

	// ErrAnalysisUnsupported is returned by outputs that cannot expose
	// sample data at all.
	ErrAnalysisUnsupported = errors.New("audio output does not support analysis")

	// ErrOutputClosed is returned when a command reaches a closed output.
	ErrOutputClosed = errors.New("audio output closed")
)

// OutputError wraps a failure reported by the audio output with the
// operation and source it happened on.
type OutputError struct {
	Op     string // Operation that failed (e.g. "load", "play", "decode")
	Source string // Media URL, if applicable
	Err    error
}

// Error implements the error interface.
func (e *OutputError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("audio output %s failed for %q: %v", e.Op, e.Source, e.Err)
	}
	return fmt.Sprintf("audio output %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *OutputError) Unwrap() error {
	return e.Err
}

// NewOutputError creates a new OutputError.
func NewOutputError(op, source string, err error) *OutputError {
	return &OutputError{Op: op, Source: source, Err: err}
}
