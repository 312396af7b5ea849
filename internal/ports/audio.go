// Package ports defines interfaces for dependency inversion. The player's
// business logic depends only on these, never on a concrete audio backend
// or UI toolkit.
package ports

import (
	"time"
)

// OutputEventKind identifies a lifecycle event emitted by an AudioOutput.
type OutputEventKind int

// Lifecycle events an output emits. These mirror the native media element
// events the player reacts to.
const (
	// OutputTimeUpdate fires periodically while the position advances.
	OutputTimeUpdate OutputEventKind = iota

	// OutputLoaded fires when enough metadata is available to know the
	// track's duration.
	OutputLoaded

	// OutputEnded fires when the current source plays to completion.
	OutputEnded

	// OutputPlay fires when playback actually starts or resumes.
	OutputPlay

	// OutputPause fires when playback actually pauses.
	OutputPause

	// OutputError fires when the source fails to load or decode.
	OutputError
)

// OutputEvent is a single lifecycle notification from an AudioOutput.
//
// Generation identifies which SetSource call the event belongs to. Handlers
// must drop events stamped with a generation older than the latest load so
// a superseded in-flight load can never contradict newer state.
type OutputEvent struct {
	Kind       OutputEventKind
	Generation uint64
	Position   time.Duration
	Duration   time.Duration
	Err        error
}

// OutputListener receives lifecycle events from an AudioOutput.
//
// Implementations may be invoked from the output's own goroutine; listeners
// must be safe to call concurrently with commands.
type OutputListener func(event OutputEvent)

// AudioOutput abstracts a single audio sink the player drives: one source
// at a time, play/pause/seek, volume and mute. It is the single source of
// truth for the actual play/pause state; the player only mirrors it.
type AudioOutput interface {
	// SetSource replaces the current source and begins loading it.
	// It returns the load generation that subsequent events will carry.
	SetSource(url string) uint64

	// Play starts or resumes playback of the current source.
	//
	// Returns an error when playback is rejected (missing source, decode
	// failure, or an autoplay-style policy rejection). Rejection is an
	// expected outcome, not a fault; callers log it and move on.
	Play() error

	// Pause pauses playback, keeping the position.
	Pause()

	// Seek moves the playback position within the current source.
	Seek(position time.Duration)

	// Position returns the current playback position.
	Position() time.Duration

	// Duration returns the duration of the current source, or zero while
	// it is still unknown.
	Duration() time.Duration

	// Playing reports whether the output is actually producing audio.
	Playing() bool

	// SetVolume sets the output volume in [0,1].
	SetVolume(volume float64)

	// Volume returns the current output volume.
	Volume() float64

	// SetMuted silences the output without changing the stored volume.
	SetMuted(muted bool)

	// Muted reports whether the output is muted.
	Muted() bool

	// SetListener registers the single lifecycle listener. Passing nil
	// removes it.
	SetListener(listener OutputListener)

	// ConnectAnalyser wires the analysis tap into the output and returns
	// it. The tap can be wired at most once per output instance; calling
	// again returns the same Analyser. Outputs without analysis support
	// return an error.
	ConnectAnalyser() (Analyser, error)

	// Close releases the output. Further commands return ErrOutputClosed
	// or are no-ops.
	Close() error
}

// Analyser exposes Web-Audio-style byte sample data for visualization.
// Reads must never perturb playback; the analyser is a passive tap.
type Analyser interface {
	// Frequency fills buf with frequency-domain magnitudes, one byte per
	// bin, 0-255.
	Frequency(buf []byte)

	// Waveform fills buf with time-domain samples centered on 128.
	Waveform(buf []byte)
}
