// Package mock provides an in-memory implementation of the AudioOutput
// interface. It simulates a media element without producing sound and lets
// tests script lifecycle events (metadata load, time updates, track end,
// media errors, autoplay rejection).
package mock

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/pinkcrab/jukebox/internal/domain"
	"github.com/pinkcrab/jukebox/internal/ports"
)

// DefaultDuration is the simulated length assigned to every loaded source
// unless a test overrides it.
const DefaultDuration = 3 * time.Minute

// Output is a scriptable AudioOutput. Lifecycle events are delivered
// synchronously on the calling goroutine, which keeps tests deterministic.
//
// Thread-safety: the output mutex is never held while the listener runs, so
// a listener may call back into any Output method.
type Output struct {
	mu       sync.Mutex
	logger   *slog.Logger
	listener ports.OutputListener

	source     string
	generation uint64
	position   time.Duration
	duration   time.Duration
	volume     float64
	muted      bool
	playing    bool
	closed     bool

	// Behavior configuration
	nextDuration  time.Duration
	deferMetadata bool
	failPlay      bool
	failLoad      bool

	analyser *Analyser
}

// NewOutput creates a new mock output.
func NewOutput() *Output {
	return &Output{
		volume:       1.0,
		nextDuration: DefaultDuration,
	}
}

// SetLogger sets the logger for this output.
func (m *Output) SetLogger(logger *slog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

// SetNextDuration sets the duration assigned to subsequently loaded sources.
func (m *Output) SetNextDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextDuration = d
}

// SetDeferMetadata makes loads leave the duration unknown until
// CompleteLoad is called, simulating slow metadata arrival.
func (m *Output) SetDeferMetadata(deferred bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deferMetadata = deferred
}

// SetFailPlay configures Play to be rejected, the way a browser rejects
// autoplay without a user gesture.
func (m *Output) SetFailPlay(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failPlay = fail
}

// SetFailLoad configures SetSource to emit a media error event.
func (m *Output) SetFailLoad(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failLoad = fail
}

// SetSource replaces the current source. The previous load is superseded:
// its generation becomes stale and the position resets. Unless metadata is
// deferred, a Loaded event fires immediately.
func (m *Output) SetSource(url string) uint64 {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return m.generation
	}

	m.generation++
	gen := m.generation
	m.source = url
	m.position = 0
	m.playing = false

	failLoad := m.failLoad
	deferMeta := m.deferMetadata
	if failLoad || deferMeta {
		m.duration = 0
	} else {
		m.duration = m.nextDuration
	}
	duration := m.duration
	m.mu.Unlock()

	if failLoad {
		m.emit(ports.OutputEvent{
			Kind:       ports.OutputError,
			Generation: gen,
			Err:        domain.NewOutputError("load", url, errors.New("simulated media error")),
		})
		return gen
	}

	if !deferMeta {
		m.emit(ports.OutputEvent{Kind: ports.OutputLoaded, Generation: gen, Duration: duration})
	}
	return gen
}

// CompleteLoad delivers the deferred metadata for the current source.
func (m *Output) CompleteLoad() {
	m.mu.Lock()
	m.duration = m.nextDuration
	gen := m.generation
	duration := m.duration
	m.mu.Unlock()

	m.emit(ports.OutputEvent{Kind: ports.OutputLoaded, Generation: gen, Duration: duration})
}

// Play starts playback of the current source.
func (m *Output) Play() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return domain.ErrOutputClosed
	}
	if m.source == "" {
		m.mu.Unlock()
		return domain.ErrNoSource
	}
	if m.failPlay {
		source := m.source
		m.mu.Unlock()
		return domain.NewOutputError("play", source, domain.ErrPlaybackRejected)
	}
	if m.playing {
		m.mu.Unlock()
		return nil
	}
	m.playing = true
	gen := m.generation
	m.mu.Unlock()

	m.emit(ports.OutputEvent{Kind: ports.OutputPlay, Generation: gen})
	return nil
}

// Pause pauses playback, keeping the position.
func (m *Output) Pause() {
	m.mu.Lock()
	if m.closed || !m.playing {
		m.mu.Unlock()
		return
	}
	m.playing = false
	gen := m.generation
	m.mu.Unlock()

	m.emit(ports.OutputEvent{Kind: ports.OutputPause, Generation: gen})
}

// Seek moves the position, clamped to [0, duration].
func (m *Output) Seek(position time.Duration) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	if position < 0 {
		position = 0
	}
	if m.duration > 0 && position > m.duration {
		position = m.duration
	}
	m.position = position
	gen := m.generation
	duration := m.duration
	m.mu.Unlock()

	m.emit(ports.OutputEvent{Kind: ports.OutputTimeUpdate, Generation: gen, Position: position, Duration: duration})
}

// Tick advances the simulated position and fires a time update, or an Ended
// event when the position reaches the duration.
func (m *Output) Tick(delta time.Duration) {
	m.mu.Lock()
	if m.closed || !m.playing {
		m.mu.Unlock()
		return
	}
	m.position += delta
	ended := m.duration > 0 && m.position >= m.duration
	if ended {
		m.position = m.duration
		m.playing = false
	}
	gen := m.generation
	position := m.position
	duration := m.duration
	m.mu.Unlock()

	if ended {
		m.emit(ports.OutputEvent{Kind: ports.OutputEnded, Generation: gen, Position: position, Duration: duration})
		return
	}
	m.emit(ports.OutputEvent{Kind: ports.OutputTimeUpdate, Generation: gen, Position: position, Duration: duration})
}

// FinishTrack simulates the current source playing to completion.
func (m *Output) FinishTrack() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.playing = false
	m.position = m.duration
	gen := m.generation
	duration := m.duration
	m.mu.Unlock()

	m.emit(ports.OutputEvent{Kind: ports.OutputEnded, Generation: gen, Position: duration, Duration: duration})
}

// Emit injects an arbitrary event, for tests that need full control (for
// example a metadata event stamped with a stale generation).
func (m *Output) Emit(event ports.OutputEvent) {
	m.emit(event)
}

// Position returns the simulated playback position.
func (m *Output) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

// Duration returns the simulated duration, zero while metadata is deferred.
func (m *Output) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

// Playing reports whether the simulated output is playing.
func (m *Output) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

// SetVolume sets the output volume.
func (m *Output) SetVolume(volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = volume
}

// Volume returns the output volume.
func (m *Output) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// SetMuted silences the output without touching the volume.
func (m *Output) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
}

// Muted reports whether the output is muted.
func (m *Output) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// Source returns the currently loaded source URL, for assertions.
func (m *Output) Source() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.source
}

// Generation returns the current load generation, for assertions.
func (m *Output) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// SetListener registers the lifecycle listener.
func (m *Output) SetListener(listener ports.OutputListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listener = listener
}

// ConnectAnalyser returns the synthetic analyser, wiring it on first use.
func (m *Output) ConnectAnalyser() (ports.Analyser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, domain.ErrOutputClosed
	}
	if m.analyser == nil {
		m.analyser = newAnalyser()
	}
	return m.analyser, nil
}

// AnalyserConnected reports whether the analysis tap has been wired.
func (m *Output) AnalyserConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.analyser != nil
}

// Close releases the output.
func (m *Output) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return domain.ErrOutputClosed
	}
	m.closed = true
	m.playing = false
	m.listener = nil
	return nil
}

// emit delivers an event with the mutex released, so listeners may call
// back into the output.
func (m *Output) emit(event ports.OutputEvent) {
	m.mu.Lock()
	listener := m.listener
	m.mu.Unlock()

	if listener != nil {
		listener(event)
	}
}

// Verify that Output implements the AudioOutput interface
var _ ports.AudioOutput = (*Output)(nil)
