// Package beep implements the audio output on the beep playback library,
// with an oto-backed speaker. Sources decode from local files or HTTP and
// stream through a volume stage; an optional sample tap feeds the analyser.
package beep

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/pinkcrab/jukebox/internal/domain"
	"github.com/pinkcrab/jukebox/internal/ports"
)

const (
	outputSampleRate = beep.SampleRate(44100)

	// pollInterval paces the time update events while playing.
	pollInterval = 250 * time.Millisecond
)

// Output plays audio through the speaker. One source is loaded at a time;
// replacing it tears the previous stream down.
//
// Lock order is always Output.mu before speaker.Lock.
type Output struct {
	logger *slog.Logger

	mu         sync.Mutex
	listener   ports.OutputListener
	generation uint64
	source     string
	streamer   beep.StreamSeekCloser
	format     beep.Format
	ctrl       *beep.Ctrl
	volume     *effects.Volume
	vol        float64
	muted      bool
	playing    bool
	closed     bool

	tap        *sampleTap
	tapEnabled bool

	stopPoll chan struct{}
	pollDone sync.WaitGroup
}

// NewOutput initializes the speaker and starts the progress poller.
func NewOutput(logger *slog.Logger) (*Output, error) {
	if err := speaker.Init(outputSampleRate, outputSampleRate.N(time.Second/10)); err != nil {
		return nil, domain.NewOutputError("init", "", err)
	}

	o := &Output{
		logger:   logger,
		vol:      1.0,
		stopPoll: make(chan struct{}),
	}

	o.pollDone.Add(1)
	go o.pollProgress()

	return o, nil
}

// SetSource loads a new source, superseding the previous one. Decode
// failures surface as an error event stamped with the new generation; the
// load itself never blocks playback of anything else.
func (o *Output) SetSource(source string) uint64 {
	o.mu.Lock()
	if o.closed {
		gen := o.generation
		o.mu.Unlock()
		return gen
	}

	o.generation++
	gen := o.generation
	o.source = source
	o.playing = false
	o.teardownLocked()

	rc, err := open(source)
	if err == nil {
		o.streamer, o.format, err = decode(source, rc)
	}
	if err != nil {
		o.streamer = nil
		o.ctrl = nil
		o.mu.Unlock()

		o.logger.Warn("source load failed",
			slog.String("source", source),
			slog.Any("error", err))
		o.emit(ports.OutputEvent{
			Kind:       ports.OutputError,
			Generation: gen,
			Err:        domain.NewOutputError("load", source, err),
		})
		return gen
	}

	duration := o.format.SampleRate.D(o.streamer.Len())
	o.buildChainLocked(gen)
	o.mu.Unlock()

	o.emit(ports.OutputEvent{Kind: ports.OutputLoaded, Generation: gen, Duration: duration})
	return gen
}

// Play resumes the loaded source.
func (o *Output) Play() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return domain.ErrOutputClosed
	}
	if o.ctrl == nil {
		o.mu.Unlock()
		return domain.ErrNoSource
	}
	if o.playing {
		o.mu.Unlock()
		return nil
	}

	speaker.Lock()
	o.ctrl.Paused = false
	speaker.Unlock()
	o.playing = true
	gen := o.generation
	o.mu.Unlock()

	o.emit(ports.OutputEvent{Kind: ports.OutputPlay, Generation: gen})
	return nil
}

// Pause pauses playback, keeping the position.
func (o *Output) Pause() {
	o.mu.Lock()
	if o.closed || o.ctrl == nil || !o.playing {
		o.mu.Unlock()
		return
	}

	speaker.Lock()
	o.ctrl.Paused = true
	speaker.Unlock()
	o.playing = false
	gen := o.generation
	o.mu.Unlock()

	o.emit(ports.OutputEvent{Kind: ports.OutputPause, Generation: gen})
}

// Seek moves the position, clamped to the track bounds.
func (o *Output) Seek(position time.Duration) {
	o.mu.Lock()
	if o.closed || o.streamer == nil {
		o.mu.Unlock()
		return
	}

	n := o.format.SampleRate.N(position)
	if n < 0 {
		n = 0
	}
	if n > o.streamer.Len() {
		n = o.streamer.Len()
	}

	speaker.Lock()
	err := o.streamer.Seek(n)
	speaker.Unlock()
	if err != nil {
		o.logger.Warn("seek failed", slog.Any("error", err))
		o.mu.Unlock()
		return
	}

	gen := o.generation
	pos := o.format.SampleRate.D(n)
	duration := o.format.SampleRate.D(o.streamer.Len())
	o.mu.Unlock()

	o.emit(ports.OutputEvent{Kind: ports.OutputTimeUpdate, Generation: gen, Position: pos, Duration: duration})
}

// Position returns the current playback position.
func (o *Output) Position() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.positionLocked()
}

// Duration returns the loaded source's length, zero when nothing is loaded.
func (o *Output) Duration() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.streamer == nil {
		return 0
	}
	return o.format.SampleRate.D(o.streamer.Len())
}

// Playing reports whether the output is currently playing.
func (o *Output) Playing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.playing
}

// SetVolume sets the linear volume in [0,1].
func (o *Output) SetVolume(volume float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.vol = volume
	o.applyVolumeLocked()
}

// Volume returns the linear volume.
func (o *Output) Volume() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.vol
}

// SetMuted silences the output without touching the volume.
func (o *Output) SetMuted(muted bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.muted = muted
	o.applyVolumeLocked()
}

// Muted reports whether the output is muted.
func (o *Output) Muted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.muted
}

// SetListener registers the lifecycle listener.
func (o *Output) SetListener(listener ports.OutputListener) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listener = listener
}

// ConnectAnalyser inserts the sample tap into the stream. The tap stays
// wired for every subsequent source; a currently loaded source is rebuilt
// in place so analysis starts immediately.
func (o *Output) ConnectAnalyser() (ports.Analyser, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil, domain.ErrOutputClosed
	}

	if o.tap == nil {
		o.tap = &sampleTap{}
	}
	if !o.tapEnabled {
		o.tapEnabled = true
		if o.streamer != nil {
			o.buildChainLocked(o.generation)
		}
	}
	return &analyser{tap: o.tap}, nil
}

// Close stops the poller and tears down the current stream.
func (o *Output) Close() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return domain.ErrOutputClosed
	}
	o.closed = true
	o.playing = false
	o.listener = nil
	o.teardownLocked()
	close(o.stopPoll)
	o.mu.Unlock()

	o.pollDone.Wait()
	return nil
}

// buildChainLocked assembles tap, resampler, pause control, and volume
// around the current streamer and hands the chain to the speaker. The
// chain starts paused; Play flips the control.
func (o *Output) buildChainLocked(gen uint64) {
	var base beep.Streamer = o.streamer
	if o.tapEnabled {
		base = o.tap.wrap(base)
	}
	if o.format.SampleRate != outputSampleRate {
		base = beep.Resample(4, o.format.SampleRate, outputSampleRate, base)
	}

	o.ctrl = &beep.Ctrl{Streamer: base, Paused: !o.playing}
	o.volume = &effects.Volume{Streamer: o.ctrl, Base: 2}
	o.applyVolumeLocked()

	// The callback fires on the speaker goroutine with its lock held, so
	// the ended handling moves to a fresh goroutine.
	seq := beep.Seq(o.volume, beep.Callback(func() {
		go o.handleEnded(gen)
	}))

	speaker.Clear()
	speaker.Play(seq)
}

// teardownLocked stops the speaker and releases the current streamer.
func (o *Output) teardownLocked() {
	speaker.Clear()
	if o.streamer != nil {
		if err := o.streamer.Close(); err != nil {
			o.logger.Debug("streamer close failed", slog.Any("error", err))
		}
		o.streamer = nil
	}
	o.ctrl = nil
	o.volume = nil
}

// applyVolumeLocked maps the linear volume onto the exponential volume
// stage. Zero volume and mute both turn the stage silent.
func (o *Output) applyVolumeLocked() {
	if o.volume == nil {
		return
	}

	silent := o.muted || o.vol <= 0
	var level float64
	if !silent {
		level = math.Log2(o.vol)
	}

	speaker.Lock()
	o.volume.Silent = silent
	o.volume.Volume = level
	speaker.Unlock()
}

func (o *Output) positionLocked() time.Duration {
	if o.streamer == nil {
		return 0
	}
	speaker.Lock()
	n := o.streamer.Position()
	speaker.Unlock()
	return o.format.SampleRate.D(n)
}

// handleEnded reports a finished source, unless it was superseded while
// the callback was in flight.
func (o *Output) handleEnded(gen uint64) {
	o.mu.Lock()
	if o.closed || gen != o.generation || o.streamer == nil {
		o.mu.Unlock()
		return
	}
	o.playing = false
	duration := o.format.SampleRate.D(o.streamer.Len())
	o.mu.Unlock()

	o.emit(ports.OutputEvent{Kind: ports.OutputEnded, Generation: gen, Position: duration, Duration: duration})
}

// pollProgress emits time updates while playing.
func (o *Output) pollProgress() {
	defer o.pollDone.Done()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-o.stopPoll:
			return
		case <-ticker.C:
		}

		o.mu.Lock()
		if !o.playing || o.streamer == nil {
			o.mu.Unlock()
			continue
		}
		gen := o.generation
		pos := o.positionLocked()
		duration := o.format.SampleRate.D(o.streamer.Len())
		o.mu.Unlock()

		o.emit(ports.OutputEvent{Kind: ports.OutputTimeUpdate, Generation: gen, Position: pos, Duration: duration})
	}
}

// emit delivers an event with the mutex released.
func (o *Output) emit(event ports.OutputEvent) {
	o.mu.Lock()
	listener := o.listener
	o.mu.Unlock()

	if listener != nil {
		listener(event)
	}
}

// open returns a reader for a local or remote source. Remote bodies buffer
// fully in memory; seeking a live HTTP stream is not worth the complexity.
func open(source string) (io.ReadCloser, error) {
	parsed, err := url.Parse(source)
	if err != nil {
		return nil, err
	}

	switch parsed.Scheme {
	case "", "file":
		return os.Open(parsed.Path)
	case "http", "https":
		resp, err := http.Get(source)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: %s", source, resp.Status)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	default:
		return nil, fmt.Errorf("unsupported source scheme %q", parsed.Scheme)
	}
}

// Verify that Output implements the AudioOutput interface
var _ ports.AudioOutput = (*Output)(nil)
