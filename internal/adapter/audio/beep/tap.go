package beep

import (
	"math"
	"sync"

	"github.com/gopxl/beep/v2"
)

// tapWindow is how many recent samples the analyser can see, matching an
// FFT size of 256.
const tapWindow = 256

// sampleTap is a pass-through streamer that keeps a rolling window of the
// most recent mono samples for analysis. It adds no latency; the speaker
// pulls through it untouched.
type sampleTap struct {
	mu     sync.Mutex
	window [tapWindow]float64
	pos    int
}

// wrap returns a streamer that records samples while forwarding them.
func (t *sampleTap) wrap(s beep.Streamer) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)

		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.window[t.pos] = (samples[i][0] + samples[i][1]) / 2
			t.pos = (t.pos + 1) % tapWindow
		}
		t.mu.Unlock()

		return n, ok
	})
}

// snapshot copies the window out in chronological order.
func (t *sampleTap) snapshot() []float64 {
	out := make([]float64, tapWindow)
	t.mu.Lock()
	for i := 0; i < tapWindow; i++ {
		out[i] = t.window[(t.pos+i)%tapWindow]
	}
	t.mu.Unlock()
	return out
}

// analyser exposes the tap's sample window as byte-valued frequency and
// waveform data, mirroring an 8-bit analyser node.
type analyser struct {
	tap *sampleTap
}

// Waveform fills buf with centered samples, 128 meaning silence.
func (a *analyser) Waveform(buf []byte) {
	window := a.tap.snapshot()
	for i := range buf {
		sample := window[i*len(window)/len(buf)]
		v := 128 + sample*127
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		buf[i] = byte(v)
	}
}

// Frequency fills buf with magnitude estimates per frequency bin. A direct
// DFT over a 256-sample window is cheap enough at 30 frames per second.
func (a *analyser) Frequency(buf []byte) {
	window := a.tap.snapshot()
	n := len(window)

	for bin := range buf {
		// Bin k of an n-point transform; only the first half carries
		// unique information.
		k := bin * (n / 2) / len(buf)
		var re, im float64
		for i, sample := range window {
			angle := -2 * math.Pi * float64(k) * float64(i) / float64(n)
			re += sample * math.Cos(angle)
			im += sample * math.Sin(angle)
		}
		magnitude := math.Sqrt(re*re+im*im) / float64(n) * 4

		v := magnitude * 255
		if v > 255 {
			v = 255
		}
		buf[bin] = byte(v)
	}
}
