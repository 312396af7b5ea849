// Package mock provides the synthetic analyser backing the mock output.
package mock

import (
	"math"
	"sync/atomic"

	"github.com/pinkcrab/jukebox/internal/ports"
)

// Analyser produces deterministic synthetic sample data: a decaying
// frequency ramp and a sine waveform, both advancing one phase step per
// read. Good enough to drive every visualizer mode in tests.
type Analyser struct {
	phase atomic.Uint64
}

func newAnalyser() *Analyser {
	return &Analyser{}
}

// Frequency fills buf with a phase-shifted decaying ramp.
func (a *Analyser) Frequency(buf []byte) {
	phase := a.phase.Add(1)
	n := len(buf)
	for i := range buf {
		decay := 1.0 - float64(i)/float64(n)
		wobble := 0.5 + 0.5*math.Sin(float64(phase)/7+float64(i)/3)
		buf[i] = byte(255 * decay * wobble)
	}
}

// Waveform fills buf with a sine wave centered on 128.
func (a *Analyser) Waveform(buf []byte) {
	phase := a.phase.Add(1)
	for i := range buf {
		v := math.Sin(float64(phase)/5 + float64(i)*2*math.Pi/float64(len(buf)))
		buf[i] = byte(128 + 100*v)
	}
}

// Verify that Analyser implements the Analyser interface
var _ ports.Analyser = (*Analyser)(nil)
