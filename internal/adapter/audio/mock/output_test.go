package mock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinkcrab/jukebox/internal/domain"
	"github.com/pinkcrab/jukebox/internal/ports"
)

func collect(out *Output) *[]ports.OutputEvent {
	var events []ports.OutputEvent
	var mu sync.Mutex
	out.SetListener(func(e ports.OutputEvent) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})
	return &events
}

func TestOutput_SetSourceBumpsGeneration(t *testing.T) {
	out := NewOutput()
	events := collect(out)

	gen1 := out.SetSource("/a.mp3")
	gen2 := out.SetSource("/b.mp3")

	assert.Equal(t, uint64(1), gen1)
	assert.Equal(t, uint64(2), gen2)
	assert.Equal(t, "/b.mp3", out.Source())

	// Each load emits metadata stamped with its own generation
	require.Len(t, *events, 2)
	assert.Equal(t, ports.OutputLoaded, (*events)[0].Kind)
	assert.Equal(t, gen1, (*events)[0].Generation)
	assert.Equal(t, gen2, (*events)[1].Generation)
	assert.Equal(t, DefaultDuration, (*events)[1].Duration)
}

func TestOutput_DeferredMetadata(t *testing.T) {
	out := NewOutput()
	events := collect(out)

	out.SetDeferMetadata(true)
	out.SetSource("/slow.mp3")

	assert.Empty(t, *events)
	assert.Equal(t, time.Duration(0), out.Duration())

	out.CompleteLoad()
	require.Len(t, *events, 1)
	assert.Equal(t, ports.OutputLoaded, (*events)[0].Kind)
	assert.Equal(t, DefaultDuration, out.Duration())
}

func TestOutput_PlayPauseLifecycle(t *testing.T) {
	out := NewOutput()

	// No source yet
	assert.ErrorIs(t, out.Play(), domain.ErrNoSource)

	out.SetSource("/a.mp3")
	events := collect(out)

	require.NoError(t, out.Play())
	assert.True(t, out.Playing())

	// Redundant play emits nothing
	require.NoError(t, out.Play())
	out.Pause()
	assert.False(t, out.Playing())

	require.Len(t, *events, 2)
	assert.Equal(t, ports.OutputPlay, (*events)[0].Kind)
	assert.Equal(t, ports.OutputPause, (*events)[1].Kind)
}

func TestOutput_FailPlay(t *testing.T) {
	out := NewOutput()
	out.SetSource("/a.mp3")
	out.SetFailPlay(true)

	err := out.Play()
	assert.ErrorIs(t, err, domain.ErrPlaybackRejected)
	assert.False(t, out.Playing())
}

func TestOutput_TickAndFinish(t *testing.T) {
	out := NewOutput()
	out.SetNextDuration(10 * time.Second)
	out.SetSource("/a.mp3")
	require.NoError(t, out.Play())
	events := collect(out)

	out.Tick(4 * time.Second)
	assert.Equal(t, 4*time.Second, out.Position())

	// Ticking past the end fires Ended, not a time update
	out.Tick(7 * time.Second)
	assert.False(t, out.Playing())

	require.Len(t, *events, 2)
	assert.Equal(t, ports.OutputTimeUpdate, (*events)[0].Kind)
	assert.Equal(t, ports.OutputEnded, (*events)[1].Kind)
	assert.Equal(t, 10*time.Second, (*events)[1].Position)
}

func TestOutput_SeekClamps(t *testing.T) {
	out := NewOutput()
	out.SetNextDuration(time.Minute)
	out.SetSource("/a.mp3")

	out.Seek(-time.Second)
	assert.Equal(t, time.Duration(0), out.Position())

	out.Seek(2 * time.Minute)
	assert.Equal(t, time.Minute, out.Position())
}

func TestOutput_ListenerMayReenter(t *testing.T) {
	out := NewOutput()
	out.SetNextDuration(time.Minute)

	// A listener that calls straight back into the output must not
	// deadlock
	done := make(chan struct{})
	out.SetListener(func(e ports.OutputEvent) {
		if e.Kind == ports.OutputLoaded {
			out.Seek(time.Second)
			_ = out.Playing()
			close(done)
		}
	})

	out.SetSource("/a.mp3")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener deadlocked")
	}
}

func TestOutput_Close(t *testing.T) {
	out := NewOutput()
	out.SetSource("/a.mp3")

	require.NoError(t, out.Close())
	assert.ErrorIs(t, out.Play(), domain.ErrOutputClosed)
	assert.ErrorIs(t, out.Close(), domain.ErrOutputClosed)

	_, err := out.ConnectAnalyser()
	assert.ErrorIs(t, err, domain.ErrOutputClosed)
}

func TestOutput_AnalyserSingleton(t *testing.T) {
	out := NewOutput()

	a1, err := out.ConnectAnalyser()
	require.NoError(t, err)
	a2, err := out.ConnectAnalyser()
	require.NoError(t, err)

	assert.Same(t, a1, a2)
	assert.True(t, out.AnalyserConnected())

	// Synthetic data actually moves
	buf := make([]byte, 32)
	a1.Frequency(buf)
	assert.NotEqual(t, make([]byte, 32), buf)
}
