package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pinkcrab/jukebox/internal/adapter/eventbus"
	"github.com/pinkcrab/jukebox/internal/domain"
)

// recordingSink captures the toast lifecycle calls in order.
type recordingSink struct {
	mu    sync.Mutex
	calls []string
}

func (s *recordingSink) ShowToast(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "show:"+message)
}

func (s *recordingSink) FadeToast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "fade")
}

func (s *recordingSink) HideToast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "hide")
}

func (s *recordingSink) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestToastController_Lifecycle(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &recordingSink{}
	c := NewToastController(sink, 30*time.Millisecond, 10*time.Millisecond)
	defer c.Close()

	c.Show("hello")

	waitFor(t, func() bool { return len(sink.snapshot()) == 3 })
	assert.Equal(t, []string{"show:hello", "fade", "hide"}, sink.snapshot())
}

func TestToastController_NewToastReplacesCurrent(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &recordingSink{}
	c := NewToastController(sink, 50*time.Millisecond, 10*time.Millisecond)
	defer c.Close()

	c.Show("first")
	c.Show("second")

	waitFor(t, func() bool {
		calls := sink.snapshot()
		return len(calls) > 0 && calls[len(calls)-1] == "hide"
	})

	// The first toast never fades on its own; the second replaces it
	// immediately and runs the full lifecycle
	assert.Equal(t, []string{"show:first", "show:second", "fade", "hide"}, sink.snapshot())
}

func TestToastController_AttachConsumesBusEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &recordingSink{}
	bus := eventbus.NewSyncEventBus()
	c := NewToastController(sink, 20*time.Millisecond, 5*time.Millisecond)
	c.Attach(bus)
	defer c.Close()

	bus.Publish(domain.NewToastEvent("from the bus"))

	waitFor(t, func() bool { return len(sink.snapshot()) == 3 })
	require.Equal(t, "show:from the bus", sink.snapshot()[0])
}

func TestToastController_CloseCancelsTimers(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &recordingSink{}
	c := NewToastController(sink, time.Hour, time.Hour)

	c.Show("never fades")
	c.Close()

	assert.Equal(t, []string{"show:never fades"}, sink.snapshot())
}
