package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinkcrab/jukebox/internal/domain"
)

func TestHandleShortcut_Transport(t *testing.T) {
	player, out, _ := newTestPlayer(t, 5)

	assert.True(t, player.HandleShortcut(KeyEvent{Name: "b"}))
	assert.Equal(t, 1, player.Snapshot().CurrentIndex)
	assert.True(t, out.Playing())

	assert.True(t, player.HandleShortcut(KeyEvent{Name: "z"}))
	assert.Equal(t, 0, player.Snapshot().CurrentIndex)

	assert.True(t, player.HandleShortcut(KeyEvent{Name: "c"}))
	assert.False(t, out.Playing())

	assert.True(t, player.HandleShortcut(KeyEvent{Name: "x"}))
	assert.True(t, out.Playing())

	// Stop pauses and rewinds
	player.Seek(50)
	assert.True(t, player.HandleShortcut(KeyEvent{Name: "v"}))
	assert.False(t, out.Playing())
	assert.Equal(t, time.Duration(0), out.Position())

	assert.True(t, player.HandleShortcut(KeyEvent{Name: "space"}))
	assert.True(t, out.Playing())
}

func TestHandleShortcut_SeekAndSkip(t *testing.T) {
	player, out, _ := newTestPlayer(t, 5)

	player.Seek(50)
	require.Equal(t, 90*time.Second, out.Position())

	assert.True(t, player.HandleShortcut(KeyEvent{Name: "right"}))
	assert.Equal(t, 95*time.Second, out.Position())

	assert.True(t, player.HandleShortcut(KeyEvent{Name: "left"}))
	assert.Equal(t, 90*time.Second, out.Position())

	// With shift the arrows skip tracks instead of seeking
	assert.True(t, player.HandleShortcut(KeyEvent{Name: "right", Shift: true}))
	assert.Equal(t, 1, player.Snapshot().CurrentIndex)

	assert.True(t, player.HandleShortcut(KeyEvent{Name: "left", Shift: true}))
	assert.Equal(t, 0, player.Snapshot().CurrentIndex)
}

func TestHandleShortcut_VolumeAndModes(t *testing.T) {
	player, out, _ := newTestPlayer(t, 5)

	player.SetVolume(0.5)
	assert.True(t, player.HandleShortcut(KeyEvent{Name: "up"}))
	assert.InDelta(t, 0.6, out.Volume(), 1e-9)

	assert.True(t, player.HandleShortcut(KeyEvent{Name: "down"}))
	assert.InDelta(t, 0.5, out.Volume(), 1e-9)

	assert.True(t, player.HandleShortcut(KeyEvent{Name: "m"}))
	assert.True(t, out.Muted())

	assert.True(t, player.HandleShortcut(KeyEvent{Name: "s"}))
	assert.True(t, player.Snapshot().ShuffleEnabled)

	assert.True(t, player.HandleShortcut(KeyEvent{Name: "r"}))
	assert.Equal(t, domain.RepeatAll, player.Snapshot().RepeatMode)
}

func TestHandleShortcut_QueuePanel(t *testing.T) {
	player, _, bus := newTestPlayer(t, 5)
	toggles := recordEvents[domain.QueuePanelToggledEvent](bus, domain.EventQueuePanelToggled)

	assert.True(t, player.HandleShortcut(KeyEvent{Name: "q"}))
	assert.True(t, player.HandleShortcut(KeyEvent{Name: "escape"}))

	require.Len(t, *toggles, 2)
	assert.True(t, (*toggles)[0].Open)
	assert.False(t, (*toggles)[1].Open)
}

func TestHandleShortcut_IgnoredWhileTyping(t *testing.T) {
	player, out, _ := newTestPlayer(t, 5)

	// The filter box owns the keyboard while focused
	assert.False(t, player.HandleShortcut(KeyEvent{Name: "b", TextInputFocused: true}))
	assert.False(t, player.HandleShortcut(KeyEvent{Name: "space", TextInputFocused: true}))

	assert.Equal(t, 0, player.Snapshot().CurrentIndex)
	assert.False(t, out.Playing())
}

func TestHandleShortcut_UnknownKey(t *testing.T) {
	player, _, _ := newTestPlayer(t, 5)

	assert.False(t, player.HandleShortcut(KeyEvent{Name: "k"}))
	assert.False(t, player.HandleShortcut(KeyEvent{Name: ""}))
}
