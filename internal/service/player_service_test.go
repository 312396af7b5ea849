package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinkcrab/jukebox/internal/adapter/audio/mock"
	"github.com/pinkcrab/jukebox/internal/adapter/eventbus"
	"github.com/pinkcrab/jukebox/internal/domain"
	"github.com/pinkcrab/jukebox/internal/logger"
	"github.com/pinkcrab/jukebox/internal/ports"
)

// Helper to create a catalog of n distinct tracks
func makeTracks(n int) []domain.Track {
	tracks := make([]domain.Track, n)
	for i := range tracks {
		tracks[i] = domain.Track{
			ID:       fmt.Sprintf("track-%d", i+1),
			Title:    fmt.Sprintf("Track %d", i+1),
			Artist:   fmt.Sprintf("Artist %d", i%2+1),
			Album:    fmt.Sprintf("Album %d", i%3+1),
			MediaURL: fmt.Sprintf("/media/track-%d.mp3", i+1),
		}
	}
	return tracks
}

// Helper to create a player over a mock output
func newTestPlayer(t *testing.T, n int) (*PlayerService, *mock.Output, *eventbus.SyncEventBus) {
	t.Helper()

	out := mock.NewOutput()
	bus := eventbus.NewSyncEventBus()

	player, err := NewPlayerService(logger.NewTestLogger(), out, bus, makeTracks(n), 0.8)
	require.NoError(t, err)
	t.Cleanup(player.Close)

	return player, out, bus
}

// Helper to record every event of one type
func recordEvents[E domain.Event](bus *eventbus.SyncEventBus, eventType domain.EventType) *[]E {
	var events []E
	bus.Subscribe(eventType, func(e domain.Event) {
		if typed, ok := e.(E); ok {
			events = append(events, typed)
		}
	})
	return &events
}

func TestPlayerService_EmptyTracklist(t *testing.T) {
	out := mock.NewOutput()
	bus := eventbus.NewSyncEventBus()

	player, err := NewPlayerService(logger.NewTestLogger(), out, bus, nil, 0.8)
	assert.Nil(t, player)
	assert.ErrorIs(t, err, domain.ErrEmptyTracklist)

	// Nothing was loaded into the output
	assert.Empty(t, out.Source())
}

func TestPlayerService_InitialLoad(t *testing.T) {
	out := mock.NewOutput()
	bus := eventbus.NewSyncEventBus()
	announcements := recordEvents[domain.AnnouncementEvent](bus, domain.EventAnnouncement)

	player, err := NewPlayerService(logger.NewTestLogger(), out, bus, makeTracks(3), 0.8)
	require.NoError(t, err)
	defer player.Close()

	// First track is loaded but not playing
	assert.Equal(t, "/media/track-1.mp3", out.Source())
	assert.False(t, out.Playing())
	assert.Equal(t, 0, player.Snapshot().CurrentIndex)

	require.NotEmpty(t, *announcements)
	assert.Equal(t, "Now playing: Track 1 by Artist 1", (*announcements)[0].Message)
}

func TestPlayerService_TogglePlay(t *testing.T) {
	player, out, bus := newTestPlayer(t, 3)
	states := recordEvents[domain.PlayStateChangedEvent](bus, domain.EventPlayStateChanged)

	player.TogglePlay()
	assert.True(t, out.Playing())
	assert.True(t, player.Playing())

	player.TogglePlay()
	assert.False(t, out.Playing())
	assert.False(t, player.Playing())

	// Play state events mirror the output, in order
	require.Len(t, *states, 2)
	assert.True(t, (*states)[0].Playing)
	assert.False(t, (*states)[1].Playing)
}

func TestPlayerService_AutoplayRejection(t *testing.T) {
	player, out, bus := newTestPlayer(t, 3)
	states := recordEvents[domain.PlayStateChangedEvent](bus, domain.EventPlayStateChanged)

	// A rejected play is swallowed; the UI keeps showing paused
	out.SetFailPlay(true)
	player.Load(1, true)

	assert.Equal(t, 1, player.Snapshot().CurrentIndex)
	assert.False(t, out.Playing())
	assert.Empty(t, *states)
}

func TestPlayerService_NextSequential(t *testing.T) {
	player, out, _ := newTestPlayer(t, 3)

	player.Next()
	assert.Equal(t, 1, player.Snapshot().CurrentIndex)
	assert.True(t, out.Playing())

	player.Next()
	assert.Equal(t, 2, player.Snapshot().CurrentIndex)
	assert.True(t, out.Playing())
}

func TestPlayerService_NextWrapRepeatOff(t *testing.T) {
	player, out, _ := newTestPlayer(t, 3)

	player.Load(2, true)
	require.True(t, out.Playing())

	// Wrapping with repeat off advances the display but stops playback
	player.Next()
	snap := player.Snapshot()
	assert.Equal(t, 0, snap.CurrentIndex)
	assert.False(t, out.Playing())
	assert.Equal(t, "/media/track-1.mp3", out.Source())
}

func TestPlayerService_NextWrapRepeatAll(t *testing.T) {
	player, out, _ := newTestPlayer(t, 3)

	player.ToggleRepeat() // all
	player.Load(2, true)

	player.Next()
	assert.Equal(t, 0, player.Snapshot().CurrentIndex)
	assert.True(t, out.Playing())
}

func TestPlayerService_NextSingleTrack(t *testing.T) {
	player, out, _ := newTestPlayer(t, 1)

	player.Next()
	assert.Equal(t, 0, player.Snapshot().CurrentIndex)
	assert.Equal(t, "/media/track-1.mp3", out.Source())
	assert.False(t, out.Playing())
}

func TestPlayerService_PreviousAlwaysWrapsAndPlays(t *testing.T) {
	player, out, _ := newTestPlayer(t, 3)

	// From the first track, previous wraps to the last and plays, even
	// with repeat off
	player.Previous()
	assert.Equal(t, 2, player.Snapshot().CurrentIndex)
	assert.True(t, out.Playing())

	player.Previous()
	assert.Equal(t, 1, player.Snapshot().CurrentIndex)
	assert.True(t, out.Playing())
}

func TestPlayerService_EndedAdvances(t *testing.T) {
	player, out, _ := newTestPlayer(t, 3)

	player.TogglePlay()
	out.FinishTrack()

	assert.Equal(t, 1, player.Snapshot().CurrentIndex)
	assert.True(t, out.Playing())
}

func TestPlayerService_EndedRepeatOne(t *testing.T) {
	player, out, _ := newTestPlayer(t, 3)

	player.ToggleRepeat() // all
	player.ToggleRepeat() // one
	player.Load(1, true)
	genBefore := out.Generation()

	out.FinishTrack()

	// Restarted in place: no reload, position rewound, still playing
	snap := player.Snapshot()
	assert.Equal(t, 1, snap.CurrentIndex)
	assert.Equal(t, genBefore, out.Generation())
	assert.Equal(t, time.Duration(0), out.Position())
	assert.True(t, out.Playing())
}

func TestPlayerService_RepeatCycle(t *testing.T) {
	player, _, bus := newTestPlayer(t, 3)
	announcements := recordEvents[domain.AnnouncementEvent](bus, domain.EventAnnouncement)

	modes := []domain.RepeatMode{domain.RepeatAll, domain.RepeatOne, domain.RepeatOff}
	phrases := []string{"Repeat all tracks", "Repeat current track", "Repeat off"}

	for i, want := range modes {
		player.ToggleRepeat()
		assert.Equal(t, want, player.Snapshot().RepeatMode)
		assert.Equal(t, phrases[i], (*announcements)[len(*announcements)-1].Message)
	}
}

func TestPlayerService_ShuffleOrder(t *testing.T) {
	player, _, bus := newTestPlayer(t, 8)
	toggles := recordEvents[domain.ShuffleToggledEvent](bus, domain.EventShuffleToggled)

	player.Load(3, false)
	player.ToggleShuffle()

	snap := player.Snapshot()
	require.True(t, snap.ShuffleEnabled)
	require.Len(t, snap.ShuffleOrder, 8)

	// Current track leads, the rest is a permutation of all indices
	assert.Equal(t, 3, snap.ShuffleOrder[0])
	assert.Equal(t, 0, snap.ShuffleCursor)
	seen := make(map[int]bool)
	for _, idx := range snap.ShuffleOrder {
		assert.False(t, seen[idx], "index %d appears twice", idx)
		seen[idx] = true
	}
	assert.Len(t, seen, 8)

	require.Len(t, *toggles, 1)
	assert.True(t, (*toggles)[0].Enabled)

	player.ToggleShuffle()
	assert.False(t, player.Snapshot().ShuffleEnabled)
}

func TestPlayerService_ShuffleNextFollowsOrder(t *testing.T) {
	player, _, _ := newTestPlayer(t, 5)

	player.ToggleShuffle()
	order := player.Snapshot().ShuffleOrder

	player.Next()
	snap := player.Snapshot()
	assert.Equal(t, order[1], snap.CurrentIndex)
	assert.Equal(t, 1, snap.ShuffleCursor)
}

func TestPlayerService_ShuffleExhaustedRepeatOff(t *testing.T) {
	player, out, _ := newTestPlayer(t, 3)

	player.ToggleShuffle()
	player.Next()
	player.Next()

	snap := player.Snapshot()
	require.Equal(t, 2, snap.ShuffleCursor)
	lastSource := out.Source()

	// Exhausted with repeat off: parked on the last track, nothing loads
	player.Next()
	snap = player.Snapshot()
	assert.Equal(t, 2, snap.ShuffleCursor)
	assert.Equal(t, lastSource, out.Source())
}

func TestPlayerService_ShuffleExhaustedRepeatAll(t *testing.T) {
	player, out, _ := newTestPlayer(t, 3)

	player.ToggleRepeat() // all
	player.ToggleShuffle()
	player.Next()
	player.Next()

	// Exhausted with repeat all: a fresh order is generated and playback
	// continues from its head
	player.Next()
	snap := player.Snapshot()
	assert.Equal(t, 0, snap.ShuffleCursor)
	assert.Len(t, snap.ShuffleOrder, 3)
	assert.Equal(t, snap.ShuffleOrder[0], snap.CurrentIndex)
	assert.True(t, out.Playing())
}

func TestPlayerService_ShufflePreviousAtHead(t *testing.T) {
	player, out, _ := newTestPlayer(t, 4)

	player.ToggleShuffle()
	head := player.Snapshot().ShuffleOrder[0]

	// Previous at the head of the order replays it rather than stepping
	// outside the permutation
	player.Previous()
	snap := player.Snapshot()
	assert.Equal(t, 0, snap.ShuffleCursor)
	assert.Equal(t, head, snap.CurrentIndex)
	assert.True(t, out.Playing())
}

func TestPlayerService_QueueBeatsShuffle(t *testing.T) {
	player, out, _ := newTestPlayer(t, 5)

	player.AddToQueue(3)
	player.ToggleShuffle()

	// The queue wins over the shuffle order, unconditionally
	player.Next()
	snap := player.Snapshot()
	assert.Equal(t, 3, snap.CurrentIndex)
	assert.Empty(t, snap.Queue)
	assert.True(t, out.Playing())
}

func TestPlayerService_QueueToggleSemantics(t *testing.T) {
	player, _, bus := newTestPlayer(t, 5)
	toasts := recordEvents[domain.ToastEvent](bus, domain.EventToast)
	changes := recordEvents[domain.QueueChangedEvent](bus, domain.EventQueueChanged)

	player.AddToQueue(2)
	assert.Equal(t, []int{2}, player.Snapshot().Queue)
	assert.Equal(t, `Added "Track 3" to queue`, (*toasts)[0].Message)

	// Adding again removes
	player.AddToQueue(2)
	assert.Empty(t, player.Snapshot().Queue)
	assert.Equal(t, `Removed "Track 3" from queue`, (*toasts)[1].Message)

	require.Len(t, *changes, 2)
	require.Len(t, (*changes)[0].Entries, 1)
	assert.Equal(t, 2, (*changes)[0].Entries[0].TrackIndex)
	assert.Equal(t, "Track 3", (*changes)[0].Entries[0].Track.Title)
	assert.Empty(t, (*changes)[1].Entries)
}

func TestPlayerService_QueueRejectsCurrentTrack(t *testing.T) {
	player, _, bus := newTestPlayer(t, 5)
	toasts := recordEvents[domain.ToastEvent](bus, domain.EventToast)

	player.AddToQueue(0)

	assert.Empty(t, player.Snapshot().Queue)
	require.Len(t, *toasts, 1)
	assert.Equal(t, "Already playing this track", (*toasts)[0].Message)
}

func TestPlayerService_QueueRemoveAndClear(t *testing.T) {
	player, _, _ := newTestPlayer(t, 5)

	player.AddToQueue(1)
	player.AddToQueue(2)
	player.AddToQueue(3)

	player.RemoveFromQueue(1)
	assert.Equal(t, []int{1, 3}, player.Snapshot().Queue)

	// Out-of-range removals are ignored
	player.RemoveFromQueue(10)
	assert.Equal(t, []int{1, 3}, player.Snapshot().Queue)

	player.ClearQueue()
	assert.Empty(t, player.Snapshot().Queue)
}

func TestPlayerService_QueuePanelToggle(t *testing.T) {
	player, _, bus := newTestPlayer(t, 3)
	toggles := recordEvents[domain.QueuePanelToggledEvent](bus, domain.EventQueuePanelToggled)

	player.ToggleQueuePanel()
	player.CloseQueuePanel()
	player.CloseQueuePanel() // already closed, no event

	require.Len(t, *toggles, 2)
	assert.True(t, (*toggles)[0].Open)
	assert.False(t, (*toggles)[1].Open)
}

func TestPlayerService_SeekRequiresDuration(t *testing.T) {
	player, out, _ := newTestPlayer(t, 3)

	out.SetDeferMetadata(true)
	player.Load(1, false)
	require.Equal(t, time.Duration(0), out.Duration())

	// No duration yet: seeking is a no-op
	player.Seek(50)
	assert.Equal(t, time.Duration(0), out.Position())

	out.CompleteLoad()
	player.Seek(50)
	assert.Equal(t, 90*time.Second, out.Position())
}

func TestPlayerService_SeekBy(t *testing.T) {
	player, out, _ := newTestPlayer(t, 3)

	player.Seek(50)
	require.Equal(t, 90*time.Second, out.Position())

	player.SeekBy(5 * time.Second)
	assert.Equal(t, 95*time.Second, out.Position())

	player.SeekBy(-5 * time.Second)
	assert.Equal(t, 90*time.Second, out.Position())

	// Clamped at both ends
	player.SeekBy(-time.Hour)
	assert.Equal(t, time.Duration(0), out.Position())
	player.SeekBy(time.Hour)
	assert.Equal(t, 3*time.Minute, out.Position())
}

func TestPlayerService_VolumeMuteRoundTrip(t *testing.T) {
	player, out, bus := newTestPlayer(t, 3)
	volumes := recordEvents[domain.VolumeChangedEvent](bus, domain.EventVolumeChanged)

	player.SetVolume(0.6)
	assert.InDelta(t, 0.6, out.Volume(), 1e-9)
	assert.InDelta(t, 0.6, player.Snapshot().DisplayedVolume(), 1e-9)

	// Mute zeroes the display but preserves the stored volume
	player.ToggleMute()
	assert.True(t, out.Muted())
	snap := player.Snapshot()
	assert.InDelta(t, 0.6, snap.Volume, 1e-9)
	assert.Zero(t, snap.DisplayedVolume())

	// Unmute restores the exact stored volume
	player.ToggleMute()
	assert.False(t, out.Muted())
	assert.InDelta(t, 0.6, player.Snapshot().DisplayedVolume(), 1e-9)

	last := (*volumes)[len(*volumes)-1]
	assert.InDelta(t, 0.6, last.Displayed, 1e-9)
	assert.False(t, last.Muted)
}

func TestPlayerService_SetVolumeClearsMute(t *testing.T) {
	player, out, _ := newTestPlayer(t, 3)

	player.ToggleMute()
	require.True(t, out.Muted())

	player.SetVolume(0.4)
	assert.False(t, out.Muted())
	assert.InDelta(t, 0.4, out.Volume(), 1e-9)
}

func TestPlayerService_VolumeClamped(t *testing.T) {
	player, out, _ := newTestPlayer(t, 3)

	player.SetVolume(1.7)
	assert.InDelta(t, 1.0, out.Volume(), 1e-9)

	player.AdjustVolume(-5)
	assert.InDelta(t, 0.0, out.Volume(), 1e-9)
	assert.Zero(t, player.Snapshot().DisplayedVolume())
}

func TestPlayerService_FilterFreeText(t *testing.T) {
	player, _, bus := newTestPlayer(t, 6)
	filtered := recordEvents[domain.TracklistFilteredEvent](bus, domain.EventTracklistFiltered)

	player.FilterTracks("  TRACK 2  ")

	require.Len(t, *filtered, 1)
	ev := (*filtered)[0]
	assert.Equal(t, 1, ev.VisibleCount)
	assert.True(t, ev.Visible[1])
	assert.Nil(t, ev.Active)

	// Artist matches too
	player.FilterTracks("artist 1")
	ev = (*filtered)[1]
	assert.Equal(t, 3, ev.VisibleCount)

	// Empty query restores everything
	player.FilterTracks("")
	ev = (*filtered)[2]
	assert.Equal(t, 6, ev.VisibleCount)
}

func TestPlayerService_ActiveFilterExactMatch(t *testing.T) {
	player, _, bus := newTestPlayer(t, 6)
	filtered := recordEvents[domain.TracklistFilteredEvent](bus, domain.EventTracklistFiltered)

	player.SetActiveFilter(domain.FilterByArtist, "artist 2")

	require.Len(t, *filtered, 1)
	ev := (*filtered)[0]
	assert.Equal(t, 3, ev.VisibleCount)
	require.NotNil(t, ev.Active)
	assert.Equal(t, domain.FilterByArtist, ev.Active.Field)

	// Substrings do not match an exact filter
	player.SetActiveFilter(domain.FilterByArtist, "Artist")
	assert.Equal(t, 0, (*filtered)[1].VisibleCount)
}

func TestPlayerService_FiltersMutuallyExclusive(t *testing.T) {
	player, _, _ := newTestPlayer(t, 6)

	player.SetActiveFilter(domain.FilterByAlbum, "Album 1")
	require.NotNil(t, player.Snapshot().ActiveFilter)

	// Typing a free-text query clears the active filter
	player.FilterTracks("track")
	snap := player.Snapshot()
	assert.Nil(t, snap.ActiveFilter)
	assert.Equal(t, "track", snap.FilterQuery)

	// And vice versa
	player.SetActiveFilter(domain.FilterByAlbum, "Album 1")
	snap = player.Snapshot()
	require.NotNil(t, snap.ActiveFilter)
	assert.Empty(t, snap.FilterQuery)
}

func TestPlayerService_ClearActiveFilter(t *testing.T) {
	player, _, bus := newTestPlayer(t, 6)
	filtered := recordEvents[domain.TracklistFilteredEvent](bus, domain.EventTracklistFiltered)

	player.SetActiveFilter(domain.FilterByArtist, "Artist 1")
	player.ClearActiveFilter(true)

	ev := (*filtered)[len(*filtered)-1]
	assert.Nil(t, ev.Active)
	assert.Equal(t, 6, ev.VisibleCount)
	for _, visible := range ev.Visible {
		assert.True(t, visible)
	}
}

func TestPlayerService_StaleMetadataDropped(t *testing.T) {
	player, out, bus := newTestPlayer(t, 3)
	durations := recordEvents[domain.DurationKnownEvent](bus, domain.EventDurationKnown)

	player.Load(1, false)
	staleGen := out.Generation()
	player.Load(2, false)
	count := len(*durations)

	// A metadata event from the superseded load arrives late
	out.Emit(ports.OutputEvent{
		Kind:       ports.OutputLoaded,
		Generation: staleGen,
		Duration:   10 * time.Minute,
	})

	assert.Len(t, *durations, count)
}

func TestPlayerService_MediaErrorSurfacesToast(t *testing.T) {
	player, out, bus := newTestPlayer(t, 3)
	toasts := recordEvents[domain.ToastEvent](bus, domain.EventToast)
	errs := recordEvents[domain.PlaybackErrorEvent](bus, domain.EventPlaybackError)

	out.SetFailLoad(true)
	player.Load(1, true)

	require.Len(t, *toasts, 1)
	assert.Equal(t, "Error loading audio", (*toasts)[0].Message)
	require.Len(t, *errs, 1)
	var outputErr *domain.OutputError
	assert.ErrorAs(t, (*errs)[0].Err, &outputErr)

	// The player stays usable; skipping past the broken track works
	out.SetFailLoad(false)
	player.Next()
	assert.Equal(t, 2, player.Snapshot().CurrentIndex)
}

func TestPlayerService_ProgressEvents(t *testing.T) {
	player, out, bus := newTestPlayer(t, 3)
	progress := recordEvents[domain.ProgressEvent](bus, domain.EventProgress)

	player.TogglePlay()
	out.Tick(18 * time.Second)

	require.Len(t, *progress, 1)
	ev := (*progress)[0]
	assert.Equal(t, 18*time.Second, ev.Position)
	assert.Equal(t, 3*time.Minute, ev.Duration)
	assert.InDelta(t, 10.0, ev.Percent, 1e-9)
}
