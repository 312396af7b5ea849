// Package service provides the playback business logic for the jukebox.
package service

import (
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"

	"github.com/pinkcrab/jukebox/internal/domain"
	"github.com/pinkcrab/jukebox/internal/ports"
)

// User-facing copy. Tests depend on these substrings; treat them as
// canonical product copy, not as an API.
const (
	toastAlreadyPlaying = "Already playing this track"
	toastMediaError     = "Error loading audio"
)

// PlayerService is the sole authority over what is "now playing": track
// selection, queue, shuffle, repeat, filtering, volume and mute, and every
// derived display state. It issues commands to the audio output and reacts
// to its lifecycle events; the output alone decides the actual play/pause
// state.
//
// All state mutation happens under one mutex. The output listener never
// takes that mutex except for the track-ended path, which is only ever
// triggered by the output itself, so commands issued while holding the lock
// cannot re-enter it.
type PlayerService struct {
	logger *slog.Logger
	out    ports.AudioOutput
	bus    ports.EventBus

	mu             sync.Mutex
	tracks         []domain.Track
	currentIndex   int
	shuffleEnabled bool
	shuffledOrder  []int
	shuffleCursor  int
	repeatMode     domain.RepeatMode
	queue          []int
	volume         float64
	activeFilter   *domain.ActiveFilter
	filterQuery    string
	queuePanelOpen bool

	// Projections of output state, updated only from output events so the
	// UI can never claim a play state the engine contradicts.
	playing    atomic.Bool
	generation atomic.Uint64
}

// NewPlayerService creates the player for a parsed track list and registers
// it as the output's listener. The first track is loaded without autoplay.
//
// An empty track list returns domain.ErrEmptyTracklist and leaves the
// widget inert: no listener, no partial UI.
func NewPlayerService(
	logger *slog.Logger,
	out ports.AudioOutput,
	bus ports.EventBus,
	tracks []domain.Track,
	initialVolume float64,
) (*PlayerService, error) {
	if len(tracks) == 0 {
		return nil, domain.ErrEmptyTracklist
	}

	s := &PlayerService{
		logger: logger,
		out:    out,
		bus:    bus,
		tracks: tracks,
		volume: clampVolume(initialVolume),
	}

	out.SetListener(s.handleOutputEvent)
	out.SetVolume(s.volume)

	s.mu.Lock()
	s.loadLocked(0, false)
	s.mu.Unlock()

	logger.Debug("player initialized", slog.Int("tracks", len(tracks)))
	return s, nil
}

// Tracks returns the immutable catalog.
func (s *PlayerService) Tracks() []domain.Track {
	return s.tracks
}

// Load loads the track at index, optionally starting playback. Out-of-range
// indices are ignored.
func (s *PlayerService) Load(index int, autoplay bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(index, autoplay)
}

// TogglePlay plays or pauses based on the output's actual state, not a
// locally tracked flag, so rapid clicks cannot desync the two.
func (s *PlayerService) TogglePlay() {
	if s.out.Playing() {
		s.out.Pause()
		return
	}
	s.play()
}

// Play starts playback of the current track.
func (s *PlayerService) Play() {
	s.play()
}

// Pause pauses playback, keeping the position.
func (s *PlayerService) Pause() {
	s.out.Pause()
}

// Stop pauses playback and resets the position to the start.
func (s *PlayerService) Stop() {
	s.out.Pause()
	s.out.Seek(0)
}

// Next advances playback. Priority: the user queue first, unconditionally;
// then the shuffle order; then sequential. A sequential wrap with repeat
// off loads track zero without autoplay: the display advances but playback
// does not restart.
func (s *PlayerService) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextLocked()
}

// Previous steps back. Unlike Next it always wraps and always autoplays,
// regardless of repeat mode; skipping back should always land somewhere
// audible.
func (s *PlayerService) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shuffleEnabled {
		if s.shuffleCursor > 0 {
			s.shuffleCursor--
		}
		s.loadLocked(s.shuffledOrder[s.shuffleCursor], true)
		return
	}

	prev := s.currentIndex - 1
	if prev < 0 {
		prev = len(s.tracks) - 1
	}
	s.loadLocked(prev, true)
}

// ToggleShuffle flips shuffle mode, regenerating the shuffle order when
// turning on.
func (s *PlayerService) ToggleShuffle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shuffleEnabled = !s.shuffleEnabled
	if s.shuffleEnabled {
		s.generateShuffleOrderLocked()
	}

	s.bus.Publish(domain.NewShuffleToggledEvent(s.shuffleEnabled))
	if s.shuffleEnabled {
		s.announce("Shuffle on")
	} else {
		s.announce("Shuffle off")
	}
}

// ToggleRepeat cycles the repeat mode off -> all -> one -> off.
func (s *PlayerService) ToggleRepeat() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.repeatMode = s.repeatMode.Next()
	s.bus.Publish(domain.NewRepeatChangedEvent(s.repeatMode))
	s.announce(s.repeatMode.Announcement())
}

// Seek jumps to a percentage of the track. A no-op while the duration is
// still unknown; there is nothing sensible to seek within.
func (s *PlayerService) Seek(percent float64) {
	duration := s.out.Duration()
	if duration <= 0 {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	s.out.Seek(time.Duration(percent / 100 * float64(duration)))
}

// SeekBy nudges the position by delta, clamped to the track bounds.
func (s *PlayerService) SeekBy(delta time.Duration) {
	position := s.out.Position() + delta
	if position < 0 {
		position = 0
	}
	if duration := s.out.Duration(); duration > 0 && position > duration {
		position = duration
	}
	s.out.Seek(position)
}

// SetVolume sets the volume, clamped to [0,1], and always unmutes: an
// explicit volume gesture means the user wants to hear something.
func (s *PlayerService) SetVolume(volume float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setVolumeLocked(volume)
}

// AdjustVolume nudges the volume by delta.
func (s *PlayerService) AdjustVolume(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setVolumeLocked(s.volume + delta)
}

// ToggleMute flips the output's muted flag. Muted is an output behavior,
// not a volume value: unmuting restores the stored volume exactly.
func (s *PlayerService) ToggleMute() {
	s.mu.Lock()
	defer s.mu.Unlock()

	muted := !s.out.Muted()
	s.out.SetMuted(muted)
	s.publishVolumeLocked(muted)
}

// FilterTracks applies a case-insensitive substring filter over
// "title artist album" per track. An empty query matches everything.
// Any active artist/album filter is cleared; the two are exclusive.
func (s *PlayerService) FilterTracks(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeFilter = nil
	s.filterQuery = query

	normalized := strings.ToLower(strings.TrimSpace(query))
	visible := make([]bool, len(s.tracks))
	count := 0
	for i, track := range s.tracks {
		haystack := strings.ToLower(track.Title + " " + track.Artist + " " + track.Album)
		visible[i] = normalized == "" || strings.Contains(haystack, normalized)
		if visible[i] {
			count++
		}
	}

	s.bus.Publish(domain.NewTracklistFilteredEvent(visible, count, nil, query))
}

// SetActiveFilter applies an exact, case-insensitive artist or album filter
// and clears the free-text query.
func (s *PlayerService) SetActiveFilter(field domain.FilterField, value string) {
	if value == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.filterQuery = ""
	s.activeFilter = &domain.ActiveFilter{Field: field, Value: value}

	visible := make([]bool, len(s.tracks))
	count := 0
	for i, track := range s.tracks {
		candidate := track.Artist
		if field == domain.FilterByAlbum {
			candidate = track.Album
		}
		visible[i] = candidate != "" && strings.EqualFold(candidate, value)
		if visible[i] {
			count++
		}
	}

	s.bus.Publish(domain.NewTracklistFilteredEvent(visible, count, s.activeFilter, ""))
}

// ClearActiveFilter drops the active artist/album filter. With restoreAll
// set, every row becomes visible again; otherwise only the indicator is
// cleared and row visibility is left for the caller's follow-up filter.
func (s *PlayerService) ClearActiveFilter(restoreAll bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeFilter = nil

	if !restoreAll {
		s.bus.Publish(domain.NewTracklistFilteredEvent(nil, len(s.tracks), nil, s.filterQuery))
		return
	}

	visible := make([]bool, len(s.tracks))
	for i := range visible {
		visible[i] = true
	}
	s.bus.Publish(domain.NewTracklistFilteredEvent(visible, len(s.tracks), nil, ""))
}

// AddToQueue toggles a track's queue membership. The current track can
// never be queued: it is definitionally "now", not "next".
func (s *PlayerService) AddToQueue(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.tracks) {
		return
	}

	if index == s.currentIndex {
		s.toast(toastAlreadyPlaying)
		s.announce(toastAlreadyPlaying)
		return
	}

	track := s.tracks[index]
	if pos := lo.IndexOf(s.queue, index); pos != -1 {
		s.queue = append(s.queue[:pos], s.queue[pos+1:]...)
		s.publishQueueLocked()
		msg := `Removed "` + track.DisplayTitle() + `" from queue`
		s.toast(msg)
		s.announce(msg)
		return
	}

	s.queue = append(s.queue, index)
	s.publishQueueLocked()
	msg := `Added "` + track.DisplayTitle() + `" to queue`
	s.toast(msg)
	s.announce(msg)
}

// RemoveFromQueue removes the entry at the given queue position.
func (s *PlayerService) RemoveFromQueue(queueIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if queueIndex < 0 || queueIndex >= len(s.queue) {
		return
	}
	s.queue = append(s.queue[:queueIndex], s.queue[queueIndex+1:]...)
	s.publishQueueLocked()
}

// ClearQueue empties the queue. No confirmation step.
func (s *PlayerService) ClearQueue() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue = nil
	s.publishQueueLocked()
}

// ToggleQueuePanel flips queue panel visibility.
func (s *PlayerService) ToggleQueuePanel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queuePanelOpen = !s.queuePanelOpen
	s.bus.Publish(domain.NewQueuePanelToggledEvent(s.queuePanelOpen))
}

// CloseQueuePanel closes the queue panel if open.
func (s *PlayerService) CloseQueuePanel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.queuePanelOpen {
		return
	}
	s.queuePanelOpen = false
	s.bus.Publish(domain.NewQueuePanelToggledEvent(false))
}

// Playing reports the output's actual play state.
func (s *PlayerService) Playing() bool {
	return s.playing.Load()
}

// Snapshot returns a copy of the player's state for tests and for surfaces
// that need more than a single event carries.
func (s *PlayerService) Snapshot() domain.PlayerSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var active *domain.ActiveFilter
	if s.activeFilter != nil {
		copied := *s.activeFilter
		active = &copied
	}

	return domain.PlayerSnapshot{
		CurrentIndex:   s.currentIndex,
		Playing:        s.playing.Load(),
		ShuffleEnabled: s.shuffleEnabled,
		ShuffleOrder:   append([]int(nil), s.shuffledOrder...),
		ShuffleCursor:  s.shuffleCursor,
		RepeatMode:     s.repeatMode,
		Queue:          append([]int(nil), s.queue...),
		Volume:         s.volume,
		Muted:          s.out.Muted(),
		ActiveFilter:   active,
		FilterQuery:    s.filterQuery,
		Position:       s.out.Position(),
		Duration:       s.out.Duration(),
	}
}

// Close detaches the player from the output.
func (s *PlayerService) Close() {
	s.out.SetListener(nil)
}

// loadLocked loads a track into the output and publishes every derived
// display update. Caller must hold the mutex.
func (s *PlayerService) loadLocked(index int, autoplay bool) {
	if index < 0 || index >= len(s.tracks) {
		return
	}

	track := s.tracks[index]
	s.currentIndex = index

	gen := s.out.SetSource(track.MediaURL)
	s.generation.Store(gen)

	s.bus.Publish(domain.NewTrackChangedEvent(track, index, gen, autoplay))

	// Metadata may have arrived synchronously with the source swap, in
	// which case its Loaded event predates the TrackChanged reset above.
	if duration := s.out.Duration(); duration > 0 {
		s.bus.Publish(domain.NewDurationKnownEvent(duration))
	}

	message := "Now playing: " + track.DisplayTitle()
	if track.Artist != "" {
		message += " by " + track.Artist
	}
	s.announce(message)

	if autoplay {
		if err := s.out.Play(); err != nil {
			// Expected under autoplay policies; not a user-visible failure.
			s.logger.Debug("autoplay prevented", slog.Any("error", err))
		}
	}
}

// nextLocked implements the advance priority order. Caller must hold the
// mutex.
func (s *PlayerService) nextLocked() {
	if len(s.queue) > 0 {
		index := s.queue[0]
		s.queue = s.queue[1:]
		s.publishQueueLocked()
		s.loadLocked(index, true)
		return
	}

	if s.shuffleEnabled {
		s.shuffleCursor++
		if s.shuffleCursor >= len(s.shuffledOrder) {
			if s.repeatMode != domain.RepeatAll {
				// No room to advance; stay parked on the last track.
				s.shuffleCursor = len(s.shuffledOrder) - 1
				return
			}
			s.generateShuffleOrderLocked()
		}
		s.loadLocked(s.shuffledOrder[s.shuffleCursor], true)
		return
	}

	next := (s.currentIndex + 1) % len(s.tracks)
	if next == 0 && s.repeatMode == domain.RepeatOff {
		s.loadLocked(0, false)
		return
	}
	s.loadLocked(next, true)
}

// generateShuffleOrderLocked builds a fresh permutation of all indices with
// the current track moved to the front, and resets the cursor. Caller must
// hold the mutex.
func (s *PlayerService) generateShuffleOrderLocked() {
	order := make([]int, len(s.tracks))
	for i := range order {
		order[i] = i
	}
	rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	if pos := lo.IndexOf(order, s.currentIndex); pos > 0 {
		order = append(order[:pos], order[pos+1:]...)
		order = append([]int{s.currentIndex}, order...)
	}

	s.shuffledOrder = order
	s.shuffleCursor = 0
}

// handleEnded reacts to the current track playing to completion.
func (s *PlayerService) handleEnded() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repeatMode == domain.RepeatOne {
		// Restart in place; the index and source do not change.
		s.out.Seek(0)
		if err := s.out.Play(); err != nil {
			s.logger.Debug("repeat restart prevented", slog.Any("error", err))
		}
		return
	}
	s.nextLocked()
}

// setVolumeLocked applies a clamped volume and clears mute.
func (s *PlayerService) setVolumeLocked(volume float64) {
	s.volume = clampVolume(volume)
	s.out.SetVolume(s.volume)
	s.out.SetMuted(false)
	s.publishVolumeLocked(false)
}

// publishVolumeLocked emits the volume event with the displayed value the
// UI should render: zero while muted or at zero volume.
func (s *PlayerService) publishVolumeLocked(muted bool) {
	displayed := s.volume
	if muted || s.volume == 0 {
		displayed = 0
	}
	s.bus.Publish(domain.NewVolumeChangedEvent(s.volume, muted, displayed))
}

// publishQueueLocked emits the resolved queue contents.
func (s *PlayerService) publishQueueLocked() {
	entries := lo.Map(s.queue, func(trackIndex int, _ int) domain.QueueEntry {
		return domain.QueueEntry{TrackIndex: trackIndex, Track: s.tracks[trackIndex]}
	})
	s.bus.Publish(domain.NewQueueChangedEvent(entries))
}

func (s *PlayerService) toast(message string) {
	s.bus.Publish(domain.NewToastEvent(message))
}

func (s *PlayerService) announce(message string) {
	s.bus.Publish(domain.NewAnnouncementEvent(message))
}

// handleOutputEvent is the output's lifecycle listener. It touches only the
// atomic projections and the bus, except for the ended path; events from a
// superseded load are dropped by the generation guard.
func (s *PlayerService) handleOutputEvent(ev ports.OutputEvent) {
	switch ev.Kind {
	case ports.OutputPlay:
		s.playing.Store(true)
		s.bus.Publish(domain.NewPlayStateChangedEvent(true))

	case ports.OutputPause:
		s.playing.Store(false)
		s.bus.Publish(domain.NewPlayStateChangedEvent(false))

	case ports.OutputTimeUpdate:
		if ev.Generation < s.generation.Load() {
			return
		}
		percent := 0.0
		if ev.Duration > 0 {
			percent = ev.Position.Seconds() / ev.Duration.Seconds() * 100
		}
		s.bus.Publish(domain.NewProgressEvent(ev.Position, ev.Duration, percent))

	case ports.OutputLoaded:
		if ev.Generation < s.generation.Load() {
			return
		}
		s.bus.Publish(domain.NewDurationKnownEvent(ev.Duration))

	case ports.OutputEnded:
		if ev.Generation < s.generation.Load() {
			return
		}
		s.playing.Store(false)
		s.bus.Publish(domain.NewPlayStateChangedEvent(false))
		s.handleEnded()

	case ports.OutputError:
		if ev.Generation < s.generation.Load() {
			return
		}
		s.logger.Warn("media error", slog.Any("error", ev.Err))
		s.bus.Publish(domain.NewPlaybackErrorEvent(ev.Err))
		s.toast(toastMediaError)
	}
}

// play starts playback, logging rejections instead of surfacing them.
func (s *PlayerService) play() {
	if err := s.out.Play(); err != nil {
		s.logger.Debug("play failed", slog.Any("error", err))
	}
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
