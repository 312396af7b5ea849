// Package fyne implements the desktop UI with the Fyne toolkit. The
// MainWindow is a dumb view; the Presenter maps bus events onto it and
// forwards user gestures to the services.
package fyne

import (
	"log/slog"
	"sync"

	"github.com/pinkcrab/jukebox/internal/domain"
	"github.com/pinkcrab/jukebox/internal/ports"
	"github.com/pinkcrab/jukebox/internal/service"
)

// Presenter bridges the services and the view. Every display update flows
// through a bus subscription; every user gesture becomes a service call.
// The view never talks to a service and the services never see a widget.
type Presenter struct {
	logger *slog.Logger

	player *service.PlayerService
	viz    *service.VisualizerService
	bus    ports.EventBus
	view   ports.UI

	mu         sync.Mutex
	vizMode    domain.VizMode
	vizBlocked bool
}

// NewPresenter wires the presenter between the services and the view and
// pushes the initial state onto the display.
func NewPresenter(
	logger *slog.Logger,
	player *service.PlayerService,
	viz *service.VisualizerService,
	bus ports.EventBus,
	view ports.UI,
) *Presenter {
	p := &Presenter{
		logger: logger,
		player: player,
		viz:    viz,
		bus:    bus,
		view:   view,
	}

	p.subscribeToEvents()
	p.syncInitialState()

	return p
}

func (p *Presenter) subscribeToEvents() {
	subscriptions := map[domain.EventType]domain.EventHandler{
		domain.EventTrackChanged:      p.onTrackChanged,
		domain.EventPlayStateChanged:  p.onPlayStateChanged,
		domain.EventProgress:          p.onProgress,
		domain.EventDurationKnown:     p.onDurationKnown,
		domain.EventShuffleToggled:    p.onShuffleToggled,
		domain.EventRepeatChanged:     p.onRepeatChanged,
		domain.EventVolumeChanged:     p.onVolumeChanged,
		domain.EventQueueChanged:      p.onQueueChanged,
		domain.EventQueuePanelToggled: p.onQueuePanelToggled,
		domain.EventTracklistFiltered: p.onTracklistFiltered,
		domain.EventAnnouncement:      p.onAnnouncement,
		domain.EventVizModeChanged:    p.onVizModeChanged,
		domain.EventVizAvailability:   p.onVizAvailability,
		domain.EventVizFrame:          p.onVizFrame,
	}

	// Toast events are owned by the toast controller, not the presenter.
	for eventType, handler := range subscriptions {
		p.bus.Subscribe(eventType, handler)
	}
}

// syncInitialState pushes the player's current state onto a freshly built
// view.
func (p *Presenter) syncInitialState() {
	snap := p.player.Snapshot()
	tracks := p.player.Tracks()

	if snap.CurrentIndex >= 0 && snap.CurrentIndex < len(tracks) {
		p.view.SetNowPlaying(tracks[snap.CurrentIndex], snap.CurrentIndex)
	}
	p.view.SetPlayState(snap.Playing)
	p.view.SetShuffleState(snap.ShuffleEnabled)
	p.view.SetRepeatState(snap.RepeatMode)
	p.view.SetVolume(snap.DisplayedVolume(), snap.Muted)
	p.view.SetDuration(snap.Duration)
	p.view.SetVisualizerState(p.viz.Mode(), p.viz.Blocked())
}

// Event handlers

func (p *Presenter) onTrackChanged(event domain.Event) {
	e, ok := event.(domain.TrackChangedEvent)
	if !ok {
		return
	}
	p.view.SetNowPlaying(e.Track, e.Index)
	p.view.ResetProgress()
}

func (p *Presenter) onPlayStateChanged(event domain.Event) {
	if e, ok := event.(domain.PlayStateChangedEvent); ok {
		p.view.SetPlayState(e.Playing)
	}
}

func (p *Presenter) onProgress(event domain.Event) {
	if e, ok := event.(domain.ProgressEvent); ok {
		p.view.SetProgress(e.Percent, e.Position)
	}
}

func (p *Presenter) onDurationKnown(event domain.Event) {
	if e, ok := event.(domain.DurationKnownEvent); ok {
		p.view.SetDuration(e.Duration)
	}
}

func (p *Presenter) onShuffleToggled(event domain.Event) {
	if e, ok := event.(domain.ShuffleToggledEvent); ok {
		p.view.SetShuffleState(e.Enabled)
	}
}

func (p *Presenter) onRepeatChanged(event domain.Event) {
	if e, ok := event.(domain.RepeatChangedEvent); ok {
		p.view.SetRepeatState(e.Mode)
	}
}

func (p *Presenter) onVolumeChanged(event domain.Event) {
	if e, ok := event.(domain.VolumeChangedEvent); ok {
		p.view.SetVolume(e.Displayed, e.Muted)
	}
}

func (p *Presenter) onQueueChanged(event domain.Event) {
	if e, ok := event.(domain.QueueChangedEvent); ok {
		p.view.SetQueue(e.Entries)
	}
}

func (p *Presenter) onQueuePanelToggled(event domain.Event) {
	if e, ok := event.(domain.QueuePanelToggledEvent); ok {
		p.view.SetQueuePanelOpen(e.Open)
	}
}

func (p *Presenter) onTracklistFiltered(event domain.Event) {
	e, ok := event.(domain.TracklistFilteredEvent)
	if !ok {
		return
	}
	// A nil visibility slice only updates the indicator bar.
	if e.Visible != nil {
		p.view.ApplyTracklistFilter(e.Visible, e.VisibleCount, e.Active)
	} else {
		p.view.ApplyTracklistFilter(nil, e.VisibleCount, e.Active)
	}
	if e.Active != nil {
		p.view.ClearFilterInput()
	}
}

func (p *Presenter) onAnnouncement(event domain.Event) {
	if e, ok := event.(domain.AnnouncementEvent); ok {
		p.view.Announce(e.Message)
	}
}

func (p *Presenter) onVizModeChanged(event domain.Event) {
	e, ok := event.(domain.VizModeChangedEvent)
	if !ok {
		return
	}

	p.mu.Lock()
	p.vizMode = e.Mode
	blocked := p.vizBlocked
	p.mu.Unlock()

	p.view.SetVisualizerState(e.Mode, blocked)
	if e.Mode == domain.VizOff {
		p.view.ClearVisualizer()
	}
}

func (p *Presenter) onVizAvailability(event domain.Event) {
	e, ok := event.(domain.VizAvailabilityEvent)
	if !ok {
		return
	}

	p.mu.Lock()
	p.vizBlocked = e.Blocked
	p.vizMode = e.Mode
	p.mu.Unlock()

	p.view.SetVisualizerState(e.Mode, e.Blocked)
}

func (p *Presenter) onVizFrame(event domain.Event) {
	if e, ok := event.(domain.VizFrameEvent); ok {
		p.view.UpdateVisualizerFrame(e.Frame)
	}
}

// User gestures

func (p *Presenter) OnPlayPauseClicked()  { p.player.TogglePlay() }
func (p *Presenter) OnStopClicked()       { p.player.Stop() }
func (p *Presenter) OnNextClicked()       { p.player.Next() }
func (p *Presenter) OnPreviousClicked()   { p.player.Previous() }
func (p *Presenter) OnShuffleClicked()    { p.player.ToggleShuffle() }
func (p *Presenter) OnRepeatClicked()     { p.player.ToggleRepeat() }
func (p *Presenter) OnMuteClicked()       { p.player.ToggleMute() }
func (p *Presenter) OnQueueToggled()      { p.player.ToggleQueuePanel() }
func (p *Presenter) OnClearQueueClicked() { p.player.ClearQueue() }
func (p *Presenter) OnVizToggleClicked()  { p.viz.CycleMode() }

// OnSeekRequested jumps to a percentage of the track.
func (p *Presenter) OnSeekRequested(percent float64) { p.player.Seek(percent) }

// OnVolumeChanged applies a slider value in [0,1].
func (p *Presenter) OnVolumeChanged(volume float64) { p.player.SetVolume(volume) }

// OnTrackSelected loads and plays a tracklist row.
func (p *Presenter) OnTrackSelected(index int) { p.player.Load(index, true) }

// OnQueueToggleTrack adds or removes a track from the queue.
func (p *Presenter) OnQueueToggleTrack(index int) { p.player.AddToQueue(index) }

// OnQueueRemove removes a queue panel entry by position.
func (p *Presenter) OnQueueRemove(queueIndex int) { p.player.RemoveFromQueue(queueIndex) }

// OnFilterChanged applies the free-text filter as the user types.
func (p *Presenter) OnFilterChanged(query string) { p.player.FilterTracks(query) }

// OnArtistFilter applies an exact artist filter from a tracklist link.
func (p *Presenter) OnArtistFilter(value string) {
	p.player.SetActiveFilter(domain.FilterByArtist, value)
}

// OnAlbumFilter applies an exact album filter from a tracklist link.
func (p *Presenter) OnAlbumFilter(value string) {
	p.player.SetActiveFilter(domain.FilterByAlbum, value)
}

// OnClearActiveFilter dismisses the active-filter bar and restores all
// rows.
func (p *Presenter) OnClearActiveFilter() { p.player.ClearActiveFilter(true) }

// OnKey dispatches a keyboard gesture.
func (p *Presenter) OnKey(key service.KeyEvent) bool {
	return p.player.HandleShortcut(key)
}

// Tracks exposes the catalog for the view's tracklist.
func (p *Presenter) Tracks() []domain.Track { return p.player.Tracks() }
