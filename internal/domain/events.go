// Package domain defines the events the player publishes on the event bus.
// Every state change that a display surface cares about is an event; the UI
// layer never reaches into the services.
package domain

import (
	"image"
	"time"
)

// Event is the base interface for all events in the system.
type Event interface {
	// Type returns the event type identifier.
	Type() EventType

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Playback events
	EventTrackChanged     EventType = "track.changed"
	EventPlayStateChanged EventType = "play.state_changed"
	EventProgress         EventType = "track.progress"
	EventDurationKnown    EventType = "track.duration_known"
	EventPlaybackError    EventType = "track.error"

	// Mode events
	EventShuffleToggled EventType = "shuffle.toggled"
	EventRepeatChanged  EventType = "repeat.changed"

	// Volume events
	EventVolumeChanged EventType = "volume.changed"

	// Queue events
	EventQueueChanged      EventType = "queue.changed"
	EventQueuePanelToggled EventType = "queue.panel_toggled"

	// Tracklist events
	EventTracklistFiltered EventType = "tracklist.filtered"

	// Feedback events
	EventToast        EventType = "feedback.toast"
	EventAnnouncement EventType = "feedback.announcement"

	// Visualizer events
	EventVizModeChanged  EventType = "viz.mode_changed"
	EventVizAvailability EventType = "viz.availability"
	EventVizFrame        EventType = "viz.frame"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides the timestamp shared by all concrete events.
type baseEvent struct {
	timestamp time.Time
}

func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// TrackChangedEvent is published whenever a track is loaded into the output.
// Generation increases with every load so late-arriving output events for a
// superseded load can be recognized and dropped.
type TrackChangedEvent struct {
	baseEvent
	Track      Track
	Index      int
	Generation uint64
	Autoplay   bool
}

// Type returns the event type.
func (e TrackChangedEvent) Type() EventType { return EventTrackChanged }

// NewTrackChangedEvent creates a new TrackChangedEvent.
func NewTrackChangedEvent(track Track, index int, generation uint64, autoplay bool) TrackChangedEvent {
	return TrackChangedEvent{baseEvent: newBaseEvent(), Track: track, Index: index, Generation: generation, Autoplay: autoplay}
}

// PlayStateChangedEvent mirrors the audio output's actual play/pause state.
// It is only ever produced from output lifecycle events, never from intent.
type PlayStateChangedEvent struct {
	baseEvent
	Playing bool
}

// Type returns the event type.
func (e PlayStateChangedEvent) Type() EventType { return EventPlayStateChanged }

// NewPlayStateChangedEvent creates a new PlayStateChangedEvent.
func NewPlayStateChangedEvent(playing bool) PlayStateChangedEvent {
	return PlayStateChangedEvent{baseEvent: newBaseEvent(), Playing: playing}
}

// ProgressEvent is published on every time update of the current track.
type ProgressEvent struct {
	baseEvent
	Position time.Duration
	Duration time.Duration
	Percent  float64
}

// Type returns the event type.
func (e ProgressEvent) Type() EventType { return EventProgress }

// NewProgressEvent creates a new ProgressEvent.
func NewProgressEvent(position, duration time.Duration, percent float64) ProgressEvent {
	return ProgressEvent{baseEvent: newBaseEvent(), Position: position, Duration: duration, Percent: percent}
}

// DurationKnownEvent is published once the output has loaded enough metadata
// to know the current track's duration.
type DurationKnownEvent struct {
	baseEvent
	Duration time.Duration
}

// Type returns the event type.
func (e DurationKnownEvent) Type() EventType { return EventDurationKnown }

// NewDurationKnownEvent creates a new DurationKnownEvent.
func NewDurationKnownEvent(duration time.Duration) DurationKnownEvent {
	return DurationKnownEvent{baseEvent: newBaseEvent(), Duration: duration}
}

// PlaybackErrorEvent is published when the output reports a media error.
// This is the §7(c) case: surfaced to the user as a toast, never fatal.
type PlaybackErrorEvent struct {
	baseEvent
	Err error
}

// Type returns the event type.
func (e PlaybackErrorEvent) Type() EventType { return EventPlaybackError }

// NewPlaybackErrorEvent creates a new PlaybackErrorEvent.
func NewPlaybackErrorEvent(err error) PlaybackErrorEvent {
	return PlaybackErrorEvent{baseEvent: newBaseEvent(), Err: err}
}

// ShuffleToggledEvent is published when shuffle is switched on or off.
type ShuffleToggledEvent struct {
	baseEvent
	Enabled bool
}

// Type returns the event type.
func (e ShuffleToggledEvent) Type() EventType { return EventShuffleToggled }

// NewShuffleToggledEvent creates a new ShuffleToggledEvent.
func NewShuffleToggledEvent(enabled bool) ShuffleToggledEvent {
	return ShuffleToggledEvent{baseEvent: newBaseEvent(), Enabled: enabled}
}

// RepeatChangedEvent is published when the repeat mode cycles.
type RepeatChangedEvent struct {
	baseEvent
	Mode RepeatMode
}

// Type returns the event type.
func (e RepeatChangedEvent) Type() EventType { return EventRepeatChanged }

// NewRepeatChangedEvent creates a new RepeatChangedEvent.
func NewRepeatChangedEvent(mode RepeatMode) RepeatChangedEvent {
	return RepeatChangedEvent{baseEvent: newBaseEvent(), Mode: mode}
}

// VolumeChangedEvent is published when volume or mute state changes.
// Displayed carries the value the UI should render (zero while muted).
type VolumeChangedEvent struct {
	baseEvent
	Volume    float64
	Muted     bool
	Displayed float64
}

// Type returns the event type.
func (e VolumeChangedEvent) Type() EventType { return EventVolumeChanged }

// NewVolumeChangedEvent creates a new VolumeChangedEvent.
func NewVolumeChangedEvent(volume float64, muted bool, displayed float64) VolumeChangedEvent {
	return VolumeChangedEvent{baseEvent: newBaseEvent(), Volume: volume, Muted: muted, Displayed: displayed}
}

// QueueChangedEvent is published on every queue mutation with the full,
// resolved queue contents.
type QueueChangedEvent struct {
	baseEvent
	Entries []QueueEntry
}

// Type returns the event type.
func (e QueueChangedEvent) Type() EventType { return EventQueueChanged }

// NewQueueChangedEvent creates a new QueueChangedEvent.
func NewQueueChangedEvent(entries []QueueEntry) QueueChangedEvent {
	return QueueChangedEvent{baseEvent: newBaseEvent(), Entries: entries}
}

// QueuePanelToggledEvent is published when the queue panel opens or closes.
type QueuePanelToggledEvent struct {
	baseEvent
	Open bool
}

// Type returns the event type.
func (e QueuePanelToggledEvent) Type() EventType { return EventQueuePanelToggled }

// NewQueuePanelToggledEvent creates a new QueuePanelToggledEvent.
func NewQueuePanelToggledEvent(open bool) QueuePanelToggledEvent {
	return QueuePanelToggledEvent{baseEvent: newBaseEvent(), Open: open}
}

// TracklistFilteredEvent carries per-row visibility after a filter change.
// Exactly one of Active and Query is in effect; both empty means no filter.
type TracklistFilteredEvent struct {
	baseEvent
	Visible      []bool
	VisibleCount int
	Active       *ActiveFilter
	Query        string
}

// Type returns the event type.
func (e TracklistFilteredEvent) Type() EventType { return EventTracklistFiltered }

// NewTracklistFilteredEvent creates a new TracklistFilteredEvent.
func NewTracklistFilteredEvent(visible []bool, count int, active *ActiveFilter, query string) TracklistFilteredEvent {
	return TracklistFilteredEvent{baseEvent: newBaseEvent(), Visible: visible, VisibleCount: count, Active: active, Query: query}
}

// ToastEvent requests a transient notification. Toasts are single-slot: a
// new one replaces whatever is currently visible.
type ToastEvent struct {
	baseEvent
	Message string
}

// Type returns the event type.
func (e ToastEvent) Type() EventType { return EventToast }

// NewToastEvent creates a new ToastEvent.
func NewToastEvent(message string) ToastEvent {
	return ToastEvent{baseEvent: newBaseEvent(), Message: message}
}

// AnnouncementEvent pushes a short phrase to the assistive-technology live
// region.
type AnnouncementEvent struct {
	baseEvent
	Message string
}

// Type returns the event type.
func (e AnnouncementEvent) Type() EventType { return EventAnnouncement }

// NewAnnouncementEvent creates a new AnnouncementEvent.
func NewAnnouncementEvent(message string) AnnouncementEvent {
	return AnnouncementEvent{baseEvent: newBaseEvent(), Message: message}
}

// VizModeChangedEvent is published when the visualizer mode changes.
type VizModeChangedEvent struct {
	baseEvent
	Mode VizMode
}

// Type returns the event type.
func (e VizModeChangedEvent) Type() EventType { return EventVizModeChanged }

// NewVizModeChangedEvent creates a new VizModeChangedEvent.
func NewVizModeChangedEvent(mode VizMode) VizModeChangedEvent {
	return VizModeChangedEvent{baseEvent: newBaseEvent(), Mode: mode}
}

// VizAvailabilityEvent is published after every same-origin re-check.
type VizAvailabilityEvent struct {
	baseEvent
	Blocked bool
	Mode    VizMode
}

// Type returns the event type.
func (e VizAvailabilityEvent) Type() EventType { return EventVizAvailability }

// NewVizAvailabilityEvent creates a new VizAvailabilityEvent.
func NewVizAvailabilityEvent(blocked bool, mode VizMode) VizAvailabilityEvent {
	return VizAvailabilityEvent{baseEvent: newBaseEvent(), Blocked: blocked, Mode: mode}
}

// VizFrameEvent carries one rendered visualizer frame.
type VizFrameEvent struct {
	baseEvent
	Frame *image.RGBA
}

// Type returns the event type.
func (e VizFrameEvent) Type() EventType { return EventVizFrame }

// NewVizFrameEvent creates a new VizFrameEvent.
func NewVizFrameEvent(frame *image.RGBA) VizFrameEvent {
	return VizFrameEvent{baseEvent: newBaseEvent(), Frame: frame}
}
