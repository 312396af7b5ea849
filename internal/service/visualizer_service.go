package service

import (
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pinkcrab/jukebox/internal/domain"
	"github.com/pinkcrab/jukebox/internal/ports"
	"github.com/pinkcrab/jukebox/internal/visualizer"
)

// Toast shown whenever the visualizer cannot run for the current track.
const toastVizUnavailable = "Visualizer unavailable (cross-origin audio)"

// frameInterval paces the render loop at roughly 30 frames per second.
const frameInterval = 33 * time.Millisecond

// VisualizerService owns the visualizer mode cycle, the origin gate, and
// the frame loop. Wiring the analyser into the output is irreversible for
// the life of the output, so the gate runs before the first connection and
// a track that later turns cross-origin forces the mode back to off.
type VisualizerService struct {
	logger     *slog.Logger
	out        ports.AudioOutput
	bus        ports.EventBus
	renderer   *visualizer.Renderer
	pageOrigin string

	mu        sync.Mutex
	mode      domain.VizMode
	blocked   bool
	trackURL  string
	analyser  ports.Analyser
	connected bool
	stop      chan struct{}
	loopDone  sync.WaitGroup

	subscription domain.SubscriptionID
}

// NewVisualizerService creates the visualizer against the given output.
// pageOrigin is the origin audio must be served from for analysis to be
// allowed; frames are rendered at width by height pixels.
func NewVisualizerService(
	logger *slog.Logger,
	out ports.AudioOutput,
	bus ports.EventBus,
	pageOrigin string,
	width, height int,
) *VisualizerService {
	s := &VisualizerService{
		logger:     logger,
		out:        out,
		bus:        bus,
		renderer:   visualizer.NewRenderer(width, height),
		pageOrigin: pageOrigin,
		mode:       domain.VizOff,
	}

	s.subscription = bus.Subscribe(domain.EventTrackChanged, func(event domain.Event) {
		if e, ok := event.(domain.TrackChangedEvent); ok {
			s.TrackChanged(e.Track.MediaURL)
		}
	})

	return s
}

// Mode returns the current visualizer mode.
func (s *VisualizerService) Mode() domain.VizMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Blocked reports whether the current track's origin blocks analysis.
func (s *VisualizerService) Blocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocked
}

// CycleMode advances to the next mode in the cycle. While blocked and off
// it refuses with a toast instead of cycling into modes that cannot render.
func (s *VisualizerService) CycleMode() {
	s.mu.Lock()
	if s.blocked && s.mode == domain.VizOff {
		s.mu.Unlock()
		s.bus.Publish(domain.NewToastEvent(toastVizUnavailable))
		return
	}
	next := s.mode.Next()
	s.mu.Unlock()

	s.SetMode(next)
}

// SetMode switches the visualizer mode. Turning a mode on wires the
// analyser first; when the origin gate refuses, the mode snaps back to off
// with a toast.
func (s *VisualizerService) SetMode(mode domain.VizMode) {
	s.mu.Lock()

	if mode == domain.VizOff {
		s.mode = domain.VizOff
		s.stopLoopLocked()
		s.mu.Unlock()
		s.bus.Publish(domain.NewVizModeChangedEvent(domain.VizOff))
		return
	}

	if err := s.ensureAnalyserLocked(); err != nil {
		s.mode = domain.VizOff
		s.stopLoopLocked()
		s.mu.Unlock()

		s.logger.Info("visualizer disabled", slog.Any("reason", err))
		s.bus.Publish(domain.NewToastEvent(toastVizUnavailable))
		s.bus.Publish(domain.NewVizModeChangedEvent(domain.VizOff))
		return
	}

	s.mode = mode
	s.startLoopLocked()
	s.mu.Unlock()

	s.bus.Publish(domain.NewVizModeChangedEvent(mode))
}

// TrackChanged records the new source and re-checks availability.
func (s *VisualizerService) TrackChanged(mediaURL string) {
	s.mu.Lock()
	s.trackURL = mediaURL
	s.mu.Unlock()

	s.CheckAvailability()
}

// CheckAvailability re-runs the origin gate for the current track. A
// running visualizer on a track that is now cross-origin is forced off;
// playback always wins over eye candy.
func (s *VisualizerService) CheckAvailability() {
	s.mu.Lock()
	s.blocked = !s.sameOrigin(s.trackURL)
	blocked := s.blocked
	mode := s.mode

	forcedOff := blocked && mode != domain.VizOff
	if forcedOff {
		s.mode = domain.VizOff
		s.stopLoopLocked()
		mode = domain.VizOff
	}
	s.mu.Unlock()

	s.bus.Publish(domain.NewVizAvailabilityEvent(blocked, mode))
	if forcedOff {
		s.bus.Publish(domain.NewVizModeChangedEvent(domain.VizOff))
	}
}

// Destroy stops the frame loop and detaches from the bus. The analyser
// connection itself cannot be undone; it dies with the output.
func (s *VisualizerService) Destroy() {
	s.mu.Lock()
	s.mode = domain.VizOff
	s.stopLoopLocked()
	s.mu.Unlock()

	s.bus.Unsubscribe(s.subscription)
	s.loopDone.Wait()
}

// ensureAnalyserLocked wires the analysis tap on first use. The gate must
// pass before wiring: connecting a cross-origin source would silence
// playback outright, which is far worse than a missing visualizer.
func (s *VisualizerService) ensureAnalyserLocked() error {
	if s.connected {
		return nil
	}

	if !s.sameOrigin(s.trackURL) {
		s.blocked = true
		return domain.ErrAnalysisBlocked
	}

	analyser, err := s.out.ConnectAnalyser()
	if err != nil {
		s.blocked = true
		return err
	}

	s.analyser = analyser
	s.connected = true
	s.blocked = false
	return nil
}

// sameOrigin reports whether a media URL is served from the configured
// page origin. Relative and file paths count as local; an unparsable URL
// fails closed.
func (s *VisualizerService) sameOrigin(mediaURL string) bool {
	if mediaURL == "" {
		return false
	}

	parsed, err := url.Parse(mediaURL)
	if err != nil {
		return false
	}
	if parsed.Scheme == "" || parsed.Scheme == "file" {
		return true
	}

	origin, err := url.Parse(s.pageOrigin)
	if err != nil || origin.Host == "" {
		return false
	}
	return strings.EqualFold(parsed.Scheme, origin.Scheme) &&
		strings.EqualFold(parsed.Host, origin.Host)
}

// startLoopLocked launches the frame loop if it is not already running.
func (s *VisualizerService) startLoopLocked() {
	if s.stop != nil {
		return
	}

	stop := make(chan struct{})
	s.stop = stop
	s.loopDone.Add(1)
	go s.frameLoop(stop)
}

// stopLoopLocked signals the frame loop to exit.
func (s *VisualizerService) stopLoopLocked() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

// frameLoop reads sample data and publishes rendered frames until stopped.
// The stop check sits at the top of every iteration so a mode switch to off
// never races an extra frame onto a cleared canvas.
func (s *VisualizerService) frameLoop(stop chan struct{}) {
	defer s.loopDone.Done()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	buf := make([]byte, visualizer.BinCount)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		mode := s.mode
		analyser := s.analyser
		s.mu.Unlock()

		if mode == domain.VizOff || analyser == nil {
			return
		}

		if mode.TimeDomain() {
			analyser.Waveform(buf)
		} else {
			analyser.Frequency(buf)
		}

		s.bus.Publish(domain.NewVizFrameEvent(s.renderer.Render(mode, buf)))
	}
}
