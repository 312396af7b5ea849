package service

import (
	"sync"
	"time"

	"github.com/pinkcrab/jukebox/internal/domain"
	"github.com/pinkcrab/jukebox/internal/ports"
)

// Default toast timings: visible for two seconds, then a short fade.
const (
	DefaultToastVisible = 2 * time.Second
	DefaultToastFade    = 300 * time.Millisecond
)

// ToastSink is the display surface the toast controller drives.
type ToastSink interface {
	// ShowToast makes the toast visible with the given message.
	ShowToast(message string)

	// FadeToast starts the fade-out animation.
	FadeToast()

	// HideToast removes the toast entirely.
	HideToast()
}

// ToastController drives the single toast slot. A new message replaces
// whatever is showing and restarts the timers, so toasts never stack and
// the latest message always gets its full visible window.
type ToastController struct {
	sink    ToastSink
	visible time.Duration
	fade    time.Duration

	mu        sync.Mutex
	fadeTimer *time.Timer
	hideTimer *time.Timer

	subscription domain.SubscriptionID
	bus          ports.EventBus
}

// NewToastController creates a controller with the given timings. Zero
// durations fall back to the defaults.
func NewToastController(sink ToastSink, visible, fade time.Duration) *ToastController {
	if visible <= 0 {
		visible = DefaultToastVisible
	}
	if fade <= 0 {
		fade = DefaultToastFade
	}
	return &ToastController{sink: sink, visible: visible, fade: fade}
}

// Attach subscribes the controller to toast events on the bus.
func (c *ToastController) Attach(bus ports.EventBus) {
	c.bus = bus
	c.subscription = bus.Subscribe(domain.EventToast, func(event domain.Event) {
		if e, ok := event.(domain.ToastEvent); ok {
			c.Show(e.Message)
		}
	})
}

// Show displays a message, replacing any toast currently visible or fading.
func (c *ToastController) Show(message string) {
	c.mu.Lock()
	c.cancelTimersLocked()

	c.sink.ShowToast(message)
	c.fadeTimer = time.AfterFunc(c.visible, c.beginFade)
	c.mu.Unlock()
}

// Close cancels any pending timers and detaches from the bus.
func (c *ToastController) Close() {
	c.mu.Lock()
	c.cancelTimersLocked()
	c.mu.Unlock()

	if c.bus != nil {
		c.bus.Unsubscribe(c.subscription)
	}
}

func (c *ToastController) beginFade() {
	c.mu.Lock()
	c.sink.FadeToast()
	c.hideTimer = time.AfterFunc(c.fade, c.hide)
	c.mu.Unlock()
}

func (c *ToastController) hide() {
	c.mu.Lock()
	c.sink.HideToast()
	c.hideTimer = nil
	c.fadeTimer = nil
	c.mu.Unlock()
}

func (c *ToastController) cancelTimersLocked() {
	if c.fadeTimer != nil {
		c.fadeTimer.Stop()
		c.fadeTimer = nil
	}
	if c.hideTimer != nil {
		c.hideTimer.Stop()
		c.hideTimer = nil
	}
}
