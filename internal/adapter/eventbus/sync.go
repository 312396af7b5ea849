// Package eventbus provides the synchronous EventBus implementation used by
// the player. Handlers run inline on the publishing goroutine, in
// subscription order.
package eventbus

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/pinkcrab/jukebox/internal/domain"
	"github.com/pinkcrab/jukebox/internal/ports"
)

// SyncEventBus delivers events synchronously. Slow handlers block delivery,
// which is exactly what the single-UI-thread model of the player wants: all
// state mutation happens inside event handler callbacks, one at a time.
//
// Thread-safety: publish and subscribe may be called from any goroutine.
type SyncEventBus struct {
	logger *slog.Logger

	mu             sync.RWMutex
	subscribers    map[domain.EventType][]subscription
	allSubscribers []subscription
	idCounter      uint64
	closed         bool
}

type subscription struct {
	id      domain.SubscriptionID
	handler domain.EventHandler
}

// NewSyncEventBus creates a new synchronous event bus.
func NewSyncEventBus() *SyncEventBus {
	return &SyncEventBus{
		subscribers: make(map[domain.EventType][]subscription),
	}
}

// SetLogger sets the logger used for handler panic reports.
func (bus *SyncEventBus) SetLogger(logger *slog.Logger) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.logger = logger
}

// Publish delivers the event to type-specific subscribers, then wildcard
// subscribers. Panics in handlers are recovered and logged so one broken
// surface cannot take the others down.
func (bus *SyncEventBus) Publish(event domain.Event) {
	if event == nil {
		return
	}

	bus.mu.RLock()
	if bus.closed {
		bus.mu.RUnlock()
		return
	}
	typed := make([]subscription, len(bus.subscribers[event.Type()]))
	copy(typed, bus.subscribers[event.Type()])
	wildcard := make([]subscription, len(bus.allSubscribers))
	copy(wildcard, bus.allSubscribers)
	bus.mu.RUnlock()

	for _, sub := range typed {
		bus.callHandler(sub.handler, event)
	}
	for _, sub := range wildcard {
		bus.callHandler(sub.handler, event)
	}
}

func (bus *SyncEventBus) callHandler(handler domain.EventHandler, event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			if bus.logger != nil {
				bus.logger.Error("event handler panicked",
					slog.Any("panic", r),
					slog.String("event_type", string(event.Type())))
			}
		}
	}()

	handler(event)
}

// Subscribe registers a handler for one event type.
func (bus *SyncEventBus) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	id := domain.SubscriptionID(fmt.Sprintf("sub-%d", atomic.AddUint64(&bus.idCounter, 1)))
	bus.subscribers[eventType] = append(bus.subscribers[eventType], subscription{id: id, handler: handler})
	return id
}

// Unsubscribe removes a subscription; unknown IDs are a no-op.
func (bus *SyncEventBus) Unsubscribe(id domain.SubscriptionID) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	for eventType, subs := range bus.subscribers {
		for i, sub := range subs {
			if sub.id == id {
				bus.subscribers[eventType] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}

	for i, sub := range bus.allSubscribers {
		if sub.id == id {
			bus.allSubscribers = append(bus.allSubscribers[:i], bus.allSubscribers[i+1:]...)
			return
		}
	}
}

// SubscribeAll registers a handler that receives every event.
func (bus *SyncEventBus) SubscribeAll(handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	id := domain.SubscriptionID(fmt.Sprintf("sub-all-%d", atomic.AddUint64(&bus.idCounter, 1)))
	bus.allSubscribers = append(bus.allSubscribers, subscription{id: id, handler: handler})
	return id
}

// Close drops all subscriptions; further publishes are silently discarded.
func (bus *SyncEventBus) Close() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		return fmt.Errorf("event bus already closed")
	}

	bus.closed = true
	bus.subscribers = make(map[domain.EventType][]subscription)
	bus.allSubscribers = nil
	return nil
}

// Verify that SyncEventBus implements the EventBus interface
var _ ports.EventBus = (*SyncEventBus)(nil)
