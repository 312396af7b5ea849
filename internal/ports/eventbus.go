// Package ports defines the EventBus interface for event-driven
// communication between the services and the presentation layer.
package ports

import (
	"github.com/pinkcrab/jukebox/internal/domain"
)

// EventBus decouples event producers (the services) from consumers (the
// presenter, logging). Multiple subscribers can listen to the same event
// type, and subscribers never know about publishers.
//
// Implementations must be thread-safe: the audio output delivers its
// lifecycle events from its own goroutine.
type EventBus interface {
	// Publish delivers an event to all subscribers of its type. It must
	// not block for long; handlers that need time should dispatch to a
	// background goroutine themselves.
	Publish(event domain.Event)

	// Subscribe registers a handler for events of the given type and
	// returns an ID for unsubscribing. The same handler can be registered
	// more than once.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a subscription. Unknown IDs are a no-op.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers a handler for every event regardless of
	// type. Useful for debug logging.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// Close shuts the bus down; subsequent publishes are dropped.
	Close() error
}
