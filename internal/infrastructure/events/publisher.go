// Package events is a thin in-process fan-out point for order lifecycle
// events, adapted from the teacher's delivery-status consumer wiring
// (internal/infrastructure/kafka) into a transport-agnostic subscription
// registry: anything in-process that wants to react to an order event
// (a read-model projector, a test assertion, a local cache invalidator)
// registers a handler here instead of standing up its own Kafka consumer
// group. The durable, ordered path to other services is still the
// outbox/Kafka publisher (internal/outbox); this is the same-process
// side channel.
package events

import (
	"context"
	"sync"
)

// Event is the marker every publishable fact implements.
type Event interface {
	EventType() string
}

// Publisher dispatches events to subscribers registered for their type.
type Publisher struct {
	mu       sync.RWMutex
	handlers map[string][]func(ctx context.Context, event Event) error
}

// NewPublisher creates an empty Publisher.
func NewPublisher() *Publisher {
	return &Publisher{handlers: make(map[string][]func(ctx context.Context, event Event) error)}
}

// Publish calls every handler registered for event's type, continuing past
// individual handler errors so one bad subscriber can't starve the rest,
// and returns the first error encountered (if any) for the caller to log.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	p.mu.RLock()
	handlers := p.handlers[event.EventType()]
	p.mu.RUnlock()

	var firstErr error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Subscribe registers handler for events of the given type.
func (p *Publisher) Subscribe(eventType string, handler func(ctx context.Context, event Event) error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[eventType] = append(p.handlers[eventType], handler)
}

// SubscribeTyped wraps a handler over a concrete Event type E so callers
// don't need a type switch inside their handler body. E.EventType() must be
// constant across instances of E; for a discriminated-union style event
// (EventType() derived from a per-instance field, e.g. eventv1.OrderEvent's
// Kind) the zero value's EventType() won't match what gets published, so
// subscribe with Subscribe and the concrete type string instead.
func SubscribeTyped[E Event](p *Publisher, handler func(ctx context.Context, event E) error) {
	var zero E
	p.Subscribe(zero.EventType(), func(ctx context.Context, event Event) error {
		typed, ok := event.(E)
		if !ok {
			return nil
		}
		return handler(ctx, typed)
	})
}
