package v1

import eventv1 "github.com/oms-core/engine/internal/domain/event/v1"

// Event is a domain event raised by a mutator and queued on the aggregate.
// A command's persist task drains the queue, builds the eventv1.OrderEvent
// it hands to the write store for the order_events table from the first
// queued event, and after a successful save publishes that OrderEvent to the
// in-process side channel. It carries the same Kind taxonomy as the
// persisted event log but is not itself the persisted row.
type Event struct {
	Kind    eventv1.Kind
	Payload map[string]any
}

// Events drains and returns the order's queued domain events.
func (o *Order) Events() []Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	events := o.domainEvents
	o.domainEvents = nil
	return events
}

// PeekEvents returns the queued domain events without draining them.
func (o *Order) PeekEvents() []Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Event, len(o.domainEvents))
	copy(out, o.domainEvents)
	return out
}

func (o *Order) raise(kind eventv1.Kind, payload map[string]any) {
	if payload == nil {
		payload = make(map[string]any)
	}
	o.domainEvents = append(o.domainEvents, Event{Kind: kind, Payload: payload})
}
