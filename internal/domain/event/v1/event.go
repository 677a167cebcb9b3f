// Package v1 holds the append-only order event log entry (spec §3 OrderEvent),
// written to the order_events table in the same transaction as the aggregate
// row and outbox row (spec Invariant 5).
package v1

import "time"

// Kind enumerates the event types recorded against an order.
type Kind string

const (
	KindNewOrder       Kind = "NEW_ORDER"
	KindOrderAccepted  Kind = "ORDER_ACCEPTED"
	KindOrderFilled    Kind = "ORDER_FILLED"
	KindOrderCanceled  Kind = "ORDER_CANCELED"
	KindOrderReplaced  Kind = "ORDER_REPLACED"
	KindOrderRejected  Kind = "ORDER_REJECTED"
	KindOrderExpired   Kind = "ORDER_EXPIRED"
)

func (k Kind) String() string { return string(k) }

// EventType satisfies the in-process events.Event marker so an OrderEvent
// can be published straight onto the side-channel Publisher after a
// successful persist (internal/infrastructure/events).
func (e OrderEvent) EventType() string { return string(e.Kind) }

// OrderEvent is one immutable entry in an order's event log.
type OrderEvent struct {
	ID            int64
	OrderID       string
	Kind          Kind
	Payload       map[string]any
	CorrelationID string
	OccurredAt    time.Time
}

// New constructs an OrderEvent ready for appending within the write store's
// transaction. ID is assigned by the database (serial/identity column).
func New(orderID string, kind Kind, correlationID string, payload map[string]any, occurredAt time.Time) OrderEvent {
	if payload == nil {
		payload = make(map[string]any)
	}
	return OrderEvent{
		OrderID:       orderID,
		Kind:          kind,
		Payload:       payload,
		CorrelationID: correlationID,
		OccurredAt:    occurredAt,
	}
}
