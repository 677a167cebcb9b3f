// Package cancel implements the CANCEL command processor (C6): requests
// cancellation of a working order, then confirms it once the venue
// acknowledges (spec §4.6, §9 cancel/replace intent resolution).
package cancel

// Command carries the fields needed to cancel an order. Confirm, when true,
// resolves an already-pending cancel intent straight to CANCELED (the
// venue-ack leg); when false, it only raises the PENDING_CANCEL intent.
type Command struct {
	OrderID       string
	Confirm       bool
	CorrelationID string
}
