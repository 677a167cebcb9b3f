// Package fill implements the FILL command processor (C6): applies an
// execution report to a working order, recomputing cumQty/avgPx and moving
// the order to PARTIALLY_FILLED or FILLED (spec §4.6 "ApplyExecutionToOrder").
package fill

import "github.com/shopspring/decimal"

// Command carries one execution report against an order.
type Command struct {
	OrderID       string
	ExecID        string
	LastQty       decimal.Decimal
	LastPx        decimal.Decimal
	CorrelationID string
}
