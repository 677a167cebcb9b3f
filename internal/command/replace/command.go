// Package replace implements the REPLACE command processor (C6): changes a
// working order's quantity and/or price in place without affecting its
// primary lifecycle state (spec §4.6, §9).
package replace

import "github.com/shopspring/decimal"

// Command carries the new working terms for a REPLACE. Confirm mirrors
// cancel.Command.Confirm: false raises PENDING_REPLACE, true resolves it to
// REPLACED once the venue acknowledges.
type Command struct {
	OrderID       string
	NewOrderQty   decimal.Decimal
	NewPrice      *decimal.Decimal
	Confirm       bool
	CorrelationID string
}
