// Package v1 holds the Execution aggregate: a single fill event against an
// order, plus the cumulative fill bookkeeping it carries (spec §3).
package v1

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	quantityScale = 4
	priceScale    = 6
)

// Execution is one fill (partial or full) against an order. Unlike Order,
// an Execution is immutable once created — executions are append-only, as
// is the order_events log they are derived from.
type Execution struct {
	ExecID  string
	OrderID string
	LastQty decimal.Decimal
	LastPx  decimal.Decimal
	CumQty  decimal.Decimal
	AvgPx   decimal.Decimal
	// CorrelationID ties this execution back to the inbound FILL command
	// that produced it, for tracing across the outbox/event log.
	CorrelationID string
	OccurredAt    time.Time
}

// ErrInvalidExecution is returned by New when lastQty/lastPx/cumQty fail
// the execution's own invariants, independent of the order's invariants
// (which ApplyExecution on the Order aggregate enforces separately).
type ErrInvalidExecution struct {
	Reason string
}

func (e *ErrInvalidExecution) Error() string {
	return fmt.Sprintf("execution: %s", e.Reason)
}

// New constructs an Execution, validating that lastQty is strictly positive
// and that cumQty is at least lastQty (an execution can never report a
// cumulative fill smaller than the fill it is itself reporting).
func New(execID, orderID string, lastQty, lastPx, cumQty, avgPx decimal.Decimal, correlationID string, occurredAt time.Time) (*Execution, error) {
	if !lastQty.IsPositive() {
		return nil, &ErrInvalidExecution{Reason: "lastQty must be positive"}
	}
	if cumQty.LessThan(lastQty) {
		return nil, &ErrInvalidExecution{Reason: "cumQty cannot be smaller than lastQty"}
	}
	return &Execution{
		ExecID:        execID,
		OrderID:       orderID,
		LastQty:       lastQty.Round(quantityScale),
		LastPx:        lastPx.Round(priceScale),
		CumQty:        cumQty.Round(quantityScale),
		AvgPx:         avgPx.Round(priceScale),
		CorrelationID: correlationID,
		OccurredAt:    occurredAt,
	}, nil
}
