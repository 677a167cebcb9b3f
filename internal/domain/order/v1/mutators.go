package v1

import (
	"github.com/shopspring/decimal"

	cancelstatev1 "github.com/oms-core/engine/internal/domain/cancelstate/v1"
	eventv1 "github.com/oms-core/engine/internal/domain/event/v1"
	"github.com/oms-core/engine/internal/statemachine"
)

// transition validates and applies a primary-state move using the supplied
// machine (StandardMachine or SimplifiedMachine, chosen per
// state_machine.variant), raising ErrInvalidTransition on a disallowed edge.
func (o *Order) transition(machine *statemachine.Config[State], to State) error {
	if o.state == "" {
		if !machine.TransitionFromNone(to) {
			return &ErrInvalidTransition{From: o.state, To: to, Reason: "not a valid initial state"}
		}
		o.state = to
		return nil
	}
	next, ok := machine.Transition(o.state, to)
	if !ok {
		return &ErrInvalidTransition{From: o.state, To: to, Reason: "edge not configured"}
	}
	o.state = next
	return nil
}

// Create moves a freshly constructed order (state "") into StateNew,
// raising the NEW_ORDER domain event. machine must permit StateNew as an
// initial state (both StandardMachine and SimplifiedMachine do).
func (o *Order) Create(machine *statemachine.Config[State]) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.transition(machine, StateNew); err != nil {
		return err
	}
	o.raise(eventv1.KindNewOrder, map[string]any{
		"symbol":   o.symbol,
		"side":     string(o.side),
		"ordType":  string(o.ordType),
		"orderQty": o.orderQty.String(),
	})
	return nil
}

// MarkAccepted moves the order from NEW to UNACK (standard variant) or
// directly to LIVE (simplified variant) once the downstream venue
// acknowledges it.
func (o *Order) MarkAccepted(machine *statemachine.Config[State], to State) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.transition(machine, to); err != nil {
		return err
	}
	o.updatedAt = timeNow()
	o.raise(eventv1.KindOrderAccepted, map[string]any{"state": string(o.state)})
	return nil
}

// MarkLive moves an acknowledged (UNACK) order to LIVE.
func (o *Order) MarkLive(machine *statemachine.Config[State]) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.transition(machine, StateLive); err != nil {
		return err
	}
	o.updatedAt = timeNow()
	return nil
}

// ApplyExecution records a fill. cumQty+lastQty must not exceed orderQty
// (spec Invariant: cumQty <= orderQty); the sign of lastQty is not checked
// here. avgPx is recomputed as the qty-weighted mean, rounded half-even to
// priceScale. cumQty and avgPx change only once the state transition is
// accepted.
func (o *Order) ApplyExecution(machine *statemachine.Config[State], lastQty, lastPx decimal.Decimal, correlationID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	newCum := o.cumQty.Add(lastQty)
	if newCum.GreaterThan(o.orderQty) {
		return &ErrOverfill{
			OrderID:  o.orderID,
			OrderQty: o.orderQty.String(),
			CumQty:   o.cumQty.String(),
			LastQty:  lastQty.String(),
		}
	}

	// Weighted average price: ((avgPx*cumQty) + (lastPx*lastQty)) / newCum.
	newAvg := o.avgPx
	if newCum.IsPositive() {
		weighted := o.avgPx.Mul(o.cumQty).Add(lastPx.Mul(lastQty))
		newAvg = weighted.Div(newCum).RoundBank(priceScale)
	}
	newCum = newCum.Round(quantityScale)

	to := StatePartiallyFilled
	if newCum.Equal(o.orderQty) {
		to = StateFilled
	}
	if err := o.transition(machine, to); err != nil {
		return err
	}
	o.avgPx = newAvg
	o.cumQty = newCum

	o.updatedAt = timeNow()
	o.raise(eventv1.KindOrderFilled, map[string]any{
		"lastQty":       lastQty.String(),
		"lastPx":        lastPx.String(),
		"cumQty":        o.cumQty.String(),
		"avgPx":         o.avgPx.String(),
		"correlationId": correlationID,
	})
	return nil
}

// MarkCanceled moves the order to CANCELED and resolves the cancel-intent
// machine's PENDING_CANCEL -> CANCELED edge.
func (o *Order) MarkCanceled(machine *statemachine.Config[State], cancelMachine *statemachine.Config[cancelstatev1.State]) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.transition(machine, StateCanceled); err != nil {
		return err
	}
	if next, ok := cancelMachine.Transition(o.cancelState, cancelstatev1.Canceled); ok {
		o.cancelState = next
	}
	o.updatedAt = timeNow()
	o.raise(eventv1.KindOrderCanceled, map[string]any{"state": string(o.state)})
	return nil
}

// MarkRejected moves the order to REJECTED, recording reason in the event
// payload for the problem envelope (C8) to surface back to the caller.
func (o *Order) MarkRejected(machine *statemachine.Config[State], reason string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.transition(machine, StateRejected); err != nil {
		return err
	}
	o.updatedAt = timeNow()
	o.raise(eventv1.KindOrderRejected, map[string]any{"reason": reason})
	return nil
}

// MarkExpired moves a working order to EXPIRED (e.g. day-order end-of-day
// sweep, or an explicit deadline per spec §5).
func (o *Order) MarkExpired(machine *statemachine.Config[State]) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.transition(machine, StateExpired); err != nil {
		return err
	}
	o.updatedAt = timeNow()
	o.raise(eventv1.KindOrderExpired, nil)
	return nil
}

// Replace applies a REPLACE command's new quantity/price in place and
// resolves the cancel-intent machine's PENDING_REPLACE -> REPLACED edge.
// The order's primary state is unaffected by a replace (it stays LIVE or
// PARTIALLY_FILLED); only the working terms change.
func (o *Order) Replace(cancelMachine *statemachine.Config[cancelstatev1.State], newOrderQty decimal.Decimal, newPrice *decimal.Decimal) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if newOrderQty.LessThan(o.cumQty) {
		return &ErrOverfill{
			OrderID:  o.orderID,
			OrderQty: newOrderQty.String(),
			CumQty:   o.cumQty.String(),
			LastQty:  "0",
		}
	}

	o.orderQty = newOrderQty.Round(quantityScale)
	if newPrice != nil {
		o.price = decimal.NewNullDecimal(newPrice.Round(priceScale))
	}
	if next, ok := cancelMachine.Transition(o.cancelState, cancelstatev1.Replaced); ok {
		o.cancelState = next
	}
	o.updatedAt = timeNow()
	o.raise(eventv1.KindOrderReplaced, map[string]any{
		"orderQty": o.orderQty.String(),
	})
	return nil
}

// RequestCancel moves the cancel-intent machine into PENDING_CANCEL,
// independent of the order's primary lifecycle state (spec §9 resolution).
func (o *Order) RequestCancel(cancelMachine *statemachine.Config[cancelstatev1.State]) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	n, ok := cancelMachine.Transition(o.cancelState, cancelstatev1.PendingCancel)
	if !ok {
		return &ErrInvalidTransition{Reason: "cancel already in flight"}
	}
	o.cancelState = n
	return nil
}

// RequestReplace moves the cancel-intent machine into PENDING_REPLACE.
func (o *Order) RequestReplace(cancelMachine *statemachine.Config[cancelstatev1.State]) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	n, ok := cancelMachine.Transition(o.cancelState, cancelstatev1.PendingReplace)
	if !ok {
		return &ErrInvalidTransition{Reason: "cancel or replace already in flight"}
	}
	o.cancelState = n
	return nil
}

// SetAllocQty sets the provisional allocQty field, enforcing the one
// invariant decided for the open cashOrderQty/allocQty question: allocQty
// must never exceed orderQty.
func (o *Order) SetAllocQty(allocQty decimal.Decimal) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if allocQty.GreaterThan(o.orderQty) {
		return &ErrAllocExceedsOrder{OrderID: o.orderID, AllocQty: allocQty.String(), OrderQty: o.orderQty.String()}
	}
	o.allocQty = allocQty.Round(quantityScale)
	return nil
}
