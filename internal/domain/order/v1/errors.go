package v1

import "fmt"

// ErrInvalidTransition is returned when a mutator would move the order
// across an edge the order's state machine does not permit.
type ErrInvalidTransition struct {
	From, To State
	Reason   string
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("order: invalid transition %s -> %s: %s", e.From, e.To, e.Reason)
}

// ErrOverfill is returned when an execution would push cumQty past orderQty.
type ErrOverfill struct {
	OrderID  string
	OrderQty string
	CumQty   string
	LastQty  string
}

func (e *ErrOverfill) Error() string {
	return fmt.Sprintf("order %s: execution of %s would overfill cumQty=%s against orderQty=%s",
		e.OrderID, e.LastQty, e.CumQty, e.OrderQty)
}

// ErrTerminalState is returned when a mutator is attempted on an order
// already in a terminal lifecycle state.
type ErrTerminalState struct {
	OrderID string
	State   State
}

func (e *ErrTerminalState) Error() string {
	return fmt.Sprintf("order %s: already in terminal state %s", e.OrderID, e.State)
}

// ErrAllocExceedsOrder is returned when AllocQty would exceed OrderQty,
// the one invariant enforced on the provisional cashOrderQty/allocQty
// fields (spec §9 Open Question #1).
type ErrAllocExceedsOrder struct {
	OrderID  string
	AllocQty string
	OrderQty string
}

func (e *ErrAllocExceedsOrder) Error() string {
	return fmt.Sprintf("order %s: allocQty %s exceeds orderQty %s", e.OrderID, e.AllocQty, e.OrderQty)
}
