// Package v1 formalizes the order's cancel/replace intent as its own small
// state machine, independent of the order's primary lifecycle state machine
// (spec §9 Open Question: "the exact policy for cancelState ... is described
// narratively"). Keeping it separate means an in-flight cancel or replace
// request never has to be encoded as extra states on the primary machine.
package v1

import "github.com/oms-core/engine/internal/statemachine"

// State is the in-flight cancel/replace intent for an order.
type State string

const (
	// None means no cancel or replace request is outstanding.
	None State = "NONE"
	// PendingCancel means a CANCEL command has been accepted but the
	// downstream venue has not yet confirmed it (PCXL in FIX terms).
	PendingCancel State = "PENDING_CANCEL"
	// PendingReplace means a REPLACE command has been accepted but not yet
	// confirmed (PMOD in FIX terms).
	PendingReplace State = "PENDING_REPLACE"
	// Canceled means the cancel was confirmed. It is not terminal: the
	// machine allows a reset back to None.
	Canceled State = "CANCELED"
	// Replaced means the replace was confirmed. It is not terminal: the
	// machine allows a reset back to None.
	Replaced State = "REPLACED"
)

func (s State) String() string { return string(s) }

// Machine builds the cancel/replace intent state machine once at startup.
func Machine() *statemachine.Config[State] {
	return statemachine.NewBuilder[State]().
		AddInitialState(None).
		AddTransition(None, PendingCancel).
		AddTransition(None, PendingReplace).
		AddTransition(PendingCancel, Canceled).
		AddTransition(PendingCancel, None). // venue rejected the cancel request
		AddTransition(PendingReplace, Replaced).
		AddTransition(PendingReplace, None). // venue rejected the replace request
		AddTransition(Canceled, None).       // reset once reflected on the primary order state
		AddTransition(Replaced, None).
		Build()
}
