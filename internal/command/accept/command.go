// Package accept implements the ACCEPT command processor (C6): moves a NEW
// order to LIVE once the downstream venue acknowledges it. Under the
// standard variant the order passes through UNACK on the way (the core
// never models a separate, externally-triggered UNACK->LIVE step); under
// the simplified variant it goes straight to LIVE.
package accept

import orderv1 "github.com/oms-core/engine/internal/domain/order/v1"

// Command carries the fields needed to acknowledge an order. To is the
// intermediate acknowledgement state (StateUnack or StateLive) the caller
// selects according to the configured state_machine.variant (spec §6.5);
// when it is StateUnack the handler still carries the order the rest of the
// way to LIVE within the same command.
type Command struct {
	OrderID       string
	To            orderv1.State
	CorrelationID string
}
