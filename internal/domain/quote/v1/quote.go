// Package v1 gives quotes a thin, first-class lifecycle home, since C1's
// state machine engine names quotes as one of its clients even though the
// command table (C6) only covers orders. Quotes are simpler than orders:
// one-way, no cancel/replace intent, no partial fills.
package v1

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oms-core/engine/internal/statemachine"
)

// State is the quote lifecycle state.
type State string

const (
	StateActive   State = "ACTIVE"
	StateFilled   State = "FILLED"
	StateExpired  State = "EXPIRED"
	StateCanceled State = "CANCELED"
)

func (s State) String() string { return string(s) }

// Machine builds the quote lifecycle: ACTIVE -> {FILLED, EXPIRED, CANCELED}.
func Machine() *statemachine.Config[State] {
	return statemachine.NewBuilder[State]().
		AddInitialState(StateActive).
		AddTerminalState(StateFilled).
		AddTerminalState(StateExpired).
		AddTerminalState(StateCanceled).
		AddTransition(StateActive, StateFilled).
		AddTransition(StateActive, StateExpired).
		AddTransition(StateActive, StateCanceled).
		Build()
}

// Quote is a two-sided (or one-sided) indicative or firm price, active for
// a bounded window before it expires.
type Quote struct {
	QuoteID   string
	Symbol    string
	BidPx     decimal.NullDecimal
	AskPx     decimal.NullDecimal
	BidSize   decimal.NullDecimal
	AskSize   decimal.NullDecimal
	State     State
	ExpiresAt time.Time
	CreatedAt time.Time
}

// New constructs an active quote.
func New(quoteID, symbol string, expiresAt time.Time) *Quote {
	return &Quote{
		QuoteID:   quoteID,
		Symbol:    symbol,
		State:     StateActive,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
}

func (q *Quote) transition(machine *statemachine.Config[State], to State) error {
	next, ok := machine.Transition(q.State, to)
	if !ok {
		return &statemachine.StateTransitionError[State]{FromState: q.State, ToState: to}
	}
	q.State = next
	return nil
}

// Fill moves the quote to FILLED (a trade was struck against it).
func (q *Quote) Fill(machine *statemachine.Config[State]) error {
	return q.transition(machine, StateFilled)
}

// Expire moves the quote to EXPIRED, typically driven by ExpiresAt elapsing.
func (q *Quote) Expire(machine *statemachine.Config[State]) error {
	return q.transition(machine, StateExpired)
}

// Cancel moves the quote to CANCELED (withdrawn by the quoting party).
func (q *Quote) Cancel(machine *statemachine.Config[State]) error {
	return q.transition(machine, StateCanceled)
}
