package v1

import "github.com/oms-core/engine/internal/statemachine"

// StandardMachine builds the full order lifecycle (spec §4.1): every order
// passes through UNACK before becoming LIVE.
func StandardMachine() *statemachine.Config[State] {
	return statemachine.NewBuilder[State]().
		AddInitialState(StateNew).
		AddTerminalState(StateExpired).
		AddTerminalState(StateClosed).
		AddTransition(StateNew, StateUnack).
		AddTransition(StateNew, StateRejected).
		AddTransition(StateUnack, StateLive).
		AddTransition(StateUnack, StateRejected).
		AddTransition(StateLive, StatePartiallyFilled).
		AddTransition(StateLive, StateFilled).
		AddTransition(StateLive, StateCanceled).
		AddTransition(StateLive, StateExpired).
		AddTransition(StatePartiallyFilled, StatePartiallyFilled).
		AddTransition(StatePartiallyFilled, StateFilled).
		AddTransition(StatePartiallyFilled, StateCanceled).
		AddTransition(StatePartiallyFilled, StateExpired).
		AddTransition(StateFilled, StateClosed).
		AddTransition(StateCanceled, StateClosed).
		AddTransition(StateRejected, StateClosed).
		AddTransition(StateExpired, StateClosed).
		Build()
}

// SimplifiedMachine skips UNACK, moving a new order directly to LIVE once
// accepted — for venues/asset classes with no separate acknowledgement leg
// (configurable via state_machine.variant, per §6.5).
func SimplifiedMachine() *statemachine.Config[State] {
	return statemachine.NewBuilder[State]().
		AddInitialState(StateNew).
		AddTerminalState(StateExpired).
		AddTerminalState(StateClosed).
		AddTransition(StateNew, StateLive).
		AddTransition(StateNew, StateRejected).
		AddTransition(StateLive, StatePartiallyFilled).
		AddTransition(StateLive, StateFilled).
		AddTransition(StateLive, StateCanceled).
		AddTransition(StateLive, StateExpired).
		AddTransition(StatePartiallyFilled, StatePartiallyFilled).
		AddTransition(StatePartiallyFilled, StateFilled).
		AddTransition(StatePartiallyFilled, StateCanceled).
		AddTransition(StatePartiallyFilled, StateExpired).
		AddTransition(StateFilled, StateClosed).
		AddTransition(StateCanceled, StateClosed).
		AddTransition(StateRejected, StateClosed).
		AddTransition(StateExpired, StateClosed).
		Build()
}
