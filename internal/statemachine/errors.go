package statemachine

import "fmt"

// StateTransitionError signals an attempted transition that the Config does
// not allow. Never a silent mutation: callers must check IsValidTransition
// (or inspect the bool return of Transition) before mutating an entity.
type StateTransitionError[S comparable] struct {
	FromState S
	ToState   S
	Reason    string
}

func (e *StateTransitionError[S]) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid transition from %v to %v: %s", e.FromState, e.ToState, e.Reason)
	}
	return fmt.Sprintf("invalid transition from %v to %v", e.FromState, e.ToState)
}
