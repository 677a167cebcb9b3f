package v1

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMachine_CancelRoundTrip(t *testing.T) {
	machine := Machine()

	next, ok := machine.Transition(None, PendingCancel)
	require.True(t, ok)
	require.Equal(t, PendingCancel, next)

	next, ok = machine.Transition(next, Canceled)
	require.True(t, ok)
	require.Equal(t, Canceled, next)

	next, ok = machine.Transition(next, None)
	require.True(t, ok)
	require.Equal(t, None, next)
}

func TestMachine_ReplaceRejectedReturnsToNone(t *testing.T) {
	machine := Machine()

	next, ok := machine.Transition(None, PendingReplace)
	require.True(t, ok)

	next, ok = machine.Transition(next, None)
	require.True(t, ok)
	require.Equal(t, None, next)
}

func TestMachine_RejectsConcurrentCancelAndReplace(t *testing.T) {
	machine := Machine()

	_, ok := machine.Transition(PendingCancel, PendingReplace)
	require.False(t, ok)
}
