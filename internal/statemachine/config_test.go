package statemachine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type orderStatus string

const (
	statusNew             orderStatus = "NEW"
	statusUnack           orderStatus = "UNACK"
	statusLive            orderStatus = "LIVE"
	statusPartiallyFilled orderStatus = "PARTIALLY_FILLED"
	statusFilled          orderStatus = "FILLED"
	statusCanceled        orderStatus = "CANCELED"
	statusRejected        orderStatus = "REJECTED"
	statusExpired         orderStatus = "EXPIRED"
	statusClosed          orderStatus = "CLOSED"
)

func standardOrderConfig() *Config[orderStatus] {
	return NewBuilder[orderStatus]().
		AddInitialState(statusNew).
		AddTransition(statusNew, statusUnack).
		AddTransition(statusUnack, statusLive).
		AddTransition(statusUnack, statusRejected).
		AddTransition(statusLive, statusPartiallyFilled).
		AddTransition(statusLive, statusFilled).
		AddTransition(statusLive, statusCanceled).
		AddTransition(statusLive, statusRejected).
		AddTransition(statusLive, statusExpired).
		AddTransition(statusPartiallyFilled, statusFilled).
		AddTransition(statusPartiallyFilled, statusCanceled).
		AddTransition(statusPartiallyFilled, statusExpired).
		AddTransition(statusFilled, statusClosed).
		AddTransition(statusCanceled, statusClosed).
		AddTransition(statusRejected, statusClosed).
		AddTransition(statusExpired, statusClosed).
		AddTerminalState(statusClosed).
		Build()
}

func TestConfig_IsValidTransition(t *testing.T) {
	cfg := standardOrderConfig()

	t.Run("configured edge is valid", func(t *testing.T) {
		require.True(t, cfg.IsValidTransition(statusNew, statusUnack))
		require.True(t, cfg.IsValidTransition(statusUnack, statusLive))
	})

	t.Run("unconfigured edge is invalid", func(t *testing.T) {
		require.False(t, cfg.IsValidTransition(statusNew, statusLive))
	})

	t.Run("unconfigured source state has empty target set", func(t *testing.T) {
		require.False(t, cfg.IsValidTransition(statusClosed, statusNew))
	})

	t.Run("transitions from a terminal state are always invalid", func(t *testing.T) {
		require.True(t, cfg.IsTerminal(statusClosed))
		require.False(t, cfg.IsValidTransition(statusClosed, statusNew))
	})
}

func TestConfig_Transition(t *testing.T) {
	cfg := standardOrderConfig()

	t.Run("success returns target", func(t *testing.T) {
		target, ok := cfg.Transition(statusLive, statusFilled)
		require.True(t, ok)
		require.Equal(t, statusFilled, target)
	})

	t.Run("failure returns zero value and false", func(t *testing.T) {
		target, ok := cfg.Transition(statusFilled, statusLive)
		require.False(t, ok)
		require.Equal(t, orderStatus(""), target)
	})
}

func TestConfig_TransitionFromNone(t *testing.T) {
	cfg := standardOrderConfig()

	require.True(t, cfg.TransitionFromNone(statusNew))
	require.False(t, cfg.TransitionFromNone(statusLive))
}

func TestConfig_TransitionSequence(t *testing.T) {
	cfg := standardOrderConfig()

	t.Run("valid chain reaches final state", func(t *testing.T) {
		final, ok := cfg.TransitionSequence(statusNew, statusUnack, statusLive, statusFilled, statusClosed)
		require.True(t, ok)
		require.Equal(t, statusClosed, final)
	})

	t.Run("short-circuits on first invalid edge", func(t *testing.T) {
		final, ok := cfg.TransitionSequence(statusNew, statusUnack, statusClosed)
		require.False(t, ok)
		require.Equal(t, statusUnack, final, "should stop at the last successfully reached state")
	})
}

func TestConfig_ValidateSequence(t *testing.T) {
	cfg := standardOrderConfig()

	t.Run("records full path on success", func(t *testing.T) {
		result := cfg.ValidateSequence(statusNew, statusUnack, statusLive)
		require.False(t, result.Failed)
		require.Equal(t, -1, result.AtIndex)
		require.Equal(t, []orderStatus{statusNew, statusUnack, statusLive}, result.Path)
	})

	t.Run("records the failing index and message", func(t *testing.T) {
		result := cfg.ValidateSequence(statusNew, statusUnack, statusClosed, statusNew)
		require.True(t, result.Failed)
		require.Equal(t, 1, result.AtIndex)
		require.NotEmpty(t, result.Message)
		require.Equal(t, []orderStatus{statusNew, statusUnack}, result.Path)
	})
}

func TestBuilder_TerminalStateDropsOutgoingEdges(t *testing.T) {
	// A terminal state that was also configured with an outgoing edge must
	// still reject transitions out of it: terminal wins.
	cfg := NewBuilder[orderStatus]().
		AddTransition(statusFilled, statusClosed).
		AddTerminalState(statusFilled).
		Build()

	require.False(t, cfg.IsValidTransition(statusFilled, statusClosed))
}
