package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeEvent struct{ kind string }

func (e fakeEvent) EventType() string { return e.kind }

func TestPublisher_PublishDispatchesToSubscriber(t *testing.T) {
	p := NewPublisher()

	var got Event
	p.Subscribe("NEW_ORDER", func(_ context.Context, e Event) error {
		got = e
		return nil
	})

	err := p.Publish(context.Background(), fakeEvent{kind: "NEW_ORDER"})
	require.NoError(t, err)
	require.Equal(t, fakeEvent{kind: "NEW_ORDER"}, got)
}

func TestPublisher_PublishIgnoresUnsubscribedType(t *testing.T) {
	p := NewPublisher()
	called := false
	p.Subscribe("NEW_ORDER", func(_ context.Context, e Event) error {
		called = true
		return nil
	})

	err := p.Publish(context.Background(), fakeEvent{kind: "ORDER_FILLED"})
	require.NoError(t, err)
	require.False(t, called)
}

func TestPublisher_PublishReturnsFirstErrorButRunsAllHandlers(t *testing.T) {
	p := NewPublisher()
	errBoom := errors.New("boom")
	secondRan := false

	p.Subscribe("NEW_ORDER", func(_ context.Context, e Event) error { return errBoom })
	p.Subscribe("NEW_ORDER", func(_ context.Context, e Event) error { secondRan = true; return nil })

	err := p.Publish(context.Background(), fakeEvent{kind: "NEW_ORDER"})
	require.ErrorIs(t, err, errBoom)
	require.True(t, secondRan)
}

func TestSubscribeTyped_DispatchesConcreteType(t *testing.T) {
	p := NewPublisher()
	var got fakeEvent
	SubscribeTyped(p, func(_ context.Context, e fakeEvent) error {
		got = e
		return nil
	})

	// SubscribeTyped keys the subscription on the zero value's EventType(),
	// which for fakeEvent is its empty kind, so only a fakeEvent published
	// with an empty kind lines up with it.
	err := p.Publish(context.Background(), fakeEvent{})
	require.NoError(t, err)
	require.Equal(t, fakeEvent{}, got)
}
