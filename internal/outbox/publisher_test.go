package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/shortlink-org/go-sdk/logger"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakePublisher) Publish(_ string, _ ...*message.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestPublisher(t *testing.T, pub message.Publisher) *Publisher {
	t.Helper()
	log, err := logger.New(logger.Default())
	require.NoError(t, err)
	return New(nil, pub, log, Config{BackoffInitial: time.Millisecond, BackoffMax: time.Millisecond})
}

func TestPublisher_publishWithBreakerSucceeds(t *testing.T) {
	fp := &fakePublisher{}
	p := newTestPublisher(t, fp)

	err := p.publishWithBreaker(context.Background(), "order-events", message.NewMessage("id-1", []byte("{}")))
	require.NoError(t, err)
	require.Equal(t, 1, fp.callCount())
}

func TestPublisher_publishWithBreakerStopsOnCanceledContext(t *testing.T) {
	boom := errors.New("broker unreachable")
	fp := &fakePublisher{err: boom}
	p := newTestPublisher(t, fp)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.publishWithBreaker(ctx, "order-events", message.NewMessage("id-1", []byte("{}")))
	require.Error(t, err)
	require.Equal(t, 1, fp.callCount())
}

func TestPublisher_circuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	boom := errors.New("broker unreachable")
	fp := &fakePublisher{err: boom}
	p := newTestPublisher(t, fp)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 5; i++ {
		err := p.publishWithBreaker(ctx, "order-events", message.NewMessage("id-1", []byte("{}")))
		require.Error(t, err)
	}
	require.Equal(t, 5, fp.callCount())

	// The breaker is now open: the 6th call should fail without reaching
	// the underlying publisher at all.
	err := p.publishWithBreaker(ctx, "order-events", message.NewMessage("id-1", []byte("{}")))
	require.Error(t, err)
	require.Equal(t, 5, fp.callCount())
}
