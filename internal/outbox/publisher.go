// Package outbox implements the Outbox Publisher (C7): a worker pool that
// drains order_outbox and execution_outbox into Kafka via watermill,
// guarded by a circuit breaker and exponential backoff, grounded on the
// teacher's courier-emulation kafka publishers (partition-key metadata,
// watermill.NewUUID message ids) and its oms delivery_consumer wiring.
package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	"github.com/shortlink-org/go-sdk/logger"
	"github.com/sony/gobreaker"
)

// PollMode selects how workers are woken to check for outbox rows.
type PollMode string

const (
	// PollModeTicker wakes every PollInterval.
	PollModeTicker PollMode = "ticker"
	// PollModeCron wakes on a robfig/cron schedule, for deployments that
	// want the outbox drained on a cadence aligned with other batch jobs
	// rather than a plain fixed interval.
	PollModeCron PollMode = "cron"
)

// Config configures a Publisher.
type Config struct {
	WorkerCount    int
	BatchSize      int
	PollMode       PollMode
	PollInterval   time.Duration
	PollCron       string
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// Publisher drains order_outbox/execution_outbox rows to Kafka.
type Publisher struct {
	pool *pgxpool.Pool
	pub  message.Publisher
	log  logger.Logger
	cfg  Config
	cb   *gobreaker.CircuitBreaker
}

// New builds a Publisher. pub is the watermill message.Publisher backing
// Kafka delivery (watermill-kafka/v3 over IBM/sarama in production, a
// hand-written fake message.Publisher in tests).
func New(pool *pgxpool.Pool, pub message.Publisher, log logger.Logger, cfg Config) *Publisher {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "outbox-publish",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Publisher{pool: pool, pub: pub, log: log, cfg: cfg, cb: cb}
}

// Run starts cfg.WorkerCount workers and blocks until ctx is canceled.
func (p *Publisher) Run(ctx context.Context) error {
	trigger := make(chan struct{}, 1)
	stop, err := p.startScheduler(ctx, trigger)
	if err != nil {
		return err
	}
	defer stop()

	var wg sync.WaitGroup
	for i := 0; i < p.cfg.WorkerCount; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			p.runWorker(ctx, worker, trigger)
		}(i)
	}
	wg.Wait()
	return nil
}

func (p *Publisher) runWorker(ctx context.Context, worker int, trigger <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-trigger:
		}

		for _, table := range []string{orderOutboxTable, executionOutboxTable} {
			n, err := p.drainOnce(ctx, table)
			if err != nil {
				p.log.Error("outbox: drain failed",
					slog.Int("worker", worker), slog.String("table", table), slog.Any("error", err))
				continue
			}
			if n > 0 {
				p.log.Info("outbox: drained rows",
					slog.Int("worker", worker), slog.String("table", table), slog.Int("count", n))
			}
		}
	}
}

// startScheduler fires trigger on PollInterval (PollModeTicker) or on a
// cron schedule (PollModeCron), and always fires once immediately so a
// freshly started publisher doesn't wait a full period before its first
// pass.
func (p *Publisher) startScheduler(ctx context.Context, trigger chan<- struct{}) (func(), error) {
	fire := func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	}

	switch p.cfg.PollMode {
	case PollModeCron:
		c := cron.New()
		if _, err := c.AddFunc(p.cfg.PollCron, fire); err != nil {
			return nil, fmt.Errorf("outbox: invalid poll cron %q: %w", p.cfg.PollCron, err)
		}
		c.Start()
		go fire()
		return func() { <-c.Stop().Done() }, nil
	default:
		interval := p.cfg.PollInterval
		if interval <= 0 {
			interval = 500 * time.Millisecond
		}
		ticker := time.NewTicker(interval)
		done := make(chan struct{})
		go func() {
			fire()
			for {
				select {
				case <-ctx.Done():
					close(done)
					return
				case <-ticker.C:
					fire()
				case <-done:
					return
				}
			}
		}()
		return ticker.Stop, nil
	}
}

// publishWithBreaker wraps a single Kafka publish call in the circuit
// breaker, backing off between attempts while the breaker is open so a
// flapping broker doesn't spin workers hot against it.
func (p *Publisher) publishWithBreaker(ctx context.Context, topic string, msg *message.Message) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.cfg.BackoffInitial
	if b.InitialInterval <= 0 {
		b.InitialInterval = 100 * time.Millisecond
	}
	b.MaxInterval = p.cfg.BackoffMax
	if b.MaxInterval <= 0 {
		b.MaxInterval = 30 * time.Second
	}

	op := func() error {
		_, err := p.cb.Execute(func() (interface{}, error) {
			return nil, p.pub.Publish(topic, msg)
		})
		return err
	}
	return backoff.Retry(op, backoff.WithContext(b, ctx))
}
