// Package oms_di wires the engine's concrete adapters into the command
// processors, following the shape of the teacher's wire.go (a struct of
// assembled components plus a constructor function and a cleanup
// closure) without the generated wire_gen.go this repository never
// shipped — see DESIGN.md for why this package is hand-wired instead of
// go:generate wire.
package oms_di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	sdkconfig "github.com/shortlink-org/go-sdk/config"
	"github.com/shortlink-org/go-sdk/logger"
	sdkkafka "github.com/shortlink-org/go-sdk/watermill/backends/kafka"

	"github.com/oms-core/engine/internal/command/accept"
	"github.com/oms-core/engine/internal/command/cancel"
	"github.com/oms-core/engine/internal/command/create"
	"github.com/oms-core/engine/internal/command/fill"
	"github.com/oms-core/engine/internal/command/replace"
	cancelstatev1 "github.com/oms-core/engine/internal/domain/cancelstate/v1"
	orderv1 "github.com/oms-core/engine/internal/domain/order/v1"
	"github.com/oms-core/engine/internal/infrastructure/events"
	postgresorder "github.com/oms-core/engine/internal/infrastructure/repository/postgres/order"
	"github.com/oms-core/engine/internal/infrastructure/repository/postgres/uow"
	"github.com/oms-core/engine/internal/outbox"
	platformconfig "github.com/oms-core/engine/internal/platform/config"
	platformmetrics "github.com/oms-core/engine/internal/platform/metrics"
	"github.com/oms-core/engine/internal/ports"
	"github.com/oms-core/engine/internal/statemachine"
	"github.com/oms-core/engine/internal/validation/assetclass"
)

// EngineService is every component cmd/main.go needs to run the order
// engine: the five command handlers, the write store, and the outbox
// publisher. It mirrors the teacher's OMSService in shape (one struct
// assembled by one constructor) scoped to the order-lifecycle core.
type EngineService struct {
	Log    logger.Logger
	Config *platformconfig.Config

	DB   *pgxpool.Pool
	UoW  ports.UnitOfWork
	Repo ports.OrderRepository

	Create  *create.Handler
	Accept  *accept.Handler
	Cancel  *cancel.Handler
	Replace *replace.Handler
	Fill    *fill.Handler

	Outbox *outbox.Publisher
	Events *events.Publisher

	Registry *prometheus.Registry
}

// NewEngineService assembles the engine. dsn is the Postgres connection
// string; everything else is read from engineCfg (internal/platform/config,
// viper-backed) and sdkCfg (go-sdk/config, used to bootstrap the go-sdk
// logger the way cmd/main.go's teacher ancestor did and to build the Kafka
// publisher).
func NewEngineService(ctx context.Context, dsn string) (*EngineService, func(), error) {
	sdkCfg, err := sdkconfig.New()
	if err != nil {
		return nil, func() {}, fmt.Errorf("engine: go-sdk config: %w", err)
	}
	log, logCleanup, err := logger.NewDefault(ctx, sdkCfg)
	if err != nil {
		return nil, func() {}, fmt.Errorf("engine: logger: %w", err)
	}

	engineCfg := platformconfig.New()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logCleanup()
		return nil, func() {}, fmt.Errorf("engine: pgxpool: %w", err)
	}

	repo, err := postgresorder.New(ctx, pool, dsn)
	if err != nil {
		pool.Close()
		logCleanup()
		return nil, func() {}, fmt.Errorf("engine: order store: %w", err)
	}
	unitOfWork := uow.New(pool)

	registry := prometheus.NewRegistry()
	metricsSink := platformmetrics.New(registry)

	var machine *statemachine.Config[orderv1.State]
	if engineCfg.StateMachineVariant() == "simplified" {
		machine = orderv1.SimplifiedMachine()
	} else {
		machine = orderv1.StandardMachine()
	}
	cancelMachine := cancelstatev1.Machine()

	maxRetries := engineCfg.GetInt("processor.conflict.max_retries")
	ordersTopic := engineCfg.GetString("kafka.topic.order_events")
	executionsTopic := engineCfg.GetString("kafka.topic.execution_events")

	ruleCfg := create.RuleConfig{
		MaxOrderQty: engineCfg.GetDecimal("validation.max_order_qty"),
		AssetClass: assetclass.Config{
			EquityRoundLot: engineCfg.GetDecimal("validation.equity.round_lot"),
			FXMinNotional:  engineCfg.GetDecimal("validation.fx.min_notional"),
		},
	}

	eventPublisher := events.NewPublisher()

	createHandler := create.NewHandler(repo, unitOfWork, machine, ruleCfg, metricsSink, ordersTopic, maxRetries, eventPublisher)
	acceptHandler := accept.NewHandler(repo, unitOfWork, machine, metricsSink, ordersTopic, maxRetries, eventPublisher)
	cancelHandler := cancel.NewHandler(repo, unitOfWork, machine, cancelMachine, metricsSink, ordersTopic, maxRetries, eventPublisher)
	replaceHandler := replace.NewHandler(repo, unitOfWork, cancelMachine, metricsSink, ordersTopic, maxRetries, eventPublisher)
	fillHandler := fill.NewHandler(repo, unitOfWork, machine, metricsSink, executionsTopic, maxRetries, eventPublisher)

	kafkaPub, err := sdkkafka.NewPublisherFromConfig(log, sdkCfg)
	if err != nil {
		log.Warn("engine: Kafka publisher unavailable, outbox publisher will not be started", slog.Any("error", err))
	}

	var publisher *outbox.Publisher
	if kafkaPub != nil {
		publisher = outbox.New(pool, kafkaPub, log, outbox.Config{
			WorkerCount:    engineCfg.GetInt("outbox.publisher.count"),
			BatchSize:      engineCfg.GetInt("outbox.poll.batch_size"),
			PollMode:       outbox.PollMode(engineCfg.GetString("outbox.poll.mode")),
			PollInterval:   engineCfg.GetDuration("outbox.poll.interval"),
			PollCron:       engineCfg.GetString("outbox.poll.cron"),
			BackoffInitial: engineCfg.GetDuration("outbox.backoff.initial"),
			BackoffMax:     engineCfg.GetDuration("outbox.backoff.max"),
		})
	}

	svc := &EngineService{
		Log:      log,
		Config:   engineCfg,
		DB:       pool,
		UoW:      unitOfWork,
		Repo:     repo,
		Create:   createHandler,
		Accept:   acceptHandler,
		Cancel:   cancelHandler,
		Replace:  replaceHandler,
		Fill:     fillHandler,
		Outbox:   publisher,
		Events:   eventPublisher,
		Registry: registry,
	}

	cleanup := func() {
		if kafkaPub != nil {
			_ = kafkaPub.Close()
		}
		pool.Close()
		logCleanup()
	}

	return svc, cleanup, nil
}
