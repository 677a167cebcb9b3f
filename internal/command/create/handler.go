package create

import (
	"context"
	"errors"

	orderv1 "github.com/oms-core/engine/internal/domain/order/v1"
	"github.com/oms-core/engine/internal/errs"
	"github.com/oms-core/engine/internal/infrastructure/events"
	"github.com/oms-core/engine/internal/pipeline"
	"github.com/oms-core/engine/internal/ports"
	"github.com/oms-core/engine/internal/statemachine"

	cmdpkg "github.com/oms-core/engine/internal/command"
)

// Handler processes CREATE commands: idempotency probe, validate, assign
// identity, transition to NEW, persist with its outbox row — all inside one
// transaction (spec §4.6 command table row for CREATE).
type Handler struct {
	repo      ports.OrderRepository
	processor *cmdpkg.Processor
	topic     string
}

// NewHandler builds the CREATE pipeline once and wraps it in a Processor.
// publisher may be nil if nothing in-process needs to observe order events.
func NewHandler(repo ports.OrderRepository, uow ports.UnitOfWork, machine *statemachine.Config[orderv1.State], ruleCfg RuleConfig, metrics pipeline.Metrics, topic string, maxRetries int, publisher *events.Publisher) *Handler {
	p := pipeline.New("create", true, true,
		newValidateTask(ruleCfg),
		newCreateTask(machine),
		newPersistTask(repo, topic, publisher),
	)
	orchestrator := pipeline.NewOrchestrator(metrics)
	processor := cmdpkg.NewProcessor(uow, orchestrator, p, maxRetries)
	return &Handler{repo: repo, processor: processor, topic: topic}
}

// Handle runs the CREATE pipeline for cmd. If an order already exists under
// (SessionID, ClOrdID), it is returned as an idempotent replay instead of
// creating a duplicate (spec Invariant 4).
func (h *Handler) Handle(ctx context.Context, cmd Command) (*orderv1.Order, error) {
	existing, err := h.repo.FindBySessionIDAndClOrdID(ctx, cmd.SessionID, cmd.ClOrdID)
	switch {
	case err == nil:
		return existing, errs.New(errs.KindIdempotentReplay, "DUPLICATE_CREATE", "order already exists for this (sessionId, clOrdId)", cmd.CorrelationID)
	case errors.Is(err, ports.ErrNotFound):
		// no existing order, proceed to create
	default:
		return nil, errs.Wrap(errs.KindExternal, "IDEMPOTENCY_PROBE_FAILED", "failed to probe for existing order", cmd.CorrelationID, err)
	}

	load := func(context.Context) (any, error) {
		order := orderv1.New(cmd.SessionID, cmd.ClOrdID, cmd.Symbol, cmd.Side, cmd.OrdType, cmd.Account, cmd.OrderQty, cmd.AssetClass)
		if cmd.Price != nil {
			order.SetPrice(*cmd.Price)
		}
		if cmd.StopPx != nil {
			order.SetStopPx(*cmd.StopPx)
		}
		return order, nil
	}

	result, err := h.processor.Process(ctx, load, cmd, cmd.CorrelationID)
	if err != nil {
		return nil, err
	}
	return result.Subject.(*orderv1.Order), nil
}
