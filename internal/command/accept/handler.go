package accept

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

// Handler processes ACCEPT commands: validate the order is still NEW,
// transition it to the acknowledged state the Command carries (continuing on
// to LIVE when that state is UNACK), and persist with its outbox row (spec §4.6 command table row for ACCEPT).
type Handler struct {
	repo      ports.OrderRepository
	processor *cmdpkg.Processor
}

// NewHandler builds the ACCEPT pipeline once and wraps it in a Processor.
func NewHandler(repo ports.OrderRepository, uow ports.UnitOfWork, machine *statemachine.Config[orderv1.State], metrics pipeline.Metrics, topic string, maxRetries int, publisher *events.Publisher) *Handler {
	p := pipeline.New("accept", true, true,
		newValidateTask(),
		newAcceptTask(machine),
		newPersistTask(repo, topic, publisher),
	)
	orchestrator := pipeline.NewOrchestrator(metrics)
	processor := cmdpkg.NewProcessor(uow, orchestrator, p, maxRetries)
	return &Handler{repo: repo, processor: processor}
}

// Handle runs the ACCEPT pipeline for cmd.
func (h *Handler) Handle(ctx context.Context, cmd Command) (*orderv1.Order, error) {
	load := func(ctx context.Context) (any, error) {
		o, err := h.repo.FindByOrderID(ctx, cmd.OrderID)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return nil, errs.New(errs.KindNotFound, "ORDER_NOT_FOUND", "no order with that orderId", cmd.CorrelationID)
			}
			return nil, errs.Wrap(errs.KindExternal, "LOAD_FAILED", "failed to load order", cmd.CorrelationID, err)
		}
		return o, nil
	}

	result, err := h.processor.Process(ctx, load, cmd, cmd.CorrelationID)
	if err != nil {
		return nil, err
	}
	return result.Subject.(*orderv1.Order), nil
}
