package accept

import (
	"context"
	"errors"
	"time"

	eventv1 "github.com/oms-core/engine/internal/domain/event/v1"
	orderv1 "github.com/oms-core/engine/internal/domain/order/v1"
	"github.com/oms-core/engine/internal/errs"
	"github.com/oms-core/engine/internal/infrastructure/events"
	postgresorder "github.com/oms-core/engine/internal/infrastructure/repository/postgres/order"
	"github.com/oms-core/engine/internal/pipeline"
	"github.com/oms-core/engine/internal/ports"
	"github.com/oms-core/engine/internal/statemachine"
	"github.com/oms-core/engine/internal/validation"
	"github.com/oms-core/engine/internal/validation/orderrules"
)

func ruleEngine() *validation.Engine[*orderv1.Order] {
	return validation.NewEngine(true,
		orderrules.ExecutableState("ACCEPT", orderv1.StateNew),
	)
}

type validateTask struct{ pipeline.BaseTask }

func newValidateTask() *validateTask { return &validateTask{BaseTask: pipeline.NewBaseTask(1)} }

func (t *validateTask) Name() string { return "validate" }

func (t *validateTask) Execute(_ context.Context, tc *pipeline.TaskContext) pipeline.TaskResult {
	order := tc.Subject.(*orderv1.Order)
	res := ruleEngine().Validate(order)
	if !res.Valid {
		err := errs.New(errs.KindInvalidTransition, "ORDER_NOT_ACCEPTABLE", "order is not in a state ACCEPT can apply to", tc.CorrelationID).
			WithExtension("errors", res.Errors)
		return pipeline.TaskResult{Status: pipeline.StatusFailed, Err: err, Message: "validation failed"}
	}
	return pipeline.TaskResult{Status: pipeline.StatusSuccess}
}

// acceptTask reads its target state from the Command on each invocation
// (rather than closing over a fixed one), since the pipeline shape is built
// once per Handler but the acknowledged state (UNACK vs LIVE) is chosen per
// call according to state_machine.variant (spec §6.5).
type acceptTask struct {
	pipeline.BaseTask
	machine *statemachine.Config[orderv1.State]
}

func newAcceptTask(machine *statemachine.Config[orderv1.State]) *acceptTask {
	return &acceptTask{BaseTask: pipeline.NewBaseTask(2), machine: machine}
}

func (t *acceptTask) Name() string { return "accept" }

func (t *acceptTask) Execute(_ context.Context, tc *pipeline.TaskContext) pipeline.TaskResult {
	order := tc.Subject.(*orderv1.Order)
	cmd := tc.Command.(Command)
	if err := order.MarkAccepted(t.machine, cmd.To); err != nil {
		wrapped := errs.Wrap(errs.KindInvalidTransition, "INVALID_ACCEPT_TRANSITION", "order could not move to the acknowledged state", tc.CorrelationID, err)
		return pipeline.TaskResult{Status: pipeline.StatusFailed, Err: wrapped}
	}
	// Under the standard variant cmd.To is StateUnack: nothing else in the
	// core ever drives UNACK->LIVE, so carry the order the rest of the way
	// to LIVE within this same ACCEPT. Under the simplified variant
	// MarkAccepted above already landed on StateLive directly.
	if cmd.To == orderv1.StateUnack {
		if err := order.MarkLive(t.machine); err != nil {
			wrapped := errs.Wrap(errs.KindInvalidTransition, "INVALID_ACCEPT_TRANSITION", "order could not move to LIVE", tc.CorrelationID, err)
			return pipeline.TaskResult{Status: pipeline.StatusFailed, Err: wrapped}
		}
	}
	return pipeline.TaskResult{Status: pipeline.StatusSuccess}
}

type persistTask struct {
	pipeline.BaseTask
	repo      ports.OrderRepository
	topic     string
	publisher *events.Publisher
}

func newPersistTask(repo ports.OrderRepository, topic string, publisher *events.Publisher) *persistTask {
	return &persistTask{BaseTask: pipeline.NewBaseTask(3), repo: repo, topic: topic, publisher: publisher}
}

func (t *persistTask) Name() string { return "persist" }

func (t *persistTask) Execute(ctx context.Context, tc *pipeline.TaskContext) pipeline.TaskResult {
	order := tc.Subject.(*orderv1.Order)

	events := order.Events()
	var event *eventv1.OrderEvent
	if len(events) > 0 {
		e := eventv1.New(order.OrderID(), events[0].Kind, tc.CorrelationID, events[0].Payload, time.Now())
		event = &e
	}

	outbox := &ports.OutboxRow{
		OrderID:       order.OrderID(),
		Topic:         t.topic,
		PartitionKey:  order.OrderID(),
		Payload:       map[string]any{"orderId": order.OrderID(), "state": string(order.State())},
		CorrelationID: tc.CorrelationID,
	}

	if err := t.repo.SaveOrderTx(ctx, order, event, outbox); err != nil {
		var conflict *postgresorder.ConcurrentModificationError
		if errors.As(err, &conflict) {
			wrapped := errs.Wrap(errs.KindConflict, "CONCURRENT_MODIFICATION", "order was modified concurrently", tc.CorrelationID, err)
			return pipeline.TaskResult{Status: pipeline.StatusFailed, Err: wrapped}
		}
		wrapped := errs.Wrap(errs.KindExternal, "PERSIST_FAILED", "failed to persist order", tc.CorrelationID, err)
		return pipeline.TaskResult{Status: pipeline.StatusFailed, Err: wrapped}
	}
	if t.publisher != nil && event != nil {
		_ = t.publisher.Publish(ctx, *event)
	}
	return pipeline.TaskResult{Status: pipeline.StatusSuccess}
}
