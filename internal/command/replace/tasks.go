package replace

import (
	"context"
	"errors"
	"time"

	cancelstatev1 "github.com/oms-core/engine/internal/domain/cancelstate/v1"
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
		orderrules.ExecutableState("REPLACE", orderv1.StateUnack, orderv1.StateLive, orderv1.StatePartiallyFilled),
	)
}

type validateTask struct{ pipeline.BaseTask }

func newValidateTask() *validateTask { return &validateTask{BaseTask: pipeline.NewBaseTask(1)} }

func (t *validateTask) Name() string { return "validate" }

func (t *validateTask) Execute(_ context.Context, tc *pipeline.TaskContext) pipeline.TaskResult {
	order := tc.Subject.(*orderv1.Order)
	res := ruleEngine().Validate(order)
	if !res.Valid {
		err := errs.New(errs.KindInvalidTransition, "ORDER_NOT_REPLACEABLE", "order is not in a state REPLACE can apply to", tc.CorrelationID).
			WithExtension("errors", res.Errors)
		return pipeline.TaskResult{Status: pipeline.StatusFailed, Err: err, Message: "validation failed"}
	}
	return pipeline.TaskResult{Status: pipeline.StatusSuccess}
}

// replaceTask either raises the PENDING_REPLACE intent (the initial REPLACE
// request) or applies the new terms and resolves the intent to REPLACED
// (the venue confirmation leg), depending on Command.Confirm.
type replaceTask struct {
	pipeline.BaseTask
	cancelMachine *statemachine.Config[cancelstatev1.State]
}

func newReplaceTask(cancelMachine *statemachine.Config[cancelstatev1.State]) *replaceTask {
	return &replaceTask{BaseTask: pipeline.NewBaseTask(2), cancelMachine: cancelMachine}
}

func (t *replaceTask) Name() string { return "replace" }

func (t *replaceTask) Execute(_ context.Context, tc *pipeline.TaskContext) pipeline.TaskResult {
	order := tc.Subject.(*orderv1.Order)
	cmd := tc.Command.(Command)

	if cmd.Confirm {
		if err := order.Replace(t.cancelMachine, cmd.NewOrderQty, cmd.NewPrice); err != nil {
			wrapped := errs.Wrap(errs.KindInvalidTransition, "INVALID_REPLACE", "order could not be replaced with the new terms", tc.CorrelationID, err)
			return pipeline.TaskResult{Status: pipeline.StatusFailed, Err: wrapped}
		}
		return pipeline.TaskResult{Status: pipeline.StatusSuccess}
	}

	if err := order.RequestReplace(t.cancelMachine); err != nil {
		wrapped := errs.Wrap(errs.KindInvalidTransition, "REPLACE_ALREADY_IN_FLIGHT", "a cancel or replace is already pending for this order", tc.CorrelationID, err)
		return pipeline.TaskResult{Status: pipeline.StatusFailed, Err: wrapped}
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
		Payload:       map[string]any{"orderId": order.OrderID(), "orderQty": order.OrderQty().String(), "cancelState": string(order.CancelState())},
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
