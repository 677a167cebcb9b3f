package fill

import (
	"context"
	"errors"
	"time"

	execv1 "github.com/oms-core/engine/internal/domain/execution/v1"
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

const executionAttrKey = "execution"

func ruleEngine() *validation.Engine[*orderv1.Order] {
	return validation.NewEngine(true,
		orderrules.ExecutableState("FILL", orderv1.StateLive, orderv1.StatePartiallyFilled),
		orderrules.CumQtyConstraint(),
	)
}

type validateTask struct{ pipeline.BaseTask }

func newValidateTask() *validateTask { return &validateTask{BaseTask: pipeline.NewBaseTask(1)} }

func (t *validateTask) Name() string { return "validate" }

func (t *validateTask) Execute(_ context.Context, tc *pipeline.TaskContext) pipeline.TaskResult {
	order := tc.Subject.(*orderv1.Order)
	res := ruleEngine().Validate(order)
	if !res.Valid {
		err := errs.New(errs.KindValidation, "ORDER_NOT_EXECUTABLE", "order is not in a state FILL can apply to", tc.CorrelationID).
			WithExtension("errors", res.Errors)
		return pipeline.TaskResult{Status: pipeline.StatusFailed, Err: err, Message: "validation failed"}
	}
	return pipeline.TaskResult{Status: pipeline.StatusSuccess}
}

// applyExecutionTask mutates the order (cumQty/avgPx/state) and builds the
// immutable Execution record from the order's post-mutation figures, since
// avgPx is only known after ApplyExecution resolves the weighted mean.
type applyExecutionTask struct {
	pipeline.BaseTask
	machine *statemachine.Config[orderv1.State]
}

func newApplyExecutionTask(machine *statemachine.Config[orderv1.State]) *applyExecutionTask {
	return &applyExecutionTask{BaseTask: pipeline.NewBaseTask(2), machine: machine}
}

func (t *applyExecutionTask) Name() string { return "apply-execution" }

func (t *applyExecutionTask) Execute(_ context.Context, tc *pipeline.TaskContext) pipeline.TaskResult {
	order := tc.Subject.(*orderv1.Order)
	cmd := tc.Command.(Command)

	if err := order.ApplyExecution(t.machine, cmd.LastQty, cmd.LastPx, tc.CorrelationID); err != nil {
		var overfill *orderv1.ErrOverfill
		if errors.As(err, &overfill) {
			wrapped := errs.Wrap(errs.KindValidation, "OVERFILL", "execution would overfill the order", tc.CorrelationID, err)
			return pipeline.TaskResult{Status: pipeline.StatusFailed, Err: wrapped}
		}
		wrapped := errs.Wrap(errs.KindInvalidTransition, "INVALID_FILL_TRANSITION", "order could not move to the filled state", tc.CorrelationID, err)
		return pipeline.TaskResult{Status: pipeline.StatusFailed, Err: wrapped}
	}

	exec, err := execv1.New(cmd.ExecID, order.OrderID(), cmd.LastQty, cmd.LastPx, order.CumQty(), order.AvgPx(), tc.CorrelationID, time.Now())
	if err != nil {
		wrapped := errs.Wrap(errs.KindValidation, "INVALID_EXECUTION", "execution failed its own invariants", tc.CorrelationID, err)
		return pipeline.TaskResult{Status: pipeline.StatusFailed, Err: wrapped}
	}
	tc.Attributes[executionAttrKey] = exec
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
	exec := tc.Attributes[executionAttrKey].(*execv1.Execution)

	events := order.Events()
	var event *eventv1.OrderEvent
	if len(events) > 0 {
		e := eventv1.New(order.OrderID(), events[0].Kind, tc.CorrelationID, events[0].Payload, time.Now())
		event = &e
	}

	orderOutbox := &ports.OutboxRow{
		OrderID:       order.OrderID(),
		Topic:         t.topic,
		PartitionKey:  order.OrderID(),
		Payload:       map[string]any{"orderId": order.OrderID(), "cumQty": order.CumQty().String(), "avgPx": order.AvgPx().String(), "state": string(order.State())},
		CorrelationID: tc.CorrelationID,
	}
	execOutbox := &ports.OutboxRow{
		OrderID:       exec.OrderID,
		Topic:         t.topic,
		PartitionKey:  exec.OrderID,
		Payload:       map[string]any{"execId": exec.ExecID, "orderId": exec.OrderID, "lastQty": exec.LastQty.String(), "lastPx": exec.LastPx.String()},
		CorrelationID: tc.CorrelationID,
	}

	if err := t.repo.SaveOrderWithExecutionTx(ctx, order, exec, event, orderOutbox, execOutbox); err != nil {
		var conflict *postgresorder.ConcurrentModificationError
		if errors.As(err, &conflict) {
			wrapped := errs.Wrap(errs.KindConflict, "CONCURRENT_MODIFICATION", "order was modified concurrently", tc.CorrelationID, err)
			return pipeline.TaskResult{Status: pipeline.StatusFailed, Err: wrapped}
		}
		wrapped := errs.Wrap(errs.KindExternal, "PERSIST_FAILED", "failed to persist order and execution", tc.CorrelationID, err)
		return pipeline.TaskResult{Status: pipeline.StatusFailed, Err: wrapped}
	}
	if t.publisher != nil && event != nil {
		_ = t.publisher.Publish(ctx, *event)
	}
	return pipeline.TaskResult{Status: pipeline.StatusSuccess}
}
