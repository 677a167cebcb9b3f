package create

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	eventv1 "github.com/oms-core/engine/internal/domain/event/v1"
	orderv1 "github.com/oms-core/engine/internal/domain/order/v1"
	"github.com/oms-core/engine/internal/errs"
	"github.com/oms-core/engine/internal/infrastructure/events"
	postgresorder "github.com/oms-core/engine/internal/infrastructure/repository/postgres/order"
	"github.com/oms-core/engine/internal/pipeline"
	"github.com/oms-core/engine/internal/ports"
	"github.com/oms-core/engine/internal/statemachine"
	"github.com/oms-core/engine/internal/validation"
	"github.com/oms-core/engine/internal/validation/assetclass"
	"github.com/oms-core/engine/internal/validation/orderrules"
)

// RuleConfig holds the §6.5 configuration the validation task needs.
type RuleConfig struct {
	MaxOrderQty decimal.Decimal
	AssetClass  assetclass.Config
}

func ruleEngine(cfg RuleConfig, order *orderv1.Order) *validation.Engine[*orderv1.Order] {
	rules := []validation.Rule[*orderv1.Order]{
		orderrules.RequiredFields(),
		orderrules.Quantity(cfg.MaxOrderQty),
		orderrules.Price(),
	}
	rules = append(rules, assetclass.ForAssetClass(order.AssetClass(), cfg.AssetClass)...)
	return validation.NewEngine(false, rules...)
}

type validateTask struct {
	pipeline.BaseTask
	cfg RuleConfig
}

func newValidateTask(cfg RuleConfig) *validateTask {
	return &validateTask{BaseTask: pipeline.NewBaseTask(1), cfg: cfg}
}

func (t *validateTask) Name() string { return "validate" }

func (t *validateTask) Execute(_ context.Context, tc *pipeline.TaskContext) pipeline.TaskResult {
	order := tc.Subject.(*orderv1.Order)
	res := ruleEngine(t.cfg, order).Validate(order)
	if !res.Valid {
		err := errs.New(errs.KindValidation, "ORDER_VALIDATION_FAILED", "order failed validation", tc.CorrelationID).
			WithExtension("errors", res.Errors)
		return pipeline.TaskResult{Status: pipeline.StatusFailed, Err: err, Message: "validation failed"}
	}
	return pipeline.TaskResult{Status: pipeline.StatusSuccess}
}

type createTask struct {
	pipeline.BaseTask
	machine *statemachine.Config[orderv1.State]
}

func newCreateTask(machine *statemachine.Config[orderv1.State]) *createTask {
	return &createTask{BaseTask: pipeline.NewBaseTask(2), machine: machine}
}

func (t *createTask) Name() string { return "create" }

func (t *createTask) Execute(_ context.Context, tc *pipeline.TaskContext) pipeline.TaskResult {
	order := tc.Subject.(*orderv1.Order)
	if order.OrderID() == "" {
		order.SetIdentity(orderv1.NewOrderID(), 0, "", "")
	}
	if err := order.Create(t.machine); err != nil {
		wrapped := errs.Wrap(errs.KindInvalidTransition, "INVALID_CREATE_TRANSITION", "order could not move to NEW", tc.CorrelationID, err)
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
		Payload:       orderSnapshot(order),
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

func orderSnapshot(o *orderv1.Order) map[string]any {
	price, hasPrice := o.Price()
	stopPx, hasStopPx := o.StopPx()
	snapshot := map[string]any{
		"orderId":   o.OrderID(),
		"sessionId": o.SessionID(),
		"clOrdId":   o.ClOrdID(),
		"symbol":    o.Symbol(),
		"side":      string(o.Side()),
		"ordType":   string(o.OrdType()),
		"orderQty":  o.OrderQty().String(),
		"cumQty":    o.CumQty().String(),
		"state":     string(o.State()),
	}
	if hasPrice {
		snapshot["price"] = price.String()
	}
	if hasStopPx {
		snapshot["stopPx"] = stopPx.String()
	}
	return snapshot
}
