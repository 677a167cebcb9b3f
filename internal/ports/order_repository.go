package ports

import (
	"context"

	execv1 "github.com/oms-core/engine/internal/domain/execution/v1"
	eventv1 "github.com/oms-core/engine/internal/domain/event/v1"
	orderv1 "github.com/oms-core/engine/internal/domain/order/v1"
)

// OutboxRow is the row a command processor asks the repository to enqueue
// alongside the order/event write, published later by the Outbox Publisher
// (C7). The Postgres store writes it to order_outbox or execution_outbox.
type OutboxRow struct {
	OrderID       string
	Topic         string
	PartitionKey  string
	Payload       map[string]any
	CorrelationID string
}

// OrderRepository is the C5 write-store surface the command processors (C6)
// are built against.
type OrderRepository interface {
	FindByOrderID(ctx context.Context, orderID string) (*orderv1.Order, error)
	FindBySessionIDAndClOrdID(ctx context.Context, sessionID, clOrdID string) (*orderv1.Order, error)
	ExistsBySessionIDAndClOrdID(ctx context.Context, sessionID, clOrdID string) (bool, error)
	FindChildren(ctx context.Context, orderID string) ([]*orderv1.Order, error)
	FindTree(ctx context.Context, rootOrderID string) ([]*orderv1.Order, error)
	SaveOrderTx(ctx context.Context, o *orderv1.Order, event *eventv1.OrderEvent, outbox *OutboxRow) error
	// SaveOrderWithExecutionTx is the FILL command's persistence step: order
	// upsert, order event/outbox, and the immutable execution row/outbox,
	// all in the same transaction.
	SaveOrderWithExecutionTx(ctx context.Context, o *orderv1.Order, exec *execv1.Execution, event *eventv1.OrderEvent, orderOutbox, execOutbox *OutboxRow) error
}
