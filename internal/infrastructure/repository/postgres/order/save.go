package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	execv1 "github.com/oms-core/engine/internal/domain/execution/v1"
	eventv1 "github.com/oms-core/engine/internal/domain/event/v1"
	orderv1 "github.com/oms-core/engine/internal/domain/order/v1"
	"github.com/oms-core/engine/internal/infrastructure/repository/postgres/tx"
	"github.com/oms-core/engine/internal/ports"
)

// upsertOrder inserts the order row (tx_nr 0 -> 1) or updates it under an
// optimistic tx_nr check, returning the new tx_nr. Shared by SaveOrderTx and
// SaveOrderWithExecutionTx so both commit the same upsert shape.
func upsertOrder(ctx context.Context, pgxTx pgx.Tx, o *orderv1.Order) (int64, error) {
	oldTxNr := o.TxNr()
	newTxNr := oldTxNr + 1

	price, _ := o.Price()
	stopPx, _ := o.StopPx()
	priceNum := decimalToNumeric(price)
	stopPxNum := decimalToNumeric(stopPx)
	if _, ok := o.Price(); !ok {
		priceNum.Valid = false
	}
	if _, ok := o.StopPx(); !ok {
		stopPxNum.Valid = false
	}

	if oldTxNr == 0 {
		_, err := pgxTx.Exec(ctx, `
			INSERT INTO orders (
				order_id, session_id, cl_ord_id, parent_order_id, root_order_id,
				symbol, side, ord_type, account, asset_class, extension,
				order_qty, cum_qty, place_qty, alloc_qty, price, stop_px, avg_px,
				state, cancel_state, tx_nr, created_at, updated_at
			) VALUES (
				$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11::jsonb,
				$12,$13,$14,$15,$16,$17,$18,
				$19,$20,$21,$22,$23
			)`,
			o.OrderID(), o.SessionID(), o.ClOrdID(), o.ParentOrderID(), o.RootOrderID(),
			o.Symbol(), string(o.Side()), string(o.OrdType()), o.Account(), string(o.AssetClass()), marshalJSON(o.ExtensionMap()),
			decimalToNumeric(o.OrderQty()), decimalToNumeric(o.CumQty()), decimalToNumeric(o.PlaceQty()), decimalToNumeric(o.AllocQty()),
			priceNum, stopPxNum, decimalToNumeric(o.AvgPx()),
			string(o.State()), string(o.CancelState()), newTxNr, o.CreatedAt(), o.UpdatedAt(),
		)
		if err != nil {
			return 0, err
		}
		return newTxNr, nil
	}

	tag, err := pgxTx.Exec(ctx, `
		UPDATE orders SET
			cum_qty = $1, place_qty = $2, alloc_qty = $3,
			price = $4, stop_px = $5, avg_px = $6,
			state = $7, cancel_state = $8, tx_nr = $9, updated_at = $10
		WHERE order_id = $11 AND tx_nr = $12`,
		decimalToNumeric(o.CumQty()), decimalToNumeric(o.PlaceQty()), decimalToNumeric(o.AllocQty()),
		priceNum, stopPxNum, decimalToNumeric(o.AvgPx()),
		string(o.State()), string(o.CancelState()), newTxNr, o.UpdatedAt(),
		o.OrderID(), oldTxNr,
	)
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		return 0, &ConcurrentModificationError{OrderID: o.OrderID(), Expected: oldTxNr}
	}
	return newTxNr, nil
}

func insertEvent(ctx context.Context, pgxTx pgx.Tx, event *eventv1.OrderEvent) error {
	if event == nil {
		return nil
	}
	_, err := pgxTx.Exec(ctx, `
		INSERT INTO order_events (order_id, kind, payload, correlation_id, occurred_at)
		VALUES ($1,$2,$3::jsonb,$4,$5)`,
		event.OrderID, string(event.Kind), marshalJSON(event.Payload), event.CorrelationID, event.OccurredAt,
	)
	return err
}

func insertOutbox(ctx context.Context, pgxTx pgx.Tx, outbox *ports.OutboxRow) error {
	if outbox == nil {
		return nil
	}
	_, err := pgxTx.Exec(ctx, `
		INSERT INTO order_outbox (order_id, topic, partition_key, payload, correlation_id)
		VALUES ($1,$2,$3,$4::jsonb,$5)`,
		outbox.OrderID, outbox.Topic, outbox.PartitionKey, marshalJSON(outbox.Payload), outbox.CorrelationID,
	)
	return err
}

// SaveOrderTx upserts the order row with an optimistic tx_nr check, appends
// the event row, and inserts the outbox row — all three or none, inside the
// pgx.Tx carried in ctx (spec Invariant 5: "the order row, event row and
// outbox row are written atomically in one transaction").
func (s *Store) SaveOrderTx(ctx context.Context, o *orderv1.Order, event *eventv1.OrderEvent, outbox *ports.OutboxRow) error {
	pgxTx := tx.FromContext(ctx)
	if pgxTx == nil {
		return ErrTransactionRequired
	}

	newTxNr, err := upsertOrder(ctx, pgxTx, o)
	if err != nil {
		return err
	}
	if err := insertEvent(ctx, pgxTx, event); err != nil {
		return err
	}
	if err := insertOutbox(ctx, pgxTx, outbox); err != nil {
		return err
	}

	o.SetTxNr(newTxNr)
	s.invalidate(o.OrderID())
	return nil
}

// SaveOrderWithExecutionTx is the FILL command's persistence step: it
// upserts the order (post-ApplyExecution), appends the order event and its
// outbox row, and additionally inserts the immutable execution row and its
// own execution_outbox row, all inside the same transaction (spec §4.6
// "PersistOrderAndExecution").
func (s *Store) SaveOrderWithExecutionTx(ctx context.Context, o *orderv1.Order, exec *execv1.Execution, event *eventv1.OrderEvent, orderOutbox, execOutbox *ports.OutboxRow) error {
	pgxTx := tx.FromContext(ctx)
	if pgxTx == nil {
		return ErrTransactionRequired
	}

	newTxNr, err := upsertOrder(ctx, pgxTx, o)
	if err != nil {
		return err
	}
	if err := insertEvent(ctx, pgxTx, event); err != nil {
		return err
	}
	if err := insertOutbox(ctx, pgxTx, orderOutbox); err != nil {
		return err
	}

	if _, err := pgxTx.Exec(ctx, `
		INSERT INTO executions (exec_id, order_id, last_qty, last_px, cum_qty, avg_px, correlation_id, occurred_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		exec.ExecID, exec.OrderID, decimalToNumeric(exec.LastQty), decimalToNumeric(exec.LastPx),
		decimalToNumeric(exec.CumQty), decimalToNumeric(exec.AvgPx), exec.CorrelationID, exec.OccurredAt,
	); err != nil {
		return err
	}

	if execOutbox != nil {
		if _, err := pgxTx.Exec(ctx, `
			INSERT INTO execution_outbox (exec_id, order_id, topic, partition_key, payload, correlation_id)
			VALUES ($1,$2,$3,$4,$5::jsonb,$6)`,
			exec.ExecID, execOutbox.OrderID, execOutbox.Topic, execOutbox.PartitionKey, marshalJSON(execOutbox.Payload), execOutbox.CorrelationID,
		); err != nil {
			return err
		}
	}

	o.SetTxNr(newTxNr)
	s.invalidate(o.OrderID())
	return nil
}
