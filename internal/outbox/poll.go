package outbox

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	orderOutboxTable     = "order_outbox"
	executionOutboxTable = "execution_outbox"
)

// selectForUpdateSQL differs only in which columns identify the owning
// aggregate: order_outbox keys off order_id alone, execution_outbox also
// carries exec_id, but neither is needed beyond the partition key once the
// payload is already fully materialized JSON.
func selectForUpdateSQL(table string) string {
	return fmt.Sprintf(`
		SELECT id, partition_key, topic, payload, correlation_id
		FROM %s
		ORDER BY id
		FOR UPDATE SKIP LOCKED
		LIMIT $1`, table)
}

// drainOnce claims up to BatchSize rows from table, publishes each to
// Kafka, and deletes the ones that were published successfully, all
// within one transaction so SKIP LOCKED keeps concurrent workers and
// concurrent Publisher processes from double-claiming the same row. A
// publish failure stops the batch early: the transaction commits with
// whatever prefix succeeded deleted, and the rest fall back into the
// pool for the next poll once the row locks are released at commit.
func (p *Publisher) drainOnce(ctx context.Context, table string) (int, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op if already committed

	rows, err := tx.Query(ctx, selectForUpdateSQL(table), p.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	var claimed []row
	for rows.Next() {
		var r row
		r.table = table
		if err := rows.Scan(&r.id, &r.partitionKey, &r.topic, &r.payload, &r.correlation); err != nil {
			rows.Close()
			return 0, err
		}
		claimed = append(claimed, r)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	rows.Close()

	published := 0
	for _, r := range claimed {
		msg := message.NewMessage(watermill.NewUUID(), r.payload)
		msg.Metadata.Set("partition_key", r.partitionKey)
		msg.Metadata.Set("correlation_id", r.correlation)

		if err := p.publishWithBreaker(ctx, r.topic, msg); err != nil {
			p.log.Warn("outbox: publish failed, leaving row for retry",
				slog.Int64("id", r.id), slog.String("table", table), slog.Any("error", err))
			break
		}

		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), r.id); err != nil {
			return published, err
		}
		published++
	}

	if err := tx.Commit(ctx); err != nil {
		return published, err
	}
	return published, nil
}
