package postgres

import (
	"github.com/dgraph-io/ristretto/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	orderv1 "github.com/oms-core/engine/internal/domain/order/v1"
	"github.com/oms-core/engine/internal/ports"
)

const (
	cacheNumCounters = 1e6
	cacheMaxCost     = 1 << 26 // 64 MiB
	cacheBufferItems = 64
)

// Store implements the order write-store (C5): orders, order_events and
// order_outbox rows, all written in one transaction per spec Invariant 5.
// The teacher generates its query layer with sqlc (schema/crud); that
// generated package is absent from the retrieval pack, so Store issues
// hand-written pgx queries directly instead (see DESIGN.md).
type Store struct {
	pool  *pgxpool.Pool
	cache *ristretto.Cache[string, *orderv1.Order]
}

var _ ports.OrderRepository = (*Store)(nil)
