package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	cancelstatev1 "github.com/oms-core/engine/internal/domain/cancelstate/v1"
	orderv1 "github.com/oms-core/engine/internal/domain/order/v1"
	"github.com/oms-core/engine/internal/infrastructure/repository/postgres/tx"
	"github.com/oms-core/engine/internal/ports"
)

type orderRow struct {
	orderID, sessionID, clOrdID, parentOrderID, rootOrderID, symbol string
	side, ordType, account, assetClass                              string
	extension                                                       []byte
	seq                                                              int64
	orderQty, cumQty, placeQty, allocQty                            pgtype.Numeric
	price, stopPx, avgPx                                            pgtype.Numeric
	state, cancelState                                               string
	txNr                                                             int64
	createdAt, updatedAt                                             time.Time
}

const selectOrderColumns = `
	order_id, seq, session_id, cl_ord_id, parent_order_id, root_order_id,
	symbol, side, ord_type, account, asset_class, extension,
	order_qty, cum_qty, place_qty, alloc_qty, price, stop_px, avg_px,
	state, cancel_state, tx_nr, created_at, updated_at
	FROM orders`

func scanOrderRow(row pgx.Row) (*orderRow, error) {
	var r orderRow
	err := row.Scan(
		&r.orderID, &r.seq, &r.sessionID, &r.clOrdID, &r.parentOrderID, &r.rootOrderID,
		&r.symbol, &r.side, &r.ordType, &r.account, &r.assetClass, &r.extension,
		&r.orderQty, &r.cumQty, &r.placeQty, &r.allocQty, &r.price, &r.stopPx, &r.avgPx,
		&r.state, &r.cancelState, &r.txNr, &r.createdAt, &r.updatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *orderRow) toDomain() *orderv1.Order {
	price := numericToNullDecimal(r.price)
	stopPx := numericToNullDecimal(r.stopPx)
	return orderv1.SetPersisted(
		r.orderID, r.seq, r.sessionID, r.clOrdID, r.parentOrderID, r.rootOrderID, r.symbol,
		orderv1.Side(r.side), orderv1.Type(r.ordType), r.account, orderv1.AssetClass(r.assetClass),
		numericToDecimal(r.orderQty), numericToDecimal(r.cumQty), numericToDecimal(r.placeQty), numericToDecimal(r.allocQty), numericToDecimal(r.avgPx),
		price, stopPx,
		orderv1.State(r.state), cancelstatev1.State(r.cancelState), r.txNr,
		r.createdAt, r.updatedAt,
		unmarshalJSON(r.extension),
	)
}

// FindByOrderID retrieves an order by its business id, checking the L1
// cache first.
func (s *Store) FindByOrderID(ctx context.Context, orderID string) (*orderv1.Order, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(orderID); ok {
			return cached, nil
		}
	}

	pgxTx := tx.FromContext(ctx)
	var row pgx.Row
	if pgxTx != nil {
		row = pgxTx.QueryRow(ctx, `SELECT `+selectOrderColumns+` WHERE order_id = $1`, orderID)
	} else {
		row = s.pool.QueryRow(ctx, `SELECT `+selectOrderColumns+` WHERE order_id = $1`, orderID)
	}

	r, err := scanOrderRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}

	o := r.toDomain()
	if s.cache != nil {
		s.cache.Set(orderID, o, 1)
	}
	return o, nil
}

// FindBySessionIDAndClOrdID is the idempotency probe the CREATE processor
// runs before inserting a new order (spec Invariant 4).
func (s *Store) FindBySessionIDAndClOrdID(ctx context.Context, sessionID, clOrdID string) (*orderv1.Order, error) {
	pgxTx := tx.FromContext(ctx)
	var row pgx.Row
	query := `SELECT ` + selectOrderColumns + ` WHERE session_id = $1 AND cl_ord_id = $2`
	if pgxTx != nil {
		row = pgxTx.QueryRow(ctx, query, sessionID, clOrdID)
	} else {
		row = s.pool.QueryRow(ctx, query, sessionID, clOrdID)
	}

	r, err := scanOrderRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return r.toDomain(), nil
}

// ExistsBySessionIDAndClOrdID is the cheap existence-only variant of
// FindBySessionIDAndClOrdID used purely to detect a replayed CREATE.
func (s *Store) ExistsBySessionIDAndClOrdID(ctx context.Context, sessionID, clOrdID string) (bool, error) {
	pgxTx := tx.FromContext(ctx)
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM orders WHERE session_id = $1 AND cl_ord_id = $2)`
	var err error
	if pgxTx != nil {
		err = pgxTx.QueryRow(ctx, query, sessionID, clOrdID).Scan(&exists)
	} else {
		err = s.pool.QueryRow(ctx, query, sessionID, clOrdID).Scan(&exists)
	}
	return exists, err
}

// FindChildren retrieves every order whose parentOrderId is orderID
// (spec §4.5 order hierarchy traversal).
func (s *Store) FindChildren(ctx context.Context, orderID string) ([]*orderv1.Order, error) {
	pgxTx := tx.FromContext(ctx)
	query := `SELECT ` + selectOrderColumns + ` WHERE parent_order_id = $1 ORDER BY seq`
	var rows pgx.Rows
	var err error
	if pgxTx != nil {
		rows, err = pgxTx.Query(ctx, query, orderID)
	} else {
		rows, err = s.pool.Query(ctx, query, orderID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*orderv1.Order
	for rows.Next() {
		r, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r.toDomain())
	}
	return out, rows.Err()
}

// FindTree retrieves the full order hierarchy rooted at rootOrderID, walking
// from the root down to every descendant (spec §4.5).
func (s *Store) FindTree(ctx context.Context, rootOrderID string) ([]*orderv1.Order, error) {
	pgxTx := tx.FromContext(ctx)
	query := `SELECT ` + selectOrderColumns + ` WHERE root_order_id = $1 ORDER BY seq`
	var rows pgx.Rows
	var err error
	if pgxTx != nil {
		rows, err = pgxTx.Query(ctx, query, rootOrderID)
	} else {
		rows, err = s.pool.Query(ctx, query, rootOrderID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*orderv1.Order
	for rows.Next() {
		r, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r.toDomain())
	}
	return out, rows.Err()
}
