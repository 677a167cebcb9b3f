// Package create implements the CREATE command processor (C6): validates a
// new order, assigns it an identity, and persists it with its outbox row in
// one transaction.
package create

import (
	"github.com/shopspring/decimal"

	orderv1 "github.com/oms-core/engine/internal/domain/order/v1"
)

// Command carries every field needed to construct a new order.
type Command struct {
	SessionID     string
	ClOrdID       string
	Symbol        string
	Side          orderv1.Side
	OrdType       orderv1.Type
	Account       string
	OrderQty      decimal.Decimal
	Price         *decimal.Decimal
	StopPx        *decimal.Decimal
	AssetClass    orderv1.AssetClass
	CorrelationID string
}
