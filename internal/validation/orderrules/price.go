package orderrules

import (
	orderv1 "github.com/oms-core/engine/internal/domain/order/v1"
	"github.com/oms-core/engine/internal/validation"
)

// Price enforces the price/stopPx combination each order type requires:
// MARKET carries neither, LIMIT requires price, STOP requires stopPx, and
// STOP_LIMIT requires both. Any carried price must be positive.
func Price() validation.Rule[*orderv1.Order] {
	return func(o *orderv1.Order) validation.Result {
		price, hasPrice := o.Price()
		stopPx, hasStopPx := o.StopPx()

		switch o.OrdType() {
		case orderv1.TypeMarket:
			if hasPrice || hasStopPx {
				return validation.Fail("MARKET orders must not carry a price or stopPx")
			}
		case orderv1.TypeLimit:
			if !hasPrice {
				return validation.Fail("LIMIT orders require a price")
			}
		case orderv1.TypeStop:
			if !hasStopPx {
				return validation.Fail("STOP orders require a stopPx")
			}
		case orderv1.TypeStopLimit:
			if !hasPrice || !hasStopPx {
				return validation.Fail("STOP_LIMIT orders require both price and stopPx")
			}
		}

		if hasPrice && !price.IsPositive() {
			return validation.Fail("price must be positive when present")
		}
		if hasStopPx && !stopPx.IsPositive() {
			return validation.Fail("stopPx must be positive when present")
		}
		return validation.Ok()
	}
}
