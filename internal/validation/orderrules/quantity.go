package orderrules

import (
	"fmt"

	"github.com/shopspring/decimal"

	orderv1 "github.com/oms-core/engine/internal/domain/order/v1"
	"github.com/oms-core/engine/internal/validation"
)

// Quantity rejects a non-positive orderQty or one exceeding
// validation.max_order_qty (§6.5 configuration, passed in by the caller so
// the rule stays a pure function of its config).
func Quantity(maxOrderQty decimal.Decimal) validation.Rule[*orderv1.Order] {
	return func(o *orderv1.Order) validation.Result {
		qty := o.OrderQty()
		if !qty.IsPositive() {
			return validation.Fail("orderQty must be positive")
		}
		if maxOrderQty.IsPositive() && qty.GreaterThan(maxOrderQty) {
			return validation.Fail(fmt.Sprintf("orderQty %s exceeds configured maximum %s", qty, maxOrderQty))
		}
		return validation.Ok()
	}
}
