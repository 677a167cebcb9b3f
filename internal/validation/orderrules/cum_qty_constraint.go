package orderrules

import (
	"fmt"

	orderv1 "github.com/oms-core/engine/internal/domain/order/v1"
	"github.com/oms-core/engine/internal/validation"
)

// CumQtyConstraint enforces the cumQty <= orderQty invariant independently
// of the Order aggregate's own ApplyExecution check, so a FILL command's
// pipeline can reject before attempting the mutation.
func CumQtyConstraint() validation.Rule[*orderv1.Order] {
	return func(o *orderv1.Order) validation.Result {
		if o.CumQty().GreaterThan(o.OrderQty()) {
			return validation.Fail(fmt.Sprintf("cumQty %s exceeds orderQty %s", o.CumQty(), o.OrderQty()))
		}
		return validation.Ok()
	}
}
