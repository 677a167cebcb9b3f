// Package orderrules is the order-specific rule catalog built on top of the
// generic validation.Engine, grounded on the teacher's one-rule-per-file
// cart_validation layout.
package orderrules

import (
	"fmt"

	orderv1 "github.com/oms-core/engine/internal/domain/order/v1"
	"github.com/oms-core/engine/internal/validation"
)

// RequiredFields rejects an order missing any field every order must carry
// regardless of asset class: sessionId, clOrdId, symbol, side, order type
// and account.
func RequiredFields() validation.Rule[*orderv1.Order] {
	return func(o *orderv1.Order) validation.Result {
		var errs []string

		if o.Symbol() == "" {
			errs = append(errs, "symbol is required")
		}
		if o.Side() != orderv1.SideBuy && o.Side() != orderv1.SideSell {
			errs = append(errs, fmt.Sprintf("side %q is not a recognized order side", o.Side()))
		}
		switch o.OrdType() {
		case orderv1.TypeMarket, orderv1.TypeLimit, orderv1.TypeStop, orderv1.TypeStopLimit:
		default:
			errs = append(errs, fmt.Sprintf("ordType %q is not a recognized order type", o.OrdType()))
		}
		if o.SessionID() == "" || o.ClOrdID() == "" {
			errs = append(errs, "sessionId and clOrdId are required")
		}
		if o.Account() == "" {
			errs = append(errs, "account is required")
		}

		if len(errs) > 0 {
			return validation.Fail(errs...)
		}
		return validation.Ok()
	}
}
