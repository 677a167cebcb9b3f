package orderrules

import (
	"fmt"

	orderv1 "github.com/oms-core/engine/internal/domain/order/v1"
	"github.com/oms-core/engine/internal/validation"
)

// ExecutableState rejects commands (ACCEPT/CANCEL/REPLACE/FILL) targeting an
// order that is not in a state where that command makes sense. executable
// lists the states the calling command processor permits; an order in any
// other state fails the rule.
func ExecutableState(commandName string, executable ...orderv1.State) validation.Rule[*orderv1.Order] {
	allowed := make(map[orderv1.State]struct{}, len(executable))
	for _, s := range executable {
		allowed[s] = struct{}{}
	}
	return func(o *orderv1.Order) validation.Result {
		if _, ok := allowed[o.State()]; !ok {
			return validation.Fail(fmt.Sprintf("%s cannot be applied to an order in state %s", commandName, o.State()))
		}
		return validation.Ok()
	}
}
