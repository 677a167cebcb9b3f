package orderrules_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	orderv1 "github.com/oms-core/engine/internal/domain/order/v1"
	"github.com/oms-core/engine/internal/validation/orderrules"
)

func newOrder(qty string, ordType orderv1.Type) *orderv1.Order {
	o := orderv1.New("sess-1", "clord-1", "AAPL", orderv1.SideBuy, ordType, "acct-1", decimal.RequireFromString(qty), orderv1.AssetClassEquity)
	o.SetIdentity("order-1", 1, "", "")
	return o
}

func TestRequiredFields_RejectsMissingSymbol(t *testing.T) {
	o := newOrder("100", orderv1.TypeMarket)
	rule := orderrules.RequiredFields()
	require.True(t, rule(o).Valid)

	missing := orderv1.New("sess-1", "clord-1", "", orderv1.SideBuy, orderv1.TypeMarket, "acct-1", decimal.RequireFromString("100"), orderv1.AssetClassEquity)
	require.False(t, rule(missing).Valid)
}

func TestQuantity_RejectsZero(t *testing.T) {
	o := newOrder("0", orderv1.TypeMarket)
	rule := orderrules.Quantity(decimal.Zero)
	res := rule(o)
	require.False(t, res.Valid)
}

func TestQuantity_RejectsAboveMax(t *testing.T) {
	o := newOrder("1000", orderv1.TypeMarket)
	rule := orderrules.Quantity(decimal.RequireFromString("500"))
	res := rule(o)
	require.False(t, res.Valid)
}

func TestPrice_MarketMustNotCarryPrice(t *testing.T) {
	o := newOrder("100", orderv1.TypeMarket)
	o.SetPrice(decimal.RequireFromString("10"))
	rule := orderrules.Price()
	res := rule(o)
	require.False(t, res.Valid)
}

func TestPrice_LimitRequiresPrice(t *testing.T) {
	o := newOrder("100", orderv1.TypeLimit)
	rule := orderrules.Price()
	res := rule(o)
	require.False(t, res.Valid)

	o.SetPrice(decimal.RequireFromString("10.50"))
	require.True(t, rule(o).Valid)
}

func TestPrice_StopLimitRequiresBoth(t *testing.T) {
	o := newOrder("100", orderv1.TypeStopLimit)
	rule := orderrules.Price()
	require.False(t, rule(o).Valid)

	o.SetPrice(decimal.RequireFromString("10"))
	require.False(t, rule(o).Valid)

	o.SetStopPx(decimal.RequireFromString("9.50"))
	require.True(t, rule(o).Valid)
}

func TestExecutableState_RejectsDisallowedState(t *testing.T) {
	o := newOrder("100", orderv1.TypeMarket)
	rule := orderrules.ExecutableState("FILL", orderv1.StateLive, orderv1.StatePartiallyFilled)
	res := rule(o)
	require.False(t, res.Valid)
}
