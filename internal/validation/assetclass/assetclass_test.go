package assetclass_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	orderv1 "github.com/oms-core/engine/internal/domain/order/v1"
	"github.com/oms-core/engine/internal/validation/assetclass"
)

func TestForAssetClass_EquityRoundLot(t *testing.T) {
	cfg := assetclass.Config{EquityRoundLot: decimal.RequireFromString("100")}
	rules := assetclass.ForAssetClass(orderv1.AssetClassEquity, cfg)
	require.Len(t, rules, 1)

	o := orderv1.New("s", "c", "AAPL", orderv1.SideBuy, orderv1.TypeMarket, "a", decimal.RequireFromString("150"), orderv1.AssetClassEquity)
	require.False(t, rules[0](o).Valid)

	o2 := orderv1.New("s", "c", "AAPL", orderv1.SideBuy, orderv1.TypeMarket, "a", decimal.RequireFromString("200"), orderv1.AssetClassEquity)
	require.True(t, rules[0](o2).Valid)
}

func TestForAssetClass_FXSymbolFormat(t *testing.T) {
	cfg := assetclass.Config{FXMinNotional: decimal.RequireFromString("1000")}
	rules := assetclass.ForAssetClass(orderv1.AssetClassFX, cfg)
	require.Len(t, rules, 2)

	bad := orderv1.New("s", "c", "EURUSD", orderv1.SideBuy, orderv1.TypeMarket, "a", decimal.RequireFromString("5000"), orderv1.AssetClassFX)
	require.False(t, rules[0](bad).Valid)

	good := orderv1.New("s", "c", "EUR/USD", orderv1.SideBuy, orderv1.TypeMarket, "a", decimal.RequireFromString("5000"), orderv1.AssetClassFX)
	require.True(t, rules[0](good).Valid)
	require.True(t, rules[1](good).Valid)
}

func TestForAssetClass_Other_ReturnsNil(t *testing.T) {
	rules := assetclass.ForAssetClass(orderv1.AssetClassOther, assetclass.Config{})
	require.Nil(t, rules)
}
