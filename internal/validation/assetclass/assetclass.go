// Package assetclass supplies the order rules that vary by asset class
// (equity round-lot sizing, FX symbol format and minimum notional), kept
// separate from the asset-class-agnostic catalog in validation/orderrules.
package assetclass

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	orderv1 "github.com/oms-core/engine/internal/domain/order/v1"
	"github.com/oms-core/engine/internal/validation"
)

// Config holds the asset-class rule parameters sourced from §6.5
// configuration (validation.equity.round_lot, validation.fx.min_notional).
type Config struct {
	EquityRoundLot decimal.Decimal
	FXMinNotional  decimal.Decimal
}

var fxSymbolPattern = regexp.MustCompile(`^[A-Z]{3}/[A-Z]{3}$`)

// ForAssetClass returns the extra rules that apply on top of the common
// catalog for the order's asset class. Returns nil for AssetClassOther.
func ForAssetClass(ac orderv1.AssetClass, cfg Config) []validation.Rule[*orderv1.Order] {
	switch ac {
	case orderv1.AssetClassEquity:
		return []validation.Rule[*orderv1.Order]{equityRoundLot(cfg.EquityRoundLot)}
	case orderv1.AssetClassFX:
		return []validation.Rule[*orderv1.Order]{fxSymbolFormat(), fxMinimumNotional(cfg.FXMinNotional)}
	default:
		return nil
	}
}

// equityRoundLot rejects an equity order whose quantity is not a multiple
// of the configured round lot (default 100 shares).
func equityRoundLot(roundLot decimal.Decimal) validation.Rule[*orderv1.Order] {
	return func(o *orderv1.Order) validation.Result {
		if roundLot.IsZero() {
			return validation.Ok()
		}
		remainder := o.OrderQty().Mod(roundLot)
		if !remainder.IsZero() {
			return validation.Fail(fmt.Sprintf("equity orderQty %s is not a multiple of the round lot %s", o.OrderQty(), roundLot))
		}
		return validation.Ok()
	}
}

// fxSymbolFormat requires the FX symbol to be in CCY1/CCY2 form.
func fxSymbolFormat() validation.Rule[*orderv1.Order] {
	return func(o *orderv1.Order) validation.Result {
		if !fxSymbolPattern.MatchString(o.Symbol()) {
			return validation.Fail(fmt.Sprintf("FX symbol %q must be in CCY1/CCY2 form", o.Symbol()))
		}
		return validation.Ok()
	}
}

// fxMinimumNotional rejects an FX order below the configured minimum
// notional (orderQty, since FX quotes notionally in the base currency).
func fxMinimumNotional(minNotional decimal.Decimal) validation.Rule[*orderv1.Order] {
	return func(o *orderv1.Order) validation.Result {
		if minNotional.IsZero() {
			return validation.Ok()
		}
		if o.OrderQty().LessThan(minNotional) {
			return validation.Fail(fmt.Sprintf("FX orderQty %s is below the minimum notional %s", o.OrderQty(), minNotional))
		}
		return validation.Ok()
	}
}
