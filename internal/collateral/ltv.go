package collateral

import (
	"github.com/oeo/credit-facility/internal/money"
	"github.com/oeo/credit-facility/internal/types"
)

// Monitor classifies a secured facility's loan-to-value ratio against its
// configured thresholds. Band changes are edge-triggered: the caller compares
// the previous band with the new one and reacts only on entry.
type Monitor struct {
	thresholds types.LtvThresholds
}

// NewMonitor creates a monitor for the given thresholds.
func NewMonitor(thresholds types.LtvThresholds) Monitor {
	return Monitor{thresholds: thresholds}
}

// Thresholds returns the configured trigger levels.
func (m Monitor) Thresholds() types.LtvThresholds {
	return m.thresholds
}

// LTV computes total outstanding debt over collateral value. A zero or
// missing collateral value yields a zero ratio.
func LTV(totalOutstanding, collateralValue money.Money) money.Rate {
	if !collateralValue.IsPositive() {
		return money.ZeroRate
	}
	return money.RateFromDecimal(
		totalOutstanding.Decimal().DivRound(collateralValue.Decimal(), money.InternalScale),
	)
}

// Classify maps an LTV ratio onto its band. Bands are half-open intervals
// with strict upper bounds: [0, warning) is healthy, [warning, margin_call)
// is warning, [margin_call, liquidation) is margin call, and anything at or
// above the liquidation threshold liquidates.
func (m Monitor) Classify(ltv money.Rate) types.LtvBand {
	switch {
	case ltv.GreaterThanOrEqual(m.thresholds.Liquidation):
		return types.BandLiquidation
	case ltv.GreaterThanOrEqual(m.thresholds.MarginCall):
		return types.BandMarginCall
	case ltv.GreaterThanOrEqual(m.thresholds.Warning):
		return types.BandWarning
	default:
		return types.BandHealthy
	}
}

// RequiredPayment returns the principal reduction needed to bring the LTV
// back to the target ratio at the current collateral value.
func (m Monitor) RequiredPayment(totalOutstanding, collateralValue money.Money, target money.Rate) money.Money {
	targetDebt := collateralValue.MulRate(target)
	if totalOutstanding.GreaterThan(targetDebt) {
		return totalOutstanding.Sub(targetDebt)
	}
	return money.Zero
}
