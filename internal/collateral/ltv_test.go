package collateral

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oeo/credit-facility/internal/money"
	"github.com/oeo/credit-facility/internal/types"
)

func thresholds() types.LtvThresholds {
	return types.LtvThresholds{
		Initial:     money.MustRateFromString("0.50"),
		Warning:     money.MustRateFromString("0.60"),
		MarginCall:  money.MustRateFromString("0.70"),
		Liquidation: money.MustRateFromString("0.75"),
	}
}

func TestLTVComputation(t *testing.T) {
	ltv := LTV(money.FromMajor(50_000), money.FromMajor(120_000))
	assert.Equal(t, "0.41666667", ltv.String())

	assert.True(t, LTV(money.FromMajor(50_000), money.Zero).IsZero())
	assert.True(t, LTV(money.Zero, money.FromMajor(100)).IsZero())
}

func TestClassifyBands(t *testing.T) {
	monitor := NewMonitor(thresholds())

	cases := []struct {
		ltv  string
		band types.LtvBand
	}{
		{"0", types.BandHealthy},
		{"0.41", types.BandHealthy},
		{"0.5999", types.BandHealthy},
		{"0.60", types.BandWarning}, // band entry is inclusive of the threshold
		{"0.63", types.BandWarning},
		{"0.6999", types.BandWarning},
		{"0.70", types.BandMarginCall},
		{"0.71", types.BandMarginCall},
		{"0.75", types.BandLiquidation},
		{"0.99", types.BandLiquidation},
		{"1.50", types.BandLiquidation},
	}
	for _, tc := range cases {
		band := monitor.Classify(money.MustRateFromString(tc.ltv))
		assert.Equal(t, tc.band, band, "ltv %s", tc.ltv)
	}
}

func TestRequiredPayment(t *testing.T) {
	monitor := NewMonitor(thresholds())

	// Debt 80k on 100k collateral, target 0.5 => pay down to 50k.
	payment := monitor.RequiredPayment(money.FromMajor(80_000), money.FromMajor(100_000), money.MustRateFromString("0.50"))
	assert.Equal(t, "30000.00", payment.Display())

	// Already under target.
	payment = monitor.RequiredPayment(money.FromMajor(40_000), money.FromMajor(100_000), money.MustRateFromString("0.50"))
	assert.True(t, payment.IsZero())
}
