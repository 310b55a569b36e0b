package facility

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oeo/credit-facility/internal/clock"
	"github.com/oeo/credit-facility/internal/money"
)

func TestJSONReadoutStableFields(t *testing.T) {
	tp := clock.NewTest(anchor())
	f := originate(t, termLoanConfig(10_000, "0.08", 12), tp)
	approveAndDisburse(t, f, money.FromMajor(10_000))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(f.JSON()), &decoded))

	for _, field := range []string{
		"id", "account_id", "customer_id", "status", "kind", "commitment",
		"outstanding_principal", "accrued_interest", "accrued_fees",
		"accrued_penalties", "total_outstanding", "last_accrual",
		"next_payment_due",
	} {
		assert.Contains(t, decoded, field)
	}

	assert.Equal(t, "ACTIVE", decoded["status"])
	assert.Equal(t, "TERM_LOAN", decoded["kind"])
	assert.Equal(t, "10000.00", decoded["outstanding_principal"])
	assert.Equal(t, "10000.00", decoded["total_outstanding"])
	// Unsecured facilities omit the collateral block.
	assert.NotContains(t, decoded, "collateral")
}

func TestJSONReadoutCollateralBlock(t *testing.T) {
	tp := clock.NewTest(anchor())
	f := originate(t, btcConfig(), tp)
	approveAndDisburse(t, f, money.FromMajor(50_000))

	_, err := f.UpdateCollateral(valuation(120_000))
	require.NoError(t, err)

	var decoded struct {
		Collateral struct {
			AssetType    string `json:"asset_type"`
			AssetAmount  string `json:"asset_amount"`
			CurrentValue string `json:"current_value"`
			Ltv          string `json:"ltv"`
			Band         string `json:"band"`
		} `json:"collateral"`
	}
	require.NoError(t, json.Unmarshal([]byte(f.JSON()), &decoded))

	assert.Equal(t, "BTC", decoded.Collateral.AssetType)
	assert.Equal(t, "1", decoded.Collateral.AssetAmount)
	assert.Equal(t, "120000.00", decoded.Collateral.CurrentValue)
	assert.Equal(t, "HEALTHY", decoded.Collateral.Band)
	assert.Equal(t, "0.41666667", decoded.Collateral.Ltv)
}
