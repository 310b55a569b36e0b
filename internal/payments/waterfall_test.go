package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oeo/credit-facility/internal/money"
)

func testBuckets() Buckets {
	return Buckets{
		Fees:      money.FromMajor(50),
		Penalties: money.FromMajor(25),
		Interest:  money.FromMajor(100),
		Principal: money.FromMajor(1_000),
	}
}

func TestWaterfallOrder(t *testing.T) {
	buckets := testBuckets()
	app := ApplyWaterfall(money.FromMajor(125), &buckets)

	// 50 fees, 25 penalties, 50 interest, nothing reaches principal.
	assert.Equal(t, "50.00", app.ToFees.Display())
	assert.Equal(t, "25.00", app.ToPenalties.Display())
	assert.Equal(t, "50.00", app.ToInterest.Display())
	assert.True(t, app.ToPrincipal.IsZero())
	assert.True(t, app.Excess.IsZero())

	assert.True(t, buckets.Fees.IsZero())
	assert.True(t, buckets.Penalties.IsZero())
	assert.Equal(t, "50.00", buckets.Interest.Display())
	assert.Equal(t, "1000.00", buckets.Principal.Display())
}

func TestWaterfallOverpayment(t *testing.T) {
	buckets := testBuckets()
	app := ApplyWaterfall(money.FromMajor(1_300), &buckets)

	assert.Equal(t, "50.00", app.ToFees.Display())
	assert.Equal(t, "25.00", app.ToPenalties.Display())
	assert.Equal(t, "100.00", app.ToInterest.Display())
	assert.Equal(t, "1000.00", app.ToPrincipal.Display())
	assert.Equal(t, "125.00", app.Excess.Display())

	assert.True(t, buckets.TotalOutstanding().IsZero())
}

func TestWaterfallConservation(t *testing.T) {
	// Bucket amounts plus excess must reconstruct the payment exactly,
	// whatever the split.
	amounts := []money.Money{
		money.MustFromString("0.01"),
		money.MustFromString("74.99"),
		money.FromMajor(175),
		money.MustFromString("1175.33"),
		money.FromMajor(5_000),
	}
	for _, amount := range amounts {
		buckets := testBuckets()
		before := buckets.TotalOutstanding()

		app := ApplyWaterfall(amount, &buckets)
		reconstructed := app.TotalApplied().Add(app.Excess)
		assert.True(t, reconstructed.Equal(amount), "payment %s not conserved: %s", amount, reconstructed)

		// What left the buckets equals what was applied.
		assert.True(t, before.Sub(buckets.TotalOutstanding()).Equal(app.TotalApplied()))

		// No bucket ever goes negative.
		assert.False(t, buckets.Fees.IsNegative())
		assert.False(t, buckets.Penalties.IsNegative())
		assert.False(t, buckets.Interest.IsNegative())
		assert.False(t, buckets.Principal.IsNegative())
	}
}

func TestWaterfallEmptyBuckets(t *testing.T) {
	buckets := Buckets{}
	app := ApplyWaterfall(money.FromMajor(100), &buckets)

	assert.True(t, app.TotalApplied().IsZero())
	assert.Equal(t, "100.00", app.Excess.Display())
}
