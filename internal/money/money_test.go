package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMajorAndMinor(t *testing.T) {
	assert.Equal(t, "100", FromMajor(100).String())
	assert.Equal(t, "123.45", FromMinor(12345).String())
	assert.Equal(t, "-0.05", FromMinor(-5).String())
}

func TestFromString(t *testing.T) {
	m, err := FromString("1234.5678")
	require.NoError(t, err)
	assert.Equal(t, "1234.5678", m.String())

	_, err = FromString("not-a-number")
	assert.Error(t, err)
}

func TestArithmetic(t *testing.T) {
	a := FromMajor(100)
	b := MustFromString("0.25")

	assert.Equal(t, "100.25", a.Add(b).String())
	assert.Equal(t, "99.75", a.Sub(b).String())
	assert.Equal(t, "-100", a.Neg().String())
}

func TestMulRateRoundsHalfToEven(t *testing.T) {
	// 1 * 0.000000125 = 0.000000125, which is exactly halfway at scale 8;
	// banker's rounding goes to the even neighbour 0.00000012.
	m := FromMajor(1).MulRate(MustRateFromString("0.000000125"))
	assert.Equal(t, "0.00000012", m.String())

	// The next halfway case rounds up to the even neighbour 0.00000024.
	m = FromMajor(1).MulRate(MustRateFromString("0.000000235"))
	assert.Equal(t, "0.00000024", m.String())
}

func TestDivisionRounding(t *testing.T) {
	third := FromMajor(100).DivInt(3)
	assert.Equal(t, "33.33333333", third.String())

	// 1200 / 12 stays exact.
	assert.Equal(t, "100", FromMajor(1200).DivInt(12).String())
}

func TestComparisons(t *testing.T) {
	a := FromMajor(10)
	b := FromMajor(20)

	assert.True(t, a.LessThan(b))
	assert.True(t, b.GreaterThan(a))
	assert.Equal(t, a, a.Min(b))
	assert.Equal(t, b, a.Max(b))
	assert.True(t, Zero.IsZero())
	assert.True(t, a.Sub(b).IsNegative())
}

func TestAbsDiffAndEpsilon(t *testing.T) {
	a := MustFromString("100.00000001")
	b := FromMajor(100)

	assert.Equal(t, "0.00000001", a.AbsDiff(b).String())
	assert.False(t, a.WithinEpsilon(b, Epsilon()))
	assert.True(t, a.WithinEpsilon(a, Epsilon()))
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "41.10", MustFromString("41.0958904").Display())
	assert.Equal(t, "100.00", FromMajor(100).Display())
	// Display rounding is also half-to-even.
	assert.Equal(t, "2.44", MustFromString("2.445").Display())
}

func TestJSONRoundTrip(t *testing.T) {
	m := MustFromString("869.88")
	data, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"869.88"`, string(data))

	var back Money
	require.NoError(t, back.UnmarshalJSON(data))
	assert.True(t, m.Equal(back))
}

func TestRateHelpers(t *testing.T) {
	r := RateFromPercent(5)
	assert.Equal(t, "0.05", r.String())

	monthly := r.PerPeriod(12)
	assert.True(t, monthly.Decimal().Sub(decimal.RequireFromString("0.0041666667")).Abs().
		LessThan(decimal.RequireFromString("0.000000001")))

	daily := r.Daily(365)
	assert.True(t, daily.Decimal().IsPositive())
	assert.True(t, ZeroRate.IsZero())
	assert.True(t, MustRateFromString("-0.01").IsNegative())
}
