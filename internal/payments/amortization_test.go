package payments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oeo/credit-facility/internal/money"
	"github.com/oeo/credit-facility/internal/types"
)

func start() time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
}

func TestCalculateEMITwelveMonthsEightPercent(t *testing.T) {
	emi := CalculateEMI(money.FromMajor(10_000), money.MustRateFromString("0.08"), 12)
	assert.Equal(t, "869.88", emi.String())
}

func TestCalculateEMIZeroRate(t *testing.T) {
	emi := CalculateEMI(money.FromMajor(1_200), money.ZeroRate, 12)
	assert.Equal(t, "100.00", emi.Display())
}

func TestCalculateEMIThirtyYearMortgage(t *testing.T) {
	// $100,000 at 5% for 360 months is approximately $536.82.
	emi := CalculateEMI(money.FromMajor(100_000), money.MustRateFromString("0.05"), 360)
	assert.True(t, emi.AbsDiff(money.MustFromString("536.82")).LessThan(money.MustFromString("0.02")),
		"expected about 536.82, got %s", emi)
}

func TestGenerateScheduleEqualInstallment(t *testing.T) {
	principal := money.FromMajor(10_000)
	schedule := GenerateSchedule(principal, money.MustRateFromString("0.08"), 12,
		types.AmortizeEqualInstallment, start(), 0)

	require.Len(t, schedule, 12)

	first := schedule[0]
	assert.Equal(t, 1, first.Period)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), first.DueDate)
	// First month interest: 10,000 * 0.08/12 = 66.67
	assert.Equal(t, "66.67", first.Interest.Display())

	// Balance reaches exactly zero and principal parts sum to the loan.
	last := schedule[len(schedule)-1]
	assert.True(t, last.Remaining.IsZero(), "final remaining should be zero, got %s", last.Remaining)

	totalPrincipal := money.Zero
	for _, entry := range schedule {
		totalPrincipal = totalPrincipal.Add(entry.Principal)
	}
	assert.True(t, totalPrincipal.Equal(principal))
}

func TestGenerateScheduleZeroRate(t *testing.T) {
	schedule := GenerateSchedule(money.FromMajor(1_200), money.ZeroRate, 12,
		types.AmortizeEqualInstallment, start(), 0)

	require.Len(t, schedule, 12)
	for _, entry := range schedule {
		assert.Equal(t, "100.00", entry.Principal.Display())
		assert.True(t, entry.Interest.IsZero())
	}
	assert.True(t, schedule[11].Remaining.IsZero())
}

func TestGenerateScheduleDeclining(t *testing.T) {
	principal := money.FromMajor(12_000)
	schedule := GenerateSchedule(principal, money.MustRateFromString("0.10"), 12,
		types.AmortizeDeclining, start(), 0)

	require.Len(t, schedule, 12)

	// Constant principal, interest declining on the remainder.
	assert.Equal(t, "1000.00", schedule[0].Principal.Display())
	assert.Equal(t, "100.00", schedule[0].Interest.Display())
	assert.Equal(t, "91.67", schedule[1].Interest.Display())
	assert.True(t, schedule[0].Total.GreaterThan(schedule[11].Total))
	assert.True(t, schedule[11].Remaining.IsZero())
}

func TestGenerateScheduleFinalPaymentAbsorbsDrift(t *testing.T) {
	// A principal that does not divide evenly: the final installment picks
	// up the rounding drift so totals reconcile within a cent-level epsilon.
	principal := money.MustFromString("999.99")
	schedule := GenerateSchedule(principal, money.MustRateFromString("0.07"), 7,
		types.AmortizeEqualInstallment, start(), 0)

	require.Len(t, schedule, 7)
	assert.True(t, schedule[6].Remaining.IsZero())

	totalPrincipal := money.Zero
	for _, entry := range schedule {
		totalPrincipal = totalPrincipal.Add(entry.Principal)
	}
	assert.True(t, totalPrincipal.Equal(principal))
}

func TestGenerateScheduleDayOfMonthSnap(t *testing.T) {
	schedule := GenerateSchedule(money.FromMajor(1_000), money.ZeroRate, 3,
		types.AmortizeEqualInstallment, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), 31)

	require.Len(t, schedule, 3)
	// February clamps to its final day.
	assert.Equal(t, 28, schedule[0].DueDate.Day())
	assert.Equal(t, 31, schedule[1].DueDate.Day())
}

func TestGenerateScheduleRejectsDegenerateInput(t *testing.T) {
	assert.Nil(t, GenerateSchedule(money.FromMajor(100), money.ZeroRate, 0, types.AmortizeEqualInstallment, start(), 0))
	assert.Nil(t, GenerateSchedule(money.Zero, money.ZeroRate, 12, types.AmortizeEqualInstallment, start(), 0))
}

func TestRemainingTerm(t *testing.T) {
	schedule := GenerateSchedule(money.FromMajor(1_200), money.ZeroRate, 12,
		types.AmortizeEqualInstallment, start(), 0)

	assert.Equal(t, 12, RemainingTerm(schedule, 0))
	assert.Equal(t, 5, RemainingTerm(schedule, 7))
	assert.Equal(t, 0, RemainingTerm(schedule, 12))
}
