package payments

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oeo/credit-facility/internal/money"
	"github.com/oeo/credit-facility/internal/types"
)

// Entry is one period of an amortization schedule.
type Entry struct {
	Period    int         `json:"period"`
	DueDate   time.Time   `json:"due_date"`
	Principal money.Money `json:"principal"`
	Interest  money.Money `json:"interest"`
	Total     money.Money `json:"total"`
	Remaining money.Money `json:"remaining"`
}

// CalculateEMI computes the equated monthly installment for a principal over
// a number of monthly periods:
//
//	EMI = P * r / (1 - (1+r)^-n)  with  r = annual/12
//
// Zero-rate loans split the principal evenly. The compounding power is
// computed by repeated decimal multiplication so no float enters the money
// path. The result is rounded half-to-even at display scale; schedule
// generation absorbs the rounding drift into the final installment.
func CalculateEMI(principal money.Money, annual money.Rate, months int) money.Money {
	if months <= 0 {
		return principal
	}
	monthly := annual.PerPeriod(12).Decimal()
	if monthly.IsZero() {
		return principal.DivInt(int64(months)).RoundDisplay()
	}

	// (1 + r)^n
	compound := decimal.NewFromInt(1)
	base := decimal.NewFromInt(1).Add(monthly)
	for i := 0; i < months; i++ {
		compound = compound.Mul(base).RoundBank(16)
	}

	numerator := principal.Decimal().Mul(monthly).Mul(compound)
	denominator := compound.Sub(decimal.NewFromInt(1))
	return money.FromDecimal(numerator.DivRound(denominator, money.InternalScale+1)).RoundDisplay()
}

// GenerateSchedule builds the full repayment schedule for a term loan
// starting at the given activation instant. Due dates fall monthly from
// activation, snapped to dayOfMonth when nonzero. The final installment is
// adjusted so the remaining balance reaches exactly zero, absorbing the
// rounding drift of the per-period amounts.
func GenerateSchedule(
	principal money.Money,
	annual money.Rate,
	months int,
	method types.AmortizationMethod,
	start time.Time,
	dayOfMonth int,
) []Entry {
	if months <= 0 || !principal.IsPositive() {
		return nil
	}

	monthlyRate := annual.PerPeriod(12)
	emi := CalculateEMI(principal, annual, months)
	constPrincipal := principal.DivInt(int64(months)).RoundDisplay()

	schedule := make([]Entry, 0, months)
	remaining := principal

	for period := 1; period <= months; period++ {
		due := dueDate(start, period, dayOfMonth)
		interest := remaining.MulRate(monthlyRate).RoundDisplay()

		var principalPart money.Money
		switch method {
		case types.AmortizeDeclining:
			principalPart = constPrincipal
		default:
			principalPart = emi.Sub(interest)
			if principalPart.IsNegative() {
				principalPart = money.Zero
			}
		}

		// Final period clears the balance exactly.
		if period == months || principalPart.GreaterThan(remaining) {
			principalPart = remaining
		}

		remaining = remaining.Sub(principalPart)
		schedule = append(schedule, Entry{
			Period:    period,
			DueDate:   due,
			Principal: principalPart,
			Interest:  interest,
			Total:     principalPart.Add(interest),
			Remaining: remaining,
		})
		if remaining.IsZero() && period < months {
			break
		}
	}

	return schedule
}

// RemainingTerm returns how many scheduled periods remain at the cursor.
func RemainingTerm(schedule []Entry, cursor int) int {
	if cursor >= len(schedule) {
		return 0
	}
	return len(schedule) - cursor
}

// dueDate computes the due instant for a period, snapping to a configured
// day of month when requested. The target month is fixed first so a day-31
// anchor never spills into the following month; days beyond the month's
// length clamp to its final day.
func dueDate(start time.Time, period, dayOfMonth int) time.Time {
	y, m, day := start.Date()
	if dayOfMonth > 0 {
		day = dayOfMonth
	}
	anchor := time.Date(y, m+time.Month(period), 1, 0, 0, 0, 0, time.UTC)
	if last := daysInMonth(anchor.Year(), anchor.Month()); day > last {
		day = last
	}
	return time.Date(anchor.Year(), anchor.Month(), day,
		start.Hour(), start.Minute(), start.Second(), 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
