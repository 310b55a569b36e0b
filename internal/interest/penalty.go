package interest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oeo/credit-facility/internal/money"
)

// PenaltyEngine accrues penalty interest on the overdue portion of a missed
// scheduled payment. Penalties accumulate in their own bucket and do not
// themselves accrue penalty.
type PenaltyEngine struct {
	// Multiplier scales the base rate, e.g. 1.5 for time-and-a-half.
	Multiplier decimal.Decimal
	// GraceDays is the window after a missed due date during which no
	// penalty accrues.
	GraceDays int
}

// NewPenaltyEngine creates a penalty engine.
func NewPenaltyEngine(multiplier decimal.Decimal, graceDays int) PenaltyEngine {
	return PenaltyEngine{Multiplier: multiplier, GraceDays: graceDays}
}

// EffectiveRate returns the penalty rate derived from the base rate.
func (e PenaltyEngine) EffectiveRate(base money.Rate) money.Rate {
	return base.MulDecimal(e.Multiplier)
}

// PenaltyStart returns the instant penalty accrual begins for a payment due
// at the given time.
func (e PenaltyEngine) PenaltyStart(due time.Time) time.Time {
	return due.Add(time.Duration(e.GraceDays) * 24 * time.Hour)
}

// Accrue computes penalty interest on the overdue amount over [start, end]
// using the same day-count arithmetic as base accrual. Intervals before the
// penalty start are clipped to zero by the caller.
func (e PenaltyEngine) Accrue(engine AccrualEngine, overdue money.Money, base money.Rate, start, end time.Time) money.Money {
	if overdue.IsZero() || !end.After(start) {
		return money.Zero
	}
	return engine.Interest(overdue, e.EffectiveRate(base), start, end)
}
