package interest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/oeo/credit-facility/internal/money"
	"github.com/oeo/credit-facility/internal/types"
)

func TestEffectiveRate(t *testing.T) {
	engine := NewPenaltyEngine(decimal.NewFromFloat(1.5), 10)
	rate := engine.EffectiveRate(money.RateFromPercent(10))
	assert.Equal(t, "0.15", rate.String())
}

func TestPenaltyStart(t *testing.T) {
	engine := NewPenaltyEngine(decimal.NewFromFloat(2), 10)
	due := date(2024, 3, 1)
	assert.Equal(t, date(2024, 3, 11), engine.PenaltyStart(due))
}

func TestPenaltyAccrual(t *testing.T) {
	accrual := NewAccrualEngine(types.Actual365)
	engine := NewPenaltyEngine(decimal.NewFromFloat(1.5), 0)

	overdue := money.FromMajor(1_000)
	base := money.RateFromPercent(10)

	// 1,000 * 0.15 * 10/365 = 4.109589...
	amount := engine.Accrue(accrual, overdue, base, date(2024, 3, 1), date(2024, 3, 11))
	assert.Equal(t, "4.11", amount.Display())
}

func TestPenaltyZeroCases(t *testing.T) {
	accrual := NewAccrualEngine(types.Actual365)
	engine := NewPenaltyEngine(decimal.NewFromFloat(1.5), 5)

	assert.True(t, engine.Accrue(accrual, money.Zero, money.RateFromPercent(10), date(2024, 3, 1), date(2024, 3, 11)).IsZero())
	assert.True(t, engine.Accrue(accrual, money.FromMajor(100), money.RateFromPercent(10), date(2024, 3, 11), date(2024, 3, 11)).IsZero())

	// Interval ending before it starts accrues nothing.
	assert.True(t, engine.Accrue(accrual, money.FromMajor(100), money.RateFromPercent(10), date(2024, 3, 11), date(2024, 3, 1)).IsZero())
}

func TestPenaltyDoesNotCompoundItself(t *testing.T) {
	// Two consecutive windows on the same overdue base must sum linearly;
	// the penalty bucket never feeds back into the base.
	accrual := NewAccrualEngine(types.Actual365)
	engine := NewPenaltyEngine(decimal.NewFromFloat(1.5), 0)

	overdue := money.FromMajor(1_000)
	base := money.RateFromPercent(10)

	t0 := date(2024, 3, 1)
	t1 := t0.Add(5 * 24 * time.Hour)
	t2 := t0.Add(10 * 24 * time.Hour)

	whole := engine.Accrue(accrual, overdue, base, t0, t2)
	split := engine.Accrue(accrual, overdue, base, t0, t1).
		Add(engine.Accrue(accrual, overdue, base, t1, t2))

	assert.True(t, whole.WithinEpsilon(split, money.Epsilon().Add(money.Epsilon())))
}
