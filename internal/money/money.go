package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InternalScale is the number of fractional digits carried by all monetary
// arithmetic. Display values are rounded to DisplayScale.
const (
	InternalScale int32 = 8
	DisplayScale  int32 = 2
)

// Money is an immutable exact-decimal monetary amount. All multiplicative
// operations round half-to-even at InternalScale; no floats are involved at
// any point.
type Money struct {
	amount decimal.Decimal
}

// Zero is the zero monetary amount.
var Zero = Money{amount: decimal.Zero}

// FromMajor creates a Money from whole currency units, e.g. FromMajor(100) is 100.00.
func FromMajor(n int64) Money {
	return Money{amount: decimal.NewFromInt(n)}
}

// FromMinor creates a Money from minor units at DisplayScale, e.g. FromMinor(12345) is 123.45.
func FromMinor(n int64) Money {
	return Money{amount: decimal.New(n, -DisplayScale)}
}

// FromString parses a decimal amount string.
func FromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{amount: d}, nil
}

// MustFromString parses a decimal amount string and panics on error. Intended
// for test and package-level initialization only.
func MustFromString(s string) Money {
	m, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// FromDecimal wraps a raw decimal, rounding half-to-even at InternalScale.
func FromDecimal(d decimal.Decimal) Money {
	return Money{amount: d.RoundBank(InternalScale)}
}

// Decimal returns the underlying decimal amount.
func (m Money) Decimal() decimal.Decimal { return m.amount }

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns m - other. The result may be negative; callers in unsigned
// contexts must enforce their own floor.
func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg()}
}

// MulRate returns m scaled by a rate, rounded half-to-even at InternalScale.
func (m Money) MulRate(r Rate) Money {
	return Money{amount: m.amount.Mul(r.value).RoundBank(InternalScale)}
}

// MulDecimal returns m scaled by an arbitrary decimal factor, rounded
// half-to-even at InternalScale.
func (m Money) MulDecimal(d decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(d).RoundBank(InternalScale)}
}

// DivDecimal returns m divided by an arbitrary decimal divisor, rounded
// half-to-even at InternalScale.
func (m Money) DivDecimal(d decimal.Decimal) Money {
	q, r := m.amount.QuoRem(d, InternalScale)
	// Compare twice the remainder, scaled to units of the last place, with
	// the divisor to decide the rounding direction.
	c := r.Abs().Mul(decimal.New(2, InternalScale)).Cmp(d.Abs())
	odd := !q.Shift(InternalScale).Mod(decimal.NewFromInt(2)).IsZero()
	if c > 0 || (c == 0 && odd) {
		unit := decimal.New(1, -InternalScale)
		if m.amount.Sign()*d.Sign() < 0 {
			return Money{amount: q.Sub(unit)}
		}
		return Money{amount: q.Add(unit)}
	}
	return Money{amount: q}
}

// DivInt returns m divided by an integer divisor.
func (m Money) DivInt(n int64) Money {
	return m.DivDecimal(decimal.NewFromInt(n))
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool { return m.amount.IsZero() }

// IsNegative reports whether the amount is strictly below zero.
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// IsPositive reports whether the amount is strictly above zero.
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// Cmp compares m with other: -1 if m < other, 0 if equal, +1 if m > other.
func (m Money) Cmp(other Money) int { return m.amount.Cmp(other.amount) }

// LessThan reports m < other.
func (m Money) LessThan(other Money) bool { return m.amount.LessThan(other.amount) }

// LessThanOrEqual reports m <= other.
func (m Money) LessThanOrEqual(other Money) bool { return m.amount.LessThanOrEqual(other.amount) }

// GreaterThan reports m > other.
func (m Money) GreaterThan(other Money) bool { return m.amount.GreaterThan(other.amount) }

// Equal reports exact equality of amounts.
func (m Money) Equal(other Money) bool { return m.amount.Equal(other.amount) }

// Min returns the smaller of m and other.
func (m Money) Min(other Money) Money {
	if m.amount.LessThan(other.amount) {
		return m
	}
	return other
}

// Max returns the larger of m and other.
func (m Money) Max(other Money) Money {
	if m.amount.GreaterThan(other.amount) {
		return m
	}
	return other
}

// AbsDiff returns |m - other|, used for settlement epsilon checks.
func (m Money) AbsDiff(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount).Abs()}
}

// WithinEpsilon reports whether |m - other| < eps.
func (m Money) WithinEpsilon(other, eps Money) bool {
	return m.AbsDiff(other).LessThan(eps)
}

// RoundDisplay rounds half-to-even to DisplayScale.
func (m Money) RoundDisplay() Money {
	return Money{amount: m.amount.RoundBank(DisplayScale)}
}

// Display renders the amount at DisplayScale, e.g. "123.45".
func (m Money) Display() string {
	return m.amount.RoundBank(DisplayScale).StringFixed(DisplayScale)
}

// String renders the exact internal amount.
func (m Money) String() string { return m.amount.String() }

// MarshalJSON renders the exact internal amount as a JSON string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.amount.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON string or bare number.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	m.amount = d
	return nil
}

// Epsilon returns one unit at the internal scale, the tolerance used by
// settlement and accrual-sum checks.
func Epsilon() Money {
	return Money{amount: decimal.New(1, -InternalScale)}
}
