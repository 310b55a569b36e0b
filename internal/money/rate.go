package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Rate is an exact-decimal annualized fraction, e.g. 0.05 for 5% APR.
type Rate struct {
	value decimal.Decimal
}

// ZeroRate is the zero rate.
var ZeroRate = Rate{value: decimal.Zero}

// RateFromDecimal wraps a raw decimal fraction.
func RateFromDecimal(d decimal.Decimal) Rate {
	return Rate{value: d}
}

// RateFromPercent creates a Rate from a percentage, e.g. RateFromPercent(5) is 0.05.
func RateFromPercent(p int64) Rate {
	return Rate{value: decimal.NewFromInt(p).Div(decimal.NewFromInt(100))}
}

// RateFromString parses a decimal fraction string, e.g. "0.08".
func RateFromString(s string) (Rate, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Rate{}, fmt.Errorf("invalid rate %q: %w", s, err)
	}
	return Rate{value: d}, nil
}

// MustRateFromString parses a rate string and panics on error. Intended for
// test and package-level initialization only.
func MustRateFromString(s string) Rate {
	r, err := RateFromString(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Decimal returns the underlying decimal fraction.
func (r Rate) Decimal() decimal.Decimal { return r.value }

// IsZero reports whether the rate is exactly zero.
func (r Rate) IsZero() bool { return r.value.IsZero() }

// IsNegative reports whether the rate is below zero.
func (r Rate) IsNegative() bool { return r.value.IsNegative() }

// MulDecimal scales the rate by an arbitrary decimal factor.
func (r Rate) MulDecimal(d decimal.Decimal) Rate {
	return Rate{value: r.value.Mul(d)}
}

// PerPeriod divides the annual rate into n periods, e.g. PerPeriod(12) for a
// monthly rate.
func (r Rate) PerPeriod(n int64) Rate {
	return Rate{value: r.value.Div(decimal.NewFromInt(n))}
}

// Daily returns the rate for a single day under the given year basis.
func (r Rate) Daily(basis int64) Rate {
	return r.PerPeriod(basis)
}

// Cmp compares r with other: -1 if r < other, 0 if equal, +1 if r > other.
func (r Rate) Cmp(other Rate) int { return r.value.Cmp(other.value) }

// LessThan reports r < other.
func (r Rate) LessThan(other Rate) bool { return r.value.LessThan(other.value) }

// GreaterThanOrEqual reports r >= other.
func (r Rate) GreaterThanOrEqual(other Rate) bool { return r.value.GreaterThanOrEqual(other.value) }

// String renders the rate as a decimal fraction.
func (r Rate) String() string { return r.value.String() }

// MarshalJSON renders the rate as a JSON string.
func (r Rate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.value.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON string or bare number.
func (r *Rate) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	r.value = d
	return nil
}
