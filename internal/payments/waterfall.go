package payments

import (
	"github.com/oeo/credit-facility/internal/money"
	"github.com/oeo/credit-facility/internal/types"
)

// Buckets holds the four owed balances a payment can be applied against, in
// waterfall order.
type Buckets struct {
	Fees      money.Money
	Penalties money.Money
	Interest  money.Money
	Principal money.Money
}

// TotalOutstanding returns the sum of all buckets.
func (b Buckets) TotalOutstanding() money.Money {
	return b.Fees.Add(b.Penalties).Add(b.Interest).Add(b.Principal)
}

// ApplyWaterfall consumes the amount against the buckets in strict order
// fees -> penalties -> interest -> principal and returns the application.
// Whatever is left after principal lands in Excess, so the bucket amounts
// plus Excess always reconstruct the paid amount exactly. No bucket ever goes
// below zero.
func ApplyWaterfall(amount money.Money, b *Buckets) types.PaymentApplication {
	remaining := amount
	app := types.PaymentApplication{}

	app.ToFees, remaining = drain(remaining, &b.Fees)
	app.ToPenalties, remaining = drain(remaining, &b.Penalties)
	app.ToInterest, remaining = drain(remaining, &b.Interest)
	app.ToPrincipal, remaining = drain(remaining, &b.Principal)
	app.Excess = remaining

	return app
}

// drain moves min(available, *bucket) out of the bucket and returns the
// applied amount and what is left of the payment.
func drain(available money.Money, bucket *money.Money) (money.Money, money.Money) {
	applied := available.Min(*bucket)
	*bucket = bucket.Sub(applied)
	return applied, available.Sub(applied)
}
