package facility

import (
	"github.com/shopspring/decimal"

	"github.com/oeo/credit-facility/internal/money"
	"github.com/oeo/credit-facility/internal/types"
)

// KindType discriminates the four product families.
type KindType string

const (
	KindTermLoan  KindType = "TERM_LOAN"
	KindRevolving KindType = "REVOLVING"
	KindOpenTerm  KindType = "OPEN_TERM"
	KindOverdraft KindType = "OVERDRAFT"
)

// Kind is the tagged product variant. Only the fields of the active type are
// meaningful; the dispatch surface is limited to schedule generation, limit
// checks and disbursement policy.
type Kind struct {
	Type KindType `json:"type"`

	// Term loan
	TermMonths   int                      `json:"term_months,omitempty"`
	Amortization types.AmortizationMethod `json:"amortization,omitempty"`

	// Revolving
	CreditLimit money.Money `json:"credit_limit,omitempty"`

	// Overdraft
	BufferZone money.Money `json:"buffer_zone,omitempty"`
	DailyFee   money.Money `json:"daily_fee,omitempty"`
}

// TermLoan builds a term-loan kind.
func TermLoan(termMonths int, amortization types.AmortizationMethod) Kind {
	return Kind{Type: KindTermLoan, TermMonths: termMonths, Amortization: amortization}
}

// Revolving builds a revolving-credit kind.
func Revolving(creditLimit money.Money) Kind {
	return Kind{Type: KindRevolving, CreditLimit: creditLimit}
}

// OpenTerm builds an open-term collateralized kind.
func OpenTerm() Kind {
	return Kind{Type: KindOpenTerm}
}

// Overdraft builds an overdraft kind with a fee-free buffer zone.
func Overdraft(bufferZone, dailyFee money.Money) Kind {
	return Kind{Type: KindOverdraft, BufferZone: bufferZone, DailyFee: dailyFee}
}

// Scheduled reports whether the kind carries a repayment schedule.
func (k Kind) Scheduled() bool {
	return k.Type == KindTermLoan
}

// PenaltyConfig enables penalty interest on overdue scheduled amounts.
type PenaltyConfig struct {
	// RateMultiplier scales the base rate, e.g. 1.5 for time-and-a-half.
	RateMultiplier decimal.Decimal `json:"rate_multiplier"`
	// GracePeriodDays is the penalty-free window after a missed due date.
	GracePeriodDays int `json:"grace_period_days"`
}

// InterestConfig governs how time becomes accrued interest.
type InterestConfig struct {
	DayCount    types.DayCount    `json:"day_count"`
	Compounding types.Compounding `json:"compounding"`
	BaseRate    money.Rate        `json:"base_rate"`
	Penalty     *PenaltyConfig    `json:"penalty,omitempty"`
}

// GraceDays returns the configured grace period, zero when no penalty
// configuration is present.
func (c InterestConfig) GraceDays() int {
	if c.Penalty == nil {
		return 0
	}
	return c.Penalty.GracePeriodDays
}

// PaymentConfig governs payment application.
type PaymentConfig struct {
	Overpayment         types.OverpaymentStrategy `json:"overpayment"`
	ScheduledDayOfMonth int                       `json:"scheduled_day_of_month,omitempty"`
}

// CollateralConfig makes a facility secured.
type CollateralConfig struct {
	AssetType     string              `json:"asset_type"`
	LtvThresholds types.LtvThresholds `json:"ltv_thresholds"`
}

// FeeConfig holds the flat fees a facility may charge.
type FeeConfig struct {
	OriginationFee money.Money `json:"origination_fee,omitempty"`
	LateFee        money.Money `json:"late_fee,omitempty"`
}

// Config is the immutable parameter set of a facility. It is validated once
// at build time and never mutated afterwards.
type Config struct {
	Commitment money.Money       `json:"commitment"`
	Kind       Kind              `json:"kind"`
	Interest   InterestConfig    `json:"interest"`
	Payment    PaymentConfig     `json:"payment"`
	Collateral *CollateralConfig `json:"collateral,omitempty"`
	Fees       FeeConfig         `json:"fees,omitempty"`
}

// Validate checks the configuration invariants and returns an
// INVALID_CONFIG error naming the offending field.
func (c Config) Validate() error {
	if !c.Commitment.IsPositive() {
		return invalidConfig("commitment", "must be positive")
	}
	if c.Interest.BaseRate.IsNegative() {
		return invalidConfig("interest.base_rate", "must not be negative")
	}
	switch c.Interest.DayCount {
	case types.Actual365, types.Actual360, types.Thirty360:
	default:
		return invalidConfig("interest.day_count", "unknown day-count convention")
	}
	switch c.Interest.Compounding {
	case types.CompoundDaily, types.CompoundMonthly:
	default:
		return invalidConfig("interest.compounding", "unknown compounding frequency")
	}
	if p := c.Interest.Penalty; p != nil {
		if p.RateMultiplier.IsNegative() {
			return invalidConfig("interest.penalty.rate_multiplier", "must not be negative")
		}
		if p.GracePeriodDays < 0 {
			return invalidConfig("interest.penalty.grace_period_days", "must not be negative")
		}
	}

	switch c.Kind.Type {
	case KindTermLoan:
		if c.Kind.TermMonths < 1 {
			return invalidConfig("kind.term_months", "must be at least 1")
		}
		switch c.Kind.Amortization {
		case types.AmortizeDeclining, types.AmortizeEqualInstallment:
		default:
			return invalidConfig("kind.amortization", "unknown amortization method")
		}
	case KindRevolving:
		if !c.Kind.CreditLimit.IsPositive() {
			return invalidConfig("kind.credit_limit", "must be positive")
		}
	case KindOpenTerm:
	case KindOverdraft:
		if c.Kind.BufferZone.IsNegative() {
			return invalidConfig("kind.buffer_zone", "must not be negative")
		}
		if c.Kind.DailyFee.IsNegative() {
			return invalidConfig("kind.daily_fee", "must not be negative")
		}
	default:
		return invalidConfig("kind.type", "unknown facility kind")
	}

	switch c.Payment.Overpayment {
	case types.OverpayReduceTerm, types.OverpayReducePayment, types.OverpayRefund:
	default:
		return invalidConfig("payment.overpayment", "unknown overpayment strategy")
	}
	if d := c.Payment.ScheduledDayOfMonth; d < 0 || d > 31 {
		return invalidConfig("payment.scheduled_day_of_month", "must be between 1 and 31")
	}

	if col := c.Collateral; col != nil {
		if col.AssetType == "" {
			return invalidConfig("collateral.asset_type", "must not be empty")
		}
		t := col.LtvThresholds
		ordered := t.Initial.LessThan(t.Warning) &&
			t.Warning.LessThan(t.MarginCall) &&
			t.MarginCall.LessThan(t.Liquidation)
		if !ordered {
			return invalidConfig("collateral.ltv_thresholds", "must be strictly ordered initial < warning < margin_call < liquidation")
		}
	}

	if c.Fees.OriginationFee.IsNegative() {
		return invalidConfig("fees.origination_fee", "must not be negative")
	}
	if c.Fees.LateFee.IsNegative() {
		return invalidConfig("fees.late_fee", "must not be negative")
	}

	return nil
}

// Secured reports whether the facility carries collateral configuration.
func (c Config) Secured() bool {
	return c.Collateral != nil
}
