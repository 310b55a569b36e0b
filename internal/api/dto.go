package api

import (
	"github.com/shopspring/decimal"

	"github.com/oeo/credit-facility/internal/facility"
	"github.com/oeo/credit-facility/internal/money"
	"github.com/oeo/credit-facility/internal/types"
)

// CreateFacilityRequest is the API shape for originating a facility. Decimal
// amounts travel as strings; no float ever touches the money path.
type CreateFacilityRequest struct {
	AccountID  string `json:"account_id" binding:"required"`
	CustomerID string `json:"customer_id" binding:"required"`
	Commitment string `json:"commitment" binding:"required"`

	Kind         string `json:"kind" binding:"required"`
	TermMonths   int    `json:"term_months,omitempty"`
	Amortization string `json:"amortization,omitempty"`
	CreditLimit  string `json:"credit_limit,omitempty"`
	BufferZone   string `json:"buffer_zone,omitempty"`
	DailyFee     string `json:"daily_fee,omitempty"`

	Rate              string `json:"rate"`
	DayCount          string `json:"day_count,omitempty"`
	Compounding       string `json:"compounding,omitempty"`
	PenaltyMultiplier string `json:"penalty_multiplier,omitempty"`
	GracePeriodDays   int    `json:"grace_period_days,omitempty"`

	Overpayment         string `json:"overpayment,omitempty"`
	ScheduledDayOfMonth int    `json:"scheduled_day_of_month,omitempty"`

	OriginationFee string `json:"origination_fee,omitempty"`
	LateFee        string `json:"late_fee,omitempty"`

	Collateral *CollateralRequest `json:"collateral,omitempty"`
}

// CollateralRequest configures a secured facility.
type CollateralRequest struct {
	AssetType      string `json:"asset_type" binding:"required"`
	InitialLtv     string `json:"initial_ltv" binding:"required"`
	WarningLtv     string `json:"warning_ltv" binding:"required"`
	MarginCallLtv  string `json:"margin_call_ltv" binding:"required"`
	LiquidationLtv string `json:"liquidation_ltv" binding:"required"`
}

// AmountRequest carries a single decimal amount.
type AmountRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// ValuationRequest carries a collateral revaluation.
type ValuationRequest struct {
	AssetAmount  string `json:"asset_amount" binding:"required"`
	CurrentValue string `json:"current_value" binding:"required"`
	Source       string `json:"source,omitempty"`
}

// toConfig translates the request into an engine configuration. Validation
// of the business invariants is left to Config.Validate.
func (r CreateFacilityRequest) toConfig() (facility.Config, error) {
	commitment, err := money.FromString(r.Commitment)
	if err != nil {
		return facility.Config{}, err
	}

	rate := money.ZeroRate
	if r.Rate != "" {
		if rate, err = money.RateFromString(r.Rate); err != nil {
			return facility.Config{}, err
		}
	}

	var kind facility.Kind
	switch facility.KindType(r.Kind) {
	case facility.KindTermLoan:
		method := types.AmortizationMethod(r.Amortization)
		if method == "" {
			method = types.AmortizeEqualInstallment
		}
		kind = facility.TermLoan(r.TermMonths, method)
	case facility.KindRevolving:
		limit, err := money.FromString(r.CreditLimit)
		if err != nil {
			return facility.Config{}, err
		}
		kind = facility.Revolving(limit)
	case facility.KindOpenTerm:
		kind = facility.OpenTerm()
	case facility.KindOverdraft:
		buffer, err := optionalMoney(r.BufferZone)
		if err != nil {
			return facility.Config{}, err
		}
		fee, err := optionalMoney(r.DailyFee)
		if err != nil {
			return facility.Config{}, err
		}
		kind = facility.Overdraft(buffer, fee)
	default:
		kind = facility.Kind{Type: facility.KindType(r.Kind)}
	}

	dayCount := types.DayCount(r.DayCount)
	if dayCount == "" {
		dayCount = types.Actual365
	}
	compounding := types.Compounding(r.Compounding)
	if compounding == "" {
		compounding = types.CompoundDaily
	}

	interestCfg := facility.InterestConfig{
		DayCount:    dayCount,
		Compounding: compounding,
		BaseRate:    rate,
	}
	if r.PenaltyMultiplier != "" {
		multiplier, err := decimal.NewFromString(r.PenaltyMultiplier)
		if err != nil {
			return facility.Config{}, err
		}
		interestCfg.Penalty = &facility.PenaltyConfig{
			RateMultiplier:  multiplier,
			GracePeriodDays: r.GracePeriodDays,
		}
	}

	overpayment := types.OverpaymentStrategy(r.Overpayment)
	if overpayment == "" {
		overpayment = types.OverpayRefund
	}

	originationFee, err := optionalMoney(r.OriginationFee)
	if err != nil {
		return facility.Config{}, err
	}
	lateFee, err := optionalMoney(r.LateFee)
	if err != nil {
		return facility.Config{}, err
	}

	cfg := facility.Config{
		Commitment: commitment,
		Kind:       kind,
		Interest:   interestCfg,
		Payment: facility.PaymentConfig{
			Overpayment:         overpayment,
			ScheduledDayOfMonth: r.ScheduledDayOfMonth,
		},
		Fees: facility.FeeConfig{
			OriginationFee: originationFee,
			LateFee:        lateFee,
		},
	}

	if r.Collateral != nil {
		thresholds, err := r.Collateral.thresholds()
		if err != nil {
			return facility.Config{}, err
		}
		cfg.Collateral = &facility.CollateralConfig{
			AssetType:     r.Collateral.AssetType,
			LtvThresholds: thresholds,
		}
	}

	return cfg, nil
}

func (r CollateralRequest) thresholds() (types.LtvThresholds, error) {
	var t types.LtvThresholds
	var err error
	if t.Initial, err = money.RateFromString(r.InitialLtv); err != nil {
		return t, err
	}
	if t.Warning, err = money.RateFromString(r.WarningLtv); err != nil {
		return t, err
	}
	if t.MarginCall, err = money.RateFromString(r.MarginCallLtv); err != nil {
		return t, err
	}
	if t.Liquidation, err = money.RateFromString(r.LiquidationLtv); err != nil {
		return t, err
	}
	return t, nil
}

func optionalMoney(s string) (money.Money, error) {
	if s == "" {
		return money.Zero, nil
	}
	return money.FromString(s)
}
