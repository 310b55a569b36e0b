package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oeo/credit-facility/internal/money"
)

// FacilityStatus is the lifecycle state of a facility.
type FacilityStatus string

const (
	// StatusOriginated means the facility exists but is not yet approved.
	StatusOriginated FacilityStatus = "ORIGINATED"
	// StatusActive means the facility is approved and performing.
	StatusActive FacilityStatus = "ACTIVE"
	// StatusGracePeriod means a payment is missed but still within grace.
	StatusGracePeriod FacilityStatus = "GRACE_PERIOD"
	// StatusDelinquent means a payment is overdue past the grace period.
	StatusDelinquent FacilityStatus = "DELINQUENT"
	// StatusLiquidating means collateral liquidation is in progress.
	StatusLiquidating FacilityStatus = "LIQUIDATING"
	// StatusSettled means all balances reached zero; terminal.
	StatusSettled FacilityStatus = "SETTLED"
	// StatusCancelled means the facility was denied before activation; terminal.
	StatusCancelled FacilityStatus = "CANCELLED"
)

// Terminal reports whether the status admits no further mutation.
func (s FacilityStatus) Terminal() bool {
	return s == StatusSettled || s == StatusCancelled
}

// AcceptsPayment reports whether payments may be applied in this status.
func (s FacilityStatus) AcceptsPayment() bool {
	switch s {
	case StatusActive, StatusGracePeriod, StatusDelinquent:
		return true
	}
	return false
}

// DayCount is the convention converting elapsed time into a year fraction.
type DayCount string

const (
	Actual365 DayCount = "ACTUAL_365"
	Actual360 DayCount = "ACTUAL_360"
	Thirty360 DayCount = "THIRTY_360"
)

// Compounding selects when accrued interest is posted.
type Compounding string

const (
	CompoundDaily   Compounding = "DAILY"
	CompoundMonthly Compounding = "MONTHLY"
)

// AmortizationMethod selects how term-loan schedules are built.
type AmortizationMethod string

const (
	// AmortizeDeclining pays constant principal plus interest on the remainder.
	AmortizeDeclining AmortizationMethod = "DECLINING"
	// AmortizeEqualInstallment pays a constant combined amount (EMI).
	AmortizeEqualInstallment AmortizationMethod = "EQUAL_INSTALLMENT"
)

// OverpaymentStrategy selects what happens to payment excess beyond all buckets.
type OverpaymentStrategy string

const (
	// OverpayReduceTerm applies excess to principal, shortening the schedule.
	OverpayReduceTerm OverpaymentStrategy = "REDUCE_TERM"
	// OverpayReducePayment recomputes the installment over the unchanged term.
	OverpayReducePayment OverpaymentStrategy = "REDUCE_PAYMENT"
	// OverpayRefund returns the excess to the payer.
	OverpayRefund OverpaymentStrategy = "REFUND"
)

// PaymentApplication records how a single payment was split across buckets.
// The bucket amounts plus Excess always sum to the paid amount.
type PaymentApplication struct {
	ToFees      money.Money `json:"to_fees"`
	ToPenalties money.Money `json:"to_penalties"`
	ToInterest  money.Money `json:"to_interest"`
	ToPrincipal money.Money `json:"to_principal"`
	Excess      money.Money `json:"excess"`
}

// TotalApplied returns the amount consumed by the four buckets.
func (a PaymentApplication) TotalApplied() money.Money {
	return a.ToFees.Add(a.ToPenalties).Add(a.ToInterest).Add(a.ToPrincipal)
}

// CollateralPosition is the full collateral valuation for a secured facility.
// It is replaced as a whole on every valuation update.
type CollateralPosition struct {
	AssetType       string          `json:"asset_type"`
	AssetAmount     decimal.Decimal `json:"asset_amount"`
	CurrentValue    money.Money     `json:"current_value"`
	InitialValue    money.Money     `json:"initial_value"`
	LastValuation   time.Time       `json:"last_valuation"`
	ValuationSource string          `json:"valuation_source"`
}

// LtvThresholds are the ordered loan-to-value trigger levels for a secured
// facility: initial < warning < margin_call < liquidation.
type LtvThresholds struct {
	Initial     money.Rate `json:"initial"`
	Warning     money.Rate `json:"warning"`
	MarginCall  money.Rate `json:"margin_call"`
	Liquidation money.Rate `json:"liquidation"`
}

// LtvBand is the classification of a facility's current LTV ratio.
type LtvBand string

const (
	BandHealthy     LtvBand = "HEALTHY"
	BandWarning     LtvBand = "WARNING"
	BandMarginCall  LtvBand = "MARGIN_CALL"
	BandLiquidation LtvBand = "LIQUIDATION"
)
