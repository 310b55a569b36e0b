package facility

import (
	"time"

	"github.com/google/uuid"

	"github.com/oeo/credit-facility/internal/money"
	"github.com/oeo/credit-facility/internal/types"
)

// State is the mutable account of a facility. It is owned exclusively by the
// Facility aggregate; all mutation goes through the engine operations.
type State struct {
	FacilityID uuid.UUID `json:"facility_id"`
	AccountID  string    `json:"account_id"`
	CustomerID string    `json:"customer_id"`

	// Core balances. Each bucket is individually non-negative at rest.
	OutstandingPrincipal money.Money `json:"outstanding_principal"`
	AccruedInterest      money.Money `json:"accrued_interest"`
	AccruedFees          money.Money `json:"accrued_fees"`
	AccruedPenalties     money.Money `json:"accrued_penalties"`

	// Movement tracking.
	DisbursedTotal    money.Money `json:"disbursed_total"`
	PaidTotal         money.Money `json:"paid_total"`
	TotalInterestPaid money.Money `json:"total_interest_paid"`
	TotalFeesPaid     money.Money `json:"total_fees_paid"`

	// Accrual cursors. LastAccrual drives base interest and never moves
	// backwards; LastChargeAccrual drives the daily penalty and overdraft
	// fee streams, which keep running even when monthly compounding holds
	// interest at a month boundary.
	LastAccrual       time.Time `json:"last_accrual"`
	LastChargeAccrual time.Time `json:"last_charge_accrual"`

	Origination time.Time  `json:"origination"`
	ActivatedAt *time.Time `json:"activated_at,omitempty"`

	Status      types.FacilityStatus `json:"status"`
	StatusSince time.Time            `json:"status_since"`

	// Schedule tracking (term loans).
	NextPaymentDue    *time.Time  `json:"next_payment_due,omitempty"`
	NextPaymentAmount money.Money `json:"next_payment_amount"`
	ScheduleCursor    int         `json:"schedule_cursor"`

	// Overdue tracking.
	MinimumDue         money.Money `json:"minimum_due"`
	DaysPastDue        int         `json:"days_past_due"`
	PaymentCount       int         `json:"payment_count"`
	MissedPaymentCount int         `json:"missed_payment_count"`
	LastPaymentAt      *time.Time  `json:"last_payment_at,omitempty"`
	LastPaymentAmount  money.Money `json:"last_payment_amount"`

	// Collateral, replaced as a whole on each valuation update.
	Collateral *types.CollateralPosition `json:"collateral,omitempty"`
	LtvBand    types.LtvBand             `json:"ltv_band,omitempty"`
}

// newState initializes the account at origination time.
func newState(id uuid.UUID, accountID, customerID string, origination time.Time) State {
	return State{
		FacilityID:        id,
		AccountID:         accountID,
		CustomerID:        customerID,
		LastAccrual:       origination,
		LastChargeAccrual: origination,
		Origination:       origination,
		Status:            types.StatusOriginated,
		StatusSince:       origination,
	}
}

// TotalOutstanding returns principal plus every accrued bucket.
func (s *State) TotalOutstanding() money.Money {
	return s.OutstandingPrincipal.
		Add(s.AccruedInterest).
		Add(s.AccruedFees).
		Add(s.AccruedPenalties)
}

// AvailableCommitment returns the undrawn headroom against the given ceiling.
func (s *State) AvailableCommitment(limit money.Money) money.Money {
	return limit.Sub(s.OutstandingPrincipal).Max(money.Zero)
}

// Overdue reports whether a scheduled payment is currently unpaid past due.
func (s *State) Overdue() bool {
	return s.MinimumDue.IsPositive()
}
