package facility

import (
	"encoding/json"
	"time"

	"github.com/oeo/credit-facility/internal/collateral"
	"github.com/oeo/credit-facility/internal/types"
)

// View is the stable JSON readout of a facility. It is a snapshot of the
// invariant-bearing state, never an input.
type View struct {
	ID                   string          `json:"id"`
	AccountID            string          `json:"account_id"`
	CustomerID           string          `json:"customer_id"`
	Status               string          `json:"status"`
	Kind                 string          `json:"kind"`
	Commitment           string          `json:"commitment"`
	OutstandingPrincipal string          `json:"outstanding_principal"`
	AccruedInterest      string          `json:"accrued_interest"`
	AccruedFees          string          `json:"accrued_fees"`
	AccruedPenalties     string          `json:"accrued_penalties"`
	TotalOutstanding     string          `json:"total_outstanding"`
	LastAccrual          time.Time       `json:"last_accrual"`
	NextPaymentDue       *time.Time      `json:"next_payment_due,omitempty"`
	Collateral           *CollateralView `json:"collateral,omitempty"`
}

// CollateralView is the collateral section of the readout.
type CollateralView struct {
	AssetType    string `json:"asset_type"`
	AssetAmount  string `json:"asset_amount"`
	CurrentValue string `json:"current_value"`
	Ltv          string `json:"ltv"`
	Band         string `json:"band"`
}

// Snapshot builds the readout view of the current state.
func (f *Facility) Snapshot() View {
	s := &f.State
	v := View{
		ID:                   f.ID.String(),
		AccountID:            s.AccountID,
		CustomerID:           s.CustomerID,
		Status:               string(s.Status),
		Kind:                 string(f.Config.Kind.Type),
		Commitment:           f.Config.Commitment.Display(),
		OutstandingPrincipal: s.OutstandingPrincipal.Display(),
		AccruedInterest:      s.AccruedInterest.Display(),
		AccruedFees:          s.AccruedFees.Display(),
		AccruedPenalties:     s.AccruedPenalties.Display(),
		TotalOutstanding:     s.TotalOutstanding().Display(),
		LastAccrual:          s.LastChargeAccrual,
		NextPaymentDue:       s.NextPaymentDue,
	}
	if col := s.Collateral; col != nil {
		band := s.LtvBand
		if band == "" {
			band = types.BandHealthy
		}
		v.Collateral = &CollateralView{
			AssetType:    col.AssetType,
			AssetAmount:  col.AssetAmount.String(),
			CurrentValue: col.CurrentValue.Display(),
			Ltv:          collateral.LTV(s.TotalOutstanding(), col.CurrentValue).String(),
			Band:         string(band),
		}
	}
	return v
}

// JSON renders the stable readout of state, status and balances.
func (f *Facility) JSON() string {
	data, err := json.Marshal(f.Snapshot())
	if err != nil {
		return "{}"
	}
	return string(data)
}
