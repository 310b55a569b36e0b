package facility

import (
	"time"

	"github.com/google/uuid"

	"github.com/oeo/credit-facility/internal/money"
	"github.com/oeo/credit-facility/internal/types"
)

// Event is an audit record of a single effect on a facility. Events are
// collected in operation order and drained by the consumer.
type Event interface {
	EventID() uuid.UUID
	EventType() string
	Facility() uuid.UUID
	OccurredAt() time.Time
}

// BaseEvent carries the fields shared by every event.
type BaseEvent struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	FacilityID uuid.UUID `json:"facility_id"`
	At         time.Time `json:"at"`
}

func newBase(eventType string, facilityID uuid.UUID, at time.Time) BaseEvent {
	return BaseEvent{ID: uuid.New(), Type: eventType, FacilityID: facilityID, At: at}
}

// EventID returns the unique identifier of this event.
func (e BaseEvent) EventID() uuid.UUID { return e.ID }

// EventType returns the stable event type name.
func (e BaseEvent) EventType() string { return e.Type }

// Facility returns the facility this event belongs to.
func (e BaseEvent) Facility() uuid.UUID { return e.FacilityID }

// OccurredAt returns when the event happened in engine time.
func (e BaseEvent) OccurredAt() time.Time { return e.At }

// Recorder is the append-only in-memory event log of a facility.
type Recorder struct {
	pending []Event
}

// Emit appends an event to the pending log.
func (r *Recorder) Emit(e Event) {
	r.pending = append(r.pending, e)
}

// Take drains and returns the pending events in emission order.
func (r *Recorder) Take() []Event {
	events := r.pending
	r.pending = nil
	return events
}

// Pending returns the number of undrained events.
func (r *Recorder) Pending() int { return len(r.pending) }

type Originated struct {
	BaseEvent
	Commitment money.Money `json:"commitment"`
}

type Approved struct {
	BaseEvent
}

type Denied struct {
	BaseEvent
	Reason string `json:"reason,omitempty"`
}

type Disbursed struct {
	BaseEvent
	Amount         money.Money `json:"amount"`
	NewOutstanding money.Money `json:"new_outstanding"`
	Available      money.Money `json:"available"`
}

type InterestAccrued struct {
	BaseEvent
	Amount money.Money `json:"amount"`
	From   time.Time   `json:"from"`
	To     time.Time   `json:"to"`
}

type PenaltyAccrued struct {
	BaseEvent
	Amount      money.Money `json:"amount"`
	DaysOverdue int         `json:"days_overdue"`
}

type LateFeeApplied struct {
	BaseEvent
	Amount      money.Money `json:"amount"`
	DaysOverdue int         `json:"days_overdue"`
}

type DailyFeeCharged struct {
	BaseEvent
	Amount money.Money `json:"amount"`
	Days   int         `json:"days"`
}

type ScheduledPaymentDue struct {
	BaseEvent
	Period  int         `json:"period"`
	Amount  money.Money `json:"amount"`
	DueDate time.Time   `json:"due_date"`
}

type PaymentReceived struct {
	BaseEvent
	Amount      money.Money              `json:"amount"`
	Application types.PaymentApplication `json:"application"`
	Excess      money.Money              `json:"excess"`
}

type StatusChanged struct {
	BaseEvent
	From   types.FacilityStatus `json:"from"`
	To     types.FacilityStatus `json:"to"`
	Reason string               `json:"reason"`
}

type CollateralUpdated struct {
	BaseEvent
	OldValue money.Money `json:"old_value"`
	NewValue money.Money `json:"new_value"`
	Source   string      `json:"source"`
}

type LtvWarningBreached struct {
	BaseEvent
	Ltv       money.Rate `json:"ltv"`
	Threshold money.Rate `json:"threshold"`
}

type MarginCallIssued struct {
	BaseEvent
	Ltv       money.Rate `json:"ltv"`
	Threshold money.Rate `json:"threshold"`
	Deadline  time.Time  `json:"deadline"`
}

type LiquidationTriggered struct {
	BaseEvent
	Ltv       money.Rate `json:"ltv"`
	Threshold money.Rate `json:"threshold"`
}

type Settled struct {
	BaseEvent
	FinalPayment money.Money `json:"final_payment"`
}

const (
	EventOriginated           = "facility.originated"
	EventApproved             = "facility.approved"
	EventDenied               = "facility.denied"
	EventDisbursed            = "facility.disbursed"
	EventInterestAccrued      = "facility.interest_accrued"
	EventPenaltyAccrued       = "facility.penalty_accrued"
	EventLateFeeApplied       = "facility.late_fee_applied"
	EventDailyFeeCharged      = "facility.daily_fee_charged"
	EventScheduledPaymentDue  = "facility.scheduled_payment_due"
	EventPaymentReceived      = "facility.payment_received"
	EventStatusChanged        = "facility.status_changed"
	EventCollateralUpdated    = "facility.collateral_updated"
	EventLtvWarningBreached   = "facility.ltv_warning_breached"
	EventMarginCallIssued     = "facility.margin_call_issued"
	EventLiquidationTriggered = "facility.liquidation_triggered"
	EventSettled              = "facility.settled"
)
