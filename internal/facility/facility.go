package facility

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oeo/credit-facility/internal/clock"
	"github.com/oeo/credit-facility/internal/collateral"
	"github.com/oeo/credit-facility/internal/interest"
	"github.com/oeo/credit-facility/internal/money"
	"github.com/oeo/credit-facility/internal/payments"
	"github.com/oeo/credit-facility/internal/types"
)

// Facility is a single credit facility: immutable Config, exclusively owned
// State, and an append-only event log. All operations read "now" from the
// bound TimeProvider, so a facility is fully deterministic given its inputs.
//
// A Facility is a single-owner resource. Concurrent mutation must be
// serialized by the caller.
type Facility struct {
	ID     uuid.UUID
	Config Config
	State  State

	clock   clock.TimeProvider
	events  Recorder
	accrual interest.AccrualEngine

	schedule []payments.Entry
	emi      money.Money
}

// AccrualReport summarizes one accrual run.
type AccrualReport struct {
	From     time.Time   `json:"from"`
	To       time.Time   `json:"to"`
	Interest money.Money `json:"interest"`
	Penalty  money.Money `json:"penalty"`
	Fees     money.Money `json:"fees"`
}

// StatusReport summarizes one daily sweep.
type StatusReport struct {
	Status           types.FacilityStatus `json:"status"`
	DaysPastDue      int                  `json:"days_past_due"`
	TotalOutstanding money.Money          `json:"total_outstanding"`
	Ltv              money.Rate           `json:"ltv"`
	LtvBand          types.LtvBand        `json:"ltv_band,omitempty"`
}

// LtvStatus is the result of a collateral valuation update.
type LtvStatus struct {
	Ltv             money.Rate    `json:"ltv"`
	Band            types.LtvBand `json:"band"`
	CollateralValue money.Money   `json:"collateral_value"`
}

// marginCallWindow is how long a borrower has to cure a margin call.
const marginCallWindow = 7 * 24 * time.Hour

// Originate validates the configuration and creates a facility in the
// Originated status. The origination fee, when configured, is charged into
// the fee bucket immediately.
func Originate(cfg Config, accountID, customerID string, tp clock.TimeProvider) (*Facility, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	now := tp.Now()

	f := &Facility{
		ID:      id,
		Config:  cfg,
		State:   newState(id, accountID, customerID, now),
		clock:   tp,
		accrual: interest.NewAccrualEngine(cfg.Interest.DayCount),
	}
	if cfg.Secured() {
		f.State.LtvBand = types.BandHealthy
	}

	f.events.Emit(Originated{
		BaseEvent:  newBase(EventOriginated, id, now),
		Commitment: cfg.Commitment,
	})

	if cfg.Fees.OriginationFee.IsPositive() {
		f.State.AccruedFees = f.State.AccruedFees.Add(cfg.Fees.OriginationFee)
	}

	return f, nil
}

// Schedule returns a copy of the repayment schedule, if any.
func (f *Facility) Schedule() []payments.Entry {
	if f.schedule == nil {
		return nil
	}
	out := make([]payments.Entry, len(f.schedule))
	copy(out, f.schedule)
	return out
}

// EMI returns the current scheduled installment amount.
func (f *Facility) EMI() money.Money { return f.emi }

// TakeEvents drains and returns the pending events in operation order.
func (f *Facility) TakeEvents() []Event { return f.events.Take() }

// Approve moves an originated facility into Active. Disbursement becomes
// possible from here; revolving facilities may stay undrawn indefinitely.
func (f *Facility) Approve() error {
	now := f.clock.Now()
	if f.State.Status.Terminal() {
		return newError(ErrFacilityClosed, "facility is %s", f.State.Status)
	}
	if f.State.Status != types.StatusOriginated {
		return newError(ErrFacilityNotActive, "facility is not awaiting approval: %s", f.State.Status)
	}

	f.events.Emit(Approved{BaseEvent: newBase(EventApproved, f.ID, now)})
	f.transition(types.StatusActive, "approved", now)
	return nil
}

// Deny cancels an originated facility. Cancelled is terminal and distinct
// from Settled: a denied facility never carried a balance.
func (f *Facility) Deny() error {
	now := f.clock.Now()
	if f.State.Status.Terminal() {
		return newError(ErrFacilityClosed, "facility is %s", f.State.Status)
	}
	if f.State.Status != types.StatusOriginated {
		return newError(ErrFacilityNotActive, "facility is not awaiting approval: %s", f.State.Status)
	}

	f.events.Emit(Denied{BaseEvent: newBase(EventDenied, f.ID, now)})
	f.transition(types.StatusCancelled, "denied", now)
	return nil
}

// Disburse draws funds onto the facility, growing outstanding principal. The
// first disbursement activates term-loan schedules. Returns the amount
// actually disbursed.
func (f *Facility) Disburse(amount money.Money) (money.Money, error) {
	now := f.clock.Now()
	if err := f.guardMutable(); err != nil {
		return money.Zero, err
	}
	if f.State.Status == types.StatusOriginated {
		return money.Zero, newError(ErrNotApproved, "facility has not been approved")
	}
	if f.State.Status != types.StatusActive {
		return money.Zero, newError(ErrFacilityNotActive, "cannot disburse while %s", f.State.Status)
	}
	if !amount.IsPositive() {
		return money.Zero, newError(ErrInvalidAmount, "disbursement must be positive, got %s", amount)
	}

	newPrincipal := f.State.OutstandingPrincipal.Add(amount)
	if f.Config.Kind.Type == KindRevolving {
		if newPrincipal.GreaterThan(f.Config.Kind.CreditLimit) {
			return money.Zero, newError(ErrOverLimit,
				"draw of %s would exceed credit limit %s", amount, f.Config.Kind.CreditLimit)
		}
	} else if newPrincipal.GreaterThan(f.Config.Commitment) {
		return money.Zero, newError(ErrOverCommitment,
			"disbursement of %s would exceed commitment %s", amount, f.Config.Commitment)
	}

	if _, _, _, err := f.accrueTo(now); err != nil {
		return money.Zero, err
	}

	first := f.State.DisbursedTotal.IsZero()
	f.State.DisbursedTotal = f.State.DisbursedTotal.Add(amount)
	f.State.OutstandingPrincipal = newPrincipal

	if first {
		activated := now
		f.State.ActivatedAt = &activated
		if f.Config.Kind.Scheduled() {
			f.buildSchedule(now)
		}
	} else if f.Config.Kind.Scheduled() {
		f.reamortize()
	}

	f.events.Emit(Disbursed{
		BaseEvent:      newBase(EventDisbursed, f.ID, now),
		Amount:         amount,
		NewOutstanding: f.State.OutstandingPrincipal,
		Available:      f.State.AvailableCommitment(f.drawCap()),
	})

	return amount, nil
}

// MakePayment applies cash through the waterfall: fees, then penalties, then
// interest, then principal. Excess beyond all buckets is handled per the
// configured overpayment strategy. Clearing the full overdue amount restores
// a grace-period or delinquent facility to Active.
func (f *Facility) MakePayment(amount money.Money) (*types.PaymentApplication, error) {
	now := f.clock.Now()
	if err := f.guardPayable(); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, newError(ErrInvalidAmount, "payment must be positive, got %s", amount)
	}

	if _, _, _, err := f.accrueTo(now); err != nil {
		return nil, err
	}

	scheduledOverpay := f.Config.Kind.Scheduled() &&
		f.State.NextPaymentDue != nil &&
		amount.GreaterThan(f.State.NextPaymentAmount)

	app := f.applyCash(amount, now)

	if scheduledOverpay &&
		f.Config.Payment.Overpayment == types.OverpayReducePayment &&
		f.State.OutstandingPrincipal.IsPositive() {
		f.reamortize()
	}

	f.checkSettled(amount, now)
	return &app, nil
}

// ProcessScheduledPayment debits the installment for the current schedule
// period, marks the period paid, and advances the schedule cursor and next
// due date.
func (f *Facility) ProcessScheduledPayment() (*types.PaymentApplication, error) {
	now := f.clock.Now()
	if err := f.guardPayable(); err != nil {
		return nil, err
	}
	if !f.Config.Kind.Scheduled() {
		return nil, newError(ErrScheduleNotApplicable, "facility kind %s has no payment schedule", f.Config.Kind.Type)
	}
	if f.State.ScheduleCursor >= len(f.schedule) {
		return nil, newError(ErrScheduleNotApplicable, "payment schedule is exhausted")
	}

	if _, _, _, err := f.accrueTo(now); err != nil {
		return nil, err
	}

	entry := f.schedule[f.State.ScheduleCursor]
	f.events.Emit(ScheduledPaymentDue{
		BaseEvent: newBase(EventScheduledPaymentDue, f.ID, now),
		Period:    entry.Period,
		Amount:    entry.Total,
		DueDate:   entry.DueDate,
	})

	app := f.applyCash(entry.Total, now)

	// The period is paid regardless of how the waterfall split it; the
	// cursor only stays put when the overdue-clearing path already moved it.
	if f.State.ScheduleCursor < len(f.schedule) && f.schedule[f.State.ScheduleCursor].Period == entry.Period {
		f.advanceCursor()
	}

	f.checkSettled(entry.Total, now)
	return &app, nil
}

// AccrueInterest realizes all time-dependent accrual up to now and reports
// what was posted. Calling it twice at the same instant is a no-op.
func (f *Facility) AccrueInterest() (*AccrualReport, error) {
	now := f.clock.Now()
	if f.State.Status.Terminal() {
		return nil, newError(ErrFacilityClosed, "facility is %s", f.State.Status)
	}

	from := f.State.LastChargeAccrual
	interestAmt, penaltyAmt, feeAmt, err := f.accrueTo(now)
	if err != nil {
		return nil, err
	}
	return &AccrualReport{
		From:     from,
		To:       now,
		Interest: interestAmt,
		Penalty:  penaltyAmt,
		Fees:     feeAmt,
	}, nil
}

// UpdateDailyStatus is the single-entry daily sweep: it accrues to now,
// evaluates the overdue condition, reclassifies LTV, transitions status and
// emits the corresponding events. It is idempotent for the same now.
func (f *Facility) UpdateDailyStatus() (*StatusReport, error) {
	now := f.clock.Now()
	if f.State.Status.Terminal() {
		return nil, newError(ErrFacilityClosed, "facility is %s", f.State.Status)
	}

	if _, _, _, err := f.accrueTo(now); err != nil {
		return nil, err
	}

	f.evaluateOverdue(now)

	var ltv money.Rate
	if f.Config.Secured() && f.State.Collateral != nil {
		ltv = f.checkLtv(now)
	}

	if f.settlesOnZero() && f.State.Status == types.StatusActive && f.State.TotalOutstanding().IsZero() && f.State.DisbursedTotal.IsPositive() {
		f.settle(money.Zero, now)
	}

	return &StatusReport{
		Status:           f.State.Status,
		DaysPastDue:      f.State.DaysPastDue,
		TotalOutstanding: f.State.TotalOutstanding(),
		Ltv:              ltv,
		LtvBand:          f.State.LtvBand,
	}, nil
}

// UpdateCollateral replaces the collateral position as a whole, records the
// valuation instant, and reclassifies the LTV band. Band events fire only on
// entry into a worse band.
func (f *Facility) UpdateCollateral(position types.CollateralPosition) (*LtvStatus, error) {
	now := f.clock.Now()
	if f.State.Status.Terminal() {
		return nil, newError(ErrFacilityClosed, "facility is %s", f.State.Status)
	}
	if !f.Config.Secured() {
		return nil, newError(ErrNoCollateral, "facility is unsecured")
	}
	if !position.CurrentValue.IsPositive() {
		return nil, newError(ErrInvalidAmount, "collateral value must be positive, got %s", position.CurrentValue)
	}

	var oldValue money.Money
	if prev := f.State.Collateral; prev != nil {
		oldValue = prev.CurrentValue
		if position.InitialValue.IsZero() {
			position.InitialValue = prev.InitialValue
		}
	}
	if position.AssetType == "" {
		position.AssetType = f.Config.Collateral.AssetType
	}
	if position.InitialValue.IsZero() {
		position.InitialValue = position.CurrentValue
	}

	position.LastValuation = now
	f.State.Collateral = &position

	f.events.Emit(CollateralUpdated{
		BaseEvent: newBase(EventCollateralUpdated, f.ID, now),
		OldValue:  oldValue,
		NewValue:  position.CurrentValue,
		Source:    position.ValuationSource,
	})

	ltv := f.checkLtv(now)
	return &LtvStatus{
		Ltv:             ltv,
		Band:            f.State.LtvBand,
		CollateralValue: position.CurrentValue,
	}, nil
}

// ApplyLiquidationProceeds reports collateral sale proceeds back into the
// facility. The amount flows through the standard waterfall; when total
// outstanding reaches zero the facility settles. Any proceeds beyond the
// debt come back as excess.
func (f *Facility) ApplyLiquidationProceeds(amount money.Money) (*types.PaymentApplication, error) {
	now := f.clock.Now()
	if f.State.Status.Terminal() {
		return nil, newError(ErrFacilityClosed, "facility is %s", f.State.Status)
	}
	if f.State.Status != types.StatusLiquidating {
		return nil, newError(ErrFacilityNotActive, "no liquidation in progress: %s", f.State.Status)
	}
	if !amount.IsPositive() {
		return nil, newError(ErrInvalidAmount, "proceeds must be positive, got %s", amount)
	}

	if _, _, _, err := f.accrueTo(now); err != nil {
		return nil, err
	}

	app := f.applyCash(amount, now)

	if f.State.TotalOutstanding().IsZero() {
		f.settle(amount, now)
	}
	return &app, nil
}

// ---------------------------------------------------------------------------
// Internal machinery
// ---------------------------------------------------------------------------

// guardMutable rejects mutation on closed or liquidating facilities.
func (f *Facility) guardMutable() error {
	if f.State.Status.Terminal() {
		return newError(ErrFacilityClosed, "facility is %s", f.State.Status)
	}
	if f.State.Status == types.StatusLiquidating {
		return newError(ErrLiquidationInProgress, "collateral liquidation is pending")
	}
	return nil
}

// guardPayable rejects payments outside Active, GracePeriod and Delinquent.
func (f *Facility) guardPayable() error {
	if err := f.guardMutable(); err != nil {
		return err
	}
	if f.State.Status == types.StatusOriginated {
		return newError(ErrNotApproved, "facility has not been approved")
	}
	if !f.State.Status.AcceptsPayment() {
		return newError(ErrFacilityNotActive, "cannot accept payment while %s", f.State.Status)
	}
	return nil
}

// drawCap returns the principal ceiling for the facility kind.
func (f *Facility) drawCap() money.Money {
	if f.Config.Kind.Type == KindRevolving {
		return f.Config.Kind.CreditLimit
	}
	return f.Config.Commitment
}

// settlesOnZero reports whether a zero balance closes the facility. Revolving
// and overdraft facilities stay open for redraw.
func (f *Facility) settlesOnZero() bool {
	return f.Config.Kind.Type == KindTermLoan || f.Config.Kind.Type == KindOpenTerm
}

// transition moves the status and records the change. Callers are expected
// to respect the lifecycle DAG; the event log is the audit of every move.
func (f *Facility) transition(to types.FacilityStatus, reason string, now time.Time) {
	from := f.State.Status
	if from == to {
		return
	}
	f.State.Status = to
	f.State.StatusSince = now
	f.events.Emit(StatusChanged{
		BaseEvent: newBase(EventStatusChanged, f.ID, now),
		From:      from,
		To:        to,
		Reason:    reason,
	})
}

// accrueTo realizes interest, overdraft daily fees and penalty interest for
// the interval since the respective cursors. A zero-length interval is a
// no-op; a now before the charge cursor is an AccrualBackwards error.
func (f *Facility) accrueTo(now time.Time) (interestAmt, penaltyAmt, feeAmt money.Money, err error) {
	if now.Before(f.State.LastChargeAccrual) {
		return money.Zero, money.Zero, money.Zero,
			newError(ErrAccrualBackwards, "now %s precedes last accrual %s", now, f.State.LastChargeAccrual)
	}

	interestAmt = f.accrueInterest(now)
	feeAmt = f.accrueOverdraftFee(now)
	penaltyAmt = f.accruePenalty(now)

	f.State.LastChargeAccrual = now
	return interestAmt, penaltyAmt, feeAmt, nil
}

func (f *Facility) accrueInterest(now time.Time) money.Money {
	principal := f.State.OutstandingPrincipal
	rate := f.Config.Interest.BaseRate

	var amount money.Money
	from := f.State.LastAccrual

	if f.Config.Interest.Compounding == types.CompoundMonthly {
		var through time.Time
		amount, through = f.accrual.AccrueMonthly(principal, rate, from, now)
		f.State.LastAccrual = through
	} else {
		amount = f.accrual.Interest(principal, rate, from, now)
		f.State.LastAccrual = now
	}

	if amount.IsPositive() {
		f.State.AccruedInterest = f.State.AccruedInterest.Add(amount)
		f.events.Emit(InterestAccrued{
			BaseEvent: newBase(EventInterestAccrued, f.ID, now),
			Amount:    amount,
			From:      from,
			To:        f.State.LastAccrual,
		})
	}
	return amount
}

// accrueOverdraftFee charges the flat daily fee for every calendar day the
// drawn amount sat beyond the buffer zone.
func (f *Facility) accrueOverdraftFee(now time.Time) money.Money {
	if f.Config.Kind.Type != KindOverdraft || !f.Config.Kind.DailyFee.IsPositive() {
		return money.Zero
	}
	if !f.State.OutstandingPrincipal.GreaterThan(f.Config.Kind.BufferZone) {
		return money.Zero
	}

	days := calendarDaysBetween(f.State.LastChargeAccrual, now)
	if days <= 0 {
		return money.Zero
	}

	fee := f.Config.Kind.DailyFee.MulDecimal(decimal.NewFromInt(int64(days)))
	f.State.AccruedFees = f.State.AccruedFees.Add(fee)
	f.events.Emit(DailyFeeCharged{
		BaseEvent: newBase(EventDailyFeeCharged, f.ID, now),
		Amount:    fee,
		Days:      days,
	})
	return fee
}

// accruePenalty runs the penalty stream on the overdue amount once past the
// grace window.
func (f *Facility) accruePenalty(now time.Time) money.Money {
	p := f.Config.Interest.Penalty
	if p == nil || !f.State.Overdue() || f.State.NextPaymentDue == nil {
		return money.Zero
	}

	engine := interest.NewPenaltyEngine(p.RateMultiplier, p.GracePeriodDays)
	start := engine.PenaltyStart(*f.State.NextPaymentDue)
	if f.State.LastChargeAccrual.After(start) {
		start = f.State.LastChargeAccrual
	}
	if !now.After(start) {
		return money.Zero
	}

	amount := engine.Accrue(f.accrual, f.State.MinimumDue, f.Config.Interest.BaseRate, start, now)
	if !amount.IsPositive() {
		return money.Zero
	}

	f.State.AccruedPenalties = f.State.AccruedPenalties.Add(amount)
	f.events.Emit(PenaltyAccrued{
		BaseEvent:   newBase(EventPenaltyAccrued, f.ID, now),
		Amount:      amount,
		DaysOverdue: f.State.DaysPastDue,
	})
	return amount
}

// applyCash runs the waterfall, writes the buckets back, keeps payment and
// overdue bookkeeping, and emits PaymentReceived. The bucket amounts plus
// excess always reconstruct the paid amount.
func (f *Facility) applyCash(amount money.Money, now time.Time) types.PaymentApplication {
	buckets := payments.Buckets{
		Fees:      f.State.AccruedFees,
		Penalties: f.State.AccruedPenalties,
		Interest:  f.State.AccruedInterest,
		Principal: f.State.OutstandingPrincipal,
	}
	app := payments.ApplyWaterfall(amount, &buckets)

	f.State.AccruedFees = buckets.Fees
	f.State.AccruedPenalties = buckets.Penalties
	f.State.AccruedInterest = buckets.Interest
	f.State.OutstandingPrincipal = buckets.Principal

	applied := app.TotalApplied()
	f.State.PaidTotal = f.State.PaidTotal.Add(applied)
	f.State.TotalInterestPaid = f.State.TotalInterestPaid.Add(app.ToInterest)
	f.State.TotalFeesPaid = f.State.TotalFeesPaid.Add(app.ToFees)
	f.State.PaymentCount++
	paidAt := now
	f.State.LastPaymentAt = &paidAt
	f.State.LastPaymentAmount = amount

	if f.State.Overdue() {
		f.State.MinimumDue = f.State.MinimumDue.Sub(applied).Max(money.Zero)
		if f.State.MinimumDue.IsZero() {
			f.State.DaysPastDue = 0
			f.advanceCursor()
			switch f.State.Status {
			case types.StatusGracePeriod, types.StatusDelinquent:
				f.transition(types.StatusActive, "overdue cleared", now)
			}
		}
	}

	f.events.Emit(PaymentReceived{
		BaseEvent:   newBase(EventPaymentReceived, f.ID, now),
		Amount:      amount,
		Application: app,
		Excess:      app.Excess,
	})
	return app
}

// checkSettled closes the facility when every bucket reached zero, for the
// kinds that close on zero.
func (f *Facility) checkSettled(finalPayment money.Money, now time.Time) {
	if !f.settlesOnZero() || !f.State.TotalOutstanding().IsZero() {
		return
	}
	if f.State.Status == types.StatusActive {
		f.settle(finalPayment, now)
	}
}

func (f *Facility) settle(finalPayment money.Money, now time.Time) {
	f.transition(types.StatusSettled, "all balances cleared", now)
	f.events.Emit(Settled{
		BaseEvent:    newBase(EventSettled, f.ID, now),
		FinalPayment: finalPayment,
	})
}

// evaluateOverdue flags a missed scheduled payment and walks the status
// through grace into delinquency as the days past due grow.
func (f *Facility) evaluateOverdue(now time.Time) {
	due := f.State.NextPaymentDue
	if due == nil || !now.After(*due) {
		return
	}

	if !f.State.Overdue() {
		if !f.State.NextPaymentAmount.IsPositive() {
			return
		}
		f.State.MinimumDue = f.State.NextPaymentAmount
		f.State.MissedPaymentCount++
	}

	daysOverdue := int(now.Sub(*due) / (24 * time.Hour))
	f.State.DaysPastDue = daysOverdue

	grace := f.Config.Interest.GraceDays()
	if daysOverdue <= grace {
		if f.State.Status == types.StatusActive {
			f.transition(types.StatusGracePeriod, "payment overdue within grace", now)
		}
		return
	}

	if f.State.Status == types.StatusActive {
		f.transition(types.StatusGracePeriod, "payment overdue within grace", now)
	}
	if f.State.Status == types.StatusGracePeriod {
		f.transition(types.StatusDelinquent, "grace period expired", now)
		if f.Config.Fees.LateFee.IsPositive() {
			f.State.AccruedFees = f.State.AccruedFees.Add(f.Config.Fees.LateFee)
			f.events.Emit(LateFeeApplied{
				BaseEvent:   newBase(EventLateFeeApplied, f.ID, now),
				Amount:      f.Config.Fees.LateFee,
				DaysOverdue: daysOverdue,
			})
		}
	}
}

// checkLtv recomputes the LTV band and fires the band-entry events. Entries
// fire only when the band worsens; staying inside a band is silent.
func (f *Facility) checkLtv(now time.Time) money.Rate {
	monitor := collateral.NewMonitor(f.Config.Collateral.LtvThresholds)
	ltv := collateral.LTV(f.State.TotalOutstanding(), f.State.Collateral.CurrentValue)
	band := monitor.Classify(ltv)
	prev := f.State.LtvBand
	if prev == "" {
		prev = types.BandHealthy
	}
	f.State.LtvBand = band

	if band == prev || bandRank(band) < bandRank(prev) {
		return ltv
	}

	thresholds := f.Config.Collateral.LtvThresholds
	switch band {
	case types.BandWarning:
		f.events.Emit(LtvWarningBreached{
			BaseEvent: newBase(EventLtvWarningBreached, f.ID, now),
			Ltv:       ltv,
			Threshold: thresholds.Warning,
		})
	case types.BandMarginCall:
		f.events.Emit(MarginCallIssued{
			BaseEvent: newBase(EventMarginCallIssued, f.ID, now),
			Ltv:       ltv,
			Threshold: thresholds.MarginCall,
			Deadline:  now.Add(marginCallWindow),
		})
	case types.BandLiquidation:
		f.events.Emit(LiquidationTriggered{
			BaseEvent: newBase(EventLiquidationTriggered, f.ID, now),
			Ltv:       ltv,
			Threshold: thresholds.Liquidation,
		})
		switch f.State.Status {
		case types.StatusActive, types.StatusGracePeriod, types.StatusDelinquent:
			f.transition(types.StatusLiquidating, "liquidation threshold breached", now)
		}
	}
	return ltv
}

// buildSchedule creates the repayment schedule at first disbursement.
func (f *Facility) buildSchedule(now time.Time) {
	f.schedule = payments.GenerateSchedule(
		f.State.OutstandingPrincipal,
		f.Config.Interest.BaseRate,
		f.Config.Kind.TermMonths,
		f.Config.Kind.Amortization,
		now,
		f.Config.Payment.ScheduledDayOfMonth,
	)
	f.emi = payments.CalculateEMI(f.State.OutstandingPrincipal, f.Config.Interest.BaseRate, f.Config.Kind.TermMonths)
	f.State.ScheduleCursor = 0
	if len(f.schedule) > 0 {
		first := f.schedule[0]
		f.State.NextPaymentDue = &first.DueDate
		f.State.NextPaymentAmount = first.Total
	}
}

// reamortize rewrites the remaining schedule over the unchanged remaining
// term from the current outstanding principal, keeping the original payment
// cadence. Used after additional draws and ReducePayment overpayments.
func (f *Facility) reamortize() {
	cursor := f.State.ScheduleCursor
	remaining := payments.RemainingTerm(f.schedule, cursor)
	if remaining <= 0 || f.State.ActivatedAt == nil {
		return
	}

	anchor := f.State.ActivatedAt.AddDate(0, cursor, 0)
	fresh := payments.GenerateSchedule(
		f.State.OutstandingPrincipal,
		f.Config.Interest.BaseRate,
		remaining,
		f.Config.Kind.Amortization,
		anchor,
		f.Config.Payment.ScheduledDayOfMonth,
	)
	for i := range fresh {
		fresh[i].Period = cursor + i + 1
	}

	f.schedule = append(f.schedule[:cursor], fresh...)
	f.emi = payments.CalculateEMI(f.State.OutstandingPrincipal, f.Config.Interest.BaseRate, remaining)
	if cursor < len(f.schedule) {
		next := f.schedule[cursor]
		f.State.NextPaymentDue = &next.DueDate
		f.State.NextPaymentAmount = next.Total
	}
}

// advanceCursor marks the current schedule period as paid and points at the
// next one.
func (f *Facility) advanceCursor() {
	if !f.Config.Kind.Scheduled() || f.State.ScheduleCursor >= len(f.schedule) {
		return
	}
	f.State.ScheduleCursor++
	if f.State.ScheduleCursor < len(f.schedule) {
		next := f.schedule[f.State.ScheduleCursor]
		f.State.NextPaymentDue = &next.DueDate
		f.State.NextPaymentAmount = next.Total
	} else {
		f.State.NextPaymentDue = nil
		f.State.NextPaymentAmount = money.Zero
	}
}

// bandRank orders LTV bands from healthy to liquidation.
func bandRank(b types.LtvBand) int {
	switch b {
	case types.BandWarning:
		return 1
	case types.BandMarginCall:
		return 2
	case types.BandLiquidation:
		return 3
	default:
		return 0
	}
}

// calendarDaysBetween counts UTC day boundaries crossed in (from, to].
func calendarDaysBetween(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay) / (24 * time.Hour))
}
