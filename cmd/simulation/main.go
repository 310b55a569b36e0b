package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/oeo/credit-facility/internal/clock"
	"github.com/oeo/credit-facility/internal/facility"
	"github.com/oeo/credit-facility/internal/money"
	"github.com/oeo/credit-facility/internal/types"
)

// init configures the logger for the simulation with pretty printing and timestamp
func init() {
	// Configure pretty logging
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// main walks the engine through the major product scenarios under a test
// clock: a zero-interest term loan, an amortizing loan with interest, a
// delinquency cycle, revolving draw/redraw, a bitcoin-backed liquidation and
// an overdraft with a buffer zone.
func main() {
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	runZeroInterestTermLoan(anchor)
	runAmortizingTermLoan(anchor)
	runDelinquencyCycle(anchor)
	runRevolvingDrawRedraw(anchor)
	runBitcoinLiquidation(anchor)
	runOverdraftBuffer(anchor)

	log.Info().Msg("simulation complete")
}

func runZeroInterestTermLoan(anchor time.Time) {
	logger := log.With().Str("scenario", "zero_interest_term_loan").Logger()
	tp := clock.NewTest(anchor)

	f := mustOriginate(facility.Config{
		Commitment: money.FromMajor(1_200),
		Kind:       facility.TermLoan(12, types.AmortizeEqualInstallment),
		Interest: facility.InterestConfig{
			DayCount:    types.Actual365,
			Compounding: types.CompoundDaily,
			BaseRate:    money.ZeroRate,
		},
		Payment: facility.PaymentConfig{Overpayment: types.OverpayRefund},
	}, tp)

	must(f.Approve())
	mustDisburse(f, money.FromMajor(1_200))

	for i := 0; i < 12; i++ {
		tp.Advance(30 * 24 * time.Hour)
		if _, err := f.ProcessScheduledPayment(); err != nil {
			logger.Fatal().Err(err).Int("period", i+1).Msg("scheduled payment failed")
		}
	}

	logger.Info().
		Str("status", string(f.State.Status)).
		Str("total_outstanding", f.State.TotalOutstanding().Display()).
		Msg("loan fully repaid")
}

func runAmortizingTermLoan(anchor time.Time) {
	logger := log.With().Str("scenario", "amortizing_term_loan").Logger()
	tp := clock.NewTest(anchor)

	f := mustOriginate(facility.Config{
		Commitment: money.FromMajor(10_000),
		Kind:       facility.TermLoan(12, types.AmortizeEqualInstallment),
		Interest: facility.InterestConfig{
			DayCount:    types.Actual365,
			Compounding: types.CompoundDaily,
			BaseRate:    money.MustRateFromString("0.08"),
		},
		Payment: facility.PaymentConfig{Overpayment: types.OverpayRefund},
	}, tp)

	must(f.Approve())
	mustDisburse(f, money.FromMajor(10_000))
	logger.Info().Str("emi", f.EMI().Display()).Msg("schedule generated")

	for i := 0; i < 12; i++ {
		tp.Advance(30 * 24 * time.Hour)
		if _, err := f.ProcessScheduledPayment(); err != nil {
			logger.Fatal().Err(err).Int("period", i+1).Msg("scheduled payment failed")
		}
	}

	residual := f.State.TotalOutstanding()
	if residual.IsPositive() {
		if _, err := f.MakePayment(residual); err != nil {
			logger.Fatal().Err(err).Msg("settling payment failed")
		}
	}

	logger.Info().
		Str("status", string(f.State.Status)).
		Str("residual", residual.Display()).
		Msg("loan settled after absorbing rounding residual")
}

func runDelinquencyCycle(anchor time.Time) {
	logger := log.With().Str("scenario", "delinquency_cycle").Logger()
	tp := clock.NewTest(anchor)

	f := mustOriginate(facility.Config{
		Commitment: money.FromMajor(6_000),
		Kind:       facility.TermLoan(6, types.AmortizeEqualInstallment),
		Interest: facility.InterestConfig{
			DayCount:    types.Actual365,
			Compounding: types.CompoundDaily,
			BaseRate:    money.MustRateFromString("0.10"),
			Penalty: &facility.PenaltyConfig{
				RateMultiplier:  decimal.NewFromFloat(1.5),
				GracePeriodDays: 10,
			},
		},
		Payment: facility.PaymentConfig{Overpayment: types.OverpayRefund},
	}, tp)

	must(f.Approve())
	mustDisburse(f, money.FromMajor(6_000))

	// Miss the first payment, sweep through grace into delinquency.
	tp.Advance(31 * 24 * time.Hour)
	report := mustSweep(f)
	logger.Info().Str("status", string(report.Status)).Msg("after day 31")

	tp.Advance(11 * 24 * time.Hour)
	report = mustSweep(f)
	logger.Info().
		Str("status", string(report.Status)).
		Str("penalties", f.State.AccruedPenalties.Display()).
		Msg("after day 42")

	// Clear the overdue amount and recover.
	overdue := f.State.MinimumDue.Add(f.State.AccruedPenalties).Add(f.State.AccruedInterest).Add(f.State.AccruedFees)
	if _, err := f.MakePayment(overdue); err != nil {
		logger.Fatal().Err(err).Msg("cure payment failed")
	}
	logger.Info().Str("status", string(f.State.Status)).Msg("after curing the arrears")
}

func runRevolvingDrawRedraw(anchor time.Time) {
	logger := log.With().Str("scenario", "revolving_draw_redraw").Logger()
	tp := clock.NewTest(anchor)

	f := mustOriginate(facility.Config{
		Commitment: money.FromMajor(5_000),
		Kind:       facility.Revolving(money.FromMajor(5_000)),
		Interest: facility.InterestConfig{
			DayCount:    types.Actual365,
			Compounding: types.CompoundDaily,
			BaseRate:    money.MustRateFromString("0.12"),
		},
		Payment: facility.PaymentConfig{Overpayment: types.OverpayRefund},
	}, tp)

	must(f.Approve())
	mustDisburse(f, money.FromMajor(3_000))
	if _, err := f.MakePayment(money.FromMajor(1_000)); err != nil {
		logger.Fatal().Err(err).Msg("paydown failed")
	}
	mustDisburse(f, money.FromMajor(2_500))

	if _, err := f.Disburse(money.FromMajor(1_000)); err != nil {
		logger.Info().Err(err).Msg("overlimit draw rejected as expected")
	} else {
		logger.Fatal().Msg("overlimit draw unexpectedly succeeded")
	}

	logger.Info().
		Str("outstanding", f.State.OutstandingPrincipal.Display()).
		Msg("revolving cycle complete")
}

func runBitcoinLiquidation(anchor time.Time) {
	logger := log.With().Str("scenario", "bitcoin_liquidation").Logger()
	tp := clock.NewTest(anchor)

	f := mustOriginate(facility.Config{
		Commitment: money.FromMajor(50_000),
		Kind:       facility.OpenTerm(),
		Interest: facility.InterestConfig{
			DayCount:    types.Actual365,
			Compounding: types.CompoundDaily,
			BaseRate:    money.MustRateFromString("0.09"),
		},
		Payment: facility.PaymentConfig{Overpayment: types.OverpayRefund},
		Collateral: &facility.CollateralConfig{
			AssetType: "BTC",
			LtvThresholds: types.LtvThresholds{
				Initial:     money.MustRateFromString("0.50"),
				Warning:     money.MustRateFromString("0.60"),
				MarginCall:  money.MustRateFromString("0.70"),
				Liquidation: money.MustRateFromString("0.75"),
			},
		},
	}, tp)

	must(f.Approve())
	mustDisburse(f, money.FromMajor(50_000))

	for _, price := range []int64{120_000, 80_000, 70_000, 65_000} {
		status, err := f.UpdateCollateral(types.CollateralPosition{
			AssetAmount:     decimal.NewFromInt(1),
			CurrentValue:    money.FromMajor(price),
			ValuationSource: "simulation",
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("valuation update failed")
		}
		logger.Info().
			Int64("btc_price", price).
			Str("ltv", status.Ltv.String()).
			Str("band", string(status.Band)).
			Msg("collateral revalued")
	}

	if _, err := f.ApplyLiquidationProceeds(money.FromMajor(65_000)); err != nil {
		logger.Fatal().Err(err).Msg("liquidation proceeds failed")
	}
	logger.Info().Str("status", string(f.State.Status)).Msg("liquidation settled the facility")
}

func runOverdraftBuffer(anchor time.Time) {
	logger := log.With().Str("scenario", "overdraft_buffer").Logger()
	tp := clock.NewTest(anchor)

	f := mustOriginate(facility.Config{
		Commitment: money.FromMajor(1_000),
		Kind:       facility.Overdraft(money.FromMajor(100), money.FromMajor(5)),
		Interest: facility.InterestConfig{
			DayCount:    types.Actual365,
			Compounding: types.CompoundDaily,
			BaseRate:    money.ZeroRate,
		},
		Payment: facility.PaymentConfig{Overpayment: types.OverpayRefund},
	}, tp)

	must(f.Approve())
	mustDisburse(f, money.FromMajor(50))

	tp.AdvanceDays(1)
	mustSweep(f)
	logger.Info().Str("fees", f.State.AccruedFees.Display()).Msg("within buffer, no fee")

	mustDisburse(f, money.FromMajor(150))
	for i := 0; i < 3; i++ {
		tp.AdvanceDays(1)
		mustSweep(f)
	}
	logger.Info().Str("fees", f.State.AccruedFees.Display()).Msg("beyond buffer, daily fees charged")

	if _, err := f.MakePayment(f.State.TotalOutstanding()); err != nil {
		logger.Fatal().Err(err).Msg("clearing deposit failed")
	}
	logger.Info().Str("status", string(f.State.Status)).Msg("balance cleared")
}

func mustOriginate(cfg facility.Config, tp clock.TimeProvider) *facility.Facility {
	f, err := facility.Originate(cfg, "ACC-SIM", "CUST-SIM", tp)
	if err != nil {
		log.Fatal().Err(err).Msg("origination failed")
	}
	return f
}

func mustDisburse(f *facility.Facility, amount money.Money) {
	if _, err := f.Disburse(amount); err != nil {
		log.Fatal().Err(err).Str("amount", amount.Display()).Msg("disbursement failed")
	}
}

func mustSweep(f *facility.Facility) *facility.StatusReport {
	report, err := f.UpdateDailyStatus()
	if err != nil {
		log.Fatal().Err(err).Msg("daily sweep failed")
	}
	return report
}

func must(err error) {
	if err != nil {
		log.Fatal().Err(err).Msg("operation failed")
	}
}
