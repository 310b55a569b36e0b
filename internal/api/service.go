package api

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/oeo/credit-facility/internal/clock"
	"github.com/oeo/credit-facility/internal/facility"
	"github.com/oeo/credit-facility/internal/money"
	"github.com/oeo/credit-facility/internal/types"
)

// Service owns the live facilities and serializes all mutation on them. The
// engine itself is single-owner; the mutex here is that owner. Every
// successful mutation journals the drained events and a fresh snapshot.
type Service struct {
	mu         sync.Mutex
	facilities map[string]*facility.Facility
	db         *Database
	clock      clock.TimeProvider
}

// NewService creates a facility service bound to a database and time provider.
func NewService(gormDB *gorm.DB, tp clock.TimeProvider) *Service {
	return &Service{
		facilities: make(map[string]*facility.Facility),
		db:         NewDatabase(gormDB),
		clock:      tp,
	}
}

// GetDB exposes the service's database wrapper.
func (s *Service) GetDB() *Database {
	return s.db
}

// CreateFacility originates a facility from the request configuration.
func (s *Service) CreateFacility(req CreateFacilityRequest) (*facility.View, error) {
	cfg, err := req.toConfig()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := facility.Originate(cfg, req.AccountID, req.CustomerID, s.clock)
	if err != nil {
		return nil, err
	}
	s.facilities[f.ID.String()] = f

	log.Info().
		Str("component", "facility_service").
		Str("facility_id", f.ID.String()).
		Str("kind", string(cfg.Kind.Type)).
		Str("commitment", cfg.Commitment.Display()).
		Msg("facility originated")

	s.persist(f, "origination")
	view := f.Snapshot()
	return &view, nil
}

// Approve activates an originated facility.
func (s *Service) Approve(facilityID string) (*facility.View, error) {
	return s.mutate(facilityID, "approve", func(f *facility.Facility) error {
		return f.Approve()
	})
}

// Deny cancels an originated facility.
func (s *Service) Deny(facilityID string) (*facility.View, error) {
	return s.mutate(facilityID, "deny", func(f *facility.Facility) error {
		return f.Deny()
	})
}

// Disburse draws funds onto a facility.
func (s *Service) Disburse(facilityID, amount string) (*facility.View, error) {
	return s.mutate(facilityID, "disbursement", func(f *facility.Facility) error {
		m, err := money.FromString(amount)
		if err != nil {
			return err
		}
		_, err = f.Disburse(m)
		return err
	})
}

// MakePayment applies cash through the waterfall and returns the application.
func (s *Service) MakePayment(facilityID, amount string) (*types.PaymentApplication, error) {
	var app *types.PaymentApplication
	_, err := s.mutate(facilityID, "payment", func(f *facility.Facility) error {
		m, err := money.FromString(amount)
		if err != nil {
			return err
		}
		app, err = f.MakePayment(m)
		return err
	})
	return app, err
}

// ProcessScheduledPayment debits the current scheduled installment.
func (s *Service) ProcessScheduledPayment(facilityID string) (*types.PaymentApplication, error) {
	var app *types.PaymentApplication
	_, err := s.mutate(facilityID, "scheduled_payment", func(f *facility.Facility) error {
		var err error
		app, err = f.ProcessScheduledPayment()
		return err
	})
	return app, err
}

// UpdateCollateral pushes a new collateral valuation into a secured facility.
func (s *Service) UpdateCollateral(facilityID string, req ValuationRequest) (*facility.LtvStatus, error) {
	var status *facility.LtvStatus
	_, err := s.mutate(facilityID, "collateral_valuation", func(f *facility.Facility) error {
		position, err := req.toPosition()
		if err != nil {
			return err
		}
		status, err = f.UpdateCollateral(position)
		return err
	})
	return status, err
}

// ApplyLiquidationProceeds reports collateral sale proceeds back into a
// liquidating facility.
func (s *Service) ApplyLiquidationProceeds(facilityID, amount string) (*types.PaymentApplication, error) {
	var app *types.PaymentApplication
	_, err := s.mutate(facilityID, "liquidation_proceeds", func(f *facility.Facility) error {
		m, err := money.FromString(amount)
		if err != nil {
			return err
		}
		app, err = f.ApplyLiquidationProceeds(m)
		return err
	})
	return app, err
}

// Sweep runs the daily status update over every live facility. Closed
// facilities are skipped; individual failures do not stop the sweep.
func (s *Service) Sweep() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	swept := 0
	for id, f := range s.facilities {
		if f.State.Status.Terminal() || f.State.Status == types.StatusOriginated {
			continue
		}
		if _, err := f.UpdateDailyStatus(); err != nil {
			log.Error().
				Str("component", "facility_service").
				Str("facility_id", id).
				Err(err).
				Msg("daily sweep failed for facility")
			continue
		}
		s.persist(f, "daily_sweep")
		swept++
	}
	return swept, nil
}

// GetFacility returns the current readout view.
func (s *Service) GetFacility(facilityID string) (*facility.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.facilities[facilityID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	view := f.Snapshot()
	return &view, nil
}

// Events returns the journaled audit events for a facility.
func (s *Service) Events(facilityID string) ([]EventRecord, error) {
	return s.db.EventsByFacility(facilityID)
}

// mutate looks up the facility, applies the operation under the service
// lock, and persists events and a snapshot on success.
func (s *Service) mutate(facilityID, trigger string, op func(*facility.Facility) error) (*facility.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.facilities[facilityID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if err := op(f); err != nil {
		return nil, err
	}

	s.persist(f, trigger)
	view := f.Snapshot()
	return &view, nil
}

// persist journals the drained events and appends a snapshot row. Journal
// failures are logged, not propagated; the engine state is the source of
// truth and the journal is an audit trail.
func (s *Service) persist(f *facility.Facility, trigger string) {
	logger := log.With().
		Str("component", "facility_service").
		Str("facility_id", f.ID.String()).
		Logger()

	events := f.TakeEvents()
	records := make([]EventRecord, 0, len(events))
	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			logger.Error().Err(err).Str("event_type", e.EventType()).Msg("failed to encode event")
			continue
		}
		records = append(records, EventRecord{
			EventID:    e.EventID().String(),
			FacilityID: f.ID.String(),
			EventType:  e.EventType(),
			Payload:    string(payload),
			OccurredAt: e.OccurredAt(),
		})
	}
	if err := s.db.AppendEvents(records); err != nil {
		logger.Error().Err(err).Msg("failed to journal events")
	}

	snapshot := &FacilitySnapshot{
		FacilityID: f.ID.String(),
		AccountID:  f.State.AccountID,
		CustomerID: f.State.CustomerID,
		Status:     string(f.State.Status),
		Kind:       string(f.Config.Kind.Type),
		Snapshot:   f.JSON(),
		Trigger:    trigger,
		CapturedAt: s.clock.Now(),
	}
	if err := s.db.SaveSnapshot(snapshot); err != nil {
		logger.Error().Err(err).Msg("failed to save snapshot")
	}
}

func (r ValuationRequest) toPosition() (types.CollateralPosition, error) {
	value, err := money.FromString(r.CurrentValue)
	if err != nil {
		return types.CollateralPosition{}, err
	}
	amount, err := money.FromString(r.AssetAmount)
	if err != nil {
		return types.CollateralPosition{}, err
	}
	return types.CollateralPosition{
		AssetAmount:     amount.Decimal(),
		CurrentValue:    value,
		ValuationSource: r.Source,
	}, nil
}
