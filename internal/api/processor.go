package api

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Processor drives the daily sweep on a timer. The engine performs no
// background accrual of its own; this loop is the production caller of
// UpdateDailyStatus.
type Processor struct {
	service    *Service
	sweepEvery time.Duration
}

// NewProcessor creates a sweep processor over the given service.
func NewProcessor(service *Service, sweepEvery time.Duration) *Processor {
	if sweepEvery <= 0 {
		sweepEvery = 24 * time.Hour
	}
	return &Processor{
		service:    service,
		sweepEvery: sweepEvery,
	}
}

// Start begins the sweep loop and blocks until the context is cancelled.
func (p *Processor) Start(ctx context.Context) {
	logger := log.With().Str("component", "sweep_processor").Logger()
	logger.Info().Dur("interval", p.sweepEvery).Msg("starting daily sweep processor")

	ticker := time.NewTicker(p.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutting down sweep processor")
			return
		case <-ticker.C:
			swept, err := p.service.Sweep()
			if err != nil {
				logger.Error().Err(err).Msg("daily sweep failed")
				continue
			}
			logger.Info().Int("swept", swept).Msg("daily sweep complete")
		}
	}
}
