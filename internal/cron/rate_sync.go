package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	portssvc "github.com/WooHyucks/nbbang-backend/internal/core/ports/services"
)

// rateSyncSchedule runs the sync once a day at midnight local time.
const rateSyncSchedule = "0 0 * * *"

// RateSyncScheduler refreshes exchange-rate snapshots on a daily schedule.
type RateSyncScheduler struct {
	cron   *cron.Cron
	rates  portssvc.ExchangeRateSvcFacade
	logger *slog.Logger
}

// NewRateSyncScheduler builds a scheduler pinned to the given timezone.
func NewRateSyncScheduler(rates portssvc.ExchangeRateSvcFacade, timezone string, logger *slog.Logger) (*RateSyncScheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load rate sync timezone %q: %w", timezone, err)
	}

	s := &RateSyncScheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		rates:  rates,
		logger: logger,
	}

	if _, err := s.cron.AddFunc(rateSyncSchedule, s.run); err != nil {
		return nil, fmt.Errorf("failed to register rate sync job: %w", err)
	}
	return s, nil
}

// Start begins the schedule. It returns immediately.
func (s *RateSyncScheduler) Start() {
	s.cron.Start()
	s.logger.Info("Rate sync scheduler started", slog.String("schedule", rateSyncSchedule))
}

// Stop halts the schedule and waits for a running job to finish.
func (s *RateSyncScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Rate sync scheduler stopped")
}

func (s *RateSyncScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.rates.SyncDailyRates(ctx); err != nil {
		s.logger.Error("Daily rate sync failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("Daily rate sync completed")
}
