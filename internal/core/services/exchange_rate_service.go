package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/WooHyucks/nbbang-backend/internal/apperrors"
	"github.com/WooHyucks/nbbang-backend/internal/core/domain"
	portsrepo "github.com/WooHyucks/nbbang-backend/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// systemUserID marks snapshot rows written by the sync job rather than
// a request.
const systemUserID = "system"

// ExchangeRateService resolves conversion rates into KRW backed by a
// daily snapshot cache and an external bulk source.
type ExchangeRateService struct {
	BaseService
	snapshotRepo portsrepo.RateSnapshotRepositoryFacade
	rateSource   portsrepo.RateSource
	now          func() time.Time
}

// NewExchangeRateService creates a new ExchangeRateService.
func NewExchangeRateService(snapshotRepo portsrepo.RateSnapshotRepositoryFacade, rateSource portsrepo.RateSource) *ExchangeRateService {
	return &ExchangeRateService{
		snapshotRepo: snapshotRepo,
		rateSource:   rateSource,
		now:          time.Now,
	}
}

// GetRate resolves the KRW rate for one unit of currency on the given
// date. Resolution order: exact snapshot, sync-and-retry when the date
// is today, the most recent earlier snapshot, and finally the identity
// rate 1. Only storage failures produce an error.
func (s *ExchangeRateService) GetRate(ctx context.Context, currency string, date time.Time) (decimal.Decimal, error) {
	if currency == domain.SettlementCurrency {
		// Same-currency conversion needs no lookup.
		return decimal.NewFromInt(1), nil
	}

	key := domain.DateKey(date)

	snap, err := s.snapshotRepo.FindSnapshot(ctx, key, currency)
	if err == nil {
		return snap.Rate, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return decimal.Zero, fmt.Errorf("failed to find rate snapshot: %w", err)
	}

	// A miss for today's date usually means the sync job hasn't run yet.
	if key == domain.DateKey(s.now()) {
		if syncErr := s.SyncDailyRates(ctx); syncErr != nil {
			// The external source being down must not break rate
			// resolution while a stored fallback may still exist.
			s.LogError(ctx, syncErr, "daily rate sync failed during lookup", slog.String("currency", currency))
		} else {
			snap, err = s.snapshotRepo.FindSnapshot(ctx, key, currency)
			if err == nil {
				return snap.Rate, nil
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return decimal.Zero, fmt.Errorf("failed to find rate snapshot after sync: %w", err)
			}
		}
	}

	prior, err := s.snapshotRepo.FindLatestSnapshotBefore(ctx, key, currency)
	if err == nil {
		return prior.Rate, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return decimal.Zero, fmt.Errorf("failed to find prior rate snapshot: %w", err)
	}

	s.LogInfo(ctx, "no rate snapshot available, using identity rate",
		slog.String("currency", currency), slog.String("date", key))
	return decimal.NewFromInt(1), nil
}

// SyncDailyRates fetches today's rates from the external source and
// upserts one snapshot per currency. The source quotes "1 KRW = X
// currency"; snapshots store the reciprocal "1 currency = 1/X KRW".
func (s *ExchangeRateService) SyncDailyRates(ctx context.Context) error {
	rates, err := s.rateSource.FetchLatestRates(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch latest rates: %w", err)
	}

	now := s.now()
	today := domain.DateKey(now)
	synced := 0
	for currency, perKRW := range rates {
		if currency == domain.SettlementCurrency || perKRW.LessThanOrEqual(decimal.Zero) {
			continue
		}
		snapshot := domain.RateSnapshot{
			SnapshotID: uuid.NewString(),
			Date:       today,
			Currency:   currency,
			Rate:       decimal.NewFromInt(1).Div(perKRW),
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     systemUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: systemUserID,
			},
		}
		if err := s.snapshotRepo.UpsertSnapshot(ctx, snapshot); err != nil {
			return fmt.Errorf("failed to upsert rate snapshot for %s: %w", currency, err)
		}
		synced++
	}

	s.LogInfo(ctx, "daily rates synced", slog.String("date", today), slog.Int("currencies", synced))
	return nil
}
