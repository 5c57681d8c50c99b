package repositories

import (
	"context"

	"github.com/WooHyucks/nbbang-backend/internal/core/domain"
)

// RateSnapshotReader defines read operations for exchange rate snapshots
type RateSnapshotReader interface {
	// FindSnapshot retrieves the snapshot for an exact date (YYYY-MM-DD) and currency.
	FindSnapshot(ctx context.Context, date, currency string) (*domain.RateSnapshot, error)

	// FindLatestSnapshotBefore retrieves the most recent snapshot for the
	// currency dated on or before the given date.
	FindLatestSnapshotBefore(ctx context.Context, date, currency string) (*domain.RateSnapshot, error)
}

// RateSnapshotWriter defines write operations for exchange rate snapshots
type RateSnapshotWriter interface {
	// UpsertSnapshot persists a snapshot, replacing any existing row for
	// the same date and currency.
	UpsertSnapshot(ctx context.Context, snapshot domain.RateSnapshot) error
}

// RateSnapshotRepositoryFacade combines all snapshot-related repository interfaces
type RateSnapshotRepositoryFacade interface {
	RateSnapshotReader
	RateSnapshotWriter
}
