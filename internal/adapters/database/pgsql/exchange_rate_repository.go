package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/WooHyucks/nbbang-backend/internal/apperrors"
	"github.com/WooHyucks/nbbang-backend/internal/core/domain"
	portsrepo "github.com/WooHyucks/nbbang-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRateSnapshotRepository struct {
	BaseRepository
}

// newPgxRateSnapshotRepository creates a new repository for daily
// exchange rate snapshots.
func newPgxRateSnapshotRepository(pool *pgxpool.Pool) portsrepo.RateSnapshotRepositoryFacade {
	return &PgxRateSnapshotRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RateSnapshotRepositoryFacade = (*PgxRateSnapshotRepository)(nil)

const snapshotColumns = `
	snapshot_id, date, currency, rate,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanSnapshot(row pgx.Row) (*domain.RateSnapshot, error) {
	var s domain.RateSnapshot
	err := row.Scan(
		&s.SnapshotID,
		&s.Date,
		&s.Currency,
		&s.Rate,
		&s.CreatedAt,
		&s.CreatedBy,
		&s.LastUpdatedAt,
		&s.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindSnapshot retrieves the snapshot for an exact date and currency.
func (r *PgxRateSnapshotRepository) FindSnapshot(ctx context.Context, date, currency string) (*domain.RateSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM exchange_rate_snapshots WHERE date = $1 AND currency = $2;`
	snapshot, err := scanSnapshot(r.Pool.QueryRow(ctx, query, date, currency))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find snapshot %s/%s: %w", date, currency, err)
	}
	return snapshot, nil
}

// FindLatestSnapshotBefore retrieves the most recent snapshot for the
// currency dated on or before the given date.
func (r *PgxRateSnapshotRepository) FindLatestSnapshotBefore(ctx context.Context, date, currency string) (*domain.RateSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM exchange_rate_snapshots
		WHERE date <= $1 AND currency = $2
		ORDER BY date DESC
		LIMIT 1;`
	snapshot, err := scanSnapshot(r.Pool.QueryRow(ctx, query, date, currency))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest snapshot before %s for %s: %w", date, currency, err)
	}
	return snapshot, nil
}

// UpsertSnapshot persists a snapshot, replacing any existing row for the
// same date and currency.
func (r *PgxRateSnapshotRepository) UpsertSnapshot(ctx context.Context, snapshot domain.RateSnapshot) error {
	query := `
		INSERT INTO exchange_rate_snapshots (snapshot_id, date, currency, rate, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (date, currency) DO UPDATE SET
			rate = EXCLUDED.rate,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		snapshot.SnapshotID,
		snapshot.Date,
		snapshot.Currency,
		snapshot.Rate,
		snapshot.CreatedAt,
		snapshot.CreatedBy,
		snapshot.LastUpdatedAt,
		snapshot.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot %s/%s: %w", snapshot.Date, snapshot.Currency, err)
	}
	return nil
}
