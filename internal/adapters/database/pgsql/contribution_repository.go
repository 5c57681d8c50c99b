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

type PgxContributionRepository struct {
	BaseRepository
}

// newPgxContributionRepository creates a new repository for shared fund
// contributions.
func newPgxContributionRepository(pool *pgxpool.Pool) portsrepo.ContributionRepositoryFacade {
	return &PgxContributionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ContributionRepositoryFacade = (*PgxContributionRepository)(nil)

const contributionColumns = `
	contribution_id, member_id, meeting_id, amount,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanContribution(row pgx.Row) (*domain.Contribution, error) {
	var c domain.Contribution
	err := row.Scan(
		&c.ContributionID,
		&c.MemberID,
		&c.MeetingID,
		&c.Amount,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindContributionsByMeetingID retrieves all contributions paid into a
// meeting's shared fund, in insertion order.
func (r *PgxContributionRepository) FindContributionsByMeetingID(ctx context.Context, meetingID int64) ([]domain.Contribution, error) {
	query := `SELECT ` + contributionColumns + ` FROM contributions WHERE meeting_id = $1 ORDER BY contribution_id;`
	rows, err := r.Pool.Query(ctx, query, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contributions for meeting %d: %w", meetingID, err)
	}
	defer rows.Close()

	contributions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Contribution, error) {
		c, err := scanContribution(row)
		if err != nil {
			return domain.Contribution{}, err
		}
		return *c, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan contributions: %w", err)
	}
	return contributions, nil
}

// FindContributionByMemberID retrieves a member's contribution to the fund.
func (r *PgxContributionRepository) FindContributionByMemberID(ctx context.Context, meetingID, memberID int64) (*domain.Contribution, error) {
	query := `SELECT ` + contributionColumns + ` FROM contributions WHERE meeting_id = $1 AND member_id = $2;`
	contribution, err := scanContribution(r.Pool.QueryRow(ctx, query, meetingID, memberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find contribution for member %d: %w", memberID, err)
	}
	return contribution, nil
}

// SaveContribution persists a new contribution and returns it with its
// assigned ID.
func (r *PgxContributionRepository) SaveContribution(ctx context.Context, contribution domain.Contribution) (*domain.Contribution, error) {
	query := `
		INSERT INTO contributions (member_id, meeting_id, amount, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING contribution_id;
	`
	err := r.Pool.QueryRow(ctx, query,
		contribution.MemberID,
		contribution.MeetingID,
		contribution.Amount,
		contribution.CreatedAt,
		contribution.CreatedBy,
		contribution.LastUpdatedAt,
		contribution.LastUpdatedBy,
	).Scan(&contribution.ContributionID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert contribution: %w", err)
	}
	return &contribution, nil
}

// UpdateContribution updates an existing contribution's amount.
func (r *PgxContributionRepository) UpdateContribution(ctx context.Context, contribution domain.Contribution) error {
	query := `
		UPDATE contributions SET amount = $2, last_updated_at = $3, last_updated_by = $4
		WHERE contribution_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		contribution.ContributionID,
		contribution.Amount,
		contribution.LastUpdatedAt,
		contribution.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update contribution %d: %w", contribution.ContributionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteContributionsByMemberID removes a member's contributions.
func (r *PgxContributionRepository) DeleteContributionsByMemberID(ctx context.Context, meetingID, memberID int64) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM contributions WHERE meeting_id = $1 AND member_id = $2;`, meetingID, memberID)
	if err != nil {
		return fmt.Errorf("failed to delete contributions for member %d: %w", memberID, err)
	}
	return nil
}
