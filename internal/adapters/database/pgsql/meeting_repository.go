package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/WooHyucks/nbbang-backend/internal/apperrors"
	"github.com/WooHyucks/nbbang-backend/internal/core/domain"
	portsrepo "github.com/WooHyucks/nbbang-backend/internal/core/ports/repositories"
	"github.com/WooHyucks/nbbang-backend/internal/utils/crypto"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxMeetingRepository struct {
	BaseRepository
}

// newPgxMeetingRepository creates a new repository for meeting data.
func newPgxMeetingRepository(pool *pgxpool.Pool) portsrepo.MeetingRepositoryFacade {
	return &PgxMeetingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MeetingRepositoryFacade = (*PgxMeetingRepository)(nil)

const meetingColumns = `
	meeting_id, user_id, name, date, share_uuid, mode,
	simple_price, simple_member_count,
	country_code, target_currency, base_exchange_rate, initial_gonggeum,
	bank, account_number, kakao_deposit_id,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanMeeting(row pgx.Row) (*domain.Meeting, error) {
	var m domain.Meeting
	var bank, account []byte
	err := row.Scan(
		&m.MeetingID,
		&m.UserID,
		&m.Name,
		&m.Date,
		&m.ShareUUID,
		&m.Mode,
		&m.SimplePrice,
		&m.SimpleMemberCount,
		&m.CountryCode,
		&m.TargetCurrency,
		&m.BaseExchangeRate,
		&m.InitialGonggeum,
		&bank,
		&account,
		&m.KakaoDepositID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.Bank = crypto.FromSealed(bank)
	m.AccountNumber = crypto.FromSealed(account)
	return &m, nil
}

// FindMeetingByID retrieves a specific meeting by its ID.
func (r *PgxMeetingRepository) FindMeetingByID(ctx context.Context, meetingID int64) (*domain.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE meeting_id = $1 AND deleted_at IS NULL;`
	meeting, err := scanMeeting(r.Pool.QueryRow(ctx, query, meetingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find meeting %d: %w", meetingID, err)
	}
	return meeting, nil
}

// FindMeetingByShareUUID retrieves a meeting by its public share identifier.
func (r *PgxMeetingRepository) FindMeetingByShareUUID(ctx context.Context, shareUUID string) (*domain.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE share_uuid = $1 AND deleted_at IS NULL;`
	meeting, err := scanMeeting(r.Pool.QueryRow(ctx, query, shareUUID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find meeting by share uuid: %w", err)
	}
	return meeting, nil
}

// FindMeetingsByUserID retrieves all meetings owned by a user, newest first.
func (r *PgxMeetingRepository) FindMeetingsByUserID(ctx context.Context, userID string) ([]domain.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY date DESC, meeting_id DESC;`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query meetings for user %s: %w", userID, err)
	}
	defer rows.Close()

	meetings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Meeting, error) {
		m, err := scanMeeting(row)
		if err != nil {
			return domain.Meeting{}, err
		}
		return *m, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan meetings: %w", err)
	}
	return meetings, nil
}

// SaveMeeting persists a new meeting and returns it with its assigned ID.
func (r *PgxMeetingRepository) SaveMeeting(ctx context.Context, meeting domain.Meeting) (*domain.Meeting, error) {
	query := `
		INSERT INTO meetings (
			user_id, name, date, share_uuid, mode,
			simple_price, simple_member_count,
			country_code, target_currency, base_exchange_rate, initial_gonggeum,
			bank, account_number, kakao_deposit_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING meeting_id;
	`
	err := r.Pool.QueryRow(ctx, query,
		meeting.UserID,
		meeting.Name,
		meeting.Date,
		meeting.ShareUUID,
		meeting.Mode,
		meeting.SimplePrice,
		meeting.SimpleMemberCount,
		meeting.CountryCode,
		meeting.TargetCurrency,
		meeting.BaseExchangeRate,
		meeting.InitialGonggeum,
		meeting.Bank.Sealed(),
		meeting.AccountNumber.Sealed(),
		meeting.KakaoDepositID,
		meeting.CreatedAt,
		meeting.CreatedBy,
		meeting.LastUpdatedAt,
		meeting.LastUpdatedBy,
	).Scan(&meeting.MeetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert meeting: %w", err)
	}
	return &meeting, nil
}

// UpdateMeeting updates an existing meeting's details.
func (r *PgxMeetingRepository) UpdateMeeting(ctx context.Context, meeting domain.Meeting) error {
	query := `
		UPDATE meetings SET
			name = $2, date = $3,
			simple_price = $4, simple_member_count = $5,
			bank = $6, account_number = $7, kakao_deposit_id = $8,
			initial_gonggeum = $9,
			last_updated_at = $10, last_updated_by = $11
		WHERE meeting_id = $1 AND deleted_at IS NULL;
	`
	tag, err := r.Pool.Exec(ctx, query,
		meeting.MeetingID,
		meeting.Name,
		meeting.Date,
		meeting.SimplePrice,
		meeting.SimpleMemberCount,
		meeting.Bank.Sealed(),
		meeting.AccountNumber.Sealed(),
		meeting.KakaoDepositID,
		meeting.InitialGonggeum,
		meeting.LastUpdatedAt,
		meeting.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update meeting %d: %w", meeting.MeetingID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteMeeting removes a meeting and everything hanging off it in one
// transaction. The meeting row itself is kept with a deletion marker.
func (r *PgxMeetingRepository) DeleteMeeting(ctx context.Context, meetingID int64, deletedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	for _, query := range []string{
		`DELETE FROM payments WHERE meeting_id = $1;`,
		`DELETE FROM contributions WHERE meeting_id = $1;`,
		`DELETE FROM members WHERE meeting_id = $1;`,
	} {
		if _, err := tx.Exec(ctx, query, meetingID); err != nil {
			return fmt.Errorf("failed to cascade delete meeting %d: %w", meetingID, err)
		}
	}

	tag, err := tx.Exec(ctx, `UPDATE meetings SET deleted_at = $2 WHERE meeting_id = $1 AND deleted_at IS NULL;`, meetingID, deletedAt)
	if err != nil {
		return fmt.Errorf("failed to delete meeting %d: %w", meetingID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}
