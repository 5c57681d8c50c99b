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

type PgxMemberRepository struct {
	BaseRepository
}

// newPgxMemberRepository creates a new repository for member data.
func newPgxMemberRepository(pool *pgxpool.Pool) portsrepo.MemberRepositoryFacade {
	return &PgxMemberRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MemberRepositoryFacade = (*PgxMemberRepository)(nil)

const memberColumns = `
	member_id, meeting_id, name, leader,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanMember(row pgx.Row) (*domain.Member, error) {
	var m domain.Member
	err := row.Scan(
		&m.MemberID,
		&m.MeetingID,
		&m.Name,
		&m.Leader,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindMemberByID retrieves a specific member by their ID.
func (r *PgxMemberRepository) FindMemberByID(ctx context.Context, memberID int64) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE member_id = $1;`
	member, err := scanMember(r.Pool.QueryRow(ctx, query, memberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find member %d: %w", memberID, err)
	}
	return member, nil
}

// FindMembersByMeetingID retrieves all members of a meeting in insertion order.
func (r *PgxMemberRepository) FindMembersByMeetingID(ctx context.Context, meetingID int64) ([]domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE meeting_id = $1 ORDER BY member_id;`
	rows, err := r.Pool.Query(ctx, query, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members for meeting %d: %w", meetingID, err)
	}
	defer rows.Close()

	members, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Member, error) {
		m, err := scanMember(row)
		if err != nil {
			return domain.Member{}, err
		}
		return *m, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan members: %w", err)
	}
	return members, nil
}

// FindLeaderByMeetingID retrieves the meeting's leader member.
func (r *PgxMemberRepository) FindLeaderByMeetingID(ctx context.Context, meetingID int64) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE meeting_id = $1 AND leader;`
	member, err := scanMember(r.Pool.QueryRow(ctx, query, meetingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find leader for meeting %d: %w", meetingID, err)
	}
	return member, nil
}

// SaveMember persists a new member and returns it with its assigned ID.
func (r *PgxMemberRepository) SaveMember(ctx context.Context, member domain.Member) (*domain.Member, error) {
	query := `
		INSERT INTO members (meeting_id, name, leader, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING member_id;
	`
	err := r.Pool.QueryRow(ctx, query,
		member.MeetingID,
		member.Name,
		member.Leader,
		member.CreatedAt,
		member.CreatedBy,
		member.LastUpdatedAt,
		member.LastUpdatedBy,
	).Scan(&member.MemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert member: %w", err)
	}
	return &member, nil
}

// UpdateMember updates an existing member's details.
func (r *PgxMemberRepository) UpdateMember(ctx context.Context, member domain.Member) error {
	query := `
		UPDATE members SET name = $2, leader = $3, last_updated_at = $4, last_updated_by = $5
		WHERE member_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		member.MemberID,
		member.Name,
		member.Leader,
		member.LastUpdatedAt,
		member.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update member %d: %w", member.MemberID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteMember removes a member.
func (r *PgxMemberRepository) DeleteMember(ctx context.Context, memberID int64) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM members WHERE member_id = $1;`, memberID)
	if err != nil {
		return fmt.Errorf("failed to delete member %d: %w", memberID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
