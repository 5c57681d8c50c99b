package repositories

import (
	"context"

	"github.com/WooHyucks/nbbang-backend/internal/core/domain"
)

// MemberReader defines read operations for member data
type MemberReader interface {
	// FindMemberByID retrieves a specific member by their ID.
	FindMemberByID(ctx context.Context, memberID int64) (*domain.Member, error)

	// FindMembersByMeetingID retrieves all members of a meeting in insertion order.
	FindMembersByMeetingID(ctx context.Context, meetingID int64) ([]domain.Member, error)

	// FindLeaderByMeetingID retrieves the meeting's leader member.
	FindLeaderByMeetingID(ctx context.Context, meetingID int64) (*domain.Member, error)
}

// MemberWriter defines write operations for member data
type MemberWriter interface {
	// SaveMember persists a new member and returns it with its assigned ID.
	SaveMember(ctx context.Context, member domain.Member) (*domain.Member, error)

	// UpdateMember updates an existing member's details.
	UpdateMember(ctx context.Context, member domain.Member) error

	// DeleteMember removes a member.
	DeleteMember(ctx context.Context, memberID int64) error
}

// MemberRepositoryFacade combines all member-related repository interfaces
type MemberRepositoryFacade interface {
	MemberReader
	MemberWriter
}
