package services

import (
	"context"

	"github.com/WooHyucks/nbbang-backend/internal/core/domain"
	"github.com/WooHyucks/nbbang-backend/internal/dto"
)

// MemberReaderSvc defines read operations for member data
type MemberReaderSvc interface {
	// ListMembers retrieves all members of a meeting owned by the user.
	ListMembers(ctx context.Context, meetingID int64, requesterUserID string) ([]domain.Member, error)
}

// MemberWriterSvc defines write operations for member data
type MemberWriterSvc interface {
	// CreateMember adds a member to a meeting. The first member of a
	// meeting becomes its leader regardless of the request flag.
	CreateMember(ctx context.Context, meetingID int64, req dto.CreateMemberRequest, requesterUserID string) (*domain.Member, error)

	// UpdateMember renames a member or transfers leadership.
	UpdateMember(ctx context.Context, meetingID, memberID int64, req dto.UpdateMemberRequest, requesterUserID string) (*domain.Member, error)

	// DeleteMember removes a member. Leaders and members referenced by a
	// payment cannot be removed.
	DeleteMember(ctx context.Context, meetingID, memberID int64, requesterUserID string) error
}

// MemberSvcFacade combines all member-related service interfaces
type MemberSvcFacade interface {
	MemberReaderSvc
	MemberWriterSvc
}
