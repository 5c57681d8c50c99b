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
	"github.com/WooHyucks/nbbang-backend/internal/dto"
)

var (
	// ErrLeaderUndeletable indicates an attempt to delete the meeting's leader.
	ErrLeaderUndeletable = errors.New("the meeting leader cannot be deleted")
	// ErrLeaderRequired indicates an attempt to leave the meeting without a leader.
	ErrLeaderRequired = errors.New("a meeting must keep exactly one leader")
	// ErrMemberReferenced indicates the member is named by a payment and
	// cannot be removed.
	ErrMemberReferenced = errors.New("member is referenced by a payment")
)

// MemberService maintains the participants of a meeting and the
// single-leader invariant.
type MemberService struct {
	BaseService
	memberRepo       portsrepo.MemberRepositoryFacade
	meetingRepo      portsrepo.MeetingRepositoryFacade
	paymentRepo      portsrepo.PaymentRepositoryFacade
	contributionRepo portsrepo.ContributionRepositoryFacade
	now              func() time.Time
}

// NewMemberService creates a new MemberService.
func NewMemberService(
	memberRepo portsrepo.MemberRepositoryFacade,
	meetingRepo portsrepo.MeetingRepositoryFacade,
	paymentRepo portsrepo.PaymentRepositoryFacade,
	contributionRepo portsrepo.ContributionRepositoryFacade,
) *MemberService {
	return &MemberService{
		memberRepo:       memberRepo,
		meetingRepo:      meetingRepo,
		paymentRepo:      paymentRepo,
		contributionRepo: contributionRepo,
		now:              time.Now,
	}
}

func (s *MemberService) ownedMeeting(ctx context.Context, meetingID int64, requesterUserID string) (*domain.Meeting, error) {
	meeting, err := s.meetingRepo.FindMeetingByID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}
	if !meeting.OwnedBy(requesterUserID) {
		return nil, fmt.Errorf("%w: meeting %d does not belong to user", apperrors.ErrForbidden, meetingID)
	}
	return meeting, nil
}

// ListMembers retrieves all members of a meeting owned by the user.
func (s *MemberService) ListMembers(ctx context.Context, meetingID int64, requesterUserID string) ([]domain.Member, error) {
	if _, err := s.ownedMeeting(ctx, meetingID, requesterUserID); err != nil {
		return nil, err
	}
	members, err := s.memberRepo.FindMembersByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// CreateMember adds a member to a meeting. The first member of a
// meeting becomes its leader regardless of the request flag; asking for
// leadership later transfers it from the current leader.
func (s *MemberService) CreateMember(ctx context.Context, meetingID int64, req dto.CreateMemberRequest, requesterUserID string) (*domain.Member, error) {
	if _, err := s.ownedMeeting(ctx, meetingID, requesterUserID); err != nil {
		return nil, err
	}

	existing, err := s.memberRepo.FindMembersByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	for _, m := range existing {
		if m.Name == req.Name {
			return nil, fmt.Errorf("%w: member name %q already exists in meeting", apperrors.ErrDuplicate, req.Name)
		}
	}

	leader := req.Leader
	if len(existing) == 0 {
		leader = true
	}

	now := s.now()
	member := domain.Member{
		MeetingID: meetingID,
		Name:      req.Name,
		Leader:    leader,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requesterUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requesterUserID,
		},
	}

	if leader && len(existing) > 0 {
		if err := s.demoteCurrentLeader(ctx, existing, requesterUserID); err != nil {
			return nil, err
		}
	}

	saved, err := s.memberRepo.SaveMember(ctx, member)
	if err != nil {
		return nil, fmt.Errorf("failed to save member: %w", err)
	}

	s.LogInfo(ctx, "member created",
		slog.Int64("meeting_id", meetingID),
		slog.Int64("member_id", saved.MemberID),
		slog.Bool("leader", saved.Leader))
	return saved, nil
}

func (s *MemberService) demoteCurrentLeader(ctx context.Context, members []domain.Member, requesterUserID string) error {
	for _, m := range members {
		if !m.Leader {
			continue
		}
		m.Leader = false
		m.LastUpdatedAt = s.now()
		m.LastUpdatedBy = requesterUserID
		if err := s.memberRepo.UpdateMember(ctx, m); err != nil {
			return fmt.Errorf("failed to transfer leadership: %w", err)
		}
	}
	return nil
}

// UpdateMember renames a member or transfers leadership to them.
// Stripping the leader flag from the current leader is rejected since
// every meeting must keep one.
func (s *MemberService) UpdateMember(ctx context.Context, meetingID, memberID int64, req dto.UpdateMemberRequest, requesterUserID string) (*domain.Member, error) {
	if _, err := s.ownedMeeting(ctx, meetingID, requesterUserID); err != nil {
		return nil, err
	}

	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	if member.MeetingID != meetingID {
		return nil, fmt.Errorf("%w: member %d not in meeting %d", apperrors.ErrNotFound, memberID, meetingID)
	}

	if req.Name != nil && *req.Name != "" {
		member.Name = *req.Name
	}

	if req.Leader != nil {
		if !*req.Leader && member.Leader {
			return nil, ErrLeaderRequired
		}
		if *req.Leader && !member.Leader {
			members, err := s.memberRepo.FindMembersByMeetingID(ctx, meetingID)
			if err != nil {
				return nil, fmt.Errorf("failed to list members: %w", err)
			}
			if err := s.demoteCurrentLeader(ctx, members, requesterUserID); err != nil {
				return nil, err
			}
			member.Leader = true
		}
	}

	member.LastUpdatedAt = s.now()
	member.LastUpdatedBy = requesterUserID

	if err := s.memberRepo.UpdateMember(ctx, *member); err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	return member, nil
}

// DeleteMember removes a member along with their fund contributions.
// The leader and members referenced by payments are protected.
func (s *MemberService) DeleteMember(ctx context.Context, meetingID, memberID int64, requesterUserID string) error {
	if _, err := s.ownedMeeting(ctx, meetingID, requesterUserID); err != nil {
		return err
	}

	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return fmt.Errorf("failed to find member: %w", err)
	}
	if member.MeetingID != meetingID {
		return fmt.Errorf("%w: member %d not in meeting %d", apperrors.ErrNotFound, memberID, meetingID)
	}
	if member.Leader {
		return ErrLeaderUndeletable
	}

	refs, err := s.paymentRepo.CountPaymentsReferencingMember(ctx, meetingID, memberID)
	if err != nil {
		return fmt.Errorf("failed to count payment references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: %d payments", ErrMemberReferenced, refs)
	}

	if err := s.contributionRepo.DeleteContributionsByMemberID(ctx, meetingID, memberID); err != nil {
		return fmt.Errorf("failed to delete member contributions: %w", err)
	}
	if err := s.memberRepo.DeleteMember(ctx, memberID); err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}

	s.LogInfo(ctx, "member deleted", slog.Int64("meeting_id", meetingID), slog.Int64("member_id", memberID))
	return nil
}
