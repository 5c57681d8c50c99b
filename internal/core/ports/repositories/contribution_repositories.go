package repositories

import (
	"context"

	"github.com/WooHyucks/nbbang-backend/internal/core/domain"
)

// ContributionReader defines read operations for shared fund contributions
type ContributionReader interface {
	// FindContributionsByMeetingID retrieves all contributions paid into a
	// meeting's shared fund, in insertion order.
	FindContributionsByMeetingID(ctx context.Context, meetingID int64) ([]domain.Contribution, error)

	// FindContributionByMemberID retrieves a member's contribution to the fund.
	FindContributionByMemberID(ctx context.Context, meetingID, memberID int64) (*domain.Contribution, error)
}

// ContributionWriter defines write operations for shared fund contributions
type ContributionWriter interface {
	// SaveContribution persists a new contribution and returns it with its assigned ID.
	SaveContribution(ctx context.Context, contribution domain.Contribution) (*domain.Contribution, error)

	// UpdateContribution updates an existing contribution's amount.
	UpdateContribution(ctx context.Context, contribution domain.Contribution) error

	// DeleteContributionsByMemberID removes a member's contributions.
	DeleteContributionsByMemberID(ctx context.Context, meetingID, memberID int64) error
}

// ContributionRepositoryFacade combines all contribution-related repository interfaces
type ContributionRepositoryFacade interface {
	ContributionReader
	ContributionWriter
}
