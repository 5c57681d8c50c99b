package pgsql

import (
	portsrepo "github.com/WooHyucks/nbbang-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgsql repository plus the external
// rate source into one provider for the service container.
func NewRepositoryProvider(dbPool *pgxpool.Pool, rateSource portsrepo.RateSource) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		MeetingRepo:      newPgxMeetingRepository(dbPool),
		MemberRepo:       newPgxMemberRepository(dbPool),
		PaymentRepo:      newPgxPaymentRepository(dbPool),
		ContributionRepo: newPgxContributionRepository(dbPool),
		RateSnapshotRepo: newPgxRateSnapshotRepository(dbPool),
		RateSource:       rateSource,
	}
}
