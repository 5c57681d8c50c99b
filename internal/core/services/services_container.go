package services

import (
	"fmt"

	portsrepo "github.com/WooHyucks/nbbang-backend/internal/core/ports/repositories"
	portssvc "github.com/WooHyucks/nbbang-backend/internal/core/ports/services"
	"github.com/WooHyucks/nbbang-backend/internal/platform/config"
	"github.com/WooHyucks/nbbang-backend/internal/utils/crypto"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) (*portssvc.ServiceContainer, error) {
	cipher, err := crypto.NewCipher(cfg.EncryptionSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize field cipher: %w", err)
	}

	container := &portssvc.ServiceContainer{}

	// The exchange-rate service comes first since meeting, payment and
	// settlement all resolve rates through it.
	container.ExchangeRate = NewExchangeRateService(repos.RateSnapshotRepo, repos.RateSource)

	container.Meeting = NewMeetingService(
		repos.MeetingRepo,
		repos.MemberRepo,
		repos.PaymentRepo,
		repos.ContributionRepo,
		container.ExchangeRate,
		cipher,
	)
	container.Member = NewMemberService(
		repos.MemberRepo,
		repos.MeetingRepo,
		repos.PaymentRepo,
		repos.ContributionRepo,
	)
	container.Payment = NewPaymentService(
		repos.PaymentRepo,
		repos.MeetingRepo,
		repos.MemberRepo,
		container.ExchangeRate,
	)
	container.Settlement = NewSettlementService(
		repos.MeetingRepo,
		repos.MemberRepo,
		repos.PaymentRepo,
		repos.ContributionRepo,
		container.ExchangeRate,
		cipher,
	)

	return container, nil
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.MeetingSvcFacade      = (*MeetingService)(nil)
	_ portssvc.MemberSvcFacade       = (*MemberService)(nil)
	_ portssvc.PaymentSvcFacade      = (*PaymentService)(nil)
	_ portssvc.ExchangeRateSvcFacade = (*ExchangeRateService)(nil)
	_ portssvc.SettlementSvcFacade   = (*SettlementService)(nil)
)
