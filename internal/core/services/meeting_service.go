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
	portssvc "github.com/WooHyucks/nbbang-backend/internal/core/ports/services"
	"github.com/WooHyucks/nbbang-backend/internal/dto"
	"github.com/WooHyucks/nbbang-backend/internal/utils/crypto"
	"github.com/WooHyucks/nbbang-backend/internal/utils/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrWrongMeetingMode indicates an operation that does not apply to
	// the meeting's mode, like adding budget to a non-trip meeting.
	ErrWrongMeetingMode = errors.New("operation does not apply to this meeting mode")
	// ErrUnknownAdvancePayer indicates an advance payment named a member
	// that was not created by the contributions of the same request.
	ErrUnknownAdvancePayer = errors.New("advance payment names a member missing from contributions")
)

// MeetingService owns the meeting lifecycle: creation in all three
// modes, info updates, fund top-ups and deletion.
type MeetingService struct {
	BaseService
	meetingRepo      portsrepo.MeetingRepositoryFacade
	memberRepo       portsrepo.MemberRepositoryFacade
	paymentRepo      portsrepo.PaymentRepositoryFacade
	contributionRepo portsrepo.ContributionRepositoryFacade
	rates            portssvc.ExchangeRateSvcFacade
	cipher           *crypto.Cipher
	now              func() time.Time
}

// NewMeetingService creates a new MeetingService.
func NewMeetingService(
	meetingRepo portsrepo.MeetingRepositoryFacade,
	memberRepo portsrepo.MemberRepositoryFacade,
	paymentRepo portsrepo.PaymentRepositoryFacade,
	contributionRepo portsrepo.ContributionRepositoryFacade,
	rates portssvc.ExchangeRateSvcFacade,
	cipher *crypto.Cipher,
) *MeetingService {
	return &MeetingService{
		meetingRepo:      meetingRepo,
		memberRepo:       memberRepo,
		paymentRepo:      paymentRepo,
		contributionRepo: contributionRepo,
		rates:            rates,
		cipher:           cipher,
		now:              time.Now,
	}
}

func (s *MeetingService) ownedMeeting(ctx context.Context, meetingID int64, requesterUserID string) (*domain.Meeting, error) {
	meeting, err := s.meetingRepo.FindMeetingByID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}
	if !meeting.OwnedBy(requesterUserID) {
		return nil, fmt.Errorf("%w: meeting %d does not belong to user", apperrors.ErrForbidden, meetingID)
	}
	return meeting, nil
}

func (s *MeetingService) audit(userID string) domain.AuditFields {
	now := s.now()
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
}

// GetMeeting retrieves a meeting owned by the requesting user.
func (s *MeetingService) GetMeeting(ctx context.Context, meetingID int64, requesterUserID string) (*domain.Meeting, error) {
	return s.ownedMeeting(ctx, meetingID, requesterUserID)
}

// GetMeetingByShareUUID retrieves a meeting by its public share identifier.
func (s *MeetingService) GetMeetingByShareUUID(ctx context.Context, shareUUID string) (*domain.Meeting, error) {
	meeting, err := s.meetingRepo.FindMeetingByShareUUID(ctx, shareUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to find meeting by share uuid: %w", err)
	}
	return meeting, nil
}

// ListMeetings retrieves all meetings owned by the user, newest first.
func (s *MeetingService) ListMeetings(ctx context.Context, requesterUserID string) ([]domain.Meeting, error) {
	meetings, err := s.meetingRepo.FindMeetingsByUserID(ctx, requesterUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, nil
}

// ListCountries retrieves the selectable destination countries.
func (s *MeetingService) ListCountries(ctx context.Context) []dto.CountryResponse {
	return supportedCountries
}

// CreateMeeting creates a plain N-way meeting.
func (s *MeetingService) CreateMeeting(ctx context.Context, req dto.CreateMeetingRequest, creatorUserID string) (*domain.Meeting, error) {
	meeting := domain.Meeting{
		UserID:           creatorUserID,
		Name:             req.Name,
		Date:             req.Date,
		ShareUUID:        uuid.NewString(),
		Mode:             domain.NWayMeeting,
		TargetCurrency:   domain.SettlementCurrency,
		BaseExchangeRate: decimal.NewFromInt(1),
		AuditFields:      s.audit(creatorUserID),
	}

	saved, err := s.meetingRepo.SaveMeeting(ctx, meeting)
	if err != nil {
		return nil, fmt.Errorf("failed to save meeting: %w", err)
	}
	s.LogInfo(ctx, "meeting created", slog.Int64("meeting_id", saved.MeetingID), slog.String("mode", string(saved.Mode)))
	return saved, nil
}

// CreateSimpleMeeting creates a fixed-price simple meeting. Price and
// headcount are filled in later via UpdateSimpleMeeting.
func (s *MeetingService) CreateSimpleMeeting(ctx context.Context, req dto.CreateSimpleMeetingRequest, creatorUserID string) (*domain.Meeting, error) {
	meeting := domain.Meeting{
		UserID:           creatorUserID,
		Name:             req.Name,
		Date:             req.Date,
		ShareUUID:        uuid.NewString(),
		Mode:             domain.SimpleMeeting,
		TargetCurrency:   domain.SettlementCurrency,
		BaseExchangeRate: decimal.NewFromInt(1),
		AuditFields:      s.audit(creatorUserID),
	}

	saved, err := s.meetingRepo.SaveMeeting(ctx, meeting)
	if err != nil {
		return nil, fmt.Errorf("failed to save meeting: %w", err)
	}
	s.LogInfo(ctx, "meeting created", slog.Int64("meeting_id", saved.MeetingID), slog.String("mode", string(saved.Mode)))
	return saved, nil
}

// CreateTripMeeting creates a trip meeting together with its members,
// their fund contributions and any advance payments. Writes happen in
// that order so advance payments can reference members by name.
//
// The base exchange rate is frozen here: domestic trips always use 1,
// otherwise totalKRW/totalForeign when both are known, otherwise
// today's resolved rate. The initial fund is the contribution sum.
func (s *MeetingService) CreateTripMeeting(ctx context.Context, req dto.CreateTripMeetingRequest, creatorUserID string) (*domain.Meeting, error) {
	currency, ok := currencyForCountry(req.CountryCode)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported country code %q", apperrors.ErrValidation, req.CountryCode)
	}

	var totalKRW int64
	for _, c := range req.Contributions {
		totalKRW += c.AmountKRW
	}

	baseRate := decimal.NewFromInt(1)
	if currency != domain.SettlementCurrency {
		switch {
		case req.TotalForeign.GreaterThan(decimal.Zero) && totalKRW > 0:
			baseRate = decimal.NewFromInt(totalKRW).Div(req.TotalForeign)
		default:
			resolved, err := s.rates.GetRate(ctx, currency, s.now())
			if err != nil {
				// Rate storage being unavailable must not block trip
				// creation; the identity rate keeps amounts well-defined.
				s.LogError(ctx, err, "rate resolution failed at trip creation", slog.String("currency", currency))
			} else {
				baseRate = resolved
			}
		}
	}

	meeting := domain.Meeting{
		UserID:           creatorUserID,
		Name:             req.Name,
		Date:             req.Date,
		ShareUUID:        uuid.NewString(),
		Mode:             domain.TripMeeting,
		CountryCode:      req.CountryCode,
		TargetCurrency:   currency,
		BaseExchangeRate: baseRate,
		InitialGonggeum:  totalKRW,
		AuditFields:      s.audit(creatorUserID),
	}

	saved, err := s.meetingRepo.SaveMeeting(ctx, meeting)
	if err != nil {
		return nil, fmt.Errorf("failed to save meeting: %w", err)
	}

	nameToID := make(map[string]int64, len(req.Contributions))
	allMemberIDs := make([]int64, 0, len(req.Contributions))
	for i, c := range req.Contributions {
		if _, dup := nameToID[c.MemberName]; dup {
			return nil, fmt.Errorf("%w: member name %q appears twice in contributions", apperrors.ErrDuplicate, c.MemberName)
		}
		member := domain.Member{
			MeetingID:   saved.MeetingID,
			Name:        c.MemberName,
			Leader:      i == 0,
			AuditFields: s.audit(creatorUserID),
		}
		savedMember, err := s.memberRepo.SaveMember(ctx, member)
		if err != nil {
			return nil, fmt.Errorf("failed to save member %q: %w", c.MemberName, err)
		}
		nameToID[c.MemberName] = savedMember.MemberID
		allMemberIDs = append(allMemberIDs, savedMember.MemberID)

		if c.AmountKRW > 0 {
			contribution := domain.Contribution{
				MemberID:    savedMember.MemberID,
				MeetingID:   saved.MeetingID,
				Amount:      c.AmountKRW,
				AuditFields: s.audit(creatorUserID),
			}
			if _, err := s.contributionRepo.SaveContribution(ctx, contribution); err != nil {
				return nil, fmt.Errorf("failed to save contribution for %q: %w", c.MemberName, err)
			}
		}
	}

	for _, ap := range req.AdvancePayments {
		payerID, ok := nameToID[ap.PayMemberName]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAdvancePayer, ap.PayMemberName)
		}
		payment := domain.Payment{
			MeetingID:       saved.MeetingID,
			Name:            ap.Name,
			Place:           ap.Name,
			Price:           ap.Price,
			OriginalPrice:   decimal.NewFromInt(ap.Price),
			Currency:        domain.SettlementCurrency,
			ExchangeRate:    decimal.NewFromInt(1),
			Source:          domain.IndividualPayer(payerID),
			PayMemberID:     payerID,
			AttendMemberIDs: allMemberIDs,
			Type:            domain.IndividualPayment,
			AuditFields:     s.audit(creatorUserID),
		}
		if _, err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
			return nil, fmt.Errorf("failed to save advance payment %q: %w", ap.Name, err)
		}
	}

	s.LogInfo(ctx, "trip meeting created",
		slog.Int64("meeting_id", saved.MeetingID),
		slog.String("currency", currency),
		slog.Int64("initial_fund", totalKRW))
	return saved, nil
}

// UpdateMeeting updates a meeting's name and date.
func (s *MeetingService) UpdateMeeting(ctx context.Context, meetingID int64, req dto.UpdateMeetingRequest, requesterUserID string) (*domain.Meeting, error) {
	meeting, err := s.ownedMeeting(ctx, meetingID, requesterUserID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != "" {
		meeting.Name = *req.Name
	}
	if req.Date != nil && *req.Date != "" {
		meeting.Date = *req.Date
	}
	meeting.LastUpdatedAt = s.now()
	meeting.LastUpdatedBy = requesterUserID

	if err := s.meetingRepo.UpdateMeeting(ctx, *meeting); err != nil {
		return nil, fmt.Errorf("failed to update meeting: %w", err)
	}
	return meeting, nil
}

// UpdateSimpleMeeting updates a simple meeting's fixed price and headcount.
func (s *MeetingService) UpdateSimpleMeeting(ctx context.Context, meetingID int64, req dto.UpdateSimpleMeetingRequest, requesterUserID string) (*domain.Meeting, error) {
	meeting, err := s.ownedMeeting(ctx, meetingID, requesterUserID)
	if err != nil {
		return nil, err
	}
	if meeting.Mode != domain.SimpleMeeting {
		return nil, fmt.Errorf("%w: meeting %d is not a simple meeting", ErrWrongMeetingMode, meetingID)
	}

	if req.Name != nil && *req.Name != "" {
		meeting.Name = *req.Name
	}
	if req.Date != nil && *req.Date != "" {
		meeting.Date = *req.Date
	}
	if req.SimplePrice != nil {
		meeting.SimplePrice = *req.SimplePrice
	}
	if req.SimpleMemberCount != nil {
		meeting.SimpleMemberCount = *req.SimpleMemberCount
	}
	meeting.LastUpdatedAt = s.now()
	meeting.LastUpdatedBy = requesterUserID

	if err := s.meetingRepo.UpdateMeeting(ctx, *meeting); err != nil {
		return nil, fmt.Errorf("failed to update meeting: %w", err)
	}
	return meeting, nil
}

// UpdateBankAccount seals and stores the transfer destination used in
// deposit links.
func (s *MeetingService) UpdateBankAccount(ctx context.Context, meetingID int64, req dto.UpdateBankAccountRequest, requesterUserID string) error {
	meeting, err := s.ownedMeeting(ctx, meetingID, requesterUserID)
	if err != nil {
		return err
	}

	bank, err := s.cipher.Seal(req.Bank)
	if err != nil {
		return fmt.Errorf("failed to seal bank name: %w", err)
	}
	account, err := s.cipher.Seal(req.AccountNumber)
	if err != nil {
		return fmt.Errorf("failed to seal account number: %w", err)
	}

	meeting.Bank = bank
	meeting.AccountNumber = account
	meeting.LastUpdatedAt = s.now()
	meeting.LastUpdatedBy = requesterUserID

	if err := s.meetingRepo.UpdateMeeting(ctx, *meeting); err != nil {
		return fmt.Errorf("failed to update meeting: %w", err)
	}
	return nil
}

// UpdateKakaoDeposit sets or clears the kakaopay QR identifier.
func (s *MeetingService) UpdateKakaoDeposit(ctx context.Context, meetingID int64, req dto.UpdateKakaoDepositRequest, requesterUserID string) error {
	meeting, err := s.ownedMeeting(ctx, meetingID, requesterUserID)
	if err != nil {
		return err
	}

	meeting.KakaoDepositID = req.KakaoDepositID
	meeting.LastUpdatedAt = s.now()
	meeting.LastUpdatedBy = requesterUserID

	if err := s.meetingRepo.UpdateMeeting(ctx, *meeting); err != nil {
		return fmt.Errorf("failed to update meeting: %w", err)
	}
	return nil
}

// AddBudget tops up the trip fund in KRW, adding to each member's
// existing contribution.
func (s *MeetingService) AddBudget(ctx context.Context, meetingID int64, req dto.AddBudgetRequest, requesterUserID string) error {
	meeting, err := s.ownedMeeting(ctx, meetingID, requesterUserID)
	if err != nil {
		return err
	}
	if !meeting.IsTrip() {
		return fmt.Errorf("%w: meeting %d is not a trip", ErrWrongMeetingMode, meetingID)
	}

	for _, entry := range req.Additions {
		if err := s.addToContribution(ctx, meetingID, entry.MemberID, entry.AddAmount, requesterUserID); err != nil {
			return err
		}
	}
	return nil
}

// AddBudgetForeign tops up the trip fund with a foreign amount,
// converted at the trip's frozen base rate and split evenly across the
// given members.
func (s *MeetingService) AddBudgetForeign(ctx context.Context, meetingID int64, req dto.AddBudgetForeignRequest, requesterUserID string) error {
	meeting, err := s.ownedMeeting(ctx, meetingID, requesterUserID)
	if err != nil {
		return err
	}
	if !meeting.IsTrip() {
		return fmt.Errorf("%w: meeting %d is not a trip", ErrWrongMeetingMode, meetingID)
	}
	if req.ForeignAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: foreign amount must be positive", apperrors.ErrValidation)
	}

	totalKRW := money.RoundWon(req.ForeignAmount.Mul(meeting.BaseExchangeRate))
	perMember := money.SplitEven(totalKRW, len(req.MemberIDs))

	for _, memberID := range req.MemberIDs {
		if err := s.addToContribution(ctx, meetingID, memberID, perMember, requesterUserID); err != nil {
			return err
		}
	}
	return nil
}

// addToContribution increments a member's contribution row, creating it
// on first top-up. The member must belong to the meeting.
func (s *MeetingService) addToContribution(ctx context.Context, meetingID, memberID, amount int64, requesterUserID string) error {
	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return fmt.Errorf("failed to find member %d: %w", memberID, err)
	}
	if member.MeetingID != meetingID {
		return fmt.Errorf("%w: member %d not in meeting %d", apperrors.ErrNotFound, memberID, meetingID)
	}

	existing, err := s.contributionRepo.FindContributionByMemberID(ctx, meetingID, memberID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to find contribution: %w", err)
		}
		contribution := domain.Contribution{
			MemberID:    memberID,
			MeetingID:   meetingID,
			Amount:      amount,
			AuditFields: s.audit(requesterUserID),
		}
		if _, err := s.contributionRepo.SaveContribution(ctx, contribution); err != nil {
			return fmt.Errorf("failed to save contribution: %w", err)
		}
		return nil
	}

	existing.Amount += amount
	existing.LastUpdatedAt = s.now()
	existing.LastUpdatedBy = requesterUserID
	if err := s.contributionRepo.UpdateContribution(ctx, *existing); err != nil {
		return fmt.Errorf("failed to update contribution: %w", err)
	}
	return nil
}

// DeleteMeeting removes a meeting and everything hanging off it.
func (s *MeetingService) DeleteMeeting(ctx context.Context, meetingID int64, requesterUserID string) error {
	if _, err := s.ownedMeeting(ctx, meetingID, requesterUserID); err != nil {
		return err
	}

	if err := s.meetingRepo.DeleteMeeting(ctx, meetingID, s.now()); err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	s.LogInfo(ctx, "meeting deleted", slog.Int64("meeting_id", meetingID))
	return nil
}
