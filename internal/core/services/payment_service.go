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
	"github.com/WooHyucks/nbbang-backend/internal/utils/money"
	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownAttendee indicates a payment referenced a member that is
	// not part of the meeting.
	ErrUnknownAttendee = errors.New("payment references a member outside the meeting")
	// ErrOrderMismatch indicates a reorder request did not list every
	// payment of the meeting exactly once.
	ErrOrderMismatch = errors.New("payment order must list every payment of the meeting exactly once")
)

// PaymentService records and maintains the payments of a meeting,
// normalizing foreign amounts into KRW at write time.
type PaymentService struct {
	BaseService
	paymentRepo portsrepo.PaymentRepositoryFacade
	meetingRepo portsrepo.MeetingRepositoryFacade
	memberRepo  portsrepo.MemberRepositoryFacade
	rates       portssvc.ExchangeRateSvcFacade
	now         func() time.Time
}

// NewPaymentService creates a new PaymentService. The rate resolver is
// injected so write-time conversions can be tested without a live source.
func NewPaymentService(
	paymentRepo portsrepo.PaymentRepositoryFacade,
	meetingRepo portsrepo.MeetingRepositoryFacade,
	memberRepo portsrepo.MemberRepositoryFacade,
	rates portssvc.ExchangeRateSvcFacade,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		meetingRepo: meetingRepo,
		memberRepo:  memberRepo,
		rates:       rates,
		now:         time.Now,
	}
}

// ownedMeeting loads the meeting and enforces ownership.
func (s *PaymentService) ownedMeeting(ctx context.Context, meetingID int64, requesterUserID string) (*domain.Meeting, error) {
	meeting, err := s.meetingRepo.FindMeetingByID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}
	if !meeting.OwnedBy(requesterUserID) {
		return nil, fmt.Errorf("%w: meeting %d does not belong to user", apperrors.ErrForbidden, meetingID)
	}
	return meeting, nil
}

// memberSet loads the meeting's member ids for reference validation.
func (s *PaymentService) memberSet(ctx context.Context, meetingID int64) (map[int64]domain.Member, error) {
	members, err := s.memberRepo.FindMembersByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	set := make(map[int64]domain.Member, len(members))
	for _, m := range members {
		set[m.MemberID] = m
	}
	return set, nil
}

// CreatePayment records a payment. KRW amounts pass through unchanged
// with rate 1; foreign amounts freeze their conversion rate now, either
// the explicit one from the request or today's resolved rate, and the
// KRW price is rounded half away from zero. A failed rate resolution
// aborts the write.
func (s *PaymentService) CreatePayment(ctx context.Context, meetingID int64, req dto.CreatePaymentRequest, requesterUserID string) (*domain.Payment, error) {
	if _, err := s.ownedMeeting(ctx, meetingID, requesterUserID); err != nil {
		return nil, err
	}

	members, err := s.memberSet(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	source := domain.SharedFund()
	if req.PayMemberID != nil {
		source = domain.IndividualPayer(*req.PayMemberID)
	}
	if payerID, ok := source.PayerID(); ok {
		if _, exists := members[payerID]; !exists {
			return nil, fmt.Errorf("%w: payer %d", ErrUnknownAttendee, payerID)
		}
	}
	for _, id := range req.AttendMemberIDs {
		if _, exists := members[id]; !exists {
			return nil, fmt.Errorf("%w: attendee %d", ErrUnknownAttendee, id)
		}
	}

	currency := req.Currency
	if currency == "" {
		currency = domain.SettlementCurrency
	}

	payment := domain.Payment{
		MeetingID:       meetingID,
		Name:            req.Name,
		Place:           req.Place,
		Currency:        currency,
		Source:          source,
		AttendMemberIDs: req.AttendMemberIDs,
	}
	payment.Type = domain.IndividualPayment
	if source.IsSharedFund() {
		payment.Type = domain.PublicPayment
	}
	if payerID, ok := source.PayerID(); ok {
		payment.PayMemberID = payerID
	}

	at, err := s.rateDate(req.Date)
	if err != nil {
		return nil, err
	}
	if err := s.normalizeAmounts(ctx, &payment, req.Price, req.OriginalPrice, req.ExchangeRate, at); err != nil {
		return nil, err
	}

	now := s.now()
	payment.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     requesterUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: requesterUserID,
	}

	saved, err := s.paymentRepo.SavePayment(ctx, payment)
	if err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	s.LogInfo(ctx, "payment created",
		slog.Int64("meeting_id", meetingID),
		slog.Int64("payment_id", saved.PaymentID),
		slog.String("currency", saved.Currency))
	return saved, nil
}

// rateDate parses an optional payment date used for rate resolution,
// falling back to now when absent.
func (s *PaymentService) rateDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return s.now(), nil
	}
	parsed, err := time.Parse(domain.DateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid payment date %q", apperrors.ErrValidation, dateStr)
	}
	return parsed, nil
}

// normalizeAmounts fills Price, OriginalPrice and ExchangeRate from the
// raw request amounts according to the payment's currency. Foreign
// payments without an explicit rate freeze the rate applicable on at.
func (s *PaymentService) normalizeAmounts(ctx context.Context, p *domain.Payment, price int64, originalPrice, explicitRate decimal.Decimal, at time.Time) error {
	if p.Currency == domain.SettlementCurrency {
		// Same-currency payments carry their amount through untouched.
		if price <= 0 && originalPrice.GreaterThan(decimal.Zero) {
			price = money.RoundWon(originalPrice)
		}
		if price <= 0 {
			return fmt.Errorf("%w: payment price must be positive", apperrors.ErrValidation)
		}
		p.Price = price
		p.OriginalPrice = decimal.NewFromInt(price)
		p.ExchangeRate = decimal.NewFromInt(1)
		return nil
	}

	if originalPrice.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: foreign payment requires a positive originalPrice", apperrors.ErrValidation)
	}

	rate := explicitRate
	if rate.LessThanOrEqual(decimal.Zero) {
		resolved, err := s.rates.GetRate(ctx, p.Currency, at)
		if err != nil {
			return fmt.Errorf("failed to resolve exchange rate for %s: %w", p.Currency, err)
		}
		rate = resolved
	}

	p.OriginalPrice = originalPrice
	p.ExchangeRate = rate
	p.Price = money.RoundWon(originalPrice.Mul(rate))
	return nil
}

// UpdatePayment updates a payment. Absent request fields fall back to
// the stored payment's values; amounts are re-normalized with the same
// rules as creation, keeping the stored frozen rate when neither the
// currency nor the rate changed.
func (s *PaymentService) UpdatePayment(ctx context.Context, meetingID, paymentID int64, req dto.UpdatePaymentRequest, requesterUserID string) (*domain.Payment, error) {
	if _, err := s.ownedMeeting(ctx, meetingID, requesterUserID); err != nil {
		return nil, err
	}

	stored, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	if stored.MeetingID != meetingID {
		return nil, fmt.Errorf("%w: payment %d not in meeting %d", apperrors.ErrNotFound, paymentID, meetingID)
	}

	members, err := s.memberSet(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	updated := *stored
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Place != nil {
		updated.Place = *req.Place
	}
	if req.Currency != nil && *req.Currency != "" {
		updated.Currency = *req.Currency
	}
	if req.PayMemberID != nil {
		updated.Source = domain.IndividualPayer(*req.PayMemberID)
	}
	if req.AttendMemberIDs != nil {
		updated.AttendMemberIDs = req.AttendMemberIDs
	}

	updated.Type = domain.IndividualPayment
	updated.PayMemberID = 0
	if updated.Source.IsSharedFund() {
		updated.Type = domain.PublicPayment
	} else if payerID, ok := updated.Source.PayerID(); ok {
		if _, exists := members[payerID]; !exists {
			return nil, fmt.Errorf("%w: payer %d", ErrUnknownAttendee, payerID)
		}
		updated.PayMemberID = payerID
	}
	for _, id := range updated.AttendMemberIDs {
		if _, exists := members[id]; !exists {
			return nil, fmt.Errorf("%w: attendee %d", ErrUnknownAttendee, id)
		}
	}

	price := stored.Price
	if req.Price != nil {
		price = *req.Price
	}
	originalPrice := stored.OriginalPrice
	if req.OriginalPrice != nil {
		originalPrice = *req.OriginalPrice
	}
	explicitRate := decimal.Zero
	switch {
	case req.ExchangeRate != nil:
		explicitRate = *req.ExchangeRate
	case updated.Currency == stored.Currency:
		// Currency unchanged: keep the rate frozen at creation time.
		explicitRate = stored.ExchangeRate
	}

	dateStr := ""
	if req.Date != nil {
		dateStr = *req.Date
	}
	at, err := s.rateDate(dateStr)
	if err != nil {
		return nil, err
	}
	if err := s.normalizeAmounts(ctx, &updated, price, originalPrice, explicitRate, at); err != nil {
		return nil, err
	}

	updated.LastUpdatedAt = s.now()
	updated.LastUpdatedBy = requesterUserID

	if err := s.paymentRepo.UpdatePayment(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	return &updated, nil
}

// DeletePayment removes a payment from the meeting.
func (s *PaymentService) DeletePayment(ctx context.Context, meetingID, paymentID int64, requesterUserID string) error {
	if _, err := s.ownedMeeting(ctx, meetingID, requesterUserID); err != nil {
		return err
	}

	stored, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("failed to find payment: %w", err)
	}
	if stored.MeetingID != meetingID {
		return fmt.Errorf("%w: payment %d not in meeting %d", apperrors.ErrNotFound, paymentID, meetingID)
	}

	if err := s.paymentRepo.DeletePayment(ctx, paymentID); err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return nil
}

// ListPayments retrieves the meeting's payments in display order with
// payer names and per-attendee split prices resolved.
func (s *PaymentService) ListPayments(ctx context.Context, meetingID int64, requesterUserID string) ([]dto.PaymentResponse, error) {
	if _, err := s.ownedMeeting(ctx, meetingID, requesterUserID); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindPaymentsByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	members, err := s.memberSet(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(members))
	for id, m := range members {
		names[id] = m.Name
	}

	return dto.ToListPaymentResponse(payments, names), nil
}

// UpdatePaymentOrder rewrites the display order of the meeting's
// payments. The request must list every payment exactly once.
func (s *PaymentService) UpdatePaymentOrder(ctx context.Context, meetingID int64, req dto.UpdatePaymentOrderRequest, requesterUserID string) error {
	if _, err := s.ownedMeeting(ctx, meetingID, requesterUserID); err != nil {
		return err
	}

	payments, err := s.paymentRepo.FindPaymentsByMeetingID(ctx, meetingID)
	if err != nil {
		return fmt.Errorf("failed to list payments: %w", err)
	}
	if len(payments) != len(req.PaymentIDs) {
		return fmt.Errorf("%w: got %d ids, meeting has %d payments", ErrOrderMismatch, len(req.PaymentIDs), len(payments))
	}
	existing := make(map[int64]bool, len(payments))
	for _, p := range payments {
		existing[p.PaymentID] = true
	}
	seen := make(map[int64]bool, len(req.PaymentIDs))
	for _, id := range req.PaymentIDs {
		if !existing[id] || seen[id] {
			return fmt.Errorf("%w: payment %d", ErrOrderMismatch, id)
		}
		seen[id] = true
	}

	if err := s.paymentRepo.UpdatePaymentOrder(ctx, meetingID, req.PaymentIDs); err != nil {
		return fmt.Errorf("failed to update payment order: %w", err)
	}
	return nil
}
