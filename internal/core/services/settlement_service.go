package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/WooHyucks/nbbang-backend/internal/apperrors"
	"github.com/WooHyucks/nbbang-backend/internal/core/domain"
	portsrepo "github.com/WooHyucks/nbbang-backend/internal/core/ports/repositories"
	portssvc "github.com/WooHyucks/nbbang-backend/internal/core/ports/services"
	"github.com/WooHyucks/nbbang-backend/internal/dto"
	"github.com/WooHyucks/nbbang-backend/internal/utils/crypto"
	"github.com/WooHyucks/nbbang-backend/internal/utils/money"
	"github.com/shopspring/decimal"
)

// ErrNoLeader indicates a trip settlement was requested for a meeting
// without a designated leader to receive the transfers.
var ErrNoLeader = errors.New("trip settlement requires a leader member")

// kakaoAmountFactor encodes a KRW amount into the hex suffix of a
// kakaopay QR link.
const kakaoAmountFactor = 524288

// SettlementService computes settlement reports. Every report is a
// read-only fold over the meeting's stored members, payments and
// contributions; nothing is written back.
type SettlementService struct {
	BaseService
	meetingRepo      portsrepo.MeetingRepositoryFacade
	memberRepo       portsrepo.MemberRepositoryFacade
	paymentRepo      portsrepo.PaymentRepositoryFacade
	contributionRepo portsrepo.ContributionRepositoryFacade
	rates            portssvc.ExchangeRateSvcFacade
	cipher           *crypto.Cipher
	now              func() time.Time
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(
	meetingRepo portsrepo.MeetingRepositoryFacade,
	memberRepo portsrepo.MemberRepositoryFacade,
	paymentRepo portsrepo.PaymentRepositoryFacade,
	contributionRepo portsrepo.ContributionRepositoryFacade,
	rates portssvc.ExchangeRateSvcFacade,
	cipher *crypto.Cipher,
) *SettlementService {
	return &SettlementService{
		meetingRepo:      meetingRepo,
		memberRepo:       memberRepo,
		paymentRepo:      paymentRepo,
		contributionRepo: contributionRepo,
		rates:            rates,
		cipher:           cipher,
		now:              time.Now,
	}
}

// SplitBalances folds a meeting's payments into per-member balances:
// every payer is credited the full price they fronted, every attendee
// is charged the even split. Positive means the member owes money.
// The fold never mutates its inputs.
func SplitBalances(members []domain.Member, payments []domain.Payment) []domain.MemberBalance {
	amounts := make(map[int64]int64, len(members))
	for _, p := range payments {
		split := p.SplitPrice()
		if payerID, ok := p.Source.PayerID(); ok {
			amounts[payerID] -= p.Price
		}
		for _, id := range p.AttendMemberIDs {
			amounts[id] += split
		}
	}

	balances := make([]domain.MemberBalance, len(members))
	for i, m := range members {
		balances[i] = domain.NewMemberBalance(m, amounts[m.MemberID])
	}
	return balances
}

// fundOverview computes the aggregate shared-fund state. The fund is
// sized by the larger of the contribution sum and the recorded initial
// fund, so top-ups recorded on either side are never under-counted.
func fundOverview(meeting *domain.Meeting, contributions []domain.Contribution, payments []domain.Payment) domain.FundOverview {
	var contributionSum int64
	for _, c := range contributions {
		contributionSum += c.Amount
	}
	totalCollected := contributionSum
	if meeting.InitialGonggeum > totalCollected {
		totalCollected = meeting.InitialGonggeum
	}

	baseRate := meeting.BaseExchangeRate
	totalForeign := decimal.Zero
	if baseRate.GreaterThan(decimal.Zero) {
		totalForeign = decimal.NewFromInt(totalCollected).Div(baseRate)
	}

	var spentKRW int64
	spentForeign := decimal.Zero
	for _, p := range payments {
		if !p.Source.IsSharedFund() {
			continue
		}
		spentKRW += p.Price
		spentForeign = spentForeign.Add(p.ForeignCost(baseRate))
	}

	burnRate := decimal.Zero
	if totalForeign.GreaterThan(decimal.Zero) {
		burnRate = spentForeign.Div(totalForeign).Mul(decimal.NewFromInt(100))
	}

	return domain.FundOverview{
		TotalCollected:        totalCollected,
		TotalCollectedForeign: totalForeign,
		TotalSpent:            spentKRW,
		TotalSpentForeign:     spentForeign,
		Remaining:             totalCollected - spentKRW,
		RemainingForeign:      totalForeign.Sub(spentForeign),
		BurnRate:              burnRate,
		Status:                domain.BurnRateStatus(burnRate),
	}
}

// memberWallets attributes shared-fund spending to attendees in foreign
// units. Each shared-fund payment's foreign cost is divided evenly over
// its attendees with no remainder redistribution; a single attendee
// carries the whole cost.
func memberWallets(meeting *domain.Meeting, members []domain.Member, fund domain.FundOverview, payments []domain.Payment) []domain.MemberWallet {
	if len(members) == 0 {
		return []domain.MemberWallet{}
	}

	initialShare := fund.TotalCollectedForeign.Div(decimal.NewFromInt(int64(len(members))))

	used := make(map[int64]decimal.Decimal, len(members))
	for _, p := range payments {
		if !p.Source.IsSharedFund() || len(p.AttendMemberIDs) == 0 {
			continue
		}
		perHead := p.ForeignCost(meeting.BaseExchangeRate).Div(decimal.NewFromInt(int64(len(p.AttendMemberIDs))))
		for _, id := range p.AttendMemberIDs {
			used[id] = used[id].Add(perHead)
		}
	}

	wallets := make([]domain.MemberWallet, len(members))
	for i, m := range members {
		current := initialShare.Sub(used[m.MemberID])
		ratio := decimal.Zero
		if initialShare.GreaterThan(decimal.Zero) {
			ratio = current.Div(initialShare).Mul(decimal.NewFromInt(100))
		}
		wallets[i] = domain.MemberWallet{
			MemberID:     m.MemberID,
			Name:         m.Name,
			InitialShare: initialShare,
			UsedAmount:   used[m.MemberID],
			CurrentShare: current,
			Ratio:        ratio,
			Status:       domain.WalletRatioStatus(ratio),
		}
	}
	return wallets
}

// tripSettlements nets every member's position: what they put in
// (contribution, KRW advances, foreign card payments) against the
// shares they owe across all payments. Foreign costs are valued with
// the applied rate, which is today's live rate at final-result time.
func tripSettlements(members []domain.Member, contributions []domain.Contribution, payments []domain.Payment, appliedRate decimal.Decimal) []domain.MemberSettlement {
	contributionByMember := make(map[int64]int64, len(contributions))
	for _, c := range contributions {
		contributionByMember[c.MemberID] += c.Amount
	}

	settlements := make([]domain.MemberSettlement, len(members))
	for i, m := range members {
		var paidAdvance, paidForeignCard int64
		owed := decimal.Zero

		for _, p := range payments {
			if payerID, ok := p.Source.PayerID(); ok && payerID == m.MemberID {
				if p.IsAdvance() {
					paidAdvance += p.Price
				} else if p.IsForeignCard() {
					paidForeignCard += p.Price
				}
			}
			if !p.Attends(m.MemberID) || len(p.AttendMemberIDs) == 0 {
				continue
			}
			attendees := decimal.NewFromInt(int64(len(p.AttendMemberIDs)))
			if p.Currency == domain.SettlementCurrency {
				owed = owed.Add(decimal.NewFromInt(p.Price).Div(attendees))
			} else {
				owed = owed.Add(p.OriginalPrice.Mul(appliedRate).Div(attendees))
			}
		}

		contribution := contributionByMember[m.MemberID]
		totalPaid := contribution + paidAdvance + paidForeignCard
		totalOwed := money.RoundWon(owed)
		amount := totalPaid - totalOwed

		settlements[i] = domain.MemberSettlement{
			MemberID:         m.MemberID,
			Name:             m.Name,
			PaidContribution: contribution,
			PaidAdvance:      paidAdvance,
			PaidForeignCard:  paidForeignCard,
			TotalPaid:        totalPaid,
			TotalOwed:        totalOwed,
			SettlementAmount: amount,
			TippedAmount:     money.Tip(amount),
			Direction:        domain.DirectionOf(amount),
		}
	}
	return settlements
}

// depositDestination is the revealed transfer target used to build
// per-member payment links.
type depositDestination struct {
	bank    string
	account string
	kakaoID string
}

// links builds the transfer deep links for one amount. Negative
// amounts link their absolute value; zero amounts produce no links.
func (d depositDestination) links(amount int64) dto.DepositLinksResponse {
	abs := amount
	if abs < 0 {
		abs = -abs
	}
	if abs == 0 {
		return dto.DepositLinksResponse{}
	}

	var resp dto.DepositLinksResponse
	if d.bank != "" && d.account != "" {
		params := url.Values{}
		params.Set("amount", strconv.FormatInt(abs, 10))
		params.Set("bank", d.bank)
		params.Set("accountNo", d.account)
		toss := "supertoss://send?" + params.Encode()
		resp.Toss = &toss

		copyText := fmt.Sprintf("%s %s %d원", d.bank, d.account, abs)
		resp.CopyText = &copyText
	}
	if d.kakaoID != "" {
		kakao := fmt.Sprintf("https://qr.kakaopay.com/%s%x", d.kakaoID, abs*kakaoAmountFactor)
		resp.Kakao = &kakao
	}
	return resp
}

// destination reveals the meeting's transfer target. Unsealing
// failures degrade to an empty destination so reports still render.
func (s *SettlementService) destination(ctx context.Context, meeting *domain.Meeting) depositDestination {
	dest := depositDestination{kakaoID: meeting.KakaoDepositID}

	if !meeting.Bank.IsZero() {
		bank, err := s.cipher.Reveal(meeting.Bank)
		if err != nil {
			s.LogError(ctx, err, "failed to reveal bank name", slog.Int64("meeting_id", meeting.MeetingID))
		} else {
			dest.bank = bank
		}
	}
	if !meeting.AccountNumber.IsZero() {
		account, err := s.cipher.Reveal(meeting.AccountNumber)
		if err != nil {
			s.LogError(ctx, err, "failed to reveal account number", slog.Int64("meeting_id", meeting.MeetingID))
		} else {
			dest.account = account
		}
	}
	return dest
}

// meetingData loads everything a settlement computation folds over.
func (s *SettlementService) meetingData(ctx context.Context, meetingID int64) ([]domain.Member, []domain.Payment, error) {
	members, err := s.memberRepo.FindMembersByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list members: %w", err)
	}
	payments, err := s.paymentRepo.FindPaymentsByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return members, payments, nil
}

// GetSplitResult computes the N-way settlement of a meeting.
func (s *SettlementService) GetSplitResult(ctx context.Context, meetingID int64, requesterUserID string) (*dto.SplitResultResponse, error) {
	meeting, err := s.meetingRepo.FindMeetingByID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}
	if !meeting.OwnedBy(requesterUserID) {
		return nil, fmt.Errorf("%w: meeting %d does not belong to user", apperrors.ErrForbidden, meetingID)
	}

	members, payments, err := s.meetingData(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	return s.assembleSplitResult(members, payments), nil
}

func (s *SettlementService) assembleSplitResult(members []domain.Member, payments []domain.Payment) *dto.SplitResultResponse {
	balances := SplitBalances(members, payments)
	var total int64
	for _, p := range payments {
		total += p.Price
	}

	resp := &dto.SplitResultResponse{
		TotalPrice: total,
		Balances:   make([]dto.MemberBalanceResponse, len(balances)),
	}
	for i, b := range balances {
		resp.Balances[i] = dto.ToMemberBalanceResponse(b)
	}
	return resp
}

// GetSharePage builds the public settlement page for a share UUID,
// including per-member transfer links toward the meeting's destination.
func (s *SettlementService) GetSharePage(ctx context.Context, shareUUID string) (*dto.SharePageResponse, error) {
	meeting, err := s.meetingRepo.FindMeetingByShareUUID(ctx, shareUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to find meeting by share uuid: %w", err)
	}

	members, payments, err := s.meetingData(ctx, meeting.MeetingID)
	if err != nil {
		return nil, err
	}

	split := s.assembleSplitResult(members, payments)
	dest := s.destination(ctx, meeting)

	names := make(map[int64]string, len(members))
	for _, m := range members {
		names[m.MemberID] = m.Name
	}

	page := &dto.SharePageResponse{
		MeetingName: meeting.Name,
		Date:        meeting.Date,
		Mode:        meeting.Mode,
		TotalPrice:  split.TotalPrice,
		Members:     make([]dto.ShareMemberResponse, len(split.Balances)),
		Payments:    dto.ToListPaymentResponse(payments, names),
	}
	for i, b := range split.Balances {
		page.Members[i] = dto.ShareMemberResponse{
			MemberBalanceResponse: b,
			Links:                 dest.links(b.Amount),
			TippedLinks:           dest.links(b.TippedAmount),
		}
	}

	if meeting.Mode == domain.SimpleMeeting {
		amount := meeting.SimpleMemberAmount()
		tipped := meeting.SimpleTippedMemberAmount()
		links := dest.links(amount)
		tippedLinks := dest.links(tipped)
		page.TotalPrice = meeting.SimplePrice
		page.SimpleMemberAmount = &amount
		page.SimpleTippedAmount = &tipped
		page.SimpleLinks = &links
		page.SimpleTippedLinks = &tippedLinks
	}
	return page, nil
}

// GetTripDashboard builds the live fund dashboard of a trip meeting.
func (s *SettlementService) GetTripDashboard(ctx context.Context, meetingID int64, requesterUserID string) (*dto.TripDashboardResponse, error) {
	meeting, err := s.meetingRepo.FindMeetingByID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}
	if !meeting.OwnedBy(requesterUserID) {
		return nil, fmt.Errorf("%w: meeting %d does not belong to user", apperrors.ErrForbidden, meetingID)
	}
	return s.assembleDashboard(ctx, meeting)
}

// GetTripDashboardByShareUUID builds the dashboard for a share UUID
// without authentication.
func (s *SettlementService) GetTripDashboardByShareUUID(ctx context.Context, shareUUID string) (*dto.TripDashboardResponse, error) {
	meeting, err := s.meetingRepo.FindMeetingByShareUUID(ctx, shareUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to find meeting by share uuid: %w", err)
	}
	return s.assembleDashboard(ctx, meeting)
}

func (s *SettlementService) assembleDashboard(ctx context.Context, meeting *domain.Meeting) (*dto.TripDashboardResponse, error) {
	if !meeting.IsTrip() {
		return nil, fmt.Errorf("%w: meeting %d is not a trip", ErrWrongMeetingMode, meeting.MeetingID)
	}

	members, payments, err := s.meetingData(ctx, meeting.MeetingID)
	if err != nil {
		return nil, err
	}
	contributions, err := s.contributionRepo.FindContributionsByMeetingID(ctx, meeting.MeetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}

	fund := fundOverview(meeting, contributions, payments)
	wallets := memberWallets(meeting, members, fund, payments)

	names := make(map[int64]string, len(members))
	for _, m := range members {
		names[m.MemberID] = m.Name
	}

	resp := &dto.TripDashboardResponse{
		MeetingName: meeting.Name,
		Date:        meeting.Date,
		Fund:        dto.ToFundOverviewResponse(fund, meeting.TargetCurrency, meeting.BaseExchangeRate),
		Wallets:     make([]dto.MemberWalletResponse, len(wallets)),
		Payments:    dto.ToListPaymentResponse(payments, names),
	}
	for i, w := range wallets {
		resp.Wallets[i] = dto.ToMemberWalletResponse(w)
	}
	return resp, nil
}

// GetTripResult computes the final netted settlement of a trip. Any
// remaining foreign fund is revalued at today's rate; when the live
// lookup fails, the trip's frozen base rate is applied instead, so the
// result always renders.
func (s *SettlementService) GetTripResult(ctx context.Context, meetingID int64, requesterUserID string) (*dto.TripResultResponse, error) {
	meeting, err := s.meetingRepo.FindMeetingByID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}
	if !meeting.OwnedBy(requesterUserID) {
		return nil, fmt.Errorf("%w: meeting %d does not belong to user", apperrors.ErrForbidden, meetingID)
	}
	if !meeting.IsTrip() {
		return nil, fmt.Errorf("%w: meeting %d is not a trip", ErrWrongMeetingMode, meetingID)
	}

	members, payments, err := s.meetingData(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	contributions, err := s.contributionRepo.FindContributionsByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}

	var leader *domain.Member
	for i := range members {
		if members[i].Leader {
			leader = &members[i]
			break
		}
	}
	if leader == nil {
		return nil, ErrNoLeader
	}

	now := s.now()
	appliedRate := meeting.BaseExchangeRate
	live := false
	if meeting.TargetCurrency != domain.SettlementCurrency {
		resolved, rateErr := s.rates.GetRate(ctx, meeting.TargetCurrency, now)
		if rateErr != nil {
			// Revaluation is best effort; the frozen rate keeps the
			// result renderable.
			s.LogError(ctx, rateErr, "live rate lookup failed, using base rate",
				slog.String("currency", meeting.TargetCurrency))
		} else {
			appliedRate = resolved
			live = true
		}
	}

	fund := fundOverview(meeting, contributions, payments)
	settlements := tripSettlements(members, contributions, payments, appliedRate)

	valuation := domain.FundValuation{
		RemainingForeign: fund.RemainingForeign,
		RemainingKRW:     money.RoundWon(fund.RemainingForeign.Mul(appliedRate)),
		AppliedRate:      appliedRate,
		RateDate:         domain.DateKey(now),
		Live:             live,
	}

	dest := s.destination(ctx, meeting)
	manager := dto.ManagerInfoResponse{
		MemberID:       leader.MemberID,
		Name:           leader.Name,
		Bank:           dest.bank,
		AccountNumber:  dest.account,
		KakaoDepositID: dest.kakaoID,
	}
	if dest.kakaoID != "" {
		link := "https://qr.kakaopay.com/" + dest.kakaoID
		manager.KakaoPayLink = &link
	}

	resp := &dto.TripResultResponse{
		MeetingName: meeting.Name,
		Date:        meeting.Date,
		Fund:        dto.ToFundOverviewResponse(fund, meeting.TargetCurrency, meeting.BaseExchangeRate),
		Valuation:   dto.ToFundValuationResponse(valuation),
		Manager:     manager,
		Settlements: make([]dto.MemberSettlementResponse, len(settlements)),
	}
	for i, st := range settlements {
		resp.Settlements[i] = dto.MemberSettlementResponse{
			MemberID:         st.MemberID,
			Name:             st.Name,
			PaidContribution: st.PaidContribution,
			PaidAdvance:      st.PaidAdvance,
			PaidForeignCard:  st.PaidForeignCard,
			TotalPaid:        st.TotalPaid,
			TotalOwed:        st.TotalOwed,
			SettlementAmount: st.SettlementAmount,
			TippedAmount:     st.TippedAmount,
			Direction:        st.Direction,
			Links:            dest.links(st.SettlementAmount),
			TippedLinks:      dest.links(st.TippedAmount),
		}
	}
	return resp, nil
}
