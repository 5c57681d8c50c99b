package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/WooHyucks/nbbang-backend/internal/apperrors"
	"github.com/WooHyucks/nbbang-backend/internal/core/domain"
	"github.com/WooHyucks/nbbang-backend/internal/core/services"
	"github.com/WooHyucks/nbbang-backend/internal/utils/crypto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SettlementServiceTestSuite struct {
	suite.Suite
	service         *services.SettlementService
	mockMeetingRepo *MockMeetingRepository
	mockMemberRepo  *MockMemberRepository
	mockPaymentRepo *MockPaymentRepository
	mockContribRepo *MockContributionRepository
	mockRates       *MockRateResolver
	cipher          *crypto.Cipher
	trip            domain.Meeting
	members         []domain.Member
	contributions   []domain.Contribution
}

func (suite *SettlementServiceTestSuite) SetupTest() {
	suite.mockMeetingRepo = new(MockMeetingRepository)
	suite.mockMemberRepo = new(MockMemberRepository)
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockContribRepo = new(MockContributionRepository)
	suite.mockRates = new(MockRateResolver)

	cipher, err := crypto.NewCipher("test-secret")
	suite.Require().NoError(err)
	suite.cipher = cipher

	suite.service = services.NewSettlementService(
		suite.mockMeetingRepo,
		suite.mockMemberRepo,
		suite.mockPaymentRepo,
		suite.mockContribRepo,
		suite.mockRates,
		suite.cipher,
	)

	bank, err := cipher.Seal("KB")
	suite.Require().NoError(err)
	account, err := cipher.Seal("123-456")
	suite.Require().NoError(err)

	suite.trip = domain.Meeting{
		MeetingID:        7,
		UserID:           "user-1",
		Name:             "오사카 여행",
		Date:             "2026-03-01",
		ShareUUID:        "share-7",
		Mode:             domain.TripMeeting,
		CountryCode:      "JP",
		TargetCurrency:   "JPY",
		BaseExchangeRate: decimal.NewFromInt(10),
		InitialGonggeum:  300000,
		Bank:             bank,
		AccountNumber:    account,
		KakaoDepositID:   "abc123",
	}
	suite.members = []domain.Member{
		{MemberID: 1, MeetingID: 7, Name: "민수", Leader: true},
		{MemberID: 2, MeetingID: 7, Name: "영희"},
		{MemberID: 3, MeetingID: 7, Name: "철수"},
	}
	suite.contributions = []domain.Contribution{
		{ContributionID: 1, MemberID: 1, MeetingID: 7, Amount: 100000},
		{ContributionID: 2, MemberID: 2, MeetingID: 7, Amount: 100000},
		{ContributionID: 3, MemberID: 3, MeetingID: 7, Amount: 100000},
	}
}

func (suite *SettlementServiceTestSuite) expectTripData(payments []domain.Payment) {
	suite.mockMeetingRepo.On("FindMeetingByID", mock.Anything, int64(7)).Return(&suite.trip, nil)
	suite.mockMeetingRepo.On("FindMeetingByShareUUID", mock.Anything, "share-7").Return(&suite.trip, nil)
	suite.mockMemberRepo.On("FindMembersByMeetingID", mock.Anything, int64(7)).Return(suite.members, nil)
	suite.mockPaymentRepo.On("FindPaymentsByMeetingID", mock.Anything, int64(7)).Return(payments, nil)
	suite.mockContribRepo.On("FindContributionsByMeetingID", mock.Anything, int64(7)).Return(suite.contributions, nil)
}

// sharedJPY is a payment drawn from the pooled fund, frozen at the
// trip's base rate of 10.
func sharedJPY(id int64, originalJPY int64, attendees []int64) domain.Payment {
	return domain.Payment{
		PaymentID:       id,
		MeetingID:       7,
		Name:            "식비",
		Place:           "오사카",
		Price:           originalJPY * 10,
		OriginalPrice:   decimal.NewFromInt(originalJPY),
		Currency:        "JPY",
		ExchangeRate:    decimal.NewFromInt(10),
		Source:          domain.SharedFund(),
		Type:            domain.PublicPayment,
		AttendMemberIDs: attendees,
	}
}

func krwAdvance(id, payerID, price int64, attendees []int64) domain.Payment {
	return domain.Payment{
		PaymentID:       id,
		MeetingID:       7,
		Name:            "사전 결제",
		Place:           "인천",
		Price:           price,
		OriginalPrice:   decimal.NewFromInt(price),
		Currency:        domain.SettlementCurrency,
		ExchangeRate:    decimal.NewFromInt(1),
		Source:          domain.IndividualPayer(payerID),
		PayMemberID:     payerID,
		Type:            domain.IndividualPayment,
		AttendMemberIDs: attendees,
	}
}

func (suite *SettlementServiceTestSuite) TestSplitBalances_SumToZero() {
	payments := []domain.Payment{
		krwAdvance(1, 1, 30000, []int64{1, 2, 3}),
		krwAdvance(2, 2, 12000, []int64{1, 2}),
	}

	balances := services.SplitBalances(suite.members, payments)

	suite.Require().Len(balances, 3)
	suite.Equal(int64(-14000), balances[0].Amount)
	suite.Equal(int64(4000), balances[1].Amount)
	suite.Equal(int64(10000), balances[2].Amount)

	var sum int64
	for _, b := range balances {
		sum += b.Amount
	}
	suite.Equal(int64(0), sum)
}

func (suite *SettlementServiceTestSuite) TestSplitBalances_SharedFundPaymentsOnlyCharge() {
	payments := []domain.Payment{
		sharedJPY(1, 3000, []int64{1, 2, 3}),
	}

	balances := services.SplitBalances(suite.members, payments)

	// No payer to credit: each attendee just owes the split.
	suite.Equal(int64(10000), balances[0].Amount)
	suite.Equal(int64(10000), balances[1].Amount)
	suite.Equal(int64(10000), balances[2].Amount)
}

func (suite *SettlementServiceTestSuite) TestGetSplitResult_ForbiddenForOtherUsers() {
	ctx := context.Background()
	suite.mockMeetingRepo.On("FindMeetingByID", mock.Anything, int64(7)).Return(&suite.trip, nil)

	_, err := suite.service.GetSplitResult(ctx, 7, "someone-else")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockMemberRepo.AssertNotCalled(suite.T(), "FindMembersByMeetingID", mock.Anything, int64(7))
}

func (suite *SettlementServiceTestSuite) TestGetSharePage_BuildsDepositLinks() {
	ctx := context.Background()
	meeting := suite.trip
	meeting.Mode = domain.NWayMeeting
	suite.mockMeetingRepo.On("FindMeetingByShareUUID", mock.Anything, "share-7").Return(&meeting, nil)
	suite.mockMemberRepo.On("FindMembersByMeetingID", mock.Anything, int64(7)).Return(suite.members, nil)
	suite.mockPaymentRepo.On("FindPaymentsByMeetingID", mock.Anything, int64(7)).
		Return([]domain.Payment{krwAdvance(1, 1, 30000, []int64{1, 2, 3})}, nil)

	page, err := suite.service.GetSharePage(ctx, "share-7")

	suite.Require().NoError(err)
	suite.Equal(int64(30000), page.TotalPrice)
	suite.Require().Len(page.Members, 3)

	// 영희 owes 10000 and gets links toward the configured destination.
	owing := page.Members[1]
	suite.Equal(int64(10000), owing.Amount)
	suite.Require().NotNil(owing.Links.Toss)
	suite.Equal("supertoss://send?accountNo=123-456&amount=10000&bank=KB", *owing.Links.Toss)
	suite.Require().NotNil(owing.Links.Kakao)
	suite.Equal("https://qr.kakaopay.com/abc123138800000", *owing.Links.Kakao)
	suite.Require().NotNil(owing.Links.CopyText)
	suite.Equal("KB 123-456 10000원", *owing.Links.CopyText)

	// The payer's balance is negative; links carry the absolute value.
	fronted := page.Members[0]
	suite.Equal(int64(-20000), fronted.Amount)
	suite.Require().NotNil(fronted.Links.Toss)
	suite.Contains(*fronted.Links.Toss, "amount=20000")
}

func (suite *SettlementServiceTestSuite) TestGetSharePage_NoLinksForZeroAmount() {
	ctx := context.Background()
	meeting := suite.trip
	meeting.Mode = domain.NWayMeeting
	suite.mockMeetingRepo.On("FindMeetingByShareUUID", mock.Anything, "share-7").Return(&meeting, nil)
	suite.mockMemberRepo.On("FindMembersByMeetingID", mock.Anything, int64(7)).Return(suite.members, nil)
	suite.mockPaymentRepo.On("FindPaymentsByMeetingID", mock.Anything, int64(7)).Return([]domain.Payment{}, nil)

	page, err := suite.service.GetSharePage(ctx, "share-7")

	suite.Require().NoError(err)
	for _, m := range page.Members {
		suite.Nil(m.Links.Toss)
		suite.Nil(m.Links.Kakao)
		suite.Nil(m.Links.CopyText)
	}
}

func (suite *SettlementServiceTestSuite) TestGetSharePage_SimpleMode() {
	ctx := context.Background()
	meeting := suite.trip
	meeting.Mode = domain.SimpleMeeting
	meeting.SimplePrice = 100000
	meeting.SimpleMemberCount = 3
	suite.mockMeetingRepo.On("FindMeetingByShareUUID", mock.Anything, "share-7").Return(&meeting, nil)
	suite.mockMemberRepo.On("FindMembersByMeetingID", mock.Anything, int64(7)).Return([]domain.Member{}, nil)
	suite.mockPaymentRepo.On("FindPaymentsByMeetingID", mock.Anything, int64(7)).Return([]domain.Payment{}, nil)

	page, err := suite.service.GetSharePage(ctx, "share-7")

	suite.Require().NoError(err)
	suite.Equal(int64(100000), page.TotalPrice)
	suite.Require().NotNil(page.SimpleMemberAmount)
	suite.Equal(int64(33334), *page.SimpleMemberAmount)
	suite.Require().NotNil(page.SimpleTippedAmount)
	suite.Equal(int64(33340), *page.SimpleTippedAmount)
	suite.Require().NotNil(page.SimpleLinks)
	suite.Require().NotNil(page.SimpleLinks.Toss)
	suite.Contains(*page.SimpleLinks.Toss, "amount=33334")
}

func (suite *SettlementServiceTestSuite) TestGetTripDashboard_FundAndWallets() {
	ctx := context.Background()
	suite.expectTripData([]domain.Payment{
		sharedJPY(1, 9000, []int64{1, 2, 3}),
		krwAdvance(2, 2, 30000, []int64{1, 2, 3}), // individual, must not deplete the fund
	})

	resp, err := suite.service.GetTripDashboard(ctx, 7, "user-1")

	suite.Require().NoError(err)
	suite.Equal(int64(300000), resp.Fund.TotalCollected)
	suite.True(resp.Fund.TotalCollectedForeign.Equal(decimal.NewFromInt(30000)))
	suite.Equal(int64(90000), resp.Fund.TotalSpent)
	suite.True(resp.Fund.TotalSpentForeign.Equal(decimal.NewFromInt(9000)))
	suite.Equal(int64(210000), resp.Fund.Remaining)
	suite.True(resp.Fund.RemainingForeign.Equal(decimal.NewFromInt(21000)))
	suite.True(resp.Fund.BurnRate.Equal(decimal.NewFromInt(30)))
	suite.Equal(domain.StatusSafe, resp.Fund.Status)

	suite.Require().Len(resp.Wallets, 3)
	for _, w := range resp.Wallets {
		suite.True(w.InitialShare.Equal(decimal.NewFromInt(10000)))
		suite.True(w.UsedAmount.Equal(decimal.NewFromInt(3000)))
		suite.True(w.CurrentShare.Equal(decimal.NewFromInt(7000)))
		suite.True(w.Ratio.Equal(decimal.NewFromInt(70)))
		suite.Equal(domain.StatusSafe, w.Status)
	}
}

func (suite *SettlementServiceTestSuite) TestGetTripDashboard_SingleContributorFund() {
	ctx := context.Background()
	suite.trip.InitialGonggeum = 0
	suite.members = suite.members[:2]
	suite.contributions = suite.contributions[:1] // only the leader paid in 100,000
	suite.expectTripData([]domain.Payment{
		sharedJPY(1, 2000, []int64{1, 2}),
	})

	resp, err := suite.service.GetTripDashboard(ctx, 7, "user-1")

	suite.Require().NoError(err)
	suite.Equal(int64(100000), resp.Fund.TotalCollected)
	suite.True(resp.Fund.TotalCollectedForeign.Equal(decimal.NewFromInt(10000)))
	suite.Equal(int64(20000), resp.Fund.TotalSpent)
	suite.True(resp.Fund.TotalSpentForeign.Equal(decimal.NewFromInt(2000)))
	suite.Equal(int64(80000), resp.Fund.Remaining)
	suite.True(resp.Fund.RemainingForeign.Equal(decimal.NewFromInt(8000)))
	suite.True(resp.Fund.BurnRate.Equal(decimal.NewFromInt(20)))
	suite.Equal(domain.StatusSafe, resp.Fund.Status)

	suite.Require().Len(resp.Wallets, 2)
	for _, w := range resp.Wallets {
		suite.True(w.InitialShare.Equal(decimal.NewFromInt(5000)))
		suite.True(w.UsedAmount.Equal(decimal.NewFromInt(1000)))
		suite.True(w.CurrentShare.Equal(decimal.NewFromInt(4000)))
		suite.True(w.Ratio.Equal(decimal.NewFromInt(80)))
		suite.Equal(domain.StatusSafe, w.Status)
	}
}

func (suite *SettlementServiceTestSuite) TestGetTripDashboard_FundSizedByLargerInitial() {
	ctx := context.Background()
	suite.trip.InitialGonggeum = 360000
	suite.expectTripData([]domain.Payment{})

	resp, err := suite.service.GetTripDashboard(ctx, 7, "user-1")

	suite.Require().NoError(err)
	suite.Equal(int64(360000), resp.Fund.TotalCollected)
	suite.True(resp.Fund.TotalCollectedForeign.Equal(decimal.NewFromInt(36000)))
}

func (suite *SettlementServiceTestSuite) TestGetTripDashboard_SingleAttendeeChargedInFull() {
	ctx := context.Background()
	suite.expectTripData([]domain.Payment{
		sharedJPY(1, 3000, []int64{2}),
	})

	resp, err := suite.service.GetTripDashboard(ctx, 7, "user-1")

	suite.Require().NoError(err)
	suite.True(resp.Wallets[0].UsedAmount.Equal(decimal.Zero))
	suite.True(resp.Wallets[1].UsedAmount.Equal(decimal.NewFromInt(3000)))
	suite.True(resp.Wallets[2].UsedAmount.Equal(decimal.Zero))
	suite.Equal(domain.StatusWarning, resp.Wallets[1].Status) // 70% used, 30% left
}

func (suite *SettlementServiceTestSuite) TestGetTripDashboard_RejectsNonTrip() {
	ctx := context.Background()
	meeting := suite.trip
	meeting.Mode = domain.NWayMeeting
	suite.mockMeetingRepo.On("FindMeetingByID", mock.Anything, int64(7)).Return(&meeting, nil)

	_, err := suite.service.GetTripDashboard(ctx, 7, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrWrongMeetingMode)
}

func (suite *SettlementServiceTestSuite) TestGetTripResult_LiveRevaluation() {
	ctx := context.Background()
	suite.expectTripData([]domain.Payment{
		sharedJPY(1, 9000, []int64{1, 2, 3}),
		krwAdvance(2, 2, 30000, []int64{1, 2, 3}),
	})
	suite.mockRates.On("GetRate", mock.Anything, "JPY", mock.Anything).
		Return(decimal.NewFromInt(12), nil)

	resp, err := suite.service.GetTripResult(ctx, 7, "user-1")

	suite.Require().NoError(err)
	suite.True(resp.Valuation.Live)
	suite.True(resp.Valuation.AppliedRate.Equal(decimal.NewFromInt(12)))
	suite.True(resp.Valuation.RemainingForeign.Equal(decimal.NewFromInt(21000)))
	suite.Equal(int64(252000), resp.Valuation.RemainingKRW)

	suite.Equal(int64(1), resp.Manager.MemberID)
	suite.Equal("민수", resp.Manager.Name)
	suite.Equal("KB", resp.Manager.Bank)
	suite.Equal("123-456", resp.Manager.AccountNumber)

	// Each member owes 9000 JPY / 3 at the live rate plus a third of
	// the 30000 KRW advance: 36000 + 10000.
	suite.Require().Len(resp.Settlements, 3)
	first := resp.Settlements[0]
	suite.Equal(int64(100000), first.TotalPaid)
	suite.Equal(int64(46000), first.TotalOwed)
	suite.Equal(int64(54000), first.SettlementAmount)
	suite.Equal(domain.Receive, first.Direction)

	advancer := resp.Settlements[1]
	suite.Equal(int64(30000), advancer.PaidAdvance)
	suite.Equal(int64(130000), advancer.TotalPaid)
	suite.Equal(int64(84000), advancer.SettlementAmount)
	suite.Require().NotNil(advancer.Links.Toss)
	suite.Contains(*advancer.Links.Toss, "amount=84000")
}

func (suite *SettlementServiceTestSuite) TestGetTripResult_FallsBackToBaseRate() {
	ctx := context.Background()
	suite.expectTripData([]domain.Payment{
		sharedJPY(1, 9000, []int64{1, 2, 3}),
	})
	suite.mockRates.On("GetRate", mock.Anything, "JPY", mock.Anything).
		Return(decimal.Zero, errors.New("rate source unreachable"))

	resp, err := suite.service.GetTripResult(ctx, 7, "user-1")

	suite.Require().NoError(err)
	suite.False(resp.Valuation.Live)
	suite.True(resp.Valuation.AppliedRate.Equal(decimal.NewFromInt(10)))
	suite.Equal(int64(210000), resp.Valuation.RemainingKRW)

	// Owed shares fall back to the frozen base rate as well.
	suite.Equal(int64(30000), resp.Settlements[0].TotalOwed)
	suite.Equal(int64(70000), resp.Settlements[0].SettlementAmount)
}

func (suite *SettlementServiceTestSuite) TestGetTripResult_NoLeaderIsError() {
	ctx := context.Background()
	suite.members[0].Leader = false
	suite.expectTripData([]domain.Payment{})

	_, err := suite.service.GetTripResult(ctx, 7, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNoLeader)
}

func (suite *SettlementServiceTestSuite) TestGetTripResult_ForeignCardCountsAsPaid() {
	ctx := context.Background()
	card := domain.Payment{
		PaymentID:       1,
		MeetingID:       7,
		Name:            "기념품",
		Place:           "난바",
		Price:           30000,
		OriginalPrice:   decimal.NewFromInt(3000),
		Currency:        "JPY",
		ExchangeRate:    decimal.NewFromInt(10),
		Source:          domain.IndividualPayer(3),
		PayMemberID:     3,
		Type:            domain.IndividualPayment,
		AttendMemberIDs: []int64{1, 2, 3},
	}
	suite.expectTripData([]domain.Payment{card})
	suite.mockRates.On("GetRate", mock.Anything, "JPY", mock.Anything).
		Return(decimal.NewFromInt(10), nil)

	resp, err := suite.service.GetTripResult(ctx, 7, "user-1")

	suite.Require().NoError(err)
	payer := resp.Settlements[2]
	suite.Equal(int64(30000), payer.PaidForeignCard)
	suite.Equal(int64(130000), payer.TotalPaid)
	suite.Equal(int64(10000), payer.TotalOwed)
	suite.Equal(int64(120000), payer.SettlementAmount)
}

func TestSettlementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettlementServiceTestSuite))
}
