package services_test

import (
	"context"
	"testing"

	"github.com/WooHyucks/nbbang-backend/internal/apperrors"
	"github.com/WooHyucks/nbbang-backend/internal/core/domain"
	"github.com/WooHyucks/nbbang-backend/internal/core/services"
	"github.com/WooHyucks/nbbang-backend/internal/dto"
	"github.com/WooHyucks/nbbang-backend/internal/utils/crypto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type MeetingServiceTestSuite struct {
	suite.Suite
	mockMeetingRepo      *MockMeetingRepository
	mockMemberRepo       *MockMemberRepository
	mockPaymentRepo      *MockPaymentRepository
	mockContributionRepo *MockContributionRepository
	mockRates            *MockRateResolver
	cipher               *crypto.Cipher
	service              *services.MeetingService

	userID string
}

func (suite *MeetingServiceTestSuite) SetupTest() {
	suite.mockMeetingRepo = new(MockMeetingRepository)
	suite.mockMemberRepo = new(MockMemberRepository)
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockContributionRepo = new(MockContributionRepository)
	suite.mockRates = new(MockRateResolver)

	cipher, err := crypto.NewCipher("test-secret")
	suite.Require().NoError(err)
	suite.cipher = cipher

	suite.service = services.NewMeetingService(
		suite.mockMeetingRepo,
		suite.mockMemberRepo,
		suite.mockPaymentRepo,
		suite.mockContributionRepo,
		suite.mockRates,
		suite.cipher,
	)
	suite.userID = "user-1"
}

func (suite *MeetingServiceTestSuite) expectSaveMeeting() *domain.Meeting {
	saved := &domain.Meeting{}
	suite.mockMeetingRepo.On("SaveMeeting", mock.Anything, mock.AnythingOfType("domain.Meeting")).
		Run(func(args mock.Arguments) {
			m := args.Get(1).(domain.Meeting)
			m.MeetingID = 7
			*saved = m
		}).
		Return(saved, nil).Once()
	return saved
}

// --- Test Cases ---

func (suite *MeetingServiceTestSuite) TestCreateTripMeeting_DerivesBaseRateFromTotals() {
	ctx := context.Background()
	saved := suite.expectSaveMeeting()

	nextMemberID := int64(0)
	suite.mockMemberRepo.On("SaveMember", mock.Anything, mock.AnythingOfType("domain.Member")).
		Return(func(ctx context.Context, m domain.Member) (*domain.Member, error) {
			nextMemberID++
			m.MemberID = nextMemberID
			return &m, nil
		}).Times(2)
	suite.mockContributionRepo.On("SaveContribution", mock.Anything, mock.AnythingOfType("domain.Contribution")).
		Return(&domain.Contribution{}, nil).Times(2)

	var advance domain.Payment
	suite.mockPaymentRepo.On("SavePayment", mock.Anything, mock.AnythingOfType("domain.Payment")).
		Run(func(args mock.Arguments) { advance = args.Get(1).(domain.Payment) }).
		Return(&domain.Payment{PaymentID: 1}, nil).Once()

	_, err := suite.service.CreateTripMeeting(ctx, dto.CreateTripMeetingRequest{
		Name:         "오사카 여행",
		Date:         "2026-04-01",
		CountryCode:  "JP",
		TotalForeign: decimal.NewFromInt(100000),
		Contributions: []dto.TripContribution{
			{MemberName: "민수", AmountKRW: 500000},
			{MemberName: "영희", AmountKRW: 450000},
		},
		AdvancePayments: []dto.TripAdvancePayment{
			{Name: "숙소 예약", Price: 200000, PayMemberName: "민수"},
		},
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("JPY", saved.TargetCurrency)
	suite.True(saved.BaseExchangeRate.Equal(decimal.RequireFromString("9.5")), "950000/100000 = 9.5, got %s", saved.BaseExchangeRate)
	suite.Equal(int64(950000), saved.InitialGonggeum)
	suite.Equal(domain.TripMeeting, saved.Mode)

	// advance payment is a KRW individual payment attended by everyone
	suite.Equal(domain.IndividualPayment, advance.Type)
	suite.Equal(domain.SettlementCurrency, advance.Currency)
	suite.True(advance.ExchangeRate.Equal(decimal.NewFromInt(1)))
	suite.Equal(int64(1), advance.PayMemberID)
	suite.Equal([]int64{1, 2}, advance.AttendMemberIDs)
	suite.mockRates.AssertNotCalled(suite.T(), "GetRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MeetingServiceTestSuite) TestCreateTripMeeting_ResolvesRateWithoutTotals() {
	ctx := context.Background()
	saved := suite.expectSaveMeeting()

	suite.mockRates.On("GetRate", mock.Anything, "THB", mock.AnythingOfType("time.Time")).
		Return(decimal.RequireFromString("38.2"), nil).Once()
	suite.mockMemberRepo.On("SaveMember", mock.Anything, mock.AnythingOfType("domain.Member")).
		Return(func(ctx context.Context, m domain.Member) (*domain.Member, error) {
			m.MemberID = 1
			return &m, nil
		}).Once()
	suite.mockContributionRepo.On("SaveContribution", mock.Anything, mock.AnythingOfType("domain.Contribution")).
		Return(&domain.Contribution{}, nil).Once()

	_, err := suite.service.CreateTripMeeting(ctx, dto.CreateTripMeetingRequest{
		Name:        "방콕",
		Date:        "2026-04-01",
		CountryCode: "TH",
		Contributions: []dto.TripContribution{
			{MemberName: "민수", AmountKRW: 300000},
		},
	}, suite.userID)

	suite.Require().NoError(err)
	suite.True(saved.BaseExchangeRate.Equal(decimal.RequireFromString("38.2")))
	suite.mockRates.AssertExpectations(suite.T())
}

func (suite *MeetingServiceTestSuite) TestCreateTripMeeting_FirstContributorLeads() {
	ctx := context.Background()
	suite.expectSaveMeeting()

	var firstSaved, secondSaved domain.Member
	call := 0
	suite.mockMemberRepo.On("SaveMember", mock.Anything, mock.AnythingOfType("domain.Member")).
		Return(func(ctx context.Context, m domain.Member) (*domain.Member, error) {
			call++
			m.MemberID = int64(call)
			if call == 1 {
				firstSaved = m
			} else {
				secondSaved = m
			}
			return &m, nil
		}).Times(2)
	suite.mockContributionRepo.On("SaveContribution", mock.Anything, mock.AnythingOfType("domain.Contribution")).
		Return(&domain.Contribution{}, nil).Times(2)

	_, err := suite.service.CreateTripMeeting(ctx, dto.CreateTripMeetingRequest{
		Name:         "도쿄",
		Date:         "2026-05-01",
		CountryCode:  "JP",
		TotalForeign: decimal.NewFromInt(1000),
		Contributions: []dto.TripContribution{
			{MemberName: "민수", AmountKRW: 100000},
			{MemberName: "영희", AmountKRW: 100000},
		},
	}, suite.userID)

	suite.Require().NoError(err)
	suite.True(firstSaved.Leader)
	suite.False(secondSaved.Leader)
}

func (suite *MeetingServiceTestSuite) TestCreateTripMeeting_UnknownAdvancePayerRejected() {
	ctx := context.Background()
	suite.expectSaveMeeting()

	suite.mockMemberRepo.On("SaveMember", mock.Anything, mock.AnythingOfType("domain.Member")).
		Return(func(ctx context.Context, m domain.Member) (*domain.Member, error) {
			m.MemberID = 1
			return &m, nil
		}).Once()
	suite.mockContributionRepo.On("SaveContribution", mock.Anything, mock.AnythingOfType("domain.Contribution")).
		Return(&domain.Contribution{}, nil).Once()

	_, err := suite.service.CreateTripMeeting(ctx, dto.CreateTripMeetingRequest{
		Name:         "도쿄",
		Date:         "2026-05-01",
		CountryCode:  "JP",
		TotalForeign: decimal.NewFromInt(1000),
		Contributions: []dto.TripContribution{
			{MemberName: "민수", AmountKRW: 100000},
		},
		AdvancePayments: []dto.TripAdvancePayment{
			{Name: "항공권", Price: 50000, PayMemberName: "없는사람"},
		},
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrUnknownAdvancePayer)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything)
}

func (suite *MeetingServiceTestSuite) TestCreateTripMeeting_UnsupportedCountryRejected() {
	ctx := context.Background()

	_, err := suite.service.CreateTripMeeting(ctx, dto.CreateTripMeetingRequest{
		Name:        "화성",
		Date:        "2026-05-01",
		CountryCode: "XX",
		Contributions: []dto.TripContribution{
			{MemberName: "민수", AmountKRW: 100000},
		},
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockMeetingRepo.AssertNotCalled(suite.T(), "SaveMeeting", mock.Anything, mock.Anything)
}

func (suite *MeetingServiceTestSuite) TestAddBudget_RejectedForNonTrip() {
	ctx := context.Background()
	meeting := &domain.Meeting{MeetingID: 7, UserID: suite.userID, Mode: domain.NWayMeeting}
	suite.mockMeetingRepo.On("FindMeetingByID", ctx, int64(7)).Return(meeting, nil).Once()

	err := suite.service.AddBudget(ctx, 7, dto.AddBudgetRequest{
		Additions: []dto.AddBudgetEntry{{MemberID: 1, AddAmount: 10000}},
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrWrongMeetingMode)
}

func (suite *MeetingServiceTestSuite) TestAddBudgetForeign_ConvertsAndSplitsEvenly() {
	ctx := context.Background()
	meeting := &domain.Meeting{
		MeetingID:        7,
		UserID:           suite.userID,
		Mode:             domain.TripMeeting,
		TargetCurrency:   "JPY",
		BaseExchangeRate: decimal.NewFromInt(10),
	}
	suite.mockMeetingRepo.On("FindMeetingByID", ctx, int64(7)).Return(meeting, nil).Once()

	suite.mockMemberRepo.On("FindMemberByID", ctx, int64(1)).Return(&domain.Member{MemberID: 1, MeetingID: 7}, nil).Once()
	suite.mockMemberRepo.On("FindMemberByID", ctx, int64(2)).Return(&domain.Member{MemberID: 2, MeetingID: 7}, nil).Once()

	// member 1 tops up an existing contribution, member 2 starts fresh
	existing := &domain.Contribution{ContributionID: 5, MemberID: 1, MeetingID: 7, Amount: 100000}
	suite.mockContributionRepo.On("FindContributionByMemberID", ctx, int64(7), int64(1)).Return(existing, nil).Once()
	suite.mockContributionRepo.On("FindContributionByMemberID", ctx, int64(7), int64(2)).Return(nil, apperrors.ErrNotFound).Once()

	suite.mockContributionRepo.On("UpdateContribution", ctx, mock.MatchedBy(func(c domain.Contribution) bool {
		return c.MemberID == 1 && c.Amount == 100500 // 100000 + 1000/2
	})).Return(nil).Once()
	suite.mockContributionRepo.On("SaveContribution", ctx, mock.MatchedBy(func(c domain.Contribution) bool {
		return c.MemberID == 2 && c.Amount == 500
	})).Return(&domain.Contribution{}, nil).Once()

	err := suite.service.AddBudgetForeign(ctx, 7, dto.AddBudgetForeignRequest{
		ForeignAmount: decimal.NewFromInt(100), // 100 JPY * 10 = 1000 KRW
		MemberIDs:     []int64{1, 2},
	}, suite.userID)

	suite.Require().NoError(err)
	suite.mockContributionRepo.AssertExpectations(suite.T())
}

func (suite *MeetingServiceTestSuite) TestUpdateBankAccount_SealsDestination() {
	ctx := context.Background()
	meeting := &domain.Meeting{MeetingID: 7, UserID: suite.userID, Mode: domain.NWayMeeting}
	suite.mockMeetingRepo.On("FindMeetingByID", ctx, int64(7)).Return(meeting, nil).Once()

	var updated domain.Meeting
	suite.mockMeetingRepo.On("UpdateMeeting", ctx, mock.AnythingOfType("domain.Meeting")).
		Run(func(args mock.Arguments) { updated = args.Get(1).(domain.Meeting) }).
		Return(nil).Once()

	err := suite.service.UpdateBankAccount(ctx, 7, dto.UpdateBankAccountRequest{
		Bank:          "국민은행",
		AccountNumber: "123-456-789",
	}, suite.userID)

	suite.Require().NoError(err)
	suite.False(updated.Bank.IsZero())

	bank, err := suite.cipher.Reveal(updated.Bank)
	suite.Require().NoError(err)
	suite.Equal("국민은행", bank)
	account, err := suite.cipher.Reveal(updated.AccountNumber)
	suite.Require().NoError(err)
	suite.Equal("123-456-789", account)
}

func TestMeetingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MeetingServiceTestSuite))
}
