package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/WooHyucks/nbbang-backend/internal/apperrors"
	"github.com/WooHyucks/nbbang-backend/internal/core/domain"
	"github.com/WooHyucks/nbbang-backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RateSnapshotRepository ---
type MockRateSnapshotRepository struct {
	mock.Mock
}

func (m *MockRateSnapshotRepository) FindSnapshot(ctx context.Context, date, currency string) (*domain.RateSnapshot, error) {
	args := m.Called(ctx, date, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateSnapshot), args.Error(1)
}

func (m *MockRateSnapshotRepository) FindLatestSnapshotBefore(ctx context.Context, date, currency string) (*domain.RateSnapshot, error) {
	args := m.Called(ctx, date, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateSnapshot), args.Error(1)
}

func (m *MockRateSnapshotRepository) UpsertSnapshot(ctx context.Context, snapshot domain.RateSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

// --- Mock RateSource ---
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) FetchLatestRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

// --- Test Suite ---
type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockSnapshotRepo *MockRateSnapshotRepository
	mockSource       *MockRateSource
	service          *services.ExchangeRateService
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.mockSnapshotRepo = new(MockRateSnapshotRepository)
	suite.mockSource = new(MockRateSource)
	suite.service = services.NewExchangeRateService(suite.mockSnapshotRepo, suite.mockSource)
}

// --- Test Cases ---

func (suite *ExchangeRateServiceTestSuite) TestGetRate_KRWNeedsNoLookup() {
	ctx := context.Background()

	rate, err := suite.service.GetRate(ctx, "KRW", time.Now())

	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.NewFromInt(1)))
	suite.mockSnapshotRepo.AssertNotCalled(suite.T(), "FindSnapshot", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_SnapshotHit() {
	ctx := context.Background()
	date := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	stored := &domain.RateSnapshot{
		Date:     "2026-05-10",
		Currency: "JPY",
		Rate:     decimal.RequireFromString("9.2"),
	}

	suite.mockSnapshotRepo.On("FindSnapshot", ctx, "2026-05-10", "JPY").Return(stored, nil).Once()

	rate, err := suite.service.GetRate(ctx, "JPY", date)

	suite.Require().NoError(err)
	suite.True(rate.Equal(stored.Rate))
	suite.mockSnapshotRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_SyncsOnMissForToday() {
	ctx := context.Background()
	today := time.Now()
	todayKey := domain.DateKey(today)
	synced := &domain.RateSnapshot{
		Date:     todayKey,
		Currency: "USD",
		Rate:     decimal.RequireFromString("1300"),
	}

	suite.mockSnapshotRepo.On("FindSnapshot", ctx, todayKey, "USD").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSource.On("FetchLatestRates", ctx).Return(map[string]decimal.Decimal{
		"USD": decimal.NewFromInt(1).Div(decimal.NewFromInt(1300)),
	}, nil).Once()
	suite.mockSnapshotRepo.On("UpsertSnapshot", ctx, mock.AnythingOfType("domain.RateSnapshot")).Return(nil).Once()
	suite.mockSnapshotRepo.On("FindSnapshot", ctx, todayKey, "USD").Return(synced, nil).Once()

	rate, err := suite.service.GetRate(ctx, "USD", today)

	suite.Require().NoError(err)
	suite.True(rate.Equal(synced.Rate))
	suite.mockSnapshotRepo.AssertExpectations(suite.T())
	suite.mockSource.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_FallsBackToPriorSnapshot() {
	ctx := context.Background()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	prior := &domain.RateSnapshot{
		Date:     "2024-03-12",
		Currency: "EUR",
		Rate:     decimal.RequireFromString("1450.5"),
	}

	suite.mockSnapshotRepo.On("FindSnapshot", ctx, "2024-03-15", "EUR").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSnapshotRepo.On("FindLatestSnapshotBefore", ctx, "2024-03-15", "EUR").Return(prior, nil).Once()

	rate, err := suite.service.GetRate(ctx, "EUR", date)

	suite.Require().NoError(err)
	suite.True(rate.Equal(prior.Rate))
	suite.mockSource.AssertNotCalled(suite.T(), "FetchLatestRates", mock.Anything)
	suite.mockSnapshotRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_IdentityFallbackIsNotAnError() {
	ctx := context.Background()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	suite.mockSnapshotRepo.On("FindSnapshot", ctx, "2024-03-15", "THB").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSnapshotRepo.On("FindLatestSnapshotBefore", ctx, "2024-03-15", "THB").Return(nil, apperrors.ErrNotFound).Once()

	rate, err := suite.service.GetRate(ctx, "THB", date)

	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.NewFromInt(1)))
	suite.mockSnapshotRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_StorageFailurePropagates() {
	ctx := context.Background()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	dbErr := errors.New("connection refused")

	suite.mockSnapshotRepo.On("FindSnapshot", ctx, "2024-03-15", "USD").Return(nil, dbErr).Once()

	_, err := suite.service.GetRate(ctx, "USD", date)

	suite.Require().Error(err)
	suite.ErrorIs(err, dbErr)
	suite.mockSnapshotRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestSyncDailyRates_StoresReciprocals() {
	ctx := context.Background()

	suite.mockSource.On("FetchLatestRates", ctx).Return(map[string]decimal.Decimal{
		"JPY": decimal.RequireFromString("0.1"),
		"KRW": decimal.NewFromInt(1), // self-quote must be skipped
	}, nil).Once()
	suite.mockSnapshotRepo.On("UpsertSnapshot", ctx, mock.MatchedBy(func(s domain.RateSnapshot) bool {
		return s.Currency == "JPY" && s.Rate.Equal(decimal.NewFromInt(10))
	})).Return(nil).Once()

	err := suite.service.SyncDailyRates(ctx)

	suite.Require().NoError(err)
	suite.mockSnapshotRepo.AssertExpectations(suite.T())
	suite.mockSource.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestSyncDailyRates_SourceFailurePropagates() {
	ctx := context.Background()
	srcErr := errors.New("upstream 503")

	suite.mockSource.On("FetchLatestRates", ctx).Return(nil, srcErr).Once()

	err := suite.service.SyncDailyRates(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, srcErr)
	suite.mockSnapshotRepo.AssertNotCalled(suite.T(), "UpsertSnapshot", mock.Anything, mock.Anything)
}

func TestExchangeRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}
