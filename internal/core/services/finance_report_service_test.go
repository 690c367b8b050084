package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/SscSPs/fintrack_backend/internal/core/services"
	"github.com/SscSPs/fintrack_backend/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mock FinancialAggregatorSvc ---
type MockFinancialAggregator struct {
	mock.Mock
}

func (m *MockFinancialAggregator) NetWorth(ctx context.Context, inputs domain.AggregationInputs, asOf time.Time) (*domain.NetWorthReport, error) {
	args := m.Called(ctx, inputs, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NetWorthReport), args.Error(1)
}

func (m *MockFinancialAggregator) CashFlow(ctx context.Context, inputs domain.AggregationInputs, periodStart, periodEnd time.Time) (*domain.CashFlowReport, error) {
	args := m.Called(ctx, inputs, periodStart, periodEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashFlowReport), args.Error(1)
}

func (m *MockFinancialAggregator) HealthScore(ctx context.Context, inputs domain.AggregationInputs, asOf time.Time) (*domain.HealthScoreReport, error) {
	args := m.Called(ctx, inputs, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HealthScoreReport), args.Error(1)
}

func (m *MockFinancialAggregator) RecurringSummary(ctx context.Context, inputs domain.AggregationInputs, asOf time.Time) (*domain.RecurringSummary, error) {
	args := m.Called(ctx, inputs, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringSummary), args.Error(1)
}

func (m *MockFinancialAggregator) InstallmentOverview(ctx context.Context, inputs domain.AggregationInputs, asOf time.Time) (*domain.InstallmentOverview, error) {
	args := m.Called(ctx, inputs, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InstallmentOverview), args.Error(1)
}

// --- Mock UserPreferenceReader ---
type MockPreferenceReader struct {
	mock.Mock
}

func (m *MockPreferenceReader) GetDisplayCurrency(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

// failingSnapshots serves memory snapshots but fails to list debts.
type failingSnapshots struct {
	*memory.SnapshotRepository
	err error
}

func (f failingSnapshots) ListDebts(context.Context, string) ([]domain.Debt, error) {
	return nil, f.err
}

func displayIs(code string) any {
	return mock.MatchedBy(func(in domain.AggregationInputs) bool { return in.DisplayCurrency == code })
}

// --- Test Suite ---
type FinanceReportServiceTestSuite struct {
	suite.Suite
	snapshots  *memory.SnapshotRepository
	aggregator *MockFinancialAggregator
	asOf       time.Time
}

func (suite *FinanceReportServiceTestSuite) SetupTest() {
	suite.snapshots = memory.NewSnapshotRepository()
	suite.aggregator = new(MockFinancialAggregator)
	suite.asOf = day(2025, 7, 20)
}

func (suite *FinanceReportServiceTestSuite) TestNetWorthForUser_LoadsSnapshots() {
	ctx := context.Background()
	suite.snapshots.Put(domain.AggregationInputs{
		UserID:          "user-1",
		DisplayCurrency: "EUR",
		Savings:         []domain.SavingsAccount{{ID: "s1", Balance: dec("10"), CurrencyCode: "EUR", IsActive: true}},
		Goals:           []domain.Goal{{ID: "g1", Status: domain.GoalActive}},
	})
	expected := &domain.NetWorthReport{DisplayCurrency: "EUR", NetWorth: dec("10")}
	suite.aggregator.On("NetWorth", ctx, mock.MatchedBy(func(in domain.AggregationInputs) bool {
		return in.UserID == "user-1" && in.DisplayCurrency == "EUR" && len(in.Savings) == 1 && len(in.Goals) == 1
	}), suite.asOf).Return(expected, nil).Once()

	svc := services.NewFinanceReportService(suite.snapshots, suite.snapshots, suite.aggregator)
	report, err := svc.NetWorthForUser(ctx, "user-1", suite.asOf)

	suite.Require().NoError(err)
	suite.Equal(expected, report)
	suite.aggregator.AssertExpectations(suite.T())
}

func (suite *FinanceReportServiceTestSuite) TestDisplayCurrencyDefaults() {
	ctx := context.Background()
	suite.aggregator.On("HealthScore", ctx, displayIs("GBP"), suite.asOf).Return(&domain.HealthScoreReport{}, nil).Once()

	svc := services.NewFinanceReportService(suite.snapshots, suite.snapshots, suite.aggregator,
		services.WithDefaultDisplayCurrency("gbp"))
	_, err := svc.HealthScoreForUser(ctx, "no-preference", suite.asOf)

	suite.Require().NoError(err)
	suite.aggregator.AssertExpectations(suite.T())
}

func (suite *FinanceReportServiceTestSuite) TestDisplayCurrencyWithoutPreferenceReader() {
	ctx := context.Background()
	suite.aggregator.On("RecurringSummary", ctx, displayIs(domain.DefaultDisplayCurrency), suite.asOf).
		Return(&domain.RecurringSummary{}, nil).Once()

	svc := services.NewFinanceReportService(suite.snapshots, nil, suite.aggregator,
		services.WithDefaultDisplayCurrency("not-a-code"))
	_, err := svc.RecurringSummaryForUser(ctx, "user-1", suite.asOf)

	suite.Require().NoError(err)
	suite.aggregator.AssertExpectations(suite.T())
}

func (suite *FinanceReportServiceTestSuite) TestDisplayCurrencyReadFailure() {
	ctx := context.Background()
	prefs := new(MockPreferenceReader)
	dbErr := errors.New("connection reset")
	prefs.On("GetDisplayCurrency", ctx, "user-1").Return("", dbErr).Once()

	svc := services.NewFinanceReportService(suite.snapshots, prefs, suite.aggregator)
	_, err := svc.InstallmentOverviewForUser(ctx, "user-1", suite.asOf)

	suite.Require().Error(err)
	suite.ErrorIs(err, dbErr)
	suite.aggregator.AssertNotCalled(suite.T(), "InstallmentOverview", mock.Anything, mock.Anything, mock.Anything)
	prefs.AssertExpectations(suite.T())
}

func (suite *FinanceReportServiceTestSuite) TestUserIDRequired() {
	svc := services.NewFinanceReportService(suite.snapshots, suite.snapshots, suite.aggregator)
	_, err := svc.NetWorthForUser(context.Background(), "", suite.asOf)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *FinanceReportServiceTestSuite) TestCashFlowForUser_InvalidPeriod() {
	svc := services.NewFinanceReportService(suite.snapshots, suite.snapshots, suite.aggregator)
	_, err := svc.CashFlowForUser(context.Background(), "user-1", day(2025, 6, 30), day(2025, 6, 1))
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.aggregator.AssertNotCalled(suite.T(), "CashFlow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FinanceReportServiceTestSuite) TestSnapshotErrorPropagates() {
	loadErr := errors.New("relation \"debts\" does not exist")
	snapshots := failingSnapshots{SnapshotRepository: suite.snapshots, err: loadErr}

	svc := services.NewFinanceReportService(snapshots, suite.snapshots, suite.aggregator)
	_, err := svc.CashFlowForUser(context.Background(), "user-1", day(2025, 6, 1), day(2025, 6, 30))

	suite.Require().Error(err)
	suite.ErrorIs(err, loadErr)
	suite.Contains(err.Error(), "debts")
	suite.aggregator.AssertNotCalled(suite.T(), "CashFlow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFinanceReportService(t *testing.T) {
	suite.Run(t, new(FinanceReportServiceTestSuite))
}

// TestFinanceReportServiceEndToEnd runs a stored user through the real aggregator.
func TestFinanceReportServiceEndToEnd(t *testing.T) {
	ctx := context.Background()
	currencies := services.NewCurrencyService(memory.NewCurrencyRepository())
	require.NoError(t, currencies.InitializeStaticData(ctx))
	store := services.NewExchangeRateService(memory.NewExchangeRateRepository())
	_, err := store.RecordManualOverride(ctx, "EUR", "USD", dec("1.08"), "admin")
	require.NoError(t, err)

	converter := services.NewCurrencyConverter(store, services.WithCurrencyReader(currencies))
	aggregator := services.NewFinancialAggregator(converter, services.WithAggregatorCurrencyReader(currencies))

	snapshots := memory.NewSnapshotRepository()
	snapshots.Put(domain.AggregationInputs{
		UserID:       "user-1",
		Portfolio:    []domain.PortfolioAsset{{ID: "p1", CurrentValue: dec("10000"), CurrencyCode: "USD", IsActive: true}},
		Savings:      []domain.SavingsAccount{{ID: "s1", Balance: dec("2000"), CurrencyCode: "EUR", IsActive: true}},
		Installments: []domain.InstallmentSchedule{phoneLoan()},
	})

	svc := services.NewFinanceReportService(snapshots, snapshots, aggregator)
	report, err := svc.NetWorthForUser(ctx, "user-1", day(2025, 7, 20))

	require.NoError(t, err)
	assert.Equal(t, "USD", report.DisplayCurrency)
	assert.True(t, dec("11660").Equal(report.NetWorth), "got %s", report.NetWorth)
	assert.Empty(t, report.Warnings)
}
