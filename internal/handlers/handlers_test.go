package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/adapters/rateprovider"
	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
	"github.com/SscSPs/fintrack_backend/internal/core/services"
	"github.com/SscSPs/fintrack_backend/internal/dto"
	"github.com/SscSPs/fintrack_backend/internal/handlers"
	"github.com/SscSPs/fintrack_backend/internal/platform/config"
	"github.com/SscSPs/fintrack_backend/internal/platform/metrics"
	"github.com/SscSPs/fintrack_backend/internal/repositories/memory"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testJWTSecret = "test-secret"

// --- Mock FinanceReportService ---
type MockFinanceReportService struct {
	mock.Mock
}

func (m *MockFinanceReportService) NetWorthForUser(ctx context.Context, userID string, asOf time.Time) (*domain.NetWorthReport, error) {
	args := m.Called(ctx, userID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NetWorthReport), args.Error(1)
}

func (m *MockFinanceReportService) CashFlowForUser(ctx context.Context, userID string, periodStart, periodEnd time.Time) (*domain.CashFlowReport, error) {
	args := m.Called(ctx, userID, periodStart, periodEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashFlowReport), args.Error(1)
}

func (m *MockFinanceReportService) HealthScoreForUser(ctx context.Context, userID string, asOf time.Time) (*domain.HealthScoreReport, error) {
	args := m.Called(ctx, userID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HealthScoreReport), args.Error(1)
}

func (m *MockFinanceReportService) RecurringSummaryForUser(ctx context.Context, userID string, asOf time.Time) (*domain.RecurringSummary, error) {
	args := m.Called(ctx, userID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringSummary), args.Error(1)
}

func (m *MockFinanceReportService) InstallmentOverviewForUser(ctx context.Context, userID string, asOf time.Time) (*domain.InstallmentOverview, error) {
	args := m.Called(ctx, userID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InstallmentOverview), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.FinanceReportSvc = (*MockFinanceReportService)(nil)

func generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		panic(err)
	}
	return token
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// --- Test Suite ---
type HandlersTestSuite struct {
	suite.Suite
	router  *gin.Engine
	reports *MockFinanceReportService
	token   string
}

func newContainer(reports portssvc.FinanceReportSvc) (*portssvc.ServiceContainer, error) {
	ctx := context.Background()
	provider, err := rateprovider.NewStaticProvider(map[string]string{"EUR/USD": "1.08"})
	if err != nil {
		return nil, err
	}
	currencies := services.NewCurrencyService(memory.NewCurrencyRepository())
	if err := currencies.InitializeStaticData(ctx); err != nil {
		return nil, err
	}
	rates := services.NewExchangeRateService(memory.NewExchangeRateRepository())
	converter := services.NewCurrencyConverter(rates,
		services.WithRateProvider(provider),
		services.WithCurrencyReader(currencies))
	return &portssvc.ServiceContainer{
		Currency:     currencies,
		ExchangeRate: rates,
		Converter:    converter,
		Reports:      reports,
	}, nil
}

func newRouter(cfg *config.Config, container *portssvc.ServiceContainer) (*gin.Engine, error) {
	r := gin.New()
	err := handlers.RegisterRoutes(r, cfg, container, metrics.New(prometheus.NewRegistry()))
	return r, err
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.reports = new(MockFinanceReportService)

	container, err := newContainer(suite.reports)
	suite.Require().NoError(err)
	cfg := &config.Config{JWTSecret: testJWTSecret, RateLimit: "1000-M", IsProduction: true}
	suite.router, err = newRouter(cfg, container)
	suite.Require().NoError(err)
	suite.token = generateTestToken("user-1")
}

func (suite *HandlersTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func (suite *HandlersTestSuite) TestHealth() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlersTestSuite) TestMetricsEndpoint() {
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlersTestSuite) TestUnauthorized() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/currencies", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)

	suite.token = "not-a-jwt"
	w = suite.do(http.MethodGet, "/api/v1/currencies", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestGetCurrency() {
	w := suite.do(http.MethodGet, "/api/v1/currencies/jpy", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	body := suite.decode(w)
	suite.Equal("JPY", body["currencyCode"])
	suite.EqualValues(0, body["precision"])

	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/currencies/EURO", nil).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/v1/currencies/XYZ", nil).Code)
}

func (suite *HandlersTestSuite) TestListCurrencies() {
	w := suite.do(http.MethodGet, "/api/v1/currencies?activeOnly=true", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var list []map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
	suite.NotEmpty(list)

	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/currencies?activeOnly=maybe", nil).Code)
}

func (suite *HandlersTestSuite) TestCreateCurrency() {
	w := suite.do(http.MethodPost, "/api/v1/currencies", map[string]any{
		"currencyCode": "btc", "symbol": "₿", "name": "Bitcoin", "precision": 8,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	body := suite.decode(w)
	suite.Equal("BTC", body["currencyCode"])
	suite.EqualValues(8, body["precision"])
	suite.Equal("user-1", body["createdBy"])

	tests := []struct {
		name     string
		body     map[string]any
		expected int
	}{
		{"duplicate", map[string]any{"currencyCode": "USD", "symbol": "$", "name": "US Dollar"}, http.StatusConflict},
		{"bad code", map[string]any{"currencyCode": "US", "symbol": "$", "name": "US Dollar"}, http.StatusBadRequest},
		{"missing name", map[string]any{"currencyCode": "ABC", "symbol": "A"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.Equal(tt.expected, suite.do(http.MethodPost, "/api/v1/currencies", tt.body).Code)
		})
	}
}

func (suite *HandlersTestSuite) TestGetExchangeRate() {
	w := suite.do(http.MethodGet, "/api/v1/exchange-rates/EUR/USD", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	body := suite.decode(w)
	suite.Equal("provider", body["source"])
	suite.Equal("1.08", body["rate"])
	suite.Equal(true, body["available"])

	w = suite.do(http.MethodGet, "/api/v1/exchange-rates/EUR/USD", nil)
	suite.Equal("cache", suite.decode(w)["source"])

	w = suite.do(http.MethodGet, "/api/v1/exchange-rates/EUR/USD?refresh=true", nil)
	suite.Equal("provider", suite.decode(w)["source"])
}

func (suite *HandlersTestSuite) TestGetExchangeRate_Unavailable() {
	w := suite.do(http.MethodGet, "/api/v1/exchange-rates/GBP/JPY", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	body := suite.decode(w)
	suite.Equal("unavailable", body["source"])
	suite.Equal(false, body["available"])
	suite.NotContains(body, "rate")
}

func (suite *HandlersTestSuite) TestGetExchangeRate_InvalidCode() {
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/exchange-rates/EU/USD", nil).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/exchange-rates/EUR/USD?refresh=soon", nil).Code)
}

func (suite *HandlersTestSuite) TestOverrideAndHistory() {
	suite.Require().Equal(http.StatusOK, suite.do(http.MethodGet, "/api/v1/exchange-rates/EUR/USD", nil).Code)

	w := suite.do(http.MethodPost, "/api/v1/exchange-rates/overrides", map[string]any{
		"fromCurrencyCode": "eur", "toCurrencyCode": "usd", "rate": "1.10",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	body := suite.decode(w)
	suite.Equal(true, body["isManualOverride"])
	suite.Equal("user-1", body["overriddenBy"])

	w = suite.do(http.MethodGet, "/api/v1/exchange-rates/EUR/USD", nil)
	body = suite.decode(w)
	suite.Equal("1.1", body["rate"])
	suite.Equal(true, body["isManualOverride"])

	w = suite.do(http.MethodGet, "/api/v1/exchange-rates/EUR/USD/history?limit=10", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var history dto.ListObservationsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &history))
	suite.Require().Len(history.Observations, 2)
	suite.True(history.Observations[0].IsManualOverride, "newest first")
	suite.Nil(history.NextToken)

	w = suite.do(http.MethodGet, "/api/v1/exchange-rates/EUR/USD/history?limit=1", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &history))
	suite.Require().Len(history.Observations, 1)
	suite.Require().NotNil(history.NextToken)

	w = suite.do(http.MethodGet, "/api/v1/exchange-rates/EUR/USD/history?limit=1&nextToken="+*history.NextToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var older dto.ListObservationsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &older))
	suite.Require().Len(older.Observations, 1)
	suite.False(older.Observations[0].IsManualOverride)
	suite.Nil(older.NextToken)

	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/exchange-rates/EUR/USD/history?nextToken=garbage", nil).Code)

	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/exchange-rates/EUR/USD/history?limit=501", nil).Code)
}

func (suite *HandlersTestSuite) TestOverride_RejectsNonPositiveRate() {
	w := suite.do(http.MethodPost, "/api/v1/exchange-rates/overrides", map[string]any{
		"fromCurrencyCode": "EUR", "toCurrencyCode": "USD", "rate": "-1",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestConvert() {
	w := suite.do(http.MethodPost, "/api/v1/conversions", map[string]any{
		"amount": "100", "fromCurrencyCode": "EUR", "toCurrencyCode": "USD",
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	body := suite.decode(w)
	converted := body["converted"].(map[string]any)
	suite.Equal("108", converted["amount"])
	suite.Equal("USD", converted["currencyCode"])
	suite.Equal("provider", body["source"])

	w = suite.do(http.MethodPost, "/api/v1/conversions", map[string]any{
		"amount": "100", "fromCurrencyCode": "CHF", "toCurrencyCode": "USD",
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	body = suite.decode(w)
	suite.Equal(false, body["available"])
	suite.NotContains(body, "converted")
}

func (suite *HandlersTestSuite) TestNetWorthReport() {
	asOf := date(2025, 7, 20)
	report := &domain.NetWorthReport{DisplayCurrency: "USD", NetWorth: decimal.RequireFromString("11660"), Warnings: []domain.AggregationWarning{}}
	suite.reports.On("NetWorthForUser", mock.Anything, "user-1", asOf).Return(report, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/net-worth?asOf=2025-07-20", nil)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal("11660", suite.decode(w)["netWorth"])
	suite.reports.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestReports_InvalidAsOf() {
	for _, path := range []string{"net-worth", "health-score", "recurring-summary", "installments"} {
		suite.Run(path, func() {
			w := suite.do(http.MethodGet, "/api/v1/reports/"+path+"?asOf=20-07-2025", nil)
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
	suite.reports.AssertNotCalled(suite.T(), "NetWorthForUser", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestCashFlowReport() {
	from, to := date(2025, 6, 1), date(2025, 6, 30)
	suite.reports.On("CashFlowForUser", mock.Anything, "user-1", from, to).
		Return(&domain.CashFlowReport{DisplayCurrency: "USD", NetCashFlow: decimal.RequireFromString("-300")}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/cash-flow?fromDate=2025-06-01&toDate=2025-06-30", nil)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal("-300", suite.decode(w)["netCashFlow"])
	suite.reports.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestCashFlowReport_BadPeriod() {
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/reports/cash-flow?fromDate=2025-06-01", nil).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/reports/cash-flow?fromDate=2025-06-30&toDate=2025-06-01", nil).Code)
	suite.reports.AssertNotCalled(suite.T(), "CashFlowForUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestReportErrors() {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", apperrors.NewValidationError("bad display currency"), http.StatusBadRequest},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"internal", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.reports.On("HealthScoreForUser", mock.Anything, "user-1", mock.Anything).Return(nil, tt.err).Once()
			w := suite.do(http.MethodGet, "/api/v1/reports/health-score", nil)
			suite.Equal(tt.expected, w.Code)
			if tt.expected == http.StatusInternalServerError {
				suite.False(strings.Contains(w.Body.String(), "db down"), "internal errors are not echoed")
			}
		})
	}
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	container, err := newContainer(new(MockFinanceReportService))
	require.NoError(t, err)
	router, err := newRouter(&config.Config{JWTSecret: testJWTSecret, RateLimit: "2-M", IsProduction: true}, container)
	require.NoError(t, err)
	token := generateTestToken("user-2")

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/currencies", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRegisterRoutes_InvalidRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	container, err := newContainer(new(MockFinanceReportService))
	require.NoError(t, err)
	_, err = newRouter(&config.Config{JWTSecret: testJWTSecret, RateLimit: "lots"}, container)
	require.Error(t, err)
}
