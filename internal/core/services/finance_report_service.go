package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
)

// financeReportService loads a user's snapshots and hands them to the aggregator.
type financeReportService struct {
	BaseService
	snapshots       portsrepo.SnapshotReader
	preferences     portsrepo.UserPreferenceReader
	aggregator      portssvc.FinancialAggregatorSvc
	defaultCurrency string
}

// ReportOption is a functional option for configuring the report service
type ReportOption func(*financeReportService)

// WithDefaultDisplayCurrency sets the currency used when a user has no preference.
func WithDefaultDisplayCurrency(code string) ReportOption {
	return func(s *financeReportService) {
		if normalized, err := domain.NormalizeCurrencyCode(code); err == nil {
			s.defaultCurrency = normalized
		}
	}
}

// NewFinanceReportService creates a report service. preferences may be nil,
// in which case every user gets the default display currency.
func NewFinanceReportService(snapshots portsrepo.SnapshotReader, preferences portsrepo.UserPreferenceReader, aggregator portssvc.FinancialAggregatorSvc, options ...ReportOption) portssvc.FinanceReportSvc {
	s := &financeReportService{
		snapshots:       snapshots,
		preferences:     preferences,
		aggregator:      aggregator,
		defaultCurrency: domain.DefaultDisplayCurrency,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portssvc.FinanceReportSvc = (*financeReportService)(nil)

func (s *financeReportService) NetWorthForUser(ctx context.Context, userID string, asOf time.Time) (*domain.NetWorthReport, error) {
	inputs, err := s.loadInputs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.aggregator.NetWorth(ctx, *inputs, asOf)
}

func (s *financeReportService) CashFlowForUser(ctx context.Context, userID string, periodStart, periodEnd time.Time) (*domain.CashFlowReport, error) {
	if domain.DateOnly(periodEnd).Before(domain.DateOnly(periodStart)) {
		return nil, apperrors.NewValidationError("toDate must not be before fromDate")
	}
	inputs, err := s.loadInputs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.aggregator.CashFlow(ctx, *inputs, periodStart, periodEnd)
}

func (s *financeReportService) HealthScoreForUser(ctx context.Context, userID string, asOf time.Time) (*domain.HealthScoreReport, error) {
	inputs, err := s.loadInputs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.aggregator.HealthScore(ctx, *inputs, asOf)
}

func (s *financeReportService) RecurringSummaryForUser(ctx context.Context, userID string, asOf time.Time) (*domain.RecurringSummary, error) {
	inputs, err := s.loadInputs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.aggregator.RecurringSummary(ctx, *inputs, asOf)
}

func (s *financeReportService) InstallmentOverviewForUser(ctx context.Context, userID string, asOf time.Time) (*domain.InstallmentOverview, error) {
	inputs, err := s.loadInputs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.aggregator.InstallmentOverview(ctx, *inputs, asOf)
}

// displayCurrency returns the user's preference, or the default when none is stored.
func (s *financeReportService) displayCurrency(ctx context.Context, userID string) (string, error) {
	if s.preferences == nil {
		return s.defaultCurrency, nil
	}
	code, err := s.preferences.GetDisplayCurrency(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.defaultCurrency, nil
		}
		s.LogError(ctx, err, "Failed to read display currency preference", slog.String("user_id", userID))
		return "", fmt.Errorf("failed to read display currency for user %s: %w", userID, err)
	}
	if code == "" {
		return s.defaultCurrency, nil
	}
	return code, nil
}

// loadInputs reads every snapshot of the user one collection at a time.
func (s *financeReportService) loadInputs(ctx context.Context, userID string) (*domain.AggregationInputs, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user ID is required")
	}

	display, err := s.displayCurrency(ctx, userID)
	if err != nil {
		return nil, err
	}
	inputs := &domain.AggregationInputs{UserID: userID, DisplayCurrency: display}

	if inputs.Incomes, err = s.snapshots.ListIncomes(ctx, userID); err != nil {
		return nil, s.snapshotError(ctx, "incomes", userID, err)
	}
	if inputs.Expenses, err = s.snapshots.ListExpenses(ctx, userID); err != nil {
		return nil, s.snapshotError(ctx, "expenses", userID, err)
	}
	if inputs.Subscriptions, err = s.snapshots.ListSubscriptions(ctx, userID); err != nil {
		return nil, s.snapshotError(ctx, "subscriptions", userID, err)
	}
	if inputs.Installments, err = s.snapshots.ListInstallments(ctx, userID); err != nil {
		return nil, s.snapshotError(ctx, "installments", userID, err)
	}
	if inputs.Savings, err = s.snapshots.ListSavingsAccounts(ctx, userID); err != nil {
		return nil, s.snapshotError(ctx, "savings accounts", userID, err)
	}
	if inputs.Portfolio, err = s.snapshots.ListPortfolioAssets(ctx, userID); err != nil {
		return nil, s.snapshotError(ctx, "portfolio assets", userID, err)
	}
	if inputs.Debts, err = s.snapshots.ListDebts(ctx, userID); err != nil {
		return nil, s.snapshotError(ctx, "debts", userID, err)
	}
	if inputs.Taxes, err = s.snapshots.ListTaxes(ctx, userID); err != nil {
		return nil, s.snapshotError(ctx, "taxes", userID, err)
	}
	if inputs.Goals, err = s.snapshots.ListGoals(ctx, userID); err != nil {
		return nil, s.snapshotError(ctx, "goals", userID, err)
	}

	s.LogDebug(ctx, "Loaded aggregation inputs",
		slog.String("user_id", userID),
		slog.String("display_currency", display))
	return inputs, nil
}

func (s *financeReportService) snapshotError(ctx context.Context, kind, userID string, err error) error {
	s.LogError(ctx, err, "Failed to load snapshots", slog.String("kind", kind), slog.String("user_id", userID))
	return fmt.Errorf("failed to load %s for user %s: %w", kind, userID, err)
}
