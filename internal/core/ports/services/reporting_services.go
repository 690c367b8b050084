package services

import (
	"context"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
)

// FinancialAggregatorSvc computes derived figures from a bundle of snapshots.
// Every figure is expressed in inputs.DisplayCurrency.
type FinancialAggregatorSvc interface {
	// NetWorth is portfolio plus savings minus remaining installment balances as of asOf.
	NetWorth(ctx context.Context, inputs domain.AggregationInputs, asOf time.Time) (*domain.NetWorthReport, error)

	// CashFlow summarizes the monthly-equivalent flows live in [periodStart, periodEnd].
	CashFlow(ctx context.Context, inputs domain.AggregationInputs, periodStart, periodEnd time.Time) (*domain.CashFlowReport, error)

	// HealthScore computes the 0-100 Financial Health Score for the month containing asOf.
	HealthScore(ctx context.Context, inputs domain.AggregationInputs, asOf time.Time) (*domain.HealthScoreReport, error)

	// RecurringSummary totals monthly and annual equivalents per category as of asOf.
	RecurringSummary(ctx context.Context, inputs domain.AggregationInputs, asOf time.Time) (*domain.RecurringSummary, error)

	// InstallmentOverview recomputes every installment schedule as of asOf.
	InstallmentOverview(ctx context.Context, inputs domain.AggregationInputs, asOf time.Time) (*domain.InstallmentOverview, error)
}

// FinanceReportSvc loads a user's snapshots and preferences and produces reports.
type FinanceReportSvc interface {
	NetWorthForUser(ctx context.Context, userID string, asOf time.Time) (*domain.NetWorthReport, error)
	CashFlowForUser(ctx context.Context, userID string, periodStart, periodEnd time.Time) (*domain.CashFlowReport, error)
	HealthScoreForUser(ctx context.Context, userID string, asOf time.Time) (*domain.HealthScoreReport, error)
	RecurringSummaryForUser(ctx context.Context, userID string, asOf time.Time) (*domain.RecurringSummary, error)
	InstallmentOverviewForUser(ctx context.Context, userID string, asOf time.Time) (*domain.InstallmentOverview, error)
}
