package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
	"github.com/SscSPs/fintrack_backend/internal/platform/metrics"
	"github.com/SscSPs/fintrack_backend/internal/utils/amortization"
	"github.com/SscSPs/fintrack_backend/internal/utils/frequency"
	"github.com/shopspring/decimal"
)

var (
	twenty  = decimal.NewFromInt(20)
	hundred = decimal.NewFromInt(100)
)

type financialAggregator struct {
	BaseService
	converter  portssvc.CurrencyConverterSvc
	currencies portssvc.CurrencyReaderSvc
	policy     domain.UnavailableRatePolicy
	metrics    *metrics.Metrics
}

// AggregatorOption is a functional option for configuring the aggregator
type AggregatorOption func(*financialAggregator)

// WithUnavailableRatePolicy decides how entities without a usable rate are summed.
func WithUnavailableRatePolicy(policy domain.UnavailableRatePolicy) AggregatorOption {
	return func(a *financialAggregator) {
		if policy == domain.UseNativeAmount || policy == domain.ExcludeEntity {
			a.policy = policy
		}
	}
}

// WithAggregatorCurrencyReader sets where the display currency precision is looked up.
func WithAggregatorCurrencyReader(currencies portssvc.CurrencyReaderSvc) AggregatorOption {
	return func(a *financialAggregator) {
		a.currencies = currencies
	}
}

// WithAggregatorMetrics enables Prometheus instrumentation.
func WithAggregatorMetrics(m *metrics.Metrics) AggregatorOption {
	return func(a *financialAggregator) {
		a.metrics = m
	}
}

// NewFinancialAggregator creates an aggregator that converts through converter.
func NewFinancialAggregator(converter portssvc.CurrencyConverterSvc, options ...AggregatorOption) portssvc.FinancialAggregatorSvc {
	a := &financialAggregator{
		converter: converter,
		policy:    domain.UseNativeAmount,
	}
	for _, option := range options {
		option(a)
	}
	return a
}

var _ portssvc.FinancialAggregatorSvc = (*financialAggregator)(nil)

func (a *financialAggregator) NetWorth(ctx context.Context, inputs domain.AggregationInputs, asOf time.Time) (*domain.NetWorthReport, error) {
	run, err := a.newRun(ctx, inputs.DisplayCurrency)
	if err != nil {
		return nil, err
	}

	portfolio := run.sumPortfolio(inputs.Portfolio)
	savings := run.sumSavings(inputs.Savings)

	installmentDebt := decimal.Zero
	for _, s := range inputs.Installments {
		if !s.IsActive {
			continue
		}
		state, err := amortization.Recompute(s, asOf)
		if err != nil {
			run.skip(domain.EntityInstallment, s.ID, err)
			continue
		}
		if v, ok := run.convert(domain.EntityInstallment, s.ID, state.RemainingBalance, s.CurrencyCode); ok {
			installmentDebt = installmentDebt.Add(v)
		}
	}

	report := &domain.NetWorthReport{
		DisplayCurrency:      run.display,
		AsOf:                 asOf,
		TotalPortfolio:       run.round(portfolio),
		TotalSavings:         run.round(savings),
		TotalInstallmentDebt: run.round(installmentDebt),
		NetWorth:             run.round(portfolio.Add(savings).Sub(installmentDebt)),
		Warnings:             run.warnings,
	}
	a.LogDebug(ctx, "Computed net worth",
		slog.String("user_id", inputs.UserID),
		slog.String("net_worth", report.NetWorth.String()),
		slog.Int("warnings", len(report.Warnings)))
	return report, nil
}

func (a *financialAggregator) CashFlow(ctx context.Context, inputs domain.AggregationInputs, periodStart, periodEnd time.Time) (*domain.CashFlowReport, error) {
	if domain.DateOnly(periodEnd).Before(domain.DateOnly(periodStart)) {
		return nil, fmt.Errorf("%w: period end %s is before period start %s", apperrors.ErrValidation,
			periodEnd.Format(time.DateOnly), periodStart.Format(time.DateOnly))
	}
	run, err := a.newRun(ctx, inputs.DisplayCurrency)
	if err != nil {
		return nil, err
	}

	report := run.cashFlow(inputs, periodStart, periodEnd)
	a.LogDebug(ctx, "Computed cash flow",
		slog.String("user_id", inputs.UserID),
		slog.String("net_cash_flow", report.NetCashFlow.String()),
		slog.Int("warnings", len(report.Warnings)))
	return report, nil
}

func (a *financialAggregator) HealthScore(ctx context.Context, inputs domain.AggregationInputs, asOf time.Time) (*domain.HealthScoreReport, error) {
	run, err := a.newRun(ctx, inputs.DisplayCurrency)
	if err != nil {
		return nil, err
	}

	monthStart, monthEnd := calendarMonth(asOf)
	flow := run.cashFlow(inputs, monthStart, monthEnd)

	totalDebt := decimal.Zero
	for _, d := range inputs.Debts {
		if !d.IsActive {
			continue
		}
		if !run.nonNegative(domain.EntityDebt, d.ID, d.CurrentBalance) {
			continue
		}
		if v, ok := run.convert(domain.EntityDebt, d.ID, d.CurrentBalance, d.CurrencyCode); ok {
			totalDebt = totalDebt.Add(v)
		}
	}

	in := domain.HealthScoreInputs{
		MonthlyIncome:      flow.Income,
		MonthlyExpenses:    run.round(flow.Expenses.Add(flow.Subscriptions).Add(flow.Installments)),
		SavingsBalance:     run.round(run.sumSavings(inputs.Savings)),
		TotalDebt:          run.round(totalDebt),
		SavingsRate:        flow.SavingsRate,
		DistinctAssetTypes: distinctAssetTypes(inputs.Portfolio),
	}
	if in.MonthlyIncome.IsPositive() {
		in.DebtToIncomeRatio = in.TotalDebt.Div(in.MonthlyIncome).Mul(hundred).Round(2)
	}

	var goalsScore decimal.Decimal
	goalsScore, in.ScoredGoals = goalsProgressScore(inputs.Goals)

	components := domain.HealthScoreComponents{
		EmergencyFund:       emergencyFundScore(in.SavingsBalance, in.MonthlyExpenses),
		DebtToIncome:        debtToIncomeScore(in.TotalDebt, in.MonthlyIncome),
		SavingsRate:         savingsRateScore(in.SavingsRate),
		InvestmentDiversity: diversityScore(in.DistinctAssetTypes),
		GoalsProgress:       goalsScore,
	}
	score := clamp(components.EmergencyFund.
		Add(components.DebtToIncome).
		Add(components.SavingsRate).
		Add(components.InvestmentDiversity).
		Add(components.GoalsProgress), decimal.Zero, hundred).Round(2)

	report := &domain.HealthScoreReport{
		DisplayCurrency: run.display,
		AsOf:            asOf,
		Score:           score,
		Rating:          ratingFor(score),
		Components:      roundComponents(components),
		Inputs:          in,
		Warnings:        run.warnings,
	}
	a.LogDebug(ctx, "Computed financial health score",
		slog.String("user_id", inputs.UserID),
		slog.String("score", score.String()),
		slog.String("rating", string(report.Rating)))
	return report, nil
}

func (a *financialAggregator) RecurringSummary(ctx context.Context, inputs domain.AggregationInputs, asOf time.Time) (*domain.RecurringSummary, error) {
	run, err := a.newRun(ctx, inputs.DisplayCurrency)
	if err != nil {
		return nil, err
	}

	income := recurringLine{category: domain.EntityIncome}
	for _, i := range inputs.Incomes {
		if i.IsActive {
			run.addRecurring(&income, i.ID, i.Amount, i.CurrencyCode, i.Recurrence, asOf)
		}
	}
	expenses := recurringLine{category: domain.EntityExpense}
	for _, e := range inputs.Expenses {
		if e.IsActive {
			run.addRecurring(&expenses, e.ID, e.Amount, e.CurrencyCode, e.Recurrence, asOf)
		}
	}
	subscriptions := recurringLine{category: domain.EntitySubscription}
	for _, s := range inputs.Subscriptions {
		if s.IsActive {
			run.addRecurring(&subscriptions, s.ID, s.Amount, s.CurrencyCode, s.Recurrence, asOf)
		}
	}
	installments := recurringLine{category: domain.EntityInstallment}
	for _, s := range inputs.Installments {
		if !s.IsActive {
			continue
		}
		state, err := amortization.Recompute(s, asOf)
		if err != nil {
			run.skip(domain.EntityInstallment, s.ID, err)
			continue
		}
		if state.IsPaidOff {
			continue
		}
		run.addRecurring(&installments, s.ID, s.AmountPerPayment, s.CurrencyCode,
			domain.Recurrence{Frequency: s.Frequency, StartDate: installmentStart(s)}, asOf)
	}
	taxes := recurringLine{category: domain.EntityTax}
	for _, t := range inputs.Taxes {
		if t.IsActive && t.TaxType == domain.TaxFixed {
			run.addRecurring(&taxes, t.ID, t.Amount, t.CurrencyCode, t.Recurrence, asOf)
		}
	}

	outflow := expenses.monthly.Add(subscriptions.monthly).Add(installments.monthly).Add(taxes.monthly)
	summary := &domain.RecurringSummary{
		DisplayCurrency: run.display,
		AsOf:            asOf,
		MonthlyIncome:   run.round(income.monthly),
		MonthlyOutflow:  run.round(outflow),
		MonthlyNet:      run.round(income.monthly.Sub(outflow)),
		Warnings:        run.warnings,
	}
	for _, l := range []recurringLine{income, expenses, subscriptions, installments, taxes} {
		summary.Lines = append(summary.Lines, domain.RecurringLine{
			Category: l.category,
			Count:    l.count,
			Monthly:  run.round(l.monthly),
			Annual:   run.round(l.annual),
		})
	}
	return summary, nil
}

func (a *financialAggregator) InstallmentOverview(ctx context.Context, inputs domain.AggregationInputs, asOf time.Time) (*domain.InstallmentOverview, error) {
	run, err := a.newRun(ctx, inputs.DisplayCurrency)
	if err != nil {
		return nil, err
	}

	overview := &domain.InstallmentOverview{
		DisplayCurrency: run.display,
		AsOf:            asOf,
		Items:           []domain.InstallmentOverviewItem{},
		TotalRemaining:  decimal.Zero,
	}
	for _, s := range inputs.Installments {
		state, err := amortization.Recompute(s, asOf)
		if err != nil {
			run.skip(domain.EntityInstallment, s.ID, err)
			continue
		}
		item := domain.InstallmentOverviewItem{Schedule: s, State: state}
		converted, ok := run.convert(domain.EntityInstallment, s.ID, state.RemainingBalance, s.CurrencyCode)
		if ok {
			item.RemainingConverted = domain.NewMonetaryAmount(converted, run.display)
			if s.IsActive {
				overview.TotalRemaining = overview.TotalRemaining.Add(converted)
			}
		} else {
			item.RemainingConverted = domain.NewMonetaryAmount(state.RemainingBalance, s.CurrencyCode)
		}
		overview.Items = append(overview.Items, item)
	}
	overview.TotalRemaining = run.round(overview.TotalRemaining)
	overview.Warnings = run.warnings
	return overview, nil
}

// cashFlow sums every flow live in [periodStart, periodEnd]. Callers validate the period.
func (r *aggregationRun) cashFlow(inputs domain.AggregationInputs, periodStart, periodEnd time.Time) *domain.CashFlowReport {
	income := decimal.Zero
	for _, i := range inputs.Incomes {
		if i.IsActive {
			income = income.Add(r.periodic(domain.EntityIncome, i.ID, i.Amount, i.CurrencyCode, i.Recurrence, periodStart, periodEnd))
		}
	}
	expenses := decimal.Zero
	for _, e := range inputs.Expenses {
		if e.IsActive {
			expenses = expenses.Add(r.periodic(domain.EntityExpense, e.ID, e.Amount, e.CurrencyCode, e.Recurrence, periodStart, periodEnd))
		}
	}
	subscriptions := decimal.Zero
	for _, s := range inputs.Subscriptions {
		if s.IsActive {
			subscriptions = subscriptions.Add(r.periodic(domain.EntitySubscription, s.ID, s.Amount, s.CurrencyCode, s.Recurrence, periodStart, periodEnd))
		}
	}
	installments := decimal.Zero
	for _, s := range inputs.Installments {
		if !s.IsActive {
			continue
		}
		if err := amortization.Validate(s); err != nil {
			r.skip(domain.EntityInstallment, s.ID, err)
			continue
		}
		payoff, err := amortization.PayoffDate(s.FirstPaymentDate, s.Frequency, s.NumberOfPayments)
		if err != nil {
			r.skip(domain.EntityInstallment, s.ID, err)
			continue
		}
		live := domain.Recurrence{Frequency: s.Frequency, StartDate: installmentStart(s), EndDate: &payoff}
		installments = installments.Add(r.periodic(domain.EntityInstallment, s.ID, s.AmountPerPayment, s.CurrencyCode, live, periodStart, periodEnd))
	}

	taxes := decimal.Zero
	for _, t := range inputs.Taxes {
		if !t.IsActive {
			continue
		}
		switch t.TaxType {
		case domain.TaxFixed:
			taxes = taxes.Add(r.periodic(domain.EntityTax, t.ID, t.Amount, t.CurrencyCode, t.Recurrence, periodStart, periodEnd))
		case domain.TaxPercentage:
			if err := t.Recurrence.Validate(); err != nil {
				r.skip(domain.EntityTax, t.ID, err)
				continue
			}
			if !r.nonNegative(domain.EntityTax, t.ID, t.Percentage) || income.IsZero() || !t.OccursIn(periodStart, periodEnd) {
				continue
			}
			taxes = taxes.Add(income.Mul(t.Percentage).Div(hundred))
		default:
			r.skip(domain.EntityTax, t.ID, fmt.Errorf("%w: unknown tax type %q", apperrors.ErrValidation, t.TaxType))
		}
	}

	net := income.Sub(expenses).Sub(subscriptions).Sub(installments).Sub(taxes)
	savingsRate := decimal.Zero
	if !income.IsZero() {
		savingsRate = net.Div(income).Mul(hundred).Round(2)
	}

	return &domain.CashFlowReport{
		DisplayCurrency: r.display,
		PeriodStart:     periodStart,
		PeriodEnd:       periodEnd,
		Income:          r.round(income),
		Expenses:        r.round(expenses),
		Subscriptions:   r.round(subscriptions),
		Installments:    r.round(installments),
		Taxes:           r.round(taxes),
		NetCashFlow:     r.round(net),
		SavingsRate:     savingsRate,
		Warnings:        r.warnings,
	}
}

// periodic is the contribution of one entity to a period: its monthly
// equivalent when recurring, its full amount when one-time. The frequency is
// normalized in the entity's own currency before conversion.
func (r *aggregationRun) periodic(entityType domain.EntityType, id string, amount decimal.Decimal, currencyCode string, rec domain.Recurrence, periodStart, periodEnd time.Time) decimal.Decimal {
	if !r.valid(entityType, id, amount, rec) || !rec.OccursIn(periodStart, periodEnd) {
		return decimal.Zero
	}
	native := amount
	if rec.Frequency.IsRecurring() {
		native, _ = frequency.ToMonthly(amount, rec.Frequency)
	}
	converted, ok := r.convert(entityType, id, native, currencyCode)
	if !ok {
		return decimal.Zero
	}
	return converted
}

// valid reports whether a periodic entity can be aggregated, recording it as
// invalid otherwise.
func (r *aggregationRun) valid(entityType domain.EntityType, id string, amount decimal.Decimal, rec domain.Recurrence) bool {
	if _, err := frequency.AnnualMultiplier(rec.Frequency); err != nil {
		r.skip(entityType, id, err)
		return false
	}
	if err := rec.Validate(); err != nil {
		r.skip(entityType, id, err)
		return false
	}
	return r.nonNegative(entityType, id, amount)
}

type recurringLine struct {
	category domain.EntityType
	count    int
	monthly  decimal.Decimal
	annual   decimal.Decimal
}

// addRecurring adds a recurring entity live on asOf to line. One-time entities are ignored.
func (r *aggregationRun) addRecurring(line *recurringLine, id string, amount decimal.Decimal, currencyCode string, rec domain.Recurrence, asOf time.Time) {
	if !r.valid(line.category, id, amount, rec) || !rec.Frequency.IsRecurring() || !rec.OccursIn(asOf, asOf) {
		return
	}
	n, _ := frequency.Normalize(domain.PeriodicAmount{
		Amount:    domain.NewMonetaryAmount(amount, currencyCode),
		Frequency: rec.Frequency,
	})
	converted, ok := r.convertAll(line.category, id, currencyCode, n.Monthly, n.Annual)
	if !ok {
		return
	}
	line.count++
	line.monthly = line.monthly.Add(converted[0])
	line.annual = line.annual.Add(converted[1])
}

func (r *aggregationRun) sumPortfolio(assets []domain.PortfolioAsset) decimal.Decimal {
	total := decimal.Zero
	for _, p := range assets {
		if !p.IsActive {
			continue
		}
		if !r.nonNegative(domain.EntityPortfolio, p.ID, p.CurrentValue) {
			continue
		}
		if v, ok := r.convert(domain.EntityPortfolio, p.ID, p.CurrentValue, p.CurrencyCode); ok {
			total = total.Add(v)
		}
	}
	return total
}

func (r *aggregationRun) sumSavings(accounts []domain.SavingsAccount) decimal.Decimal {
	total := decimal.Zero
	for _, s := range accounts {
		if !s.IsActive {
			continue
		}
		if !r.nonNegative(domain.EntitySavings, s.ID, s.Balance) {
			continue
		}
		if v, ok := r.convert(domain.EntitySavings, s.ID, s.Balance, s.CurrencyCode); ok {
			total = total.Add(v)
		}
	}
	return total
}

// installmentStart is when a schedule begins to count as an outflow.
func installmentStart(s domain.InstallmentSchedule) time.Time {
	if s.StartDate.IsZero() {
		return s.FirstPaymentDate
	}
	return s.StartDate
}

// calendarMonth returns the first and last day of the month containing t.
func calendarMonth(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}
