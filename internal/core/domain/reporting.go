package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntityType names the kind of snapshot a warning refers to.
type EntityType string

const (
	EntityIncome       EntityType = "income"
	EntityExpense      EntityType = "expense"
	EntitySubscription EntityType = "subscription"
	EntityInstallment  EntityType = "installment"
	EntitySavings      EntityType = "savings"
	EntityPortfolio    EntityType = "portfolio"
	EntityDebt         EntityType = "debt"
	EntityTax          EntityType = "tax"
)

// UnavailableRatePolicy decides what happens to an entity whose amount cannot be converted.
type UnavailableRatePolicy string

const (
	// UseNativeAmount adds the unconverted amount as if it were in the display currency.
	UseNativeAmount UnavailableRatePolicy = "native"
	// ExcludeEntity leaves the entity out of the total.
	ExcludeEntity UnavailableRatePolicy = "exclude"
)

// WarningReason says why an entity was not aggregated normally.
type WarningReason string

const (
	// ReasonRateUnavailable means no rate could be found, even in the stale cache.
	ReasonRateUnavailable WarningReason = "rate_unavailable"
	// ReasonInvalidEntity means the stored record could not be interpreted and was skipped.
	ReasonInvalidEntity WarningReason = "invalid_entity"
)

// AggregationWarning records an entity that was aggregated on degraded terms.
type AggregationWarning struct {
	EntityType     EntityType            `json:"entityType"`
	EntityID       string                `json:"entityID"`
	Reason         WarningReason         `json:"reason"`
	CurrencyCode   string                `json:"currencyCode,omitempty"`
	TargetCurrency string                `json:"targetCurrency,omitempty"`
	Amount         decimal.Decimal       `json:"amount"`
	Policy         UnavailableRatePolicy `json:"policy,omitempty"`
	Detail         string                `json:"detail,omitempty"`
}

// NetWorthReport is assets minus installment liabilities in the display currency.
type NetWorthReport struct {
	DisplayCurrency      string               `json:"displayCurrency"`
	AsOf                 time.Time            `json:"asOf"`
	TotalPortfolio       decimal.Decimal      `json:"totalPortfolio"`
	TotalSavings         decimal.Decimal      `json:"totalSavings"`
	TotalInstallmentDebt decimal.Decimal      `json:"totalInstallmentDebt"`
	NetWorth             decimal.Decimal      `json:"netWorth"`
	Warnings             []AggregationWarning `json:"warnings"`
}

// CashFlowReport summarizes monthly-equivalent flows for a period.
type CashFlowReport struct {
	DisplayCurrency string               `json:"displayCurrency"`
	PeriodStart     time.Time            `json:"periodStart"`
	PeriodEnd       time.Time            `json:"periodEnd"`
	Income          decimal.Decimal      `json:"income"`
	Expenses        decimal.Decimal      `json:"expenses"`
	Subscriptions   decimal.Decimal      `json:"subscriptions"`
	Installments    decimal.Decimal      `json:"installments"`
	Taxes           decimal.Decimal      `json:"taxes"`
	NetCashFlow     decimal.Decimal      `json:"netCashFlow"`
	SavingsRate     decimal.Decimal      `json:"savingsRate"`
	Warnings        []AggregationWarning `json:"warnings"`
}

// HealthRating is the label attached to a Financial Health Score.
type HealthRating string

const (
	RatingExcellent        HealthRating = "Excellent"
	RatingGood             HealthRating = "Good"
	RatingFair             HealthRating = "Fair"
	RatingNeedsImprovement HealthRating = "Needs Improvement"
)

// HealthScoreComponents holds the five sub-scores, each in [0, 20].
type HealthScoreComponents struct {
	EmergencyFund       decimal.Decimal `json:"emergencyFund"`
	DebtToIncome        decimal.Decimal `json:"debtToIncome"`
	SavingsRate         decimal.Decimal `json:"savingsRate"`
	InvestmentDiversity decimal.Decimal `json:"investmentDiversity"`
	GoalsProgress       decimal.Decimal `json:"goalsProgress"`
}

// HealthScoreInputs are the figures the sub-scores were computed from.
type HealthScoreInputs struct {
	MonthlyIncome      decimal.Decimal `json:"monthlyIncome"`
	MonthlyExpenses    decimal.Decimal `json:"monthlyExpenses"`
	SavingsBalance     decimal.Decimal `json:"savingsBalance"`
	TotalDebt          decimal.Decimal `json:"totalDebt"`
	DebtToIncomeRatio  decimal.Decimal `json:"debtToIncomeRatio"`
	SavingsRate        decimal.Decimal `json:"savingsRate"`
	DistinctAssetTypes int             `json:"distinctAssetTypes"`
	ScoredGoals        int             `json:"scoredGoals"`
}

// HealthScoreReport is the 0-100 Financial Health Score.
type HealthScoreReport struct {
	DisplayCurrency string                `json:"displayCurrency"`
	AsOf            time.Time             `json:"asOf"`
	Score           decimal.Decimal       `json:"score"`
	Rating          HealthRating          `json:"rating"`
	Components      HealthScoreComponents `json:"components"`
	Inputs          HealthScoreInputs     `json:"inputs"`
	Warnings        []AggregationWarning  `json:"warnings"`
}

// RecurringLine is one category of a recurring summary.
type RecurringLine struct {
	Category EntityType      `json:"category"`
	Count    int             `json:"count"`
	Monthly  decimal.Decimal `json:"monthly"`
	Annual   decimal.Decimal `json:"annual"`
}

// RecurringSummary totals the currently active recurring flows.
type RecurringSummary struct {
	DisplayCurrency string               `json:"displayCurrency"`
	AsOf            time.Time            `json:"asOf"`
	Lines           []RecurringLine      `json:"lines"`
	MonthlyIncome   decimal.Decimal      `json:"monthlyIncome"`
	MonthlyOutflow  decimal.Decimal      `json:"monthlyOutflow"`
	MonthlyNet      decimal.Decimal      `json:"monthlyNet"`
	Warnings        []AggregationWarning `json:"warnings"`
}

// InstallmentOverviewItem is one schedule with its recomputed state.
type InstallmentOverviewItem struct {
	Schedule           InstallmentSchedule `json:"schedule"`
	State              InstallmentState    `json:"state"`
	RemainingConverted MonetaryAmount      `json:"remainingConverted"`
}

// InstallmentOverview lists every installment schedule as of a date.
type InstallmentOverview struct {
	DisplayCurrency string                    `json:"displayCurrency"`
	AsOf            time.Time                 `json:"asOf"`
	Items           []InstallmentOverviewItem `json:"items"`
	TotalRemaining  decimal.Decimal           `json:"totalRemaining"`
	Warnings        []AggregationWarning      `json:"warnings"`
}
