package domain

import (
	"time"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Recurrence describes when a monetary entity applies. One-time entities use
// Date, or StartDate when Date is nil. Recurring ones are live over
// [StartDate, EndDate], EndDate nil meaning open.
type Recurrence struct {
	Frequency Frequency  `json:"frequency"`
	Date      *time.Time `json:"date,omitempty"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// Validate rejects a recurrence that can never be placed on the calendar.
func (r Recurrence) Validate() error {
	if !r.Frequency.IsRecurring() {
		if r.Date == nil && r.StartDate.IsZero() {
			return apperrors.NewValidationError("one-time entity has no date")
		}
		return nil
	}
	if r.EndDate != nil && DateOnly(*r.EndDate).Before(DateOnly(r.StartDate)) {
		return apperrors.NewValidationError("end date is before start date")
	}
	return nil
}

// OccursIn reports whether the entity falls inside the closed period [start, end].
func (r Recurrence) OccursIn(start, end time.Time) bool {
	start, end = DateOnly(start), DateOnly(end)
	if !r.Frequency.IsRecurring() {
		on := r.StartDate
		if r.Date != nil {
			on = *r.Date
		}
		on = DateOnly(on)
		return !on.Before(start) && !on.After(end)
	}
	if DateOnly(r.StartDate).After(end) {
		return false
	}
	return r.EndDate == nil || !DateOnly(*r.EndDate).Before(start)
}

// IncomeSource is a read-only view of a user's income record.
type IncomeSource struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	IsActive     bool            `json:"isActive"`
	Recurrence
}

// Expense is a read-only view of a user's expense record.
type Expense struct {
	ID           string          `json:"id"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	IsActive     bool            `json:"isActive"`
	Recurrence
}

// Subscription is a read-only view of a recurring subscription.
type Subscription struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	IsActive     bool            `json:"isActive"`
	Recurrence
}

// SavingsAccount is a read-only view of a savings balance.
type SavingsAccount struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Balance      decimal.Decimal `json:"balance"`
	CurrencyCode string          `json:"currencyCode"`
	IsActive     bool            `json:"isActive"`
}

// PortfolioAsset is a read-only view of an investment holding.
type PortfolioAsset struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	AssetType    string          `json:"assetType"`
	CurrentValue decimal.Decimal `json:"currentValue"`
	CurrencyCode string          `json:"currencyCode"`
	IsActive     bool            `json:"isActive"`
}

// Debt is a read-only view of an outstanding debt.
type Debt struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	CurrencyCode   string          `json:"currencyCode"`
	IsActive       bool            `json:"isActive"`
}

// TaxType distinguishes fixed-amount taxes from income percentages.
type TaxType string

const (
	TaxFixed      TaxType = "FIXED"
	TaxPercentage TaxType = "PERCENTAGE"
)

// Tax is a read-only view of a tax obligation. Amount applies to FIXED taxes,
// Percentage to PERCENTAGE taxes.
type Tax struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	TaxType      TaxType         `json:"taxType"`
	Amount       decimal.Decimal `json:"amount"`
	Percentage   decimal.Decimal `json:"percentage"`
	CurrencyCode string          `json:"currencyCode"`
	IsActive     bool            `json:"isActive"`
	Recurrence
}

// GoalStatus is the lifecycle state of a financial goal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "ACTIVE"
	GoalCompleted GoalStatus = "COMPLETED"
	GoalPaused    GoalStatus = "PAUSED"
	GoalCancelled GoalStatus = "CANCELLED"
)

// Goal is a read-only view of a savings goal.
type Goal struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	CurrencyCode  string          `json:"currencyCode"`
	Status        GoalStatus      `json:"status"`
	TargetDate    *time.Time      `json:"targetDate,omitempty"`
}

var hundred = decimal.NewFromInt(100)

// ProgressPercentage is current/target as a percentage clamped to [0, 100].
// Completed goals count as 100.
func (g Goal) ProgressPercentage() decimal.Decimal {
	if g.Status == GoalCompleted {
		return hundred
	}
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	pct := g.CurrentAmount.Div(g.TargetAmount).Mul(hundred)
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

// AggregationInputs is the per-user, per-call bundle of snapshots the aggregator reads.
type AggregationInputs struct {
	UserID          string
	DisplayCurrency string
	Incomes         []IncomeSource
	Expenses        []Expense
	Subscriptions   []Subscription
	Installments    []InstallmentSchedule
	Savings         []SavingsAccount
	Portfolio       []PortfolioAsset
	Debts           []Debt
	Taxes           []Tax
	Goals           []Goal
}

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
