package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot rows as read from the user-owned tables. Frequency is kept as the
// stored string and interpreted during mapping.

type IncomeSource struct {
	IncomeID     string          `db:"income_id"`
	Name         string          `db:"name"`
	Amount       decimal.Decimal `db:"amount"`
	CurrencyCode string          `db:"currency_code"`
	Frequency    string          `db:"frequency"`
	Date         *time.Time      `db:"date"`
	StartDate    time.Time       `db:"start_date"`
	EndDate      *time.Time      `db:"end_date"`
	IsActive     bool            `db:"is_active"`
}

type Expense struct {
	ExpenseID    string          `db:"expense_id"`
	Description  string          `db:"description"`
	Category     string          `db:"category"`
	Amount       decimal.Decimal `db:"amount"`
	CurrencyCode string          `db:"currency_code"`
	Frequency    string          `db:"frequency"`
	Date         *time.Time      `db:"date"`
	StartDate    time.Time       `db:"start_date"`
	EndDate      *time.Time      `db:"end_date"`
	IsActive     bool            `db:"is_active"`
}

type Subscription struct {
	SubscriptionID string          `db:"subscription_id"`
	Name           string          `db:"name"`
	Amount         decimal.Decimal `db:"amount"`
	CurrencyCode   string          `db:"currency_code"`
	Frequency      string          `db:"frequency"`
	StartDate      time.Time       `db:"start_date"`
	EndDate        *time.Time      `db:"end_date"`
	IsActive       bool            `db:"is_active"`
}

type Installment struct {
	InstallmentID    string           `db:"installment_id"`
	Name             string           `db:"name"`
	TotalAmount      decimal.Decimal  `db:"total_amount"`
	AmountPerPayment decimal.Decimal  `db:"amount_per_payment"`
	CurrencyCode     string           `db:"currency_code"`
	InterestRate     *decimal.Decimal `db:"interest_rate"`
	Frequency        string           `db:"frequency"`
	NumberOfPayments int              `db:"number_of_payments"`
	FirstPaymentDate time.Time        `db:"first_payment_date"`
	StartDate        time.Time        `db:"start_date"`
	IsActive         bool             `db:"is_active"`
}

type SavingsAccount struct {
	SavingsAccountID string          `db:"savings_account_id"`
	Name             string          `db:"name"`
	Balance          decimal.Decimal `db:"balance"`
	CurrencyCode     string          `db:"currency_code"`
	IsActive         bool            `db:"is_active"`
}

type PortfolioAsset struct {
	AssetID      string          `db:"asset_id"`
	Name         string          `db:"name"`
	AssetType    string          `db:"asset_type"`
	CurrentValue decimal.Decimal `db:"current_value"`
	CurrencyCode string          `db:"currency_code"`
	IsActive     bool            `db:"is_active"`
}

type Debt struct {
	DebtID         string          `db:"debt_id"`
	Name           string          `db:"name"`
	CurrentBalance decimal.Decimal `db:"current_balance"`
	CurrencyCode   string          `db:"currency_code"`
	IsActive       bool            `db:"is_active"`
}

type Tax struct {
	TaxID        string          `db:"tax_id"`
	Name         string          `db:"name"`
	TaxType      string          `db:"tax_type"`
	Amount       decimal.Decimal `db:"amount"`
	Percentage   decimal.Decimal `db:"percentage"`
	CurrencyCode string          `db:"currency_code"`
	Frequency    string          `db:"frequency"`
	Date         *time.Time      `db:"date"`
	StartDate    time.Time       `db:"start_date"`
	EndDate      *time.Time      `db:"end_date"`
	IsActive     bool            `db:"is_active"`
}

type Goal struct {
	GoalID        string          `db:"goal_id"`
	Name          string          `db:"name"`
	TargetAmount  decimal.Decimal `db:"target_amount"`
	CurrentAmount decimal.Decimal `db:"current_amount"`
	CurrencyCode  string          `db:"currency_code"`
	Status        string          `db:"status"`
	TargetDate    *time.Time      `db:"target_date"`
}
