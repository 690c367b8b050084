package mapping

import (
	"strings"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/SscSPs/fintrack_backend/internal/models"
)

// ToDomainFrequency interprets a stored frequency. Unrecognised values are
// passed through upper-cased so the aggregator can report the record instead
// of failing the whole read.
func ToDomainFrequency(stored string) domain.Frequency {
	f, err := domain.ParseFrequency(stored)
	if err != nil {
		return domain.Frequency(strings.ToUpper(strings.TrimSpace(stored)))
	}
	return f
}

func recurrence(frequency string, date *time.Time, start time.Time, end *time.Time) domain.Recurrence {
	return domain.Recurrence{
		Frequency: ToDomainFrequency(frequency),
		Date:      date,
		StartDate: start,
		EndDate:   end,
	}
}

// ToDomainIncomeSource converts an income row to the domain snapshot
func ToDomainIncomeSource(m models.IncomeSource) domain.IncomeSource {
	return domain.IncomeSource{
		ID:           m.IncomeID,
		Name:         m.Name,
		Amount:       m.Amount,
		CurrencyCode: m.CurrencyCode,
		IsActive:     m.IsActive,
		Recurrence:   recurrence(m.Frequency, m.Date, m.StartDate, m.EndDate),
	}
}

// ToDomainExpense converts an expense row to the domain snapshot
func ToDomainExpense(m models.Expense) domain.Expense {
	return domain.Expense{
		ID:           m.ExpenseID,
		Description:  m.Description,
		Category:     m.Category,
		Amount:       m.Amount,
		CurrencyCode: m.CurrencyCode,
		IsActive:     m.IsActive,
		Recurrence:   recurrence(m.Frequency, m.Date, m.StartDate, m.EndDate),
	}
}

// ToDomainSubscription converts a subscription row to the domain snapshot
func ToDomainSubscription(m models.Subscription) domain.Subscription {
	return domain.Subscription{
		ID:           m.SubscriptionID,
		Name:         m.Name,
		Amount:       m.Amount,
		CurrencyCode: m.CurrencyCode,
		IsActive:     m.IsActive,
		Recurrence:   recurrence(m.Frequency, nil, m.StartDate, m.EndDate),
	}
}

// ToDomainInstallment converts an installment row to the domain schedule
func ToDomainInstallment(m models.Installment) domain.InstallmentSchedule {
	return domain.InstallmentSchedule{
		ID:               m.InstallmentID,
		Name:             m.Name,
		TotalAmount:      m.TotalAmount,
		AmountPerPayment: m.AmountPerPayment,
		CurrencyCode:     m.CurrencyCode,
		InterestRate:     m.InterestRate,
		Frequency:        ToDomainFrequency(m.Frequency),
		NumberOfPayments: m.NumberOfPayments,
		FirstPaymentDate: m.FirstPaymentDate,
		StartDate:        m.StartDate,
		IsActive:         m.IsActive,
	}
}

func ToDomainSavingsAccount(m models.SavingsAccount) domain.SavingsAccount {
	return domain.SavingsAccount{
		ID:           m.SavingsAccountID,
		Name:         m.Name,
		Balance:      m.Balance,
		CurrencyCode: m.CurrencyCode,
		IsActive:     m.IsActive,
	}
}

func ToDomainPortfolioAsset(m models.PortfolioAsset) domain.PortfolioAsset {
	return domain.PortfolioAsset{
		ID:           m.AssetID,
		Name:         m.Name,
		AssetType:    m.AssetType,
		CurrentValue: m.CurrentValue,
		CurrencyCode: m.CurrencyCode,
		IsActive:     m.IsActive,
	}
}

func ToDomainDebt(m models.Debt) domain.Debt {
	return domain.Debt{
		ID:             m.DebtID,
		Name:           m.Name,
		CurrentBalance: m.CurrentBalance,
		CurrencyCode:   m.CurrencyCode,
		IsActive:       m.IsActive,
	}
}

// ToDomainTax converts a tax row to the domain snapshot
func ToDomainTax(m models.Tax) domain.Tax {
	return domain.Tax{
		ID:           m.TaxID,
		Name:         m.Name,
		TaxType:      domain.TaxType(strings.ToUpper(strings.TrimSpace(m.TaxType))),
		Amount:       m.Amount,
		Percentage:   m.Percentage,
		CurrencyCode: m.CurrencyCode,
		IsActive:     m.IsActive,
		Recurrence:   recurrence(m.Frequency, m.Date, m.StartDate, m.EndDate),
	}
}

func ToDomainGoal(m models.Goal) domain.Goal {
	return domain.Goal{
		ID:            m.GoalID,
		Name:          m.Name,
		TargetAmount:  m.TargetAmount,
		CurrentAmount: m.CurrentAmount,
		CurrencyCode:  m.CurrencyCode,
		Status:        domain.GoalStatus(strings.ToUpper(strings.TrimSpace(m.Status))),
		TargetDate:    m.TargetDate,
	}
}

// MapSlice converts every row with fn.
func MapSlice[M, D any](ms []M, fn func(M) D) []D {
	ds := make([]D, len(ms))
	for i, m := range ms {
		ds[i] = fn(m)
	}
	return ds
}
