package repositories

import (
	"context"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
)

// SnapshotReader loads the read-only snapshots the aggregator works on.
// Implementations return every record of the user, active or not;
// filtering by IsActive and by date is done by the aggregator.
type SnapshotReader interface {
	ListIncomes(ctx context.Context, userID string) ([]domain.IncomeSource, error)
	ListExpenses(ctx context.Context, userID string) ([]domain.Expense, error)
	ListSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error)
	ListInstallments(ctx context.Context, userID string) ([]domain.InstallmentSchedule, error)
	ListSavingsAccounts(ctx context.Context, userID string) ([]domain.SavingsAccount, error)
	ListPortfolioAssets(ctx context.Context, userID string) ([]domain.PortfolioAsset, error)
	ListDebts(ctx context.Context, userID string) ([]domain.Debt, error)
	ListTaxes(ctx context.Context, userID string) ([]domain.Tax, error)
	ListGoals(ctx context.Context, userID string) ([]domain.Goal, error)
}

// UserPreferenceReader reads per-user display preferences.
type UserPreferenceReader interface {
	// GetDisplayCurrency returns the user's display currency code.
	// Returns apperrors.ErrNotFound when the user has no preference stored.
	GetDisplayCurrency(ctx context.Context, userID string) (string, error)
}
