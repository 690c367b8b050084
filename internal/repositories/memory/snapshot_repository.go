package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fintrack_backend/internal/core/ports/repositories"
)

// SnapshotRepository serves snapshots and preferences loaded with Put.
type SnapshotRepository struct {
	mu    sync.RWMutex
	users map[string]domain.AggregationInputs
}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{users: make(map[string]domain.AggregationInputs)}
}

var (
	_ portsrepo.SnapshotReader       = (*SnapshotRepository)(nil)
	_ portsrepo.UserPreferenceReader = (*SnapshotRepository)(nil)
)

// Put replaces every snapshot of inputs.UserID. DisplayCurrency is stored as the preference.
func (r *SnapshotRepository) Put(inputs domain.AggregationInputs) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[inputs.UserID] = inputs
}

func (r *SnapshotRepository) get(userID string) domain.AggregationInputs {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[userID]
}

func (r *SnapshotRepository) GetDisplayCurrency(_ context.Context, userID string) (string, error) {
	code := r.get(userID).DisplayCurrency
	if code == "" {
		return "", apperrors.ErrNotFound
	}
	return code, nil
}

func (r *SnapshotRepository) ListIncomes(_ context.Context, userID string) ([]domain.IncomeSource, error) {
	return clone(r.get(userID).Incomes), nil
}

func (r *SnapshotRepository) ListExpenses(_ context.Context, userID string) ([]domain.Expense, error) {
	return clone(r.get(userID).Expenses), nil
}

func (r *SnapshotRepository) ListSubscriptions(_ context.Context, userID string) ([]domain.Subscription, error) {
	return clone(r.get(userID).Subscriptions), nil
}

func (r *SnapshotRepository) ListInstallments(_ context.Context, userID string) ([]domain.InstallmentSchedule, error) {
	return clone(r.get(userID).Installments), nil
}

func (r *SnapshotRepository) ListSavingsAccounts(_ context.Context, userID string) ([]domain.SavingsAccount, error) {
	return clone(r.get(userID).Savings), nil
}

func (r *SnapshotRepository) ListPortfolioAssets(_ context.Context, userID string) ([]domain.PortfolioAsset, error) {
	return clone(r.get(userID).Portfolio), nil
}

func (r *SnapshotRepository) ListDebts(_ context.Context, userID string) ([]domain.Debt, error) {
	return clone(r.get(userID).Debts), nil
}

func (r *SnapshotRepository) ListTaxes(_ context.Context, userID string) ([]domain.Tax, error) {
	return clone(r.get(userID).Taxes), nil
}

func (r *SnapshotRepository) ListGoals(_ context.Context, userID string) ([]domain.Goal, error) {
	return clone(r.get(userID).Goals), nil
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
