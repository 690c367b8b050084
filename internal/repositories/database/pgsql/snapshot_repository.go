package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fintrack_backend/internal/core/ports/repositories"
	"github.com/SscSPs/fintrack_backend/internal/models"
	"github.com/SscSPs/fintrack_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSnapshotRepository reads the user-owned financial records. It never writes.
type PgxSnapshotRepository struct {
	BaseRepository
}

func newPgxSnapshotRepository(pool *pgxpool.Pool) portsrepo.SnapshotReader {
	return &PgxSnapshotRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.SnapshotReader = (*PgxSnapshotRepository)(nil)

// listByUser runs query with userID and scans every row into M by column name.
func listByUser[M any](ctx context.Context, pool *pgxpool.Pool, kind, query, userID string) ([]M, error) {
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", kind, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[M])
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", kind, err)
	}
	return ms, nil
}

func (r *PgxSnapshotRepository) ListIncomes(ctx context.Context, userID string) ([]domain.IncomeSource, error) {
	ms, err := listByUser[models.IncomeSource](ctx, r.Pool, "incomes", `
		SELECT income_id, name, amount, currency_code, frequency, date, start_date, end_date, is_active
		FROM incomes WHERE user_id = $1 ORDER BY income_id;
	`, userID)
	if err != nil {
		return nil, err
	}
	return mapping.MapSlice(ms, mapping.ToDomainIncomeSource), nil
}

func (r *PgxSnapshotRepository) ListExpenses(ctx context.Context, userID string) ([]domain.Expense, error) {
	ms, err := listByUser[models.Expense](ctx, r.Pool, "expenses", `
		SELECT expense_id, description, category, amount, currency_code, frequency, date, start_date, end_date, is_active
		FROM expenses WHERE user_id = $1 ORDER BY expense_id;
	`, userID)
	if err != nil {
		return nil, err
	}
	return mapping.MapSlice(ms, mapping.ToDomainExpense), nil
}

func (r *PgxSnapshotRepository) ListSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	ms, err := listByUser[models.Subscription](ctx, r.Pool, "subscriptions", `
		SELECT subscription_id, name, amount, currency_code, frequency, start_date, end_date, is_active
		FROM subscriptions WHERE user_id = $1 ORDER BY subscription_id;
	`, userID)
	if err != nil {
		return nil, err
	}
	return mapping.MapSlice(ms, mapping.ToDomainSubscription), nil
}

func (r *PgxSnapshotRepository) ListInstallments(ctx context.Context, userID string) ([]domain.InstallmentSchedule, error) {
	ms, err := listByUser[models.Installment](ctx, r.Pool, "installments", `
		SELECT installment_id, name, total_amount, amount_per_payment, currency_code, interest_rate,
		       frequency, number_of_payments, first_payment_date, start_date, is_active
		FROM installments WHERE user_id = $1 ORDER BY installment_id;
	`, userID)
	if err != nil {
		return nil, err
	}
	return mapping.MapSlice(ms, mapping.ToDomainInstallment), nil
}

func (r *PgxSnapshotRepository) ListSavingsAccounts(ctx context.Context, userID string) ([]domain.SavingsAccount, error) {
	ms, err := listByUser[models.SavingsAccount](ctx, r.Pool, "savings accounts", `
		SELECT savings_account_id, name, balance, currency_code, is_active
		FROM savings_accounts WHERE user_id = $1 ORDER BY savings_account_id;
	`, userID)
	if err != nil {
		return nil, err
	}
	return mapping.MapSlice(ms, mapping.ToDomainSavingsAccount), nil
}

func (r *PgxSnapshotRepository) ListPortfolioAssets(ctx context.Context, userID string) ([]domain.PortfolioAsset, error) {
	ms, err := listByUser[models.PortfolioAsset](ctx, r.Pool, "portfolio assets", `
		SELECT asset_id, name, asset_type, current_value, currency_code, is_active
		FROM portfolio_assets WHERE user_id = $1 ORDER BY asset_id;
	`, userID)
	if err != nil {
		return nil, err
	}
	return mapping.MapSlice(ms, mapping.ToDomainPortfolioAsset), nil
}

func (r *PgxSnapshotRepository) ListDebts(ctx context.Context, userID string) ([]domain.Debt, error) {
	ms, err := listByUser[models.Debt](ctx, r.Pool, "debts", `
		SELECT debt_id, name, current_balance, currency_code, is_active
		FROM debts WHERE user_id = $1 ORDER BY debt_id;
	`, userID)
	if err != nil {
		return nil, err
	}
	return mapping.MapSlice(ms, mapping.ToDomainDebt), nil
}

func (r *PgxSnapshotRepository) ListTaxes(ctx context.Context, userID string) ([]domain.Tax, error) {
	ms, err := listByUser[models.Tax](ctx, r.Pool, "taxes", `
		SELECT tax_id, name, tax_type, amount, percentage, currency_code, frequency, date, start_date, end_date, is_active
		FROM taxes WHERE user_id = $1 ORDER BY tax_id;
	`, userID)
	if err != nil {
		return nil, err
	}
	return mapping.MapSlice(ms, mapping.ToDomainTax), nil
}

func (r *PgxSnapshotRepository) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	ms, err := listByUser[models.Goal](ctx, r.Pool, "goals", `
		SELECT goal_id, name, target_amount, current_amount, currency_code, status, target_date
		FROM goals WHERE user_id = $1 ORDER BY goal_id;
	`, userID)
	if err != nil {
		return nil, err
	}
	return mapping.MapSlice(ms, mapping.ToDomainGoal), nil
}
