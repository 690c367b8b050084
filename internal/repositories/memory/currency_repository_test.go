package memory

import (
	"context"
	"testing"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrencyRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCurrencyRepository()

	seed := []domain.Currency{
		{CurrencyCode: "USD", Precision: 2, IsActive: true},
		{CurrencyCode: "JPY", Precision: 0, IsActive: true},
		{CurrencyCode: "XAU", Precision: 4, IsActive: false},
	}
	n, err := repo.SeedCurrencies(ctx, nil, seed)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = repo.SeedCurrencies(ctx, nil, seed)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "seeding is idempotent")

	assert.ErrorIs(t, repo.SaveCurrency(ctx, domain.Currency{CurrencyCode: "USD"}), apperrors.ErrDuplicate)

	jpy, err := repo.FindCurrencyByCode(ctx, "JPY")
	require.NoError(t, err)
	assert.Equal(t, 0, jpy.Precision)

	_, err = repo.FindCurrencyByCode(ctx, "EUR")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	all, err := repo.ListCurrencies(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "JPY", all[0].CurrencyCode)

	active, err := repo.ListCurrencies(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestSnapshotRepositoryPreferences(t *testing.T) {
	ctx := context.Background()
	provider, snapshots := NewRepositoryProvider()

	_, err := provider.PreferenceRepo.GetDisplayCurrency(ctx, "u1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	snapshots.Put(domain.AggregationInputs{
		UserID:          "u1",
		DisplayCurrency: "EUR",
		Debts:           []domain.Debt{{ID: "d1"}},
	})
	code, err := provider.PreferenceRepo.GetDisplayCurrency(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "EUR", code)

	debts, err := provider.SnapshotRepo.ListDebts(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, debts, 1)

	incomes, err := provider.SnapshotRepo.ListIncomes(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, incomes)
}
