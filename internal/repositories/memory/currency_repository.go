package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fintrack_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

// CurrencyRepository keeps currencies in a map. Its transactions are no-ops:
// Begin returns a nil pgx.Tx which the other methods accept.
type CurrencyRepository struct {
	mu         sync.RWMutex
	currencies map[string]domain.Currency
}

func NewCurrencyRepository() *CurrencyRepository {
	return &CurrencyRepository{currencies: make(map[string]domain.Currency)}
}

var _ portsrepo.CurrencyRepositoryWithTx = (*CurrencyRepository)(nil)

func (r *CurrencyRepository) Begin(context.Context) (pgx.Tx, error) { return nil, nil }

func (r *CurrencyRepository) Commit(context.Context, pgx.Tx) error { return nil }

func (r *CurrencyRepository) Rollback(context.Context, pgx.Tx) error { return nil }

func (r *CurrencyRepository) SaveCurrency(_ context.Context, currency domain.Currency) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.currencies[currency.CurrencyCode]; exists {
		return fmt.Errorf("%w: currency %s", apperrors.ErrDuplicate, currency.CurrencyCode)
	}
	r.currencies[currency.CurrencyCode] = currency
	return nil
}

func (r *CurrencyRepository) SeedCurrencies(_ context.Context, _ pgx.Tx, currencies []domain.Currency) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inserted := 0
	for _, c := range currencies {
		if _, exists := r.currencies[c.CurrencyCode]; exists {
			continue
		}
		r.currencies[c.CurrencyCode] = c
		inserted++
	}
	return inserted, nil
}

func (r *CurrencyRepository) FindCurrencyByCode(_ context.Context, currencyCode string) (*domain.Currency, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.currencies[currencyCode]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (r *CurrencyRepository) ListCurrencies(_ context.Context, activeOnly bool) ([]domain.Currency, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Currency, 0, len(r.currencies))
	for _, c := range r.currencies {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrencyCode < out[j].CurrencyCode })
	return out, nil
}
