// Package memory holds process-local repository implementations used for
// development, the CLI and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fintrack_backend/internal/core/ports/repositories"
	"github.com/SscSPs/fintrack_backend/internal/utils/pagination"
)

// ExchangeRateRepository is an append-only observation log guarded by a RWMutex.
type ExchangeRateRepository struct {
	mu           sync.RWMutex
	observations map[string][]domain.ExchangeRateObservation
}

func NewExchangeRateRepository() *ExchangeRateRepository {
	return &ExchangeRateRepository{observations: make(map[string][]domain.ExchangeRateObservation)}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*ExchangeRateRepository)(nil)

func pairKey(from, to string) string {
	return from + "/" + to
}

func (r *ExchangeRateRepository) SaveObservation(_ context.Context, observation domain.ExchangeRateObservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(observation.FromCurrencyCode, observation.ToCurrencyCode)
	for _, existing := range r.observations[key] {
		if existing.ObservationID == observation.ObservationID {
			return fmt.Errorf("%w: observation %s", apperrors.ErrDuplicate, observation.ObservationID)
		}
	}
	r.observations[key] = append(r.observations[key], observation)
	return nil
}

// newer reports whether a sorts before b in history order.
func newer(a, b domain.ExchangeRateObservation) bool {
	if !a.FetchedAt.Equal(b.FetchedAt) {
		return a.FetchedAt.After(b.FetchedAt)
	}
	return a.ObservationID > b.ObservationID
}

func (r *ExchangeRateRepository) FindMostRecentObservation(_ context.Context, from, to string, since *time.Time) (*domain.ExchangeRateObservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *domain.ExchangeRateObservation
	for _, obs := range r.observations[pairKey(from, to)] {
		if since != nil && obs.FetchedAt.Before(*since) {
			continue
		}
		if best == nil || newer(obs, *best) {
			best = &obs
		}
	}
	if best == nil {
		return nil, apperrors.ErrNotFound
	}
	return best, nil
}

func (r *ExchangeRateRepository) ListObservations(_ context.Context, from, to string, limit int, nextToken *string) ([]domain.ExchangeRateObservation, *string, error) {
	var cursor *domain.ExchangeRateObservation
	if nextToken != nil && *nextToken != "" {
		at, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		cursor = &domain.ExchangeRateObservation{FetchedAt: at, ObservationID: id}
	}

	r.mu.RLock()
	out := make([]domain.ExchangeRateObservation, 0, len(r.observations[pairKey(from, to)]))
	for _, obs := range r.observations[pairKey(from, to)] {
		if cursor == nil || newer(*cursor, obs) {
			out = append(out, obs)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return newer(out[i], out[j])
	})
	if limit <= 0 || len(out) <= limit {
		return out, nil, nil
	}
	last := out[limit-1]
	token := pagination.EncodeToken(last.FetchedAt, last.ObservationID)
	return out[:limit], &token, nil
}
