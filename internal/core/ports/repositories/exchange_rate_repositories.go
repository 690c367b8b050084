package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
)

// ExchangeRateReader defines read operations over the rate observation log
type ExchangeRateReader interface {
	// FindMostRecentObservation returns the observation with the greatest FetchedAt for the
	// pair, restricted to FetchedAt >= *since when since is non-nil. Ties go to
	// the greater ObservationID.
	// Returns apperrors.ErrNotFound when nothing matches.
	FindMostRecentObservation(ctx context.Context, fromCurrencyCode, toCurrencyCode string, since *time.Time) (*domain.ExchangeRateObservation, error)

	// ListObservations returns up to limit observations for the pair ordered by
	// FetchedAt then ObservationID, newest first. A non-empty nextToken resumes
	// after the page that produced it. The returned token is nil on the last page.
	// A malformed token is an apperrors.ErrValidation.
	ListObservations(ctx context.Context, fromCurrencyCode, toCurrencyCode string, limit int, nextToken *string) ([]domain.ExchangeRateObservation, *string, error)
}

// ExchangeRateWriter defines write operations over the rate observation log.
// The log is append-only: there is no update or delete.
type ExchangeRateWriter interface {
	// SaveObservation appends a new observation.
	SaveObservation(ctx context.Context, observation domain.ExchangeRateObservation) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
// This is a facade for clients that need access to all operations
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
