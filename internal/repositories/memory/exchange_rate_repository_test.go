package memory

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func observation(id string, rate string, at time.Time) domain.ExchangeRateObservation {
	return domain.ExchangeRateObservation{
		ObservationID:    id,
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
		Rate:             decimal.RequireFromString(rate),
		FetchedAt:        at,
		Source:           "test",
	}
}

func TestExchangeRateRepositoryMostRecent(t *testing.T) {
	ctx := context.Background()
	repo := NewExchangeRateRepository()

	_, err := repo.FindMostRecentObservation(ctx, "USD", "EUR", nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, repo.SaveObservation(ctx, observation("a", "0.90", base)))
	require.NoError(t, repo.SaveObservation(ctx, observation("b", "0.92", base.Add(time.Hour))))
	require.NoError(t, repo.SaveObservation(ctx, observation("c", "0.91", base.Add(30*time.Minute))))

	latest, err := repo.FindMostRecentObservation(ctx, "USD", "EUR", nil)
	require.NoError(t, err)
	assert.Equal(t, "b", latest.ObservationID)

	since := base.Add(2 * time.Hour)
	_, err = repo.FindMostRecentObservation(ctx, "USD", "EUR", &since)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = repo.FindMostRecentObservation(ctx, "EUR", "USD", nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "pairs are directional")
}

func TestExchangeRateRepositoryTieBreaksOnObservationID(t *testing.T) {
	ctx := context.Background()
	repo := NewExchangeRateRepository()

	require.NoError(t, repo.SaveObservation(ctx, observation("b", "0.95", base)))
	require.NoError(t, repo.SaveObservation(ctx, observation("a", "0.92", base)))

	latest, err := repo.FindMostRecentObservation(ctx, "USD", "EUR", nil)
	require.NoError(t, err)
	assert.Equal(t, "b", latest.ObservationID)

	history, next, err := repo.ListObservations(ctx, "USD", "EUR", 10, nil)
	require.NoError(t, err)
	assert.Nil(t, next)
	require.Len(t, history, 2)
	assert.Equal(t, "b", history[0].ObservationID)
}

func ids(observations []domain.ExchangeRateObservation) []string {
	out := make([]string, len(observations))
	for i, obs := range observations {
		out[i] = obs.ObservationID
	}
	return out
}

func TestExchangeRateRepositoryListObservations(t *testing.T) {
	ctx := context.Background()
	repo := NewExchangeRateRepository()
	for i, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, repo.SaveObservation(ctx, observation(id, "0.9", base.Add(time.Duration(i)*time.Minute))))
	}
	// Same instant as "d": only the ID separates them.
	require.NoError(t, repo.SaveObservation(ctx, observation("e", "0.9", base.Add(3*time.Minute))))

	page, next, err := repo.ListObservations(ctx, "USD", "EUR", 2, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"e", "d"}, ids(page))
	require.NotNil(t, next)

	page, next, err = repo.ListObservations(ctx, "USD", "EUR", 2, next)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, ids(page))
	require.NotNil(t, next)

	page, next, err = repo.ListObservations(ctx, "USD", "EUR", 2, next)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(page))
	assert.Nil(t, next)
}

func TestExchangeRateRepositoryListObservations_InvalidToken(t *testing.T) {
	bad := "not-a-token"
	_, _, err := NewExchangeRateRepository().ListObservations(context.Background(), "USD", "EUR", 2, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestExchangeRateRepositoryRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := NewExchangeRateRepository()
	require.NoError(t, repo.SaveObservation(ctx, observation("a", "0.9", base)))
	assert.ErrorIs(t, repo.SaveObservation(ctx, observation("a", "0.8", base)), apperrors.ErrDuplicate)
}
