package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fintrack_backend/internal/core/ports/repositories"
	"github.com/SscSPs/fintrack_backend/internal/models"
	"github.com/SscSPs/fintrack_backend/internal/utils/mapping"
	"github.com/SscSPs/fintrack_backend/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const observationColumns = `observation_id, from_currency_code, to_currency_code, rate, fetched_at, source, is_manual_override, overridden_by`

// PgxExchangeRateRepository stores the append-only exchange rate log.
// Rows are only ever inserted; the current rate is the newest row per pair.
type PgxExchangeRateRepository struct {
	BaseRepository
}

func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryFacade {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

// SaveObservation appends an observation to the log.
func (r *PgxExchangeRateRepository) SaveObservation(ctx context.Context, observation domain.ExchangeRateObservation) error {
	m := mapping.ToModelObservation(observation)

	query := `
		INSERT INTO exchange_rate_observations (` + observationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ObservationID,
		m.FromCurrencyCode,
		m.ToCurrencyCode,
		m.Rate,
		m.FetchedAt,
		m.Source,
		m.IsManualOverride,
		m.OverriddenBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: observation %s", apperrors.ErrDuplicate, m.ObservationID)
		}
		return fmt.Errorf("failed to save exchange rate observation %s->%s: %w", m.FromCurrencyCode, m.ToCurrencyCode, err)
	}
	return nil
}

// FindMostRecentObservation returns the newest observation for the pair,
// optionally no older than since.
func (r *PgxExchangeRateRepository) FindMostRecentObservation(ctx context.Context, fromCurrencyCode, toCurrencyCode string, since *time.Time) (*domain.ExchangeRateObservation, error) {
	query := `
		SELECT ` + observationColumns + `
		FROM exchange_rate_observations
		WHERE from_currency_code = $1 AND to_currency_code = $2
		  AND ($3::timestamptz IS NULL OR fetched_at >= $3)
		ORDER BY fetched_at DESC, observation_id DESC
		LIMIT 1;
	`
	m, err := scanObservation(r.Pool.QueryRow(ctx, query, fromCurrencyCode, toCurrencyCode, since))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find exchange rate %s->%s: %w", fromCurrencyCode, toCurrencyCode, err)
	}

	obs := mapping.ToDomainObservation(m)
	return &obs, nil
}

// ListObservations returns a page of observations for the pair, newest first.
// One extra row is fetched to tell whether another page follows.
func (r *PgxExchangeRateRepository) ListObservations(ctx context.Context, fromCurrencyCode, toCurrencyCode string, limit int, nextToken *string) ([]domain.ExchangeRateObservation, *string, error) {
	args := []any{fromCurrencyCode, toCurrencyCode}
	cursorClause := ""
	if nextToken != nil && *nextToken != "" {
		lastFetchedAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		if _, err := uuid.Parse(lastID); err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		cursorClause = `AND (fetched_at, observation_id) < ($3, $4)`
		args = append(args, lastFetchedAt, lastID)
	}
	args = append(args, limit+1)

	query := `
		SELECT ` + observationColumns + `
		FROM exchange_rate_observations
		WHERE from_currency_code = $1 AND to_currency_code = $2
		` + cursorClause + `
		ORDER BY fetched_at DESC, observation_id DESC
		LIMIT $` + strconv.Itoa(len(args)) + `;
	`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query exchange rate history %s->%s: %w", fromCurrencyCode, toCurrencyCode, err)
	}
	defer rows.Close()

	ms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ExchangeRateObservation, error) {
		return scanObservation(row)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan exchange rate history: %w", err)
	}

	var nextTokenVal *string
	if len(ms) > limit {
		last := ms[limit-1]
		token := pagination.EncodeToken(last.FetchedAt, last.ObservationID)
		nextTokenVal = &token
		ms = ms[:limit]
	}
	return mapping.ToDomainObservationSlice(ms), nextTokenVal, nil
}

func scanObservation(row pgx.Row) (models.ExchangeRateObservation, error) {
	var m models.ExchangeRateObservation
	err := row.Scan(
		&m.ObservationID,
		&m.FromCurrencyCode,
		&m.ToCurrencyCode,
		&m.Rate,
		&m.FetchedAt,
		&m.Source,
		&m.IsManualOverride,
		&m.OverriddenBy,
	)
	return m, err
}
