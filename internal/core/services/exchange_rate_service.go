package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// DefaultHistoryLimit is used when a history listing does not specify a limit.
	DefaultHistoryLimit = 50
	// MaxHistoryLimit caps history listings.
	MaxHistoryLimit = 500
)

// newObservationID returns a time-ordered UUID so that observation IDs sort in
// creation order, which breaks FetchedAt ties in history listings.
func newObservationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// exchangeRateService is the append-only exchange rate observation store.
type exchangeRateService struct {
	BaseService
	rateRepo portsrepo.ExchangeRateRepositoryFacade
	clock    func() time.Time
}

// ExchangeRateServiceOption is a functional option for configuring the exchange rate service
type ExchangeRateServiceOption func(*exchangeRateService)

// WithExchangeRateClock overrides the time source used for FetchedAt and freshness checks.
func WithExchangeRateClock(clock func() time.Time) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.clock = clock
	}
}

// NewExchangeRateService creates a new exchange rate observation store.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, options ...ExchangeRateServiceOption) portssvc.ExchangeRateSvcFacade {
	svc := &exchangeRateService{
		rateRepo: rateRepo,
		clock:    time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

func (s *exchangeRateService) RecordObservation(ctx context.Context, fromCode, toCode string, rate decimal.Decimal, source string, isManualOverride bool, overriddenBy *string) (*domain.ExchangeRateObservation, error) {
	from, to, err := domain.NormalizeCurrencyPair(fromCode, toCode)
	if err != nil {
		return nil, err
	}
	if from == to {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}
	if !rate.IsPositive() {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("%w: observation source is required", apperrors.ErrValidation)
	}
	if isManualOverride && (overriddenBy == nil || strings.TrimSpace(*overriddenBy) == "") {
		return nil, fmt.Errorf("%w: manual overrides must name the acting user", apperrors.ErrValidation)
	}

	obs := domain.ExchangeRateObservation{
		ObservationID:    newObservationID(),
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             rate,
		FetchedAt:        s.clock().UTC(),
		Source:           source,
		IsManualOverride: isManualOverride,
		OverriddenBy:     overriddenBy,
	}

	if err := s.rateRepo.SaveObservation(ctx, obs); err != nil {
		s.LogError(ctx, err, "Failed to save exchange rate observation",
			slog.String("from", from), slog.String("to", to), slog.String("source", source))
		return nil, fmt.Errorf("failed to record exchange rate observation: %w", err)
	}

	s.LogDebug(ctx, "Exchange rate observation recorded",
		slog.String("from", from), slog.String("to", to),
		slog.String("rate", rate.String()), slog.String("source", source))
	return &obs, nil
}

func (s *exchangeRateService) RecordManualOverride(ctx context.Context, fromCode, toCode string, rate decimal.Decimal, actorID string) (*domain.ExchangeRateObservation, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return nil, fmt.Errorf("%w: manual overrides must name the acting user", apperrors.ErrValidation)
	}
	obs, err := s.RecordObservation(ctx, fromCode, toCode, rate, domain.ManualOverrideSource, true, &actorID)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Manual exchange rate override recorded",
		slog.String("from", obs.FromCurrencyCode), slog.String("to", obs.ToCurrencyCode),
		slog.String("rate", rate.String()), slog.String("actor_id", actorID))
	return obs, nil
}

func (s *exchangeRateService) MostRecentObservation(ctx context.Context, fromCode, toCode string, maxAge *time.Duration) (*domain.ExchangeRateObservation, bool, error) {
	from, to, err := domain.NormalizeCurrencyPair(fromCode, toCode)
	if err != nil {
		return nil, false, err
	}

	var since *time.Time
	if maxAge != nil {
		if *maxAge < 0 {
			return nil, false, fmt.Errorf("%w: max age must not be negative", apperrors.ErrValidation)
		}
		cutoff := s.clock().UTC().Add(-*maxAge)
		since = &cutoff
	}

	obs, err := s.rateRepo.FindMostRecentObservation(ctx, from, to, since)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read exchange rate observations: %w", err)
	}
	return obs, true, nil
}

func (s *exchangeRateService) LatestRegardlessOfAge(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRateObservation, bool, error) {
	return s.MostRecentObservation(ctx, fromCode, toCode, nil)
}

func (s *exchangeRateService) ListObservations(ctx context.Context, fromCode, toCode string, limit int, nextToken *string) ([]domain.ExchangeRateObservation, *string, error) {
	from, to, err := domain.NormalizeCurrencyPair(fromCode, toCode)
	if err != nil {
		return nil, nil, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	observations, next, err := s.rateRepo.ListObservations(ctx, from, to, limit, nextToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return nil, nil, err
		}
		s.LogError(ctx, err, "Failed to list exchange rate observations", slog.String("from", from), slog.String("to", to))
		return nil, nil, fmt.Errorf("failed to list exchange rate observations: %w", err)
	}
	if observations == nil {
		observations = []domain.ExchangeRateObservation{}
	}
	return observations, next, nil
}
