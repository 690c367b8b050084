package services

import (
	"context"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRateReaderSvc defines read operations over the rate observation log.
// Absence is reported through the found flag, never as an error.
type ExchangeRateReaderSvc interface {
	// MostRecentObservation returns the newest observation for the pair. When maxAge is
	// non-nil only observations fetched within maxAge of now are considered.
	MostRecentObservation(ctx context.Context, fromCode, toCode string, maxAge *time.Duration) (*domain.ExchangeRateObservation, bool, error)

	// LatestRegardlessOfAge returns the newest observation for the pair, however old.
	LatestRegardlessOfAge(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRateObservation, bool, error)

	// ListObservations returns a page of up to limit observations for the pair,
	// newest first, and the token for the following page (nil on the last page).
	ListObservations(ctx context.Context, fromCode, toCode string, limit int, nextToken *string) ([]domain.ExchangeRateObservation, *string, error)
}

// ExchangeRateWriterSvc defines append operations on the rate observation log
type ExchangeRateWriterSvc interface {
	// RecordObservation appends a rate observation.
	RecordObservation(ctx context.Context, fromCode, toCode string, rate decimal.Decimal, source string, isManualOverride bool, overriddenBy *string) (*domain.ExchangeRateObservation, error)

	// RecordManualOverride appends an administrator-supplied rate that takes
	// precedence until a newer observation is recorded.
	RecordManualOverride(ctx context.Context, fromCode, toCode string, rate decimal.Decimal, actorID string) (*domain.ExchangeRateObservation, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}

// CurrencyConverterSvc resolves rates through cache, provider and fallback, and converts amounts.
// A missing rate is a RateSourceUnavailable result, not an error; errors are
// returned only for malformed input.
type CurrencyConverterSvc interface {
	// GetRate resolves the rate for the pair. forceRefresh skips the fresh-cache step.
	GetRate(ctx context.Context, fromCode, toCode string, forceRefresh bool) (domain.RateQuote, error)

	// Convert converts amount from one currency to another, rounded to the target precision.
	// A negative amount is a validation error.
	Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string) (domain.ConversionResult, error)

	// ConvertMoney is Convert for a MonetaryAmount.
	ConvertMoney(ctx context.Context, amount domain.MonetaryAmount, toCode string) (domain.ConversionResult, error)
}
