package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/SscSPs/fintrack_backend/internal/core/ports"
	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
	"github.com/SscSPs/fintrack_backend/internal/platform/metrics"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultRateCacheTTL is how long a stored observation counts as fresh.
	DefaultRateCacheTTL = time.Hour
	// DefaultProviderTimeout bounds a shared provider fetch.
	DefaultProviderTimeout = 5 * time.Second
)

// currencyConverter resolves rates through identity, fresh store entry,
// provider, stale store entry and finally unavailable.
type currencyConverter struct {
	BaseService
	store      portssvc.ExchangeRateSvcFacade
	provider   ports.RateProvider
	currencies portssvc.CurrencyReaderSvc
	cacheTTL   time.Duration
	timeout    time.Duration
	metrics    *metrics.Metrics
	clock      func() time.Time
	fetches    singleflight.Group
}

// ConverterOption is a functional option for configuring the currency converter
type ConverterOption func(*currencyConverter)

// WithRateProvider sets the external provider consulted on cache misses.
func WithRateProvider(provider ports.RateProvider) ConverterOption {
	return func(c *currencyConverter) {
		c.provider = provider
	}
}

// WithCurrencyReader sets where target currency precision is looked up.
func WithCurrencyReader(currencies portssvc.CurrencyReaderSvc) ConverterOption {
	return func(c *currencyConverter) {
		c.currencies = currencies
	}
}

// WithCacheTTL sets the freshness window of stored observations.
func WithCacheTTL(ttl time.Duration) ConverterOption {
	return func(c *currencyConverter) {
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// WithProviderTimeout bounds each provider fetch. The fetch is shared by every
// caller waiting on the same pair, so it does not follow any one caller's context.
func WithProviderTimeout(timeout time.Duration) ConverterOption {
	return func(c *currencyConverter) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithConverterMetrics enables Prometheus instrumentation.
func WithConverterMetrics(m *metrics.Metrics) ConverterOption {
	return func(c *currencyConverter) {
		c.metrics = m
	}
}

// WithConverterClock overrides the time source used to measure provider latency.
func WithConverterClock(clock func() time.Time) ConverterOption {
	return func(c *currencyConverter) {
		c.clock = clock
	}
}

// NewCurrencyConverter creates a converter over the observation store.
func NewCurrencyConverter(store portssvc.ExchangeRateSvcFacade, options ...ConverterOption) portssvc.CurrencyConverterSvc {
	c := &currencyConverter{
		store:    store,
		cacheTTL: DefaultRateCacheTTL,
		timeout:  DefaultProviderTimeout,
		clock:    time.Now,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

var _ portssvc.CurrencyConverterSvc = (*currencyConverter)(nil)

func (c *currencyConverter) GetRate(ctx context.Context, fromCode, toCode string, forceRefresh bool) (domain.RateQuote, error) {
	from, to, err := domain.NormalizeCurrencyPair(fromCode, toCode)
	if err != nil {
		return domain.RateQuote{}, err
	}

	quote := c.resolve(ctx, from, to, forceRefresh)
	c.metrics.ObserveRateLookup(string(quote.Source))
	return quote, nil
}

func (c *currencyConverter) resolve(ctx context.Context, from, to string, forceRefresh bool) domain.RateQuote {
	quote := domain.RateQuote{FromCurrencyCode: from, ToCurrencyCode: to}

	if from == to {
		quote.Rate = decimal.NewFromInt(1)
		quote.Source = domain.RateSourceIdentity
		return quote
	}

	if !forceRefresh {
		ttl := c.cacheTTL
		obs, found, err := c.store.MostRecentObservation(ctx, from, to, &ttl)
		if err != nil {
			c.LogError(ctx, err, "Failed to read cached exchange rate", slog.String("from", from), slog.String("to", to))
		} else if found {
			quote.Rate = obs.Rate
			quote.Source = domain.RateSourceCache
			quote.Observation = obs
			return quote
		}
	}

	if obs, ok := c.fetchFromProvider(ctx, from, to); ok {
		quote.Rate = obs.Rate
		quote.Source = domain.RateSourceProvider
		quote.Observation = obs
		return quote
	}

	obs, found, err := c.store.LatestRegardlessOfAge(ctx, from, to)
	if err != nil {
		c.LogError(ctx, err, "Failed to read stale exchange rate", slog.String("from", from), slog.String("to", to))
	} else if found {
		c.LogWarn(ctx, "Using stale exchange rate",
			slog.String("from", from), slog.String("to", to),
			slog.Time("fetched_at", obs.FetchedAt))
		quote.Rate = obs.Rate
		quote.Source = domain.RateSourceStaleCache
		quote.Observation = obs
		return quote
	}

	c.LogWarn(ctx, "No exchange rate available", slog.String("from", from), slog.String("to", to))
	quote.Source = domain.RateSourceUnavailable
	return quote
}

// fetchFromProvider calls the provider once per pair at a time and records
// the result. Provider failures are logged and reported as ok == false.
func (c *currencyConverter) fetchFromProvider(ctx context.Context, from, to string) (*domain.ExchangeRateObservation, bool) {
	if c.provider == nil {
		return nil, false
	}

	v, err, shared := c.fetches.Do(from+"/"+to, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		start := c.clock()
		rate, err := c.provider.FetchPairRate(ctx, from, to)
		if err == nil && !rate.IsPositive() {
			err = fmt.Errorf("%w: provider returned non-positive rate %s", apperrors.ErrValidation, rate)
		}
		c.metrics.ObserveProviderFetch(c.provider.Name(), err, c.clock().Sub(start).Seconds())
		if err != nil {
			return nil, err
		}

		obs, err := c.store.RecordObservation(ctx, from, to, rate, c.provider.Name(), false, nil)
		if err != nil {
			// The live rate is still usable even if it could not be persisted.
			c.LogError(ctx, err, "Failed to persist provider exchange rate", slog.String("from", from), slog.String("to", to))
			obs = &domain.ExchangeRateObservation{
				FromCurrencyCode: from,
				ToCurrencyCode:   to,
				Rate:             rate,
				FetchedAt:        c.clock().UTC(),
				Source:           c.provider.Name(),
			}
		}
		return obs, nil
	})
	if err != nil {
		c.LogError(ctx, err, "Exchange rate provider fetch failed",
			slog.String("provider", c.provider.Name()), slog.String("from", from), slog.String("to", to))
		return nil, false
	}
	if shared {
		c.LogDebug(ctx, "Shared in-flight provider fetch", slog.String("from", from), slog.String("to", to))
	}
	return v.(*domain.ExchangeRateObservation), true
}

func (c *currencyConverter) Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string) (domain.ConversionResult, error) {
	from, to, err := domain.NormalizeCurrencyPair(fromCode, toCode)
	if err != nil {
		return domain.ConversionResult{}, err
	}
	if amount.IsNegative() {
		return domain.ConversionResult{}, apperrors.NewValidationError("amount must not be negative")
	}

	result := domain.ConversionResult{Original: domain.NewMonetaryAmount(amount, from)}

	if from == to {
		result.Converted = domain.NewMonetaryAmount(amount, to)
		result.Rate = decimal.NewFromInt(1)
		result.Source = domain.RateSourceIdentity
		c.metrics.ObserveRateLookup(string(result.Source))
		return result, nil
	}

	if amount.IsZero() {
		result.Converted = domain.NewMonetaryAmount(decimal.Zero, to)
		result.Source = domain.RateSourceNotRequired
		return result, nil
	}

	quote, err := c.GetRate(ctx, from, to, false)
	if err != nil {
		return domain.ConversionResult{}, err
	}
	result.Source = quote.Source
	if !quote.Available() {
		// Converted stays in the original currency so it is never mistaken for a conversion.
		result.Converted = result.Original
		return result, nil
	}

	result.Rate = quote.Rate
	result.Converted = domain.NewMonetaryAmount(amount.Mul(quote.Rate).Round(int32(c.precisionFor(ctx, to))), to)
	return result, nil
}

func (c *currencyConverter) ConvertMoney(ctx context.Context, amount domain.MonetaryAmount, toCode string) (domain.ConversionResult, error) {
	return c.Convert(ctx, amount.Amount, amount.CurrencyCode, toCode)
}

func (c *currencyConverter) precisionFor(ctx context.Context, code string) int {
	if c.currencies == nil {
		return domain.DefaultPrecision
	}
	return c.currencies.PrecisionFor(ctx, code)
}
