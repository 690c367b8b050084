package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// aggregationRun carries the state of a single aggregation call: the rates and
// precision already resolved and the warnings collected so far. It is never
// shared between calls.
type aggregationRun struct {
	agg       *financialAggregator
	ctx       context.Context
	display   string
	precision int
	rates     map[string]domain.RateQuote
	warnings  []domain.AggregationWarning
}

func (a *financialAggregator) newRun(ctx context.Context, displayCurrency string) (*aggregationRun, error) {
	if displayCurrency == "" {
		displayCurrency = domain.DefaultDisplayCurrency
	}
	display, err := domain.NormalizeCurrencyCode(displayCurrency)
	if err != nil {
		return nil, err
	}

	precision := domain.DefaultPrecision
	if a.currencies != nil {
		precision = a.currencies.PrecisionFor(ctx, display)
	}

	return &aggregationRun{
		agg:       a,
		ctx:       ctx,
		display:   display,
		precision: precision,
		rates:     make(map[string]domain.RateQuote),
		warnings:  []domain.AggregationWarning{},
	}, nil
}

// convert expresses amount in the display currency. included is false when the
// entity must be left out of totals under the exclude policy.
func (r *aggregationRun) convert(entityType domain.EntityType, entityID string, amount decimal.Decimal, currencyCode string) (converted decimal.Decimal, included bool) {
	out, included := r.convertAll(entityType, entityID, currencyCode, amount)
	return out[0], included
}

// convertAll converts several figures of one entity with a single rate lookup.
// At most one warning is recorded and it carries the first figure.
func (r *aggregationRun) convertAll(entityType domain.EntityType, entityID, currencyCode string, amounts ...decimal.Decimal) ([]decimal.Decimal, bool) {
	code, err := domain.NormalizeCurrencyCode(currencyCode)
	if err != nil {
		return r.unavailable(entityType, entityID, amounts, currencyCode, err.Error())
	}
	if code == r.display || allZero(amounts) {
		return amounts, true
	}

	quote, ok := r.rates[code]
	if !ok {
		quote, err = r.agg.converter.GetRate(r.ctx, code, r.display, false)
		if err != nil {
			return r.unavailable(entityType, entityID, amounts, code, err.Error())
		}
		r.rates[code] = quote
	}
	if !quote.Available() {
		return r.unavailable(entityType, entityID, amounts, code, "")
	}

	out := make([]decimal.Decimal, len(amounts))
	for i, a := range amounts {
		out[i] = a.Mul(quote.Rate).Round(int32(r.precision))
	}
	return out, true
}

func (r *aggregationRun) unavailable(entityType domain.EntityType, entityID string, amounts []decimal.Decimal, currencyCode, detail string) ([]decimal.Decimal, bool) {
	policy := r.agg.policy
	r.warnings = append(r.warnings, domain.AggregationWarning{
		EntityType:     entityType,
		EntityID:       entityID,
		Reason:         domain.ReasonRateUnavailable,
		CurrencyCode:   currencyCode,
		TargetCurrency: r.display,
		Amount:         amounts[0],
		Policy:         policy,
		Detail:         detail,
	})
	r.agg.metrics.ObserveConversionFallback(string(entityType), string(policy))
	r.agg.LogWarn(r.ctx, "Aggregating entity without a usable exchange rate",
		slog.String("entity_type", string(entityType)),
		slog.String("entity_id", entityID),
		slog.String("currency", currencyCode),
		slog.String("display_currency", r.display),
		slog.String("policy", string(policy)))

	if policy == domain.ExcludeEntity {
		return make([]decimal.Decimal, len(amounts)), false
	}
	return amounts, true
}

func allZero(amounts []decimal.Decimal) bool {
	for _, a := range amounts {
		if !a.IsZero() {
			return false
		}
	}
	return true
}

// nonNegative records the entity as invalid when amount is negative.
func (r *aggregationRun) nonNegative(entityType domain.EntityType, entityID string, amount decimal.Decimal) bool {
	if amount.IsNegative() {
		r.skip(entityType, entityID, apperrors.NewValidationError("amount must not be negative"))
		return false
	}
	return true
}

// skip records an entity that could not be interpreted at all.
func (r *aggregationRun) skip(entityType domain.EntityType, entityID string, err error) {
	r.warnings = append(r.warnings, domain.AggregationWarning{
		EntityType: entityType,
		EntityID:   entityID,
		Reason:     domain.ReasonInvalidEntity,
		Detail:     err.Error(),
	})
	r.agg.LogWarn(r.ctx, "Skipping invalid entity during aggregation",
		slog.String("entity_type", string(entityType)),
		slog.String("entity_id", entityID),
		slog.String("error", err.Error()))
}

// round applies the display currency precision to a final figure.
func (r *aggregationRun) round(d decimal.Decimal) decimal.Decimal {
	return d.Round(int32(r.precision))
}
