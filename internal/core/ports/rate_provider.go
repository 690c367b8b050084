package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateProvider fetches live exchange rates from an external source.
type RateProvider interface {
	// FetchPairRate returns how many units of toCurrencyCode one unit of
	// fromCurrencyCode buys. Any failure (network, timeout, malformed body,
	// non-positive rate) is returned as an error.
	FetchPairRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (decimal.Decimal, error)

	// Name identifies the provider; it is stored as the observation source.
	Name() string
}
