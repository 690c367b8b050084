package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ManualOverrideSource is the source recorded for administrator-supplied rates.
const ManualOverrideSource = "manual_override"

// ExchangeRateObservation is one append-only entry in the exchange-rate log.
// The current rate for a pair is the observation with the latest FetchedAt,
// regardless of whether it was fetched or overridden.
type ExchangeRateObservation struct {
	ObservationID    string          `json:"observationID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	FetchedAt        time.Time       `json:"fetchedAt"`
	Source           string          `json:"source"`
	IsManualOverride bool            `json:"isManualOverride"`
	OverriddenBy     *string         `json:"overriddenBy,omitempty"`
}

// RateSource describes how a rate was obtained.
type RateSource string

const (
	RateSourceIdentity    RateSource = "identity"
	RateSourceCache       RateSource = "cache"
	RateSourceProvider    RateSource = "provider"
	RateSourceStaleCache  RateSource = "stale_cache"
	RateSourceUnavailable RateSource = "unavailable"
	// RateSourceNotRequired marks conversions of a zero amount, which need no rate.
	RateSourceNotRequired RateSource = "not_required"
)

// RateQuote is the outcome of a rate lookup. An unavailable quote is a normal
// value; callers decide how to degrade.
type RateQuote struct {
	FromCurrencyCode string
	ToCurrencyCode   string
	Rate             decimal.Decimal
	Source           RateSource
	Observation      *ExchangeRateObservation
}

// Available reports whether a usable rate was found.
func (q RateQuote) Available() bool {
	return q.Source != RateSourceUnavailable
}
