package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRateObservation is a row of the append-only exchange_rate_observations table.
type ExchangeRateObservation struct {
	ObservationID    string          `json:"observationID" db:"observation_id"`        // Primary Key (UUID)
	FromCurrencyCode string          `json:"fromCurrencyCode" db:"from_currency_code"` // FK -> Currency.currencyCode
	ToCurrencyCode   string          `json:"toCurrencyCode" db:"to_currency_code"`     // FK -> Currency.currencyCode
	Rate             decimal.Decimal `json:"rate" db:"rate"`
	FetchedAt        time.Time       `json:"fetchedAt" db:"fetched_at"`
	Source           string          `json:"source" db:"source"`
	IsManualOverride bool            `json:"isManualOverride" db:"is_manual_override"`
	OverriddenBy     *string         `json:"overriddenBy" db:"overridden_by"`
}
