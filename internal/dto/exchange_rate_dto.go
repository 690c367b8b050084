package dto

import (
	"time"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ManualOverrideRequest pins a rate for a currency pair.
type ManualOverrideRequest struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,currencycode"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,currencycode"`
	Rate             decimal.Decimal `json:"rate" binding:"required"`
}

// HistoryQuery bounds the observation history listing.
type HistoryQuery struct {
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=500"`
	NextToken string `form:"nextToken"`
}

// ObservationResponse is a single entry of the rate observation log.
type ObservationResponse struct {
	ObservationID    string          `json:"observationID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	FetchedAt        time.Time       `json:"fetchedAt"`
	Source           string          `json:"source"`
	IsManualOverride bool            `json:"isManualOverride"`
	OverriddenBy     *string         `json:"overriddenBy,omitempty"`
}

// ToObservationResponse converts a domain.ExchangeRateObservation to its response DTO.
func ToObservationResponse(obs *domain.ExchangeRateObservation) ObservationResponse {
	return ObservationResponse{
		ObservationID:    obs.ObservationID,
		FromCurrencyCode: obs.FromCurrencyCode,
		ToCurrencyCode:   obs.ToCurrencyCode,
		Rate:             obs.Rate,
		FetchedAt:        obs.FetchedAt,
		Source:           obs.Source,
		IsManualOverride: obs.IsManualOverride,
		OverriddenBy:     obs.OverriddenBy,
	}
}

// ListObservationsResponse is one page of the observation log, newest first.
type ListObservationsResponse struct {
	Observations []ObservationResponse `json:"observations"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToListObservationsResponse converts a page of observations, preserving order.
func ToListObservationsResponse(observations []domain.ExchangeRateObservation, nextToken *string) ListObservationsResponse {
	res := make([]ObservationResponse, len(observations))
	for i := range observations {
		res[i] = ToObservationResponse(&observations[i])
	}
	return ListObservationsResponse{Observations: res, NextToken: nextToken}
}

// RateQuoteResponse is the outcome of a rate lookup.
// Rate is omitted when no rate is available.
type RateQuoteResponse struct {
	FromCurrencyCode string            `json:"fromCurrencyCode"`
	ToCurrencyCode   string            `json:"toCurrencyCode"`
	Rate             *decimal.Decimal  `json:"rate,omitempty"`
	Source           domain.RateSource `json:"source"`
	Available        bool              `json:"available"`
	FetchedAt        *time.Time        `json:"fetchedAt,omitempty"`
	IsManualOverride bool              `json:"isManualOverride"`
}

// ToRateQuoteResponse converts a domain.RateQuote to its response DTO.
func ToRateQuoteResponse(q domain.RateQuote) RateQuoteResponse {
	res := RateQuoteResponse{
		FromCurrencyCode: q.FromCurrencyCode,
		ToCurrencyCode:   q.ToCurrencyCode,
		Source:           q.Source,
		Available:        q.Available(),
	}
	if q.Available() {
		rate := q.Rate
		res.Rate = &rate
	}
	if q.Observation != nil {
		fetchedAt := q.Observation.FetchedAt
		res.FetchedAt = &fetchedAt
		res.IsManualOverride = q.Observation.IsManualOverride
	}
	return res
}

// ConvertRequest asks for an amount to be converted between currencies.
type ConvertRequest struct {
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,currencycode"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,currencycode"`
}

// ConversionResponse is the outcome of a conversion. Converted and Rate are
// omitted when no rate is available; the caller decides what to do then.
type ConversionResponse struct {
	Original  domain.MonetaryAmount  `json:"original"`
	Converted *domain.MonetaryAmount `json:"converted,omitempty"`
	Rate      *decimal.Decimal       `json:"rate,omitempty"`
	Source    domain.RateSource      `json:"source"`
	Available bool                   `json:"available"`
}

// ToConversionResponse converts a domain.ConversionResult to its response DTO.
func ToConversionResponse(r domain.ConversionResult) ConversionResponse {
	res := ConversionResponse{
		Original:  r.Original,
		Source:    r.Source,
		Available: r.Available(),
	}
	if r.Available() {
		converted := r.Converted
		res.Converted = &converted
	}
	if r.Available() && r.Source != domain.RateSourceNotRequired {
		rate := r.Rate
		res.Rate = &rate
	}
	return res
}
