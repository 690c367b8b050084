package mapping

import (
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/SscSPs/fintrack_backend/internal/models"
)

// ToModelObservation converts a domain observation to its row form
func ToModelObservation(d domain.ExchangeRateObservation) models.ExchangeRateObservation {
	return models.ExchangeRateObservation{
		ObservationID:    d.ObservationID,
		FromCurrencyCode: d.FromCurrencyCode,
		ToCurrencyCode:   d.ToCurrencyCode,
		Rate:             d.Rate,
		FetchedAt:        d.FetchedAt,
		Source:           d.Source,
		IsManualOverride: d.IsManualOverride,
		OverriddenBy:     d.OverriddenBy,
	}
}

// ToDomainObservation converts an observation row to the domain type
func ToDomainObservation(m models.ExchangeRateObservation) domain.ExchangeRateObservation {
	return domain.ExchangeRateObservation{
		ObservationID:    m.ObservationID,
		FromCurrencyCode: m.FromCurrencyCode,
		ToCurrencyCode:   m.ToCurrencyCode,
		Rate:             m.Rate,
		FetchedAt:        m.FetchedAt.UTC(),
		Source:           m.Source,
		IsManualOverride: m.IsManualOverride,
		OverriddenBy:     m.OverriddenBy,
	}
}

// ToDomainObservationSlice converts observation rows to domain observations
func ToDomainObservationSlice(ms []models.ExchangeRateObservation) []domain.ExchangeRateObservation {
	ds := make([]domain.ExchangeRateObservation, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainObservation(m)
	}
	return ds
}
