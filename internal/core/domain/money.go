package domain

import (
	"fmt"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// MonetaryAmount is an immutable amount tagged with its currency.
type MonetaryAmount struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// NewMonetaryAmount builds a MonetaryAmount.
func NewMonetaryAmount(amount decimal.Decimal, currencyCode string) MonetaryAmount {
	return MonetaryAmount{Amount: amount, CurrencyCode: currencyCode}
}

// Add sums two amounts of the same currency.
func (m MonetaryAmount) Add(other MonetaryAmount) (MonetaryAmount, error) {
	if m.CurrencyCode != other.CurrencyCode {
		return MonetaryAmount{}, fmt.Errorf("%w: currency mismatch: cannot add %s to %s", apperrors.ErrValidation, other.CurrencyCode, m.CurrencyCode)
	}
	return MonetaryAmount{Amount: m.Amount.Add(other.Amount), CurrencyCode: m.CurrencyCode}, nil
}

// Sub subtracts other from m. Both must share a currency.
func (m MonetaryAmount) Sub(other MonetaryAmount) (MonetaryAmount, error) {
	if m.CurrencyCode != other.CurrencyCode {
		return MonetaryAmount{}, fmt.Errorf("%w: currency mismatch: cannot subtract %s from %s", apperrors.ErrValidation, other.CurrencyCode, m.CurrencyCode)
	}
	return MonetaryAmount{Amount: m.Amount.Sub(other.Amount), CurrencyCode: m.CurrencyCode}, nil
}

// ConversionResult pairs an original amount with its conversion. Inputs are never mutated.
type ConversionResult struct {
	Original  MonetaryAmount  `json:"original"`
	Converted MonetaryAmount  `json:"converted"`
	Rate      decimal.Decimal `json:"rate"`
	Source    RateSource      `json:"source"`
}

// Available reports whether Converted is actually in the requested currency.
func (r ConversionResult) Available() bool {
	return r.Source != RateSourceUnavailable
}
