package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
)

// DefaultDisplayCurrency is used when a user has not picked a display currency.
const DefaultDisplayCurrency = "USD"

// DefaultPrecision is the rounding precision applied when currency metadata is unknown.
const DefaultPrecision = 2

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (e.g., "USD")
	Symbol       string `json:"symbol"`       // e.g., "$"
	Name         string `json:"name"`         // e.g., "US Dollar"
	Precision    int    `json:"precision"`    // decimal places used when rounding converted amounts
	IsActive     bool   `json:"isActive"`
	AuditFields
}

// NormalizeCurrencyCode upper-cases and validates a currency code.
func NormalizeCurrencyCode(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if !currencyCodePattern.MatchString(normalized) {
		return "", fmt.Errorf("%w: invalid currency code %q: must be exactly 3 letters", apperrors.ErrValidation, code)
	}
	return normalized, nil
}

// NormalizeCurrencyPair validates both sides of a pair.
func NormalizeCurrencyPair(from, to string) (string, string, error) {
	f, err := NormalizeCurrencyCode(from)
	if err != nil {
		return "", "", err
	}
	t, err := NormalizeCurrencyCode(to)
	if err != nil {
		return "", "", err
	}
	return f, t, nil
}
