// Package frequency converts periodic amounts to monthly and annual equivalents.
package frequency

import (
	"fmt"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

// occurrencesPerYear is the single source of truth for normalization.
// Every monthly figure is derived as annual / 12.
var occurrencesPerYear = map[domain.Frequency]decimal.Decimal{
	domain.OneTime:   decimal.Zero,
	domain.Weekly:    decimal.NewFromInt(52),
	domain.Biweekly:  decimal.NewFromInt(26),
	domain.Monthly:   decimal.NewFromInt(12),
	domain.Quarterly: decimal.NewFromInt(4),
	domain.Annually:  decimal.NewFromInt(1),
}

// AnnualMultiplier returns how many times per year the frequency occurs.
func AnnualMultiplier(f domain.Frequency) (decimal.Decimal, error) {
	m, ok := occurrencesPerYear[f]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unsupported frequency %q", apperrors.ErrValidation, f)
	}
	return m, nil
}

// ToAnnual returns the annual equivalent of amount. ONE_TIME yields zero.
func ToAnnual(amount decimal.Decimal, f domain.Frequency) (decimal.Decimal, error) {
	m, err := AnnualMultiplier(f)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(m), nil
}

// ToMonthly returns the monthly equivalent of amount. ONE_TIME yields zero.
func ToMonthly(amount decimal.Decimal, f domain.Frequency) (decimal.Decimal, error) {
	annual, err := ToAnnual(amount, f)
	if err != nil {
		return decimal.Zero, err
	}
	if f == domain.Monthly {
		return amount, nil
	}
	return annual.Div(monthsPerYear), nil
}

// Normalized holds the derived equivalents of a periodic amount.
type Normalized struct {
	Monthly decimal.Decimal
	Annual  decimal.Decimal
}

// Normalize derives both equivalents for p in its own currency.
func Normalize(p domain.PeriodicAmount) (Normalized, error) {
	monthly, err := ToMonthly(p.Amount.Amount, p.Frequency)
	if err != nil {
		return Normalized{}, err
	}
	annual, err := ToAnnual(p.Amount.Amount, p.Frequency)
	if err != nil {
		return Normalized{}, err
	}
	return Normalized{Monthly: monthly, Annual: annual}, nil
}

// Interval returns the calendar step between two occurrences as (years, months, days).
// ONE_TIME has no interval.
func Interval(f domain.Frequency) (years, months, days int, err error) {
	switch f {
	case domain.Weekly:
		return 0, 0, 7, nil
	case domain.Biweekly:
		return 0, 0, 14, nil
	case domain.Monthly:
		return 0, 1, 0, nil
	case domain.Quarterly:
		return 0, 3, 0, nil
	case domain.Annually:
		return 1, 0, 0, nil
	default:
		return 0, 0, 0, fmt.Errorf("%w: frequency %q has no recurrence interval", apperrors.ErrValidation, f)
	}
}
