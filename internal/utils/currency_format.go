package utils

import (
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatWithCurrencyPrecision formats an amount with exactly the precision of the currency.
// Example: 12.3456 USD (precision 2) returns "12.35"
// Example: 12.3456 JPY (precision 0) returns "12"
// Example: 108 USD returns "108.00"
func FormatWithCurrencyPrecision(amount decimal.Decimal, currency domain.Currency) string {
	return FormatWithPrecision(amount, currency.Precision)
}

// FormatWithPrecision rounds half away from zero and pads to precision decimals.
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	if precision < 0 {
		precision = domain.DefaultPrecision
	}
	return amount.StringFixed(int32(precision))
}

// FormatMoney renders "<amount> <code>" using precision.
func FormatMoney(m domain.MonetaryAmount, precision int) string {
	return FormatWithPrecision(m.Amount, precision) + " " + m.CurrencyCode
}
