package utils

import (
	"testing"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatWithCurrencyPrecision(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		precision int
		expected  string
	}{
		{"rounds half up", "12.345", 2, "12.35"},
		{"pads", "108", 2, "108.00"},
		{"zero precision", "15124.4", 0, "15124"},
		{"three decimals", "30.7449", 3, "30.745"},
		{"negative", "-2.005", 2, "-2.01"},
		{"negative precision uses default", "1.234", -1, "1.23"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			assert.Equal(t, tt.expected, FormatWithCurrencyPrecision(amount, domain.Currency{Precision: tt.precision}))
		})
	}
}

func TestFormatMoney(t *testing.T) {
	m := domain.NewMonetaryAmount(decimal.RequireFromString("92"), "EUR")
	assert.Equal(t, "92.00 EUR", FormatMoney(m, 2))
}
