package rateprovider

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProvider(t *testing.T) {
	p, err := NewStaticProvider(map[string]string{"eur/usd": "1.08"})
	require.NoError(t, err)
	assert.Equal(t, "static", p.Name())

	rate, err := p.FetchPairRate(context.Background(), "EUR", "USD")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1.08").Equal(rate))

	_, err = p.FetchPairRate(context.Background(), "USD", "EUR")
	assert.ErrorIs(t, err, ErrUnknownPair, "pairs are not inverted")

	p.Set("USD", "EUR", decimal.RequireFromString("0.92"))
	rate, err = p.FetchPairRate(context.Background(), "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "0.92", rate.String())
}

func TestNewStaticProvider_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"bad rate": {"EUR/USD": "abc"},
		"bad pair": {"EURUSD": "1.08"},
	}
	for name, rates := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewStaticProvider(rates)
			assert.Error(t, err)
		})
	}
}
