package commands_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/SscSPs/fintrack_backend/internal/adapters/rateprovider"
	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/commands"
	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
	"github.com/SscSPs/fintrack_backend/internal/core/services"
	"github.com/SscSPs/fintrack_backend/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newOpener returns an opener serving one shared in-memory container, so
// state survives between commands of the same test.
func newOpener(t *testing.T) commands.Opener {
	t.Helper()
	provider, err := rateprovider.NewStaticProvider(map[string]string{"USD/EUR": "0.92", "USD/JPY": "151.244"})
	require.NoError(t, err)

	currencies := services.NewCurrencyService(memory.NewCurrencyRepository())
	require.NoError(t, currencies.InitializeStaticData(context.Background()))
	rates := services.NewExchangeRateService(memory.NewExchangeRateRepository())
	container := &portssvc.ServiceContainer{
		Currency:     currencies,
		ExchangeRate: rates,
		Converter:    services.NewCurrencyConverter(rates,
			services.WithRateProvider(provider),
			services.WithCurrencyReader(currencies)),
	}
	return func(context.Context) (*portssvc.ServiceContainer, func(), error) {
		return container, func() {}, nil
	}
}

func runFxctl(t *testing.T, open commands.Opener, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRate(t *testing.T) {
	open := newOpener(t)

	out, err := runFxctl(t, open, "rate", "usd", "eur")
	require.NoError(t, err)
	assert.Equal(t, "USD/EUR = 0.92 (provider)\n", out)

	out, err = runFxctl(t, open, "rate", "USD", "EUR")
	require.NoError(t, err)
	assert.Contains(t, out, "(cache)")

	out, err = runFxctl(t, open, "rate", "USD", "EUR", "--refresh")
	require.NoError(t, err)
	assert.Contains(t, out, "(provider)")

	out, err = runFxctl(t, open, "rate", "GBP", "CHF")
	require.NoError(t, err)
	assert.Equal(t, "GBP/CHF: no rate available\n", out)
}

func TestRate_InvalidCode(t *testing.T) {
	_, err := runFxctl(t, newOpener(t), "rate", "DOLLAR", "EUR")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestConvert(t *testing.T) {
	open := newOpener(t)

	out, err := runFxctl(t, open, "convert", "100", "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "100.00 USD = 92.00 EUR (provider)\n", out)

	out, err = runFxctl(t, open, "convert", "100", "USD", "JPY")
	require.NoError(t, err)
	assert.Equal(t, "100.00 USD = 15124 JPY (provider)\n", out)

	out, err = runFxctl(t, open, "convert", "5", "EUR", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "5.00 EUR = 5.00 EUR (identity)\n", out)

	_, err = runFxctl(t, open, "convert", "lots", "USD", "EUR")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestOverrideAndHistory(t *testing.T) {
	open := newOpener(t)

	_, err := runFxctl(t, open, "rate", "USD", "EUR")
	require.NoError(t, err)

	_, err = runFxctl(t, open, "override", "USD", "EUR", "0.95")
	require.Error(t, err, "--actor is required")

	out, err := runFxctl(t, open, "override", "USD", "EUR", "0.95", "--actor", "admin-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "recorded USD/EUR = 0.95 by admin-1"), out)

	out, err = runFxctl(t, open, "rate", "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "USD/EUR = 0.95 (cache)\n", out)

	out, err = runFxctl(t, open, "history", "USD", "EUR", "--limit", "5")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3, out)
	assert.Contains(t, lines[0], "FETCHED AT")
	assert.Contains(t, lines[1], "manual_override")
	assert.Contains(t, lines[1], "admin-1")
	assert.Contains(t, lines[2], "0.92")

	out, err = runFxctl(t, open, "history", "USD", "EUR", "--limit", "1")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3, out)
	token, ok := strings.CutPrefix(lines[2], "next page: --next-token ")
	require.True(t, ok, out)

	out, err = runFxctl(t, open, "history", "USD", "EUR", "--limit", "1", "--next-token", token)
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2, out)
	assert.Contains(t, lines[1], "0.92")
}

func TestOverride_RejectsNonPositiveRate(t *testing.T) {
	_, err := runFxctl(t, newOpener(t), "override", "USD", "EUR", "0", "--actor", "admin-1")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
