package bootstrap

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/adapters/rateprovider"
	"github.com/SscSPs/fintrack_backend/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func TestOpen_MemoryStoreWithStaticRates(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{
		RateStore:    config.RateStoreMemory,
		RateProvider: config.RateProviderStatic,
		StaticRates:  map[string]string{"EUR/USD": "1.08"},
	}

	rt, err := Open(context.Background(), cfg, testLogger(&buf), "")
	require.NoError(t, err)
	defer rt.Close()

	assert.NotNil(t, rt.Repos.CurrencyRepo)
	assert.NotNil(t, rt.Repos.ExchangeRateRepo)
	assert.NotNil(t, rt.Snapshots)
	assert.Same(t, rt.Snapshots, rt.Repos.SnapshotRepo)
	assert.IsType(t, &rateprovider.StaticProvider{}, rt.Provider)
	assert.Contains(t, buf.String(), "Using in-memory store")
}

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"unknown store", config.Config{RateStore: "redis", RateProvider: config.RateProviderStatic}, "unknown RATE_STORE"},
		{"unknown provider", config.Config{RateStore: config.RateStoreMemory, RateProvider: "carrier-pigeon"}, "unknown RATE_PROVIDER"},
		{"bad static rates", config.Config{RateStore: config.RateStoreMemory, RateProvider: config.RateProviderStatic, StaticRates: map[string]string{"EUR/USD": "x"}}, "invalid STATIC_RATES"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			_, err := Open(context.Background(), &tt.cfg, testLogger(&buf), "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewRateProvider_HTTP(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{
		RateProvider:        config.RateProviderHTTP,
		RateProviderBaseURL: "https://v6.exchangerate-api.com/v6/",
		RateProviderTimeout: 5 * time.Second,
	}

	provider, err := NewRateProvider(cfg, testLogger(&buf))
	require.NoError(t, err)
	assert.Nil(t, provider, "no API key means cache-only")
	assert.Contains(t, buf.String(), "RATE_PROVIDER_API_KEY not set")

	cfg.RateProviderAPIKey = "secret"
	provider, err = NewRateProvider(cfg, testLogger(&buf))
	require.NoError(t, err)
	require.NotNil(t, provider)
	assert.Equal(t, "exchangerate_api", provider.Name())
}
