package rateprovider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *HTTPProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewHTTPProvider(HTTPConfig{BaseURL: server.URL + "/v6/", APIKey: "secret"})
	require.NoError(t, err)
	return p
}

func TestHTTPProviderFetchPairRate(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v6/secret/pair/USD/EUR", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"success","base_code":"USD","target_code":"EUR","conversion_rate":0.9215}`))
	})

	rate, err := p.FetchPairRate(context.Background(), "USD", "EUR")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.9215").Equal(rate))
	assert.Equal(t, "exchangerate_api", p.Name())
}

func TestHTTPProviderErrorCategories(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unsupported code", http.StatusOK, `{"result":"error","error-type":"unsupported-code"}`, ErrUnknownPair},
		{"invalid key", http.StatusForbidden, `{"result":"error","error-type":"invalid-key"}`, ErrAuth},
		{"quota", http.StatusOK, `{"result":"error","error-type":"quota-reached"}`, ErrAuth},
		{"plain 404", http.StatusNotFound, `not found`, ErrUnknownPair},
		{"server error", http.StatusInternalServerError, `oops`, ErrBadResponse},
		{"garbage on 200", http.StatusOK, `{`, ErrBadResponse},
		{"zero rate", http.StatusOK, `{"result":"success","conversion_rate":0}`, ErrBadResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := p.FetchPairRate(context.Background(), "USD", "XXX")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHTTPProviderHonoursTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	p, err := NewHTTPProvider(HTTPConfig{BaseURL: server.URL, APIKey: "secret", Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = p.FetchPairRate(context.Background(), "USD", "EUR")
	require.ErrorIs(t, err, ErrNetwork)
	assert.NotContains(t, err.Error(), "secret")
}

func TestNewHTTPProviderValidation(t *testing.T) {
	_, err := NewHTTPProvider(HTTPConfig{APIKey: "k"})
	assert.Error(t, err)
	_, err = NewHTTPProvider(HTTPConfig{BaseURL: "http://x"})
	assert.Error(t, err)
}

func TestStaticProviderLowercasePair(t *testing.T) {
	p, err := NewStaticProvider(map[string]string{"usd/eur": "0.92"})
	require.NoError(t, err)

	rate, err := p.FetchPairRate(context.Background(), "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "0.92", rate.String())

	_, err = p.FetchPairRate(context.Background(), "EUR", "USD")
	assert.ErrorIs(t, err, ErrUnknownPair)

	_, err = NewStaticProvider(map[string]string{"USD/EUR": "abc"})
	assert.Error(t, err)
}
