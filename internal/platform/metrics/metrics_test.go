package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservations(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRateLookup("cache")
	m.ObserveRateLookup("cache")
	m.ObserveRateLookup("provider")
	m.ObserveProviderFetch("static", nil, 0.01)
	m.ObserveProviderFetch("static", errors.New("boom"), 0.02)
	m.ObserveConversionFallback("savings", "native")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RateLookups.WithLabelValues("cache")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLookups.WithLabelValues("provider")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderFetches.WithLabelValues("static", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderFetches.WithLabelValues("static", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConversionFallbacks.WithLabelValues("savings", "native")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRateLookup("cache")
		m.ObserveProviderFetch("static", nil, 0)
		m.ObserveConversionFallback("debt", "exclude")
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveRateLookup("identity")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `fintrack_fx_rate_lookups_total{source="identity"} 1`)
}
