// Package metrics holds the Prometheus collectors of the rate and aggregation engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fintrack"

// Metrics groups the collectors used by the converter and the aggregator.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	RateLookups         *prometheus.CounterVec
	ProviderFetches     *prometheus.CounterVec
	ProviderLatency     *prometheus.HistogramVec
	ConversionFallbacks *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		RateLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fx",
			Name:      "rate_lookups_total",
			Help:      "Rate lookups by the step of the fallback chain that answered.",
		}, []string{"source"}),
		ProviderFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fx",
			Name:      "provider_fetches_total",
			Help:      "Calls to the external rate provider by outcome.",
		}, []string{"provider", "outcome"}),
		ProviderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fx",
			Name:      "provider_fetch_seconds",
			Help:      "Latency of external rate provider calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		ConversionFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "conversion_fallbacks_total",
			Help:      "Entities aggregated without a usable rate, by entity type and policy.",
		}, []string{"entity_type", "policy"}),
		gatherer: reg,
	}
	reg.MustRegister(m.RateLookups, m.ProviderFetches, m.ProviderLatency, m.ConversionFallbacks)
	return m
}

// NewDefault registers the collectors on a fresh registry that also exposes
// the Go runtime and process collectors.
func NewDefault() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return New(reg)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveRateLookup counts a rate lookup answered by source.
func (m *Metrics) ObserveRateLookup(source string) {
	if m == nil {
		return
	}
	m.RateLookups.WithLabelValues(source).Inc()
}

// ObserveProviderFetch records a provider call outcome and its latency in seconds.
func (m *Metrics) ObserveProviderFetch(provider string, err error, seconds float64) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.ProviderFetches.WithLabelValues(provider, outcome).Inc()
	m.ProviderLatency.WithLabelValues(provider).Observe(seconds)
}

// ObserveConversionFallback counts an entity aggregated without a usable rate.
func (m *Metrics) ObserveConversionFallback(entityType, policy string) {
	if m == nil {
		return
	}
	m.ConversionFallbacks.WithLabelValues(entityType, policy).Inc()
}
