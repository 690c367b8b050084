package services

import (
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/SscSPs/fintrack_backend/internal/core/ports"
	portsrepo "github.com/SscSPs/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
	"github.com/SscSPs/fintrack_backend/internal/platform/config"
	"github.com/SscSPs/fintrack_backend/internal/platform/metrics"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// provider and m may be nil.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, provider ports.RateProvider, m *metrics.Metrics) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo)

	// The converter reads and records observations through the exchange rate service
	converterOpts := []ConverterOption{
		WithCurrencyReader(container.Currency),
		WithCacheTTL(cfg.RateCacheTTL),
		WithProviderTimeout(cfg.RateProviderTimeout),
		WithConverterMetrics(m),
	}
	if provider != nil {
		converterOpts = append(converterOpts, WithRateProvider(provider))
	}
	container.Converter = NewCurrencyConverter(container.ExchangeRate, converterOpts...)

	container.Aggregator = NewFinancialAggregator(
		container.Converter,
		WithAggregatorCurrencyReader(container.Currency),
		WithUnavailableRatePolicy(domain.UnavailableRatePolicy(cfg.UnavailableRatePolicy)),
		WithAggregatorMetrics(m),
	)

	container.Reports = NewFinanceReportService(
		repos.SnapshotRepo,
		repos.PreferenceRepo,
		container.Aggregator,
		WithDefaultDisplayCurrency(cfg.DefaultDisplayCurrency),
	)

	return container
}
