// Package bootstrap wires storage and the rate provider from configuration.
// Both the API server and the fxctl CLI start from here.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/fintrack_backend/internal/adapters/rateprovider"
	"github.com/SscSPs/fintrack_backend/internal/core/ports"
	portsrepo "github.com/SscSPs/fintrack_backend/internal/core/ports/repositories"
	"github.com/SscSPs/fintrack_backend/internal/platform/config"
	"github.com/SscSPs/fintrack_backend/internal/repositories/database/pgsql"
	"github.com/SscSPs/fintrack_backend/internal/repositories/memory"
	"github.com/SscSPs/fintrack_backend/pkg/database"
)

// Runtime holds the adapters selected by configuration.
type Runtime struct {
	Repos portsrepo.RepositoryProvider
	// Snapshots is only set for the memory store, where callers load data with Put.
	Snapshots *memory.SnapshotRepository
	// Provider is nil when no live provider is configured; conversions then use the cache only.
	Provider ports.RateProvider
	closers  []func()
}

// Close releases the database pool, if any.
func (r *Runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// Open builds the repositories and the rate provider described by cfg.
// With the postgres store, migrations from migrationsPath are applied first
// unless migrationsPath is empty.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrationsPath string) (*Runtime, error) {
	rt := &Runtime{}

	switch cfg.RateStore {
	case config.RateStoreMemory:
		rt.Repos, rt.Snapshots = memory.NewRepositoryProvider()
		logger.Info("Using in-memory store")
	case config.RateStorePostgres:
		if migrationsPath != "" {
			logger.Info("Running database migrations...")
			if err := database.RunMigrations(cfg.DatabaseURL, migrationsPath, logger); err != nil {
				return nil, err
			}
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		rt.closers = append(rt.closers, func() { database.ClosePgxPool(pool) })
		rt.Repos = pgsql.NewRepositoryProvider(pool)
	default:
		return nil, fmt.Errorf("unknown RATE_STORE %q", cfg.RateStore)
	}

	provider, err := NewRateProvider(cfg, logger)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Provider = provider
	return rt, nil
}

// NewRateProvider builds the configured live provider. An HTTP provider without
// an API key is not an error: conversions fall back to cached rates.
func NewRateProvider(cfg *config.Config, logger *slog.Logger) (ports.RateProvider, error) {
	switch cfg.RateProvider {
	case config.RateProviderStatic:
		p, err := rateprovider.NewStaticProvider(cfg.StaticRates)
		if err != nil {
			return nil, fmt.Errorf("invalid STATIC_RATES: %w", err)
		}
		logger.Info("Using static rate provider", slog.Int("pairs", len(cfg.StaticRates)))
		return p, nil
	case config.RateProviderHTTP:
		if cfg.RateProviderAPIKey == "" {
			logger.Warn("RATE_PROVIDER_API_KEY not set, serving cached rates only")
			return nil, nil
		}
		p, err := rateprovider.NewHTTPProvider(rateprovider.HTTPConfig{
			BaseURL: cfg.RateProviderBaseURL,
			APIKey:  cfg.RateProviderAPIKey,
			Timeout: cfg.RateProviderTimeout,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("Using HTTP rate provider",
			slog.String("base_url", cfg.RateProviderBaseURL),
			slog.Duration("timeout", cfg.RateProviderTimeout))
		return p, nil
	default:
		return nil, fmt.Errorf("unknown RATE_PROVIDER %q", cfg.RateProvider)
	}
}
