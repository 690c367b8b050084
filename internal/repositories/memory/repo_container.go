package memory

import portsrepo "github.com/SscSPs/fintrack_backend/internal/core/ports/repositories"

// NewRepositoryProvider returns empty in-memory repositories. snapshots is
// returned separately so callers can load data into it.
func NewRepositoryProvider() (portsrepo.RepositoryProvider, *SnapshotRepository) {
	snapshots := NewSnapshotRepository()
	return portsrepo.RepositoryProvider{
		CurrencyRepo:     NewCurrencyRepository(),
		ExchangeRateRepo: NewExchangeRateRepository(),
		SnapshotRepo:     snapshots,
		PreferenceRepo:   snapshots,
	}, snapshots
}
