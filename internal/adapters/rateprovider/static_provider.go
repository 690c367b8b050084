package rateprovider

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/SscSPs/fintrack_backend/internal/core/ports"
	"github.com/shopspring/decimal"
)

// StaticProvider serves rates from a fixed table keyed "FROM/TO". It is used
// offline and in tests. Missing pairs fail with ErrUnknownPair.
type StaticProvider struct {
	mu    sync.RWMutex
	rates map[string]decimal.Decimal
}

// NewStaticProvider builds a provider from "FROM/TO" -> rate strings.
func NewStaticProvider(rates map[string]string) (*StaticProvider, error) {
	p := &StaticProvider{rates: make(map[string]decimal.Decimal, len(rates))}
	for pair, raw := range rates {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid static rate for %s: %w", pair, err)
		}
		from, to, ok := strings.Cut(strings.ToUpper(pair), "/")
		if !ok {
			return nil, fmt.Errorf("invalid static rate pair %q", pair)
		}
		p.Set(from, to, rate)
	}
	return p, nil
}

var _ ports.RateProvider = (*StaticProvider)(nil)

// Set adds or replaces a rate.
func (p *StaticProvider) Set(from, to string, rate decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rates[from+"/"+to] = rate
}

func (p *StaticProvider) Name() string {
	return "static"
}

func (p *StaticProvider) FetchPairRate(_ context.Context, from, to string) (decimal.Decimal, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	rate, ok := p.rates[from+"/"+to]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s/%s", ErrUnknownPair, from, to)
	}
	return rate, nil
}
