// Package rateprovider contains the RateProvider adapters.
package rateprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/core/ports"
	"github.com/shopspring/decimal"
)

// Error categories returned by the HTTP provider. The converter treats them alike.
var (
	ErrNetwork     = errors.New("rate provider network failure")
	ErrAuth        = errors.New("rate provider rejected credentials or quota")
	ErrUnknownPair = errors.New("rate provider does not know the pair")
	ErrBadResponse = errors.New("rate provider returned an unreadable response")
)

// DefaultTimeout bounds a single provider request.
const DefaultTimeout = 5 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 16

// HTTPConfig configures an exchangerate-api compatible provider.
type HTTPConfig struct {
	// BaseURL is the API root, e.g. "https://v6.exchangerate-api.com/v6".
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
}

// HTTPProvider fetches pair rates with GET {BaseURL}/{APIKey}/pair/{FROM}/{TO}.
// It makes a single request per call, never retries, and never logs the key.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// pairResponse is the subset of the pair endpoint payload that is read.
type pairResponse struct {
	Result         string          `json:"result"`
	ErrorType      string          `json:"error-type"`
	BaseCode       string          `json:"base_code"`
	TargetCode     string          `json:"target_code"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
}

// NewHTTPProvider validates cfg and builds the provider.
func NewHTTPProvider(cfg HTTPConfig) (*HTTPProvider, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("rate provider base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("rate provider API key is required")
	}
	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPProvider{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  client,
	}, nil
}

var _ ports.RateProvider = (*HTTPProvider)(nil)

func (p *HTTPProvider) Name() string {
	return "exchangerate_api"
}

func (p *HTTPProvider) FetchPairRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/%s/pair/%s/%s", p.baseURL, url.PathEscape(p.apiKey), url.PathEscape(from), url.PathEscape(to))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		// The URL carries the key, so only the cause category is reported.
		return decimal.Zero, fmt.Errorf("%w: request for %s/%s failed: %v", ErrNetwork, from, to, unwrapURLError(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	var payload pairResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		if resp.StatusCode != http.StatusOK {
			return decimal.Zero, statusError(resp.StatusCode, from, to)
		}
		return decimal.Zero, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	if resp.StatusCode != http.StatusOK || payload.Result != "success" {
		return decimal.Zero, classify(resp.StatusCode, payload.ErrorType, from, to)
	}
	if !payload.ConversionRate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: non-positive rate %s for %s/%s", ErrBadResponse, payload.ConversionRate, from, to)
	}
	return payload.ConversionRate, nil
}

func classify(status int, errorType, from, to string) error {
	switch errorType {
	case "unsupported-code", "malformed-request":
		return fmt.Errorf("%w: %s/%s (%s)", ErrUnknownPair, from, to, errorType)
	case "invalid-key", "inactive-account", "quota-reached":
		return fmt.Errorf("%w: %s", ErrAuth, errorType)
	}
	return statusError(status, from, to)
}

func statusError(status int, from, to string) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrAuth, status)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s/%s", ErrUnknownPair, from, to)
	default:
		return fmt.Errorf("%w: status %d for %s/%s", ErrBadResponse, status, from, to)
	}
}

func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
