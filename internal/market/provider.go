// Package market provides access to the external market-data feed that serves
// current values for (asset, metric) pairs.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cryptosden/backend/internal/model"
	"github.com/shopspring/decimal"
)

// Common provider errors.
var (
	ErrAssetNotFound = errors.New("asset not found")
	ErrUnavailable   = errors.New("market data service unavailable")
)

// SnapshotProvider supplies the current value of one metric for one asset.
// Implementations must honor context cancellation; a slow or failed lookup is
// a transient error to the caller, never fatal.
type SnapshotProvider interface {
	Value(ctx context.Context, asset string, metric model.AlertType, indicator string) (decimal.Decimal, error)
}

// HTTPProvider talks to the market-data service over HTTP.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPProvider creates a provider against the given base URL. Timeout
// bounds every lookup.
func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 4,
			},
		},
	}
}

type valueResponse struct {
	Asset  string          `json:"asset"`
	Metric string          `json:"metric"`
	Value  decimal.Decimal `json:"value"`
}

// Value fetches one fresh metric value. The technical metric requires an
// indicator name (RSI/MACD/SMA/EMA) passed as a query parameter.
func (p *HTTPProvider) Value(ctx context.Context, asset string, metric model.AlertType, indicator string) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/v1/%s/%s", p.baseURL, url.PathEscape(string(metric)), url.PathEscape(asset))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("build snapshot request: %w", err)
	}

	q := req.URL.Query()
	if indicator != "" {
		q.Set("indicator", indicator)
	}
	req.URL.RawQuery = q.Encode()

	if p.apiKey != "" {
		req.Header.Set("X-Api-Key", p.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch %s/%s: %w", metric, asset, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return decimal.Zero, fmt.Errorf("%s/%s: %w", metric, asset, ErrAssetNotFound)
	case resp.StatusCode >= 500:
		return decimal.Zero, fmt.Errorf("%s/%s: %w (status %d)", metric, asset, ErrUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return decimal.Zero, fmt.Errorf("fetch %s/%s: unexpected status %d", metric, asset, resp.StatusCode)
	}

	var body valueResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("decode snapshot for %s/%s: %w", metric, asset, err)
	}

	return body.Value, nil
}
