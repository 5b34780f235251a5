package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"sats-market/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoProvider fetches the BTC spot price and BTC price history from
// the CoinGecko free API.
type CoinGeckoProvider struct {
	client        *http.Client
	historyClient *http.Client
	baseURL       string
	tracer        trace.Tracer
	limiter       *RateLimiter
}

// NewCoinGeckoProvider creates a provider with built-in rate limiting.
// The free tier allows roughly 8 requests per minute.
func NewCoinGeckoProvider(tracer trace.Tracer) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		client:        &http.Client{Timeout: lookupTimeout * time.Second},
		historyClient: &http.Client{Timeout: historyTimeout * time.Second},
		baseURL:       coingeckoBaseURL,
		tracer:        tracer,
		limiter:       NewRateLimiter(8, 7500*time.Millisecond),
	}
}

// FetchBtcSpot returns the current BTC/USD price.
func (p *CoinGeckoProvider) FetchBtcSpot(ctx context.Context) (*domain.SpotPrice, error) {
	_, span := p.tracer.Start(ctx, "coingecko.fetch-btc-spot")
	defer span.End()

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("coingecko spot: rate limit wait: %w", err)
	}

	u := p.baseURL + "/simple/price?ids=bitcoin&vs_currencies=usd"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, failNetwork("coingecko spot", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, failStatus("coingecko spot", resp.StatusCode)
	}

	// Response shape: {"bitcoin": {"usd": 97000}}
	var raw map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("coingecko spot: decode: %w", domain.ErrUpstream)
	}
	price, ok := raw["bitcoin"]["usd"]
	if !ok || price == 0 {
		return nil, fmt.Errorf("coingecko spot: no bitcoin price in payload: %w", domain.ErrUpstream)
	}

	return &domain.SpotPrice{PriceUSD: price, Timestamp: time.Now().Unix()}, nil
}

// FetchBtcHistory returns daily BTC/USD prices for the last `days` days.
// CoinGecko answers with [timestamp_ms, price] pairs; timestamps come back
// converted to seconds.
func (p *CoinGeckoProvider) FetchBtcHistory(ctx context.Context, days int) (domain.PriceSeries, error) {
	_, span := p.tracer.Start(ctx, "coingecko.fetch-btc-history")
	defer span.End()

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("coingecko history: rate limit wait: %w", err)
	}

	u := fmt.Sprintf("%s/coins/bitcoin/market_chart?vs_currency=usd&days=%d", p.baseURL, days)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.historyClient.Do(req)
	if err != nil {
		return nil, failNetwork("coingecko history", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, failStatus("coingecko history", resp.StatusCode)
	}

	var raw struct {
		Prices [][]float64 `json:"prices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("coingecko history: decode: %w", domain.ErrUpstream)
	}
	if len(raw.Prices) == 0 {
		return nil, fmt.Errorf("coingecko history: empty series: %w", domain.ErrHistoryUnavailable)
	}

	series := make(domain.PriceSeries, 0, len(raw.Prices))
	for _, pt := range raw.Prices {
		if len(pt) < 2 {
			continue
		}
		series = append(series, domain.PricePoint{
			Timestamp: int64(pt[0]) / 1000,
			Price:     pt[1],
		})
	}
	return series, nil
}
