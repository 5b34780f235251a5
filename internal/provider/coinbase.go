package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"sats-market/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const coinbaseBaseURL = "https://api.coinbase.com"

// CoinbaseProvider is the fallback BTC spot-price source, hit when
// CoinGecko is down or throttling.
type CoinbaseProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
}

func NewCoinbaseProvider(tracer trace.Tracer) *CoinbaseProvider {
	return &CoinbaseProvider{
		client:  &http.Client{Timeout: lookupTimeout * time.Second},
		baseURL: coinbaseBaseURL,
		tracer:  tracer,
	}
}

// FetchBtcSpot returns the current BTC/USD exchange spot price.
func (p *CoinbaseProvider) FetchBtcSpot(ctx context.Context) (*domain.SpotPrice, error) {
	_, span := p.tracer.Start(ctx, "coinbase.fetch-btc-spot")
	defer span.End()

	u := p.baseURL + "/v2/prices/BTC-USD/spot"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, failNetwork("coinbase spot", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, failStatus("coinbase spot", resp.StatusCode)
	}

	// Response shape: {"data": {"amount": "97000.00", "currency": "USD"}}
	var raw struct {
		Data struct {
			Amount string `json:"amount"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("coinbase spot: decode: %w", domain.ErrUpstream)
	}

	price, err := strconv.ParseFloat(raw.Data.Amount, 64)
	if err != nil || price == 0 {
		return nil, fmt.Errorf("coinbase spot: bad amount %q: %w", raw.Data.Amount, domain.ErrUpstream)
	}

	return &domain.SpotPrice{PriceUSD: price, Timestamp: time.Now().Unix()}, nil
}
