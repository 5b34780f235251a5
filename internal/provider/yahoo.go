package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sats-market/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// yahooUserAgent is a browser-like User-Agent; Yahoo rejects default Go
// clients with a 403.
const yahooUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// YahooProvider is the fallback source for equity daily history, used when
// Finnhub has no candle data for a ticker.
type YahooProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
}

func NewYahooProvider(tracer trace.Tracer) *YahooProvider {
	return &YahooProvider{
		client:  &http.Client{Timeout: historyTimeout * time.Second},
		baseURL: yahooBaseURL,
		tracer:  tracer,
	}
}

// FetchDailyHistory fetches daily bars for [from, to] from the Yahoo chart
// API. Points with a null close are dropped; a missing high/low/open falls
// back to that point's close and a missing volume to zero.
func (p *YahooProvider) FetchDailyHistory(ctx context.Context, symbol string, from, to int64) (domain.HistorySeries, error) {
	_, span := p.tracer.Start(ctx, "yahoo.fetch-daily-history")
	defer span.End()

	symbol = strings.ToUpper(symbol)
	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		p.baseURL, url.PathEscape(symbol), from, to)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", yahooUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, failNetwork("yahoo chart "+symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, failStatus("yahoo chart "+symbol, resp.StatusCode)
	}

	var raw struct {
		Chart struct {
			Result []struct {
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Quote []struct {
						Close  []*float64 `json:"close"`
						High   []*float64 `json:"high"`
						Low    []*float64 `json:"low"`
						Open   []*float64 `json:"open"`
						Volume []*float64 `json:"volume"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
			Error *struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		} `json:"chart"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: decode: %w", symbol, domain.ErrUpstream)
	}
	if raw.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart %s: %s: %w", symbol, raw.Chart.Error.Description, domain.ErrUpstream)
	}
	if len(raw.Chart.Result) == 0 || len(raw.Chart.Result[0].Timestamp) == 0 ||
		len(raw.Chart.Result[0].Indicators.Quote) == 0 || len(raw.Chart.Result[0].Indicators.Quote[0].Close) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: no data: %w", symbol, domain.ErrHistoryUnavailable)
	}

	result := raw.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	series := make(domain.HistorySeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue // holidays and half-days show up as null bars
		}
		close := *quote.Close[i]
		series = append(series, domain.Candle{
			Timestamp: ts,
			Close:     close,
			High:      deref(quote.High, i, close),
			Low:       deref(quote.Low, i, close),
			Open:      deref(quote.Open, i, close),
			Volume:    deref(quote.Volume, i, 0),
		})
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: only null bars: %w", symbol, domain.ErrHistoryUnavailable)
	}
	return series, nil
}

// deref reads vals[i], substituting fallback for out-of-range or null slots.
func deref(vals []*float64, i int, fallback float64) float64 {
	if i < len(vals) && vals[i] != nil {
		return *vals[i]
	}
	return fallback
}
