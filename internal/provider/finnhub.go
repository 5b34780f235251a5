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

const finnhubBaseURL = "https://finnhub.io/api/v1"

// FinnhubProvider fetches live quotes and daily candles from Finnhub.
type FinnhubProvider struct {
	client        *http.Client // quote lookups
	historyClient *http.Client // candle range queries
	baseURL       string
	apiKey        string
	tracer        trace.Tracer
}

func NewFinnhubProvider(apiKey string, tracer trace.Tracer) *FinnhubProvider {
	return &FinnhubProvider{
		client:        &http.Client{Timeout: lookupTimeout * time.Second},
		historyClient: &http.Client{Timeout: historyTimeout * time.Second},
		baseURL:       finnhubBaseURL,
		apiKey:        apiKey,
		tracer:        tracer,
	}
}

// FetchQuote fetches the live quote for an equity symbol. A 200 response
// with a zero or missing current price means Finnhub does not know the
// ticker and is reported as ErrNotFound.
func (p *FinnhubProvider) FetchQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	_, span := p.tracer.Start(ctx, "finnhub.fetch-quote")
	defer span.End()

	symbol = strings.ToUpper(symbol)
	u := fmt.Sprintf("%s/quote?symbol=%s&token=%s", p.baseURL, url.QueryEscape(symbol), url.QueryEscape(p.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, failNetwork("finnhub quote "+symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, failStatus("finnhub quote "+symbol, resp.StatusCode)
	}

	// c: current, d: change, dp: percent change, h/l/o: day range, pc: previous close
	var raw struct {
		C  float64 `json:"c"`
		D  float64 `json:"d"`
		Dp float64 `json:"dp"`
		H  float64 `json:"h"`
		L  float64 `json:"l"`
		O  float64 `json:"o"`
		Pc float64 `json:"pc"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("finnhub quote %s: decode: %w", symbol, domain.ErrUpstream)
	}
	if raw.C == 0 {
		return nil, fmt.Errorf("finnhub quote %s: %w", symbol, domain.ErrNotFound)
	}

	return &domain.Quote{
		Symbol:        symbol,
		CurrentPrice:  raw.C,
		Change:        raw.D,
		ChangePercent: raw.Dp,
		High:          raw.H,
		Low:           raw.L,
		Open:          raw.O,
		PreviousClose: raw.Pc,
		Timestamp:     time.Now().Unix(),
	}, nil
}

// FetchCandles fetches daily candles for [from, to]. Finnhub answers with
// parallel arrays which are zipped into a HistorySeries; a status other than
// "ok" or an empty close array is reported as ErrHistoryUnavailable.
func (p *FinnhubProvider) FetchCandles(ctx context.Context, symbol string, from, to int64) (domain.HistorySeries, error) {
	_, span := p.tracer.Start(ctx, "finnhub.fetch-candles")
	defer span.End()

	symbol = strings.ToUpper(symbol)
	u := fmt.Sprintf("%s/stock/candle?symbol=%s&resolution=D&from=%d&to=%d&token=%s",
		p.baseURL, url.QueryEscape(symbol), from, to, url.QueryEscape(p.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.historyClient.Do(req)
	if err != nil {
		return nil, failNetwork("finnhub candles "+symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, failStatus("finnhub candles "+symbol, resp.StatusCode)
	}

	var raw struct {
		S string    `json:"s"`
		T []int64   `json:"t"`
		C []float64 `json:"c"`
		H []float64 `json:"h"`
		L []float64 `json:"l"`
		O []float64 `json:"o"`
		V []float64 `json:"v"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("finnhub candles %s: decode: %w", symbol, domain.ErrUpstream)
	}
	if raw.S != "ok" || len(raw.C) == 0 {
		return nil, fmt.Errorf("finnhub candles %s: no data (status %q): %w", symbol, raw.S, domain.ErrHistoryUnavailable)
	}

	series := make(domain.HistorySeries, 0, len(raw.C))
	for i := range raw.C {
		if i >= len(raw.T) {
			break
		}
		series = append(series, domain.Candle{
			Timestamp: raw.T[i],
			Close:     raw.C[i],
			High:      at(raw.H, i),
			Low:       at(raw.L, i),
			Open:      at(raw.O, i),
			Volume:    at(raw.V, i),
		})
	}
	return series, nil
}

// at indexes a parallel array that may be shorter than the close array.
func at(vals []float64, i int) float64 {
	if i < len(vals) {
		return vals[i]
	}
	return 0
}
