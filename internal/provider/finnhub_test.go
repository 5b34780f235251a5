package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"sats-market/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body interface{}) *http.Response {
	data, _ := json.Marshal(body)
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(data)),
		Header:     make(http.Header),
	}
}

func TestFinnhubFetchQuote(t *testing.T) {
	t.Parallel()

	p := NewFinnhubProvider("test-key", trace.NewNoopTracerProvider().Tracer("test"))
	p.baseURL = "http://example"
	p.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if !strings.Contains(req.URL.Path, "/quote") {
				t.Fatalf("unexpected path: %s", req.URL.Path)
			}
			if req.URL.Query().Get("symbol") != "AAPL" || req.URL.Query().Get("token") != "test-key" {
				t.Fatalf("unexpected query: %s", req.URL.RawQuery)
			}
			return jsonResponse(http.StatusOK, map[string]float64{
				"c": 190.5, "d": 1.2, "dp": 0.63, "h": 192, "l": 189, "o": 189.5, "pc": 189.3,
			}), nil
		}),
	}

	quote, err := p.FetchQuote(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Symbol != "AAPL" || quote.CurrentPrice != 190.5 || quote.PreviousClose != 189.3 {
		t.Fatalf("unexpected quote: %+v", quote)
	}
	if quote.Timestamp == 0 {
		t.Fatal("expected fetch timestamp to be set")
	}
}

func TestFinnhubFetchQuoteZeroPriceIsNotFound(t *testing.T) {
	t.Parallel()

	p := NewFinnhubProvider("test-key", trace.NewNoopTracerProvider().Tracer("test"))
	p.baseURL = "http://example"
	p.client = &http.Client{
		Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, map[string]float64{"c": 0}), nil
		}),
	}

	_, err := p.FetchQuote(context.Background(), "NOPE")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFinnhubFetchQuoteStatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, domain.ErrUnauthorized},
		{http.StatusTooManyRequests, domain.ErrRateLimited},
		{http.StatusBadGateway, domain.ErrUpstream},
	}
	for _, tt := range tests {
		p := NewFinnhubProvider("test-key", trace.NewNoopTracerProvider().Tracer("test"))
		p.baseURL = "http://example"
		p.client = &http.Client{
			Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
				return jsonResponse(tt.status, map[string]string{"error": "nope"}), nil
			}),
		}

		_, err := p.FetchQuote(context.Background(), "AAPL")
		if !errors.Is(err, tt.want) {
			t.Fatalf("status %d: expected %v, got %v", tt.status, tt.want, err)
		}
	}
}

func TestFinnhubFetchQuoteNetworkError(t *testing.T) {
	t.Parallel()

	p := NewFinnhubProvider("test-key", trace.NewNoopTracerProvider().Tracer("test"))
	p.baseURL = "http://example"
	p.client = &http.Client{
		Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		}),
	}

	_, err := p.FetchQuote(context.Background(), "AAPL")
	if !errors.Is(err, domain.ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestFinnhubFetchCandles(t *testing.T) {
	t.Parallel()

	p := NewFinnhubProvider("test-key", trace.NewNoopTracerProvider().Tracer("test"))
	p.baseURL = "http://example"
	p.historyClient = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if !strings.Contains(req.URL.Path, "/stock/candle") {
				t.Fatalf("unexpected path: %s", req.URL.Path)
			}
			if req.URL.Query().Get("resolution") != "D" {
				t.Fatalf("expected daily resolution, got %s", req.URL.Query().Get("resolution"))
			}
			return jsonResponse(http.StatusOK, map[string]interface{}{
				"s": "ok",
				"t": []int64{1000, 1086400},
				"c": []float64{100, 101},
				"h": []float64{102, 103},
				"l": []float64{99, 100},
				"o": []float64{100, 100.5},
				"v": []float64{1e6, 2e6},
			}), nil
		}),
	}

	series, err := p.FetchCandles(context.Background(), "AAPL", 0, 2_000_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(series))
	}
	if series[0].Timestamp != 1000 || series[0].Close != 100 || series[0].High != 102 || series[0].Volume != 1e6 {
		t.Fatalf("unexpected first candle: %+v", series[0])
	}
	if series[1].Close != 101 || series[1].Open != 100.5 {
		t.Fatalf("unexpected second candle: %+v", series[1])
	}
}

func TestFinnhubFetchCandlesNoData(t *testing.T) {
	t.Parallel()

	p := NewFinnhubProvider("test-key", trace.NewNoopTracerProvider().Tracer("test"))
	p.baseURL = "http://example"
	p.historyClient = &http.Client{
		Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, map[string]interface{}{"s": "no_data"}), nil
		}),
	}

	_, err := p.FetchCandles(context.Background(), "AAPL", 0, 1)
	if !errors.Is(err, domain.ErrHistoryUnavailable) {
		t.Fatalf("expected ErrHistoryUnavailable, got %v", err)
	}
}
