// Package service holds the price resolver: the fetch/fallback/cache
// orchestration between the HTTP layer and the provider clients.
package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"sats-market/internal/cache"
	"sats-market/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// maxConcurrentLookups bounds the per-ticker fan-out in aggregate lookups so
// a popular/compare request cannot burn through the Finnhub rate limit.
const maxConcurrentLookups = 4

type QuoteFetcher interface {
	FetchQuote(ctx context.Context, symbol string) (*domain.Quote, error)
}

type CandleFetcher interface {
	FetchCandles(ctx context.Context, symbol string, from, to int64) (domain.HistorySeries, error)
}

type HistoryFallback interface {
	FetchDailyHistory(ctx context.Context, symbol string, from, to int64) (domain.HistorySeries, error)
}

type SpotFetcher interface {
	FetchBtcSpot(ctx context.Context) (*domain.SpotPrice, error)
}

type BtcHistoryFetcher interface {
	FetchBtcHistory(ctx context.Context, days int) (domain.PriceSeries, error)
}

// Resolver orchestrates provider calls with ordered fallback and puts the
// TTL cache in front of every outbound request.
type Resolver struct {
	tracer          trace.Tracer
	store           cache.Store
	quotes          QuoteFetcher
	candles         CandleFetcher
	historyFallback HistoryFallback
	spotPrimary     SpotFetcher
	spotFallback    SpotFetcher
	btcHistory      BtcHistoryFetcher
	shortTTL        time.Duration
	longTTL         time.Duration
}

func NewResolver(
	tracer trace.Tracer,
	store cache.Store,
	quotes QuoteFetcher,
	candles CandleFetcher,
	historyFallback HistoryFallback,
	spotPrimary SpotFetcher,
	spotFallback SpotFetcher,
	btcHistory BtcHistoryFetcher,
	shortTTL, longTTL time.Duration,
) *Resolver {
	return &Resolver{
		tracer:          tracer,
		store:           store,
		quotes:          quotes,
		candles:         candles,
		historyFallback: historyFallback,
		spotPrimary:     spotPrimary,
		spotFallback:    spotFallback,
		btcHistory:      btcHistory,
		shortTTL:        shortTTL,
		longTTL:         longTTL,
	}
}

// ResolveBtcSpot returns the current BTC/USD price, trying CoinGecko first
// and the Coinbase exchange second. Both failing maps to ErrUnavailable.
func (r *Resolver) ResolveBtcSpot(ctx context.Context) (*domain.SpotPrice, error) {
	ctx, span := r.tracer.Start(ctx, "resolver.btc-spot")
	defer span.End()

	return cache.GetOrCompute(ctx, r.store, "btc_price", r.shortTTL, func(ctx context.Context) (*domain.SpotPrice, error) {
		spot, err := r.spotPrimary.FetchBtcSpot(ctx)
		if err == nil {
			return spot, nil
		}
		log.Printf("primary spot provider failed, trying fallback: %v", err)

		spot, fallbackErr := r.spotFallback.FetchBtcSpot(ctx)
		if fallbackErr != nil {
			log.Printf("fallback spot provider failed: %v", fallbackErr)
			return nil, fmt.Errorf("btc spot: %w", domain.ErrUnavailable)
		}
		return spot, nil
	})
}

// ResolveQuote returns the live quote for a ticker. There is no fallback
// provider for live quotes; failures propagate typed.
func (r *Resolver) ResolveQuote(ctx context.Context, ticker string) (*domain.Quote, error) {
	ctx, span := r.tracer.Start(ctx, "resolver.quote")
	defer span.End()

	ticker = strings.ToUpper(ticker)
	key := "stock_quote_" + ticker

	return cache.GetOrCompute(ctx, r.store, key, r.shortTTL, func(ctx context.Context) (*domain.Quote, error) {
		return r.quotes.FetchQuote(ctx, ticker)
	})
}

// ResolveEquityHistory returns daily candles for the last `days` days,
// trying Finnhub first and the Yahoo chart API second. When both fail the
// result is an empty series rather than an error; callers already treat an
// empty series as not-found, and a transient upstream outage should not be
// cached.
func (r *Resolver) ResolveEquityHistory(ctx context.Context, ticker string, days int) (domain.HistorySeries, error) {
	ctx, span := r.tracer.Start(ctx, "resolver.equity-history")
	defer span.End()

	ticker = strings.ToUpper(ticker)
	key := fmt.Sprintf("stock_history_%s_%d", ticker, days)

	series, err := cache.GetOrCompute(ctx, r.store, key, r.longTTL, func(ctx context.Context) (domain.HistorySeries, error) {
		to := time.Now().Unix()
		from := to - int64(days)*86400

		series, err := r.candles.FetchCandles(ctx, ticker, from, to)
		if err == nil {
			return series, nil
		}
		log.Printf("finnhub history failed for %s, trying yahoo: %v", ticker, err)

		series, fallbackErr := r.historyFallback.FetchDailyHistory(ctx, ticker, from, to)
		if fallbackErr != nil {
			log.Printf("yahoo history failed for %s: %v", ticker, fallbackErr)
			return nil, fmt.Errorf("equity history for %s: %w", ticker, domain.ErrHistoryUnavailable)
		}
		return series, nil
	})
	if err != nil {
		return domain.HistorySeries{}, nil
	}
	return series, nil
}

// ResolveBtcHistory returns the daily BTC/USD series for the last `days`
// days, or an empty series when the provider fails.
func (r *Resolver) ResolveBtcHistory(ctx context.Context, days int) (domain.PriceSeries, error) {
	ctx, span := r.tracer.Start(ctx, "resolver.btc-history")
	defer span.End()

	key := fmt.Sprintf("btc_history_%d", days)

	series, err := cache.GetOrCompute(ctx, r.store, key, r.longTTL, func(ctx context.Context) (domain.PriceSeries, error) {
		return r.btcHistory.FetchBtcHistory(ctx, days)
	})
	if err != nil {
		log.Printf("btc history failed for %d days: %v", days, err)
		return domain.PriceSeries{}, nil
	}
	return series, nil
}

// QuoteResult is one outcome of an aggregate quote lookup.
type QuoteResult struct {
	Ticker string
	Quote  *domain.Quote
	Err    error
}

// ResolveQuotes looks up several tickers concurrently, at most
// maxConcurrentLookups in flight. One ticker failing never aborts the
// others; results come back in input order with per-ticker errors inline.
func (r *Resolver) ResolveQuotes(ctx context.Context, tickers []string) []QuoteResult {
	ctx, span := r.tracer.Start(ctx, "resolver.quotes")
	defer span.End()

	results := make([]QuoteResult, len(tickers))
	sem := make(chan struct{}, maxConcurrentLookups)
	var wg sync.WaitGroup

	for i, ticker := range tickers {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			quote, err := r.ResolveQuote(ctx, ticker)
			results[i] = QuoteResult{Ticker: strings.ToUpper(ticker), Quote: quote, Err: err}
		}(i, ticker)
	}

	wg.Wait()
	return results
}
