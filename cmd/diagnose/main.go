// Command diagnose verifies the service configuration by probing each
// upstream provider once. Exit code 1 means at least one check failed.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"sats-market/internal/config"
	"sats-market/internal/provider"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
)

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	exitFunc       = os.Exit
)

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	failed := false
	tracer := trace.NewNoopTracerProvider().Tracer("diagnose")

	fmt.Println("== Sats Market diagnostics ==")

	// 1. API key present
	if cfg.FinnhubAPIKey == "" {
		fmt.Println("FAIL  FINNHUB_API_KEY is not set (register at https://finnhub.io and put the key in .env)")
		failed = true
	} else {
		fmt.Printf("ok    FINNHUB_API_KEY configured (%s...)\n", prefix(cfg.FinnhubAPIKey, 8))
	}

	// 2. Finnhub quote endpoint
	if cfg.FinnhubAPIKey != "" {
		finnhub := provider.NewFinnhubProvider(cfg.FinnhubAPIKey, tracer)
		if quote, err := finnhub.FetchQuote(ctx, "AAPL"); err != nil {
			fmt.Printf("FAIL  finnhub quote: %v\n", err)
			failed = true
		} else {
			fmt.Printf("ok    finnhub quote: AAPL $%.2f\n", quote.CurrentPrice)
		}
	}

	// 3. CoinGecko BTC spot
	coingecko := provider.NewCoinGeckoProvider(tracer)
	if spot, err := coingecko.FetchBtcSpot(ctx); err != nil {
		fmt.Printf("FAIL  coingecko spot: %v\n", err)
		failed = true
	} else {
		fmt.Printf("ok    coingecko spot: BTC $%.0f\n", spot.PriceUSD)
	}

	// 4. Coinbase fallback
	coinbase := provider.NewCoinbaseProvider(tracer)
	if spot, err := coinbase.FetchBtcSpot(ctx); err != nil {
		fmt.Printf("FAIL  coinbase spot: %v\n", err)
		failed = true
	} else {
		fmt.Printf("ok    coinbase spot: BTC $%.0f\n", spot.PriceUSD)
	}

	fmt.Printf("popular tickers: %v\n", cfg.PopularTickers)

	if failed {
		log.Println("diagnostics failed")
		exitFunc(1)
	}
	fmt.Println("all checks passed")
}

func prefix(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
