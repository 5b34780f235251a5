package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// defaultPopularTickers is the ticker set served by /api/popular unless
// POPULAR_TICKERS overrides it.
var defaultPopularTickers = []string{"AAPL", "TSLA", "MSFT", "GOOGL", "AMZN", "NVDA", "META"}

type Config struct {
	FinnhubAPIKey    string
	Port             int
	RedisURL         string
	CacheTTL         time.Duration
	CacheTTLLong     time.Duration
	PopularTickers   []string
	BtcPollSecs      int
	TelegramBotToken string
	StaticDir        string
}

func Load() *Config {
	cfg := &Config{
		FinnhubAPIKey:    os.Getenv("FINNHUB_API_KEY"),
		RedisURL:         os.Getenv("REDIS_URL"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		StaticDir:        os.Getenv("STATIC_DIR"),
	}

	if cfg.FinnhubAPIKey == "" {
		log.Println("Warning: FINNHUB_API_KEY not set, equity endpoints will be degraded")
	}
	if cfg.RedisURL == "" {
		log.Println("REDIS_URL not set, using in-memory cache")
	}

	cfg.Port = 8080
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Port = n
		}
	}

	cfg.CacheTTL = 60 * time.Second
	if v := os.Getenv("CACHE_TTL_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheTTL = time.Duration(n) * time.Second
		}
	}

	cfg.CacheTTLLong = 300 * time.Second
	if v := os.Getenv("CACHE_TTL_LONG_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheTTLLong = time.Duration(n) * time.Second
		}
	}

	cfg.PopularTickers = defaultPopularTickers
	if v := strings.TrimSpace(os.Getenv("POPULAR_TICKERS")); v != "" {
		var tickers []string
		for _, t := range strings.Split(v, ",") {
			if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
				tickers = append(tickers, t)
			}
		}
		if len(tickers) > 0 {
			cfg.PopularTickers = tickers
		}
	}

	cfg.BtcPollSecs = 60
	if v := os.Getenv("BTC_POLL_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.BtcPollSecs = n
		}
	}

	return cfg
}
