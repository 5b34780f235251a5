package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"sats-market/internal/bot"
	"sats-market/internal/cache"
	"sats-market/internal/config"
	"sats-market/internal/handler"
	"sats-market/internal/job"
	"sats-market/internal/provider"
	"sats-market/internal/service"
	"sats-market/pkg/tracing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
)

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	newRedisFunc   = cache.NewRedis
	initTracerFunc = tracing.InitTracer
	newResolverFunc = func(tracer trace.Tracer, store cache.Store, cfg *config.Config) *service.Resolver {
		coingecko := provider.NewCoinGeckoProvider(tracer)
		return service.NewResolver(
			tracer,
			store,
			provider.NewFinnhubProvider(cfg.FinnhubAPIKey, tracer),
			provider.NewFinnhubProvider(cfg.FinnhubAPIKey, tracer),
			provider.NewYahooProvider(tracer),
			coingecko,
			provider.NewCoinbaseProvider(tracer),
			coingecko,
			cfg.CacheTTL,
			cfg.CacheTTLLong,
		)
	}
	newSpotPollerFunc      = job.NewSpotPoller
	startPollerFunc        = func(p *job.SpotPoller, ctx context.Context) { go p.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cache backend: in-memory unless a Redis URL is configured
	var store cache.Store = cache.NewMemory()
	if cfg.RedisURL != "" {
		redisStore, err := newRedisFunc(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to Redis: %v", err)
		}
		log.Println("Connected to Redis")
		store = redisStore
	}

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Providers and resolver
	resolver := newResolverFunc(tracer, store, cfg)

	// Keep the BTC spot cache warm (stopped by ctx cancel)
	if cfg.BtcPollSecs > 0 {
		poller := newSpotPollerFunc(tracer, resolver, cfg.BtcPollSecs)
		startPollerFunc(poller, ctx)
	}

	// Telegram bot (no-op without a token)
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(resolver)

	// Routes
	h := handler.New(tracer, resolver, cfg.PopularTickers)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("sats-market"))
	r.Use(cors.Default())

	h.RegisterRoutes(r)
	registerFrontend(r, cfg.StaticDir)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

// registerFrontend serves the static frontend when dir exists. Unknown
// non-API paths fall back to index.html so client-side routing works.
func registerFrontend(r *gin.Engine, dir string) {
	if dir == "" {
		return
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		log.Printf("static dir %s not found, skipping frontend", dir)
		return
	}

	r.Static("/static", dir)
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		path := filepath.Join(dir, filepath.Clean("/"+c.Request.URL.Path))
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			c.File(path)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	})
}
