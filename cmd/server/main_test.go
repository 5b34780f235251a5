package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"sats-market/internal/bot"
	"sats-market/internal/cache"
	"sats-market/internal/config"
	"sats-market/internal/job"
	"sats-market/internal/service"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps()
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
}

func TestRegisterFrontendMissingDir(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// A nonexistent directory must not register any static routes.
	registerFrontend(r, "/definitely/not/a/real/dir")
	if len(r.Routes()) != 0 {
		t.Fatalf("expected no routes, got %d", len(r.Routes()))
	}
}

func stubServerDeps() func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origNewRedis := newRedisFunc
	origInitTracer := initTracerFunc
	origNewResolver := newResolverFunc
	origNewPoller := newSpotPollerFunc
	origStartPoller := startPollerFunc
	origStartTelegram := startTelegramBotFunc
	origNewRouter := newRouterFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{RedisURL: "", BtcPollSecs: 1, CacheTTL: time.Minute, CacheTTLLong: 5 * time.Minute}
	}
	newRedisFunc = func(context.Context, string) (*cache.Redis, error) { return nil, nil }
	initTracerFunc = func(ctx context.Context) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	newResolverFunc = func(tracer trace.Tracer, store cache.Store, cfg *config.Config) *service.Resolver {
		return service.NewResolver(tracer, store, nil, nil, nil, nil, nil, nil, cfg.CacheTTL, cfg.CacheTTLLong)
	}
	newSpotPollerFunc = job.NewSpotPoller
	startPollerFunc = func(*job.SpotPoller, context.Context) {}
	startTelegramBotFunc = func(bot.PriceReader) {}
	newRouterFunc = func(...gin.OptionFunc) *gin.Engine { return gin.New() }
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}
	startHTTPServerFunc = func(*http.Server) error { return http.ErrServerClosed }
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		newRedisFunc = origNewRedis
		initTracerFunc = origInitTracer
		newResolverFunc = origNewResolver
		newSpotPollerFunc = origNewPoller
		startPollerFunc = origStartPoller
		startTelegramBotFunc = origStartTelegram
		newRouterFunc = origNewRouter
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
	}
}
