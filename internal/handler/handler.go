package handler

import (
	"context"
	"errors"
	"net/http"

	"sats-market/internal/domain"
	"sats-market/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// Version is reported by the metadata and health endpoints.
const Version = "2.0.0"

// Resolver is the slice of the price resolver the HTTP layer needs.
type Resolver interface {
	ResolveBtcSpot(ctx context.Context) (*domain.SpotPrice, error)
	ResolveQuote(ctx context.Context, ticker string) (*domain.Quote, error)
	ResolveQuotes(ctx context.Context, tickers []string) []service.QuoteResult
	ResolveEquityHistory(ctx context.Context, ticker string, days int) (domain.HistorySeries, error)
	ResolveBtcHistory(ctx context.Context, days int) (domain.PriceSeries, error)
}

type Handler struct {
	tracer   trace.Tracer
	resolver Resolver
	popular  []string
}

func New(tracer trace.Tracer, resolver Resolver, popular []string) *Handler {
	return &Handler{
		tracer:   tracer,
		resolver: resolver,
		popular:  popular,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.GET("", h.Root)
	api.GET("/btc", h.GetBtc)
	api.GET("/price/:ticker", h.GetPrice)
	api.GET("/historical/:ticker", h.GetHistorical)
	api.GET("/popular", h.GetPopular)
	api.GET("/compare", h.Compare)
	api.GET("/health", h.Health)
}

// statusFor maps a typed failure to its HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrHistoryUnavailable):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrUpstream),
		errors.Is(err, domain.ErrUnreachable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
