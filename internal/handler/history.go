package handler

import (
	"net/http"
	"strconv"
	"strings"

	"sats-market/internal/convert"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultHistoryDays = 30
	maxHistoryDays     = 365
)

// GetHistorical godoc
// @Summary      Historical equity prices in sats
// @Description  Returns the daily equity close series converted to BTC/sats at each day's BTC rate
// @Tags         prices
// @Produce      json
// @Param        ticker  path   string  true   "Equity ticker (e.g., AAPL)"
// @Param        days    query  int     false  "Day range (default 30, max 365)"  default(30)
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /api/historical/{ticker} [get]
func (h *Handler) GetHistorical(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-historical")
	defer span.End()

	ticker := strings.ToUpper(c.Param("ticker"))
	span.SetAttributes(attribute.String("ticker", ticker))

	days := defaultHistoryDays
	if d := c.Query("days"); d != "" {
		if n, err := strconv.Atoi(d); err == nil && n > 0 && n <= maxHistoryDays {
			days = n
		}
	}

	equity, _ := h.resolver.ResolveEquityHistory(ctx, ticker, days)
	btc, _ := h.resolver.ResolveBtcHistory(ctx, days)

	points, err := convert.Align(equity, btc)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol": ticker,
		"days":   days,
		"data":   points,
	})
}
