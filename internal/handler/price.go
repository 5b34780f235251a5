package handler

import (
	"net/http"
	"strings"

	"sats-market/internal/convert"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetBtc godoc
// @Summary      Current BTC price
// @Description  Returns the current BTC/USD price from the spot providers
// @Tags         prices
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Router       /api/btc [get]
func (h *Handler) GetBtc(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-btc")
	defer span.End()

	spot, err := h.resolver.ResolveBtcSpot(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"btc_price_usd": spot.PriceUSD,
		"timestamp":     spot.Timestamp,
	})
}

// GetPrice godoc
// @Summary      Equity price in USD, BTC and sats
// @Description  Returns the live quote for a ticker converted at the current BTC rate
// @Tags         prices
// @Produce      json
// @Param        ticker  path  string  true  "Equity ticker (e.g., AAPL)"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/price/{ticker} [get]
func (h *Handler) GetPrice(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-price")
	defer span.End()

	ticker := strings.ToUpper(c.Param("ticker"))
	span.SetAttributes(attribute.String("ticker", ticker))

	quote, err := h.resolver.ResolveQuote(ctx, ticker)
	if err != nil {
		abortWithError(c, err)
		return
	}

	spot, err := h.resolver.ResolveBtcSpot(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}

	sats := convert.ToSats(quote.CurrentPrice, spot.PriceUSD)

	c.JSON(http.StatusOK, gin.H{
		"symbol":         quote.Symbol,
		"price_usd":      convert.RoundUSD(quote.CurrentPrice),
		"price_btc":      convert.RoundBTC(quote.CurrentPrice / spot.PriceUSD),
		"price_sats":     sats,
		"change":         convert.RoundUSD(quote.Change),
		"change_percent": convert.RoundUSD(quote.ChangePercent),
		"high":           convert.RoundUSD(quote.High),
		"low":            convert.RoundUSD(quote.Low),
		"btc_rate":       convert.RoundUSD(spot.PriceUSD),
		"timestamp":      quote.Timestamp,
		"formatted_sats": convert.FormatSats(sats),
	})
}
