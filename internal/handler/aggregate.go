package handler

import (
	"fmt"
	"net/http"
	"strings"

	"sats-market/internal/convert"
	"sats-market/internal/domain"

	"github.com/gin-gonic/gin"
)

// maxCompareTickers caps how many tickers one compare request may query.
const maxCompareTickers = 4

// GetPopular godoc
// @Summary      Prices for the configured popular tickers
// @Description  Returns USD/sats prices for the popular ticker set; failing tickers are omitted
// @Tags         prices
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Router       /api/popular [get]
func (h *Handler) GetPopular(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-popular")
	defer span.End()

	spot, err := h.resolver.ResolveBtcSpot(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}

	results := h.resolver.ResolveQuotes(ctx, h.popular)

	popular := make([]gin.H, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			continue // a failing ticker is simply left out
		}
		popular = append(popular, gin.H{
			"symbol":         res.Ticker,
			"price_usd":      convert.RoundUSD(res.Quote.CurrentPrice),
			"price_sats":     convert.ToSats(res.Quote.CurrentPrice, spot.PriceUSD),
			"change_percent": convert.RoundUSD(res.Quote.ChangePercent),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"popular":   popular,
		"btc_price": spot.PriceUSD,
	})
}

// Compare godoc
// @Summary      Compare several tickers
// @Description  Returns USD/BTC/sats prices for up to 4 comma-separated tickers; per-ticker failures are reported inline
// @Tags         prices
// @Produce      json
// @Param        tickers  query  string  true  "Comma-separated tickers (e.g., AAPL,TSLA)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/compare [get]
func (h *Handler) Compare(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.compare")
	defer span.End()

	tickers := splitTickers(c.Query("tickers"))
	if len(tickers) == 0 {
		abortWithError(c, fmt.Errorf("provide at least one ticker: %w", domain.ErrBadRequest))
		return
	}
	if len(tickers) > maxCompareTickers {
		tickers = tickers[:maxCompareTickers]
	}

	spot, err := h.resolver.ResolveBtcSpot(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}

	results := h.resolver.ResolveQuotes(ctx, tickers)

	comparison := make([]gin.H, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			comparison = append(comparison, gin.H{
				"symbol": res.Ticker,
				"error":  res.Err.Error(),
			})
			continue
		}
		comparison = append(comparison, gin.H{
			"symbol":         res.Ticker,
			"price_usd":      convert.RoundUSD(res.Quote.CurrentPrice),
			"price_btc":      convert.RoundBTC(res.Quote.CurrentPrice / spot.PriceUSD),
			"price_sats":     convert.ToSats(res.Quote.CurrentPrice, spot.PriceUSD),
			"change_percent": convert.RoundUSD(res.Quote.ChangePercent),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"comparison": comparison,
		"btc_rate":   spot.PriceUSD,
	})
}

func splitTickers(raw string) []string {
	parts := strings.Split(raw, ",")
	tickers := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.ToUpper(strings.TrimSpace(p)); t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}
