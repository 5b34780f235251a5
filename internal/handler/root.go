package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Root godoc
// @Summary      Service metadata
// @Description  Returns the API name, version and endpoint map
// @Tags         meta
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api [get]
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Sats Market API",
		"version": Version,
		"endpoints": gin.H{
			"btc":        "/api/btc",
			"price":      "/api/price/{ticker}",
			"historical": "/api/historical/{ticker}",
			"popular":    "/api/popular",
			"compare":    "/api/compare?tickers=AAPL,TSLA",
		},
	})
}

// Health godoc
// @Summary      Health check
// @Description  Returns the health status of the service
// @Tags         meta
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"version":   Version,
		"timestamp": time.Now().Unix(),
	})
}
