package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/WooHyucks/nbbang-backend/internal/core/domain"
	portssvc "github.com/WooHyucks/nbbang-backend/internal/core/ports/services"
	"github.com/WooHyucks/nbbang-backend/internal/dto"
	"github.com/WooHyucks/nbbang-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	rateService portssvc.ExchangeRateSvcFacade
}

func newExchangeRateHandler(rs portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{rateService: rs}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, rateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(rateService)

	rates := rg.Group("/exchange-rates")
	{
		rates.GET("", h.getRate)
		rates.POST("/sync", h.syncRates)
	}
}

// getRate godoc
// @Summary Get a conversion rate
// @Description Resolves "1 unit of currency = ? KRW" for a date, defaulting to today
// @Tags exchange-rates
// @Produce  json
// @Param   currency query string true "Currency code (3 letters)"
// @Param   date query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Security BearerAuth
// @Router /exchange-rates [get]
func (h *exchangeRateHandler) getRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.GetExchangeRateParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parameters: " + err.Error()})
		return
	}

	date := time.Now()
	if params.Date != "" {
		parsed, err := time.Parse(domain.DateLayout, params.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
			return
		}
		date = parsed
	}

	rate, err := h.rateService.GetRate(c.Request.Context(), params.Currency, date)
	if err != nil {
		logger.Error("Failed to resolve rate", slog.String("currency", params.Currency), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve rate"})
		return
	}

	c.JSON(http.StatusOK, dto.ExchangeRateResponse{
		Currency: params.Currency,
		Date:     domain.DateKey(date),
		Rate:     rate,
	})
}

// syncRates godoc
// @Summary Sync today's rates
// @Description Fetches today's rates from the external source and stores one snapshot per currency
// @Tags exchange-rates
// @Success 204
// @Failure 502 {object} map[string]string "Rate source unavailable"
// @Security BearerAuth
// @Router /exchange-rates/sync [post]
func (h *exchangeRateHandler) syncRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.rateService.SyncDailyRates(c.Request.Context()); err != nil {
		logger.Error("Failed to sync daily rates", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to sync rates"})
		return
	}

	c.Status(http.StatusNoContent)
}
