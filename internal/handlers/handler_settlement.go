package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/WooHyucks/nbbang-backend/internal/apperrors"
	portssvc "github.com/WooHyucks/nbbang-backend/internal/core/ports/services"
	"github.com/WooHyucks/nbbang-backend/internal/core/services"
	"github.com/WooHyucks/nbbang-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// settlementHandler handles HTTP requests for settlement reports.
type settlementHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

func newSettlementHandler(ss portssvc.SettlementSvcFacade) *settlementHandler {
	return &settlementHandler{settlementService: ss}
}

// registerSettlementRoutes registers the authenticated settlement routes.
func registerSettlementRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade) {
	h := newSettlementHandler(settlementService)

	meetings := rg.Group("/meetings/:meetingID")
	{
		meetings.GET("/settlement", h.getSplitResult)
		meetings.GET("/trip/dashboard", h.getTripDashboard)
		meetings.GET("/trip/result", h.getTripResult)
	}
}

// registerShareRoutes registers the public settlement pages looked up
// by share UUID. They carry no authentication and sit behind the rate
// limiter instead.
func registerShareRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade) {
	h := newSettlementHandler(settlementService)

	rg.GET("/:shareUUID", h.getSharePage)
	rg.GET("/:shareUUID/trip", h.getTripDashboardByShareUUID)
}

// getSplitResult godoc
// @Summary Get the N-way settlement of a meeting
// @Description Folds the meeting's payments into per-member balances; positive balances owe money
// @Tags settlement
// @Produce  json
// @Param   meetingID path int true "Meeting ID"
// @Success 200 {object} dto.SplitResultResponse
// @Failure 404 {object} map[string]string "Meeting not found"
// @Security BearerAuth
// @Router /meetings/{meetingID}/settlement [get]
func (h *settlementHandler) getSplitResult(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	meetingID, ok := parseIDParam(c, "meetingID")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, err := h.settlementService.GetSplitResult(c.Request.Context(), meetingID, userID)
	if err != nil {
		respondSettlementError(c, logger, err, "Failed to compute settlement")
		return
	}

	c.JSON(http.StatusOK, result)
}

// getTripDashboard godoc
// @Summary Get the live fund dashboard of a trip
// @Description Reports the fund's burn rate and each member's remaining share, valued at the trip's frozen base rate
// @Tags settlement
// @Produce  json
// @Param   meetingID path int true "Meeting ID"
// @Success 200 {object} dto.TripDashboardResponse
// @Failure 400 {object} map[string]string "Not a trip meeting"
// @Security BearerAuth
// @Router /meetings/{meetingID}/trip/dashboard [get]
func (h *settlementHandler) getTripDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	meetingID, ok := parseIDParam(c, "meetingID")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.settlementService.GetTripDashboard(c.Request.Context(), meetingID, userID)
	if err != nil {
		respondSettlementError(c, logger, err, "Failed to build dashboard")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// getTripResult godoc
// @Summary Get the final settlement of a trip
// @Description Nets each member's payments against their owed shares and revalues the remaining fund at today's rate
// @Tags settlement
// @Produce  json
// @Param   meetingID path int true "Meeting ID"
// @Success 200 {object} dto.TripResultResponse
// @Failure 400 {object} map[string]string "Not a trip meeting or no leader"
// @Security BearerAuth
// @Router /meetings/{meetingID}/trip/result [get]
func (h *settlementHandler) getTripResult(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	meetingID, ok := parseIDParam(c, "meetingID")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, err := h.settlementService.GetTripResult(c.Request.Context(), meetingID, userID)
	if err != nil {
		respondSettlementError(c, logger, err, "Failed to compute trip result")
		return
	}

	c.JSON(http.StatusOK, result)
}

// getSharePage godoc
// @Summary Get the public settlement page
// @Description Looked up by share UUID; no authentication. Includes per-member deposit links toward the configured destination
// @Tags share
// @Produce  json
// @Param   shareUUID path string true "Share UUID"
// @Success 200 {object} dto.SharePageResponse
// @Failure 404 {object} map[string]string "Unknown share UUID"
// @Router /share/{shareUUID} [get]
func (h *settlementHandler) getSharePage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	shareUUID := c.Param("shareUUID")

	page, err := h.settlementService.GetSharePage(c.Request.Context(), shareUUID)
	if err != nil {
		respondSettlementError(c, logger, err, "Failed to build share page")
		return
	}

	c.JSON(http.StatusOK, page)
}

// getTripDashboardByShareUUID godoc
// @Summary Get the public trip dashboard
// @Description Looked up by share UUID; no authentication
// @Tags share
// @Produce  json
// @Param   shareUUID path string true "Share UUID"
// @Success 200 {object} dto.TripDashboardResponse
// @Failure 404 {object} map[string]string "Unknown share UUID"
// @Router /share/{shareUUID}/trip [get]
func (h *settlementHandler) getTripDashboardByShareUUID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	shareUUID := c.Param("shareUUID")

	dashboard, err := h.settlementService.GetTripDashboardByShareUUID(c.Request.Context(), shareUUID)
	if err != nil {
		respondSettlementError(c, logger, err, "Failed to build dashboard")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// respondSettlementError maps settlement failures onto HTTP statuses.
func respondSettlementError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this meeting"})
	case errors.Is(err, services.ErrWrongMeetingMode), errors.Is(err, services.ErrNoLeader):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
