package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/WooHyucks/nbbang-backend/internal/apperrors"
	portssvc "github.com/WooHyucks/nbbang-backend/internal/core/ports/services"
	"github.com/WooHyucks/nbbang-backend/internal/core/services"
	"github.com/WooHyucks/nbbang-backend/internal/dto"
	"github.com/WooHyucks/nbbang-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// meetingHandler handles HTTP requests related to meetings.
type meetingHandler struct {
	meetingService portssvc.MeetingSvcFacade
}

func newMeetingHandler(ms portssvc.MeetingSvcFacade) *meetingHandler {
	return &meetingHandler{meetingService: ms}
}

// registerMeetingRoutes registers routes related to meetings.
func registerMeetingRoutes(rg *gin.RouterGroup, meetingService portssvc.MeetingSvcFacade) {
	h := newMeetingHandler(meetingService)

	meetings := rg.Group("/meetings")
	{
		meetings.POST("", h.createMeeting)
		meetings.GET("", h.listMeetings)
		meetings.GET("/countries", h.listCountries)
		meetings.POST("/simple", h.createSimpleMeeting)
		meetings.POST("/trip", h.createTripMeeting)
		meetings.GET("/:meetingID", h.getMeeting)
		meetings.PUT("/:meetingID", h.updateMeeting)
		meetings.PUT("/:meetingID/simple", h.updateSimpleMeeting)
		meetings.PUT("/:meetingID/account", h.updateBankAccount)
		meetings.PUT("/:meetingID/kakao", h.updateKakaoDeposit)
		meetings.POST("/:meetingID/budget", h.addBudget)
		meetings.POST("/:meetingID/budget/foreign", h.addBudgetForeign)
		meetings.DELETE("/:meetingID", h.deleteMeeting)
	}
}

// createMeeting godoc
// @Summary Create a meeting
// @Description Creates a plain N-way split meeting
// @Tags meetings
// @Accept  json
// @Produce  json
// @Param   meeting body dto.CreateMeetingRequest true "Meeting details"
// @Success 201 {object} dto.MeetingResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /meetings [post]
func (h *meetingHandler) createMeeting(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateMeeting", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	meeting, err := h.meetingService.CreateMeeting(c.Request.Context(), req, userID)
	if err != nil {
		logger.Error("Failed to create meeting", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create meeting"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToMeetingResponse(meeting))
}

// createSimpleMeeting godoc
// @Summary Create a simple meeting
// @Description Creates a fixed-price meeting settled by dividing one price over a headcount
// @Tags meetings
// @Accept  json
// @Produce  json
// @Param   meeting body dto.CreateSimpleMeetingRequest true "Meeting details"
// @Success 201 {object} dto.SimpleMeetingResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /meetings/simple [post]
func (h *meetingHandler) createSimpleMeeting(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateSimpleMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateSimpleMeeting", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	meeting, err := h.meetingService.CreateSimpleMeeting(c.Request.Context(), req, userID)
	if err != nil {
		logger.Error("Failed to create simple meeting", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create meeting"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToSimpleMeetingResponse(meeting))
}

// createTripMeeting godoc
// @Summary Create a trip meeting
// @Description Creates a shared-fund trip meeting with its members, contributions and advance payments
// @Tags meetings
// @Accept  json
// @Produce  json
// @Param   meeting body dto.CreateTripMeetingRequest true "Trip details"
// @Success 201 {object} dto.MeetingResponse
// @Failure 400 {object} map[string]string "Invalid input or unknown advance payer"
// @Failure 409 {object} map[string]string "Duplicate member name"
// @Security BearerAuth
// @Router /meetings/trip [post]
func (h *meetingHandler) createTripMeeting(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTripMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTripMeeting", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	meeting, err := h.meetingService.CreateTripMeeting(c.Request.Context(), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownAdvancePayer), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Rejected trip meeting creation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create trip meeting", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create meeting"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToMeetingResponse(meeting))
}

// listMeetings godoc
// @Summary List meetings
// @Description Retrieves all meetings owned by the authenticated user, newest first
// @Tags meetings
// @Produce  json
// @Success 200 {array} dto.MeetingResponse
// @Security BearerAuth
// @Router /meetings [get]
func (h *meetingHandler) listMeetings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	meetings, err := h.meetingService.ListMeetings(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list meetings", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list meetings"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListMeetingResponse(meetings))
}

// listCountries godoc
// @Summary List destination countries
// @Description Retrieves the selectable trip destination countries and their currencies
// @Tags meetings
// @Produce  json
// @Success 200 {array} dto.CountryResponse
// @Security BearerAuth
// @Router /meetings/countries [get]
func (h *meetingHandler) listCountries(c *gin.Context) {
	c.JSON(http.StatusOK, h.meetingService.ListCountries(c.Request.Context()))
}

// getMeeting godoc
// @Summary Get a meeting
// @Description Retrieves a meeting owned by the authenticated user
// @Tags meetings
// @Produce  json
// @Param   meetingID path int true "Meeting ID"
// @Success 200 {object} dto.MeetingResponse
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Meeting not found"
// @Security BearerAuth
// @Router /meetings/{meetingID} [get]
func (h *meetingHandler) getMeeting(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	meetingID, ok := parseIDParam(c, "meetingID")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	meeting, err := h.meetingService.GetMeeting(c.Request.Context(), meetingID, userID)
	if err != nil {
		respondMeetingError(c, logger, err, "Failed to retrieve meeting")
		return
	}

	c.JSON(http.StatusOK, dto.ToMeetingResponse(meeting))
}

// updateMeeting godoc
// @Summary Update a meeting
// @Description Updates a meeting's name and date
// @Tags meetings
// @Accept  json
// @Produce  json
// @Param   meetingID path int true "Meeting ID"
// @Param   meeting body dto.UpdateMeetingRequest true "Fields to update"
// @Success 200 {object} dto.MeetingResponse
// @Failure 404 {object} map[string]string "Meeting not found"
// @Security BearerAuth
// @Router /meetings/{meetingID} [put]
func (h *meetingHandler) updateMeeting(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	meetingID, ok := parseIDParam(c, "meetingID")
	if !ok {
		return
	}
	var req dto.UpdateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	meeting, err := h.meetingService.UpdateMeeting(c.Request.Context(), meetingID, req, userID)
	if err != nil {
		respondMeetingError(c, logger, err, "Failed to update meeting")
		return
	}

	c.JSON(http.StatusOK, dto.ToMeetingResponse(meeting))
}

// updateSimpleMeeting godoc
// @Summary Update a simple meeting
// @Description Updates the fixed price and headcount of a simple meeting
// @Tags meetings
// @Accept  json
// @Produce  json
// @Param   meetingID path int true "Meeting ID"
// @Param   meeting body dto.UpdateSimpleMeetingRequest true "Fields to update"
// @Success 200 {object} dto.SimpleMeetingResponse
// @Failure 400 {object} map[string]string "Not a simple meeting"
// @Security BearerAuth
// @Router /meetings/{meetingID}/simple [put]
func (h *meetingHandler) updateSimpleMeeting(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	meetingID, ok := parseIDParam(c, "meetingID")
	if !ok {
		return
	}
	var req dto.UpdateSimpleMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	meeting, err := h.meetingService.UpdateSimpleMeeting(c.Request.Context(), meetingID, req, userID)
	if err != nil {
		respondMeetingError(c, logger, err, "Failed to update meeting")
		return
	}

	c.JSON(http.StatusOK, dto.ToSimpleMeetingResponse(meeting))
}

// updateBankAccount godoc
// @Summary Set the transfer destination
// @Description Stores the bank and account number used in settlement deposit links
// @Tags meetings
// @Accept  json
// @Param   meetingID path int true "Meeting ID"
// @Param   account body dto.UpdateBankAccountRequest true "Bank and account number"
// @Success 204
// @Security BearerAuth
// @Router /meetings/{meetingID}/account [put]
func (h *meetingHandler) updateBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	meetingID, ok := parseIDParam(c, "meetingID")
	if !ok {
		return
	}
	var req dto.UpdateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.meetingService.UpdateBankAccount(c.Request.Context(), meetingID, req, userID); err != nil {
		respondMeetingError(c, logger, err, "Failed to update account")
		return
	}

	c.Status(http.StatusNoContent)
}

// updateKakaoDeposit godoc
// @Summary Set the kakaopay QR identifier
// @Description Stores or clears the kakaopay deposit identifier used in QR deposit links
// @Tags meetings
// @Accept  json
// @Param   meetingID path int true "Meeting ID"
// @Param   kakao body dto.UpdateKakaoDepositRequest true "Kakao deposit ID"
// @Success 204
// @Security BearerAuth
// @Router /meetings/{meetingID}/kakao [put]
func (h *meetingHandler) updateKakaoDeposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	meetingID, ok := parseIDParam(c, "meetingID")
	if !ok {
		return
	}
	var req dto.UpdateKakaoDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.meetingService.UpdateKakaoDeposit(c.Request.Context(), meetingID, req, userID); err != nil {
		respondMeetingError(c, logger, err, "Failed to update kakao deposit")
		return
	}

	c.Status(http.StatusNoContent)
}

// addBudget godoc
// @Summary Top up the shared fund in KRW
// @Description Increments members' fund contributions by KRW amounts
// @Tags meetings
// @Accept  json
// @Param   meetingID path int true "Meeting ID"
// @Param   budget body dto.AddBudgetRequest true "Per-member additions"
// @Success 204
// @Failure 400 {object} map[string]string "Not a trip meeting"
// @Security BearerAuth
// @Router /meetings/{meetingID}/budget [post]
func (h *meetingHandler) addBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	meetingID, ok := parseIDParam(c, "meetingID")
	if !ok {
		return
	}
	var req dto.AddBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.meetingService.AddBudget(c.Request.Context(), meetingID, req, userID); err != nil {
		respondMeetingError(c, logger, err, "Failed to add budget")
		return
	}

	c.Status(http.StatusNoContent)
}

// addBudgetForeign godoc
// @Summary Top up the shared fund with a foreign amount
// @Description Converts the amount at the trip's frozen base rate and splits it evenly across the given members
// @Tags meetings
// @Accept  json
// @Param   meetingID path int true "Meeting ID"
// @Param   budget body dto.AddBudgetForeignRequest true "Foreign amount and members"
// @Success 204
// @Failure 400 {object} map[string]string "Not a trip meeting"
// @Security BearerAuth
// @Router /meetings/{meetingID}/budget/foreign [post]
func (h *meetingHandler) addBudgetForeign(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	meetingID, ok := parseIDParam(c, "meetingID")
	if !ok {
		return
	}
	var req dto.AddBudgetForeignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.meetingService.AddBudgetForeign(c.Request.Context(), meetingID, req, userID); err != nil {
		respondMeetingError(c, logger, err, "Failed to add budget")
		return
	}

	c.Status(http.StatusNoContent)
}

// deleteMeeting godoc
// @Summary Delete a meeting
// @Description Removes a meeting together with its members, payments and contributions
// @Tags meetings
// @Param   meetingID path int true "Meeting ID"
// @Success 204
// @Failure 404 {object} map[string]string "Meeting not found"
// @Security BearerAuth
// @Router /meetings/{meetingID} [delete]
func (h *meetingHandler) deleteMeeting(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	meetingID, ok := parseIDParam(c, "meetingID")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.meetingService.DeleteMeeting(c.Request.Context(), meetingID, userID); err != nil {
		respondMeetingError(c, logger, err, "Failed to delete meeting")
		return
	}

	c.Status(http.StatusNoContent)
}

// respondMeetingError maps meeting service failures onto HTTP statuses.
func respondMeetingError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Meeting not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this meeting"})
	case errors.Is(err, services.ErrWrongMeetingMode), errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
