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

// paymentHandler handles HTTP requests related to payments.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: ps}
}

// registerPaymentRoutes registers payment routes nested under a meeting.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	payments := rg.Group("/meetings/:meetingID/payments")
	{
		payments.GET("", h.listPayments)
		payments.POST("", h.createPayment)
		payments.PUT("/order", h.updatePaymentOrder)
		payments.PUT("/:paymentID", h.updatePayment)
		payments.DELETE("/:paymentID", h.deletePayment)
	}
}

// listPayments godoc
// @Summary List a meeting's payments
// @Description Payments are returned in display order with split prices and payer names resolved
// @Tags payments
// @Produce  json
// @Param   meetingID path int true "Meeting ID"
// @Success 200 {array} dto.PaymentResponse
// @Failure 404 {object} map[string]string "Meeting not found"
// @Security BearerAuth
// @Router /meetings/{meetingID}/payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	meetingID, ok := parseIDParam(c, "meetingID")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), meetingID, userID)
	if err != nil {
		respondPaymentError(c, logger, err, "Failed to list payments")
		return
	}

	c.JSON(http.StatusOK, payments)
}

// createPayment godoc
// @Summary Record a payment
// @Description Normalizes the payment into KRW; foreign payments freeze their conversion rate at write time
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   meetingID path int true "Meeting ID"
// @Param   payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid input or unknown attendee"
// @Security BearerAuth
// @Router /meetings/{meetingID}/payments [post]
func (h *paymentHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	meetingID, ok := parseIDParam(c, "meetingID")
	if !ok {
		return
	}
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), meetingID, req, userID)
	if err != nil {
		respondPaymentError(c, logger, err, "Failed to create payment")
		return
	}

	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment, nil))
}

// updatePayment godoc
// @Summary Update a payment
// @Description Absent fields keep the stored payment's values; the frozen rate is kept while the currency is unchanged
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   meetingID path int true "Meeting ID"
// @Param   paymentID path int true "Payment ID"
// @Param   payment body dto.UpdatePaymentRequest true "Fields to update"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} map[string]string "Payment not found"
// @Security BearerAuth
// @Router /meetings/{meetingID}/payments/{paymentID} [put]
func (h *paymentHandler) updatePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	meetingID, ok := parseIDParam(c, "meetingID")
	if !ok {
		return
	}
	paymentID, ok := parseIDParam(c, "paymentID")
	if !ok {
		return
	}
	var req dto.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.UpdatePayment(c.Request.Context(), meetingID, paymentID, req, userID)
	if err != nil {
		respondPaymentError(c, logger, err, "Failed to update payment")
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment, nil))
}

// updatePaymentOrder godoc
// @Summary Reorder a meeting's payments
// @Description The list must contain every payment of the meeting exactly once
// @Tags payments
// @Accept  json
// @Param   meetingID path int true "Meeting ID"
// @Param   order body dto.UpdatePaymentOrderRequest true "Payment IDs in display order"
// @Success 204
// @Failure 400 {object} map[string]string "Order does not match the meeting's payments"
// @Security BearerAuth
// @Router /meetings/{meetingID}/payments/order [put]
func (h *paymentHandler) updatePaymentOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	meetingID, ok := parseIDParam(c, "meetingID")
	if !ok {
		return
	}
	var req dto.UpdatePaymentOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.paymentService.UpdatePaymentOrder(c.Request.Context(), meetingID, req, userID); err != nil {
		respondPaymentError(c, logger, err, "Failed to reorder payments")
		return
	}

	c.Status(http.StatusNoContent)
}

// deletePayment godoc
// @Summary Delete a payment
// @Tags payments
// @Param   meetingID path int true "Meeting ID"
// @Param   paymentID path int true "Payment ID"
// @Success 204
// @Failure 404 {object} map[string]string "Payment not found"
// @Security BearerAuth
// @Router /meetings/{meetingID}/payments/{paymentID} [delete]
func (h *paymentHandler) deletePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	meetingID, ok := parseIDParam(c, "meetingID")
	if !ok {
		return
	}
	paymentID, ok := parseIDParam(c, "paymentID")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.paymentService.DeletePayment(c.Request.Context(), meetingID, paymentID, userID); err != nil {
		respondPaymentError(c, logger, err, "Failed to delete payment")
		return
	}

	c.Status(http.StatusNoContent)
}

// respondPaymentError maps payment service failures onto HTTP statuses.
func respondPaymentError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this meeting"})
	case errors.Is(err, services.ErrUnknownAttendee),
		errors.Is(err, services.ErrOrderMismatch),
		errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
