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

// memberHandler handles HTTP requests related to meeting members.
type memberHandler struct {
	memberService portssvc.MemberSvcFacade
}

func newMemberHandler(ms portssvc.MemberSvcFacade) *memberHandler {
	return &memberHandler{memberService: ms}
}

// registerMemberRoutes registers member routes nested under a meeting.
func registerMemberRoutes(rg *gin.RouterGroup, memberService portssvc.MemberSvcFacade) {
	h := newMemberHandler(memberService)

	members := rg.Group("/meetings/:meetingID/members")
	{
		members.GET("", h.listMembers)
		members.POST("", h.createMember)
		members.PUT("/:memberID", h.updateMember)
		members.DELETE("/:memberID", h.deleteMember)
	}
}

// listMembers godoc
// @Summary List meeting members
// @Tags members
// @Produce  json
// @Param   meetingID path int true "Meeting ID"
// @Success 200 {array} dto.MemberResponse
// @Failure 404 {object} map[string]string "Meeting not found"
// @Security BearerAuth
// @Router /meetings/{meetingID}/members [get]
func (h *memberHandler) listMembers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	meetingID, ok := parseIDParam(c, "meetingID")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	members, err := h.memberService.ListMembers(c.Request.Context(), meetingID, userID)
	if err != nil {
		respondMemberError(c, logger, err, "Failed to list members")
		return
	}

	c.JSON(http.StatusOK, dto.ToListMemberResponse(members))
}

// createMember godoc
// @Summary Add a member to a meeting
// @Description The first member of a meeting becomes its leader; a later member created with the leader flag takes leadership over
// @Tags members
// @Accept  json
// @Produce  json
// @Param   meetingID path int true "Meeting ID"
// @Param   member body dto.CreateMemberRequest true "Member details"
// @Success 201 {object} dto.MemberResponse
// @Failure 409 {object} map[string]string "Duplicate member name"
// @Security BearerAuth
// @Router /meetings/{meetingID}/members [post]
func (h *memberHandler) createMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	meetingID, ok := parseIDParam(c, "meetingID")
	if !ok {
		return
	}
	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	member, err := h.memberService.CreateMember(c.Request.Context(), meetingID, req, userID)
	if err != nil {
		respondMemberError(c, logger, err, "Failed to create member")
		return
	}

	c.JSON(http.StatusCreated, dto.ToMemberResponse(member))
}

// updateMember godoc
// @Summary Update a member
// @Description Renames a member or transfers leadership to them
// @Tags members
// @Accept  json
// @Produce  json
// @Param   meetingID path int true "Meeting ID"
// @Param   memberID path int true "Member ID"
// @Param   member body dto.UpdateMemberRequest true "Fields to update"
// @Success 200 {object} dto.MemberResponse
// @Failure 400 {object} map[string]string "Cannot unset the leader"
// @Security BearerAuth
// @Router /meetings/{meetingID}/members/{memberID} [put]
func (h *memberHandler) updateMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	meetingID, ok := parseIDParam(c, "meetingID")
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "memberID")
	if !ok {
		return
	}
	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	member, err := h.memberService.UpdateMember(c.Request.Context(), meetingID, memberID, req, userID)
	if err != nil {
		respondMemberError(c, logger, err, "Failed to update member")
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}

// deleteMember godoc
// @Summary Remove a member
// @Description Leaders and members referenced by a payment cannot be removed
// @Tags members
// @Param   meetingID path int true "Meeting ID"
// @Param   memberID path int true "Member ID"
// @Success 204
// @Failure 400 {object} map[string]string "Member is protected"
// @Security BearerAuth
// @Router /meetings/{meetingID}/members/{memberID} [delete]
func (h *memberHandler) deleteMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	meetingID, ok := parseIDParam(c, "meetingID")
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "memberID")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.memberService.DeleteMember(c.Request.Context(), meetingID, memberID, userID); err != nil {
		respondMemberError(c, logger, err, "Failed to delete member")
		return
	}

	c.Status(http.StatusNoContent)
}

// respondMemberError maps member service failures onto HTTP statuses.
func respondMemberError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this meeting"})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrLeaderUndeletable),
		errors.Is(err, services.ErrLeaderRequired),
		errors.Is(err, services.ErrMemberReferenced),
		errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
