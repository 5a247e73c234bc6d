package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openswad/swad-backend/internal/response"
	"github.com/openswad/swad-backend/internal/service"
	"github.com/openswad/swad-backend/internal/validator"
)

// EnrollmentHandler handles the group-membership change endpoints.
type EnrollmentHandler struct {
	enrollmentService *service.EnrollmentService
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(enrollmentService *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// GroupSelectionRequest carries the full desired group selection for one
// course. GroupIDs may be empty, which drops every membership the rules
// allow dropping.
type GroupSelectionRequest struct {
	GroupIDs []int64 `json:"group_ids" binding:"required"`
}

// ChangeMyGroups godoc
// PUT /api/v1/courses/:id/my-groups
// Replaces the caller's own group memberships in the course with the given
// selection. Applies atomically or not at all.
func (h *EnrollmentHandler) ChangeMyGroups(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req GroupSelectionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	changed, err := h.enrollmentService.ChangeUserGroups(
		c.Request.Context(), courseID, actor.UserID, req.GroupIDs, actor)
	if err != nil {
		h.failEnrollment(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"changed": changed})
}

// ChangeUserGroups godoc
// PUT /api/v1/courses/:id/users/:user_id/groups
// Replaces another user's group memberships in the course. The actor must be
// an admin or a teacher of the course; open and capacity rules are waived,
// the single-enrollment guard is not.
func (h *EnrollmentHandler) ChangeUserGroups(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req GroupSelectionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	changed, err := h.enrollmentService.ChangeUserGroups(
		c.Request.Context(), courseID, userID, req.GroupIDs, actor)
	if err != nil {
		h.failEnrollment(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"changed": changed})
}

// failEnrollment maps enrollment business errors to HTTP responses.
func (h *EnrollmentHandler) failEnrollment(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotCourseMember):
		response.Fail(c, http.StatusForbidden, response.ErrNotCourseMember)
	case errors.Is(err, service.ErrUnknownGroup):
		response.Fail(c, http.StatusConflict, response.ErrUnknownGroup)
	case errors.Is(err, service.ErrMultipleSingleType):
		response.Fail(c, http.StatusConflict, response.ErrMultipleSingleType)
	case errors.Is(err, service.ErrGroupClosed):
		response.Fail(c, http.StatusConflict, response.ErrGroupClosed)
	case errors.Is(err, service.ErrGroupFull):
		response.Fail(c, http.StatusConflict, response.ErrGroupFull)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
