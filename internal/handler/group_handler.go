package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/openswad/swad-backend/internal/model"
	"github.com/openswad/swad-backend/internal/response"
	"github.com/openswad/swad-backend/internal/service"
	"github.com/openswad/swad-backend/internal/validator"
)

// GroupHandler handles group-type and group management within a course.
type GroupHandler struct {
	groupService  *service.GroupService
	courseService *service.CourseService
	exportService *service.ExportService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(
	groupService *service.GroupService,
	courseService *service.CourseService,
	exportService *service.ExportService,
) *GroupHandler {
	return &GroupHandler{
		groupService:  groupService,
		courseService: courseService,
		exportService: exportService,
	}
}

// requireTeaches checks that the actor may manage the course and writes the
// failure response itself.
func (h *GroupHandler) requireTeaches(c *gin.Context, courseID int64) bool {
	actor, ok := actorFromContext(c)
	if !ok {
		return false
	}
	if err := h.courseService.EnsureTeaches(c.Request.Context(), courseID, actor); err != nil {
		if errors.Is(err, service.ErrNotCourseMember) {
			response.Fail(c, http.StatusForbidden, response.ErrNotCourseMember)
			return false
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return false
	}
	return true
}

// ListCourseGroups godoc
// GET /api/v1/courses/:id/groups
// Returns every group type of the course with its groups, member counts and
// the requesting user's membership flags. Any course member may call it.
func (h *GroupHandler) ListCourseGroups(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	if err := h.courseService.EnsureMember(c.Request.Context(), courseID, actor); err != nil {
		if errors.Is(err, service.ErrNotCourseMember) {
			response.Fail(c, http.StatusForbidden, response.ErrNotCourseMember)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	types, err := h.groupService.ListCourseGroups(c.Request.Context(), courseID, actor.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"group_types": types})
}

// GroupTypeRequest is the payload for creating or updating a group type.
type GroupTypeRequest struct {
	Name      string     `json:"name" binding:"required,min=1,max=255"`
	Mandatory bool       `json:"mandatory"`
	Multiple  bool       `json:"multiple"`
	OpenTime  *time.Time `json:"open_time"`
}

// CreateGroupType godoc
// POST /api/v1/courses/:id/group-types
func (h *GroupHandler) CreateGroupType(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !h.requireTeaches(c, courseID) {
		return
	}

	var req GroupTypeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	gt := &model.GroupType{
		CourseID:  courseID,
		Name:      req.Name,
		Mandatory: req.Mandatory,
		Multiple:  req.Multiple,
		OpenTime:  req.OpenTime,
	}

	if err := h.groupService.CreateType(c.Request.Context(), gt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				response.Fail(c, http.StatusConflict, response.ErrConflict)
				return
			case "23503":
				response.Fail(c, http.StatusNotFound, response.ErrNotFound)
				return
			}
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"group_type": gt})
}

// UpdateGroupType godoc
// PUT /api/v1/group-types/:id
func (h *GroupHandler) UpdateGroupType(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	gt, err := h.groupService.GetType(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !h.requireTeaches(c, gt.CourseID) {
		return
	}

	var req GroupTypeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	gt.Name = req.Name
	gt.Mandatory = req.Mandatory
	gt.Multiple = req.Multiple
	gt.OpenTime = req.OpenTime

	if err := h.groupService.UpdateType(c.Request.Context(), gt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"group_type": gt})
}

// DeleteGroupType godoc
// DELETE /api/v1/group-types/:id
// Removes the type with all its groups and their memberships.
func (h *GroupHandler) DeleteGroupType(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	gt, err := h.groupService.GetType(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !h.requireTeaches(c, gt.CourseID) {
		return
	}

	if err := h.groupService.DeleteType(c.Request.Context(), gt.CourseID, id); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "group type deleted"})
}

// GroupRequest is the payload for creating or updating a group.
type GroupRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Capacity *int   `json:"capacity" binding:"omitempty,min=1"`
	Open     bool   `json:"open"`
	FileZone bool   `json:"file_zone"`
}

// CreateGroup godoc
// POST /api/v1/group-types/:id/groups
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	typeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	gt, err := h.groupService.GetType(c.Request.Context(), typeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !h.requireTeaches(c, gt.CourseID) {
		return
	}

	var req GroupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	g := &model.Group{
		GroupTypeID: typeID,
		Name:        req.Name,
		Capacity:    req.Capacity,
		Open:        req.Open,
		FileZone:    req.FileZone,
	}

	if err := h.groupService.CreateGroup(c.Request.Context(), g); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"group": g})
}

// lookupGroupCourse resolves the course a group belongs to, writing 404 on a
// missing group.
func (h *GroupHandler) lookupGroupCourse(c *gin.Context, groupID int64) (int64, bool) {
	courseID, err := h.groupService.CourseOfGroup(c.Request.Context(), groupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return 0, false
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return 0, false
	}
	return courseID, true
}

// UpdateGroup godoc
// PUT /api/v1/groups/:id
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	courseID, ok := h.lookupGroupCourse(c, id)
	if !ok {
		return
	}
	if !h.requireTeaches(c, courseID) {
		return
	}

	var req GroupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	g := &model.Group{
		ID:       id,
		Name:     req.Name,
		Capacity: req.Capacity,
		Open:     req.Open,
		FileZone: req.FileZone,
	}

	if err := h.groupService.UpdateGroup(c.Request.Context(), g); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	updated, err := h.groupService.GetGroup(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"group": updated})
}

// GroupOpenRequest is the payload for opening or closing a group.
type GroupOpenRequest struct {
	Open *bool `json:"open" binding:"required"`
}

// SetGroupOpen godoc
// PATCH /api/v1/groups/:id/open
func (h *GroupHandler) SetGroupOpen(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	courseID, ok := h.lookupGroupCourse(c, id)
	if !ok {
		return
	}
	if !h.requireTeaches(c, courseID) {
		return
	}

	var req GroupOpenRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.groupService.SetGroupOpen(c.Request.Context(), id, *req.Open); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "group updated"})
}

// DeleteGroup godoc
// DELETE /api/v1/groups/:id
// Removes the group and its memberships.
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	courseID, ok := h.lookupGroupCourse(c, id)
	if !ok {
		return
	}
	if !h.requireTeaches(c, courseID) {
		return
	}

	if err := h.groupService.DeleteGroup(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "group deleted"})
}

// ListGroupMembers godoc
// GET /api/v1/groups/:id/members
func (h *GroupHandler) ListGroupMembers(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	courseID, ok := h.lookupGroupCourse(c, id)
	if !ok {
		return
	}
	if !h.requireTeaches(c, courseID) {
		return
	}

	members, err := h.groupService.ListMembers(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"members": members})
}

// ExportCourseGroups godoc
// GET /api/v1/courses/:id/groups/export
// Streams an xlsx workbook with one sheet per group type listing every
// group's roster.
func (h *GroupHandler) ExportCourseGroups(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !h.requireTeaches(c, courseID) {
		return
	}

	buf, filename, err := h.exportService.CourseGroupsWorkbook(c.Request.Context(), courseID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
