package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/openswad/swad-backend/internal/model"
	"github.com/openswad/swad-backend/internal/response"
	"github.com/openswad/swad-backend/internal/service"
	"github.com/openswad/swad-backend/internal/validator"
)

// CourseHandler handles course CRUD and course-membership endpoints.
type CourseHandler struct {
	courseService *service.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// ListCourses godoc
// GET /api/v1/degrees/:id/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	degreeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	courses, err := h.courseService.ListByDegree(c.Request.Context(), degreeID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// ListMyCourses godoc
// GET /api/v1/my-courses
func (h *CourseHandler) ListMyCourses(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	courses, err := h.courseService.ListMine(c.Request.Context(), actor.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// GetCourse godoc
// GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	crs, err := h.courseService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"course": crs})
}

// CourseRequest is the payload for creating or updating a course.
type CourseRequest struct {
	ShortName string `json:"short_name" binding:"required,min=1,max=32"`
	FullName  string `json:"full_name" binding:"required,min=1,max=255"`
	Year      int    `json:"year" binding:"required,min=1,max=9999"`
}

// CreateCourse godoc
// POST /api/v1/admin/degrees/:id/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	degreeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	crs := &model.Course{
		DegreeID:  degreeID,
		ShortName: req.ShortName,
		FullName:  req.FullName,
		Year:      req.Year,
	}

	if err := h.courseService.Create(c.Request.Context(), crs); err != nil {
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

	response.Success(c, http.StatusCreated, gin.H{"course": crs})
}

// UpdateCourse godoc
// PUT /api/v1/admin/courses/:id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	crs := &model.Course{ID: id, ShortName: req.ShortName, FullName: req.FullName, Year: req.Year}

	if err := h.courseService.Update(c.Request.Context(), crs); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	updated, err := h.courseService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"course": updated})
}

// DeleteCourse godoc
// DELETE /api/v1/admin/courses/:id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.courseService.Delete(c.Request.Context(), id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "course deleted"})
}

// ListCourseMembers godoc
// GET /api/v1/courses/:id/members?role=STUDENT
// Teachers and admins only; the acting teacher must teach the course.
func (h *CourseHandler) ListCourseMembers(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	if err := h.courseService.EnsureTeaches(c.Request.Context(), courseID, actor); err != nil {
		if errors.Is(err, service.ErrNotCourseMember) {
			response.Fail(c, http.StatusForbidden, response.ErrNotCourseMember)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	role := model.CourseRole(c.Query("role"))
	members, err := h.courseService.ListMembers(c.Request.Context(), courseID, role)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"members": members})
}

// CourseMemberRequest is the payload for enrolling a user in a course.
type CourseMemberRequest struct {
	UserID int64            `json:"user_id" binding:"required,min=1"`
	Role   model.CourseRole `json:"role" binding:"required,oneof=TEACHER STUDENT"`
}

// AddCourseMember godoc
// POST /api/v1/courses/:id/members
func (h *CourseHandler) AddCourseMember(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req CourseMemberRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.courseService.EnsureTeaches(c.Request.Context(), courseID, actor); err != nil {
		if errors.Is(err, service.ErrNotCourseMember) {
			response.Fail(c, http.StatusForbidden, response.ErrNotCourseMember)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if err := h.courseService.AddMember(c.Request.Context(), courseID, req.UserID, req.Role); err != nil {
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

	response.Success(c, http.StatusCreated, gin.H{"message": "member added"})
}

// RemoveCourseMember godoc
// DELETE /api/v1/courses/:id/members/:user_id
// Dropping a member also clears their group memberships in the course.
func (h *CourseHandler) RemoveCourseMember(c *gin.Context) {
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

	if err := h.courseService.EnsureTeaches(c.Request.Context(), courseID, actor); err != nil {
		if errors.Is(err, service.ErrNotCourseMember) {
			response.Fail(c, http.StatusForbidden, response.ErrNotCourseMember)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if err := h.courseService.RemoveMember(c.Request.Context(), courseID, userID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "member removed"})
}
