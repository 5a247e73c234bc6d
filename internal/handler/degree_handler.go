package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/openswad/swad-backend/internal/model"
	"github.com/openswad/swad-backend/internal/response"
	"github.com/openswad/swad-backend/internal/service"
	"github.com/openswad/swad-backend/internal/validator"
)

// DegreeHandler handles admin-facing degree management.
type DegreeHandler struct {
	degreeService *service.DegreeService
}

// NewDegreeHandler creates a new DegreeHandler.
func NewDegreeHandler(degreeService *service.DegreeService) *DegreeHandler {
	return &DegreeHandler{degreeService: degreeService}
}

// ListDegrees godoc
// GET /api/v1/centres/:id/degrees
func (h *DegreeHandler) ListDegrees(c *gin.Context) {
	centreID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	degrees, err := h.degreeService.ListByCentre(c.Request.Context(), centreID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"degrees": degrees})
}

// DegreeRequest is the payload for creating or updating a degree.
type DegreeRequest struct {
	ShortName string `json:"short_name" binding:"required,min=1,max=32"`
	FullName  string `json:"full_name" binding:"required,min=1,max=255"`
}

// CreateDegree godoc
// POST /api/v1/admin/centres/:id/degrees
func (h *DegreeHandler) CreateDegree(c *gin.Context) {
	centreID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req DegreeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	deg := &model.Degree{CentreID: centreID, ShortName: req.ShortName, FullName: req.FullName}

	if err := h.degreeService.Create(c.Request.Context(), deg); err != nil {
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

	response.Success(c, http.StatusCreated, gin.H{"degree": deg})
}

// UpdateDegree godoc
// PUT /api/v1/admin/degrees/:id
func (h *DegreeHandler) UpdateDegree(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req DegreeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	deg := &model.Degree{ID: id, ShortName: req.ShortName, FullName: req.FullName}

	if err := h.degreeService.Update(c.Request.Context(), deg); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	updated, err := h.degreeService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"degree": updated})
}

// DeleteDegree godoc
// DELETE /api/v1/admin/degrees/:id
// Fails while courses still belong to the degree.
func (h *DegreeHandler) DeleteDegree(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.degreeService.Delete(c.Request.Context(), id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "degree deleted"})
}
