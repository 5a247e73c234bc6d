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

// CentreHandler handles admin-facing centre management.
type CentreHandler struct {
	centreService *service.CentreService
}

// NewCentreHandler creates a new CentreHandler.
func NewCentreHandler(centreService *service.CentreService) *CentreHandler {
	return &CentreHandler{centreService: centreService}
}

// ListCentres godoc
// GET /api/v1/institutions/:id/centres
func (h *CentreHandler) ListCentres(c *gin.Context) {
	institutionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	centres, err := h.centreService.ListByInstitution(c.Request.Context(), institutionID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"centres": centres})
}

// CentreRequest is the payload for creating or updating a centre.
type CentreRequest struct {
	ShortName string `json:"short_name" binding:"required,min=1,max=32"`
	FullName  string `json:"full_name" binding:"required,min=1,max=255"`
}

// CreateCentre godoc
// POST /api/v1/admin/institutions/:id/centres
func (h *CentreHandler) CreateCentre(c *gin.Context) {
	institutionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CentreRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ctr := &model.Centre{InstitutionID: institutionID, ShortName: req.ShortName, FullName: req.FullName}

	if err := h.centreService.Create(c.Request.Context(), ctr); err != nil {
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

	response.Success(c, http.StatusCreated, gin.H{"centre": ctr})
}

// UpdateCentre godoc
// PUT /api/v1/admin/centres/:id
func (h *CentreHandler) UpdateCentre(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CentreRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ctr := &model.Centre{ID: id, ShortName: req.ShortName, FullName: req.FullName}

	if err := h.centreService.Update(c.Request.Context(), ctr); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	updated, err := h.centreService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"centre": updated})
}

// DeleteCentre godoc
// DELETE /api/v1/admin/centres/:id
// Fails while degrees still belong to the centre.
func (h *CentreHandler) DeleteCentre(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.centreService.Delete(c.Request.Context(), id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "centre deleted"})
}
