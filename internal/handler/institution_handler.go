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

// InstitutionHandler handles admin-facing institution management.
type InstitutionHandler struct {
	institutionService *service.InstitutionService
}

// NewInstitutionHandler creates a new InstitutionHandler.
func NewInstitutionHandler(institutionService *service.InstitutionService) *InstitutionHandler {
	return &InstitutionHandler{institutionService: institutionService}
}

// ListInstitutions godoc
// GET /api/v1/institutions
func (h *InstitutionHandler) ListInstitutions(c *gin.Context) {
	institutions, err := h.institutionService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"institutions": institutions})
}

// InstitutionRequest is the payload for creating or updating an institution.
type InstitutionRequest struct {
	ShortName string `json:"short_name" binding:"required,min=1,max=32"`
	FullName  string `json:"full_name" binding:"required,min=1,max=255"`
}

// CreateInstitution godoc
// POST /api/v1/admin/institutions
func (h *InstitutionHandler) CreateInstitution(c *gin.Context) {
	var req InstitutionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ins := &model.Institution{ShortName: req.ShortName, FullName: req.FullName}

	if err := h.institutionService.Create(c.Request.Context(), ins); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"institution": ins})
}

// UpdateInstitution godoc
// PUT /api/v1/admin/institutions/:id
func (h *InstitutionHandler) UpdateInstitution(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req InstitutionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ins := &model.Institution{ID: id, ShortName: req.ShortName, FullName: req.FullName}

	if err := h.institutionService.Update(c.Request.Context(), ins); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	updated, err := h.institutionService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"institution": updated})
}

// DeleteInstitution godoc
// DELETE /api/v1/admin/institutions/:id
// Fails while centres still belong to the institution.
func (h *InstitutionHandler) DeleteInstitution(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.institutionService.Delete(c.Request.Context(), id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "institution deleted"})
}
