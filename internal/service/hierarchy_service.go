package service

import (
	"context"

	"github.com/openswad/swad-backend/internal/model"
	"github.com/openswad/swad-backend/internal/repository"
)

// InstitutionService handles institution business logic.
type InstitutionService struct {
	institutionRepo *repository.InstitutionRepository
}

// NewInstitutionService creates a new InstitutionService.
func NewInstitutionService(institutionRepo *repository.InstitutionRepository) *InstitutionService {
	return &InstitutionService{institutionRepo: institutionRepo}
}

func (s *InstitutionService) GetByID(ctx context.Context, id int64) (*model.Institution, error) {
	return s.institutionRepo.GetByID(ctx, id)
}

func (s *InstitutionService) List(ctx context.Context) ([]model.Institution, error) {
	return s.institutionRepo.List(ctx)
}

func (s *InstitutionService) Create(ctx context.Context, ins *model.Institution) error {
	return s.institutionRepo.Create(ctx, ins)
}

func (s *InstitutionService) Update(ctx context.Context, ins *model.Institution) error {
	return s.institutionRepo.Update(ctx, ins)
}

// Delete removes an institution. The foreign key on centres blocks deletion
// while centres still hang off it; the handler maps that to a conflict.
func (s *InstitutionService) Delete(ctx context.Context, id int64) error {
	return s.institutionRepo.Delete(ctx, id)
}

// CentreService handles centre business logic.
type CentreService struct {
	centreRepo *repository.CentreRepository
}

// NewCentreService creates a new CentreService.
func NewCentreService(centreRepo *repository.CentreRepository) *CentreService {
	return &CentreService{centreRepo: centreRepo}
}

func (s *CentreService) GetByID(ctx context.Context, id int64) (*model.Centre, error) {
	return s.centreRepo.GetByID(ctx, id)
}

func (s *CentreService) ListByInstitution(ctx context.Context, institutionID int64) ([]model.Centre, error) {
	return s.centreRepo.ListByInstitution(ctx, institutionID)
}

func (s *CentreService) Create(ctx context.Context, ctr *model.Centre) error {
	return s.centreRepo.Create(ctx, ctr)
}

func (s *CentreService) Update(ctx context.Context, ctr *model.Centre) error {
	return s.centreRepo.Update(ctx, ctr)
}

func (s *CentreService) Delete(ctx context.Context, id int64) error {
	return s.centreRepo.Delete(ctx, id)
}

// DegreeService handles degree business logic.
type DegreeService struct {
	degreeRepo *repository.DegreeRepository
}

// NewDegreeService creates a new DegreeService.
func NewDegreeService(degreeRepo *repository.DegreeRepository) *DegreeService {
	return &DegreeService{degreeRepo: degreeRepo}
}

func (s *DegreeService) GetByID(ctx context.Context, id int64) (*model.Degree, error) {
	return s.degreeRepo.GetByID(ctx, id)
}

func (s *DegreeService) ListByCentre(ctx context.Context, centreID int64) ([]model.Degree, error) {
	return s.degreeRepo.ListByCentre(ctx, centreID)
}

func (s *DegreeService) Create(ctx context.Context, deg *model.Degree) error {
	return s.degreeRepo.Create(ctx, deg)
}

func (s *DegreeService) Update(ctx context.Context, deg *model.Degree) error {
	return s.degreeRepo.Update(ctx, deg)
}

func (s *DegreeService) Delete(ctx context.Context, id int64) error {
	return s.degreeRepo.Delete(ctx, id)
}
