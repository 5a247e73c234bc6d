package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openswad/swad-backend/internal/model"
)

// CentreRepository handles centre (faculty/school) data access.
type CentreRepository struct {
	pool *pgxpool.Pool
}

// NewCentreRepository creates a new CentreRepository.
func NewCentreRepository(pool *pgxpool.Pool) *CentreRepository {
	return &CentreRepository{pool: pool}
}

// GetByID retrieves a centre by its ID.
func (r *CentreRepository) GetByID(ctx context.Context, id int64) (*model.Centre, error) {
	ctr := &model.Centre{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, institution_id, short_name, full_name, created_at, updated_at
		 FROM centres WHERE id = $1`, id,
	).Scan(&ctr.ID, &ctr.InstitutionID, &ctr.ShortName, &ctr.FullName, &ctr.CreatedAt, &ctr.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return ctr, nil
}

// ListByInstitution retrieves all centres of one institution.
func (r *CentreRepository) ListByInstitution(ctx context.Context, institutionID int64) ([]model.Centre, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, institution_id, short_name, full_name, created_at, updated_at
		 FROM centres WHERE institution_id = $1 ORDER BY full_name`, institutionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var centres []model.Centre
	for rows.Next() {
		var ctr model.Centre
		if err := rows.Scan(&ctr.ID, &ctr.InstitutionID, &ctr.ShortName, &ctr.FullName, &ctr.CreatedAt, &ctr.UpdatedAt); err != nil {
			return nil, err
		}
		centres = append(centres, ctr)
	}
	return centres, rows.Err()
}

// Create inserts a new centre.
func (r *CentreRepository) Create(ctx context.Context, ctr *model.Centre) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO centres (institution_id, short_name, full_name)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		ctr.InstitutionID, ctr.ShortName, ctr.FullName,
	).Scan(&ctr.ID, &ctr.CreatedAt, &ctr.UpdatedAt)
}

// Update modifies an existing centre.
func (r *CentreRepository) Update(ctx context.Context, ctr *model.Centre) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE centres SET short_name = $1, full_name = $2, updated_at = NOW()
		 WHERE id = $3`,
		ctr.ShortName, ctr.FullName, ctr.ID,
	)
	return err
}

// Delete removes a centre by its ID.
func (r *CentreRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM centres WHERE id = $1`, id)
	return err
}
