package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openswad/swad-backend/internal/model"
)

// DegreeRepository handles degree data access.
type DegreeRepository struct {
	pool *pgxpool.Pool
}

// NewDegreeRepository creates a new DegreeRepository.
func NewDegreeRepository(pool *pgxpool.Pool) *DegreeRepository {
	return &DegreeRepository{pool: pool}
}

// GetByID retrieves a degree by its ID.
func (r *DegreeRepository) GetByID(ctx context.Context, id int64) (*model.Degree, error) {
	deg := &model.Degree{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, centre_id, short_name, full_name, created_at, updated_at
		 FROM degrees WHERE id = $1`, id,
	).Scan(&deg.ID, &deg.CentreID, &deg.ShortName, &deg.FullName, &deg.CreatedAt, &deg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return deg, nil
}

// ListByCentre retrieves all degrees of one centre.
func (r *DegreeRepository) ListByCentre(ctx context.Context, centreID int64) ([]model.Degree, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, centre_id, short_name, full_name, created_at, updated_at
		 FROM degrees WHERE centre_id = $1 ORDER BY full_name`, centreID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var degrees []model.Degree
	for rows.Next() {
		var deg model.Degree
		if err := rows.Scan(&deg.ID, &deg.CentreID, &deg.ShortName, &deg.FullName, &deg.CreatedAt, &deg.UpdatedAt); err != nil {
			return nil, err
		}
		degrees = append(degrees, deg)
	}
	return degrees, rows.Err()
}

// Create inserts a new degree.
func (r *DegreeRepository) Create(ctx context.Context, deg *model.Degree) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO degrees (centre_id, short_name, full_name)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		deg.CentreID, deg.ShortName, deg.FullName,
	).Scan(&deg.ID, &deg.CreatedAt, &deg.UpdatedAt)
}

// Update modifies an existing degree.
func (r *DegreeRepository) Update(ctx context.Context, deg *model.Degree) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE degrees SET short_name = $1, full_name = $2, updated_at = NOW()
		 WHERE id = $3`,
		deg.ShortName, deg.FullName, deg.ID,
	)
	return err
}

// Delete removes a degree by its ID.
func (r *DegreeRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM degrees WHERE id = $1`, id)
	return err
}
