package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openswad/swad-backend/internal/model"
)

// InstitutionRepository handles institution data access.
type InstitutionRepository struct {
	pool *pgxpool.Pool
}

// NewInstitutionRepository creates a new InstitutionRepository.
func NewInstitutionRepository(pool *pgxpool.Pool) *InstitutionRepository {
	return &InstitutionRepository{pool: pool}
}

// GetByID retrieves an institution by its ID.
func (r *InstitutionRepository) GetByID(ctx context.Context, id int64) (*model.Institution, error) {
	ins := &model.Institution{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, short_name, full_name, created_at, updated_at
		 FROM institutions WHERE id = $1`, id,
	).Scan(&ins.ID, &ins.ShortName, &ins.FullName, &ins.CreatedAt, &ins.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return ins, nil
}

// List retrieves all institutions.
func (r *InstitutionRepository) List(ctx context.Context) ([]model.Institution, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, short_name, full_name, created_at, updated_at
		 FROM institutions ORDER BY full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var institutions []model.Institution
	for rows.Next() {
		var ins model.Institution
		if err := rows.Scan(&ins.ID, &ins.ShortName, &ins.FullName, &ins.CreatedAt, &ins.UpdatedAt); err != nil {
			return nil, err
		}
		institutions = append(institutions, ins)
	}
	return institutions, rows.Err()
}

// Create inserts a new institution.
func (r *InstitutionRepository) Create(ctx context.Context, ins *model.Institution) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO institutions (short_name, full_name)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		ins.ShortName, ins.FullName,
	).Scan(&ins.ID, &ins.CreatedAt, &ins.UpdatedAt)
}

// Update modifies an existing institution.
func (r *InstitutionRepository) Update(ctx context.Context, ins *model.Institution) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE institutions SET short_name = $1, full_name = $2, updated_at = NOW()
		 WHERE id = $3`,
		ins.ShortName, ins.FullName, ins.ID,
	)
	return err
}

// Delete removes an institution by its ID.
func (r *InstitutionRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM institutions WHERE id = $1`, id)
	return err
}
