package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openswad/swad-backend/internal/model"
)

// GroupTypeRepository handles group-type data access.
type GroupTypeRepository struct {
	pool *pgxpool.Pool
}

// NewGroupTypeRepository creates a new GroupTypeRepository.
func NewGroupTypeRepository(pool *pgxpool.Pool) *GroupTypeRepository {
	return &GroupTypeRepository{pool: pool}
}

// GetByID retrieves a group type by its ID.
func (r *GroupTypeRepository) GetByID(ctx context.Context, id int64) (*model.GroupType, error) {
	gt := &model.GroupType{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, course_id, name, mandatory, multiple, open_time, created_at, updated_at
		 FROM group_types WHERE id = $1`, id,
	).Scan(&gt.ID, &gt.CourseID, &gt.Name, &gt.Mandatory, &gt.Multiple, &gt.OpenTime, &gt.CreatedAt, &gt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return gt, nil
}

// ListByCourse retrieves all group types of one course.
func (r *GroupTypeRepository) ListByCourse(ctx context.Context, courseID int64) ([]model.GroupType, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, course_id, name, mandatory, multiple, open_time, created_at, updated_at
		 FROM group_types WHERE course_id = $1 ORDER BY name`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []model.GroupType
	for rows.Next() {
		var gt model.GroupType
		if err := rows.Scan(&gt.ID, &gt.CourseID, &gt.Name, &gt.Mandatory, &gt.Multiple, &gt.OpenTime, &gt.CreatedAt, &gt.UpdatedAt); err != nil {
			return nil, err
		}
		types = append(types, gt)
	}
	return types, rows.Err()
}

// Create inserts a new group type.
func (r *GroupTypeRepository) Create(ctx context.Context, gt *model.GroupType) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO group_types (course_id, name, mandatory, multiple, open_time)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		gt.CourseID, gt.Name, gt.Mandatory, gt.Multiple, gt.OpenTime,
	).Scan(&gt.ID, &gt.CreatedAt, &gt.UpdatedAt)
}

// Update modifies an existing group type.
func (r *GroupTypeRepository) Update(ctx context.Context, gt *model.GroupType) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE group_types SET name = $1, mandatory = $2, multiple = $3, open_time = $4, updated_at = NOW()
		 WHERE id = $5`,
		gt.Name, gt.Mandatory, gt.Multiple, gt.OpenTime, gt.ID,
	)
	return err
}

// Delete removes a group type. Its groups and their enrollments cascade.
func (r *GroupTypeRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM group_types WHERE id = $1`, id)
	return err
}

// OpenDueGroups opens every group whose type has a scheduled open time that
// has already arrived, then clears the schedule so the job does not fire
// twice. Returns the number of groups opened.
func (r *GroupTypeRepository) OpenDueGroups(ctx context.Context) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE groups SET open = TRUE, updated_at = NOW()
		 WHERE group_type_id IN (
		     SELECT id FROM group_types
		     WHERE open_time IS NOT NULL AND open_time <= NOW()
		 )`)
	if err != nil {
		return 0, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE group_types SET open_time = NULL, updated_at = NOW()
		 WHERE open_time IS NOT NULL AND open_time <= NOW()`)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
