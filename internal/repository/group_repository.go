package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openswad/swad-backend/internal/model"
)

// GroupRepository handles group data access.
type GroupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

// GetByID retrieves a group with its current member count.
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	g := &model.Group{}
	err := r.pool.QueryRow(ctx,
		`SELECT g.id, g.group_type_id, g.name, g.capacity, g.open, g.file_zone,
		        (SELECT COUNT(*) FROM group_users gu WHERE gu.group_id = g.id),
		        g.created_at, g.updated_at
		 FROM groups g WHERE g.id = $1`, id,
	).Scan(&g.ID, &g.GroupTypeID, &g.Name, &g.Capacity, &g.Open, &g.FileZone,
		&g.NumMembers, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ListByCourse retrieves every group of a course with member counts and the
// requesting user's membership flag, grouped under their types by the service.
func (r *GroupRepository) ListByCourse(ctx context.Context, courseID, userID int64) ([]model.GroupWithMembership, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT g.id, g.group_type_id, g.name, g.capacity, g.open, g.file_zone,
		        (SELECT COUNT(*) FROM group_users gu WHERE gu.group_id = g.id),
		        EXISTS(SELECT 1 FROM group_users gu WHERE gu.group_id = g.id AND gu.user_id = $2),
		        g.created_at, g.updated_at
		 FROM groups g
		 JOIN group_types gt ON gt.id = g.group_type_id
		 WHERE gt.course_id = $1
		 ORDER BY gt.name, g.name`, courseID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []model.GroupWithMembership
	for rows.Next() {
		var g model.GroupWithMembership
		if err := rows.Scan(&g.ID, &g.GroupTypeID, &g.Name, &g.Capacity, &g.Open, &g.FileZone,
			&g.NumMembers, &g.Enrolled, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// ListMembers retrieves the roster of one group.
func (r *GroupRepository) ListMembers(ctx context.Context, groupID int64) ([]model.GroupMember, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT gu.group_id, gu.user_id, u.name, u.email, gu.enrolled_at
		 FROM group_users gu
		 JOIN users u ON u.id = gu.user_id
		 WHERE gu.group_id = $1
		 ORDER BY u.name`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []model.GroupMember
	for rows.Next() {
		var m model.GroupMember
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.Name, &m.Email, &m.EnrolledAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// CourseOfGroup resolves the course a group belongs to.
func (r *GroupRepository) CourseOfGroup(ctx context.Context, groupID int64) (int64, error) {
	var courseID int64
	err := r.pool.QueryRow(ctx,
		`SELECT gt.course_id
		 FROM groups g
		 JOIN group_types gt ON gt.id = g.group_type_id
		 WHERE g.id = $1`, groupID,
	).Scan(&courseID)
	return courseID, err
}

// Create inserts a new group.
func (r *GroupRepository) Create(ctx context.Context, g *model.Group) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO groups (group_type_id, name, capacity, open, file_zone)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		g.GroupTypeID, g.Name, g.Capacity, g.Open, g.FileZone,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
}

// Update modifies an existing group.
func (r *GroupRepository) Update(ctx context.Context, g *model.Group) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE groups SET name = $1, capacity = $2, open = $3, file_zone = $4, updated_at = NOW()
		 WHERE id = $5`,
		g.Name, g.Capacity, g.Open, g.FileZone, g.ID,
	)
	return err
}

// SetOpen flips a group's open flag.
func (r *GroupRepository) SetOpen(ctx context.Context, id int64, open bool) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE groups SET open = $1, updated_at = NOW() WHERE id = $2`, open, id)
	return err
}

// Delete removes a group. Its enrollments cascade.
func (r *GroupRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	return err
}
