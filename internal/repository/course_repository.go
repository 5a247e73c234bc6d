package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openswad/swad-backend/internal/model"
)

// CourseRepository handles course and course-membership data access.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// GetByID retrieves a course by its ID.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	crs := &model.Course{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, degree_id, short_name, full_name, year, created_at, updated_at
		 FROM courses WHERE id = $1`, id,
	).Scan(&crs.ID, &crs.DegreeID, &crs.ShortName, &crs.FullName, &crs.Year, &crs.CreatedAt, &crs.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return crs, nil
}

// ListByDegree retrieves all courses of one degree.
func (r *CourseRepository) ListByDegree(ctx context.Context, degreeID int64) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, degree_id, short_name, full_name, year, created_at, updated_at
		 FROM courses WHERE degree_id = $1 ORDER BY year, full_name`, degreeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCourses(rows)
}

// ListForUser retrieves the courses a user belongs to.
func (r *CourseRepository) ListForUser(ctx context.Context, userID int64) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.degree_id, c.short_name, c.full_name, c.year, c.created_at, c.updated_at
		 FROM courses c
		 JOIN course_users cu ON cu.course_id = c.id
		 WHERE cu.user_id = $1
		 ORDER BY c.year, c.full_name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCourses(rows)
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, crs *model.Course) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO courses (degree_id, short_name, full_name, year)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		crs.DegreeID, crs.ShortName, crs.FullName, crs.Year,
	).Scan(&crs.ID, &crs.CreatedAt, &crs.UpdatedAt)
}

// Update modifies an existing course.
func (r *CourseRepository) Update(ctx context.Context, crs *model.Course) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE courses SET short_name = $1, full_name = $2, year = $3, updated_at = NOW()
		 WHERE id = $4`,
		crs.ShortName, crs.FullName, crs.Year, crs.ID,
	)
	return err
}

// Delete removes a course by its ID.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	return err
}

// ─── Course membership ──────────────────────────────────────────────────────

// GetMemberRole returns a user's role in a course, or pgx.ErrNoRows if the
// user does not belong to it.
func (r *CourseRepository) GetMemberRole(ctx context.Context, courseID, userID int64) (model.CourseRole, error) {
	var role model.CourseRole
	err := r.pool.QueryRow(ctx,
		`SELECT role FROM course_users WHERE course_id = $1 AND user_id = $2`,
		courseID, userID,
	).Scan(&role)
	return role, err
}

// ListMembers retrieves the members of a course, optionally filtered by role.
func (r *CourseRepository) ListMembers(ctx context.Context, courseID int64, role model.CourseRole) ([]model.CourseMember, error) {
	query := `SELECT cu.course_id, cu.user_id, cu.role, cu.joined_at, u.name, u.email
	          FROM course_users cu
	          JOIN users u ON u.id = cu.user_id
	          WHERE cu.course_id = $1`
	args := []interface{}{courseID}
	if role != "" {
		query += ` AND cu.role = $2`
		args = append(args, role)
	}
	query += ` ORDER BY u.name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []model.CourseMember
	for rows.Next() {
		var m model.CourseMember
		if err := rows.Scan(&m.CourseID, &m.UserID, &m.Role, &m.JoinedAt, &m.Name, &m.Email); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// AddMember enrolls a user in a course with the given role.
func (r *CourseRepository) AddMember(ctx context.Context, courseID, userID int64, role model.CourseRole) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO course_users (course_id, user_id, role) VALUES ($1, $2, $3)`,
		courseID, userID, role,
	)
	return err
}

// RemoveMember removes a user from a course and from all of its groups.
func (r *CourseRepository) RemoveMember(ctx context.Context, courseID, userID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`DELETE FROM group_users gu
		 USING groups g, group_types gt
		 WHERE gu.group_id = g.id
		   AND g.group_type_id = gt.id
		   AND gt.course_id = $1
		   AND gu.user_id = $2`,
		courseID, userID,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM course_users WHERE course_id = $1 AND user_id = $2`,
		courseID, userID,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func scanCourses(rows pgx.Rows) ([]model.Course, error) {
	var courses []model.Course
	for rows.Next() {
		var crs model.Course
		if err := rows.Scan(&crs.ID, &crs.DegreeID, &crs.ShortName, &crs.FullName, &crs.Year, &crs.CreatedAt, &crs.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, crs)
	}
	return courses, rows.Err()
}
