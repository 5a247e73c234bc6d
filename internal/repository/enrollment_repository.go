package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CourseGroup is a group row as seen by the enrollment operation: the group
// joined with its type's cardinality flag, plus the current member count.
type CourseGroup struct {
	ID       int64
	TypeID   int64
	TypeName string
	Multiple bool
	Name     string
	Capacity *int // nil = unlimited
	Open     bool
	Members  int
}

// EnrollmentRepository handles group-membership data access. All mutating
// methods run inside a caller-owned transaction so the whole
// read-check-mutate sequence of a membership change is atomic and serialized
// per course, not platform-wide.
type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// Begin starts a transaction for a membership change.
func (r *EnrollmentRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// LockCourseGroups locks every group row of the course for the duration of
// the transaction and returns them joined with their types and member
// counts. Concurrent membership changes in the same course queue up on these
// row locks; changes in other courses proceed unaffected.
func (r *EnrollmentRepository) LockCourseGroups(ctx context.Context, tx pgx.Tx, courseID int64) ([]CourseGroup, error) {
	// FOR UPDATE cannot be combined with aggregates, so the count runs as a
	// second statement under the locks just taken.
	rows, err := tx.Query(ctx,
		`SELECT g.id, g.group_type_id, gt.name, gt.multiple, g.name, g.capacity, g.open
		 FROM groups g
		 JOIN group_types gt ON gt.id = g.group_type_id
		 WHERE gt.course_id = $1
		 ORDER BY g.id
		 FOR UPDATE OF g`, courseID)
	if err != nil {
		return nil, err
	}

	var groups []CourseGroup
	ids := make([]int64, 0, 16)
	for rows.Next() {
		var g CourseGroup
		if err := rows.Scan(&g.ID, &g.TypeID, &g.TypeName, &g.Multiple, &g.Name, &g.Capacity, &g.Open); err != nil {
			rows.Close()
			return nil, err
		}
		groups = append(groups, g)
		ids = append(ids, g.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return groups, nil
	}

	counts, err := tx.Query(ctx,
		`SELECT group_id, COUNT(*) FROM group_users WHERE group_id = ANY($1) GROUP BY group_id`, ids)
	if err != nil {
		return nil, err
	}
	defer counts.Close()

	byID := make(map[int64]int, len(groups))
	for counts.Next() {
		var id int64
		var n int
		if err := counts.Scan(&id, &n); err != nil {
			return nil, err
		}
		byID[id] = n
	}
	if err := counts.Err(); err != nil {
		return nil, err
	}

	for i := range groups {
		groups[i].Members = byID[groups[i].ID]
	}
	return groups, nil
}

// UserGroupIDs returns the ids of the groups the user currently holds within
// the course, read under the transaction's locks.
func (r *EnrollmentRepository) UserGroupIDs(ctx context.Context, tx pgx.Tx, courseID, userID int64) ([]int64, error) {
	rows, err := tx.Query(ctx,
		`SELECT gu.group_id
		 FROM group_users gu
		 JOIN groups g ON g.id = gu.group_id
		 JOIN group_types gt ON gt.id = g.group_type_id
		 WHERE gt.course_id = $1 AND gu.user_id = $2`, courseID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Remove deletes the user's membership in the given groups.
func (r *EnrollmentRepository) Remove(ctx context.Context, tx pgx.Tx, userID int64, groupIDs []int64) error {
	if len(groupIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx,
		`DELETE FROM group_users WHERE user_id = $1 AND group_id = ANY($2)`,
		userID, groupIDs)
	return err
}

// Add inserts memberships for the user in the given groups.
func (r *EnrollmentRepository) Add(ctx context.Context, tx pgx.Tx, userID int64, groupIDs []int64) error {
	if len(groupIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO group_users (group_id, user_id)
		 SELECT unnest($1::bigint[]), $2`,
		groupIDs, userID)
	return err
}
