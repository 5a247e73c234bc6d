package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openswad/swad-backend/internal/model"
)

// UserRepository handles account data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID retrieves a user by its ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, role, created_at, updated_at
		 FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByEmail retrieves a user by email, for login.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, role, created_at, updated_at
		 FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// List retrieves a page of users, optionally filtered by role.
func (r *UserRepository) List(ctx context.Context, role model.Role, limit, offset int) ([]model.User, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM users`
	listQuery := `SELECT id, email, name, password_hash, role, created_at, updated_at
	              FROM users ORDER BY name LIMIT $1 OFFSET $2`
	args := []interface{}{limit, offset}

	if role != "" {
		countQuery = `SELECT COUNT(*) FROM users WHERE role = $1`
		listQuery = `SELECT id, email, name, password_hash, role, created_at, updated_at
		             FROM users WHERE role = $1 ORDER BY name LIMIT $2 OFFSET $3`
		args = []interface{}{role, limit, offset}

		if err := r.pool.QueryRow(ctx, countQuery, role).Scan(&total); err != nil {
			return nil, 0, err
		}
	} else {
		if err := r.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
			return nil, 0, err
		}
	}

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO users (email, name, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		u.Email, u.Name, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

// Update modifies an existing user. An empty password hash keeps the old one.
func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	if u.PasswordHash != "" {
		_, err := r.pool.Exec(ctx,
			`UPDATE users SET email = $1, name = $2, password_hash = $3, role = $4, updated_at = NOW()
			 WHERE id = $5`,
			u.Email, u.Name, u.PasswordHash, u.Role, u.ID,
		)
		return err
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET email = $1, name = $2, role = $3, updated_at = NOW()
		 WHERE id = $4`,
		u.Email, u.Name, u.Role, u.ID,
	)
	return err
}

// Delete removes a user by its ID.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}
