package service

import (
	"context"

	"github.com/openswad/swad-backend/internal/model"
	"github.com/openswad/swad-backend/internal/repository"
)

// UserService handles platform account management.
type UserService struct {
	userRepo *repository.UserRepository
	auth     *AuthService
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repository.UserRepository, auth *AuthService) *UserService {
	return &UserService{userRepo: userRepo, auth: auth}
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetByEmail retrieves a user by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.userRepo.GetByEmail(ctx, email)
}

// List retrieves a page of users, optionally filtered by role.
func (s *UserService) List(ctx context.Context, role model.Role, page, perPage int) ([]model.User, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return s.userRepo.List(ctx, role, perPage, (page-1)*perPage)
}

// Create hashes the password and inserts the account.
func (s *UserService) Create(ctx context.Context, u *model.User, password string) error {
	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return s.userRepo.Create(ctx, u)
}

// Update modifies an account. An empty password keeps the current one.
func (s *UserService) Update(ctx context.Context, u *model.User, password string) error {
	if password != "" {
		hash, err := s.auth.HashPassword(password)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
	} else {
		u.PasswordHash = ""
	}
	return s.userRepo.Update(ctx, u)
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.userRepo.Delete(ctx, id)
}
