package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/openswad/swad-backend/internal/model"
	"github.com/openswad/swad-backend/internal/repository"
)

// CourseService handles course and course-membership business logic.
type CourseService struct {
	courseRepo *repository.CourseRepository
	notifier   *NotificationService
}

// NewCourseService creates a new CourseService.
func NewCourseService(courseRepo *repository.CourseRepository, notifier *NotificationService) *CourseService {
	return &CourseService{courseRepo: courseRepo, notifier: notifier}
}

func (s *CourseService) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

func (s *CourseService) ListByDegree(ctx context.Context, degreeID int64) ([]model.Course, error) {
	return s.courseRepo.ListByDegree(ctx, degreeID)
}

// ListMine retrieves the courses the user belongs to.
func (s *CourseService) ListMine(ctx context.Context, userID int64) ([]model.Course, error) {
	return s.courseRepo.ListForUser(ctx, userID)
}

func (s *CourseService) Create(ctx context.Context, crs *model.Course) error {
	return s.courseRepo.Create(ctx, crs)
}

func (s *CourseService) Update(ctx context.Context, crs *model.Course) error {
	return s.courseRepo.Update(ctx, crs)
}

func (s *CourseService) Delete(ctx context.Context, id int64) error {
	return s.courseRepo.Delete(ctx, id)
}

// ─── Membership ─────────────────────────────────────────────────────────────

// EnsureTeaches verifies that the actor may manage the course: admins always
// can, teachers only when they hold the TEACHER role inside it.
func (s *CourseService) EnsureTeaches(ctx context.Context, courseID int64, actor Actor) error {
	if actor.Role == model.RoleAdmin {
		return nil
	}
	role, err := s.courseRepo.GetMemberRole(ctx, courseID, actor.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotCourseMember
		}
		return fmt.Errorf("check membership: %w", err)
	}
	if role != model.CourseRoleTeacher {
		return ErrNotCourseMember
	}
	return nil
}

// EnsureMember verifies that the user belongs to the course (any role).
// Admins pass without a membership row.
func (s *CourseService) EnsureMember(ctx context.Context, courseID int64, actor Actor) error {
	if actor.Role == model.RoleAdmin {
		return nil
	}
	_, err := s.courseRepo.GetMemberRole(ctx, courseID, actor.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotCourseMember
	}
	return err
}

// ListMembers retrieves the members of a course, optionally filtered by role.
func (s *CourseService) ListMembers(ctx context.Context, courseID int64, role model.CourseRole) ([]model.CourseMember, error) {
	return s.courseRepo.ListMembers(ctx, courseID, role)
}

// AddMember enrolls a user in a course and queues a notification for them.
func (s *CourseService) AddMember(ctx context.Context, courseID, userID int64, role model.CourseRole) error {
	if err := s.courseRepo.AddMember(ctx, courseID, userID, role); err != nil {
		return err
	}
	s.notifier.EnqueueCourseMembership(ctx, userID, courseID, true)
	return nil
}

// RemoveMember removes a user from a course together with all their group
// memberships in it, and queues a notification for them.
func (s *CourseService) RemoveMember(ctx context.Context, courseID, userID int64) error {
	if err := s.courseRepo.RemoveMember(ctx, courseID, userID); err != nil {
		return err
	}
	s.notifier.EnqueueCourseMembership(ctx, userID, courseID, false)
	return nil
}
