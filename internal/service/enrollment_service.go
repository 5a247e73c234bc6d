package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/openswad/swad-backend/internal/model"
	"github.com/openswad/swad-backend/internal/repository"
	"github.com/rs/zerolog"
)

// Actor identifies who performs an operation.
type Actor struct {
	UserID int64
	Role   model.Role
}

// EnrollmentService implements the group-membership change operation.
type EnrollmentService struct {
	enrollRepo *repository.EnrollmentRepository
	courseRepo *repository.CourseRepository
	notifier   *NotificationService
	log        zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService.
func NewEnrollmentService(
	enrollRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	notifier *NotificationService,
	log zerolog.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		enrollRepo: enrollRepo,
		courseRepo: courseRepo,
		notifier:   notifier,
		log:        log.With().Str("component", "enrollment_service").Logger(),
	}
}

// ChangeUserGroups makes the target user's group memberships in the course
// equal the desired selection, as one unit of work. The selection is a flat
// list of group ids covering every group type of the course; a type absent
// from the selection means "no group of this type". Non-positive ids and
// duplicates are dropped before planning.
//
// A student acting on themselves faces the full rule set: closed groups are
// terminal (cannot be dropped or joined) and capacities are honored. A
// privileged actor (admin, or a teacher of the course) performs the pure
// membership diff with no open/capacity checks. The single-enrollment
// multiplicity guard applies to everyone.
//
// All checks run, and the diff applies, inside one transaction holding row
// locks on the course's groups, so concurrent changes in the same course
// serialize while other courses proceed. Any rule violation aborts with no
// mutation. Returns whether any membership actually changed; re-running with
// the same selection reports unchanged.
func (s *EnrollmentService) ChangeUserGroups(ctx context.Context, courseID, targetUserID int64, desired []int64, actor Actor) (bool, error) {
	self := actor.UserID == targetUserID

	if !self {
		// Teachers may only manage users of courses they teach. Admins pass.
		if actor.Role != model.RoleAdmin {
			role, err := s.courseRepo.GetMemberRole(ctx, courseID, actor.UserID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return false, ErrNotCourseMember
				}
				return false, fmt.Errorf("check actor membership: %w", err)
			}
			if role != model.CourseRoleTeacher {
				return false, ErrNotCourseMember
			}
		}
	}

	// The target must belong to the course.
	targetRole, err := s.courseRepo.GetMemberRole(ctx, courseID, targetUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrNotCourseMember
		}
		return false, fmt.Errorf("check target membership: %w", err)
	}

	enforceRules := self && actor.Role == model.RoleStudent && targetRole == model.CourseRoleStudent

	desired = normalizeSelection(desired)

	tx, err := s.enrollRepo.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	groups, err := s.enrollRepo.LockCourseGroups(ctx, tx, courseID)
	if err != nil {
		return false, fmt.Errorf("lock course groups: %w", err)
	}

	current, err := s.enrollRepo.UserGroupIDs(ctx, tx, courseID, targetUserID)
	if err != nil {
		return false, fmt.Errorf("read current memberships: %w", err)
	}

	plan, err := planMembership(groups, current, desired, enforceRules)
	if err != nil {
		return false, err
	}

	if plan.empty() {
		// Nothing to do; the rollback releases the locks without writes.
		return false, nil
	}

	if err := s.enrollRepo.Remove(ctx, tx, targetUserID, plan.Remove); err != nil {
		return false, fmt.Errorf("remove memberships: %w", err)
	}
	if err := s.enrollRepo.Add(ctx, tx, targetUserID, plan.Add); err != nil {
		return false, fmt.Errorf("add memberships: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}

	s.log.Info().
		Int64("course_id", courseID).
		Int64("user_id", targetUserID).
		Int64("actor_id", actor.UserID).
		Int("removed", len(plan.Remove)).
		Int("added", len(plan.Add)).
		Msg("Group memberships changed")

	// Best effort, after commit. A lost event never rolls back the change.
	s.notifier.EnqueueGroupsChanged(ctx, targetUserID, courseID, len(plan.Remove), len(plan.Add))

	return true, nil
}
