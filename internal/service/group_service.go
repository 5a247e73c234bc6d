package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openswad/swad-backend/internal/config"
	"github.com/openswad/swad-backend/internal/model"
	"github.com/openswad/swad-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// snapshotTTL bounds staleness of the cached group-type structure between
// explicit invalidations (the scheduler clears open times without going
// through this service).
const snapshotTTL = time.Minute

// GroupService handles group-type and group administration plus read views.
type GroupService struct {
	typeRepo  *repository.GroupTypeRepository
	groupRepo *repository.GroupRepository
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewGroupService creates a new GroupService.
func NewGroupService(typeRepo *repository.GroupTypeRepository, groupRepo *repository.GroupRepository, rdb *redis.Client, log zerolog.Logger) *GroupService {
	return &GroupService{
		typeRepo:  typeRepo,
		groupRepo: groupRepo,
		rdb:       rdb,
		log:       log.With().Str("component", "group_service").Logger(),
	}
}

// listTypes returns the course's group types, served from the Redis snapshot
// when one exists. Member counts and membership flags are never cached; they
// come live from the groups query.
func (s *GroupService) listTypes(ctx context.Context, courseID int64) ([]model.GroupType, error) {
	key := config.CacheKey.CourseGroupSnapshotKey(courseID)

	cached, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		var types []model.GroupType
		if err := json.Unmarshal([]byte(cached), &types); err == nil {
			return types, nil
		}
		s.log.Warn().Int64("course_id", courseID).Msg("Corrupt group snapshot, refetching")
	}

	types, err := s.typeRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(types); err == nil {
		if err := s.rdb.Set(ctx, key, data, snapshotTTL).Err(); err != nil {
			s.log.Warn().Err(err).Int64("course_id", courseID).Msg("Group snapshot store failed")
		}
	}
	return types, nil
}

// invalidateSnapshot drops the cached group-type structure after a mutation.
// Best effort: the TTL bounds staleness if the delete fails.
func (s *GroupService) invalidateSnapshot(ctx context.Context, courseID int64) {
	key := config.CacheKey.CourseGroupSnapshotKey(courseID)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.log.Warn().Err(err).Int64("course_id", courseID).Msg("Group snapshot invalidation failed")
	}
}

// ListCourseGroups returns the course's group types with their groups,
// member counts, and the requesting user's membership flags.
func (s *GroupService) ListCourseGroups(ctx context.Context, courseID, userID int64) ([]model.GroupTypeWithGroups, error) {
	types, err := s.listTypes(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list group types: %w", err)
	}

	groups, err := s.groupRepo.ListByCourse(ctx, courseID, userID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	byType := make(map[int64][]model.GroupWithMembership, len(types))
	for _, g := range groups {
		byType[g.GroupTypeID] = append(byType[g.GroupTypeID], g)
	}

	out := make([]model.GroupTypeWithGroups, 0, len(types))
	for _, gt := range types {
		out = append(out, model.GroupTypeWithGroups{
			GroupType: gt,
			Groups:    byType[gt.ID],
		})
	}
	return out, nil
}

// ─── Group types ────────────────────────────────────────────────────────────

func (s *GroupService) GetType(ctx context.Context, id int64) (*model.GroupType, error) {
	return s.typeRepo.GetByID(ctx, id)
}

func (s *GroupService) CreateType(ctx context.Context, gt *model.GroupType) error {
	if err := s.typeRepo.Create(ctx, gt); err != nil {
		return err
	}
	s.invalidateSnapshot(ctx, gt.CourseID)
	return nil
}

func (s *GroupService) UpdateType(ctx context.Context, gt *model.GroupType) error {
	if err := s.typeRepo.Update(ctx, gt); err != nil {
		return err
	}
	s.invalidateSnapshot(ctx, gt.CourseID)
	return nil
}

// DeleteType removes a group type; its groups and their enrollments cascade.
func (s *GroupService) DeleteType(ctx context.Context, courseID, id int64) error {
	if err := s.typeRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateSnapshot(ctx, courseID)
	return nil
}

// ─── Groups ─────────────────────────────────────────────────────────────────

func (s *GroupService) GetGroup(ctx context.Context, id int64) (*model.Group, error) {
	return s.groupRepo.GetByID(ctx, id)
}

func (s *GroupService) CreateGroup(ctx context.Context, g *model.Group) error {
	return s.groupRepo.Create(ctx, g)
}

// UpdateGroup modifies a group's name, capacity and flags. Lowering the
// capacity below the current member count is allowed: capacity is enforced
// only at enrollment time, existing members are never evicted.
func (s *GroupService) UpdateGroup(ctx context.Context, g *model.Group) error {
	return s.groupRepo.Update(ctx, g)
}

// SetGroupOpen opens or closes a group for enrollment changes.
func (s *GroupService) SetGroupOpen(ctx context.Context, id int64, open bool) error {
	return s.groupRepo.SetOpen(ctx, id, open)
}

func (s *GroupService) DeleteGroup(ctx context.Context, id int64) error {
	return s.groupRepo.Delete(ctx, id)
}

// CourseOfGroup resolves which course a group belongs to, for scope checks.
func (s *GroupService) CourseOfGroup(ctx context.Context, groupID int64) (int64, error) {
	return s.groupRepo.CourseOfGroup(ctx, groupID)
}

// ListMembers retrieves the roster of one group.
func (s *GroupService) ListMembers(ctx context.Context, groupID int64) ([]model.GroupMember, error) {
	return s.groupRepo.ListMembers(ctx, groupID)
}
