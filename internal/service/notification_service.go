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

// queuedNotification is the wire format pushed onto the Redis worker queue.
// The notification worker consumes it and persists the batch.
type queuedNotification struct {
	UserID    int64  `json:"user_id"`
	Event     string `json:"event"`
	CourseID  int64  `json:"course_id"`
	GroupID   *int64 `json:"group_id,omitempty"`
	Payload   string `json:"payload"`
	CreatedAt int64  `json:"created_at"`
}

// NotificationService handles notification listing and event production.
type NotificationService struct {
	notifRepo *repository.NotificationRepository
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notifRepo *repository.NotificationRepository, rdb *redis.Client, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		notifRepo: notifRepo,
		rdb:       rdb,
		log:       log.With().Str("component", "notification_service").Logger(),
	}
}

// List retrieves a page of the user's notifications.
func (s *NotificationService) List(ctx context.Context, userID int64, page, perPage int) ([]model.Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return s.notifRepo.ListByUser(ctx, userID, perPage, (page-1)*perPage)
}

// MarkRead marks one of the user's notifications as read. Returns false when
// the notification does not exist, belongs to someone else, or was already
// read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID int64) (bool, error) {
	return s.notifRepo.MarkRead(ctx, userID, notificationID)
}

// MarkAllRead marks all of the user's notifications as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	return s.notifRepo.MarkAllRead(ctx, userID)
}

// EnqueueGroupsChanged queues a GROUPS_CHANGED event for the user. Delivery
// is best effort; a queue failure is logged, never propagated.
func (s *NotificationService) EnqueueGroupsChanged(ctx context.Context, userID, courseID int64, removed, added int) {
	payload := fmt.Sprintf("left %d group(s), joined %d group(s)", removed, added)
	s.enqueue(ctx, queuedNotification{
		UserID:    userID,
		Event:     string(model.NotificationGroupsChanged),
		CourseID:  courseID,
		Payload:   payload,
		CreatedAt: time.Now().Unix(),
	})
}

// EnqueueCourseMembership queues an enrollment or removal event for the user.
func (s *NotificationService) EnqueueCourseMembership(ctx context.Context, userID, courseID int64, added bool) {
	event := model.NotificationEnrolledInCourse
	payload := "you were enrolled in a course"
	if !added {
		event = model.NotificationRemovedFromCourse
		payload = "you were removed from a course"
	}
	s.enqueue(ctx, queuedNotification{
		UserID:    userID,
		Event:     string(event),
		CourseID:  courseID,
		Payload:   payload,
		CreatedAt: time.Now().Unix(),
	})
}

func (s *NotificationService) enqueue(ctx context.Context, qn queuedNotification) {
	raw, err := json.Marshal(qn)
	if err != nil {
		s.log.Error().Err(err).Msg("Marshal notification event")
		return
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.NotificationQueue, raw).Err(); err != nil {
		s.log.Warn().Err(err).
			Int64("user_id", qn.UserID).
			Str("event", qn.Event).
			Msg("Enqueue notification failed")
	}
}
