package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openswad/swad-backend/internal/model"
)

// NotificationRepository handles notification persistence.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// ListByUser retrieves a page of a user's notifications, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Notification, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, event_type, course_id, group_id, payload, read_at, created_at
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notifs []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Event, &n.CourseID, &n.GroupID, &n.Payload, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		notifs = append(notifs, n)
	}
	return notifs, total, rows.Err()
}

// MarkRead marks one notification of the user as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, notificationID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND read_at IS NULL`,
		notificationID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MarkAllRead marks all of the user's unread notifications as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read_at = NOW()
		 WHERE user_id = $1 AND read_at IS NULL`, userID)
	return err
}

// BulkInsert persists a batch of notifications in one statement.
func (r *NotificationRepository) BulkInsert(ctx context.Context, batch []model.Notification) error {
	if len(batch) == 0 {
		return nil
	}

	n := len(batch)
	userIDs := make([]int64, n)
	events := make([]string, n)
	courseIDs := make([]int64, n)
	groupIDs := make([]*int64, n)
	payloads := make([]string, n)
	createdAts := make([]time.Time, n)

	now := time.Now()
	for i, ntf := range batch {
		userIDs[i] = ntf.UserID
		events[i] = string(ntf.Event)
		courseIDs[i] = ntf.CourseID
		groupIDs[i] = ntf.GroupID
		payloads[i] = ntf.Payload
		if ntf.CreatedAt.IsZero() {
			createdAts[i] = now
		} else {
			createdAts[i] = ntf.CreatedAt
		}
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO notifications (user_id, event_type, course_id, group_id, payload, created_at)
		 SELECT u.user_id, u.event_type, u.course_id, u.group_id, u.payload, u.created_at
		 FROM UNNEST(
		     $1::bigint[],
		     $2::text[],
		     $3::bigint[],
		     $4::bigint[],
		     $5::text[],
		     $6::timestamptz[]
		 ) AS u (user_id, event_type, course_id, group_id, payload, created_at)`,
		userIDs, events, courseIDs, groupIDs, payloads, createdAts)
	return err
}

// InsertOne persists a single notification, the fallback path when a bulk
// insert fails.
func (r *NotificationRepository) InsertOne(ctx context.Context, n *model.Notification) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO notifications (user_id, event_type, course_id, group_id, payload)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		n.UserID, n.Event, n.CourseID, n.GroupID, n.Payload,
	).Scan(&n.ID, &n.CreatedAt)
}
