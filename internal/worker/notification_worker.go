package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/openswad/swad-backend/internal/config"
	"github.com/openswad/swad-backend/internal/model"
	"github.com/openswad/swad-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	BatchSize    = 50
	BatchTimeout = 2 * time.Second
	PollTimeout  = 1 * time.Second // Must be >= 1s to satisfy Redis
)

// NotificationWorker consumes the notification queue, persists events in
// batches and publishes each one to its recipient's live channel.
type NotificationWorker struct {
	notifRepo *repository.NotificationRepository
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewNotificationWorker creates a new NotificationWorker.
func NewNotificationWorker(notifRepo *repository.NotificationRepository, rdb *redis.Client, log zerolog.Logger) *NotificationWorker {
	return &NotificationWorker{
		notifRepo: notifRepo,
		rdb:       rdb,
		log:       log.With().Str("component", "notification_worker").Logger(),
	}
}

// notificationPayload mirrors the wire format the services enqueue.
type notificationPayload struct {
	UserID    int64  `json:"user_id"`
	Event     string `json:"event"`
	CourseID  int64  `json:"course_id"`
	GroupID   *int64 `json:"group_id,omitempty"`
	Payload   string `json:"payload"`
	CreatedAt int64  `json:"created_at"`
}

func (p *notificationPayload) toModel() model.Notification {
	return model.Notification{
		UserID:    p.UserID,
		Event:     model.NotificationEvent(p.Event),
		CourseID:  p.CourseID,
		GroupID:   p.GroupID,
		Payload:   p.Payload,
		CreatedAt: time.Unix(p.CreatedAt, 0),
	}
}

// Start begins the worker loop. Call in a goroutine; cancel the context to
// stop. Remaining buffered items are flushed on shutdown.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	buffer := make([]*notificationPayload, 0, BatchSize)
	lastFlushTime := time.Now()

	for {
		// 1. Check flush conditions (time or size)
		if len(buffer) > 0 {
			if len(buffer) >= BatchSize || time.Since(lastFlushTime) >= BatchTimeout {
				w.flushSafe(ctx, buffer)
				buffer = buffer[:0]
				lastFlushTime = time.Now()
			}
		}

		// 2. Check context (graceful shutdown)
		select {
		case <-ctx.Done():
			w.shutdown(buffer)
			return
		default:
		}

		// 3. Fetch from Redis. BLPop blocks for 1 second and returns
		// immediately when data exists.
		result, err := w.rdb.BLPop(ctx, PollTimeout, config.WorkerKey.NotificationQueue).Result()
		if err != nil {
			if err == redis.Nil {
				continue // Queue empty, loop back to check flush timer
			}
			if ctx.Err() != nil {
				w.shutdown(buffer)
				return
			}
			w.log.Error().Err(err).Msg("Redis connection error, sleeping 3s")
			time.Sleep(3 * time.Second)
			continue
		}

		if len(result) < 2 {
			continue
		}

		var payload notificationPayload
		if err := json.Unmarshal([]byte(result[1]), &payload); err != nil {
			// Malformed JSON cannot be retried. Log and discard.
			w.log.Error().Err(err).Str("data", result[1]).Msg("Discarding malformed JSON")
			continue
		}

		buffer = append(buffer, &payload)
	}
}

// flushSafe attempts bulk insert, then row-by-row fallback with requeue,
// then pushes the persisted events to their recipients' live channels.
func (w *NotificationWorker) flushSafe(ctx context.Context, batch []*notificationPayload) {
	persisted := make([]model.Notification, 0, len(batch))

	rows := make([]model.Notification, len(batch))
	for i, p := range batch {
		rows[i] = p.toModel()
	}

	if err := w.notifRepo.BulkInsert(ctx, rows); err != nil {
		w.log.Warn().Err(err).Int("count", len(batch)).Msg("Bulk insert failed, attempting row-by-row recovery")
		persisted = w.fallbackInsert(ctx, batch)
	} else {
		persisted = rows
	}

	w.publish(ctx, persisted)
}

// fallbackInsert persists one row at a time and requeues the failures.
func (w *NotificationWorker) fallbackInsert(ctx context.Context, batch []*notificationPayload) []model.Notification {
	persisted := make([]model.Notification, 0, len(batch))
	requeueList := make([]*notificationPayload, 0)

	for _, p := range batch {
		n := p.toModel()
		if err := w.notifRepo.InsertOne(ctx, &n); err != nil {
			w.log.Error().Err(err).Int64("user_id", p.UserID).Msg("Insert failed, requeueing")
			requeueList = append(requeueList, p)
			continue
		}
		persisted = append(persisted, n)
	}

	if len(requeueList) > 0 {
		w.requeue(ctx, requeueList)
	}
	return persisted
}

func (w *NotificationWorker) requeue(ctx context.Context, items []*notificationPayload) {
	pipe := w.rdb.Pipeline()
	for _, p := range items {
		data, _ := json.Marshal(p)
		pipe.RPush(ctx, config.WorkerKey.NotificationQueue, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		w.log.Error().Err(err).Msg("CRITICAL: Failed to requeue items to Redis. Data loss occurred.")
		return
	}
	w.log.Info().Int("count", len(items)).Msg("Requeued failed items back to Redis")
	// Avoid thrashing while the database is down.
	time.Sleep(2 * time.Second)
}

// publish pushes persisted notifications to their recipients' PubSub
// channels so open WebSocket streams deliver them instantly.
func (w *NotificationWorker) publish(ctx context.Context, batch []model.Notification) {
	for i := range batch {
		data, err := json.Marshal(&batch[i])
		if err != nil {
			continue
		}
		channel := config.CacheKey.UserNotificationChannel(batch[i].UserID)
		if err := w.rdb.Publish(ctx, channel, data).Err(); err != nil {
			w.log.Error().Err(err).Int64("user_id", batch[i].UserID).Msg("Publish error")
		}
	}
}

func (w *NotificationWorker) shutdown(buffer []*notificationPayload) {
	w.log.Info().Msg("Worker stopping, flushing remaining buffer...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if len(buffer) > 0 {
		w.flushSafe(shutdownCtx, buffer)
	}
}
