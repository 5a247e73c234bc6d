package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/openswad/swad-backend/internal/config"
	"github.com/openswad/swad-backend/internal/middleware"
	"github.com/openswad/swad-backend/internal/service"
	ws "github.com/openswad/swad-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler handles the WebSocket notification stream.
type WSHandler struct {
	rdb                 *redis.Client
	notificationService *service.NotificationService
	log                 zerolog.Logger
	upgrader            websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, notificationService *service.NotificationService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:                 rdb,
		notificationService: notificationService,
		log:                 log.With().Str("component", "ws_handler").Logger(),
		upgrader:            buildUpgrader(allowedOrigins),
	}
}

// NotificationStream godoc
// WS /ws/v1/notifications?token=...
// Upgrades to WebSocket and pushes the user's notifications as they are
// persisted. Clients may send ping messages and ack delivered notifications.
func (h *WSHandler) NotificationStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	userID := claims.UserID

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Int64("user_id", userID).Logger()
	wsLog.Info().Msg("Notification stream connected")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := h.rdb.Subscribe(ctx, config.CacheKey.UserNotificationChannel(userID))
	defer sub.Close()

	// All outbound frames funnel through one write pump: the connection
	// permits a single concurrent writer, and both the pub/sub forwarder
	// and the read loop below produce frames.
	writer := ws.NewWriter(conn)
	defer writer.Close()

	// Forward published notifications to the socket. A failed write closes
	// the connection inside the pump; the read loop then exits on its own.
	go func() {
		for msg := range sub.Channel() {
			res := ws.NotificationResponse{
				Event:   ws.EventNotification,
				Payload: json.RawMessage(msg.Payload),
			}
			if !writer.Send(res) {
				return
			}
		}
	}()

	for {
		var msg ws.RequestPayload
		err := ws.ReadJSON(conn, &msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionPing:
			if !writer.Send(ws.PongResponse{Event: ws.EventPong}) {
				return
			}
		case ws.ActionAck:
			if msg.NotificationID <= 0 {
				if !writer.SendError("notification_id is required") {
					return
				}
				continue
			}
			if _, err := h.notificationService.MarkRead(ctx, userID, msg.NotificationID); err != nil {
				wsLog.Error().Err(err).Int64("notification_id", msg.NotificationID).Msg("Ack failed")
				if !writer.SendError("ack failed") {
					return
				}
			}
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			if !writer.SendError("unknown action: " + string(msg.Action)) {
				return
			}
		}
	}
}
