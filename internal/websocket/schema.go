package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
	ActionAck  Action = "ack"
)

// RequestPayload is the single client message shape. Ack carries the id of a
// delivered notification the client has displayed.
type RequestPayload struct {
	Action         Action `json:"action"`
	NotificationID int64  `json:"notification_id,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError        Event = "error"
	EventNotification Event = "notification"
	EventPong         Event = "pong"
)

// NotificationResponse pushes one notification to the client as it happens.
type NotificationResponse struct {
	Event   Event       `json:"event"`
	Payload interface{} `json:"payload"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
