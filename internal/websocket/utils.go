package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeTimeout bounds a single push; a client that cannot drain a small
	// JSON frame this long is gone.
	writeTimeout = 10 * time.Second

	// readTimeout is how long a client may stay silent. Clients send periodic
	// ping actions, so an expired deadline means the peer disappeared.
	readTimeout = 5 * time.Minute
)

// WriteTyped sends a typed payload over the connection under writeTimeout.
// Callers with more than one writing goroutine must go through Writer.
func WriteTyped(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(v)
}

// ReadJSON reads the next frame into v, resetting the read deadline first.
func ReadJSON(conn *websocket.Conn, v interface{}) error {
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	return conn.ReadJSON(v)
}
