package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

// dialTestConn upgrades a loopback connection and returns the client side
// plus a channel yielding every frame the server reads. The channel closes
// when the client side closes the connection.
func dialTestConn(t *testing.T) (*websocket.Conn, <-chan string) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	frames := make(chan string, 256)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error("upgrade:", err)
			return
		}
		defer conn.Close()
		for {
			var frame struct {
				Event string `json:"event"`
			}
			if err := conn.ReadJSON(&frame); err != nil {
				close(frames)
				return
			}
			frames <- frame.Event
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal("dial:", err)
	}
	return conn, frames
}

func TestWriterSerializesConcurrentSenders(t *testing.T) {
	conn, frames := dialTestConn(t)

	writer := NewWriter(conn)

	const senders = 8
	const perSender = 25

	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				if !writer.Send(PongResponse{Event: EventPong}) {
					t.Error("Send returned false while pump alive")
					return
				}
			}
		}()
	}
	wg.Wait()

	// Close flushes queued frames before the pump exits.
	writer.Close()
	conn.Close()

	got := 0
	for event := range frames {
		if event != string(EventPong) {
			t.Errorf("frame event = %q, want %q", event, EventPong)
		}
		got++
	}
	if got != senders*perSender {
		t.Errorf("server received %d frames, want %d", got, senders*perSender)
	}
}

func TestWriterSendAfterClose(t *testing.T) {
	conn, frames := dialTestConn(t)

	writer := NewWriter(conn)
	writer.Close()

	if writer.Send(PongResponse{Event: EventPong}) {
		t.Error("Send after Close returned true")
	}
	if writer.SendError("late") {
		t.Error("SendError after Close returned true")
	}

	conn.Close()
	for range frames {
		t.Error("unexpected frame after Close")
	}
}
