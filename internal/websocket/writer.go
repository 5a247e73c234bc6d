package websocket

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Writer serializes outbound frames through a single goroutine.
// gorilla/websocket permits at most one concurrent writer per connection,
// so every goroutine that wants to push a frame goes through Send.
type Writer struct {
	conn *websocket.Conn
	out  chan interface{}
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewWriter starts the write pump for conn.
func NewWriter(conn *websocket.Conn) *Writer {
	w := &Writer{
		conn: conn,
		out:  make(chan interface{}, 16),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go w.pump()
	return w
}

// Send queues a frame for writing. It returns false once the pump has
// stopped, either via Close or after a failed write.
func (w *Writer) Send(v interface{}) bool {
	select {
	case w.out <- v:
		return true
	case <-w.done:
		return false
	}
}

// SendError queues an ErrorResponse frame.
func (w *Writer) SendError(errMsg string) bool {
	return w.Send(ErrorResponse{
		Event: EventError,
		Error: errMsg,
	})
}

// Close stops the pump after flushing already-queued frames and waits for
// it to exit. The connection itself stays open for the caller to close.
func (w *Writer) Close() {
	w.once.Do(func() { close(w.stop) })
	<-w.done
}

func (w *Writer) pump() {
	defer close(w.done)
	for {
		select {
		case v := <-w.out:
			if err := WriteTyped(w.conn, v); err != nil {
				// Tear the connection down so the read side unblocks too.
				w.conn.Close()
				return
			}
		case <-w.stop:
			for {
				select {
				case v := <-w.out:
					if err := WriteTyped(w.conn, v); err != nil {
						w.conn.Close()
						return
					}
				default:
					return
				}
			}
		}
	}
}
