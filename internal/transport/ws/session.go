package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 5 * time.Second

// wsSession wraps a gorilla connection. Writes are serialized: broadcasts and
// sender-only events may race from different goroutines.
type wsSession struct {
	conn      *websocket.Conn
	sendMu    chan struct{}
	closeOnce sync.Once
}

func newSession(conn *websocket.Conn) *wsSession {
	return &wsSession{
		conn:   conn,
		sendMu: make(chan struct{}, 1),
	}
}

func (s *wsSession) Send(ev any) error {
	s.sendMu <- struct{}{}
	defer func() { <-s.sendMu }()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteJSON(ev)
}

// Close is idempotent; the hub may prune a session while its read loop is
// tearing down.
func (s *wsSession) Close() error {
	var err error
	s.closeOnce.Do(func() { err = s.conn.Close() })
	return err
}
