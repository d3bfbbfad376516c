package signaling

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const sendBufferSize = 32

// Session is one active connection and its bound identity. It is created on
// a successful handshake, owned by the gateway for its lifetime and
// referenced (not owned) by the registry as the user's send handle.
type Session struct {
	ID     string // per-connection id, for log correlation only
	UserID string
	RoomID string // empty means the user sits in the lobby

	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	mu        sync.Mutex // guards data-frame writes and isClosed
	isClosed  bool
	closeOnce sync.Once
}

func newSession(conn *websocket.Conn, userID, roomID string) *Session {
	return &Session{
		ID:     uuid.NewString(),
		UserID: userID,
		RoomID: roomID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}
}

// Push queues a payload for delivery. It never blocks: a full buffer or a
// finished session drops the payload and reports false.
func (s *Session) Push(payload []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.send <- payload:
		return true
	default:
		return false
	}
}

func (s *Session) keepAlive() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.isClosed {
				s.mu.Unlock()
				return
			}
			err := s.conn.WriteMessage(websocket.PingMessage, nil)
			s.mu.Unlock()

			if err != nil {
				log.Printf("[signal] ping error for %s (%s): %v", s.UserID, s.ID, err)
				return
			}
		}
	}
}

func (s *Session) writePump() {
	defer s.finish()

	for {
		select {
		case <-s.done:
			return
		case payload := <-s.send:
			s.mu.Lock()
			if s.isClosed {
				s.mu.Unlock()
				return
			}
			err := s.conn.WriteMessage(websocket.TextMessage, payload)
			s.mu.Unlock()

			if err != nil {
				log.Printf("[signal] write error for %s (%s): %v", s.UserID, s.ID, err)
				return
			}
		}
	}
}

// finish ends the pumps and closes the transport. Safe to call repeatedly
// and from any goroutine.
func (s *Session) finish() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		s.isClosed = true
		s.conn.Close()
		s.mu.Unlock()
	})
}

// evict closes a superseded session with a going-away frame so the old
// client learns it was replaced rather than seeing a bare drop.
func (s *Session) evict() {
	deadline := time.Now().Add(time.Second)
	_ = s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "superseded by a new connection"),
		deadline,
	)
	s.finish()
}
