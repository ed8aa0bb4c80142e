package guest

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// session is one connected page with its outbox.
type session struct {
	conn *websocket.Conn

	mu     sync.Mutex
	cond   *sync.Cond
	outbox []frame
	closed bool
}

func newSession(conn *websocket.Conn) *session {
	s := &session{conn: conn}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// enqueue adds f to the outbox. It returns false once the session is
// closed.
func (s *session) enqueue(f frame) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.outbox = append(s.outbox, f)
	s.cond.Signal()
	return true
}

func (s *session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *session) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.outbox = nil
	s.cond.Broadcast()
	s.mu.Unlock()
	s.conn.Close()
}

// writeLoop sends queued frames in order until the session closes.
func (s *session) writeLoop() {
	for {
		s.mu.Lock()
		for len(s.outbox) == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()
			return
		}
		batch := s.outbox
		s.outbox = nil
		s.mu.Unlock()

		for _, f := range batch {
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(f); err != nil {
				if !s.isClosed() {
					log.Printf("Warning: guest write %s failed: %v", f.Event, err)
				}
				s.close()
				return
			}
		}
	}
}
