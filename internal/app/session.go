package app

import (
	"sync"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

// Session is the per-connection state: one verified identity, at most one
// joined room, and the outbound half of the transport. The room field is
// mutated only inside Registry operations, under the owning room's lock,
// so the session's view and the registry's never disagree.
type Session struct {
	ID   core.SessionID
	User *domain.User

	conn core.SignalConnection

	mu     sync.Mutex
	room   domain.RoomKey
	closed bool
}

func NewSession(id core.SessionID, user *domain.User, conn core.SignalConnection) *Session {
	return &Session{ID: id, User: user, conn: conn}
}

// Room returns the currently joined room key, empty when not in a room.
func (s *Session) Room() domain.RoomKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room
}

func (s *Session) setRoom(room domain.RoomKey) {
	s.mu.Lock()
	s.room = room
	s.mu.Unlock()
}

// Send enqueues a frame on the session's transport. Closed sessions report
// a delivery miss instead of panicking.
func (s *Session) Send(f core.Frame) error {
	return s.conn.TrySend(f)
}

// closeOnce flips the session to closed and reports whether this call was
// the one that did it. The disconnect path runs at most once.
func (s *Session) closeOnce() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.closed = true
	return true
}

// Close shuts the underlying transport.
func (s *Session) Close() {
	s.conn.Close()
}
