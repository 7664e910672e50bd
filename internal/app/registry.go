package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/domain"
)

// Member pairs a room member's identity with its live session.
type Member struct {
	User    domain.User
	Session *Session
}

// Registry owns every room's member set. Rooms are created on first join
// and deleted the moment their member set empties. Operations on one room
// serialize on that room's lock; different rooms never contend.
type Registry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomKey]*roomState
}

type roomState struct {
	mu sync.Mutex
	// dead marks an entry that lost the race with delete-on-empty; a Join
	// holding a stale pointer retries against the map.
	dead    bool
	members map[domain.UserID]*Session
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[domain.RoomKey]*roomState)}
}

// Join adds the session's identity to the room, creating the room if
// needed. Idempotent: rejoining refreshes the session binding. Returns the
// full member snapshot and how many other identities were present.
func (r *Registry) Join(room domain.RoomKey, s *Session) (members []Member, others int) {
	for {
		rs := r.getOrCreate(room)
		rs.mu.Lock()
		if rs.dead {
			rs.mu.Unlock()
			continue
		}
		rs.members[s.User.ID] = s
		s.setRoom(room)
		members = rs.snapshot()
		rs.mu.Unlock()
		log.Info().Str("module", "app.registry").Str("room", string(room)).
			Str("user", string(s.User.ID)).Int("size", len(members)).Msg("member joined")
		return members, len(members) - 1
	}
}

// Leave removes the session's identity from the room. A leave for a room or
// identity that is not present is a no-op. gone reports that the room entry
// was discarded (or never existed); callers treat gone and an empty
// remaining list the same way: nobody left to notify.
func (r *Registry) Leave(room domain.RoomKey, s *Session) (remaining []Member, gone bool) {
	r.mu.RLock()
	rs := r.rooms[room]
	r.mu.RUnlock()
	if rs == nil {
		s.setRoom("")
		return nil, true
	}

	rs.mu.Lock()
	if cur, ok := rs.members[s.User.ID]; ok && cur == s {
		delete(rs.members, s.User.ID)
	}
	s.setRoom("")
	empty := len(rs.members) == 0
	remaining = rs.snapshot()
	rs.mu.Unlock()

	if !empty {
		log.Info().Str("module", "app.registry").Str("room", string(room)).
			Str("user", string(s.User.ID)).Int("size", len(remaining)).Msg("member left")
		return remaining, false
	}

	// Revalidate under both locks before discarding the entry: a concurrent
	// Join may have repopulated it.
	r.mu.Lock()
	if cur := r.rooms[room]; cur == rs {
		rs.mu.Lock()
		if len(rs.members) == 0 {
			rs.dead = true
			delete(r.rooms, room)
			log.Info().Str("module", "app.registry").Str("room", string(room)).Msg("room emptied")
		}
		rs.mu.Unlock()
	}
	r.mu.Unlock()
	return nil, true
}

// MembersOf returns a read-only snapshot; empty for unknown rooms.
func (r *Registry) MembersOf(room domain.RoomKey) []Member {
	r.mu.RLock()
	rs := r.rooms[room]
	r.mu.RUnlock()
	if rs == nil {
		return nil
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.snapshot()
}

func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

func (r *Registry) getOrCreate(room domain.RoomKey) *roomState {
	r.mu.RLock()
	rs := r.rooms[room]
	r.mu.RUnlock()
	if rs != nil {
		return rs
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if rs = r.rooms[room]; rs == nil {
		rs = &roomState{members: make(map[domain.UserID]*Session)}
		r.rooms[room] = rs
	}
	return rs
}

// snapshot must be called with rs.mu held.
func (rs *roomState) snapshot() []Member {
	out := make([]Member, 0, len(rs.members))
	for _, sess := range rs.members {
		out = append(out, Member{User: *sess.User, Session: sess})
	}
	return out
}
