package app

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

// Relay routes inbound events to the right recipients and keeps session and
// room membership consistent. It is the only writer of room membership; the
// WS adapter hands every event here.
type Relay struct {
	Rooms    *Registry
	Presence *Notifier
	Dir      Directory

	// ChatEcho sends chat back to its sender too. Off by default: clients
	// render their own line locally.
	ChatEcho bool

	mu       sync.Mutex
	sessions map[core.SessionID]*Session
}

func NewRelay(rooms *Registry, presence *Notifier, dir Directory, chatEcho bool) *Relay {
	return &Relay{
		Rooms:    rooms,
		Presence: presence,
		Dir:      dir,
		ChatEcho: chatEcho,
		sessions: make(map[core.SessionID]*Session),
	}
}

// Bind registers a freshly authenticated session.
func (r *Relay) Bind(s *Session) {
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	log.Info().Str("module", "app.relay").Str("sid", string(s.ID)).
		Str("user", string(s.User.ID)).Msg("session bound")
}

func (r *Relay) SessionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Join moves the session into room, leaving any prior room first so that
// both rooms' members hear about the switch.
func (r *Relay) Join(s *Session, room domain.RoomKey) {
	if prev := s.Room(); prev != "" && prev != room {
		r.leaveRoom(s, prev)
	}
	members, others := r.Rooms.Join(room, s)
	r.Presence.MemberJoined(room, s, members, others)
}

// Leave runs the explicit leave path; safe when not in any room.
func (r *Relay) Leave(s *Session) {
	if room := s.Room(); room != "" {
		r.leaveRoom(s, room)
	}
}

func (r *Relay) leaveRoom(s *Session, room domain.RoomKey) {
	remaining, _ := r.Rooms.Leave(room, s)
	r.Presence.MemberLeft(room, s, remaining)
}

// Disconnect tears the session down exactly once: leave the current room,
// notify survivors, drop the binding, close the transport. A second call
// for the same session is a no-op, so a double close never double-
// decrements membership.
func (r *Relay) Disconnect(s *Session) {
	if !s.closeOnce() {
		return
	}
	r.Leave(s)
	r.mu.Lock()
	delete(r.sessions, s.ID)
	r.mu.Unlock()
	s.Close()
	log.Info().Str("module", "app.relay").Str("sid", string(s.ID)).
		Str("user", string(s.User.ID)).Msg("session closed")
}

// Chat fans a chat line out to the room. The sender must currently be in
// the target room; the delivered event carries the sender's identity and
// directory display name, never anything client-supplied.
func (r *Relay) Chat(s *Session, room domain.RoomKey, text string) {
	if s.Room() != room {
		log.Warn().Str("module", "app.relay").Str("user", string(s.User.ID)).
			Str("room", string(room)).Msg("chat for room the sender is not in")
		return
	}
	from := *s.User
	if name, err := r.Dir.DisplayName(context.Background(), s.User.ID); err == nil && name != "" {
		from.Username = name
	}
	frame, err := json.Marshal(core.ChatEvent{Type: core.KindChat, Room: room, From: from, Text: text})
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("marshal chat")
		return
	}
	for _, m := range r.Rooms.MembersOf(room) {
		if !r.ChatEcho && m.Session == s {
			continue
		}
		if err := m.Session.Send(frame); err != nil {
			log.Debug().Err(err).Str("module", "app.relay").
				Str("user", string(m.User.ID)).Msg("chat delivery miss")
		}
	}
}

// Forward relays an opaque negotiation payload (offer, answer, candidate)
// to every other current member of the room, tagged with the sender
// identity. With more than two members this fans out to all peers — a
// deliberate simplification; receivers disambiguate by the from field.
func (r *Relay) Forward(s *Session, kind string, room domain.RoomKey, payload json.RawMessage) {
	if s.Room() != room {
		log.Warn().Str("module", "app.relay").Str("user", string(s.User.ID)).
			Str("room", string(room)).Str("kind", kind).Msg("signal for room the sender is not in")
		return
	}
	frame, err := json.Marshal(core.SignalEvent{Type: kind, Room: room, From: *s.User, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("marshal signal")
		return
	}
	for _, m := range r.Rooms.MembersOf(room) {
		if m.Session == s {
			continue
		}
		if err := m.Session.Send(frame); err != nil {
			log.Debug().Err(err).Str("module", "app.relay").
				Str("user", string(m.User.ID)).Str("kind", kind).Msg("signal delivery miss")
		}
	}
}

// Shutdown closes every live session, running each leave path so no
// membership outlives its connection.
func (r *Relay) Shutdown() {
	r.mu.Lock()
	all := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.mu.Unlock()
	for _, s := range all {
		r.Disconnect(s)
	}
	log.Info().Str("module", "app.relay").Int("sessions", len(all)).Msg("relay shut down")
}
