package app

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

// statusChange is one pending online-flag write for the directory.
type statusChange struct {
	id     domain.UserID
	online bool
}

// Notifier emits presence events to room members and mirrors membership
// into the external directory. Directory writes ride a buffered channel
// drained by Run, so a slow or failing store never stalls the relay path.
type Notifier struct {
	dir    Directory
	status chan statusChange
}

func NewNotifier(dir Directory) *Notifier {
	return &Notifier{dir: dir, status: make(chan statusChange, 64)}
}

// Run drains pending status writes until ctx is canceled. Write failures
// are logged and dropped; presence in the directory is best-effort.
func (n *Notifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ch := <-n.status:
			if err := n.dir.SetOnline(ctx, ch.id, ch.online); err != nil {
				log.Warn().Err(err).Str("module", "app.presence").
					Str("user", string(ch.id)).Bool("online", ch.online).Msg("status write failed")
			}
		}
	}
}

// MarkOnline queues an online-flag write. A full queue drops the write
// rather than block the caller.
func (n *Notifier) MarkOnline(id domain.UserID, online bool) {
	select {
	case n.status <- statusChange{id: id, online: online}:
	default:
		log.Warn().Str("module", "app.presence").Str("user", string(id)).Msg("status queue full, write dropped")
	}
}

// MemberJoined fans the refreshed roster to everyone already in the room
// and, when a peer was already waiting, hints the newcomer to originate the
// offer. Hinting only the newcomer keeps both sides from offering at once.
func (n *Notifier) MemberJoined(room domain.RoomKey, joined *Session, members []Member, others int) {
	frame, err := json.Marshal(core.PresenceEvent{Type: core.KindPresence, Room: room, Members: usersOf(members)})
	if err != nil {
		log.Error().Err(err).Str("module", "app.presence").Msg("marshal presence")
		return
	}
	for _, m := range members {
		if m.Session == joined {
			continue
		}
		if err := m.Session.Send(frame); err != nil {
			log.Debug().Err(err).Str("module", "app.presence").
				Str("user", string(m.User.ID)).Msg("presence delivery miss")
		}
	}

	if others > 0 {
		hint, err := json.Marshal(core.InitiateEvent{Type: core.KindInitiate, Room: room})
		if err != nil {
			log.Error().Err(err).Str("module", "app.presence").Msg("marshal initiate")
			return
		}
		if err := joined.Send(hint); err != nil {
			log.Debug().Err(err).Str("module", "app.presence").
				Str("user", string(joined.User.ID)).Msg("initiate delivery miss")
		}
	}

	n.MarkOnline(joined.User.ID, true)
}

// MemberLeft fans the shrunken roster to the survivors. An empty remaining
// list means the room is gone and there is nobody to tell.
func (n *Notifier) MemberLeft(room domain.RoomKey, left *Session, remaining []Member) {
	defer n.MarkOnline(left.User.ID, false)
	if len(remaining) == 0 {
		return
	}
	frame, err := json.Marshal(core.PresenceEvent{Type: core.KindPresence, Room: room, Members: usersOf(remaining)})
	if err != nil {
		log.Error().Err(err).Str("module", "app.presence").Msg("marshal presence")
		return
	}
	for _, m := range remaining {
		if err := m.Session.Send(frame); err != nil {
			log.Debug().Err(err).Str("module", "app.presence").
				Str("user", string(m.User.ID)).Msg("presence delivery miss")
		}
	}
}

func usersOf(members []Member) []domain.User {
	out := make([]domain.User, 0, len(members))
	for _, m := range members {
		out = append(out, m.User)
	}
	return out
}
