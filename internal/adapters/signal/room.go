package signal

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

func (ctl *SignalWSController) handleJoin(sess *app.Session, conn *wsSignalConn, env core.Envelope) {
	if env.Room == "" {
		ctl.sendError(conn, "bad_payload")
		return
	}
	if !ctl.Limiter.Allow(sess.User.ID) {
		log.Warn().Str("module", "signal").Str("user", string(sess.User.ID)).Msg("join rate limited")
		ctl.sendError(conn, "too_many_joins")
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sess.ID)).
		Str("room", env.Room).Msg("join")
	ctl.Relay.Join(sess, domain.RoomKey(env.Room))
}

// handleLeave exits the current room; the connection itself stays up.
func (ctl *SignalWSController) handleLeave(sess *app.Session, conn *wsSignalConn) {
	log.Info().Str("module", "signal").Str("sid", string(sess.ID)).Msg("leave")
	ctl.Relay.Leave(sess)
	ctl.sendJSON(conn, core.AckEvent{Type: core.KindLeft})
}
