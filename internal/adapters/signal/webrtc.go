package signal

import (
	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

// handleNegotiation relays offer/answer/candidate payloads untouched. The
// server never reads SDP or candidate contents; peer selection is the
// receiving client's job, keyed on the from field.
func (ctl *SignalWSController) handleNegotiation(sess *app.Session, conn *wsSignalConn, env core.Envelope) {
	if env.Room == "" || len(env.Payload) == 0 {
		ctl.sendError(conn, "bad_payload")
		return
	}
	ctl.Relay.Forward(sess, env.Type, domain.RoomKey(env.Room), env.Payload)
}
