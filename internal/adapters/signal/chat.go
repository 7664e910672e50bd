package signal

import (
	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

func (ctl *SignalWSController) handleChat(sess *app.Session, conn *wsSignalConn, env core.Envelope) {
	if env.Room == "" || env.Text == "" {
		ctl.sendError(conn, "bad_payload")
		return
	}
	ctl.Relay.Chat(sess, domain.RoomKey(env.Room), env.Text)
}
