// Package signal is the WebSocket adapter: it authenticates the handshake,
// pumps frames in both directions, and hands decoded events to the relay.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/auth"
	"github.com/dkeye/Meet/internal/config"
	"github.com/dkeye/Meet/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

type SignalWSController struct {
	Relay    *app.Relay
	Verifier auth.Verifier
	Profiles app.ProfileSink
	Limiter  *JoinRateLimiter

	cfg *config.Config
}

func NewSignalWSController(cfg *config.Config, relay *app.Relay, verifier auth.Verifier, profiles app.ProfileSink) *SignalWSController {
	return &SignalWSController{
		Relay:    relay,
		Verifier: verifier,
		Profiles: profiles,
		Limiter:  NewJoinRateLimiter(cfg.JoinLimit, cfg.JoinWindow),
		cfg:      cfg,
	}
}

type wsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal authenticates and upgrades one connection. A bad or missing
// token is refused before the upgrade; no session state exists for it.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	token, err := auth.BearerFromRequest(c.Request)
	if err != nil {
		log.Info().Err(err).Str("module", "signal").Msg("connection rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	user, err := ctl.Verifier.Verify(token)
	if err != nil {
		log.Info().Err(err).Str("module", "signal").Msg("connection rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := &wsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.cfg.SendBuffer),
	}
	sid := core.SessionID(uuid.NewString())
	sess := app.NewSession(sid, user, conn)

	if ctl.Profiles != nil {
		ctl.Profiles.Upsert(user.ID, user.Username)
	}
	ctl.Relay.Bind(sess)
	log.Info().Str("module", "signal").Str("sid", string(sid)).
		Str("user", string(user.ID)).Msg("new WS connection")

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, sess, conn)
}
