package core

import (
	"encoding/json"

	"github.com/dkeye/Meet/internal/domain"
)

// Event kinds as they appear in the type field on the wire.
const (
	KindJoin      = "join"
	KindLeave     = "leave"
	KindChat      = "chat"
	KindOffer     = "offer"
	KindAnswer    = "answer"
	KindCandidate = "candidate"
	KindPresence  = "presence"
	KindInitiate  = "initiate"
	KindLeft      = "left"
	KindPing      = "ping"
	KindPong      = "pong"
	KindError     = "error"
)

// Envelope is an inbound client frame. Payload stays opaque for the
// negotiation kinds; the server never parses SDP or candidate contents.
// There is no from field: sender identity always comes from the session.
type Envelope struct {
	Type    string          `json:"type"`
	Room    string          `json:"room,omitempty"`
	Text    string          `json:"text,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ChatEvent is a relayed chat line. From carries the sender's identity and
// current display name.
type ChatEvent struct {
	Type string         `json:"type"`
	Room domain.RoomKey `json:"room"`
	From domain.User    `json:"from"`
	Text string         `json:"text"`
}

// SignalEvent relays an offer, answer or ICE candidate verbatim. Receivers
// disambiguate concurrent negotiations by From.
type SignalEvent struct {
	Type    string          `json:"type"`
	Room    domain.RoomKey  `json:"room"`
	From    domain.User     `json:"from"`
	Payload json.RawMessage `json:"payload"`
}

// PresenceEvent announces the room's refreshed member roster.
type PresenceEvent struct {
	Type    string         `json:"type"`
	Room    domain.RoomKey `json:"room"`
	Members []domain.User  `json:"members"`
}

// InitiateEvent tells a newly joined member to originate the offer. Only
// the newcomer gets it, so exactly one side starts negotiating.
type InitiateEvent struct {
	Type string         `json:"type"`
	Room domain.RoomKey `json:"room"`
}

// AckEvent is a bare type-only server frame (left, pong).
type AckEvent struct {
	Type string `json:"type"`
}

// ErrorEvent reports a rejected client frame.
type ErrorEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
