// Package core holds the transport ports and the wire event vocabulary
// shared by the app layer and the adapters.
package core

// Frame is a single encoded message bound for a client.
type Frame []byte

// SessionID identifies one live transport connection.
type SessionID string

// SignalConnection abstracts for a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
