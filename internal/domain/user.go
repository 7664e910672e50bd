// Package domain contains entity without logic, just meta-data
package domain

import "errors"

const MaxUsernameLen = 64

var (
	ErrUserIDEmpty     = errors.New("user id empty")
	ErrUsernameTooLong = errors.New("username too long")
)

type UserID string

// User is the verified identity bound to a connection. Immutable for the
// connection's lifetime.
type User struct {
	ID       UserID `json:"id"`
	Username string `json:"name"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewUser(id UserID, username string) (*User, error) {
	if id == "" {
		return nil, ErrUserIDEmpty
	}
	if username == "" {
		username = string(id)
	}
	if len(username) > MaxUsernameLen {
		return nil, ErrUsernameTooLong
	}
	return &User{ID: id, Username: username}, nil
}
