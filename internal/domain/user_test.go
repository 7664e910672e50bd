package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNewUser(t *testing.T) {
	tests := []struct {
		name     string
		id       UserID
		username string
		wantName string
		wantErr  error
	}{
		{"normal", "u1", "alice", "alice", nil},
		{"name falls back to id", "u1", "", "u1", nil},
		{"empty id", "", "alice", "", ErrUserIDEmpty},
		{"name too long", "u1", strings.Repeat("x", MaxUsernameLen+1), "", ErrUsernameTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := NewUser(tt.id, tt.username)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err == nil && u.Username != tt.wantName {
				t.Errorf("username = %q, want %q", u.Username, tt.wantName)
			}
		})
	}
}
