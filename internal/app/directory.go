package app

import (
	"context"
	"errors"
	"sync"

	"github.com/dkeye/Meet/internal/domain"
)

var ErrUnknownUser = errors.New("unknown user")

// Directory is the external profile collaborator. The relay reads display
// names from it and mirrors a best-effort online flag into it; a failure
// here must never block or fail a relay operation.
type Directory interface {
	DisplayName(ctx context.Context, id domain.UserID) (string, error)
	SetOnline(ctx context.Context, id domain.UserID, online bool) error
}

// ProfileSink receives profile data learned from token claims at
// connection time.
type ProfileSink interface {
	Upsert(id domain.UserID, name string)
}

// MemoryDirectory keeps profiles in process memory. It stands in for a real
// user store and is enough for self-contained deployments and tests.
type MemoryDirectory struct {
	mu     sync.RWMutex
	names  map[domain.UserID]string
	online map[domain.UserID]bool
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		names:  make(map[domain.UserID]string),
		online: make(map[domain.UserID]bool),
	}
}

func (d *MemoryDirectory) Upsert(id domain.UserID, name string) {
	if id == "" || name == "" {
		return
	}
	d.mu.Lock()
	d.names[id] = name
	d.mu.Unlock()
}

func (d *MemoryDirectory) DisplayName(_ context.Context, id domain.UserID) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	name, ok := d.names[id]
	if !ok {
		return "", ErrUnknownUser
	}
	return name, nil
}

func (d *MemoryDirectory) SetOnline(_ context.Context, id domain.UserID, online bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if online {
		d.online[id] = true
	} else {
		delete(d.online, id)
	}
	return nil
}

// Online reports the last flag written for id.
func (d *MemoryDirectory) Online(id domain.UserID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.online[id]
}
