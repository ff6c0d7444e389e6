// Package session holds the process-local session state for logged-in
// callers. Sessions are created by login, destroyed by logout or account
// change, and expire on their own; nothing here survives a TTL.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"medledger/internal/domain"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// Store persists sessions for the configured TTL.
type Store interface {
	Save(ctx context.Context, s domain.Session, ttl time.Duration) error
	Find(ctx context.Context, id string) (domain.Session, error)
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	session   domain.Session
	expiresAt time.Time
}

// MemoryStore is the in-process Store for tests and single-instance dev runs.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	clock    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		clock:    time.Now,
	}
}

// SetClock overrides the expiry clock. Test helper.
func (s *MemoryStore) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

func (s *MemoryStore) Save(_ context.Context, sess domain.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = memoryEntry{session: sess, expiresAt: s.clock().Add(ttl)}
	return nil
}

func (s *MemoryStore) Find(_ context.Context, id string) (domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[id]
	if !ok || s.clock().After(entry.expiresAt) {
		return domain.Session{}, ErrNotFound
	}
	return entry.session, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
