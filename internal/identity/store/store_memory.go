package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"medledger/internal/domain"
)

// MemoryStore is the in-memory UserStore for tests and dependency-free dev
// runs. The single mutex makes Create atomic, mirroring the uniqueness
// guarantee the Postgres constraints provide.
type MemoryStore struct {
	mu       sync.RWMutex
	byEmail  map[string]domain.UserProfile
	byWallet map[string]domain.UserProfile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byEmail:  make(map[string]domain.UserProfile),
		byWallet: make(map[string]domain.UserProfile),
	}
}

func (s *MemoryStore) Create(_ context.Context, profile domain.UserProfile) error {
	email := strings.ToLower(profile.Email)
	wallet := domain.NormalizeWallet(profile.Wallet)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[email]; ok {
		return &DuplicateError{Field: DuplicateEmail}
	}
	if _, ok := s.byWallet[wallet]; ok {
		return &DuplicateError{Field: DuplicateWallet}
	}

	profile.Email = email
	profile.Wallet = wallet
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	s.byEmail[email] = profile
	s.byWallet[wallet] = profile
	return nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return domain.UserProfile{}, ErrNotFound
	}
	return profile, nil
}

func (s *MemoryStore) FindByWallet(_ context.Context, wallet string) (domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.byWallet[domain.NormalizeWallet(wallet)]
	if !ok {
		return domain.UserProfile{}, ErrNotFound
	}
	return profile, nil
}
