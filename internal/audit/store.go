package audit

import (
	"context"
	"sync"
)

// Store is an append-only event sink with per-wallet reads for operator
// tooling. Appends never fail the business operation that emitted them.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByWallet(ctx context.Context, wallet string) ([]Event, error)
}

// MemoryStore keeps events in memory. Production deployments point the
// worker at Kafka as well; this store is the always-on local trail.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *MemoryStore) ListByWallet(_ context.Context, wallet string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.Wallet == wallet {
			out = append(out, e)
		}
	}
	return out, nil
}

// All returns every stored event in append order. Test helper.
func (s *MemoryStore) All() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
