package memory

import (
	"context"
	"sync"

	"dev-millionaire-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.SnapshotStore.
type SessionStore struct {
	mu        sync.RWMutex
	snapshots map[string]domain.Snapshot
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		snapshots: make(map[string]domain.Snapshot),
	}
}

func (s *SessionStore) Save(_ context.Context, id string, snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[id] = snap
	return nil
}

func (s *SessionStore) Load(_ context.Context, id string) (domain.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[id]
	return snap, ok, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, id)
	return nil
}
