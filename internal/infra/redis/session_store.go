package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dev-millionaire-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SessionStore persists session snapshots in Redis, one JSON blob per
// browsing session. The TTL bounds how long an abandoned game stays
// resumable. An unparseable blob is reported as absent so the caller starts a
// new game instead of failing.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Save(ctx context.Context, id string, snap domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *SessionStore) Load(ctx context.Context, id string) (domain.Snapshot, bool, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Snapshot{}, false, nil
	}
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// Corrupt saved state: drop it and report no save exists.
		_ = s.client.Del(ctx, s.key(id)).Err()
		return domain.Snapshot{}, false, nil
	}
	return snap, true, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

func (s *SessionStore) key(id string) string {
	return "millionaire:session:" + id
}
