package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisclient "github.com/isdl/storefront-gateway/pkg/redis"
)

// SnapshotStore persists cart snapshots across gateway restarts. The gateway
// works without one; carts are then ephemeral, process-lifetime state.
type SnapshotStore interface {
	Save(ctx context.Context, sessionID string, snap CartSnapshot) error
	Load(ctx context.Context, sessionID string) (CartSnapshot, bool, error)
	Drop(ctx context.Context, sessionID string) error
}

// NoopSnapshotStore keeps carts in memory only.
type NoopSnapshotStore struct{}

func (NoopSnapshotStore) Save(context.Context, string, CartSnapshot) error {
	return nil
}

func (NoopSnapshotStore) Load(context.Context, string) (CartSnapshot, bool, error) {
	return CartSnapshot{}, false, nil
}

func (NoopSnapshotStore) Drop(context.Context, string) error {
	return nil
}

// RedisSnapshotStore is the external state-persistence collaborator: cart
// snapshots written through to Redis keyed by session id.
type RedisSnapshotStore struct {
	client *redisclient.Client
	ttl    time.Duration
}

func NewRedisSnapshotStore(client *redisclient.Client, ttl time.Duration) (*RedisSnapshotStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("snapshot ttl must be positive")
	}
	return &RedisSnapshotStore{client: client, ttl: ttl}, nil
}

func (s *RedisSnapshotStore) Save(ctx context.Context, sessionID string, snap CartSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding cart snapshot: %w", err)
	}
	return s.client.Set(ctx, s.client.CartSnapshotKey(sessionID), string(payload), s.ttl)
}

func (s *RedisSnapshotStore) Load(ctx context.Context, sessionID string) (CartSnapshot, bool, error) {
	raw, err := s.client.Get(ctx, s.client.CartSnapshotKey(sessionID))
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return CartSnapshot{}, false, nil
		}
		return CartSnapshot{}, false, err
	}
	var snap CartSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return CartSnapshot{}, false, fmt.Errorf("decoding cart snapshot: %w", err)
	}
	return snap, true, nil
}

func (s *RedisSnapshotStore) Drop(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.client.CartSnapshotKey(sessionID))
}
