package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore tracks live auth session token ids in Redis so that signing
// out on one instance revokes the token everywhere.
// Keys: auth:session:{tokenID} = "1" with the token TTL.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) MarkLive(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(tokenID), "1", ttl).Err()
}

func (s *SessionStore) IsLive(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SessionStore) Revoke(ctx context.Context, tokenID string) error {
	return s.client.Del(ctx, s.key(tokenID)).Err()
}

func (s *SessionStore) key(tokenID string) string {
	return "auth:session:" + tokenID
}
