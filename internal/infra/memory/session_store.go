package memory

import (
	"context"
	"sync"
	"time"
)

// SessionStore is an in-memory implementation of auth.SessionStore tracking
// which session token ids are live.
type SessionStore struct {
	mu    sync.RWMutex
	live  map[string]time.Time
	clock func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		live:  make(map[string]time.Time),
		clock: time.Now,
	}
}

func (s *SessionStore) MarkLive(_ context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[tokenID] = s.clock().Add(ttl)
	return nil
}

func (s *SessionStore) IsLive(_ context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	expiry, ok := s.live[tokenID]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if s.clock().After(expiry) {
		s.mu.Lock()
		delete(s.live, tokenID)
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}

func (s *SessionStore) Revoke(_ context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, tokenID)
	return nil
}
