package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/quizlink/quizlink/internal/domain"
)

// CreateUser registers a user. Emails are unique, compared lowercased.
func (s *Store) CreateUser(_ context.Context, user domain.User, passwordHash string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, taken := s.emails[email]; taken {
		return domain.User{}, domain.ErrEmailTaken
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Email = email
	user.CreatedAt = s.now()
	s.users[user.ID] = user
	s.passwordHashes[user.ID] = passwordHash
	s.emails[email] = user.ID
	return user, nil
}

// UserByEmail returns a user and their password hash.
func (s *Store) UserByEmail(_ context.Context, email string) (domain.User, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}
	return s.users[id], s.passwordHashes[id], nil
}

func (s *Store) UserByID(_ context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUnauthenticated
	}
	return user, nil
}
