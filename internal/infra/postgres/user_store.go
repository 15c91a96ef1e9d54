package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"

	"github.com/quizlink/quizlink/internal/domain"
)

// CreateUser registers a user. The unique index on email maps to
// ErrEmailTaken.
func (s *Store) CreateUser(ctx context.Context, user domain.User, passwordHash string) (domain.User, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, display_name, password_hash)
		VALUES ($1, lower($2), $3, $4)
		RETURNING email, created_at`,
		user.ID, user.Email, user.DisplayName, passwordHash).
		Scan(&user.Email, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// UserByEmail returns a user and their password hash. An unknown email is
// reported as invalid credentials so that lookup and password failures are
// indistinguishable to callers.
func (s *Store) UserByEmail(ctx context.Context, email string) (domain.User, string, error) {
	var (
		user domain.User
		hash string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, display_name, password_hash, created_at
		FROM users WHERE email = $1`, strings.ToLower(email)).
		Scan(&user.ID, &user.Email, &user.DisplayName, &hash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, "", fmt.Errorf("load user: %w", err)
	}
	return user, hash, nil
}

func (s *Store) UserByID(ctx context.Context, id string) (domain.User, error) {
	var user domain.User
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, display_name, created_at
		FROM users WHERE id = $1`, id).
		Scan(&user.ID, &user.Email, &user.DisplayName, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUnauthenticated
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}
