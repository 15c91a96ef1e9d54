// Package auth implements the authentication gateway: account
// registration, credential sign-in with bcrypt, and stateless HS256
// session tokens whose liveness is tracked in a session store so sign-out
// revokes them. Failures carry structured error kinds; callers never match
// on message text.
package auth

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/quizlink/quizlink/internal/domain"
)

const (
	minPasswordLength    = 6
	minDisplayNameLength = 2
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserStore persists accounts (postgres, memory).
type UserStore interface {
	CreateUser(ctx context.Context, user domain.User, passwordHash string) (domain.User, error)
	UserByEmail(ctx context.Context, email string) (domain.User, string, error)
	UserByID(ctx context.Context, id string) (domain.User, error)
}

// SessionStore tracks which token ids are live (redis, memory).
type SessionStore interface {
	MarkLive(ctx context.Context, tokenID string, ttl time.Duration) error
	IsLive(ctx context.Context, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenID string) error
}

// Gateway is the auth entry point consumed by the HTTP transport.
type Gateway struct {
	users    UserStore
	sessions SessionStore
	secret   []byte
	tokenTTL time.Duration
	cost     int
	now      func() time.Time
}

func NewGateway(users UserStore, sessions SessionStore, secret []byte, tokenTTL time.Duration, bcryptCost int) *Gateway {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Gateway{
		users:    users,
		sessions: sessions,
		secret:   secret,
		tokenTTL: tokenTTL,
		cost:     bcryptCost,
		now:      time.Now,
	}
}

// SignUp validates input before any store call, hashes the password, and
// registers the account.
func (g *Gateway) SignUp(ctx context.Context, email, password, displayName string) (domain.User, error) {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)
	if !emailPattern.MatchString(email) {
		return domain.User{}, fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return domain.User{}, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}
	if len(displayName) < minDisplayNameLength {
		return domain.User{}, fmt.Errorf("%w: display name must be at least %d characters", domain.ErrValidation, minDisplayNameLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), g.cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	return g.users.CreateUser(ctx, domain.User{
		ID:          uuid.NewString(),
		Email:       email,
		DisplayName: displayName,
	}, string(hash))
}

// SignIn verifies credentials and mints a session token. Unknown emails and
// wrong passwords both surface as ErrInvalidCredentials.
func (g *Gateway) SignIn(ctx context.Context, email, password string) (string, domain.User, error) {
	user, hash, err := g.users.UserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", domain.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", domain.User{}, domain.ErrInvalidCredentials
	}

	token, tokenID, err := g.mintToken(user)
	if err != nil {
		return "", domain.User{}, err
	}
	if err := g.sessions.MarkLive(ctx, tokenID, g.tokenTTL); err != nil {
		return "", domain.User{}, fmt.Errorf("mark session live: %w", err)
	}
	return token, user, nil
}

// CurrentUser resolves the user behind a session token, or
// ErrUnauthenticated when the token is missing, malformed, expired, or
// revoked.
func (g *Gateway) CurrentUser(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, domain.ErrUnauthenticated
	}
	claims, err := g.parseToken(token)
	if err != nil {
		return domain.User{}, domain.ErrUnauthenticated
	}
	live, err := g.sessions.IsLive(ctx, claims.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("check session: %w", err)
	}
	if !live {
		return domain.User{}, domain.ErrUnauthenticated
	}
	return g.users.UserByID(ctx, claims.UserID)
}

// SignOut revokes the token's session. Unknown or malformed tokens are
// ignored so sign-out stays idempotent.
func (g *Gateway) SignOut(ctx context.Context, token string) error {
	claims, err := g.parseToken(token)
	if err != nil {
		return nil
	}
	return g.sessions.Revoke(ctx, claims.ID)
}
