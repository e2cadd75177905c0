// Package sessions issues, resolves and revokes the opaque bearer tokens
// that prove a prior authentication. Tokens live only in the key-value
// store; expiry is enforced by the store's own TTL mechanism.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/okoshkin/filesmanager/internal/common"
	"github.com/okoshkin/filesmanager/internal/server/storage"
	"github.com/okoshkin/filesmanager/internal/server/users"
)

// keyPrefix namespaces session keys in the shared key-value store.
const keyPrefix = "auth_"

type Service struct {
	users users.Repository
	kv    storage.KeyValueStore
	ttl   time.Duration
}

func NewService(usersRepo users.Repository, kv storage.KeyValueStore, ttl time.Duration) *Service {
	return &Service{users: usersRepo, kv: kv, ttl: ttl}
}

// Authenticate verifies the credentials and mints a fresh opaque token
// bound to the user for the configured TTL. Every call issues a new token;
// previously issued tokens stay valid until their own expiry or explicit
// revocation.
//
// All failure modes collapse into Unauthorized so callers cannot tell a
// wrong password from a nonexistent account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", common.Unauthorized()
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.Unauthorized()
		}
		return "", fmt.Errorf("fetching user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", common.Unauthorized()
	}

	token := uuid.NewString()
	if err := s.kv.Set(ctx, keyPrefix+token, user.ID.Hex(), s.ttl); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}

	return token, nil
}

// Resolve maps a token to the user id it was issued for. A missing,
// unknown or expired token is Unauthorized.
func (s *Service) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", common.Unauthorized()
	}

	userID, ok, err := s.kv.Get(ctx, keyPrefix+token)
	if err != nil {
		return "", fmt.Errorf("looking up session: %w", err)
	}
	if !ok {
		return "", common.Unauthorized()
	}

	return userID, nil
}

// Revoke deletes the token. Revoking an absent or already-expired token
// is a no-op success.
func (s *Service) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.kv.Del(ctx, keyPrefix+token); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// Ping reports liveness of the underlying key-value store.
func (s *Service) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}
