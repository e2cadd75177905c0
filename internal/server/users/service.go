package users

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/okoshkin/filesmanager/internal/common"
	"github.com/okoshkin/filesmanager/internal/server/models"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new account. The email must be unique; the password
// is stored as a bcrypt hash.
func (s *Service) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" {
		return nil, common.Validation("Missing email")
	}
	if password == "" {
		return nil, common.Validation("Missing password")
	}

	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, common.Validation("Already exist")
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("checking existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: string(hash)}
	user, err = s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return user, nil
}

// GetByID resolves a user by the hex id stored in a session. Any failure
// to produce a live user is Unauthorized; the caller holds a credential,
// not an id it is entitled to look up.
func (s *Service) GetByID(ctx context.Context, idHex string) (*models.User, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, common.Unauthorized()
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Unauthorized()
		}
		return nil, fmt.Errorf("fetching user: %w", err)
	}

	return user, nil
}

// Count returns the number of registered users.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
