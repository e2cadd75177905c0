// Package users owns account creation and lookup.
package users

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okoshkin/filesmanager/internal/server/models"
)

// Repository is the persistence contract for user documents. Lookup
// methods return common.ErrNotFound when no document matches.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}
