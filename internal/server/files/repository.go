// Package files owns the file and folder metadata hierarchy: creation
// with parent validation, owner-scoped lookups, paginated listing and
// visibility toggling.
package files

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okoshkin/filesmanager/internal/server/models"
)

// PageSize is the fixed page length for listings. Pages are 0-indexed.
const PageSize = 20

// Repository is the persistence contract for file documents. Lookups
// return common.ErrNotFound when no document matches; listing follows
// insertion order (the store default).
type Repository interface {
	Insert(ctx context.Context, file *models.File) (*models.File, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.File, error)
	GetByIDAndOwner(ctx context.Context, id, owner primitive.ObjectID) (*models.File, error)

	// List returns the page-th page of the owner's files. An empty
	// parentID means no parent filter.
	List(ctx context.Context, owner primitive.ObjectID, parentID string, page int64) ([]*models.File, error)

	// SetVisibility updates isPublic on the record owned by owner and
	// returns the updated document. Setting the current value again is a
	// success.
	SetVisibility(ctx context.Context, id, owner primitive.ObjectID, isPublic bool) (*models.File, error)

	Count(ctx context.Context) (int64, error)
}
