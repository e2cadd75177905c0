package files

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okoshkin/filesmanager/internal/common"
	"github.com/okoshkin/filesmanager/internal/server/models"
)

// MemRepository is an in-memory Repository preserving insertion order.
// It backs tests and local runs without a document store.
type MemRepository struct {
	mu   sync.RWMutex
	docs []*models.File
	byID map[primitive.ObjectID]*models.File
}

func NewMemRepository() *MemRepository {
	return &MemRepository{byID: map[primitive.ObjectID]*models.File{}}
}

func (r *MemRepository) Insert(ctx context.Context, file *models.File) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f := *file
	f.ID = primitive.NewObjectID()
	r.docs = append(r.docs, &f)
	r.byID[f.ID] = &f
	return &f, nil
}

func (r *MemRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *MemRepository) GetByIDAndOwner(ctx context.Context, id, owner primitive.ObjectID) (*models.File, error) {
	f, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.UserID != owner {
		return nil, common.ErrNotFound
	}
	return f, nil
}

func (r *MemRepository) List(ctx context.Context, owner primitive.ObjectID, parentID string, page int64) ([]*models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matching := make([]*models.File, 0)
	for _, f := range r.docs {
		if f.UserID != owner {
			continue
		}
		if parentID != "" && f.ParentID != parentID {
			continue
		}
		cp := *f
		matching = append(matching, &cp)
	}

	start := page * PageSize
	if start >= int64(len(matching)) {
		return []*models.File{}, nil
	}
	end := start + PageSize
	if end > int64(len(matching)) {
		end = int64(len(matching))
	}
	return matching[start:end], nil
}

func (r *MemRepository) SetVisibility(ctx context.Context, id, owner primitive.ObjectID, isPublic bool) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.byID[id]
	if !ok || f.UserID != owner {
		return nil, common.ErrNotFound
	}
	f.IsPublic = isPublic
	cp := *f
	return &cp, nil
}

func (r *MemRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.docs)), nil
}
