package users

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okoshkin/filesmanager/internal/common"
	"github.com/okoshkin/filesmanager/internal/server/models"
)

// MemRepository is an in-memory Repository used by tests of the layers
// above the persistence boundary.
type MemRepository struct {
	mu      sync.Mutex
	byID    map[primitive.ObjectID]*models.User
	byEmail map[string]*models.User
}

func NewMemRepository() *MemRepository {
	return &MemRepository{
		byID:    make(map[primitive.ObjectID]*models.User),
		byEmail: make(map[string]*models.User),
	}
}

func (r *MemRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *user
	if stored.ID.IsZero() {
		stored.ID = primitive.NewObjectID()
	}
	r.byID[stored.ID] = &stored
	r.byEmail[stored.Email] = &stored

	out := stored
	return &out, nil
}

func (r *MemRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *user
	return &out, nil
}

func (r *MemRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *user
	return &out, nil
}

func (r *MemRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}
