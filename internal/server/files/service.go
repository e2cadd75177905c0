package files

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okoshkin/filesmanager/internal/common"
	"github.com/okoshkin/filesmanager/internal/server/models"
)

// Service is the hierarchy store: every FileRecord write in the system
// goes through it, and it is the single owner of the parent-folder and
// ownership invariants.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// parseOwner converts the hex user id carried by a session. A malformed
// value means the credential itself is bad.
func parseOwner(idHex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return primitive.NilObjectID, common.Unauthorized()
	}
	return id, nil
}

// Create validates and inserts a new file record. Name and type are
// required; a non-root parent must exist and be a folder. localPath may be
// empty only for folders; the caller is responsible for having written the
// content first.
func (s *Service) Create(ctx context.Context, ownerHex, name, fileType, parentID string, isPublic bool, localPath string) (*models.File, error) {
	owner, err := parseOwner(ownerHex)
	if err != nil {
		return nil, err
	}

	if name == "" {
		return nil, common.Validation("Missing name")
	}
	if !models.ValidType(fileType) {
		return nil, common.Validation("Missing type")
	}

	if parentID == "" {
		parentID = models.RootParentID
	}
	if err := s.ValidateParent(ctx, parentID); err != nil {
		return nil, err
	}

	file := &models.File{
		UserID:    owner,
		Name:      name,
		Type:      fileType,
		IsPublic:  isPublic,
		ParentID:  parentID,
		LocalPath: localPath,
	}

	file, err = s.repo.Insert(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("inserting file: %w", err)
	}

	return file, nil
}

// ValidateParent reports whether parentID may hold new records: the root
// sentinel always may, anything else must name an existing folder. Callers
// that stage expensive work before committing a record run this first.
func (s *Service) ValidateParent(ctx context.Context, parentID string) error {
	if parentID == "" || parentID == models.RootParentID {
		return nil
	}
	parent, err := s.parent(ctx, parentID)
	if err != nil {
		return err
	}
	if parent.Type != models.TypeFolder {
		return common.Validation("Parent is not a folder")
	}
	return nil
}

func (s *Service) parent(ctx context.Context, parentID string) (*models.File, error) {
	id, err := primitive.ObjectIDFromHex(parentID)
	if err != nil {
		// a malformed parent id can never name an existing folder
		return nil, common.NotFound("Parent not found")
	}

	parent, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound("Parent not found")
		}
		return nil, fmt.Errorf("fetching parent: %w", err)
	}

	return parent, nil
}

// Get returns the record only when the requester owns it. Records owned by
// someone else are indistinguishable from absent ones.
func (s *Service) Get(ctx context.Context, idHex, requesterHex string) (*models.File, error) {
	owner, err := parseOwner(requesterHex)
	if err != nil {
		return nil, err
	}

	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, common.NotFound("Not found")
	}

	file, err := s.repo.GetByIDAndOwner(ctx, id, owner)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound("Not found")
		}
		return nil, fmt.Errorf("fetching file: %w", err)
	}

	return file, nil
}

// GetAny returns the record regardless of ownership. Public-read policy is
// decided at the content-retrieval boundary, not here.
func (s *Service) GetAny(ctx context.Context, idHex string) (*models.File, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, common.NotFound("Not found")
	}

	file, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound("Not found")
		}
		return nil, fmt.Errorf("fetching file: %w", err)
	}

	return file, nil
}

// List returns the page-th fixed-size page of the owner's records,
// optionally filtered by parent, in insertion order.
func (s *Service) List(ctx context.Context, ownerHex, parentID string, page int64) ([]*models.File, error) {
	owner, err := parseOwner(ownerHex)
	if err != nil {
		return nil, err
	}
	if page < 0 {
		page = 0
	}

	list, err := s.repo.List(ctx, owner, parentID, page)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	return list, nil
}

// SetVisibility toggles isPublic on an owned record. Re-asserting the
// current value succeeds and returns the unchanged record.
func (s *Service) SetVisibility(ctx context.Context, idHex, ownerHex string, isPublic bool) (*models.File, error) {
	owner, err := parseOwner(ownerHex)
	if err != nil {
		return nil, err
	}

	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, common.NotFound("Not found")
	}

	file, err := s.repo.SetVisibility(ctx, id, owner, isPublic)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound("Not found")
		}
		return nil, fmt.Errorf("updating visibility: %w", err)
	}

	return file, nil
}

// Count returns the number of file records.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
