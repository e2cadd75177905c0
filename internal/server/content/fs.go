// Package content owns the bytes on disk. Records in the document store
// reference content by the opaque path this package hands out; nothing
// else writes under the root.
package content

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/okoshkin/filesmanager/internal/common"
)

// Store is the binary payload capability used by the upload pipeline and
// the thumbnail worker.
type Store interface {
	// Write persists data under a fresh random path and returns that path
	// as the opaque content reference.
	Write(ctx context.Context, data []byte) (string, error)

	// WriteRef persists data at an exact reference, overwriting any
	// previous content. Used for derived variants, whose names are the
	// source reference plus a suffix.
	WriteRef(ctx context.Context, ref string, data []byte) error

	// Read returns the bytes at ref, or common.ErrNotFound.
	Read(ctx context.Context, ref string) ([]byte, error)
}

// FSStore implements Store on a local filesystem root. Paths are
// content-addressed by UUID, so two writes never collide and rewriting a
// derived variant is deterministic.
type FSStore struct {
	root string
}

// NewFSStore creates the root directory if absent and returns the store.
func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating content root %s: %w", root, err)
	}
	return &FSStore{root: root}, nil
}

func (s *FSStore) Write(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ref := filepath.Join(s.root, uuid.NewString())
	if err := os.WriteFile(ref, data, 0o644); err != nil {
		return "", fmt.Errorf("writing content %s: %w", ref, err)
	}
	return ref, nil
}

func (s *FSStore) WriteRef(ctx context.Context, ref string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.WriteFile(ref, data, 0o644); err != nil {
		return fmt.Errorf("writing content %s: %w", ref, err)
	}
	return nil
}

func (s *FSStore) Read(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("reading content %s: %w", ref, err)
	}
	return data, nil
}
