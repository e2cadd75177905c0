package files

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okoshkin/filesmanager/internal/common"
	"github.com/okoshkin/filesmanager/internal/server/models"
)

func newTestService() (*Service, string) {
	return NewService(NewMemRepository()), primitive.NewObjectID().Hex()
}

func TestCreate_FolderAtRoot(t *testing.T) {
	s, owner := newTestService()

	file, err := s.Create(context.Background(), owner, "docs", models.TypeFolder, "", false, "")
	require.NoError(t, err)

	assert.False(t, file.ID.IsZero())
	assert.Equal(t, owner, file.UserID.Hex())
	assert.Equal(t, models.RootParentID, file.ParentID)
	assert.Empty(t, file.LocalPath)
}

func TestCreate_Validation(t *testing.T) {
	s, owner := newTestService()
	ctx := context.Background()

	_, err := s.Create(ctx, owner, "", models.TypeFile, "", false, "/p")
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "Missing name", err.Error())

	_, err = s.Create(ctx, owner, "a.txt", "archive", "", false, "/p")
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "Missing type", err.Error())
}

func TestCreate_ParentChecks(t *testing.T) {
	s, owner := newTestService()
	ctx := context.Background()

	// absent parent
	_, err := s.Create(ctx, owner, "a.txt", models.TypeFile, primitive.NewObjectID().Hex(), false, "/p")
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, "Parent not found", err.Error())

	// malformed parent id can never exist
	_, err = s.Create(ctx, owner, "a.txt", models.TypeFile, "zzz", false, "/p")
	require.ErrorIs(t, err, common.ErrNotFound)

	// parent that is not a folder
	plain, err := s.Create(ctx, owner, "plain.txt", models.TypeFile, "", false, "/p")
	require.NoError(t, err)
	_, err = s.Create(ctx, owner, "b.txt", models.TypeFile, plain.ID.Hex(), false, "/p")
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "Parent is not a folder", err.Error())

	// a proper folder parent succeeds
	folder, err := s.Create(ctx, owner, "docs", models.TypeFolder, "", false, "")
	require.NoError(t, err)
	child, err := s.Create(ctx, owner, "c.txt", models.TypeFile, folder.ID.Hex(), false, "/p")
	require.NoError(t, err)
	assert.Equal(t, folder.ID.Hex(), child.ParentID)
}

func TestValidateParent(t *testing.T) {
	s, owner := newTestService()
	ctx := context.Background()

	assert.NoError(t, s.ValidateParent(ctx, ""))
	assert.NoError(t, s.ValidateParent(ctx, models.RootParentID))

	err := s.ValidateParent(ctx, primitive.NewObjectID().Hex())
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, "Parent not found", err.Error())

	plain, err := s.Create(ctx, owner, "plain.txt", models.TypeFile, "", false, "/p")
	require.NoError(t, err)
	err = s.ValidateParent(ctx, plain.ID.Hex())
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "Parent is not a folder", err.Error())

	folder, err := s.Create(ctx, owner, "docs", models.TypeFolder, "", false, "")
	require.NoError(t, err)
	assert.NoError(t, s.ValidateParent(ctx, folder.ID.Hex()))
}

func TestGet_OwnershipIsNotDisclosed(t *testing.T) {
	s, owner := newTestService()
	ctx := context.Background()

	file, err := s.Create(ctx, owner, "a.txt", models.TypeFile, "", false, "/p")
	require.NoError(t, err)

	got, err := s.Get(ctx, file.ID.Hex(), owner)
	require.NoError(t, err)
	assert.Equal(t, file.ID, got.ID)

	// existing record, different requester: plain Not found
	stranger := primitive.NewObjectID().Hex()
	_, err = s.Get(ctx, file.ID.Hex(), stranger)
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, "Not found", err.Error())

	// malformed record id: same answer
	_, err = s.Get(ctx, "not-hex", owner)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestList_PaginationInInsertionOrder(t *testing.T) {
	s, owner := newTestService()
	ctx := context.Background()

	var names []string
	for i := 0; i < PageSize+5; i++ {
		name := fmt.Sprintf("f%02d.txt", i)
		names = append(names, name)
		_, err := s.Create(ctx, owner, name, models.TypeFile, "", false, "/p")
		require.NoError(t, err)
	}

	page0, err := s.List(ctx, owner, "", 0)
	require.NoError(t, err)
	require.Len(t, page0, PageSize)
	for i, f := range page0 {
		assert.Equal(t, names[i], f.Name)
	}

	page1, err := s.List(ctx, owner, "", 1)
	require.NoError(t, err)
	require.Len(t, page1, 5)
	for i, f := range page1 {
		assert.Equal(t, names[PageSize+i], f.Name)
	}

	page2, err := s.List(ctx, owner, "", 2)
	require.NoError(t, err)
	assert.Empty(t, page2)
}

func TestList_ParentFilter(t *testing.T) {
	s, owner := newTestService()
	ctx := context.Background()

	folder, err := s.Create(ctx, owner, "docs", models.TypeFolder, "", false, "")
	require.NoError(t, err)
	_, err = s.Create(ctx, owner, "in.txt", models.TypeFile, folder.ID.Hex(), false, "/p")
	require.NoError(t, err)
	_, err = s.Create(ctx, owner, "out.txt", models.TypeFile, "", false, "/p")
	require.NoError(t, err)

	inside, err := s.List(ctx, owner, folder.ID.Hex(), 0)
	require.NoError(t, err)
	require.Len(t, inside, 1)
	assert.Equal(t, "in.txt", inside[0].Name)
}

func TestSetVisibility_Idempotent(t *testing.T) {
	s, owner := newTestService()
	ctx := context.Background()

	file, err := s.Create(ctx, owner, "a.txt", models.TypeFile, "", false, "/p")
	require.NoError(t, err)

	first, err := s.SetVisibility(ctx, file.ID.Hex(), owner, true)
	require.NoError(t, err)
	assert.True(t, first.IsPublic)

	// same flag again: no error, same record
	second, err := s.SetVisibility(ctx, file.ID.Hex(), owner, true)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	back, err := s.SetVisibility(ctx, file.ID.Hex(), owner, false)
	require.NoError(t, err)
	assert.False(t, back.IsPublic)
}

func TestSetVisibility_NotOwned(t *testing.T) {
	s, owner := newTestService()
	ctx := context.Background()

	file, err := s.Create(ctx, owner, "a.txt", models.TypeFile, "", false, "/p")
	require.NoError(t, err)

	stranger := primitive.NewObjectID().Hex()
	_, err = s.SetVisibility(ctx, file.ID.Hex(), stranger, true)
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, "Not found", err.Error())
}
