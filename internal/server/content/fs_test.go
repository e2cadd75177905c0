package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okoshkin/filesmanager/internal/common"
)

func TestNewFSStore_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "files")

	_, err := NewFSStore(root)
	require.NoError(t, err)

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWriteThenRead(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := store.Write(ctx, []byte("hello"))
	require.NoError(t, err)
	require.NotEmpty(t, ref)

	data, err := store.Read(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestWrite_UniqueRefs(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	a, err := store.Write(ctx, []byte("a"))
	require.NoError(t, err)
	b, err := store.Write(ctx, []byte("b"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestWriteRef_OverwritesDeterministically(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := store.Write(ctx, []byte("original"))
	require.NoError(t, err)

	variant := ref + "_100"
	require.NoError(t, store.WriteRef(ctx, variant, []byte("v1")))
	require.NoError(t, store.WriteRef(ctx, variant, []byte("v2")))

	data, err := store.Read(ctx, variant)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)
}

func TestRead_Missing(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Read(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, common.ErrNotFound)
}
