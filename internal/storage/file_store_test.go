package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_PutGetDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	payload := []byte("%PDF-1.4 test bytes")
	locator, err := store.Put(ctx, "owner-1", "noc.pdf", bytes.NewReader(payload), int64(len(payload)), "application/pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(locator, "owner-1/"))
	assert.True(t, strings.HasSuffix(locator, "-noc.pdf"))

	rc, err := store.Get(ctx, locator)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, payload, got)

	require.NoError(t, store.Delete(ctx, locator))

	_, err = store.Get(ctx, locator)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestFileStore_DeleteMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	err = store.Delete(context.Background(), "owner-1/gone.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestFileStore_RejectsEscapingLocators(t *testing.T) {
	root := t.TempDir()
	store, err := NewFileStore(root)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Get(ctx, "../outside.pdf")
	assert.Error(t, err)

	err = store.Delete(ctx, "/etc/passwd")
	assert.Error(t, err)
}

func TestFileStore_PutStripsPathFromFileName(t *testing.T) {
	root := t.TempDir()
	store, err := NewFileStore(root)
	require.NoError(t, err)

	locator, err := store.Put(context.Background(), "owner-1", "../../sneaky.pdf", bytes.NewReader([]byte("x")), 1, "application/pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(locator, "owner-1/"))
	assert.True(t, strings.HasSuffix(locator, "-sneaky.pdf"))
	assert.NotContains(t, locator, "..")

	entries, err := os.ReadDir(filepath.Join(root, "owner-1"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), "-sneaky.pdf"))
}

func TestFileStore_SameFileNameGetsDistinctLocators(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	first, err := store.Put(ctx, "owner-1", "noc.pdf", bytes.NewReader([]byte("first version")), 13, "application/pdf")
	require.NoError(t, err)
	second, err := store.Put(ctx, "owner-1", "noc.pdf", bytes.NewReader([]byte("second version")), 14, "application/pdf")
	require.NoError(t, err)

	require.NotEqual(t, first, second)

	rc, err := store.Get(ctx, first)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, []byte("first version"), got)

	// Deleting one upload leaves the other's bytes retrievable.
	require.NoError(t, store.Delete(ctx, second))
	rc, err = store.Get(ctx, first)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(configWithDriver("tape"))
	assert.Error(t, err)
}
