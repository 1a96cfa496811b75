package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoragePutAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "uploads/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "1700000000000-board.png", strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1700000000000-board.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "1700000000000-board.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	_, err = store.Put(context.Background(), "1700000000000-board.png", strings.NewReader("again"), 5, "image/png")
	require.Error(t, err)

	require.NoError(t, store.Delete(context.Background(), "1700000000000-board.png"))
	require.NoError(t, store.Delete(context.Background(), "1700000000000-board.png"))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../escape.png", strings.NewReader("x"), 1, "image/png")
	require.Error(t, err)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestLocalStorageRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "/uploads")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "partial.png", io.MultiReader(strings.NewReader("abc"), failingReader{}), 10, "image/png")
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
