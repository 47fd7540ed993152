package images

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newLocalStore(t *testing.T) (*LocalStore, string) {
	t.Helper()
	root := t.TempDir()
	store, err := NewLocalStore(LocalConfig{Root: root, BaseURL: "http://localhost:8000/"})
	require.NoError(t, err)
	return store, root
}

func TestLocalStoreUploadAndDelete(t *testing.T) {
	ctx := context.Background()
	store, root := newLocalStore(t)

	url, err := store.Upload(ctx, "assets/uploads/categories", "Shoes.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost:8000/assets/uploads/categories/"))
	require.True(t, strings.HasSuffix(url, ".png"))

	rel := strings.TrimPrefix(url, "http://localhost:8000/")
	onDisk := filepath.Join(root, filepath.FromSlash(rel))
	content, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(content))

	require.NoError(t, store.Delete(ctx, url))
	require.NoFileExists(t, onDisk)

	require.NoError(t, store.Delete(ctx, url), "deleting a missing file is not an error")
}

func TestLocalStoreUploadNamesAreUnique(t *testing.T) {
	ctx := context.Background()
	store, _ := newLocalStore(t)

	first, err := store.Upload(ctx, "categories", "a.jpg", strings.NewReader("1"))
	require.NoError(t, err)
	second, err := store.Upload(ctx, "categories", "a.jpg", strings.NewReader("2"))
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestLocalStoreReplace(t *testing.T) {
	ctx := context.Background()
	store, root := newLocalStore(t)

	old, err := store.Upload(ctx, "categories", "old.gif", strings.NewReader("old"))
	require.NoError(t, err)

	replacement, err := store.Replace(ctx, "categories", "new.gif", strings.NewReader("new"), old)
	require.NoError(t, err)
	require.NotEqual(t, old, replacement)

	require.NoFileExists(t, filepath.Join(root, strings.TrimPrefix(old, "http://localhost:8000/")))
	require.FileExists(t, filepath.Join(root, strings.TrimPrefix(replacement, "http://localhost:8000/")))
}

func TestLocalStoreRejectsForeignAndTraversalURLs(t *testing.T) {
	ctx := context.Background()
	store, _ := newLocalStore(t)

	require.ErrorIs(t, store.Delete(ctx, "https://cdn.example.com/a.png"), ErrForeignURL)
	require.ErrorIs(t, store.Delete(ctx, "http://localhost:8000/../etc/passwd"), ErrForeignURL)
}

func TestLocalStoreUploadCleansDirectory(t *testing.T) {
	ctx := context.Background()
	store, root := newLocalStore(t)

	url, err := store.Upload(ctx, "../../escape", "x.png", strings.NewReader("x"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost:8000/escape/"))
	require.DirExists(t, filepath.Join(root, "escape"))

	_, err = store.Upload(ctx, "  ", "x.png", strings.NewReader("x"))
	require.Error(t, err)
}

func TestNewLocalStoreRequiresRoot(t *testing.T) {
	_, err := NewLocalStore(LocalConfig{})
	require.Error(t, err)
}
