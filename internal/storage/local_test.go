package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"tontine-backend/internal/storage"
)

func TestLocalStorage(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStorage("http://localhost:8080/uploads/", dir)
	if err != nil {
		t.Fatalf("error creating storage: %v", err)
	}
	ctx := context.Background()

	t.Run("Upload Returns Public URL", func(t *testing.T) {
		url, err := store.Upload(ctx, "logos/org-1.png", "image/png", strings.NewReader("png bytes"))
		assert.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/uploads/logos/org-1.png", url)

		data, err := os.ReadFile(filepath.Join(dir, "logos", "org-1.png"))
		assert.NoError(t, err)
		assert.Equal(t, "png bytes", string(data))
	})

	t.Run("DeleteByURL Removes The File", func(t *testing.T) {
		url, err := store.Upload(ctx, "avatars/user-1.jpg", "image/jpeg", strings.NewReader("jpg"))
		assert.NoError(t, err)

		assert.NoError(t, store.DeleteByURL(ctx, url))
		_, err = os.Stat(filepath.Join(dir, "avatars", "user-1.jpg"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("DeleteByURL Ignores Foreign URLs", func(t *testing.T) {
		assert.NoError(t, store.DeleteByURL(ctx, "https://cdn.example.com/logo.png"))
	})

	t.Run("Delete Is Idempotent", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "logos/never-uploaded.png"))
	})
}
