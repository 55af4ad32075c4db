package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage stores files on the local filesystem and serves them from
// baseURL. Good enough for single-node deployments and tests.
type LocalStorage struct {
	baseURL    string // e.g. "http://localhost:8080/uploads"
	uploadsDir string
}

func NewLocalStorage(baseURL, uploadsDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &LocalStorage{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		uploadsDir: uploadsDir,
	}, nil
}

func (s *LocalStorage) Upload(ctx context.Context, key, contentType string, reader io.Reader) (string, error) {
	path := filepath.Join(s.uploadsDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, reader); err != nil {
		os.Remove(path)
		return "", err
	}
	return s.baseURL + "/" + key, nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(s.uploadsDir, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *LocalStorage) DeleteByURL(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, s.baseURL+"/") {
		return nil
	}
	key := strings.TrimPrefix(url, s.baseURL+"/")
	return s.Delete(ctx, key)
}
