package storage

import (
	"context"
	"io"
)

// FileStorage abstracts where organization logos and avatars live.
// Implementations return a publicly servable URL for each stored object.
type FileStorage interface {
	// Upload stores the object under key and returns its public URL.
	Upload(ctx context.Context, key, contentType string, reader io.Reader) (string, error)

	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error

	// DeleteByURL removes an object given the URL Upload returned.
	// Unknown URLs are ignored.
	DeleteByURL(ctx context.Context, url string) error
}
