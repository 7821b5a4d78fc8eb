// Package storage provides blob storage for uploaded assets, backed by
// S3-compatible object stores.
package storage

import (
	"context"
)

// FileStorage stores opaque blobs under string keys and hands back
// publicly resolvable URLs.
type FileStorage interface {
	// Upload stores data under key and returns the public URL.
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Download fetches the blob stored under key.
	Download(ctx context.Context, key string) ([]byte, error)
	// Delete removes the blob stored under key. Deleting a missing key
	// is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the public URL for key without touching the store.
	URL(key string) string
}
