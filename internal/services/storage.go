package services

import (
	"context"
	"io"
	"net/url"
	"strings"
)

// StorageService defines the interface for file storage operations
type StorageService interface {
	// Upload stores a file and returns its public URL
	Upload(ctx context.Context, key string, reader io.Reader, contentType string, size int64) (string, error)

	// Delete removes a file from storage
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL for a file
	GetURL(key string) string

	// Exists checks if a file exists in storage
	Exists(ctx context.Context, key string) (bool, error)
}

// KeyFromURL recovers the storage key from a public URL produced by GetURL.
// It returns false when the URL does not belong to the given base.
func KeyFromURL(base, publicURL string) (string, bool) {
	base = strings.TrimSuffix(base, "/")
	if base == "" || !strings.HasPrefix(publicURL, base+"/") {
		return "", false
	}

	key := strings.TrimPrefix(publicURL, base+"/")
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	return key, key != ""
}
