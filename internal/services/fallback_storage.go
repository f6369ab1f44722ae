package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// FallbackStorageService stores files on the local disk. It is used when R2 is unavailable.
type FallbackStorageService struct {
	basePath string
	baseURL  string
}

// NewFallbackStorageService creates a new fallback storage service. Files under
// basePath are expected to be served at baseURL.
func NewFallbackStorageService(basePath, baseURL string) *FallbackStorageService {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		log.Printf("Warning: failed to create storage directory %s: %v", basePath, err)
	}

	return &FallbackStorageService{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}
}

func (f *FallbackStorageService) path(key string) (string, error) {
	key = filepath.Clean("/" + strings.TrimPrefix(key, "/"))
	if key == "/" {
		return "", fmt.Errorf("empty storage key")
	}
	return filepath.Join(f.basePath, key), nil
}

// Upload saves a file to local storage
func (f *FallbackStorageService) Upload(ctx context.Context, key string, reader io.Reader, contentType string, size int64) (string, error) {
	fullPath, err := f.path(key)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", fullPath, err)
	}
	defer file.Close()

	written, err := io.Copy(file, reader)
	if err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", fullPath, err)
	}
	if size >= 0 && written != size {
		return "", fmt.Errorf("size mismatch: expected %d bytes, wrote %d bytes", size, written)
	}

	log.Printf("Fallback storage: saved %s to %s", key, fullPath)
	return f.GetURL(key), nil
}

// Delete removes a file from local storage. Missing files are not an error.
func (f *FallbackStorageService) Delete(ctx context.Context, key string) error {
	fullPath, err := f.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %s: %w", fullPath, err)
	}

	f.cleanupEmptyDirs(filepath.Dir(fullPath))
	return nil
}

// PublicBase is the URL prefix of every stored file
func (f *FallbackStorageService) PublicBase() string {
	return f.baseURL
}

// GetURL returns the public URL for a file
func (f *FallbackStorageService) GetURL(key string) string {
	return f.baseURL + "/" + strings.TrimPrefix(key, "/")
}

// Exists checks if a file exists in local storage
func (f *FallbackStorageService) Exists(ctx context.Context, key string) (bool, error) {
	fullPath, err := f.path(key)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check if file exists: %w", err)
	}
	return true, nil
}

// cleanupEmptyDirs removes empty directories up to the base path
func (f *FallbackStorageService) cleanupEmptyDirs(dir string) {
	if dir == filepath.Clean(f.basePath) || dir == "." || dir == "/" {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}

	if err := os.Remove(dir); err == nil {
		f.cleanupEmptyDirs(filepath.Dir(dir))
	}
}

// StorageServiceWithFallback wraps a primary storage service with a fallback
type StorageServiceWithFallback struct {
	primary  StorageService
	fallback StorageService
}

// NewStorageServiceWithFallback creates a storage service with fallback capability
func NewStorageServiceWithFallback(primary, fallback StorageService) *StorageServiceWithFallback {
	return &StorageServiceWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// Upload tries primary storage first and falls back on error
func (s *StorageServiceWithFallback) Upload(ctx context.Context, key string, reader io.Reader, contentType string, size int64) (string, error) {
	url, err := s.primary.Upload(ctx, key, reader, contentType, size)
	if err == nil {
		return url, nil
	}

	log.Printf("Primary storage failed, using fallback: %v", err)

	seeker, ok := reader.(io.Seeker)
	if !ok {
		return "", fmt.Errorf("primary storage failed and cannot reset reader for fallback: %w", err)
	}
	if _, serr := seeker.Seek(0, io.SeekStart); serr != nil {
		return "", fmt.Errorf("primary storage failed and cannot reset reader for fallback: %w", err)
	}

	return s.fallback.Upload(ctx, key, reader, contentType, size)
}

// Delete removes the file from both storages. It fails only when both do.
func (s *StorageServiceWithFallback) Delete(ctx context.Context, key string) error {
	primaryErr := s.primary.Delete(ctx, key)
	fallbackErr := s.fallback.Delete(ctx, key)

	if primaryErr != nil && fallbackErr != nil {
		return fmt.Errorf("both storages failed - primary: %v, fallback: %v", primaryErr, fallbackErr)
	}
	return nil
}

// GetURL returns the URL from primary storage
func (s *StorageServiceWithFallback) GetURL(key string) string {
	return s.primary.GetURL(key)
}

// Exists checks both storages
func (s *StorageServiceWithFallback) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := s.primary.Exists(ctx, key)
	if err == nil && exists {
		return true, nil
	}
	return s.fallback.Exists(ctx, key)
}

// KeyFor resolves a public URL from either storage back to its key
func (s *StorageServiceWithFallback) KeyFor(publicURL string) (string, bool) {
	for _, st := range []StorageService{s.primary, s.fallback} {
		if kr, ok := st.(keyResolver); ok {
			if key, ok := kr.KeyFor(publicURL); ok {
				return key, true
			}
		}
	}
	return "", false
}

// KeyFor resolves a public URL of this bucket back to its key
func (r *R2Service) KeyFor(publicURL string) (string, bool) {
	return KeyFromURL(r.PublicBase(), publicURL)
}

// KeyFor resolves a public URL of this directory back to its key
func (f *FallbackStorageService) KeyFor(publicURL string) (string, bool) {
	return KeyFromURL(f.PublicBase(), publicURL)
}

type keyResolver interface {
	KeyFor(publicURL string) (string, bool)
}
