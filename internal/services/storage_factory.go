package services

import (
	"context"
	"log"
	"strings"
	"time"

	"eventip/internal/config"
)

const storageHealthTimeout = 10 * time.Second

// StorageFactory creates storage services with proper fallback configuration
type StorageFactory struct {
	config *config.Config
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config) *StorageFactory {
	return &StorageFactory{config: cfg}
}

// FallbackURL is the public prefix of files kept in the local upload directory
func (f *StorageFactory) FallbackURL() string {
	return strings.TrimSuffix(f.config.Server.BaseURL, "/") + "/uploads"
}

// CreateStorageService returns R2 with a local fallback, or the local store alone
// when R2 is not configured or unreachable.
func (f *StorageFactory) CreateStorageService(ctx context.Context) StorageService {
	fallback := NewFallbackStorageService(f.config.Server.UploadDir, f.FallbackURL())

	r2Service, err := NewR2Service(f.config.R2)
	if err != nil {
		log.Printf("Warning: R2 service unavailable, using fallback storage only: %v", err)
		return fallback
	}

	hctx, cancel := context.WithTimeout(ctx, storageHealthTimeout)
	defer cancel()

	if err := r2Service.HealthCheck(hctx); err != nil {
		log.Printf("Warning: R2 health check failed, using fallback storage only: %v", err)
		return fallback
	}

	log.Println("R2 storage service initialized successfully")
	return NewStorageServiceWithFallback(r2Service, fallback)
}

// CreateImageService creates an image service backed by the configured storage
func (f *StorageFactory) CreateImageService(ctx context.Context) *ImageService {
	return NewImageService(f.CreateStorageService(ctx))
}
