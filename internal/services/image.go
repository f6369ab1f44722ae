package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"eventip/internal/models"
)

const (
	// MaxCoverImageSize is the largest accepted cover upload
	MaxCoverImageSize = 10 << 20
	// MaxCoverImagePixels caps width times height of a cover upload
	MaxCoverImagePixels = 40_000_000

	coverWidth   = 800
	coverHeight  = 450
	coverQuality = 85
	coverPrefix  = "news"
)

// ImageService processes news cover images and stores them
type ImageService struct {
	storage StorageService
}

// NewImageService creates a new image service
func NewImageService(storage StorageService) *ImageService {
	return &ImageService{
		storage: storage,
	}
}

// UploadNewsCover decodes an uploaded PNG, JPEG or GIF, fits it into 800x450
// and stores it as JPEG. It returns the public URL.
func (s *ImageService) UploadNewsCover(ctx context.Context, data []byte, filename string) (string, error) {
	if len(data) > MaxCoverImageSize {
		return "", fmt.Errorf("%w: image size %d bytes exceeds maximum allowed size %d bytes", models.ErrInvalidInput, len(data), MaxCoverImageSize)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: invalid image %q: %v", models.ErrInvalidInput, filename, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxCoverImagePixels {
		return "", fmt.Errorf("%w: image %q is %dx%d pixels, more than the %d pixel limit",
			models.ErrInvalidInput, filename, cfg.Width, cfg.Height, MaxCoverImagePixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: invalid image %q: %v", models.ErrInvalidInput, filename, err)
	}

	fitted := imaging.Fit(img, coverWidth, coverHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.JPEG, imaging.JPEGQuality(coverQuality)); err != nil {
		return "", fmt.Errorf("failed to encode cover image: %w", err)
	}

	key := generateCoverKey()
	url, err := s.storage.Upload(ctx, key, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len()))
	if err != nil {
		return "", err
	}

	log.Printf("Cover image %s (%s, %dx%d) stored as %s", filename, format, fitted.Bounds().Dx(), fitted.Bounds().Dy(), key)
	return url, nil
}

// DeleteByURL removes a stored cover. URLs that were not issued by the storage
// backend, such as external links, are left alone.
func (s *ImageService) DeleteByURL(ctx context.Context, url string) error {
	kr, ok := s.storage.(keyResolver)
	if !ok {
		return nil
	}

	key, ok := kr.KeyFor(url)
	if !ok {
		return nil
	}
	return s.storage.Delete(ctx, key)
}

func generateCoverKey() string {
	return fmt.Sprintf("%s/%s.jpg", coverPrefix, uuid.New().String())
}
