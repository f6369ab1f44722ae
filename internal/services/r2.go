package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	appconfig "eventip/internal/config"
)

// Cover images are stored under content-addressed keys and never change in place.
const immutableCacheControl = "public, max-age=31536000, immutable"

var errR2NotConfigured = errors.New("R2 storage not configured")

// R2Service stores news cover images in Cloudflare R2 (or any S3-compatible bucket)
type R2Service struct {
	client   *s3.Client
	uploader *manager.Uploader
	config   appconfig.R2Config
}

// NewR2Service builds an S3 client pointed at the R2 endpoint. It does not contact the bucket.
func NewR2Service(cfg appconfig.R2Config) (*R2Service, error) {
	switch {
	case cfg.AccessKeyID == "" || cfg.SecretAccessKey == "":
		return nil, fmt.Errorf("%w: missing access key", errR2NotConfigured)
	case cfg.BucketName == "":
		return nil, fmt.Errorf("%w: missing bucket name", errR2NotConfigured)
	}

	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithCredentialsProvider(creds),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(r2Endpoint(cfg))
		o.UsePathStyle = true
	})

	return &R2Service{
		client:   client,
		uploader: manager.NewUploader(client),
		config:   cfg,
	}, nil
}

func r2Endpoint(cfg appconfig.R2Config) string {
	if cfg.Endpoint != "" {
		return cfg.Endpoint
	}
	return "https://" + cfg.AccountID + ".r2.cloudflarestorage.com"
}

func objectKey(key string) string {
	return strings.TrimLeft(key, "/")
}

func (r *R2Service) bucket() *string {
	return aws.String(r.config.BucketName)
}

// Upload streams reader into the bucket and returns the object's public URL
func (r *R2Service) Upload(ctx context.Context, key string, reader io.Reader, contentType string, size int64) (string, error) {
	key = objectKey(key)

	_, err := r.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        r.bucket(),
		Key:           aws.String(key),
		Body:          reader,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		CacheControl:  aws.String(immutableCacheControl),
	})
	if err != nil {
		return "", fmt.Errorf("r2 put %s: %w", key, err)
	}

	log.Printf("Stored %s in bucket %s", key, r.config.BucketName)
	return r.GetURL(key), nil
}

// Delete removes an object. Deleting a missing key succeeds.
func (r *R2Service) Delete(ctx context.Context, key string) error {
	key = objectKey(key)
	if _, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: r.bucket(), Key: aws.String(key)}); err != nil {
		return fmt.Errorf("r2 delete %s: %w", key, err)
	}
	return nil
}

// PublicBase is the URL prefix objects are served from: the configured public
// domain or the bucket's r2.dev subdomain
func (r *R2Service) PublicBase() string {
	if base := strings.TrimRight(r.config.PublicURL, "/"); base != "" {
		return base
	}
	return "https://pub-" + r.config.AccountID + ".r2.dev"
}

func (r *R2Service) GetURL(key string) string {
	return r.PublicBase() + "/" + objectKey(key)
}

// Exists reports whether an object is present
func (r *R2Service) Exists(ctx context.Context, key string) (bool, error) {
	_, err := r.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: r.bucket(), Key: aws.String(objectKey(key))})
	if err == nil {
		return true, nil
	}

	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, fmt.Errorf("r2 head %s: %w", key, err)
}

// HealthCheck confirms the bucket exists and the credentials can reach it
func (r *R2Service) HealthCheck(ctx context.Context) error {
	if _, err := r.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: r.bucket()}); err != nil {
		return fmt.Errorf("r2 bucket %s unreachable: %w", r.config.BucketName, err)
	}
	return nil
}
