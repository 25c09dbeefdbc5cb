package media

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appconfig "github.com/agendlyapp/booking-platform/internal/config"
)

// Storage uploads processed assets to an S3-compatible bucket.
type Storage struct {
	client *s3.Client
	bucket string

	// publicBase is the URL prefix stored on models; derived from the
	// endpoint for self-hosted object stores.
	publicBase string
}

// NewStorage returns nil when no bucket is configured; callers treat a nil
// storage as "media disabled".
func NewStorage(cfg *appconfig.Config) *Storage {
	if cfg.S3Bucket == "" {
		return nil
	}

	opts := s3.Options{
		Region: cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		),
	}

	publicBase := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)

	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
		opts.UsePathStyle = true
		publicBase = fmt.Sprintf("%s/%s", cfg.S3Endpoint, cfg.S3Bucket)
	}

	return &Storage{
		client:     s3.New(opts),
		bucket:     cfg.S3Bucket,
		publicBase: publicBase,
	}
}

// Put stores body under a generated key inside prefix and returns the public
// URL. Keys are never reused, so cached copies stay valid forever.
func (s *Storage) Put(ctx context.Context, prefix string, body []byte, contentType string) (string, error) {
	key := fmt.Sprintf("%s/%s.webp", prefix, uuid.NewString())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.publicBase, key), nil
}
