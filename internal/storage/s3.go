// Package storage archives generated documents in an S3-compatible bucket.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	UseSSL          bool
	Prefix          string
}

type S3 struct {
	raw    *minio.Client
	bucket string
	prefix string
}

func NewS3(cfg Config) (*S3, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating s3 client: %w", err)
	}

	return &S3{raw: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Key returns the object key a file name is stored under.
func (s *S3) Key(fileName string) string {
	return s.prefix + fileName
}

// Upload stores data under the prefixed file name and returns the object key.
func (s *S3) Upload(ctx context.Context, fileName, contentType string, data []byte) (string, error) {
	key := s.Key(fileName)

	_, err := s.raw.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %q: %w", key, err)
	}

	return key, nil
}

// PresignedURL returns a temporary download link for key.
func (s *S3) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := s.raw.PresignedGetObject(ctx, s.bucket, key, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("presign get object %q: %w", key, err)
	}

	return u.String(), nil
}
