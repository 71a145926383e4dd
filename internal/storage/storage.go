// Package storage keeps uploaded files (applicant CVs) in an S3 compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/frahmantamala/empleoya/internal"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultRegion = "us-east-1"

// Provider stores an object and returns the URL it can be fetched from.
type Provider interface {
	Upload(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error)
}

type MinioStorage struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

func NewMinioStorage(cfg internal.StorageConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.BucketName)
	}

	return &MinioStorage{client: client, bucket: cfg.BucketName, publicBaseURL: base}, nil
}

// EnsureBucket creates the bucket on first start.
func (s *MinioStorage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: defaultRegion})
}

func (s *MinioStorage) Upload(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", internal.NewExternalError("no se pudo guardar el archivo", internal.ErrCodeStorageNotAvailable, err)
	}
	return s.publicBaseURL + "/" + key, nil
}

// Ping is used by the health check.
func (s *MinioStorage) Ping(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucket)
	return err
}

// Disabled is wired when no storage endpoint is configured.
type Disabled struct{}

func (Disabled) Upload(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	return "", internal.NewExternalError("almacenamiento de archivos no configurado", internal.ErrCodeStorageNotAvailable, nil)
}
