// Package storage adapts the object-storage collaborator that holds uploaded
// images. Handlers only see an ImageUploader; the MinIO wiring stays here.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ashokgiriii/tweet-nepal/config"
)

// ImageUploader stores an image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, r io.Reader, size int64, filename, contentType string) (string, error)
}

// Uploader is the MinIO-backed ImageUploader.
type Uploader struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewUploader builds an Uploader from configuration. It returns nil when no
// endpoint is configured, which disables uploads instead of failing boot.
func NewUploader(cfg config.AppConfig) (*Uploader, error) {
	if cfg.MinioEndpoint == "" {
		return nil, nil
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object storage: %w", err)
	}

	publicBase := cfg.MinioPublicBase
	if publicBase == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		publicBase = fmt.Sprintf("%s://%s/%s", scheme, cfg.MinioEndpoint, cfg.MinioBucket)
	}

	return &Uploader{
		client:     client,
		bucket:     cfg.MinioBucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

// Upload stores the object under a random key, keeping the file extension so
// browsers can infer the type from the URL.
func (u *Uploader) Upload(ctx context.Context, r io.Reader, size int64, filename, contentType string) (string, error) {
	objectName := uuid.NewString() + strings.ToLower(filepath.Ext(filename))

	_, err := u.client.PutObject(ctx, u.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload object: %w", err)
	}

	return u.publicBase + "/" + objectName, nil
}
