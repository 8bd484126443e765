package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"rentalhub/internal/common"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var imageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// ImageStore keeps property images in one MinIO bucket.
type ImageStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	Remove(ctx context.Context, key string) error
	EnsureBucket(ctx context.Context) error
}

type ImageStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

type minioImageStore struct {
	client *minio.Client
	bucket string
}

func NewImageStore(cfg ImageStoreConfig) (ImageStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("image bucket name is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioImageStore{client: client, bucket: cfg.Bucket}, nil
}

// PropertyImageKey names a fresh object under properties/<id>/, keeping the
// upload's extension.
func PropertyImageKey(propertyID uuid.UUID, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := imageExtensions[ext]; !ok {
		return "", common.Validation("image must be a jpg, jpeg, png, webp or gif file")
	}
	return fmt.Sprintf("properties/%s/%s%s", propertyID, uuid.NewString(), ext), nil
}

// ImageContentType guesses the MIME type from the key's extension.
func ImageContentType(key string) string {
	ext := strings.ToLower(filepath.Ext(key))
	if ct, ok := imageExtensions[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func (s *minioImageStore) Put(ctx context.Context, key string, reader io.Reader, size int64) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: ImageContentType(key),
	})
	return err
}

func (s *minioImageStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// Remove deletes the object. A key that is already gone is not an error.
func (s *minioImageStore) Remove(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return nil
	}
	return err
}

func (s *minioImageStore) EnsureBucket(ctx context.Context) error {
	found, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if found {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		// another instance may have created it first
		if exists, existsErr := s.client.BucketExists(ctx, s.bucket); existsErr == nil && exists {
			return nil
		}
		return err
	}
	return nil
}
