package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"teamforge/config"
)

// BlobStore is the boundary to external file storage. File bytes never pass
// through this backend; clients upload and download directly via presigned
// URLs and the database only holds the object key.
type BlobStore interface {
	GenerateUploadURL(ctx context.Context, prefix string) (fileID string, uploadURL string, err error)
	GetFileURL(ctx context.Context, fileID string) (string, error)
}

const presignExpiry = 15 * time.Minute

// MinioStore implements BlobStore against any S3-compatible endpoint
type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(cfg config.BlobConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}
	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the bucket if it does not exist yet
func (m *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (m *MinioStore) GenerateUploadURL(ctx context.Context, prefix string) (string, string, error) {
	fileID := fmt.Sprintf("%s/%s", prefix, uuid.NewString())
	uploadURL, err := m.client.PresignedPutObject(ctx, m.bucket, fileID, presignExpiry)
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return fileID, uploadURL.String(), nil
}

func (m *MinioStore) GetFileURL(ctx context.Context, fileID string) (string, error) {
	fileURL, err := m.client.PresignedGetObject(ctx, m.bucket, fileID, presignExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}
	return fileURL.String(), nil
}
