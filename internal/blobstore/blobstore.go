// Package blobstore archives snapshot exports to MinIO, adapted from
// the board server's asset_service.go bucket bootstrap (§4.P). Unlike
// store's Postgres table, these objects are meant for long-term
// retention/export, not the sync hot path.
package blobstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/bifshteksex/crdt-engine/internal/config"
)

// BlobStore wraps a MinIO client scoped to one bucket.
type BlobStore struct {
	client *minio.Client
	bucket string
}

// New creates a MinIO client and ensures its snapshot bucket exists.
func New(cfg *config.BlobStoreConfig) (*BlobStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create blobstore client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.BucketSnapshots)
	if err != nil {
		return nil, fmt.Errorf("failed to check snapshot bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketSnapshots, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create snapshot bucket: %w", err)
		}
	}

	return &BlobStore{client: client, bucket: cfg.BucketSnapshots}, nil
}

// PutSnapshot uploads data under key, overwriting any prior object.
func (b *BlobStore) PutSnapshot(ctx context.Context, key string, data []byte) error {
	_, err := b.client.PutObject(ctx, b.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to put snapshot %q: %w", key, err)
	}
	return nil
}

// GetSnapshot downloads the object at key.
func (b *BlobStore) GetSnapshot(ctx context.Context, key string) ([]byte, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot %q: %w", key, err)
	}
	defer obj.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(obj); err != nil {
		return nil, fmt.Errorf("failed to read snapshot %q: %w", key, err)
	}
	return buf.Bytes(), nil
}
