package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Mirror replicates successful outputs into a bucket on an S3-compatible
// server (e.g. MinIO). The local file stays the source of truth; the
// mirror is a best-effort replica.
type Mirror struct {
	client     *minio.Client
	bucketName string
}

// NewMirror connects to the given endpoint and ensures the bucket
// exists, creating it when missing.
func NewMirror(ctx context.Context, endpoint, accessKey, secretKey, bucketName string, useSSL bool) (*Mirror, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Mirror{
		client:     client,
		bucketName: bucketName,
	}, nil
}

// Save uploads one output under its base name.
func (m *Mirror) Save(ctx context.Context, objectName string, data []byte) error {
	_, err := m.client.PutObject(
		ctx,
		m.bucketName,
		filepath.Base(objectName),
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"},
	)
	if err != nil {
		return fmt.Errorf("failed to mirror file: %w", err)
	}
	return nil
}
