package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore keeps objects in a MinIO (or any S3-compatible) bucket and
// hands out presigned download URLs.
type MinioStore struct {
	client     *minio.Client
	bucketName string
	expiry     time.Duration
}

// NewMinioStore connects to endpoint and creates bucketName if missing.
func NewMinioStore(ctx context.Context, endpoint, accessKeyID, secretAccessKey, region string, useSSL bool, bucketName string, expiry time.Duration) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinioStore{client: client, bucketName: bucketName, expiry: expiry}, nil
}

// Upload puts r into the bucket under objectPath.
func (s *MinioStore) Upload(ctx context.Context, objectPath string, r io.Reader, size int64, contentType string) error {
	p, err := cleanPath(objectPath)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, s.bucketName, p, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		return fmt.Errorf("failed to upload object (code %s): %w", resp.Code, err)
	}
	return nil
}

// URL returns a presigned GET URL for an existing object.
func (s *MinioStore) URL(ctx context.Context, objectPath string) (string, error) {
	ok, err := s.Exists(ctx, objectPath)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%s: %w", objectPath, ErrNotFound)
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucketName, objectPath, s.expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign object url: %w", err)
	}
	return u.String(), nil
}

// Delete removes objectPath from the bucket.
func (s *MinioStore) Delete(ctx context.Context, objectPath string) error {
	p, err := cleanPath(objectPath)
	if err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucketName, p, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Exists reports whether objectPath is in the bucket.
func (s *MinioStore) Exists(ctx context.Context, objectPath string) (bool, error) {
	p, err := cleanPath(objectPath)
	if err != nil {
		return false, err
	}
	_, err = s.client.StatObject(ctx, s.bucketName, p, minio.StatObjectOptions{})
	if err != nil {
		errResponse := minio.ToErrorResponse(err)
		if errResponse.Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}
	return true, nil
}

var _ ObjectStore = (*MinioStore)(nil)
