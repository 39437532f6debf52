package storage

import (
	"context"
	"fmt"

	"cms-dashboard/internal/config"
)

// NewFromConfig builds the ObjectStore selected by cfg.Driver.
func NewFromConfig(ctx context.Context, cfg config.StorageConfig) (ObjectStore, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(cfg.PublicBaseURL), nil
	case "", "filesystem":
		return NewFileSystemStore(cfg.RootDir, cfg.PublicBaseURL)
	case "minio":
		return NewMinioStore(ctx, cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, cfg.Region, cfg.UseSSL, cfg.Bucket, cfg.URLExpiry)
	case "s3":
		return NewS3Store(ctx, S3Options{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			URLExpiry: cfg.URLExpiry,
		})
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
