package storage

import (
	"Lokiz/internal/api/config"
	"context"
	"fmt"
	"time"
)

// New 按配置选择存储实现
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.Storage.Driver {
	case "", "mock":
		return NewMockStorage(cfg.Storage.MockBaseURL, cfg.Storage.MockBucket, cfg.Storage.MockDir)
	case "minio", "s3":
		return NewMinioStorage(ctx, cfg.MinIO, time.Duration(cfg.Storage.PresignExpire)*time.Second)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
