package storage

import (
	"Lokiz/internal/api/config"
	"bytes"
	"context"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"github.com/pkg/errors"
)

// MinioStorage 基于 MinIO/S3 的实现；内网地址用于读写，外网地址用于签名与公开访问
type MinioStorage struct {
	client        *minio.Client
	signer        *minio.Client
	mainBucket    string
	tempBucket    string
	publicBase    string
	presignExpire time.Duration
}

func NewMinioStorage(ctx context.Context, cfg config.MinIOConfig, presignExpire time.Duration) (*MinioStorage, error) {
	endpoint, useSSL := cfg.InternalEndpoint, cfg.InternalUseSSL
	if endpoint == "" {
		endpoint, useSSL = cfg.ExternalEndpoint, cfg.ExternalUseSSL
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}
	if _, err = client.ListBuckets(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to minio server: %w", err)
	}

	signer := client
	if cfg.ExternalEndpoint != "" && cfg.ExternalEndpoint != endpoint {
		signer, err = minio.New(cfg.ExternalEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.ExternalUseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize minio signer: %w", err)
		}
	}

	scheme := "http"
	if cfg.ExternalUseSSL {
		scheme = "https"
	}
	publicHost := cfg.ExternalEndpoint
	if publicHost == "" {
		publicHost = endpoint
	}

	s := &MinioStorage{
		client:        client,
		signer:        signer,
		mainBucket:    cfg.MainBucket,
		tempBucket:    cfg.TempBucket,
		publicBase:    fmt.Sprintf("%s://%s/%s/", scheme, publicHost, cfg.MainBucket),
		presignExpire: presignExpire,
	}
	if s.tempBucket != "" {
		if err = s.ensureTempBucketLifecycle(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ensureTempBucketLifecycle 临时桶对象 1 天后自动过期
func (s *MinioStorage) ensureTempBucketLifecycle(ctx context.Context) error {
	lcConfig, err := s.client.GetBucketLifecycle(ctx, s.tempBucket)
	if err != nil {
		lcConfig = lifecycle.NewConfiguration()
	}

	const targetDays = 1
	for _, rule := range lcConfig.Rules {
		if rule.Status == "Enabled" && rule.Expiration.Days == targetDays && rule.RuleFilter.Prefix == "" {
			log.Info("检测到已存在兼容的过期策略", "ruleID", rule.ID)
			return nil
		}
	}

	lcConfig.Rules = append(lcConfig.Rules, lifecycle.Rule{
		ID:         "LokizTempExpire",
		Status:     "Enabled",
		Expiration: lifecycle.Expiration{Days: targetDays},
	})
	if err = s.client.SetBucketLifecycle(ctx, s.tempBucket, lcConfig); err != nil {
		return fmt.Errorf("设置生命周期失败: %w", err)
	}
	log.Info("已自动补全临时桶的 1 天过期策略", "bucket", s.tempBucket)
	return nil
}

func (s *MinioStorage) GeneratePresignedUpload(ctx context.Context, mimeType, folder string) (*PresignedUpload, error) {
	return s.PresignKey(ctx, NewObjectKey(folder, mimeType), mimeType)
}

func (s *MinioStorage) PresignKey(ctx context.Context, key, _ string) (*PresignedUpload, error) {
	u, err := s.signer.PresignedPutObject(ctx, s.mainBucket, key, s.presignExpire)
	if err != nil {
		return nil, errors.Wrapf(err, "presign %s", key)
	}
	return &PresignedUpload{
		UploadURL: u.String(),
		FileKey:   key,
		FileURL:   s.PublicURL(key),
	}, nil
}

func (s *MinioStorage) DownloadFile(ctx context.Context, key, localPath string) error {
	return errors.Wrapf(s.client.FGetObject(ctx, s.mainBucket, key, localPath, minio.GetObjectOptions{}), "download %s", key)
}

func (s *MinioStorage) UploadFile(ctx context.Context, localPath, key, contentType string) (string, error) {
	_, err := s.client.FPutObject(ctx, s.mainBucket, key, localPath, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrapf(err, "upload %s", key)
	}
	return s.PublicURL(key), nil
}

func (s *MinioStorage) UploadBytes(ctx context.Context, data []byte, key, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.mainBucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrapf(err, "upload %s", key)
	}
	return s.PublicURL(key), nil
}

func (s *MinioStorage) PublicURL(key string) string {
	return s.publicBase + key
}

func (s *MinioStorage) KeyFromURL(rawURL string) (string, bool) {
	if !strings.HasPrefix(rawURL, s.publicBase) {
		return "", false
	}
	key, _, _ := strings.Cut(strings.TrimPrefix(rawURL, s.publicBase), "#")
	return key, key != ""
}
