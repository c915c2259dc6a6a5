package storage

import (
	"context"
	"fmt"
	"io"
	log "log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// MockStorage 本地目录模拟对象存储，URL 为伪造地址
type MockStorage struct {
	baseURL string
	bucket  string
	dir     string
}

func NewMockStorage(baseURL, bucket, dir string) (*MockStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create mock storage dir %s", dir)
	}
	log.Info("Mock storage enabled", "dir", dir, "base_url", baseURL)
	return &MockStorage{baseURL: strings.TrimRight(baseURL, "/"), bucket: bucket, dir: dir}, nil
}

func (s *MockStorage) GeneratePresignedUpload(ctx context.Context, mimeType, folder string) (*PresignedUpload, error) {
	return s.PresignKey(ctx, NewObjectKey(folder, mimeType), mimeType)
}

func (s *MockStorage) PresignKey(_ context.Context, key, _ string) (*PresignedUpload, error) {
	return &PresignedUpload{
		UploadURL: fmt.Sprintf("%s/upload/%s?mock=true", s.baseURL, key),
		FileKey:   key,
		FileURL:   s.PublicURL(key),
	}, nil
}

func (s *MockStorage) DownloadFile(_ context.Context, key, localPath string) error {
	src, err := os.Open(s.localPath(key))
	if err != nil {
		return errors.Wrapf(err, "mock download %s", key)
	}
	defer func() {
		_ = src.Close()
	}()

	dst, err := os.Create(localPath)
	if err != nil {
		return errors.Wrap(err, "create local file")
	}
	defer func() {
		_ = dst.Close()
	}()

	_, err = io.Copy(dst, src)
	return errors.Wrap(err, "copy mock object")
}

func (s *MockStorage) UploadFile(ctx context.Context, localPath, key, contentType string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", localPath)
	}
	return s.UploadBytes(ctx, data, key, contentType)
}

func (s *MockStorage) UploadBytes(_ context.Context, data []byte, key, _ string) (string, error) {
	target := s.localPath(key)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", errors.Wrap(err, "create object dir")
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "write mock object %s", key)
	}
	return s.PublicURL(key), nil
}

func (s *MockStorage) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key)
}

func (s *MockStorage) KeyFromURL(rawURL string) (string, bool) {
	prefix := s.baseURL + "/" + s.bucket + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	key, _, _ := strings.Cut(strings.TrimPrefix(rawURL, prefix), "#")
	return key, key != ""
}

func (s *MockStorage) localPath(key string) string {
	return filepath.Join(s.dir, filepath.FromSlash(filepath.Clean("/"+key)))
}
