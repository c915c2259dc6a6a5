package storage

import (
	"context"
	"path"
	"strings"

	"github.com/google/uuid"
)

// PresignedUpload 预签名上传结果
type PresignedUpload struct {
	UploadURL string `json:"upload_url"`
	FileKey   string `json:"file_key"`
	FileURL   string `json:"file_url"`
}

// Storage 对象存储抽象，业务只依赖该接口
type Storage interface {
	// GeneratePresignedUpload 为 mimeType 生成 folder 下的随机对象键与上传地址
	GeneratePresignedUpload(ctx context.Context, mimeType, folder string) (*PresignedUpload, error)
	// PresignKey 为指定对象键生成上传地址
	PresignKey(ctx context.Context, key, mimeType string) (*PresignedUpload, error)
	DownloadFile(ctx context.Context, key, localPath string) error
	UploadFile(ctx context.Context, localPath, key, contentType string) (string, error)
	UploadBytes(ctx context.Context, data []byte, key, contentType string) (string, error)
	PublicURL(key string) string
	// KeyFromURL 从公开地址反解对象键，非本存储地址返回 false
	KeyFromURL(rawURL string) (string, bool)
}

var extensions = map[string]string{
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
	"video/x-msvideo": ".avi",
	"video/webm":      ".webm",
	"image/jpeg":      ".jpg",
	"image/jpg":       ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"audio/mpeg":      ".mp3",
	"audio/mp3":       ".mp3",
	"audio/wav":       ".wav",
	"audio/x-wav":     ".wav",
}

// ExtensionFor 根据 MIME 类型返回扩展名，未知类型为 .bin
func ExtensionFor(mimeType string) string {
	if ext, ok := extensions[strings.ToLower(strings.TrimSpace(mimeType))]; ok {
		return ext
	}
	return ".bin"
}

// SupportedMime 是否为已知的媒体类型
func SupportedMime(mimeType string) bool {
	_, ok := extensions[strings.ToLower(strings.TrimSpace(mimeType))]
	return ok
}

// NewObjectKey 生成 folder/uuid.ext 形式的对象键
func NewObjectKey(folder, mimeType string) string {
	return path.Join(folder, uuid.NewString()+ExtensionFor(mimeType))
}
