package util

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"strconv"

	"github.com/disintegration/imaging"
)

const maxFrameEdge = 1080

// CaptureFrame 使用 ffmpeg 截取 timestamp 处的一帧，返回 JPEG 数据
func CaptureFrame(ctx context.Context, ffmpegPath, mediaPath string, timestamp float64) ([]byte, error) {
	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-ss", strconv.FormatFloat(timestamp, 'f', 3, 64),
		"-i", mediaPath,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"pipe:1",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg 截帧失败: %w: %s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg 未输出画面，timestamp=%.3f", timestamp)
	}

	img, err := imaging.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("解码截帧失败: %w", err)
	}
	return EncodeFrame(img)
}

// EncodeFrame 将画面缩放到最长边不超过 1080 并编码为 JPEG
func EncodeFrame(img image.Image) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() > maxFrameEdge || b.Dy() > maxFrameEdge {
		img = imaging.Fit(img, maxFrameEdge, maxFrameEdge, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
