package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtensionFor(t *testing.T) {
	cases := map[string]string{
		"video/mp4":        ".mp4",
		"VIDEO/QUICKTIME":  ".mov",
		"image/webp":       ".webp",
		"audio/wav":        ".wav",
		"application/json": ".bin",
		"":                 ".bin",
	}
	for in, want := range cases {
		if got := ExtensionFor(in); got != want {
			t.Errorf("ExtensionFor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMockStoragePresign(t *testing.T) {
	s, err := NewMockStorage("https://mock-s3.lokiz.dev/", "lokiz-videos-mock", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	up, err := s.GeneratePresignedUpload(context.Background(), "image/png", "images")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(up.FileKey, "images/") || !strings.HasSuffix(up.FileKey, ".png") {
		t.Fatalf("unexpected key %q", up.FileKey)
	}
	if up.UploadURL != "https://mock-s3.lokiz.dev/upload/"+up.FileKey+"?mock=true" {
		t.Fatalf("unexpected upload url %q", up.UploadURL)
	}
	if up.FileURL != "https://mock-s3.lokiz.dev/lokiz-videos-mock/"+up.FileKey {
		t.Fatalf("unexpected file url %q", up.FileURL)
	}

	key, ok := s.KeyFromURL(up.FileURL + "#t=1,2")
	if !ok || key != up.FileKey {
		t.Fatalf("KeyFromURL = %q, %v", key, ok)
	}
	if _, ok = s.KeyFromURL("https://elsewhere/x.mp4"); ok {
		t.Fatal("foreign url must not resolve")
	}
}

func TestMockStorageUploadDownload(t *testing.T) {
	ctx := context.Background()
	s, err := NewMockStorage("https://mock", "b", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	url, err := s.UploadBytes(ctx, []byte("frame"), "frames/1/a.jpg", "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://mock/b/frames/1/a.jpg" {
		t.Fatalf("url = %q", url)
	}

	local := filepath.Join(t.TempDir(), "out.jpg")
	if err = s.DownloadFile(ctx, "frames/1/a.jpg", local); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(local)
	if err != nil || string(data) != "frame" {
		t.Fatalf("downloaded %q, %v", data, err)
	}

	if err = s.DownloadFile(ctx, "missing.mp4", local); err == nil {
		t.Fatal("missing object must fail")
	}
}
