package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dosada05/soccer-web/models"
)

func newLocal(t *testing.T) (FileUploader, string) {
	t.Helper()
	dir := t.TempDir()
	u, err := NewLocalUploader(dir, "/uploads")
	if err != nil {
		t.Fatalf("new local uploader: %v", err)
	}
	return u, dir
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestLocalUploaderUploadAndDelete(t *testing.T) {
	t.Parallel()

	u, dir := newLocal(t)
	ctx := context.Background()

	res, err := u.Upload(ctx, "Teams/logo.png", "image/png", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if res.Location != "/uploads/Teams/logo.png" {
		t.Fatalf("location = %q, want %q", res.Location, "/uploads/Teams/logo.png")
	}
	got, err := os.ReadFile(filepath.Join(dir, "Teams", "logo.png"))
	if err != nil || string(got) != "data" {
		t.Fatalf("stored file = %q, %v", got, err)
	}

	if err := u.Delete(ctx, "Teams/logo.png"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Teams", "logo.png")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("stat after delete err = %v, want not exist", err)
	}
	if err := u.Delete(ctx, "Teams/logo.png"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestLocalUploaderKeepsKeysInsideBaseDir(t *testing.T) {
	t.Parallel()

	u, dir := newLocal(t)
	if _, err := u.Upload(context.Background(), "../../escape.txt", "text/plain", strings.NewReader("x")); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.txt")); err != nil {
		t.Fatalf("expected file inside base dir: %v", err)
	}
	if _, err := u.Upload(context.Background(), "", "text/plain", strings.NewReader("x")); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("empty key err = %v, want %v", err, ErrInvalidKey)
	}
}

func TestJoinPublicURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base, key, want string
	}{
		{"https://cdn.example.com", "Teams/a.png", "https://cdn.example.com/Teams/a.png"},
		{"https://cdn.example.com/assets", "/Teams/a.png", "https://cdn.example.com/assets/Teams/a.png"},
		{"https://cdn.example.com/assets/", "Teams/a.png", "https://cdn.example.com/assets/Teams/a.png"},
		{"", "Teams/a.png", ""},
	}
	for _, tt := range tests {
		if got := joinPublicURL(tt.base, tt.key); got != tt.want {
			t.Errorf("joinPublicURL(%q, %q) = %q, want %q", tt.base, tt.key, got, tt.want)
		}
	}
}

func TestImageStoreUploadsUnderCategory(t *testing.T) {
	t.Parallel()

	u, dir := newLocal(t)
	store := NewImageStore(u, 1<<20, 0)
	data := pngBytes(t, 10, 10)

	path, err := store.UploadImage(context.Background(), &models.FileUpload{
		Filename:    "logo.png",
		ContentType: "image/png",
		Size:        int64(len(data)),
		Content:     bytes.NewReader(data),
	}, CategoryTournaments)
	if err != nil {
		t.Fatalf("upload image: %v", err)
	}
	if !strings.HasPrefix(path, "/uploads/Tournaments/") || !strings.HasSuffix(path, ".png") {
		t.Fatalf("path = %q, want /uploads/Tournaments/<uuid>.png", path)
	}

	stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(path, "/uploads/")))
	if err != nil {
		t.Fatalf("read stored image: %v", err)
	}
	if !bytes.Equal(stored, data) {
		t.Fatal("small image should be stored unchanged")
	}
}

func TestImageStoreShrinksLargeImages(t *testing.T) {
	t.Parallel()

	u, dir := newLocal(t)
	store := NewImageStore(u, 1<<22, 64)
	data := pngBytes(t, 256, 128)

	path, err := store.UploadImage(context.Background(), &models.FileUpload{
		ContentType: "image/png",
		Content:     bytes.NewReader(data),
	}, CategoryTeams)
	if err != nil {
		t.Fatalf("upload image: %v", err)
	}
	f, err := os.Open(filepath.Join(dir, strings.TrimPrefix(path, "/uploads/")))
	if err != nil {
		t.Fatalf("open stored image: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode stored image: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 32 {
		t.Fatalf("size = %dx%d, want 64x32", cfg.Width, cfg.Height)
	}
}

func TestImageStoreRejects(t *testing.T) {
	t.Parallel()

	u, _ := newLocal(t)
	store := NewImageStore(u, 8, 0)

	tests := []struct {
		name string
		file *models.FileUpload
		want error
	}{
		{name: "nil file", file: nil, want: ErrEmptyImage},
		{name: "not an image", file: &models.FileUpload{ContentType: "application/pdf", Content: strings.NewReader("x")}, want: ErrUnsupportedImageType},
		{name: "svg", file: &models.FileUpload{ContentType: "image/svg+xml", Content: strings.NewReader("<svg/>")}, want: ErrUnsupportedImageType},
		{name: "declared too large", file: &models.FileUpload{ContentType: "image/png", Size: 9, Content: strings.NewReader("x")}, want: ErrImageTooLarge},
		{name: "actually too large", file: &models.FileUpload{ContentType: "image/png", Content: strings.NewReader("123456789")}, want: ErrImageTooLarge},
		{name: "empty", file: &models.FileUpload{ContentType: "image/png", Content: strings.NewReader("")}, want: ErrEmptyImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := store.UploadImage(context.Background(), tt.file, CategoryTeams); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGetExtensionFromContentType(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"image/jpeg":               ".jpg",
		"image/PNG":                ".png",
		"image/gif; charset=utf-8": ".gif",
	}
	for contentType, want := range tests {
		got, err := GetExtensionFromContentType(contentType)
		if err != nil || got != want {
			t.Errorf("GetExtensionFromContentType(%q) = %q, %v; want %q", contentType, got, err, want)
		}
	}
	for _, contentType := range []string{"text/html", "image/svg+xml", "image/SVG+XML; charset=utf-8"} {
		if _, err := GetExtensionFromContentType(contentType); !errors.Is(err, ErrUnsupportedImageType) {
			t.Errorf("%s err = %v, want %v", contentType, err, ErrUnsupportedImageType)
		}
	}
}
