package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidKey = errors.New("invalid storage key")

// localUploader keeps objects on disk under baseDir and serves them under urlPrefix.
type localUploader struct {
	baseDir   string
	urlPrefix string
}

func NewLocalUploader(baseDir, urlPrefix string) (FileUploader, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &localUploader{baseDir: baseDir, urlPrefix: urlPrefix}, nil
}

func (u *localUploader) Upload(ctx context.Context, key string, _ string, reader io.Reader) (*UploadResult, error) {
	filePath, err := u.resolve(key)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create file directory: %w", err)
	}

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	if _, err := io.Copy(dst, reader); err != nil {
		dst.Close()
		_ = os.Remove(filePath)
		return nil, fmt.Errorf("failed to copy file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}

	return &UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *localUploader) Delete(_ context.Context, key string) error {
	filePath, err := u.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (u *localUploader) GetPublicURL(key string) string {
	if key == "" {
		return ""
	}
	return u.urlPrefix + strings.TrimPrefix(key, "/")
}

// resolve maps key to a path inside baseDir, rejecting keys that escape it.
func (u *localUploader) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	if key == "" || clean == string(filepath.Separator) {
		return "", ErrInvalidKey
	}
	return filepath.Join(u.baseDir, clean), nil
}
