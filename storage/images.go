package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/Dosada05/soccer-web/models"
)

var (
	ErrUnsupportedImageType = errors.New("unsupported image content type")
	ErrImageTooLarge        = errors.New("image exceeds maximum upload size")
	ErrEmptyImage           = errors.New("image is empty")
)

const (
	CategoryTournaments = "Tournaments"
	CategoryTeams       = "Teams"

	DefaultMaxLogoDimension = 512
)

// ImageStore validates uploaded logos, shrinks oversized raster images and hands them to a
// FileUploader under category/<uuid><ext>.
type ImageStore struct {
	uploader     FileUploader
	maxSize      int64
	maxDimension int
}

func NewImageStore(uploader FileUploader, maxSize int64, maxDimension int) *ImageStore {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxLogoDimension
	}
	return &ImageStore{uploader: uploader, maxSize: maxSize, maxDimension: maxDimension}
}

// UploadImage stores file and returns the public path of the stored object.
func (s *ImageStore) UploadImage(ctx context.Context, file *models.FileUpload, category string) (string, error) {
	if file == nil || file.Content == nil {
		return "", ErrEmptyImage
	}
	ext, err := GetExtensionFromContentType(file.ContentType)
	if err != nil {
		return "", err
	}
	if s.maxSize > 0 && file.Size > s.maxSize {
		return "", ErrImageTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file.Content, s.limit()))
	if err != nil {
		return "", fmt.Errorf("failed to read uploaded image: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyImage
	}
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return "", ErrImageTooLarge
	}

	data = s.shrink(data, ext)

	key := fmt.Sprintf("%s/%s%s", category, uuid.NewString(), ext)
	result, err := s.uploader.Upload(ctx, key, file.ContentType, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	slog.Info("image uploaded", "key", result.Key, "category", category, "bytes", len(data))
	return result.Location, nil
}

func (s *ImageStore) limit() int64 {
	if s.maxSize > 0 {
		return s.maxSize + 1
	}
	return 1 << 62
}

// shrink fits raster logos into maxDimension. Formats imaging cannot decode are kept as is.
func (s *ImageStore) shrink(data []byte, ext string) []byte {
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return data
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		slog.Warn("failed to decode image, storing original", "ext", ext, "error", err)
		return data
	}
	bounds := img.Bounds()
	if bounds.Dx() <= s.maxDimension && bounds.Dy() <= s.maxDimension {
		return data
	}

	var buf bytes.Buffer
	resized := imaging.Fit(img, s.maxDimension, s.maxDimension, imaging.Lanczos)
	if err := imaging.Encode(&buf, resized, format); err != nil {
		slog.Warn("failed to encode resized image, storing original", "ext", ext, "error", err)
		return data
	}
	return buf.Bytes()
}

// GetExtensionFromContentType maps raster image types to a file extension. SVG is refused:
// uploads are served from our own origin and SVG may carry script.
func GetExtensionFromContentType(contentType string) (string, error) {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch mediaType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		return "", fmt.Errorf("%w: '%s'", ErrUnsupportedImageType, contentType)
	}
}
