package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SakshamTolani/ProductPro/internal/domain"
	"github.com/SakshamTolani/ProductPro/internal/storage"
	apperrors "github.com/SakshamTolani/ProductPro/pkg/errors"
)

// MaxImageSize is the maximum allowed image upload size in bytes (5 MiB).
const MaxImageSize = 5 << 20

// allowedImageTypes is the set of accepted image content types.
var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// UploadService stores product images and hands back the public URL to use
// as a product's image_url.
type UploadService struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewUploadService creates a new upload service.
func NewUploadService(store storage.Storage, logger *slog.Logger) *UploadService {
	return &UploadService{
		storage: store,
		logger:  logger,
	}
}

// UploadImageInput holds the parameters for uploading a product image.
type UploadImageInput struct {
	FileName    string
	ContentType string
	Size        int64
	Data        io.Reader
}

// UploadImage validates the file and stores it, returning the storage key
// and public URL.
func (s *UploadService) UploadImage(ctx context.Context, input *UploadImageInput) (*storage.UploadResult, error) {
	if _, ok := allowedImageTypes[input.ContentType]; !ok {
		return nil, apperrors.InvalidInput(fmt.Sprintf("content type %q is not allowed", input.ContentType))
	}
	if input.Size <= 0 {
		return nil, apperrors.InvalidInput("file size must be greater than zero")
	}
	if input.Size > MaxImageSize {
		return nil, apperrors.InvalidInput(fmt.Sprintf("file size %d exceeds maximum allowed size of %d bytes", input.Size, MaxImageSize))
	}
	if input.FileName == "" {
		return nil, apperrors.InvalidInput("file name is required")
	}

	key := uuid.New().String()

	result, err := s.storage.Upload(ctx, &storage.UploadInput{
		Key:         key,
		ContentType: input.ContentType,
		Size:        input.Size,
		Data:        input.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	s.logger.InfoContext(ctx, "image uploaded",
		slog.String("key", result.Key),
		slog.String("content_type", input.ContentType),
		slog.Int64("size", input.Size),
	)

	return result, nil
}

// DeleteImage removes a stored image. Only admins may delete uploads; team
// members replace images through the review workflow instead.
func (s *UploadService) DeleteImage(ctx context.Context, actor domain.Actor, key string) error {
	if actor.Role != domain.RoleAdmin {
		return apperrors.Forbidden("only admins can delete uploads")
	}
	if key == "" {
		return apperrors.InvalidInput("upload key is required")
	}

	url, err := s.storage.GetURL(ctx, key)
	if err != nil {
		return apperrors.NotFound("upload", key)
	}

	if err := s.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete from storage: %w", err)
	}

	s.logger.InfoContext(ctx, "image deleted",
		slog.String("key", key),
		slog.String("url", url),
	)

	return nil
}
