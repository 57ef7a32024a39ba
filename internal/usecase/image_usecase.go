package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"variant-catalog/internal/domain"
	"variant-catalog/pkg/logger"
	"variant-catalog/pkg/utils"

	"github.com/google/uuid"
)

// ImageProcessor turns an uploaded file into the bytes and content type
// that get stored.
type ImageProcessor func(r io.Reader, filename string) ([]byte, string, error)

type ImageUsecase struct {
	repo    domain.ImageRepository
	storage domain.ObjectStorage
	process ImageProcessor
}

// NewImageUsecase wires image management. storage may be nil, in which case
// uploads fail with ErrStorageNotConfigured.
func NewImageUsecase(repo domain.ImageRepository, storage domain.ObjectStorage) *ImageUsecase {
	return &ImageUsecase{repo: repo, storage: storage, process: utils.ProcessImage}
}

func (uc *ImageUsecase) ListImages(ctx context.Context) ([]domain.Image, error) {
	return uc.repo.ListImages(ctx)
}

// UploadImage resizes and re-encodes the file, stores it and records it.
func (uc *ImageUsecase) UploadImage(ctx context.Context, filename string, r io.Reader) (*domain.Image, error) {
	if uc.storage == nil {
		return nil, domain.ErrStorageNotConfigured
	}

	// 1. Process (resize + WebP)
	data, contentType, err := uc.process(r, filename)
	if err != nil {
		return nil, domain.Validationf("cannot process image %q: %v", filename, err)
	}

	// 2. Upload
	src, err := uc.storage.UploadBuffer(ctx, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	// 3. Record
	image := &domain.Image{Name: imageName(filename), Src: src}
	if err := uc.repo.CreateImage(ctx, image); err != nil {
		if delErr := uc.storage.DeleteFile(ctx, src); delErr != nil {
			logger.WithContext(ctx).Warn().Err(delErr).Str("src", src).Msg("Failed to remove orphaned upload")
		}
		return nil, err
	}

	logger.WithContext(ctx).Info().
		Str("image_id", image.ID.String()).
		Str("src", src).
		Int("bytes", len(data)).
		Msg("Image uploaded")
	return image, nil
}

// DeleteImage removes the image row, then its file on a best-effort basis.
func (uc *ImageUsecase) DeleteImage(ctx context.Context, id uuid.UUID) error {
	found, err := uc.repo.GetImagesByIDs(ctx, []uuid.UUID{id})
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return domain.ErrImageNotFound
	}

	if err := uc.repo.DeleteImages(ctx, []uuid.UUID{id}); err != nil {
		return err
	}

	if uc.storage != nil {
		if err := uc.storage.DeleteFile(ctx, found[0].Src); err != nil {
			logger.WithContext(ctx).Warn().Err(err).
				Str("image_id", id.String()).
				Msg("Failed to delete image file")
		}
	}
	return nil
}

// imageName is the upload's base name without directories or extension.
func imageName(filename string) string {
	base := filepath.Base(filename)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = utils.NormalizeName(name)
	if name == "" || name == "." {
		return "image"
	}
	return name
}
