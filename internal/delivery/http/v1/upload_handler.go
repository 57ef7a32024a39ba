package v1

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"variant-catalog/internal/domain"
	"variant-catalog/pkg/logger"
	"variant-catalog/pkg/utils"

	"github.com/google/uuid"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

type ImageService interface {
	ListImages(ctx context.Context) ([]domain.Image, error)
	UploadImage(ctx context.Context, filename string, r io.Reader) (*domain.Image, error)
	DeleteImage(ctx context.Context, id uuid.UUID) error
}

// ImageHandler manages the image references products point at.
type ImageHandler struct {
	imageUC       ImageService
	maxUploadSize int64
}

func NewImageHandler(uc ImageService, maxUploadSizeMB int64) *ImageHandler {
	return &ImageHandler{
		imageUC:       uc,
		maxUploadSize: maxUploadSizeMB << 20,
	}
}

func (h *ImageHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.imageUC.ListImages(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, images)
}

// UploadImage accepts a multipart "file" field.
func (h *ImageHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	log := logger.WithContext(r.Context())

	// 1. Parse Multipart Form with configurable limit
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		log.Warn().Err(err).Msg("Upload rejected: invalid multipart form")
		badRequest(w, "File too large or invalid format")
		return
	}

	// 2. Get File
	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "Invalid file")
		return
	}
	defer file.Close()

	// 3. Validate MIME type and extension
	contentType := header.Header.Get("Content-Type")
	if !utils.IsImage(contentType) {
		badRequest(w, "Invalid file type. Allowed: JPEG, PNG, WebP, GIF")
		return
	}
	if ext := strings.ToLower(filepath.Ext(header.Filename)); !allowedExtensions[ext] {
		badRequest(w, "Invalid file extension")
		return
	}

	// 4. Process, store and record
	image, err := h.imageUC.UploadImage(r.Context(), header.Filename, file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, image)
}

func (h *ImageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.imageUC.DeleteImage(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrImageNotFound) {
			utils.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
