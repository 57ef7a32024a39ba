package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Unit struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Image is a stored file referenced by products through product_images.
type Image struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Src       string    `json:"src"`
	CreatedAt time.Time `json:"createdAt"`
}

type TaxonomyRepository interface {
	ListUnits(ctx context.Context) ([]Unit, error)
	CreateUnit(ctx context.Context, unit *Unit) error
	DeleteUnit(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, category *Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type ImageRepository interface {
	ListImages(ctx context.Context) ([]Image, error)
	GetImagesByIDs(ctx context.Context, ids []uuid.UUID) ([]Image, error)
	CreateImage(ctx context.Context, image *Image) error
	DeleteImages(ctx context.Context, ids []uuid.UUID) error
	// DeleteUnlinkedImages deletes those of ids that no product links and
	// returns the deleted rows.
	DeleteUnlinkedImages(ctx context.Context, ids []uuid.UUID) ([]Image, error)
}

// ObjectStorage holds the image files behind Image.Src.
type ObjectStorage interface {
	UploadBuffer(ctx context.Context, data []byte, contentType string) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
}
