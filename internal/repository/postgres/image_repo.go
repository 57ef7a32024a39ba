package pgrepo

import (
	"context"

	"variant-catalog/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type imageRepository struct {
	db *pgxpool.Pool
}

func NewImageRepository(db *pgxpool.Pool) domain.ImageRepository {
	return &imageRepository{db: db}
}

func scanImages(rows pgx.Rows, op string) ([]domain.Image, error) {
	defer rows.Close()

	images := []domain.Image{}
	for rows.Next() {
		var (
			id        pgtype.UUID
			createdAt pgtype.Timestamptz
			img       domain.Image
		)
		if err := rows.Scan(&id, &img.Name, &img.Src, &createdAt); err != nil {
			return nil, domain.NewStorageError(op, err)
		}
		img.ID = fromPgUUID(id)
		img.CreatedAt = pgtimestamptzToTime(createdAt)
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	return images, nil
}

func (r *imageRepository) ListImages(ctx context.Context) ([]domain.Image, error) {
	rows, err := conn(ctx, r.db).Query(ctx,
		`SELECT id, name, src, created_at FROM images ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, domain.NewStorageError("list images", err)
	}
	return scanImages(rows, "list images")
}

// GetImagesByIDs returns the images that exist; missing ids are simply absent.
func (r *imageRepository) GetImagesByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Image, error) {
	if len(ids) == 0 {
		return []domain.Image{}, nil
	}
	rows, err := conn(ctx, r.db).Query(ctx,
		`SELECT id, name, src, created_at FROM images WHERE id = ANY($1::uuid[]) ORDER BY created_at, id`,
		toPgUUIDs(ids))
	if err != nil {
		return nil, domain.NewStorageError("get images", err)
	}
	return scanImages(rows, "get images")
}

func (r *imageRepository) CreateImage(ctx context.Context, image *domain.Image) error {
	var (
		id        pgtype.UUID
		createdAt pgtype.Timestamptz
	)
	err := conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO images (name, src) VALUES ($1, $2) RETURNING id, created_at`,
		image.Name, image.Src,
	).Scan(&id, &createdAt)
	if err != nil {
		return classify("create image", err)
	}
	image.ID = fromPgUUID(id)
	image.CreatedAt = pgtimestamptzToTime(createdAt)
	return nil
}

// DeleteImages removes the image rows. An image still linked to a product
// fails with ErrInvalidReference.
func (r *imageRepository) DeleteImages(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM images WHERE id = ANY($1::uuid[])`, toPgUUIDs(ids))
	return classify("delete images", err)
}

const deleteUnlinkedImages = `
DELETE FROM images i
WHERE i.id = ANY($1::uuid[])
  AND NOT EXISTS (SELECT 1 FROM product_images pi WHERE pi.image_id = i.id)
RETURNING i.id, i.name, i.src, i.created_at`

func (r *imageRepository) DeleteUnlinkedImages(ctx context.Context, ids []uuid.UUID) ([]domain.Image, error) {
	if len(ids) == 0 {
		return []domain.Image{}, nil
	}
	rows, err := conn(ctx, r.db).Query(ctx, deleteUnlinkedImages, toPgUUIDs(ids))
	if err != nil {
		return nil, domain.NewStorageError("delete unlinked images", err)
	}
	return scanImages(rows, "delete unlinked images")
}
