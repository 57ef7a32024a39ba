package usecase

import (
	"context"
	"fmt"

	"variant-catalog/internal/domain"
	"variant-catalog/pkg/logger"

	"github.com/google/uuid"
)

type CatalogUsecase struct {
	products domain.ProductRepository
	images   domain.ImageRepository
	attacher *VariantAttacher
	tx       domain.TransactionManager
	storage  domain.ObjectStorage
	events   domain.EventPublisher
}

// NewCatalogUsecase wires the catalog. storage may be nil when object storage
// is not configured; dropped image files are then left in place.
func NewCatalogUsecase(
	products domain.ProductRepository,
	images domain.ImageRepository,
	attacher *VariantAttacher,
	tx domain.TransactionManager,
	storage domain.ObjectStorage,
	events domain.EventPublisher,
) *CatalogUsecase {
	return &CatalogUsecase{
		products: products,
		images:   images,
		attacher: attacher,
		tx:       tx,
		storage:  storage,
		events:   events,
	}
}

func (uc *CatalogUsecase) CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.ProductView, error) {
	imageIDs := distinctIDs(input.ImageIDs)
	if err := uc.ensureImagesExist(ctx, imageIDs); err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		UnitID:      input.UnitID,
		CategoryID:  input.CategoryID,
	}

	err := uc.tx.Do(ctx, func(ctx context.Context) error {
		if err := uc.products.CreateProduct(ctx, product); err != nil {
			return err
		}
		if err := uc.attacher.Attach(ctx, product.ID, input.Variants); err != nil {
			return err
		}
		return uc.products.AttachImages(ctx, product.ID, imageIDs)
	})
	if err != nil {
		return nil, err
	}

	view, err := uc.GetProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info().
		Str("product_id", product.ID.String()).
		Int("variants", len(view.Variants)).
		Msg("Product created")

	uc.publish(ctx, domain.NewProductEvent(domain.ProductCreated, product.ID, view))
	return view, nil
}

// UpdateProduct replaces the product's fields, variants and image links.
// Dropped images that no other product links are deleted, and their files
// are removed from object storage after commit.
func (uc *CatalogUsecase) UpdateProduct(ctx context.Context, id uuid.UUID, input domain.ProductInput) (*domain.ProductView, error) {
	existing, err := uc.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	imageIDs := distinctIDs(input.ImageIDs)
	if err := uc.ensureImagesExist(ctx, imageIDs); err != nil {
		return nil, err
	}

	// 1. Diff image links
	wanted := make(map[uuid.UUID]struct{}, len(imageIDs))
	for _, imgID := range imageIDs {
		wanted[imgID] = struct{}{}
	}
	current := make(map[uuid.UUID]struct{}, len(existing.Images))
	var removed []domain.Image
	for _, img := range existing.Images {
		current[img.ID] = struct{}{}
		if _, keep := wanted[img.ID]; !keep {
			removed = append(removed, img)
		}
	}
	var added []uuid.UUID
	for _, imgID := range imageIDs {
		if _, ok := current[imgID]; !ok {
			added = append(added, imgID)
		}
	}
	removedIDs := make([]uuid.UUID, len(removed))
	for i, img := range removed {
		removedIDs[i] = img.ID
	}

	product := &domain.Product{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		UnitID:      input.UnitID,
		CategoryID:  input.CategoryID,
	}

	// 2. Replace everything in one transaction
	var deleted []domain.Image
	err = uc.tx.Do(ctx, func(ctx context.Context) error {
		if err := uc.products.UpdateProduct(ctx, product); err != nil {
			return err
		}
		if err := uc.attacher.Detach(ctx, id); err != nil {
			return err
		}
		if err := uc.attacher.Attach(ctx, id, input.Variants); err != nil {
			return err
		}
		if err := uc.products.DetachImages(ctx, id, removedIDs); err != nil {
			return err
		}
		unlinked, err := uc.images.DeleteUnlinkedImages(ctx, removedIDs)
		if err != nil {
			return err
		}
		deleted = unlinked
		return uc.products.AttachImages(ctx, id, added)
	})
	if err != nil {
		return nil, err
	}

	// 3. Files go only after the rows are gone for good
	uc.deleteFiles(ctx, deleted)

	view, err := uc.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info().
		Str("product_id", id.String()).
		Int("variants", len(view.Variants)).
		Int("images_added", len(added)).
		Int("images_unlinked", len(removed)).
		Int("images_deleted", len(deleted)).
		Msg("Product updated")

	uc.publish(ctx, domain.NewProductEvent(domain.ProductUpdated, id, view))
	return view, nil
}

func (uc *CatalogUsecase) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := uc.products.DeleteProduct(ctx, id); err != nil {
		return err
	}
	logger.WithContext(ctx).Info().Str("product_id", id.String()).Msg("Product deleted")
	uc.publish(ctx, domain.NewProductEvent(domain.ProductDeleted, id, nil))
	return nil
}

func (uc *CatalogUsecase) GetProduct(ctx context.Context, id uuid.UUID) (*domain.ProductView, error) {
	rows, err := uc.products.GetProductRows(ctx, domain.ProductRowFilter{ProductID: &id})
	if err != nil {
		return nil, err
	}
	views, err := Reconstruct(rows)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, domain.ErrProductNotFound
	}
	return &views[0], nil
}

func (uc *CatalogUsecase) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.ProductView, error) {
	rows, err := uc.products.GetProductRows(ctx, domain.ProductRowFilter{CategoryID: filter.CategoryID})
	if err != nil {
		return nil, err
	}
	return Reconstruct(rows)
}

// --- Helpers ---

func (uc *CatalogUsecase) ensureImagesExist(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := uc.images.GetImagesByIDs(ctx, ids)
	if err != nil {
		return err
	}
	present := make(map[uuid.UUID]struct{}, len(found))
	for _, img := range found {
		present[img.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrImageNotFound, id)
		}
	}
	return nil
}

func (uc *CatalogUsecase) deleteFiles(ctx context.Context, images []domain.Image) {
	if uc.storage == nil {
		return
	}
	for _, img := range images {
		if err := uc.storage.DeleteFile(ctx, img.Src); err != nil {
			logger.WithContext(ctx).Warn().Err(err).
				Str("image_id", img.ID.String()).
				Str("src", img.Src).
				Msg("Failed to delete image file")
		}
	}
}

func (uc *CatalogUsecase) publish(ctx context.Context, event domain.ProductEvent) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, event); err != nil {
		logger.WithContext(ctx).Warn().Err(err).
			Str("event", event.EventType).
			Str("product_id", event.ProductID.String()).
			Msg("Failed to publish product event")
	}
}

func distinctIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
