package usecase

import (
	"context"

	"variant-catalog/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockProductRepo struct{ mock.Mock }

var _ domain.ProductRepository = (*mockProductRepo)(nil)

func (m *mockProductRepo) CreateProduct(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) UpdateProduct(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// GetProductRows accepts either a row slice or a func producing one, so
// tests can return rows that reflect writes made earlier in the test.
func (m *mockProductRepo) GetProductRows(ctx context.Context, filter domain.ProductRowFilter) ([]domain.ProductRow, error) {
	args := m.Called(ctx, filter)
	if fn, ok := args.Get(0).(func() []domain.ProductRow); ok {
		return fn(), args.Error(1)
	}
	rows, _ := args.Get(0).([]domain.ProductRow)
	return rows, args.Error(1)
}

func (m *mockProductRepo) AttachImages(ctx context.Context, productID uuid.UUID, imageIDs []uuid.UUID) error {
	args := m.Called(ctx, productID, imageIDs)
	return args.Error(0)
}

func (m *mockProductRepo) DetachImages(ctx context.Context, productID uuid.UUID, imageIDs []uuid.UUID) error {
	args := m.Called(ctx, productID, imageIDs)
	return args.Error(0)
}

type mockImageRepo struct{ mock.Mock }

var _ domain.ImageRepository = (*mockImageRepo)(nil)

func (m *mockImageRepo) ListImages(ctx context.Context) ([]domain.Image, error) {
	args := m.Called(ctx)
	images, _ := args.Get(0).([]domain.Image)
	return images, args.Error(1)
}

func (m *mockImageRepo) GetImagesByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Image, error) {
	args := m.Called(ctx, ids)
	images, _ := args.Get(0).([]domain.Image)
	return images, args.Error(1)
}

func (m *mockImageRepo) CreateImage(ctx context.Context, image *domain.Image) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *mockImageRepo) DeleteImages(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *mockImageRepo) DeleteUnlinkedImages(ctx context.Context, ids []uuid.UUID) ([]domain.Image, error) {
	args := m.Called(ctx, ids)
	images, _ := args.Get(0).([]domain.Image)
	return images, args.Error(1)
}

type mockTaxonomyRepo struct{ mock.Mock }

var _ domain.TaxonomyRepository = (*mockTaxonomyRepo)(nil)

func (m *mockTaxonomyRepo) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	args := m.Called(ctx)
	units, _ := args.Get(0).([]domain.Unit)
	return units, args.Error(1)
}

func (m *mockTaxonomyRepo) CreateUnit(ctx context.Context, unit *domain.Unit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *mockTaxonomyRepo) DeleteUnit(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTaxonomyRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]domain.Category)
	return categories, args.Error(1)
}

func (m *mockTaxonomyRepo) CreateCategory(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockTaxonomyRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockStorage struct{ mock.Mock }

var _ domain.ObjectStorage = (*mockStorage)(nil)

func (m *mockStorage) UploadBuffer(ctx context.Context, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) DeleteFile(ctx context.Context, fileURL string) error {
	args := m.Called(ctx, fileURL)
	return args.Error(0)
}

type mockPublisher struct{ mock.Mock }

var _ domain.EventPublisher = (*mockPublisher)(nil)

func (m *mockPublisher) Publish(ctx context.Context, event domain.ProductEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
