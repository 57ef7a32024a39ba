package v1

import (
	"context"
	"io"

	"variant-catalog/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockCatalogService struct{ mock.Mock }

var _ CatalogService = (*mockCatalogService)(nil)

func (m *mockCatalogService) view(args mock.Arguments) (*domain.ProductView, error) {
	v, _ := args.Get(0).(*domain.ProductView)
	return v, args.Error(1)
}

func (m *mockCatalogService) CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.ProductView, error) {
	return m.view(m.Called(ctx, input))
}

func (m *mockCatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input domain.ProductInput) (*domain.ProductView, error) {
	return m.view(m.Called(ctx, id, input))
}

func (m *mockCatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.ProductView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *mockCatalogService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.ProductView, error) {
	args := m.Called(ctx, filter)
	views, _ := args.Get(0).([]domain.ProductView)
	return views, args.Error(1)
}

type mockTaxonomyService struct{ mock.Mock }

var _ TaxonomyService = (*mockTaxonomyService)(nil)

func (m *mockTaxonomyService) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	args := m.Called(ctx)
	units, _ := args.Get(0).([]domain.Unit)
	return units, args.Error(1)
}

func (m *mockTaxonomyService) CreateUnit(ctx context.Context, name string) (*domain.Unit, error) {
	args := m.Called(ctx, name)
	unit, _ := args.Get(0).(*domain.Unit)
	return unit, args.Error(1)
}

func (m *mockTaxonomyService) DeleteUnit(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTaxonomyService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]domain.Category)
	return categories, args.Error(1)
}

func (m *mockTaxonomyService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	args := m.Called(ctx, name)
	category, _ := args.Get(0).(*domain.Category)
	return category, args.Error(1)
}

func (m *mockTaxonomyService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockImageService struct{ mock.Mock }

var _ ImageService = (*mockImageService)(nil)

func (m *mockImageService) ListImages(ctx context.Context) ([]domain.Image, error) {
	args := m.Called(ctx)
	images, _ := args.Get(0).([]domain.Image)
	return images, args.Error(1)
}

// UploadImage drains r so tests can assert on what the handler passed along.
func (m *mockImageService) UploadImage(ctx context.Context, filename string, r io.Reader) (*domain.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	args := m.Called(ctx, filename, data)
	image, _ := args.Get(0).(*domain.Image)
	return image, args.Error(1)
}

func (m *mockImageService) DeleteImage(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }
