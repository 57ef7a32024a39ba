package usecase

import (
	"context"

	"variant-catalog/internal/domain"
	"variant-catalog/pkg/logger"
	"variant-catalog/pkg/utils"

	"github.com/google/uuid"
)

// TaxonomyUsecase manages the units and categories products refer to.
type TaxonomyUsecase struct {
	repo domain.TaxonomyRepository
}

func NewTaxonomyUsecase(repo domain.TaxonomyRepository) *TaxonomyUsecase {
	return &TaxonomyUsecase{repo: repo}
}

func (uc *TaxonomyUsecase) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	return uc.repo.ListUnits(ctx)
}

func (uc *TaxonomyUsecase) CreateUnit(ctx context.Context, name string) (*domain.Unit, error) {
	name = utils.NormalizeName(name)
	if name == "" {
		return nil, domain.Validationf("unit name is required")
	}
	unit := &domain.Unit{Name: name}
	if err := uc.repo.CreateUnit(ctx, unit); err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Info().Str("unit_id", unit.ID.String()).Str("name", name).Msg("Unit created")
	return unit, nil
}

func (uc *TaxonomyUsecase) DeleteUnit(ctx context.Context, id uuid.UUID) error {
	return uc.repo.DeleteUnit(ctx, id)
}

func (uc *TaxonomyUsecase) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return uc.repo.ListCategories(ctx)
}

func (uc *TaxonomyUsecase) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = utils.NormalizeName(name)
	if name == "" {
		return nil, domain.Validationf("category name is required")
	}
	category := &domain.Category{Name: name}
	if err := uc.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Info().Str("category_id", category.ID.String()).Str("name", name).Msg("Category created")
	return category, nil
}

func (uc *TaxonomyUsecase) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return uc.repo.DeleteCategory(ctx, id)
}
