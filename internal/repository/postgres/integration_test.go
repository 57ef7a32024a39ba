package pgrepo

import (
	"context"
	"os"
	"testing"

	"variant-catalog/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPool connects to TEST_DB_DSN and applies the schema. The tests are
// skipped when the variable is unset.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	return pool
}

func seedProduct(t *testing.T, pool *pgxpool.Pool) (*domain.Product, domain.Unit, domain.Category) {
	t.Helper()
	ctx := context.Background()
	taxonomy := NewTaxonomyRepository(pool)

	unit := domain.Unit{Name: "unit-" + uuid.NewString()}
	require.NoError(t, taxonomy.CreateUnit(ctx, &unit))
	category := domain.Category{Name: "category-" + uuid.NewString()}
	require.NoError(t, taxonomy.CreateCategory(ctx, &category))

	product := &domain.Product{Name: "Shirt", UnitID: unit.ID, CategoryID: category.ID}
	require.NoError(t, NewProductRepository(pool).CreateProduct(ctx, product))
	return product, unit, category
}

func TestIntegration_VariantsKeepInputOrder(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	product, _, _ := seedProduct(t, pool)

	prices := []decimal.Decimal{
		decimal.RequireFromString("10"),
		decimal.RequireFromString("12.50"),
		decimal.RequireFromString("9.99"),
	}
	variants, err := NewVariantStore(pool).InsertVariants(ctx, product.ID, prices)
	require.NoError(t, err)
	require.Len(t, variants, 3)
	for i, v := range variants {
		assert.Equal(t, i, v.Position)
		assert.True(t, prices[i].Equal(v.Price))
		assert.Equal(t, product.ID, v.ProductID)
	}
}

func TestIntegration_ProductRowsFoldedShape(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	product, unit, category := seedProduct(t, pool)

	catalog := NewOptionCatalog(pool)
	store := NewVariantStore(pool)
	products := NewProductRepository(pool)

	keys, err := catalog.EnsureKeys(ctx, product.ID, []string{"Color", "Size"})
	require.NoError(t, err)
	values, err := catalog.EnsureValues(ctx, []domain.ValueRef{
		{KeyID: keys["Color"].ID, Name: "Red"},
		{KeyID: keys["Size"].ID, Name: "M"},
	})
	require.NoError(t, err)

	variants, err := store.InsertVariants(ctx, product.ID, []decimal.Decimal{decimal.NewFromInt(10), decimal.NewFromInt(5)})
	require.NoError(t, err)

	red := values[domain.ValueRef{KeyID: keys["Color"].ID, Name: "Red"}]
	medium := values[domain.ValueRef{KeyID: keys["Size"].ID, Name: "M"}]
	_, err = store.InsertCollections(ctx, []domain.CollectionEntry{
		{VariantID: variants[0].ID, KeyID: red.KeyID, ValueID: red.ID, Position: 0},
		{VariantID: variants[0].ID, KeyID: medium.KeyID, ValueID: medium.ID, Position: 1},
	})
	require.NoError(t, err)

	img := domain.Image{Name: "front.webp", Src: "https://cdn.example.com/" + uuid.NewString()}
	require.NoError(t, NewImageRepository(pool).CreateImage(ctx, &img))
	require.NoError(t, products.AttachImages(ctx, product.ID, []uuid.UUID{img.ID}))

	rows, err := products.GetProductRows(ctx, domain.ProductRowFilter{ProductID: &product.ID})
	require.NoError(t, err)

	// Two option rows for the first variant, one bare row for the second.
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, product.ID, row.Product.ID)
		assert.Equal(t, unit.ID, row.Unit.ID)
		assert.Equal(t, category.ID, row.Category.ID)
		require.Len(t, row.Images, 1)
		assert.Equal(t, img.ID, row.Images[0].ID)
		require.NotNil(t, row.Variant)
	}
	assert.Equal(t, "Color", rows[0].Key.Name)
	assert.Equal(t, "Red", rows[0].Value.Name)
	assert.Equal(t, "Size", rows[1].Key.Name)
	assert.Equal(t, variants[1].ID, rows[2].Variant.ID)
	assert.Nil(t, rows[2].Collection)
}

func TestIntegration_TransactionRollback(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	product, _, _ := seedProduct(t, pool)

	tm := NewTransactionManager(pool)
	store := NewVariantStore(pool)

	err := tm.Do(ctx, func(txCtx context.Context) error {
		if _, err := store.InsertVariants(txCtx, product.ID, []decimal.Decimal{decimal.NewFromInt(1)}); err != nil {
			return err
		}
		return domain.ErrValidation
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	rows, err := NewProductRepository(pool).GetProductRows(ctx, domain.ProductRowFilter{ProductID: &product.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Variant)
}

func TestIntegration_DeleteMissingProduct(t *testing.T) {
	pool := newTestPool(t)
	err := NewProductRepository(pool).DeleteProduct(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestIntegration_UnknownUnitIsInvalidReference(t *testing.T) {
	pool := newTestPool(t)
	_, _, category := seedProduct(t, pool)

	product := &domain.Product{Name: "Orphan", UnitID: uuid.New(), CategoryID: category.ID}
	err := NewProductRepository(pool).CreateProduct(context.Background(), product)
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}

func TestIntegration_LinkedImageCannotBeDeleted(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	product, _, _ := seedProduct(t, pool)
	images := NewImageRepository(pool)

	img := domain.Image{Name: "front.webp", Src: "https://cdn.example.com/" + uuid.NewString()}
	require.NoError(t, images.CreateImage(ctx, &img))
	require.NoError(t, NewProductRepository(pool).AttachImages(ctx, product.ID, []uuid.UUID{img.ID}))

	err := images.DeleteImages(ctx, []uuid.UUID{img.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	found, err := images.GetImagesByIDs(ctx, []uuid.UUID{img.ID})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestIntegration_DeleteUnlinkedImagesSkipsSharedOnes(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	product, _, _ := seedProduct(t, pool)
	images := NewImageRepository(pool)

	shared := domain.Image{Name: "shared.webp", Src: "https://cdn.example.com/" + uuid.NewString()}
	loose := domain.Image{Name: "loose.webp", Src: "https://cdn.example.com/" + uuid.NewString()}
	require.NoError(t, images.CreateImage(ctx, &shared))
	require.NoError(t, images.CreateImage(ctx, &loose))
	require.NoError(t, NewProductRepository(pool).AttachImages(ctx, product.ID, []uuid.UUID{shared.ID}))

	deleted, err := images.DeleteUnlinkedImages(ctx, []uuid.UUID{shared.ID, loose.ID})
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, loose.ID, deleted[0].ID)
	assert.Equal(t, loose.Src, deleted[0].Src)

	found, err := images.GetImagesByIDs(ctx, []uuid.UUID{shared.ID, loose.ID})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, shared.ID, found[0].ID)
}
