package pgrepo

import (
	"context"
	"errors"

	"variant-catalog/internal/domain"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type productRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) domain.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	var (
		id        pgtype.UUID
		createdAt pgtype.Timestamptz
	)
	err := conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO products (name, description, unit_id, category_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		product.Name, product.Description, toPgUUID(product.UnitID), toPgUUID(product.CategoryID),
	).Scan(&id, &createdAt)
	if err != nil {
		return classify("create product", err)
	}
	product.ID = fromPgUUID(id)
	product.CreatedAt = pgtimestamptzToTime(createdAt)
	return nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	var createdAt pgtype.Timestamptz
	err := conn(ctx, r.db).QueryRow(ctx, `
		UPDATE products
		SET name = $2, description = $3, unit_id = $4, category_id = $5
		WHERE id = $1
		RETURNING created_at`,
		toPgUUID(product.ID), product.Name, product.Description,
		toPgUUID(product.UnitID), toPgUUID(product.CategoryID),
	).Scan(&createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrProductNotFound
	}
	if err != nil {
		return classify("update product", err)
	}
	product.CreatedAt = pgtimestamptzToTime(createdAt)
	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM products WHERE id = $1`, toPgUUID(id))
	if err != nil {
		return classify("delete product", err)
	}
	return mustAffect("delete product", tag.RowsAffected(), domain.ErrProductNotFound)
}

// One row per (product, variant, collection). Products without variants and
// variants without options still produce a row with NULL right-hand columns.
// Images are aggregated per product so they never multiply the join.
const selectProductRows = `
SELECT
	p.id, p.name, p.description, p.unit_id, p.category_id, p.created_at,
	u.id, u.name, u.created_at,
	c.id, c.name, c.created_at,
	v.id, v.price, v.position,
	col.id, col.position,
	k.id, k.name,
	ov.id, ov.name,
	COALESCE((
		SELECT json_agg(json_build_object(
			'id', i.id, 'name', i.name, 'src', i.src, 'createdAt', i.created_at
		) ORDER BY i.created_at, i.id)
		FROM product_images pi
		JOIN images i ON i.id = pi.image_id
		WHERE pi.product_id = p.id
	), '[]'::json) AS images
FROM products p
JOIN units u ON u.id = p.unit_id
JOIN categories c ON c.id = p.category_id
LEFT JOIN variants v ON v.product_id = p.id
LEFT JOIN collections col ON col.variant_id = v.id
LEFT JOIN option_keys k ON k.id = col.key_id
LEFT JOIN option_values ov ON ov.id = col.value_id
WHERE ($1::uuid IS NULL OR p.id = $1)
  AND ($2::uuid IS NULL OR p.category_id = $2)
ORDER BY p.created_at, p.id, v.position, col.position`

func (r *productRepository) GetProductRows(ctx context.Context, filter domain.ProductRowFilter) ([]domain.ProductRow, error) {
	rows, err := conn(ctx, r.db).Query(ctx, selectProductRows,
		optionalPgUUID(filter.ProductID), optionalPgUUID(filter.CategoryID))
	if err != nil {
		return nil, domain.NewStorageError("select product rows", err)
	}
	defer rows.Close()

	var result []domain.ProductRow
	for rows.Next() {
		row, err := scanProductRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("select product rows", err)
	}
	return result, nil
}

func scanProductRow(rows pgx.Rows) (domain.ProductRow, error) {
	var (
		productID, unitID, categoryID pgtype.UUID
		productName                   string
		description                   pgtype.Text
		productCreated                pgtype.Timestamptz
		unitRowID, categoryRowID      pgtype.UUID
		unitName, categoryName        string
		unitCreated, categoryCreated  pgtype.Timestamptz
		variantID, collectionID       pgtype.UUID
		price                         pgtype.Numeric
		variantPos, collectionPos     pgtype.Int4
		keyID, valueID                pgtype.UUID
		keyName, valueName            pgtype.Text
		imagesJSON                    []byte
	)
	err := rows.Scan(
		&productID, &productName, &description, &unitID, &categoryID, &productCreated,
		&unitRowID, &unitName, &unitCreated,
		&categoryRowID, &categoryName, &categoryCreated,
		&variantID, &price, &variantPos,
		&collectionID, &collectionPos,
		&keyID, &keyName,
		&valueID, &valueName,
		&imagesJSON,
	)
	if err != nil {
		return domain.ProductRow{}, domain.NewStorageError("scan product row", err)
	}

	row := domain.ProductRow{
		Product: domain.Product{
			ID:          fromPgUUID(productID),
			Name:        productName,
			Description: textPtr(description),
			UnitID:      fromPgUUID(unitID),
			CategoryID:  fromPgUUID(categoryID),
			CreatedAt:   pgtimestamptzToTime(productCreated),
		},
		Unit: domain.Unit{
			ID:        fromPgUUID(unitRowID),
			Name:      unitName,
			CreatedAt: pgtimestamptzToTime(unitCreated),
		},
		Category: domain.Category{
			ID:        fromPgUUID(categoryRowID),
			Name:      categoryName,
			CreatedAt: pgtimestamptzToTime(categoryCreated),
		},
		Images: []domain.Image{},
	}

	if variantID.Valid {
		row.Variant = &domain.Variant{
			ID:        fromPgUUID(variantID),
			Price:     numericToDecimal(price),
			ProductID: row.Product.ID,
			Position:  int(variantPos.Int32),
		}
	}
	if collectionID.Valid {
		row.Collection = &domain.Collection{
			ID:        fromPgUUID(collectionID),
			VariantID: fromPgUUID(variantID),
			KeyID:     fromPgUUID(keyID),
			ValueID:   fromPgUUID(valueID),
			Position:  int(collectionPos.Int32),
		}
	}
	if keyID.Valid {
		row.Key = &domain.OptionKey{
			ID:        fromPgUUID(keyID),
			Name:      keyName.String,
			ProductID: row.Product.ID,
		}
	}
	if valueID.Valid {
		row.Value = &domain.OptionValue{
			ID:    fromPgUUID(valueID),
			Name:  valueName.String,
			KeyID: fromPgUUID(keyID),
		}
	}

	if len(imagesJSON) > 0 {
		if err := json.Unmarshal(imagesJSON, &row.Images); err != nil {
			return domain.ProductRow{}, domain.NewStorageError("decode product images", err)
		}
	}
	return row, nil
}

func (r *productRepository) AttachImages(ctx context.Context, productID uuid.UUID, imageIDs []uuid.UUID) error {
	if len(imageIDs) == 0 {
		return nil
	}
	_, err := conn(ctx, r.db).Exec(ctx, `
		INSERT INTO product_images (product_id, image_id)
		SELECT $1, t.image_id FROM UNNEST($2::uuid[]) AS t(image_id)
		ON CONFLICT DO NOTHING`,
		toPgUUID(productID), toPgUUIDs(imageIDs))
	return classify("attach images", err)
}

func (r *productRepository) DetachImages(ctx context.Context, productID uuid.UUID, imageIDs []uuid.UUID) error {
	if len(imageIDs) == 0 {
		return nil
	}
	_, err := conn(ctx, r.db).Exec(ctx, `
		DELETE FROM product_images
		WHERE product_id = $1 AND image_id = ANY($2::uuid[])`,
		toPgUUID(productID), toPgUUIDs(imageIDs))
	return domain.NewStorageError("detach images", err)
}
