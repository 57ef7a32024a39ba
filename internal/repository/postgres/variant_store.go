package pgrepo

import (
	"context"
	"sort"

	"variant-catalog/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type variantStore struct {
	db *pgxpool.Pool
}

func NewVariantStore(db *pgxpool.Pool) domain.VariantStore {
	return &variantStore{db: db}
}

// The ordinal is stored so the returned rows can be put back in input order
// regardless of the order RETURNING yields them.
const insertVariants = `
INSERT INTO variants (price, product_id, position)
SELECT t.price, $2, (t.ord - 1)::int
FROM UNNEST($1::numeric[]) WITH ORDINALITY AS t(price, ord)
RETURNING id, price, product_id, position`

func (s *variantStore) InsertVariants(ctx context.Context, productID uuid.UUID, prices []decimal.Decimal) ([]domain.Variant, error) {
	if len(prices) == 0 {
		return []domain.Variant{}, nil
	}

	numerics := make([]pgtype.Numeric, len(prices))
	for i, p := range prices {
		n, err := decimalToNumeric(p)
		if err != nil {
			return nil, err
		}
		numerics[i] = n
	}

	rows, err := conn(ctx, s.db).Query(ctx, insertVariants, numerics, toPgUUID(productID))
	if err != nil {
		return nil, domain.NewStorageError("insert variants", err)
	}
	defer rows.Close()

	variants := make([]domain.Variant, 0, len(prices))
	for rows.Next() {
		var (
			id, owner pgtype.UUID
			price     pgtype.Numeric
			position  int32
		)
		if err := rows.Scan(&id, &price, &owner, &position); err != nil {
			return nil, domain.NewStorageError("scan variant", err)
		}
		variants = append(variants, domain.Variant{
			ID:        fromPgUUID(id),
			Price:     numericToDecimal(price),
			ProductID: fromPgUUID(owner),
			Position:  int(position),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("insert variants", err)
	}

	return orderByPosition(variants, len(prices))
}

// orderByPosition sorts variants by position and checks they cover 0..n-1.
func orderByPosition(variants []domain.Variant, n int) ([]domain.Variant, error) {
	if len(variants) != n {
		return nil, domain.Invariantf("inserted %d variants, expected %d", len(variants), n)
	}
	sort.Slice(variants, func(i, j int) bool { return variants[i].Position < variants[j].Position })
	for i, v := range variants {
		if v.Position != i {
			return nil, domain.Invariantf("variant %s has position %d, expected %d", v.ID, v.Position, i)
		}
	}
	return variants, nil
}

const insertCollections = `
INSERT INTO collections (variant_id, key_id, value_id, position)
SELECT t.variant_id, t.key_id, t.value_id, t.position
FROM UNNEST($1::uuid[], $2::uuid[], $3::uuid[], $4::int[]) AS t(variant_id, key_id, value_id, position)
RETURNING id, variant_id, key_id, value_id, position`

func (s *variantStore) InsertCollections(ctx context.Context, entries []domain.CollectionEntry) ([]domain.Collection, error) {
	if len(entries) == 0 {
		return []domain.Collection{}, nil
	}

	variantIDs := make([]pgtype.UUID, len(entries))
	keyIDs := make([]pgtype.UUID, len(entries))
	valueIDs := make([]pgtype.UUID, len(entries))
	positions := make([]int32, len(entries))
	for i, e := range entries {
		variantIDs[i] = toPgUUID(e.VariantID)
		keyIDs[i] = toPgUUID(e.KeyID)
		valueIDs[i] = toPgUUID(e.ValueID)
		positions[i] = int32(e.Position)
	}

	rows, err := conn(ctx, s.db).Query(ctx, insertCollections, variantIDs, keyIDs, valueIDs, positions)
	if err != nil {
		return nil, domain.NewStorageError("insert collections", err)
	}
	defer rows.Close()

	collections := make([]domain.Collection, 0, len(entries))
	for rows.Next() {
		var (
			id, variantID, keyID, valueID pgtype.UUID
			position                      int32
		)
		if err := rows.Scan(&id, &variantID, &keyID, &valueID, &position); err != nil {
			return nil, domain.NewStorageError("scan collection", err)
		}
		collections = append(collections, domain.Collection{
			ID:        fromPgUUID(id),
			VariantID: fromPgUUID(variantID),
			KeyID:     fromPgUUID(keyID),
			ValueID:   fromPgUUID(valueID),
			Position:  int(position),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("insert collections", err)
	}
	return collections, nil
}

// DeleteVariants removes the product's variants; their collections cascade.
func (s *variantStore) DeleteVariants(ctx context.Context, productID uuid.UUID) error {
	_, err := conn(ctx, s.db).Exec(ctx, `DELETE FROM variants WHERE product_id = $1`, toPgUUID(productID))
	return domain.NewStorageError("delete variants", err)
}
