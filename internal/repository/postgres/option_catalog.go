package pgrepo

import (
	"context"

	"variant-catalog/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type optionCatalog struct {
	db *pgxpool.Pool
}

func NewOptionCatalog(db *pgxpool.Pool) domain.OptionCatalog {
	return &optionCatalog{db: db}
}

const insertOptionKeys = `
INSERT INTO option_keys (name, product_id)
SELECT t.name, $2
FROM UNNEST($1::text[]) AS t(name)
RETURNING id, name, product_id`

// EnsureKeys inserts one key per name in a single statement.
func (c *optionCatalog) EnsureKeys(ctx context.Context, productID uuid.UUID, names []string) (map[string]domain.OptionKey, error) {
	keys := make(map[string]domain.OptionKey, len(names))
	if len(names) == 0 {
		return keys, nil
	}

	rows, err := conn(ctx, c.db).Query(ctx, insertOptionKeys, names, toPgUUID(productID))
	if err != nil {
		return nil, domain.NewStorageError("insert option keys", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, owner pgtype.UUID
			key       domain.OptionKey
		)
		if err := rows.Scan(&id, &key.Name, &owner); err != nil {
			return nil, domain.NewStorageError("scan option key", err)
		}
		key.ID = fromPgUUID(id)
		key.ProductID = fromPgUUID(owner)
		keys[key.Name] = key
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("insert option keys", err)
	}
	return keys, nil
}

const insertOptionValues = `
INSERT INTO option_values (name, key_id)
SELECT t.name, t.key_id
FROM UNNEST($1::text[], $2::uuid[]) AS t(name, key_id)
RETURNING id, name, key_id`

// EnsureValues inserts one value per (key, name) ref in a single statement.
func (c *optionCatalog) EnsureValues(ctx context.Context, refs []domain.ValueRef) (map[domain.ValueRef]domain.OptionValue, error) {
	values := make(map[domain.ValueRef]domain.OptionValue, len(refs))
	if len(refs) == 0 {
		return values, nil
	}

	names := make([]string, len(refs))
	keyIDs := make([]pgtype.UUID, len(refs))
	for i, ref := range refs {
		names[i] = ref.Name
		keyIDs[i] = toPgUUID(ref.KeyID)
	}

	rows, err := conn(ctx, c.db).Query(ctx, insertOptionValues, names, keyIDs)
	if err != nil {
		return nil, domain.NewStorageError("insert option values", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, keyID pgtype.UUID
			value     domain.OptionValue
		)
		if err := rows.Scan(&id, &value.Name, &keyID); err != nil {
			return nil, domain.NewStorageError("scan option value", err)
		}
		value.ID = fromPgUUID(id)
		value.KeyID = fromPgUUID(keyID)
		values[domain.ValueRef{KeyID: value.KeyID, Name: value.Name}] = value
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("insert option values", err)
	}
	return values, nil
}

// DeleteKeys removes every key of the product; values and collections cascade.
func (c *optionCatalog) DeleteKeys(ctx context.Context, productID uuid.UUID) error {
	_, err := conn(ctx, c.db).Exec(ctx, `DELETE FROM option_keys WHERE product_id = $1`, toPgUUID(productID))
	return domain.NewStorageError("delete option keys", err)
}
