package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Interfaces ---

type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	UnitID      uuid.UUID `json:"unitId"`
	CategoryID  uuid.UUID `json:"categoryId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// OptionKey is one option dimension of a product, e.g. "Color".
type OptionKey struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ProductID uuid.UUID `json:"productId"`
}

// OptionValue is one value under a key, e.g. "Red" under "Color".
type OptionValue struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	KeyID uuid.UUID `json:"keyId"`
}

type Variant struct {
	ID        uuid.UUID       `json:"id"`
	Price     decimal.Decimal `json:"price"`
	ProductID uuid.UUID       `json:"productId"`
	Position  int             `json:"position"`
}

// Collection records that a variant carries one key=value pair.
type Collection struct {
	ID        uuid.UUID `json:"id"`
	VariantID uuid.UUID `json:"variantId"`
	KeyID     uuid.UUID `json:"keyId"`
	ValueID   uuid.UUID `json:"valueId"`
	Position  int       `json:"position"`
}

// --- Write-side inputs ---

type OptionSpec struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type VariantSpec struct {
	Price   decimal.Decimal `json:"price"`
	Options []OptionSpec    `json:"options"`
}

type ProductInput struct {
	Name        string
	Description *string
	UnitID      uuid.UUID
	CategoryID  uuid.UUID
	Variants    []VariantSpec
	ImageIDs    []uuid.UUID
}

// ValueRef identifies an option value by name inside its key's scope.
type ValueRef struct {
	KeyID uuid.UUID
	Name  string
}

type CollectionEntry struct {
	VariantID uuid.UUID
	KeyID     uuid.UUID
	ValueID   uuid.UUID
	Position  int
}

// --- Read-side views ---

// ProductRow is one row of the flat product join. Variant and the
// collection triple are nil when the outer joins found nothing.
type ProductRow struct {
	Product    Product
	Unit       Unit
	Category   Category
	Variant    *Variant
	Collection *Collection
	Key        *OptionKey
	Value      *OptionValue
	Images     []Image
}

type OptionPair struct {
	Collection Collection  `json:"collection"`
	Key        OptionKey   `json:"key"`
	Value      OptionValue `json:"value"`
}

type VariantView struct {
	Variant Variant      `json:"variant"`
	Options []OptionPair `json:"options"`
}

type ProductView struct {
	Product  Product       `json:"product"`
	Unit     Unit          `json:"unit"`
	Category Category      `json:"category"`
	Variants []VariantView `json:"variants"`
	Images   []Image       `json:"images"`
}

type ProductRowFilter struct {
	ProductID  *uuid.UUID
	CategoryID *uuid.UUID
}

type ProductFilter struct {
	CategoryID *uuid.UUID
}

// --- Interfaces ---

// OptionCatalog stores option keys scoped to a product and option values
// scoped to a key. Callers pass names that are already distinct.
type OptionCatalog interface {
	EnsureKeys(ctx context.Context, productID uuid.UUID, names []string) (map[string]OptionKey, error)
	EnsureValues(ctx context.Context, refs []ValueRef) (map[ValueRef]OptionValue, error)
	DeleteKeys(ctx context.Context, productID uuid.UUID) error
}

// VariantStore stores variants and their collection rows. InsertVariants
// returns variants in the same order as prices.
type VariantStore interface {
	InsertVariants(ctx context.Context, productID uuid.UUID, prices []decimal.Decimal) ([]Variant, error)
	InsertCollections(ctx context.Context, entries []CollectionEntry) ([]Collection, error)
	DeleteVariants(ctx context.Context, productID uuid.UUID) error
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *Product) error
	UpdateProduct(ctx context.Context, product *Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProductRows(ctx context.Context, filter ProductRowFilter) ([]ProductRow, error)
	AttachImages(ctx context.Context, productID uuid.UUID, imageIDs []uuid.UUID) error
	DetachImages(ctx context.Context, productID uuid.UUID, imageIDs []uuid.UUID) error
}
