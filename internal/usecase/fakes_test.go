package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"variant-catalog/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory OptionCatalog and VariantStore that enforces the
// same uniqueness rules as the schema and counts every call.
type memStore struct {
	keys        []domain.OptionKey
	values      []domain.OptionValue
	variants    []domain.Variant
	collections []domain.Collection

	calls map[string]int

	// failOn makes the named method return errFake.
	failOn string
	// reverseVariants makes InsertVariants return rows in reverse order.
	reverseVariants bool
}

var errFake = errors.New("fake storage failure")

var (
	_ domain.OptionCatalog = (*memStore)(nil)
	_ domain.VariantStore  = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{calls: make(map[string]int)}
}

func (s *memStore) enter(method string) error {
	s.calls[method]++
	if s.failOn == method {
		return domain.NewStorageError(method, errFake)
	}
	return nil
}

func (s *memStore) EnsureKeys(_ context.Context, productID uuid.UUID, names []string) (map[string]domain.OptionKey, error) {
	if err := s.enter("EnsureKeys"); err != nil {
		return nil, err
	}
	out := make(map[string]domain.OptionKey, len(names))
	for _, name := range names {
		for _, k := range s.keys {
			if k.ProductID == productID && k.Name == name {
				return nil, domain.NewStorageError("EnsureKeys", fmt.Errorf("duplicate key %q", name))
			}
		}
		key := domain.OptionKey{ID: uuid.New(), Name: name, ProductID: productID}
		s.keys = append(s.keys, key)
		out[name] = key
	}
	return out, nil
}

func (s *memStore) EnsureValues(_ context.Context, refs []domain.ValueRef) (map[domain.ValueRef]domain.OptionValue, error) {
	if err := s.enter("EnsureValues"); err != nil {
		return nil, err
	}
	out := make(map[domain.ValueRef]domain.OptionValue, len(refs))
	for _, ref := range refs {
		for _, v := range s.values {
			if v.KeyID == ref.KeyID && v.Name == ref.Name {
				return nil, domain.NewStorageError("EnsureValues", fmt.Errorf("duplicate value %q", ref.Name))
			}
		}
		value := domain.OptionValue{ID: uuid.New(), Name: ref.Name, KeyID: ref.KeyID}
		s.values = append(s.values, value)
		out[ref] = value
	}
	return out, nil
}

func (s *memStore) DeleteKeys(_ context.Context, productID uuid.UUID) error {
	if err := s.enter("DeleteKeys"); err != nil {
		return err
	}
	removed := make(map[uuid.UUID]bool)
	keys := s.keys[:0]
	for _, k := range s.keys {
		if k.ProductID == productID {
			removed[k.ID] = true
			continue
		}
		keys = append(keys, k)
	}
	s.keys = keys

	values := s.values[:0]
	for _, v := range s.values {
		if !removed[v.KeyID] {
			values = append(values, v)
		}
	}
	s.values = values

	cols := s.collections[:0]
	for _, c := range s.collections {
		if !removed[c.KeyID] {
			cols = append(cols, c)
		}
	}
	s.collections = cols
	return nil
}

func (s *memStore) InsertVariants(_ context.Context, productID uuid.UUID, prices []decimal.Decimal) ([]domain.Variant, error) {
	if err := s.enter("InsertVariants"); err != nil {
		return nil, err
	}
	out := make([]domain.Variant, len(prices))
	for i, p := range prices {
		v := domain.Variant{ID: uuid.New(), Price: p, ProductID: productID, Position: i}
		s.variants = append(s.variants, v)
		out[i] = v
	}
	if s.reverseVariants {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (s *memStore) InsertCollections(_ context.Context, entries []domain.CollectionEntry) ([]domain.Collection, error) {
	if err := s.enter("InsertCollections"); err != nil {
		return nil, err
	}
	out := make([]domain.Collection, 0, len(entries))
	for _, e := range entries {
		for _, c := range s.collections {
			if c.VariantID == e.VariantID && c.KeyID == e.KeyID {
				return nil, domain.NewStorageError("InsertCollections", errors.New("duplicate (variant, key)"))
			}
		}
		c := domain.Collection{ID: uuid.New(), VariantID: e.VariantID, KeyID: e.KeyID, ValueID: e.ValueID, Position: e.Position}
		s.collections = append(s.collections, c)
		out = append(out, c)
	}
	return out, nil
}

func (s *memStore) DeleteVariants(_ context.Context, productID uuid.UUID) error {
	if err := s.enter("DeleteVariants"); err != nil {
		return err
	}
	removed := make(map[uuid.UUID]bool)
	variants := s.variants[:0]
	for _, v := range s.variants {
		if v.ProductID == productID {
			removed[v.ID] = true
			continue
		}
		variants = append(variants, v)
	}
	s.variants = variants

	cols := s.collections[:0]
	for _, c := range s.collections {
		if !removed[c.VariantID] {
			cols = append(cols, c)
		}
	}
	s.collections = cols
	return nil
}

func (s *memStore) keysOf(productID uuid.UUID) []domain.OptionKey {
	var out []domain.OptionKey
	for _, k := range s.keys {
		if k.ProductID == productID {
			out = append(out, k)
		}
	}
	return out
}

func (s *memStore) valuesOf(keyID uuid.UUID) []domain.OptionValue {
	var out []domain.OptionValue
	for _, v := range s.values {
		if v.KeyID == keyID {
			out = append(out, v)
		}
	}
	return out
}

// rows builds the flat join for product the way the SQL query does: one row
// per collection, one bare row per option-less variant and one row for a
// product without variants.
func (s *memStore) rows(product domain.Product, images []domain.Image) []domain.ProductRow {
	base := domain.ProductRow{
		Product:  product,
		Unit:     domain.Unit{ID: product.UnitID, Name: "pcs"},
		Category: domain.Category{ID: product.CategoryID, Name: "Shirts"},
		Images:   images,
	}

	var variants []domain.Variant
	for _, v := range s.variants {
		if v.ProductID == product.ID {
			variants = append(variants, v)
		}
	}
	sort.Slice(variants, func(i, j int) bool { return variants[i].Position < variants[j].Position })
	if len(variants) == 0 {
		return []domain.ProductRow{base}
	}

	keyByID := make(map[uuid.UUID]domain.OptionKey)
	for _, k := range s.keys {
		keyByID[k.ID] = k
	}
	valueByID := make(map[uuid.UUID]domain.OptionValue)
	for _, v := range s.values {
		valueByID[v.ID] = v
	}

	var rows []domain.ProductRow
	for i := range variants {
		v := variants[i]
		var cols []domain.Collection
		for _, c := range s.collections {
			if c.VariantID == v.ID {
				cols = append(cols, c)
			}
		}
		sort.Slice(cols, func(i, j int) bool { return cols[i].Position < cols[j].Position })

		if len(cols) == 0 {
			row := base
			row.Variant = &v
			rows = append(rows, row)
			continue
		}
		for j := range cols {
			c := cols[j]
			key := keyByID[c.KeyID]
			value := valueByID[c.ValueID]
			row := base
			row.Variant = &v
			row.Collection = &c
			row.Key = &key
			row.Value = &value
			rows = append(rows, row)
		}
	}
	return rows
}

// fakeTx runs fn inline and records how it ended.
type fakeTx struct {
	calls      int
	rolledBack int
}

func (tx *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.calls++
	if err := fn(ctx); err != nil {
		tx.rolledBack++
		return err
	}
	return nil
}

func spec(price string, pairs ...string) domain.VariantSpec {
	s := domain.VariantSpec{Price: decimal.RequireFromString(price), Options: []domain.OptionSpec{}}
	for i := 0; i+1 < len(pairs); i += 2 {
		s.Options = append(s.Options, domain.OptionSpec{Key: pairs[i], Value: pairs[i+1]})
	}
	return s
}

// variantShape is a variant reduced to its price and option names, for
// comparing views whose ids differ.
type variantShape struct {
	Price   string
	Options map[string]string
}

func shapeOf(view domain.ProductView) []variantShape {
	out := make([]variantShape, len(view.Variants))
	for i, v := range view.Variants {
		opts := make(map[string]string, len(v.Options))
		for _, o := range v.Options {
			opts[o.Key.Name] = o.Value.Name
		}
		out[i] = variantShape{Price: v.Variant.Price.String(), Options: opts}
	}
	return out
}

func shapeOfSpecs(specs []domain.VariantSpec) []variantShape {
	out := make([]variantShape, len(specs))
	for i, s := range specs {
		opts := make(map[string]string, len(s.Options))
		for _, o := range s.Options {
			opts[o.Key] = o.Value
		}
		out[i] = variantShape{Price: s.Price.String(), Options: opts}
	}
	return out
}
