package usecase

import (
	"context"

	"variant-catalog/internal/domain"
	"variant-catalog/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VariantAttacher turns a product's variant specs into normalized option
// keys, option values, variants and collection rows, and removes them again.
// Callers run it inside TransactionManager.Do.
type VariantAttacher struct {
	catalog domain.OptionCatalog
	store   domain.VariantStore
}

func NewVariantAttacher(catalog domain.OptionCatalog, store domain.VariantStore) *VariantAttacher {
	return &VariantAttacher{catalog: catalog, store: store}
}

// Attach persists specs for productID with one batched call per table.
// Any error aborts immediately and is returned unchanged.
func (a *VariantAttacher) Attach(ctx context.Context, productID uuid.UUID, specs []domain.VariantSpec) error {
	if len(specs) == 0 {
		return nil
	}

	// 1. Distinct key names, first occurrence wins
	keyNames := make([]string, 0)
	seenKeys := make(map[string]struct{})
	for _, spec := range specs {
		for _, opt := range spec.Options {
			if _, ok := seenKeys[opt.Key]; ok {
				continue
			}
			seenKeys[opt.Key] = struct{}{}
			keyNames = append(keyNames, opt.Key)
		}
	}

	// 2. Keys
	keys := map[string]domain.OptionKey{}
	if len(keyNames) > 0 {
		var err error
		keys, err = a.catalog.EnsureKeys(ctx, productID, keyNames)
		if err != nil {
			return err
		}
	}

	// 3. Distinct values, scoped by the key they belong to
	refs := make([]domain.ValueRef, 0)
	seenRefs := make(map[domain.ValueRef]struct{})
	for _, spec := range specs {
		for _, opt := range spec.Options {
			key, ok := keys[opt.Key]
			if !ok {
				return domain.Invariantf("option key %q was not returned by the catalog", opt.Key)
			}
			ref := domain.ValueRef{KeyID: key.ID, Name: opt.Value}
			if _, ok := seenRefs[ref]; ok {
				continue
			}
			seenRefs[ref] = struct{}{}
			refs = append(refs, ref)
		}
	}

	// 4. Values
	values := map[domain.ValueRef]domain.OptionValue{}
	if len(refs) > 0 {
		var err error
		values, err = a.catalog.EnsureValues(ctx, refs)
		if err != nil {
			return err
		}
	}

	// 5. Variants, in input order
	prices := make([]decimal.Decimal, len(specs))
	for i, spec := range specs {
		prices[i] = spec.Price
	}
	variants, err := a.store.InsertVariants(ctx, productID, prices)
	if err != nil {
		return err
	}
	if len(variants) != len(specs) {
		return domain.Invariantf("inserted %d variants for %d specs", len(variants), len(specs))
	}

	// 6. One collection entry per option, paired with the variant at the same index
	entries := make([]domain.CollectionEntry, 0)
	for i, spec := range specs {
		variant := variants[i]
		if variant.Position != i {
			return domain.Invariantf("variant at index %d has position %d", i, variant.Position)
		}
		for j, opt := range spec.Options {
			key, ok := keys[opt.Key]
			if !ok {
				return domain.Invariantf("option key %q missing while building collections", opt.Key)
			}
			value, ok := values[domain.ValueRef{KeyID: key.ID, Name: opt.Value}]
			if !ok {
				return domain.Invariantf("option value %q of key %q was not returned by the catalog", opt.Value, opt.Key)
			}
			entries = append(entries, domain.CollectionEntry{
				VariantID: variant.ID,
				KeyID:     key.ID,
				ValueID:   value.ID,
				Position:  j,
			})
		}
	}

	// 7. Collections
	if len(entries) > 0 {
		if _, err := a.store.InsertCollections(ctx, entries); err != nil {
			return err
		}
	}

	logger.WithContext(ctx).Debug().
		Str("product_id", productID.String()).
		Int("keys", len(keys)).
		Int("values", len(values)).
		Int("variants", len(variants)).
		Int("collections", len(entries)).
		Msg("Variants attached")

	return nil
}

// Detach removes every variant, collection, option key and option value of
// productID. Detaching a product with nothing attached succeeds.
func (a *VariantAttacher) Detach(ctx context.Context, productID uuid.UUID) error {
	if err := a.store.DeleteVariants(ctx, productID); err != nil {
		return err
	}
	return a.catalog.DeleteKeys(ctx, productID)
}
