package usecase

import (
	"variant-catalog/internal/domain"

	"github.com/google/uuid"
)

// productGroup collects one product's variants while the rows are folded.
type productGroup struct {
	view       domain.ProductView
	imageSeen  map[uuid.UUID]struct{}
	variantIdx map[uuid.UUID]int
}

// Reconstruct folds flat product rows back into product views. Rows are
// grouped by product, variant and collection id; they may arrive in any
// order and may repeat. Products, variants and options keep the order in
// which they are first seen.
func Reconstruct(rows []domain.ProductRow) ([]domain.ProductView, error) {
	groups := make([]*productGroup, 0)
	byProduct := make(map[uuid.UUID]*productGroup)
	collectionOwner := make(map[uuid.UUID]uuid.UUID)

	for i := range rows {
		row := &rows[i]

		group, ok := byProduct[row.Product.ID]
		if !ok {
			group = &productGroup{
				view: domain.ProductView{
					Product:  row.Product,
					Unit:     row.Unit,
					Category: row.Category,
					Variants: []domain.VariantView{},
					Images:   []domain.Image{},
				},
				imageSeen:  make(map[uuid.UUID]struct{}),
				variantIdx: make(map[uuid.UUID]int),
			}
			for _, img := range row.Images {
				if _, dup := group.imageSeen[img.ID]; dup {
					continue
				}
				group.imageSeen[img.ID] = struct{}{}
				group.view.Images = append(group.view.Images, img)
			}
			byProduct[row.Product.ID] = group
			groups = append(groups, group)
		}

		if row.Variant == nil {
			if row.Collection != nil {
				return nil, domain.Invariantf("collection %s has no variant in its row", row.Collection.ID)
			}
			continue
		}
		if row.Variant.ProductID != row.Product.ID {
			return nil, domain.Invariantf("variant %s belongs to product %s, found under %s",
				row.Variant.ID, row.Variant.ProductID, row.Product.ID)
		}

		idx, ok := group.variantIdx[row.Variant.ID]
		if !ok {
			idx = len(group.view.Variants)
			group.variantIdx[row.Variant.ID] = idx
			group.view.Variants = append(group.view.Variants, domain.VariantView{
				Variant: *row.Variant,
				Options: []domain.OptionPair{},
			})
		}

		if row.Collection == nil {
			continue
		}
		col := row.Collection
		if col.VariantID != row.Variant.ID {
			return nil, domain.Invariantf("collection %s belongs to variant %s, found under %s",
				col.ID, col.VariantID, row.Variant.ID)
		}
		if owner, seen := collectionOwner[col.ID]; seen {
			if owner != row.Variant.ID {
				return nil, domain.Invariantf("collection %s seen under variants %s and %s", col.ID, owner, row.Variant.ID)
			}
			continue
		}
		if row.Key == nil || row.Value == nil {
			return nil, domain.Invariantf("collection %s is missing its key or value", col.ID)
		}
		collectionOwner[col.ID] = row.Variant.ID

		variant := &group.view.Variants[idx]
		variant.Options = append(variant.Options, domain.OptionPair{
			Collection: *col,
			Key:        *row.Key,
			Value:      *row.Value,
		})
	}

	views := make([]domain.ProductView, len(groups))
	for i, g := range groups {
		views[i] = g.view
	}
	return views, nil
}
