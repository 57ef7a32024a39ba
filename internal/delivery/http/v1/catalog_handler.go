package v1

import (
	"context"
	"net/http"

	"variant-catalog/internal/domain"
	"variant-catalog/pkg/utils"

	"github.com/google/uuid"
)

// CatalogService is the catalog use case as the handlers see it.
type CatalogService interface {
	CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.ProductView, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input domain.ProductInput) (*domain.ProductView, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.ProductView, error)
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.ProductView, error)
}

// CatalogHandler serves the public product reads.
type CatalogHandler struct {
	catalogUC CatalogService
}

func NewCatalogHandler(uc CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogUC: uc}
}

// ListProducts returns every product, optionally narrowed by ?category_id=.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var filter domain.ProductFilter
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			badRequest(w, "invalid category_id")
			return
		}
		filter.CategoryID = &categoryID
	}

	products, err := h.catalogUC.ListProducts(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data":  products,
		"total": len(products),
	})
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := h.catalogUC.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, product)
}
