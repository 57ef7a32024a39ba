package v1

import (
	"net/http"

	"variant-catalog/pkg/utils"
)

// AdminCatalogHandler serves product writes. Routes are wrapped in the admin
// middleware chain.
type AdminCatalogHandler struct {
	catalogUC CatalogService
}

func NewAdminCatalogHandler(uc CatalogService) *AdminCatalogHandler {
	return &AdminCatalogHandler{catalogUC: uc}
}

func (h *AdminCatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	product, err := h.catalogUC.CreateProduct(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, product)
}

// UpdateProduct replaces the product, its variants and its image list.
func (h *AdminCatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req productRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	product, err := h.catalogUC.UpdateProduct(r.Context(), id, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, product)
}

func (h *AdminCatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.catalogUC.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
