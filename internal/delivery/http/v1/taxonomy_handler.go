package v1

import (
	"context"
	"net/http"

	"variant-catalog/internal/domain"
	"variant-catalog/pkg/utils"

	"github.com/google/uuid"
)

type TaxonomyService interface {
	ListUnits(ctx context.Context) ([]domain.Unit, error)
	CreateUnit(ctx context.Context, name string) (*domain.Unit, error)
	DeleteUnit(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type TaxonomyHandler struct {
	taxonomyUC TaxonomyService
}

func NewTaxonomyHandler(uc TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomyUC: uc}
}

func (h *TaxonomyHandler) ListUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.taxonomyUC.ListUnits(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, units)
}

func (h *TaxonomyHandler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	unit, err := h.taxonomyUC.CreateUnit(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, unit)
}

func (h *TaxonomyHandler) DeleteUnit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.taxonomyUC.DeleteUnit(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaxonomyHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.taxonomyUC.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, categories)
}

func (h *TaxonomyHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	category, err := h.taxonomyUC.CreateCategory(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, category)
}

func (h *TaxonomyHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.taxonomyUC.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
