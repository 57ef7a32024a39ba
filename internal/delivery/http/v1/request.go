package v1

import (
	"errors"
	"fmt"
	"net/http"

	"variant-catalog/internal/domain"
	"variant-catalog/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Prices are stored as NUMERIC(12, 2).
const priceScale = 2

var maxPrice = decimal.New(1, 10)

type optionRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type variantRequest struct {
	Price   *decimal.Decimal `json:"price"`
	Options []optionRequest  `json:"options"`
}

type productRequest struct {
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	UnitID      uuid.UUID        `json:"unitId"`
	CategoryID  uuid.UUID        `json:"categoryId"`
	Variants    []variantRequest `json:"variants"`
	Images      []uuid.UUID      `json:"images"`
}

// toInput validates the request and returns the normalized use-case input.
// Names are trimmed with inner whitespace collapsed before any check.
func (req productRequest) toInput() (domain.ProductInput, error) {
	input := domain.ProductInput{
		Name:        utils.NormalizeName(req.Name),
		Description: utils.OptionalString(req.Description),
		UnitID:      req.UnitID,
		CategoryID:  req.CategoryID,
		ImageIDs:    req.Images,
		Variants:    make([]domain.VariantSpec, 0, len(req.Variants)),
	}

	if input.Name == "" {
		return input, errors.New("name is required")
	}
	if input.UnitID == uuid.Nil {
		return input, errors.New("unitId is required")
	}
	if input.CategoryID == uuid.Nil {
		return input, errors.New("categoryId is required")
	}
	for i, id := range req.Images {
		if id == uuid.Nil {
			return input, fmt.Errorf("images[%d] is not a valid id", i)
		}
	}

	for i, v := range req.Variants {
		if v.Price == nil {
			return input, fmt.Errorf("variants[%d].price is required", i)
		}
		if v.Price.IsNegative() {
			return input, fmt.Errorf("variants[%d].price must not be negative", i)
		}
		if !v.Price.Equal(v.Price.Truncate(priceScale)) {
			return input, fmt.Errorf("variants[%d].price must have at most %d decimal places", i, priceScale)
		}
		if v.Price.GreaterThanOrEqual(maxPrice) {
			return input, fmt.Errorf("variants[%d].price must be less than %s", i, maxPrice)
		}

		spec := domain.VariantSpec{Price: *v.Price, Options: make([]domain.OptionSpec, 0, len(v.Options))}
		seen := make(map[string]struct{}, len(v.Options))
		for j, opt := range v.Options {
			key := utils.NormalizeName(opt.Key)
			value := utils.NormalizeName(opt.Value)
			if key == "" {
				return input, fmt.Errorf("variants[%d].options[%d].key is required", i, j)
			}
			if value == "" {
				return input, fmt.Errorf("variants[%d].options[%d].value is required", i, j)
			}
			if _, dup := seen[key]; dup {
				return input, fmt.Errorf("variants[%d] repeats option key %q", i, key)
			}
			seen[key] = struct{}{}
			spec.Options = append(spec.Options, domain.OptionSpec{Key: key, Value: value})
		}
		input.Variants = append(input.Variants, spec)
	}

	return input, nil
}

type nameRequest struct {
	Name string `json:"name"`
}

// pathID parses the {id} path value. It writes a 400 and returns false when
// the value is not a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequest(w, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}
