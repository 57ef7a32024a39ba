package v1

import (
	"errors"
	"net/http"

	"variant-catalog/internal/domain"
	"variant-catalog/pkg/logger"
	"variant-catalog/pkg/utils"
)

// statusFor maps a use-case error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidReference), errors.Is(err, domain.ErrImageNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrUnitNotFound),
		errors.Is(err, domain.ErrCategoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStorageNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the mapped status. Server-side failures are
// logged and never expose their cause to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status < http.StatusInternalServerError {
		utils.WriteError(w, status, err.Error())
		return
	}

	event := logger.WithContext(r.Context()).Error().Err(err)
	var storageErr *domain.StorageError
	switch {
	case errors.Is(err, domain.ErrInvariantViolation):
		event = event.Str("kind", "invariant_violation")
	case errors.As(err, &storageErr):
		event = event.Str("kind", "storage").Str("op", storageErr.Op)
	}
	event.Str("path", r.URL.Path).Msg("Request failed")

	if status == http.StatusServiceUnavailable {
		utils.WriteError(w, status, err.Error())
		return
	}
	utils.WriteError(w, status, "Internal server error")
}

func badRequest(w http.ResponseWriter, message string) {
	utils.WriteError(w, http.StatusBadRequest, message)
}
