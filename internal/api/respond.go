package api

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "parkshare/internal/errors"
	"parkshare/internal/logger"
	"parkshare/internal/repository"
	"parkshare/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithError(err).Warn("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, e *apperrors.HTTPError) {
	writeJSON(w, e.Code, e)
}

func writeValidationErrors(w http.ResponseWriter, errs []ValidationError) {
	writeError(w, apperrors.ErrBadRequest("validation failed").WithDetails(errs))
}

// writeServiceError maps service and repository errors to responses.
// Unexpected errors are logged and answered with the generic fallback.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		writeError(w, apperrors.ErrBadRequest(err.Error()))
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, apperrors.ErrNotFound("not found"))
	case errors.Is(err, service.ErrForbidden):
		writeError(w, apperrors.ErrForbidden("forbidden"))
	case errors.Is(err, repository.ErrBookingConflict):
		writeError(w, apperrors.ErrConflict("space already booked for this period"))
	case errors.Is(err, service.ErrUnavailable):
		writeError(w, apperrors.ErrConflict(service.ErrUnavailable.Error()))
	case errors.Is(err, service.ErrInvalidState):
		writeError(w, apperrors.ErrConflict(service.ErrInvalidState.Error()))
	case errors.Is(err, service.ErrVehicleIncompatible):
		writeError(w, apperrors.ErrUnprocessable(service.ErrVehicleIncompatible.Error()))
	case errors.Is(err, service.ErrCancelWindowClosed):
		writeError(w, apperrors.ErrUnprocessable(service.ErrCancelWindowClosed.Error()))
	default:
		logger.WithError(err).Error(fallback, "method", r.Method, "path", r.URL.Path)
		writeError(w, apperrors.ErrInternal(fallback))
	}
}
