package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"parkshare/internal/auth"
	"parkshare/internal/db"
	"parkshare/internal/entities"
	apperrors "parkshare/internal/errors"
)

type BookingService interface {
	Quote(ctx context.Context, spaceID uuid.UUID, req entities.QuoteRequest) (*entities.Quote, error)
	CreateBooking(ctx context.Context, renterID uuid.UUID, req entities.CreateBookingRequest) (*entities.CheckoutResponse, error)
	GetBooking(ctx context.Context, renterID, bookingID uuid.UUID) (*db.Booking, error)
	CancelBooking(ctx context.Context, renterID, bookingID uuid.UUID) error
}

type BookingHandler struct {
	svc BookingService
}

func NewBookingHandler(svc BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	spaceID, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, apperrors.ErrBadRequest("invalid space id"))
		return
	}
	var req entities.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ErrBadRequest("invalid request body"))
		return
	}
	if errs := ValidateStruct(req); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	q, err := h.svc.Quote(r.Context(), spaceID, req)
	if err != nil {
		writeServiceError(w, r, err, "failed to compute quote")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	renterID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.ErrUnauthorized("authentication required"))
		return
	}
	var req entities.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ErrBadRequest("invalid request body"))
		return
	}
	if errs := ValidateStruct(req); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	resp, err := h.svc.CreateBooking(r.Context(), renterID, req)
	if err != nil {
		writeServiceError(w, r, err, "booking failed")
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	renterID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.ErrUnauthorized("authentication required"))
		return
	}
	bookingID, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, apperrors.ErrBadRequest("invalid booking id"))
		return
	}

	b, err := h.svc.GetBooking(r.Context(), renterID, bookingID)
	if err != nil {
		writeServiceError(w, r, err, "failed to load booking")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	renterID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.ErrUnauthorized("authentication required"))
		return
	}
	bookingID, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, apperrors.ErrBadRequest("invalid booking id"))
		return
	}

	if err := h.svc.CancelBooking(r.Context(), renterID, bookingID); err != nil {
		writeServiceError(w, r, err, "failed to cancel booking")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": db.BookingCanceled})
}
