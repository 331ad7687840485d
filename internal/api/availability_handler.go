package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"parkshare/internal/auth"
	"parkshare/internal/db"
	"parkshare/internal/entities"
	apperrors "parkshare/internal/errors"
	"parkshare/internal/service"
	"parkshare/internal/utils"
)

type AvailabilityService interface {
	GetAvailability(ctx context.Context, spaceID uuid.UUID) ([]db.AvailabilitySlot, error)
	ReplaceAvailability(ctx context.Context, spaceID uuid.UUID, m entities.AvailabilityMap) error
	IsDateRangeAvailable(ctx context.Context, spaceID uuid.UUID, startDate, endDate time.Time) ([]db.AvailabilitySlot, error)
	AuthorizeOwner(ctx context.Context, spaceID, userID uuid.UUID) error
}

type AvailabilityHandler struct {
	svc AvailabilityService
}

func NewAvailabilityHandler(svc AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc}
}

func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	return id, err == nil
}

func availabilityResponse(spaceID uuid.UUID, slots []db.AvailabilitySlot) entities.AvailabilityResponse {
	resp := entities.AvailabilityResponse{
		SpaceID: spaceID.String(),
		Slots:   make([]entities.SlotResponse, 0, len(slots)),
		Days:    service.ToAvailabilityMap(slots),
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, entities.SlotResponse{
			Date:        utils.FormatDate(s.Date),
			IsAvailable: s.IsAvailable,
			StartHour:   s.StartHour,
			EndHour:     s.EndHour,
			AllDay:      s.IsAllDay(),
		})
	}
	return resp
}

func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	spaceID, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, apperrors.ErrBadRequest("invalid space id"))
		return
	}
	slots, err := h.svc.GetAvailability(r.Context(), spaceID)
	if err != nil {
		writeServiceError(w, r, err, "failed to load availability")
		return
	}
	writeJSON(w, http.StatusOK, availabilityResponse(spaceID, slots))
}

// ReplaceAvailability overwrites the whole calendar of a space. Only the
// owner may call it.
func (h *AvailabilityHandler) ReplaceAvailability(w http.ResponseWriter, r *http.Request) {
	spaceID, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, apperrors.ErrBadRequest("invalid space id"))
		return
	}
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.ErrUnauthorized("authentication required"))
		return
	}

	var req entities.ReplaceAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ErrBadRequest("invalid request body"))
		return
	}
	if errs := ValidateAvailabilityRequest(req); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	if err := h.svc.AuthorizeOwner(r.Context(), spaceID, userID); err != nil {
		writeServiceError(w, r, err, "failed to save availability")
		return
	}
	if err := h.svc.ReplaceAvailability(r.Context(), spaceID, req.Days); err != nil {
		writeServiceError(w, r, err, "failed to save availability")
		return
	}

	slots, err := h.svc.GetAvailability(r.Context(), spaceID)
	if err != nil {
		writeServiceError(w, r, err, "failed to load availability")
		return
	}
	writeJSON(w, http.StatusOK, availabilityResponse(spaceID, slots))
}

func (h *AvailabilityHandler) GetAvailabilityRange(w http.ResponseWriter, r *http.Request) {
	spaceID, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, apperrors.ErrBadRequest("invalid space id"))
		return
	}
	start, err := utils.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, apperrors.ErrBadRequest("start must be a YYYY-MM-DD date"))
		return
	}
	end, err := utils.ParseDate(r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, apperrors.ErrBadRequest("end must be a YYYY-MM-DD date"))
		return
	}

	slots, err := h.svc.IsDateRangeAvailable(r.Context(), spaceID, start, end)
	if err != nil {
		writeServiceError(w, r, err, "failed to load availability")
		return
	}
	writeJSON(w, http.StatusOK, availabilityResponse(spaceID, slots))
}
