package entities

import "github.com/google/uuid"

// BookingRequest is the requested rental window. Times are only read when
// IsHourly is set; hourly bookings live on StartDate.
type BookingRequest struct {
	IsHourly  bool   `json:"is_hourly"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"omitempty,clock"`
	EndTime   string `json:"end_time" validate:"omitempty,clock"`
}

type QuoteRequest struct {
	BookingRequest
	VehicleID *uuid.UUID `json:"vehicle_id,omitempty"`
}

type CreateBookingRequest struct {
	QuoteRequest
	SpaceID uuid.UUID `json:"space_id"`
}

type Quote struct {
	SpaceID           uuid.UUID `json:"space_id"`
	Hours             float64   `json:"hours"`
	Days              int       `json:"days"`
	TotalPrice        float64   `json:"total_price"`
	AmountCents       int64     `json:"amount_cents"`
	Currency          string    `json:"currency"`
	VehicleCompatible bool      `json:"vehicle_compatible"`
	Available         bool      `json:"available"`
}

type CheckoutResponse struct {
	BookingID   uuid.UUID `json:"booking_id"`
	CheckoutURL string    `json:"checkout_url"`
	SessionID   string    `json:"session_id"`
}

type BookingEmailData struct {
	Language           string
	Heading            string
	UserName           string
	SpaceTitle         string
	BookingID          string
	VehiclePlate       string
	StartTimeFormatted string
	EndTimeFormatted   string
	TotalFormatted     string
	Status             string
	CurrentYear        int
}
