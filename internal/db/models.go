package db

import (
	"time"

	"github.com/google/uuid"
)

const (
	AllDayStartHour = 0
	AllDayEndHour   = 24
)

// IsAllDayRange reports whether the hour range is the canonical all day encoding.
func IsAllDayRange(startHour, endHour int) bool {
	return startHour == AllDayStartHour && endHour == AllDayEndHour
}

// AvailabilitySlot is one calendar date of availability for a space.
// AllDay mirrors the generated is_all_day column.
type AvailabilitySlot struct {
	SpaceID     uuid.UUID `json:"space_id"`
	Date        time.Time `json:"date"`
	IsAvailable bool      `json:"is_available"`
	StartHour   int       `json:"start_hour"`
	EndHour     int       `json:"end_hour"`
	AllDay      bool      `json:"is_all_day"`
}

// IsAllDay derives the all day flag from the hour range.
func (s AvailabilitySlot) IsAllDay() bool {
	return IsAllDayRange(s.StartHour, s.EndHour)
}

func NewAvailabilitySlot(spaceID uuid.UUID, date time.Time, startHour, endHour int) AvailabilitySlot {
	return AvailabilitySlot{
		SpaceID:     spaceID,
		Date:        date,
		IsAvailable: true,
		StartHour:   startHour,
		EndHour:     endHour,
		AllDay:      IsAllDayRange(startHour, endHour),
	}
}

type Space struct {
	ID                   uuid.UUID `json:"id"`
	OwnerID              uuid.UUID `json:"owner_id"`
	Title                string    `json:"title"`
	LengthCM             *int      `json:"length_cm"`
	WidthCM              *int      `json:"width_cm"`
	HeightCM             *int      `json:"height_cm"`
	MaxWeightKG          *int      `json:"max_weight_kg"`
	HourlyPrice          float64   `json:"hourly_price"`
	DailyPrice           float64   `json:"daily_price"`
	MinimumDurationHours int       `json:"minimum_duration_hours"`
	MaximumDurationHours int       `json:"maximum_duration_hours"`
	IsActive             bool      `json:"is_active"`
}

type Vehicle struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	LicensePlate string    `json:"license_plate"`
	LengthCM     *int      `json:"length_cm"`
	WidthCM      *int      `json:"width_cm"`
	HeightCM     *int      `json:"height_cm"`
	WeightKG     *int      `json:"weight_kg"`
}

// Profile holds the contact details the hosted auth provider mirrors into
// the database.
type Profile struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
	Language string    `json:"language"`
}

const (
	BookingPending  = "pending"
	BookingActive   = "active"
	BookingFinished = "finished"
	BookingCanceled = "canceled"

	PaymentPending   = "pending"
	PaymentSucceeded = "succeeded"
	PaymentRefunded  = "refunded"
)

type Booking struct {
	ID                    uuid.UUID     `json:"id"`
	SpaceID               uuid.UUID     `json:"space_id"`
	RenterID              uuid.UUID     `json:"renter_id"`
	VehicleID             uuid.NullUUID `json:"vehicle_id"`
	StartAt               time.Time     `json:"start_at"`
	EndAt                 time.Time     `json:"end_at"`
	IsHourly              bool          `json:"is_hourly"`
	TotalPrice            float64       `json:"total_price"`
	AmountCents           int64         `json:"amount_cents"`
	Currency              string        `json:"currency"`
	Status                string        `json:"status"`
	PaymentStatus         string        `json:"payment_status"`
	StripeSessionID       string        `json:"-"`
	StripePaymentIntentID string        `json:"-"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
}

type Notification struct {
	UserID  uuid.UUID
	Type    string
	Title   string
	Message string
	Data    map[string]interface{}
}
