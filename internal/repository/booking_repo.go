package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"parkshare/internal/db"
)

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(conn *sql.DB) *BookingRepository {
	return &BookingRepository{DB: conn}
}

const bookingColumns = `id, space_id, renter_id, vehicle_id, start_at, end_at, is_hourly, total_price, amount_cents,
	currency, status, payment_status, COALESCE(stripe_session_id, ''), COALESCE(stripe_payment_intent_id, ''),
	created_at, updated_at`

func (r *BookingRepository) Create(ctx context.Context, b *db.Booking) error {
	query := `
		INSERT INTO bookings
		(id, space_id, renter_id, vehicle_id, start_at, end_at, is_hourly, total_price, amount_cents, currency, status, payment_status, stripe_session_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		b.ID,
		b.SpaceID,
		b.RenterID,
		b.VehicleID,
		b.StartAt,
		b.EndAt,
		b.IsHourly,
		b.TotalPrice,
		b.AmountCents,
		b.Currency,
		b.Status,
		b.PaymentStatus,
		b.StripeSessionID,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isPQCode(err, pqExclusionViolation) {
			return ErrBookingConflict
		}
		return fmt.Errorf("error inserting booking: %w", err)
	}
	return nil
}

// HasOverlap reports whether a pending or active booking of the space
// intersects [startAt, endAt).
func (r *BookingRepository) HasOverlap(ctx context.Context, spaceID uuid.UUID, startAt, endAt time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE space_id = $1 AND status IN ('pending', 'active') AND start_at < $3 AND end_at > $2
		)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, spaceID, startAt, endAt).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking booking overlap: %w", err)
	}
	return exists, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*db.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

func (r *BookingRepository) GetBySessionID(ctx context.Context, sessionID string) (*db.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE stripe_session_id = $1`, sessionID)
}

func (r *BookingRepository) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*db.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE stripe_payment_intent_id = $1`, paymentIntentID)
}

// MarkPaid activates a pending booking. ErrStateChanged is returned when the
// booking is gone or no longer pending.
func (r *BookingRepository) MarkPaid(ctx context.Context, id uuid.UUID, paymentIntentID string) error {
	query := `
		UPDATE bookings
		SET status = $2, payment_status = $3, stripe_payment_intent_id = $4, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`
	return r.exec(ctx, ErrStateChanged, query, id, db.BookingActive, db.PaymentSucceeded, paymentIntentID)
}

// CancelUnpaid cancels a booking that is still waiting for payment.
func (r *BookingRepository) CancelUnpaid(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE bookings SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending' AND payment_status = 'pending'`
	return r.exec(ctx, ErrStateChanged, query, id, db.BookingCanceled)
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status, paymentStatus string) error {
	query := `UPDATE bookings SET status = $2, payment_status = $3, updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, ErrNotFound, query, id, status, paymentStatus)
}

// exec returns missing when no row was updated.
func (r *BookingRepository) exec(ctx context.Context, missing error, query string, args ...interface{}) error {
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating booking: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected: %w", err)
	}
	if n == 0 {
		return missing
	}
	return nil
}

func (r *BookingRepository) getOne(ctx context.Context, query string, arg interface{}) (*db.Booking, error) {
	var b db.Booking
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&b.ID, &b.SpaceID, &b.RenterID, &b.VehicleID, &b.StartAt, &b.EndAt, &b.IsHourly, &b.TotalPrice, &b.AmountCents,
		&b.Currency, &b.Status, &b.PaymentStatus, &b.StripeSessionID, &b.StripePaymentIntentID,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking %v: %w", arg, ErrNotFound)
		}
		return nil, fmt.Errorf("error querying booking: %w", err)
	}
	return &b, nil
}
