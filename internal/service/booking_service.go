package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"parkshare/internal/db"
	"parkshare/internal/entities"
	"parkshare/internal/logger"
	"parkshare/internal/metrics"
	"parkshare/internal/pricing"
	"parkshare/internal/repository"
	"parkshare/internal/utils"
)

// cancelNotice is how long before the start a booking can still be canceled.
const cancelNotice = 12 * time.Hour

// maxBookingDays bounds a daily booking regardless of the space's own
// maximum. The schema caps maximum_duration_hours at the same length.
const maxBookingDays = 366

type SpaceReader interface {
	GetSpace(ctx context.Context, id uuid.UUID) (*db.Space, error)
	GetVehicle(ctx context.Context, id uuid.UUID) (*db.Vehicle, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*db.Profile, error)
}

type BookingStore interface {
	Create(ctx context.Context, b *db.Booking) error
	HasOverlap(ctx context.Context, spaceID uuid.UUID, startAt, endAt time.Time) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*db.Booking, error)
	GetBySessionID(ctx context.Context, sessionID string) (*db.Booking, error)
	GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*db.Booking, error)
	MarkPaid(ctx context.Context, id uuid.UUID, paymentIntentID string) error
	CancelUnpaid(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status, paymentStatus string) error
}

type AvailabilityChecker interface {
	IsDateRangeAvailable(ctx context.Context, spaceID uuid.UUID, startDate, endDate time.Time) ([]db.AvailabilitySlot, error)
}

type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (url string, sessionID string, err error)
	Refund(ctx context.Context, paymentIntentID, sessionID string) error
	ExpireCheckoutSession(ctx context.Context, sessionID string) error
}

type NotificationStore interface {
	Create(ctx context.Context, n *db.Notification) error
}

type BookingNotifier interface {
	NotifyBooking(msg BookingMessage)
}

type BookingService struct {
	spaces        SpaceReader
	bookings      BookingStore
	availability  AvailabilityChecker
	payments      PaymentGateway
	notifications NotificationStore
	notifier      BookingNotifier
	loc           *time.Location
	now           func() time.Time
}

func NewBookingService(
	spaces SpaceReader,
	bookings BookingStore,
	availability AvailabilityChecker,
	payments PaymentGateway,
	notifications NotificationStore,
	notifier BookingNotifier,
	loc *time.Location,
) *BookingService {
	if loc == nil {
		loc = time.UTC
	}
	return &BookingService{
		spaces:        spaces,
		bookings:      bookings,
		availability:  availability,
		payments:      payments,
		notifications: notifications,
		notifier:      notifier,
		loc:           loc,
		now:           time.Now,
	}
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// ValidateRequest checks a request against the space's rules and returns its
// duration. Same-day daily requests and hourly requests that do not end after
// they start are rejected.
func ValidateRequest(space db.Space, req entities.BookingRequest) (pricing.Duration, error) {
	if req.StartDate == "" {
		return pricing.Duration{}, invalid("start_date is required")
	}
	var hours float64
	if req.IsHourly {
		if req.StartTime == "" || req.EndTime == "" {
			return pricing.Duration{}, invalid("start_time and end_time are required for hourly bookings")
		}
	} else if req.EndDate == "" {
		return pricing.Duration{}, invalid("end_date is required for daily bookings")
	}

	d, err := pricing.ComputeDuration(req)
	if err != nil {
		return pricing.Duration{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if req.IsHourly {
		if d.Hours <= 0 {
			return d, invalid("end_time must be after start_time")
		}
		hours = d.Hours
	} else {
		if d.Days <= 0 {
			return d, invalid("end_date must be after start_date")
		}
		if d.Days > maxBookingDays {
			return d, invalid("bookings are limited to %d days", maxBookingDays)
		}
		hours = float64(d.Days * 24)
	}

	if hours < float64(space.MinimumDurationHours) {
		return d, invalid("minimum duration is %d hours", space.MinimumDurationHours)
	}
	if hours > float64(space.MaximumDurationHours) {
		return d, invalid("maximum duration is %d hours", space.MaximumDurationHours)
	}
	if pricing.PriceFor(space, req.IsHourly, d) <= 0 {
		return d, invalid("space has no price for this billing mode")
	}
	return d, nil
}

// Window returns the booked interval. Wall clock times are read in loc.
func Window(req entities.BookingRequest, loc *time.Location) (time.Time, time.Time, error) {
	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !req.IsHourly {
		endDate, err := utils.ParseDate(req.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return utils.InLocation(startDate, loc), utils.InLocation(endDate, loc), nil
	}
	start, err := utils.At(startDate, req.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := utils.At(startDate, req.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return utils.InLocation(start, loc), utils.InLocation(end, loc), nil
}

type quoted struct {
	space   *db.Space
	vehicle *db.Vehicle
	startAt time.Time
	endAt   time.Time
	covered bool
	overlap bool
	quote   entities.Quote
}

func (s *BookingService) prepare(ctx context.Context, spaceID uuid.UUID, req entities.QuoteRequest) (*quoted, error) {
	space, err := s.spaces.GetSpace(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	if !space.IsActive {
		return nil, ErrUnavailable
	}

	var vehicle *db.Vehicle
	if req.VehicleID != nil {
		if vehicle, err = s.spaces.GetVehicle(ctx, *req.VehicleID); err != nil {
			return nil, err
		}
	}

	d, err := ValidateRequest(*space, req.BookingRequest)
	if err != nil {
		return nil, err
	}
	startAt, endAt, err := Window(req.BookingRequest, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	dates, err := RequestDates(req.BookingRequest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	slots, err := s.availability.IsDateRangeAvailable(ctx, spaceID, dates[0], dates[len(dates)-1])
	if err != nil {
		return nil, err
	}
	covered, err := CoversRequest(slots, req.BookingRequest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	overlap, err := s.bookings.HasOverlap(ctx, spaceID, startAt, endAt)
	if err != nil {
		return nil, err
	}

	total := pricing.PriceFor(*space, req.IsHourly, d)
	q := &quoted{
		space:   space,
		vehicle: vehicle,
		startAt: startAt,
		endAt:   endAt,
		covered: covered,
		overlap: overlap,
		quote: entities.Quote{
			SpaceID:           spaceID,
			Hours:             d.Hours,
			Days:              d.Days,
			TotalPrice:        total,
			AmountCents:       pricing.ToMinorUnits(total),
			Currency:          pricing.Currency,
			VehicleCompatible: pricing.IsVehicleCompatible(vehicle, *space),
			Available:         covered && !overlap,
		},
	}
	metrics.RecordQuote(req.IsHourly, q.quote.Available)
	return q, nil
}

// Quote prices a request without reserving anything.
func (s *BookingService) Quote(ctx context.Context, spaceID uuid.UUID, req entities.QuoteRequest) (*entities.Quote, error) {
	q, err := s.prepare(ctx, spaceID, req)
	if err != nil {
		return nil, err
	}
	return &q.quote, nil
}

// CreateBooking opens a Stripe checkout for the request and stores the
// pending booking. The booking becomes active once the payment webhook
// arrives.
func (s *BookingService) CreateBooking(ctx context.Context, renterID uuid.UUID, req entities.CreateBookingRequest) (*entities.CheckoutResponse, error) {
	q, err := s.prepare(ctx, req.SpaceID, req.QuoteRequest)
	if err != nil {
		return nil, err
	}
	if q.space.OwnerID == renterID {
		return nil, invalid("cannot book your own space")
	}
	if q.vehicle != nil && q.vehicle.OwnerID != renterID {
		return nil, ErrForbidden
	}
	if !q.quote.VehicleCompatible {
		return nil, ErrVehicleIncompatible
	}
	if !q.covered {
		return nil, ErrUnavailable
	}
	if q.overlap {
		return nil, repository.ErrBookingConflict
	}

	profile, err := s.spaces.GetProfile(ctx, renterID)
	if err != nil {
		return nil, err
	}

	booking := &db.Booking{
		ID:            uuid.New(),
		SpaceID:       req.SpaceID,
		RenterID:      renterID,
		StartAt:       q.startAt,
		EndAt:         q.endAt,
		IsHourly:      req.IsHourly,
		TotalPrice:    q.quote.TotalPrice,
		AmountCents:   q.quote.AmountCents,
		Currency:      q.quote.Currency,
		Status:        db.BookingPending,
		PaymentStatus: db.PaymentPending,
	}
	if q.vehicle != nil {
		booking.VehicleID = uuid.NullUUID{UUID: q.vehicle.ID, Valid: true}
	}

	url, sessionID, err := s.payments.CreateCheckoutSession(ctx, CheckoutParams{
		AmountCents:   booking.AmountCents,
		Currency:      booking.Currency,
		Description:   q.space.Title,
		CustomerEmail: profile.Email,
		Metadata: map[string]string{
			"booking_id": booking.ID.String(),
			"space_id":   booking.SpaceID.String(),
			"renter_id":  renterID.String(),
		},
	})
	if err != nil {
		return nil, err
	}
	booking.StripeSessionID = sessionID

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}
	metrics.RecordBooking(db.BookingPending)
	logger.Info("booking created", "booking_id", booking.ID.String(), "space_id", booking.SpaceID.String(), "amount_cents", booking.AmountCents)

	return &entities.CheckoutResponse{
		BookingID:   booking.ID,
		CheckoutURL: url,
		SessionID:   sessionID,
	}, nil
}

// ConfirmPayment activates the booking paid through the checkout session.
// Repeated deliveries of the same event are ignored. A payment that arrives
// after its booking was canceled or garbage-collected is refunded.
func (s *BookingService) ConfirmPayment(ctx context.Context, sessionID, paymentIntentID string) error {
	b, err := s.bookings.GetBySessionID(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return s.refundUnapplied(ctx, sessionID, paymentIntentID, err)
	}
	if err != nil {
		return err
	}
	if b.PaymentStatus != db.PaymentPending {
		return nil
	}
	if b.Status != db.BookingPending {
		return s.refundUnapplied(ctx, sessionID, paymentIntentID,
			fmt.Errorf("%w: booking %s is %s", ErrInvalidState, b.ID, b.Status))
	}

	if err := s.bookings.MarkPaid(ctx, b.ID, paymentIntentID); err != nil {
		if errors.Is(err, repository.ErrStateChanged) {
			return s.refundUnapplied(ctx, sessionID, paymentIntentID,
				fmt.Errorf("%w: booking %s changed before payment: %w", ErrInvalidState, b.ID, err))
		}
		return err
	}
	b.Status = db.BookingActive
	b.PaymentStatus = db.PaymentSucceeded
	b.StripePaymentIntentID = paymentIntentID
	metrics.RecordBooking(db.BookingActive)

	s.notify(ctx, *b, "confirmed")
	return nil
}

// refundUnapplied refunds a payment with no pending booking to activate and
// returns cause once the refund went through.
func (s *BookingService) refundUnapplied(ctx context.Context, sessionID, paymentIntentID string, cause error) error {
	if err := s.payments.Refund(ctx, paymentIntentID, sessionID); err != nil {
		return fmt.Errorf("refunding unapplied payment for session %s: %w", sessionID, err)
	}
	logger.WithError(cause).Warn("refunded payment without a pending booking", "session_id", sessionID, "payment_intent", paymentIntentID)
	return cause
}

// MarkRefunded records a refund issued on the processor side.
func (s *BookingService) MarkRefunded(ctx context.Context, paymentIntentID string) error {
	b, err := s.bookings.GetByPaymentIntentID(ctx, paymentIntentID)
	if err != nil {
		return err
	}
	if b.PaymentStatus == db.PaymentRefunded {
		return nil
	}
	if err := s.bookings.UpdateStatus(ctx, b.ID, db.BookingCanceled, db.PaymentRefunded); err != nil {
		return err
	}
	metrics.RecordBooking(db.BookingCanceled)
	return nil
}

// CancelBooking cancels the renter's booking and refunds a captured payment.
func (s *BookingService) CancelBooking(ctx context.Context, renterID, bookingID uuid.UUID) error {
	b, err := s.GetBooking(ctx, renterID, bookingID)
	if err != nil {
		return err
	}
	if b.Status == db.BookingCanceled || b.Status == db.BookingFinished {
		return fmt.Errorf("%w: booking %s is %s", ErrInvalidState, b.ID, b.Status)
	}
	if b.StartAt.Sub(s.now()) < cancelNotice {
		return ErrCancelWindowClosed
	}

	if b.PaymentStatus == db.PaymentSucceeded {
		if err := s.payments.Refund(ctx, b.StripePaymentIntentID, b.StripeSessionID); err != nil {
			return err
		}
		if err := s.bookings.UpdateStatus(ctx, b.ID, db.BookingCanceled, db.PaymentRefunded); err != nil {
			return err
		}
		b.PaymentStatus = db.PaymentRefunded
	} else {
		s.expireCheckout(ctx, b)
		if err := s.bookings.CancelUnpaid(ctx, b.ID); err != nil {
			if errors.Is(err, repository.ErrStateChanged) {
				return fmt.Errorf("%w: booking %s was paid while canceling", ErrInvalidState, b.ID)
			}
			return err
		}
	}
	b.Status = db.BookingCanceled
	metrics.RecordBooking(db.BookingCanceled)

	s.notify(ctx, *b, db.BookingCanceled)
	return nil
}

// expireCheckout closes the checkout of an unpaid booking. A failure is only
// logged: a payment that still lands is refunded by ConfirmPayment.
func (s *BookingService) expireCheckout(ctx context.Context, b *db.Booking) {
	if b.StripeSessionID == "" {
		return
	}
	if err := s.payments.ExpireCheckoutSession(ctx, b.StripeSessionID); err != nil {
		logger.WithError(err).Warn("failed to expire checkout session", "booking_id", b.ID.String(), "session_id", b.StripeSessionID)
	}
}

// GetBooking returns the booking if renterID made it. Other users get
// ErrNotFound.
func (s *BookingService) GetBooking(ctx context.Context, renterID, bookingID uuid.UUID) (*db.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.RenterID != renterID {
		return nil, fmt.Errorf("booking %s: %w", bookingID, repository.ErrNotFound)
	}
	return b, nil
}

// notify records in-app notifications for renter and owner and messages the
// renter. Failures are logged only.
func (s *BookingService) notify(ctx context.Context, b db.Booking, status string) {
	space, err := s.spaces.GetSpace(ctx, b.SpaceID)
	if err != nil {
		logger.WithError(err).Warn("skipping booking notification", "booking_id", b.ID.String())
		return
	}

	when := b.StartAt.In(s.loc).Format("02 Jan 15:04")
	data := map[string]interface{}{"booking_id": b.ID.String(), "space_id": b.SpaceID.String()}
	records := []*db.Notification{
		{
			UserID:  b.RenterID,
			Type:    "booking_" + status,
			Title:   "Booking " + status,
			Message: fmt.Sprintf("Your booking of %s on %s is %s.", space.Title, when, status),
			Data:    data,
		},
		{
			UserID:  space.OwnerID,
			Type:    "space_booking_" + status,
			Title:   "Booking " + status,
			Message: fmt.Sprintf("A booking of %s on %s is %s.", space.Title, when, status),
			Data:    data,
		},
	}
	for _, n := range records {
		if err := s.notifications.Create(ctx, n); err != nil {
			logger.WithError(err).Warn("failed to store notification", "user_id", n.UserID.String(), "type", n.Type)
		}
	}

	if s.notifier == nil {
		return
	}
	profile, err := s.spaces.GetProfile(ctx, b.RenterID)
	if err != nil {
		logger.WithError(err).Warn("renter profile unavailable, not messaging", "booking_id", b.ID.String())
		return
	}
	var vehicle *db.Vehicle
	if b.VehicleID.Valid {
		if vehicle, err = s.spaces.GetVehicle(ctx, b.VehicleID.UUID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			logger.WithError(err).Warn("vehicle lookup failed", "booking_id", b.ID.String())
		}
	}
	s.notifier.NotifyBooking(BookingMessage{
		Profile: *profile,
		Booking: b,
		Space:   *space,
		Vehicle: vehicle,
		Status:  status,
	})
}
