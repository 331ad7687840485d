package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"parkshare/internal/db"
)

type MockSpaceRepo struct{ mock.Mock }
type MockBookingRepo struct{ mock.Mock }
type MockAvailabilityChecker struct{ mock.Mock }
type MockPaymentGateway struct{ mock.Mock }
type MockNotificationRepo struct{ mock.Mock }
type MockNotifier struct{ mock.Mock }
type MockMessenger struct{ mock.Mock }
type MockJobRepo struct{ mock.Mock }
type MockAvailabilityCache struct{ mock.Mock }

func (m *MockSpaceRepo) GetSpace(ctx context.Context, id uuid.UUID) (*db.Space, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Space), args.Error(1)
}

func (m *MockSpaceRepo) GetVehicle(ctx context.Context, id uuid.UUID) (*db.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Vehicle), args.Error(1)
}

func (m *MockSpaceRepo) GetProfile(ctx context.Context, id uuid.UUID) (*db.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Profile), args.Error(1)
}

func (m *MockBookingRepo) Create(ctx context.Context, b *db.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookingRepo) HasOverlap(ctx context.Context, spaceID uuid.UUID, startAt, endAt time.Time) (bool, error) {
	args := m.Called(ctx, spaceID, startAt, endAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*db.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Booking), args.Error(1)
}

func (m *MockBookingRepo) GetBySessionID(ctx context.Context, sessionID string) (*db.Booking, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Booking), args.Error(1)
}

func (m *MockBookingRepo) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*db.Booking, error) {
	args := m.Called(ctx, paymentIntentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Booking), args.Error(1)
}

func (m *MockBookingRepo) MarkPaid(ctx context.Context, id uuid.UUID, paymentIntentID string) error {
	return m.Called(ctx, id, paymentIntentID).Error(0)
}

func (m *MockBookingRepo) CancelUnpaid(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status, paymentStatus string) error {
	return m.Called(ctx, id, status, paymentStatus).Error(0)
}

func (m *MockAvailabilityChecker) IsDateRangeAvailable(ctx context.Context, spaceID uuid.UUID, startDate, endDate time.Time) ([]db.AvailabilitySlot, error) {
	args := m.Called(ctx, spaceID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.AvailabilitySlot), args.Error(1)
}

func (m *MockPaymentGateway) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockPaymentGateway) Refund(ctx context.Context, paymentIntentID, sessionID string) error {
	return m.Called(ctx, paymentIntentID, sessionID).Error(0)
}

func (m *MockPaymentGateway) ExpireCheckoutSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *db.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotifier) NotifyBooking(msg BookingMessage) {
	m.Called(msg)
}

func (m *MockMessenger) SendEmail(toEmail, toName, subject, plainText, html string) error {
	return m.Called(toEmail, toName, subject, plainText, html).Error(0)
}

func (m *MockMessenger) SendSMS(toNumber, body string) error {
	return m.Called(toNumber, body).Error(0)
}

func (m *MockJobRepo) GetActiveBookingIDsPastEndTime(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockJobRepo) UpdateBookingStatuses(ctx context.Context, ids []uuid.UUID, newStatus string) error {
	return m.Called(ctx, ids, newStatus).Error(0)
}

func (m *MockJobRepo) DeletePendingBookingsOlderThan(ctx context.Context, before time.Time) ([]string, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAvailabilityCache) Get(ctx context.Context, spaceID uuid.UUID) ([]db.AvailabilitySlot, bool) {
	args := m.Called(ctx, spaceID)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]db.AvailabilitySlot), args.Bool(1)
}

func (m *MockAvailabilityCache) Set(ctx context.Context, spaceID uuid.UUID, slots []db.AvailabilitySlot) {
	m.Called(ctx, spaceID, slots)
}

func (m *MockAvailabilityCache) Invalidate(ctx context.Context, spaceID uuid.UUID) {
	m.Called(ctx, spaceID)
}

// memAvailabilityStore keeps slots in memory, replacing them wholesale.
type memAvailabilityStore struct {
	slots    map[uuid.UUID][]db.AvailabilitySlot
	failNext error
}

func newMemAvailabilityStore() *memAvailabilityStore {
	return &memAvailabilityStore{slots: map[uuid.UUID][]db.AvailabilitySlot{}}
}

func (s *memAvailabilityStore) GetBySpace(_ context.Context, spaceID uuid.UUID) ([]db.AvailabilitySlot, error) {
	out := append([]db.AvailabilitySlot{}, s.slots[spaceID]...)
	return out, nil
}

func (s *memAvailabilityStore) ListAvailableInRange(_ context.Context, spaceID uuid.UUID, startDate, endDate time.Time) ([]db.AvailabilitySlot, error) {
	out := []db.AvailabilitySlot{}
	for _, slot := range s.slots[spaceID] {
		if slot.IsAvailable && !slot.Date.Before(startDate) && !slot.Date.After(endDate) {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (s *memAvailabilityStore) Replace(_ context.Context, spaceID uuid.UUID, slots []db.AvailabilitySlot) error {
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return err
	}
	s.slots[spaceID] = append([]db.AvailabilitySlot{}, slots...)
	return nil
}
