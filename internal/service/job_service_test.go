package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"parkshare/internal/db"
)

func newTestJobService(repo JobStore, now time.Time) *JobService {
	return newTestJobServiceWith(repo, &MockPaymentGateway{}, now)
}

func newTestJobServiceWith(repo JobStore, checkouts CheckoutExpirer, now time.Time) *JobService {
	s := NewJobService(repo, checkouts)
	s.now = func() time.Time { return now }
	return s
}

func TestFinishExpiredBookings(t *testing.T) {
	now := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	repo := &MockJobRepo{}
	repo.On("GetActiveBookingIDsPastEndTime", mock.Anything, now).Return(ids, nil)
	repo.On("UpdateBookingStatuses", mock.Anything, ids, db.BookingFinished).Return(nil)

	require.NoError(t, newTestJobService(repo, now).FinishExpiredBookings(context.Background()))
	repo.AssertExpectations(t)
}

func TestFinishExpiredBookingsNothingToDo(t *testing.T) {
	now := time.Now()
	repo := &MockJobRepo{}
	repo.On("GetActiveBookingIDsPastEndTime", mock.Anything, now).Return([]uuid.UUID{}, nil)

	require.NoError(t, newTestJobService(repo, now).FinishExpiredBookings(context.Background()))
	repo.AssertNotCalled(t, "UpdateBookingStatuses", mock.Anything, mock.Anything, mock.Anything)
}

func TestFinishExpiredBookingsPropagatesErrors(t *testing.T) {
	now := time.Now()
	repo := &MockJobRepo{}
	repo.On("GetActiveBookingIDsPastEndTime", mock.Anything, now).Return(nil, errors.New("timeout"))

	err := newTestJobService(repo, now).FinishExpiredBookings(context.Background())
	assert.ErrorContains(t, err, "timeout")
}

func TestDeleteAbandonedCheckoutsExpiresSessions(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &MockJobRepo{}
	repo.On("DeletePendingBookingsOlderThan", mock.Anything, now.Add(-30*time.Minute)).Return([]string{"cs_1", "cs_2", ""}, nil)
	payments := &MockPaymentGateway{}
	payments.On("ExpireCheckoutSession", mock.Anything, "cs_1").Return(nil).Once()
	payments.On("ExpireCheckoutSession", mock.Anything, "cs_2").Return(errors.New("already expired")).Once()

	n, err := newTestJobServiceWith(repo, payments, now).DeleteAbandonedCheckouts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	payments.AssertExpectations(t)
	payments.AssertNumberOfCalls(t, "ExpireCheckoutSession", 2)
}

func TestDeleteAbandonedCheckoutsPropagatesErrors(t *testing.T) {
	now := time.Now()
	repo := &MockJobRepo{}
	repo.On("DeletePendingBookingsOlderThan", mock.Anything, now.Add(-30*time.Minute)).Return(nil, errors.New("timeout"))
	payments := &MockPaymentGateway{}

	_, err := newTestJobServiceWith(repo, payments, now).DeleteAbandonedCheckouts(context.Background())
	assert.ErrorContains(t, err, "timeout")
	payments.AssertNotCalled(t, "ExpireCheckoutSession", mock.Anything, mock.Anything)
}

func TestScheduleRegistersJobs(t *testing.T) {
	c := cron.New()
	require.NoError(t, NewJobService(&MockJobRepo{}, &MockPaymentGateway{}).Schedule(c))
	assert.Len(t, c.Entries(), 2)
}
