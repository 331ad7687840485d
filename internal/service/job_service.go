package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"parkshare/internal/db"
	"parkshare/internal/logger"
	"parkshare/internal/metrics"
)

// abandonedCheckoutAge is how long a pending booking may wait for payment.
const abandonedCheckoutAge = 30 * time.Minute

type JobStore interface {
	GetActiveBookingIDsPastEndTime(ctx context.Context, now time.Time) ([]uuid.UUID, error)
	UpdateBookingStatuses(ctx context.Context, ids []uuid.UUID, newStatus string) error
	DeletePendingBookingsOlderThan(ctx context.Context, before time.Time) ([]string, error)
}

type CheckoutExpirer interface {
	ExpireCheckoutSession(ctx context.Context, sessionID string) error
}

type JobService struct {
	Repo      JobStore
	checkouts CheckoutExpirer
	now       func() time.Time
}

func NewJobService(repo JobStore, checkouts CheckoutExpirer) *JobService {
	return &JobService{Repo: repo, checkouts: checkouts, now: time.Now}
}

// FinishExpiredBookings marks active bookings whose end has passed as finished.
func (s *JobService) FinishExpiredBookings(ctx context.Context) error {
	ids, err := s.Repo.GetActiveBookingIDsPastEndTime(ctx, s.now())
	if err != nil {
		return fmt.Errorf("cron job: failed to get active bookings past end time: %w", err)
	}
	if len(ids) == 0 {
		logger.Debug("cron job: no active bookings past their end time")
		return nil
	}

	if err := s.Repo.UpdateBookingStatuses(ctx, ids, db.BookingFinished); err != nil {
		return fmt.Errorf("cron job: failed to update booking statuses: %w", err)
	}
	for range ids {
		metrics.RecordBooking(db.BookingFinished)
	}
	logger.Info("cron job: bookings finished", "count", len(ids))
	return nil
}

// DeleteAbandonedCheckouts removes pending bookings that never got paid and
// closes their checkout sessions.
func (s *JobService) DeleteAbandonedCheckouts(ctx context.Context) (int64, error) {
	sessionIDs, err := s.Repo.DeletePendingBookingsOlderThan(ctx, s.now().Add(-abandonedCheckoutAge))
	if err != nil {
		return 0, fmt.Errorf("cron job: failed to delete abandoned checkouts: %w", err)
	}
	for _, id := range sessionIDs {
		if id == "" {
			continue
		}
		if err := s.checkouts.ExpireCheckoutSession(ctx, id); err != nil {
			logger.WithError(err).Warn("cron job: failed to expire checkout session", "session_id", id)
		}
	}
	n := int64(len(sessionIDs))
	if n > 0 {
		logger.Info("cron job: abandoned checkouts deleted", "count", n)
	}
	return n, nil
}

// Schedule registers both jobs on c.
func (s *JobService) Schedule(c *cron.Cron) error {
	if _, err := c.AddFunc("@every 15m", func() {
		if err := s.FinishExpiredBookings(context.Background()); err != nil {
			logger.WithError(err).Error("finish expired bookings failed")
		}
	}); err != nil {
		return err
	}
	if _, err := c.AddFunc("@hourly", func() {
		if _, err := s.DeleteAbandonedCheckouts(context.Background()); err != nil {
			logger.WithError(err).Error("delete abandoned checkouts failed")
		}
	}); err != nil {
		return err
	}
	return nil
}
