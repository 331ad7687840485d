package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"parkshare/internal/logger"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(conn *sql.DB) *JobRepository {
	return &JobRepository{DB: conn}
}

// GetActiveBookingIDsPastEndTime returns active bookings whose end already passed.
func (r *JobRepository) GetActiveBookingIDsPastEndTime(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	query := `SELECT id FROM bookings WHERE status = 'active' AND end_at < $1`
	rows, err := r.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("error querying active bookings past end time: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning booking ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

func (r *JobRepository) UpdateBookingStatuses(ctx context.Context, ids []uuid.UUID, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = ANY($2::uuid[])`
	result, err := r.DB.ExecContext(ctx, query, newStatus, pq.Array(strIDs))
	if err != nil {
		return fmt.Errorf("error updating booking statuses: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		logger.WithError(err).Warn("could not get rows affected")
	} else {
		logger.Info("updated booking statuses", "count", rowsAffected, "status", newStatus)
	}
	return nil
}

// DeletePendingBookingsOlderThan removes abandoned checkouts and returns the
// Stripe sessions they were waiting on.
func (r *JobRepository) DeletePendingBookingsOlderThan(ctx context.Context, before time.Time) ([]string, error) {
	query := `
		DELETE FROM bookings
		WHERE status = 'pending' AND payment_status = 'pending' AND created_at < $1
		RETURNING COALESCE(stripe_session_id, '')`
	rows, err := r.DB.QueryContext(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("error deleting stale pending bookings: %w", err)
	}
	defer rows.Close()

	var sessionIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning session ID: %w", err)
		}
		sessionIDs = append(sessionIDs, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return sessionIDs, nil
}
