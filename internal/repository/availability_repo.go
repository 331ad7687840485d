package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"parkshare/internal/db"
	"parkshare/internal/utils"
)

type AvailabilityRepository struct {
	DB *sql.DB
}

func NewAvailabilityRepository(conn *sql.DB) *AvailabilityRepository {
	return &AvailabilityRepository{DB: conn}
}

const availabilityColumns = `space_id, date, is_available, start_hour, end_hour, is_all_day`

func (r *AvailabilityRepository) GetBySpace(ctx context.Context, spaceID uuid.UUID) ([]db.AvailabilitySlot, error) {
	query := `SELECT ` + availabilityColumns + ` FROM space_availability WHERE space_id = $1 ORDER BY date ASC`
	rows, err := r.DB.QueryContext(ctx, query, spaceID)
	if err != nil {
		return nil, fmt.Errorf("error querying availability for space %s: %w", spaceID, err)
	}
	return scanSlots(rows)
}

// ListAvailableInRange returns available slots with startDate <= date <= endDate.
func (r *AvailabilityRepository) ListAvailableInRange(ctx context.Context, spaceID uuid.UUID, startDate, endDate time.Time) ([]db.AvailabilitySlot, error) {
	query := `SELECT ` + availabilityColumns + ` FROM space_availability
		WHERE space_id = $1 AND date BETWEEN $2 AND $3 AND is_available = true
		ORDER BY date ASC`
	rows, err := r.DB.QueryContext(ctx, query, spaceID, utils.FormatDate(startDate), utils.FormatDate(endDate))
	if err != nil {
		return nil, fmt.Errorf("error querying availability range for space %s: %w", spaceID, err)
	}
	return scanSlots(rows)
}

// Replace deletes every slot of the space and inserts the given ones in a
// single transaction.
func (r *AvailabilityRepository) Replace(ctx context.Context, spaceID uuid.UUID, slots []db.AvailabilitySlot) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting availability transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM space_availability WHERE space_id = $1`, spaceID); err != nil {
		return fmt.Errorf("error deleting availability for space %s: %w", spaceID, err)
	}

	if len(slots) > 0 {
		dates := make([]string, len(slots))
		available := make([]bool, len(slots))
		starts := make([]int64, len(slots))
		ends := make([]int64, len(slots))
		for i, s := range slots {
			dates[i] = utils.FormatDate(s.Date)
			available[i] = s.IsAvailable
			starts[i] = int64(s.StartHour)
			ends[i] = int64(s.EndHour)
		}
		query := `INSERT INTO space_availability (space_id, date, is_available, start_hour, end_hour)
			SELECT $1, d, a, s, e
			FROM unnest($2::date[], $3::boolean[], $4::smallint[], $5::smallint[]) AS t(d, a, s, e)`
		_, err := tx.ExecContext(ctx, query, spaceID, pq.Array(dates), pq.Array(available), pq.Array(starts), pq.Array(ends))
		if err != nil {
			return fmt.Errorf("error inserting availability for space %s: %w", spaceID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing availability for space %s: %w", spaceID, err)
	}
	return nil
}

func scanSlots(rows *sql.Rows) ([]db.AvailabilitySlot, error) {
	defer rows.Close()

	slots := []db.AvailabilitySlot{}
	for rows.Next() {
		var s db.AvailabilitySlot
		if err := rows.Scan(&s.SpaceID, &s.Date, &s.IsAvailable, &s.StartHour, &s.EndHour, &s.AllDay); err != nil {
			return nil, fmt.Errorf("error scanning availability slot: %w", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating availability rows: %w", err)
	}
	return slots, nil
}
