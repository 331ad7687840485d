package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"parkshare/internal/db"
)

// SpaceRepository reads listing, vehicle and profile records. Owners edit
// these through the hosted database directly; nothing here writes them.
type SpaceRepository struct {
	DB *sql.DB
}

func NewSpaceRepository(conn *sql.DB) *SpaceRepository {
	return &SpaceRepository{DB: conn}
}

func (r *SpaceRepository) GetSpace(ctx context.Context, id uuid.UUID) (*db.Space, error) {
	query := `
		SELECT id, owner_id, title, length_cm, width_cm, height_cm, max_weight_kg,
			hourly_price, daily_price, minimum_duration_hours, maximum_duration_hours, is_active
		FROM spaces WHERE id = $1`

	var s db.Space
	var length, width, height, weight sql.NullInt64
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.OwnerID, &s.Title, &length, &width, &height, &weight,
		&s.HourlyPrice, &s.DailyPrice, &s.MinimumDurationHours, &s.MaximumDurationHours, &s.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("space %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("error querying space %s: %w", id, err)
	}
	s.LengthCM = nullableInt(length)
	s.WidthCM = nullableInt(width)
	s.HeightCM = nullableInt(height)
	s.MaxWeightKG = nullableInt(weight)
	return &s, nil
}

func (r *SpaceRepository) GetVehicle(ctx context.Context, id uuid.UUID) (*db.Vehicle, error) {
	query := `SELECT id, owner_id, license_plate, length_cm, width_cm, height_cm, weight_kg FROM vehicles WHERE id = $1`

	var v db.Vehicle
	var length, width, height, weight sql.NullInt64
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.OwnerID, &v.LicensePlate, &length, &width, &height, &weight)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("error querying vehicle %s: %w", id, err)
	}
	v.LengthCM = nullableInt(length)
	v.WidthCM = nullableInt(width)
	v.HeightCM = nullableInt(height)
	v.WeightKG = nullableInt(weight)
	return &v, nil
}

func (r *SpaceRepository) GetProfile(ctx context.Context, id uuid.UUID) (*db.Profile, error) {
	query := `SELECT id, full_name, email, phone, language FROM profiles WHERE id = $1`

	var p db.Profile
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.FullName, &p.Email, &p.Phone, &p.Language)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("error querying profile %s: %w", id, err)
	}
	return &p, nil
}

func nullableInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
