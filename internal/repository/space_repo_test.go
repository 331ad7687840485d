package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSpaceWithNullDimensions(t *testing.T) {
	conn, mock := setupMock(t)
	repo := NewSpaceRepository(conn)
	id, owner := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM spaces WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "owner_id", "title", "length_cm", "width_cm", "height_cm", "max_weight_kg",
			"hourly_price", "daily_price", "minimum_duration_hours", "maximum_duration_hours", "is_active",
		}).AddRow(id.String(), owner.String(), "Garage", 480, nil, nil, 2000, "2.50", "8.00", 1, 72, true))

	s, err := repo.GetSpace(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, owner, s.OwnerID)
	require.NotNil(t, s.LengthCM)
	assert.Equal(t, 480, *s.LengthCM)
	assert.Nil(t, s.WidthCM)
	assert.Nil(t, s.HeightCM)
	assert.Equal(t, 2000, *s.MaxWeightKG)
	assert.InDelta(t, 2.50, s.HourlyPrice, 1e-9)
	assert.Equal(t, 72, s.MaximumDurationHours)
}

func TestGetSpaceNotFound(t *testing.T) {
	conn, mock := setupMock(t)
	repo := NewSpaceRepository(conn)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM spaces WHERE id = $1")).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetSpace(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetVehicle(t *testing.T) {
	conn, mock := setupMock(t)
	repo := NewSpaceRepository(conn)
	id, owner := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM vehicles WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "license_plate", "length_cm", "width_cm", "height_cm", "weight_kg"}).
			AddRow(id.String(), owner.String(), "AB123CD", 450, 180, nil, nil))

	v, err := repo.GetVehicle(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "AB123CD", v.LicensePlate)
	assert.Equal(t, 180, *v.WidthCM)
	assert.Nil(t, v.WeightKG)
}

func TestGetProfileNotFound(t *testing.T) {
	conn, mock := setupMock(t)
	repo := NewSpaceRepository(conn)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles WHERE id = $1")).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetProfile(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}
