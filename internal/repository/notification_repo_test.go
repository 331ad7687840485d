package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"parkshare/internal/db"
)

func TestNotificationCreateEncodesData(t *testing.T) {
	conn, mock := setupMock(t)
	repo := NewNotificationRepository(conn)
	userID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).
		WithArgs(userID, "booking_confirmed", "Booking confirmed", "See you soon", []byte(`{"booking_id":"b1"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &db.Notification{
		UserID:  userID,
		Type:    "booking_confirmed",
		Title:   "Booking confirmed",
		Message: "See you soon",
		Data:    map[string]interface{}{"booking_id": "b1"},
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationCreateNilData(t *testing.T) {
	conn, mock := setupMock(t)
	repo := NewNotificationRepository(conn)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).
		WithArgs(sqlmock.AnyArg(), "t", "", "", []byte(`{}`)).
		WillReturnError(errors.New("boom"))

	err := repo.Create(context.Background(), &db.Notification{UserID: uuid.New(), Type: "t"})
	assert.Error(t, err)
}
