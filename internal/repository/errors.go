package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrBookingConflict = errors.New("booking overlaps an existing booking")
	// ErrStateChanged means a conditional update found the booking in
	// another state than the one it expected.
	ErrStateChanged = errors.New("booking state changed")
)

const pqExclusionViolation = "23P01"

func isPQCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}
