package service

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrUnavailable         = errors.New("space is not available for the requested period")
	ErrVehicleIncompatible = errors.New("vehicle does not fit the space")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidState        = errors.New("booking is not in a valid state for this operation")
	ErrCancelWindowClosed  = errors.New("bookings can only be canceled more than 12 hours before the start time")
)
