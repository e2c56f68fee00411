package domain

import "errors"

var (
	ErrValidation           = errors.New("validation failed")
	ErrFlightNotFound       = errors.New("flight not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	ErrInvalidState         = errors.New("booking state does not allow this operation")
	ErrHoldExpired          = errors.New("hold expired")
	// ErrOverRelease means a release would push remaining capacity above
	// the flight's total. That is always a caller bug, never absorbed.
	ErrOverRelease = errors.New("release exceeds total capacity")
)
