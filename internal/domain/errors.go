package domain

import (
	"errors"
	"fmt"
)

var (
	ErrFlightNotFound         = errors.New("flight not found")
	ErrSeatUnavailable        = errors.New("no seats available")
	ErrPaymentFailed          = errors.New("payment failed")
	ErrBookingNotFound        = errors.New("booking not found")
	ErrDuplicateBooking       = errors.New("duplicate booking request")
	ErrAuthorization          = errors.New("authorization header not found")
	ErrNoFlightsAvailable     = errors.New("no flights available")
	ErrFlightAlreadyScheduled = errors.New("flight already scheduled for this date")
	ErrFlightHasBookings      = errors.New("flight has booked seats")
)

// SeatCancellationError reports a release attempt on a seat that is either
// unknown on the flight instance or not currently booked.
type SeatCancellationError struct {
	SeatLabel string
	Reason    string
}

func (e *SeatCancellationError) Error() string {
	return fmt.Sprintf("cannot release seat %s: %s", e.SeatLabel, e.Reason)
}
