package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusFailed    BookingStatus = "FAILED"
	BookingStatusCanceled  BookingStatus = "CANCELED"
)

// Booking is the durable ledger record of a booking attempt. Entries are
// never deleted, only transitioned; they are the audit trail of the saga.
type Booking struct {
	ID             int64
	Email          string
	PassengerName  string
	FlightCode     string
	TravelDate     time.Time
	BookedOn       time.Time
	Status         BookingStatus
	SeatLabel      string
	IdempotencyKey string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
