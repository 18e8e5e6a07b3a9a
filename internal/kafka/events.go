package kafka

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingEvent is the audit event published to the booking-events topic on
// every saga outcome.
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  int64     `json:"booking_id"`
	FlightCode string    `json:"flight_code"`
	TravelDate time.Time `json:"travel_date"`
	Email      string    `json:"email"`
	Status     string    `json:"status"`
	SeatLabel  string    `json:"seat_label,omitempty"`
}

// BookingNotice is the full notification payload consumed by the worker and
// handed to the email sender.
type BookingNotice struct {
	RecipientEmail string          `json:"recipient_email"`
	PassengerName  string          `json:"passenger_name"`
	BookingID      int64           `json:"booking_id"`
	FlightCode     string          `json:"flight_code"`
	Origin         string          `json:"origin"`
	Destination    string          `json:"destination"`
	DepartureTime  string          `json:"departure_time"`
	ArrivalTime    string          `json:"arrival_time"`
	TravelDate     time.Time       `json:"travel_date"`
	BookedOn       time.Time       `json:"booked_on"`
	SeatLabel      string          `json:"seat_label"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	BookingStatus  string          `json:"booking_status"`
}
