package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatBooked    SeatStatus = "BOOKED"
)

// SeatsPerRow is the cabin layout width, columns A..F.
const SeatsPerRow = 6

// Flight is one materialized occurrence of a scheduled flight. Recurring
// schedules produce one row per travel date, each with its own seat map.
type Flight struct {
	ID             int64
	FlightCode     string
	Carrier        string
	Origin         string
	Destination    string
	DepartureTime  string
	ArrivalTime    string
	TravelDate     time.Time
	SeatCapacity   int
	AvailableSeats int
	Price          decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Seat belongs to exactly one flight instance and references it by id only.
type Seat struct {
	FlightID int64
	Position int
	Label    string
	Status   SeatStatus
}

// SeatLabelAt maps a 1-based seat position to its label, e.g. 7 -> "2A".
func SeatLabelAt(position int) string {
	row := (position-1)/SeatsPerRow + 1
	col := rune('A' + (position-1)%SeatsPerRow)
	return fmt.Sprintf("%d%c", row, col)
}

// BuildSeatMap lays out a fresh all-available seat map for a flight instance.
func BuildSeatMap(flightID int64, capacity int) []Seat {
	seats := make([]Seat, 0, capacity)
	for pos := 1; pos <= capacity; pos++ {
		seats = append(seats, Seat{
			FlightID: flightID,
			Position: pos,
			Label:    SeatLabelAt(pos),
			Status:   SeatAvailable,
		})
	}
	return seats
}

// FlightDetails is the read-only projection handed to payment and
// notification payloads. SeatLabel is empty unless a seat was just claimed.
type FlightDetails struct {
	FlightCode    string
	Carrier       string
	Origin        string
	Destination   string
	DepartureTime string
	ArrivalTime   string
	TravelDate    time.Time
	Price         decimal.Decimal
	SeatLabel     string
}
