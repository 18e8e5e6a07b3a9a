package inventory

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/skyops/flightbooking/internal/domain"
	"github.com/skyops/flightbooking/internal/monitoring"
	"github.com/skyops/flightbooking/internal/repository"
)

// Manager is the seat-inventory contract consumed by the saga orchestrator.
type Manager interface {
	IsAvailable(ctx context.Context, flightCode string, travelDate time.Time) (bool, error)
	ReserveSeat(ctx context.Context, flightCode string, travelDate time.Time) (string, error)
	ReleaseSeat(ctx context.Context, flightCode string, travelDate time.Time, seatLabel string) error
	GetDetails(ctx context.Context, flightCode string, travelDate time.Time) (*domain.FlightDetails, error)
	CountAvailable(ctx context.Context, flightCode string, travelDate time.Time) (int, error)
}

type Cache interface {
	GetFlightDetails(ctx context.Context, flightCode string, travelDate time.Time) (*domain.FlightDetails, error)
	SetFlightDetails(ctx context.Context, details *domain.FlightDetails) error
	InvalidateFlights(ctx context.Context) error
}

type Service struct {
	flights repository.FlightRepository
	cache   Cache
	log     *logrus.Logger
}

func NewService(flights repository.FlightRepository, cache Cache, log *logrus.Logger) *Service {
	return &Service{flights: flights, cache: cache, log: log}
}

func (s *Service) IsAvailable(ctx context.Context, flightCode string, travelDate time.Time) (bool, error) {
	flight, err := s.flights.GetByCodeAndDate(ctx, flightCode, travelDate)
	if err != nil {
		return false, err
	}
	return flight.AvailableSeats > 0, nil
}

// ReserveSeat claims the first available seat. The claim and the counter
// decrement happen in one storage transaction, so concurrent callers can
// never be handed the same label.
func (s *Service) ReserveSeat(ctx context.Context, flightCode string, travelDate time.Time) (string, error) {
	label, err := s.flights.ClaimSeat(ctx, flightCode, travelDate)
	if err != nil {
		monitoring.SeatOperation("reserve", "error")
		return "", err
	}
	monitoring.SeatOperation("reserve", "ok")

	s.log.WithFields(logrus.Fields{
		"flight_code": flightCode,
		"travel_date": travelDate.Format("2006-01-02"),
		"seat_label":  label,
	}).Info("seat reserved")

	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
	return label, nil
}

func (s *Service) ReleaseSeat(ctx context.Context, flightCode string, travelDate time.Time, seatLabel string) error {
	if err := s.flights.ReleaseSeat(ctx, flightCode, travelDate, seatLabel); err != nil {
		monitoring.SeatOperation("release", "error")
		return err
	}
	monitoring.SeatOperation("release", "ok")

	s.log.WithFields(logrus.Fields{
		"flight_code": flightCode,
		"travel_date": travelDate.Format("2006-01-02"),
		"seat_label":  seatLabel,
	}).Info("seat released")

	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
	return nil
}

// CountAvailable recounts free seats from the seat rows themselves rather
// than trusting the flight counter. The two must agree; a mismatch means a
// claim or release escaped its transaction and is logged loudly.
func (s *Service) CountAvailable(ctx context.Context, flightCode string, travelDate time.Time) (int, error) {
	count, err := s.flights.CountAvailableSeats(ctx, flightCode, travelDate)
	if err != nil {
		return 0, err
	}

	flight, err := s.flights.GetByCodeAndDate(ctx, flightCode, travelDate)
	if err != nil {
		return 0, err
	}
	if flight.AvailableSeats != count {
		s.log.WithFields(logrus.Fields{
			"flight_code": flightCode,
			"travel_date": travelDate.Format("2006-01-02"),
			"counter":     flight.AvailableSeats,
			"recount":     count,
		}).Error("available seat counter out of sync with seat rows")
	}
	return count, nil
}

// GetDetails returns the read-only flight snapshot used to build payment and
// notification payloads. No seat is assigned here.
func (s *Service) GetDetails(ctx context.Context, flightCode string, travelDate time.Time) (*domain.FlightDetails, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlightDetails(ctx, flightCode, travelDate); err == nil && cached != nil {
			return cached, nil
		}
	}

	flight, err := s.flights.GetByCodeAndDate(ctx, flightCode, travelDate)
	if err != nil {
		return nil, err
	}

	details := &domain.FlightDetails{
		FlightCode:    flight.FlightCode,
		Carrier:       flight.Carrier,
		Origin:        flight.Origin,
		Destination:   flight.Destination,
		DepartureTime: flight.DepartureTime,
		ArrivalTime:   flight.ArrivalTime,
		TravelDate:    flight.TravelDate,
		Price:         flight.Price,
	}
	if s.cache != nil {
		_ = s.cache.SetFlightDetails(ctx, details)
	}
	return details, nil
}

var _ Manager = (*Service)(nil)
