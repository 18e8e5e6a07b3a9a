package flights

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/skyops/flightbooking/internal/domain"
	"github.com/skyops/flightbooking/internal/repository"
	"github.com/skyops/flightbooking/internal/schedule"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	ListAvailable(ctx context.Context) ([]domain.Flight, error)
	ScheduleFlights(ctx context.Context, template FlightTemplate, spec domain.ScheduleSpec) (int, error)
	UpdateFlight(ctx context.Context, flightCode string, travelDate time.Time, template FlightTemplate) (*domain.Flight, error)
	DeleteFlight(ctx context.Context, flightCode string, travelDate time.Time) error
}

type Cache interface {
	GetFlights(ctx context.Context, key string) ([]domain.Flight, error)
	SetFlights(ctx context.Context, key string, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

// FlightTemplate carries everything about a flight except its travel dates;
// the schedule spec supplies those.
type FlightTemplate struct {
	FlightCode    string
	Carrier       string
	Origin        string
	Destination   string
	DepartureTime string
	ArrivalTime   string
	SeatCapacity  int
	Price         decimal.Decimal
}

type FlightService struct {
	repo  repository.FlightRepository
	cache Cache
	log   *logrus.Logger
}

func NewFlightService(repo repository.FlightRepository, cache Cache, log *logrus.Logger) *FlightService {
	return &FlightService{repo: repo, cache: cache, log: log}
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	return s.list(ctx, "all", s.repo.List)
}

func (s *FlightService) ListAvailable(ctx context.Context) ([]domain.Flight, error) {
	return s.list(ctx, "available", s.repo.ListAvailable)
}

func (s *FlightService) list(ctx context.Context, key string, fetch func(context.Context) ([]domain.Flight, error)) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx, key); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(flights) == 0 {
		return nil, domain.ErrNoFlightsAvailable
	}
	if s.cache != nil {
		_ = s.cache.SetFlights(ctx, key, flights)
	}
	return flights, nil
}

// ScheduleFlights materializes one flight instance per date of the
// recurrence, each with its own fresh seat map. Instances never share seat
// state. Expansion stops at the first date that is already scheduled; rows
// created before it are kept and the count is returned with the error.
func (s *FlightService) ScheduleFlights(ctx context.Context, template FlightTemplate, spec domain.ScheduleSpec) (int, error) {
	dates, err := schedule.Expand(spec)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, travelDate := range dates {
		flight := &domain.Flight{
			FlightCode:    template.FlightCode,
			Carrier:       template.Carrier,
			Origin:        template.Origin,
			Destination:   template.Destination,
			DepartureTime: template.DepartureTime,
			ArrivalTime:   template.ArrivalTime,
			TravelDate:    travelDate,
			SeatCapacity:  template.SeatCapacity,
			Price:         template.Price,
		}
		if err := s.repo.Create(ctx, flight); err != nil {
			return created, err
		}
		created++

		s.log.WithFields(logrus.Fields{
			"flight_code": flight.FlightCode,
			"travel_date": travelDate.Format(time.DateOnly),
			"capacity":    flight.SeatCapacity,
		}).Info("flight instance materialized")
	}

	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
	return created, nil
}

// UpdateFlight rewrites the carrier, route, times and price of one flight
// instance. Capacity is not updatable: the seat map is fixed at creation.
func (s *FlightService) UpdateFlight(ctx context.Context, flightCode string, travelDate time.Time, template FlightTemplate) (*domain.Flight, error) {
	flight := &domain.Flight{
		FlightCode:    flightCode,
		TravelDate:    travelDate,
		Carrier:       template.Carrier,
		Origin:        template.Origin,
		Destination:   template.Destination,
		DepartureTime: template.DepartureTime,
		ArrivalTime:   template.ArrivalTime,
		Price:         template.Price,
	}
	if err := s.repo.Update(ctx, flight); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"flight_code": flightCode,
		"travel_date": travelDate.Format(time.DateOnly),
	}).Info("flight instance updated")

	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
	return flight, nil
}

// DeleteFlight removes an instance that has no booked seats. Instances with
// bookings are refused with ErrFlightHasBookings; cancel the bookings first.
func (s *FlightService) DeleteFlight(ctx context.Context, flightCode string, travelDate time.Time) error {
	if err := s.repo.Delete(ctx, flightCode, travelDate); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"flight_code": flightCode,
		"travel_date": travelDate.Format(time.DateOnly),
	}).Info("flight instance deleted")

	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
	return nil
}

var _ FlightUseCase = (*FlightService)(nil)
