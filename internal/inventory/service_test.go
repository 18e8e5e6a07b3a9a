package inventory

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/skyops/flightbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) Delete(ctx context.Context, flightCode string, travelDate time.Time) error {
	args := m.Called(ctx, flightCode, travelDate)
	return args.Error(0)
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) ListAvailable(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByCodeAndDate(ctx context.Context, flightCode string, travelDate time.Time) (*domain.Flight, error) {
	args := m.Called(ctx, flightCode, travelDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) ClaimSeat(ctx context.Context, flightCode string, travelDate time.Time) (string, error) {
	args := m.Called(ctx, flightCode, travelDate)
	return args.String(0), args.Error(1)
}

func (m *MockFlightRepository) ReleaseSeat(ctx context.Context, flightCode string, travelDate time.Time, seatLabel string) error {
	args := m.Called(ctx, flightCode, travelDate, seatLabel)
	return args.Error(0)
}

func (m *MockFlightRepository) CountAvailableSeats(ctx context.Context, flightCode string, travelDate time.Time) (int, error) {
	args := m.Called(ctx, flightCode, travelDate)
	return args.Int(0), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetFlightDetails(ctx context.Context, flightCode string, travelDate time.Time) (*domain.FlightDetails, error) {
	args := m.Called(ctx, flightCode, travelDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightDetails), args.Error(1)
}

func (m *MockCache) SetFlightDetails(ctx context.Context, details *domain.FlightDetails) error {
	args := m.Called(ctx, details)
	return args.Error(0)
}

func (m *MockCache) InvalidateFlights(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

var testDate = time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)

func TestService_IsAvailable(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewService(mockRepo, nil, testLogger())
	ctx := context.Background()

	mockRepo.On("GetByCodeAndDate", ctx, "SK101", testDate).Return(&domain.Flight{AvailableSeats: 3}, nil)

	ok, err := service.IsAvailable(ctx, "SK101", testDate)
	assert.NoError(t, err)
	assert.True(t, ok)

	mockRepo.AssertExpectations(t)
}

func TestService_IsAvailable_FlightNotFound(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewService(mockRepo, nil, testLogger())
	ctx := context.Background()

	mockRepo.On("GetByCodeAndDate", ctx, "SK999", testDate).Return(nil, domain.ErrFlightNotFound)

	_, err := service.IsAvailable(ctx, "SK999", testDate)
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
}

func TestService_ReserveSeat(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewService(mockRepo, mockCache, testLogger())
	ctx := context.Background()

	mockRepo.On("ClaimSeat", ctx, "SK101", testDate).Return("1A", nil)
	mockCache.On("InvalidateFlights", ctx).Return(nil)

	label, err := service.ReserveSeat(ctx, "SK101", testDate)
	assert.NoError(t, err)
	assert.Equal(t, "1A", label)

	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestService_ReserveSeat_NoneLeft(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewService(mockRepo, nil, testLogger())
	ctx := context.Background()

	mockRepo.On("ClaimSeat", ctx, "SK101", testDate).Return("", domain.ErrSeatUnavailable)

	_, err := service.ReserveSeat(ctx, "SK101", testDate)
	assert.ErrorIs(t, err, domain.ErrSeatUnavailable)
}

func TestService_ReleaseSeat_NotBooked(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewService(mockRepo, nil, testLogger())
	ctx := context.Background()

	cancelErr := &domain.SeatCancellationError{SeatLabel: "1A", Reason: "seat is not booked"}
	mockRepo.On("ReleaseSeat", ctx, "SK101", testDate, "1A").Return(cancelErr)

	err := service.ReleaseSeat(ctx, "SK101", testDate, "1A")

	var got *domain.SeatCancellationError
	assert.ErrorAs(t, err, &got)
	assert.Equal(t, "1A", got.SeatLabel)
}

func TestService_CountAvailable(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewService(mockRepo, nil, testLogger())
	ctx := context.Background()

	mockRepo.On("CountAvailableSeats", ctx, "SK101", testDate).Return(4, nil)
	mockRepo.On("GetByCodeAndDate", ctx, "SK101", testDate).Return(&domain.Flight{AvailableSeats: 4}, nil)

	count, err := service.CountAvailable(ctx, "SK101", testDate)
	assert.NoError(t, err)
	assert.Equal(t, 4, count)

	mockRepo.AssertExpectations(t)
}

func TestService_CountAvailable_CounterDrift(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewService(mockRepo, nil, testLogger())
	ctx := context.Background()

	// The recount wins over a counter that has drifted.
	mockRepo.On("CountAvailableSeats", ctx, "SK101", testDate).Return(3, nil)
	mockRepo.On("GetByCodeAndDate", ctx, "SK101", testDate).Return(&domain.Flight{AvailableSeats: 5}, nil)

	count, err := service.CountAvailable(ctx, "SK101", testDate)
	assert.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestService_GetDetails_CacheMiss(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewService(mockRepo, mockCache, testLogger())
	ctx := context.Background()

	flight := &domain.Flight{
		FlightCode:    "SK101",
		Carrier:       "SkyOps Air",
		Origin:        "OSL",
		Destination:   "CDG",
		DepartureTime: "08:30",
		ArrivalTime:   "11:05",
		TravelDate:    testDate,
		Price:         decimal.NewFromInt(120),
	}

	mockCache.On("GetFlightDetails", ctx, "SK101", testDate).Return(nil, nil)
	mockRepo.On("GetByCodeAndDate", ctx, "SK101", testDate).Return(flight, nil)
	mockCache.On("SetFlightDetails", ctx, mock.AnythingOfType("*domain.FlightDetails")).Return(nil)

	details, err := service.GetDetails(ctx, "SK101", testDate)
	assert.NoError(t, err)
	assert.Equal(t, "SkyOps Air", details.Carrier)
	assert.Equal(t, "", details.SeatLabel)

	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestService_GetDetails_CacheHit(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewService(mockRepo, mockCache, testLogger())
	ctx := context.Background()

	cached := &domain.FlightDetails{FlightCode: "SK101", Carrier: "SkyOps Air", TravelDate: testDate}
	mockCache.On("GetFlightDetails", ctx, "SK101", testDate).Return(cached, nil)

	details, err := service.GetDetails(ctx, "SK101", testDate)
	assert.NoError(t, err)
	assert.Equal(t, cached, details)

	mockRepo.AssertNotCalled(t, "GetByCodeAndDate")
}
