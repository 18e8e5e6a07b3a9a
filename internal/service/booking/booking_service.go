package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/skyops/flightbooking/internal/domain"
	"github.com/skyops/flightbooking/internal/integrations/payment"
	"github.com/skyops/flightbooking/internal/kafka"
	"github.com/skyops/flightbooking/internal/monitoring"
	"github.com/skyops/flightbooking/internal/repository"
)

type BookingUseCase interface {
	BookFlight(ctx context.Context, input BookRequest) (*PaymentOutcome, error)
	CancelBooking(ctx context.Context, bookingID int64) error
	ConfirmBooking(ctx context.Context, bookingID int64, seatLabel string) error
	GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)
	ListByPassenger(ctx context.Context, email string) ([]domain.Booking, error)
}

type Inventory interface {
	IsAvailable(ctx context.Context, flightCode string, travelDate time.Time) (bool, error)
	ReserveSeat(ctx context.Context, flightCode string, travelDate time.Time) (string, error)
	ReleaseSeat(ctx context.Context, flightCode string, travelDate time.Time, seatLabel string) error
	GetDetails(ctx context.Context, flightCode string, travelDate time.Time) (*domain.FlightDetails, error)
}

type PaymentGateway interface {
	Charge(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResponse, error)
}

type Notifier interface {
	Notify(ctx context.Context, notice kafka.BookingNotice) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookRequest struct {
	Email          string    `json:"email"`
	PassengerName  string    `json:"passenger_name"`
	FlightCode     string    `json:"flight_code"`
	TravelDate     time.Time `json:"travel_date"`
	IdempotencyKey string    `json:"idempotency_key,omitempty"`
}

type PaymentOutcome struct {
	BookingID int64           `json:"booking_id"`
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	SessionID string          `json:"session_id,omitempty"`
	SeatLabel string          `json:"seat_label"`
	Amount    decimal.Decimal `json:"amount"`
}

// compensation is one committed saga step's inverse. On failure the
// orchestrator runs the accumulated list in reverse before surfacing the
// error; no layer below it attempts its own rollback.
type compensation struct {
	name string
	undo func(ctx context.Context) error
}

type BookingService struct {
	ledger      repository.BookingRepository
	inventory   Inventory
	payments    PaymentGateway
	notifier    Notifier
	producer    Producer
	eventsTopic string
	currency    string
	callTimeout time.Duration
	log         *logrus.Logger
}

type BookingServiceOption func(*BookingService)

func WithEventsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.eventsTopic = topic
	}
}

func WithCurrency(currency string) BookingServiceOption {
	return func(s *BookingService) {
		s.currency = currency
	}
}

func NewBookingService(
	ledger repository.BookingRepository,
	inventory Inventory,
	payments PaymentGateway,
	notifier Notifier,
	producer Producer,
	callTimeout time.Duration,
	log *logrus.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		ledger:      ledger,
		inventory:   inventory,
		payments:    payments,
		notifier:    notifier,
		producer:    producer,
		currency:    "usd",
		callTimeout: callTimeout,
		log:         log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// BookFlight drives the reservation -> payment -> confirmation saga. Each
// committed step pushes its inverse onto a compensation list; any later
// failure unwinds the list in reverse, marks the ledger entry FAILED and
// returns an error that preserves the underlying cause.
func (s *BookingService) BookFlight(ctx context.Context, input BookRequest) (*PaymentOutcome, error) {
	if input.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if input.FlightCode == "" {
		return nil, fmt.Errorf("flight code is required")
	}

	started := time.Now()
	defer func() { monitoring.ObserveSagaDuration(time.Since(started)) }()

	// A replayed idempotency key returns the original outcome instead of
	// re-running the saga. This runs before the availability check: a retry
	// after the flight sold out must still see its own earlier result.
	if input.IdempotencyKey != "" {
		if prior, err := s.ledger.GetByIdempotencyKey(ctx, input.IdempotencyKey); err == nil {
			s.log.WithFields(logrus.Fields{
				"booking_id":      prior.ID,
				"idempotency_key": input.IdempotencyKey,
			}).Info("replaying booking outcome for duplicate request")
			return s.outcomeFor(prior), nil
		}
	}

	// Fast fail before any ledger write.
	available, err := s.inventory.IsAvailable(ctx, input.FlightCode, input.TravelDate)
	if err != nil {
		return nil, err
	}
	if !available {
		monitoring.BookingAttempt("rejected")
		return nil, domain.ErrSeatUnavailable
	}

	idempotencyKey := input.IdempotencyKey
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	entry := &domain.Booking{
		Email:          input.Email,
		PassengerName:  input.PassengerName,
		FlightCode:     input.FlightCode,
		TravelDate:     input.TravelDate,
		BookedOn:       time.Now().UTC(),
		IdempotencyKey: idempotencyKey,
	}
	if err := s.ledger.CreatePending(ctx, entry); err != nil {
		// Losing the insert race on the idempotency key means another
		// request with the same key already started; hand back its outcome.
		if errors.Is(err, domain.ErrDuplicateBooking) {
			if prior, lookupErr := s.ledger.GetByIdempotencyKey(ctx, idempotencyKey); lookupErr == nil {
				return s.outcomeFor(prior), nil
			}
		}
		return nil, fmt.Errorf("create pending booking: %w", err)
	}

	var compensations []compensation

	seatLabel, err := s.reserveSeat(ctx, input)
	if err != nil {
		return nil, s.failSaga(ctx, entry, compensations, err)
	}
	compensations = append(compensations, compensation{
		name: "release seat",
		undo: func(ctx context.Context) error {
			return s.inventory.ReleaseSeat(ctx, input.FlightCode, input.TravelDate, seatLabel)
		},
	})

	details, err := s.inventory.GetDetails(ctx, input.FlightCode, input.TravelDate)
	if err != nil {
		return nil, s.failSaga(ctx, entry, compensations, err)
	}

	chargeResp, err := s.charge(ctx, entry, details, seatLabel)
	if err != nil {
		return nil, s.failSaga(ctx, entry, compensations, err)
	}

	confirmed, err := s.ledger.Confirm(ctx, entry.ID, seatLabel)
	if err != nil {
		return nil, s.failSaga(ctx, entry, compensations, fmt.Errorf("confirm booking: %w", err))
	}

	s.sendNotice(ctx, confirmed, details, seatLabel)
	s.publishEvent(ctx, "booking_confirmed", confirmed)
	monitoring.BookingAttempt("confirmed")

	s.log.WithFields(logrus.Fields{
		"booking_id":  confirmed.ID,
		"flight_code": confirmed.FlightCode,
		"seat_label":  seatLabel,
	}).Info("booking confirmed")

	return &PaymentOutcome{
		BookingID: confirmed.ID,
		Status:    chargeResp.Status,
		Message:   chargeResp.Message,
		SessionID: chargeResp.SessionID,
		SeatLabel: seatLabel,
		Amount:    details.Price,
	}, nil
}

func (s *BookingService) reserveSeat(ctx context.Context, input BookRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return s.inventory.ReserveSeat(ctx, input.FlightCode, input.TravelDate)
}

func (s *BookingService) charge(ctx context.Context, entry *domain.Booking, details *domain.FlightDetails, seatLabel string) (*payment.ChargeResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	resp, err := s.payments.Charge(callCtx, payment.ChargeRequest{
		BookingID:  strconv.FormatInt(entry.ID, 10),
		Amount:     details.Price,
		Currency:   s.currency,
		SeatLabel:  seatLabel,
		FlightCode: entry.FlightCode,
		UserID:     entry.Email,
	})
	if err != nil {
		monitoring.PaymentRequest("error")
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
	}
	monitoring.PaymentRequest(resp.Status)
	if resp.Status != payment.StatusSuccess {
		return nil, fmt.Errorf("%w: %s", domain.ErrPaymentFailed, resp.Message)
	}
	return resp, nil
}

// failSaga unwinds committed steps in reverse order, records the terminal
// FAILED status and wraps the cause for the caller. Compensation failures are
// logged, never masked over the original error.
func (s *BookingService) failSaga(ctx context.Context, entry *domain.Booking, compensations []compensation, cause error) error {
	for i := len(compensations) - 1; i >= 0; i-- {
		step := compensations[i]
		if err := step.undo(ctx); err != nil {
			s.log.WithFields(logrus.Fields{
				"booking_id": entry.ID,
				"step":       step.name,
			}).WithError(err).Error("compensation failed")
		}
	}

	if _, err := s.ledger.UpdateStatus(ctx, entry.ID, domain.BookingStatusFailed); err != nil {
		s.log.WithField("booking_id", entry.ID).WithError(err).Error("failed to mark booking FAILED")
	}
	entry.Status = domain.BookingStatusFailed
	s.publishEvent(ctx, "booking_failed", entry)
	monitoring.BookingAttempt("failed")

	return fmt.Errorf("booking failed: %w", cause)
}

// CancelBooking transitions a confirmed booking to CANCELED, then releases
// the seat and notifies the passenger. The ledger write comes first by
// policy: if release or notification fails the entry already reads CANCELED
// and the side effects are retried out of band, not rolled back.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID int64) error {
	current, err := s.ledger.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if current.Status == domain.BookingStatusCanceled {
		return nil
	}
	if current.Status != domain.BookingStatusConfirmed {
		return fmt.Errorf("booking %d is %s, only confirmed bookings can be canceled", bookingID, current.Status)
	}

	canceled, err := s.ledger.UpdateStatus(ctx, bookingID, domain.BookingStatusCanceled)
	if err != nil {
		return err
	}

	if err := s.inventory.ReleaseSeat(ctx, canceled.FlightCode, canceled.TravelDate, canceled.SeatLabel); err != nil {
		s.log.WithField("booking_id", bookingID).WithError(err).Error("seat release after cancel failed")
	}

	details, err := s.inventory.GetDetails(ctx, canceled.FlightCode, canceled.TravelDate)
	if err != nil {
		s.log.WithField("booking_id", bookingID).WithError(err).Error("flight details lookup after cancel failed")
	} else {
		s.sendNotice(ctx, canceled, details, canceled.SeatLabel)
	}

	s.publishEvent(ctx, "booking_canceled", canceled)
	monitoring.BookingAttempt("canceled")
	return nil
}

// ConfirmBooking is the idempotent finalize step: it attaches the seat label
// and sets CONFIRMED on an existing ledger entry.
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID int64, seatLabel string) error {
	confirmed, err := s.ledger.Confirm(ctx, bookingID, seatLabel)
	if err != nil {
		return err
	}
	s.publishEvent(ctx, "booking_confirmed", confirmed)
	return nil
}

func (s *BookingService) GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return s.ledger.GetByID(ctx, bookingID)
}

func (s *BookingService) ListByPassenger(ctx context.Context, email string) ([]domain.Booking, error) {
	return s.ledger.ListByEmail(ctx, email)
}

func (s *BookingService) outcomeFor(b *domain.Booking) *PaymentOutcome {
	return &PaymentOutcome{
		BookingID: b.ID,
		Status:    string(b.Status),
		Message:   "duplicate request, returning original outcome",
		SeatLabel: b.SeatLabel,
	}
}

func (s *BookingService) sendNotice(ctx context.Context, b *domain.Booking, details *domain.FlightDetails, seatLabel string) {
	if s.notifier == nil {
		return
	}
	notice := kafka.BookingNotice{
		RecipientEmail: b.Email,
		PassengerName:  b.PassengerName,
		BookingID:      b.ID,
		FlightCode:     b.FlightCode,
		Origin:         details.Origin,
		Destination:    details.Destination,
		DepartureTime:  details.DepartureTime,
		ArrivalTime:    details.ArrivalTime,
		TravelDate:     b.TravelDate,
		BookedOn:       b.BookedOn,
		SeatLabel:      seatLabel,
		AmountPaid:     details.Price,
		BookingStatus:  string(b.Status),
	}
	if err := s.notifier.Notify(ctx, notice); err != nil {
		s.log.WithField("booking_id", b.ID).WithError(err).Warn("notification dispatch failed")
	}
}

func (s *BookingService) publishEvent(ctx context.Context, eventType string, b *domain.Booking) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:       eventType,
		BookingID:  b.ID,
		FlightCode: b.FlightCode,
		TravelDate: b.TravelDate,
		Email:      b.Email,
		Status:     string(b.Status),
		SeatLabel:  b.SeatLabel,
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, strconv.FormatInt(b.ID, 10), event); err != nil {
		s.log.WithField("booking_id", b.ID).WithError(err).Warn("booking event publish failed")
	}
}

var _ BookingUseCase = (*BookingService)(nil)
