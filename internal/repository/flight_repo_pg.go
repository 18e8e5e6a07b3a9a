package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skyops/flightbooking/internal/domain"
)

type FlightRepository interface {
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, flightCode string, travelDate time.Time) error
	List(ctx context.Context) ([]domain.Flight, error)
	ListAvailable(ctx context.Context) ([]domain.Flight, error)
	GetByCodeAndDate(ctx context.Context, flightCode string, travelDate time.Time) (*domain.Flight, error)
	ClaimSeat(ctx context.Context, flightCode string, travelDate time.Time) (string, error)
	ReleaseSeat(ctx context.Context, flightCode string, travelDate time.Time, seatLabel string) error
	CountAvailableSeats(ctx context.Context, flightCode string, travelDate time.Time) (int, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_code, carrier, origin, destination, departure_time, arrival_time, travel_date, seat_capacity, available_seats, price, created_at, updated_at`

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.FlightCode, &f.Carrier, &f.Origin, &f.Destination, &f.DepartureTime, &f.ArrivalTime, &f.TravelDate, &f.SeatCapacity, &f.AvailableSeats, &f.Price, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserts the flight instance together with its freshly generated seat
// map in one transaction. A (flight_code, travel_date) pair can only be
// materialized once; the unique index turns a repeat into ErrFlightAlreadyScheduled.
func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	flight.AvailableSeats = flight.SeatCapacity
	if err := tx.QueryRow(ctx, `INSERT INTO flights (flight_code, carrier, origin, destination, departure_time, arrival_time, travel_date, seat_capacity, available_seats, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		flight.FlightCode, flight.Carrier, flight.Origin, flight.Destination, flight.DepartureTime, flight.ArrivalTime, flight.TravelDate, flight.SeatCapacity, flight.AvailableSeats, flight.Price).
		Scan(&flight.ID, &flight.CreatedAt, &flight.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrFlightAlreadyScheduled
		}
		return err
	}

	rows := make([][]interface{}, 0, flight.SeatCapacity)
	for _, seat := range domain.BuildSeatMap(flight.ID, flight.SeatCapacity) {
		rows = append(rows, []interface{}{seat.FlightID, seat.Position, seat.Label, string(seat.Status)})
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"seats"}, []string{"flight_id", "position", "label", "status"}, pgx.CopyFromRows(rows)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Update rewrites the mutable flight fields. The seat map is fixed at
// creation, so capacity and travel date are not touched here.
func (r *PGFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	row := r.db.QueryRow(ctx, `UPDATE flights
		SET carrier=$3, origin=$4, destination=$5, departure_time=$6, arrival_time=$7, price=$8, updated_at=now()
		WHERE flight_code=$1 AND travel_date=$2
		RETURNING id, seat_capacity, available_seats, created_at, updated_at`,
		flight.FlightCode, flight.TravelDate, flight.Carrier, flight.Origin, flight.Destination, flight.DepartureTime, flight.ArrivalTime, flight.Price)
	if err := row.Scan(&flight.ID, &flight.SeatCapacity, &flight.AvailableSeats, &flight.CreatedAt, &flight.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrFlightNotFound
		}
		return err
	}
	return nil
}

// Delete removes a flight instance and its seat map, but only while no seat
// is booked: a booked seat means a booking references this instance.
func (r *PGFlightRepository) Delete(ctx context.Context, flightCode string, travelDate time.Time) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var flightID int64
	if err := tx.QueryRow(ctx, `SELECT id FROM flights WHERE flight_code=$1 AND travel_date=$2 FOR UPDATE`, flightCode, travelDate).Scan(&flightID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrFlightNotFound
		}
		return err
	}

	var booked bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM seats WHERE flight_id=$1 AND status='BOOKED')`, flightID).Scan(&booked); err != nil {
		return err
	}
	if booked {
		return domain.ErrFlightHasBookings
	}

	if _, err := tx.Exec(ctx, `DELETE FROM flights WHERE id=$1`, flightID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	return r.list(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY travel_date, flight_code`)
}

func (r *PGFlightRepository) ListAvailable(ctx context.Context) ([]domain.Flight, error) {
	return r.list(ctx, `SELECT `+flightColumns+` FROM flights WHERE available_seats > 0 ORDER BY travel_date, flight_code`)
}

func (r *PGFlightRepository) list(ctx context.Context, query string) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByCodeAndDate(ctx context.Context, flightCode string, travelDate time.Time) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE flight_code=$1 AND travel_date=$2`, flightCode, travelDate)
	f, err := scanFlight(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}
	return f, nil
}

// ClaimSeat books the positionally first available seat and decrements the
// flight counter in a single transaction. The row lock on the chosen seat
// keeps two concurrent claims from ever returning the same label, and the
// conditional counter update keeps available_seats from going negative.
func (r *PGFlightRepository) ClaimSeat(ctx context.Context, flightCode string, travelDate time.Time) (string, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var flightID int64
	if err := tx.QueryRow(ctx, `SELECT id FROM flights WHERE flight_code=$1 AND travel_date=$2`, flightCode, travelDate).Scan(&flightID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrFlightNotFound
		}
		return "", err
	}

	var label string
	err = tx.QueryRow(ctx, `UPDATE seats SET status='BOOKED'
		WHERE id = (
			SELECT id FROM seats
			WHERE flight_id=$1 AND status='AVAILABLE'
			ORDER BY position
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING label`, flightID).Scan(&label)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrSeatUnavailable
		}
		return "", err
	}

	res, err := tx.Exec(ctx, `UPDATE flights SET available_seats = available_seats - 1, updated_at = now() WHERE id=$1 AND available_seats > 0`, flightID)
	if err != nil {
		return "", err
	}
	if res.RowsAffected() == 0 {
		return "", domain.ErrSeatUnavailable
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return label, nil
}

// ReleaseSeat flips a booked seat back to available and increments the
// counter in the same transaction.
func (r *PGFlightRepository) ReleaseSeat(ctx context.Context, flightCode string, travelDate time.Time, seatLabel string) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var flightID int64
	if err := tx.QueryRow(ctx, `SELECT id FROM flights WHERE flight_code=$1 AND travel_date=$2`, flightCode, travelDate).Scan(&flightID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrFlightNotFound
		}
		return err
	}

	res, err := tx.Exec(ctx, `UPDATE seats SET status='AVAILABLE' WHERE flight_id=$1 AND label=$2 AND status='BOOKED'`, flightID, seatLabel)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM seats WHERE flight_id=$1 AND label=$2)`, flightID, seatLabel).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return &domain.SeatCancellationError{SeatLabel: seatLabel, Reason: "seat label not found on flight"}
		}
		return &domain.SeatCancellationError{SeatLabel: seatLabel, Reason: "seat is not booked"}
	}

	if _, err := tx.Exec(ctx, `UPDATE flights SET available_seats = available_seats + 1, updated_at = now() WHERE id=$1`, flightID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// CountAvailableSeats recounts from the seat rows, not the counter.
func (r *PGFlightRepository) CountAvailableSeats(ctx context.Context, flightCode string, travelDate time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM seats s
		JOIN flights f ON f.id = s.flight_id
		WHERE f.flight_code=$1 AND f.travel_date=$2 AND s.status='AVAILABLE'`, flightCode, travelDate).Scan(&count)
	return count, err
}

var _ FlightRepository = (*PGFlightRepository)(nil)
