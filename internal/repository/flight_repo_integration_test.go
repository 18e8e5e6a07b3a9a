//go:build integration

package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/skyops/flightbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run with: go test -tags integration ./internal/repository/ with
// TEST_DATABASE_DSN pointing at a postgres with the migrations applied.

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func createTestFlight(t *testing.T, repo FlightRepository, capacity int) (string, time.Time) {
	t.Helper()
	code := "IT" + uuid.NewString()[:8]
	travelDate := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(context.Background(), &domain.Flight{
		FlightCode:    code,
		Carrier:       "SkyOps Air",
		Origin:        "OSL",
		Destination:   "CDG",
		DepartureTime: "08:30",
		ArrivalTime:   "11:05",
		TravelDate:    travelDate,
		SeatCapacity:  capacity,
		Price:         decimal.NewFromInt(120),
	}))
	return code, travelDate
}

// Six seats, seven concurrent claimants: exactly six succeed, each with a
// distinct label, one gets ErrSeatUnavailable, and the counter agrees with
// the seat rows afterwards.
func TestPGFlightRepository_ClaimSeat_Concurrent(t *testing.T) {
	pool := testPool(t)
	repo := NewFlightRepository(pool)
	ctx := context.Background()

	const capacity = 6
	code, travelDate := createTestFlight(t, repo, capacity)

	type claim struct {
		label string
		err   error
	}
	results := make(chan claim, capacity+1)

	var wg sync.WaitGroup
	for i := 0; i < capacity+1; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			label, err := repo.ClaimSeat(ctx, code, travelDate)
			results <- claim{label: label, err: err}
		}()
	}
	wg.Wait()
	close(results)

	labels := make(map[string]bool)
	failures := 0
	for r := range results {
		if r.err != nil {
			assert.ErrorIs(t, r.err, domain.ErrSeatUnavailable)
			failures++
			continue
		}
		assert.False(t, labels[r.label], fmt.Sprintf("seat %s handed out twice", r.label))
		labels[r.label] = true
	}

	assert.Len(t, labels, capacity)
	assert.Equal(t, 1, failures)

	remaining, err := repo.CountAvailableSeats(ctx, code, travelDate)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	flight, err := repo.GetByCodeAndDate(ctx, code, travelDate)
	require.NoError(t, err)
	assert.Equal(t, 0, flight.AvailableSeats)
}

func TestPGFlightRepository_ReleaseSeat_RestoresAvailability(t *testing.T) {
	pool := testPool(t)
	repo := NewFlightRepository(pool)
	ctx := context.Background()

	code, travelDate := createTestFlight(t, repo, 2)

	label, err := repo.ClaimSeat(ctx, code, travelDate)
	require.NoError(t, err)

	require.NoError(t, repo.ReleaseSeat(ctx, code, travelDate, label))

	remaining, err := repo.CountAvailableSeats(ctx, code, travelDate)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)

	flight, err := repo.GetByCodeAndDate(ctx, code, travelDate)
	require.NoError(t, err)
	assert.Equal(t, 2, flight.AvailableSeats)
}

func TestPGFlightRepository_Delete_RefusedWhileBooked(t *testing.T) {
	pool := testPool(t)
	repo := NewFlightRepository(pool)
	ctx := context.Background()

	code, travelDate := createTestFlight(t, repo, 2)

	label, err := repo.ClaimSeat(ctx, code, travelDate)
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Delete(ctx, code, travelDate), domain.ErrFlightHasBookings)

	require.NoError(t, repo.ReleaseSeat(ctx, code, travelDate, label))
	require.NoError(t, repo.Delete(ctx, code, travelDate))

	_, err = repo.GetByCodeAndDate(ctx, code, travelDate)
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
}
