package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/skyops/flightbooking/internal/auth"
	"github.com/skyops/flightbooking/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestClient_Charge_Success(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var req ChargeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "17", req.BookingID)
		assert.Equal(t, "12C", req.SeatLabel)

		json.NewEncoder(w).Encode(ChargeResponse{
			Status:    StatusSuccess,
			Message:   "Payment session created",
			SessionID: "cs_test_123",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	ctx := auth.WithToken(context.Background(), "Bearer token123")

	resp, err := client.Charge(ctx, ChargeRequest{
		BookingID:  "17",
		Amount:     decimal.NewFromFloat(199.99),
		Currency:   "usd",
		SeatLabel:  "12C",
		FlightCode: "SK101",
		UserID:     "jane@example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, StatusSuccess, resp.Status)
	assert.Equal(t, "cs_test_123", resp.SessionID)
	assert.Equal(t, "Bearer token123", gotAuth)
}

func TestClient_Charge_MissingToken(t *testing.T) {
	client := NewClient("http://localhost:0", time.Second)

	_, err := client.Charge(context.Background(), ChargeRequest{BookingID: "1"})
	assert.ErrorIs(t, err, domain.ErrAuthorization)
}

func TestClient_Charge_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	ctx := auth.WithToken(context.Background(), "Bearer expired")

	_, err := client.Charge(ctx, ChargeRequest{BookingID: "1"})
	assert.ErrorIs(t, err, domain.ErrAuthorization)
}

func TestClient_Charge_UnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	ctx := auth.WithToken(context.Background(), "Bearer token123")

	_, err := client.Charge(ctx, ChargeRequest{BookingID: "1"})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_Charge_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, 20*time.Millisecond)
	ctx := auth.WithToken(context.Background(), "Bearer token123")

	_, err := client.Charge(ctx, ChargeRequest{BookingID: "1"})
	assert.ErrorIs(t, err, ErrInternal)
}
