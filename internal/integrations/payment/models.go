package payment

import "github.com/shopspring/decimal"

const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// ChargeRequest is the payment gateway contract for a single booking charge.
type ChargeRequest struct {
	BookingID  string          `json:"booking_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	SeatLabel  string          `json:"seat_label"`
	FlightCode string          `json:"flight_code"`
	UserID     string          `json:"user_id"`
}

// ChargeResponse mirrors the gateway's checkout-session response.
type ChargeResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}
