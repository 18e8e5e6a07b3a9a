package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_attempts_total",
			Help: "Booking saga attempts by terminal outcome",
		},
		[]string{"outcome"},
	)

	seatOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seat_operations_total",
			Help: "Seat reservations and releases by result",
		},
		[]string{"operation", "result"},
	)

	sagaDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "booking_saga_duration_seconds",
			Help:    "End-to-end duration of the booking saga",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	paymentRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_requests_total",
			Help: "Payment gateway calls by status",
		},
		[]string{"status"},
	)
)

func BookingAttempt(outcome string) {
	bookingAttempts.WithLabelValues(outcome).Inc()
}

func SeatOperation(operation, result string) {
	seatOperations.WithLabelValues(operation, result).Inc()
}

func ObserveSagaDuration(d time.Duration) {
	sagaDuration.Observe(d.Seconds())
}

func PaymentRequest(status string) {
	paymentRequests.WithLabelValues(status).Inc()
}
