package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/skyops/flightbooking/internal/auth"
	"github.com/skyops/flightbooking/internal/domain"
	"github.com/skyops/flightbooking/internal/inventory"
	"github.com/skyops/flightbooking/internal/service/booking"
	"github.com/skyops/flightbooking/internal/service/flights"
)

func NewRouter(flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase, inv inventory.Manager) *gin.Engine {
	router := gin.Default()

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	flightHandler := NewFlightHandler(flightSvc, inv)
	flightHandler.Register(router.Group("/flights"))

	bookingHandler := NewBookingHandler(bookingSvc)
	bookingGroup := router.Group("/bookings")
	bookingGroup.Use(AuthMiddleware())
	bookingHandler.Register(bookingGroup)

	return router
}

// AuthMiddleware moves the caller's Authorization header, unmodified, into
// the request context so every saga step downstream can re-present it.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domain.ErrAuthorization.Error()})
			return
		}
		c.Request = c.Request.WithContext(auth.WithToken(c.Request.Context(), token))
		c.Next()
	}
}

func statusFor(err error) int {
	var cancelErr *domain.SeatCancellationError
	switch {
	case errors.Is(err, domain.ErrFlightNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrNoFlightsAvailable):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAuthorization):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrSeatUnavailable),
		errors.Is(err, domain.ErrFlightAlreadyScheduled),
		errors.Is(err, domain.ErrFlightHasBookings),
		errors.Is(err, domain.ErrDuplicateBooking):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPaymentFailed), errors.As(err, &cancelErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
