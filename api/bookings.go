package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skyops/flightbooking/internal/domain"
	"github.com/skyops/flightbooking/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type bookFlightRequest struct {
	Email          string `json:"email" binding:"required,email"`
	PassengerName  string `json:"passenger_name" binding:"required"`
	FlightCode     string `json:"flight_code" binding:"required"`
	TravelDate     string `json:"travel_date" binding:"required"`
	IdempotencyKey string `json:"idempotency_key"`
}

type confirmBookingRequest struct {
	SeatLabel string `json:"seat_label" binding:"required"`
}

type bookingResponse struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	PassengerName string `json:"passenger_name"`
	FlightCode    string `json:"flight_code"`
	TravelDate    string `json:"travel_date"`
	BookedOn      string `json:"booked_on"`
	Status        string `json:"status"`
	SeatLabel     string `json:"seat_label,omitempty"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:            b.ID,
		Email:         b.Email,
		PassengerName: b.PassengerName,
		FlightCode:    b.FlightCode,
		TravelDate:    b.TravelDate.Format(time.DateOnly),
		BookedOn:      b.BookedOn.Format(time.DateOnly),
		Status:        string(b.Status),
		SeatLabel:     b.SeatLabel,
	}
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.book)
	router.GET("/:id", h.get)
	router.GET("/", h.listByPassenger)
	router.PUT("/:id/confirm", h.confirm)
	router.DELETE("/:id", h.cancel)
}

func (h *BookingHandler) book(c *gin.Context) {
	var req bookFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	travelDate, err := time.Parse(time.DateOnly, req.TravelDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid travel_date, expected YYYY-MM-DD"})
		return
	}

	outcome, err := h.service.BookFlight(c.Request.Context(), booking.BookRequest{
		Email:          req.Email,
		PassengerName:  req.PassengerName,
		FlightCode:     req.FlightCode,
		TravelDate:     travelDate,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, outcome)
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}
	b, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) listByPassenger(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
		return
	}
	bookings, err := h.service.ListByPassenger(c.Request.Context(), email)
	if err != nil {
		abortWithError(c, err)
		return
	}
	responses := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *BookingHandler) confirm(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}
	var req confirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.ConfirmBooking(c.Request.Context(), id, req.SeatLabel); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(domain.BookingStatusConfirmed)})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}
	if err := h.service.CancelBooking(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(domain.BookingStatusCanceled)})
}

func bookingIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return 0, false
	}
	return id, true
}
