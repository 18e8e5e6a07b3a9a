package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/skyops/flightbooking/internal/domain"
	"github.com/skyops/flightbooking/internal/inventory"
	"github.com/skyops/flightbooking/internal/service/flights"
)

type FlightHandler struct {
	service   flights.FlightUseCase
	inventory inventory.Manager
}

type scheduleFlightRequest struct {
	FlightCode    string   `json:"flight_code" binding:"required"`
	Carrier       string   `json:"carrier" binding:"required"`
	Origin        string   `json:"origin" binding:"required"`
	Destination   string   `json:"destination" binding:"required"`
	DepartureTime string   `json:"departure_time" binding:"required"`
	ArrivalTime   string   `json:"arrival_time" binding:"required"`
	SeatCapacity  int      `json:"seat_capacity" binding:"required,min=1"`
	Price         string   `json:"price" binding:"required"`
	Kind          string   `json:"schedule_kind" binding:"required"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	DaysOfWeek    []int    `json:"days_of_week"`
	DaysOfMonth   []int    `json:"days_of_month"`
	Dates         []string `json:"dates"`
}

type seatRequest struct {
	SeatLabel string `json:"seat_label" binding:"required"`
}

func NewFlightHandler(service flights.FlightUseCase, inv inventory.Manager) *FlightHandler {
	return &FlightHandler{service: service, inventory: inv}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/available", h.listAvailable)
	router.GET("/:code/details", h.details)
	router.GET("/:code/availability", h.availability)
	router.POST("/", h.schedule)
	router.PUT("/:code", h.update)
	router.DELETE("/:code", h.delete)
	router.POST("/:code/seats/reserve", AuthMiddleware(), h.reserveSeat)
	router.POST("/:code/seats/release", AuthMiddleware(), h.releaseSeat)
}

func (h *FlightHandler) list(c *gin.Context) {
	flights, err := h.service.List(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, flights)
}

func (h *FlightHandler) listAvailable(c *gin.Context) {
	flights, err := h.service.ListAvailable(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, flights)
}

func (h *FlightHandler) details(c *gin.Context) {
	travelDate, ok := travelDateParam(c)
	if !ok {
		return
	}
	details, err := h.inventory.GetDetails(c.Request.Context(), c.Param("code"), travelDate)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// availability reports seats left from an authoritative recount of the seat
// rows, so the endpoint doubles as a counter-drift check.
func (h *FlightHandler) availability(c *gin.Context) {
	travelDate, ok := travelDateParam(c)
	if !ok {
		return
	}
	seatsLeft, err := h.inventory.CountAvailable(c.Request.Context(), c.Param("code"), travelDate)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": seatsLeft > 0, "seats_left": seatsLeft})
}

func (h *FlightHandler) schedule(c *gin.Context) {
	var req scheduleFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}

	spec := domain.ScheduleSpec{
		Kind:        domain.RecurrenceKind(req.Kind),
		DaysOfWeek:  req.DaysOfWeek,
		DaysOfMonth: req.DaysOfMonth,
	}
	if spec.StartDate, err = parseOptionalDate(req.StartDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	if spec.EndDate, err = parseOptionalDate(req.EndDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
		return
	}
	for _, raw := range req.Dates {
		d, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date in dates list"})
			return
		}
		spec.Dates = append(spec.Dates, d)
	}

	template := flights.FlightTemplate{
		FlightCode:    req.FlightCode,
		Carrier:       req.Carrier,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		SeatCapacity:  req.SeatCapacity,
		Price:         price,
	}

	created, err := h.service.ScheduleFlights(c.Request.Context(), template, spec)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"flights_scheduled": created})
}

type updateFlightRequest struct {
	Carrier       string `json:"carrier" binding:"required"`
	Origin        string `json:"origin" binding:"required"`
	Destination   string `json:"destination" binding:"required"`
	DepartureTime string `json:"departure_time" binding:"required"`
	ArrivalTime   string `json:"arrival_time" binding:"required"`
	Price         string `json:"price" binding:"required"`
}

func (h *FlightHandler) update(c *gin.Context) {
	travelDate, ok := travelDateParam(c)
	if !ok {
		return
	}
	var req updateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}

	flight, err := h.service.UpdateFlight(c.Request.Context(), c.Param("code"), travelDate, flights.FlightTemplate{
		Carrier:       req.Carrier,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		Price:         price,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) delete(c *gin.Context) {
	travelDate, ok := travelDateParam(c)
	if !ok {
		return
	}
	if err := h.service.DeleteFlight(c.Request.Context(), c.Param("code"), travelDate); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("code")})
}

func (h *FlightHandler) reserveSeat(c *gin.Context) {
	travelDate, ok := travelDateParam(c)
	if !ok {
		return
	}
	label, err := h.inventory.ReserveSeat(c.Request.Context(), c.Param("code"), travelDate)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seat_label": label})
}

func (h *FlightHandler) releaseSeat(c *gin.Context) {
	travelDate, ok := travelDateParam(c)
	if !ok {
		return
	}
	var req seatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.inventory.ReleaseSeat(c.Request.Context(), c.Param("code"), travelDate, req.SeatLabel); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"released": req.SeatLabel})
}

func travelDateParam(c *gin.Context) (time.Time, bool) {
	travelDate, err := time.Parse(time.DateOnly, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return travelDate, true
}

func parseOptionalDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, raw)
}
