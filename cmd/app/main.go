package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/skyops/flightbooking/api"
	"github.com/skyops/flightbooking/config"
	"github.com/skyops/flightbooking/internal/cache"
	"github.com/skyops/flightbooking/internal/integrations/payment"
	"github.com/skyops/flightbooking/internal/inventory"
	"github.com/skyops/flightbooking/internal/kafka"
	"github.com/skyops/flightbooking/internal/notify"
	"github.com/skyops/flightbooking/internal/repository"
	"github.com/skyops/flightbooking/internal/service/booking"
	"github.com/skyops/flightbooking/internal/service/flights"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	callTimeout := time.Duration(cfg.Booking.CallTimeoutSeconds) * time.Second

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	inventorySvc := inventory.NewService(flightRepo, redisCache, log)
	paymentClient := payment.NewClient(cfg.Payment.BaseURL, time.Duration(cfg.Payment.TimeoutSeconds)*time.Second)
	dispatcher := notify.NewKafkaDispatcher(producer, cfg.Kafka.NotificationsTopic, callTimeout)

	flightService := flights.NewFlightService(flightRepo, redisCache, log)
	bookingService := booking.NewBookingService(
		bookingRepo,
		inventorySvc,
		paymentClient,
		dispatcher,
		producer,
		callTimeout,
		log,
		booking.WithEventsTopic(cfg.Kafka.BookingEventsTopic),
		booking.WithCurrency(cfg.Payment.Currency),
	)

	server := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: api.NewRouter(flightService, bookingService, inventorySvc),
	}

	go func() {
		log.WithField("address", cfg.HTTP.Address).Info("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}
