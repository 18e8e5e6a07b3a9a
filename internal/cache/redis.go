package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/skyops/flightbooking/config"
	"github.com/skyops/flightbooking/internal/domain"
)

type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL: flightsTTL,
	}
}

// GetFlights returns the cached listing for key, or nil on a miss.
func (c *RedisCache) GetFlights(ctx context.Context, key string) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, flightsKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, key string, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey(key), payload, c.flightsTTL).Err()
}

// InvalidateFlights drops every listing and details entry after seat counts,
// schedules or flight fields change. The pattern covers both key families.
func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	keys, err := c.client.Keys(ctx, "cache:flight*").Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) GetFlightDetails(ctx context.Context, flightCode string, travelDate time.Time) (*domain.FlightDetails, error) {
	data, err := c.client.Get(ctx, detailsKey(flightCode, travelDate)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var details domain.FlightDetails
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (c *RedisCache) SetFlightDetails(ctx context.Context, details *domain.FlightDetails) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, detailsKey(details.FlightCode, details.TravelDate), payload, c.flightsTTL).Err()
}

func flightsKey(key string) string {
	return "cache:flights:" + key
}

func detailsKey(flightCode string, travelDate time.Time) string {
	return fmt.Sprintf("cache:flight:%s:%s", flightCode, travelDate.Format("2006-01-02"))
}
