package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avelis/cargohold/config"
	"github.com/avelis/cargohold/internal/domain"
	"github.com/redis/go-redis/v9"
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

// GetFlights returns the cached flight snapshot, or nil on a miss.
func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, flightsKey()).Bytes()
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

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey(), payload, c.flightsTTL).Err()
}

// InvalidateFlights drops the snapshot after a capacity mutation so the
// next search does not serve stale remaining capacity for a full TTL.
func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	return c.client.Del(ctx, flightsKey()).Err()
}

// AcquireBookingLock guards against the same requester double-submitting a
// booking for the same flight while a hold is being created.
func (c *RedisCache) AcquireBookingLock(ctx context.Context, requester string, flightID int64, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, bookingLockKey(requester, flightID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseBookingLock(ctx context.Context, requester string, flightID int64) error {
	return c.client.Del(ctx, bookingLockKey(requester, flightID)).Err()
}

func flightsKey() string {
	return "cache:flights"
}

func bookingLockKey(requester string, flightID int64) string {
	return fmt.Sprintf("lock:booking:%s:flight:%d", requester, flightID)
}
