package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/skyline/air-reservation/internal/models"
)

const (
	searchKeyPrefix  = "flights:search"
	searchVersionKey = "flights:search:version"
)

// SearchCache stores flight search results. Lookups never fail a search:
// a broken cache reads as a miss.
type SearchCache interface {
	GetFlights(ctx context.Context, key string) ([]models.Flight, bool)
	SetFlights(ctx context.Context, key string, flights []models.Flight)
	Invalidate(ctx context.Context) error
}

// Connect opens a Redis client from a redis:// URL and checks it responds
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// RedisSearchCache keeps results under a version number. Invalidate bumps
// the version so every older entry is orphaned and expires on its own TTL.
type RedisSearchCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewRedisSearchCache creates a Redis backed search cache
func NewRedisSearchCache(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *RedisSearchCache {
	return &RedisSearchCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisSearchCache) version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, searchVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *RedisSearchCache) entryKey(ctx context.Context, key string) (string, error) {
	v, err := c.version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d:%s", searchKeyPrefix, v, key), nil
}

// GetFlights returns cached results for the search key
func (c *RedisSearchCache) GetFlights(ctx context.Context, key string) ([]models.Flight, bool) {
	entry, err := c.entryKey(ctx, key)
	if err != nil {
		c.logger.WithError(err).Warn("search cache version lookup failed")
		return nil, false
	}

	data, err := c.client.Get(ctx, entry).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WithError(err).WithField("key", entry).Warn("search cache read failed")
		}
		return nil, false
	}

	var flights []models.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		c.logger.WithError(err).WithField("key", entry).Warn("search cache entry is corrupt")
		return nil, false
	}
	return flights, true
}

// SetFlights stores results for the search key
func (c *RedisSearchCache) SetFlights(ctx context.Context, key string, flights []models.Flight) {
	entry, err := c.entryKey(ctx, key)
	if err != nil {
		c.logger.WithError(err).Warn("search cache version lookup failed")
		return
	}

	data, err := json.Marshal(flights)
	if err != nil {
		c.logger.WithError(err).Warn("failed to encode search results")
		return
	}

	if err := c.client.Set(ctx, entry, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", entry).Warn("search cache write failed")
	}
}

// Invalidate drops every cached search
func (c *RedisSearchCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, searchVersionKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate search cache: %w", err)
	}
	return nil
}

// NoopSearchCache is used when no Redis URL is configured
type NoopSearchCache struct{}

func (NoopSearchCache) GetFlights(context.Context, string) ([]models.Flight, bool) { return nil, false }
func (NoopSearchCache) SetFlights(context.Context, string, []models.Flight) {}
func (NoopSearchCache) Invalidate(context.Context) error { return nil }
