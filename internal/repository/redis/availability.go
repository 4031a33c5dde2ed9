package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Belgregori/AutoRent/internal/domain"
	apperrors "github.com/Belgregori/AutoRent/pkg/errors"
)

const keyPrefix = "availability:"

// AvailabilityCache caches computed availability reports in Redis.
// Reports are a pure function of (product, horizon, today, reservation set),
// so keys include the computation day and every write to a product's
// reservations invalidates all of its entries.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAvailabilityCache creates a Redis-backed availability cache.
func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{
		client: client,
		ttl:    ttl,
	}
}

func cacheKey(productID string, months int, day time.Time) string {
	return fmt.Sprintf("%s%s:%d:%s", keyPrefix, productID, months, day.Format(domain.DateFormat))
}

// Get retrieves a cached report, returning ErrNotFound on a miss.
func (c *AvailabilityCache) Get(ctx context.Context, productID string, months int, day time.Time) (*domain.AvailabilityReport, error) {
	data, err := c.client.Get(ctx, cacheKey(productID, months, day)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("redis get availability: %w", err)
	}

	var report domain.AvailabilityReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("unmarshal availability report: %w", err)
	}

	return &report, nil
}

// Set stores a report with the configured TTL.
func (c *AvailabilityCache) Set(ctx context.Context, report *domain.AvailabilityReport, day time.Time) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal availability report: %w", err)
	}

	key := cacheKey(report.ProductID, report.HorizonMonths, day)
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set availability: %w", err)
	}

	return nil
}

// Invalidate removes every cached report for the product, across all
// horizons and computation days.
func (c *AvailabilityCache) Invalidate(ctx context.Context, productID string) error {
	pattern := keyPrefix + productID + ":*"

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan availability keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del availability keys: %w", err)
	}

	return nil
}
