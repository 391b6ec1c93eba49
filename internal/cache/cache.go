// Package cache holds the read-through cache of today's offer listing.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"parrot-ordering/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// OffersCache stores the offer listing of a date. Misses report ok=false.
type OffersCache interface {
	Get(ctx context.Context, date time.Time) (offers []model.OfferView, ok bool, err error)
	Set(ctx context.Context, date time.Time, offers []model.OfferView) error
	Invalidate(ctx context.Context, date time.Time) error
}

// RedisOffersCache keeps listings as JSON values that expire after TTL.
type RedisOffersCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisOffersCache creates a Redis-backed offers cache.
func NewRedisOffersCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisOffersCache {
	return &RedisOffersCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "offers_cache").Logger(),
	}
}

// Key returns the Redis key of the listing for date.
func Key(date time.Time) string {
	return "offers:today:" + date.Format(model.DateLayout)
}

func (c *RedisOffersCache) Get(ctx context.Context, date time.Time) ([]model.OfferView, bool, error) {
	raw, err := c.client.Get(ctx, Key(date)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read offers cache: %w", err)
	}

	var offers []model.OfferView
	if err := json.Unmarshal(raw, &offers); err != nil {
		// A corrupt entry is treated as a miss and overwritten by the next Set.
		c.logger.Warn().Err(err).Str("key", Key(date)).Msg("discarding undecodable cache entry")
		return nil, false, nil
	}
	return offers, true, nil
}

func (c *RedisOffersCache) Set(ctx context.Context, date time.Time, offers []model.OfferView) error {
	payload, err := json.Marshal(offers)
	if err != nil {
		return fmt.Errorf("failed to encode offers: %w", err)
	}
	if err := c.client.Set(ctx, Key(date), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write offers cache: %w", err)
	}
	return nil
}

func (c *RedisOffersCache) Invalidate(ctx context.Context, date time.Time) error {
	if err := c.client.Del(ctx, Key(date)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate offers cache: %w", err)
	}
	c.logger.Debug().Str("key", Key(date)).Msg("offers cache invalidated")
	return nil
}

// Nop is used when Redis is disabled. Every read misses.
type Nop struct{}

func (Nop) Get(context.Context, time.Time) ([]model.OfferView, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, time.Time, []model.OfferView) error         { return nil }
func (Nop) Invalidate(context.Context, time.Time) error                     { return nil }
