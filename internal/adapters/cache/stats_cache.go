package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis keys of the statistics snapshot
const (
	StatsOverviewKey   = "stats:overview"
	StatsGenerationKey = "stats:generation"
)

// StatsCache stores the employee statistics snapshot. A nil *StatsCache, or one
// without a client, behaves as an always-empty cache.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates the statistics cache
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// Enabled reports whether a Redis client backs the cache
func (c *StatsCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get decodes the cached snapshot into dest and reports whether it was present
func (c *StatsCache) Get(ctx context.Context, dest interface{}) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	payload, err := c.client.Get(ctx, StatsOverviewKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Generation returns the write generation. Invalidate bumps it.
func (c *StatsCache) Generation(ctx context.Context) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	gen, err := c.client.Get(ctx, StatsGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// SetIfGeneration stores value with the configured TTL unless an Invalidate ran
// after gen was read. It reports whether value was stored.
func (c *StatsCache) SetIfGeneration(ctx context.Context, gen int64, value interface{}) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return false, err
	}

	stored := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, StatsGenerationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, StatsOverviewKey, raw, c.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, StatsGenerationKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	return stored, err
}

// Invalidate drops the snapshot and bumps the generation, so a snapshot computed
// before this call is never stored
func (c *StatsCache) Invalidate(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, StatsGenerationKey)
		pipe.Del(ctx, StatsOverviewKey)
		return nil
	})
	return err
}

// Ping checks the backing Redis
func (c *StatsCache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}
