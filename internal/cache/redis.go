package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"StockLens/internal/model"
)

const redisKeyPrefix = "series:"

// RedisCache stores entries as JSON strings. Keys expire after twice the
// freshness TTL. The collector refetches stale entries and never serves them.
type RedisCache struct {
	client *redis.Client
	expiry time.Duration
	log    *logrus.Entry
	now    func() time.Time
}

// NewRedisCache connects and pings the server.
func NewRedisCache(ctx context.Context, addr, password string, db int, ttl time.Duration, log *logrus.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	entry := log.WithField("component", "cache")
	entry.WithField("addr", addr).Info("redis cache connected")
	return &RedisCache{client: client, expiry: 2 * ttl, log: entry, now: time.Now}, nil
}

func (r *RedisCache) Get(ctx context.Context, symbol string) (*Entry, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+key(symbol)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var e Entry
	if err := json.Unmarshal([]byte(data), &e); err != nil {
		return nil, fmt.Errorf("decode cached entry: %w", err)
	}
	return &e, nil
}

func (r *RedisCache) Set(ctx context.Context, symbol string, series model.PriceSeries) error {
	data, err := json.Marshal(Entry{Series: series, StoredAt: r.now()})
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+key(symbol), data, r.expiry).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisCache) Name() string { return "redis" }

func (r *RedisCache) Close() error {
	return r.client.Close()
}
