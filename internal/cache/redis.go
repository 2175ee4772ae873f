package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aguada-backend/internal/config"

	"github.com/redis/go-redis/v9"
)

// Cache keys for ledger read endpoints
const (
	DailyBalanceKeyFmt = "balanco:diario:%s:%s:%s"
	PendingReportsKey  = "relatorios:pendentes"
)

var client *redis.Client

// Init initializes the Redis connection. On failure the client stays
// nil and every helper degrades to a no-op, so the API works without
// Redis.
func Init(cfg *config.Config) error {
	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// Ping reports cache availability for health checks.
func Ping(ctx context.Context) error {
	if client == nil {
		return errors.New("redis não configurado")
	}
	return client.Ping(ctx).Err()
}

// DailyBalanceKey builds the cache key for a daily balance window.
func DailyBalanceKey(dateStart, dateEnd, reservoirID string) string {
	return fmt.Sprintf(DailyBalanceKeyFmt, dateStart, dateEnd, reservoirID)
}

// GetCached returns cached data for a key.
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL.
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidateBalanceCaches clears every cached balance window. Called
// after any write that feeds the daily rollup.
func InvalidateBalanceCaches(ctx context.Context) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, "balanco:diario:*").Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidatePendingCache clears the pending reports cache. Called
// after report writes.
func InvalidatePendingCache(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, PendingReportsKey)
}
