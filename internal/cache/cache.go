package cache

import (
	"context"
	"time"

	"github.com/go-redis/cache/v9"

	redisdb "github.com/karim-saleh/guardpay/internal/redis-db"
)

// Cache is the byte-level caching contract used by the rate service. Values
// are marshalled by the backing store.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, data interface{}) error
	Delete(ctx context.Context, key string) error
}

// RedisCache caches through Redis with a small in-process TinyLFU front so
// hot keys avoid the network round trip.
type RedisCache struct {
	cache *cache.Cache
}

func NewCache(addresses []string) (*RedisCache, error) {
	store, err := redisdb.NewRedisClient(addresses)
	if err != nil {
		return nil, err
	}

	return &RedisCache{
		cache: cache.New(&cache.Options{
			Redis:      store.Client(),
			LocalCache: cache.NewTinyLFU(1000, time.Minute),
		}),
	}, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return r.cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: value,
		TTL:   ttl,
	})
}

func (r *RedisCache) Get(ctx context.Context, key string, data interface{}) error {
	return r.cache.Get(ctx, key, data)
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.cache.Delete(ctx, key)
}
