package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vrindacare/pharmacy-api/models"
)

// CartCache is a read-through cache in front of the persisted cart snapshots.
// A nil cache is valid; the cart service then reads straight from the database.
type CartCache interface {
	Get(ctx context.Context, email string) (*models.Cart, error)
	Set(ctx context.Context, email string, cart *models.Cart) error
	Delete(ctx context.Context, email string) error
}

var ErrCacheMiss = errors.New("cache miss")

var cartCacheInstance CartCache

// InitCartCache sets the process-wide cart cache. A nil value disables caching.
func InitCartCache(cache CartCache) {
	cartCacheInstance = cache
}

// GetCartCache returns the configured cart cache, which may be nil.
func GetCartCache() CartCache {
	return cartCacheInstance
}

func NewRedisCartCache(client *redis.Client) *RedisCartCache {
	return &RedisCartCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

// RedisCartCache caches hydrated carts in Redis keyed by customer email.
type RedisCartCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisCartCache) Get(ctx context.Context, email string) (*models.Cart, error) {
	data, err := r.client.Get(ctx, cacheKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cached cart failed: %w", err)
	}

	return &cart, nil
}

func (r *RedisCartCache) Set(ctx context.Context, email string, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	// Jitter the TTL so a burst of carts does not expire at once
	ttl := r.baseTTL + time.Duration(rand.Intn(5))*time.Minute
	if err := r.client.Set(ctx, cacheKey(email), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCartCache) Delete(ctx context.Context, email string) error {
	if err := r.client.Del(ctx, cacheKey(email)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(email string) string {
	return fmt.Sprintf("cart:%s", email)
}
