package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Cache reads when nothing is stored.
var ErrCacheMiss = errors.New("cache miss")

const (
	productsKey   = "catalog:products"
	categoriesKey = "catalog:categories"
)

// Cache stores the catalog snapshot between CMS fetches.
type Cache interface {
	GetProducts(ctx context.Context) ([]Product, error)
	SetProducts(ctx context.Context, products []Product) error
	GetCategories(ctx context.Context) ([]Category, error)
	SetCategories(ctx context.Context, categories []Category) error
	Invalidate(ctx context.Context) error
}

// RedisCache keeps the catalog as JSON values with a jittered TTL.
type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

// NewRedisCache returns a cache with a five minute base TTL.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 5 * time.Minute,
	}
}

func (r *RedisCache) GetProducts(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := r.get(ctx, productsKey, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RedisCache) SetProducts(ctx context.Context, products []Product) error {
	return r.set(ctx, productsKey, products)
}

func (r *RedisCache) GetCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := r.get(ctx, categoriesKey, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RedisCache) SetCategories(ctx context.Context, categories []Category) error {
	return r.set(ctx, categoriesKey, categories)
}

func (r *RedisCache) Invalidate(ctx context.Context) error {
	if err := r.client.Del(ctx, productsKey, categoriesKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisCache) get(ctx context.Context, key string, out any) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal %s failed: %w", key, err)
	}
	return nil
}

func (r *RedisCache) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}
	jitter := time.Duration(rand.Intn(60)) * time.Second
	if err := r.client.Set(ctx, key, data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
