package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/breadcrumbs/internal/domain"

	"github.com/redis/go-redis/v9"
)

const KeyPrefix = "breadcrumbs:product:"

// ProductCache keeps recently served products close to the HTTP handlers.
type ProductCache interface {
	Get(ctx context.Context, sku string) (*domain.Product, error) // nil, nil on miss
	Set(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, sku string) error
}

type redisProductCache struct {
	redisClient redis.Cmdable
	ttl         time.Duration
}

// NewRedisProductCache returns a cache whose entries expire after ttl. A
// zero ttl keeps entries until they are replaced or deleted.
func NewRedisProductCache(redisClient redis.Cmdable, ttl time.Duration) ProductCache {
	return &redisProductCache{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func (c *redisProductCache) Get(ctx context.Context, sku string) (*domain.Product, error) {
	val, err := c.redisClient.Get(ctx, KeyPrefix+sku).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached product %s: %w", sku, err)
	}

	var product domain.Product
	if err := json.Unmarshal(val, &product); err != nil {
		return nil, fmt.Errorf("failed to decode cached product %s: %w", sku, err)
	}

	return &product, nil
}

func (c *redisProductCache) Set(ctx context.Context, product *domain.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to encode product %s: %w", product.SKU, err)
	}

	if err := c.redisClient.Set(ctx, KeyPrefix+product.SKU, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache product %s: %w", product.SKU, err)
	}
	return nil
}

func (c *redisProductCache) Delete(ctx context.Context, sku string) error {
	if err := c.redisClient.Del(ctx, KeyPrefix+sku).Err(); err != nil {
		return fmt.Errorf("failed to evict product %s: %w", sku, err)
	}
	return nil
}
