// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/phamquangminh/shoply/internal/platform/apperr"
	"github.com/phamquangminh/shoply/internal/platform/constants"
)

// RedisProductCache implements [ProductCache] using Redis.
//
// Projections are stored as JSON under catalog:product:<id> with a bounded
// TTL, so a cold cache or a flushed Redis only costs one Postgres read.
type RedisProductCache struct {
	client *redis.Client
}

// NewProductCache creates a new Redis-backed ProductCache.
func NewProductCache(client *redis.Client) *RedisProductCache {
	return &RedisProductCache{client: client}
}

/*
Get retrieves the cached projection for a product.

Description: Returns apperr.NotFound on a miss; the caller falls through to
Postgres. A corrupt cache entry is treated as a miss.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Product: Cached projection
  - error: apperr.NotFound or connectivity errors
*/
func (cache *RedisProductCache) Get(context context.Context, id string) (*Product, error) {
	payload, err := cache.client.Get(context, cacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Product")
		}
		return nil, fmt.Errorf("redis_product_cache_get_failed: %w", err)
	}

	product := &Product{}
	if err := json.Unmarshal(payload, product); err != nil {
		// Unreadable entry: drop it and report a miss.
		_ = cache.client.Del(context, cacheKey(id)).Err()
		return nil, apperr.NotFound("Product")
	}

	return product, nil
}

/*
Set stores the projection with the configured TTL.

Parameters:
  - context: context.Context
  - product: *Product

Returns:
  - error: Serialization or connectivity errors
*/
func (cache *RedisProductCache) Set(context context.Context, product *Product) error {
	payload, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("redis_product_cache_marshal_failed: %w", err)
	}

	if err := cache.client.Set(context, cacheKey(product.ID), payload, CacheTTL).Err(); err != nil {
		return fmt.Errorf("redis_product_cache_set_failed: %w", err)
	}

	return nil
}

/*
Invalidate drops the cached projection. Idempotent.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Connectivity errors
*/
func (cache *RedisProductCache) Invalidate(context context.Context, id string) error {
	if err := cache.client.Del(context, cacheKey(id)).Err(); err != nil {
		return fmt.Errorf("redis_product_cache_invalidate_failed: %w", err)
	}
	return nil
}

func cacheKey(id string) string {
	return constants.RedisPrefixProduct + id
}
