// Package cache provides an optional redis snapshot cache in front of the
// catalog store. Caching is explicit: the TTL is configured, every save
// invalidates, and the noop implementation keeps the always-reload
// contract when redis is disabled.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/logistiq/vvp-backend/internal/config"
	"github.com/logistiq/vvp-backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

const catalogKey = "catalog:snapshot"

// CatalogCache caches the most recent catalog snapshot.
type CatalogCache interface {
	Get(ctx context.Context) (domain.Catalog, bool, error)
	Set(ctx context.Context, catalog domain.Catalog) error
	Invalidate(ctx context.Context) error
}

type redisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopCatalogCache struct{}

// NewCatalogCache builds a redis-backed cache, or a noop one when caching
// is disabled in the configuration.
func NewCatalogCache(cfg config.CacheConfig) (CatalogCache, error) {
	if !cfg.Enabled {
		return &noopCatalogCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisCatalogCache{
		client: client,
		ttl:    ttl,
	}, nil
}

// NewNoopCatalogCache returns a cache that never hits.
func NewNoopCatalogCache() CatalogCache {
	return &noopCatalogCache{}
}

func (c *redisCatalogCache) Get(ctx context.Context) (domain.Catalog, bool, error) {
	payload, err := c.client.Get(ctx, catalogKey).Bytes()
	if err == redis.Nil {
		return domain.Catalog{}, false, nil
	}
	if err != nil {
		return domain.Catalog{}, false, fmt.Errorf("redis get failed: %w", err)
	}

	var catalog domain.Catalog
	if err := json.Unmarshal(payload, &catalog); err != nil {
		return domain.Catalog{}, false, fmt.Errorf("decode catalog cache: %w", err)
	}

	return catalog, true, nil
}

func (c *redisCatalogCache) Set(ctx context.Context, catalog domain.Catalog) error {
	payload, err := json.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("encode catalog cache: %w", err)
	}

	if err := c.client.Set(ctx, catalogKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisCatalogCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (n *noopCatalogCache) Get(ctx context.Context) (domain.Catalog, bool, error) {
	return domain.Catalog{}, false, nil
}

func (n *noopCatalogCache) Set(ctx context.Context, catalog domain.Catalog) error {
	return nil
}

func (n *noopCatalogCache) Invalidate(ctx context.Context) error {
	return nil
}
