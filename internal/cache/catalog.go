package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/partsbridge/backend-go/internal/config"
	"github.com/partsbridge/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	catalogProductsKeyPrefix = "catalog:products"
	scanBatchSize            = 100
	defaultCatalogTTL        = time.Minute
)

type CatalogCache interface {
	GetProductPage(ctx context.Context, page, limit int) (*domain.ProductPage, bool, error)
	SetProductPage(ctx context.Context, result *domain.ProductPage) error
	InvalidateAll(ctx context.Context) error
}

type redisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopCatalogCache struct{}

func NewCatalogCache(cfg config.CacheConfig) (CatalogCache, error) {
	if !cfg.Enabled {
		return &noopCatalogCache{}, nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.CatalogTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultCatalogTTL
	}

	return &redisCatalogCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopCatalogCache() CatalogCache {
	return &noopCatalogCache{}
}

func (c *redisCatalogCache) GetProductPage(ctx context.Context, page, limit int) (*domain.ProductPage, bool, error) {
	key := buildProductPageKey(page, limit)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result domain.ProductPage
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode product page cache: %w", err)
	}

	return &result, true, nil
}

func (c *redisCatalogCache) SetProductPage(ctx context.Context, result *domain.ProductPage) error {
	key := buildProductPageKey(result.Page, result.Limit)
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode product page cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisCatalogCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, catalogProductsKeyPrefix, scanBatchSize)
}

func (n *noopCatalogCache) GetProductPage(ctx context.Context, page, limit int) (*domain.ProductPage, bool, error) {
	return nil, false, nil
}

func (n *noopCatalogCache) SetProductPage(ctx context.Context, result *domain.ProductPage) error {
	return nil
}

func (n *noopCatalogCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildProductPageKey(page, limit int) string {
	return fmt.Sprintf("%s:page=%d:limit=%d", catalogProductsKeyPrefix, page, limit)
}
