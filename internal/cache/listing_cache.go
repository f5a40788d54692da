package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"goforum/internal/app"
)

// ListingCache keeps rendered category-list pages in redis for a short
// TTL. Invalidation bumps a generation counter instead of scanning for
// page keys; stale generations simply expire.
type ListingCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

var _ app.ListingCache = (*ListingCache)(nil)

func NewListingCache(client *redisv9.Client, ttl time.Duration) *ListingCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &ListingCache{client: client, ttl: ttl}
}

func (c *ListingCache) GetCategoryPage(ctx context.Context, page, limit int) (*app.CategoryPage, bool, error) {
	key, err := c.pageKey(ctx, page, limit)
	if err != nil {
		return nil, false, err
	}

	raw, err := c.client.Get(ctx, key).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get listing failed: %w", err)
	}

	var value app.CategoryPage
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached listing failed: %w", err)
	}
	return &value, true, nil
}

func (c *ListingCache) SetCategoryPage(ctx context.Context, page, limit int, value *app.CategoryPage) error {
	key, err := c.pageKey(ctx, page, limit)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal listing cache failed: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set listing failed: %w", err)
	}
	return nil
}

func (c *ListingCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.generationKey()).Err(); err != nil {
		return fmt.Errorf("redis bump listing generation failed: %w", err)
	}
	return nil
}

func (c *ListingCache) pageKey(ctx context.Context, page, limit int) (string, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Result()
	if err == redisv9.Nil {
		gen = "0"
	} else if err != nil {
		return "", fmt.Errorf("redis get listing generation failed: %w", err)
	}
	return fmt.Sprintf("forum:categories:g%s:p%d:l%d", gen, page, limit), nil
}

func (c *ListingCache) generationKey() string {
	return "forum:categories:gen"
}
