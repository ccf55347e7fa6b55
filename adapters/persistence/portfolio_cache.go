package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/spotme/internal/application/service"
	"github.com/khoahotran/spotme/internal/domain/portfolio"
)

const publicKeyPrefix = "portfolio:public:"

type redisPortfolioCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisPortfolioCache(rdb *redis.Client, ttl time.Duration) service.PublicCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &redisPortfolioCache{rdb: rdb, ttl: ttl}
}

func publicKey(username string) string {
	return publicKeyPrefix + username
}

func (c *redisPortfolioCache) Get(ctx context.Context, username string) (*portfolio.Portfolio, error) {
	raw, err := c.rdb.Get(ctx, publicKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, service.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read cached portfolio: %w", err)
	}

	p := &portfolio.Portfolio{}
	if err := json.Unmarshal(raw, p); err != nil {
		// A corrupt entry is treated as absent and dropped.
		c.rdb.Del(ctx, publicKey(username))
		return nil, service.ErrCacheMiss
	}
	return p.Clone(), nil
}

func (c *redisPortfolioCache) Set(ctx context.Context, p *portfolio.Portfolio) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal portfolio for cache: %w", err)
	}
	if err := c.rdb.Set(ctx, publicKey(p.Username), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache portfolio: %w", err)
	}
	return nil
}

func (c *redisPortfolioCache) Invalidate(ctx context.Context, username string) error {
	if err := c.rdb.Del(ctx, publicKey(username)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached portfolio: %w", err)
	}
	return nil
}
