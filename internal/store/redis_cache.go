package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shortenv/shortenv/internal/metrics"
	"github.com/shortenv/shortenv/internal/shortlink"
)

// CachedResolver wraps a Resolver with Redis caching for the redirect path.
// Only what the dispatcher needs is cached (code, target, policy); click
// counters are never read from the cache. Writers must call Invalidate with
// the affected codes; the TTL bounds staleness for anything they miss.
type CachedResolver struct {
	next   shortlink.Resolver
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewCachedResolver creates a Redis-cached resolver decorator.
func NewCachedResolver(next shortlink.Resolver, client *redis.Client, ttl time.Duration) *CachedResolver {
	return &CachedResolver{
		next:   next,
		client: client,
		prefix: "link:",
		ttl:    ttl,
	}
}

func (c *CachedResolver) Resolve(ctx context.Context, code string) (*shortlink.ShortLink, error) {
	if link, err := c.fromCache(ctx, code); err == nil {
		metrics.CacheHits.Inc()

		return link, nil
	}

	metrics.CacheMisses.Inc()

	link, err := c.next.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}

	c.cache(ctx, link)

	return link, nil
}

// Invalidate drops cache entries for the given codes. Used after update,
// rename (both old and new code) and delete.
func (c *CachedResolver) Invalidate(ctx context.Context, codes ...string) {
	if len(codes) == 0 {
		return
	}

	keys := make([]string, len(codes))
	for i, code := range codes {
		keys[i] = c.prefix + code
	}

	_ = c.client.Del(ctx, keys...).Err()
}

func (c *CachedResolver) fromCache(ctx context.Context, code string) (*shortlink.ShortLink, error) {
	result, err := c.client.HGetAll(ctx, c.prefix+code).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, shortlink.ErrNotFound
	}

	id, _ := strconv.ParseInt(result["id"], 10, 64)
	redirect, _ := strconv.Atoi(result["redirect_type"])

	return &shortlink.ShortLink{
		ID:     id,
		Code:   result["code"],
		Target: result["target"],
		Policy: shortlink.NormalizePolicy(shortlink.RedirectPolicy(redirect)),
	}, nil
}

func (c *CachedResolver) cache(ctx context.Context, link *shortlink.ShortLink) {
	key := c.prefix + link.Code

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"id":            link.ID,
		"code":          link.Code,
		"target":        link.Target,
		"redirect_type": int(link.Policy),
	})

	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}

	_, _ = pipe.Exec(ctx)
}

// Compile-time check.
var _ shortlink.Resolver = (*CachedResolver)(nil)
