package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shortenv/shortenv/internal/shortlink"
	"github.com/shortenv/shortenv/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingResolver struct {
	inner shortlink.Resolver
	calls int
}

func (r *countingResolver) Resolve(ctx context.Context, code string) (*shortlink.ShortLink, error) {
	r.calls++

	return r.inner.Resolve(ctx, code)
}

func newCacheFixture(t *testing.T) (*store.MemoryStore, *countingResolver, *store.CachedResolver) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := store.NewMemoryStore()
	upstream := &countingResolver{inner: shortlink.NewStoreResolver(s)}

	return s, upstream, store.NewCachedResolver(upstream, client, time.Minute)
}

func TestCachedResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("second lookup skips the store", func(t *testing.T) {
		s, upstream, cached := newCacheFixture(t)
		require.NoError(t, s.Create(ctx, &shortlink.ShortLink{
			Code: "abc123", Target: "https://example.com", Policy: shortlink.PolicyPermanent,
		}))

		first, err := cached.Resolve(ctx, "abc123")
		require.NoError(t, err)

		second, err := cached.Resolve(ctx, "abc123")
		require.NoError(t, err)

		assert.Equal(t, 1, upstream.calls)
		assert.Equal(t, first.Target, second.Target)
		assert.Equal(t, shortlink.PolicyPermanent, second.Policy)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("miss falls through to the store", func(t *testing.T) {
		_, upstream, cached := newCacheFixture(t)

		_, err := cached.Resolve(ctx, "zzz000")

		assert.ErrorIs(t, err, shortlink.ErrNotFound)
		assert.Equal(t, 1, upstream.calls)
	})

	t.Run("invalidate forces a reload", func(t *testing.T) {
		s, upstream, cached := newCacheFixture(t)
		link := &shortlink.ShortLink{Code: "abc123", Target: "https://example.com"}
		require.NoError(t, s.Create(ctx, link))

		_, err := cached.Resolve(ctx, "abc123")
		require.NoError(t, err)

		require.NoError(t, s.Update(ctx, &shortlink.ShortLink{
			ID: link.ID, Code: "abc123", Target: "https://example.com/moved",
		}))
		cached.Invalidate(ctx, "abc123")

		got, err := cached.Resolve(ctx, "abc123")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/moved", got.Target)
		assert.Equal(t, 2, upstream.calls)
	})

	t.Run("entries expire with the ttl", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })

		s := store.NewMemoryStore()
		upstream := &countingResolver{inner: shortlink.NewStoreResolver(s)}
		cached := store.NewCachedResolver(upstream, client, time.Second)

		require.NoError(t, s.Create(ctx, &shortlink.ShortLink{
			Code: "abc123", Target: "https://example.com",
		}))

		_, err := cached.Resolve(ctx, "abc123")
		require.NoError(t, err)

		mr.FastForward(2 * time.Second)

		_, err = cached.Resolve(ctx, "abc123")

		require.NoError(t, err)
		assert.Equal(t, 2, upstream.calls)
	})
}
