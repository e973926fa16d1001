package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shortenv/shortenv/internal/api"
	"github.com/shortenv/shortenv/internal/shortlink"
	"github.com/shortenv/shortenv/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingInvalidator struct {
	codes []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, codes ...string) {
	r.codes = append(r.codes, codes...)
}

type fixture struct {
	handler     *api.Handler
	store       *store.MemoryStore
	invalidator *recordingInvalidator
}

func newFixture(codes ...string) *fixture {
	s := store.NewMemoryStore()
	inv := &recordingInvalidator{}

	// Deterministic generator: hand out the given codes, then repeat the last.
	i := 0
	gen := func() string {
		if i < len(codes) {
			code := codes[i]
			i++

			return code
		}

		return codes[len(codes)-1]
	}

	return &fixture{
		handler:     api.NewHandler(s, inv, gen, "https://sho.rt", zap.NewNop()),
		store:       s,
		invalidator: inv,
	}
}

func createReq(code, target string, redirectType int) *api.CreateLinkRequest {
	req := &api.CreateLinkRequest{}
	req.Body.Code = code
	req.Body.Target = target
	req.Body.RedirectType = redirectType

	return req
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()

	require.Error(t, err)

	se, ok := err.(huma.StatusError)
	require.True(t, ok, "expected a status error, got %v", err)
	assert.Equal(t, status, se.GetStatus())
}

func TestHandler_CreateLink(t *testing.T) {
	ctx := context.Background()

	t.Run("custom code", func(t *testing.T) {
		f := newFixture("gen001")

		resp, err := f.handler.CreateLink(ctx, createReq("promo", "https://example.com", 301))

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.Status)
		assert.Equal(t, "promo", resp.Body.Code)
		assert.Equal(t, "https://sho.rt/promo", resp.Body.ShortURL)
		assert.Equal(t, 301, resp.Body.RedirectType)
	})

	t.Run("generated code retries past a collision", func(t *testing.T) {
		f := newFixture("taken1", "free22")

		_, err := f.handler.CreateLink(ctx, createReq("taken1", "https://example.com", 0))
		require.NoError(t, err)

		resp, err := f.handler.CreateLink(ctx, createReq("", "https://example.com/other", 0))

		require.NoError(t, err)
		assert.Equal(t, "free22", resp.Body.Code)
		assert.Equal(t, 302, resp.Body.RedirectType)
	})

	t.Run("duplicate custom code conflicts", func(t *testing.T) {
		f := newFixture("gen001")

		_, err := f.handler.CreateLink(ctx, createReq("promo", "https://example.com", 0))
		require.NoError(t, err)

		_, err = f.handler.CreateLink(ctx, createReq("promo", "https://other.com", 0))
		requireStatus(t, err, http.StatusConflict)
	})

	t.Run("rejects bad targets", func(t *testing.T) {
		f := newFixture("gen001")

		for _, target := range []string{"", "ftp://example.com", "javascript:alert(1)", "example.com", "https://"} {
			_, err := f.handler.CreateLink(ctx, createReq("", target, 0))
			requireStatus(t, err, http.StatusBadRequest)
		}
	})

	t.Run("rejects bad custom codes", func(t *testing.T) {
		f := newFixture("gen001")

		for _, code := range []string{"ab", "has space", "sla/sh", "ünïcode"} {
			_, err := f.handler.CreateLink(ctx, createReq(code, "https://example.com", 0))
			requireStatus(t, err, http.StatusBadRequest)
		}
	})

	t.Run("unknown redirect type falls back to 302", func(t *testing.T) {
		f := newFixture("gen001")

		resp, err := f.handler.CreateLink(ctx, createReq("promo", "https://example.com", 307))

		require.NoError(t, err)
		assert.Equal(t, 302, resp.Body.RedirectType)
	})
}

func TestHandler_GetLink(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the link by id", func(t *testing.T) {
		f := newFixture("gen001")
		created, err := f.handler.CreateLink(ctx, createReq("promo", "https://example.com", 0))
		require.NoError(t, err)

		resp, err := f.handler.GetLink(ctx, &api.GetLinkRequest{ID: created.Body.ID})

		require.NoError(t, err)
		assert.Equal(t, "promo", resp.Body.Code)
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		f := newFixture("gen001")

		_, err := f.handler.GetLink(ctx, &api.GetLinkRequest{ID: 999})
		requireStatus(t, err, http.StatusNotFound)
	})
}

func TestHandler_UpdateLink(t *testing.T) {
	ctx := context.Background()

	t.Run("rename invalidates both codes", func(t *testing.T) {
		f := newFixture("gen001")
		created, err := f.handler.CreateLink(ctx, createReq("old-code", "https://example.com", 0))
		require.NoError(t, err)

		req := &api.UpdateLinkRequest{ID: created.Body.ID}
		req.Body.Code = "new-code"
		req.Body.Target = "https://example.com/moved"
		req.Body.RedirectType = 301

		resp, err := f.handler.UpdateLink(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, "new-code", resp.Body.Code)
		assert.Equal(t, 301, resp.Body.RedirectType)
		assert.Contains(t, f.invalidator.codes, "old-code")
		assert.Contains(t, f.invalidator.codes, "new-code")

		_, err = f.store.FindByCode(ctx, "old-code")
		assert.ErrorIs(t, err, shortlink.ErrNotFound)
	})

	t.Run("rename onto an existing code conflicts", func(t *testing.T) {
		f := newFixture("gen001")
		_, err := f.handler.CreateLink(ctx, createReq("first1", "https://a.com", 0))
		require.NoError(t, err)

		created, err := f.handler.CreateLink(ctx, createReq("second", "https://b.com", 0))
		require.NoError(t, err)

		req := &api.UpdateLinkRequest{ID: created.Body.ID}
		req.Body.Code = "first1"
		req.Body.Target = "https://b.com"

		_, err = f.handler.UpdateLink(ctx, req)
		requireStatus(t, err, http.StatusConflict)
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		f := newFixture("gen001")

		req := &api.UpdateLinkRequest{ID: 999}
		req.Body.Code = "abc123"
		req.Body.Target = "https://example.com"

		_, err := f.handler.UpdateLink(ctx, req)
		requireStatus(t, err, http.StatusNotFound)
	})
}

func TestHandler_DeleteLink(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the link, its clicks and its cache entry", func(t *testing.T) {
		f := newFixture("gen001")
		created, err := f.handler.CreateLink(ctx, createReq("promo", "https://example.com", 0))
		require.NoError(t, err)

		_, err = f.store.Attribute(ctx, &shortlink.Click{Code: "promo", Target: "https://example.com", IP: "1.2.3.4"})
		require.NoError(t, err)

		resp, err := f.handler.DeleteLink(ctx, &api.DeleteLinkRequest{ID: created.Body.ID})

		require.NoError(t, err)
		assert.True(t, resp.Body.Deleted)
		assert.Contains(t, f.invalidator.codes, "promo")

		count, _ := f.store.CountClicks(ctx, "promo")
		assert.Zero(t, count)
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		f := newFixture("gen001")

		_, err := f.handler.DeleteLink(ctx, &api.DeleteLinkRequest{ID: 999})
		requireStatus(t, err, http.StatusNotFound)
	})
}

func TestHandler_ListLinks(t *testing.T) {
	ctx := context.Background()

	f := newFixture("gen001")
	_, err := f.handler.CreateLink(ctx, createReq("promo1", "https://shop.example.com", 0))
	require.NoError(t, err)
	_, err = f.handler.CreateLink(ctx, createReq("docs99", "https://docs.example.com", 0))
	require.NoError(t, err)

	t.Run("search narrows the listing", func(t *testing.T) {
		resp, err := f.handler.ListLinks(ctx, &api.ListLinksRequest{Search: "shop"})

		require.NoError(t, err)
		require.Len(t, resp.Body.Links, 1)
		assert.Equal(t, "promo1", resp.Body.Links[0].Code)
	})

	t.Run("ascending code order", func(t *testing.T) {
		resp, err := f.handler.ListLinks(ctx, &api.ListLinksRequest{SortBy: "code", Order: "asc"})

		require.NoError(t, err)
		require.Len(t, resp.Body.Links, 2)
		assert.Equal(t, "docs99", resp.Body.Links[0].Code)
	})
}

func TestHandler_ListClicks(t *testing.T) {
	ctx := context.Background()

	f := newFixture("gen001")
	_, err := f.handler.CreateLink(ctx, createReq("promo", "https://example.com", 0))
	require.NoError(t, err)

	for _, ip := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		_, err = f.store.Attribute(ctx, &shortlink.Click{Code: "promo", Target: "https://example.com", IP: ip})
		require.NoError(t, err)
	}

	resp, err := f.handler.ListClicks(ctx, &api.ListClicksRequest{Code: "promo", Limit: 2})

	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Body.Total)
	require.Len(t, resp.Body.Clicks, 2)
	assert.Equal(t, "3.3.3.3", resp.Body.Clicks[0].IP)
}

func TestHandler_GetStats(t *testing.T) {
	ctx := context.Background()

	f := newFixture("gen001")
	_, err := f.handler.CreateLink(ctx, createReq("promo", "https://example.com", 0))
	require.NoError(t, err)

	_, err = f.store.Attribute(ctx, &shortlink.Click{Code: "promo", Target: "https://example.com", IP: "1.2.3.4"})
	require.NoError(t, err)

	resp, err := f.handler.GetStats(ctx, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Body.TotalLinks)
	assert.Equal(t, int64(1), resp.Body.TotalClicks)
}
