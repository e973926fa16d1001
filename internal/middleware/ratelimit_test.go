package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shortenv/shortenv/internal/middleware"
	"github.com/shortenv/shortenv/internal/ratelimit"
	"github.com/shortenv/shortenv/internal/store"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (l *stubLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.keys = append(l.keys, key)

	return l.allowed, l.err
}

func serve(limiter ratelimit.Limiter, remoteAddr string) *httptest.ResponseRecorder {
	handler := middleware.RateLimit(limiter, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	r := httptest.NewRequest("GET", "/abc123", nil)
	r.RemoteAddr = remoteAddr

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	return w
}

func TestRateLimit(t *testing.T) {
	t.Run("allowed request passes through", func(t *testing.T) {
		limiter := &stubLimiter{allowed: true}

		w := serve(limiter, "1.2.3.4:9999")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"1.2.3.4"}, limiter.keys, "limited by client ip, not by port")
	})

	t.Run("denied request gets a 429 with retry-after", func(t *testing.T) {
		w := serve(&stubLimiter{allowed: false}, "1.2.3.4:9999")

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "60", w.Header().Get("Retry-After"))
	})

	t.Run("limiter failure fails open", func(t *testing.T) {
		w := serve(&stubLimiter{err: errors.New("redis down")}, "1.2.3.4:9999")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("end to end with the sliding window", func(t *testing.T) {
		limiter := ratelimit.NewSlidingWindowLimiter(store.NewRateLimitMemoryStore(), 2, time.Minute)

		assert.Equal(t, http.StatusOK, serve(limiter, "1.2.3.4:1111").Code)
		assert.Equal(t, http.StatusOK, serve(limiter, "1.2.3.4:2222").Code)
		assert.Equal(t, http.StatusTooManyRequests, serve(limiter, "1.2.3.4:3333").Code)
		assert.Equal(t, http.StatusOK, serve(limiter, "5.6.7.8:1111").Code)
	})
}
