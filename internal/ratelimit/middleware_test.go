package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/devaakutty/Shashi-backend/internal/common"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
}

func serve(h http.Handler, method string, mutate func(*http.Request) *http.Request) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/invoices", nil)
	if mutate != nil {
		req = mutate(req)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestMiddlewareEnforcesLimit(t *testing.T) {
	h := Handler{Limiter: NewMemoryLimiter(1, time.Minute)}.Middleware(okHandler())

	first := serve(h, http.MethodPost, nil)
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := serve(h, http.MethodPost, nil)
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	require.NotEmpty(t, second.Header().Get("Retry-After"))
	require.Contains(t, second.Body.String(), CodeRateLimited)
}

func TestMiddlewareWritesOnly(t *testing.T) {
	h := Handler{Limiter: NewMemoryLimiter(1, time.Minute), WritesOnly: true}.Middleware(okHandler())
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, serve(h, http.MethodGet, nil).Code)
	}
	require.Equal(t, http.StatusOK, serve(h, http.MethodPost, nil).Code)
	require.Equal(t, http.StatusTooManyRequests, serve(h, http.MethodDelete, nil).Code)
}

func TestMiddlewareBucketsByActor(t *testing.T) {
	h := Handler{Limiter: NewMemoryLimiter(1, time.Minute)}.Middleware(okHandler())
	as := func(id string) func(*http.Request) *http.Request {
		return func(r *http.Request) *http.Request {
			return r.WithContext(common.WithUserID(r.Context(), id))
		}
	}
	require.Equal(t, http.StatusOK, serve(h, http.MethodPost, as("a")).Code)
	require.Equal(t, http.StatusOK, serve(h, http.MethodPost, as("b")).Code)
	require.Equal(t, http.StatusTooManyRequests, serve(h, http.MethodPost, as("a")).Code)
}

func TestRedisLimiterSharedAcrossHandlers(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	l1, err := NewRedisLimiter(client, 2, time.Minute)
	require.NoError(t, err)
	l2, err := NewRedisLimiter(client, 2, time.Minute)
	require.NoError(t, err)
	key := func(*http.Request) string { return "static" }
	h1 := Handler{Limiter: l1, Key: key}.Middleware(okHandler())
	h2 := Handler{Limiter: l2, Key: key}.Middleware(okHandler())

	require.Equal(t, http.StatusOK, serve(h1, http.MethodPost, nil).Code)
	require.Equal(t, http.StatusOK, serve(h2, http.MethodPost, nil).Code)
	require.Equal(t, http.StatusTooManyRequests, serve(h1, http.MethodPost, nil).Code)
}

func TestMiddlewareFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l, err := NewRedisLimiter(client, 1, time.Minute)
	require.NoError(t, err)
	mr.Close()

	h := Handler{Limiter: l}.Middleware(okHandler())
	require.Equal(t, http.StatusOK, serve(h, http.MethodPost, nil).Code)
}
