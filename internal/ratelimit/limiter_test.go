package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, cfg Config) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(cfg)
	t.Cleanup(rl.Stop)
	return rl
}

func TestAllow_WithinBurst(t *testing.T) {
	rl := newTestLimiter(t, Config{RPS: 1, Burst: 3, CleanupInterval: time.Hour})

	for i := 0; i < 3; i++ {
		require.True(t, rl.Allow("10.0.0.1"), "request %d should pass within burst", i)
	}
	require.False(t, rl.Allow("10.0.0.1"), "request past burst should be limited")
}

func TestAllow_ClientsAreIndependent(t *testing.T) {
	rl := newTestLimiter(t, Config{RPS: 1, Burst: 1, CleanupInterval: time.Hour})

	require.True(t, rl.Allow("10.0.0.1"))
	require.False(t, rl.Allow("10.0.0.1"))
	require.True(t, rl.Allow("10.0.0.2"), "a different client has its own bucket")
}

func TestGetLimiter_ReusesEntry(t *testing.T) {
	rl := newTestLimiter(t, DefaultConfig)

	first := rl.GetLimiter("10.0.0.1")
	second := rl.GetLimiter("10.0.0.1")
	require.Same(t, first, second)
	require.Equal(t, 1, rl.Len())
}

func TestCleanup_RemovesIdleEntries(t *testing.T) {
	rl := newTestLimiter(t, Config{RPS: 1, Burst: 1, CleanupInterval: 10 * time.Millisecond})

	rl.Allow("10.0.0.1")
	require.Equal(t, 1, rl.Len())

	time.Sleep(20 * time.Millisecond)
	rl.Cleanup()
	require.Equal(t, 0, rl.Len())
}

func TestMiddleware_LimitExceededIs429(t *testing.T) {
	rl := newTestLimiter(t, Config{RPS: 1, Burst: 1, CleanupInterval: time.Hour})

	handler := Middleware(rl, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.RemoteAddr = "10.0.0.1:54321"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "1", rec.Header().Get("Retry-After"))
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	require.JSONEq(t, `{"status":"error","message":"rate limit exceeded"}`, rec.Body.String())
}

func TestMiddleware_KeysByHostNotPort(t *testing.T) {
	rl := newTestLimiter(t, Config{RPS: 1, Burst: 1, CleanupInterval: time.Hour})

	handler := Middleware(rl, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRequest(http.MethodGet, "/notes", nil)
	first.RemoteAddr = "10.0.0.1:1111"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	// Same host on a new ephemeral port shares the bucket.
	second := httptest.NewRequest(http.MethodGet, "/notes", nil)
	second.RemoteAddr = "10.0.0.1:2222"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}
