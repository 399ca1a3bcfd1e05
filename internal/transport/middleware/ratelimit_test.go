package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func limitedHandler(rl *RateLimiter, perMinute int) http.Handler {
	return rl.Limit(perMinute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func searchFrom(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search?q=dame", nil)
	req.RemoteAddr = remoteAddr
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()
	h := limitedHandler(rl, 10)

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, searchFrom(h, "1.2.3.4:1234").Code, "request %d should be allowed", i)
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()
	h := limitedHandler(rl, 5)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, searchFrom(h, "1.2.3.4:1234").Code)
	}

	rec := searchFrom(h, "1.2.3.4:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "13", rec.Header().Get("Retry-After"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")
}

func TestRateLimiter_PortsShareBucket(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()
	h := limitedHandler(rl, 1)

	assert.Equal(t, http.StatusOK, searchFrom(h, "1.2.3.4:1000").Code)
	assert.Equal(t, http.StatusTooManyRequests, searchFrom(h, "1.2.3.4:2000").Code)
}

func TestRateLimiter_DifferentIPsIndependent(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()
	h := limitedHandler(rl, 1)

	assert.Equal(t, http.StatusOK, searchFrom(h, "1.1.1.1:1").Code)
	assert.Equal(t, http.StatusOK, searchFrom(h, "2.2.2.2:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, searchFrom(h, "1.1.1.1:1").Code)
}

func TestRateLimiter_Refills(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }
	h := limitedHandler(rl, 60)

	for i := 0; i < 60; i++ {
		searchFrom(h, "1.2.3.4:1")
	}
	assert.Equal(t, http.StatusTooManyRequests, searchFrom(h, "1.2.3.4:1").Code)

	clock = clock.Add(time.Second)
	assert.Equal(t, http.StatusOK, searchFrom(h, "1.2.3.4:1").Code)
}

func TestRateLimiter_EvictsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(time.Hour)
	defer rl.Stop()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return start }
	searchFrom(limitedHandler(rl, 10), "1.2.3.4:1")

	rl.evictIdle(start.Add(bucketIdleTTL + time.Second))

	_, ok := rl.buckets.Load("1.2.3.4")
	assert.False(t, ok)
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	rl.Stop()
	rl.Stop()
}
