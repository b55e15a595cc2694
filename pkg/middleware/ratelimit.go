package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/flowerr"
)

// TokenBucket is a classic token-bucket rate limiter: tokens refill
// continuously at rate per second up to capacity, and each Allow call
// consumes one token if available.
type TokenBucket struct {
	rate       float64
	capacity   int64
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a bucket refilling at rate tokens/second, holding
// at most capacity tokens. It starts full.
func NewTokenBucket(rate float64, capacity int64) *TokenBucket {
	return &TokenBucket{
		rate:       rate,
		capacity:   capacity,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// Allow reports whether a request may proceed, consuming one token if so.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.lastRefill = now

	tb.tokens += elapsed * tb.rate
	if tb.tokens > float64(tb.capacity) {
		tb.tokens = float64(tb.capacity)
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// Reset refills the bucket to capacity.
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.tokens = float64(tb.capacity)
	tb.lastRefill = time.Now()
}

// perClientLimiter hands out one TokenBucket per client key. Buckets are
// never evicted: the reference HTTP binding serves bounded internal
// traffic, not a public endpoint exposed to an unbounded set of clients.
type perClientLimiter struct {
	mu       sync.Mutex
	rate     float64
	capacity int64
	buckets  map[string]*TokenBucket
}

func newPerClientLimiter(rate float64, capacity int64) *perClientLimiter {
	return &perClientLimiter{rate: rate, capacity: capacity, buckets: make(map[string]*TokenBucket)}
}

func (l *perClientLimiter) allow(key string) bool {
	l.mu.Lock()
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = NewTokenBucket(l.rate, l.capacity)
		l.buckets[key] = bucket
	}
	l.mu.Unlock()
	return bucket.Allow()
}

// RateLimit throttles requests per client address using a token bucket per
// client, rejecting with flowerr.ResourceLimit (mapped to 409 by
// flowerr.HTTPStatus, matching every other FlowError in the reference
// binding) once a client's bucket is empty.
func RateLimit(rate float64, capacity int64) Middleware {
	limiter := newPerClientLimiter(rate, capacity)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			if !limiter.allow(key) {
				writeError(w, r, flowerr.ResourceLimitf("rate limit exceeded for client %q", key))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
