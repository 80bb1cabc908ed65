package middleware

import (
	"net/http"
	"sync"
	"time"
)

// idleBucketTTL is how long an address may stay silent before its bucket
// is dropped.
const idleBucketTTL = 10 * time.Minute

// RateLimiter is a per-client token bucket.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	rate      float64 // tokens per second
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

type bucket struct {
	tokens float64
	seen   time.Time
}

// NewRateLimiter allows rate requests per second per client with bursts of
// up to burst requests. A burst below 1 is raised to 1.
func NewRateLimiter(rate float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		rate:    rate,
		burst:   burst,
		now:     time.Now,
	}
}

// Allow spends one token for key and reports whether one was available.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(rl.burst), seen: now}
		rl.buckets[key] = b
	}
	b.tokens += now.Sub(b.seen).Seconds() * rl.rate
	if b.tokens > float64(rl.burst) {
		b.tokens = float64(rl.burst)
	}
	b.seen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep drops idle buckets at most once per TTL. Callers hold rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < idleBucketTTL {
		return
	}
	rl.lastSweep = now
	for key, b := range rl.buckets {
		if now.Sub(b.seen) > idleBucketTTL {
			delete(rl.buckets, key)
		}
	}
}

func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// RateLimit rejects clients that exceed the limiter. Rejected requests are
// served by onLimit, or get 429 Too Many Requests when onLimit is nil. A
// nil limiter disables limiting.
func RateLimit(limiter *RateLimiter, onLimit http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			// chi's RealIP middleware rewrites RemoteAddr; the header is a fallback.
			if xri := r.Header.Get("X-Real-Ip"); xri != "" {
				ip = xri
			}
			if limiter.Allow(ip) {
				next.ServeHTTP(w, r)
				return
			}
			if onLimit != nil {
				onLimit.ServeHTTP(w, r)
				return
			}
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		})
	}
}
