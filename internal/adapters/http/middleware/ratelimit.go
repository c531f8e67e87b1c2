package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// idleVisitorTTL is how long a client may stay quiet before its bucket is dropped.
const idleVisitorTTL = 5 * time.Minute

// RateLimiter is a per-client token bucket. Buckets refill continuously at
// rate tokens per interval and hold at most rate tokens.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	rate      float64
	perToken  time.Duration
	now       func() time.Time
	lastSweep time.Time
}

type bucket struct {
	tokens   float64
	refilled time.Time
}

// NewRateLimiter creates a limiter allowing rate requests per interval for each client.
// PRE: rate > 0, interval > 0
func NewRateLimiter(rate int, interval time.Duration) *RateLimiter {
	return newRateLimiter(rate, interval, time.Now)
}

func newRateLimiter(rate int, interval time.Duration, now func() time.Time) *RateLimiter {
	if rate < 1 {
		rate = 1
	}
	return &RateLimiter{
		buckets:   make(map[string]*bucket),
		rate:      float64(rate),
		perToken:  interval / time.Duration(rate),
		now:       now,
		lastSweep: now(),
	}
}

// Allow takes one token from client's bucket.
// POST: Returns (true, 0) when a token was available, otherwise false and
// the wait until the next token
func (rl *RateLimiter) Allow(client string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	b, ok := rl.buckets[client]
	if !ok {
		b = &bucket{tokens: rl.rate, refilled: now}
		rl.buckets[client] = b
	}
	if elapsed := now.Sub(b.refilled); elapsed > 0 && rl.perToken > 0 {
		b.tokens = math.Min(rl.rate, b.tokens+float64(elapsed)/float64(rl.perToken))
		b.refilled = now
	}
	if b.tokens < 1 {
		wait := time.Duration((1 - b.tokens) * float64(rl.perToken))
		return false, wait
	}
	b.tokens--
	return true, 0
}

// Len reports how many client buckets are tracked.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// sweep drops idle buckets at most once per minute. Caller holds mu.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < time.Minute {
		return
	}
	rl.lastSweep = now
	for client, b := range rl.buckets {
		if now.Sub(b.refilled) > idleVisitorTTL {
			delete(rl.buckets, client)
		}
	}
}

// RateLimit returns middleware that rejects clients over their budget with
// a JSON 429 and a Retry-After header. Clients are keyed by remote host.
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientHost(r.RemoteAddr)
			if ok, wait := limiter.Allow(client); !ok {
				slog.Warn("rate_limit_exceeded", "client", client, "path", r.URL.Path)
				secs := int(math.Ceil(wait.Seconds()))
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				writeJSONError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientHost(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
