// Package ratelimit provides per-caller HTTP rate limiting for cmd/vaultd,
// a token-bucket-per-key design applied here to vault callers instead of
// database-query clients.
package ratelimit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// errorResponse is the body written when a caller is throttled.
type errorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}

// Limiter rate-limits requests per key (typically the X-Vault-Caller
// identity, falling back to remote address for unauthenticated requests).
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	rate    rate.Limit
	burst   int
	maxIdle time.Duration
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a Limiter allowing r events per second per key, with the
// given burst, evicting keys idle for longer than 5 minutes.
func New(r rate.Limit, burst int) *Limiter {
	l := &Limiter{
		entries: make(map[string]*entry),
		rate:    r,
		burst:   burst,
		maxIdle: 5 * time.Minute,
	}
	go l.evictLoop()
	return l
}

// AllowWithRetry reports whether a request from key is allowed now, and if
// not, how long the caller should wait before retrying.
func (l *Limiter) AllowWithRetry(key string) (allowed bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = time.Now()

	reservation := e.limiter.Reserve()
	if !reservation.OK() {
		return false, time.Minute
	}
	if delay := reservation.Delay(); delay > 0 {
		reservation.Cancel()
		return false, delay
	}
	return true, 0
}

func (l *Limiter) evictLoop() {
	ticker := time.NewTicker(l.maxIdle)
	defer ticker.Stop()
	for range ticker.C {
		l.mu.Lock()
		cutoff := time.Now().Add(-l.maxIdle)
		for key, e := range l.entries {
			if e.lastSeen.Before(cutoff) {
				delete(l.entries, key)
			}
		}
		l.mu.Unlock()
	}
}

// Middleware builds HTTP middleware that rate-limits each request by the
// key keyFn extracts from it.
func Middleware(l *Limiter, keyFn func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, retryAfter := l.AllowWithRetry(keyFn(r))
			if !allowed {
				retrySeconds := int(retryAfter.Seconds())
				if retrySeconds < 1 {
					retrySeconds = 1
				}
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", fmt.Sprintf("%d", retrySeconds))
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(errorResponse{
					Error:      "rate_limit_exceeded",
					Message:    "too many requests, slow down",
					RetryAfter: retrySeconds,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
