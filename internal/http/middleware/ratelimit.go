package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Limiter interface {
	Allow(key string, limit int, window time.Duration) bool
}

// RateLimiter is the in-process fallback when redis is not configured: a
// token bucket per key sized to the requested window, with idle entries
// evicted lazily.
type RateLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	idleTTL time.Duration
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{entries: make(map[string]*limiterEntry), idleTTL: 15 * time.Minute}
}

func (r *RateLimiter) Allow(key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	entry, ok := r.entries[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(float64(limit)/window.Seconds()), limit)}
		r.entries[key] = entry
		r.evictIdle(now)
	}
	entry.lastSeen = now
	return entry.limiter.Allow()
}

func (r *RateLimiter) evictIdle(now time.Time) {
	for key, entry := range r.entries {
		if now.Sub(entry.lastSeen) > r.idleTTL {
			delete(r.entries, key)
		}
	}
}
