package security

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter implements a per-client token bucket rate limiter
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	burst    int           // bucket capacity
	refill   time.Duration // time to earn one token back
	now      func() time.Time
}

type visitor struct {
	tokens   int
	lastSeen time.Time
	last     time.Time
	mu       sync.Mutex
}

// NewRateLimiter creates a new rate limiter
// burst: number of requests a fresh client may make at once
// refill: interval after which one more request is allowed
func NewRateLimiter(burst int, refill time.Duration) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		burst:    burst,
		refill:   refill,
		now:      time.Now,
	}
}

// Allow checks if a request from a client should be allowed
func (rl *RateLimiter) Allow(key string) bool {
	now := rl.now()

	rl.mu.Lock()
	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{tokens: rl.burst, last: now}
		rl.visitors[key] = v
	}
	rl.mu.Unlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	v.lastSeen = now
	if earned := int(now.Sub(v.last) / rl.refill); earned > 0 {
		v.tokens = min(rl.burst, v.tokens+earned)
		v.last = v.last.Add(time.Duration(earned) * rl.refill)
	}

	if v.tokens > 0 {
		v.tokens--
		return true
	}
	return false
}

// Cleanup removes visitors idle long enough to have a full bucket again
func (rl *RateLimiter) Cleanup() int {
	now := rl.now()
	idle := rl.refill * time.Duration(rl.burst+1)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for key, v := range rl.visitors {
		v.mu.Lock()
		if now.Sub(v.lastSeen) > idle {
			delete(rl.visitors, key)
			removed++
		}
		v.mu.Unlock()
	}
	return removed
}

// Run removes old visitor entries until ctx is cancelled
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Cleanup()
		}
	}
}

// Middleware rejects requests over the limit with 429
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(GetClientIP(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Too many requests. Please slow down.","code":"RATE_LIMITED"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClientIP extracts the client IP from the request
func GetClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (when behind proxy); the first entry is the client
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	// Fall back to RemoteAddr without the port
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
