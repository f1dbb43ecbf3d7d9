// Package ratelimit implements a fixed-window, per-client request limiter.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"expensetracker/internal/metrics"
)

const window = time.Minute

// Limiter counts requests per client key inside a one-minute window.
type Limiter struct {
	limit      int
	sweepEvery time.Duration
	idleAfter  time.Duration
	now        func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	done     chan struct{}
	stopOnce sync.Once
}

// bucket is one client's current window.
type bucket struct {
	opened time.Time
	seen   time.Time
	count  int
}

type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
	}
}

// NewLimiter creates a limiter and starts its janitor goroutine; call Stop
// to release it. Zero fields in config take the defaults.
func NewLimiter(config Config) *Limiter {
	def := DefaultConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = def.RequestsPerMinute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = def.CleanupInterval
	}

	rl := &Limiter{
		limit:      config.RequestsPerMinute,
		sweepEvery: config.CleanupInterval,
		idleAfter:  10 * time.Minute,
		now:        time.Now,
		buckets:    make(map[string]*bucket),
		done:       make(chan struct{}),
	}
	go rl.janitor()
	return rl
}

// Allow reports whether another request from key fits in the current window.
func (rl *Limiter) Allow(key string) bool {
	ok, _ := rl.take(key)
	return ok
}

// take counts one request and, when it is rejected, how long until the
// window reopens. Rejected requests still count, so a flood does not move
// the window.
func (rl *Limiter) take(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b := rl.buckets[key]
	if b == nil || now.Sub(b.opened) >= window {
		rl.buckets[key] = &bucket{opened: now, seen: now, count: 1}
		return true, 0
	}

	b.count++
	b.seen = now
	if b.count <= rl.limit {
		return true, 0
	}
	return false, window - now.Sub(b.opened)
}

func (rl *Limiter) janitor() {
	ticker := time.NewTicker(rl.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.done:
			return
		}
	}
}

// sweep forgets clients idle for longer than idleAfter.
func (rl *Limiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.idleAfter)
	for key, b := range rl.buckets {
		if b.seen.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

// ActiveClients returns the number of tracked clients.
func (rl *Limiter) ActiveClients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// Stop ends the janitor. It is safe to call more than once.
func (rl *Limiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

// retryAfterSeconds rounds d down to whole seconds, never below one.
func retryAfterSeconds(d time.Duration) int {
	if d < time.Second {
		return 1
	}
	return int(d / time.Second)
}

// Middleware rejects requests over the limit with a Retry-After header.
// extractKey picks the client key; onLimit renders the rejection and
// defaults to a plain 429.
func (rl *Limiter) Middleware(extractKey func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	if onLimit == nil {
		onLimit = func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, wait := rl.take(extractKey(r))
			if !ok {
				metrics.RateLimited.Inc()
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
				onLimit(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
