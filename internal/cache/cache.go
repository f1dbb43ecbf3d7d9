// Package cache provides a size-bounded TTL cache and a janitor that sweeps
// expired entries from registered caches.
package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Expirer is implemented by caches that can drop expired entries.
type Expirer interface {
	Expire() int
}

// Manager periodically cleans every registered cache.
type Manager struct {
	mu     sync.Mutex
	caches []Expirer
	logger *slog.Logger
}

// NewManager creates a new cache manager
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger}
}

// Register adds a cache to the manager for cleanup
func (m *Manager) Register(c Expirer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caches = append(m.caches, c)
}

// Sweep cleans all registered caches once and returns the number of entries
// removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	caches := append([]Expirer(nil), m.caches...)
	m.mu.Unlock()

	total := 0
	for _, c := range caches {
		total += c.Expire()
	}
	return total
}

// Run sweeps on every tick until ctx is cancelled. It always returns nil so
// it can run inside an errgroup next to the server.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Debug("Expired cache entries removed", "count", n)
			}
		case <-ctx.Done():
			return nil
		}
	}
}
