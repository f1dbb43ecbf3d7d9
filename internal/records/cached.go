package records

import (
	"context"
	"sync"

	"expensetracker/internal/core"
	"expensetracker/internal/metrics"
)

// CachedStore keeps each user's record list in an LRU cache and drops the
// entry whenever that user's records change through this store.
type CachedStore struct {
	Store
	lists ListCache

	mu sync.Mutex
	// gens counts invalidations per user. A list read that started before
	// an invalidation must not be written back.
	gens map[string]uint64
}

// ListCache holds per-user record lists keyed by user ID.
type ListCache interface {
	Get(userID string) ([]core.Expense, bool)
	Set(userID string, list []core.Expense)
	Delete(userID string)
}

// NewCachedStore wraps next with the given list cache.
func NewCachedStore(next Store, lists ListCache) *CachedStore {
	return &CachedStore{Store: next, lists: lists, gens: make(map[string]uint64)}
}

func (c *CachedStore) ListForUser(ctx context.Context, userID string) ([]core.Expense, error) {
	if list, ok := c.lists.Get(userID); ok {
		metrics.RecordCache.WithLabelValues("hit").Inc()
		return clone(list), nil
	}
	metrics.RecordCache.WithLabelValues("miss").Inc()

	gen := c.generation(userID)
	list, err := c.Store.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.gens[userID] == gen {
		c.lists.Set(userID, clone(list))
	}
	c.mu.Unlock()
	return list, nil
}

func (c *CachedStore) Create(ctx context.Context, e core.Expense) (string, error) {
	id, err := c.Store.Create(ctx, e)
	if err == nil {
		c.invalidate(e.UserID)
	}
	return id, err
}

func (c *CachedStore) Update(ctx context.Context, id string, p Patch) error {
	owner := c.ownerOf(ctx, id)
	err := c.Store.Update(ctx, id, p)
	if err == nil {
		c.invalidate(owner)
	}
	return err
}

func (c *CachedStore) Delete(ctx context.Context, id string) error {
	owner := c.ownerOf(ctx, id)
	err := c.Store.Delete(ctx, id)
	if err == nil {
		c.invalidate(owner)
	}
	return err
}

// Ping forwards to the wrapped store when it supports health checks.
func (c *CachedStore) Ping(ctx context.Context) error {
	if p, ok := c.Store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// ownerOf looks up the record's owner so the right list can be dropped.
// An empty owner clears nothing; the entry then ages out through its TTL.
func (c *CachedStore) ownerOf(ctx context.Context, id string) string {
	e, err := c.Store.Get(ctx, id)
	if err != nil {
		return ""
	}
	return e.UserID
}

func (c *CachedStore) invalidate(userID string) {
	if userID == "" {
		return
	}
	c.mu.Lock()
	c.gens[userID]++
	c.lists.Delete(userID)
	c.mu.Unlock()
	metrics.RecordCache.WithLabelValues("invalidate").Inc()
}

func (c *CachedStore) generation(userID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[userID]
}

func clone(list []core.Expense) []core.Expense {
	out := make([]core.Expense, len(list))
	copy(out, list)
	return out
}
