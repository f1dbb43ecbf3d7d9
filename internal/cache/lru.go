package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRU is a size-bounded map whose entries expire ttl after they were last
// written. Reads refresh recency but not expiry.
type LRU[V any] struct {
	capacity int
	ttl      time.Duration
	clock    func() time.Time

	mu    sync.Mutex
	index map[string]*list.Element
	order *list.List // front is most recently used
}

type entry[V any] struct {
	key     string
	value   V
	expires time.Time
}

// NewLRU returns an empty cache holding at most capacity entries.
func NewLRU[V any](capacity int, ttl time.Duration) *LRU[V] {
	return &LRU[V]{
		capacity: max(capacity, 1),
		ttl:      ttl,
		clock:    time.Now,
		index:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// WithClock swaps the time source.
func (c *LRU[V]) WithClock(clock func() time.Time) *LRU[V] {
	c.clock = clock
	return c
}

func (c *LRU[V]) Get(key string) (v V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, found := c.index[key]
	if !found {
		return v, false
	}
	e := el.Value.(*entry[V])
	if e.expires.Before(c.clock()) {
		c.drop(el)
		return v, false
	}
	c.order.MoveToFront(el)
	return e.value, true
}

func (c *LRU[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry[V]{key: key, value: value, expires: c.clock().Add(c.ttl)}
	if el, found := c.index[key]; found {
		el.Value = e
		c.order.MoveToFront(el)
		return
	}
	c.index[key] = c.order.PushFront(e)
	for c.order.Len() > c.capacity {
		c.drop(c.order.Back())
	}
}

func (c *LRU[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, found := c.index[key]; found {
		c.drop(el)
	}
}

// Len counts entries, including expired ones not yet swept.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Expire drops every expired entry and reports how many went.
func (c *LRU[V]) Expire() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	n := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if el.Value.(*entry[V]).expires.Before(now) {
			c.drop(el)
			n++
		}
		el = prev
	}
	return n
}

// drop must be called with mu held.
func (c *LRU[V]) drop(el *list.Element) {
	delete(c.index, el.Value.(*entry[V]).key)
	c.order.Remove(el)
}
