package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

const defaultJanitorInterval = 2 * time.Minute

type entry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// LRUCache is a size-bounded cache with a per-entry TTL. Values are opaque bytes
// so callers never share mutable state through it.
type LRUCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List
	items    map[string]*list.Element

	// generation grows on every Delete
	generation uint64

	janitorInterval time.Duration
	now             func() time.Time
}

type Option func(*LRUCache)

func WithClock(now func() time.Time) Option {
	return func(c *LRUCache) { c.now = now }
}

func WithJanitorInterval(d time.Duration) Option {
	return func(c *LRUCache) { c.janitorInterval = d }
}

func NewLRUCache(capacity int, ttl time.Duration, opts ...Option) *LRUCache {
	c := &LRUCache{
		capacity:        capacity,
		ttl:             ttl,
		order:           list.New(),
		items:           make(map[string]*list.Element),
		janitorInterval: defaultJanitorInterval,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *LRUCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	ent := el.Value.(*entry)
	if c.expired(ent) {
		c.remove(el)
		return nil, false
	}
	c.order.MoveToFront(el)
	return ent.value, true
}

func (c *LRUCache) Set(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, value)
}

func (c *LRUCache) set(key string, value []byte) {
	expiresAt := c.now().Add(c.ttl)
	if el, ok := c.items[key]; ok {
		ent := el.Value.(*entry)
		ent.value = value
		ent.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	c.items[key] = c.order.PushFront(&entry{key: key, value: value, expiresAt: expiresAt})
	for c.order.Len() > c.capacity {
		c.remove(c.order.Back())
	}
}

// Delete drops key and starts a new generation, also for absent keys.
func (c *LRUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	if el, ok := c.items[key]; ok {
		c.remove(el)
	}
}

// Generation identifies the invalidations seen so far. Take it before reading the
// source of truth and pass it to SetIfUnchanged.
func (c *LRUCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// SetIfUnchanged stores value only if no Delete happened since generation was taken,
// so a read that raced an invalidation cannot bring the old value back.
func (c *LRUCache) SetIfUnchanged(key string, value []byte, generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != generation {
		return false
	}
	c.set(key, value)
	return true
}

func (c *LRUCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Start runs the janitor until ctx is done.
func (c *LRUCache) Start(ctx context.Context) error {
	go func() {
		ticker := time.NewTicker(c.janitorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Purge()
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Purge removes every expired entry.
func (c *LRUCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if c.expired(el.Value.(*entry)) {
			c.remove(el)
		}
		el = prev
	}
}

func (c *LRUCache) expired(ent *entry) bool {
	return c.now().After(ent.expiresAt)
}

func (c *LRUCache) remove(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
