package cache

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

const DefaultCapacity = 100

type Producer[V any] func(ctx context.Context) (V, error)

// KeyedFutureCache deduplicates concurrent work per key. The future for a key
// is stored before its producer starts so later callers attach to it. Failed
// futures are removed, successful ones stay until evicted or invalidated.
type KeyedFutureCache[K comparable, V any] struct {
	name     string
	capacity int
	policy   EvictionPolicy[K]

	mu      sync.Mutex
	entries map[K]*Future[V]
}

func NewKeyedFutureCache[K comparable, V any](name string, capacity int, policy EvictionPolicy[K]) *KeyedFutureCache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if policy == nil {
		policy = NewFIFO[K]()
	}
	return &KeyedFutureCache[K, V]{
		name:     name,
		capacity: capacity,
		policy:   policy,
		entries:  make(map[K]*Future[V]),
	}
}

// GetOrFetch returns the future stored for key, or stores a new one and runs
// producer for it. The producer keeps running when ctx is cancelled since
// other callers may be waiting on the same key.
func (c *KeyedFutureCache[K, V]) GetOrFetch(ctx context.Context, key K, producer Producer[V]) *Future[V] {
	c.mu.Lock()
	if f, ok := c.entries[key]; ok {
		c.mu.Unlock()
		if f.Settled() {
			hits.WithLabelValues(c.name).Inc()
		} else {
			shared.WithLabelValues(c.name).Inc()
		}
		return f
	}
	f := newFuture[V]()
	c.entries[key] = f
	c.policy.Added(key)
	entries.WithLabelValues(c.name).Set(float64(len(c.entries)))
	c.mu.Unlock()

	misses.WithLabelValues(c.name).Inc()
	go c.run(context.WithoutCancel(ctx), key, f, producer)
	return f
}

func (c *KeyedFutureCache[K, V]) run(ctx context.Context, key K, f *Future[V], producer Producer[V]) {
	value, err := producer(ctx)

	c.mu.Lock()
	if err != nil {
		if c.entries[key] == f {
			c.remove(key)
		}
		c.mu.Unlock()
		failures.WithLabelValues(c.name).Inc()
		log.WithError(err).WithField("cache", c.name).Debug("Dropping failed entry")
		f.err = err
		close(f.done)
		return
	}
	f.value = value
	c.evict()
	c.mu.Unlock()
	close(f.done)
}

func (c *KeyedFutureCache[K, V]) remove(key K) {
	delete(c.entries, key)
	c.policy.Removed(key)
	entries.WithLabelValues(c.name).Set(float64(len(c.entries)))
}

// evict drops one entry when the cache is over capacity. Callers hold mu.
func (c *KeyedFutureCache[K, V]) evict() {
	if len(c.entries) <= c.capacity {
		return
	}
	victim, ok := c.policy.Victim()
	if !ok {
		return
	}
	c.remove(victim)
	evictions.WithLabelValues(c.name).Inc()
	log.WithFields(log.Fields{"cache": c.name, "key": victim}).Debug("Evicted entry")
}

// Seed stores an already known value so the next lookup for key is a hit.
// A seeded key keeps its original insertion position when it already exists.
func (c *KeyedFutureCache[K, V]) Seed(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		c.policy.Added(key)
	}
	c.entries[key] = Resolved(value)
	seeds.WithLabelValues(c.name).Inc()
	entries.WithLabelValues(c.name).Set(float64(len(c.entries)))
	c.evict()
}

func (c *KeyedFutureCache[K, V]) Invalidate(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		return false
	}
	c.remove(key)
	return true
}

func (c *KeyedFutureCache[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

func (c *KeyedFutureCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
