// ABOUTME: Insertion-ordered, size-bounded cache of duplicate chat line records.
// ABOUTME: Used by the collapse coordinator, one cache per chat category.

package dedupe

import (
	"container/list"
	"sync"
)

// DefaultMaxSize is the capacity used when a category does not configure one.
const DefaultMaxSize = 100

// Record tracks how often a line of text has been ingested and which
// message id carried it most recently.
type Record struct {
	LastMessageID int
	Count         int
}

// cacheEntry stores the record and list element for a cached key.
type cacheEntry struct {
	record  Record
	element *list.Element
}

// Cache is a fixed-capacity map from message text to Record. Writes move a
// key to the newest position; reads never do. When a Put grows the cache past
// maxSize the single oldest-inserted key is dropped.
// Uses a doubly-linked list to maintain insertion order for O(1) eviction.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	order   *list.List // keys in insertion order (oldest at front)
	maxSize int
}

// New creates a cache holding at most maxSize keys. A non-positive maxSize
// falls back to DefaultMaxSize.
func New(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Cache{
		entries: make(map[string]*cacheEntry),
		order:   list.New(),
		maxSize: maxSize,
	}
}

// Get returns the record for key. It does not refresh the key's position.
func (c *Cache) Get(key string) (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return Record{}, false
	}
	return entry.record, true
}

// Put inserts or overwrites key and marks it most recently inserted.
// It returns the evicted key, if any.
func (c *Cache) Put(key string, record Record) (evicted string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.entries[key]; exists {
		entry.record = record
		c.order.MoveToBack(entry.element)
		return "", false
	}

	elem := c.order.PushBack(key)
	c.entries[key] = &cacheEntry{
		record:  record,
		element: elem,
	}

	if len(c.entries) > c.maxSize {
		return c.evictOldest()
	}
	return "", false
}

// Remove deletes key and returns the record it held.
func (c *Cache) Remove(key string) (Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return Record{}, false
	}
	c.order.Remove(entry.element)
	delete(c.entries, key)
	return entry.record, true
}

// Update applies fn to the current record for key (zero value when absent),
// then reinserts the result as the newest entry. The remove and put happen
// under one lock so concurrent ingests of the same text cannot lose counts.
func (c *Cache) Update(key string, fn func(Record) Record) Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	var current Record
	if entry, ok := c.entries[key]; ok {
		current = entry.record
		c.order.Remove(entry.element)
		delete(c.entries, key)
	}

	next := fn(current)
	c.entries[key] = &cacheEntry{
		record:  next,
		element: c.order.PushBack(key),
	}
	if len(c.entries) > c.maxSize {
		c.evictOldest()
	}
	return next
}

// evictOldest removes the oldest entry from the cache.
// Must be called with mu held.
func (c *Cache) evictOldest() (string, bool) {
	front := c.order.Front()
	if front == nil {
		return "", false
	}

	key, _ := front.Value.(string)
	c.order.Remove(front)
	delete(c.entries, key)
	return key, true
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order.Init()
}

// Len returns the number of cached keys.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Capacity returns the maximum number of keys the cache holds.
func (c *Cache) Capacity() int {
	return c.maxSize
}

// Keys returns the cached keys, oldest insertion first.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, c.order.Len())
	for e := c.order.Front(); e != nil; e = e.Next() {
		key, _ := e.Value.(string)
		keys = append(keys, key)
	}
	return keys
}
