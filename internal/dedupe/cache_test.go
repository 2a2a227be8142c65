// ABOUTME: Tests for the bounded recency cache used to collapse duplicate chat lines.
// ABOUTME: Validates size limits, insertion-order eviction, updates, and concurrency safety.

package dedupe

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Get_NotSeen(t *testing.T) {
	cache := New(100)

	_, ok := cache.Get("never-seen-key")
	assert.False(t, ok)
}

func TestCache_PutAndGet(t *testing.T) {
	cache := New(100)

	cache.Put("my-key", Record{LastMessageID: 7, Count: 2})

	got, ok := cache.Get("my-key")
	require.True(t, ok)
	assert.Equal(t, Record{LastMessageID: 7, Count: 2}, got)
}

func TestCache_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultMaxSize, New(0).Capacity())
	assert.Equal(t, DefaultMaxSize, New(-3).Capacity())
	assert.Equal(t, 300, New(300).Capacity())
}

func TestCache_Eviction(t *testing.T) {
	cache := New(2)

	cache.Put("A", Record{Count: 1})
	cache.Put("B", Record{Count: 1})
	evicted, ok := cache.Put("C", Record{Count: 1})

	require.True(t, ok)
	assert.Equal(t, "A", evicted)
	assert.Equal(t, []string{"B", "C"}, cache.Keys())

	_, ok = cache.Get("A")
	assert.False(t, ok, "oldest key should be evicted")
}

func TestCache_ReinsertMovesToNewest(t *testing.T) {
	cache := New(2)

	cache.Put("A", Record{Count: 1})
	cache.Put("B", Record{Count: 1})
	cache.Put("C", Record{Count: 1})

	// Re-inserting B does not grow the cache; C becomes the oldest.
	_, evicted := cache.Put("B", Record{Count: 2})
	assert.False(t, evicted)
	assert.Equal(t, []string{"C", "B"}, cache.Keys())

	victim, _ := cache.Put("D", Record{Count: 1})
	assert.Equal(t, "C", victim)
	assert.Equal(t, []string{"B", "D"}, cache.Keys())
}

func TestCache_GetDoesNotRefresh(t *testing.T) {
	cache := New(2)

	cache.Put("first", Record{Count: 1})
	cache.Put("second", Record{Count: 1})

	_, ok := cache.Get("first")
	require.True(t, ok)

	victim, _ := cache.Put("third", Record{Count: 1})
	assert.Equal(t, "first", victim, "reads must not refresh insertion position")
}

func TestCache_EvictionBound(t *testing.T) {
	const capacity = 5
	cache := New(capacity)

	var inserted []string
	for i := 0; i < 50; i++ {
		key := fmt.Sprintf("key-%d", i%13)
		victim, evicted := cache.Put(key, Record{LastMessageID: i, Count: 1})

		// Track the model of insertion order.
		for j, k := range inserted {
			if k == key {
				inserted = append(inserted[:j], inserted[j+1:]...)
				break
			}
		}
		inserted = append(inserted, key)
		if len(inserted) > capacity {
			require.True(t, evicted)
			assert.Equal(t, inserted[0], victim)
			inserted = inserted[1:]
		} else {
			assert.False(t, evicted)
		}

		assert.LessOrEqual(t, cache.Len(), capacity)
		assert.Equal(t, inserted, cache.Keys())
	}
}

func TestCache_Remove(t *testing.T) {
	cache := New(100)
	cache.Put("gone", Record{LastMessageID: 3, Count: 4})

	got, ok := cache.Remove("gone")
	require.True(t, ok)
	assert.Equal(t, 4, got.Count)

	_, ok = cache.Remove("gone")
	assert.False(t, ok, "second remove reports absent")
	assert.Equal(t, 0, cache.Len())
}

func TestCache_Update(t *testing.T) {
	cache := New(3)
	cache.Put("x", Record{Count: 1, LastMessageID: 1})
	cache.Put("y", Record{Count: 1, LastMessageID: 2})

	got := cache.Update("x", func(r Record) Record {
		r.Count++
		r.LastMessageID = 10
		return r
	})

	assert.Equal(t, Record{Count: 2, LastMessageID: 10}, got)
	assert.Equal(t, []string{"y", "x"}, cache.Keys())

	fresh := cache.Update("z", func(r Record) Record {
		assert.Equal(t, Record{}, r)
		r.Count++
		return r
	})
	assert.Equal(t, 1, fresh.Count)
}

func TestCache_UpdateEvicts(t *testing.T) {
	cache := New(2)
	cache.Update("A", func(r Record) Record { r.Count++; return r })
	cache.Update("B", func(r Record) Record { r.Count++; return r })
	cache.Update("C", func(r Record) Record { r.Count++; return r })

	assert.Equal(t, []string{"B", "C"}, cache.Keys())
}

func TestCache_Clear(t *testing.T) {
	cache := New(100)
	cache.Put("one", Record{Count: 1})
	cache.Put("two", Record{Count: 1})

	cache.Clear()

	_, ok := cache.Get("one")
	assert.False(t, ok)
	_, ok = cache.Get("two")
	assert.False(t, ok)
	assert.Empty(t, cache.Keys())

	// Cache stays usable after clearing
	cache.Put("three", Record{Count: 1})
	assert.Equal(t, 1, cache.Len())
}

func TestCache_Concurrent(t *testing.T) {
	cache := New(1000)

	const numGoroutines = 50
	const opsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < opsPerGoroutine; j++ {
				cache.Update("shared", func(r Record) Record {
					r.Count++
					return r
				})
				cache.Get("shared")
			}
		}()
	}

	wg.Wait()

	got, ok := cache.Get("shared")
	require.True(t, ok)
	assert.Equal(t, numGoroutines*opsPerGoroutine, got.Count)
}
