package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUCacheWithoutTTLNeverExpires(t *testing.T) {
	c := NewLRUCache[int](4, 0)
	base := time.Now()
	c.now = func() time.Time { return base }

	c.Set("a", 1)
	c.now = func() time.Time { return base.Add(100 * 24 * time.Hour) }

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 0, c.CleanExpired())
}

func TestLRUCacheTTL(t *testing.T) {
	c := NewLRUCache[string](4, time.Minute)
	base := time.Now()
	c.now = func() time.Time { return base }

	c.Set("k", "v")
	c.Set("other", "w")
	c.now = func() time.Time { return base.Add(2 * time.Minute) }

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 1, c.CleanExpired())
	assert.Equal(t, 0, c.Size())
}

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	_, _ = c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "b should have been evicted")
	assert.ElementsMatch(t, []string{"a", "c"}, c.Keys())
}

func TestLRUCacheDeleteAndClear(t *testing.T) {
	c := NewLRUCache[int](8, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)

	v, _ := c.Get("a")
	assert.Equal(t, 10, v)

	c.Delete("a")
	assert.Equal(t, 1, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())
	assert.Empty(t, c.Keys())
}

func TestLRUCacheConcurrentAccess(t *testing.T) {
	c := NewLRUCache[int](16, 0)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set("shared", n)
				_, _ = c.Get("shared")
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, c.Size())
}
