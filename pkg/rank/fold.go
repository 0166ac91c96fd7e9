package rank

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultFoldCacheSize bounds the lowercase memoizer. Candidate names repeat
// on every keystroke, so a couple thousand entries covers a whole session.
const DefaultFoldCacheSize = 2000

// FoldCache memoizes lowercasing of hot strings. Entries are touched on hit
// and the oldest untouched entry is evicted once the cache is full.
//
// A FoldCache is scoped to one search session and is not safe for concurrent
// use; confine it to the goroutine running the ranking pipeline.
type FoldCache struct {
	cache *lru.Cache[string, string]
}

// NewFoldCache returns a cache bounded to capacity entries.
// Non-positive capacity falls back to DefaultFoldCacheSize.
func NewFoldCache(capacity int) *FoldCache {
	if capacity <= 0 {
		capacity = DefaultFoldCacheSize
	}
	cache, err := lru.New[string, string](capacity)
	if err != nil {
		// lru.New only fails on non-positive size, which is handled above.
		panic(err)
	}
	return &FoldCache{cache: cache}
}

// Fold returns the lowercase form of s, memoized.
func (f *FoldCache) Fold(s string) string {
	if folded, ok := f.cache.Get(s); ok {
		return folded
	}
	folded := strings.ToLower(s)
	f.cache.Add(s, folded)
	return folded
}

// Contains reports whether s is cached, without touching its recency.
func (f *FoldCache) Contains(s string) bool {
	return f.cache.Contains(s)
}

// Len returns the number of cached entries.
func (f *FoldCache) Len() int {
	return f.cache.Len()
}

// Clear drops all entries. Call when a search session ends.
func (f *FoldCache) Clear() {
	f.cache.Purge()
}
