// Package cache keeps recently parsed syntax trees keyed by the content of their source.
package cache

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"tree-sitter-ucode/internal/application/common/slogger"
	"tree-sitter-ucode/internal/domain/grammar"
	"tree-sitter-ucode/internal/domain/syntax"
)

// TreeCache provides thread-safe caching of syntax trees with LRU eviction. Trees are
// immutable, so a cached tree can be handed to any number of callers.
type TreeCache struct {
	entries map[string]*list.Element
	lru     *list.List
	maxSize int
	mu      sync.Mutex
	stats   CacheStatistics
}

// CacheEntry represents a cached tree with metadata.
type CacheEntry struct {
	Key         string
	Tree        *syntax.Tree
	CreatedAt   time.Time
	AccessedAt  time.Time
	AccessCount int64
}

// CacheStatistics tracks cache performance metrics.
type CacheStatistics struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	TotalItems int64
	HitRate    float64
}

// NewTreeCache creates a cache holding at most maxSize trees.
func NewTreeCache(maxSize int) *TreeCache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &TreeCache{
		entries: make(map[string]*list.Element),
		lru:     list.New(),
		maxSize: maxSize,
	}
}

// Key derives the cache key of a source parsed with lang.
func Key(lang *grammar.Language, src []byte) string {
	hash := sha256.Sum256(src)
	return lang.Name() + ":" + hex.EncodeToString(hash[:])
}

// Get returns the tree cached for src, if any.
func (c *TreeCache) Get(ctx context.Context, lang *grammar.Language, src []byte) (*syntax.Tree, bool) {
	key := Key(lang, src)

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		c.updateHitRate()
		slogger.Debug(ctx, "Cache miss for syntax tree", slogger.Fields{"key": key[:14]})
		return nil, false
	}

	entry := elem.Value.(*CacheEntry)
	entry.AccessedAt = time.Now()
	entry.AccessCount++
	c.stats.Hits++
	c.updateHitRate()
	c.lru.MoveToFront(elem)

	slogger.Debug(ctx, "Cache hit for syntax tree", slogger.Fields{
		"key":          key[:14],
		"access_count": entry.AccessCount,
	})
	return entry.Tree, true
}

// Put stores the tree parsed from src.
func (c *TreeCache) Put(ctx context.Context, src []byte, tree *syntax.Tree) {
	if tree == nil {
		return
	}
	key := Key(tree.Language(), src)

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		elem.Value.(*CacheEntry).Tree = tree
		c.lru.MoveToFront(elem)
		return
	}
	for c.lru.Len() >= c.maxSize {
		c.evictLRU(ctx)
	}

	now := time.Now()
	c.entries[key] = c.lru.PushFront(&CacheEntry{Key: key, Tree: tree, CreatedAt: now, AccessedAt: now})

	slogger.Debug(ctx, "Cached syntax tree", slogger.Fields{
		"key":         key[:14],
		"cache_size":  c.lru.Len(),
		"source_size": len(src),
	})
}

func (c *TreeCache) evictLRU(ctx context.Context) {
	elem := c.lru.Back()
	if elem == nil {
		return
	}
	entry := c.lru.Remove(elem).(*CacheEntry)
	delete(c.entries, entry.Key)
	c.stats.Evictions++

	slogger.Info(ctx, "Evicted least recently used syntax tree", slogger.Fields{
		"key":          entry.Key[:14],
		"access_count": entry.AccessCount,
		"age_seconds":  time.Since(entry.CreatedAt).Seconds(),
	})
}

func (c *TreeCache) updateHitRate() {
	if total := c.stats.Hits + c.stats.Misses; total > 0 {
		c.stats.HitRate = float64(c.stats.Hits) / float64(total)
	}
}

// Statistics returns a snapshot of the cache statistics.
func (c *TreeCache) Statistics() CacheStatistics {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats := c.stats
	stats.TotalItems = int64(c.lru.Len())
	return stats
}

// Clear removes all entries from the cache.
func (c *TreeCache) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cleared := c.lru.Len()
	c.entries = make(map[string]*list.Element)
	c.lru.Init()

	slogger.Debug(ctx, "Syntax tree cache cleared", slogger.Fields{"entries_cleared": cleared})
}
