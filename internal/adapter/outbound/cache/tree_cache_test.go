package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tree-sitter-ucode/internal/adapter/outbound/parser"
	"tree-sitter-ucode/internal/application/common/logging"
	"tree-sitter-ucode/internal/application/common/slogger"
	"tree-sitter-ucode/internal/domain/grammar"
	"tree-sitter-ucode/internal/domain/syntax"
)

func parseTree(t *testing.T, src []byte) *syntax.Tree {
	t.Helper()
	tree, err := parser.New(grammar.Get()).Parse(context.Background(), src, nil)
	require.NoError(t, err)
	return tree
}

func TestTreeCache_GetPut(t *testing.T) {
	ctx := context.Background()
	lang := grammar.Get()
	c := NewTreeCache(4)
	src := []byte("let a = 1;")

	_, ok := c.Get(ctx, lang, src)
	assert.False(t, ok)

	tree := parseTree(t, src)
	c.Put(ctx, src, tree)

	got, ok := c.Get(ctx, lang, src)
	require.True(t, ok)
	assert.Same(t, tree, got)

	stats := c.Statistics()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.TotalItems)
	assert.InDelta(t, 0.5, stats.HitRate, 1e-9)
}

func TestTreeCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	lang := grammar.Get()
	c := NewTreeCache(2)

	a, b, d := []byte("a;"), []byte("b;"), []byte("d;")
	c.Put(ctx, a, parseTree(t, a))
	c.Put(ctx, b, parseTree(t, b))

	_, ok := c.Get(ctx, lang, a)
	require.True(t, ok)

	c.Put(ctx, d, parseTree(t, d))

	_, ok = c.Get(ctx, lang, b)
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get(ctx, lang, a)
	assert.True(t, ok)
	_, ok = c.Get(ctx, lang, d)
	assert.True(t, ok)
	assert.Equal(t, int64(1), c.Statistics().Evictions)
}

func TestTreeCache_LogsEviction(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, slogger.Configure(logging.Config{Level: "INFO", Format: "json", Writer: &buf}))
	t.Cleanup(func() {
		_ = slogger.Configure(logging.Config{Level: "WARN", Format: "text", Output: "stderr"})
	})

	ctx := context.Background()
	c := NewTreeCache(1)
	a, b := []byte("a;"), []byte("b;")
	c.Put(ctx, a, parseTree(t, a))
	assert.Empty(t, buf.String())

	c.Put(ctx, b, parseTree(t, b))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry logging.LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "Evicted least recently used syntax tree", entry.Message)
	assert.Contains(t, entry.Metadata, "access_count")
}

func TestTreeCache_Clear(t *testing.T) {
	ctx := context.Background()
	c := NewTreeCache(2)
	src := []byte("x;")
	c.Put(ctx, src, parseTree(t, src))
	c.Put(ctx, nil, nil)

	c.Clear(ctx)
	assert.Equal(t, int64(0), c.Statistics().TotalItems)
	_, ok := c.Get(ctx, grammar.Get(), src)
	assert.False(t, ok)
}

func TestTreeCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	lang := grammar.Get()
	c := NewTreeCache(8)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			src := []byte(fmt.Sprintf("v%d;", i%4))
			if _, ok := c.Get(ctx, lang, src); !ok {
				tree, err := parser.New(lang).Parse(ctx, src, nil)
				if err == nil {
					c.Put(ctx, src, tree)
				}
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Statistics().TotalItems, int64(4))
}

func TestKey(t *testing.T) {
	lang := grammar.Get()
	assert.Equal(t, Key(lang, []byte("a")), Key(lang, []byte("a")))
	assert.NotEqual(t, Key(lang, []byte("a")), Key(lang, []byte("b")))
	assert.Contains(t, Key(lang, nil), "ucode:")
}
