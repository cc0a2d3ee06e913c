//go:build ucode_cabi

package main

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tree-sitter-ucode/internal/domain/grammar"
)

func TestLanguageHandle(t *testing.T) {
	h := languageHandle()
	require.NotZero(t, h)

	lang, ok := h.Value().(*grammar.Language)
	require.True(t, ok)
	assert.Same(t, grammar.Get(), lang)
	assert.Equal(t, h, languageHandle())
}

func TestLanguageHandle_Concurrent(t *testing.T) {
	want := languageHandle()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, languageHandle())
		}()
	}
	wg.Wait()
}
