package tree_sitter_ucode_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tree_sitter_ucode "tree-sitter-ucode/bindings/go"
	"tree-sitter-ucode/internal/domain/grammar"
)

func TestCanLoadGrammar(t *testing.T) {
	language := tree_sitter_ucode.Language()
	require.NotNil(t, language)
	assert.Equal(t, "ucode", language.Name())
	assert.Equal(t, uint32(14), language.ABIVersion())
}

func TestLanguage_SameHandle(t *testing.T) {
	assert.Same(t, tree_sitter_ucode.Language(), tree_sitter_ucode.Language())
	assert.Same(t, grammar.Get(), tree_sitter_ucode.Language())
}

func TestLanguage_Concurrent(t *testing.T) {
	first := tree_sitter_ucode.Language()

	var wg sync.WaitGroup
	handles := make([]*tree_sitter_ucode.TSLanguage, 32)
	for i := range handles {
		wg.Add(1)
		go func() {
			defer wg.Done()
			handles[i] = tree_sitter_ucode.Language()
		}()
	}
	wg.Wait()

	for _, h := range handles {
		assert.Same(t, first, h)
	}
}

func TestNewParser(t *testing.T) {
	ctx := context.Background()
	src := []byte("let x = 1;\nx += 2;\n")

	p := tree_sitter_ucode.NewParser(tree_sitter_ucode.WithReuse(true))
	tree, err := p.Parse(ctx, src, nil)
	require.NoError(t, err)
	assert.False(t, tree.RootNode().HasError())

	edit, err := tree_sitter_ucode.NewInputEdit(src, 8, 9, []byte("42"))
	require.NoError(t, err)
	edited, err := tree.ApplyEdit(edit)
	require.NoError(t, err)

	newTree, err := p.Parse(ctx, edit.Apply(src, []byte("42")), edited)
	require.NoError(t, err)
	assert.Equal(t, tree.String(), newTree.String())
	assert.Positive(t, p.Stats().Reused)
}
