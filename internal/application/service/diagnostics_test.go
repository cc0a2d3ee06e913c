package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tree-sitter-ucode/internal/adapter/outbound/parser"
	"tree-sitter-ucode/internal/domain/grammar"
	"tree-sitter-ucode/internal/domain/syntax"
)

func parseTree(t *testing.T, src string) *syntax.Tree {
	t.Helper()
	tree, err := parser.New(grammar.Get()).Parse(context.Background(), []byte(src), nil)
	require.NoError(t, err)
	return tree
}

func TestDiagnostics(t *testing.T) {
	t.Run("clean source", func(t *testing.T) {
		src := "let a = [1, 2];\nfunction f(x) { return x * 2; }\n"
		assert.Empty(t, Diagnostics(parseTree(t, src), []byte(src)))
	})

	t.Run("unexpected tokens", func(t *testing.T) {
		src := ") a;"
		diags := Diagnostics(parseTree(t, src), []byte(src))
		require.Len(t, diags, 1)
		assert.Equal(t, DiagnosticError, diags[0].Kind)
		assert.Equal(t, `unexpected ")"`, diags[0].Message)
		assert.Equal(t, uint32(0), diags[0].Range.StartByte)
		assert.Equal(t, uint32(1), diags[0].Range.EndByte)
		assert.Equal(t, `1:1: unexpected ")"`, diags[0].String())
	})

	t.Run("missing operand", func(t *testing.T) {
		src := "a = ;\nb;"
		diags := Diagnostics(parseTree(t, src), []byte(src))
		require.Len(t, diags, 1)
		assert.Equal(t, DiagnosticMissing, diags[0].Kind)
		assert.Equal(t, "missing identifier", diags[0].Message)
		assert.Equal(t, diags[0].Range.StartByte, diags[0].Range.EndByte)
	})

	t.Run("missing token", func(t *testing.T) {
		src := "a b;"
		diags := Diagnostics(parseTree(t, src), []byte(src))
		require.Len(t, diags, 1)
		assert.Equal(t, DiagnosticMissing, diags[0].Kind)
		assert.Equal(t, `missing ";"`, diags[0].Message)
		assert.Equal(t, diags[0].Range.StartByte, diags[0].Range.EndByte)
	})

	t.Run("every error is reported in document order", func(t *testing.T) {
		src := ") a;\nb c;\n"
		diags := Diagnostics(parseTree(t, src), []byte(src))
		require.GreaterOrEqual(t, len(diags), 2)
		for i := 1; i < len(diags); i++ {
			assert.LessOrEqual(t, diags[i-1].Range.StartByte, diags[i].Range.StartByte)
		}
	})

	t.Run("nil tree", func(t *testing.T) {
		assert.Nil(t, Diagnostics(nil, nil))
	})
}

func TestSnippet(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "short", text: " ) ", want: `")"`},
		{name: "empty", text: "", want: "end of input"},
		{name: "multi-line", text: "a\nb", want: `"a..."`},
		{name: "long", text: strings.Repeat("x", 30), want: `"` + strings.Repeat("x", maxSnippetRunes) + `..."`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, snippet(tt.text))
		})
	}
}
