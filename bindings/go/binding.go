// Package tree_sitter_ucode is the public Go binding of the ucode grammar.
//
// Language returns the grammar descriptor. It is created once and shared: every call
// returns the same handle, and the handle may be used from any number of goroutines.
package tree_sitter_ucode

import (
	"tree-sitter-ucode/internal/adapter/outbound/parser"
	"tree-sitter-ucode/internal/domain/grammar"
	"tree-sitter-ucode/internal/domain/syntax"
)

// Types of the binding surface. Consumers reach their data only through methods.
type (
	TSLanguage = grammar.Language
	Parser     = parser.Parser
	Tree       = syntax.Tree
	Node       = syntax.Node
	TreeCursor = syntax.TreeCursor
	InputEdit  = syntax.InputEdit
	Point      = syntax.Point
	Range      = syntax.Range
)

// Parser options.
var (
	WithTimeout        = parser.WithTimeout
	WithReuse          = parser.WithReuse
	WithMaxSourceBytes = parser.WithMaxSourceBytes
)

// Language returns the ucode grammar descriptor.
func Language() *TSLanguage {
	return grammar.Get()
}

// NewParser creates a parser for the ucode grammar.
func NewParser(opts ...parser.Option) *Parser {
	return parser.New(Language(), opts...)
}

// NewInputEdit computes the edit that replaces src[start:oldEnd] with text.
func NewInputEdit(src []byte, start, oldEnd uint32, text []byte) (InputEdit, error) {
	return syntax.NewInputEdit(src, start, oldEnd, text)
}
