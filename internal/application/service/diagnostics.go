package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"tree-sitter-ucode/internal/domain/syntax"
)

// Diagnostic kinds.
const (
	DiagnosticError   = "error"
	DiagnosticMissing = "missing"
)

const maxSnippetRunes = 24

// Diagnostic is a syntax error found in a tree.
type Diagnostic struct {
	Range   syntax.Range `json:"range"   yaml:"range"`
	Kind    string       `json:"kind"    yaml:"kind"`
	Message string       `json:"message" yaml:"message"`
}

// String formats the diagnostic as row:column: message.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Range.StartPoint, d.Message)
}

// Diagnostics lists the ERROR and MISSING nodes of tree in document order. Subtrees free
// of errors are not visited, and nothing inside an ERROR node is reported separately.
func Diagnostics(tree *syntax.Tree, src []byte) []Diagnostic {
	if tree == nil {
		return nil
	}

	var out []Diagnostic
	var walk func(n *syntax.Node)
	walk = func(n *syntax.Node) {
		if !n.HasError() {
			return
		}
		switch {
		case n.IsMissing():
			out = append(out, Diagnostic{
				Range:   n.Range(),
				Kind:    DiagnosticMissing,
				Message: "missing " + describeKind(n),
			})
			return
		case n.IsError():
			out = append(out, Diagnostic{
				Range:   n.Range(),
				Kind:    DiagnosticError,
				Message: "unexpected " + snippet(n.Content(src)),
			})
			return
		}
		for _, child := range n.Children() {
			walk(child)
		}
	}
	walk(tree.RootNode())
	return out
}

func describeKind(n *syntax.Node) string {
	if n.IsNamed() {
		return n.Kind()
	}
	return fmt.Sprintf("%q", n.Kind())
}

// snippet quotes the first line of text, shortened to maxSnippetRunes.
func snippet(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "end of input"
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = strings.TrimSpace(text[:i]) + "..."
	}
	if utf8.RuneCountInString(text) > maxSnippetRunes {
		runes := []rune(text)
		text = string(runes[:maxSnippetRunes]) + "..."
	}
	return fmt.Sprintf("%q", text)
}
