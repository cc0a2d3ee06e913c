package syntax

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"tree-sitter-ucode/internal/domain/errors/domain"
)

// renderSExpression writes the named structure of n in tree-sitter's S-expression format.
func renderSExpression(n *Node) string {
	var b strings.Builder
	writeSExpression(&b, n, "")
	return b.String()
}

func writeSExpression(b *strings.Builder, n *Node, field string) {
	visible := n.IsNamed() || n.IsMissing()
	if visible {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		if field != "" {
			b.WriteString(field)
			b.WriteString(": ")
		}
		b.WriteByte('(')
		if n.IsMissing() {
			b.WriteString("MISSING ")
			if n.IsNamed() {
				b.WriteString(n.Kind())
			} else {
				b.WriteString(strconv.Quote(n.Kind()))
			}
		} else {
			b.WriteString(n.Kind())
		}
	}
	for i, child := range n.Children() {
		writeSExpression(b, child, n.FieldNameForChild(i))
	}
	if visible {
		b.WriteByte(')')
	}
}

// NodeView is the exported form of a named node used for JSON and YAML output.
type NodeView struct {
	Kind     string     `json:"kind"               yaml:"kind"`
	Field    string     `json:"field,omitempty"    yaml:"field,omitempty"`
	Range    Range      `json:"range"              yaml:"range"`
	Missing  bool       `json:"missing,omitempty"  yaml:"missing,omitempty"`
	Error    bool       `json:"error,omitempty"    yaml:"error,omitempty"`
	Text     string     `json:"text,omitempty"     yaml:"text,omitempty"`
	Children []NodeView `json:"children,omitempty" yaml:"children,omitempty"`
}

// View converts the named structure below n. Leaf text is filled in from src when src
// is non-nil.
func (n *Node) View(src []byte) NodeView {
	return buildView(n, "", src)
}

func buildView(n *Node, field string, src []byte) NodeView {
	v := NodeView{
		Kind:    n.Kind(),
		Field:   field,
		Range:   n.Range(),
		Missing: n.IsMissing(),
		Error:   n.IsError(),
	}
	for i, child := range n.Children() {
		if child.IsNamed() || child.IsMissing() {
			v.Children = append(v.Children, buildView(child, n.FieldNameForChild(i), src))
		}
	}
	if len(v.Children) == 0 && src != nil && !v.Missing {
		v.Text = n.Content(src)
	}
	return v
}

// JSON renders the named tree as indented JSON.
func (t *Tree) JSON(src []byte) ([]byte, error) {
	if t == nil || t.root == nil {
		return nil, domain.ErrNilTree
	}
	out, err := json.MarshalIndent(t.RootNode().View(src), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tree to JSON: %w", err)
	}
	return out, nil
}

// YAML renders the named tree as YAML.
func (t *Tree) YAML(src []byte) ([]byte, error) {
	if t == nil || t.root == nil {
		return nil, domain.ErrNilTree
	}
	out, err := yaml.Marshal(t.RootNode().View(src))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tree to YAML: %w", err)
	}
	return out, nil
}
