package syntax

import (
	"tree-sitter-ucode/internal/domain/grammar"
)

// Node is a positioned view of a subtree. Nodes are cheap values created on demand;
// two nodes are Equal when they view the same subtree at the same position.
type Node struct {
	tree   *Tree
	st     *Subtree
	pos    Length // start of the node's padding
	parent *Node
	index  int
}

// Subtree returns the underlying subtree.
func (n *Node) Subtree() *Subtree { return n.st }

// Tree returns the tree the node belongs to.
func (n *Node) Tree() *Tree { return n.tree }

// ID returns the identity of the underlying subtree.
func (n *Node) ID() uint64 { return n.st.id }

// Symbol returns the node's grammar symbol.
func (n *Node) Symbol() grammar.Symbol { return n.st.symbol }

// Kind returns the node's kind name.
func (n *Node) Kind() string { return n.tree.lang.SymbolName(n.st.symbol) }

func (n *Node) IsNamed() bool    { return n.st.IsNamed() }
func (n *Node) IsExtra() bool    { return n.st.IsExtra() }
func (n *Node) IsMissing() bool  { return n.st.IsMissing() }
func (n *Node) IsError() bool    { return n.st.IsError() }
func (n *Node) HasError() bool   { return n.st.HasError() }
func (n *Node) HasChanges() bool { return n.st.HasChanges() }

func (n *Node) start() Length { return n.pos.Add(n.st.padding) }
func (n *Node) end() Length   { return n.start().Add(n.st.size) }

// StartByte returns the offset of the node's first byte.
func (n *Node) StartByte() uint32 { return n.start().Bytes }

// EndByte returns the offset just past the node's last byte.
func (n *Node) EndByte() uint32 { return n.end().Bytes }

// StartPoint returns the row/column of the node's first byte.
func (n *Node) StartPoint() Point { return n.start().Extent }

// EndPoint returns the row/column just past the node.
func (n *Node) EndPoint() Point { return n.end().Extent }

// Range returns the node's span.
func (n *Node) Range() Range {
	s, e := n.start(), n.end()
	return Range{StartByte: s.Bytes, EndByte: e.Bytes, StartPoint: s.Extent, EndPoint: e.Extent}
}

// ChildCount returns the number of children, anonymous tokens included.
func (n *Node) ChildCount() int { return len(n.st.children) }

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.st.children) {
		return nil
	}
	pos := n.pos
	for j := 0; j < i; j++ {
		pos = pos.Add(n.st.children[j].totalLength())
	}
	return &Node{tree: n.tree, st: n.st.children[i], pos: pos, parent: n, index: i}
}

// Children returns every child.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.st.children))
	pos := n.pos
	for i, child := range n.st.children {
		out[i] = &Node{tree: n.tree, st: child, pos: pos, parent: n, index: i}
		pos = pos.Add(child.totalLength())
	}
	return out
}

// NamedChildren returns the named children.
func (n *Node) NamedChildren() []*Node {
	var out []*Node
	for _, child := range n.Children() {
		if child.IsNamed() {
			out = append(out, child)
		}
	}
	return out
}

// NamedChildCount returns the number of named children.
func (n *Node) NamedChildCount() int {
	count := 0
	for _, child := range n.st.children {
		if child.IsNamed() {
			count++
		}
	}
	return count
}

// NamedChild returns the i-th named child or nil.
func (n *Node) NamedChild(i int) *Node {
	for _, child := range n.Children() {
		if !child.IsNamed() {
			continue
		}
		if i == 0 {
			return child
		}
		i--
	}
	return nil
}

// ChildByFieldName returns the first child with the given field, or nil.
func (n *Node) ChildByFieldName(name string) *Node {
	id := n.tree.lang.FieldIDForName(name)
	if id == grammar.FieldNone {
		return nil
	}
	for i, child := range n.Children() {
		if n.st.FieldAt(i) == id {
			return child
		}
	}
	return nil
}

// ChildrenByFieldName returns every child with the given field.
func (n *Node) ChildrenByFieldName(name string) []*Node {
	id := n.tree.lang.FieldIDForName(name)
	if id == grammar.FieldNone {
		return nil
	}
	var out []*Node
	for i, child := range n.Children() {
		if n.st.FieldAt(i) == id {
			out = append(out, child)
		}
	}
	return out
}

// FieldNameForChild returns the field name of the i-th child, or "".
func (n *Node) FieldNameForChild(i int) string {
	return n.tree.lang.FieldNameForID(n.st.FieldAt(i))
}

// FieldName returns the node's field name within its parent.
func (n *Node) FieldName() string {
	if n.parent == nil {
		return ""
	}
	return n.parent.FieldNameForChild(n.index)
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// NextSibling returns the following sibling or nil.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	return n.parent.Child(n.index + 1)
}

// PrevSibling returns the preceding sibling or nil.
func (n *Node) PrevSibling() *Node {
	if n.parent == nil {
		return nil
	}
	return n.parent.Child(n.index - 1)
}

// NextNamedSibling returns the following named sibling or nil.
func (n *Node) NextNamedSibling() *Node {
	for s := n.NextSibling(); s != nil; s = s.NextSibling() {
		if s.IsNamed() {
			return s
		}
	}
	return nil
}

// PrevNamedSibling returns the preceding named sibling or nil.
func (n *Node) PrevNamedSibling() *Node {
	for s := n.PrevSibling(); s != nil; s = s.PrevSibling() {
		if s.IsNamed() {
			return s
		}
	}
	return nil
}

// DescendantForByteRange returns the smallest node spanning [start, end].
func (n *Node) DescendantForByteRange(start, end uint32) *Node {
	return n.descendantFor(func(c *Node) int {
		switch {
		case c.EndByte() < end, c.EndByte() <= start:
			return -1
		case start < c.StartByte():
			return 1
		}
		return 0
	}, false)
}

// NamedDescendantForPointRange returns the smallest named node spanning [start, end].
func (n *Node) NamedDescendantForPointRange(start, end Point) *Node {
	return n.descendantFor(func(c *Node) int {
		cs, ce := c.StartPoint(), c.EndPoint()
		switch {
		case ce.Less(end), !start.Less(ce):
			return -1
		case start.Less(cs):
			return 1
		}
		return 0
	}, true)
}

// descendantFor descends while some child contains the range. cmp reports -1 when the
// child ends before the range, 1 when it starts after it and 0 when it contains it.
func (n *Node) descendantFor(cmp func(*Node) int, named bool) *Node {
	node, last := n, n
	for {
		var next *Node
		for _, child := range node.Children() {
			c := cmp(child)
			if c < 0 {
				continue
			}
			if c == 0 {
				next = child
			}
			break
		}
		if next == nil {
			return last
		}
		node = next
		if !named || node.IsNamed() {
			last = node
		}
	}
}

// DescendantsOfKind returns every descendant (and the node itself) of the given kind, in
// document order.
func (n *Node) DescendantsOfKind(kind string) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(node *Node) {
		if node.Kind() == kind && !node.IsMissing() {
			out = append(out, node)
		}
		for _, child := range node.Children() {
			walk(child)
		}
	}
	walk(n)
	return out
}

// Content returns the node's text within src, or "" when src is too short.
func (n *Node) Content(src []byte) string {
	s, e := n.StartByte(), n.EndByte()
	if int(e) > len(src) || s > e {
		return ""
	}
	return string(src[s:e])
}

// Equal reports whether both nodes view the same subtree at the same position.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	return n.st == o.st && n.pos == o.pos
}

// String renders the node as an S-expression.
func (n *Node) String() string {
	return renderSExpression(n)
}
