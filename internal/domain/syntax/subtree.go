package syntax

import (
	"sync/atomic"

	"tree-sitter-ucode/internal/domain/grammar"
)

type subtreeFlags uint8

const (
	flagNamed subtreeFlags = 1 << iota
	flagExtra
	flagMissing
	flagError
	flagHasError
	flagHasChanges
)

var nextSubtreeID atomic.Uint64 //nolint:gochecknoglobals // process-wide node identity source

// Subtree is an immutable syntax node with position-relative extents. Padding is the
// whitespace between the previous token and the node; size covers the node's own text.
// Subtrees are shared between trees, so nothing may modify one after construction.
type Subtree struct {
	id          uint64
	symbol      grammar.Symbol
	flags       subtreeFlags
	padding     Length
	size        Length
	lookahead   uint32
	children    []*Subtree
	fields      []grammar.FieldID
	descendants uint32
	depth       uint32
}

func newSubtree(sym grammar.Symbol) *Subtree {
	st := &Subtree{id: nextSubtreeID.Add(1), symbol: sym, descendants: 1, depth: 1}
	if grammar.Get().SymbolIsNamed(sym) {
		st.flags |= flagNamed
	}
	return st
}

// NewLeaf creates a token node.
func NewLeaf(sym grammar.Symbol, padding, size Length) *Subtree {
	st := newSubtree(sym)
	st.padding = padding
	st.size = size
	if sym == grammar.SymError {
		st.flags |= flagError | flagHasError
	}
	return st
}

// NewExtra creates a token node that may appear anywhere (comments).
func NewExtra(sym grammar.Symbol, padding, size Length) *Subtree {
	st := NewLeaf(sym, padding, size)
	st.flags |= flagExtra
	return st
}

// NewMissing creates a zero-width token inserted by error recovery.
func NewMissing(sym grammar.Symbol) *Subtree {
	st := newSubtree(sym)
	st.flags |= flagMissing | flagHasError
	return st
}

// NewNode creates an interior node. fields, when non-nil, must be parallel to children.
// lookahead is the number of bytes past the node's end that were examined while
// building it.
func NewNode(sym grammar.Symbol, children []*Subtree, fields []grammar.FieldID, lookahead uint32) *Subtree {
	st := newSubtree(sym)
	st.children = children
	if hasAnyField(fields) {
		st.fields = fields
	}
	st.lookahead = lookahead
	if sym == grammar.SymError {
		st.flags |= flagError | flagHasError
	}
	st.summarize()
	st.extendLookahead()
	return st
}

// NewRoot creates the root node; trailing covers text after the last child (whitespace
// before the end of input).
func NewRoot(sym grammar.Symbol, children []*Subtree, fields []grammar.FieldID, trailing Length) *Subtree {
	st := NewNode(sym, children, fields, 0)
	if len(children) == 0 {
		st.padding = Length{}
		st.size = trailing
		return st
	}
	st.size = st.size.Add(trailing)
	return st
}

func hasAnyField(fields []grammar.FieldID) bool {
	for _, f := range fields {
		if f != grammar.FieldNone {
			return true
		}
	}
	return false
}

func (st *Subtree) summarize() {
	var total Length
	st.descendants = 1
	st.depth = 1
	for i, child := range st.children {
		if i == 0 {
			st.padding = child.padding
			total = child.size
		} else {
			total = total.Add(child.totalLength())
		}
		st.descendants += child.descendants
		if child.depth+1 > st.depth {
			st.depth = child.depth + 1
		}
		if child.flags&flagHasError != 0 {
			st.flags |= flagHasError
		}
		if child.flags&flagHasChanges != 0 {
			st.flags |= flagHasChanges
		}
	}
	st.size = total
}

// extendLookahead widens the node's lookahead so it covers every byte its children examined.
func (st *Subtree) extendLookahead() {
	var offset, reach uint32
	for _, child := range st.children {
		offset += child.padding.Bytes + child.size.Bytes
		if r := offset + child.lookahead; r > reach {
			reach = r
		}
	}
	total := st.padding.Bytes + st.size.Bytes
	if reach > total && reach-total > st.lookahead {
		st.lookahead = reach - total
	}
}

func (st *Subtree) totalLength() Length {
	return st.padding.Add(st.size)
}

// ID returns a process-unique identity. Shared subtrees keep their ID across trees.
func (st *Subtree) ID() uint64 { return st.id }

// Symbol returns the node kind.
func (st *Subtree) Symbol() grammar.Symbol { return st.symbol }

// Padding returns the whitespace before the node.
func (st *Subtree) Padding() Length { return st.padding }

// Size returns the extent of the node's text.
func (st *Subtree) Size() Length { return st.size }

// TotalLength is padding plus size.
func (st *Subtree) TotalLength() Length { return st.totalLength() }

// Lookahead returns how many bytes past its end the parser examined for this node.
func (st *Subtree) Lookahead() uint32 { return st.lookahead }

// ChildCount returns the number of direct children.
func (st *Subtree) ChildCount() int { return len(st.children) }

// Child returns the i-th child.
func (st *Subtree) Child(i int) *Subtree { return st.children[i] }

// Children returns the child slice. Callers must not modify it.
func (st *Subtree) Children() []*Subtree { return st.children }

// FieldAt returns the field ID of the i-th child.
func (st *Subtree) FieldAt(i int) grammar.FieldID {
	if st.fields == nil || i >= len(st.fields) {
		return grammar.FieldNone
	}
	return st.fields[i]
}

// Fields returns the per-child field IDs, or nil. Callers must not modify it.
func (st *Subtree) Fields() []grammar.FieldID { return st.fields }

// IsNamed reports whether the node is a named kind.
func (st *Subtree) IsNamed() bool { return st.flags&flagNamed != 0 }

// IsExtra reports whether the node is an extra such as a comment.
func (st *Subtree) IsExtra() bool { return st.flags&flagExtra != 0 }

// IsMissing reports whether the node was inserted by error recovery.
func (st *Subtree) IsMissing() bool { return st.flags&flagMissing != 0 }

// IsError reports whether the node is an ERROR node.
func (st *Subtree) IsError() bool { return st.flags&flagError != 0 }

// HasError reports whether the node or a descendant is an error or missing node.
func (st *Subtree) HasError() bool { return st.flags&flagHasError != 0 }

// HasChanges reports whether an edit touched the node.
func (st *Subtree) HasChanges() bool { return st.flags&flagHasChanges != 0 }

// Descendants counts the node and all nodes below it.
func (st *Subtree) Descendants() uint32 { return st.descendants }

// Depth is the height of the subtree; a leaf has depth 1.
func (st *Subtree) Depth() uint32 { return st.depth }

// Leaf reports whether the node has no children.
func (st *Subtree) Leaf() bool { return len(st.children) == 0 }

// edited returns a copy of st marked as changed, with new relative extents.
func (st *Subtree) edited(padding, size Length, children []*Subtree) *Subtree {
	cp := *st
	cp.id = nextSubtreeID.Add(1)
	cp.padding = padding
	cp.size = size
	cp.children = children
	cp.flags |= flagHasChanges
	return &cp
}
