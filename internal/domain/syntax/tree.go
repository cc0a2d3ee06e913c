package syntax

import (
	"fmt"
	"sort"

	"tree-sitter-ucode/internal/domain/errors/domain"
	"tree-sitter-ucode/internal/domain/grammar"
)

// Tree is an immutable syntax tree. Editing a tree produces a new tree that shares every
// subtree the edit did not touch.
type Tree struct {
	root  *Subtree
	lang  *grammar.Language
	edits []InputEdit
}

// NewTree wraps a root subtree.
func NewTree(root *Subtree, lang *grammar.Language) *Tree {
	return &Tree{root: root, lang: lang}
}

// Root returns the root subtree.
func (t *Tree) Root() *Subtree { return t.root }

// Language returns the descriptor the tree was parsed with.
func (t *Tree) Language() *grammar.Language { return t.lang }

// RootNode returns a node view of the root.
func (t *Tree) RootNode() *Node {
	return &Node{tree: t, st: t.root}
}

// Edits returns the edits applied since the tree was parsed.
func (t *Tree) Edits() []InputEdit {
	return append([]InputEdit(nil), t.edits...)
}

// NodeCount returns the number of nodes in the tree, anonymous tokens included.
func (t *Tree) NodeCount() int { return int(t.root.descendants) }

// Depth returns the height of the tree.
func (t *Tree) Depth() int { return int(t.root.depth) }

// TotalBytes returns the length of the text the tree spans.
func (t *Tree) TotalBytes() uint32 { return t.root.totalLength().Bytes }

// Walk returns a cursor positioned at the root.
func (t *Tree) Walk() *TreeCursor {
	return NewTreeCursor(t.RootNode())
}

// String renders the tree as an S-expression.
func (t *Tree) String() string {
	return t.RootNode().String()
}

// ApplyEdit is Edit with validation: the edit must lie within the tree's text.
func (t *Tree) ApplyEdit(e InputEdit) (*Tree, error) {
	total := t.TotalBytes()
	if !e.valid() || e.OldEndByte > total {
		return nil, fmt.Errorf("edit [%d, %d) -> %d on tree of %d bytes: %w",
			e.StartByte, e.OldEndByte, e.NewEndByte, total, domain.ErrInvalidEdit)
	}
	return t.Edit(e), nil
}

// Edit returns a copy of the tree adjusted for a text edit. Edits reaching past the end
// of the tree are clamped. The receiver is not modified.
func (t *Tree) Edit(e InputEdit) *Tree {
	e = t.clamp(e)
	root := editSubtree(t.root, Length{}, Length{}, e, true)
	edits := make([]InputEdit, 0, len(t.edits)+1)
	edits = append(edits, t.edits...)
	return &Tree{root: root, lang: t.lang, edits: append(edits, e)}
}

func (t *Tree) clamp(e InputEdit) InputEdit {
	end := t.root.totalLength()
	if e.StartByte > end.Bytes {
		inserted := uint32(0)
		if e.NewEndByte > e.StartByte {
			inserted = e.NewEndByte - e.StartByte
		}
		e.StartByte, e.StartPoint = end.Bytes, end.Extent
		e.NewEndByte, e.NewEndPoint = end.Bytes+inserted, end.Extent
	}
	if e.OldEndByte > end.Bytes {
		e.OldEndByte, e.OldEndPoint = end.Bytes, end.Extent
	}
	if e.OldEndByte < e.StartByte {
		e.OldEndByte, e.OldEndPoint = e.StartByte, e.StartPoint
	}
	if e.NewEndByte < e.StartByte {
		e.NewEndByte, e.NewEndPoint = e.StartByte, e.StartPoint
	}
	return e
}

func maxLength(a, b Length) Length {
	if b.Bytes > a.Bytes {
		return b
	}
	return a
}

// editSubtree maps st, whose padding started at oldPos before the edit and starts at
// newPos after it, into the edited text. Subtrees the edit cannot have affected are
// returned unchanged.
func editSubtree(st *Subtree, oldPos, newPos Length, e InputEdit, root bool) *Subtree {
	oldContent := oldPos.Add(st.padding)
	oldEnd := oldContent.Add(st.size)
	if !root && (e.StartByte > oldEnd.Bytes+st.lookahead || e.OldEndByte < oldPos.Bytes) {
		return st
	}

	newContent := maxLength(newPos, e.mapPosition(oldContent))
	var children []*Subtree
	if len(st.children) > 0 {
		children = make([]*Subtree, len(st.children))
		childOld, childNew := oldPos, newPos
		for i, child := range st.children {
			edited := editSubtree(child, childOld, childNew, e, false)
			children[i] = edited
			childOld = childOld.Add(child.totalLength())
			childNew = childNew.Add(edited.totalLength())
		}
		newContent = newPos.Add(children[0].padding)
	}
	newEnd := maxLength(newContent, e.mapPosition(oldEnd))
	if len(children) > 0 {
		last := newPos
		for _, child := range children {
			last = last.Add(child.totalLength())
		}
		newEnd = maxLength(newEnd, last)
	}
	return st.edited(newContent.Sub(newPos), newEnd.Sub(newContent), children)
}

// ChangedRanges returns the ranges of the other tree whose syntactic structure differs
// from the receiver. other is normally the result of reparsing an edited copy of t.
// Ranges are sorted and merged.
func (t *Tree) ChangedRanges(other *Tree) []Range {
	if other == nil {
		return nil
	}
	known := make(map[uint64]struct{}, t.root.descendants)
	collectIDs(t.root, known)

	var ranges []Range
	var walk func(n *Node)
	walk = func(n *Node) {
		if _, ok := known[n.st.id]; ok {
			return
		}
		if n.st.Leaf() || allShared(n.st, known) {
			ranges = append(ranges, n.Range())
			return
		}
		for _, child := range n.Children() {
			walk(child)
		}
	}
	walk(other.RootNode())
	return mergeRanges(ranges)
}

func collectIDs(st *Subtree, into map[uint64]struct{}) {
	into[st.id] = struct{}{}
	for _, child := range st.children {
		collectIDs(child, into)
	}
}

func allShared(st *Subtree, known map[uint64]struct{}) bool {
	for _, child := range st.children {
		if _, ok := known[child.id]; !ok {
			return false
		}
	}
	return true
}

func mergeRanges(in []Range) []Range {
	if len(in) == 0 {
		return nil
	}
	sort.Slice(in, func(i, j int) bool { return in[i].StartByte < in[j].StartByte })
	out := []Range{in[0]}
	for _, r := range in[1:] {
		last := &out[len(out)-1]
		if r.StartByte <= last.EndByte {
			if r.EndByte > last.EndByte {
				last.EndByte, last.EndPoint = r.EndByte, r.EndPoint
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// ReuseIndex maps padding start offsets to the outermost subtrees at that offset that an
// incremental parse may take over unchanged: accepted by accept, untouched by edits and
// free of errors.
func (t *Tree) ReuseIndex(accept func(grammar.Symbol) bool) map[uint32]*Subtree {
	index := make(map[uint32]*Subtree)
	var walk func(st *Subtree, pos Length)
	walk = func(st *Subtree, pos Length) {
		if !st.HasChanges() && !st.HasError() && !st.IsExtra() && accept(st.symbol) {
			if _, ok := index[pos.Bytes]; !ok {
				index[pos.Bytes] = st
			}
			return
		}
		for _, child := range st.children {
			walk(child, pos)
			pos = pos.Add(child.totalLength())
		}
	}
	pos := Length{}
	for _, child := range t.root.children {
		walk(child, pos)
		pos = pos.Add(child.totalLength())
	}
	return index
}
