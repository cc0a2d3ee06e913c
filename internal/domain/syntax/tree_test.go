package syntax

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"tree-sitter-ucode/internal/domain/errors/domain"
	"tree-sitter-ucode/internal/domain/grammar"
)

func tok(text string) grammar.Symbol { return grammar.Get().MustSymbol(text) }

func span(text string) Length { return LengthOf([]byte(text)) }

// buildStatements builds the tree of "a;\nb;" by hand.
func buildStatements() (*Tree, []byte) {
	src := []byte("a;\nb;")
	a := NewLeaf(grammar.SymIdentifier, Length{}, span("a"))
	semi1 := NewLeaf(tok(";"), Length{}, span(";"))
	stmt1 := NewNode(grammar.SymExpressionStatement, []*Subtree{a, semi1}, nil, 0)
	b := NewLeaf(grammar.SymIdentifier, span("\n"), span("b"))
	semi2 := NewLeaf(tok(";"), Length{}, span(";"))
	stmt2 := NewNode(grammar.SymExpressionStatement, []*Subtree{b, semi2}, nil, 0)
	root := NewRoot(grammar.SymProgram, []*Subtree{stmt1, stmt2}, nil, Length{})
	return NewTree(root, grammar.Get()), src
}

// buildBinary builds the tree of " 1 + x\n" by hand.
func buildBinary() (*Tree, []byte) {
	src := []byte(" 1 + x\n")
	one := NewLeaf(grammar.SymNumber, span(" "), span("1"))
	plus := NewLeaf(tok("+"), span(" "), span("+"))
	x := NewLeaf(grammar.SymIdentifier, span(" "), span("x"))
	bin := NewNode(grammar.SymBinaryExpression, []*Subtree{one, plus, x},
		[]grammar.FieldID{grammar.FieldLeft, grammar.FieldOperator, grammar.FieldRight}, 0)
	semi := NewMissing(tok(";"))
	stmt := NewNode(grammar.SymExpressionStatement, []*Subtree{bin, semi}, nil, 0)
	root := NewRoot(grammar.SymProgram, []*Subtree{stmt}, nil, span("\n"))
	return NewTree(root, grammar.Get()), src
}

func TestTree_Positions(t *testing.T) {
	tree, src := buildStatements()
	root := tree.RootNode()

	assert.Equal(t, "program", root.Kind())
	assert.Equal(t, uint32(0), root.StartByte())
	assert.Equal(t, uint32(len(src)), root.EndByte())
	assert.Equal(t, uint32(len(src)), tree.TotalBytes())
	assert.Equal(t, 7, tree.NodeCount())
	assert.Equal(t, 3, tree.Depth())

	second := root.Child(1)
	require.NotNil(t, second)
	assert.Equal(t, uint32(3), second.StartByte())
	assert.Equal(t, uint32(5), second.EndByte())
	assert.Equal(t, Point{Row: 1, Column: 0}, second.StartPoint())
	assert.Equal(t, Point{Row: 1, Column: 2}, second.EndPoint())
	assert.Equal(t, "b;", second.Content(src))
	assert.Equal(t, "b", second.Child(0).Content(src))
}

func TestTree_RootCoversTrailingWhitespace(t *testing.T) {
	tree, src := buildBinary()
	root := tree.RootNode()
	assert.Equal(t, uint32(1), root.StartByte())
	assert.Equal(t, uint32(len(src)), root.EndByte())
	assert.Equal(t, Point{Row: 1, Column: 0}, root.EndPoint())
}

func TestTree_SExpression(t *testing.T) {
	tree, _ := buildStatements()
	assert.Equal(t,
		"(program (expression_statement (identifier)) (expression_statement (identifier)))",
		tree.String())

	bin, _ := buildBinary()
	assert.Equal(t,
		`(program (expression_statement (binary_expression left: (number) right: (identifier)) (MISSING ";")))`,
		bin.String())
}

func TestNode_Navigation(t *testing.T) {
	tree, src := buildBinary()
	stmt := tree.RootNode().Child(0)
	bin := stmt.Child(0)

	assert.Equal(t, "binary_expression", bin.Kind())
	assert.Equal(t, 3, bin.ChildCount())
	assert.Equal(t, 2, bin.NamedChildCount())
	assert.Equal(t, "x", bin.NamedChild(1).Content(src))
	assert.Nil(t, bin.NamedChild(2))
	assert.Nil(t, bin.Child(3))

	assert.Equal(t, "1", bin.ChildByFieldName("left").Content(src))
	assert.Equal(t, "+", bin.ChildByFieldName("operator").Content(src))
	assert.Len(t, bin.ChildrenByFieldName("right"), 1)
	assert.Nil(t, bin.ChildByFieldName("body"))
	assert.Nil(t, bin.ChildByFieldName("unknown"))
	assert.Equal(t, "operator", bin.FieldNameForChild(1))
	assert.Equal(t, "left", bin.Child(0).FieldName())

	left := bin.Child(0)
	assert.True(t, left.Parent().Equal(bin))
	assert.Equal(t, "+", left.NextSibling().Content(src))
	assert.Equal(t, "x", left.NextNamedSibling().Content(src))
	assert.Equal(t, "1", bin.Child(2).PrevNamedSibling().Content(src))
	assert.Nil(t, left.PrevSibling())
	assert.Nil(t, tree.RootNode().NextSibling())

	missing := stmt.Child(1)
	assert.True(t, missing.IsMissing())
	assert.True(t, stmt.HasError())
	assert.True(t, tree.RootNode().HasError())
	assert.False(t, bin.HasError())
	assert.Equal(t, missing.StartByte(), missing.EndByte())
}

func TestNode_Descendants(t *testing.T) {
	tree, src := buildBinary()
	root := tree.RootNode()

	n := root.DescendantForByteRange(5, 6)
	require.NotNil(t, n)
	assert.Equal(t, "identifier", n.Kind())

	n = root.DescendantForByteRange(1, 6)
	assert.Equal(t, "binary_expression", n.Kind())

	n = root.DescendantForByteRange(3, 4)
	assert.Equal(t, "+", n.Kind())

	named := root.NamedDescendantForPointRange(Point{Column: 3}, Point{Column: 4})
	assert.Equal(t, "binary_expression", named.Kind())

	ids := root.DescendantsOfKind("identifier")
	require.Len(t, ids, 1)
	assert.Equal(t, "x", ids[0].Content(src))
	assert.Empty(t, root.DescendantsOfKind(";"), "missing tokens are not content")
}

func TestNode_Equal(t *testing.T) {
	tree, _ := buildStatements()
	a := tree.RootNode().Child(0)
	b := tree.RootNode().Child(0)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.ID(), b.ID())
	assert.False(t, a.Equal(tree.RootNode().Child(1)))
	assert.False(t, a.Equal(nil))
}

func TestTreeCursor_Walk(t *testing.T) {
	tree, _ := buildBinary()
	c := tree.Walk()

	var kinds []string
	var visit func()
	visit = func() {
		kinds = append(kinds, c.Node().Kind())
		if c.GotoFirstChild() {
			visit()
			for c.GotoNextSibling() {
				visit()
			}
			c.GotoParent()
		}
	}
	visit()

	assert.Equal(t, []string{
		"program", "expression_statement", "binary_expression", "number", "+", "identifier", ";",
	}, kinds)
	assert.Equal(t, 0, c.Depth())
	assert.False(t, c.GotoParent())
	assert.False(t, c.GotoNextSibling())

	require.True(t, c.GotoFirstChild())
	require.True(t, c.GotoFirstChild())
	require.True(t, c.GotoFirstChild())
	assert.Equal(t, "left", c.FieldName())
	c.Reset(tree.RootNode())
	assert.Equal(t, "program", c.Node().Kind())
}

func TestTree_EditSharesUntouchedSubtrees(t *testing.T) {
	tree, src := buildStatements()
	edit, err := NewInputEdit(src, 3, 4, []byte("bc"))
	require.NoError(t, err)

	edited := tree.Edit(edit)

	assert.Equal(t, uint32(5), tree.TotalBytes(), "receiver is unchanged")
	assert.False(t, tree.RootNode().HasChanges())
	assert.Empty(t, tree.Edits())

	assert.Equal(t, uint32(6), edited.TotalBytes())
	require.Len(t, edited.Edits(), 1)
	assert.Same(t, tree.Root().Child(0), edited.Root().Child(0))
	assert.NotSame(t, tree.Root().Child(1), edited.Root().Child(1))

	second := edited.RootNode().Child(1)
	assert.True(t, second.HasChanges())
	assert.Equal(t, uint32(3), second.StartByte())
	assert.Equal(t, uint32(6), second.EndByte())
	assert.Equal(t, "bc", second.Child(0).Content(edit.Apply(src, []byte("bc"))))
}

func TestTree_EditAtStartShiftsEverything(t *testing.T) {
	tree, src := buildStatements()
	edit, err := NewInputEdit(src, 0, 0, []byte("  "))
	require.NoError(t, err)

	edited := tree.Edit(edit)
	assert.Equal(t, uint32(7), edited.TotalBytes())
	assert.Equal(t, uint32(5), edited.RootNode().Child(1).StartByte())
	assert.Same(t, tree.Root().Child(1), edited.Root().Child(1))
}

func TestTree_ApplyEditValidates(t *testing.T) {
	tree, _ := buildStatements()

	_, err := tree.ApplyEdit(InputEdit{StartByte: 2, OldEndByte: 10, NewEndByte: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidEdit)

	_, err = tree.ApplyEdit(InputEdit{StartByte: 3, OldEndByte: 2, NewEndByte: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidEdit)

	edited, err := tree.ApplyEdit(InputEdit{StartByte: 5, OldEndByte: 5, NewEndByte: 6})
	require.NoError(t, err)
	assert.Equal(t, uint32(6), edited.TotalBytes())

	clamped := tree.Edit(InputEdit{StartByte: 50, OldEndByte: 60, NewEndByte: 51})
	assert.Equal(t, uint32(6), clamped.TotalBytes())
}

func TestNewInputEdit(t *testing.T) {
	src := []byte("ab\ncd")
	e, err := NewInputEdit(src, 1, 4, []byte("x\ny\nz"))
	require.NoError(t, err)
	assert.Equal(t, InputEdit{
		StartByte: 1, OldEndByte: 4, NewEndByte: 6,
		StartPoint:  Point{Row: 0, Column: 1},
		OldEndPoint: Point{Row: 1, Column: 1},
		NewEndPoint: Point{Row: 2, Column: 1},
	}, e)
	assert.Equal(t, "ax\ny\nzd", string(e.Apply(src, []byte("x\ny\nz"))))

	_, err = NewInputEdit(src, 4, 2, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidEdit)
	_, err = NewInputEdit(src, 0, 9, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidEdit)
}

func TestLength_Arithmetic(t *testing.T) {
	a := span("ab\nc")
	b := span("de")
	assert.Equal(t, Length{Bytes: 6, Extent: Point{Row: 1, Column: 3}}, a.Add(b))
	assert.Equal(t, b, a.Add(b).Sub(a))
	assert.Equal(t, Length{}, a.Sub(a.Add(b)))
	assert.Equal(t, "2:4", Point{Row: 1, Column: 3}.String())
	assert.True(t, Point{Row: 0, Column: 9}.Less(Point{Row: 1}))
}

func TestTree_ChangedRanges(t *testing.T) {
	tree, src := buildStatements()
	edit, err := NewInputEdit(src, 3, 4, []byte("bc"))
	require.NoError(t, err)
	edited := tree.Edit(edit)

	ranges := tree.ChangedRanges(edited)
	require.Len(t, ranges, 1)
	assert.Equal(t, uint32(3), ranges[0].StartByte)
	assert.Equal(t, uint32(6), ranges[0].EndByte)

	assert.Empty(t, tree.ChangedRanges(tree))
	assert.Nil(t, tree.ChangedRanges(nil))
}

func TestTree_ReuseIndex(t *testing.T) {
	tree, src := buildStatements()
	edit, err := NewInputEdit(src, 3, 4, []byte("bc"))
	require.NoError(t, err)
	edited := tree.Edit(edit)

	isStatement := func(sym grammar.Symbol) bool {
		return grammar.Get().IsSubtype(grammar.SymStatement, sym)
	}
	index := edited.ReuseIndex(isStatement)
	require.Len(t, index, 1)
	assert.Same(t, tree.Root().Child(0), index[0])

	fresh := tree.ReuseIndex(isStatement)
	assert.Len(t, fresh, 2)
	assert.Contains(t, fresh, uint32(2))

	broken, _ := buildBinary()
	assert.Empty(t, broken.ReuseIndex(isStatement), "subtrees with errors are never reused")
}

func TestTree_JSONAndYAML(t *testing.T) {
	tree, src := buildBinary()

	out, err := tree.JSON(src)
	require.NoError(t, err)
	var view NodeView
	require.NoError(t, json.Unmarshal(out, &view))
	assert.Equal(t, "program", view.Kind)
	require.Len(t, view.Children, 1)
	stmt := view.Children[0]
	require.Len(t, stmt.Children, 2)
	assert.True(t, stmt.Children[1].Missing)
	assert.Equal(t, "left", stmt.Children[0].Children[0].Field)
	assert.Equal(t, "1", stmt.Children[0].Children[0].Text)

	out, err = tree.YAML(src)
	require.NoError(t, err)
	var generic map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &generic))
	assert.Equal(t, "program", generic["kind"])
}

func TestTree_RenderNilTree(t *testing.T) {
	var tree *Tree
	_, err := tree.JSON(nil)
	assert.ErrorIs(t, err, domain.ErrNilTree)
	_, err = tree.YAML(nil)
	assert.ErrorIs(t, err, domain.ErrNilTree)
}

func TestSubtree_Flags(t *testing.T) {
	comment := NewExtra(grammar.SymComment, Length{}, span("// x"))
	assert.True(t, comment.IsExtra())
	assert.True(t, comment.IsNamed())
	assert.False(t, comment.HasError())

	errLeaf := NewLeaf(grammar.SymError, Length{}, span("@"))
	assert.True(t, errLeaf.IsError())

	errNode := NewNode(grammar.SymError, []*Subtree{errLeaf}, nil, 0)
	assert.True(t, errNode.IsError())
	assert.True(t, errNode.HasError())

	a := NewLeaf(grammar.SymIdentifier, Length{}, span("a"))
	a.lookahead = 3
	parent := NewNode(grammar.SymExpressionStatement, []*Subtree{a}, nil, 1)
	assert.Equal(t, uint32(3), parent.Lookahead())
	assert.Nil(t, parent.Fields())
	assert.NotEqual(t, a.ID(), parent.ID())
}
