package grammar

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ReturnsNonNilSingleton(t *testing.T) {
	first := Get()
	require.NotNil(t, first)

	for range 10 {
		assert.Same(t, first, Get())
	}
}

func TestGet_ConcurrentCallers(t *testing.T) {
	const callers = 64

	results := make([]*Language, callers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i] = Get()
		}(i)
	}
	close(start)
	wg.Wait()

	for _, got := range results {
		require.NotNil(t, got)
		assert.Same(t, results[0], got)
	}
}

func TestGet_Idempotent(t *testing.T) {
	lang := Get()
	count := lang.SymbolCount()
	name := lang.SymbolName(SymProgram)

	_ = Get()
	_ = Get()

	assert.Equal(t, count, Get().SymbolCount())
	assert.Equal(t, name, Get().SymbolName(SymProgram))
}

func TestLanguage_Identity(t *testing.T) {
	lang := Get()
	assert.Equal(t, "ucode", lang.Name())
	assert.Equal(t, uint32(14), lang.ABIVersion())
	assert.Equal(t, SymIdentifier, lang.WordSymbol())
}

func TestLanguage_SymbolLookup(t *testing.T) {
	lang := Get()

	tests := []struct {
		name    string
		named   bool
		want    Symbol
		visible bool
	}{
		{name: "program", named: true, want: SymProgram, visible: true},
		{name: "ERROR", named: true, want: SymError, visible: true},
		{name: "identifier", named: true, want: SymIdentifier, visible: true},
		{name: "import", named: true, want: SymImport, visible: true},
		{name: "expression", named: true, want: SymExpression, visible: false},
		{name: "statement", named: true, want: SymStatement, visible: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sym, ok := lang.SymbolForName(tt.name, tt.named)
			require.True(t, ok)
			assert.Equal(t, tt.want, sym)
			assert.Equal(t, tt.name, lang.SymbolName(sym))
			assert.Equal(t, tt.visible, lang.SymbolIsVisible(sym))
			assert.True(t, lang.SymbolIsNamed(sym))
		})
	}

	anon, ok := lang.SymbolForName("import", false)
	require.True(t, ok)
	assert.NotEqual(t, SymImport, anon)
	assert.False(t, lang.SymbolIsNamed(anon))
	assert.True(t, lang.SymbolIsVisible(anon))

	_, ok = lang.SymbolForName("jsx_element", true)
	assert.False(t, ok)
	assert.Empty(t, lang.SymbolName(Symbol(lang.SymbolCount())))
}

func TestLanguage_EveryTokenRoundTrips(t *testing.T) {
	lang := Get()
	for _, tok := range anonymousTokens {
		sym := lang.MustSymbol(tok)
		assert.Equal(t, tok, lang.SymbolName(sym))
	}
	assert.Panics(t, func() { lang.MustSymbol("@@") })
}

func TestLanguage_Fields(t *testing.T) {
	lang := Get()
	assert.Equal(t, uint32(len(fieldNames)-1), lang.FieldCount())
	assert.Equal(t, FieldBody, lang.FieldIDForName("body"))
	assert.Equal(t, "optional_chain", lang.FieldNameForID(FieldOptionalChain))
	assert.Equal(t, FieldNone, lang.FieldIDForName("nope"))
	assert.Empty(t, lang.FieldNameForID(FieldNone))
	assert.Empty(t, lang.FieldNameForID(FieldID(999)))
}

func TestLanguage_Supertypes(t *testing.T) {
	lang := Get()
	assert.Equal(t, []Symbol{SymStatement, SymDeclaration, SymExpression, SymPrimaryExpression, SymPattern}, lang.Supertypes())
	assert.True(t, lang.IsSubtype(SymStatement, SymIfStatement))
	assert.True(t, lang.IsSubtype(SymStatement, SymFunctionDeclaration), "nested through declaration")
	assert.True(t, lang.IsSubtype(SymExpression, SymCallExpression), "nested through primary_expression")
	assert.False(t, lang.IsSubtype(SymExpression, SymIfStatement))
	assert.True(t, lang.SymbolMetadata(SymPattern).Supertype)
}

func TestLanguage_ReservedWords(t *testing.T) {
	lang := Get()
	for _, w := range []string{"if", "while", "function", "null", "with"} {
		assert.True(t, lang.IsReserved(w), w)
	}
	for _, w := range []string{"let", "get", "of", "this", "undefined"} {
		assert.False(t, lang.IsReserved(w), w)
	}
	assert.True(t, lang.IsReservedIdentifier("let"))
	assert.True(t, lang.IsReservedIdentifier("export"))
	assert.False(t, lang.IsReservedIdentifier("if"))

	sym, ok := lang.KeywordSymbol("this")
	require.True(t, ok)
	assert.Equal(t, SymThis, sym)
	_, ok = lang.KeywordSymbol("foo")
	assert.False(t, ok)
}

func TestLanguage_OperatorPrecedence(t *testing.T) {
	lang := Get()

	prec := func(op string) int {
		info, ok := lang.BinaryOperator(op)
		require.True(t, ok, op)
		return info.Precedence
	}

	assert.Greater(t, prec("**"), prec("*"))
	assert.Greater(t, prec("*"), prec("+"))
	assert.Greater(t, prec("+"), prec("<<"))
	assert.Greater(t, prec("<<"), prec("<"))
	assert.Greater(t, prec("<"), prec("=="))
	assert.Greater(t, prec("=="), prec("&"))
	assert.Greater(t, prec("&"), prec("^"))
	assert.Greater(t, prec("^"), prec("|"))
	assert.Greater(t, prec("|"), prec("&&"))
	assert.Greater(t, prec("&&"), prec("||"))
	assert.Greater(t, prec("||"), prec("??"))
	assert.Equal(t, prec("in"), prec("<="))
	assert.Equal(t, lang.Precedence("ternary"), prec("??"))

	info, _ := lang.BinaryOperator("**")
	assert.True(t, info.RightAssoc)

	ops := lang.BinaryOperators()
	require.Len(t, ops, len(binaryOperatorSpecs))
	assert.Equal(t, "**", ops[0].Operator)

	assert.True(t, lang.IsUnaryOperator("typeof"))
	assert.False(t, lang.IsUnaryOperator("++"))
	assert.True(t, lang.IsAugmentedAssignment("??="))
	assert.False(t, lang.IsAugmentedAssignment("=="))
	assert.Equal(t, "member", lang.PrecedenceLevels()[0])
}

func TestLanguage_ReturnedSlicesAreCopies(t *testing.T) {
	lang := Get()
	levels := lang.PrecedenceLevels()
	levels[0] = "changed"
	assert.Equal(t, "member", lang.PrecedenceLevels()[0])

	ext := lang.Externals()
	require.Contains(t, ext, "_automatic_semicolon")
	ext[0] = "changed"
	assert.Equal(t, "_automatic_semicolon", lang.Externals()[0])
	assert.Contains(t, lang.Extras(), "comment")
}

func TestLanguage_NodeTypes(t *testing.T) {
	lang := Get()
	types := lang.NodeTypes()
	require.NotEmpty(t, types)

	byName := make(map[string]NodeType, len(types))
	for i, nt := range types {
		if i > 0 {
			assert.Less(t, types[i-1].Type, nt.Type)
		}
		byName[nt.Type] = nt
	}

	assert.NotContains(t, byName, "ERROR")
	stmt := byName["statement"]
	assert.Contains(t, stmt.Subtypes, NodeTypeRef{Type: "if_statement", Named: true})

	bin := byName["binary_expression"]
	require.Contains(t, bin.Fields, "operator")
	assert.Contains(t, bin.Fields["operator"].Types, NodeTypeRef{Type: "??", Named: false})
	assert.True(t, bin.Fields["left"].Required)

	assert.ElementsMatch(t, []string{"condition", "consequence", "alternative"}, lang.FieldsForKind(SymIfStatement))
}
