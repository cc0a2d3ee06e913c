package parser

import (
	"tree-sitter-ucode/internal/adapter/outbound/lexer"
	"tree-sitter-ucode/internal/domain/grammar"
	"tree-sitter-ucode/internal/domain/syntax"
)

// nonExpressionWords are reserved words that can neither start nor continue an expression.
var nonExpressionWords = map[string]struct{}{ //nolint:gochecknoglobals // lookup table
	"break": {}, "case": {}, "catch": {}, "const": {}, "continue": {}, "debugger": {},
	"default": {}, "do": {}, "else": {}, "finally": {}, "for": {}, "if": {}, "in": {},
	"return": {}, "switch": {}, "throw": {}, "try": {}, "var": {}, "while": {}, "with": {},
}

func (s *state) parseProgram() *syntax.Subtree {
	b := s.node()
	if s.tok.Kind == lexer.KindHashBang {
		b.add(s.consume(grammar.SymHashBangLine))
	}
	s.statementList(b, grammar.FieldNone, func() bool { return false })
	s.absorbExtras()
	b.flush()
	return syntax.NewRoot(grammar.SymProgram, b.children, b.fields, s.tok.Start.Sub(s.prevEnd))
}

// statementList parses statements into b until stop reports true or the input ends.
// Comments between statements become children of b.
func (s *state) statementList(b *builder, field grammar.FieldID, stop func() bool) {
	for s.checkpoint() {
		s.absorbExtras()
		b.flush()
		if s.atEOF() || stop() {
			return
		}
		if st := s.reuseStatement(); st != nil {
			b.addField(field, st)
			continue
		}
		if !s.canStartStatement() {
			b.add(s.skipInvalid(stop))
			continue
		}
		start := s.tok.Start.Bytes
		b.addField(field, s.parseStatement())
		s.stats.Created++
		if s.tok.Start.Bytes == start && !s.atEOF() {
			b.add(s.skipInvalid(stop))
		}
	}
}

// skipInvalid wraps tokens in an ERROR node until one can start a statement.
func (s *state) skipInvalid(stop func() bool) *syntax.Subtree {
	return s.skipUntil(func() bool { return stop() || s.canStartStatement() })
}

func (s *state) skipUntil(stop func() bool) *syntax.Subtree {
	b := s.node()
	for {
		b.add(s.consumeToken())
		if s.atEOF() || stop() {
			break
		}
	}
	if len(b.children) == 1 && b.children[0].IsError() {
		return b.children[0]
	}
	return b.finish(grammar.SymError)
}

func (s *state) canStartStatement() bool {
	switch s.tok.Kind {
	case lexer.KindWord:
		switch s.tok.Text {
		case "case", "catch", "default", "else", "finally", "in":
			return false
		}
		return true
	case lexer.KindNumber:
		return true
	case lexer.KindPunct:
		return s.at(";") || s.canStartExpression()
	}
	return false
}

func (s *state) canStartExpression() bool {
	switch s.tok.Kind {
	case lexer.KindWord:
		_, stop := nonExpressionWords[s.tok.Text]
		return !stop
	case lexer.KindNumber:
		return true
	case lexer.KindPunct:
		switch s.tok.Text {
		case "(", "[", "{", "!", "~", "+", "-", "++", "--", `"`, "'", "`":
			return true
		}
	}
	return false
}

// isIdentifierWord reports whether a word may be used as an identifier.
func (s *state) isIdentifierWord(word string) bool {
	return !s.lang.IsReserved(word) || s.lang.IsReservedIdentifier(word)
}

func (s *state) atIdentifier() bool {
	return s.tok.Kind == lexer.KindWord && s.isIdentifierWord(s.tok.Text)
}

// identifier consumes an identifier or records a missing one.
func (s *state) identifier() *syntax.Subtree {
	if s.atIdentifier() {
		return s.consume(grammar.SymIdentifier)
	}
	return syntax.NewMissing(grammar.SymIdentifier)
}

func (s *state) parseStatement() *syntax.Subtree {
	switch s.tok.Kind {
	case lexer.KindPunct:
		switch s.tok.Text {
		case "{":
			return s.parseBlock()
		case ";":
			return s.consume(grammar.SymEmptyStatement)
		}
	case lexer.KindWord:
		if st := s.parseKeywordStatement(); st != nil {
			return st
		}
	}
	return s.parseExpressionStatement()
}

// parseKeywordStatement parses statements introduced by a word. It returns nil when the
// word starts an expression statement instead.
func (s *state) parseKeywordStatement() *syntax.Subtree {
	switch s.tok.Text {
	case "export":
		return s.parseExport()
	case "import":
		if next := s.peek(); !next.Is("(") && !next.Is(".") {
			return s.parseImport()
		}
	case "var":
		return s.parseVariableDeclaration(grammar.SymVariableDeclaration, false)
	case "const":
		return s.parseVariableDeclaration(grammar.SymLexicalDeclaration, false)
	case "let":
		if s.declarationFollows(false) {
			return s.parseVariableDeclaration(grammar.SymLexicalDeclaration, false)
		}
	case "using":
		if s.declarationFollows(true) {
			return s.parseVariableDeclaration(grammar.SymUsingDeclaration, false)
		}
	case "function":
		if s.peek().Kind == lexer.KindWord {
			return s.parseFunction(grammar.SymFunctionDeclaration)
		}
	case "if":
		return s.parseIf()
	case "switch":
		return s.parseSwitch()
	case "for":
		return s.parseFor()
	case "while":
		return s.parseWhile()
	case "do":
		return s.parseDo()
	case "try":
		return s.parseTry()
	case "with":
		return s.parseWith()
	case "break", "continue":
		return s.parseJump()
	case "debugger":
		b := s.node()
		b.token("debugger")
		s.semicolon(b)
		return b.finish(grammar.SymDebuggerStatement)
	case "return":
		return s.parseReturn()
	case "throw":
		b := s.node()
		b.token("throw")
		b.add(s.parseExpressions(false))
		s.semicolon(b)
		return b.finish(grammar.SymThrowStatement)
	default:
		if s.atIdentifier() && s.peek().Is(":") {
			return s.parseLabeled()
		}
	}
	return nil
}

// declarationFollows reports whether the contextual keyword under the cursor starts a
// declaration rather than being used as an identifier.
func (s *state) declarationFollows(sameLine bool) bool {
	next := s.peek()
	if sameLine && next.NewlineBefore {
		return false
	}
	switch next.Kind {
	case lexer.KindWord:
		return next.Text != "in" && (!sameLine || next.Text != "of")
	case lexer.KindPunct:
		return !sameLine && (next.Text == "[" || next.Text == "{")
	}
	return false
}

func (s *state) parseExpressionStatement() *syntax.Subtree {
	b := s.node()
	b.add(s.parseExpressions(false))
	s.semicolon(b)
	return b.finish(grammar.SymExpressionStatement)
}

// parseBody parses the statement governed by a compound statement. A missing body is
// recorded as a missing empty statement and the offending token is left to the
// enclosing statement list.
func (s *state) parseBody() *syntax.Subtree {
	if s.canStartStatement() {
		return s.parseStatement()
	}
	return syntax.NewMissing(grammar.SymEmptyStatement)
}

func (s *state) parseBlock() *syntax.Subtree {
	b := s.node()
	if !b.expect("{") {
		b.expect("}")
		return b.finish(grammar.SymStatementBlock)
	}
	s.statementList(b, grammar.FieldNone, func() bool { return s.at("}") })
	b.expect("}")
	return b.finish(grammar.SymStatementBlock)
}

func (s *state) parseVariableDeclaration(sym grammar.Symbol, noIn bool) *syntax.Subtree {
	b := s.node()
	if sym == grammar.SymVariableDeclaration {
		b.token("var")
	} else {
		b.addField(grammar.FieldKind, s.consume(s.sym(s.tok.Text)))
	}
	for {
		b.add(s.parseDeclarator(noIn))
		if !b.optional(",") {
			break
		}
	}
	s.semicolon(b)
	return b.finish(sym)
}

func (s *state) parseDeclarator(noIn bool) *syntax.Subtree {
	b := s.node()
	b.addField(grammar.FieldName, s.parseBindingName())
	if b.optional("=") {
		b.addField(grammar.FieldValue, s.parseAssignment(noIn))
	}
	return b.finish(grammar.SymVariableDeclarator)
}

func (s *state) parseIf() *syntax.Subtree {
	b := s.node()
	b.token("if")
	b.addField(grammar.FieldCondition, s.parseParenthesized())
	b.addField(grammar.FieldConsequence, s.parseBody())
	if s.at("else") {
		e := s.node()
		e.token("else")
		e.add(s.parseBody())
		b.addField(grammar.FieldAlternative, e.finish(grammar.SymElseClause))
	}
	return b.finish(grammar.SymIfStatement)
}

func (s *state) parseSwitch() *syntax.Subtree {
	b := s.node()
	b.token("switch")
	b.addField(grammar.FieldValue, s.parseParenthesized())
	b.addField(grammar.FieldBody, s.parseSwitchBody())
	return b.finish(grammar.SymSwitchStatement)
}

func (s *state) atCaseEnd() bool {
	return s.at("}") || s.at("case") || s.at("default")
}

func (s *state) parseSwitchBody() *syntax.Subtree {
	b := s.node()
	if !b.expect("{") {
		b.expect("}")
		return b.finish(grammar.SymSwitchBody)
	}
loop:
	for s.checkpoint() {
		s.absorbExtras()
		b.flush()
		switch {
		case s.atEOF() || s.at("}"):
			break loop
		case s.at("case"):
			c := s.node()
			c.token("case")
			c.addField(grammar.FieldValue, s.parseExpressions(false))
			c.expect(":")
			s.statementList(c, grammar.FieldBody, s.atCaseEnd)
			b.add(c.finish(grammar.SymSwitchCase))
		case s.at("default"):
			d := s.node()
			d.token("default")
			d.expect(":")
			s.statementList(d, grammar.FieldBody, s.atCaseEnd)
			b.add(d.finish(grammar.SymSwitchDefault))
		default:
			b.add(s.skipUntil(s.atCaseEnd))
		}
	}
	b.expect("}")
	return b.finish(grammar.SymSwitchBody)
}

func (s *state) parseFor() *syntax.Subtree {
	b := s.node()
	b.token("for")
	if s.at("(") && s.forInHeaderFollows() {
		return s.parseForIn(b)
	}
	b.expect("(")
	switch {
	case s.at("var"):
		b.addField(grammar.FieldInitializer, s.parseVariableDeclaration(grammar.SymVariableDeclaration, true))
	case s.at("const") || (s.at("let") && s.declarationFollows(false)):
		b.addField(grammar.FieldInitializer, s.parseVariableDeclaration(grammar.SymLexicalDeclaration, true))
	case s.at(";"):
		b.addField(grammar.FieldInitializer, s.consume(grammar.SymEmptyStatement))
	default:
		b.addField(grammar.FieldInitializer, s.parseExpressions(true))
		b.expect(";")
	}
	if s.at(";") {
		b.addField(grammar.FieldCondition, s.consume(grammar.SymEmptyStatement))
	} else {
		b.addField(grammar.FieldCondition, s.parseExpressions(false))
		b.expect(";")
	}
	if !s.at(")") {
		b.addField(grammar.FieldIncrement, s.parseExpressions(false))
	}
	b.expect(")")
	b.addField(grammar.FieldBody, s.parseBody())
	return b.finish(grammar.SymForStatement)
}

func isDeclarationKind(t lexer.Token) bool {
	return t.Is("var") || t.Is("let") || t.Is("const") || t.Is("using")
}

// forInHeaderFollows scans the parenthesized loop header under the cursor for an 'in'
// or 'of' operator before the first ';'.
func (s *state) forInHeaderFollows() bool {
	saved := s.lx.Save()
	defer s.lx.Restore(saved)
	depth := 0
	var prev lexer.Token
	for i := 0; ; i++ {
		t := s.scanNext()
		switch {
		case t.Kind == lexer.KindEOF:
			return false
		case t.Is("(") || t.Is("[") || t.Is("{"):
			depth++
		case t.Is(")") || t.Is("]") || t.Is("}"):
			if depth == 0 {
				return false
			}
			depth--
		case depth > 0:
		case t.Is(";"):
			return false
		case t.Is("in"):
			return true
		case t.Is("of") && i > 0 && !isDeclarationKind(prev):
			return true
		}
		prev = t
	}
}

func (s *state) parseForIn(b *builder) *syntax.Subtree {
	b.expect("(")
	if isDeclarationKind(s.tok) && (!s.at("let") || s.declarationFollows(false)) {
		kind := s.tok.Text
		b.addField(grammar.FieldKind, s.consume(s.sym(kind)))
		b.addField(grammar.FieldLeft, s.parseBindingName())
		if kind == "var" && b.optional("=") {
			b.addField(grammar.FieldValue, s.parseAssignment(true))
		}
	} else {
		b.addField(grammar.FieldLeft, toPattern(s.parseCallMember()))
	}
	if b.optional(",") {
		b.addField(grammar.FieldValue, s.identifier())
	}
	switch {
	case s.at("in"), s.at("of"):
		b.addField(grammar.FieldOperator, s.consume(s.sym(s.tok.Text)))
	default:
		b.addField(grammar.FieldOperator, syntax.NewMissing(s.sym("in")))
	}
	b.addField(grammar.FieldRight, s.parseExpressions(false))
	b.expect(")")
	b.addField(grammar.FieldBody, s.parseBody())
	return b.finish(grammar.SymForInStatement)
}

func (s *state) parseWhile() *syntax.Subtree {
	b := s.node()
	b.token("while")
	b.addField(grammar.FieldCondition, s.parseParenthesized())
	b.addField(grammar.FieldBody, s.parseBody())
	return b.finish(grammar.SymWhileStatement)
}

func (s *state) parseDo() *syntax.Subtree {
	b := s.node()
	b.token("do")
	b.addField(grammar.FieldBody, s.parseBody())
	b.expect("while")
	b.addField(grammar.FieldCondition, s.parseParenthesized())
	b.optional(";")
	return b.finish(grammar.SymDoStatement)
}

func (s *state) parseTry() *syntax.Subtree {
	b := s.node()
	b.token("try")
	b.addField(grammar.FieldBody, s.parseBlock())
	if s.at("catch") {
		c := s.node()
		c.token("catch")
		if c.optional("(") {
			c.addField(grammar.FieldParameter, s.parseBindingName())
			c.expect(")")
		}
		c.addField(grammar.FieldBody, s.parseBlock())
		b.addField(grammar.FieldHandler, c.finish(grammar.SymCatchClause))
	}
	if s.at("finally") {
		f := s.node()
		f.token("finally")
		f.addField(grammar.FieldBody, s.parseBlock())
		b.addField(grammar.FieldFinalizer, f.finish(grammar.SymFinallyClause))
	}
	return b.finish(grammar.SymTryStatement)
}

func (s *state) parseWith() *syntax.Subtree {
	b := s.node()
	b.token("with")
	b.addField(grammar.FieldObject, s.parseParenthesized())
	b.addField(grammar.FieldBody, s.parseBody())
	return b.finish(grammar.SymWithStatement)
}

// parseJump parses break and continue statements with their optional label.
func (s *state) parseJump() *syntax.Subtree {
	b := s.node()
	sym := grammar.SymBreakStatement
	if s.at("continue") {
		sym = grammar.SymContinueStatement
	}
	b.token(s.tok.Text)
	if s.atIdentifier() && !s.tok.NewlineBefore {
		b.addField(grammar.FieldLabel, s.consume(grammar.SymStatementIdentifier))
	}
	s.semicolon(b)
	return b.finish(sym)
}

func (s *state) parseReturn() *syntax.Subtree {
	b := s.node()
	b.token("return")
	if !s.at(";") && !lexer.InsertSemicolon(s.tok) && s.canStartExpression() {
		b.add(s.parseExpressions(false))
	}
	s.semicolon(b)
	return b.finish(grammar.SymReturnStatement)
}

func (s *state) parseLabeled() *syntax.Subtree {
	b := s.node()
	b.addField(grammar.FieldLabel, s.consume(grammar.SymStatementIdentifier))
	b.token(":")
	b.addField(grammar.FieldBody, s.parseBody())
	return b.finish(grammar.SymLabeledStatement)
}
