package parser

import (
	"tree-sitter-ucode/internal/adapter/outbound/lexer"
	"tree-sitter-ucode/internal/domain/grammar"
	"tree-sitter-ucode/internal/domain/syntax"
)

// parseExpressions parses an expression or a comma-separated sequence of them. noIn
// keeps 'in' from being read as an operator inside for-loop initializers.
func (s *state) parseExpressions(noIn bool) *syntax.Subtree {
	first := s.parseAssignment(noIn)
	if !s.at(",") {
		return first
	}
	b := s.node()
	b.add(first)
	for b.optional(",") {
		b.add(s.parseAssignment(noIn))
	}
	return b.finish(grammar.SymSequenceExpression)
}

func (s *state) parseAssignment(noIn bool) *syntax.Subtree {
	if s.arrowFollows() {
		return s.parseArrow(noIn)
	}
	left := s.parseConditional(noIn)
	switch {
	case s.at("="):
		b := s.node()
		b.addField(grammar.FieldLeft, toPattern(left))
		b.token("=")
		b.addField(grammar.FieldRight, s.parseAssignment(noIn))
		return b.finish(grammar.SymAssignmentExpression)
	case s.tok.Kind == lexer.KindPunct && s.lang.IsAugmentedAssignment(s.tok.Text):
		b := s.node()
		b.addField(grammar.FieldLeft, left)
		b.addField(grammar.FieldOperator, s.consume(s.sym(s.tok.Text)))
		b.addField(grammar.FieldRight, s.parseAssignment(noIn))
		return b.finish(grammar.SymAugmentedAssignmentExpression)
	}
	return left
}

func (s *state) arrowFollows() bool {
	switch {
	case s.atIdentifier():
		return s.peek().Is("=>")
	case s.at("("):
		return s.parenFollowedByArrow()
	}
	return false
}

func (s *state) parseArrow(noIn bool) *syntax.Subtree {
	b := s.node()
	if s.at("(") {
		b.addField(grammar.FieldParameters, s.parseFormalParameters())
	} else {
		b.addField(grammar.FieldParameter, s.consume(grammar.SymIdentifier))
	}
	b.expect("=>")
	if s.at("{") {
		b.addField(grammar.FieldBody, s.parseBlock())
	} else {
		b.addField(grammar.FieldBody, s.parseAssignment(noIn))
	}
	return b.finish(grammar.SymArrowFunction)
}

func (s *state) parseConditional(noIn bool) *syntax.Subtree {
	cond := s.parseBinary(1, noIn)
	if !s.at("?") {
		return cond
	}
	b := s.node()
	b.addField(grammar.FieldCondition, cond)
	b.token("?")
	b.addField(grammar.FieldConsequence, s.parseAssignment(false))
	b.expect(":")
	b.addField(grammar.FieldAlternative, s.parseAssignment(noIn))
	return b.finish(grammar.SymTernaryExpression)
}

func (s *state) binaryOperator(noIn bool) (grammar.OperatorInfo, bool) {
	switch s.tok.Kind {
	case lexer.KindPunct:
		return s.lang.BinaryOperator(s.tok.Text)
	case lexer.KindWord:
		if s.tok.Text == "in" && !noIn {
			return s.lang.BinaryOperator("in")
		}
	}
	return grammar.OperatorInfo{}, false
}

// parseBinary climbs the precedence ladder of the descriptor, folding operators that bind
// at least as tightly as minPrec.
func (s *state) parseBinary(minPrec int, noIn bool) *syntax.Subtree {
	left := s.parseUnary()
	for {
		info, ok := s.binaryOperator(noIn)
		if !ok || info.Precedence < minPrec {
			return left
		}
		b := s.node()
		b.addField(grammar.FieldLeft, left)
		b.addField(grammar.FieldOperator, s.consume(s.sym(info.Operator)))
		next := info.Precedence + 1
		if info.RightAssoc {
			next = info.Precedence
		}
		b.addField(grammar.FieldRight, s.parseBinary(next, noIn))
		left = b.finish(grammar.SymBinaryExpression)
	}
}

func (s *state) atUnaryOperator() bool {
	if s.tok.Kind != lexer.KindPunct && s.tok.Kind != lexer.KindWord {
		return false
	}
	return s.lang.IsUnaryOperator(s.tok.Text)
}

func (s *state) parseUnary() *syntax.Subtree {
	switch {
	case s.at("++") || s.at("--"):
		b := s.node()
		b.addField(grammar.FieldOperator, s.consume(s.sym(s.tok.Text)))
		b.addField(grammar.FieldArgument, s.parseUnary())
		return b.finish(grammar.SymUpdateExpression)
	case s.atUnaryOperator():
		b := s.node()
		b.addField(grammar.FieldOperator, s.consume(s.sym(s.tok.Text)))
		b.addField(grammar.FieldArgument, s.parseUnary())
		return b.finish(grammar.SymUnaryExpression)
	}
	expr := s.parseCallMember()
	if (s.at("++") || s.at("--")) && !s.tok.NewlineBefore {
		b := s.node()
		b.addField(grammar.FieldArgument, expr)
		b.addField(grammar.FieldOperator, s.consume(s.sym(s.tok.Text)))
		return b.finish(grammar.SymUpdateExpression)
	}
	return expr
}

// parseCallMember parses a primary expression followed by any chain of member accesses,
// subscripts, calls and template calls.
func (s *state) parseCallMember() *syntax.Subtree {
	expr := s.parsePrimary()
	for {
		switch {
		case s.at("."):
			b := s.node()
			b.addField(grammar.FieldObject, expr)
			b.token(".")
			b.addField(grammar.FieldProperty, s.propertyIdentifier())
			expr = b.finish(grammar.SymMemberExpression)
		case s.at("?."):
			expr = s.parseOptionalChain(expr)
		case s.at("["):
			b := s.node()
			b.addField(grammar.FieldObject, expr)
			s.subscriptTail(b)
			expr = b.finish(grammar.SymSubscriptExpression)
		case s.at("("):
			b := s.node()
			b.addField(grammar.FieldFunction, expr)
			b.addField(grammar.FieldArguments, s.parseArguments())
			expr = b.finish(grammar.SymCallExpression)
		case s.at("`"):
			b := s.node()
			b.addField(grammar.FieldFunction, expr)
			b.addField(grammar.FieldArguments, s.parseTemplate())
			expr = b.finish(grammar.SymCallExpression)
		default:
			return expr
		}
	}
}

func (s *state) parseOptionalChain(expr *syntax.Subtree) *syntax.Subtree {
	next := s.peek()
	b := s.node()
	switch {
	case next.Is("("):
		b.addField(grammar.FieldFunction, expr)
		b.addField(grammar.FieldOptionalChain, s.consume(grammar.SymOptionalChain))
		b.addField(grammar.FieldArguments, s.parseArguments())
		return b.finish(grammar.SymCallExpression)
	case next.Is("["):
		b.addField(grammar.FieldObject, expr)
		b.addField(grammar.FieldOptionalChain, s.consume(grammar.SymOptionalChain))
		s.subscriptTail(b)
		return b.finish(grammar.SymSubscriptExpression)
	default:
		b.addField(grammar.FieldObject, expr)
		b.addField(grammar.FieldOptionalChain, s.consume(grammar.SymOptionalChain))
		b.addField(grammar.FieldProperty, s.propertyIdentifier())
		return b.finish(grammar.SymMemberExpression)
	}
}

func (s *state) subscriptTail(b *builder) {
	b.token("[")
	b.addField(grammar.FieldIndex, s.parseExpressions(false))
	b.expect("]")
}

// propertyIdentifier accepts any word, reserved or not, as a property name.
func (s *state) propertyIdentifier() *syntax.Subtree {
	if s.tok.Kind == lexer.KindWord {
		return s.consume(grammar.SymPropertyIdentifier)
	}
	return syntax.NewMissing(grammar.SymPropertyIdentifier)
}

// atPrimaryStop reports whether the current token ends the enclosing construct, so a
// missing operand is recorded instead of skipping the token.
func (s *state) atPrimaryStop() bool {
	switch s.tok.Kind {
	case lexer.KindEOF:
		return true
	case lexer.KindPunct:
		switch s.tok.Text {
		case ")", "]", "}", ";", ",", ":", "=>":
			return true
		}
	case lexer.KindWord:
		_, stop := nonExpressionWords[s.tok.Text]
		return stop
	}
	return false
}

// skipErrorToken wraps the current token in an ERROR node that the next builder adopts.
func (s *state) skipErrorToken() {
	if s.tok.Kind == lexer.KindInvalid {
		st := s.consume(grammar.SymError)
		s.pending = append(s.pending, st)
		return
	}
	b := s.node()
	b.add(s.consumeToken())
	s.pending = append(s.pending, b.finish(grammar.SymError))
}

func (s *state) parsePrimary() *syntax.Subtree {
	for {
		switch s.tok.Kind {
		case lexer.KindNumber:
			return s.consume(grammar.SymNumber)
		case lexer.KindWord:
			if st := s.parseWordPrimary(); st != nil {
				return st
			}
		case lexer.KindPunct:
			switch s.tok.Text {
			case "(":
				return s.parseParenthesized()
			case "[":
				return s.parseArray()
			case "{":
				return s.parseObject()
			case `"`, "'":
				return s.parseString()
			case "`":
				return s.parseTemplate()
			}
		}
		if s.atPrimaryStop() {
			return syntax.NewMissing(grammar.SymIdentifier)
		}
		s.skipErrorToken()
	}
}

func (s *state) parseWordPrimary() *syntax.Subtree {
	switch s.tok.Text {
	case "true":
		return s.consume(grammar.SymTrue)
	case "false":
		return s.consume(grammar.SymFalse)
	case "null":
		return s.consume(grammar.SymNull)
	case "undefined":
		return s.consume(grammar.SymUndefined)
	case "this":
		return s.consume(grammar.SymThis)
	case "function":
		return s.parseFunction(grammar.SymFunctionExpression)
	case "import":
		if !s.peek().Is(".") {
			return s.consume(grammar.SymImport)
		}
		b := s.node()
		b.token("import")
		b.token(".")
		b.expect("meta")
		return b.finish(grammar.SymMetaProperty)
	}
	if s.atIdentifier() {
		return s.consume(grammar.SymIdentifier)
	}
	return nil
}

func (s *state) parseParenthesized() *syntax.Subtree {
	b := s.node()
	b.expect("(")
	b.add(s.parseExpressions(false))
	b.expect(")")
	return b.finish(grammar.SymParenthesizedExpression)
}

func (s *state) parseFunction(sym grammar.Symbol) *syntax.Subtree {
	b := s.node()
	b.token("function")
	switch {
	case s.atIdentifier():
		b.addField(grammar.FieldName, s.consume(grammar.SymIdentifier))
	case sym == grammar.SymFunctionDeclaration:
		b.addField(grammar.FieldName, syntax.NewMissing(grammar.SymIdentifier))
	}
	b.addField(grammar.FieldParameters, s.parseFormalParameters())
	b.addField(grammar.FieldBody, s.parseBlock())
	return b.finish(sym)
}

// parseElement parses an array element or call argument.
func (s *state) parseElement() *syntax.Subtree {
	if !s.at("...") {
		return s.parseAssignment(false)
	}
	b := s.node()
	b.token("...")
	b.add(s.parseAssignment(false))
	return b.finish(grammar.SymSpreadElement)
}

// parseElementList parses a bracketed, comma-separated list in which elements may be
// omitted.
func (s *state) parseElementList(sym grammar.Symbol, open, closer string) *syntax.Subtree {
	b := s.node()
	b.expect(open)
	for !s.at(closer) && !s.atEOF() {
		if b.optional(",") {
			continue
		}
		if !s.at("...") && !s.canStartExpression() {
			break
		}
		b.add(s.parseElement())
		if !s.at(",") {
			break
		}
	}
	b.expect(closer)
	return b.finish(sym)
}

func (s *state) parseArray() *syntax.Subtree {
	return s.parseElementList(grammar.SymArray, "[", "]")
}

func (s *state) parseArguments() *syntax.Subtree {
	return s.parseElementList(grammar.SymArguments, "(", ")")
}

func (s *state) parseObject() *syntax.Subtree {
	b := s.node()
	b.expect("{")
	for !s.at("}") && !s.atEOF() {
		if b.optional(",") {
			continue
		}
		if !s.canStartMember() {
			break
		}
		b.add(s.parseObjectMember())
		if !s.at(",") {
			break
		}
	}
	b.expect("}")
	return b.finish(grammar.SymObject)
}

func (s *state) canStartMember() bool {
	switch s.tok.Kind {
	case lexer.KindWord, lexer.KindNumber:
		return true
	case lexer.KindPunct:
		switch s.tok.Text {
		case "...", "[", `"`, "'":
			return true
		}
	}
	return false
}

func (s *state) parseObjectMember() *syntax.Subtree {
	if s.at("...") {
		return s.parseElement()
	}
	if s.tok.Kind == lexer.KindWord {
		next := s.peek()
		switch {
		case (s.at("get") || s.at("set")) && startsPropertyName(next):
			b := s.node()
			b.token(s.tok.Text)
			b.addField(grammar.FieldName, s.parsePropertyName())
			s.methodTail(b)
			return b.finish(grammar.SymMethodDefinition)
		case next.Is("="):
			b := s.node()
			b.addField(grammar.FieldLeft, s.consume(grammar.SymShorthandPropertyIdentifierPattern))
			b.token("=")
			b.addField(grammar.FieldRight, s.parseAssignment(false))
			return b.finish(grammar.SymObjectAssignmentPattern)
		case !next.Is(":") && !next.Is("("):
			return s.consume(grammar.SymShorthandPropertyIdentifier)
		}
	}
	b := s.node()
	key := s.parsePropertyName()
	if s.at("(") {
		b.addField(grammar.FieldName, key)
		s.methodTail(b)
		return b.finish(grammar.SymMethodDefinition)
	}
	b.addField(grammar.FieldKey, key)
	b.expect(":")
	b.addField(grammar.FieldValue, s.parseAssignment(false))
	return b.finish(grammar.SymPair)
}

func startsPropertyName(t lexer.Token) bool {
	return t.Kind == lexer.KindWord || t.Kind == lexer.KindNumber || t.Is("[") || t.Is(`"`) || t.Is("'")
}

func (s *state) methodTail(b *builder) {
	b.addField(grammar.FieldParameters, s.parseFormalParameters())
	b.addField(grammar.FieldBody, s.parseBlock())
}

func (s *state) parsePropertyName() *syntax.Subtree {
	switch {
	case s.tok.Kind == lexer.KindWord:
		return s.consume(grammar.SymPropertyIdentifier)
	case s.tok.Kind == lexer.KindNumber:
		return s.consume(grammar.SymNumber)
	case s.at(`"`) || s.at("'"):
		return s.parseString()
	case s.at("["):
		b := s.node()
		b.token("[")
		b.add(s.parseAssignment(false))
		b.expect("]")
		return b.finish(grammar.SymComputedPropertyName)
	}
	return syntax.NewMissing(grammar.SymPropertyIdentifier)
}
