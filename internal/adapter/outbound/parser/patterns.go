package parser

import (
	"tree-sitter-ucode/internal/adapter/outbound/lexer"
	"tree-sitter-ucode/internal/domain/grammar"
	"tree-sitter-ucode/internal/domain/syntax"
)

func (s *state) parseFormalParameters() *syntax.Subtree {
	b := s.node()
	b.expect("(")
	for !s.at(")") && !s.atEOF() {
		if !s.canStartBinding() {
			break
		}
		b.add(s.parseBindingElement())
		if !b.optional(",") {
			break
		}
	}
	b.expect(")")
	return b.finish(grammar.SymFormalParameters)
}

func (s *state) canStartBinding() bool {
	return s.atIdentifier() || s.at("[") || s.at("{") || s.at("...")
}

// parseBindingElement parses a pattern with an optional default value.
func (s *state) parseBindingElement() *syntax.Subtree {
	target := s.parseBindingTarget()
	if !s.at("=") {
		return target
	}
	b := s.node()
	b.addField(grammar.FieldLeft, target)
	b.token("=")
	b.addField(grammar.FieldRight, s.parseAssignment(false))
	return b.finish(grammar.SymAssignmentPattern)
}

func (s *state) parseBindingTarget() *syntax.Subtree {
	switch {
	case s.at("..."):
		b := s.node()
		b.token("...")
		b.add(s.parseBindingTarget())
		return b.finish(grammar.SymRestPattern)
	case s.tok.Is("undefined"):
		return s.consume(grammar.SymUndefined)
	}
	return s.parseBindingName()
}

// parseBindingName parses the name bound by a declarator, catch clause or loop header.
func (s *state) parseBindingName() *syntax.Subtree {
	switch {
	case s.at("["):
		return s.parseArrayPattern()
	case s.at("{"):
		return s.parseObjectPattern()
	}
	return s.identifier()
}

func (s *state) parseArrayPattern() *syntax.Subtree {
	b := s.node()
	b.token("[")
	for !s.at("]") && !s.atEOF() {
		if b.optional(",") {
			continue
		}
		if !s.canStartBinding() {
			break
		}
		b.add(s.parseBindingElement())
		if !s.at(",") {
			break
		}
	}
	b.expect("]")
	return b.finish(grammar.SymArrayPattern)
}

func (s *state) parseObjectPattern() *syntax.Subtree {
	b := s.node()
	b.token("{")
	for !s.at("}") && !s.atEOF() {
		if b.optional(",") {
			continue
		}
		if !s.canStartMember() {
			break
		}
		b.add(s.parseObjectPatternMember())
		if !s.at(",") {
			break
		}
	}
	b.expect("}")
	return b.finish(grammar.SymObjectPattern)
}

func (s *state) parseObjectPatternMember() *syntax.Subtree {
	if s.at("...") {
		return s.parseBindingTarget()
	}
	if s.tok.Kind == lexer.KindWord {
		next := s.peek()
		switch {
		case next.Is("="):
			b := s.node()
			b.addField(grammar.FieldLeft, s.consume(grammar.SymShorthandPropertyIdentifierPattern))
			b.token("=")
			b.addField(grammar.FieldRight, s.parseAssignment(false))
			return b.finish(grammar.SymObjectAssignmentPattern)
		case !next.Is(":"):
			return s.consume(grammar.SymShorthandPropertyIdentifierPattern)
		}
	}
	b := s.node()
	b.addField(grammar.FieldKey, s.parsePropertyName())
	b.expect(":")
	b.addField(grammar.FieldValue, s.parseBindingElement())
	return b.finish(grammar.SymPairPattern)
}

// toPattern reinterprets an object or array literal found on the left of '=' as the
// destructuring pattern it covers. Other expressions are returned unchanged.
func toPattern(st *syntax.Subtree) *syntax.Subtree {
	switch st.Symbol() {
	case grammar.SymObject:
		return rebuild(st, grammar.SymObjectPattern, objectMemberPattern)
	case grammar.SymArray:
		return rebuild(st, grammar.SymArrayPattern, elementPattern)
	}
	return st
}

func rebuild(st *syntax.Subtree, sym grammar.Symbol, convert func(*syntax.Subtree) *syntax.Subtree) *syntax.Subtree {
	children := make([]*syntax.Subtree, st.ChildCount())
	fields := make([]grammar.FieldID, st.ChildCount())
	for i, child := range st.Children() {
		children[i] = convert(child)
		fields[i] = st.FieldAt(i)
	}
	return syntax.NewNode(sym, children, fields, st.Lookahead())
}

func keep(st *syntax.Subtree) *syntax.Subtree { return st }

func objectMemberPattern(st *syntax.Subtree) *syntax.Subtree {
	switch st.Symbol() {
	case grammar.SymPair:
		return rebuild(st, grammar.SymPairPattern, elementPattern)
	case grammar.SymShorthandPropertyIdentifier:
		return syntax.NewLeaf(grammar.SymShorthandPropertyIdentifierPattern, st.Padding(), st.Size())
	}
	return elementPattern(st)
}

// elementPattern converts an array element or pair value to its pattern form.
func elementPattern(st *syntax.Subtree) *syntax.Subtree {
	switch st.Symbol() {
	case grammar.SymAssignmentExpression:
		return rebuild(st, grammar.SymAssignmentPattern, keep)
	case grammar.SymSpreadElement:
		return rebuild(st, grammar.SymRestPattern, toPattern)
	}
	return toPattern(st)
}
