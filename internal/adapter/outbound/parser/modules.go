package parser

import (
	"tree-sitter-ucode/internal/adapter/outbound/lexer"
	"tree-sitter-ucode/internal/domain/grammar"
	"tree-sitter-ucode/internal/domain/syntax"
)

func (s *state) atString() bool {
	return s.at(`"`) || s.at("'")
}

func (s *state) parseExport() *syntax.Subtree {
	b := s.node()
	b.token("export")
	switch {
	case s.at("*"):
		if s.peek().Is("as") {
			ns := s.node()
			ns.token("*")
			ns.token("as")
			ns.add(s.moduleExportName())
			b.add(ns.finish(grammar.SymNamespaceExport))
		} else {
			b.token("*")
		}
		s.fromClause(b)
		s.semicolon(b)
	case s.at("{"):
		b.add(s.specifierList(grammar.SymExportClause, s.parseExportSpecifier))
		if s.at("from") {
			s.fromClause(b)
		}
		s.semicolon(b)
	case s.at("default"):
		b.token("default")
		if decl := s.parseDeclaration(); decl != nil {
			b.addField(grammar.FieldDeclaration, decl)
			break
		}
		b.addField(grammar.FieldValue, s.parseAssignment(false))
		s.semicolon(b)
	default:
		decl := s.parseDeclaration()
		if decl == nil {
			decl = syntax.NewMissing(grammar.SymLexicalDeclaration)
		}
		b.addField(grammar.FieldDeclaration, decl)
	}
	return b.finish(grammar.SymExportStatement)
}

// parseDeclaration parses the declaration under the cursor, or returns nil when there
// is none.
func (s *state) parseDeclaration() *syntax.Subtree {
	switch {
	case s.at("function"):
		if s.peek().Kind != lexer.KindWord {
			return nil
		}
		return s.parseFunction(grammar.SymFunctionDeclaration)
	case s.at("var"):
		return s.parseVariableDeclaration(grammar.SymVariableDeclaration, false)
	case s.at("const"), s.at("let"):
		return s.parseVariableDeclaration(grammar.SymLexicalDeclaration, false)
	case s.at("using"):
		return s.parseVariableDeclaration(grammar.SymUsingDeclaration, false)
	}
	return nil
}

// moduleExportName parses an identifier, a string or 'default'.
func (s *state) moduleExportName() *syntax.Subtree {
	switch {
	case s.atString():
		return s.parseString()
	case s.at("default"):
		return s.consume(s.sym("default"))
	}
	return s.identifier()
}

func (s *state) fromClause(b *builder) {
	b.expect("from")
	if s.atString() {
		b.addField(grammar.FieldSource, s.parseString())
		return
	}
	b.addField(grammar.FieldSource, syntax.NewMissing(grammar.SymString))
}

// specifierList parses a braced, comma-separated list of import or export specifiers.
func (s *state) specifierList(sym grammar.Symbol, item func() *syntax.Subtree) *syntax.Subtree {
	b := s.node()
	b.expect("{")
	for !s.at("}") && !s.atEOF() {
		b.add(item())
		if !b.optional(",") {
			break
		}
	}
	b.expect("}")
	return b.finish(sym)
}

func (s *state) parseExportSpecifier() *syntax.Subtree {
	b := s.node()
	b.addField(grammar.FieldName, s.moduleExportName())
	if b.optional("as") {
		b.addField(grammar.FieldAlias, s.moduleExportName())
	}
	return b.finish(grammar.SymExportSpecifier)
}

func (s *state) parseImportSpecifier() *syntax.Subtree {
	b := s.node()
	b.addField(grammar.FieldName, s.moduleExportName())
	if b.optional("as") {
		b.addField(grammar.FieldAlias, s.identifier())
	}
	return b.finish(grammar.SymImportSpecifier)
}

func (s *state) parseImport() *syntax.Subtree {
	b := s.node()
	b.token("import")
	if s.atString() {
		b.addField(grammar.FieldSource, s.parseString())
	} else {
		b.add(s.parseImportClause())
		s.fromClause(b)
	}
	if s.at("with") {
		attr := s.node()
		attr.token("with")
		attr.add(s.parseObject())
		b.add(attr.finish(grammar.SymImportAttribute))
	}
	s.semicolon(b)
	return b.finish(grammar.SymImportStatement)
}

func (s *state) parseImportClause() *syntax.Subtree {
	b := s.node()
	switch {
	case s.at("*"):
		b.add(s.parseNamespaceImport())
	case s.at("{"):
		b.add(s.specifierList(grammar.SymNamedImports, s.parseImportSpecifier))
	default:
		b.add(s.identifier())
		if b.optional(",") {
			if s.at("*") {
				b.add(s.parseNamespaceImport())
			} else {
				b.add(s.specifierList(grammar.SymNamedImports, s.parseImportSpecifier))
			}
		}
	}
	return b.finish(grammar.SymImportClause)
}

func (s *state) parseNamespaceImport() *syntax.Subtree {
	b := s.node()
	b.token("*")
	b.expect("as")
	b.add(s.identifier())
	return b.finish(grammar.SymNamespaceImport)
}
