package parser

import (
	"tree-sitter-ucode/internal/adapter/outbound/lexer"
	"tree-sitter-ucode/internal/domain/grammar"
	"tree-sitter-ucode/internal/domain/syntax"
)

// parseString parses a quoted string. The lexer sits right after the opening quote, so
// the content is scanned in string mode before regular lexing resumes.
func (s *state) parseString() *syntax.Subtree {
	quote := s.tok.Text
	b := s.node()
	b.add(s.leaf(s.sym(quote)))
	for {
		p := s.lx.StringPart(quote[0])
		switch p.Kind {
		case lexer.PartFragment:
			b.add(s.part(grammar.SymStringFragment, p))
		case lexer.PartEscape:
			b.add(s.part(grammar.SymEscapeSequence, p))
		case lexer.PartClose:
			b.add(s.part(s.sym(quote), p))
			s.advance()
			return b.finish(grammar.SymString)
		default:
			b.add(syntax.NewMissing(s.sym(quote)))
			s.advance()
			return b.finish(grammar.SymString)
		}
	}
}

// parseTemplate parses a template string, switching between template mode for its text
// and regular lexing inside substitutions.
func (s *state) parseTemplate() *syntax.Subtree {
	b := s.node()
	b.add(s.leaf(s.sym("`")))
	for {
		p := s.lx.TemplatePart()
		switch p.Kind {
		case lexer.PartFragment:
			b.add(s.part(grammar.SymStringFragment, p))
		case lexer.PartEscape:
			b.add(s.part(grammar.SymEscapeSequence, p))
		case lexer.PartSubstitution:
			sub := s.node()
			sub.add(s.part(s.sym("${"), p))
			s.advance()
			sub.add(s.parseExpressions(false))
			closed := s.at("}")
			if closed {
				sub.add(s.leaf(s.sym("}")))
			} else {
				sub.add(syntax.NewMissing(s.sym("}")))
			}
			b.add(sub.finish(grammar.SymTemplateSubstitution))
			if !closed {
				b.add(syntax.NewMissing(s.sym("`")))
				return b.finish(grammar.SymTemplateString)
			}
		case lexer.PartClose:
			b.add(s.part(s.sym("`"), p))
			s.advance()
			return b.finish(grammar.SymTemplateString)
		default:
			b.add(syntax.NewMissing(s.sym("`")))
			s.advance()
			return b.finish(grammar.SymTemplateString)
		}
	}
}
