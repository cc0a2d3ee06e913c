// Package parser is the ucode parser engine. It is a recursive-descent parser with
// precedence climbing, driven by the grammar descriptor, that recovers from syntax errors
// with ERROR and MISSING nodes and reuses the unchanged statements of a previous tree.
package parser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tree-sitter-ucode/internal/adapter/outbound/lexer"
	"tree-sitter-ucode/internal/application/common/slogger"
	"tree-sitter-ucode/internal/domain/errors/domain"
	"tree-sitter-ucode/internal/domain/grammar"
	"tree-sitter-ucode/internal/domain/syntax"
)

// Option configures a Parser.
type Option func(*Parser)

// WithTimeout bounds the duration of every Parse call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(p *Parser) { p.timeout = d }
}

// WithReuse enables or disables reuse of subtrees from a previous tree.
func WithReuse(enabled bool) Option {
	return func(p *Parser) { p.reuse = enabled }
}

// WithMaxSourceBytes rejects sources larger than n bytes. Zero means no limit.
func WithMaxSourceBytes(n int) Option {
	return func(p *Parser) { p.maxSourceBytes = n }
}

// Stats describes the last parse.
type Stats struct {
	Reused  int // statements taken over from the previous tree
	Created int // statements parsed from text
}

// Parser turns ucode source into syntax trees. A Parser is not safe for concurrent use;
// create one per goroutine. Trees and the descriptor are safe to share.
type Parser struct {
	lang           *grammar.Language
	timeout        time.Duration
	reuse          bool
	maxSourceBytes int
	stats          Stats
}

// New creates a parser for lang.
func New(lang *grammar.Language, opts ...Option) *Parser {
	p := &Parser{lang: lang, reuse: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Language returns the descriptor the parser is driven by.
func (p *Parser) Language() *grammar.Language { return p.lang }

// Stats returns the statistics of the last Parse call.
func (p *Parser) Stats() Stats { return p.stats }

// Parse parses src. When old is non-nil it must already have been edited to match src;
// statements it shares with src are reused instead of being parsed again. Syntax errors
// are reported inside the tree. An error is returned only when the parse could not run
// to completion, in which case the tree is nil.
func (p *Parser) Parse(ctx context.Context, src []byte, old *syntax.Tree) (*syntax.Tree, error) {
	if p.lang == nil {
		return nil, domain.ErrNilLanguage
	}
	if p.maxSourceBytes > 0 && len(src) > p.maxSourceBytes {
		return nil, fmt.Errorf("source of %d bytes exceeds limit of %d: %w",
			len(src), p.maxSourceBytes, domain.ErrSourceTooLarge)
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	s := newState(ctx, p.lang, src)
	if old != nil && p.reuse {
		if old.TotalBytes() == uint32(len(src)) {
			s.reusable = old.ReuseIndex(p.reusableSymbol)
		} else {
			slogger.Warn(ctx, "Previous tree does not match source length, parsing from scratch", slogger.Fields{
				"tree_bytes":   old.TotalBytes(),
				"source_bytes": len(src),
			})
		}
	}

	root := s.parseProgram()
	p.stats = s.stats
	if s.err != nil {
		return nil, s.err
	}

	slogger.Debug(ctx, "Parsed ucode source", slogger.Fields{
		"bytes":   len(src),
		"reused":  s.stats.Reused,
		"created": s.stats.Created,
	})
	return syntax.NewTree(root, p.lang), nil
}

func (p *Parser) reusableSymbol(sym grammar.Symbol) bool {
	return p.lang.IsSubtype(grammar.SymStatement, sym)
}

// state is the per-parse working set. The current token is always lexed one step
// ahead of the last consumed element.
type state struct {
	ctx      context.Context
	lang     *grammar.Language
	lx       *lexer.Lexer
	tok      lexer.Token
	prevEnd  syntax.Length
	pending  []*syntax.Subtree
	reusable map[uint32]*syntax.Subtree
	stats    Stats
	err      error
}

func newState(ctx context.Context, lang *grammar.Language, src []byte) *state {
	s := &state{ctx: ctx, lang: lang, lx: lexer.New(src)}
	s.tok = s.lx.Next()
	return s
}

// checkpoint records cancellation of the parse. It is called between statements.
func (s *state) checkpoint() bool {
	if s.err != nil {
		return false
	}
	err := s.ctx.Err()
	if err == nil {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		s.err = fmt.Errorf("%w: %w", domain.ErrParseTimeout, err)
	} else {
		s.err = fmt.Errorf("%w: %w", domain.ErrParseCancelled, err)
	}
	return false
}

func (s *state) sym(token string) grammar.Symbol {
	return s.lang.MustSymbol(token)
}

func (s *state) at(text string) bool { return s.tok.Is(text) }

func (s *state) atEOF() bool { return s.tok.Kind == lexer.KindEOF }

func (s *state) advance() { s.tok = s.lx.Next() }

// absorbExtras moves the comments in front of the current token into the pending list,
// where the next builder to receive a child picks them up.
func (s *state) absorbExtras() {
	for _, e := range s.tok.Extras {
		s.pending = append(s.pending, syntax.NewExtra(e.Symbol, e.Start.Sub(s.prevEnd), e.End.Sub(e.Start)))
		s.prevEnd = e.End
	}
	s.tok.Extras = nil
}

// leaf turns the current token into a leaf of symbol sym without lexing the next token.
func (s *state) leaf(sym grammar.Symbol) *syntax.Subtree {
	s.absorbExtras()
	st := syntax.NewLeaf(sym, s.tok.Start.Sub(s.prevEnd), s.tok.End.Sub(s.tok.Start))
	s.prevEnd = s.tok.End
	return st
}

// consume turns the current token into a leaf of symbol sym and moves on.
func (s *state) consume(sym grammar.Symbol) *syntax.Subtree {
	st := s.leaf(sym)
	s.advance()
	return st
}

// consumeToken consumes the current token under the symbol it lexes to.
func (s *state) consumeToken() *syntax.Subtree {
	switch s.tok.Kind {
	case lexer.KindWord:
		if sym, ok := s.lang.KeywordSymbol(s.tok.Text); ok {
			return s.consume(sym)
		}
		return s.consume(grammar.SymIdentifier)
	case lexer.KindNumber:
		return s.consume(grammar.SymNumber)
	case lexer.KindPunct:
		if sym, ok := s.lang.SymbolForName(s.tok.Text, false); ok {
			return s.consume(sym)
		}
	case lexer.KindHashBang:
		return s.consume(grammar.SymHashBangLine)
	}
	return s.consume(grammar.SymError)
}

// part turns a piece of a string or template literal into a leaf.
func (s *state) part(sym grammar.Symbol, p lexer.Part) *syntax.Subtree {
	st := syntax.NewLeaf(sym, p.Start.Sub(s.prevEnd), p.End.Sub(p.Start))
	s.prevEnd = p.End
	return st
}

// builder collects the children of a node under construction.
type builder struct {
	s        *state
	children []*syntax.Subtree
	fields   []grammar.FieldID
	end      syntax.Length
}

func (s *state) node() *builder {
	return &builder{s: s, end: s.prevEnd}
}

// flush hands pending comments and error nodes to the builder.
func (b *builder) flush() {
	for _, st := range b.s.pending {
		b.children = append(b.children, st)
		b.fields = append(b.fields, grammar.FieldNone)
	}
	b.s.pending = b.s.pending[:0]
	b.end = b.s.prevEnd
}

func (b *builder) add(st *syntax.Subtree) {
	b.addField(grammar.FieldNone, st)
}

func (b *builder) addField(field grammar.FieldID, st *syntax.Subtree) {
	if st == nil {
		return
	}
	b.flush()
	b.children = append(b.children, st)
	b.fields = append(b.fields, field)
}

// token consumes the current token as an anonymous token child.
func (b *builder) token(text string) {
	b.add(b.s.consume(b.s.sym(text)))
}

// expect consumes text, or records it as missing.
func (b *builder) expect(text string) bool {
	return b.expectField(grammar.FieldNone, text)
}

func (b *builder) expectField(field grammar.FieldID, text string) bool {
	if b.s.at(text) {
		b.addField(field, b.s.consume(b.s.sym(text)))
		return true
	}
	b.addField(field, syntax.NewMissing(b.s.sym(text)))
	return false
}

// optional consumes text when it is the current token.
func (b *builder) optional(text string) bool {
	if !b.s.at(text) {
		return false
	}
	b.token(text)
	return true
}

func (b *builder) finish(sym grammar.Symbol) *syntax.Subtree {
	var lookahead uint32
	if hw := b.s.lx.HighWater(); hw > b.end.Bytes {
		lookahead = hw - b.end.Bytes
	}
	return syntax.NewNode(sym, b.children, b.fields, lookahead)
}

// semicolon terminates a statement with ';', an automatic semicolon, or a missing ';'.
func (s *state) semicolon(b *builder) {
	switch {
	case s.at(";"):
		b.token(";")
	case lexer.InsertSemicolon(s.tok):
	default:
		b.add(syntax.NewMissing(s.sym(";")))
	}
}

// peek returns the token after the current one without consuming anything.
func (s *state) peek() lexer.Token {
	saved := s.lx.Save()
	defer s.lx.Restore(saved)
	return s.scanNext()
}

// scanNext lexes the next token during speculation, skipping the body of the string or
// template literal it opens.
func (s *state) scanNext() lexer.Token {
	t := s.lx.Next()
	switch {
	case t.Is(`"`) || t.Is("'"):
		for {
			if p := s.lx.StringPart(t.Text[0]); p.Kind == lexer.PartClose || p.Kind == lexer.PartUnterminated {
				break
			}
		}
	case t.Is("`"):
		s.skipTemplate()
	}
	return t
}

func (s *state) skipTemplate() {
	for {
		switch s.lx.TemplatePart().Kind {
		case lexer.PartClose, lexer.PartUnterminated:
			return
		case lexer.PartSubstitution:
			depth := 1
			for depth > 0 {
				t := s.scanNext()
				switch {
				case t.Kind == lexer.KindEOF:
					return
				case t.Is("{"):
					depth++
				case t.Is("}"):
					depth--
				}
			}
		}
	}
}

// parenFollowedByArrow reports whether the '(' under the cursor closes with ')' '=>'.
func (s *state) parenFollowedByArrow() bool {
	saved := s.lx.Save()
	defer s.lx.Restore(saved)
	depth := 1
	for {
		t := s.scanNext()
		switch {
		case t.Kind == lexer.KindEOF:
			return false
		case t.Is("(") || t.Is("[") || t.Is("{"):
			depth++
		case t.Is(")") || t.Is("]") || t.Is("}"):
			depth--
			if depth == 0 {
				return t.Is(")") && s.scanNext().Is("=>")
			}
		}
	}
}

// reuseStatement takes over the statement of the previous tree that starts at the
// current position, if there is one.
func (s *state) reuseStatement() *syntax.Subtree {
	if s.reusable == nil {
		return nil
	}
	st, ok := s.reusable[s.prevEnd.Bytes]
	if !ok || st.Padding() != s.tok.Start.Sub(s.prevEnd) {
		return nil
	}
	s.prevEnd = s.prevEnd.Add(st.TotalLength())
	s.lx.Seek(s.prevEnd)
	s.advance()
	s.stats.Reused++
	return st
}
