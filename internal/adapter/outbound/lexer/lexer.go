// Package lexer scans ucode source text into tokens for the parser. It covers both the
// regular lexical grammar and the behaviours of the external scanner: automatic
// semicolons, template characters, the ternary question mark and html comments.
package lexer

import (
	"unicode"
	"unicode/utf8"

	"tree-sitter-ucode/internal/domain/grammar"
	"tree-sitter-ucode/internal/domain/syntax"
)

// Kind classifies a token.
type Kind uint8

const (
	KindEOF Kind = iota
	KindWord
	KindNumber
	KindPunct
	KindHashBang
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "EOF"
	case KindWord:
		return "word"
	case KindNumber:
		return "number"
	case KindPunct:
		return "punctuation"
	case KindHashBang:
		return "hash_bang_line"
	default:
		return "invalid"
	}
}

// Extra is a comment found before a token.
type Extra struct {
	Symbol     grammar.Symbol
	Start, End syntax.Length
}

// Token is a lexed token with absolute positions.
type Token struct {
	Kind          Kind
	Text          string
	Start, End    syntax.Length
	Extras        []Extra
	NewlineBefore bool
}

// Is reports whether the token is the punctuation or word text.
func (t Token) Is(text string) bool {
	return (t.Kind == KindPunct || t.Kind == KindWord) && t.Text == text
}

// State is a saved lexer position.
type State struct {
	pos syntax.Length
}

// Pos returns the saved absolute position.
func (s State) Pos() syntax.Length { return s.pos }

// Lexer scans a source buffer. It is not safe for concurrent use.
type Lexer struct {
	src       []byte
	pos       syntax.Length
	highWater uint32
}

// New creates a lexer over src.
func New(src []byte) *Lexer {
	return &Lexer{src: src}
}

// Source returns the buffer being scanned.
func (l *Lexer) Source() []byte { return l.src }

// Pos returns the current absolute position.
func (l *Lexer) Pos() syntax.Length { return l.pos }

// Save captures the current position.
func (l *Lexer) Save() State { return State{pos: l.pos} }

// Restore rewinds or advances to a saved position. The high-water mark is kept.
func (l *Lexer) Restore(s State) { l.pos = s.pos }

// Seek moves to an absolute position, such as the end of a reused subtree.
func (l *Lexer) Seek(pos syntax.Length) { l.pos = pos }

// HighWater returns one past the furthest byte the lexer has examined.
func (l *Lexer) HighWater() uint32 { return l.highWater }

func (l *Lexer) touch(offset int) {
	if n := uint32(offset + 1); n > l.highWater {
		if n > uint32(len(l.src)) {
			n = uint32(len(l.src)) + 1
		}
		l.highWater = n
	}
}

func (l *Lexer) offset() int { return int(l.pos.Bytes) }

// peek returns the rune at the current position plus delta bytes.
func (l *Lexer) peekAt(delta int) (rune, int) {
	i := l.offset() + delta
	l.touch(i)
	if i >= len(l.src) {
		return utf8.RuneError, 0
	}
	c := l.src[i]
	if c < utf8.RuneSelf {
		return rune(c), 1
	}
	return utf8.DecodeRune(l.src[i:])
}

func (l *Lexer) byteAt(delta int) byte {
	i := l.offset() + delta
	l.touch(i)
	if i >= len(l.src) {
		return 0
	}
	return l.src[i]
}

func (l *Lexer) eof() bool {
	l.touch(l.offset())
	return l.offset() >= len(l.src)
}

func (l *Lexer) advance(n int) {
	end := l.offset() + n
	if end > len(l.src) {
		end = len(l.src)
	}
	l.pos = l.pos.Add(syntax.LengthOf(l.src[l.offset():end]))
}

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029'
}

// IsWhitespace reports whether r is skipped between tokens.
func IsWhitespace(r rune) bool {
	switch r {
	case '\uFEFF', '\u2060', '\u200B', '\u2028', '\u2029':
		return true
	}
	return unicode.IsSpace(r) || unicode.Is(unicode.Zs, r)
}

// skipTrivia skips whitespace and collects comments. It reports whether a line
// terminator was crossed.
func (l *Lexer) skipTrivia() ([]Extra, bool) {
	var extras []Extra
	fileStart := l.pos.Bytes == 0
	newline := false
	for !l.eof() {
		r, size := l.peekAt(0)
		switch {
		case IsWhitespace(r):
			if isLineTerminator(r) {
				newline = true
			}
			l.advance(size)
		case r == '/' && l.byteAt(1) == '/':
			start := l.pos
			l.skipToLineEnd()
			extras = append(extras, Extra{Symbol: grammar.SymComment, Start: start, End: l.pos})
		case r == '/' && l.byteAt(1) == '*':
			start := l.pos
			if l.skipBlockComment() {
				newline = true
			}
			extras = append(extras, Extra{Symbol: grammar.SymComment, Start: start, End: l.pos})
		case r == '<' && l.hasPrefix("<!--"):
			start := l.pos
			l.skipToLineEnd()
			extras = append(extras, Extra{Symbol: grammar.SymHTMLComment, Start: start, End: l.pos})
		case r == '-' && (newline || fileStart) && l.hasPrefix("-->"):
			start := l.pos
			l.skipToLineEnd()
			extras = append(extras, Extra{Symbol: grammar.SymHTMLComment, Start: start, End: l.pos})
		default:
			return extras, newline
		}
	}
	return extras, newline
}

func (l *Lexer) hasPrefix(p string) bool {
	for i := 0; i < len(p); i++ {
		if l.byteAt(i) != p[i] {
			return false
		}
	}
	return true
}

func (l *Lexer) skipToLineEnd() {
	for !l.eof() {
		r, size := l.peekAt(0)
		if isLineTerminator(r) {
			return
		}
		l.advance(size)
	}
}

// skipBlockComment consumes a /* */ comment and reports whether it spans lines. An
// unterminated comment runs to the end of input.
func (l *Lexer) skipBlockComment() bool {
	multiline := false
	l.advance(2)
	for !l.eof() {
		if l.byteAt(0) == '*' && l.byteAt(1) == '/' {
			l.advance(2)
			return multiline
		}
		r, size := l.peekAt(0)
		if isLineTerminator(r) {
			multiline = true
		}
		l.advance(size)
	}
	return multiline
}

// Next scans the next token in regular mode.
func (l *Lexer) Next() Token {
	extras, newline := l.skipTrivia()
	tok := Token{Extras: extras, NewlineBefore: newline, Start: l.pos}
	switch {
	case l.eof():
		tok.Kind = KindEOF
	case l.pos.Bytes == 0 && l.hasPrefix("#!"):
		l.skipToLineEnd()
		tok.Kind = KindHashBang
	default:
		tok.Kind = l.scanToken()
	}
	tok.End = l.pos
	tok.Text = string(l.src[tok.Start.Bytes:tok.End.Bytes])
	return tok
}

func (l *Lexer) scanToken() Kind {
	r, size := l.peekAt(0)
	switch {
	case r >= '0' && r <= '9':
		l.scanNumber()
		return KindNumber
	case r == '.' && isDigit(l.byteAt(1)):
		l.scanNumber()
		return KindNumber
	case r == '\\' && l.byteAt(1) == 'u':
		if l.scanIdentifier() {
			return KindWord
		}
		l.advance(1)
		return KindInvalid
	case IsIdentifierStart(r):
		l.scanIdentifier()
		return KindWord
	}
	if p := l.matchPunct(); p > 0 {
		l.advance(p)
		return KindPunct
	}
	if r == utf8.RuneError && size <= 1 {
		size = 1
	}
	l.advance(size)
	return KindInvalid
}

// punctuators ordered so that longer tokens are tried first.
var punctuators = [...]string{ //nolint:gochecknoglobals // lexical table
	">>>=",
	"...", "===", "!==", "**=", "<<=", ">>=", ">>>", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--", "+=", "-=", "*=",
	"/=", "%=", "^=", "&=", "|=", "**", "<<", ">>",
	"{", "}", "(", ")", "[", "]", ";", ",", ":", ".", "?", "=", "+", "-", "*", "/", "%",
	"<", ">", "&", "|", "^", "!", "~", "\"", "'", "`",
}

func (l *Lexer) matchPunct() int {
	for _, p := range punctuators {
		if !l.hasPrefix(p) {
			continue
		}
		if p == "?." && isDigit(l.byteAt(2)) {
			continue
		}
		return len(p)
	}
	return 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

const identifierExcluded = ":;`\"'@#.,|^&<=>+-*/\\%?!~()[]{}"

// IsIdentifierStart reports whether r may begin an identifier.
func IsIdentifierStart(r rune) bool {
	return IsIdentifierPart(r) && (r < '0' || r > '9')
}

// IsIdentifierPart reports whether r may continue an identifier.
func IsIdentifierPart(r rune) bool {
	if r < 0x20 || r == utf8.RuneError || IsWhitespace(r) {
		return false
	}
	if r < utf8.RuneSelf {
		for i := 0; i < len(identifierExcluded); i++ {
			if rune(identifierExcluded[i]) == r {
				return false
			}
		}
		return r != 0x7f
	}
	return true
}

func (l *Lexer) scanIdentifier() bool {
	start := l.offset()
	for !l.eof() {
		if l.byteAt(0) == '\\' {
			n := l.unicodeEscapeLen()
			if n == 0 {
				break
			}
			l.advance(n)
			continue
		}
		r, size := l.peekAt(0)
		if !IsIdentifierPart(r) || (l.offset() == start && !IsIdentifierStart(r)) {
			break
		}
		l.advance(size)
	}
	return l.offset() > start
}

// unicodeEscapeLen returns the length of a \uXXXX or \u{X...} escape at the current
// position, or 0.
func (l *Lexer) unicodeEscapeLen() int {
	if l.byteAt(0) != '\\' || l.byteAt(1) != 'u' {
		return 0
	}
	if l.byteAt(2) == '{' {
		i := 3
		for isHexDigit(l.byteAt(i)) {
			i++
		}
		if i > 3 && l.byteAt(i) == '}' {
			return i + 1
		}
		return 0
	}
	for i := 2; i < 6; i++ {
		if !isHexDigit(l.byteAt(i)) {
			return 0
		}
	}
	return 6
}

func (l *Lexer) scanDigits(valid func(byte) bool) {
	for {
		c := l.byteAt(0)
		if valid(c) {
			l.advance(1)
			continue
		}
		if c == '_' && valid(l.byteAt(1)) {
			l.advance(2)
			continue
		}
		return
	}
}

func (l *Lexer) scanNumber() {
	if l.byteAt(0) == '0' {
		var valid func(byte) bool
		switch l.byteAt(1) {
		case 'x', 'X':
			valid = isHexDigit
		case 'b', 'B':
			valid = func(c byte) bool { return c == '0' || c == '1' }
		case 'o', 'O':
			valid = func(c byte) bool { return c >= '0' && c <= '7' }
		}
		if valid != nil && valid(l.byteAt(2)) {
			l.advance(2)
			l.scanDigits(valid)
			if l.byteAt(0) == 'n' {
				l.advance(1)
			}
			return
		}
	}

	integer := true
	l.scanDigits(isDigit)
	if l.byteAt(0) == '.' {
		integer = false
		l.advance(1)
		l.scanDigits(isDigit)
	}
	if c := l.byteAt(0); c == 'e' || c == 'E' {
		sign := 0
		if s := l.byteAt(1); s == '+' || s == '-' {
			sign = 1
		}
		if isDigit(l.byteAt(1 + sign)) {
			integer = false
			l.advance(1 + sign)
			l.scanDigits(isDigit)
		}
	}
	if integer && l.byteAt(0) == 'n' {
		l.advance(1)
	}
}

// PartKind classifies a piece of a string or template literal.
type PartKind uint8

const (
	PartFragment PartKind = iota
	PartEscape
	PartClose
	PartSubstitution
	PartUnterminated
)

// Part is a piece of string or template content. Parts are immediate: no whitespace
// is skipped before them.
type Part struct {
	Kind       PartKind
	Start, End syntax.Length
}

// StringPart scans the next piece of a quoted string closed by quote.
func (l *Lexer) StringPart(quote byte) Part {
	p := Part{Start: l.pos}
	c := l.byteAt(0)
	switch {
	case l.eof() || c == '\n' || c == '\r':
		p.Kind = PartUnterminated
	case c == quote:
		p.Kind = PartClose
		l.advance(1)
	case c == '\\':
		p.Kind = PartEscape
		l.scanEscape()
	default:
		p.Kind = PartFragment
		for !l.eof() {
			c = l.byteAt(0)
			if c == quote || c == '\\' || c == '\n' || c == '\r' {
				break
			}
			_, size := l.peekAt(0)
			l.advance(size)
		}
	}
	p.End = l.pos
	return p
}

// TemplatePart scans the next piece of a template string.
func (l *Lexer) TemplatePart() Part {
	p := Part{Start: l.pos}
	c := l.byteAt(0)
	switch {
	case l.eof():
		p.Kind = PartUnterminated
	case c == '`':
		p.Kind = PartClose
		l.advance(1)
	case c == '\\':
		p.Kind = PartEscape
		l.scanEscape()
	case c == '$' && l.byteAt(1) == '{':
		p.Kind = PartSubstitution
		l.advance(2)
	default:
		p.Kind = PartFragment
		for !l.eof() {
			c = l.byteAt(0)
			if c == '`' || c == '\\' || (c == '$' && l.byteAt(1) == '{') {
				break
			}
			_, size := l.peekAt(0)
			l.advance(size)
		}
	}
	p.End = l.pos
	return p
}

func (l *Lexer) scanEscape() {
	if n := l.unicodeEscapeLen(); n > 0 {
		l.advance(n)
		return
	}
	l.advance(1)
	c := l.byteAt(0)
	switch {
	case l.eof():
		return
	case c >= '0' && c <= '7':
		n := 1
		for n < 3 && l.byteAt(n) >= '0' && l.byteAt(n) <= '7' {
			n++
		}
		l.advance(n)
	case c == 'x':
		if isHexDigit(l.byteAt(1)) && isHexDigit(l.byteAt(2)) {
			l.advance(3)
		} else {
			l.advance(1)
		}
	case c == '\r' && l.byteAt(1) == '\n':
		l.advance(2)
	default:
		_, size := l.peekAt(0)
		l.advance(size)
	}
}
