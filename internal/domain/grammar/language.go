// Package grammar holds the ucode grammar descriptor: the immutable table of symbols,
// fields, supertypes, reserved words and operator precedences that the parser engine is
// driven by. The descriptor is built once per process and shared read-only.
package grammar

import (
	"sort"
	"sync"
)

// Name is the language name reported by the descriptor.
const Name = "ucode"

// ABIVersion is the tree-sitter language ABI the descriptor models.
const ABIVersion uint32 = 14

// SymbolMetadata describes how a symbol appears in syntax trees.
type SymbolMetadata struct {
	Visible   bool
	Named     bool
	Supertype bool
}

// OperatorInfo describes a binary operator.
type OperatorInfo struct {
	Operator   string
	Level      string
	Precedence int // higher binds tighter
	RightAssoc bool
}

type symbolKey struct {
	name  string
	named bool
}

// Language is the grammar descriptor. All methods are safe for concurrent use; a
// Language is never mutated after construction.
type Language struct {
	names      []string
	metadata   []SymbolMetadata
	symbols    map[symbolKey]Symbol
	fields     map[string]FieldID
	supertypes map[Symbol][]Symbol
	reserved   map[string]struct{}
	reservedID map[string]struct{}
	keywords   map[string]Symbol
	binary     map[string]OperatorInfo
	unary      map[string]struct{}
	augmented  map[string]struct{}
	levels     map[string]int
}

var (
	defaultLanguage     *Language //nolint:gochecknoglobals // process-wide descriptor
	defaultLanguageOnce sync.Once //nolint:gochecknoglobals // one-time initialization guard
)

// Get returns the process-wide ucode grammar descriptor. It never returns nil and
// returns the same pointer on every call.
func Get() *Language {
	defaultLanguageOnce.Do(func() {
		defaultLanguage = build()
	})
	return defaultLanguage
}

func build() *Language {
	total := int(symAnonStart) + len(anonymousTokens)
	l := &Language{
		names:      make([]string, total),
		metadata:   make([]SymbolMetadata, total),
		symbols:    make(map[symbolKey]Symbol, total),
		fields:     make(map[string]FieldID, len(fieldNames)),
		supertypes: supertypeMembers,
		reserved:   make(map[string]struct{}, len(reservedWords)),
		reservedID: make(map[string]struct{}, len(reservedIdentifiers)),
		keywords:   make(map[string]Symbol),
		binary:     make(map[string]OperatorInfo, len(binaryOperatorSpecs)),
		unary:      make(map[string]struct{}, len(unaryOperators)),
		augmented:  make(map[string]struct{}, len(augmentedAssignmentOperators)),
		levels:     make(map[string]int, len(precedenceLevels)),
	}

	for i, name := range namedSymbolNames {
		sym := Symbol(i)
		l.names[i] = name
		_, isSuper := supertypeMembers[sym]
		l.metadata[i] = SymbolMetadata{
			Visible:   !isSuper && sym != SymEnd,
			Named:     sym != SymEnd,
			Supertype: isSuper,
		}
		l.symbols[symbolKey{name, true}] = sym
	}
	for i, text := range anonymousTokens {
		sym := symAnonStart + Symbol(i)
		l.names[sym] = text
		l.metadata[sym] = SymbolMetadata{Visible: true}
		l.symbols[symbolKey{text, false}] = sym
		if isWord(text) {
			l.keywords[text] = sym
		}
	}
	// Keyword-like named tokens.
	for _, sym := range []Symbol{SymTrue, SymFalse, SymNull, SymUndefined, SymThis} {
		l.keywords[l.names[sym]] = sym
	}

	for i, name := range fieldNames {
		if i == 0 {
			continue
		}
		l.fields[name] = FieldID(i)
	}
	for _, w := range reservedWords {
		l.reserved[w] = struct{}{}
	}
	for _, w := range reservedIdentifiers {
		l.reservedID[w] = struct{}{}
	}
	for i, name := range precedenceLevels {
		l.levels[name] = len(precedenceLevels) - i
	}
	for _, spec := range binaryOperatorSpecs {
		l.binary[spec.op] = OperatorInfo{
			Operator:   spec.op,
			Level:      spec.level,
			Precedence: l.levels[spec.level],
			RightAssoc: spec.rightAssoc,
		}
	}
	for _, op := range unaryOperators {
		l.unary[op] = struct{}{}
	}
	for _, op := range augmentedAssignmentOperators {
		l.augmented[op] = struct{}{}
	}
	return l
}

func isWord(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && c != '_' {
			return false
		}
	}
	return s != ""
}

// Name returns the language name.
func (l *Language) Name() string { return Name }

// ABIVersion returns the modelled tree-sitter ABI version.
func (l *Language) ABIVersion() uint32 { return ABIVersion }

// SymbolCount returns the number of symbols, including hidden supertypes.
func (l *Language) SymbolCount() uint32 { return uint32(len(l.names)) }

// SymbolName returns the kind name of a symbol, or "" if it is out of range.
func (l *Language) SymbolName(sym Symbol) string {
	if int(sym) >= len(l.names) {
		return ""
	}
	return l.names[sym]
}

// SymbolForName looks a symbol up by kind name.
func (l *Language) SymbolForName(name string, named bool) (Symbol, bool) {
	sym, ok := l.symbols[symbolKey{name, named}]
	return sym, ok
}

// MustSymbol is SymbolForName for anonymous tokens the caller knows exist.
func (l *Language) MustSymbol(token string) Symbol {
	sym, ok := l.symbols[symbolKey{token, false}]
	if !ok {
		panic("grammar: unknown token " + token)
	}
	return sym
}

// SymbolMetadata returns the metadata of a symbol.
func (l *Language) SymbolMetadata(sym Symbol) SymbolMetadata {
	if int(sym) >= len(l.metadata) {
		return SymbolMetadata{}
	}
	return l.metadata[sym]
}

// SymbolIsNamed reports whether the symbol is a named node kind.
func (l *Language) SymbolIsNamed(sym Symbol) bool { return l.SymbolMetadata(sym).Named }

// SymbolIsVisible reports whether nodes of the symbol appear in trees.
func (l *Language) SymbolIsVisible(sym Symbol) bool { return l.SymbolMetadata(sym).Visible }

// FieldCount returns the number of field names.
func (l *Language) FieldCount() uint32 { return uint32(len(fieldNames) - 1) }

// FieldNameForID returns the name of a field, or "" for FieldNone or unknown IDs.
func (l *Language) FieldNameForID(id FieldID) string {
	if int(id) >= len(fieldNames) {
		return ""
	}
	return fieldNames[id]
}

// FieldIDForName returns the ID of a field name, or FieldNone.
func (l *Language) FieldIDForName(name string) FieldID {
	return l.fields[name]
}

// Supertypes returns the hidden supertype symbols in ascending order.
func (l *Language) Supertypes() []Symbol {
	out := make([]Symbol, 0, len(l.supertypes))
	for sym := range l.supertypes {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Subtypes returns the direct members of a supertype. The returned slice must not be
// modified.
func (l *Language) Subtypes(super Symbol) []Symbol {
	return l.supertypes[super]
}

// IsSubtype reports whether sym belongs to super, directly or through nested supertypes.
func (l *Language) IsSubtype(super, sym Symbol) bool {
	for _, member := range l.supertypes[super] {
		if member == sym {
			return true
		}
		if _, nested := l.supertypes[member]; nested && l.IsSubtype(member, sym) {
			return true
		}
	}
	return false
}

// IsReserved reports whether word is in the global reserved word set and so cannot be
// an identifier.
func (l *Language) IsReserved(word string) bool {
	_, ok := l.reserved[word]
	return ok
}

// IsReservedIdentifier reports whether word is a keyword that may still be used as an
// identifier (get, set, static, export, let).
func (l *Language) IsReservedIdentifier(word string) bool {
	_, ok := l.reservedID[word]
	return ok
}

// KeywordSymbol returns the token symbol a word lexes to when it is a keyword.
func (l *Language) KeywordSymbol(word string) (Symbol, bool) {
	sym, ok := l.keywords[word]
	return sym, ok
}

// BinaryOperator returns the precedence information of a binary operator.
func (l *Language) BinaryOperator(op string) (OperatorInfo, bool) {
	info, ok := l.binary[op]
	return info, ok
}

// BinaryOperators returns every binary operator ordered by descending precedence.
func (l *Language) BinaryOperators() []OperatorInfo {
	out := make([]OperatorInfo, 0, len(l.binary))
	for _, info := range l.binary {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Precedence != out[j].Precedence {
			return out[i].Precedence > out[j].Precedence
		}
		return out[i].Operator < out[j].Operator
	})
	return out
}

// IsUnaryOperator reports whether op is a prefix unary operator.
func (l *Language) IsUnaryOperator(op string) bool {
	_, ok := l.unary[op]
	return ok
}

// IsAugmentedAssignment reports whether op is a compound assignment operator.
func (l *Language) IsAugmentedAssignment(op string) bool {
	_, ok := l.augmented[op]
	return ok
}

// Precedence returns the numeric precedence of a named level (higher binds tighter),
// or 0 for unknown levels.
func (l *Language) Precedence(level string) int {
	return l.levels[level]
}

// PrecedenceLevels returns the precedence ladder, tightest first.
func (l *Language) PrecedenceLevels() []string {
	return append([]string(nil), precedenceLevels[:]...)
}

// Externals returns the names of the tokens produced by the external scanner.
func (l *Language) Externals() []string {
	return append([]string(nil), externalTokens[:]...)
}

// Extras returns the tokens that may appear between any two tokens.
func (l *Language) Extras() []string {
	return append([]string(nil), extraTokens[:]...)
}

// WordSymbol returns the symbol used for keyword extraction.
func (l *Language) WordSymbol() Symbol { return SymIdentifier }
