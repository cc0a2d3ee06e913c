package service

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"tree-sitter-ucode/internal/domain/syntax"
)

// Capture names produced by Highlights.
const (
	CaptureComment            = "comment"
	CaptureString             = "string"
	CaptureEscape             = "escape"
	CaptureNumber             = "number"
	CaptureConstant           = "constant"
	CaptureConstantBuiltin    = "constant.builtin"
	CaptureVariable           = "variable"
	CaptureVariableBuiltin    = "variable.builtin"
	CaptureProperty           = "property"
	CaptureLabel              = "label"
	CaptureFunction           = "function"
	CaptureFunctionMethod     = "function.method"
	CaptureEmbedded           = "embedded"
	CaptureKeyword            = "keyword"
	CaptureOperator           = "operator"
	CapturePunctuationBracket = "punctuation.bracket"
	CapturePunctuationDelim   = "punctuation.delimiter"
	CapturePunctuationSpecial = "punctuation.special"
)

// Capture is a highlighted span of a tree.
type Capture struct {
	Name  string       `json:"name"  yaml:"name"`
	Kind  string       `json:"kind"  yaml:"kind"`
	Range syntax.Range `json:"range" yaml:"range"`
}

var constantPattern = regexp.MustCompile(`^[A-Z_][A-Z0-9_]+$`)

var leafCaptures = map[string]string{
	"comment":         CaptureComment,
	"html_comment":    CaptureComment,
	"hash_bang_line":  CaptureComment,
	"escape_sequence": CaptureEscape,
	"number":          CaptureNumber,
	"true":            CaptureConstantBuiltin,
	"false":           CaptureConstantBuiltin,
	"null":            CaptureConstantBuiltin,
	"undefined":       CaptureConstantBuiltin,
	"this":            CaptureVariableBuiltin,

	"shorthand_property_identifier":         CaptureProperty,
	"shorthand_property_identifier_pattern": CaptureProperty,
	"statement_identifier":                  CaptureLabel,
}

var tokenCaptures = map[string]string{
	"(": CapturePunctuationBracket, ")": CapturePunctuationBracket,
	"[": CapturePunctuationBracket, "]": CapturePunctuationBracket,
	"{": CapturePunctuationBracket, "}": CapturePunctuationBracket,
	";": CapturePunctuationDelim, ".": CapturePunctuationDelim,
	",": CapturePunctuationDelim, ":": CapturePunctuationDelim,
	"${": CapturePunctuationSpecial,
	`"`:  "", "'": "", "`": "",
}

// Highlights returns the highlight captures of tree, parsed from src, in document order.
// A capture may be nested inside another one, as an escape sequence is inside its string.
func Highlights(tree *syntax.Tree, src []byte) []Capture {
	if tree == nil {
		return nil
	}
	var out []Capture
	var walk func(n *syntax.Node)
	walk = func(n *syntax.Node) {
		if n.IsMissing() {
			return
		}
		name, descend := captureFor(n, src)
		if name != "" {
			out = append(out, Capture{Name: name, Kind: n.Kind(), Range: n.Range()})
		}
		if !descend {
			return
		}
		for _, child := range n.Children() {
			walk(child)
		}
	}
	walk(tree.RootNode())
	return out
}

// captureFor names the capture of n and reports whether its children are visited.
func captureFor(n *syntax.Node, src []byte) (string, bool) {
	kind := n.Kind()
	if !n.IsNamed() {
		return tokenCapture(n), false
	}
	if name, ok := leafCaptures[kind]; ok {
		return name, false
	}

	switch kind {
	case "string", "template_string":
		return CaptureString, true
	case "template_substitution":
		return CaptureEmbedded, true
	case "string_fragment":
		return "", false
	case "identifier":
		return identifierCapture(n, src), false
	case "property_identifier":
		return propertyCapture(n), false
	}
	return "", true
}

func tokenCapture(n *syntax.Node) string {
	kind := n.Kind()
	if name, ok := tokenCaptures[kind]; ok {
		if kind == "}" && isKind(n.Parent(), "template_substitution") {
			return CapturePunctuationSpecial
		}
		return name
	}
	if isKind(n.Parent(), "string") || isKind(n.Parent(), "template_string") {
		return ""
	}
	if r, _ := utf8.DecodeRuneInString(kind); unicode.IsLetter(r) {
		return CaptureKeyword
	}
	return CaptureOperator
}

func identifierCapture(n *syntax.Node, src []byte) string {
	parent := n.Parent()
	field := n.FieldName()
	switch {
	case field == "function" && isKind(parent, "call_expression"):
		return CaptureFunction
	case field == "name" && (isKind(parent, "function_declaration") || isKind(parent, "function_expression")):
		return CaptureFunction
	case field == "name" && isKind(parent, "variable_declarator") && isFunction(parent.ChildByFieldName("value")):
		return CaptureFunction
	case field == "left" && isKind(parent, "assignment_expression") && isFunction(parent.ChildByFieldName("right")):
		return CaptureFunction
	case constantPattern.MatchString(n.Content(src)):
		return CaptureConstant
	}
	return CaptureVariable
}

func propertyCapture(n *syntax.Node) string {
	parent := n.Parent()
	field := n.FieldName()
	switch {
	case field == "name" && isKind(parent, "method_definition"):
		return CaptureFunctionMethod
	case field == "property" && isKind(parent, "member_expression") &&
		parent.FieldName() == "function" && isKind(parent.Parent(), "call_expression"):
		return CaptureFunctionMethod
	case field == "key" && isKind(parent, "pair") && isFunction(parent.ChildByFieldName("value")):
		return CaptureFunctionMethod
	}
	return CaptureProperty
}

func isKind(n *syntax.Node, kind string) bool {
	return n != nil && n.Kind() == kind
}

func isFunction(n *syntax.Node) bool {
	return isKind(n, "function_expression") || isKind(n, "arrow_function")
}
