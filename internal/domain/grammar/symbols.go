package grammar

// Symbol identifies a node kind in the ucode grammar.
type Symbol uint16

// FieldID identifies a field name. Zero means "no field".
type FieldID uint16

// Named node kinds produced by the parser.
const (
	SymEnd Symbol = iota
	SymError
	SymProgram
	SymHashBangLine
	SymExportStatement
	SymNamespaceExport
	SymExportClause
	SymExportSpecifier
	SymImport
	SymImportStatement
	SymImportClause
	SymNamespaceImport
	SymNamedImports
	SymImportSpecifier
	SymImportAttribute
	SymExpressionStatement
	SymVariableDeclaration
	SymLexicalDeclaration
	SymUsingDeclaration
	SymVariableDeclarator
	SymStatementBlock
	SymElseClause
	SymIfStatement
	SymSwitchStatement
	SymForStatement
	SymForInStatement
	SymWhileStatement
	SymDoStatement
	SymTryStatement
	SymWithStatement
	SymBreakStatement
	SymContinueStatement
	SymDebuggerStatement
	SymReturnStatement
	SymThrowStatement
	SymEmptyStatement
	SymLabeledStatement
	SymSwitchBody
	SymSwitchCase
	SymSwitchDefault
	SymCatchClause
	SymFinallyClause
	SymParenthesizedExpression
	SymObject
	SymObjectPattern
	SymAssignmentPattern
	SymObjectAssignmentPattern
	SymArray
	SymArrayPattern
	SymFunctionExpression
	SymFunctionDeclaration
	SymArrowFunction
	SymOptionalChain
	SymCallExpression
	SymMemberExpression
	SymSubscriptExpression
	SymAssignmentExpression
	SymAugmentedAssignmentExpression
	SymSpreadElement
	SymTernaryExpression
	SymBinaryExpression
	SymUnaryExpression
	SymUpdateExpression
	SymSequenceExpression
	SymString
	SymStringFragment
	SymEscapeSequence
	SymComment
	SymHTMLComment
	SymTemplateString
	SymTemplateSubstitution
	SymNumber
	SymIdentifier
	SymMetaProperty
	SymTrue
	SymFalse
	SymNull
	SymUndefined
	SymThis
	SymArguments
	SymFormalParameters
	SymRestPattern
	SymMethodDefinition
	SymPair
	SymPairPattern
	SymComputedPropertyName
	SymPropertyIdentifier
	SymShorthandPropertyIdentifier
	SymShorthandPropertyIdentifierPattern
	SymStatementIdentifier

	// Supertypes are hidden: they never appear as nodes, only in the descriptor.
	SymStatement
	SymDeclaration
	SymExpression
	SymPrimaryExpression
	SymPattern

	symAnonStart
)

var namedSymbolNames = [...]string{
	SymEnd:                                "end",
	SymError:                              "ERROR",
	SymProgram:                            "program",
	SymHashBangLine:                       "hash_bang_line",
	SymExportStatement:                    "export_statement",
	SymNamespaceExport:                    "namespace_export",
	SymExportClause:                       "export_clause",
	SymExportSpecifier:                    "export_specifier",
	SymImport:                             "import",
	SymImportStatement:                    "import_statement",
	SymImportClause:                       "import_clause",
	SymNamespaceImport:                    "namespace_import",
	SymNamedImports:                       "named_imports",
	SymImportSpecifier:                    "import_specifier",
	SymImportAttribute:                    "import_attribute",
	SymExpressionStatement:                "expression_statement",
	SymVariableDeclaration:                "variable_declaration",
	SymLexicalDeclaration:                 "lexical_declaration",
	SymUsingDeclaration:                   "using_declaration",
	SymVariableDeclarator:                 "variable_declarator",
	SymStatementBlock:                     "statement_block",
	SymElseClause:                         "else_clause",
	SymIfStatement:                        "if_statement",
	SymSwitchStatement:                    "switch_statement",
	SymForStatement:                       "for_statement",
	SymForInStatement:                     "for_in_statement",
	SymWhileStatement:                     "while_statement",
	SymDoStatement:                        "do_statement",
	SymTryStatement:                       "try_statement",
	SymWithStatement:                      "with_statement",
	SymBreakStatement:                     "break_statement",
	SymContinueStatement:                  "continue_statement",
	SymDebuggerStatement:                  "debugger_statement",
	SymReturnStatement:                    "return_statement",
	SymThrowStatement:                     "throw_statement",
	SymEmptyStatement:                     "empty_statement",
	SymLabeledStatement:                   "labeled_statement",
	SymSwitchBody:                         "switch_body",
	SymSwitchCase:                         "switch_case",
	SymSwitchDefault:                      "switch_default",
	SymCatchClause:                        "catch_clause",
	SymFinallyClause:                      "finally_clause",
	SymParenthesizedExpression:            "parenthesized_expression",
	SymObject:                             "object",
	SymObjectPattern:                      "object_pattern",
	SymAssignmentPattern:                  "assignment_pattern",
	SymObjectAssignmentPattern:            "object_assignment_pattern",
	SymArray:                              "array",
	SymArrayPattern:                       "array_pattern",
	SymFunctionExpression:                 "function_expression",
	SymFunctionDeclaration:                "function_declaration",
	SymArrowFunction:                      "arrow_function",
	SymOptionalChain:                      "optional_chain",
	SymCallExpression:                     "call_expression",
	SymMemberExpression:                   "member_expression",
	SymSubscriptExpression:                "subscript_expression",
	SymAssignmentExpression:               "assignment_expression",
	SymAugmentedAssignmentExpression:      "augmented_assignment_expression",
	SymSpreadElement:                      "spread_element",
	SymTernaryExpression:                  "ternary_expression",
	SymBinaryExpression:                   "binary_expression",
	SymUnaryExpression:                    "unary_expression",
	SymUpdateExpression:                   "update_expression",
	SymSequenceExpression:                 "sequence_expression",
	SymString:                             "string",
	SymStringFragment:                     "string_fragment",
	SymEscapeSequence:                     "escape_sequence",
	SymComment:                            "comment",
	SymHTMLComment:                        "html_comment",
	SymTemplateString:                     "template_string",
	SymTemplateSubstitution:               "template_substitution",
	SymNumber:                             "number",
	SymIdentifier:                         "identifier",
	SymMetaProperty:                       "meta_property",
	SymTrue:                               "true",
	SymFalse:                              "false",
	SymNull:                               "null",
	SymUndefined:                          "undefined",
	SymThis:                               "this",
	SymArguments:                          "arguments",
	SymFormalParameters:                   "formal_parameters",
	SymRestPattern:                        "rest_pattern",
	SymMethodDefinition:                   "method_definition",
	SymPair:                               "pair",
	SymPairPattern:                        "pair_pattern",
	SymComputedPropertyName:               "computed_property_name",
	SymPropertyIdentifier:                 "property_identifier",
	SymShorthandPropertyIdentifier:        "shorthand_property_identifier",
	SymShorthandPropertyIdentifierPattern: "shorthand_property_identifier_pattern",
	SymStatementIdentifier:                "statement_identifier",
	SymStatement:                          "statement",
	SymDeclaration:                        "declaration",
	SymExpression:                         "expression",
	SymPrimaryExpression:                  "primary_expression",
	SymPattern:                            "pattern",
}

// anonymousTokens lists every literal token of the grammar. Their symbols follow the
// named symbols in this order.
var anonymousTokens = [...]string{
	// keywords
	"export", "default", "as", "from", "with", "var", "let", "const", "using", "of",
	"in", "if", "else", "switch", "for", "while", "do", "try", "break", "continue",
	"debugger", "return", "throw", "case", "catch", "finally", "function", "typeof",
	"void", "delete", "meta", "get", "set", "static", "import",
	// punctuation
	"{", "}", "(", ")", "[", "]", ";", ",", ":", ".", "...", "?.", "?", "=>",
	"\"", "'", "`", "${",
	// assignment
	"=", "+=", "-=", "*=", "/=", "%=", "^=", "&=", "|=", ">>=", ">>>=", "<<=", "**=",
	"&&=", "||=", "??=",
	// binary and unary
	"&&", "||", ">>", ">>>", "<<", "&", "^", "|", "+", "-", "*", "/", "%", "**", "<",
	"<=", "==", "===", "!=", "!==", ">=", ">", "??", "!", "~", "++", "--",
}

// Field names in ID order. Index 0 is reserved.
var fieldNames = [...]string{
	"",
	"alias",
	"alternative",
	"argument",
	"arguments",
	"body",
	"condition",
	"consequence",
	"declaration",
	"finalizer",
	"function",
	"handler",
	"increment",
	"index",
	"initializer",
	"key",
	"kind",
	"label",
	"left",
	"name",
	"object",
	"operator",
	"optional_chain",
	"parameter",
	"parameters",
	"property",
	"right",
	"source",
	"value",
}

// Field IDs, in the order of fieldNames.
const (
	FieldNone FieldID = iota
	FieldAlias
	FieldAlternative
	FieldArgument
	FieldArguments
	FieldBody
	FieldCondition
	FieldConsequence
	FieldDeclaration
	FieldFinalizer
	FieldFunction
	FieldHandler
	FieldIncrement
	FieldIndex
	FieldInitializer
	FieldKey
	FieldKind
	FieldLabel
	FieldLeft
	FieldName
	FieldObject
	FieldOperator
	FieldOptionalChain
	FieldParameter
	FieldParameters
	FieldProperty
	FieldRight
	FieldSource
	FieldValue
)

var supertypeMembers = map[Symbol][]Symbol{
	SymStatement: {
		SymExportStatement, SymImportStatement, SymDebuggerStatement, SymExpressionStatement,
		SymDeclaration, SymStatementBlock, SymIfStatement, SymSwitchStatement,
		SymForStatement, SymForInStatement, SymWhileStatement, SymDoStatement,
		SymTryStatement, SymWithStatement, SymBreakStatement, SymContinueStatement,
		SymReturnStatement, SymThrowStatement, SymEmptyStatement, SymLabeledStatement,
	},
	SymDeclaration: {
		SymFunctionDeclaration, SymLexicalDeclaration, SymVariableDeclaration,
		SymUsingDeclaration,
	},
	SymExpression: {
		SymPrimaryExpression, SymAssignmentExpression, SymAugmentedAssignmentExpression,
		SymArrowFunction, SymUnaryExpression, SymBinaryExpression, SymTernaryExpression,
		SymUpdateExpression,
	},
	SymPrimaryExpression: {
		SymSubscriptExpression, SymMemberExpression, SymParenthesizedExpression,
		SymIdentifier, SymUndefined, SymNumber, SymString, SymTemplateString, SymTrue,
		SymFalse, SymNull, SymThis, SymObject, SymArray, SymFunctionExpression,
		SymMetaProperty, SymCallExpression,
	},
	SymPattern: {
		SymMemberExpression, SymSubscriptExpression, SymIdentifier, SymUndefined,
		SymObjectPattern, SymArrayPattern, SymRestPattern,
	},
}

// reservedWords is the global reserved word set of the ucode grammar.
var reservedWords = [...]string{
	"break", "case", "catch", "const", "continue", "debugger", "default", "delete",
	"do", "else", "export", "false", "finally", "for", "function", "if", "import", "in",
	"null", "return", "switch", "throw", "true", "try", "typeof", "var", "void", "while",
	"with",
}

// reservedIdentifiers are keywords that may still be used as identifiers.
var reservedIdentifiers = [...]string{"get", "set", "static", "export", "let"}

// Precedence ladder, tightest binding first.
var precedenceLevels = [...]string{
	"member",
	"template_call",
	"call",
	"update_expression",
	"unary_void",
	"binary_exp",
	"binary_times",
	"binary_plus",
	"binary_shift",
	"binary_compare",
	"binary_relation",
	"binary_equality",
	"bitwise_and",
	"bitwise_xor",
	"bitwise_or",
	"logical_and",
	"logical_or",
	"ternary",
	"arrow",
	"sequence_expression",
}

type binaryOperatorSpec struct {
	op         string
	level      string
	rightAssoc bool
}

var binaryOperatorSpecs = [...]binaryOperatorSpec{
	{"&&", "logical_and", false},
	{"||", "logical_or", false},
	{">>", "binary_shift", false},
	{">>>", "binary_shift", false},
	{"<<", "binary_shift", false},
	{"&", "bitwise_and", false},
	{"^", "bitwise_xor", false},
	{"|", "bitwise_or", false},
	{"+", "binary_plus", false},
	{"-", "binary_plus", false},
	{"*", "binary_times", false},
	{"/", "binary_times", false},
	{"%", "binary_times", false},
	{"**", "binary_exp", true},
	{"<", "binary_relation", false},
	{"<=", "binary_relation", false},
	{"==", "binary_equality", false},
	{"===", "binary_equality", false},
	{"!=", "binary_equality", false},
	{"!==", "binary_equality", false},
	{">=", "binary_relation", false},
	{">", "binary_relation", false},
	{"??", "ternary", false},
	{"in", "binary_relation", false},
}

var unaryOperators = [...]string{"!", "~", "-", "+", "typeof", "void", "delete"}

var augmentedAssignmentOperators = [...]string{
	"+=", "-=", "*=", "/=", "%=", "^=", "&=", "|=", ">>=", ">>>=", "<<=", "**=", "&&=",
	"||=", "??=",
}

var externalTokens = [...]string{
	"_automatic_semicolon",
	"_template_chars",
	"_ternary_qmark",
	"html_comment",
	"||",
	"escape_sequence",
	"jsx_text",
}

var extraTokens = [...]string{
	"comment",
	"html_comment",
	`/[\s\p{Zs}\uFEFF\u2028\u2029\u2060\u200B]/`,
}
