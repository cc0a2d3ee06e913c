package grammar

import "sort"

// NodeTypeRef names a node kind in a node-types listing.
type NodeTypeRef struct {
	Type  string `json:"type"  yaml:"type"`
	Named bool   `json:"named" yaml:"named"`
}

// FieldInfo describes a field of a node kind.
type FieldInfo struct {
	Multiple bool          `json:"multiple" yaml:"multiple"`
	Required bool          `json:"required" yaml:"required"`
	Types    []NodeTypeRef `json:"types"    yaml:"types"`
}

// NodeType describes one node kind, in the shape of tree-sitter's node-types.json.
type NodeType struct {
	Type     string               `json:"type"               yaml:"type"`
	Named    bool                 `json:"named"              yaml:"named"`
	Subtypes []NodeTypeRef        `json:"subtypes,omitempty" yaml:"subtypes,omitempty"`
	Fields   map[string]FieldInfo `json:"fields,omitempty"   yaml:"fields,omitempty"`
}

type fieldSpec struct {
	field    FieldID
	types    []Symbol
	tokens   []string
	multiple bool
	required bool
}

var kindFields = map[Symbol][]fieldSpec{
	SymExportStatement: {
		{field: FieldDeclaration, types: []Symbol{SymDeclaration}},
		{field: FieldSource, types: []Symbol{SymString}},
		{field: FieldValue, types: []Symbol{SymExpression}},
	},
	SymExportSpecifier: {
		{field: FieldName, types: []Symbol{SymIdentifier, SymString}, tokens: []string{"default"}, required: true},
		{field: FieldAlias, types: []Symbol{SymIdentifier, SymString}, tokens: []string{"default"}},
	},
	SymImportStatement: {
		{field: FieldSource, types: []Symbol{SymString}, required: true},
	},
	SymImportSpecifier: {
		{field: FieldName, types: []Symbol{SymIdentifier, SymString}, tokens: []string{"default"}, required: true},
		{field: FieldAlias, types: []Symbol{SymIdentifier}},
	},
	SymLexicalDeclaration: {
		{field: FieldKind, tokens: []string{"let", "const"}, required: true},
	},
	SymUsingDeclaration: {
		{field: FieldKind, tokens: []string{"using"}, required: true},
	},
	SymVariableDeclarator: {
		{field: FieldName, types: []Symbol{SymIdentifier, SymObjectPattern, SymArrayPattern}, required: true},
		{field: FieldValue, types: []Symbol{SymExpression}},
	},
	SymIfStatement: {
		{field: FieldCondition, types: []Symbol{SymParenthesizedExpression}, required: true},
		{field: FieldConsequence, types: []Symbol{SymStatement}, required: true},
		{field: FieldAlternative, types: []Symbol{SymElseClause}},
	},
	SymSwitchStatement: {
		{field: FieldValue, types: []Symbol{SymParenthesizedExpression}, required: true},
		{field: FieldBody, types: []Symbol{SymSwitchBody}, required: true},
	},
	SymForStatement: {
		{field: FieldInitializer, types: []Symbol{SymLexicalDeclaration, SymVariableDeclaration, SymExpression, SymSequenceExpression, SymEmptyStatement}, required: true},
		{field: FieldCondition, types: []Symbol{SymExpression, SymSequenceExpression, SymEmptyStatement}, required: true},
		{field: FieldIncrement, types: []Symbol{SymExpression, SymSequenceExpression}},
		{field: FieldBody, types: []Symbol{SymStatement}, required: true},
	},
	SymForInStatement: {
		{field: FieldKind, tokens: []string{"var", "let", "const", "using"}},
		{field: FieldLeft, types: []Symbol{SymIdentifier, SymMemberExpression, SymSubscriptExpression, SymObjectPattern, SymArrayPattern, SymParenthesizedExpression, SymUndefined}, required: true},
		{field: FieldValue, types: []Symbol{SymIdentifier, SymExpression}},
		{field: FieldOperator, tokens: []string{"in", "of"}, required: true},
		{field: FieldRight, types: []Symbol{SymExpression, SymSequenceExpression}, required: true},
		{field: FieldBody, types: []Symbol{SymStatement}, required: true},
	},
	SymWhileStatement: {
		{field: FieldCondition, types: []Symbol{SymParenthesizedExpression}, required: true},
		{field: FieldBody, types: []Symbol{SymStatement}, required: true},
	},
	SymDoStatement: {
		{field: FieldBody, types: []Symbol{SymStatement}, required: true},
		{field: FieldCondition, types: []Symbol{SymParenthesizedExpression}, required: true},
	},
	SymTryStatement: {
		{field: FieldBody, types: []Symbol{SymStatementBlock}, required: true},
		{field: FieldHandler, types: []Symbol{SymCatchClause}},
		{field: FieldFinalizer, types: []Symbol{SymFinallyClause}},
	},
	SymWithStatement: {
		{field: FieldObject, types: []Symbol{SymParenthesizedExpression}, required: true},
		{field: FieldBody, types: []Symbol{SymStatement}, required: true},
	},
	SymBreakStatement: {
		{field: FieldLabel, types: []Symbol{SymStatementIdentifier}},
	},
	SymContinueStatement: {
		{field: FieldLabel, types: []Symbol{SymStatementIdentifier}},
	},
	SymLabeledStatement: {
		{field: FieldLabel, types: []Symbol{SymStatementIdentifier}, required: true},
		{field: FieldBody, types: []Symbol{SymStatement}, required: true},
	},
	SymSwitchCase: {
		{field: FieldValue, types: []Symbol{SymExpression, SymSequenceExpression}, required: true},
		{field: FieldBody, types: []Symbol{SymStatement}, multiple: true},
	},
	SymSwitchDefault: {
		{field: FieldBody, types: []Symbol{SymStatement}, multiple: true},
	},
	SymCatchClause: {
		{field: FieldParameter, types: []Symbol{SymIdentifier, SymObjectPattern, SymArrayPattern}},
		{field: FieldBody, types: []Symbol{SymStatementBlock}, required: true},
	},
	SymFinallyClause: {
		{field: FieldBody, types: []Symbol{SymStatementBlock}, required: true},
	},
	SymAssignmentPattern: {
		{field: FieldLeft, types: []Symbol{SymPattern}, required: true},
		{field: FieldRight, types: []Symbol{SymExpression}, required: true},
	},
	SymObjectAssignmentPattern: {
		{field: FieldLeft, types: []Symbol{SymShorthandPropertyIdentifierPattern, SymObjectPattern, SymArrayPattern}, required: true},
		{field: FieldRight, types: []Symbol{SymExpression}, required: true},
	},
	SymFunctionExpression: {
		{field: FieldName, types: []Symbol{SymIdentifier}},
		{field: FieldParameters, types: []Symbol{SymFormalParameters}, required: true},
		{field: FieldBody, types: []Symbol{SymStatementBlock}, required: true},
	},
	SymFunctionDeclaration: {
		{field: FieldName, types: []Symbol{SymIdentifier}, required: true},
		{field: FieldParameters, types: []Symbol{SymFormalParameters}, required: true},
		{field: FieldBody, types: []Symbol{SymStatementBlock}, required: true},
	},
	SymArrowFunction: {
		{field: FieldParameter, types: []Symbol{SymIdentifier}},
		{field: FieldParameters, types: []Symbol{SymFormalParameters}},
		{field: FieldBody, types: []Symbol{SymExpression, SymStatementBlock}, required: true},
	},
	SymCallExpression: {
		{field: FieldFunction, types: []Symbol{SymExpression, SymImport}, required: true},
		{field: FieldOptionalChain, types: []Symbol{SymOptionalChain}},
		{field: FieldArguments, types: []Symbol{SymArguments, SymTemplateString}, required: true},
	},
	SymMemberExpression: {
		{field: FieldObject, types: []Symbol{SymExpression, SymImport}, required: true},
		{field: FieldOptionalChain, types: []Symbol{SymOptionalChain}},
		{field: FieldProperty, types: []Symbol{SymPropertyIdentifier}, required: true},
	},
	SymSubscriptExpression: {
		{field: FieldObject, types: []Symbol{SymExpression}, required: true},
		{field: FieldOptionalChain, types: []Symbol{SymOptionalChain}},
		{field: FieldIndex, types: []Symbol{SymExpression, SymSequenceExpression}, required: true},
	},
	SymAssignmentExpression: {
		{field: FieldLeft, types: []Symbol{SymIdentifier, SymMemberExpression, SymSubscriptExpression, SymObjectPattern, SymArrayPattern, SymParenthesizedExpression, SymUndefined}, required: true},
		{field: FieldRight, types: []Symbol{SymExpression}, required: true},
	},
	SymAugmentedAssignmentExpression: {
		{field: FieldLeft, types: []Symbol{SymIdentifier, SymMemberExpression, SymSubscriptExpression, SymParenthesizedExpression}, required: true},
		{field: FieldOperator, tokens: augmentedAssignmentOperators[:], required: true},
		{field: FieldRight, types: []Symbol{SymExpression}, required: true},
	},
	SymTernaryExpression: {
		{field: FieldCondition, types: []Symbol{SymExpression}, required: true},
		{field: FieldConsequence, types: []Symbol{SymExpression}, required: true},
		{field: FieldAlternative, types: []Symbol{SymExpression}, required: true},
	},
	SymBinaryExpression: {
		{field: FieldLeft, types: []Symbol{SymExpression}, required: true},
		{field: FieldOperator, tokens: binaryOperatorTokens(), required: true},
		{field: FieldRight, types: []Symbol{SymExpression}, required: true},
	},
	SymUnaryExpression: {
		{field: FieldOperator, tokens: unaryOperators[:], required: true},
		{field: FieldArgument, types: []Symbol{SymExpression}, required: true},
	},
	SymUpdateExpression: {
		{field: FieldOperator, tokens: []string{"++", "--"}, required: true},
		{field: FieldArgument, types: []Symbol{SymExpression}, required: true},
	},
	SymMethodDefinition: {
		{field: FieldName, types: []Symbol{SymPropertyIdentifier, SymString, SymNumber, SymComputedPropertyName}, required: true},
		{field: FieldParameters, types: []Symbol{SymFormalParameters}, required: true},
		{field: FieldBody, types: []Symbol{SymStatementBlock}, required: true},
	},
	SymPair: {
		{field: FieldKey, types: []Symbol{SymPropertyIdentifier, SymString, SymNumber, SymComputedPropertyName}, required: true},
		{field: FieldValue, types: []Symbol{SymExpression}, required: true},
	},
	SymPairPattern: {
		{field: FieldKey, types: []Symbol{SymPropertyIdentifier, SymString, SymNumber, SymComputedPropertyName}, required: true},
		{field: FieldValue, types: []Symbol{SymPattern, SymAssignmentPattern}, required: true},
	},
}

func binaryOperatorTokens() []string {
	out := make([]string, 0, len(binaryOperatorSpecs))
	for _, spec := range binaryOperatorSpecs {
		out = append(out, spec.op)
	}
	return out
}

// NodeTypes returns the node-types listing of every visible named kind and supertype,
// sorted by type name.
func (l *Language) NodeTypes() []NodeType {
	var out []NodeType
	for i := range l.names {
		sym := Symbol(i)
		md := l.metadata[sym]
		if !md.Named || sym == SymError {
			continue
		}
		nt := NodeType{Type: l.names[sym], Named: true}
		if md.Supertype {
			for _, member := range l.supertypes[sym] {
				nt.Subtypes = append(nt.Subtypes, l.ref(member))
			}
		}
		if specs, ok := kindFields[sym]; ok {
			nt.Fields = make(map[string]FieldInfo, len(specs))
			for _, spec := range specs {
				info := FieldInfo{Multiple: spec.multiple, Required: spec.required}
				for _, t := range spec.types {
					info.Types = append(info.Types, l.ref(t))
				}
				for _, tok := range spec.tokens {
					info.Types = append(info.Types, NodeTypeRef{Type: tok, Named: false})
				}
				nt.Fields[fieldNames[spec.field]] = info
			}
		}
		out = append(out, nt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// FieldsForKind returns the field names a node kind may carry.
func (l *Language) FieldsForKind(sym Symbol) []string {
	specs := kindFields[sym]
	out := make([]string, 0, len(specs))
	for _, spec := range specs {
		out = append(out, fieldNames[spec.field])
	}
	return out
}

func (l *Language) ref(sym Symbol) NodeTypeRef {
	return NodeTypeRef{Type: l.names[sym], Named: l.metadata[sym].Named}
}
