package extractor

import ts "github.com/tree-sitter/go-tree-sitter"

// ImportBinding records where a module-level local name comes from.
type ImportBinding struct {
	// LocalName is the identifier visible in the importing file: the alias
	// when one is given, otherwise the imported name.
	LocalName string
	// ModuleSpecifier is the import source with its quotes removed.
	ModuleSpecifier string
	// ImportedName is the name exported by the source module, or "default".
	ImportedName string
}

// IsDefault reports whether the binding is a default import.
func (b ImportBinding) IsDefault() bool {
	return b.ImportedName == "default"
}

// ImportTable maps local names to their bindings. When a name is bound twice
// the later import statement wins.
type ImportTable map[string]ImportBinding

// CallableKind distinguishes how the default export's callable is written.
type CallableKind int

const (
	// FunctionDecl: export default function Card(props) {}, or a named
	// function declaration exported by identifier.
	FunctionDecl CallableKind = iota
	// BoundExpression: const Card = (props) => ...; export default Card.
	BoundExpression
	// InlineExpression: export default (props) => ...
	InlineExpression
)

func (k CallableKind) String() string {
	switch k {
	case FunctionDecl:
		return "function_declaration"
	case BoundExpression:
		return "bound_expression"
	case InlineExpression:
		return "inline_expression"
	default:
		return "unknown"
	}
}

// ExportedCallable is the function a module exports as its default.
type ExportedCallable struct {
	Kind CallableKind
	// Name is the declared or bound identifier; empty for inline expressions.
	Name string
	// Node is the function_declaration, or the function/arrow expression.
	Node *ts.Node
}

// PropsTypeReference names the type annotating a component's props parameter.
type PropsTypeReference struct {
	TypeName string
	// SourceModule is the import specifier TypeName was imported from, or
	// empty when the type is declared locally.
	SourceModule string
	// ImportedName is the name to look up inside SourceModule.
	ImportedName string
}

// IsImported reports whether the declaration lives in another module.
func (r PropsTypeReference) IsImported() bool {
	return r.SourceModule != ""
}

// DeclarationKind tells interfaces from object-literal type aliases.
type DeclarationKind int

const (
	InterfaceDeclaration DeclarationKind = iota
	TypeAliasDeclaration
)

// TypeDeclaration is a located props type together with its member body.
type TypeDeclaration struct {
	Name string
	Kind DeclarationKind
	Node *ts.Node
	Body *ts.Node
}

// PropertyRow is one rendered line of the property table.
type PropertyRow struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Default     string `json:"default"`
}

// MemberSet is the ordered result of walking a props declaration.
type MemberSet struct {
	Rows []PropertyRow `json:"rows"`
	// MockAttributes are ready-to-render JSX attributes such as title='lorem'.
	MockAttributes []string `json:"mock_attributes"`
}

// NoDefault is rendered when a member has no @default tag.
const NoDefault = "-"

// MockProvider produces example attribute values for primitive member types.
type MockProvider interface {
	MockValue(typeName string) (string, bool)
}
